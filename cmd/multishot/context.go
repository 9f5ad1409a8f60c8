package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"multishot/internal/config"
	"multishot/internal/document"
	"multishot/internal/logging"
	"multishot/internal/shot"
)

type commandContext struct {
	scriptFlag *string
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(scriptFlag, configFlag *string) *commandContext {
	return &commandContext{
		scriptFlag: scriptFlag,
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.Discard()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.Discard()
			return
		}
		c.logger = logger
	})
	return c.logger
}

// documentPath resolves which script document a command operates on: the
// --script flag when given, otherwise the configured default document.
func (c *commandContext) documentPath() (string, error) {
	if c.scriptFlag != nil && strings.TrimSpace(*c.scriptFlag) != "" {
		return config.ExpandPath(strings.TrimSpace(*c.scriptFlag))
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	if cfg.Paths.Document != "" {
		return cfg.Paths.Document, nil
	}
	return "", errors.New("no script document: pass --script or set paths.document in the config")
}

// openDocument loads the resolved document, creating an empty one when the
// file does not exist yet.
func (c *commandContext) openDocument() (*document.Document, error) {
	path, err := c.documentPath()
	if err != nil {
		return nil, err
	}
	doc, err := document.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return document.New(path), nil
		}
		return nil, err
	}
	return doc, nil
}

// withDocument runs fn against the resolved document and saves it on
// success.
func (c *commandContext) withDocument(fn func(*document.Document) error) error {
	doc, err := c.openDocument()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return doc.Save()
}

// projectRoot prefers the document's PROJ_ROOT variable over the
// configured root, matching how templates resolve.
func (c *commandContext) projectRoot(doc *document.Document) string {
	if doc != nil {
		if root := doc.Custom["PROJ_ROOT"]; root != "" {
			return root
		}
	}
	if cfg, err := c.ensureConfig(); err == nil {
		return cfg.Paths.ProjectRoot
	}
	return ""
}

// parseShotArgs accepts either a single composite identifier or the four
// components as separate arguments.
func parseShotArgs(args []string) (shot.Ref, error) {
	switch len(args) {
	case 1:
		return shot.Parse(args[0])
	case 4:
		ref := shot.Ref{Project: args[0], Episode: args[1], Sequence: args[2], Shot: args[3]}
		if !ref.Complete() {
			return shot.Ref{}, fmt.Errorf("shot components must all be non-empty")
		}
		return ref, nil
	default:
		return shot.Ref{}, fmt.Errorf("expected a shot identifier or 4 components, got %d arguments", len(args))
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
