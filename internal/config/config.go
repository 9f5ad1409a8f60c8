package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains filesystem roots and working directories.
type Paths struct {
	// ProjectRoot is the root that project trees live under, the
	// counterpart of the PROJ_ROOT document variable.
	ProjectRoot string `toml:"project_root"`
	// ImageRoot is the root rendered frames are published under, the
	// counterpart of the IMG_ROOT document variable.
	ImageRoot string `toml:"image_root"`
	// Document is the default script document operated on when the CLI
	// is not given an explicit --script path.
	Document string `toml:"document"`
	LogDir   string `toml:"log_dir"`
}

// Scanner contains directory discovery settings. The patterns are anchored
// regular expressions matched against child directory names at each level
// of the project hierarchy.
type Scanner struct {
	CacheTimeoutSeconds int    `toml:"cache_timeout_seconds"`
	EpisodePattern      string `toml:"episode_pattern"`
	SequencePattern     string `toml:"sequence_pattern"`
	ShotPattern         string `toml:"shot_pattern"`
	DepartmentPattern   string `toml:"department_pattern"`
	VersionPattern      string `toml:"version_pattern"`
}

// Versions contains version bookkeeping settings.
type Versions struct {
	// DefaultLabel is assumed for any shot with no ledger entry.
	DefaultLabel string `toml:"default_label"`
}

// FrameRange contains the fallback frame range applied when a shot has no
// usable metadata sidecar.
type FrameRange struct {
	First int `toml:"first"`
	Last  int `toml:"last"`
}

// Farm contains render-farm submission settings.
type Farm struct {
	// DeadlinePath overrides the DEADLINE_PATH environment variable when
	// locating deadlinecommand.
	DeadlinePath string `toml:"deadline_path"`
	// PluginPath is propagated to every submitted job so the plugin loads
	// on render workers.
	PluginPath string `toml:"plugin_path"`
	// OCIOConfig is the color-management config path propagated to every
	// submitted job.
	OCIOConfig string `toml:"ocio_config"`
	Pool       string `toml:"pool"`
	Group      string `toml:"group"`
	Priority   int    `toml:"priority"`
	// HistoryDir holds the submission history database. Defaults to LogDir.
	HistoryDir string `toml:"history_dir"`
}

// Logging contains log output configuration.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Templates contains path templates resolved against document variables.
// Tokens use {name} syntax; see the paths package.
type Templates struct {
	Scene       string `toml:"scene"`
	NukeFiles   string `toml:"nuke_files"`
	Publish     string `toml:"publish"`
	CompRenders string `toml:"comp_renders"`
}

// Config encapsulates all configuration values for multishot.
//
// Sections by subsystem:
//   - Paths: filesystem roots, default document, log directory
//   - Scanner: hierarchy patterns and cache expiry
//   - Versions: default version label
//   - FrameRange: fallback shot frame range
//   - Farm: Deadline submission settings and propagated environment
//   - Templates: path templates keyed by purpose
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Scanner    Scanner    `toml:"scanner"`
	Versions   Versions   `toml:"versions"`
	FrameRange FrameRange `toml:"frame_range"`
	Farm       Farm       `toml:"farm"`
	Templates  Templates  `toml:"templates"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/multishot/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The string result is
// the resolved path and the bool reports whether a file existed there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("multishot.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the CLI writes into. The
// project and image roots are deliberately not created: they belong to the
// facility storage layout, and a missing root is a normal, displayable
// state for the scanner.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir}
	if strings.TrimSpace(c.Farm.HistoryDir) != "" {
		dirs = append(dirs, c.Farm.HistoryDir)
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DeadlineBinary returns the Deadline submission executable name.
func (c *Config) DeadlineBinary() string {
	return "deadlinecommand"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
