// Package testsupport provides shared fixtures for package tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"multishot/internal/config"
	"multishot/internal/document"
)

// ConfigOption customizes the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ProjectRoot = filepath.Join(base, "projects")
	cfg.Paths.ImageRoot = filepath.Join(base, "images")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Farm.HistoryDir = cfg.Paths.LogDir
	cfg.Farm.PluginPath = filepath.Join(base, "plugin")
	cfg.Farm.OCIOConfig = filepath.Join(base, "ocio", "config.ocio")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WithProjectRoot overrides the project root on the test config.
func WithProjectRoot(path string) ConfigOption {
	return func(c *config.Config) {
		c.Paths.ProjectRoot = path
	}
}

// WithDefaultLabel overrides the default version label.
func WithDefaultLabel(label string) ConfigOption {
	return func(c *config.Config) {
		c.Versions.DefaultLabel = label
	}
}

// NewDocument creates an empty document under a temp path with PROJ_ROOT
// and IMG_ROOT pointing at the config roots.
func NewDocument(t testing.TB, cfg *config.Config) *document.Document {
	t.Helper()

	doc := document.New(filepath.Join(t.TempDir(), "shot.msd"))
	doc.Custom["PROJ_ROOT"] = cfg.Paths.ProjectRoot
	doc.Custom["IMG_ROOT"] = cfg.Paths.ImageRoot
	return doc
}

// MkdirAll creates a directory tree, failing the test on error.
func MkdirAll(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

// WriteFile writes a file, creating parent directories as needed.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()
	MkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
