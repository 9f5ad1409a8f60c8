package config

import (
	"fmt"
	"strings"
)

// normalize expands user paths, fills derived defaults, and canonicalizes
// string fields before validation runs.
func (c *Config) normalize() error {
	var err error

	pathFields := []struct {
		name  string
		value *string
	}{
		{"paths.project_root", &c.Paths.ProjectRoot},
		{"paths.image_root", &c.Paths.ImageRoot},
		{"paths.document", &c.Paths.Document},
		{"paths.log_dir", &c.Paths.LogDir},
		{"farm.deadline_path", &c.Farm.DeadlinePath},
		{"farm.plugin_path", &c.Farm.PluginPath},
		{"farm.ocio_config", &c.Farm.OCIOConfig},
		{"farm.history_dir", &c.Farm.HistoryDir},
	}
	for _, field := range pathFields {
		trimmed := strings.TrimSpace(*field.value)
		if trimmed == "" {
			*field.value = ""
			continue
		}
		if *field.value, err = expandPath(trimmed); err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
	}

	if c.Farm.HistoryDir == "" {
		c.Farm.HistoryDir = c.Paths.LogDir
	}

	if c.Scanner.CacheTimeoutSeconds <= 0 {
		c.Scanner.CacheTimeoutSeconds = defaultCacheTimeoutSeconds
	}

	c.Versions.DefaultLabel = strings.TrimSpace(c.Versions.DefaultLabel)
	if c.Versions.DefaultLabel == "" {
		c.Versions.DefaultLabel = defaultVersionLabel
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	return nil
}
