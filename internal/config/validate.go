package config

import (
	"fmt"
	"regexp"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScanner(); err != nil {
		return err
	}
	if err := c.validateFrameRange(); err != nil {
		return err
	}
	if err := c.validateFarm(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateScanner() error {
	patterns := map[string]string{
		"scanner.episode_pattern":    c.Scanner.EpisodePattern,
		"scanner.sequence_pattern":   c.Scanner.SequencePattern,
		"scanner.shot_pattern":       c.Scanner.ShotPattern,
		"scanner.department_pattern": c.Scanner.DepartmentPattern,
		"scanner.version_pattern":    c.Scanner.VersionPattern,
	}
	for name, pattern := range patterns {
		if pattern == "" {
			return fmt.Errorf("%s must not be empty", name)
		}
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func (c *Config) validateFrameRange() error {
	if c.FrameRange.First > c.FrameRange.Last {
		return fmt.Errorf("frame_range.first (%d) must not exceed frame_range.last (%d)",
			c.FrameRange.First, c.FrameRange.Last)
	}
	return nil
}

func (c *Config) validateFarm() error {
	if c.Farm.Priority < 0 || c.Farm.Priority > 100 {
		return fmt.Errorf("farm.priority must be between 0 and 100, got %d", c.Farm.Priority)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	return nil
}
