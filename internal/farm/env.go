package farm

import (
	"fmt"
	"sort"
	"strings"

	"multishot/internal/config"
)

// JobEnv builds the environment propagated to every submitted job.
// NUKE_PATH carries the plugin path so the plugin initializes on render
// workers, and OCIO carries the color-management config. Extra entries
// are merged in last and may not displace those two keys.
func JobEnv(cfg *config.Config, extra map[string]string) map[string]string {
	env := map[string]string{}
	for key, value := range extra {
		env[key] = value
	}
	if cfg.Farm.PluginPath != "" {
		env["NUKE_PATH"] = cfg.Farm.PluginPath
	}
	if cfg.Farm.OCIOConfig != "" {
		env["OCIO"] = cfg.Farm.OCIOConfig
	}
	return env
}

// envLines renders env as EnvironmentKeyValueN job-info lines in stable
// key order.
func envLines(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for key := range env {
		if !validEnvKey(key) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for i, key := range keys {
		lines = append(lines, fmt.Sprintf("EnvironmentKeyValue%d=%s=%s", i, key, env[key]))
	}
	return lines
}

// validEnvKey rejects keys that would corrupt the key=value job-info
// format.
func validEnvKey(key string) bool {
	return key != "" && !strings.ContainsAny(key, "=\n")
}
