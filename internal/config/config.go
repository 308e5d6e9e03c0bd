// Package config handles configuration loading and defaults.
//
// Values are resolved in priority order: defaults, then the user config
// file, then a project config file in the working directory, then GODO_*
// environment variables. Command-line flags override everything and are
// applied by the caller.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultTodoFile = "todos.json"
	DefaultFilter   = "all"
	DefaultLogLevel = "warn"
)

// Config holds the full configuration for godo.
type Config struct {
	// Paths
	TodoFile string `toml:"todo_file"`

	// Behavior
	DefaultFilter string `toml:"default_filter"`
	ConfirmDelete bool   `toml:"confirm_delete"`

	// Logging
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
}

// Load resolves configuration from files and environment.
func Load() (*Config, error) {
	cfg := &Config{
		TodoFile:      DefaultTodoFile,
		DefaultFilter: DefaultFilter,
		ConfirmDelete: true,
		LogLevel:      DefaultLogLevel,
		LogFormat:     "text",
	}

	if path := findUserConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
	}
	if path := findProjectConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", path, err)
		}
	}
	applyEnv(cfg)
	return cfg, nil
}

// loadConfigFile merges a TOML file into cfg. Unknown keys are an error so
// typos surface instead of being silently ignored.
func loadConfigFile(cfg *Config, path string) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	return nil
}

// applyEnv overrides cfg from GODO_* environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("GODO_FILE"); v != "" {
		cfg.TodoFile = v
	}
	if v := os.Getenv("GODO_FILTER"); v != "" {
		cfg.DefaultFilter = v
	}
	if v := os.Getenv("GODO_CONFIRM_DELETE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.ConfirmDelete = b
		}
	}
	if v := os.Getenv("GODO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("GODO_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("GODO_LOG_TIMESTAMPS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LogTimestamps = b
		}
	}
}

// findUserConfigFile locates the per-user config file, or "" if absent.
func findUserConfigFile() string {
	dir := userConfigDir()
	if dir == "" {
		return ""
	}
	path := filepath.Join(dir, "godo", "godo.toml")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// findProjectConfigFile locates godo.toml or .godo.toml in the working
// directory, or "" if neither exists.
func findProjectConfigFile() string {
	for _, name := range []string{"godo.toml", ".godo.toml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// userConfigDir returns the OS-specific config directory.
func userConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		return os.Getenv("APPDATA")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		return filepath.Join(home, ".config")
	}
}
