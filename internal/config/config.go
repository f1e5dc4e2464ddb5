// Package config handles configuration loading and defaults.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultStoragePath = "storage.json"
	DefaultStorageKey  = "todos"
	DefaultTheme       = "classic"
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"

	ProjectFileName = ".tada.toml"
	appDirName      = "tada"
	userFileName    = "config.toml"
)

type Config struct {
	StoragePath string `toml:"storage_path"`
	StorageKey  string `toml:"storage_key"`
	Theme       string `toml:"theme"`
	Group       bool   `toml:"group"`
	LogLevel    string `toml:"log_level"`
	LogFormat   string `toml:"log_format"`
	LogFile     string `toml:"log_file"`

	// Args holds the positional arguments left after flag parsing.
	Args []string `toml:"-"`
}

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file ($XDG_CONFIG_HOME/tada/config.toml or OS equivalent)
// 3. Project config file (.tada.toml in the working directory)
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if p := findUserConfigFile(); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", p, err)
		}
	}
	if p := findProjectConfigFile(); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", p, err)
		}
	}

	loadFromEnv(cfg)

	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	cfg.StoragePath = expandPath(cfg.StoragePath)
	cfg.LogFile = expandPath(cfg.LogFile)
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.StoragePath = DefaultStoragePath
	cfg.StorageKey = DefaultStorageKey
	cfg.Theme = DefaultTheme
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

func findUserConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return existing(filepath.Join(dir, appDirName, userFileName))
}

func findProjectConfigFile() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return existing(filepath.Join(wd, ProjectFileName))
}

func existing(p string) string {
	if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
		return p
	}
	return ""
}

// loadConfigFile decodes a TOML file over cfg. Keys the Config does not
// know are rejected so typos do not pass silently.
func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TADA_STORAGE"); v != "" {
		cfg.StoragePath = v
	}
	if v := os.Getenv("TADA_STORAGE_KEY"); v != "" {
		cfg.StorageKey = v
	}
	if v := os.Getenv("TADA_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("TADA_GROUP"); v != "" {
		cfg.Group = boolFromString(v)
	}
	if v := os.Getenv("TADA_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TADA_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TADA_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
}

// parseFlags defines and parses CLI flags; they override everything.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("todo", flag.ContinueOnError)
	}
	fs.StringVar(&cfg.StoragePath, "storage", cfg.StoragePath, "path to the storage file")
	fs.StringVar(&cfg.StorageKey, "key", cfg.StorageKey, "storage key holding the list")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "theme: classic, neon or mono")
	fs.BoolVar(&cfg.Group, "group", cfg.Group, "group output by pending/done")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text, json or logfmt")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "write logs to this file instead of stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.Args = fs.Args()
	return nil
}

// expandPath expands ~ and environment variables in paths.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
	}
	return p
}

func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// Example returns a config file showing all available options.
func Example() string {
	return `# tada configuration file
# Values here are overridden by TADA_* environment variables and flags.

# Key-value storage file (supports ~ expansion)
storage_path = "storage.json"

# Key holding the serialized list
storage_key = "todos"

# classic, neon or mono
theme = "classic"

# Group "ls" output by pending/done
group = false

# debug, info, warn or error
log_level = "warn"

# text, json or logfmt
log_format = "text"

# Write logs to a file instead of stderr
# log_file = "~/.local/state/tada/tada.log"
`
}
