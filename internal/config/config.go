// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/blockweek/internal/schedule"
)

// Config holds the application configuration.
type Config struct {
	Schedule ScheduleConfig `toml:"schedule"`
	Storage  StorageConfig  `toml:"storage"`
	UI       UIConfig       `toml:"ui"`
	Log      LogConfig      `toml:"log"`
}

// ScheduleConfig holds the grid rules.
type ScheduleConfig struct {
	ImportantCapHours float64 `toml:"important_cap_hours"` // soft per-day cap of the Important row, 0 disables
	DefaultBlockHours float64 `toml:"default_block_hours"` // suggested hours for new tasks
	SeedDefaults      bool    `toml:"seed_defaults"`       // seed sample tasks into empty storage

	// AllowMismatchedAlternatives lets "keep" leave alternatives larger than
	// an edited primary. When false only "cascade" is accepted.
	AllowMismatchedAlternatives bool `toml:"allow_mismatched_alternatives"`
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	Backend      string `toml:"backend"`       // "sqlite", "json", "memory"
	DBPath       string `toml:"db_path"`       // SQLite database
	JSONPath     string `toml:"json_path"`     // JSON snapshot file
	SaveDebounce string `toml:"save_debounce"` // e.g. "500ms", "0s" saves synchronously
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "latte"
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
	File  string `toml:"file"`  // empty discards logs unless --debug is set
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			ImportantCapHours:           schedule.DefaultImportantCapHours,
			DefaultBlockHours:           schedule.DefaultBlockHours,
			SeedDefaults:                true,
			AllowMismatchedAlternatives: true,
		},
		Storage: StorageConfig{
			Backend:      "sqlite",
			DBPath:       defaultDataPath("blockweek.db"),
			JSONPath:     defaultDataPath("blockweek.json"),
			SaveDebounce: "0s",
		},
		UI: UIConfig{
			Theme: "mocha",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// defaultDataPath returns a path in the user's data directory.
func defaultDataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".local", "share", "blockweek", name)
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "blockweek", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Storage.JSONPath = expandPath(cfg.Storage.JSONPath)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies BLOCKWEEK_* environment variables.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	floats := map[string]*float64{
		"BLOCKWEEK_IMPORTANT_CAP_HOURS": &cfg.Schedule.ImportantCapHours,
		"BLOCKWEEK_DEFAULT_BLOCK_HOURS": &cfg.Schedule.DefaultBlockHours,
	}
	for name, dst := range floats {
		if v := os.Getenv(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*dst = f
		}
	}

	bools := map[string]*bool{
		"BLOCKWEEK_SEED_DEFAULTS":                 &cfg.Schedule.SeedDefaults,
		"BLOCKWEEK_ALLOW_MISMATCHED_ALTERNATIVES": &cfg.Schedule.AllowMismatchedAlternatives,
	}
	for name, dst := range bools {
		if v := os.Getenv(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*dst = b
		}
	}

	strs := map[string]*string{
		"BLOCKWEEK_STORAGE_BACKEND": &cfg.Storage.Backend,
		"BLOCKWEEK_DB_PATH":         &cfg.Storage.DBPath,
		"BLOCKWEEK_JSON_PATH":       &cfg.Storage.JSONPath,
		"BLOCKWEEK_SAVE_DEBOUNCE":   &cfg.Storage.SaveDebounce,
		"BLOCKWEEK_UI_THEME":        &cfg.UI.Theme,
		"BLOCKWEEK_LOG_LEVEL":       &cfg.Log.Level,
		"BLOCKWEEK_LOG_FILE":        &cfg.Log.File,
	}
	for name, dst := range strs {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

var (
	validBackends = map[string]bool{"sqlite": true, "json": true, "memory": true}
	validThemes   = map[string]bool{"mocha": true, "latte": true}
	validLevels   = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Schedule.ImportantCapHours < 0 {
		return errors.New("important_cap_hours cannot be negative")
	}
	if c.Schedule.DefaultBlockHours <= 0 {
		return errors.New("default_block_hours must be greater than zero")
	}

	if !validBackends[c.Storage.Backend] {
		return fmt.Errorf("invalid storage backend: %s", c.Storage.Backend)
	}
	if c.Storage.Backend == "sqlite" && c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	if c.Storage.Backend == "json" && c.Storage.JSONPath == "" {
		return errors.New("json_path must be set")
	}
	if _, err := c.SaveDebounceDuration(); err != nil {
		return err
	}

	if !validThemes[c.UI.Theme] {
		return fmt.Errorf("invalid theme: %s", c.UI.Theme)
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	return nil
}

// SaveDebounceDuration parses storage.save_debounce. Empty means no debounce.
func (c *Config) SaveDebounceDuration() (time.Duration, error) {
	if c.Storage.SaveDebounce == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Storage.SaveDebounce)
	if err != nil {
		return 0, fmt.Errorf("save_debounce must be a duration like 500ms, got %q", c.Storage.SaveDebounce)
	}
	if d < 0 {
		return 0, errors.New("save_debounce cannot be negative")
	}
	return d, nil
}

// BoardConfig returns the rules the schedule board enforces.
func (c *Config) BoardConfig() schedule.Config {
	return schedule.Config{
		ImportantCapHours:           c.Schedule.ImportantCapHours,
		DefaultBlockHours:           c.Schedule.DefaultBlockHours,
		AllowMismatchedAlternatives: c.Schedule.AllowMismatchedAlternatives,
	}
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
