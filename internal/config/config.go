package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"dayplan/internal/logging"
	"dayplan/internal/query"
	"dayplan/internal/storage"
)

const (
	AppName               = "dayplan"
	DefaultConfigFileName = "config.toml"
	DefaultDataName       = "todos.json"
	DefaultDBName         = "todo.db"
	DefaultLogName        = "dayplan.log"
	EnvConfigPath         = "DAYPLAN_CONFIG"
)

type Keymap struct {
	Quit       string `toml:"quit"`
	Add        string `toml:"add"`
	Up         string `toml:"up"`
	Down       string `toml:"down"`
	Toggle     string `toml:"toggle"`
	Delete     string `toml:"delete"`
	Detail     string `toml:"detail"`
	Confirm    string `toml:"confirm"`
	Cancel     string `toml:"cancel"`
	Filter     string `toml:"filter"`
	Sort       string `toml:"sort"`
	Calendar   string `toml:"calendar"`
	Categories string `toml:"categories"`
	PrevMonth  string `toml:"prev_month"`
	NextMonth  string `toml:"next_month"`
	PrevYear   string `toml:"prev_year"`
	NextYear   string `toml:"next_year"`
	PickMonth  string `toml:"pick_month"`
	PickYear   string `toml:"pick_year"`
	Back       string `toml:"back"`
}

type Config struct {
	Backend       string `toml:"backend"`
	DataPath      string `toml:"data_path"`
	DBPath        string `toml:"db_path"`
	DefaultFilter string `toml:"default_filter"`
	DefaultSort   string `toml:"default_sort"`
	LogPath       string `toml:"log_path"`
	LogLevel      string `toml:"log_level"`
	Keys          Keymap `toml:"keys"`
}

// ResolveConfigPath picks $DAYPLAN_CONFIG, then the user config dir, then
// the working directory.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, AppName, DefaultConfigFileName)
	}
	return DefaultConfigFileName
}

// LoadOrCreate reads the config at path, writing the defaults there first if
// the file does not exist. Relative data, db and log paths are resolved
// against the config file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(filepath.Dir(path)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Backend == "" {
		cfg.Backend = storage.BackendJSON
	}
	if cfg.DataPath == "" {
		cfg.DataPath = DefaultDataName
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg.resolve(filepath.Dir(path)), nil
}

// Validate rejects values that would otherwise only fail once the TUI is up.
func (c Config) Validate() error {
	switch c.Backend {
	case storage.BackendJSON, storage.BackendSQLite:
	default:
		return fmt.Errorf("backend must be %q or %q, got %q", storage.BackendJSON, storage.BackendSQLite, c.Backend)
	}
	if _, err := query.ParseFilter(c.DefaultFilter); err != nil {
		return fmt.Errorf("default_filter: %w", err)
	}
	if _, err := query.ParseSortKey(c.DefaultSort); err != nil {
		return fmt.Errorf("default_sort: %w", err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// StoragePath returns the location used by the configured backend.
func (c Config) StoragePath() string {
	if c.Backend == storage.BackendSQLite {
		return c.DBPath
	}
	return c.DataPath
}

func (c Config) resolve(base string) Config {
	c.DataPath = resolvePath(base, c.DataPath)
	c.DBPath = resolvePath(base, c.DBPath)
	c.LogPath = resolvePath(base, c.LogPath)
	return c
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func Default() Config {
	return Config{
		Backend:       storage.BackendJSON,
		DataPath:      DefaultDataName,
		DBPath:        DefaultDBName,
		DefaultFilter: "all",
		DefaultSort:   "time",
		LogPath:       DefaultLogName,
		LogLevel:      "info",
		Keys: Keymap{
			Quit:       "q",
			Add:        "a",
			Up:         "k",
			Down:       "j",
			Toggle:     " ",
			Delete:     "d",
			Detail:     "enter",
			Confirm:    "enter",
			Cancel:     "esc",
			Filter:     "f",
			Sort:       "s",
			Calendar:   "c",
			Categories: "g",
			PrevMonth:  "[",
			NextMonth:  "]",
			PrevYear:   "{",
			NextYear:   "}",
			PickMonth:  "m",
			PickYear:   "y",
			Back:       "b",
		},
	}
}
