package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	AppName               = "tudu"
	DefaultConfigFileName = "config.toml"
	DefaultJSONName       = "todos.json"
	DefaultDBName         = "todo.db"
	DefaultLogName        = "tudu.log"

	StorageJSON   = "json"
	StorageSQLite = "sqlite"

	ThemeNeon  = "neon"
	ThemePlain = "plain"

	envConfigPath = "TUDU_CONFIG"
)

// Keymap values are comma-separated key names as Bubble Tea reports them,
// e.g. "up,k" or "esc".
type Keymap struct {
	Quit     string `toml:"quit"`
	Add      string `toml:"add"`
	Edit     string `toml:"edit"`
	Delete   string `toml:"delete"`
	Toggle   string `toml:"toggle"`
	Priority string `toml:"priority"`
	Search   string `toml:"search"`
	Theme    string `toml:"theme"`
	Help     string `toml:"help"`
	Up       string `toml:"up"`
	Down     string `toml:"down"`
	Submit   string `toml:"submit"`
	Cancel   string `toml:"cancel"`
	Confirm  string `toml:"confirm"`
	Deny     string `toml:"deny"`
}

type Config struct {
	Storage  string `toml:"storage"`
	DataPath string `toml:"data_path"`
	Theme    string `toml:"theme"`
	LogPath  string `toml:"log_path"`
	LogLevel string `toml:"log_level"`
	Keys     Keymap `toml:"keys"`
}

// ResolveConfigPath honours $TUDU_CONFIG and otherwise uses the user config
// directory.
func ResolveConfigPath() string {
	if p := os.Getenv(envConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing Default there first if it
// does not exist. Empty fields are back-filled; the result is not validated
// so command-line overrides can still be applied.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		cfg.applyDefaults()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	var fromFile Config
	if err := toml.Unmarshal(data, &fromFile); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg = fromFile
	cfg.applyDefaults()
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Storage {
	case StorageJSON, StorageSQLite:
	default:
		return fmt.Errorf("storage must be %q or %q, got %q", StorageJSON, StorageSQLite, c.Storage)
	}
	switch c.Theme {
	case ThemeNeon, ThemePlain:
	default:
		return fmt.Errorf("theme must be %q or %q, got %q", ThemeNeon, ThemePlain, c.Theme)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}

// ResolvePaths makes relative data and log paths relative to the directory
// holding the config file.
func (c *Config) ResolvePaths(configPath string) {
	dir := filepath.Dir(configPath)
	if c.DataPath != "" && !filepath.IsAbs(c.DataPath) {
		c.DataPath = filepath.Join(dir, c.DataPath)
	}
	if c.LogPath != "" && !filepath.IsAbs(c.LogPath) {
		c.LogPath = filepath.Join(dir, c.LogPath)
	}
}

// DefaultDataName is the data file used when data_path is left empty.
func DefaultDataName(storage string) string {
	if storage == StorageSQLite {
		return DefaultDBName
	}
	return DefaultJSONName
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Storage == "" {
		c.Storage = def.Storage
	}
	c.Storage = strings.ToLower(c.Storage)
	if c.DataPath == "" {
		c.DataPath = DefaultDataName(c.Storage)
	}
	if c.Theme == "" {
		c.Theme = def.Theme
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	c.Keys.fill(def.Keys)
}

func (k *Keymap) fill(def Keymap) {
	fields := []struct {
		dst *string
		src string
	}{
		{&k.Quit, def.Quit},
		{&k.Add, def.Add},
		{&k.Edit, def.Edit},
		{&k.Delete, def.Delete},
		{&k.Toggle, def.Toggle},
		{&k.Priority, def.Priority},
		{&k.Search, def.Search},
		{&k.Theme, def.Theme},
		{&k.Help, def.Help},
		{&k.Up, def.Up},
		{&k.Down, def.Down},
		{&k.Submit, def.Submit},
		{&k.Cancel, def.Cancel},
		{&k.Confirm, def.Confirm},
		{&k.Deny, def.Deny},
	}
	for _, f := range fields {
		if strings.TrimSpace(*f.dst) == "" {
			*f.dst = f.src
		}
	}
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Default is the configuration written on first launch. DataPath is left
// empty so it follows the storage kind.
func Default() Config {
	return Config{
		Storage:  StorageJSON,
		Theme:    ThemeNeon,
		LogPath:  DefaultLogName,
		LogLevel: "info",
		Keys: Keymap{
			Quit:     "q",
			Add:      "a",
			Edit:     "e",
			Delete:   "d",
			Toggle:   "space",
			Priority: "p",
			Search:   "s",
			Theme:    "t",
			Help:     "?",
			Up:       "up",
			Down:     "down",
			Submit:   "enter",
			Cancel:   "esc",
			Confirm:  "y",
			Deny:     "n",
		},
	}
}
