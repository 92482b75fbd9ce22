// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// AppName names the config and data directories.
const AppName = "wltrans"

// Default configuration values.
const (
	DefaultFrom          = "auto"
	DefaultTo            = "en"
	DefaultEndpoint      = "https://translate.google.com/m"
	DefaultUserAgent     = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"
	DefaultSizeDivisor   = 4
	DefaultTheme         = "default"
	DefaultNamespace     = "wltrans"
	DefaultProbeNS       = "wltrans-probe"
	DefaultExclusiveZone = 1000
	DefaultMaxEntries    = 500
)

// Keyboard modes for the popup surface.
const (
	KeyboardOnDemand  = "on-demand"
	KeyboardExclusive = "exclusive"
	KeyboardNone      = "none"
)

// Color schemes for the popup.
const (
	SchemeSystem = "system"
	SchemeLight  = "light"
	SchemeDark   = "dark"
)

// Config represents the wltrans configuration.
type Config struct {
	Translate TranslateConfig `toml:"translate"`
	Popup     PopupConfig     `toml:"popup"`
	Probe     ProbeConfig     `toml:"probe"`
	History   HistoryConfig   `toml:"history"`
	Notify    NotifyConfig    `toml:"notify"`
	Clipboard ClipboardConfig `toml:"clipboard"`
}

// TranslateConfig holds translation backend settings.
type TranslateConfig struct {
	From      string   `toml:"from"` // Source language code, "auto" to detect
	To        string   `toml:"to"`
	Endpoint  string   `toml:"endpoint"`
	Timeout   Duration `toml:"timeout"`
	UserAgent string   `toml:"user_agent"`
}

// PopupConfig holds popup window settings.
type PopupConfig struct {
	SizeDivisor  int    `toml:"size_divisor"` // Popup is monitor size / divisor
	KeyboardMode string `toml:"keyboard_mode"`
	Theme        string `toml:"theme"`
	ColorScheme  string `toml:"color_scheme"`
	Namespace    string `toml:"namespace"`
}

// ProbeConfig holds settings for the display probe surface.
type ProbeConfig struct {
	Namespace     string `toml:"namespace"`
	ExclusiveZone int32  `toml:"exclusive_zone"`
}

// HistoryConfig holds translation history settings.
type HistoryConfig struct {
	Enabled    bool `toml:"enabled"`
	MaxEntries int  `toml:"max_entries"` // 0 = unlimited
}

// NotifyConfig holds desktop notification settings.
type NotifyConfig struct {
	Timeout Duration `toml:"timeout"`
	AppName string   `toml:"app_name"`
}

// ClipboardConfig holds clipboard settings for the history browser.
type ClipboardConfig struct {
	Command string `toml:"command"` // Empty means auto-detect
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Translate: TranslateConfig{
			From:      DefaultFrom,
			To:        DefaultTo,
			Endpoint:  DefaultEndpoint,
			Timeout:   Duration(10 * time.Second),
			UserAgent: DefaultUserAgent,
		},
		Popup: PopupConfig{
			SizeDivisor:  DefaultSizeDivisor,
			KeyboardMode: KeyboardOnDemand,
			Theme:        DefaultTheme,
			ColorScheme:  SchemeSystem,
			Namespace:    DefaultNamespace,
		},
		Probe: ProbeConfig{
			Namespace:     DefaultProbeNS,
			ExclusiveZone: DefaultExclusiveZone,
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: DefaultMaxEntries,
		},
		Notify: NotifyConfig{
			Timeout: Duration(8 * time.Second),
			AppName: AppName,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}

// ThemesDir returns the directory holding user CSS themes.
func ThemesDir() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "themes")
}

func configDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, AppName)
}

// DataPath returns the path to the data directory.
// Uses XDG_DATA_HOME if set, otherwise ~/.local/share.
func DataPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, AppName)
}

// HistoryPath returns the path to the history JSONL file.
func HistoryPath() string {
	return filepath.Join(DataPath(), "history.jsonl")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks values that cannot be defaulted silently.
func (c *Config) Validate() error {
	if c.Popup.SizeDivisor < 1 {
		return fmt.Errorf("popup.size_divisor must be at least 1, got %d", c.Popup.SizeDivisor)
	}
	switch c.Popup.KeyboardMode {
	case KeyboardOnDemand, KeyboardExclusive, KeyboardNone:
	default:
		return fmt.Errorf("unknown popup.keyboard_mode %q", c.Popup.KeyboardMode)
	}
	switch c.Popup.ColorScheme {
	case SchemeSystem, SchemeLight, SchemeDark:
	default:
		return fmt.Errorf("unknown popup.color_scheme %q", c.Popup.ColorScheme)
	}
	if c.Translate.Endpoint == "" {
		return errors.New("translate.endpoint must not be empty")
	}
	if c.History.MaxEntries < 0 {
		return fmt.Errorf("history.max_entries must not be negative, got %d", c.History.MaxEntries)
	}
	return nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
