// Package config handles configuration loading and validation for quill.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hay-kot/criterio"
	"gopkg.in/yaml.v3"
)

// Theme names accepted by the preview renderer.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Config holds the application configuration.
type Config struct {
	Editor   EditorConfig   `yaml:"editor"`
	History  HistoryConfig  `yaml:"history"`
	Autosave AutosaveConfig `yaml:"autosave"`
	TUI      TUIConfig      `yaml:"tui"`
	DataDir  string         `yaml:"-"` // set by caller, not from config file
}

// EditorConfig controls editing behavior.
type EditorConfig struct {
	// SnapshotDebounceMS is the quiet period after which typing produces
	// an undo snapshot.
	SnapshotDebounceMS int `yaml:"snapshot_debounce_ms"`
	// RenderDebounceMS throttles preview re-renders while typing.
	RenderDebounceMS int `yaml:"render_debounce_ms"`
}

// HistoryConfig bounds the undo stack.
type HistoryConfig struct {
	Limit int `yaml:"limit"`
}

// AutosaveConfig controls background draft persistence.
type AutosaveConfig struct {
	// Enabled: nil means on (the default), false disables drafts.
	Enabled    *bool `yaml:"enabled"`
	IntervalMS int   `yaml:"interval_ms"`
}

// On reports whether autosave is active.
func (a AutosaveConfig) On() bool {
	return a.Enabled == nil || *a.Enabled
}

// TUIConfig holds presentation settings.
type TUIConfig struct {
	Theme           string `yaml:"theme"`
	ShowLineNumbers bool   `yaml:"show_line_numbers"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Editor: EditorConfig{
			SnapshotDebounceMS: 400,
			RenderDebounceMS:   120,
		},
		History: HistoryConfig{
			Limit: 200,
		},
		Autosave: AutosaveConfig{
			IntervalMS: 2000,
		},
		TUI: TUIConfig{
			Theme:           ThemeAuto,
			ShowLineNumbers: true,
		},
	}
}

// SnapshotDebounce returns the typed debounce duration.
func (c *Config) SnapshotDebounce() time.Duration {
	return time.Duration(c.Editor.SnapshotDebounceMS) * time.Millisecond
}

// RenderDebounce returns the typed render throttle duration.
func (c *Config) RenderDebounce() time.Duration {
	return time.Duration(c.Editor.RenderDebounceMS) * time.Millisecond
}

// AutosaveInterval returns the typed autosave interval.
func (c *Config) AutosaveInterval() time.Duration {
	return time.Duration(c.Autosave.IntervalMS) * time.Millisecond
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the
// provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Editor.SnapshotDebounceMS == 0 {
		c.Editor.SnapshotDebounceMS = defaults.Editor.SnapshotDebounceMS
	}
	if c.Editor.RenderDebounceMS == 0 {
		c.Editor.RenderDebounceMS = defaults.Editor.RenderDebounceMS
	}
	if c.History.Limit == 0 {
		c.History.Limit = defaults.History.Limit
	}
	if c.Autosave.IntervalMS == 0 {
		c.Autosave.IntervalMS = defaults.Autosave.IntervalMS
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("data_dir", c.DataDir, requireNonEmpty),
		criterio.Run("history.limit", c.History.Limit, positiveInt),
		criterio.Run("editor.snapshot_debounce_ms", c.Editor.SnapshotDebounceMS, nonNegativeInt),
		criterio.Run("editor.render_debounce_ms", c.Editor.RenderDebounceMS, nonNegativeInt),
		criterio.Run("autosave.interval_ms", c.Autosave.IntervalMS, positiveInt),
		criterio.Run("tui.theme", c.TUI.Theme, validTheme),
	)
}

func requireNonEmpty(s string) error {
	if s == "" {
		return fmt.Errorf("cannot be empty")
	}
	return nil
}

func positiveInt(n int) error {
	if n < 1 {
		return fmt.Errorf("must be at least 1")
	}
	return nil
}

func nonNegativeInt(n int) error {
	if n < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func validTheme(theme string) error {
	switch theme {
	case ThemeAuto, ThemeDark, ThemeLight:
		return nil
	}
	return fmt.Errorf("must be one of: auto, dark, light")
}
