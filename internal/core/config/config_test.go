package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), t.TempDir())
	require.NoError(t, err)

	defaults := DefaultConfig()
	assert.Equal(t, defaults.Editor, cfg.Editor)
	assert.Equal(t, defaults.History, cfg.History)
	assert.Equal(t, defaults.TUI, cfg.TUI)
}

func TestLoadPartialConfigKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
history:
  limit: 50
tui:
  theme: light
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path, dir)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.History.Limit)
	assert.Equal(t, ThemeLight, cfg.TUI.Theme)
	assert.Equal(t, DefaultConfig().Editor.RenderDebounceMS, cfg.Editor.RenderDebounceMS)
	assert.Equal(t, dir, cfg.DataDir)
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("editor: ["), 0o644))

	_, err := Load(path, dir)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty data dir",
			mutate:  func(c *Config) { c.DataDir = "" },
			wantErr: true,
		},
		{
			name:    "zero history limit",
			mutate:  func(c *Config) { c.History.Limit = 0 },
			wantErr: true,
		},
		{
			name:    "negative debounce",
			mutate:  func(c *Config) { c.Editor.SnapshotDebounceMS = -1 },
			wantErr: true,
		},
		{
			name:    "unknown theme",
			mutate:  func(c *Config) { c.TUI.Theme = "solarized" },
			wantErr: true,
		},
		{
			name:   "zero render debounce is allowed",
			mutate: func(c *Config) { c.Editor.RenderDebounceMS = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.DataDir = "/tmp/quill-test"
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAutosaveToggle(t *testing.T) {
	var cfg AutosaveConfig
	assert.True(t, cfg.On(), "nil means enabled")

	off := false
	cfg.Enabled = &off
	assert.False(t, cfg.On())
}

func TestTypedDurations(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 400*time.Millisecond, cfg.SnapshotDebounce())
	assert.Equal(t, 120*time.Millisecond, cfg.RenderDebounce())
	assert.Equal(t, 2*time.Second, cfg.AutosaveInterval())
}
