package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPathsHonorXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", filepath.Join("/tmp", "cfg"))
	t.Setenv("XDG_DATA_HOME", filepath.Join("/tmp", "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join("/tmp", "state"))

	assert.Equal(t, filepath.Join("/tmp", "cfg", "quill", "config.yaml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join("/tmp", "data", "quill"), DefaultDataDir())
	assert.Equal(t, filepath.Join("/tmp", "state", "quill", "quill.log"), DefaultLogFile())
}

func TestDefaultLogFileWithoutStateHome(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "")

	got := DefaultLogFile()
	assert.Equal(t, "quill.log", filepath.Base(got))
	assert.Contains(t, got, "quill")
}
