package version

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstRun(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	const name = ".gnome-ext-builder.yaml"
	assert.True(t, IsFirstRun(name))

	var buf bytes.Buffer
	PrintFirstRunNotice(&buf)
	assert.Contains(t, buf.String(), "gnome-ext-builder setup")
	assert.False(t, IsFirstRun(name))
}

func TestFirstRunWithConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	const name = ".gnome-ext-builder.yaml"
	require.NoError(t, os.WriteFile(filepath.Join(home, name), []byte("provider: gemini\n"), 0644))
	assert.False(t, IsFirstRun(name))
}
