package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.Exclude)
	assert.True(t, cfg.AutoNaming)
	assert.True(t, cfg.ResetStyles)
	assert.True(t, cfg.MinifiedStyles)
	assert.Equal(t, "0", cfg.Port)
}

func TestNormalizePort(t *testing.T) {
	assert.Equal(t, "0", NormalizePort("*"))
	assert.Equal(t, "0", NormalizePort(""))
	assert.Equal(t, "4500", NormalizePort("4500"))
}

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "galadriel.config.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFilePartialOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "galadriel.config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"minifiedStyles": false, "port": "*"}`), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.False(t, cfg.MinifiedStyles)
	assert.True(t, cfg.AutoNaming)
	assert.True(t, cfg.ResetStyles)
	assert.Equal(t, "0", cfg.Port)
}

func TestLoadFileExclude(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "galadriel.config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"exclude": ["node_modules/**", "dist/**"]}`), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"node_modules/**", "dist/**"}, cfg.Exclude)
}
