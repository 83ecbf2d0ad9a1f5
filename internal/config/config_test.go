package config

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.Skin.Default)
	assert.Equal(t, 32, cfg.Map.TileSize)
	assert.Equal(t, int8(0), cfg.Log.Level)

	res, err := cfg.Resolution()
	require.NoError(t, err)
	assert.Equal(t, image.Pt(1024, 768), res)

	bg, fog, marker := cfg.Map.Colors()
	assert.Equal(t, color.NRGBA{A: 255}, bg)
	assert.Equal(t, uint8(128), fog.A)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, A: 255}, marker)
}

func TestLoadMergesUserFile(t *testing.T) {
	path := writeConfig(t, `
skin:
  default: classic
map:
  tile_size: 64
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "classic", cfg.Skin.Default)
	assert.Equal(t, 64, cfg.Map.TileSize)
	assert.Equal(t, "skins", cfg.Skin.Path, "unset keys keep their default")
	assert.Equal(t, 25, cfg.Map.Width)

	def, err := Default()
	require.NoError(t, err)
	assert.Equal(t, 32, def.Map.TileSize, "merging does not touch the cached default")
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	def, _ := Default()
	assert.Equal(t, def, cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "map:\n  zoom: 2\n", "field zoom not found"},
		{"tile size", "map:\n  tile_size: 0\n", "map.tile_size must be positive, got 0"},
		{"darkness", "map:\n  max_darkness_alpha: 1.5\n", "map.max_darkness_alpha must be in [0,1], got 1.5"},
		{"color", "map:\n  fog: MAUVE\n", "map.fog: invalid color 'MAUVE'"},
		{"resolution", "skin:\n  resolution: big\n", "skin.resolution: invalid size 'big'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolvePath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	assert.Equal(t, "explicit.yaml", ResolvePath("explicit.yaml"))
	assert.Equal(t, "", ResolvePath(""))

	path := filepath.Join(dir, "skinkit", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	assert.Equal(t, path, ResolvePath(""))
}

func TestMarshalRoundTrips(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	data, err := cfg.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "tile_size: 32")

	var back Config
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, cfg, back)
}
