// Package config loads the skinkit configuration: an embedded default
// merged with an optional user file.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/skinkit/internal/parse"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

var (
	embeddedConfigOnce sync.Once
	embeddedConfig     Config
	embeddedConfigErr  error
)

// Config is the merged configuration.
type Config struct {
	Skin SkinConfig `yaml:"skin"`
	Map  MapConfig  `yaml:"map"`
	Log  LogConfig  `yaml:"log"`
}

// SkinConfig locates skins.
type SkinConfig struct {
	Path       string `yaml:"path"`
	Default    string `yaml:"default"`
	Resolution string `yaml:"resolution"`
}

// MapConfig configures the map renderer of the view command.
type MapConfig struct {
	TileSize         int     `yaml:"tile_size"`
	Width            int     `yaml:"width"`
	Height           int     `yaml:"height"`
	Background       string  `yaml:"background"`
	Fog              string  `yaml:"fog"`
	PlayerMarker     string  `yaml:"player_marker"`
	MaxDarknessAlpha float64 `yaml:"max_darkness_alpha"`
}

// LogConfig sets the zap level.
type LogConfig struct {
	Level int8 `yaml:"level"`
}

// DefaultConfigYAML returns a copy of the embedded default config YAML bytes.
func DefaultConfigYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Default parses and returns the embedded default configuration.
func Default() (Config, error) {
	embeddedConfigOnce.Do(func() {
		if len(embeddedDefaultConfig) == 0 {
			embeddedConfigErr = fmt.Errorf("embedded default config is empty")
			return
		}
		if err := decode(embeddedDefaultConfig, &embeddedConfig); err != nil {
			embeddedConfigErr = fmt.Errorf("decode embedded default config: %w", err)
		}
	})
	return embeddedConfig, embeddedConfigErr
}

// decode overlays the keys present in data onto cfg and rejects unknown keys.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Load returns the default configuration merged with the file at path.
// An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}
	if path == "" {
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ResolvePath returns explicit if set, otherwise
// $XDG_CONFIG_HOME/skinkit/config.yaml (or ~/.config/skinkit/config.yaml)
// when that file exists, otherwise "".
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	xdg := os.Getenv("XDG_CONFIG_HOME")
	candidate := ""
	if xdg != "" {
		candidate = filepath.Join(xdg, "skinkit", "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", "skinkit", "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

// Validate checks value ranges and that every color and size parses.
func (c Config) Validate() error {
	if _, err := c.Resolution(); err != nil {
		return fmt.Errorf("skin.resolution: %w", err)
	}
	m := c.Map
	if m.TileSize <= 0 {
		return fmt.Errorf("map.tile_size must be positive, got %d", m.TileSize)
	}
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("map size must be positive, got %dx%d", m.Width, m.Height)
	}
	if m.MaxDarknessAlpha < 0 || m.MaxDarknessAlpha > 1 {
		return fmt.Errorf("map.max_darkness_alpha must be in [0,1], got %g", m.MaxDarknessAlpha)
	}
	for _, kv := range [][2]string{
		{"map.background", m.Background},
		{"map.fog", m.Fog},
		{"map.player_marker", m.PlayerMarker},
	} {
		if _, err := parse.Color(kv[1], nil); err != nil {
			return fmt.Errorf("%s: %w", kv[0], err)
		}
	}
	return nil
}

// Resolution parses skin.resolution.
func (c Config) Resolution() (image.Point, error) {
	return parse.Size(c.Skin.Resolution)
}

// Colors returns the parsed map colors. Validate must have succeeded.
func (m MapConfig) Colors() (background, fog, marker color.NRGBA) {
	background, _ = parse.Color(m.Background, nil)
	fog, _ = parse.Color(m.Fog, nil)
	marker, _ = parse.Color(m.PlayerMarker, nil)
	return background, fog, marker
}

// Marshal renders cfg as yaml.
func (c Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
