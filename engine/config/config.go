// Package config loads the YAML settings shared by the hexmap tools and merges command line overrides into them.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Carmen-Shannon/oxy-hexpick/common"
	"github.com/Carmen-Shannon/oxy-hexpick/engine/picker"
	"gopkg.in/yaml.v3"
)

// maxConfigSize bounds the config file read into memory.
const maxConfigSize = 1024 * 1024

// Window configures the window the tools open.
type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	VSync  *bool  `yaml:"vsync"` // pointer to distinguish unset vs false
}

// Map configures the hex map.
type Map struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Radius float32 `yaml:"radius"`
}

// Shaders names shader files on disk. Empty paths select the embedded sources.
type Shaders struct {
	PickVertex   string `yaml:"pick_vertex"`
	PickFragment string `yaml:"pick_fragment"`
}

// Picker configures the tile picker.
type Picker struct {
	Offscreen bool `yaml:"offscreen"`
	Workers   int  `yaml:"workers"`
}

// Model configures the optional marker model drawn on the picked tile.
type Model struct {
	Path    string  `yaml:"path"`
	Texture string  `yaml:"texture"`
	Scale   float32 `yaml:"scale"`
}

// Config is the full tool configuration.
type Config struct {
	Window   Window  `yaml:"window"`
	Map      Map     `yaml:"map"`
	Shaders  Shaders `yaml:"shaders"`
	Picker   Picker  `yaml:"picker"`
	Model    Model   `yaml:"model"`
	LogLevel string  `yaml:"log_level"`
}

// Flags carries command line overrides. Zero values leave the loaded setting alone.
type Flags struct {
	Width     int
	Height    int
	MapWidth  int
	MapHeight int
	Model     string
	Texture   string
	LogLevel  string
	Offscreen bool
}

// Default returns the built-in configuration.
//
// Returns:
//   - *Config: a configuration that passes Validate
func Default() *Config {
	return &Config{
		Window: Window{
			Title:  "hexmap",
			Width:  1280,
			Height: 720,
		},
		Map: Map{
			Width:  16,
			Height: 12,
			Radius: 1,
		},
		Picker: Picker{
			Workers: 4,
		},
		Model: Model{
			Scale: 0.5,
		},
		LogLevel: "info",
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep their default value.
// An empty path or a missing file yields the defaults.
//
// Parameters:
//   - path: the file to read, may be empty
//
// Returns:
//   - *Config: the loaded configuration
//   - error: an error if the file cannot be read or parsed
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		common.Logger().Warn("config: file not found, using defaults", "path", path)
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if info.Size() > maxConfigSize {
		return nil, fmt.Errorf("config: %s is %d bytes, limit is %d", path, info.Size(), maxConfigSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	common.Logger().Info("config: loaded", "path", path)
	return cfg, nil
}

// Resolve overlays the non-zero flags onto the configuration.
//
// Parameters:
//   - f: the command line overrides
func (c *Config) Resolve(f Flags) {
	c.Window.Width = common.Coalesce(f.Width, c.Window.Width)
	c.Window.Height = common.Coalesce(f.Height, c.Window.Height)
	c.Map.Width = common.Coalesce(f.MapWidth, c.Map.Width)
	c.Map.Height = common.Coalesce(f.MapHeight, c.Map.Height)
	c.Model.Path = common.Coalesce(f.Model, c.Model.Path)
	c.Model.Texture = common.Coalesce(f.Texture, c.Model.Texture)
	c.LogLevel = common.Coalesce(f.LogLevel, c.LogLevel)
	c.Picker.Offscreen = f.Offscreen || c.Picker.Offscreen
}

// Validate checks the configuration for values the tools cannot run with.
//
// Returns:
//   - error: all problems found, joined, or nil
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("config: window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Map.Width <= 0 || c.Map.Height <= 0 {
		errs = append(errs, fmt.Errorf("config: map size %dx%d must be positive", c.Map.Width, c.Map.Height))
	}
	if c.Map.Width > picker.MaxMapAxis || c.Map.Height > picker.MaxMapAxis {
		errs = append(errs, fmt.Errorf("config: map size %dx%d: %w", c.Map.Width, c.Map.Height, picker.ErrMapTooLarge))
	}
	if c.Map.Radius <= 0 {
		errs = append(errs, fmt.Errorf("config: map radius %v must be positive", c.Map.Radius))
	}
	if (c.Shaders.PickVertex == "") != (c.Shaders.PickFragment == "") {
		errs = append(errs, errors.New("config: pick_vertex and pick_fragment must be set together"))
	}
	if c.Picker.Workers < 0 {
		errs = append(errs, fmt.Errorf("config: picker workers %d must not be negative", c.Picker.Workers))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// VSyncEnabled reports the vsync setting, on when unset.
//
// Returns:
//   - bool: true to synchronize with the display
func (c *Config) VSyncEnabled() bool {
	return c.Window.VSync == nil || *c.Window.VSync
}

// Size returns the map size in tiles.
//
// Returns:
//   - common.Size2: the map size
func (m Map) Size() common.Size2 {
	return common.Size2{W: m.Width, H: m.Height}
}

// Size returns the window size in pixels.
//
// Returns:
//   - common.Size2: the window size
func (w Window) Size() common.Size2 {
	return common.Size2{W: w.Width, H: w.Height}
}

// ParseLevel maps a level name to a slog level.
//
// Parameters:
//   - name: debug, info, warn or error, case-insensitive
//
// Returns:
//   - slog.Level: the level
//   - error: an error for an unknown name
func ParseLevel(name string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return 0, fmt.Errorf("config: log level %q: %w", name, err)
	}
	return lvl, nil
}

// NewLogger builds a text logger writing to w at the configured level.
//
// Parameters:
//   - w: the destination, usually os.Stderr
//
// Returns:
//   - *slog.Logger: the logger
//   - error: an error if the log level is unknown
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	lvl, err := ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
