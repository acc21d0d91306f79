// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Sprite     SpriteConfig     `yaml:"sprite"`
	Population PopulationConfig `yaml:"population"`
	Collision  CollisionConfig  `yaml:"collision"`
	Layout     string           `yaml:"layout"`
	Render     RenderConfig     `yaml:"render"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
// The simulation plane is exactly the screen; it is never resized.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds stepping parameters.
type PhysicsConfig struct {
	DT           float64 `yaml:"dt"`             // Fixed step used by headless runs
	GridCellSize float64 `yaml:"grid_cell_size"` // 0 = twice the sprite width
}

// SpriteConfig holds the default sprite extent and spawn speed.
type SpriteConfig struct {
	Width  float64 `yaml:"width"`  // 0 = screen width / 50
	Height float64 `yaml:"height"` // 0 = screen height / 50
	Speed  float64 `yaml:"speed"`  // Velocity magnitude of spawned sprites (units/s)
}

// PopulationConfig holds population management parameters.
type PopulationConfig struct {
	Initial int `yaml:"initial"`
	Max     int `yaml:"max"` // Hard cap for Grow
}

// CollisionConfig holds broad-phase parameters.
type CollisionConfig struct {
	// CellCap limits how many sprites per cell take part in pair tests,
	// keyed by layout name. 0 or missing = unlimited.
	CellCap map[string]int `yaml:"cell_cap"`
}

// RenderConfig holds drawing parameters for the interactive driver.
type RenderConfig struct {
	Texture string `yaml:"texture"` // Optional sprite image; empty draws rectangles
	Color   [4]int `yaml:"color"`   // RGBA, 0-255
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // Seconds of simulated time per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // Ticks averaged by the perf collector
	FPSSamples          int     `yaml:"fps_samples"`           // Frames averaged by the HUD FPS counter
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32       float32 // Physics.DT as float32
	ScreenW32  float32 // Screen.Width as float32
	ScreenH32  float32 // Screen.Height as float32
	SpriteW32  float32 // Effective sprite width
	SpriteH32  float32 // Effective sprite height
	Speed32    float32 // Sprite.Speed as float32
	CellSize32 float32 // Effective grid cell size
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("invalid screen size %dx%d", c.Screen.Width, c.Screen.Height)
	}
	if c.Physics.DT < 0 {
		return fmt.Errorf("physics.dt must be >= 0, got %v", c.Physics.DT)
	}
	if c.Physics.GridCellSize < 0 {
		return fmt.Errorf("physics.grid_cell_size must be >= 0, got %v", c.Physics.GridCellSize)
	}
	if c.Population.Max < 0 || c.Population.Initial < 0 {
		return fmt.Errorf("population counts must be >= 0")
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.Speed32 = float32(c.Sprite.Speed)

	// Sprite extent defaults to a 50th of the screen
	c.Derived.SpriteW32 = float32(c.Sprite.Width)
	if c.Derived.SpriteW32 == 0 {
		c.Derived.SpriteW32 = c.Derived.ScreenW32 / 50
	}
	c.Derived.SpriteH32 = float32(c.Sprite.Height)
	if c.Derived.SpriteH32 == 0 {
		c.Derived.SpriteH32 = c.Derived.ScreenH32 / 50
	}

	// Cell size defaults to two sprite widths, truncated to whole units
	c.Derived.CellSize32 = float32(c.Physics.GridCellSize)
	if c.Derived.CellSize32 == 0 {
		c.Derived.CellSize32 = float32(int(c.Derived.SpriteW32 * 2))
	}
}

// CellCapFor returns the per-cell collision cap for a layout name.
func (c *Config) CellCapFor(layout string) int {
	return c.Collision.CellCap[layout]
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
