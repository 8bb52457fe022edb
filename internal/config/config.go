package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Window  WindowConfig  `toml:"window"`
	Assets  AssetsConfig  `toml:"assets"`
	Render  RenderConfig  `toml:"render"`
	Input   InputConfig   `toml:"input"`
	Physics PhysicsConfig `toml:"physics"`
	Player  PlayerConfig  `toml:"player"`
	Logging LoggingConfig `toml:"logging"`
	Debug   DebugConfig   `toml:"debug"`
}

type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	TPS    int    `toml:"tps"`
}

type AssetsConfig struct {
	Map string `toml:"map"` // YAML map descriptor; tileset images resolve relative to it
}

type RenderConfig struct {
	DisplayScale float64  `toml:"display_scale"`
	UnitScale    float64  `toml:"unit_scale"` // world units to pixels
	Background   [4]uint8 `toml:"background"` // RGBA
}

type InputConfig struct {
	Mode     string  `toml:"mode"` // "step" or "impulse"
	StepSize float64 `toml:"step_size"`
	Impulse  float64 `toml:"impulse"`
}

type PhysicsConfig struct {
	GravityX  float64 `toml:"gravity_x"`
	GravityY  float64 `toml:"gravity_y"`
	TimeScale float64 `toml:"time_scale"`
}

type PlayerConfig struct {
	X           float64  `toml:"x"`
	Y           float64  `toml:"y"`
	Width       float64  `toml:"width"`
	Height      float64  `toml:"height"`
	Colour      [4]uint8 `toml:"colour"`
	Density     float64  `toml:"density"` // 0 keeps the player out of the physics space
	Friction    float64  `toml:"friction"`
	Restitution float64  `toml:"restitution"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type DebugConfig struct {
	Imgui   bool   `toml:"imgui"`
	Profile string `toml:"profile"` // "", "cpu" or "mem"
}

// Load reads path and decodes it over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Defaults returns the configuration used when no file overrides a value.
func Defaults() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "tileproto",
			Width:  1280,
			Height: 720,
			TPS:    60,
		},
		Assets: AssetsConfig{
			Map: "assets/map.yaml",
		},
		Render: RenderConfig{
			DisplayScale: 0.5,
			UnitScale:    1,
			Background:   [4]uint8{0, 0, 0, 255},
		},
		Input: InputConfig{
			Mode:     "step",
			StepSize: 64,
			Impulse:  2000,
		},
		Physics: PhysicsConfig{
			GravityX:  0,
			GravityY:  600,
			TimeScale: 1,
		},
		Player: PlayerConfig{
			Width:  64,
			Height: 64,
			Colour: [4]uint8{255, 0, 0, 255},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

var ErrInvalid = errors.New("invalid config")

// Validate rejects values the game cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Render.DisplayScale <= 0:
		return fmt.Errorf("%w: render.display_scale must be positive", ErrInvalid)
	case c.Render.UnitScale <= 0:
		return fmt.Errorf("%w: render.unit_scale must be positive", ErrInvalid)
	case c.Physics.TimeScale < 0:
		return fmt.Errorf("%w: physics.time_scale must not be negative", ErrInvalid)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size must be positive", ErrInvalid)
	case c.Player.Density < 0:
		return fmt.Errorf("%w: player.density must not be negative", ErrInvalid)
	}
	switch c.Input.Mode {
	case "step":
	case "impulse":
		// impulses need a dynamic player body
		if c.Player.Density <= 0 {
			return fmt.Errorf("%w: input.mode \"impulse\" needs player.density > 0", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: input.mode %q", ErrInvalid, c.Input.Mode)
	}
	switch c.Debug.Profile {
	case "", "cpu", "mem":
	default:
		return fmt.Errorf("%w: debug.profile %q", ErrInvalid, c.Debug.Profile)
	}
	return nil
}
