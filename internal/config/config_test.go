package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/plus3/tileproto/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tileproto.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := config.Defaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0.5, cfg.Render.DisplayScale)
	assert.Equal(t, 64.0, cfg.Input.StepSize)
	assert.Equal(t, 1.0, cfg.Physics.TimeScale)
	assert.Equal(t, 600.0, cfg.Physics.GravityY)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[input]
mode = "impulse"

[physics]
gravity_y = 0.0

[player]
density = 1.0

[logging]
level = "debug"
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "impulse", cfg.Input.Mode)
	assert.Equal(t, 64.0, cfg.Input.StepSize, "untouched keys keep their default")
	assert.Equal(t, 0.0, cfg.Physics.GravityY)
	assert.Equal(t, 1.0, cfg.Player.Density)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = config.Load(writeConfig(t, "[render\ndisplay_scale = "))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Config)
	}{
		{"zero display scale", func(c *config.Config) { c.Render.DisplayScale = 0 }},
		{"negative unit scale", func(c *config.Config) { c.Render.UnitScale = -1 }},
		{"negative time scale", func(c *config.Config) { c.Physics.TimeScale = -0.5 }},
		{"unknown input mode", func(c *config.Config) { c.Input.Mode = "teleport" }},
		{"impulse without player body", func(c *config.Config) { c.Input.Mode = "impulse" }},
		{"unknown profile", func(c *config.Config) { c.Debug.Profile = "trace" }},
		{"empty window", func(c *config.Config) { c.Window.Width = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Defaults()
			tt.modify(cfg)
			assert.ErrorIs(t, cfg.Validate(), config.ErrInvalid)
		})
	}
}

func TestValidateImpulseWithPlayerBody(t *testing.T) {
	cfg := config.Defaults()
	cfg.Input.Mode = "impulse"
	cfg.Player.Density = 0.5
	assert.NoError(t, cfg.Validate())
}

func TestLoadRejectsInvalid(t *testing.T) {
	_, err := config.Load(writeConfig(t, "[input]\nmode = \"warp\"\n"))
	assert.ErrorIs(t, err, config.ErrInvalid)
}
