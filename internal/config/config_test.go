package config

import (
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thedaneeffect/ebiten-objviewer/internal/source"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "viewer.toml")
	require.NoError(t, os.WriteFile(p, []byte(text), 0o644))
	return p
}

func TestLoad(t *testing.T) {
	p := writeConfig(t, `
log_level = "debug"

[window]
title = "teapots"
width = 800

[camera]
fov = 45.0
auto_rotate = 0.5

[light]
direction = [0.0, 1.0, 0.0]
background = [10, 20, 30]

[loader]
watch = true

[[models]]
name = "teapot"
obj = "models/teapot.obj"

[[models]]
name = "cube"
obj = "https://example.com/cube.obj"
mtl = "https://example.com/cube.mtl"
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "teapots", cfg.Window.Title)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, Default().Window.Height, cfg.Window.Height)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Loader.Watch)
	assert.Equal(t, Default().Loader.CacheSize, cfg.Loader.CacheSize)

	assert.Equal(t, [3]float32{0, 1, 0}, cfg.Light.Direction)
	assert.Equal(t, color.RGBA{10, 20, 30, 255}, cfg.Light.BackgroundColor())
	assert.Equal(t, Default().Light.Color, cfg.Light.Color)

	assert.InDelta(t, math.Pi/4, cfg.Camera.FOVRadians(), 1e-6)
	assert.Equal(t, float32(0.5), cfg.Camera.Params().AutoRotate)

	assert.Equal(t, []source.Model{
		{Name: "teapot", OBJ: "models/teapot.obj"},
		{Name: "cube", OBJ: "https://example.com/cube.obj", MTL: "https://example.com/cube.mtl"},
	}, cfg.Models)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	p := writeConfig(t, "[window]\nwidht = 10\n")
	_, err := Load(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window.widht")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "[window\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.Models = []source.Model{{OBJ: "a.obj"}}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no models", func(c *Config) { c.Models = nil }},
		{"model without obj", func(c *Config) { c.Models = []source.Model{{Name: "x"}} }},
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"inverted distances", func(c *Config) { c.Camera.MinDistance, c.Camera.MaxDistance = 10, 2 }},
		{"zero min distance", func(c *Config) { c.Camera.MinDistance = 0 }},
		{"fov", func(c *Config) { c.Camera.FOV = 180 }},
		{"cache", func(c *Config) { c.Loader.CacheSize = 0 }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			cfg.Models = append([]source.Model(nil), valid.Models...)
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDefaultLightRoundTrip(t *testing.T) {
	l := Default().Light
	assert.Equal(t, l.Direction, [3]float32(l.Light().Direction))
	assert.Equal(t, l.Ambient, l.Light().Ambient)
}
