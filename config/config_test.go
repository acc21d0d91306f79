package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 1280, cfg.Screen.Width)
	assert.Equal(t, 720, cfg.Screen.Height)
	assert.Equal(t, 1000, cfg.Population.Initial)
	assert.Equal(t, 100000, cfg.Population.Max)
	assert.Equal(t, "records", cfg.Layout)

	assert.Equal(t, float32(1280)/50, cfg.Derived.SpriteW32)
	assert.Equal(t, float32(720)/50, cfg.Derived.SpriteH32)
	assert.Equal(t, float32(51), cfg.Derived.CellSize32)
	assert.Equal(t, float32(300), cfg.Derived.Speed32)
}

func TestCellCapFor(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	tests := []struct {
		layout string
		want   int
	}{
		{"records", 0},
		{"fields", 32},
		{"archetype", 0},
		{"unknown", 0},
	}
	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.CellCapFor(tt.layout))
		})
	}
}

func TestLoadOverridesOnlyGivenKeys(t *testing.T) {
	path := writeConfig(t, `
screen:
  width: 800
sprite:
  width: 10
physics:
  grid_cell_size: 64
collision:
  cell_cap:
    fields: 8
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Screen.Width)
	assert.Equal(t, 720, cfg.Screen.Height, "height keeps its default")
	assert.Equal(t, float32(10), cfg.Derived.SpriteW32)
	assert.Equal(t, float32(720)/50, cfg.Derived.SpriteH32)
	assert.Equal(t, float32(64), cfg.Derived.CellSize32)
	assert.Equal(t, 8, cfg.CellCapFor("fields"))
	assert.Equal(t, 300.0, cfg.Sprite.Speed)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero width", "screen:\n  width: 0\n"},
		{"negative dt", "physics:\n  dt: -1\n"},
		{"negative cell size", "physics:\n  grid_cell_size: -4\n"},
		{"negative max", "population:\n  max: -1\n"},
		{"bad yaml", "screen: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Layout = "archetype"
	cfg.Population.Initial = 5

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "archetype", got.Layout)
	assert.Equal(t, 5, got.Population.Initial)
	assert.Equal(t, cfg.Render.Color, got.Render.Color)
	assert.Equal(t, cfg.Derived, got.Derived)
}

func TestCfgBeforeInitPanics(t *testing.T) {
	prev := global
	global = nil
	defer func() { global = prev }()

	assert.Panics(t, func() { Cfg() })

	require.NoError(t, Init(""))
	assert.Equal(t, 1280, Cfg().Screen.Width)
}
