package main

import (
	"bytes"
	"math/rand"
	"testing"
	"time"

	"github.com/plus3/tileproto/ecs"
	"github.com/plus3/tileproto/internal/game"
	"github.com/plus3/tileproto/internal/tilemap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsFinalize(t *testing.T) {
	s := Stats{Samples: []time.Duration{3 * time.Millisecond, time.Millisecond, 5 * time.Millisecond}}
	s.Finalize()
	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 5*time.Millisecond, s.Max)
	assert.Equal(t, 3*time.Millisecond, s.Avg)

	var empty Stats
	empty.Finalize()
	assert.Zero(t, empty.Avg)
}

func TestReportGenerate(t *testing.T) {
	r := &Report{
		Duration:  time.Second,
		Mode:      "loop",
		MapWidth:  4,
		MapHeight: 2,
		Tiles:     5,
		Players:   1,
		InputMode: "step",
		Systems:   []ecs.SystemStats{{Name: "InputSystem", ExecutionCount: 7}},
	}
	var buf bytes.Buffer
	require.NoError(t, r.Generate(&buf))

	out := buf.String()
	assert.Contains(t, out, "# Tick Benchmark Report")
	assert.Contains(t, out, "**Map:** 4x2 (5 tiles)")
	assert.Contains(t, out, "| InputSystem | 7 |")
	assert.NotContains(t, out, "GC Pause")
}

func TestGeneratedMapSpawns(t *testing.T) {
	m, err := tilemap.Parse([]byte(generateMap(rand.New(rand.NewSource(7)), 10, 4)))
	require.NoError(t, err)

	registry := ecs.NewComponentRegistry()
	game.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	n, err := m.Spawn(storage)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 10, "the floor row is always full")

	floor := ecs.NewView[struct {
		*game.Transform
		*game.RigidBodyDescriptor
	}](storage)
	assert.GreaterOrEqual(t, floor.Count(), 10)
}

func TestBenchPipelineTicks(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	game.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)
	pipeline := game.NewPipeline(storage, game.DefaultSettings(), nil)
	storage.Spawn(game.Transform{}, game.Tile{Width: 16, Height: 16, Atlas: &game.Atlas{Texture: benchTexture{}}})
	game.SpawnPlayer(storage, game.DefaultPlayerSettings())

	canvas := &countingCanvas{}
	feeder := &feedSystem{rng: rand.New(rand.NewSource(1)), canvas: canvas, pipeline: pipeline}
	pipeline.Scheduler.Register(feeder)

	feeder.feed(1.0 / 60)
	for range 10 {
		pipeline.Tick(1.0 / 60)
	}

	assert.Equal(t, int64(10), canvas.clears)
	assert.Equal(t, int64(10), canvas.sprites)
	assert.Equal(t, int64(10), canvas.rects)
}
