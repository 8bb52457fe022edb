package debugui_test

import (
	"testing"

	"github.com/plus3/tileproto/ecs"
	"github.com/plus3/tileproto/ecs/debugui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Position struct{ X, Y float64 }
type Sprite struct{ Name string }

func TestCollectAndFilterEntities(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Sprite](registry)
	storage := ecs.NewStorage(registry)

	a := storage.Spawn(Position{})
	b := storage.Spawn(Position{}, Sprite{Name: "hero"})
	gone := storage.Spawn(Position{})
	storage.Delete(gone)

	entities := debugui.CollectEntities(storage)
	require.Len(t, entities, 2)
	assert.Equal(t, a, entities[0].ID)
	assert.Equal(t, b, entities[1].ID)
	assert.Equal(t, []string{"debugui_test.Position", "debugui_test.Sprite"}, entities[1].ComponentTypes)

	sprites := debugui.FilterEntities(entities, "SPRITE")
	require.Len(t, sprites, 1)
	assert.Equal(t, b, sprites[0].ID)

	assert.Len(t, debugui.FilterEntities(entities, ""), 2)
	assert.Empty(t, debugui.FilterEntities(entities, "velocity"))
}

func TestFrameHistory(t *testing.T) {
	h := debugui.NewFrameHistory(3)
	assert.Equal(t, float32(0), h.Average())

	h.Push(10)
	assert.Equal(t, float32(10), h.Average())

	h.Push(20)
	h.Push(30)
	h.Push(40) // overwrites 10
	assert.Equal(t, float32(30), h.Average())
	assert.Len(t, h.Samples(), 3)

	assert.Len(t, debugui.NewFrameHistory(0).Samples(), 1)
}
