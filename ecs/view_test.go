package ecs_test

import (
	"testing"

	"github.com/plus3/tileproto/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewGet(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1, Y: 2}, Temperature(32))

	view := ecs.NewView[struct {
		*Position
		*Temperature
	}](storage)

	item := view.Get(id)
	require.NotNil(t, item)
	assert.Equal(t, Temperature(32), *item.Temperature)
	assert.Equal(t, float32(2), item.Position.Y)
}

func TestViewMissingRequiredComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 5})

	view := ecs.NewView[struct {
		*Position
		*Velocity
	}](storage)

	assert.Nil(t, view.Get(id))
}

func TestViewOptionalComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	with := storage.Spawn(Position{X: 1}, Health{Current: 3})
	without := storage.Spawn(Position{X: 2})

	view := ecs.NewView[struct {
		*Position
		Health *Health `ecs:"optional"`
	}](storage)

	a := view.Get(with)
	require.NotNil(t, a)
	require.NotNil(t, a.Health)
	assert.Equal(t, 3, a.Health.Current)

	b := view.Get(without)
	require.NotNil(t, b)
	assert.Nil(t, b.Health)

	assert.Equal(t, 2, view.Count())
}

func TestViewPanicsOnBadShape(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Panics(t, func() { ecs.NewView[int](storage) })
	assert.Panics(t, func() { ecs.NewView[struct{ Position }](storage) })
	assert.Panics(t, func() {
		ecs.NewView[struct {
			P *Position `ecs:"maybe"`
		}](storage)
	})
}

func TestViewIterJoinsAcrossArchetypes(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	a := storage.Spawn(Position{X: 1}, Velocity{DX: 1})
	storage.Spawn(Position{X: 2})
	b := storage.Spawn(Position{X: 3}, Velocity{DX: 3}, Health{})
	c := storage.Spawn(Position{X: 4}, Velocity{DX: 4})

	view := ecs.NewView[struct {
		*Position
		*Velocity
	}](storage)

	var ids []ecs.EntityId
	for id, item := range view.Iter() {
		assert.Equal(t, item.Position.X, item.Velocity.DX)
		ids = append(ids, id)
	}

	// archetype creation order, then slot order
	assert.Equal(t, []ecs.EntityId{a, c, b}, ids)
}

func TestViewIterMutationAndBreak(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	for i := range 10 {
		storage.Spawn(Position{X: float32(i)})
	}

	view := ecs.NewView[struct{ *Position }](storage)
	for item := range view.Values() {
		item.Position.Y = 7
	}
	for item := range view.Values() {
		assert.Equal(t, float32(7), item.Position.Y)
	}

	seen := 0
	for range view.Iter() {
		seen++
		if seen == 3 {
			break
		}
	}
	assert.Equal(t, 3, seen)
}

func TestViewGetRef(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1}, Velocity{})
	ref := storage.CreateEntityRef(id)

	view := ecs.NewView[struct{ *Position }](storage)
	require.NotNil(t, view.GetRef(ref))

	storage.Delete(id)
	assert.Nil(t, view.GetRef(ref))
}

func TestViewSpawn(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	view := ecs.NewView[struct {
		*Position
		Name *Name `ecs:"optional"`
	}](storage)

	id := view.Spawn(struct {
		*Position
		Name *Name `ecs:"optional"`
	}{Position: &Position{X: 8}})

	assert.Equal(t, float32(8), ecs.ReadComponent[Position](storage, id).X)
	assert.Nil(t, ecs.ReadComponent[Name](storage, id))
}
