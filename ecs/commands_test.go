package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/tileproto/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spawnSystem struct {
	executed bool
}

func (s *spawnSystem) Execute(frame *ecs.UpdateFrame) {
	s.executed = true
	frame.Commands.Spawn(Position{X: 1, Y: 2}, Velocity{DX: 0.5, DY: 0.5})
	frame.Commands.Spawn(Position{X: 3, Y: 4})
}

type removeVelocitySystem struct {
	Moving ecs.Query[struct {
		*Position
		*Velocity
	}]
	seen int
}

func (s *removeVelocitySystem) Execute(frame *ecs.UpdateFrame) {
	for id := range s.Moving.Iter() {
		s.seen++
		frame.Commands.RemoveComponent(id, reflect.TypeFor[Velocity]())
	}
}

func TestCommandsSpawnIsDeferred(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	spawner := &spawnSystem{}
	scheduler.Register(spawner)

	counter := &removeVelocitySystem{}
	scheduler.Register(counter)

	scheduler.Once(1)
	assert.True(t, spawner.executed)
	assert.Equal(t, 0, counter.seen, "spawns must not be visible during the tick")

	view := ecs.NewView[struct{ *Position }](storage)
	assert.Equal(t, 2, view.Count())
}

func TestCommandsRemoveDuringIteration(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	for i := range 5 {
		storage.Spawn(Position{X: float32(i)}, Velocity{DX: 1})
	}

	scheduler := ecs.NewScheduler(storage)
	system := &removeVelocitySystem{}
	scheduler.Register(system)

	scheduler.Once(1)
	assert.Equal(t, 5, system.seen)

	scheduler.Once(1)
	assert.Equal(t, 5, system.seen, "velocity should be gone after the first flush")

	assert.Equal(t, 5, ecs.NewView[struct{ *Position }](storage).Count())
}

func TestCommandsDeleteWins(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{})

	var c ecs.Commands
	c.AddComponent(id, Velocity{DX: 1})
	c.RemoveComponent(id, reflect.TypeFor[Position]())
	c.Delete(id)
	assert.Equal(t, 3, c.Pending())

	c.Flush(storage)
	assert.False(t, storage.Alive(id))
	assert.Equal(t, 0, c.Pending())
	assert.Equal(t, 0, storage.CollectStats().TotalEntityCount)
}

func TestCommandsChainOnSameEntity(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1}, Velocity{DX: 1}, Health{Current: 1})

	var c ecs.Commands
	c.RemoveComponent(id, reflect.TypeFor[Velocity]())
	c.RemoveComponent(id, reflect.TypeFor[Health]())
	c.AddComponent(id, Name{Value: "renamed"})
	c.Flush(storage)

	view := ecs.NewView[struct {
		*Position
		*Name
	}](storage)

	var found int
	for moved, item := range view.Iter() {
		found++
		assert.Equal(t, float32(1), item.Position.X)
		assert.Equal(t, "renamed", item.Name.Value)
		assert.False(t, storage.HasComponent(moved, reflect.TypeFor[Velocity]()))
		assert.False(t, storage.HasComponent(moved, reflect.TypeFor[Health]()))
	}
	require.Equal(t, 1, found)
}

func TestCommandsDeferRunsLast(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	var c ecs.Commands
	c.Spawn(Position{X: 4})

	var countAtDefer int
	c.Defer(func() {
		countAtDefer = ecs.NewView[struct{ *Position }](storage).Count()
	})
	c.Flush(storage)

	assert.Equal(t, 1, countAtDefer)
}
