package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/tileproto/ecs"
)

func BenchmarkSpawn(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())
	b.ReportAllocs()
	for i := 0; b.Loop(); i++ {
		storage.Spawn(Position{X: float32(i)}, Velocity{DX: 1})
	}
}

func BenchmarkViewIter(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())
	for i := range 10000 {
		storage.Spawn(Position{X: float32(i)}, Velocity{DX: 1})
		if i%3 == 0 {
			storage.Spawn(Position{X: float32(i)}, Velocity{DX: 1}, Health{})
		}
	}
	view := ecs.NewView[struct {
		*Position
		*Velocity
	}](storage)

	b.ReportAllocs()
	for b.Loop() {
		for item := range view.Values() {
			item.Position.X += item.Velocity.DX
		}
	}
}

func BenchmarkQueryExecute(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())
	for i := range 10000 {
		storage.Spawn(Position{X: float32(i)}, Velocity{DX: 1})
	}
	query := ecs.NewQuery[struct {
		*Position
		*Velocity
	}](storage)

	for b.Loop() {
		query.Execute()
	}
}

func BenchmarkAddRemoveComponent(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{})
	healthType := reflect.TypeFor[Health]()

	for b.Loop() {
		id = storage.AddComponent(id, Health{Current: 1})
		id = storage.RemoveComponent(id, healthType)
	}
}
