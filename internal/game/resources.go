package game

import (
	"image/color"

	"github.com/kamstrup/intmap"
	"github.com/plus3/tileproto/ecs"
)

// KeyPressEvents holds key presses the platform has not handed to the input
// system yet.
type KeyPressEvents struct {
	ecs.EventQueue[Key]
}

// RenderEvent asks for one frame to be drawn.
type RenderEvent struct {
	DeltaTime float64 // seconds since the previous frame
	Width     int
	Height    int
	Canvas    Canvas // nil skips drawing but still drives the physics step
}

type RenderEvents struct {
	ecs.EventQueue[RenderEvent]
}

// DisplaySettings controls how world units map to screen pixels.
type DisplaySettings struct {
	DisplayScale float64
	UnitScale    float64
	Background   color.RGBA
}

// Impulse is an accumulated push in world units.
type Impulse struct {
	X, Y float64
}

// Forces collects impulses for one tick. The physics system applies and
// clears them. Entries are applied in the order entities were first pushed.
type Forces struct {
	pending *intmap.Map[ecs.EntityId, Impulse]
	order   []ecs.EntityId
}

func NewForces() Forces {
	return Forces{pending: intmap.New[ecs.EntityId, Impulse](8)}
}

// Add accumulates an impulse for id.
func (f *Forces) Add(id ecs.EntityId, x, y float64) {
	if f.pending == nil {
		f.pending = intmap.New[ecs.EntityId, Impulse](8)
	}
	current, ok := f.pending.Get(id)
	if !ok {
		f.order = append(f.order, id)
	}
	f.pending.Put(id, Impulse{X: current.X + x, Y: current.Y + y})
}

// Get returns the accumulated impulse for id.
func (f *Forces) Get(id ecs.EntityId) (Impulse, bool) {
	if f.pending == nil {
		return Impulse{}, false
	}
	return f.pending.Get(id)
}

func (f *Forces) Len() int {
	return len(f.order)
}

// Each visits pending impulses in insertion order.
func (f *Forces) Each(visit func(id ecs.EntityId, impulse Impulse)) {
	for _, id := range f.order {
		impulse, _ := f.pending.Get(id)
		visit(id, impulse)
	}
}

func (f *Forces) Clear() {
	for _, id := range f.order {
		f.pending.Del(id)
	}
	f.order = f.order[:0]
}
