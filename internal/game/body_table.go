package game

import (
	"github.com/jakecoffman/cp"
	"github.com/kamstrup/intmap"
	"github.com/plus3/tileproto/ecs"
)

// BodyHandle identifies one physics body in a BodyTable.
type BodyHandle uint32

// Body ties a cp body and its shape to the entity that owns it.
type Body struct {
	Handle BodyHandle
	Body   *cp.Body
	Shape  *cp.Shape
	Entity *ecs.EntityRef
	// Offset is the body centre relative to the entity's Transform.
	Offset cp.Vector

	// bodyAt is the body position last seen by sync or follow, transformAt
	// the Transform value that went with it.
	bodyAt      cp.Vector
	transformAt Transform
	orphan      bool
}

// BodyTable is the side table between physics bodies and entities. Entities
// are held by EntityRef, so archetype moves do not break the association.
type BodyTable struct {
	bodies *intmap.Map[BodyHandle, *Body]
	byRef  map[*ecs.EntityRef]BodyHandle
	order  []BodyHandle
	next   BodyHandle
}

func NewBodyTable() *BodyTable {
	return &BodyTable{
		bodies: intmap.New[BodyHandle, *Body](64),
		byRef:  make(map[*ecs.EntityRef]BodyHandle),
		next:   1,
	}
}

// Insert records a new body for ref and returns its handle.
func (t *BodyTable) Insert(ref *ecs.EntityRef, body *cp.Body, shape *cp.Shape, offset cp.Vector) BodyHandle {
	h := t.next
	t.next++
	t.bodies.Put(h, &Body{
		Handle: h,
		Body:   body,
		Shape:  shape,
		Entity: ref,
		Offset: offset,
		bodyAt: body.Position(),
	})
	t.byRef[ref] = h
	t.order = append(t.order, h)
	return h
}

// Get returns the body for h.
func (t *BodyTable) Get(h BodyHandle) (*Body, bool) {
	return t.bodies.Get(h)
}

// HandleFor returns the handle of the body owned by ref.
func (t *BodyTable) HandleFor(ref *ecs.EntityRef) (BodyHandle, bool) {
	h, ok := t.byRef[ref]
	return h, ok
}

// Remove drops h from the table. It does not touch the cp space.
func (t *BodyTable) Remove(h BodyHandle) {
	b, ok := t.bodies.Get(h)
	if !ok {
		return
	}
	t.bodies.Del(h)
	delete(t.byRef, b.Entity)
	for i, other := range t.order {
		if other == h {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

func (t *BodyTable) Len() int {
	return t.bodies.Len()
}

// Each visits bodies in insertion order. visit must not insert or remove.
func (t *BodyTable) Each(visit func(b *Body)) {
	for _, h := range t.order {
		if b, ok := t.bodies.Get(h); ok {
			visit(b)
		}
	}
}

// PhysicsWorld is the singleton holding the simulation.
type PhysicsWorld struct {
	Space  *cp.Space
	Bodies *BodyTable
}
