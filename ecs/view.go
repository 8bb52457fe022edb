package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

// View joins component kinds. T is a struct whose fields are pointers to
// component types, e.g.
//
//	ecs.NewView[struct {
//		*Transform
//		*Tile
//	}](storage)
//
// Embedded fields are always required. Named fields tagged `ecs:"optional"`
// are set to nil when the entity lacks that component.
type View[T any] struct {
	storage     *Storage
	types       []reflect.Type
	optional    []bool
	fieldOffset []uintptr
}

// NewView builds a view over storage. It panics if T is not a struct of
// pointer fields.
func NewView[T any](storage *Storage) *View[T] {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("ecs: View type parameter must be a struct")
	}

	n := structType.NumField()
	v := &View[T]{
		storage:     storage,
		types:       make([]reflect.Type, 0, n),
		optional:    make([]bool, 0, n),
		fieldOffset: make([]uintptr, 0, n),
	}

	for i := range n {
		field := structType.Field(i)
		if field.Type.Kind() != reflect.Ptr {
			panic("ecs: View struct fields must be pointer types")
		}

		optional := false
		if tag := field.Tag.Get("ecs"); tag != "" && !field.Anonymous {
			if tag != "optional" {
				panic("ecs: invalid ecs tag value \"" + tag + "\" (only \"optional\" is supported)")
			}
			optional = true
		}

		v.types = append(v.types, field.Type.Elem())
		v.optional = append(v.optional, optional)
		v.fieldOffset = append(v.fieldOffset, field.Offset)
	}

	return v
}

// matchesArchetype reports whether the archetype has every required kind.
func (v *View[T]) matchesArchetype(a *Archetype) bool {
	for i, t := range v.types {
		if !v.optional[i] && !a.HasComponent(t) {
			return false
		}
	}
	return true
}

// columnsFor maps each view field to the archetype's column index, -1 for
// an absent optional kind.
func (v *View[T]) columnsFor(a *Archetype) []int {
	cols := make([]int, len(v.types))
	for i, t := range v.types {
		cols[i] = a.columnIndex(t)
	}
	return cols
}

func (v *View[T]) populate(result unsafe.Pointer, a *Archetype, index int, cols []int) bool {
	for i, col := range cols {
		field := unsafe.Add(result, v.fieldOffset[i])
		var ptr unsafe.Pointer
		if col >= 0 {
			ptr = a.columns[col].Pointer(index)
		}
		if ptr == nil && !v.optional[i] {
			return false
		}
		*(*unsafe.Pointer)(field) = ptr
	}
	return true
}

// Fill populates *out for the entity. It returns false if the entity is gone
// or lacks a required component.
func (v *View[T]) Fill(id EntityId, out *T) bool {
	a, ok := v.storage.archetypes[id.ArchetypeId()]
	if !ok || !v.matchesArchetype(a) {
		return false
	}
	return v.populate(unsafe.Pointer(out), a, int(id.Index()), v.columnsFor(a))
}

// Get returns the joined components for id, or nil.
func (v *View[T]) Get(id EntityId) *T {
	var result T
	if !v.Fill(id, &result) {
		return nil
	}
	return &result
}

// GetRef is Get through a stable ref.
func (v *View[T]) GetRef(ref *EntityRef) *T {
	id, ok := v.storage.ResolveEntityRef(ref)
	if !ok {
		return nil
	}
	return v.Get(id)
}

func (v *View[T]) iterArchetype(a *Archetype, yield func(EntityId, T) bool) bool {
	if len(a.columns) == 0 {
		return true
	}
	cols := v.columnsFor(a)
	var result T
	ptr := unsafe.Pointer(&result)
	for index := range a.columns[0].Iter() {
		if !v.populate(ptr, a, index, cols) {
			continue
		}
		if !yield(NewEntityId(a.id, uint32(index)), result) {
			return false
		}
	}
	return true
}

// Iter yields every matching entity. Archetypes are visited in creation order
// and entities in slot order.
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		for _, a := range v.storage.order {
			if !v.matchesArchetype(a) {
				continue
			}
			if !v.iterArchetype(a, yield) {
				return
			}
		}
	}
}

// Values is Iter without the ids.
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range v.Iter() {
			if !yield(item) {
				return
			}
		}
	}
}

// Count returns the number of matching entities.
func (v *View[T]) Count() int {
	n := 0
	for range v.Iter() {
		n++
	}
	return n
}

// Spawn creates an entity from the non-nil fields of data.
func (v *View[T]) Spawn(data T) EntityId {
	base := unsafe.Pointer(&data)
	components := make([]any, 0, len(v.types))
	for i, t := range v.types {
		ptr := *(*unsafe.Pointer)(unsafe.Add(base, v.fieldOffset[i]))
		if ptr == nil {
			if !v.optional[i] {
				panic("ecs: required component is nil in View.Spawn")
			}
			continue
		}
		components = append(components, reflect.NewAt(t, ptr).Elem().Interface())
	}
	return v.storage.Spawn(components...)
}
