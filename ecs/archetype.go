package ecs

import (
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/kamstrup/intmap"
)

// typeKey orders component types and identifies archetypes. The package path
// keeps two same-named types from different packages apart.
func typeKey(t reflect.Type) string {
	return t.PkgPath() + "." + t.String()
}

func sortTypes(types []reflect.Type) {
	sort.Slice(types, func(i, j int) bool {
		return typeKey(types[i]) < typeKey(types[j])
	})
}

func signature(types []reflect.Type) string {
	var b strings.Builder
	for i, t := range types {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(typeKey(t))
	}
	return b.String()
}

// Archetype holds every entity that has exactly one particular set of
// component kinds. Each kind gets its own column and all columns share slot
// indices.
type Archetype struct {
	id      uint32
	types   []reflect.Type
	columns []column
	refs    *intmap.Map[EntityId, *EntityRef]
}

// NewArchetype creates an archetype for the sorted types. All types must be
// registered.
func NewArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:      id,
		types:   types,
		columns: make([]column, len(types)),
		refs:    intmap.New[EntityId, *EntityRef](16),
	}
	for i, t := range types {
		a.columns[i] = registry.newColumn(t)
	}
	return a
}

func (a *Archetype) columnIndex(t reflect.Type) int {
	for i, typ := range a.types {
		if typ == t {
			return i
		}
	}
	return -1
}

// Spawn appends one value per column and returns the shared slot index.
// components must contain exactly one value for each of the archetype's types.
func (a *Archetype) Spawn(components []any) uint32 {
	slot := -1
	for _, comp := range components {
		idx := a.columnIndex(componentType(comp))
		if idx < 0 {
			panic("ecs: component " + componentType(comp).String() + " does not belong to archetype")
		}
		slot = a.columns[idx].Append(comp)
	}
	return uint32(slot)
}

// GetComponent returns a pointer to the component of kind t in the slot, or
// nil when the archetype lacks t or the slot is empty.
func (a *Archetype) GetComponent(index uint32, t reflect.Type) any {
	idx := a.columnIndex(t)
	if idx < 0 {
		return nil
	}
	return a.columns[idx].Get(int(index))
}

// Alive reports whether the slot currently holds an entity.
func (a *Archetype) Alive(index uint32) bool {
	return len(a.columns) > 0 && a.columns[0].Has(int(index))
}

// Delete clears the slot in every column and invalidates any ref to it.
func (a *Archetype) Delete(index uint32) {
	id := NewEntityId(a.id, index)
	if ref, ok := a.refs.Get(id); ok {
		ref.Id = 0
		ref.Archetype = nil
		a.refs.Del(id)
	}
	for _, col := range a.columns {
		col.Delete(int(index))
	}
}

// HasComponent reports whether t is one of the archetype's kinds.
func (a *Archetype) HasComponent(t reflect.Type) bool {
	return slices.Contains(a.types, t)
}

// ID returns the archetype id.
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the archetype's component kinds in canonical order.
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities.
func (a *Archetype) Len() int {
	if len(a.columns) == 0 {
		return 0
	}
	return a.columns[0].Len()
}

// Compact removes holes left by deletes. Refs are rewritten to the new slots;
// plain EntityIds held elsewhere become stale.
func (a *Archetype) Compact() {
	if len(a.columns) == 0 {
		return
	}
	moved := a.columns[0].Compact()
	for _, col := range a.columns[1:] {
		col.Compact()
	}

	refs := intmap.New[EntityId, *EntityRef](a.refs.Len())
	for oldIdx, newIdx := range moved {
		oldId := NewEntityId(a.id, uint32(oldIdx))
		ref, ok := a.refs.Get(oldId)
		if !ok {
			continue
		}
		ref.Id = NewEntityId(a.id, uint32(newIdx))
		refs.Put(ref.Id, ref)
	}
	a.refs = refs
}

// Iter yields the ids of live entities in slot order.
func (a *Archetype) Iter() func(yield func(EntityId) bool) {
	return func(yield func(EntityId) bool) {
		if len(a.columns) == 0 {
			return
		}
		for index := range a.columns[0].Iter() {
			if !yield(NewEntityId(a.id, uint32(index))) {
				return
			}
		}
	}
}
