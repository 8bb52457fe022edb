package ecs

import (
	"reflect"
)

// Storage owns every archetype, entity and singleton of one world.
type Storage struct {
	archetypes  map[uint32]*Archetype
	bySignature map[string]*Archetype
	order       []*Archetype
	registry    *ComponentRegistry
	singletons  map[reflect.Type]*singletonEntry
	nextId      uint32
}

// NewStorage creates an empty storage backed by registry.
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		archetypes:  make(map[uint32]*Archetype),
		bySignature: make(map[string]*Archetype),
		registry:    registry,
		singletons:  make(map[reflect.Type]*singletonEntry),
		nextId:      1,
	}
}

// Registry returns the registry the storage was created with.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

// archetypeFor returns the archetype for the sorted types, creating it on
// first use.
func (s *Storage) archetypeFor(types []reflect.Type) *Archetype {
	sig := signature(types)
	if a, ok := s.bySignature[sig]; ok {
		return a
	}
	a := NewArchetype(s.nextId, types, s.registry)
	s.nextId++
	s.archetypes[a.id] = a
	s.bySignature[sig] = a
	s.order = append(s.order, a)
	return a
}

// Archetypes returns archetypes in creation order.
func (s *Storage) Archetypes() []*Archetype {
	return s.order
}

// GetArchetype returns the archetype for exactly the given component values'
// kinds, or nil.
func (s *Storage) GetArchetype(components ...any) *Archetype {
	return s.bySignature[signature(extractComponentTypes(components))]
}

// GetArchetypeByTypes is GetArchetype keyed by reflect.Type.
func (s *Storage) GetArchetypeByTypes(types []reflect.Type) *Archetype {
	sorted := append([]reflect.Type(nil), types...)
	sortTypes(sorted)
	return s.bySignature[signature(sorted)]
}

// Spawn creates an entity holding the given components. Values and pointers
// to values are both accepted; pointers are copied.
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("ecs: cannot spawn entity without components")
	}
	types := extractComponentTypes(components)
	for i := 1; i < len(types); i++ {
		if types[i] == types[i-1] {
			panic("ecs: duplicate component " + types[i].String())
		}
	}
	archetype := s.archetypeFor(types)
	return NewEntityId(archetype.id, archetype.Spawn(components))
}

// Alive reports whether id refers to an existing entity.
func (s *Storage) Alive(id EntityId) bool {
	a, ok := s.archetypes[id.ArchetypeId()]
	return ok && a.Alive(id.Index())
}

// Delete removes the entity and all its components. Unknown ids are ignored.
func (s *Storage) Delete(id EntityId) {
	if a, ok := s.archetypes[id.ArchetypeId()]; ok {
		a.Delete(id.Index())
	}
}

// AddComponent moves the entity to the archetype that also holds component's
// kind and returns the new id. If the entity already has that kind, the value
// is overwritten in place and the id is unchanged.
func (s *Storage) AddComponent(id EntityId, component any) EntityId {
	old, ok := s.archetypes[id.ArchetypeId()]
	if !ok || !old.Alive(id.Index()) {
		return 0
	}

	t := componentType(component)
	if old.HasComponent(t) {
		dst := reflect.ValueOf(old.GetComponent(id.Index(), t)).Elem()
		src := reflect.ValueOf(component)
		if src.Kind() == reflect.Ptr {
			src = src.Elem()
		}
		dst.Set(src)
		return id
	}

	types := make([]reflect.Type, 0, len(old.types)+1)
	types = append(types, old.types...)
	types = append(types, t)
	sortTypes(types)

	return s.move(id, old, types, component)
}

// RemoveComponent moves the entity to the archetype without t and returns the
// new id. Removing the last component deletes the entity and returns 0.
func (s *Storage) RemoveComponent(id EntityId, t reflect.Type) EntityId {
	old, ok := s.archetypes[id.ArchetypeId()]
	if !ok || !old.Alive(id.Index()) {
		return 0
	}
	if !old.HasComponent(t) {
		return id
	}

	types := make([]reflect.Type, 0, len(old.types)-1)
	for _, typ := range old.types {
		if typ != t {
			types = append(types, typ)
		}
	}

	if len(types) == 0 {
		old.Delete(id.Index())
		return 0
	}
	return s.move(id, old, types, nil)
}

// move copies the entity into the archetype for types, adding extra when it is
// non-nil, and carries its ref along.
func (s *Storage) move(id EntityId, old *Archetype, types []reflect.Type, extra any) EntityId {
	target := s.archetypeFor(types)

	components := make([]any, 0, len(types))
	for _, typ := range types {
		if extra != nil && typ == componentType(extra) {
			components = append(components, extra)
			continue
		}
		components = append(components, old.GetComponent(id.Index(), typ))
	}

	newId := NewEntityId(target.id, target.Spawn(components))

	if ref, ok := old.refs.Get(id); ok {
		old.refs.Del(id)
		ref.Id = newId
		ref.Archetype = target
		target.refs.Put(newId, ref)
	}

	old.Delete(id.Index())
	return newId
}

// GetComponent returns a pointer to the entity's component of kind t, or nil.
func (s *Storage) GetComponent(id EntityId, t reflect.Type) any {
	a, ok := s.archetypes[id.ArchetypeId()]
	if !ok {
		return nil
	}
	return a.GetComponent(id.Index(), t)
}

// HasComponent reports whether the live entity has a component of kind t.
func (s *Storage) HasComponent(id EntityId, t reflect.Type) bool {
	a, ok := s.archetypes[id.ArchetypeId()]
	if !ok || !a.Alive(id.Index()) {
		return false
	}
	return a.HasComponent(t)
}

// CreateEntityRef returns the stable ref for id, creating it on first request.
// Repeated calls for the same entity return the same pointer.
func (s *Storage) CreateEntityRef(id EntityId) *EntityRef {
	a, ok := s.archetypes[id.ArchetypeId()]
	if !ok || !a.Alive(id.Index()) {
		return nil
	}
	if ref, ok := a.refs.Get(id); ok {
		return ref
	}
	ref := &EntityRef{Id: id, Archetype: a}
	a.refs.Put(id, ref)
	return ref
}

// ResolveEntityRef returns the current id of the referenced entity.
func (s *Storage) ResolveEntityRef(ref *EntityRef) (EntityId, bool) {
	if !ref.Alive() {
		return 0, false
	}
	return ref.Id, true
}

// InvalidateEntityRef detaches the ref from its entity without deleting the
// entity. It returns false if the ref was already invalid.
func (s *Storage) InvalidateEntityRef(ref *EntityRef) bool {
	if !ref.Alive() {
		return false
	}
	if a, ok := s.archetypes[ref.Id.ArchetypeId()]; ok {
		a.refs.Del(ref.Id)
	}
	ref.Id = 0
	ref.Archetype = nil
	return true
}

// Compact compacts every archetype.
func (s *Storage) Compact() {
	for _, a := range s.order {
		a.Compact()
	}
}

func componentType(component any) reflect.Type {
	t := reflect.TypeOf(component)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// extractComponentTypes returns the sorted kinds of the given values.
func extractComponentTypes(components []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		if comp == nil {
			panic("ecs: nil component")
		}
		t := componentType(comp)
		switch t.Kind() {
		case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func:
			panic("ecs: components cannot be pointers, maps, channels, or functions")
		}
		types = append(types, t)
	}
	sortTypes(types)
	return types
}

// ComponentReader is satisfied by Storage and lets helpers read components
// without depending on the whole storage API.
type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns the entity's T or nil.
func ReadComponent[T any](reader ComponentReader, id EntityId) *T {
	comp, _ := reader.GetComponent(id, reflect.TypeFor[T]()).(*T)
	return comp
}
