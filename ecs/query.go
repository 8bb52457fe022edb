package ecs

import (
	"iter"
	"unsafe"
)

// Query is a View that remembers which archetypes match and snapshots the
// matching entities once per Execute. Systems declare Query fields and the
// Scheduler calls Execute before each run of the system.
//
// Component pointers in the snapshot are live, so writes through them land in
// storage. Structural changes made after Execute are not visible until the
// next Execute.
type Query[T any] struct {
	view               *View[T]
	storage            *Storage
	cachedArchetypes   []*Archetype
	lastArchetypeCount int

	cachedEntities   []EntityId
	cachedComponents []T
	cacheValid       bool
}

// NewQuery creates a query over storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init binds the query to storage. Called by the Scheduler.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.cachedArchetypes = nil
	q.lastArchetypeCount = -1
	q.cacheValid = false
}

// Execute rebuilds the entity snapshot.
func (q *Query[T]) Execute() {
	if n := len(q.storage.order); n != q.lastArchetypeCount {
		q.cachedArchetypes = q.cachedArchetypes[:0]
		for _, a := range q.storage.order {
			if q.view.matchesArchetype(a) {
				q.cachedArchetypes = append(q.cachedArchetypes, a)
			}
		}
		q.lastArchetypeCount = n
	}

	q.cachedEntities = q.cachedEntities[:0]
	q.cachedComponents = q.cachedComponents[:0]

	var result T
	ptr := unsafe.Pointer(&result)
	for _, a := range q.cachedArchetypes {
		if len(a.columns) == 0 {
			continue
		}
		cols := q.view.columnsFor(a)
		for index := range a.columns[0].Iter() {
			if !q.view.populate(ptr, a, index, cols) {
				continue
			}
			q.cachedEntities = append(q.cachedEntities, NewEntityId(a.id, uint32(index)))
			q.cachedComponents = append(q.cachedComponents, result)
		}
	}

	q.cacheValid = true
}

// Len returns the number of entities in the current snapshot.
func (q *Query[T]) Len() int {
	return len(q.cachedEntities)
}

// Iter yields the snapshot. It panics if Execute has never been called.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	if !q.cacheValid {
		panic("ecs: Query.Iter() called before Query.Execute()")
	}
	return func(yield func(EntityId, T) bool) {
		for i := range q.cachedEntities {
			if !yield(q.cachedEntities[i], q.cachedComponents[i]) {
				return
			}
		}
	}
}

// Values yields the snapshot without ids.
func (q *Query[T]) Values() iter.Seq[T] {
	if !q.cacheValid {
		panic("ecs: Query.Values() called before Query.Execute()")
	}
	return func(yield func(T) bool) {
		for i := range q.cachedComponents {
			if !yield(q.cachedComponents[i]) {
				return
			}
		}
	}
}
