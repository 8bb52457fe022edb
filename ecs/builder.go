package ecs

// EntityBuilder collects components and creates the entity in a single
// Commit, so the entity never exists in a partial state.
type EntityBuilder struct {
	storage    *Storage
	components []any
}

// Build starts a new entity.
func (s *Storage) Build() *EntityBuilder {
	return &EntityBuilder{storage: s}
}

// With adds a component. A later value of the same kind replaces the earlier one.
func (b *EntityBuilder) With(component any) *EntityBuilder {
	t := componentType(component)
	for i, existing := range b.components {
		if componentType(existing) == t {
			b.components[i] = component
			return b
		}
	}
	b.components = append(b.components, component)
	return b
}

// Len returns the number of components collected so far.
func (b *EntityBuilder) Len() int {
	return len(b.components)
}

// Commit spawns the entity.
func (b *EntityBuilder) Commit() EntityId {
	return b.storage.Spawn(b.components...)
}

// CommitDeferred queues the spawn on commands instead of spawning now.
func (b *EntityBuilder) CommitDeferred(commands *Commands) {
	commands.Spawn(b.components...)
}
