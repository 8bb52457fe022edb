package ecs

import "reflect"

// Commands buffers structural changes requested while systems iterate. The
// Scheduler flushes it once after every system of the tick has run.
//
// Flush order is deletes, removes, adds, spawns, then deferred functions.
// Removes and adds targeting an entity deleted in the same flush are dropped.
// Several changes to the same entity are chained: each one is applied where
// the previous one left the entity.
type Commands struct {
	spawns  []spawnCommand
	deletes []EntityId
	adds    []addComponentCommand
	removes []removeComponentCommand
	defers  []func()
}

func newCommands() *Commands {
	return &Commands{}
}

type spawnCommand struct {
	components []any
}

type addComponentCommand struct {
	entity    EntityId
	component any
}

type removeComponentCommand struct {
	entity   EntityId
	compType reflect.Type
}

// Defer queues fn to run at the end of the flush.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Spawn queues an entity spawn.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components})
}

// Delete queues an entity deletion.
func (c *Commands) Delete(entity EntityId) {
	c.deletes = append(c.deletes, entity)
}

// AddComponent queues a component addition.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.adds = append(c.adds, addComponentCommand{entity: entity, component: component})
}

// RemoveComponent queues a component removal.
func (c *Commands) RemoveComponent(entity EntityId, compType reflect.Type) {
	c.removes = append(c.removes, removeComponentCommand{entity: entity, compType: compType})
}

// Pending returns the number of queued operations.
func (c *Commands) Pending() int {
	return len(c.spawns) + len(c.deletes) + len(c.adds) + len(c.removes) + len(c.defers)
}

// Flush applies every queued operation to storage and empties the buffer.
func (c *Commands) Flush(storage *Storage) {
	deleted := make(map[EntityId]bool, len(c.deletes))
	for _, id := range c.deletes {
		storage.Delete(id)
		deleted[id] = true
	}

	// Refs are taken before anything moves so that chained changes to one
	// entity follow it across archetypes.
	removeRefs := make([]*EntityRef, len(c.removes))
	for i, cmd := range c.removes {
		if !deleted[cmd.entity] {
			removeRefs[i] = storage.CreateEntityRef(cmd.entity)
		}
	}
	addRefs := make([]*EntityRef, len(c.adds))
	for i, cmd := range c.adds {
		if !deleted[cmd.entity] {
			addRefs[i] = storage.CreateEntityRef(cmd.entity)
		}
	}

	for i, cmd := range c.removes {
		if ref := removeRefs[i]; ref.Alive() {
			storage.RemoveComponent(ref.Id, cmd.compType)
		}
	}

	for i, cmd := range c.adds {
		if ref := addRefs[i]; ref.Alive() {
			storage.AddComponent(ref.Id, cmd.component)
		}
	}

	for _, cmd := range c.spawns {
		storage.Spawn(cmd.components...)
	}

	for _, fn := range c.defers {
		fn()
	}

	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]
}
