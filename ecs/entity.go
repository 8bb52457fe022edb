package ecs

// EntityId packs the archetype id into the upper 32 bits and the slot index
// into the lower 32 bits. Archetype ids start at 1, so a live entity never has
// the zero id.
type EntityId uint64

// NewEntityId builds an EntityId from an archetype id and a slot index.
func NewEntityId(archetypeId uint32, index uint32) EntityId {
	return EntityId(uint64(archetypeId)<<32 | uint64(index))
}

// ArchetypeId returns the archetype half of the id.
func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> 32)
}

// Index returns the slot half of the id.
func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// IsZero reports whether the id is the unset value.
func (e EntityId) IsZero() bool {
	return e == 0
}

// EntityRef follows an entity across archetype moves. The storage rewrites Id
// whenever the entity's component set changes and zeroes it on delete.
type EntityRef struct {
	Id        EntityId
	Archetype *Archetype
}

// Alive reports whether the referenced entity still exists.
func (r *EntityRef) Alive() bool {
	return r != nil && r.Id != 0
}
