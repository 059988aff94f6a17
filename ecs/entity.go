package ecs

import "fmt"

// EntityId identifies an entity by the archetype it lives in (upper 32 bits)
// and its slot inside that archetype (lower 32 bits). Moving an entity to
// another archetype, or compacting its archetype, changes the id.
type EntityId uint64

// NewEntityId packs an archetype id and slot index into an EntityId.
func NewEntityId(archetypeId uint32, index uint32) EntityId {
	return EntityId(uint64(archetypeId)<<32 | uint64(index))
}

// ArchetypeId returns the archetype half of the id.
func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> 32)
}

// Index returns the slot half of the id.
func (e EntityId) Index() uint32 {
	return uint32(e)
}

func (e EntityId) String() string {
	return fmt.Sprintf("%08x:%d", e.ArchetypeId(), e.Index())
}

// EntityRef is a handle that survives archetype moves and compaction.
// Storage rewrites Id whenever the entity moves and zeroes it on delete.
type EntityRef struct {
	Id        EntityId
	Archetype *Archetype
}

// Alive reports whether the referenced entity still exists.
func (r *EntityRef) Alive() bool {
	return r != nil && r.Id != 0
}
