package ecs

import "reflect"

// Commands buffers structural changes made while systems run. The scheduler
// flushes the buffer once every system of the frame has executed.
type Commands struct {
	spawns  [][]any
	deletes []EntityId
	deleted map[EntityId]struct{}
	adds    []componentChange
	removes []componentRemoval
	defers  []func()
}

type componentChange struct {
	entity    EntityId
	component any
}

type componentRemoval struct {
	entity EntityId
	typ    reflect.Type
}

// NewCommands returns an empty buffer.
func NewCommands() *Commands {
	return &Commands{deleted: make(map[EntityId]struct{})}
}

// Spawn queues a new entity.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, components)
}

// Delete queues a deletion. Queuing the same entity twice is harmless.
func (c *Commands) Delete(entity EntityId) {
	if c.Deleted(entity) {
		return
	}
	c.deleted[entity] = struct{}{}
	c.deletes = append(c.deletes, entity)
}

// Deleted reports whether entity is already queued for deletion this frame.
func (c *Commands) Deleted(entity EntityId) bool {
	_, ok := c.deleted[entity]
	return ok
}

// AddComponent queues adding (or overwriting) a component.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.adds = append(c.adds, componentChange{entity: entity, component: component})
}

// RemoveComponent queues removing a component type.
func (c *Commands) RemoveComponent(entity EntityId, t reflect.Type) {
	c.removes = append(c.removes, componentRemoval{entity: entity, typ: t})
}

// Defer queues fn to run after all structural changes are applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Pending returns the number of queued operations.
func (c *Commands) Pending() int {
	return len(c.spawns) + len(c.deletes) + len(c.adds) + len(c.removes) + len(c.defers)
}

// Flush applies everything in order: deletes, removals, additions, spawns,
// then deferred functions. Changes aimed at deleted entities are dropped.
func (c *Commands) Flush(storage *Storage) {
	for _, id := range c.deletes {
		storage.Delete(id)
	}
	for _, r := range c.removes {
		if !c.Deleted(r.entity) {
			storage.RemoveComponent(r.entity, r.typ)
		}
	}
	for _, a := range c.adds {
		if !c.Deleted(a.entity) {
			storage.AddComponent(a.entity, a.component)
		}
	}
	for _, components := range c.spawns {
		storage.Spawn(components...)
	}
	for _, fn := range c.defers {
		fn()
	}

	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]
	clear(c.deleted)
}
