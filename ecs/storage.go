package ecs

import (
	"iter"
	"reflect"
	"weak"
)

// Storage owns all archetypes and singletons of one world.
type Storage struct {
	archetypes map[uint32]*Archetype
	registry   *ComponentRegistry
	singletons map[reflect.Type]*singletonEntry

	// generation changes whenever an archetype is created, so cached
	// query matches know when to rebuild.
	generation int
}

// NewStorage creates an empty world using the component types in registry.
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		archetypes: make(map[uint32]*Archetype),
		registry:   registry,
		singletons: make(map[reflect.Type]*singletonEntry),
	}
}

// Registry returns the registry this storage was built with.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

func (s *Storage) archetypeFor(types []reflect.Type) *Archetype {
	id := archetypeHash(types)
	a, ok := s.archetypes[id]
	if !ok {
		a = newArchetype(id, types, s.registry)
		s.archetypes[id] = a
		s.generation++
	}
	return a
}

// Spawn creates an entity from the given components (values or pointers).
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("ecs: cannot spawn entity without components")
	}
	a := s.archetypeFor(typeSet(components))
	return NewEntityId(a.id, a.spawn(components))
}

// Alive reports whether id names a live entity.
func (s *Storage) Alive(id EntityId) bool {
	a, ok := s.archetypes[id.ArchetypeId()]
	return ok && a.alive(id.Index())
}

// Delete removes the entity. Deleting a dead entity is a no-op.
func (s *Storage) Delete(id EntityId) {
	if a, ok := s.archetypes[id.ArchetypeId()]; ok {
		a.remove(id.Index())
	}
}

// AddComponent moves the entity into the archetype that also holds
// component and returns its new id. Adding a type the entity already has
// overwrites the value in place. Returns 0 for dead entities.
func (s *Storage) AddComponent(id EntityId, component any) EntityId {
	if !s.Alive(id) {
		return 0
	}
	from := s.archetypes[id.ArchetypeId()]
	t := componentType(component)

	if col := from.columnOf(t); col >= 0 {
		ptr := reflect.ValueOf(from.columns[col].get(int(id.Index())))
		v := reflect.ValueOf(component)
		if v.Kind() == reflect.Pointer {
			v = v.Elem()
		}
		ptr.Elem().Set(v)
		return id
	}

	types := make([]reflect.Type, 0, len(from.types)+1)
	types = append(types, from.types...)
	types = append(types, t)
	sortTypes(types)

	components := make([]any, 0, len(types))
	for _, typ := range from.types {
		components = append(components, from.component(id.Index(), typ))
	}
	components = append(components, component)

	return s.move(id, from, s.archetypeFor(types), components)
}

// RemoveComponent moves the entity into the archetype without t and returns
// its new id. Removing the last component deletes the entity and returns 0.
func (s *Storage) RemoveComponent(id EntityId, t reflect.Type) EntityId {
	if !s.Alive(id) {
		return 0
	}
	from := s.archetypes[id.ArchetypeId()]
	if !from.HasComponent(t) {
		return id
	}

	types := make([]reflect.Type, 0, len(from.types)-1)
	components := make([]any, 0, len(from.types)-1)
	for _, typ := range from.types {
		if typ == t {
			continue
		}
		types = append(types, typ)
		components = append(components, from.component(id.Index(), typ))
	}

	if len(types) == 0 {
		from.remove(id.Index())
		return 0
	}
	return s.move(id, from, s.archetypeFor(types), components)
}

func (s *Storage) move(id EntityId, from, to *Archetype, components []any) EntityId {
	newId := NewEntityId(to.id, to.spawn(components))
	if wp, ok := from.detachRef(id); ok {
		to.adoptRef(newId, wp)
	}
	from.remove(id.Index())
	return newId
}

// GetComponent returns a pointer to the entity's component of type t, or nil.
func (s *Storage) GetComponent(id EntityId, t reflect.Type) any {
	a, ok := s.archetypes[id.ArchetypeId()]
	if !ok {
		return nil
	}
	return a.component(id.Index(), t)
}

// HasComponent reports whether the entity's archetype carries t.
func (s *Storage) HasComponent(id EntityId, t reflect.Type) bool {
	a, ok := s.archetypes[id.ArchetypeId()]
	return ok && a.HasComponent(t)
}

// GetArchetype returns the archetype for exactly the given component
// values, or nil if no entity with that shape was ever spawned.
func (s *Storage) GetArchetype(components ...any) *Archetype {
	return s.archetypes[archetypeHash(typeSet(components))]
}

// Archetypes yields every archetype, including empty ones.
func (s *Storage) Archetypes() iter.Seq[*Archetype] {
	return func(yield func(*Archetype) bool) {
		for _, a := range s.archetypes {
			if !yield(a) {
				return
			}
		}
	}
}

// Count returns the number of live entities.
func (s *Storage) Count() int {
	n := 0
	for _, a := range s.archetypes {
		n += a.Len()
	}
	return n
}

// Compact compacts every archetype. Call it between frames only.
func (s *Storage) Compact() {
	for _, a := range s.archetypes {
		a.Compact()
	}
}

// CreateEntityRef returns the ref for id, reusing a live one if present.
func (s *Storage) CreateEntityRef(id EntityId) *EntityRef {
	a, ok := s.archetypes[id.ArchetypeId()]
	if !ok || !a.alive(id.Index()) {
		return nil
	}
	if wp, ok := a.refs.Get(id); ok {
		if ref := wp.Value(); ref != nil {
			return ref
		}
	}
	ref := &EntityRef{Id: id, Archetype: a}
	a.refs.Put(id, weak.Make(ref))
	return ref
}

// ResolveEntityRef returns the current id behind ref.
func (s *Storage) ResolveEntityRef(ref *EntityRef) (EntityId, bool) {
	if !ref.Alive() {
		return 0, false
	}
	return ref.Id, true
}

// InvalidateEntityRef detaches ref from its entity without deleting it.
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

// ComponentReader is implemented by Storage; it lets helpers accept
// anything that can look up components.
type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns the entity's T, or nil if it has none.
func ReadComponent[T any](reader ComponentReader, id EntityId) *T {
	c, _ := reader.GetComponent(id, reflect.TypeFor[T]()).(*T)
	return c
}
