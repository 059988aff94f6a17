package ecs

import (
	"iter"
	"reflect"
	"slices"
	"unsafe"
	"weak"

	"github.com/kamstrup/intmap"
)

// Archetype holds every entity that has exactly the same set of component
// types. Columns are kept in lockstep: slot i of every column belongs to the
// same entity.
type Archetype struct {
	id      uint32
	types   []reflect.Type
	columns []column
	refs    *intmap.Map[EntityId, weak.Pointer[EntityRef]]
}

func newArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:      id,
		types:   types,
		columns: make([]column, len(types)),
		refs:    intmap.New[EntityId, weak.Pointer[EntityRef]](64),
	}
	for i, t := range types {
		a.columns[i] = registry.newColumn(t)
	}
	return a
}

// ID returns the archetype's hash id.
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the component types, sorted by name.
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities.
func (a *Archetype) Len() int {
	if len(a.columns) == 0 {
		return 0
	}
	return a.columns[0].len()
}

// HasComponent reports whether entities of this archetype carry t.
func (a *Archetype) HasComponent(t reflect.Type) bool {
	return slices.Contains(a.types, t)
}

func (a *Archetype) columnOf(t reflect.Type) int {
	for i, typ := range a.types {
		if typ == t {
			return i
		}
	}
	return -1
}

func (a *Archetype) spawn(components []any) uint32 {
	index := -1
	for _, comp := range components {
		col := a.columnOf(componentType(comp))
		if col < 0 {
			panic("ecs: component " + componentType(comp).String() + " does not belong to archetype")
		}
		index = a.columns[col].append(comp)
	}
	return uint32(index)
}

func (a *Archetype) alive(index uint32) bool {
	return len(a.columns) > 0 && a.columns[0].has(int(index))
}

func (a *Archetype) component(index uint32, t reflect.Type) any {
	col := a.columnOf(t)
	if col < 0 {
		return nil
	}
	return a.columns[col].get(int(index))
}

func (a *Archetype) remove(index uint32) {
	id := NewEntityId(a.id, index)
	if wp, ok := a.refs.Get(id); ok {
		if ref := wp.Value(); ref != nil {
			ref.Id = 0
			ref.Archetype = nil
		}
		a.refs.Del(id)
	}
	for _, col := range a.columns {
		col.remove(int(index))
	}
}

// detachRef removes and returns the weak ref for id without invalidating it,
// so the caller can re-home it in another archetype.
func (a *Archetype) detachRef(id EntityId) (weak.Pointer[EntityRef], bool) {
	wp, ok := a.refs.Get(id)
	if ok {
		a.refs.Del(id)
	}
	return wp, ok
}

func (a *Archetype) adoptRef(id EntityId, wp weak.Pointer[EntityRef]) {
	ref := wp.Value()
	if ref == nil {
		return
	}
	ref.Id = id
	ref.Archetype = a
	a.refs.Put(id, wp)
}

// Compact packs live entities to the front of every column. EntityRefs are
// rewritten; raw EntityIds held elsewhere become stale.
func (a *Archetype) Compact() {
	if len(a.columns) == 0 {
		return
	}
	moved := a.columns[0].compact()
	for _, col := range a.columns[1:] {
		col.compact()
	}

	refs := intmap.New[EntityId, weak.Pointer[EntityRef]](len(moved))
	for from, to := range moved {
		oldId := NewEntityId(a.id, uint32(from))
		wp, ok := a.refs.Get(oldId)
		if !ok {
			continue
		}
		if ref := wp.Value(); ref != nil {
			newId := NewEntityId(a.id, uint32(to))
			ref.Id = newId
			refs.Put(newId, wp)
		}
	}
	a.refs = refs
}

// Iter yields the ids of all live entities.
func (a *Archetype) Iter() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		if len(a.columns) == 0 {
			return
		}
		for index := range a.columns[0].live() {
			if !yield(NewEntityId(a.id, uint32(index))) {
				return
			}
		}
	}
}

// componentType returns the component type of a value or pointer.
func componentType(comp any) reflect.Type {
	t := reflect.TypeOf(comp)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// typeSet extracts, validates and sorts the types of a component list.
func typeSet(components []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		t := componentType(comp)
		switch t.Kind() {
		case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func:
			panic("ecs: components cannot be pointers, maps, channels, or functions")
		}
		types = append(types, t)
	}
	sortTypes(types)
	return types
}

func sortTypes(types []reflect.Type) {
	slices.SortFunc(types, func(a, b reflect.Type) int {
		switch {
		case a.String() < b.String():
			return -1
		case a.String() > b.String():
			return 1
		}
		return 0
	})
}

// eface mirrors the runtime layout of an interface value.
type eface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

// archetypeHash is FNV-1a over the runtime type pointers of a sorted type list.
func archetypeHash(types []reflect.Type) uint32 {
	h := uint32(2166136261)
	for _, t := range types {
		p := uintptr((*eface)(unsafe.Pointer(&t)).data)
		h ^= uint32(p) ^ uint32(uint64(p)>>32)
		h *= 16777619
	}
	return h
}
