package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

var entityIdType = reflect.TypeFor[EntityId]()

type viewField struct {
	typ      reflect.Type
	offset   uintptr
	optional bool
}

// View matches entities against a struct shape. T must be a struct whose
// fields are pointers to component types; embedded pointers are required,
// named pointers may be tagged `ecs:"optional"` and are nil when missing.
// A field of type EntityId, embedded or named, receives the entity's id.
type View[T any] struct {
	storage   *Storage
	fields    []viewField
	idOffsets []uintptr
}

// NewView parses T and binds it to storage. It panics on malformed shapes.
func NewView[T any](storage *Storage) *View[T] {
	st := reflect.TypeFor[T]()
	if st.Kind() != reflect.Struct {
		panic("ecs: view type must be a struct, got " + st.String())
	}

	v := &View[T]{storage: storage}
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if f.Type == entityIdType {
			v.idOffsets = append(v.idOffsets, f.Offset)
			continue
		}
		if f.Type.Kind() != reflect.Pointer {
			panic("ecs: view field " + f.Name + " must be a component pointer or EntityId")
		}

		optional := false
		if tag := f.Tag.Get("ecs"); tag != "" {
			if tag != "optional" || f.Anonymous {
				panic("ecs: invalid ecs tag \"" + tag + "\" on " + f.Name)
			}
			optional = true
		}
		v.fields = append(v.fields, viewField{
			typ:      f.Type.Elem(),
			offset:   f.Offset,
			optional: optional,
		})
	}
	return v
}

func (v *View[T]) matches(a *Archetype) bool {
	for _, f := range v.fields {
		if !f.optional && !a.HasComponent(f.typ) {
			return false
		}
	}
	return true
}

// columns maps each view field to the archetype's column index, -1 if absent.
func (v *View[T]) columns(a *Archetype) []int {
	cols := make([]int, len(v.fields))
	for i, f := range v.fields {
		cols[i] = a.columnOf(f.typ)
	}
	return cols
}

func (v *View[T]) populate(dst unsafe.Pointer, a *Archetype, index int, cols []int) bool {
	id := NewEntityId(a.id, uint32(index))
	for _, off := range v.idOffsets {
		*(*EntityId)(unsafe.Add(dst, off)) = id
	}
	for i, f := range v.fields {
		slot := (*unsafe.Pointer)(unsafe.Add(dst, f.offset))
		var comp any
		if cols[i] >= 0 {
			comp = a.columns[cols[i]].get(index)
		}
		if comp == nil {
			if !f.optional {
				return false
			}
			*slot = nil
			continue
		}
		*slot = (*eface)(unsafe.Pointer(&comp)).data
	}
	return true
}

// Fill populates *dst for id and reports whether the entity matched.
func (v *View[T]) Fill(id EntityId, dst *T) bool {
	a, ok := v.storage.archetypes[id.ArchetypeId()]
	if !ok || !v.matches(a) || !a.alive(id.Index()) {
		return false
	}
	return v.populate(unsafe.Pointer(dst), a, int(id.Index()), v.columns(a))
}

// Get returns the populated view for id, or nil.
func (v *View[T]) Get(id EntityId) *T {
	var out T
	if !v.Fill(id, &out) {
		return nil
	}
	return &out
}

// GetRef is Get through an EntityRef.
func (v *View[T]) GetRef(ref *EntityRef) *T {
	id, ok := v.storage.ResolveEntityRef(ref)
	if !ok {
		return nil
	}
	return v.Get(id)
}

func (v *View[T]) iterArchetype(a *Archetype) iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		if len(a.columns) == 0 {
			return
		}
		cols := v.columns(a)
		var out T
		dst := unsafe.Pointer(&out)
		for index := range a.columns[0].live() {
			if !v.populate(dst, a, index, cols) {
				continue
			}
			if !yield(NewEntityId(a.id, uint32(index)), out) {
				return
			}
		}
	}
}

// Iter yields every matching entity. Archetype order is unspecified.
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		for _, a := range v.storage.archetypes {
			if !v.matches(a) {
				continue
			}
			for id, item := range v.iterArchetype(a) {
				if !yield(id, item) {
					return
				}
			}
		}
	}
}

// Values is Iter without ids.
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range v.Iter() {
			if !yield(item) {
				return
			}
		}
	}
}

// Spawn creates an entity from the non-nil component pointers in data.
func (v *View[T]) Spawn(data T) EntityId {
	src := unsafe.Pointer(&data)
	components := make([]any, 0, len(v.fields))
	for _, f := range v.fields {
		p := *(*unsafe.Pointer)(unsafe.Add(src, f.offset))
		if p == nil {
			if !f.optional {
				panic("ecs: required component " + f.typ.String() + " is nil in View.Spawn")
			}
			continue
		}
		components = append(components, reflect.NewAt(f.typ, p).Elem().Interface())
	}
	return v.storage.Spawn(components...)
}
