package ecs

import (
	"reflect"
	"unsafe"
)

type singletonEntry struct {
	ptr reflect.Value
}

func (e *singletonEntry) data() unsafe.Pointer {
	return e.ptr.UnsafePointer()
}

// AddSingleton stores a world-global value. A pointer argument is stored as
// is, so the caller keeps sharing it; a plain value is copied, and copied
// over an existing singleton of the same type so accessors stay valid.
func (s *Storage) AddSingleton(value any) {
	v := reflect.ValueOf(value)
	if v.Kind() != reflect.Pointer {
		if e, ok := s.singletons[v.Type()]; ok {
			e.ptr.Elem().Set(v)
			return
		}
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		v = p
	}
	s.singletons[v.Type().Elem()] = &singletonEntry{ptr: v}
}

// ReadSingleton points *target at the stored singleton of type T, where
// target is a **T. It returns false when no such singleton exists.
func (s *Storage) ReadSingleton(target any) bool {
	tv := reflect.ValueOf(target)
	if tv.Kind() != reflect.Pointer || tv.Elem().Kind() != reflect.Pointer {
		panic("ecs: ReadSingleton needs a pointer to a pointer")
	}
	e, ok := s.singletons[tv.Elem().Type().Elem()]
	if !ok {
		return false
	}
	tv.Elem().Set(e.ptr)
	return true
}

// RemoveSingleton drops the singleton of type t.
func (s *Storage) RemoveSingleton(t reflect.Type) {
	delete(s.singletons, t)
}

// Singleton gives systems cached access to one world-global value. As a
// system field it is wired up by Scheduler.Register.
type Singleton[T any] struct {
	storage *Storage
	ptr     unsafe.Pointer
}

// NewSingleton returns an accessor for T, creating the singleton from
// initializer (or the zero value) when the storage does not have one yet.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	if _, ok := storage.singletons[reflect.TypeFor[T]()]; !ok {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		storage.AddSingleton(value)
	}
	s := &Singleton[T]{}
	s.Init(storage)
	return s
}

// Init binds the accessor to storage.
func (s *Singleton[T]) Init(storage *Storage) {
	s.storage = storage
	s.ptr = nil
	s.lookup()
}

func (s *Singleton[T]) lookup() {
	if s.storage == nil {
		return
	}
	if e, ok := s.storage.singletons[reflect.TypeFor[T]()]; ok {
		s.ptr = e.data()
	}
}

// Get returns the singleton, or nil if it has not been added yet.
func (s *Singleton[T]) Get() *T {
	if s.ptr == nil {
		s.lookup()
	}
	return (*T)(s.ptr)
}

// Exists reports whether the singleton has been added.
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}
