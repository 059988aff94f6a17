package ecs

import "iter"

// Query is a View with a per-frame snapshot. The scheduler calls Execute
// right before the owning system runs; Iter and Values then replay the
// snapshot. Entities spawned through Commands show up next frame.
type Query[T any] struct {
	view       *View[T]
	storage    *Storage
	generation int
	archetypes []*Archetype

	ids    []EntityId
	items  []T
	loaded bool
}

// NewQuery builds a query bound to storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init binds the query to storage and drops any snapshot.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.generation = -1
	q.archetypes = nil
	q.loaded = false
}

func (q *Query[T]) refreshArchetypes() {
	if q.generation == q.storage.generation {
		return
	}
	q.archetypes = q.archetypes[:0]
	for _, a := range q.storage.archetypes {
		if q.view.matches(a) {
			q.archetypes = append(q.archetypes, a)
		}
	}
	q.generation = q.storage.generation
}

// Execute takes the snapshot.
func (q *Query[T]) Execute() {
	q.refreshArchetypes()
	q.ids = q.ids[:0]
	q.items = q.items[:0]
	for _, a := range q.archetypes {
		for id, item := range q.view.iterArchetype(a) {
			q.ids = append(q.ids, id)
			q.items = append(q.items, item)
		}
	}
	q.loaded = true
}

func (q *Query[T]) mustBeLoaded() {
	if !q.loaded {
		panic("ecs: Query used before Execute")
	}
}

// Iter replays the snapshot with ids.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	q.mustBeLoaded()
	return func(yield func(EntityId, T) bool) {
		for i := range q.ids {
			if !yield(q.ids[i], q.items[i]) {
				return
			}
		}
	}
}

// Values replays the snapshot without ids.
func (q *Query[T]) Values() iter.Seq[T] {
	q.mustBeLoaded()
	return func(yield func(T) bool) {
		for i := range q.items {
			if !yield(q.items[i]) {
				return
			}
		}
	}
}

// Len is the number of entities in the snapshot.
func (q *Query[T]) Len() int {
	q.mustBeLoaded()
	return len(q.items)
}

// First returns the first entity of the snapshot, if any. Handy for
// one-of-a-kind entities such as the player.
func (q *Query[T]) First() (T, bool) {
	q.mustBeLoaded()
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	return q.items[0], true
}
