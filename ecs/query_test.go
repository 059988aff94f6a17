package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/arcade/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

func TestQueryBeforeExecutePanics(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	q := ecs.NewQuery[Mover](storage)

	assert.Panics(t, func() { q.Len() })
	assert.Panics(t, func() { q.Iter() })
	assert.Panics(t, func() { q.Values() })
	assert.Panics(t, func() { q.First() })
}

func TestQuerySnapshot(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	q := ecs.NewQuery[Mover](storage)

	a := storage.Spawn(Position{}, Velocity{})
	q.Execute()
	require.Equal(t, 1, q.Len())

	b := storage.Spawn(Position{}, Velocity{}, Health{})
	assert.Equal(t, 1, q.Len(), "snapshot is stable until the next Execute")

	q.Execute()
	ids := map[ecs.EntityId]bool{}
	for id, m := range q.Iter() {
		assert.Equal(t, id, m.EntityId)
		ids[id] = true
	}
	assert.Equal(t, map[ecs.EntityId]bool{a: true, b: true}, ids)
}

func TestQueryFirst(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	q := ecs.NewQuery[Mover](storage)

	q.Execute()
	_, ok := q.First()
	assert.False(t, ok)

	id := storage.Spawn(Position{X: 2}, Velocity{})
	q.Execute()
	m, ok := q.First()
	require.True(t, ok)
	assert.Equal(t, id, m.EntityId)
	assert.Equal(t, float32(2), m.X)
}

func TestQueryPicksUpNewArchetypes(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	q := ecs.NewQuery[Damageable](storage)

	storage.Spawn(Position{})
	q.Execute()
	assert.Equal(t, 1, q.Len())

	storage.Spawn(Position{}, Name{Value: "late"})
	storage.Spawn(Velocity{})
	q.Execute()
	assert.Equal(t, 2, q.Len())
}
