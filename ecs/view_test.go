package ecs_test

import (
	"testing"

	"github.com/plus3/arcade/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Mover struct {
	ecs.EntityId
	*Position
	*Velocity
}

type Damageable struct {
	Id     ecs.EntityId
	Pos    *Position
	Health *Health `ecs:"optional"`
}

func TestViewGet(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	view := ecs.NewView[Mover](storage)

	moving := storage.Spawn(Position{X: 1}, Velocity{DX: 2})
	still := storage.Spawn(Position{X: 3})

	m := view.Get(moving)
	require.NotNil(t, m)
	assert.Equal(t, moving, m.EntityId)
	assert.Equal(t, float32(1), m.X)
	assert.Equal(t, float32(2), m.DX)

	m.X += m.DX
	assert.Equal(t, float32(3), ecs.ReadComponent[Position](storage, moving).X)

	assert.Nil(t, view.Get(still))
	storage.Delete(moving)
	assert.Nil(t, view.Get(moving))
}

func TestViewOptionalFields(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	view := ecs.NewView[Damageable](storage)

	tough := storage.Spawn(Position{}, Health{Current: 5})
	fragile := storage.Spawn(Position{}, Velocity{})

	d := view.Get(tough)
	require.NotNil(t, d)
	require.NotNil(t, d.Health)
	assert.Equal(t, 5, d.Health.Current)
	assert.Equal(t, tough, d.Id)

	d = view.Get(fragile)
	require.NotNil(t, d)
	assert.Nil(t, d.Health)

	seen := map[ecs.EntityId]bool{}
	for id, item := range view.Iter() {
		assert.Equal(t, id, item.Id)
		seen[id] = true
	}
	assert.Equal(t, map[ecs.EntityId]bool{tough: true, fragile: true}, seen)
}

func TestViewGetRef(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	view := ecs.NewView[Mover](storage)

	id := storage.Spawn(Position{X: 7})
	ref := storage.CreateEntityRef(id)
	assert.Nil(t, view.GetRef(ref))

	storage.AddComponent(id, Velocity{DX: 1})
	m := view.GetRef(ref)
	require.NotNil(t, m)
	assert.Equal(t, float32(7), m.X)
}

func TestViewSpawn(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	view := ecs.NewView[Damageable](storage)

	id := view.Spawn(Damageable{Pos: &Position{X: 4}})
	assert.True(t, storage.HasComponent(id, typeOf[Position]()))
	assert.False(t, storage.HasComponent(id, typeOf[Health]()))

	assert.Panics(t, func() { view.Spawn(Damageable{Health: &Health{}}) })
}

func TestViewRejectsMalformedShapes(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	type valueField struct {
		Pos Position
	}
	type embeddedOptional struct {
		*Position `ecs:"optional"`
	}
	type badTag struct {
		Pos *Position `ecs:"maybe"`
	}

	assert.Panics(t, func() { ecs.NewView[int](storage) })
	assert.Panics(t, func() { ecs.NewView[valueField](storage) })
	assert.Panics(t, func() { ecs.NewView[embeddedOptional](storage) })
	assert.Panics(t, func() { ecs.NewView[badTag](storage) })
}

func TestViewValuesStopsEarly(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	view := ecs.NewView[Mover](storage)
	for i := 0; i < 5; i++ {
		storage.Spawn(Position{}, Velocity{})
	}

	n := 0
	for range view.Values() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}
