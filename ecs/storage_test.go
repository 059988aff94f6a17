package ecs_test

import (
	"fmt"
	"reflect"
	"runtime"
	"testing"

	"github.com/plus3/arcade/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityIdPacking(t *testing.T) {
	cases := []struct {
		archetype uint32
		index     uint32
	}{
		{0, 0},
		{1, 0},
		{0, 1},
		{0xFFFFFFFF, 0xFFFFFFFF},
		{0xCAFEBABE, 42},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%x/%d", tc.archetype, tc.index), func(t *testing.T) {
			id := ecs.NewEntityId(tc.archetype, tc.index)
			assert.Equal(t, tc.archetype, id.ArchetypeId())
			assert.Equal(t, tc.index, id.Index())
		})
	}
}

func TestSpawnAndRead(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 3, Y: 4}, &Velocity{DX: 1}, Score(7))
	require.True(t, storage.Alive(id))

	pos := ecs.ReadComponent[Position](storage, id)
	require.NotNil(t, pos)
	assert.Equal(t, float32(3), pos.X)
	assert.Equal(t, float32(4), pos.Y)
	assert.Equal(t, Score(7), *ecs.ReadComponent[Score](storage, id))
	assert.Nil(t, ecs.ReadComponent[Health](storage, id))

	pos.X = 10
	assert.Equal(t, float32(10), ecs.ReadComponent[Position](storage, id).X)
}

func TestSpawnPanics(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Panics(t, func() { storage.Spawn() })
	assert.Panics(t, func() { storage.Spawn(struct{ Unregistered int }{}) })
	assert.Panics(t, func() { storage.Spawn(map[string]int{}) })
}

func TestSameShapeSharesArchetype(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	a := storage.Spawn(Position{}, Velocity{})
	b := storage.Spawn(Velocity{}, Position{})
	c := storage.Spawn(Position{})

	assert.Equal(t, a.ArchetypeId(), b.ArchetypeId())
	assert.NotEqual(t, a.ArchetypeId(), c.ArchetypeId())
	assert.NotNil(t, storage.GetArchetype(Velocity{}, Position{}))
	assert.Nil(t, storage.GetArchetype(Health{}))
}

func TestDeleteIsIdempotent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 1})
	other := storage.Spawn(Position{X: 2})
	assert.Equal(t, 2, storage.Count())

	storage.Delete(id)
	storage.Delete(id)

	assert.False(t, storage.Alive(id))
	assert.True(t, storage.Alive(other))
	assert.Equal(t, 1, storage.Count())
	assert.Nil(t, ecs.ReadComponent[Position](storage, id))
}

func TestDeletedSlotIsReused(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	first := storage.Spawn(Position{X: 1})
	storage.Delete(first)
	second := storage.Spawn(Position{X: 2})

	assert.Equal(t, first, second)
	assert.Equal(t, float32(2), ecs.ReadComponent[Position](storage, second).X)
}

func TestPointersSurviveGrowth(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 1})
	pos := ecs.ReadComponent[Position](storage, id)
	for i := 0; i < 500; i++ {
		storage.Spawn(Position{X: float32(i)})
	}
	pos.X = 99

	assert.Equal(t, float32(99), ecs.ReadComponent[Position](storage, id).X)
}

func TestAddAndRemoveComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 5, Y: 6})

	moved := storage.AddComponent(id, Velocity{DX: 2})
	require.NotZero(t, moved)
	assert.NotEqual(t, id, moved)
	assert.False(t, storage.Alive(id))
	assert.Equal(t, float32(5), ecs.ReadComponent[Position](storage, moved).X)
	assert.Equal(t, float32(2), ecs.ReadComponent[Velocity](storage, moved).DX)

	same := storage.AddComponent(moved, Velocity{DX: 9})
	assert.Equal(t, moved, same)
	assert.Equal(t, float32(9), ecs.ReadComponent[Velocity](storage, same).DX)

	back := storage.RemoveComponent(same, reflect.TypeFor[Velocity]())
	assert.True(t, storage.HasComponent(back, reflect.TypeFor[Position]()))
	assert.False(t, storage.HasComponent(back, reflect.TypeFor[Velocity]()))

	gone := storage.RemoveComponent(back, reflect.TypeFor[Position]())
	assert.Zero(t, gone)
	assert.Equal(t, 0, storage.Count())
}

func TestAddComponentToDeadEntity(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{})
	storage.Delete(id)

	assert.Zero(t, storage.AddComponent(id, Velocity{}))
	assert.Zero(t, storage.RemoveComponent(id, reflect.TypeFor[Position]()))
}

func TestEntityRefFollowsMoves(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 1})
	ref := storage.CreateEntityRef(id)
	require.True(t, ref.Alive())
	assert.Same(t, ref, storage.CreateEntityRef(id))

	moved := storage.AddComponent(id, Health{Current: 3})
	resolved, ok := storage.ResolveEntityRef(ref)
	require.True(t, ok)
	assert.Equal(t, moved, resolved)

	storage.Delete(moved)
	_, ok = storage.ResolveEntityRef(ref)
	assert.False(t, ok)
	assert.False(t, ref.Alive())
	runtime.KeepAlive(ref)
}

func TestEntityRefInvalidate(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{})
	ref := storage.CreateEntityRef(id)

	assert.True(t, storage.InvalidateEntityRef(ref))
	assert.False(t, storage.InvalidateEntityRef(ref))
	assert.True(t, storage.Alive(id))
	assert.Nil(t, storage.CreateEntityRef(ecs.NewEntityId(1, 1)))
}

func TestCompactKeepsRefs(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	var ids []ecs.EntityId
	for i := 0; i < 10; i++ {
		ids = append(ids, storage.Spawn(Position{X: float32(i)}))
	}
	last := storage.CreateEntityRef(ids[9])
	for _, id := range ids[:8] {
		storage.Delete(id)
	}

	storage.Compact()

	id, ok := storage.ResolveEntityRef(last)
	require.True(t, ok)
	assert.Equal(t, uint32(1), id.Index())
	assert.Equal(t, float32(9), ecs.ReadComponent[Position](storage, id).X)
	assert.Equal(t, 2, storage.Count())
	runtime.KeepAlive(last)
}

func TestSingletons(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	var score *Score
	assert.False(t, storage.ReadSingleton(&score))

	s := ecs.NewSingleton[Score](storage, 10)
	require.True(t, storage.ReadSingleton(&score))
	*score += 5
	assert.Equal(t, Score(15), *s.Get())

	storage.AddSingleton(Score(1))
	assert.Equal(t, Score(1), *s.Get(), "value overwrite keeps accessors valid")

	shared := &Name{Value: "shared"}
	storage.AddSingleton(shared)
	var name *Name
	require.True(t, storage.ReadSingleton(&name))
	assert.Same(t, shared, name)

	storage.RemoveSingleton(reflect.TypeFor[Name]())
	assert.False(t, storage.ReadSingleton(&name))
	assert.True(t, ecs.NewSingleton[Health](storage).Exists())

	assert.Panics(t, func() { storage.ReadSingleton(score) })
}

func TestCollectStats(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	storage.Spawn(Position{}, Velocity{})
	storage.Spawn(Position{}, Velocity{})
	storage.Spawn(Health{})
	ecs.NewSingleton[Score](storage)

	stats := storage.CollectStats()
	assert.Equal(t, 2, stats.ArchetypeCount)
	assert.Equal(t, 3, stats.TotalEntityCount)
	assert.Equal(t, 1, stats.SingletonCount)
	assert.Equal(t, []string{"ecs_test.Score"}, stats.SingletonTypes)

	require.Len(t, stats.ArchetypeBreakdown, 2)
	assert.Equal(t, "ecs_test.Health", stats.ArchetypeBreakdown[0].Label())
	assert.Equal(t, 1, stats.ArchetypeBreakdown[0].EntityCount)
	assert.Equal(t, "ecs_test.Position, ecs_test.Velocity", stats.ArchetypeBreakdown[1].Label())
	assert.Equal(t, 2, stats.ArchetypeBreakdown[1].EntityCount)
}
