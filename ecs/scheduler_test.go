package ecs_test

import (
	"context"
	"testing"
	"time"

	"github.com/plus3/arcade/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MovementSystem struct {
	Movers ecs.Query[Mover]
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	for m := range s.Movers.Values() {
		m.X += m.DX * float32(frame.DeltaTime)
		m.Y += m.DY * float32(frame.DeltaTime)
	}
}

type ScoreSystem struct {
	Score  ecs.Singleton[Score]
	Movers ecs.Query[Mover]
	seen   []int
}

func (s *ScoreSystem) Execute(frame *ecs.UpdateFrame) {
	*s.Score.Get() += Score(s.Movers.Len())
	s.seen = append(s.seen, s.Movers.Len())
	frame.Commands.Spawn(Position{}, Velocity{})
}

func TestSchedulerWiresFields(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	ecs.NewSingleton[Score](storage)
	scheduler := ecs.NewScheduler(storage)

	id := storage.Spawn(Position{}, Velocity{DX: 60})
	scheduler.Register(&MovementSystem{})
	scheduler.Once(1.0 / 60)

	assert.InDelta(t, 1.0, ecs.ReadComponent[Position](storage, id).X, 1e-5)
}

func TestSchedulerSpawnsAppearNextFrame(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	ecs.NewSingleton[Score](storage)
	scheduler := ecs.NewScheduler(storage)

	score := &ScoreSystem{}
	scheduler.Register(score)

	scheduler.Once(1.0 / 60)
	scheduler.Once(1.0 / 60)
	scheduler.Once(1.0 / 60)

	assert.Equal(t, []int{0, 1, 2}, score.seen)
	assert.Equal(t, Score(3), *score.Score.Get())
	assert.Equal(t, 3, storage.Count())
}

func TestSchedulerStats(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	ecs.NewSingleton[Score](storage)
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&MovementSystem{})
	scheduler.Register(&ScoreSystem{})

	for i := 0; i < 4; i++ {
		scheduler.Once(1.0 / 60)
	}

	stats := scheduler.GetStats()
	assert.Equal(t, 2, stats.SystemCount)
	assert.Equal(t, int64(8), stats.TotalExecutions)
	require.Len(t, stats.Systems, 2)
	assert.Equal(t, "MovementSystem", stats.Systems[0].Name)
	assert.Equal(t, "ScoreSystem", stats.Systems[1].Name)
	for _, st := range stats.Systems {
		assert.Equal(t, int64(4), st.ExecutionCount)
		assert.LessOrEqual(t, st.MinDuration, st.MaxDuration)
		assert.Equal(t, st.TotalDuration/4, st.AvgDuration)
	}
	assert.Same(t, storage, scheduler.Storage())
}

func TestSchedulerRunStopsOnCancel(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	ecs.NewSingleton[Score](storage)
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&ScoreSystem{})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		scheduler.Run(ctx, time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.Positive(t, scheduler.GetStats().TotalExecutions)
}
