package arcade

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/arcade/ecs"
	"github.com/plus3/arcade/internal/config"
	"github.com/plus3/arcade/internal/geom"
)

func newTestWorld(t *testing.T) *World {
	t.Helper()
	w := NewWorld("test", "Test", 800, 600, ecs.NewComponentRegistry(), Env{Config: config.Default(), Seed: 1})
	w.Update.Register(&MovementSystem{})
	w.Update.Register(&CullSystem{Width: 800, Height: 600})
	return w
}

func TestInputPressIsOneFrame(t *testing.T) {
	w := newTestWorld(t)
	in := w.Input()

	in.Press(ebiten.KeySpace)
	in.Hold(ebiten.KeyD)
	in.ClickAt(10, 20)
	assert.True(t, in.Pressed(ebiten.KeySpace))
	assert.True(t, in.Click)

	w.Step()

	assert.False(t, in.Pressed(ebiten.KeySpace))
	assert.False(t, in.Click)
	assert.True(t, in.Down(ebiten.KeyD))
	assert.Equal(t, geom.V(1, 0), in.Move())

	in.Hold(ebiten.KeyArrowUp, ebiten.KeyA)
	assert.Equal(t, geom.V(0, -1), in.Move())
	assert.Equal(t, geom.V(0, -1), in.Arrows())

	in.Clear()
	assert.Equal(t, geom.Vec{}, in.Move())
}

type scriptedInput struct {
	polls []int64
}

func (s *scriptedInput) Poll(in *Input, frame int64) {
	s.polls = append(s.polls, frame)
	in.Press(ebiten.KeyR)
}

func TestInputSourceIsPolledEachStep(t *testing.T) {
	src := &scriptedInput{}
	w := NewWorld("test", "Test", 100, 100, ecs.NewComponentRegistry(), Env{Input: src})

	var seen []bool
	w.Update.Register(systemFunc(func(frame *ecs.UpdateFrame) {
		seen = append(seen, w.Input().Pressed(ebiten.KeyR))
	}))

	w.Step()
	w.Step()
	assert.Equal(t, []int64{1, 2}, src.polls)
	assert.Equal(t, []bool{true, true}, seen)
}

type systemFunc func(frame *ecs.UpdateFrame)

func (f systemFunc) Execute(frame *ecs.UpdateFrame) { f(frame) }

func TestClockAdvances(t *testing.T) {
	w := newTestWorld(t)
	for range TicksPerSecond {
		w.Step()
	}
	assert.Equal(t, int64(TicksPerSecond), w.Clock().Frame)
	assert.InDelta(t, 1.0, w.Clock().Elapsed, 1e-9)
}

func TestMovementAndCulling(t *testing.T) {
	w := newTestWorld(t)
	bullet := w.Storage.Spawn(Position{X: 100, Y: 5}, Velocity{Y: -10}, Body{W: 10, H: 10}, CullOffscreen{})
	rock := w.Storage.Spawn(Position{X: 100, Y: 5}, Velocity{Y: -10}, Body{W: 10, H: 10})

	w.Step()
	require.True(t, w.Storage.Alive(bullet))
	assert.Equal(t, -5.0, ecs.ReadComponent[Position](w.Storage, bullet).Y)

	w.Step()
	w.Step()
	assert.False(t, w.Storage.Alive(bullet))
	assert.True(t, w.Storage.Alive(rock))
}

func TestRandIsSeeded(t *testing.T) {
	a, b := NewRand(7), NewRand(7)
	for range 10 {
		assert.Equal(t, a.Float64(), b.Float64())
	}
	v := a.Between(5, 6)
	assert.GreaterOrEqual(t, v, 5.0)
	assert.Less(t, v, 6.0)
	assert.Contains(t, []float64{-1, 1}, a.Sign())
}

func TestHealth(t *testing.T) {
	h := Health{HP: 3, Max: 5}
	h.Heal(10)
	assert.Equal(t, 5, h.HP)
	assert.Equal(t, 1.0, h.Fraction())
	h.HP = -2
	assert.Equal(t, 0.0, h.Fraction())
	assert.Equal(t, 0.0, Health{}.Fraction())
}

func TestPositionHelpers(t *testing.T) {
	p := Position{X: 10, Y: 20}
	b := Body{W: 40, H: 40}
	assert.Equal(t, geom.V(30, 40), p.Center(b))
	assert.Equal(t, geom.R(10, 20, 40, 40), p.Rect(b))

	p.CenterOn(geom.V(100, 100), b)
	assert.Equal(t, Position{X: 80, Y: 80}, p)
}

func TestSoundIsNilSafe(t *testing.T) {
	var s *Sound
	assert.NotPanics(t, func() { s.Play(SoundShoot) })
	assert.NotPanics(t, func() { (&Sound{}).Play(SoundShoot) })
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	built := 0
	r.Register("b", func(env Env) (*World, error) {
		built++
		return NewWorld("b", "B", 10, 10, ecs.NewComponentRegistry(), env), nil
	})
	r.Register("a", func(env Env) (*World, error) { return nil, assert.AnError })

	assert.Equal(t, []string{"a", "b"}, r.Names())
	assert.Panics(t, func() { r.Register("a", nil) })

	w, err := r.Build("b", Env{})
	require.NoError(t, err)
	assert.Equal(t, "b", w.Name)
	assert.Equal(t, 1, built)

	_, err = r.Build("a", Env{})
	assert.ErrorIs(t, err, assert.AnError)

	_, err = r.Lookup("zzz")
	assert.ErrorIs(t, err, ErrUnknownGame)
}

func TestRunnerPauseAndCompact(t *testing.T) {
	w := newTestWorld(t)
	r := NewRunner(w)
	r.CompactEvery = 2

	hole := w.Storage.Spawn(Position{}, Body{W: 1, H: 1})
	id := w.Storage.Spawn(Position{X: 3}, Body{W: 1, H: 1})
	ref := w.Storage.CreateEntityRef(id)
	w.Storage.Delete(hole)

	assert.True(t, r.Advance())
	r.TogglePause()
	assert.True(t, r.Paused())
	assert.False(t, r.Advance())
	assert.Equal(t, int64(1), w.Clock().Frame)

	r.TogglePause()
	assert.True(t, r.Advance())
	assert.Equal(t, int64(2), w.Clock().Frame)

	current, ok := w.Storage.ResolveEntityRef(ref)
	require.True(t, ok)
	assert.NotEqual(t, id, current, "compaction moved the entity")
	assert.Equal(t, 3.0, ecs.ReadComponent[Position](w.Storage, current).X)
}
