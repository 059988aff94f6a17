package debugui

import (
	"testing"

	"github.com/plus3/arcade/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPauseStateAdvance(t *testing.T) {
	var p PauseState
	assert.True(t, p.Advance())

	p.Toggle()
	assert.False(t, p.Advance())

	p.StepRequested = true
	assert.True(t, p.Advance())
	assert.False(t, p.Advance())

	p.FramesToAdvance = 2
	assert.True(t, p.Advance())
	assert.True(t, p.Advance())
	assert.False(t, p.Advance())

	p.FramesToAdvance = 5
	p.Toggle()
	assert.Zero(t, p.FramesToAdvance)
	assert.True(t, p.Advance())
}

func TestPerformanceStatsAverage(t *testing.T) {
	ps := NewPerformanceStatsComponent(4)
	assert.Zero(t, ps.AverageFrameTime())

	ps.Record(0.010)
	ps.Record(0.020)
	assert.InDelta(t, 15.0, ps.AverageFrameTime(), 1e-3)

	for range 6 {
		ps.Record(0.005)
	}
	assert.InDelta(t, 5.0, ps.AverageFrameTime(), 1e-3)
}

type censusA struct{ V int }
type censusB struct{ V int }

func TestCensusFilterAndSort(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[censusA](registry)
	ecs.RegisterComponent[censusB](registry)
	storage := ecs.NewStorage(registry)

	storage.Spawn(censusA{})
	storage.Spawn(censusB{})
	storage.Spawn(censusB{})
	storage.Spawn(censusA{}, censusB{})

	c := NewCensusComponent()
	c.refresh(storage.CollectStats())
	require.Len(t, c.rows, 3)
	assert.Equal(t, 2, c.rows[0].EntityCount)
	assert.Equal(t, "debugui.censusB", c.rows[0].Components)

	c.sortColumn = censusColumnComponents
	c.sortAscending = true
	c.refresh(storage.CollectStats())
	assert.Equal(t, []string{"debugui.censusA", "debugui.censusA, debugui.censusB", "debugui.censusB"},
		[]string{c.rows[0].Components, c.rows[1].Components, c.rows[2].Components})

	c.filterText = "CENSUSA"
	c.refresh(storage.CollectStats())
	assert.Len(t, c.rows, 2)
}

func TestImguiSystemOrdersVisibleItems(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	RegisterDebugUIComponents(registry)
	storage := ecs.NewStorage(registry)
	state := ecs.NewSingleton[ImguiInputState](storage)

	var drawn []string
	window := func(title string, order int) ImguiItem {
		return ImguiItem{Title: title, Order: order, Render: func() { drawn = append(drawn, title) }}
	}
	storage.Spawn(window("stats", 2))
	storage.Spawn(window("entities", 1))
	storage.Spawn(window("census", 1))
	hidden := window("hidden", 0)
	hidden.Hidden = true
	storage.Spawn(hidden)

	overlay := ecs.NewScheduler(storage)
	overlay.Register(&ImguiSystem{
		ReadIO: func() ImguiInputState { return ImguiInputState{WantCaptureMouse: true} },
	})
	overlay.Once(0)

	assert.Equal(t, []string{"census", "entities", "stats"}, drawn)
	assert.True(t, state.Get().WantCaptureMouse)
	assert.False(t, state.Get().WantCaptureKeyboard)
}

func TestImguiSystemHiddenOverlayCapturesNothing(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	RegisterDebugUIComponents(registry)
	storage := ecs.NewStorage(registry)
	state := ecs.NewSingleton[ImguiInputState](storage, ImguiInputState{WantCaptureMouse: true, WantCaptureKeyboard: true})

	rendered := false
	storage.Spawn(ImguiItem{Title: "stats", Hidden: true, Render: func() { rendered = true }})

	overlay := ecs.NewScheduler(storage)
	overlay.Register(&ImguiSystem{
		ReadIO: func() ImguiInputState { return ImguiInputState{WantCaptureMouse: true, WantCaptureKeyboard: true} },
	})
	overlay.Once(0)

	assert.False(t, rendered)
	assert.Equal(t, ImguiInputState{}, *state.Get())
}
