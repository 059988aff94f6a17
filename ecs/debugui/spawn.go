package debugui

import "github.com/plus3/arcade/ecs"

// SpawnDebugUI adds the performance and census windows to storage and makes
// sure the PauseState and ImguiInputState singletons exist.
func SpawnDebugUI(storage *ecs.Storage) {
	ecs.NewSingleton[PauseState](storage)
	ecs.NewSingleton[ImguiInputState](storage)
	storage.Spawn(NewPerformanceStatsComponent(120))
	storage.Spawn(NewCensusComponent())
}

func RegisterDebugUIComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[PerformanceStatsComponent](registry)
	ecs.RegisterComponent[CensusComponent](registry)
}

// WindowSystem defers rendering of the built-in windows.
type WindowSystem struct {
	Performance ecs.Query[struct{ *PerformanceStatsComponent }]
	Census      ecs.Query[struct{ *CensusComponent }]
	Pause       ecs.Singleton[PauseState]

	schedulers []NamedScheduler
	timer      *FrameTimer
}

// NewWindowSystem returns a WindowSystem reporting timings for schedulers.
func NewWindowSystem(schedulers ...NamedScheduler) *WindowSystem {
	return &WindowSystem{
		schedulers: schedulers,
		timer:      NewFrameTimer(),
	}
}

func (w *WindowSystem) Execute(frame *ecs.UpdateFrame) {
	dt := w.timer.GetDeltaTime()
	storage := frame.Storage

	for item := range w.Performance.Values() {
		perf := item.PerformanceStatsComponent
		frame.Commands.Defer(func() { perf.Render(storage, w.schedulers, dt) })
	}
	for item := range w.Census.Values() {
		census := item.CensusComponent
		frame.Commands.Defer(func() { census.Render(storage) })
	}
	if pause := w.Pause.Get(); pause != nil {
		frame.Commands.Defer(pause.Render)
	}
}
