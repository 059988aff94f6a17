// Package arcade is the runtime shared by every game: common components and
// singletons, the input pipeline, the World that bundles a storage with its
// update and render schedulers, and the Runner that hosts a World in an
// ebiten window.
package arcade

import (
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/arcade/ecs"
	"github.com/plus3/arcade/ecs/debugui"
	"github.com/plus3/arcade/internal/assets"
	"github.com/plus3/arcade/internal/config"
	"github.com/plus3/arcade/internal/logging"
)

const (
	TicksPerSecond = 60
	Dt             = 1.0 / TicksPerSecond
)

// Env is everything a Factory may use to build a World. Every field except
// Config may be left zero: no assets means fallback shapes, no sound means
// silence, no input source means input is scripted by the caller.
type Env struct {
	Config config.Config
	Assets *assets.Loader
	Sound  SoundPlayer
	Input  InputSource
	Logger *slog.Logger
	Seed   uint64
}

// World is one running game.
type World struct {
	Name          string
	Title         string
	Width, Height int

	Storage *ecs.Storage
	Update  *ecs.Scheduler
	Render  *ecs.Scheduler
	Logger  *slog.Logger

	input  *ecs.Singleton[Input]
	clock  *ecs.Singleton[Clock]
	rand   *ecs.Singleton[Rand]
	screen *ecs.Singleton[Screen]
}

// NewWorld registers the shared components into registry, creates the
// storage and its shared singletons, and installs the input and clock
// systems at the head of the update scheduler. The caller registers its own
// components before calling and its systems after.
func NewWorld(name, title string, width, height int, registry *ecs.ComponentRegistry, env Env) *World {
	RegisterComponents(registry)
	debugui.RegisterDebugUIComponents(registry)

	logger := env.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	storage := ecs.NewStorage(registry)
	w := &World{
		Name:    name,
		Title:   title,
		Width:   width,
		Height:  height,
		Storage: storage,
		Update:  ecs.NewScheduler(storage),
		Render:  ecs.NewScheduler(storage),
		Logger:  logger.With("game", name),
		input:   ecs.NewSingleton[Input](storage, NewInput()),
		clock:   ecs.NewSingleton[Clock](storage),
		rand:    ecs.NewSingleton[Rand](storage, NewRand(env.Seed)),
		screen:  ecs.NewSingleton[Screen](storage),
	}
	ecs.NewSingleton[Sound](storage, Sound{Player: env.Sound})
	ecs.NewSingleton[debugui.ImguiInputState](storage)

	w.Update.Register(&InputSystem{Source: env.Input})
	w.Update.Register(&ClockSystem{})
	return w
}

// Step advances the simulation by one fixed tick.
func (w *World) Step() {
	w.Update.Once(Dt)
	w.input.Get().endFrame()
}

// Draw runs the render scheduler against screen.
func (w *World) Draw(screen *ebiten.Image) {
	w.screen.Get().Image = screen
	w.Render.Once(0)
}

func (w *World) Input() *Input { return w.input.Get() }
func (w *World) Clock() *Clock { return w.clock.Get() }
func (w *World) Rand() Rand    { return *w.rand.Get() }
