package arcade

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/arcade/ecs"
	"github.com/plus3/arcade/ecs/debugui"
	debugui_ebiten "github.com/plus3/arcade/ecs/debugui/ebiten"
)

// DefaultCompactEvery is how many ticks pass between storage compactions.
const DefaultCompactEvery = 600

// Runner hosts a World as an ebiten.Game. Update ticks the world at a fixed
// step unless paused; P pauses, Esc quits. With the debug overlay on, the
// ImGui windows are drawn over the game.
type Runner struct {
	World        *World
	CompactEvery int64

	pause   *ecs.Singleton[debugui.PauseState]
	capture *ecs.Singleton[debugui.ImguiInputState]
	overlay *ecs.Scheduler
	backend *debugui_ebiten.ImguiBackend
	ticks   int64
}

func NewRunner(world *World) *Runner {
	return &Runner{
		World:        world,
		CompactEvery: DefaultCompactEvery,
		pause:        ecs.NewSingleton[debugui.PauseState](world.Storage),
		capture:      ecs.NewSingleton[debugui.ImguiInputState](world.Storage),
	}
}

// EnableDebug creates the ImGui backend and the overlay windows. It must be
// called before ebiten.RunGame.
func (r *Runner) EnableDebug() {
	backend := debugui_ebiten.NewImguiBackend(r.World.Title, r.World.Width, r.World.Height)
	r.backend = &backend

	debugui.SpawnDebugUI(r.World.Storage)
	r.overlay = ecs.NewScheduler(r.World.Storage)
	r.overlay.Register(&debugui.ImguiSystem{})
	r.overlay.Register(debugui.NewWindowSystem(
		debugui.NamedScheduler{Name: "Update", Scheduler: r.World.Update},
		debugui.NamedScheduler{Name: "Render", Scheduler: r.World.Render},
	))
}

// Capture is the overlay's input-capture state, for EbitenInput.
func (r *Runner) Capture() *ecs.Singleton[debugui.ImguiInputState] {
	return r.capture
}

// Paused reports whether the simulation is paused.
func (r *Runner) Paused() bool {
	return r.pause.Get().Paused
}

// TogglePause pauses or resumes the simulation.
func (r *Runner) TogglePause() {
	r.pause.Get().Toggle()
}

// Advance runs one tick unless paused and compacts storage periodically.
// It reports whether the world stepped.
func (r *Runner) Advance() bool {
	if !r.pause.Get().Advance() {
		return false
	}
	r.World.Step()
	r.ticks++
	if r.CompactEvery > 0 && r.ticks%r.CompactEvery == 0 {
		r.World.Storage.Compact()
	}
	return true
}

func (r *Runner) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if !r.capture.Get().WantCaptureKeyboard && inpututil.IsKeyJustPressed(ebiten.KeyP) {
		r.TogglePause()
	}
	r.Advance()
	return nil
}

func (r *Runner) Draw(screen *ebiten.Image) {
	r.World.Draw(screen)
	if r.backend != nil {
		r.backend.Overlay(screen, func() { r.overlay.Once(0) })
	}
}

func (r *Runner) Layout(outsideWidth, outsideHeight int) (int, int) {
	if r.backend != nil {
		r.backend.Layout(r.World.Width, r.World.Height)
	}
	return r.World.Width, r.World.Height
}

// Run opens a window scaled by scale and blocks until it closes.
func (r *Runner) Run(scale float64) error {
	ebiten.SetWindowSize(int(float64(r.World.Width)*scale), int(float64(r.World.Height)*scale))
	ebiten.SetWindowTitle(r.World.Title)
	ebiten.SetTPS(TicksPerSecond)
	return ebiten.RunGame(r)
}
