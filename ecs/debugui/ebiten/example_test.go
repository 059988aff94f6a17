package ebiten_test

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/arcade/ecs"
	"github.com/plus3/arcade/ecs/debugui"
	debugui_ebiten "github.com/plus3/arcade/ecs/debugui/ebiten"
)

// Game runs one update scheduler and draws the overlay with a second one.
type Game struct {
	scheduler    *ecs.Scheduler
	overlay      *ecs.Scheduler
	imguiBackend *ecs.Singleton[debugui_ebiten.ImguiBackend]
}

func (g *Game) Update() error {
	g.scheduler.Once(1.0 / 60.0)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.imguiBackend.Get().Overlay(screen, func() {
		g.overlay.Once(0)
	})
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.imguiBackend.Get().Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func Example() {
	registry := ecs.NewComponentRegistry()
	debugui.RegisterDebugUIComponents(registry)
	storage := ecs.NewStorage(registry)

	ecs.NewSingleton[debugui_ebiten.ImguiBackend](storage,
		debugui_ebiten.NewImguiBackend("ECS ImGui Example", 1280, 720))

	debugui.SpawnDebugUI(storage)
	storage.Spawn(debugui.ImguiItem{
		Render: func() {
			imgui.Begin("Debug Window")
			imgui.Text("Hello from ECS!")
			imgui.End()
		},
		Title: "Debug Window",
	})

	scheduler := ecs.NewScheduler(storage)
	overlay := ecs.NewScheduler(storage)
	overlay.Register(&debugui.ImguiSystem{})
	overlay.Register(debugui.NewWindowSystem(debugui.NamedScheduler{Name: "Update", Scheduler: scheduler}))

	game := &Game{
		scheduler:    scheduler,
		overlay:      overlay,
		imguiBackend: ecs.NewSingleton[debugui_ebiten.ImguiBackend](storage),
	}

	if err := ebiten.RunGame(game); err != nil {
		panic(err)
	}
}
