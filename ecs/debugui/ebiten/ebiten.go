// Package ebiten wires the Dear ImGui ebiten backend into a world as a
// singleton so game loops can reach it without globals.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
)

// ImguiBackend wraps the ebiten Dear ImGui backend.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// NewImguiBackend creates the backend for a window of the given size. The
// imgui.ini file is disabled so layouts do not leak between runs.
func NewImguiBackend(title string, width, height int) ImguiBackend {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	return ImguiBackend{EbitenBackend: backend}
}

// Overlay brackets a frame of ImGui calls and draws the result on top of
// the game image.
func (b ImguiBackend) Overlay(screen *ebiten.Image, frame func()) {
	b.BeginFrame()
	frame()
	b.EndFrame()
	b.Draw(screen)
}
