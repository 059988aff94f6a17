// Package debugui draws a Dear ImGui overlay for a running world. Windows are
// ordinary entities carrying an ImguiItem; ImguiSystem collects them each
// frame and defers their render functions until the frame's commands flush.
package debugui

import (
	"cmp"
	"slices"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/arcade/ecs"
)

// ImguiItem is an overlay window. Items render in ascending Order, ties
// broken by Title. Hidden items are skipped without being despawned.
type ImguiItem struct {
	Title  string
	Order  int
	Hidden bool
	Render func()
}

// ImguiInputState tracks whether Dear ImGui wants the mouse or keyboard.
// Game input systems consult it so clicks on the overlay do not leak through.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem queues the visible items' render functions and refreshes the
// ImguiInputState singleton. With every item hidden the overlay captures
// nothing, so game input is never swallowed by an empty screen.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]

	// ReadIO reports Dear ImGui's capture flags. Nil reads the live context.
	ReadIO func() ImguiInputState
}

func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	var visible []*ImguiItem
	for item := range i.Items.Values() {
		if !item.Hidden && item.Render != nil {
			visible = append(visible, item.ImguiItem)
		}
	}

	state := i.InputState.Get()
	if len(visible) == 0 {
		*state = ImguiInputState{}
		return
	}
	*state = i.readIO()

	slices.SortStableFunc(visible, func(a, b *ImguiItem) int {
		return cmp.Or(cmp.Compare(a.Order, b.Order), cmp.Compare(a.Title, b.Title))
	})
	for _, item := range visible {
		frame.Commands.Defer(item.Render)
	}
}

func (i *ImguiSystem) readIO() ImguiInputState {
	if i.ReadIO != nil {
		return i.ReadIO()
	}
	io := imgui.CurrentIO()
	return ImguiInputState{
		WantCaptureMouse:    io.WantCaptureMouse(),
		WantCaptureKeyboard: io.WantCaptureKeyboard(),
	}
}
