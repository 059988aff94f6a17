package arcade

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/arcade/ecs"
	"github.com/plus3/arcade/ecs/debugui"
	"github.com/plus3/arcade/internal/geom"
)

// Input is the per-frame input snapshot games read. Games never call
// ebiten's input functions themselves; an InputSource fills this in, which
// lets tests and the soak bot drive a game without a window.
type Input struct {
	held    map[ebiten.Key]bool
	pressed map[ebiten.Key]bool

	MouseX, MouseY float64
	Click          bool
}

func NewInput() Input {
	return Input{
		held:    make(map[ebiten.Key]bool),
		pressed: make(map[ebiten.Key]bool),
	}
}

// Down reports whether any of keys is held.
func (in *Input) Down(keys ...ebiten.Key) bool {
	for _, k := range keys {
		if in.held[k] {
			return true
		}
	}
	return false
}

// Pressed reports whether any of keys went down this frame.
func (in *Input) Pressed(keys ...ebiten.Key) bool {
	for _, k := range keys {
		if in.pressed[k] {
			return true
		}
	}
	return false
}

// Hold marks keys as held until Release.
func (in *Input) Hold(keys ...ebiten.Key) {
	for _, k := range keys {
		in.held[k] = true
	}
}

func (in *Input) Release(keys ...ebiten.Key) {
	for _, k := range keys {
		delete(in.held, k)
	}
}

// Press marks keys as pressed for the current frame only.
func (in *Input) Press(keys ...ebiten.Key) {
	for _, k := range keys {
		in.pressed[k] = true
	}
}

// ClickAt records a left click at x, y for the current frame.
func (in *Input) ClickAt(x, y float64) {
	in.MouseX, in.MouseY = x, y
	in.Click = true
}

// Clear drops every key and the click.
func (in *Input) Clear() {
	clear(in.held)
	clear(in.pressed)
	in.Click = false
}

func (in *Input) endFrame() {
	clear(in.pressed)
	in.Click = false
}

// Axis returns -1, 0 or 1 from two key sets.
func (in *Input) Axis(negative, positive []ebiten.Key) float64 {
	v := 0.0
	if in.Down(negative...) {
		v--
	}
	if in.Down(positive...) {
		v++
	}
	return v
}

var (
	KeysUp    = []ebiten.Key{ebiten.KeyW, ebiten.KeyArrowUp}
	KeysDown  = []ebiten.Key{ebiten.KeyS, ebiten.KeyArrowDown}
	KeysLeft  = []ebiten.Key{ebiten.KeyA, ebiten.KeyArrowLeft}
	KeysRight = []ebiten.Key{ebiten.KeyD, ebiten.KeyArrowRight}

	ArrowUp    = []ebiten.Key{ebiten.KeyArrowUp}
	ArrowDown  = []ebiten.Key{ebiten.KeyArrowDown}
	ArrowLeft  = []ebiten.Key{ebiten.KeyArrowLeft}
	ArrowRight = []ebiten.Key{ebiten.KeyArrowRight}

	KeysRestart = []ebiten.Key{ebiten.KeyR, ebiten.KeyEnter}
)

// Move is the WASD-or-arrows direction, each axis in {-1, 0, 1}.
func (in *Input) Move() geom.Vec {
	return geom.V(in.Axis(KeysLeft, KeysRight), in.Axis(KeysUp, KeysDown))
}

// Arrows is Move restricted to the arrow keys.
func (in *Input) Arrows() geom.Vec {
	return geom.V(in.Axis(ArrowLeft, ArrowRight), in.Axis(ArrowUp, ArrowDown))
}

// InputSource fills Input at the start of every update.
type InputSource interface {
	Poll(in *Input, frame int64)
}

// watchedKeys are the keys any game reads.
var watchedKeys = []ebiten.Key{
	ebiten.KeyW, ebiten.KeyA, ebiten.KeyS, ebiten.KeyD,
	ebiten.KeyArrowUp, ebiten.KeyArrowDown, ebiten.KeyArrowLeft, ebiten.KeyArrowRight,
	ebiten.KeySpace, ebiten.KeyEnter, ebiten.KeyR,
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
}

// EbitenInput polls the real keyboard and mouse. When the debug overlay
// wants the mouse or keyboard, the game does not see them.
type EbitenInput struct {
	Capture *ecs.Singleton[debugui.ImguiInputState]
}

func (e EbitenInput) Poll(in *Input, _ int64) {
	var capture debugui.ImguiInputState
	if e.Capture != nil {
		if c := e.Capture.Get(); c != nil {
			capture = *c
		}
	}

	clear(in.held)
	clear(in.pressed)
	if !capture.WantCaptureKeyboard {
		for _, k := range watchedKeys {
			if ebiten.IsKeyPressed(k) {
				in.held[k] = true
			}
			if inpututil.IsKeyJustPressed(k) {
				in.pressed[k] = true
			}
		}
	}

	x, y := ebiten.CursorPosition()
	in.MouseX, in.MouseY = float64(x), float64(y)
	in.Click = !capture.WantCaptureMouse && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
}

// InputSystem runs the world's InputSource. With no source it leaves Input
// untouched, so tests can script it directly.
type InputSystem struct {
	Input  ecs.Singleton[Input]
	Source InputSource
}

func (s *InputSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Source == nil {
		return
	}
	s.Source.Poll(s.Input.Get(), frame.Frame)
}
