package arcade

import (
	"cmp"
	"image/color"
	"math/rand/v2"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/arcade/ecs"
)

// Screen carries the image render systems draw onto.
type Screen struct {
	*ebiten.Image
}

// Clock counts simulated frames and seconds.
type Clock struct {
	Frame   int64
	Elapsed float64
	Dt      float64
}

// Rand is the world's random source. Worlds built with the same seed make
// the same choices.
type Rand struct {
	*rand.Rand
}

func NewRand(seed uint64) Rand {
	return Rand{rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Between returns a uniform float in [lo, hi).
func (r Rand) Between(lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// Sign returns -1 or 1.
func (r Rand) Sign() float64 {
	if r.IntN(2) == 0 {
		return -1
	}
	return 1
}

type ClockSystem struct {
	Clock ecs.Singleton[Clock]
}

func (s *ClockSystem) Execute(frame *ecs.UpdateFrame) {
	c := s.Clock.Get()
	c.Frame++
	c.Dt = frame.DeltaTime
	c.Elapsed += frame.DeltaTime
}

// MovementSystem adds Velocity to Position.
type MovementSystem struct {
	Movers ecs.Query[struct {
		*Position
		*Velocity
	}]
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	for m := range s.Movers.Values() {
		m.Position.X += m.Velocity.X
		m.Position.Y += m.Velocity.Y
	}
}

// CullSystem deletes CullOffscreen entities that have left the screen.
type CullSystem struct {
	Width, Height float64

	Entities ecs.Query[struct {
		ecs.EntityId
		*Position
		*Body
		*CullOffscreen
	}]
}

func (s *CullSystem) Execute(frame *ecs.UpdateFrame) {
	for e := range s.Entities.Values() {
		if e.Position.Rect(*e.Body).Offscreen(s.Width, s.Height) {
			frame.Commands.Delete(e.EntityId)
		}
	}
}

// ClearSystem paints the background: an image stretched over the screen if
// one is set, otherwise a flat colour.
type ClearSystem struct {
	Color      color.Color
	Background *ebiten.Image

	Screen ecs.Singleton[Screen]
}

func (s *ClearSystem) Execute(frame *ecs.UpdateFrame) {
	screen := s.Screen.Get()
	if screen == nil || screen.Image == nil {
		return
	}
	if s.Background == nil {
		screen.Fill(s.Color)
		return
	}
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	bw, bh := s.Background.Bounds().Dx(), s.Background.Bounds().Dy()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(sw)/float64(bw), float64(sh)/float64(bh))
	screen.DrawImage(s.Background, op)
}

type drawable struct {
	*Position
	*Body
	*Sprite
}

// SpriteSystem draws every visible sprite, lowest Layer first.
type SpriteSystem struct {
	Sprites ecs.Query[drawable]
	Screen  ecs.Singleton[Screen]

	batch []drawable
}

func (s *SpriteSystem) Execute(frame *ecs.UpdateFrame) {
	screen := s.Screen.Get()
	if screen == nil || screen.Image == nil {
		return
	}

	s.batch = s.batch[:0]
	for d := range s.Sprites.Values() {
		if !d.Hidden {
			s.batch = append(s.batch, d)
		}
	}
	slices.SortStableFunc(s.batch, func(a, b drawable) int {
		return cmp.Compare(a.Layer, b.Layer)
	})

	for _, d := range s.batch {
		DrawSprite(screen.Image, *d.Position, *d.Body, *d.Sprite)
	}
}

// DrawSprite draws one sprite into dst.
func DrawSprite(dst *ebiten.Image, pos Position, body Body, sprite Sprite) {
	if sprite.Image != nil {
		iw, ih := sprite.Image.Bounds().Dx(), sprite.Image.Bounds().Dy()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(body.W/float64(iw), body.H/float64(ih))
		op.GeoM.Translate(-body.W/2, -body.H/2)
		op.GeoM.Rotate(sprite.Rotation)
		op.GeoM.Translate(pos.X+body.W/2, pos.Y+body.H/2)
		dst.DrawImage(sprite.Image, op)
		return
	}

	switch sprite.Shape {
	case ShapeCircle:
		c := pos.Center(body)
		vector.DrawFilledCircle(dst, float32(c.X), float32(c.Y), float32(body.W/2), sprite.Color, true)
	default:
		vector.DrawFilledRect(dst, float32(pos.X), float32(pos.Y), float32(body.W), float32(body.H), sprite.Color, false)
	}
}
