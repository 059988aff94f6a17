package arcade

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/arcade/ecs"
	"github.com/plus3/arcade/internal/geom"
)

// Position is the top-left corner of an entity's body in screen pixels.
type Position struct {
	X, Y float64
}

// Velocity is in pixels per frame.
type Velocity struct {
	X, Y float64
}

type Body struct {
	W, H float64
}

// Circle marks round entities. Their Position is still the top-left of the
// bounding square, so Center works the same for both shapes.
type Circle struct {
	R float64
}

type Health struct {
	HP, Max int
}

type Shape uint8

const (
	ShapeRect Shape = iota
	ShapeCircle
)

// Sprite says how an entity is drawn. A nil Image falls back to a filled
// Shape in Color.
type Sprite struct {
	Image    *ebiten.Image
	Color    color.RGBA
	Shape    Shape
	Rotation float64
	Layer    int
	Hidden   bool
}

// CullOffscreen deletes the entity once its body has left the screen.
type CullOffscreen struct{}

func (p Position) Vec() geom.Vec {
	return geom.V(p.X, p.Y)
}

// Rect returns the body rectangle at p.
func (p Position) Rect(b Body) geom.Rect {
	return geom.R(p.X, p.Y, b.W, b.H)
}

// Center returns the centre of the body at p.
func (p Position) Center(b Body) geom.Vec {
	return geom.V(p.X+b.W/2, p.Y+b.H/2)
}

// CenterOn moves p so that the body is centred on c.
func (p *Position) CenterOn(c geom.Vec, b Body) {
	p.X = c.X - b.W/2
	p.Y = c.Y - b.H/2
}

// Heal adds n hit points without exceeding Max.
func (h *Health) Heal(n int) {
	h.HP = min(h.HP+n, h.Max)
}

// Fraction is HP/Max clamped to [0, 1].
func (h Health) Fraction() float64 {
	if h.Max <= 0 {
		return 0
	}
	return geom.Clamp(float64(h.HP)/float64(h.Max), 0, 1)
}

// RegisterComponents registers the shared components with registry.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Body](registry)
	ecs.RegisterComponent[Circle](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Sprite](registry)
	ecs.RegisterComponent[CullOffscreen](registry)
}
