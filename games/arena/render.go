package arena

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/arcade/ecs"
	"github.com/plus3/arcade/internal/arcade"
	"github.com/plus3/arcade/internal/geom"
	"github.com/plus3/arcade/internal/hud"
)

const pixelsPerUnit = 12

var (
	groundColor  = color.RGBA{40, 110, 40, 255}
	friendlyShot = color.RGBA{255, 255, 0, 255}
	hostileShot  = color.RGBA{255, 120, 0, 255}
	shieldColor  = color.RGBA{80, 160, 255, 255}
	powerColors  = map[PowerKind]color.RGBA{
		PowerHealth:   {0, 220, 0, 255},
		PowerFireRate: {255, 220, 0, 255},
		PowerShield:   {60, 120, 255, 255},
	}
)

// camera projects ground coordinates onto the screen with the player at
// the centre and +Z pointing up.
type camera struct {
	at Vec3
}

func (c camera) project(p Vec3) geom.Vec {
	return geom.V(
		Width/2+(p.X-c.at.X)*pixelsPerUnit,
		Height/2-(p.Z-c.at.Z)*pixelsPerUnit,
	)
}

func fillSquare(dst *ebiten.Image, centre geom.Vec, side float64, clr color.Color) {
	vector.DrawFilledRect(dst, float32(centre.X-side/2), float32(centre.Y-side/2), float32(side), float32(side), clr, false)
}

// ViewSystem draws the field from above.
type ViewSystem struct {
	Screen   ecs.Singleton[arcade.Screen]
	Match    ecs.Singleton[Match]
	Heroes   ecs.Query[hero]
	Foes     ecs.Query[foe]
	PowerUps ecs.Query[struct {
		*Transform
		*PowerUp
	}]
	Shots ecs.Query[struct {
		*Transform
		*Shot
	}]
}

func (s *ViewSystem) Execute(frame *ecs.UpdateFrame) {
	screen := s.Screen.Get()
	if screen == nil || screen.Image == nil {
		return
	}
	dst := screen.Image
	h, ok := s.Heroes.First()
	if !ok {
		return
	}
	cam := camera{at: h.Pos}

	corner := cam.project(Vec3{X: -groundHalf, Z: groundHalf})
	side := float32(2 * groundHalf * pixelsPerUnit)
	vector.DrawFilledRect(dst, float32(corner.X), float32(corner.Y), side, side, groundColor, false)

	for p := range s.PowerUps.Values() {
		c := cam.project(p.Pos)
		vector.DrawFilledCircle(dst, float32(c.X), float32(c.Y), float32(p.Size*pixelsPerUnit), powerColors[p.Kind], true)
	}

	for f := range s.Foes.Values() {
		c := cam.project(f.Pos)
		px := f.Size * pixelsPerUnit
		fillSquare(dst, c, px, f.Color)
		if f.Boss {
			frac := float64(f.Health) / float64(f.MaxHealth)
			hud.Bar(dst, geom.R(c.X-px/2, c.Y-px/2-8, px, 4), frac, hud.Red, hud.Gray)
		}
	}

	// The player grows while airborne and leaves a shadow on the ground.
	c := cam.project(h.Pos)
	vector.DrawFilledCircle(dst, float32(c.X), float32(c.Y), pixelsPerUnit/2, hud.Shadow, true)
	fillSquare(dst, c, h.Size*pixelsPerUnit*(1+h.Pos.Y/4), playerColor)
	if s.Match.Get().Shield > 0 {
		vector.StrokeCircle(dst, float32(c.X), float32(c.Y), pixelsPerUnit, 2, shieldColor, true)
	}

	for b := range s.Shots.Values() {
		c := cam.project(b.Pos)
		clr := friendlyShot
		if b.Hostile {
			clr = hostileShot
		}
		vector.DrawFilledCircle(dst, float32(c.X), float32(c.Y), 2, clr, true)
	}
}

type HUDSystem struct {
	Screen ecs.Singleton[arcade.Screen]
	Match  ecs.Singleton[Match]
}

func (s *HUDSystem) Execute(frame *ecs.UpdateFrame) {
	screen := s.Screen.Get()
	if screen == nil || screen.Image == nil {
		return
	}
	dst := screen.Image
	m := s.Match.Get()

	hud.Text(dst, fmt.Sprintf("Score: %d", m.Score), 10, 10, 2, hud.White)
	hud.Bar(dst, geom.R(10, 40, 200, 16), float64(m.Health)/float64(max(m.MaxHealth, 1)), hud.Red, hud.Gray)
	hud.Text(dst, fmt.Sprintf("Wave: %d", m.Wave), 10, 64, 2, hud.White)
	if m.Shield > 0 {
		hud.Text(dst, fmt.Sprintf("Shield: %.1fs", m.Shield), 10, 94, 2, shieldColor)
	}

	if m.Phase == Over {
		hud.Panel(dst, geom.R(Width/2-200, Height/2-90, 400, 180))
		hud.TextCentered(dst, "GAME OVER", Width/2, Height/2-70, 4, hud.Red)
		hud.TextCentered(dst, fmt.Sprintf("Final Score: %d", m.Score), Width/2, Height/2, 2, hud.White)
		hud.TextCentered(dst, "Press R to restart", Width/2, Height/2+40, 1, hud.White)
	}
}
