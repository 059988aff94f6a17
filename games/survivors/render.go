package survivors

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/arcade/ecs"
	"github.com/plus3/arcade/internal/arcade"
	"github.com/plus3/arcade/internal/geom"
	"github.com/plus3/arcade/internal/hud"
)

// ExplosionRingSystem outlines the spell radius while it is visible.
type ExplosionRingSystem struct {
	Screen    ecs.Singleton[arcade.Screen]
	Explosion ecs.Singleton[Explosion]
	Players   ecs.Query[hero]
}

func (s *ExplosionRingSystem) Execute(frame *ecs.UpdateFrame) {
	x := s.Explosion.Get()
	p, ok := s.Players.First()
	if !ok || x.Visible <= 0 {
		return
	}
	c := p.Position.Center(*p.Body)
	vector.StrokeCircle(s.Screen.Get().Image, float32(c.X), float32(c.Y), float32(x.Radius), 3, ember, true)
}

// HUDSystem draws the bars, timer and level while a run is on screen.
type HUDSystem struct {
	Screen  ecs.Singleton[arcade.Screen]
	Session ecs.Singleton[Session]
	Players ecs.Query[hero]
	Bosses  ecs.Query[struct {
		*arcade.Health
		*Boss
	}]
}

func (s *HUDSystem) Execute(frame *ecs.UpdateFrame) {
	session := s.Session.Get()
	if session.Phase != Playing {
		return
	}
	dst := s.Screen.Get().Image
	if p, ok := s.Players.First(); ok {
		hud.Bar(dst, geom.R(10, 10, 200, 20), float64(p.XP)/float64(p.XPToNext), blue, hud.Black)
		hud.Bar(dst, geom.R(10, 40, 200, 20), p.HP/float64(p.MaxHP), green, red)
		hud.Text(dst, fmt.Sprintf("Lvl %d", p.Level), 220, 10, 2, hud.White)
	}
	hud.TextCentered(dst, hud.Clock(session.Elapsed), Width/2, 10, 3, hud.White)

	for b := range s.Bosses.Values() {
		hud.TextCentered(dst, "BOSS", Width/2, 50, 1, hud.White)
		hud.Bar(dst, geom.R(Width/2-150, 70, 300, 20), b.Health.Fraction(), green, red)
		break
	}
}

// OverlaySystem draws the menu, level-up and game-over screens.
type OverlaySystem struct {
	Screen  ecs.Singleton[arcade.Screen]
	Session ecs.Singleton[Session]
	Input   ecs.Singleton[arcade.Input]
}

func (s *OverlaySystem) Execute(frame *ecs.UpdateFrame) {
	dst := s.Screen.Get().Image
	in := s.Input.Get()
	session := s.Session.Get()

	switch session.Phase {
	case Menu:
		hud.TextCentered(dst, Title, Width/2, 150, 5, hud.White)
		startButton().Draw(dst, in.MouseX, in.MouseY)
	case LevelUp:
		hud.Panel(dst, geom.R(0, 0, Width, Height))
		hud.TextCentered(dst, "LEVEL UP! Choose:", Width/2, 150, 3, hud.White)
		for i, b := range offerButtons(session) {
			b.Draw(dst, in.MouseX, in.MouseY)
			hud.Text(dst, fmt.Sprint(i+1), b.Rect.X+10, b.Rect.Y+18, 1, hud.White)
		}
	case GameOver:
		hud.Panel(dst, geom.R(0, 0, Width, Height))
		hud.TextCentered(dst, "GAME OVER", Width/2, 200, 5, red)
		hud.TextCentered(dst, fmt.Sprintf("Survived %s with %d kills", hud.Clock(session.Elapsed), session.Kills), Width/2, 280, 2, hud.White)
		menuButton().Draw(dst, in.MouseX, in.MouseY)
	}
}
