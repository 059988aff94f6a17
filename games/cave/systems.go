package cave

import (
	"fmt"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/arcade/ecs"
	"github.com/plus3/arcade/internal/arcade"
	"github.com/plus3/arcade/internal/geom"
	"github.com/plus3/arcade/internal/hud"
)

type caverView struct {
	*arcade.Position
	*arcade.Body
	*Caver
}

type enemyView struct {
	ecs.EntityId
	*arcade.Position
	*arcade.Body
	*Enemy
}

type bulletView struct {
	ecs.EntityId
	*arcade.Position
	*arcade.Body
	*Bullet
}

// RestartSystem counts play time and starts a new run on R after a loss.
type RestartSystem struct {
	rules  rules
	Logger *slog.Logger

	Run      ecs.Singleton[Run]
	Look     ecs.Singleton[Look]
	Input    ecs.Singleton[arcade.Input]
	Rand     ecs.Singleton[arcade.Rand]
	Entities ecs.Query[struct {
		ecs.EntityId
		*arcade.Position
	}]
}

func (s *RestartSystem) Execute(frame *ecs.UpdateFrame) {
	run := s.Run.Get()
	if run.Phase == Playing {
		run.Elapsed += frame.DeltaTime
		run.SinceShot += frame.DeltaTime
		return
	}
	if !s.Input.Get().Pressed(arcade.KeysRestart...) {
		return
	}
	for e := range s.Entities.Values() {
		frame.Commands.Delete(e.EntityId)
	}
	commandSpawner(frame.Commands, s.rules, *s.Look.Get()).reset(*s.Rand.Get(), run, s.Logger)
}

// PlayerSystem moves the player with the arrows. A step is only taken if
// the player stays strictly inside the screen.
type PlayerSystem struct {
	Run     ecs.Singleton[Run]
	Input   ecs.Singleton[arcade.Input]
	Players ecs.Query[caverView]
}

func (s *PlayerSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Run.Get().Phase != Playing {
		return
	}
	d := s.Input.Get().Arrows()
	for p := range s.Players.Values() {
		r := p.Position.Rect(*p.Body)
		if moved := geom.R(r.X+d.X*p.Speed, r.Y, r.W, r.H); d.X != 0 && moved.Inside(Width, Height) {
			p.Position.X = moved.X
		}
		if moved := geom.R(p.Position.X, r.Y+d.Y*p.Speed, r.W, r.H); d.Y != 0 && moved.Inside(Width, Height) {
			p.Position.Y = moved.Y
		}
	}
}

func fire(cmd *ecs.Commands, run *Run, pos arcade.Position, body arcade.Body, v geom.Vec, shape arcade.Shape) {
	cmd.Spawn(pos, body,
		arcade.Velocity{X: v.X, Y: v.Y},
		Bullet{Seq: run.NextSeq},
		arcade.CullOffscreen{},
		arcade.Sprite{Color: white, Shape: shape, Layer: 1},
	)
	run.NextSeq++
	run.SinceShot = 0
}

// AutoFireSystem keeps a column of bullets going: it fires whenever there
// is no bullet or the newest one is more than 100 px above the player.
type AutoFireSystem struct {
	Run     ecs.Singleton[Run]
	Sound   ecs.Singleton[arcade.Sound]
	Players ecs.Query[caverView]
	Bullets ecs.Query[bulletView]
}

func (s *AutoFireSystem) Execute(frame *ecs.UpdateFrame) {
	run := s.Run.Get()
	if run.Phase != Playing {
		return
	}
	p, ok := s.Players.First()
	if !ok {
		return
	}

	newest := -1
	var newestY float64
	for b := range s.Bullets.Values() {
		if b.Seq > newest {
			newest, newestY = b.Seq, b.Position.Y
		}
	}
	if newest >= 0 && newestY >= p.Position.Y-autoSpacing {
		return
	}

	body := arcade.Body{W: 10, H: 20}
	pos := arcade.Position{X: p.Position.X + p.Body.W/2 - body.W/2, Y: p.Position.Y}
	fire(frame.Commands, run, pos, body, geom.V(0, -bulletSpeed), arcade.ShapeRect)
	s.Sound.Get().Play(arcade.SoundShoot)
}

// ManualFireSystem shoots in the WASD direction, one direction per shot,
// W first, then S, A and D.
type ManualFireSystem struct {
	Run     ecs.Singleton[Run]
	Input   ecs.Singleton[arcade.Input]
	Sound   ecs.Singleton[arcade.Sound]
	Players ecs.Query[caverView]
}

var fireKeys = []struct {
	key ebiten.Key
	dir geom.Vec
}{
	{ebiten.KeyW, geom.V(0, -1)},
	{ebiten.KeyS, geom.V(0, 1)},
	{ebiten.KeyA, geom.V(-1, 0)},
	{ebiten.KeyD, geom.V(1, 0)},
}

func (s *ManualFireSystem) Execute(frame *ecs.UpdateFrame) {
	run := s.Run.Get()
	if run.Phase != Playing || run.SinceShot <= shotCooldown {
		return
	}
	p, ok := s.Players.First()
	if !ok {
		return
	}
	in := s.Input.Get()
	for _, fk := range fireKeys {
		if !in.Down(fk.key) {
			continue
		}
		body := arcade.Body{W: 2 * bulletRadius, H: 2 * bulletRadius}
		var pos arcade.Position
		pos.CenterOn(p.Position.Center(*p.Body), body)
		fire(frame.Commands, run, pos, body, fk.dir.Scale(bulletSpeed), arcade.ShapeCircle)
		s.Sound.Get().Play(arcade.SoundShoot)
		return
	}
}

// EnemySystem chases the player and drains one health per touching enemy
// per frame.
type EnemySystem struct {
	rules rules

	Run     ecs.Singleton[Run]
	Sound   ecs.Singleton[arcade.Sound]
	Players ecs.Query[caverView]
	Enemies ecs.Query[enemyView]
}

func (s *EnemySystem) Execute(frame *ecs.UpdateFrame) {
	run := s.Run.Get()
	if run.Phase != Playing {
		return
	}
	p, ok := s.Players.First()
	if !ok {
		return
	}
	pr := p.Position.Rect(*p.Body)
	target := pr.Center()

	for e := range s.Enemies.Values() {
		e.Position.CenterOn(s.rules.chase(e.Position.Center(*e.Body), target, e.Speed), *e.Body)
		if pr.Overlaps(e.Position.Rect(*e.Body)) {
			run.Health--
		}
	}
	if run.Health <= 0 {
		run.Phase = Over
		s.Sound.Get().Play(arcade.SoundGameOver)
		run.Logger.Info("run over", "kills", run.Kills, "seconds", int(run.Elapsed))
	}
}

// HitSystem trades a bullet and the enemy it hits for a fresh enemy.
type HitSystem struct {
	rules rules

	Run     ecs.Singleton[Run]
	Look    ecs.Singleton[Look]
	Rand    ecs.Singleton[arcade.Rand]
	Sound   ecs.Singleton[arcade.Sound]
	Bullets ecs.Query[bulletView]
	Enemies ecs.Query[enemyView]
}

func (s *HitSystem) Execute(frame *ecs.UpdateFrame) {
	run := s.Run.Get()
	if run.Phase != Playing {
		return
	}
	cmd := frame.Commands
	sp := commandSpawner(cmd, s.rules, *s.Look.Get())
	for e := range s.Enemies.Values() {
		c := e.Position.Center(*e.Body)
		for b := range s.Bullets.Values() {
			if cmd.Deleted(b.EntityId) || !s.rules.hit(b.Position.Rect(*b.Body), c) {
				continue
			}
			cmd.Delete(b.EntityId)
			cmd.Delete(e.EntityId)
			sp.enemy(*s.Rand.Get(), e.Speed)
			run.Kills++
			s.Sound.Get().Play(arcade.SoundHit)
			break
		}
	}
}

type HUDSystem struct {
	Screen ecs.Singleton[arcade.Screen]
	Run    ecs.Singleton[Run]
}

func (s *HUDSystem) Execute(frame *ecs.UpdateFrame) {
	dst := s.Screen.Get().Image
	run := s.Run.Get()
	hud.Text(dst, fmt.Sprintf("Health: %d", max(run.Health, 0)), 10, 10, 2, hud.White)
	hud.Text(dst, fmt.Sprintf("Kills: %d", run.Kills), 10, 40, 2, hud.White)
	if run.Phase == Over {
		hud.Panel(dst, geom.R(0, 0, Width, Height))
		hud.TextCentered(dst, "GAME OVER", Width/2, Height/2-50, 4, redShades[3])
		hud.TextCentered(dst, fmt.Sprintf("%d kills in %s. Press R to retry", run.Kills, hud.Clock(run.Elapsed)), Width/2, Height/2+10, 2, hud.White)
	}
}
