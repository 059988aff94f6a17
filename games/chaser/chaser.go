// Package chaser is the "2D Sprite Game": red circles home in on the player,
// who sprays bullets straight up until the field is clear.
package chaser

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/arcade/ecs"
	"github.com/plus3/arcade/internal/arcade"
	"github.com/plus3/arcade/internal/assets"
	"github.com/plus3/arcade/internal/config"
	"github.com/plus3/arcade/internal/geom"
	"github.com/plus3/arcade/internal/hud"
	"github.com/plus3/arcade/internal/logging"
)

const (
	Name   = "chaser"
	Title  = "2D Sprite Game"
	Width  = 800
	Height = 600

	cellSize     = 32
	enemyRadius  = 20
	bulletRadius = 5
)

var (
	red  = color.RGBA{255, 0, 0, 255}
	blue = color.RGBA{0, 0, 255, 255}
)

type Phase uint8

const (
	Playing Phase = iota
	Cleared
)

type Shooter struct {
	Speed float64
}

type Chaser struct {
	Speed float64
}

type Bullet struct{}

// Field is the state of the current wave.
type Field struct {
	Phase   Phase
	Elapsed float64
	Shots   int
	Kills   int

	Tuning config.Chaser
	Logger *slog.Logger
}

// Look is the player's image; nil draws a blue square.
type Look struct {
	Player *ebiten.Image
}

// New builds the chaser world with the first wave already on the field.
func New(env arcade.Env) (*arcade.World, error) {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Shooter](registry)
	ecs.RegisterComponent[Chaser](registry)
	ecs.RegisterComponent[Bullet](registry)
	w := arcade.NewWorld(Name, Title, Width, Height, registry, env)

	tuning := env.Config.Chaser
	look := Look{Player: assets.Cell(env.Assets.Optional(tuning.SpriteSheet), 0, 0, cellSize, cellSize)}
	ecs.NewSingleton[Look](w.Storage, look)
	field := ecs.NewSingleton[Field](w.Storage, Field{Tuning: tuning}).Get()
	reset(w.Storage.Spawn, w.Rand(), field, look, w.Logger)

	w.Update.Register(&RestartSystem{Logger: w.Logger})
	w.Update.Register(&PlayerSystem{})
	w.Update.Register(&arcade.MovementSystem{})
	w.Update.Register(&ChaseSystem{})
	w.Update.Register(&HitSystem{})
	w.Update.Register(&arcade.CullSystem{Width: Width, Height: Height})

	w.Render.Register(&arcade.ClearSystem{Color: hud.White})
	w.Render.Register(&arcade.SpriteSystem{})
	w.Render.Register(&HUDSystem{})
	return w, nil
}

// reset starts a new wave. spawn is either Storage.Spawn or a wrapper
// around Commands.Spawn.
func reset(spawn func(...any) ecs.EntityId, r arcade.Rand, field *Field, look Look, logger *slog.Logger) {
	tuning := field.Tuning
	waveLogger, _ := logging.WithRun(logger)
	*field = Field{Tuning: tuning, Logger: waveLogger}

	spawn(
		arcade.Position{X: Width / 2, Y: Height / 2},
		arcade.Body{W: cellSize, H: cellSize},
		Shooter{Speed: tuning.PlayerSpeed},
		arcade.Sprite{Image: look.Player, Color: blue, Layer: 2},
	)

	body := arcade.Body{W: 2 * enemyRadius, H: 2 * enemyRadius}
	for range tuning.EnemyCount {
		var pos arcade.Position
		pos.CenterOn(geom.V(float64(r.IntN(Width+1)), float64(r.IntN(Height+1))), body)
		spawn(pos, body,
			arcade.Circle{R: enemyRadius},
			Chaser{Speed: tuning.EnemySpeed},
			arcade.Sprite{Color: red, Shape: arcade.ShapeCircle, Layer: 1},
		)
	}
	waveLogger.Info("wave started", "enemies", tuning.EnemyCount)
}

// deferredSpawn adapts Commands.Spawn to reset's spawn signature.
func deferredSpawn(cmd *ecs.Commands) func(...any) ecs.EntityId {
	return func(components ...any) ecs.EntityId {
		cmd.Spawn(components...)
		return 0
	}
}

// RestartSystem starts a new wave on R.
type RestartSystem struct {
	Logger *slog.Logger

	Field    ecs.Singleton[Field]
	Look     ecs.Singleton[Look]
	Input    ecs.Singleton[arcade.Input]
	Rand     ecs.Singleton[arcade.Rand]
	Entities ecs.Query[struct {
		ecs.EntityId
		*arcade.Position
	}]
}

func (s *RestartSystem) Execute(frame *ecs.UpdateFrame) {
	field := s.Field.Get()
	if field.Phase == Playing {
		field.Elapsed += frame.DeltaTime
	}
	if !s.Input.Get().Pressed(ebiten.KeyR) {
		return
	}
	for e := range s.Entities.Values() {
		frame.Commands.Delete(e.EntityId)
	}
	reset(deferredSpawn(frame.Commands), *s.Rand.Get(), field, *s.Look.Get(), s.Logger)
}

// PlayerSystem moves the player with the arrows and fires a bullet every
// frame Space is held.
type PlayerSystem struct {
	Field   ecs.Singleton[Field]
	Input   ecs.Singleton[arcade.Input]
	Sound   ecs.Singleton[arcade.Sound]
	Players ecs.Query[struct {
		*arcade.Position
		*arcade.Body
		*Shooter
	}]
}

func (s *PlayerSystem) Execute(frame *ecs.UpdateFrame) {
	in := s.Input.Get()
	field := s.Field.Get()
	for p := range s.Players.Values() {
		d := in.Arrows().Scale(p.Speed)
		r := p.Position.Rect(*p.Body)
		r.X += d.X
		r.Y += d.Y
		r = r.ClampTo(Width, Height)
		p.Position.X, p.Position.Y = r.X, r.Y

		if !in.Down(ebiten.KeySpace) {
			continue
		}
		body := arcade.Body{W: 2 * bulletRadius, H: 2 * bulletRadius}
		var pos arcade.Position
		pos.CenterOn(p.Position.Center(*p.Body), body)
		frame.Commands.Spawn(pos, body,
			arcade.Velocity{Y: -field.Tuning.BulletSpeed},
			arcade.Circle{R: bulletRadius},
			Bullet{},
			arcade.CullOffscreen{},
			arcade.Sprite{Color: blue, Shape: arcade.ShapeCircle},
		)
		field.Shots++
		if field.Shots%6 == 1 {
			s.Sound.Get().Play(arcade.SoundShoot)
		}
	}
}

type chaserView struct {
	ecs.EntityId
	*arcade.Position
	*arcade.Body
	*arcade.Circle
	*Chaser
}

// ChaseSystem steps every enemy toward the player's centre.
type ChaseSystem struct {
	Players ecs.Query[struct {
		*arcade.Position
		*arcade.Body
		*Shooter
	}]
	Chasers ecs.Query[chaserView]
}

func (s *ChaseSystem) Execute(frame *ecs.UpdateFrame) {
	p, ok := s.Players.First()
	if !ok {
		return
	}
	target := p.Position.Center(*p.Body)
	for c := range s.Chasers.Values() {
		c.Position.CenterOn(geom.StepToward(c.Position.Center(*c.Body), target, c.Speed), *c.Body)
	}
}

// HitSystem removes a bullet and the enemy it lands in. Each bullet takes
// at most one enemy.
type HitSystem struct {
	Field   ecs.Singleton[Field]
	Sound   ecs.Singleton[arcade.Sound]
	Bullets ecs.Query[struct {
		ecs.EntityId
		*arcade.Position
		*arcade.Body
		*Bullet
	}]
	Chasers ecs.Query[chaserView]
}

func (s *HitSystem) Execute(frame *ecs.UpdateFrame) {
	field := s.Field.Get()
	if field.Phase != Playing {
		return
	}
	cmd := frame.Commands
	for b := range s.Bullets.Values() {
		bc := b.Position.Center(*b.Body)
		for c := range s.Chasers.Values() {
			if cmd.Deleted(c.EntityId) || bc.Dist(c.Position.Center(*c.Body)) >= c.R {
				continue
			}
			cmd.Delete(b.EntityId)
			cmd.Delete(c.EntityId)
			field.Kills++
			s.Sound.Get().Play(arcade.SoundHit)
			break
		}
	}

	if field.Kills >= field.Tuning.EnemyCount {
		field.Phase = Cleared
		s.Sound.Get().Play(arcade.SoundLevelUp)
		field.Logger.Info("field cleared", "seconds", fmt.Sprintf("%.2f", field.Elapsed), "shots", field.Shots)
	}
}

type HUDSystem struct {
	Screen ecs.Singleton[arcade.Screen]
	Field  ecs.Singleton[Field]
}

func (s *HUDSystem) Execute(frame *ecs.UpdateFrame) {
	dst := s.Screen.Get().Image
	field := s.Field.Get()
	hud.Text(dst, fmt.Sprintf("Kills %d  Time %s", field.Kills, hud.Clock(field.Elapsed)), 10, 10, 1, hud.Black)
	if field.Phase == Cleared {
		hud.TextCentered(dst, "Cleared!", Width/2, Height/2-40, 4, blue)
		hud.TextCentered(dst, fmt.Sprintf("%d shots in %.1f s. Press R to play again", field.Shots, field.Elapsed), Width/2, Height/2+20, 1, hud.Black)
	}
}
