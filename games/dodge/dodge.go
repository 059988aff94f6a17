// Package dodge is "WASD Avoidance": blocks rain down and the player
// survives as long as possible.
package dodge

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/arcade/ecs"
	"github.com/plus3/arcade/internal/arcade"
	"github.com/plus3/arcade/internal/config"
	"github.com/plus3/arcade/internal/geom"
	"github.com/plus3/arcade/internal/hud"
	"github.com/plus3/arcade/internal/logging"
)

const (
	Name   = "dodge"
	Title  = "WASD Avoidance"
	Width  = 800
	Height = 600

	playerSize = 50
	enemySize  = 50
	bottomGap  = 10
)

var (
	red   = color.RGBA{255, 0, 0, 255}
	green = color.RGBA{0, 255, 0, 255}
)

// Only WASD steers; the arrows are left alone.
var (
	keyW = []ebiten.Key{ebiten.KeyW}
	keyA = []ebiten.Key{ebiten.KeyA}
	keyS = []ebiten.Key{ebiten.KeyS}
	keyD = []ebiten.Key{ebiten.KeyD}
)

type Phase uint8

const (
	Ready Phase = iota
	Playing
	GameOver
)

// Dodger marks the player.
type Dodger struct {
	Speed float64
}

// Faller is a block falling at Speed px per frame.
type Faller struct {
	Speed float64
}

// Round tracks the current attempt.
type Round struct {
	Phase    Phase
	Ready    float64
	Survived float64
	Best     float64
	Attempts int

	Tuning config.Dodge
	Logger *slog.Logger
}

// New builds the dodge world. The first round starts with the ready
// countdown.
func New(env arcade.Env) (*arcade.World, error) {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Dodger](registry)
	ecs.RegisterComponent[Faller](registry)
	w := arcade.NewWorld(Name, Title, Width, Height, registry, env)

	tuning := env.Config.Dodge
	ecs.NewSingleton[Round](w.Storage, Round{Tuning: tuning, Logger: w.Logger})
	setup(w.Storage, w.Rand(), w.Logger)

	w.Update.Register(&RoundSystem{Logger: w.Logger})
	w.Update.Register(&PlayerSystem{})
	w.Update.Register(&FallSystem{})

	w.Render.Register(&arcade.ClearSystem{Color: hud.Black})
	w.Render.Register(&arcade.SpriteSystem{})
	w.Render.Register(&HUDSystem{})
	return w, nil
}

type spawner interface {
	Spawn(components ...any)
}

type storageSpawner struct{ *ecs.Storage }

func (s storageSpawner) Spawn(components ...any) { s.Storage.Spawn(components...) }

// setup places the player and the falling blocks directly into storage.
func setup(storage *ecs.Storage, r arcade.Rand, logger *slog.Logger) {
	round := ecs.NewSingleton[Round](storage).Get()
	newRound(storageSpawner{storage}, r, round, logger)
}

// newRound resets round and spawns a fresh field through sp.
func newRound(sp spawner, r arcade.Rand, round *Round, logger *slog.Logger) {
	tuning := round.Tuning
	runLogger, _ := logging.WithRun(logger)
	*round = Round{
		Phase:    Ready,
		Ready:    tuning.ReadySeconds,
		Best:     round.Best,
		Attempts: round.Attempts + 1,
		Tuning:   tuning,
		Logger:   runLogger,
	}

	sp.Spawn(
		arcade.Position{X: Width/2 - playerSize/2, Y: Height - playerSize - bottomGap},
		arcade.Body{W: playerSize, H: playerSize},
		Dodger{Speed: tuning.PlayerSpeed},
		arcade.Sprite{Color: red, Layer: 1},
	)
	for range tuning.EnemyCount {
		sp.Spawn(
			arcade.Position{X: dropX(r)},
			arcade.Body{W: enemySize, H: enemySize},
			Faller{Speed: tuning.EnemySpeed},
			arcade.Sprite{Color: green},
		)
	}
	runLogger.Info("round ready", "attempt", round.Attempts)
}

func dropX(r arcade.Rand) float64 {
	return float64(r.IntN(Width - enemySize + 1))
}

// RoundSystem counts down the ready screen and restarts after a loss.
type RoundSystem struct {
	Logger *slog.Logger

	Round    ecs.Singleton[Round]
	Input    ecs.Singleton[arcade.Input]
	Rand     ecs.Singleton[arcade.Rand]
	Entities ecs.Query[struct {
		ecs.EntityId
		*arcade.Position
	}]
}

func (s *RoundSystem) Execute(frame *ecs.UpdateFrame) {
	round := s.Round.Get()
	switch round.Phase {
	case Ready:
		round.Ready -= frame.DeltaTime
		if round.Ready <= 0 {
			round.Ready = 0
			round.Phase = Playing
		}
	case Playing:
		round.Survived += frame.DeltaTime
	case GameOver:
		if !s.Input.Get().Pressed(arcade.KeysRestart...) {
			return
		}
		for e := range s.Entities.Values() {
			frame.Commands.Delete(e.EntityId)
		}
		newRound(frame.Commands, *s.Rand.Get(), round, s.Logger)
	}
}

// PlayerSystem moves the player with WASD and keeps it on screen.
type PlayerSystem struct {
	Round   ecs.Singleton[Round]
	Input   ecs.Singleton[arcade.Input]
	Players ecs.Query[struct {
		*arcade.Position
		*arcade.Body
		*Dodger
	}]
}

func (s *PlayerSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Round.Get().Phase != Playing {
		return
	}
	in := s.Input.Get()
	d := geom.V(in.Axis(keyA, keyD), in.Axis(keyW, keyS))
	for p := range s.Players.Values() {
		r := geom.R(p.Position.X+d.X*p.Speed, p.Position.Y+d.Y*p.Speed, p.Body.W, p.Body.H).ClampTo(Width, Height)
		p.Position.X, p.Position.Y = r.X, r.Y
	}
}

// FallSystem drops the blocks, recycles them at the top once they leave the
// bottom of the screen, and ends the round on contact.
type FallSystem struct {
	Round   ecs.Singleton[Round]
	Rand    ecs.Singleton[arcade.Rand]
	Sound   ecs.Singleton[arcade.Sound]
	Players ecs.Query[struct {
		*arcade.Position
		*arcade.Body
		*Dodger
	}]
	Fallers ecs.Query[struct {
		*arcade.Position
		*arcade.Body
		*Faller
	}]
}

func (s *FallSystem) Execute(frame *ecs.UpdateFrame) {
	round := s.Round.Get()
	if round.Phase != Playing {
		return
	}
	p, ok := s.Players.First()
	if !ok {
		return
	}
	pr := p.Position.Rect(*p.Body)

	for f := range s.Fallers.Values() {
		f.Position.Y += f.Speed
		if f.Position.Y > Height {
			f.Position.Y = 0
			f.Position.X = dropX(*s.Rand.Get())
		}
		if pr.Overlaps(f.Position.Rect(*f.Body)) {
			s.lose(round)
			return
		}
	}
}

func (s *FallSystem) lose(round *Round) {
	round.Phase = GameOver
	round.Best = max(round.Best, round.Survived)
	s.Sound.Get().Play(arcade.SoundGameOver)
	round.Logger.Info("round lost", "survived", fmt.Sprintf("%.2fs", round.Survived), "best", fmt.Sprintf("%.2fs", round.Best))
}

type HUDSystem struct {
	Screen ecs.Singleton[arcade.Screen]
	Round  ecs.Singleton[Round]
}

func (s *HUDSystem) Execute(frame *ecs.UpdateFrame) {
	dst := s.Screen.Get().Image
	round := s.Round.Get()
	switch round.Phase {
	case Ready:
		hud.Panel(dst, geom.R(0, 0, Width, Height))
		hud.TextCentered(dst, "Get Ready!", Width/2, Height/2-20, 3, hud.White)
		hud.TextCentered(dst, fmt.Sprintf("%.0f", round.Ready+0.5), Width/2, Height/2+30, 2, hud.White)
	case Playing:
		hud.Text(dst, fmt.Sprintf("Time %.1f", round.Survived), 10, 10, 2, hud.White)
	case GameOver:
		hud.Panel(dst, geom.R(0, 0, Width, Height))
		hud.TextCentered(dst, "GAME OVER", Width/2, Height/2-60, 4, red)
		hud.TextCentered(dst, fmt.Sprintf("Survived %.1f s   Best %.1f s", round.Survived, round.Best), Width/2, Height/2, 2, hud.White)
		hud.TextCentered(dst, "Press R or Enter to try again", Width/2, Height/2+40, 1, hud.White)
	}
}
