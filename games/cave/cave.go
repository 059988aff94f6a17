// Package cave is "Pixel Cave Battle". Red blobs close in on the player in
// a cave; the auto variant fires upward on its own, the manual variant fires
// in the WASD direction.
package cave

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
	Name   = "cave"
	Title  = "Pixel Cave Battle"
	Width  = 800
	Height = 600

	enemyRadius  = 25
	bulletSpeed  = 10
	bottomGap    = 10
	autoSpacing  = 100
	shotCooldown = 0.2
	bulletRadius = 5
)

type Variant string

const (
	Auto   Variant = "auto"
	Manual Variant = "manual"
)

var redShades = []color.RGBA{
	{139, 0, 0, 255},
	{178, 34, 34, 255},
	{220, 20, 60, 255},
	{255, 0, 0, 255},
}

var (
	white = color.RGBA{255, 255, 255, 255}
	blue  = color.RGBA{0, 0, 255, 255}
)

type Phase uint8

const (
	Playing Phase = iota
	Over
)

type Caver struct {
	Speed float64
}

type Enemy struct {
	Speed float64
}

// Bullet carries a sequence number so the auto variant can find the newest
// one.
type Bullet struct {
	Seq int
}

// Run is the state of one attempt.
type Run struct {
	Variant   Variant
	Phase     Phase
	Health    int
	Kills     int
	Elapsed   float64
	SinceShot float64
	NextSeq   int

	Tuning config.Cave
	Logger *slog.Logger
}

// rules are the parts that differ between the two variants.
type rules struct {
	playerSize  float64
	playerImage string
	// spawnAt picks a new enemy centre.
	spawnAt func(r arcade.Rand) geom.Vec
	chase   func(from, to geom.Vec, speed float64) geom.Vec
	// hit tests a bullet body against an enemy centre.
	hit func(bullet geom.Rect, enemy geom.Vec) bool
}

func topSpawn(r arcade.Rand) geom.Vec {
	return geom.V(float64(enemyRadius+r.IntN(Width-2*enemyRadius+1)), float64(50+r.IntN(151)))
}

func sideSpawn(r arcade.Rand) geom.Vec {
	y := float64(enemyRadius + r.IntN(Height-2*enemyRadius+1))
	switch r.IntN(3) {
	case 1:
		return geom.V(-enemyRadius, y)
	case 2:
		return geom.V(Width+enemyRadius, y)
	}
	return topSpawn(r)
}

var variants = map[Variant]rules{
	Auto: {
		playerSize:  50,
		playerImage: "player.png",
		spawnAt:     topSpawn,
		chase:       geom.StepAxes,
		// The bullet's x is its centre line and its y is its top edge.
		hit: func(b geom.Rect, e geom.Vec) bool {
			dx, dy := b.Center().X-e.X, b.Y-e.Y
			return abs(dx) < enemyRadius && abs(dy) < enemyRadius
		},
	},
	Manual: {
		playerSize:  80,
		playerImage: "character.png",
		spawnAt:     sideSpawn,
		chase:       chaseStraight,
		hit: func(b geom.Rect, e geom.Vec) bool {
			return b.Center().Dist(e) < enemyRadius+bulletRadius
		},
	},
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// chaseStraight steps speed along the line to the target and may overshoot
// by less than one step, like a plain normalized step does.
func chaseStraight(from, to geom.Vec, speed float64) geom.Vec {
	return from.Add(to.Sub(from).Normalize().Scale(speed))
}

// Look holds the loaded images; nil entries fall back to shapes.
type Look struct {
	Background *ebiten.Image
	Player     *ebiten.Image
}

// New builds the cave world for the variant named in the config.
func New(env arcade.Env) (*arcade.World, error) {
	return build(Variant(env.Config.Cave.Variant), env)
}

// NewVariant returns a factory that ignores the configured variant.
func NewVariant(v Variant) arcade.Factory {
	return func(env arcade.Env) (*arcade.World, error) {
		return build(v, env)
	}
}

func build(v Variant, env arcade.Env) (*arcade.World, error) {
	rl, ok := variants[v]
	if !ok {
		return nil, fmt.Errorf("cave: unknown variant %q", v)
	}

	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Caver](registry)
	ecs.RegisterComponent[Enemy](registry)
	ecs.RegisterComponent[Bullet](registry)
	w := arcade.NewWorld(Name+"-"+string(v), Title, Width, Height, registry, env)

	tuning := env.Config.Cave
	look := Look{
		Background: env.Assets.Optional(tuning.Background),
		Player:     env.Assets.Optional(rl.playerImage),
	}
	ecs.NewSingleton[Look](w.Storage, look)
	run := ecs.NewSingleton[Run](w.Storage, Run{Variant: v, Tuning: tuning}).Get()

	sp := &spawner{rules: rl, look: look, spawn: func(c ...any) { w.Storage.Spawn(c...) }}
	sp.reset(w.Rand(), run, w.Logger)

	w.Update.Register(&RestartSystem{rules: rl, Logger: w.Logger})
	w.Update.Register(&PlayerSystem{})
	switch v {
	case Auto:
		w.Update.Register(&AutoFireSystem{})
	case Manual:
		w.Update.Register(&ManualFireSystem{})
	}
	w.Update.Register(&arcade.MovementSystem{})
	w.Update.Register(&EnemySystem{rules: rl})
	w.Update.Register(&HitSystem{rules: rl})
	w.Update.Register(&arcade.CullSystem{Width: Width, Height: Height})

	w.Render.Register(&arcade.ClearSystem{Color: hud.Black, Background: look.Background})
	w.Render.Register(&arcade.SpriteSystem{})
	w.Render.Register(&HUDSystem{})
	return w, nil
}

// spawner places entities either straight into storage or through the
// frame's commands.
type spawner struct {
	rules rules
	look  Look
	spawn func(components ...any)
}

func (s *spawner) reset(r arcade.Rand, run *Run, logger *slog.Logger) {
	tuning := run.Tuning
	runLogger, _ := logging.WithRun(logger)
	*run = Run{
		Variant:   run.Variant,
		Health:    tuning.Health,
		SinceShot: shotCooldown + 1,
		Tuning:    tuning,
		Logger:    runLogger,
	}

	size := s.rules.playerSize
	x := float64(Width / 2)
	if run.Variant == Manual {
		x -= size / 2
	}
	s.spawn(
		arcade.Position{X: x, Y: Height - size - bottomGap},
		arcade.Body{W: size, H: size},
		Caver{Speed: tuning.PlayerSpeed},
		arcade.Sprite{Image: s.look.Player, Color: blue, Layer: 2},
	)
	for range tuning.EnemyCount {
		s.enemy(r, tuning.EnemySpeed)
	}
	runLogger.Info("run started", "variant", run.Variant)
}

func (s *spawner) enemy(r arcade.Rand, speed float64) {
	body := arcade.Body{W: 2 * enemyRadius, H: 2 * enemyRadius}
	var pos arcade.Position
	pos.CenterOn(s.rules.spawnAt(r), body)
	s.spawn(pos, body,
		arcade.Circle{R: enemyRadius},
		Enemy{Speed: speed},
		arcade.Sprite{Color: redShades[r.IntN(len(redShades))], Shape: arcade.ShapeCircle, Layer: 1},
	)
}

func commandSpawner(cmd *ecs.Commands, rl rules, look Look) *spawner {
	return &spawner{rules: rl, look: look, spawn: cmd.Spawn}
}
