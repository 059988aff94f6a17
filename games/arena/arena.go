// Package arena is a small 3D shooter simulated on the XZ ground plane,
// with Y for jumping, and drawn from above with the camera following the
// player.
package arena

import (
	"image/color"
	"log/slog"
	"math"

	"github.com/plus3/arcade/ecs"
	"github.com/plus3/arcade/internal/arcade"
	"github.com/plus3/arcade/internal/config"
	"github.com/plus3/arcade/internal/hud"
	"github.com/plus3/arcade/internal/logging"
)

const (
	Name   = "arena"
	Title  = "Arena"
	Width  = 800
	Height = 600

	groundHalf    = 25
	spawnHalf     = 15
	powerUpHalf   = 20
	shotLimit     = 50
	shotRadius    = 0.1
	jumpPower     = 8
	gravity       = -0.3
	hostileSpeed  = 15
	hostileDamage = 10
	hitRange      = 0.5
	chestHeight   = 0.5
	pickupRange   = 1
	shotDamage    = 20
	foeHealth     = 20
	shieldTime    = 5
	healthBonus   = 30
	fireRateFloor = 0.1
	waveKills     = 5
	bossEvery     = 5
)

var (
	playerColor = color.RGBA{255, 0, 0, 255}
	bossColor   = color.RGBA{80, 0, 80, 255}
	evilColors  = []color.RGBA{
		{50, 0, 0, 255},
		{0, 0, 50, 255},
		{20, 0, 20, 255},
		{0, 50, 0, 255},
		{50, 0, 50, 255},
	}
)

// Vec3 is a point or direction in world units. Y is up; the camera looks
// along +Z.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Len() float64         { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }
func (v Vec3) Dist(o Vec3) float64  { return v.Sub(o).Len() }

func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Transform places an entity in the world. Size is the edge of its cube or
// the diameter of its sphere.
type Transform struct {
	Pos  Vec3
	Size float64
}

// Hero is the player's jump state.
type Hero struct {
	VY      float64
	Jumping bool
}

type Foe struct {
	Dir        Vec3
	Health     int
	MaxHealth  int
	Boss       bool
	ShootEvery float64
	ShootTimer float64
	Color      color.RGBA
}

type Shot struct {
	Vel     Vec3
	Hostile bool
}

type PowerKind string

const (
	PowerHealth   PowerKind = "health"
	PowerFireRate PowerKind = "firerate"
	PowerShield   PowerKind = "shield"
)

var powerKinds = []PowerKind{PowerHealth, PowerFireRate, PowerShield}

type PowerUp struct {
	Kind PowerKind
}

type Phase uint8

const (
	Playing Phase = iota
	Over
)

// Match is the state of the current game.
type Match struct {
	Phase       Phase
	Score       int
	Wave        int
	Health      int
	MaxHealth   int
	EnemySpeed  float64
	FireRate    float64
	FireTimer   float64
	Shield      float64
	NextPowerUp float64
	Elapsed     float64

	Tuning config.Arena
	Logger *slog.Logger

	// settling is set for the frame a restart is queued in, while the old
	// entities are still visible.
	settling bool
}

func (m *Match) active() bool {
	return m.Phase == Playing && !m.settling
}

// New builds the arena with wave 1 on the field.
func New(env arcade.Env) (*arcade.World, error) {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[Hero](registry)
	ecs.RegisterComponent[Foe](registry)
	ecs.RegisterComponent[Shot](registry)
	ecs.RegisterComponent[PowerUp](registry)
	w := arcade.NewWorld(Name, Title, Width, Height, registry, env)

	match := ecs.NewSingleton[Match](w.Storage, Match{Tuning: env.Config.Arena}).Get()
	newMatch(w.Storage.Spawn, w.Rand(), match, w.Logger)

	w.Update.Register(&MatchSystem{Logger: w.Logger})
	w.Update.Register(&HeroSystem{})
	w.Update.Register(&FoeSystem{})
	w.Update.Register(&FireSystem{})
	w.Update.Register(&ShotSystem{})
	w.Update.Register(&PowerUpSystem{})
	w.Update.Register(&WaveSystem{})

	w.Render.Register(&arcade.ClearSystem{Color: hud.Black})
	w.Render.Register(&ViewSystem{})
	w.Render.Register(&HUDSystem{})
	return w, nil
}

type spawnFunc func(components ...any) ecs.EntityId

func deferred(cmd *ecs.Commands) spawnFunc {
	return func(components ...any) ecs.EntityId {
		cmd.Spawn(components...)
		return 0
	}
}

func newMatch(spawn spawnFunc, r arcade.Rand, m *Match, logger *slog.Logger) {
	tuning := m.Tuning
	matchLogger, _ := logging.WithRun(logger)
	*m = Match{
		Wave:       1,
		Health:     tuning.Health,
		MaxHealth:  tuning.Health,
		EnemySpeed: tuning.EnemySpeed,
		FireRate:   tuning.FireRate,
		FireTimer:  tuning.FireRate,
		Tuning:     tuning,
		Logger:     matchLogger,
	}
	spawn(Transform{Size: 1}, Hero{})
	spawnWave(spawn, r, m)
	matchLogger.Info("match started")
}

// spawnWave fills the field for m.Wave: a lone boss on every fifth wave,
// otherwise wave+4 minions.
func spawnWave(spawn spawnFunc, r arcade.Rand, m *Match) {
	if m.Wave%bossEvery == 0 {
		hp := 100 + 20*m.Wave
		spawn(Transform{Pos: randomSpot(r, spawnHalf), Size: 2}, Foe{
			Dir:        randomDiagonal(r),
			Health:     hp,
			MaxHealth:  hp,
			Boss:       true,
			ShootEvery: 0.5,
			Color:      bossColor,
		})
		return
	}
	for range m.Wave + 4 {
		spawn(Transform{Pos: randomSpot(r, spawnHalf), Size: 1}, Foe{
			Dir:        randomDiagonal(r),
			Health:     foeHealth,
			MaxHealth:  foeHealth,
			ShootEvery: r.Between(1, 2),
			Color:      evilColors[r.IntN(len(evilColors))],
		})
	}
}

// randomSpot picks integer ground coordinates within ±half.
func randomSpot(r arcade.Rand, half int) Vec3 {
	return Vec3{X: float64(r.IntN(2*half+1) - half), Z: float64(r.IntN(2*half+1) - half)}
}

func randomDiagonal(r arcade.Rand) Vec3 {
	return Vec3{X: r.Sign(), Z: r.Sign()}
}
