package survivors

import (
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/arcade/ecs"
	"github.com/plus3/arcade/internal/arcade"
	"github.com/plus3/arcade/internal/assets"
	"github.com/plus3/arcade/internal/config"
)

type Phase uint8

const (
	Menu Phase = iota
	Playing
	LevelUp
	GameOver
)

func (p Phase) String() string {
	switch p {
	case Menu:
		return "menu"
	case Playing:
		return "playing"
	case LevelUp:
		return "level_up"
	case GameOver:
		return "game_over"
	}
	return "unknown"
}

// Player holds the hero's progression. HP is fractional because life steal
// heals in fractions of a point.
type Player struct {
	Speed        float64
	Level        int
	XP           int
	XPToNext     int
	Damage       int
	HP           float64
	MaxHP        int
	XPMultiplier float64
	Magnet       float64
	LifeSteal    float64
}

func NewPlayer(speed float64) Player {
	return Player{
		Speed:        speed,
		Level:        1,
		XPToNext:     5,
		Damage:       1,
		HP:           5,
		MaxHP:        5,
		XPMultiplier: 1,
	}
}

// AddXP grants n times the multiplier, truncated, and reports whether the
// player levelled. At most one level is gained per call.
func (p *Player) AddXP(n int) bool {
	p.XP += int(float64(n) * p.XPMultiplier)
	if p.XP < p.XPToNext {
		return false
	}
	p.XP -= p.XPToNext
	p.Level++
	p.XPToNext = int(float64(p.XPToNext) * 1.5)
	return true
}

func (p *Player) Heal(v float64) {
	p.HP = min(float64(p.MaxHP), p.HP+v)
}

type Enemy struct {
	Damage int
	Speed  float64
}

type Boss struct {
	Phase       int
	SummonTimer float64
}

type Bullet struct {
	Damage int
}

type Orb struct {
	Radius float64
	Angle  float64
	Speed  float64
	Damage int
}

type Gem struct{}

type Heart struct{}

// hitSource says what dealt a blow. Minions killed by the explosion may
// drop a heart.
type hitSource uint8

const (
	hitBullet hitSource = iota
	hitOrb
	hitExplosion
)

// Explosion is the periodic area spell centred on the player.
type Explosion struct {
	Radius  float64
	Damage  int
	Every   float64
	Timer   float64
	Visible float64
}

// Session is the state of the current run.
type Session struct {
	Phase    Phase
	Elapsed  float64
	Strength int
	Kills    int

	MinionTimer    float64
	ShootDelay     float64
	ShootCooldown  float64
	BossAlive      bool
	LastBossSecond int

	Offers []Upgrade
	Reward *Upgrade

	Tuning config.Survivors
	Logger *slog.Logger
}

// Art holds the optional images; any of them may be nil.
type Art struct {
	Background *ebiten.Image
	Player     *ebiten.Image
	Minion     *ebiten.Image
	Boss       *ebiten.Image
	Bullet     *ebiten.Image
	Gem        *ebiten.Image
	Heart      *ebiten.Image
	Orb        *ebiten.Image
}

func loadArt(l *assets.Loader) Art {
	return Art{
		Background: l.Optional("background.png"),
		Player:     l.Optional("player.png"),
		Minion:     l.Optional("enemy.png"),
		Boss:       l.Optional("boss.png"),
		Bullet:     l.Optional("bullet.png"),
		Gem:        l.Optional("xp_gem.png"),
		Heart:      l.Optional("heart.png"),
		Orb:        l.Optional("orb.png"),
	}
}

func registerComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Player](registry)
	ecs.RegisterComponent[Enemy](registry)
	ecs.RegisterComponent[Boss](registry)
	ecs.RegisterComponent[Bullet](registry)
	ecs.RegisterComponent[Orb](registry)
	ecs.RegisterComponent[Gem](registry)
	ecs.RegisterComponent[Heart](registry)
}

type hero struct {
	ecs.EntityId
	*arcade.Position
	*arcade.Body
	*Player
}

type enemy struct {
	ecs.EntityId
	*arcade.Position
	*arcade.Body
	*arcade.Health
	*Enemy
	Boss *Boss `ecs:"optional"`
}
