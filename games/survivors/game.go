// Package survivors is "Ceaser", a survivors-like wave shooter: minions
// stream in, a two-phase boss shows up every 25 seconds, and every level
// offers a choice of upgrades.
package survivors

import (
	"image/color"
	"log/slog"

	"github.com/plus3/arcade/ecs"
	"github.com/plus3/arcade/internal/arcade"
	"github.com/plus3/arcade/internal/geom"
	"github.com/plus3/arcade/internal/hud"
)

const (
	Name   = "survivors"
	Title  = "Ceaser"
	Width  = 1300
	Height = 750

	playerSize = 40
	minionSize = 30
	bossSize   = 100
	bulletSize = 10
	orbSize    = 15
	gemSize    = 12
	heartSize  = 14

	magnetPull       = 4
	summonEvery      = 3.0
	summonSpread     = 80
	explosionVisible = 0.5
	strengthEvery    = 30
)

var (
	red       = color.RGBA{200, 0, 0, 255}
	green     = color.RGBA{0, 200, 0, 255}
	blue      = color.RGBA{50, 150, 255, 255}
	purple    = color.RGBA{180, 0, 180, 255}
	orange    = color.RGBA{255, 165, 0, 255}
	ember     = color.RGBA{255, 100, 0, 255}
	gemColor  = color.RGBA{80, 220, 255, 255}
	heartPink = color.RGBA{255, 80, 120, 255}
)

const (
	layerPickup = iota
	layerBullet
	layerEnemy
	layerPlayer
	layerOrb
)

// New builds the survivors world. It opens on the menu.
func New(env arcade.Env) (*arcade.World, error) {
	registry := ecs.NewComponentRegistry()
	registerComponents(registry)
	w := arcade.NewWorld(Name, Title, Width, Height, registry, env)

	art := loadArt(env.Assets)
	ecs.NewSingleton[Art](w.Storage, art)
	ecs.NewSingleton[Session](w.Storage, Session{
		Phase:  Menu,
		Tuning: env.Config.Survivors,
		Logger: w.Logger,
	})
	ecs.NewSingleton[Explosion](w.Storage)

	w.Update.Register(&FlowSystem{Logger: w.Logger})
	w.Update.Register(&PlayerSystem{})
	w.Update.Register(&SpawnSystem{})
	w.Update.Register(&ShootSystem{})
	w.Update.Register(&BulletSystem{})
	w.Update.Register(&OrbSystem{})
	w.Update.Register(&ExplosionSystem{})
	w.Update.Register(&PickupSystem{})
	w.Update.Register(&EnemySystem{})
	w.Update.Register(&StrengthSystem{})
	w.Update.Register(&arcade.CullSystem{Width: Width, Height: Height})

	w.Render.Register(&arcade.ClearSystem{Color: hud.Black, Background: art.Background})
	w.Render.Register(&arcade.SpriteSystem{})
	w.Render.Register(&ExplosionRingSystem{})
	w.Render.Register(&HUDSystem{})
	w.Render.Register(&OverlaySystem{})
	return w, nil
}

func startButton() hud.Button {
	return hud.Button{Rect: geom.R(Width/2-100, Height/2-40, 200, 80), Label: "Start Game", Color: red}
}

func menuButton() hud.Button {
	return hud.Button{Rect: geom.R(Width/2-100, Height/2+40, 200, 60), Label: "Main Menu", Color: red}
}

// offerButtons lays out one card per offer, then the boss reward if any.
func offerButtons(s *Session) []hud.Button {
	buttons := make([]hud.Button, 0, len(s.Offers)+1)
	for i, u := range s.Offers {
		buttons = append(buttons, hud.Button{
			Rect:     cardRect(i),
			Label:    u.Name,
			Sublabel: string(u.Rarity),
			Color:    u.Rarity.Color(),
		})
	}
	if s.Reward != nil {
		buttons = append(buttons, hud.Button{Rect: cardRect(len(s.Offers)), Label: "Boss Reward!", Color: purple})
	}
	return buttons
}

func cardRect(i int) geom.Rect {
	return geom.R(Width/2-200, 220+80*float64(i), 400, 50)
}

// Shared gives the game systems the run state and the helpers that spawn and
// kill entities.
type Shared struct {
	Session   ecs.Singleton[Session]
	Explosion ecs.Singleton[Explosion]
	Art       ecs.Singleton[Art]
	Rand      ecs.Singleton[arcade.Rand]
	Sound     ecs.Singleton[arcade.Sound]
}

func (s *Shared) Init(storage *ecs.Storage) {
	s.Session.Init(storage)
	s.Explosion.Init(storage)
	s.Art.Init(storage)
	s.Rand.Init(storage)
	s.Sound.Init(storage)
}

func (s *Shared) playing() bool {
	return s.Session.Get().Phase == Playing
}

func (s *Shared) logger() *slog.Logger {
	return s.Session.Get().Logger
}

func (s *Shared) spawnPlayer(cmd *ecs.Commands) {
	body := arcade.Body{W: playerSize, H: playerSize}
	var pos arcade.Position
	pos.CenterOn(geom.V(Width/2, Height/2), body)
	cmd.Spawn(pos, body,
		NewPlayer(s.Session.Get().Tuning.PlayerSpeed),
		arcade.Sprite{Image: s.Art.Get().Player, Color: green, Layer: layerPlayer},
	)
}

func (s *Shared) spawnOrb(cmd *ecs.Commands, radius float64) {
	cmd.Spawn(arcade.Position{}, arcade.Body{W: orbSize, H: orbSize},
		Orb{Radius: radius, Speed: 0.05, Damage: 1},
		arcade.Sprite{Image: s.Art.Get().Orb, Color: blue, Shape: arcade.ShapeCircle, Layer: layerOrb},
	)
}

func (s *Shared) spawnMinion(cmd *ecs.Commands, x, y float64) {
	strength := s.Session.Get().Strength
	hp := 2 + strength
	cmd.Spawn(arcade.Position{X: x, Y: y}, arcade.Body{W: minionSize, H: minionSize},
		arcade.Health{HP: hp, Max: hp},
		Enemy{Damage: 1, Speed: 2 + 0.1*float64(strength)},
		arcade.Sprite{Image: s.Art.Get().Minion, Color: red, Layer: layerEnemy},
	)
}

func (s *Shared) spawnBoss(cmd *ecs.Commands, x, y float64) {
	session := s.Session.Get()
	hp := 100 + 30*session.Strength
	cmd.Spawn(arcade.Position{X: x, Y: y}, arcade.Body{W: bossSize, H: bossSize},
		arcade.Health{HP: hp, Max: hp},
		Enemy{Damage: 15, Speed: 1.5},
		Boss{Phase: 1},
		arcade.Sprite{Image: s.Art.Get().Boss, Color: purple, Layer: layerEnemy},
	)
	session.BossAlive = true
	s.logger().Info("boss spawned", "elapsed", int(session.Elapsed), "hp", hp)
}

func (s *Shared) spawnBullet(cmd *ecs.Commands, from, dir geom.Vec, damage int) {
	body := arcade.Body{W: bulletSize, H: bulletSize}
	var pos arcade.Position
	pos.CenterOn(from, body)
	v := dir.Scale(s.Session.Get().Tuning.BulletSpeed)
	cmd.Spawn(pos, body,
		arcade.Velocity{X: v.X, Y: v.Y},
		Bullet{Damage: damage},
		arcade.CullOffscreen{},
		arcade.Sprite{Image: s.Art.Get().Bullet, Color: hud.Yellow, Rotation: dir.Angle(), Layer: layerBullet},
	)
}

func (s *Shared) spawnGem(cmd *ecs.Commands, x, y float64) {
	cmd.Spawn(arcade.Position{X: x, Y: y}, arcade.Body{W: gemSize, H: gemSize}, Gem{},
		arcade.Sprite{Image: s.Art.Get().Gem, Color: gemColor, Layer: layerPickup},
	)
}

func (s *Shared) spawnHeart(cmd *ecs.Commands, x, y float64) {
	cmd.Spawn(arcade.Position{X: x, Y: y}, arcade.Body{W: heartSize, H: heartSize}, Heart{},
		arcade.Sprite{Image: s.Art.Get().Heart, Color: heartPink, Layer: layerPickup},
	)
}

// hurt deals amount to e and resolves its death. An enemy already queued
// for deletion this frame is ignored, so one death never pays out twice.
func (s *Shared) hurt(cmd *ecs.Commands, e enemy, amount int, src hitSource) {
	if cmd.Deleted(e.EntityId) {
		return
	}
	e.Health.HP -= amount
	if e.Health.HP > 0 {
		return
	}

	cmd.Delete(e.EntityId)
	session := s.Session.Get()
	session.Kills++
	if e.Boss != nil {
		session.BossAlive = false
		s.logger().Info("boss defeated", "elapsed", int(session.Elapsed))
		s.levelUp(true)
		return
	}

	s.spawnGem(cmd, e.Position.X, e.Position.Y)
	if src == hitExplosion && s.Rand.Get().Float64() < session.Tuning.HeartChance {
		s.spawnHeart(cmd, e.Position.X, e.Position.Y)
	}
}

// levelUp opens the upgrade screen. A boss kill adds the reward card; if
// the screen is already open it only adds the card.
func (s *Shared) levelUp(reward bool) {
	session := s.Session.Get()
	r := *s.Rand.Get()
	if session.Phase != LevelUp {
		session.Phase = LevelUp
		session.Offers = offerUpgrades(r, 3)
		session.Reward = nil
		s.Sound.Get().Play(arcade.SoundLevelUp)
	}
	if reward && session.Reward == nil {
		u := randomUpgrade(r)
		session.Reward = &u
	}
}
