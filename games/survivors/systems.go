package survivors

import (
	"log/slog"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/arcade/ecs"
	"github.com/plus3/arcade/internal/arcade"
	"github.com/plus3/arcade/internal/geom"
	"github.com/plus3/arcade/internal/logging"
)

var cardKeys = []ebiten.Key{ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4}

type orbView struct {
	*arcade.Position
	*arcade.Body
	*Orb
}

// FlowSystem handles the menu, level-up and game-over screens.
type FlowSystem struct {
	Shared
	Logger *slog.Logger

	Input    ecs.Singleton[arcade.Input]
	Players  ecs.Query[hero]
	Orbs     ecs.Query[orbView]
	Entities ecs.Query[struct {
		ecs.EntityId
		*arcade.Position
	}]
}

func (s *FlowSystem) Execute(frame *ecs.UpdateFrame) {
	in := s.Input.Get()
	session := s.Session.Get()

	switch session.Phase {
	case Menu:
		if in.Pressed(arcade.KeysRestart...) || startButton().Clicked(in.Click, in.MouseX, in.MouseY) {
			s.startRun(frame.Commands)
		}
	case LevelUp:
		for i, b := range offerButtons(session) {
			if in.Pressed(cardKeys[i]) || b.Clicked(in.Click, in.MouseX, in.MouseY) {
				s.choose(frame.Commands, i)
				return
			}
		}
	case GameOver:
		if in.Pressed(arcade.KeysRestart...) {
			s.startRun(frame.Commands)
			return
		}
		if menuButton().Clicked(in.Click, in.MouseX, in.MouseY) {
			s.clearField(frame.Commands)
			session.Phase = Menu
		}
	}
}

func (s *FlowSystem) clearField(cmd *ecs.Commands) {
	for e := range s.Entities.Values() {
		cmd.Delete(e.EntityId)
	}
}

// startRun wipes the field and resets every per-run value.
func (s *FlowSystem) startRun(cmd *ecs.Commands) {
	s.clearField(cmd)

	session := s.Session.Get()
	tuning := session.Tuning
	logger, _ := logging.WithRun(s.Logger)
	*session = Session{
		Phase:       Playing,
		MinionTimer: tuning.MinionInterval,
		ShootDelay:  tuning.ShootDelay,
		Tuning:      tuning,
		Logger:      logger,
	}
	*s.Explosion.Get() = Explosion{
		Radius: tuning.ExplosionRadius,
		Damage: 2,
		Every:  tuning.ExplosionEvery,
	}

	s.spawnPlayer(cmd)
	s.spawnOrb(cmd, 60)
	logger.Info("run started")
}

func (s *FlowSystem) choose(cmd *ecs.Commands, card int) {
	session := s.Session.Get()
	var u Upgrade
	if card < len(session.Offers) {
		u = session.Offers[card]
	} else {
		u = *session.Reward
	}

	p, ok := s.Players.First()
	if ok {
		target := &upgradeTarget{
			player:    p.Player,
			explosion: s.Explosion.Get(),
			session:   session,
			addOrb:    func(radius float64) { s.spawnOrb(cmd, radius) },
		}
		for o := range s.Orbs.Values() {
			target.orbs = append(target.orbs, o.Orb)
		}
		u.apply(target)
		s.logger().Info("upgrade chosen", "upgrade", u.Name, "level", p.Level)
	}

	session.Phase = Playing
	session.Offers = nil
	session.Reward = nil
}

// PlayerSystem moves the player and keeps it on screen.
type PlayerSystem struct {
	Shared
	Input   ecs.Singleton[arcade.Input]
	Players ecs.Query[hero]
}

func (s *PlayerSystem) Execute(frame *ecs.UpdateFrame) {
	if !s.playing() {
		return
	}
	p, ok := s.Players.First()
	if !ok {
		return
	}
	d := s.Input.Get().Move().Scale(p.Speed)
	r := geom.R(p.Position.X+d.X, p.Position.Y+d.Y, p.Body.W, p.Body.H).ClampTo(Width, Height)
	p.Position.X, p.Position.Y = r.X, r.Y
}

// SpawnSystem advances run time and brings in minions and the boss.
type SpawnSystem struct {
	Shared
}

func (s *SpawnSystem) Execute(frame *ecs.UpdateFrame) {
	if !s.playing() {
		return
	}
	session := s.Session.Get()
	session.Elapsed += frame.DeltaTime
	r := s.Rand.Get()

	session.MinionTimer += frame.DeltaTime
	if session.MinionTimer >= session.Tuning.MinionInterval {
		session.MinionTimer = 0
		s.spawnMinion(frame.Commands, float64(r.IntN(Width+1)), 0)
	}

	second := int(session.Elapsed)
	every := session.Tuning.BossInterval
	if !session.BossAlive && second > 0 && second%every == 0 && second != session.LastBossSecond {
		session.LastBossSecond = second
		s.spawnBoss(frame.Commands, float64(100+r.IntN(Width-200+1)), -bossSize)
	}
}

// ShootSystem fires at the nearest enemy on Space, and keeps firing every
// shoot delay while Space is held.
type ShootSystem struct {
	Shared
	Input   ecs.Singleton[arcade.Input]
	Players ecs.Query[hero]
	Enemies ecs.Query[enemy]
}

func (s *ShootSystem) Execute(frame *ecs.UpdateFrame) {
	if !s.playing() {
		return
	}
	session := s.Session.Get()
	session.ShootCooldown = max(0, session.ShootCooldown-frame.DeltaTime)

	in := s.Input.Get()
	if !in.Pressed(ebiten.KeySpace) && !(in.Down(ebiten.KeySpace) && session.ShootCooldown <= 0) {
		return
	}
	p, ok := s.Players.First()
	if !ok {
		return
	}

	from := p.Position.Center(*p.Body)
	var target geom.Vec
	best := -1.0
	for e := range s.Enemies.Values() {
		if frame.Commands.Deleted(e.EntityId) {
			continue
		}
		c := e.Position.Center(*e.Body)
		if d := from.Dist(c); best < 0 || d < best {
			best, target = d, c
		}
	}
	if best <= 0 {
		return
	}

	s.spawnBullet(frame.Commands, from, target.Sub(from).Normalize(), p.Damage)
	session.ShootCooldown = session.ShootDelay
	s.Sound.Get().Play(arcade.SoundShoot)
}

// BulletSystem moves bullets and resolves hits. A bullet stops at the first
// enemy it touches.
type BulletSystem struct {
	Shared
	Bullets ecs.Query[struct {
		ecs.EntityId
		*arcade.Position
		*arcade.Body
		*arcade.Velocity
		*Bullet
	}]
	Enemies ecs.Query[enemy]
}

func (s *BulletSystem) Execute(frame *ecs.UpdateFrame) {
	if !s.playing() {
		return
	}
	cmd := frame.Commands
	for b := range s.Bullets.Values() {
		b.Position.X += b.Velocity.X
		b.Position.Y += b.Velocity.Y
		br := b.Position.Rect(*b.Body)
		for e := range s.Enemies.Values() {
			if cmd.Deleted(e.EntityId) || !br.Overlaps(e.Position.Rect(*e.Body)) {
				continue
			}
			cmd.Delete(b.EntityId)
			s.hurt(cmd, e, b.Damage, hitBullet)
			s.Sound.Get().Play(arcade.SoundHit)
			break
		}
	}
}

// OrbSystem swings the orbs around the player. Orbs hurt every enemy they
// overlap, every frame.
type OrbSystem struct {
	Shared
	Players ecs.Query[hero]
	Orbs    ecs.Query[orbView]
	Enemies ecs.Query[enemy]
}

func (s *OrbSystem) Execute(frame *ecs.UpdateFrame) {
	if !s.playing() {
		return
	}
	p, ok := s.Players.First()
	if !ok {
		return
	}
	center := p.Position.Center(*p.Body)
	for o := range s.Orbs.Values() {
		o.Angle += o.Speed
		o.Position.CenterOn(center.Add(geom.V(math.Cos(o.Angle), math.Sin(o.Angle)).Scale(o.Radius)), *o.Body)
		orbRect := o.Position.Rect(*o.Body)
		for e := range s.Enemies.Values() {
			if orbRect.Overlaps(e.Position.Rect(*e.Body)) {
				s.hurt(frame.Commands, e, o.Damage, hitOrb)
			}
		}
	}
}

// ExplosionSystem casts the area spell around the player on its cooldown.
type ExplosionSystem struct {
	Shared
	Players ecs.Query[hero]
	Enemies ecs.Query[enemy]
}

func (s *ExplosionSystem) Execute(frame *ecs.UpdateFrame) {
	if !s.playing() {
		return
	}
	x := s.Explosion.Get()
	x.Visible = max(0, x.Visible-frame.DeltaTime)
	x.Timer += frame.DeltaTime
	if x.Timer < x.Every {
		return
	}
	p, ok := s.Players.First()
	if !ok {
		return
	}
	x.Timer = 0
	x.Visible = explosionVisible
	s.Sound.Get().Play(arcade.SoundExplode)

	center := p.Position.Center(*p.Body)
	for e := range s.Enemies.Values() {
		if frame.Commands.Deleted(e.EntityId) || center.Dist(e.Position.Center(*e.Body)) > x.Radius {
			continue
		}
		s.hurt(frame.Commands, e, x.Damage, hitExplosion)
		p.Heal(float64(e.Damage) * p.LifeSteal)
	}
}

// PickupSystem pulls gems toward the player and collects gems and hearts.
type PickupSystem struct {
	Shared
	Players ecs.Query[hero]
	Gems    ecs.Query[struct {
		ecs.EntityId
		*arcade.Position
		*arcade.Body
		*Gem
	}]
	Hearts ecs.Query[struct {
		ecs.EntityId
		*arcade.Position
		*arcade.Body
		*Heart
	}]
}

func (s *PickupSystem) Execute(frame *ecs.UpdateFrame) {
	if !s.playing() {
		return
	}
	p, ok := s.Players.First()
	if !ok {
		return
	}
	center := p.Position.Center(*p.Body)
	pr := p.Position.Rect(*p.Body)

	for g := range s.Gems.Values() {
		d := center.Sub(g.Position.Center(*g.Body))
		if l := d.Len(); p.Magnet > 0 && l > 0 && l <= p.Magnet {
			g.Position.X += float64(int(d.X / l * magnetPull))
			g.Position.Y += float64(int(d.Y / l * magnetPull))
		}
		if !pr.Overlaps(g.Position.Rect(*g.Body)) {
			continue
		}
		frame.Commands.Delete(g.EntityId)
		s.Sound.Get().Play(arcade.SoundPickup)
		if p.AddXP(1) {
			s.logger().Info("level up", "level", p.Level, "elapsed", int(s.Session.Get().Elapsed))
			s.levelUp(false)
		}
	}

	for h := range s.Hearts.Values() {
		if pr.Overlaps(h.Position.Rect(*h.Body)) {
			frame.Commands.Delete(h.EntityId)
			p.Heal(1)
			s.Sound.Get().Play(arcade.SoundPickup)
		}
	}
}

// EnemySystem chases the player, runs the boss phases and applies contact
// damage. Minions are used up on contact; the boss is not.
type EnemySystem struct {
	Shared
	Players ecs.Query[hero]
	Enemies ecs.Query[enemy]
}

func (s *EnemySystem) Execute(frame *ecs.UpdateFrame) {
	if !s.playing() {
		return
	}
	p, ok := s.Players.First()
	if !ok {
		return
	}
	cmd := frame.Commands
	target := p.Position.Center(*p.Body)

	for e := range s.Enemies.Values() {
		if cmd.Deleted(e.EntityId) {
			continue
		}
		c := e.Position.Center(*e.Body)
		step := target.Sub(c).Normalize().Scale(e.Speed)
		e.Position.X += step.X
		e.Position.Y += step.Y

		if e.Boss != nil {
			s.updateBoss(cmd, e, frame.DeltaTime)
		}

		if !p.Position.Rect(*p.Body).Overlaps(e.Position.Rect(*e.Body)) {
			continue
		}
		p.HP -= float64(e.Damage)
		s.Sound.Get().Play(arcade.SoundHit)
		if e.Boss == nil {
			cmd.Delete(e.EntityId)
		}
		if p.HP <= 0 {
			s.gameOver(p)
			return
		}
	}
}

func (s *EnemySystem) updateBoss(cmd *ecs.Commands, e enemy, dt float64) {
	b := e.Boss
	if b.Phase == 1 && e.Health.HP < e.Health.Max/2 {
		b.Phase = 2
		e.Speed++
		e.Damage += 5
		s.logger().Debug("boss enraged", "hp", e.Health.HP)
	}

	b.SummonTimer += dt
	if b.Phase != 2 || b.SummonTimer < summonEvery {
		return
	}
	b.SummonTimer = 0
	r := s.Rand.Get()
	c := e.Position.Center(*e.Body)
	for range 3 {
		dx := float64(r.IntN(2*summonSpread+1) - summonSpread)
		dy := float64(r.IntN(2*summonSpread+1) - summonSpread)
		s.spawnMinion(cmd, c.X+dx, c.Y+dy)
	}
}

func (s *EnemySystem) gameOver(p hero) {
	session := s.Session.Get()
	session.Phase = GameOver
	s.Sound.Get().Play(arcade.SoundGameOver)
	s.logger().Info("game over",
		"level", p.Level,
		"elapsed", int(session.Elapsed),
		"kills", session.Kills,
	)
}

// StrengthSystem ramps enemy strength by one every 30 seconds of play.
type StrengthSystem struct {
	Shared
}

func (s *StrengthSystem) Execute(frame *ecs.UpdateFrame) {
	if !s.playing() {
		return
	}
	session := s.Session.Get()
	for int(session.Elapsed)/strengthEvery+1 > session.Strength {
		session.Strength++
	}
}
