package arena

import (
	"log/slog"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/arcade/ecs"
	"github.com/plus3/arcade/internal/arcade"
	"github.com/plus3/arcade/internal/geom"
)

var (
	keysForward = []ebiten.Key{ebiten.KeyW}
	keysBack    = []ebiten.Key{ebiten.KeyS}
	keysLeft    = []ebiten.Key{ebiten.KeyA}
	keysRight   = []ebiten.Key{ebiten.KeyD}
)

type hero struct {
	ecs.EntityId
	*Transform
	*Hero
}

type foe struct {
	ecs.EntityId
	*Transform
	*Foe
}

// MatchSystem runs the match clock, the shield timer and power-up spawns,
// and restarts on R once the match is over.
type MatchSystem struct {
	Logger *slog.Logger

	Match    ecs.Singleton[Match]
	Input    ecs.Singleton[arcade.Input]
	Rand     ecs.Singleton[arcade.Rand]
	Entities ecs.Query[struct {
		ecs.EntityId
		*Transform
	}]
}

func (s *MatchSystem) Execute(frame *ecs.UpdateFrame) {
	m := s.Match.Get()
	m.settling = false
	r := *s.Rand.Get()

	if m.Phase == Over {
		if !s.Input.Get().Pressed(arcade.KeysRestart...) {
			return
		}
		for e := range s.Entities.Values() {
			frame.Commands.Delete(e.EntityId)
		}
		newMatch(deferred(frame.Commands), r, m, s.Logger)
		m.settling = true
		return
	}

	dt := frame.DeltaTime
	m.Elapsed += dt
	m.Shield = max(0, m.Shield-dt)
	m.NextPowerUp -= dt
	if m.NextPowerUp <= 0 {
		kind := powerKinds[r.IntN(len(powerKinds))]
		frame.Commands.Spawn(Transform{Pos: randomSpot(r, powerUpHalf), Size: 0.5}, PowerUp{Kind: kind})
		m.NextPowerUp = float64(10 + r.IntN(6))
	}
}

// HeroSystem walks the player with WASD over the ground and handles the
// jump arc.
type HeroSystem struct {
	Match  ecs.Singleton[Match]
	Input  ecs.Singleton[arcade.Input]
	Heroes ecs.Query[hero]
}

func (s *HeroSystem) Execute(frame *ecs.UpdateFrame) {
	m := s.Match.Get()
	if !m.active() {
		return
	}
	in := s.Input.Get()
	dt := frame.DeltaTime
	step := m.Tuning.PlayerSpeed * dt
	for h := range s.Heroes.Values() {
		h.Pos.X = geom.Clamp(h.Pos.X+in.Axis(keysLeft, keysRight)*step, -groundHalf, groundHalf)
		h.Pos.Z = geom.Clamp(h.Pos.Z+in.Axis(keysBack, keysForward)*step, -groundHalf, groundHalf)

		if in.Pressed(ebiten.KeySpace) && !h.Jumping {
			h.Jumping = true
			h.VY = jumpPower
		}
		if h.Jumping {
			h.Pos.Y += h.VY * dt
			h.VY += gravity
			if h.Pos.Y <= 0 {
				h.Pos.Y = 0
				h.VY = 0
				h.Jumping = false
			}
		}
	}
}

// FoeSystem moves enemies along their diagonal, bouncing off the edge of
// the ground, and has each one shoot at the player on its own timer.
type FoeSystem struct {
	Match  ecs.Singleton[Match]
	Heroes ecs.Query[hero]
	Foes   ecs.Query[foe]
}

func (s *FoeSystem) Execute(frame *ecs.UpdateFrame) {
	m := s.Match.Get()
	if !m.active() {
		return
	}
	h, ok := s.Heroes.First()
	if !ok {
		return
	}
	dt := frame.DeltaTime
	for f := range s.Foes.Values() {
		f.Pos = f.Pos.Add(f.Dir.Scale(m.EnemySpeed * dt))
		if math.Abs(f.Pos.X) > groundHalf {
			f.Dir.X = -f.Dir.X
		}
		if math.Abs(f.Pos.Z) > groundHalf {
			f.Dir.Z = -f.Dir.Z
		}

		f.ShootTimer -= dt
		if f.ShootTimer > 0 {
			continue
		}
		f.ShootTimer = f.ShootEvery
		frame.Commands.Spawn(
			Transform{Pos: chest(f.Pos), Size: 2 * shotRadius},
			Shot{Vel: h.Pos.Sub(f.Pos).Normalize().Scale(hostileSpeed), Hostile: true},
		)
	}
}

// FireSystem shoots forward from the player every fire_rate seconds.
type FireSystem struct {
	Match  ecs.Singleton[Match]
	Sound  ecs.Singleton[arcade.Sound]
	Heroes ecs.Query[hero]
}

func (s *FireSystem) Execute(frame *ecs.UpdateFrame) {
	m := s.Match.Get()
	if !m.active() {
		return
	}
	m.FireTimer -= frame.DeltaTime
	if m.FireTimer > 0 {
		return
	}
	m.FireTimer = m.FireRate
	for h := range s.Heroes.Values() {
		frame.Commands.Spawn(
			Transform{Pos: chest(h.Pos), Size: 2 * shotRadius},
			Shot{Vel: Vec3{Z: m.Tuning.BulletSpeed}},
		)
		s.Sound.Get().Play(arcade.SoundShoot)
	}
}

// chest is where bullets leave a body and where enemy bullets are measured
// against the player, so a grounded player is hittable and a jump dodges.
func chest(p Vec3) Vec3 {
	return p.Add(Vec3{Y: chestHeight})
}

// ShotSystem moves every bullet and resolves what it hits: the player's
// bullets damage the first enemy they touch, enemy bullets hurt the player
// unless shielded.
type ShotSystem struct {
	Match  ecs.Singleton[Match]
	Rand   ecs.Singleton[arcade.Rand]
	Sound  ecs.Singleton[arcade.Sound]
	Heroes ecs.Query[hero]
	Foes   ecs.Query[foe]
	Shots  ecs.Query[struct {
		ecs.EntityId
		*Transform
		*Shot
	}]
}

func (s *ShotSystem) Execute(frame *ecs.UpdateFrame) {
	m := s.Match.Get()
	if !m.active() {
		return
	}
	h, ok := s.Heroes.First()
	if !ok {
		return
	}
	cmd := frame.Commands
	sound := s.Sound.Get()
	r := *s.Rand.Get()

	for b := range s.Shots.Values() {
		b.Pos = b.Pos.Add(b.Vel.Scale(frame.DeltaTime))
		if math.Abs(b.Pos.X) > shotLimit || math.Abs(b.Pos.Y) > shotLimit || math.Abs(b.Pos.Z) > shotLimit {
			cmd.Delete(b.EntityId)
			continue
		}

		if b.Hostile {
			if b.Pos.Dist(chest(h.Pos)) >= hitRange {
				continue
			}
			cmd.Delete(b.EntityId)
			if m.Shield > 0 || m.Phase != Playing {
				continue
			}
			m.Health -= hostileDamage
			sound.Play(arcade.SoundHit)
			if m.Health <= 0 {
				m.Health = 0
				m.Phase = Over
				sound.Play(arcade.SoundGameOver)
				m.Logger.Info("match over", "score", m.Score, "wave", m.Wave)
			}
			continue
		}

		for f := range s.Foes.Values() {
			if cmd.Deleted(f.EntityId) || !touches(b.Transform, f.Transform) {
				continue
			}
			cmd.Delete(b.EntityId)
			f.Health -= shotDamage
			if f.Health <= 0 {
				s.kill(cmd, r, m, f)
			} else {
				sound.Play(arcade.SoundHit)
			}
			break
		}
	}
}

// kill scores an enemy. Bosses leave the field; minions come back
// somewhere else at full health.
func (s *ShotSystem) kill(cmd *ecs.Commands, r arcade.Rand, m *Match, f foe) {
	m.Score++
	s.Sound.Get().Play(arcade.SoundExplode)
	if f.Boss {
		cmd.Delete(f.EntityId)
		m.Logger.Info("boss defeated", "wave", m.Wave)
		return
	}
	f.Pos = randomSpot(r, spawnHalf)
	f.Dir = randomDiagonal(r)
	f.Color = evilColors[r.IntN(len(evilColors))]
	f.Health = f.MaxHealth
}

// touches reports whether a bullet sphere overlaps an enemy cube.
func touches(bullet, cube *Transform) bool {
	reach := cube.Size/2 + bullet.Size/2
	d := bullet.Pos.Sub(cube.Pos)
	return math.Abs(d.X) < reach && math.Abs(d.Y) < reach && math.Abs(d.Z) < reach
}

// PowerUpSystem applies power-ups the player walks into.
type PowerUpSystem struct {
	Match    ecs.Singleton[Match]
	Sound    ecs.Singleton[arcade.Sound]
	Heroes   ecs.Query[hero]
	PowerUps ecs.Query[struct {
		ecs.EntityId
		*Transform
		*PowerUp
	}]
}

func (s *PowerUpSystem) Execute(frame *ecs.UpdateFrame) {
	m := s.Match.Get()
	if !m.active() {
		return
	}
	h, ok := s.Heroes.First()
	if !ok {
		return
	}
	for p := range s.PowerUps.Values() {
		if h.Pos.Dist(p.Pos) >= pickupRange {
			continue
		}
		frame.Commands.Delete(p.EntityId)
		m.apply(p.Kind)
		s.Sound.Get().Play(arcade.SoundPickup)
		m.Logger.Debug("power-up collected", "kind", p.Kind)
	}
}

func (m *Match) apply(kind PowerKind) {
	switch kind {
	case PowerHealth:
		m.Health = min(m.Health+healthBonus, m.MaxHealth)
	case PowerFireRate:
		m.FireRate = max(m.FireRate-0.1, fireRateFloor)
	case PowerShield:
		m.Shield = shieldTime
	}
}

// WaveSystem starts the next wave once the score reaches wave×5 or the
// field is empty.
type WaveSystem struct {
	Match ecs.Singleton[Match]
	Rand  ecs.Singleton[arcade.Rand]
	Sound ecs.Singleton[arcade.Sound]
	Foes  ecs.Query[foe]
}

func (s *WaveSystem) Execute(frame *ecs.UpdateFrame) {
	m := s.Match.Get()
	if !m.active() {
		return
	}
	cmd := frame.Commands
	live := 0
	for f := range s.Foes.Values() {
		if !cmd.Deleted(f.EntityId) {
			live++
		}
	}
	if m.Score < m.Wave*waveKills && live > 0 {
		return
	}

	for f := range s.Foes.Values() {
		cmd.Delete(f.EntityId)
	}
	m.Wave++
	m.EnemySpeed += 0.5
	spawnWave(deferred(cmd), *s.Rand.Get(), m)
	s.Sound.Get().Play(arcade.SoundLevelUp)
	m.Logger.Info("wave started", "wave", m.Wave, "speed", m.EnemySpeed)
}
