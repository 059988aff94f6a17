package survivors

import (
	"image/color"

	"github.com/plus3/arcade/internal/arcade"
)

type Rarity string

const (
	Common Rarity = "Common"
	Rare   Rarity = "Rare"
	Epic   Rarity = "Epic"
)

func (r Rarity) Color() color.RGBA {
	switch r {
	case Rare:
		return orange
	case Epic:
		return purple
	}
	return green
}

const maxOrbs = 3

// upgradeTarget is everything an upgrade may change.
type upgradeTarget struct {
	player    *Player
	orbs      []*Orb
	explosion *Explosion
	session   *Session
	addOrb    func(radius float64)
}

type Upgrade struct {
	Name   string
	Rarity Rarity
	apply  func(t *upgradeTarget)
}

var upgradePool = []Upgrade{
	{"Increase Damage", Common, func(t *upgradeTarget) {
		t.player.Damage++
		for _, o := range t.orbs {
			o.Damage++
		}
		t.explosion.Damage++
	}},
	{"Increase Speed", Common, func(t *upgradeTarget) {
		t.player.Speed++
	}},
	{"Fire Rate+", Common, func(t *upgradeTarget) {
		t.session.ShootDelay = max(0.2, t.session.ShootDelay*0.8)
	}},
	{"Add/Upgrade Orb", Rare, func(t *upgradeTarget) {
		if len(t.orbs) < maxOrbs {
			t.addOrb(60 + 20*float64(len(t.orbs)))
			return
		}
		for _, o := range t.orbs {
			o.Damage++
		}
	}},
	{"Max HP Boost", Rare, func(t *upgradeTarget) {
		t.player.MaxHP += 2
		t.player.HP = float64(t.player.MaxHP)
	}},
	{"XP Boost", Rare, func(t *upgradeTarget) {
		t.player.XPMultiplier += 0.25
	}},
	{"Explosion Damage+", Rare, func(t *upgradeTarget) {
		t.explosion.Damage++
	}},
	{"Orb Speed+", Rare, func(t *upgradeTarget) {
		for _, o := range t.orbs {
			o.Speed += 0.02
		}
	}},
	{"Magnet Radius", Epic, func(t *upgradeTarget) {
		t.player.Magnet += 50
	}},
	{"Life Steal", Epic, func(t *upgradeTarget) {
		t.player.LifeSteal += 0.05
	}},
}

// offerUpgrades draws n distinct upgrades from the pool.
func offerUpgrades(r arcade.Rand, n int) []Upgrade {
	perm := r.Perm(len(upgradePool))
	n = min(n, len(perm))
	offers := make([]Upgrade, n)
	for i := range n {
		offers[i] = upgradePool[perm[i]]
	}
	return offers
}

func randomUpgrade(r arcade.Rand) Upgrade {
	return upgradePool[r.IntN(len(upgradePool))]
}
