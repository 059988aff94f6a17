package soak

import (
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/arcade/internal/arcade"
)

var (
	moveKeys = []ebiten.Key{
		ebiten.KeyW, ebiten.KeyA, ebiten.KeyS, ebiten.KeyD,
		ebiten.KeyArrowUp, ebiten.KeyArrowDown, ebiten.KeyArrowLeft, ebiten.KeyArrowRight,
	}
	actionKeys = []ebiten.Key{
		ebiten.KeySpace, ebiten.KeyEnter, ebiten.KeyR,
		ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
	}
)

// Bot is an InputSource that mashes keys. It holds up to two movement keys
// for a while, keeps Space down about half the time, and now and then taps
// an action key or clicks somewhere on the screen. Width and Height bound
// the clicks and default to 800×600.
type Bot struct {
	Width, Height int

	rng     *rand.Rand
	held    []ebiten.Key
	firing  bool
	nextMix int64
}

func NewBot(seed uint64) *Bot {
	return &Bot{
		Width:  800,
		Height: 600,
		rng:    rand.New(rand.NewPCG(seed, seed+1)),
	}
}

func (b *Bot) Poll(in *arcade.Input, frame int64) {
	if frame >= b.nextMix {
		b.held = b.held[:0]
		for range b.rng.IntN(3) {
			b.held = append(b.held, moveKeys[b.rng.IntN(len(moveKeys))])
		}
		b.firing = b.rng.IntN(2) == 0
		b.nextMix = frame + 10 + int64(b.rng.IntN(50))
	}

	in.Clear()
	in.Hold(b.held...)
	if b.firing {
		in.Hold(ebiten.KeySpace)
	}
	if b.rng.IntN(20) == 0 {
		in.Press(actionKeys[b.rng.IntN(len(actionKeys))])
	}
	if b.rng.IntN(60) == 0 {
		in.ClickAt(float64(b.rng.IntN(b.Width)), float64(b.rng.IntN(b.Height)))
	}
}
