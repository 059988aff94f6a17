package arcade

// SoundPlayer plays a named effect. internal/sfx provides the real one.
type SoundPlayer interface {
	Play(name string)
}

// Sound is the singleton games play effects through. A nil Player is silent.
type Sound struct {
	Player SoundPlayer
}

func (s *Sound) Play(name string) {
	if s == nil || s.Player == nil {
		return
	}
	s.Player.Play(name)
}

// Effect names shared by the games and the sfx bank.
const (
	SoundShoot    = "shoot"
	SoundHit      = "hit"
	SoundPickup   = "pickup"
	SoundLevelUp  = "levelup"
	SoundExplode  = "explode"
	SoundGameOver = "gameover"
)
