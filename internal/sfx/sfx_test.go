package sfx

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/arcade/internal/arcade"
)

func TestSynthLength(t *testing.T) {
	pcm := Synth(Tone{Freq: 440, EndFreq: 440, Duration: 0.5, Volume: 0.5})
	assert.Len(t, pcm, SampleRate/2*4)
}

func TestSynthIsStereoAndFades(t *testing.T) {
	pcm := Synth(Tone{Freq: 440, EndFreq: 880, Duration: 0.1, Volume: 1})
	require.NotEmpty(t, pcm)

	peak := func(from, to int) int {
		m := 0
		for i := from; i < to; i++ {
			l := int16(binary.LittleEndian.Uint16(pcm[4*i:]))
			r := int16(binary.LittleEndian.Uint16(pcm[4*i+2:]))
			require.Equal(t, l, r)
			m = max(m, abs(int(l)))
		}
		return m
	}
	n := len(pcm) / 4
	assert.Greater(t, peak(0, n/4), peak(3*n/4, n))
}

func TestEveryGameSoundHasATone(t *testing.T) {
	for _, name := range []string{
		arcade.SoundShoot, arcade.SoundHit, arcade.SoundPickup,
		arcade.SoundLevelUp, arcade.SoundExplode, arcade.SoundGameOver,
	} {
		assert.Contains(t, Tones, name)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
