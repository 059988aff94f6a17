// Package sfx plays the games' sound effects. Each effect is read from
// <dir>/<name>.wav when present and otherwise synthesized as a short beep,
// so the arcade never needs audio files to make noise.
package sfx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

const SampleRate = 44100

// Tone describes a synthesized fallback: a sine sweep from Freq to EndFreq.
type Tone struct {
	Freq     float64
	EndFreq  float64
	Duration float64
	Volume   float64
}

// Tones are the fallbacks for every effect the games play.
var Tones = map[string]Tone{
	"shoot":    {Freq: 950, EndFreq: 700, Duration: 0.07, Volume: 0.25},
	"hit":      {Freq: 240, EndFreq: 160, Duration: 0.12, Volume: 0.35},
	"pickup":   {Freq: 660, EndFreq: 1320, Duration: 0.08, Volume: 0.25},
	"levelup":  {Freq: 440, EndFreq: 880, Duration: 0.35, Volume: 0.3},
	"explode":  {Freq: 120, EndFreq: 40, Duration: 0.3, Volume: 0.4},
	"gameover": {Freq: 330, EndFreq: 110, Duration: 0.8, Volume: 0.35},
}

// Synth renders t as 16-bit little-endian stereo PCM, with a linear fade out
// so clips end without a click.
func Synth(t Tone) []byte {
	n := int(float64(SampleRate) * t.Duration)
	pcm := make([]byte, n*4)
	phase := 0.0
	for i := 0; i < n; i++ {
		progress := float64(i) / float64(n)
		freq := t.Freq + (t.EndFreq-t.Freq)*progress
		phase += 2 * math.Pi * freq / SampleRate
		s := int16(math.Sin(phase) * t.Volume * (1 - progress) * math.MaxInt16)
		binary.LittleEndian.PutUint16(pcm[4*i:], uint16(s))
		binary.LittleEndian.PutUint16(pcm[4*i+2:], uint16(s))
	}
	return pcm
}

// Bank holds decoded clips. Play starts a fresh player each time so
// effects can overlap.
type Bank struct {
	ctx    *audio.Context
	clips  map[string][]byte
	logger *slog.Logger
}

// NewBank prepares every effect in Tones, preferring dir/<name>.wav.
func NewBank(dir string, logger *slog.Logger) *Bank {
	if logger == nil {
		logger = slog.Default()
	}
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(SampleRate)
	}
	b := &Bank{ctx: ctx, clips: make(map[string][]byte, len(Tones)), logger: logger}
	for name, tone := range Tones {
		clip, err := loadWav(filepath.Join(dir, name+".wav"))
		if err != nil {
			logger.Debug("synthesizing sound", "name", name, "reason", err)
			clip = Synth(tone)
		}
		b.clips[name] = clip
	}
	return b
}

func loadWav(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	stream, err := wav.DecodeWithSampleRate(SampleRate, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return pcm, nil
}

func (b *Bank) Play(name string) {
	clip, ok := b.clips[name]
	if !ok {
		b.logger.Warn("unknown sound", "name", name)
		return
	}
	b.ctx.NewPlayerFromBytes(clip).Play()
}
