// Package arcadetest holds helpers for driving worlds headlessly in tests.
package arcadetest

import (
	"math"

	"github.com/plus3/arcade/ecs"
	"github.com/plus3/arcade/internal/arcade"
)

// Count returns how many entities carry component T.
func Count[T any](w *arcade.World) int {
	q := ecs.NewQuery[struct{ C *T }](w.Storage)
	q.Execute()
	return q.Len()
}

// All returns component T of every entity carrying it.
func All[T any](w *arcade.World) []*T {
	q := ecs.NewQuery[struct{ C *T }](w.Storage)
	q.Execute()
	var out []*T
	for v := range q.Values() {
		out = append(out, v.C)
	}
	return out
}

// Query snapshots view T.
func Query[T any](w *arcade.World) []T {
	q := ecs.NewQuery[T](w.Storage)
	q.Execute()
	var out []T
	for v := range q.Values() {
		out = append(out, v)
	}
	return out
}

// Singleton returns the world's singleton of type T, or nil.
func Singleton[T any](w *arcade.World) *T {
	var s ecs.Singleton[T]
	s.Init(w.Storage)
	return s.Get()
}

// Steps advances w by n ticks.
func Steps(w *arcade.World, n int) {
	for range n {
		w.Step()
	}
}

// Seconds advances w by the number of ticks closest to s seconds.
func Seconds(w *arcade.World, s float64) {
	Steps(w, int(math.Round(s*arcade.TicksPerSecond)))
}

// SoundLog is a SoundPlayer that remembers what it played.
type SoundLog struct {
	Played []string
}

func (l *SoundLog) Play(name string) {
	l.Played = append(l.Played, name)
}

// Count returns how often name was played.
func (l *SoundLog) Count(name string) int {
	n := 0
	for _, p := range l.Played {
		if p == name {
			n++
		}
	}
	return n
}
