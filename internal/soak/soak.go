// Package soak runs games headlessly under a random Bot for a fixed number
// of frames and reports how they held up.
package soak

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/plus3/arcade/ecs"
	"github.com/plus3/arcade/internal/arcade"
	"github.com/plus3/arcade/internal/config"
	"github.com/plus3/arcade/internal/logging"
)

type Options struct {
	Frames int
	Seed   uint64
	// Parallel caps how many games run at once; zero means GOMAXPROCS.
	Parallel int
	Config   config.Config
	Logger   *slog.Logger
}

// Result is one game's run.
type Result struct {
	Game       string
	Frames     int
	TotalTime  time.Duration
	StepTime   Stats
	Entities   int
	Archetypes int
	Sounds     map[string]int
	Systems    []ecs.SystemStats
}

// Stats summarises per-step durations.
type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]
	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

// soundCounter counts effects instead of playing them.
type soundCounter map[string]int

func (c soundCounter) Play(name string) { c[name]++ }

// Run plays each named game concurrently and returns the results in the
// order of names. It stops early if ctx is cancelled or a game fails to
// build.
func Run(ctx context.Context, registry *arcade.Registry, names []string, opts Options) ([]Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	parallel := opts.Parallel
	if parallel <= 0 {
		parallel = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, name := range names {
		g.Go(func() error {
			res, err := runOne(ctx, registry, name, opts, opts.Seed+uint64(i), logger)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runOne(ctx context.Context, registry *arcade.Registry, name string, opts Options, seed uint64, logger *slog.Logger) (Result, error) {
	bot := NewBot(seed)
	sounds := soundCounter{}
	w, err := registry.Build(name, arcade.Env{
		Config: opts.Config,
		Input:  bot,
		Sound:  sounds,
		Logger: logger,
		Seed:   seed,
	})
	if err != nil {
		return Result{}, err
	}
	bot.Width, bot.Height = w.Width, w.Height
	runner := arcade.NewRunner(w)

	res := Result{Game: name, StepTime: Stats{Samples: make([]time.Duration, 0, opts.Frames)}}
	start := time.Now()
	for frame := range opts.Frames {
		if frame%arcade.TicksPerSecond == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, fmt.Errorf("soak %s: %w", name, err)
			}
		}
		stepStart := time.Now()
		runner.Advance()
		res.StepTime.Samples = append(res.StepTime.Samples, time.Since(stepStart))
		res.Frames++
	}
	res.TotalTime = time.Since(start)
	res.StepTime.Finalize()

	stats := w.Storage.CollectStats()
	res.Entities = stats.TotalEntityCount
	res.Archetypes = stats.ArchetypeCount
	res.Sounds = sounds
	res.Systems = w.Update.GetStats().Systems
	logger.Info("soak finished", "game", name, "frames", res.Frames, "entities", res.Entities, "avg_step", res.StepTime.Avg)
	return res, nil
}
