// Command arcade-soak plays games headlessly under a random bot and prints
// a markdown report.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"

	"github.com/plus3/arcade/games"
	"github.com/plus3/arcade/internal/config"
	"github.com/plus3/arcade/internal/logging"
	"github.com/plus3/arcade/internal/soak"
)

func main() {
	registry := games.NewRegistry()

	game := flag.String("game", "all", "Game to soak, or all: "+strings.Join(registry.Names(), ", "))
	configPath := flag.String("config", "", "YAML file overriding the default tuning.")
	frames := flag.Int("frames", 36000, "Frames to simulate per game.")
	seed := flag.Uint64("seed", 1, "Seed for the games and the bots.")
	parallel := flag.Int("parallel", 0, "Games to run at once. Zero uses every CPU.")
	systems := flag.Bool("systems", false, "Include per-system timings in the report.")
	logLevel := flag.String("log-level", "warn", "debug, info, warn or error.")
	timeout := flag.Duration("timeout", 0, "Abort after this long. Zero waits for every game.")
	copyReport := flag.Bool("copy", false, "Also copy the report to the clipboard.")
	flag.Parse()

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "arcade-soak:", err)
		os.Exit(2)
	}
	runID := uuid.NewString()
	logger := logging.New(os.Stderr, level, logging.FormatText, "soak").With("soak_id", runID)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("loading config", "err", err)
		os.Exit(1)
	}

	names := registry.Names()
	if *game != "all" {
		names = []string{*game}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	report := &soak.Report{
		RunID:      runID,
		Seed:       *seed,
		Frames:     *frames,
		Started:    time.Now(),
		SystemRows: *systems,
	}
	runtime.ReadMemStats(&report.MemStart)

	logger.Info("soaking", "games", names, "frames", *frames, slog.Int("parallel", *parallel))
	results, err := soak.Run(ctx, registry, names, soak.Options{
		Frames:   *frames,
		Seed:     *seed,
		Parallel: *parallel,
		Config:   cfg,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("soak failed", "err", err)
		os.Exit(1)
	}

	report.Results = results
	report.TotalTime = time.Since(report.Started)
	runtime.ReadMemStats(&report.MemEnd)
	var buf bytes.Buffer
	if err := report.Generate(&buf); err != nil {
		logger.Error("writing report", "err", err)
		os.Exit(1)
	}
	os.Stdout.Write(buf.Bytes())
	if *copyReport {
		if err := clipboard.WriteAll(buf.String()); err != nil {
			logger.Warn("copying report", "err", err)
		}
	}
}
