// Command arcade opens one game in a window.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/plus3/arcade/games"
	"github.com/plus3/arcade/internal/arcade"
	"github.com/plus3/arcade/internal/assets"
	"github.com/plus3/arcade/internal/config"
	"github.com/plus3/arcade/internal/logging"
	"github.com/plus3/arcade/internal/sfx"
)

func main() {
	registry := games.NewRegistry()

	game := flag.String("game", "survivors", "Game to play: "+strings.Join(registry.Names(), ", "))
	configPath := flag.String("config", "", "YAML file overriding the default tuning.")
	debug := flag.Bool("debug", false, "Show the ECS debug overlay.")
	logLevel := flag.String("log-level", "", "debug, info, warn or error. Overrides the config file.")
	jsonLogs := flag.Bool("json", false, "Log as JSON instead of text.")
	flag.Parse()

	if err := run(registry, *game, *configPath, *debug, *logLevel, *jsonLogs); err != nil {
		fmt.Fprintln(os.Stderr, "arcade:", err)
		os.Exit(1)
	}
}

func run(registry *arcade.Registry, game, configPath string, debug bool, logLevel string, jsonLogs bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	format := logging.FormatText
	if jsonLogs {
		format = logging.FormatJSON
	}
	logger := logging.New(os.Stderr, level, format, "arcade")

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	env := arcade.Env{
		Config: cfg,
		Assets: assets.NewLoader(cfg.AssetDir, logger),
		Logger: logger,
		Seed:   seed,
	}
	if cfg.Audio {
		env.Sound = sfx.NewBank(cfg.AssetDir, logger)
	}

	// The runner owns the capture singleton EbitenInput needs, but the
	// world must exist first, so input is attached after the build.
	input := &deferredInput{}
	env.Input = input
	w, err := registry.Build(game, env)
	if err != nil {
		return err
	}
	runner := arcade.NewRunner(w)
	input.source = arcade.EbitenInput{Capture: runner.Capture()}
	if debug || cfg.Debug {
		runner.EnableDebug()
	}

	logger.Info("starting", "game", game, "seed", seed, slog.Bool("debug", debug || cfg.Debug))
	if err := runner.Run(cfg.Scale); err != nil {
		return fmt.Errorf("run %s: %w", game, err)
	}
	logger.Info("closed", "game", game)
	return nil
}

// deferredInput forwards to a source chosen after the world is built.
type deferredInput struct {
	source arcade.InputSource
}

func (d *deferredInput) Poll(in *arcade.Input, frame int64) {
	if d.source != nil {
		d.source.Poll(in, frame)
	}
}
