// Package config loads the arcade's YAML configuration. A file only needs to
// name the values it changes; everything else keeps its default.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	// Scale multiplies the window size; the logical screen never changes.
	Scale    float64 `yaml:"scale"`
	AssetDir string  `yaml:"asset_dir"`
	// Seed fixes the random source. Zero picks a random seed per run.
	Seed     uint64 `yaml:"seed"`
	Audio    bool   `yaml:"audio"`
	Debug    bool   `yaml:"debug"`
	LogLevel string `yaml:"log_level"`

	Survivors Survivors `yaml:"survivors"`
	Dodge     Dodge     `yaml:"dodge"`
	Chaser    Chaser    `yaml:"chaser"`
	Cave      Cave      `yaml:"cave"`
	Arena     Arena     `yaml:"arena"`
}

type Survivors struct {
	PlayerSpeed     float64 `yaml:"player_speed"`
	BulletSpeed     float64 `yaml:"bullet_speed"`
	ShootDelay      float64 `yaml:"shoot_delay"`
	MinionInterval  float64 `yaml:"minion_interval"`
	BossInterval    int     `yaml:"boss_interval"`
	ExplosionEvery  float64 `yaml:"explosion_interval"`
	ExplosionRadius float64 `yaml:"explosion_radius"`
	HeartChance     float64 `yaml:"heart_chance"`
}

type Dodge struct {
	PlayerSpeed  float64 `yaml:"player_speed"`
	EnemySpeed   float64 `yaml:"enemy_speed"`
	EnemyCount   int     `yaml:"enemy_count"`
	ReadySeconds float64 `yaml:"ready_seconds"`
}

type Chaser struct {
	PlayerSpeed float64 `yaml:"player_speed"`
	EnemySpeed  float64 `yaml:"enemy_speed"`
	BulletSpeed float64 `yaml:"bullet_speed"`
	EnemyCount  int     `yaml:"enemy_count"`
	SpriteSheet string  `yaml:"sprite_sheet"`
}

type Cave struct {
	// Variant is "auto" (auto-fire upward) or "manual" (WASD fires).
	Variant     string  `yaml:"variant"`
	PlayerSpeed float64 `yaml:"player_speed"`
	EnemySpeed  float64 `yaml:"enemy_speed"`
	EnemyCount  int     `yaml:"enemy_count"`
	Health      int     `yaml:"health"`
	Background  string  `yaml:"background"`
}

type Arena struct {
	PlayerSpeed float64 `yaml:"player_speed"`
	EnemySpeed  float64 `yaml:"enemy_speed"`
	BulletSpeed float64 `yaml:"bullet_speed"`
	FireRate    float64 `yaml:"fire_rate"`
	Health      int     `yaml:"health"`
}

// Default returns the tuning the games were designed around.
func Default() Config {
	return Config{
		Scale:    1,
		AssetDir: "assets",
		Audio:    true,
		LogLevel: "info",
		Survivors: Survivors{
			PlayerSpeed:     5,
			BulletSpeed:     7,
			ShootDelay:      1,
			MinionInterval:  2,
			BossInterval:    25,
			ExplosionEvery:  4,
			ExplosionRadius: 100,
			HeartChance:     0.2,
		},
		Dodge: Dodge{
			PlayerSpeed:  5,
			EnemySpeed:   2.5,
			EnemyCount:   3,
			ReadySeconds: 3,
		},
		Chaser: Chaser{
			PlayerSpeed: 5,
			EnemySpeed:  2,
			BulletSpeed: 10,
			EnemyCount:  5,
			SpriteSheet: "sprites.png",
		},
		Cave: Cave{
			Variant:     "auto",
			PlayerSpeed: 5,
			EnemySpeed:  2,
			EnemyCount:  5,
			Health:      100,
			Background:  "cave_pixel.png",
		},
		Arena: Arena{
			PlayerSpeed: 5,
			EnemySpeed:  2.5,
			BulletSpeed: 20,
			FireRate:    0.3,
			Health:      100,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// keys are rejected so typos do not silently fall back to defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects non-positive sizes, speeds and intervals.
func (c Config) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s must be positive, got %v", ErrInvalid, name, v))
		}
	}

	positive("scale", c.Scale)

	positive("survivors.player_speed", c.Survivors.PlayerSpeed)
	positive("survivors.bullet_speed", c.Survivors.BulletSpeed)
	positive("survivors.shoot_delay", c.Survivors.ShootDelay)
	positive("survivors.minion_interval", c.Survivors.MinionInterval)
	positive("survivors.boss_interval", float64(c.Survivors.BossInterval))
	positive("survivors.explosion_interval", c.Survivors.ExplosionEvery)
	positive("survivors.explosion_radius", c.Survivors.ExplosionRadius)
	if c.Survivors.HeartChance < 0 || c.Survivors.HeartChance > 1 {
		errs = append(errs, fmt.Errorf("%w: survivors.heart_chance must be within [0, 1], got %v", ErrInvalid, c.Survivors.HeartChance))
	}

	positive("dodge.player_speed", c.Dodge.PlayerSpeed)
	positive("dodge.enemy_speed", c.Dodge.EnemySpeed)
	positive("dodge.enemy_count", float64(c.Dodge.EnemyCount))
	if c.Dodge.ReadySeconds < 0 {
		errs = append(errs, fmt.Errorf("%w: dodge.ready_seconds must not be negative", ErrInvalid))
	}

	positive("chaser.player_speed", c.Chaser.PlayerSpeed)
	positive("chaser.enemy_speed", c.Chaser.EnemySpeed)
	positive("chaser.bullet_speed", c.Chaser.BulletSpeed)
	positive("chaser.enemy_count", float64(c.Chaser.EnemyCount))

	if c.Cave.Variant != "auto" && c.Cave.Variant != "manual" {
		errs = append(errs, fmt.Errorf("%w: cave.variant must be auto or manual, got %q", ErrInvalid, c.Cave.Variant))
	}
	positive("cave.player_speed", c.Cave.PlayerSpeed)
	positive("cave.enemy_speed", c.Cave.EnemySpeed)
	positive("cave.enemy_count", float64(c.Cave.EnemyCount))
	positive("cave.health", float64(c.Cave.Health))

	positive("arena.player_speed", c.Arena.PlayerSpeed)
	positive("arena.enemy_speed", c.Arena.EnemySpeed)
	positive("arena.bullet_speed", c.Arena.BulletSpeed)
	positive("arena.fire_rate", c.Arena.FireRate)
	positive("arena.health", float64(c.Arena.Health))

	return errors.Join(errs...)
}
