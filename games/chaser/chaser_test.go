package chaser

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/arcade/internal/arcade"
	"github.com/plus3/arcade/internal/arcade/arcadetest"
	"github.com/plus3/arcade/internal/config"
	"github.com/plus3/arcade/internal/geom"
)

type shooterView struct {
	*arcade.Position
	*arcade.Body
	*Shooter
}

func newWorld(t *testing.T, tweak ...func(*config.Chaser)) (*arcade.World, *Field) {
	t.Helper()
	cfg := config.Default()
	for _, f := range tweak {
		f(&cfg.Chaser)
	}
	w, err := New(arcade.Env{Config: cfg, Seed: 5})
	require.NoError(t, err)
	return w, arcadetest.Singleton[Field](w)
}

func shooter(t *testing.T, w *arcade.World) shooterView {
	t.Helper()
	ps := arcadetest.Query[shooterView](w)
	require.Len(t, ps, 1)
	return ps[0]
}

func TestInitialWave(t *testing.T) {
	w, field := newWorld(t)
	assert.Equal(t, Playing, field.Phase)
	assert.Nil(t, arcadetest.Singleton[Look](w).Player, "no sprite sheet, fallback square")

	p := shooter(t, w)
	assert.Equal(t, arcade.Position{X: 400, Y: 300}, *p.Position)

	chasers := arcadetest.Query[chaserView](w)
	require.Len(t, chasers, 5)
	for _, c := range chasers {
		assert.Equal(t, 20.0, c.R)
		center := c.Position.Center(*c.Body)
		assert.True(t, geom.R(0, 0, Width, Height).Contains(center))
	}
}

func TestChasersStepTowardPlayer(t *testing.T) {
	w, _ := newWorld(t)
	target := shooter(t, w).Position.Center(arcade.Body{W: cellSize, H: cellSize})

	chasers := arcadetest.Query[chaserView](w)
	before := make([]float64, len(chasers))
	for i, c := range chasers {
		before[i] = c.Position.Center(*c.Body).Dist(target)
	}
	w.Step()
	for i, c := range chasers {
		after := c.Position.Center(*c.Body).Dist(target)
		assert.InDelta(t, max(0, before[i]-2), after, 1e-9)
	}
}

func TestArrowsMoveAndClamp(t *testing.T) {
	w, _ := newWorld(t)
	w.Input().Hold(ebiten.KeyArrowRight)
	w.Step()
	assert.Equal(t, 405.0, shooter(t, w).Position.X)

	w.Input().Clear()
	w.Input().Hold(ebiten.KeyD)
	w.Step()
	assert.Equal(t, 405.0, shooter(t, w).Position.X, "WASD is not used here")

	w.Input().Clear()
	w.Input().Hold(ebiten.KeyArrowUp)
	arcadetest.Steps(w, 100)
	assert.Zero(t, shooter(t, w).Position.Y)
}

func TestHeldSpaceStreamsBullets(t *testing.T) {
	w, field := newWorld(t)
	w.Input().Hold(ebiten.KeySpace)
	arcadetest.Steps(w, 5)
	assert.Equal(t, 5, field.Shots)

	w.Input().Release(ebiten.KeySpace)
	arcadetest.Steps(w, 40)
	assert.Zero(t, arcadetest.Count[Bullet](w), "bullets leave through the top")
}

func TestBulletClearsField(t *testing.T) {
	sounds := &arcadetest.SoundLog{}
	cfg := config.Default()
	cfg.Chaser.EnemyCount = 1
	w, err := New(arcade.Env{Config: cfg, Seed: 5, Sound: sounds})
	require.NoError(t, err)
	field := arcadetest.Singleton[Field](w)

	p := shooter(t, w)
	c := arcadetest.Query[chaserView](w)[0]
	c.Position.CenterOn(p.Position.Center(*p.Body).Sub(geom.V(0, 60)), *c.Body)

	w.Input().Hold(ebiten.KeySpace)
	arcadetest.Steps(w, 10)

	assert.Equal(t, Cleared, field.Phase)
	assert.Equal(t, 1, field.Kills)
	assert.Zero(t, arcadetest.Count[Chaser](w))
	assert.Equal(t, 1, sounds.Count(arcade.SoundLevelUp))

	w.Input().Clear()
	w.Input().Press(ebiten.KeyR)
	w.Step()

	assert.Equal(t, Playing, field.Phase)
	assert.Zero(t, field.Kills)
	assert.Equal(t, 1, arcadetest.Count[Chaser](w))
	assert.Equal(t, 1, arcadetest.Count[Shooter](w))
	assert.Zero(t, arcadetest.Count[Bullet](w))
}
