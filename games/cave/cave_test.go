package cave

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

func newWorld(t *testing.T, v Variant) (*arcade.World, *Run) {
	t.Helper()
	w, err := NewVariant(v)(arcade.Env{Config: config.Default(), Seed: 21})
	require.NoError(t, err)
	return w, arcadetest.Singleton[Run](w)
}

func caver(t *testing.T, w *arcade.World) caverView {
	t.Helper()
	ps := arcadetest.Query[caverView](w)
	require.Len(t, ps, 1)
	return ps[0]
}

// park moves every enemy to the top-left corner so it cannot interfere.
func park(w *arcade.World) []enemyView {
	enemies := arcadetest.Query[enemyView](w)
	for _, e := range enemies {
		e.Position.X, e.Position.Y = -500, -500
	}
	return enemies
}

func TestConfiguredVariant(t *testing.T) {
	cfg := config.Default()
	cfg.Cave.Variant = "manual"
	w, err := New(arcade.Env{Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, "cave-manual", w.Name)
	assert.Equal(t, Manual, arcadetest.Singleton[Run](w).Variant)

	_, err = NewVariant("sideways")(arcade.Env{Config: cfg})
	assert.ErrorContains(t, err, "unknown variant")
}

func TestAutoInitialField(t *testing.T) {
	w, run := newWorld(t, Auto)
	assert.Equal(t, 100, run.Health)
	assert.Equal(t, Playing, run.Phase)

	p := caver(t, w)
	assert.Equal(t, arcade.Position{X: 400, Y: 540}, *p.Position)
	assert.Equal(t, arcade.Body{W: 50, H: 50}, *p.Body)

	enemies := arcadetest.Query[enemyView](w)
	require.Len(t, enemies, 5)
	for _, e := range enemies {
		c := e.Position.Center(*e.Body)
		assert.True(t, geom.R(25, 50, Width-50, 150).Contains(c), "centre %v", c)
	}
}

func TestAutoMovementStaysInside(t *testing.T) {
	w, _ := newWorld(t, Auto)
	park(w)
	w.Input().Hold(ebiten.KeyArrowDown)
	arcadetest.Steps(w, 10)
	assert.Equal(t, 545.0, caver(t, w).Position.Y)

	w.Input().Clear()
	w.Input().Hold(ebiten.KeyArrowRight)
	arcadetest.Steps(w, 100)
	assert.Equal(t, 745.0, caver(t, w).Position.X)
}

func TestAutoFireSpacing(t *testing.T) {
	w, run := newWorld(t, Auto)
	park(w)

	w.Step()
	require.Equal(t, 1, arcadetest.Count[Bullet](w))
	b := arcadetest.Query[bulletView](w)[0]
	assert.Equal(t, arcade.Position{X: 420, Y: 540}, *b.Position)

	arcadetest.Steps(w, 9)
	assert.Equal(t, 1, run.NextSeq)
	arcadetest.Steps(w, 5)
	assert.Equal(t, 2, run.NextSeq)
}

func TestAutoBulletReplacesEnemy(t *testing.T) {
	w, run := newWorld(t, Auto)
	enemies := park(w)
	enemies[0].Position.CenterOn(geom.V(425, 500), *enemies[0].Body)

	arcadetest.Steps(w, 4)
	assert.Equal(t, 1, run.Kills)
	assert.Equal(t, 5, arcadetest.Count[Enemy](w))
}

func TestContactDrainsHealthAndRestart(t *testing.T) {
	w, run := newWorld(t, Auto)
	enemies := park(w)
	p := caver(t, w)
	enemies[0].Position.CenterOn(p.Position.Center(*p.Body), *enemies[0].Body)

	w.Step()
	assert.Equal(t, 99, run.Health)

	run.Health = 1
	w.Step()
	assert.Equal(t, Over, run.Phase)

	elapsed := run.Elapsed
	arcadetest.Steps(w, 10)
	assert.Equal(t, elapsed, run.Elapsed)

	w.Input().Press(ebiten.KeyR)
	w.Step()
	assert.Equal(t, Playing, run.Phase)
	assert.Equal(t, 100, run.Health)
	assert.Equal(t, 5, arcadetest.Count[Enemy](w))
	assert.Equal(t, 1, arcadetest.Count[Caver](w))
}

func TestManualFiresInKeyDirection(t *testing.T) {
	w, run := newWorld(t, Manual)
	park(w)
	p := caver(t, w)
	assert.Equal(t, arcade.Position{X: 360, Y: 510}, *p.Position)

	w.Input().Hold(ebiten.KeyD, ebiten.KeyW)
	w.Step()
	bullets := arcadetest.Query[struct {
		*arcade.Velocity
		*Bullet
	}](w)
	require.Len(t, bullets, 1)
	assert.Equal(t, arcade.Velocity{Y: -bulletSpeed}, *bullets[0].Velocity, "W wins over D")

	arcadetest.Steps(w, 29)
	assert.Equal(t, 3, run.NextSeq, "one shot per 200 ms")
}

func TestManualBulletHitsWithinRadius(t *testing.T) {
	w, run := newWorld(t, Manual)
	enemies := park(w)
	p := caver(t, w)
	enemies[0].Position.CenterOn(p.Position.Center(*p.Body).Add(geom.V(80, 0)), *enemies[0].Body)

	w.Input().Hold(ebiten.KeyD)
	arcadetest.Steps(w, 6)
	assert.Equal(t, 1, run.Kills)
}

func TestSideSpawn(t *testing.T) {
	r := arcade.NewRand(9)
	sides := map[string]int{}
	for range 300 {
		c := sideSpawn(r)
		switch {
		case c.X == -enemyRadius:
			sides["left"]++
		case c.X == Width+enemyRadius:
			sides["right"]++
		default:
			sides["top"]++
			assert.True(t, geom.R(25, 50, Width-50, 150).Contains(c))
			continue
		}
		assert.GreaterOrEqual(t, c.Y, float64(enemyRadius))
		assert.LessOrEqual(t, c.Y, float64(Height-enemyRadius))
	}
	assert.Len(t, sides, 3)
}
