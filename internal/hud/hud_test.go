package hud

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plus3/arcade/internal/geom"
)

func TestTextSize(t *testing.T) {
	w, h := TextSize("BOSS", 1)
	assert.Equal(t, 28.0, w)
	assert.Equal(t, 13.0, h)

	w, h = TextSize("héllo", 2)
	assert.Equal(t, 70.0, w)
	assert.Equal(t, 26.0, h)
}

func TestFillWidth(t *testing.T) {
	assert.Equal(t, 50.0, FillWidth(100, 0.5))
	assert.Equal(t, 0.0, FillWidth(100, -1))
	assert.Equal(t, 100.0, FillWidth(100, 3))
}

func TestButton(t *testing.T) {
	b := Button{Rect: geom.R(100, 100, 200, 50), Label: "Start Game"}

	assert.True(t, b.Hovered(150, 120))
	assert.False(t, b.Hovered(99, 120))
	assert.True(t, b.Clicked(true, 300, 150))
	assert.False(t, b.Clicked(false, 150, 120))

	b.Disabled = true
	assert.False(t, b.Clicked(true, 150, 120))
}

func TestLighten(t *testing.T) {
	assert.Equal(t, color.RGBA{255, 60, 40, 255}, lighten(color.RGBA{250, 20, 0, 255}, 40))
}

func TestClock(t *testing.T) {
	assert.Equal(t, "00:00", Clock(0))
	assert.Equal(t, "01:05", Clock(65.9))
	assert.Equal(t, "12:00", Clock(720))
}
