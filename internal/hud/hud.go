// Package hud draws text, bars and buttons with the 7×13 bitmap font.
package hud

import (
	"fmt"
	"image/color"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/plus3/arcade/internal/geom"
)

const (
	glyphWidth  = 7
	glyphHeight = 13
	ascent      = 11
)

var (
	White  = color.RGBA{255, 255, 255, 255}
	Black  = color.RGBA{0, 0, 0, 255}
	Red    = color.RGBA{220, 40, 40, 255}
	Green  = color.RGBA{40, 200, 60, 255}
	Blue   = color.RGBA{40, 90, 230, 255}
	Yellow = color.RGBA{240, 220, 40, 255}
	Gray   = color.RGBA{90, 90, 90, 255}
	Shadow = color.RGBA{0, 0, 0, 160}
)

// TextSize returns the pixel size of s drawn at scale.
func TextSize(s string, scale float64) (w, h float64) {
	return float64(utf8.RuneCountInString(s)*glyphWidth) * scale, glyphHeight * scale
}

// Text draws s with its top-left corner at x, y.
func Text(dst *ebiten.Image, s string, x, y, scale float64, clr color.Color) {
	if scale == 1 {
		text.Draw(dst, s, basicfont.Face7x13, int(x), int(y)+ascent, clr)
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(0, ascent)
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.DrawWithOptions(dst, s, basicfont.Face7x13, op)
}

// TextCentered draws s horizontally centred on cx.
func TextCentered(dst *ebiten.Image, s string, cx, y, scale float64, clr color.Color) {
	w, _ := TextSize(s, scale)
	Text(dst, s, cx-w/2, y, scale, clr)
}

// FillWidth is the filled part of a w-wide bar at frac, clamped to [0, w].
func FillWidth(w, frac float64) float64 {
	return w * geom.Clamp(frac, 0, 1)
}

// Bar draws a background rectangle with frac of it filled and a 1px border.
func Bar(dst *ebiten.Image, r geom.Rect, frac float64, fill, background color.Color) {
	vector.DrawFilledRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), background, false)
	if fw := FillWidth(r.W, frac); fw > 0 {
		vector.DrawFilledRect(dst, float32(r.X), float32(r.Y), float32(fw), float32(r.H), fill, false)
	}
	vector.StrokeRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 1, White, false)
}

// Panel darkens a rectangle behind overlay text.
func Panel(dst *ebiten.Image, r geom.Rect) {
	vector.DrawFilledRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), Shadow, false)
}

// Button is a clickable rectangle with a label.
type Button struct {
	Rect     geom.Rect
	Label    string
	Sublabel string
	Color    color.RGBA
	Disabled bool
}

// Hovered reports whether x, y is over an enabled button.
func (b Button) Hovered(x, y float64) bool {
	return !b.Disabled && b.Rect.Contains(geom.V(x, y))
}

// Clicked reports whether a click at x, y lands on the button.
func (b Button) Clicked(click bool, x, y float64) bool {
	return click && b.Hovered(x, y)
}

func (b Button) Draw(dst *ebiten.Image, mouseX, mouseY float64) {
	clr := b.Color
	switch {
	case b.Disabled:
		clr = Gray
	case b.Hovered(mouseX, mouseY):
		clr = lighten(clr, 40)
	}
	r := b.Rect
	vector.DrawFilledRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), clr, false)
	vector.StrokeRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 2, White, false)

	c := r.Center()
	if b.Sublabel == "" {
		TextCentered(dst, b.Label, c.X, c.Y-glyphHeight, 2, White)
		return
	}
	TextCentered(dst, b.Label, c.X, c.Y-glyphHeight*1.5, 1.5, White)
	TextCentered(dst, b.Sublabel, c.X, c.Y+4, 1, White)
}

func lighten(c color.RGBA, by uint8) color.RGBA {
	add := func(v uint8) uint8 {
		if int(v)+int(by) > 255 {
			return 255
		}
		return v + by
	}
	return color.RGBA{add(c.R), add(c.G), add(c.B), c.A}
}

// Clock formats seconds as mm:ss.
func Clock(seconds float64) string {
	s := int(seconds)
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}
