// Package geom holds the small amount of 2D math the games share: vectors,
// axis-aligned rectangles and circles, clamping and chase steps.
package geom

import "math"

type Vec struct {
	X, Y float64
}

func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Scale(s float64) Vec { return Vec{v.X * s, v.Y * s} }
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }
func (v Vec) Dist(o Vec) float64 { return v.Sub(o).Len() }

// Angle is the direction of v in radians, measured clockwise from +X in
// screen space.
func (v Vec) Angle() float64 { return math.Atan2(v.Y, v.X) }

// Normalize returns the unit vector, or zero for a zero vector.
func (v Vec) Normalize() Vec {
	l := v.Len()
	if l == 0 {
		return Vec{}
	}
	return Vec{v.X / l, v.Y / l}
}

// StepToward moves from toward to by at most speed along the straight line.
// Reaching the target is exact; it never overshoots.
func StepToward(from, to Vec, speed float64) Vec {
	d := to.Sub(from)
	l := d.Len()
	if l <= speed || l == 0 {
		return to
	}
	return from.Add(d.Scale(speed / l))
}

// StepAxes moves from toward to by step on each axis independently, the way
// a grid-minded chaser walks diagonally until one axis lines up.
func StepAxes(from, to Vec, step float64) Vec {
	return Vec{approach(from.X, to.X, step), approach(from.Y, to.Y, step)}
}

func approach(v, target, step float64) float64 {
	switch {
	case v < target:
		return math.Min(v+step, target)
	case v > target:
		return math.Max(v-step, target)
	}
	return v
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y, W, H float64
}

func R(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

func (r Rect) Center() Vec { return Vec{r.X + r.W/2, r.Y + r.H/2} }
func (r Rect) Right() float64 { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Overlaps reports whether two rectangles share any interior area. Touching
// edges do not count.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Vec) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Inside reports whether r lies strictly inside a w×h area anchored at 0,0.
func (r Rect) Inside(w, h float64) bool {
	return r.X > 0 && r.Y > 0 && r.Right() < w && r.Bottom() < h
}

// ClampTo keeps r inside a w×h area anchored at 0,0.
func (r Rect) ClampTo(w, h float64) Rect {
	r.X = Clamp(r.X, 0, w-r.W)
	r.Y = Clamp(r.Y, 0, h-r.H)
	return r
}

// Offscreen reports whether r has left a w×h area entirely.
func (r Rect) Offscreen(w, h float64) bool {
	return r.Right() < 0 || r.X > w || r.Bottom() < 0 || r.Y > h
}

// Circle is a disc by centre and radius.
type Circle struct {
	C Vec
	R float64
}

func (c Circle) Overlaps(o Circle) bool {
	return c.C.Dist(o.C) < c.R+o.R
}

// OverlapsRect reports whether the circle touches the rectangle's interior.
func (c Circle) OverlapsRect(r Rect) bool {
	nx := Clamp(c.C.X, r.X, r.Right())
	ny := Clamp(c.C.Y, r.Y, r.Bottom())
	return c.C.Dist(Vec{nx, ny}) < c.R
}

func Clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Max(lo, math.Min(v, hi))
}
