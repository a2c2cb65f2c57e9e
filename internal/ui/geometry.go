// Package ui is a small retained-mode widget engine: a tree of nodes that is
// measured, laid out and painted into a list of draw commands, and that
// receives normalized input events.
package ui

import "math"

// Point is a position in surface pixels.
type Point struct {
	X, Y float64
}

// Size is a width and height in surface pixels.
type Size struct {
	W, H float64
}

// Rect is an axis aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X < r.X+r.W && p.Y < r.Y+r.H
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersect returns the overlap of r and o.
func (r Rect) Intersect(o Rect) Rect {
	x0 := math.Max(r.X, o.X)
	y0 := math.Max(r.Y, o.Y)
	x1 := math.Min(r.X+r.W, o.X+o.W)
	y1 := math.Min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Inset shrinks r by d on every side.
func (r Rect) Inset(d float64) Rect {
	out := Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
	if out.W < 0 {
		out.W = 0
	}
	if out.H < 0 {
		out.H = 0
	}
	return out
}

// Size returns the dimensions of r.
func (r Rect) Size() Size {
	return Size{W: r.W, H: r.H}
}

// Constraints bound the size a node may take during measure.
type Constraints struct {
	Min, Max Size
}

// Tight constraints allow exactly s.
func Tight(s Size) Constraints {
	return Constraints{Min: s, Max: s}
}

// Loose constraints allow anything up to s.
func Loose(s Size) Constraints {
	return Constraints{Max: s}
}

// Constrain clamps s into c.
func (c Constraints) Constrain(s Size) Size {
	return Size{
		W: math.Max(c.Min.W, math.Min(c.Max.W, s.W)),
		H: math.Max(c.Min.H, math.Min(c.Max.H, s.H)),
	}
}
