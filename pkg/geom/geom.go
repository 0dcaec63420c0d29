// Package geom holds the small 2D vector and rectangle types shared by the
// layout, physics and interaction packages.
package geom

import "math"

// Vec is a 2D point or displacement.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// V is shorthand for Vec{X: x, Y: y}.
func V(x, y float64) Vec { return Vec{X: x, Y: y} }

func (v Vec) Add(o Vec) Vec        { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec        { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Scale(k float64) Vec  { return Vec{v.X * k, v.Y * k} }
func (v Vec) Len() float64         { return math.Hypot(v.X, v.Y) }
func (v Vec) LenSq() float64       { return v.X*v.X + v.Y*v.Y }
func (v Vec) Dist(o Vec) float64   { return v.Sub(o).Len() }
func (v Vec) DistSq(o Vec) float64 { return v.Sub(o).LenSq() }
func (v Vec) IsZero() bool         { return v.X == 0 && v.Y == 0 }
func (v Vec) Mid(o Vec) Vec        { return Vec{(v.X + o.X) / 2, (v.Y + o.Y) / 2} }
func (v Vec) Near(o Vec, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps
}

// Rect is an axis-aligned box with its origin at the top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Pad grows r by p on every side.
func (r Rect) Pad(p float64) Rect {
	return Rect{X: r.X - p, Y: r.Y - p, W: r.W + 2*p, H: r.H + 2*p}
}

// Contains reports whether v lies inside r, edges included.
func (r Rect) Contains(v Vec) bool {
	return v.X >= r.X && v.X <= r.X+r.W && v.Y >= r.Y && v.Y <= r.Y+r.H
}

// Center returns the middle of r.
func (r Rect) Center() Vec {
	return Vec{r.X + r.W/2, r.Y + r.H/2}
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
