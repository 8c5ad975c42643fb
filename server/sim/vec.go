package sim

import "math"

// Vec2 is a point or direction in arena units.
type Vec2 struct {
	X, Y float64
}

// fallbackDir replaces zero-length vectors during normalization.
var fallbackDir = Vec2{X: 1, Y: 0}

func (a Vec2) Add(b Vec2) Vec2      { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2      { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Len() float64         { return math.Hypot(a.X, a.Y) }

// Normalize returns the unit vector pointing along a. A zero-length (or
// non-finite) vector yields fallbackDir instead of NaNs.
func (a Vec2) Normalize() Vec2 {
	l := a.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return fallbackDir
	}
	return Vec2{a.X / l, a.Y / l}
}

// Blend returns wa*a + wb*b, normalized.
func Blend(a Vec2, wa float64, b Vec2, wb float64) Vec2 {
	return a.Scale(wa).Add(b.Scale(wb)).Normalize()
}
