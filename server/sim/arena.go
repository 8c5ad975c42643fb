package sim

// Arena is the playable rectangle. Y grows downward.
type Arena struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Rect is an axis-aligned zone with inclusive edges.
type Rect struct {
	Left, Right float64
	Top, Bottom float64
}

// DefaultArena is the 800x600 parking lot.
var DefaultArena = Arena{MinX: 0, MaxX: 800, MinY: 0, MaxY: 600}

// DefaultWinZone is the parking bay in the bottom-right corner.
var DefaultWinZone = Rect{Left: 620, Right: 780, Top: 420, Bottom: 580}

// Center returns the middle of the arena.
func (a Arena) Center() Vec2 {
	return Vec2{X: (a.MinX + a.MaxX) / 2, Y: (a.MinY + a.MaxY) / 2}
}

// Contains reports whether p lies inside the arena (edges included).
func (a Arena) Contains(p Vec2) bool {
	return p.X >= a.MinX && p.X <= a.MaxX && p.Y >= a.MinY && p.Y <= a.MaxY
}

// Clamp pulls p back inside the arena.
func (a Arena) Clamp(p Vec2) Vec2 {
	return Vec2{X: clamp(p.X, a.MinX, a.MaxX), Y: clamp(p.Y, a.MinY, a.MaxY)}
}

// NearEdge reports whether p is within margin of any arena edge.
func (a Arena) NearEdge(p Vec2, margin float64) bool {
	return p.X-a.MinX < margin || a.MaxX-p.X < margin ||
		p.Y-a.MinY < margin || a.MaxY-p.Y < margin
}

// Beyond reports whether any coordinate of p is past the arena grown by margin.
func (a Arena) Beyond(p Vec2, margin float64) bool {
	return p.X < a.MinX-margin || p.X > a.MaxX+margin ||
		p.Y < a.MinY-margin || p.Y > a.MaxY+margin
}

// ToCenter returns the unit vector from p toward the arena center.
func (a Arena) ToCenter(p Vec2) Vec2 {
	return a.Center().Sub(p).Normalize()
}

// Contains reports whether p lies within the zone, edges included.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
