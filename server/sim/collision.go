package sim

// Box is an axis-aligned bounding box given by its center and half extents.
type Box struct {
	Center Vec2
	Half   Vec2
}

// Overlaps reports whether two boxes intersect. Boxes that only touch along
// an edge do not overlap.
func (a Box) Overlaps(b Box) bool {
	return a.Center.X-a.Half.X < b.Center.X+b.Half.X &&
		a.Center.X+a.Half.X > b.Center.X-b.Half.X &&
		a.Center.Y-a.Half.Y < b.Center.Y+b.Half.Y &&
		a.Center.Y+a.Half.Y > b.Center.Y-b.Half.Y
}
