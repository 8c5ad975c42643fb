package sim

import "testing"

func TestArenaContainsAndClamp(t *testing.T) {
	a := DefaultArena
	if !a.Contains(Vec2{X: 0, Y: 0}) || !a.Contains(Vec2{X: 800, Y: 600}) {
		t.Error("arena edges should be inside")
	}
	if a.Contains(Vec2{X: -0.1, Y: 10}) {
		t.Error("point left of arena should be outside")
	}

	p := a.Clamp(Vec2{X: -50, Y: 900})
	if p.X != 0 || p.Y != 600 {
		t.Errorf("expected clamp to (0, 600), got %v", p)
	}
}

func TestArenaCenter(t *testing.T) {
	c := DefaultArena.Center()
	if c.X != 400 || c.Y != 300 {
		t.Errorf("expected center (400, 300), got %v", c)
	}
}

func TestArenaNearEdge(t *testing.T) {
	a := DefaultArena
	if !a.NearEdge(Vec2{X: 99, Y: 300}, EdgeMargin) {
		t.Error("x=99 should be near the left edge")
	}
	if !a.NearEdge(Vec2{X: 400, Y: 550}, EdgeMargin) {
		t.Error("y=550 should be near the bottom edge")
	}
	if a.NearEdge(Vec2{X: 400, Y: 300}, EdgeMargin) {
		t.Error("center should not be near an edge")
	}
}

func TestArenaBeyond(t *testing.T) {
	a := DefaultArena
	if a.Beyond(Vec2{X: 900, Y: 300}, ProjectileMargin) {
		t.Error("exactly on the margin is not beyond it")
	}
	if !a.Beyond(Vec2{X: 900.5, Y: 300}, ProjectileMargin) {
		t.Error("past the margin should be beyond")
	}
	if !a.Beyond(Vec2{X: 400, Y: -101}, ProjectileMargin) {
		t.Error("above the top margin should be beyond")
	}
}

func TestWinZoneInclusive(t *testing.T) {
	z := DefaultWinZone
	corners := []Vec2{
		{X: z.Left, Y: z.Top}, {X: z.Right, Y: z.Top},
		{X: z.Left, Y: z.Bottom}, {X: z.Right, Y: z.Bottom},
	}
	for _, c := range corners {
		if !z.Contains(c) {
			t.Errorf("corner %v should be in the zone", c)
		}
	}
	if z.Contains(Vec2{X: z.Left - 0.01, Y: z.Top}) {
		t.Error("point just left of the zone should be outside")
	}
}
