package sim

// randomDir returns a uniformly drawn vector in [-1,1]² normalized.
func randomDir(rng Rand) Vec2 {
	return randomVec(rng).Normalize()
}

func randomVec(rng Rand) Vec2 {
	return Vec2{X: rng.Float64()*2 - 1, Y: rng.Float64()*2 - 1}
}

// redirectDelay draws the next wander interval from [RedirectMin, RedirectMax).
func redirectDelay(rng Rand) float64 {
	return RedirectMin + rng.Float64()*(RedirectMax-RedirectMin)
}

// Steer advances a live driver by one tick of wandering.
//
// A step that would leave the arena always bends the heading back toward the
// center, regardless of the redirect timer. The step itself is still taken,
// so a driver can sit just outside the bounds for a tick or two.
func Steer(d *Driver, arena Arena, rng Rand) {
	if d.Defeated {
		return
	}
	next := d.Pos.Add(d.Dir.Scale(d.Speed * TickDelta))

	if !arena.Contains(next) {
		d.Dir = Blend(d.Dir, BounceBlendDir, arena.ToCenter(d.Pos), BounceBlendHome)
		d.Redirect = redirectDelay(rng)
	} else {
		d.Redirect -= TickDelta
		if d.Redirect <= 0 {
			v := randomVec(rng)
			if arena.NearEdge(d.Pos, EdgeMargin) {
				v = Blend(v, EdgeBlendRand, arena.ToCenter(d.Pos), EdgeBlendHome)
			}
			d.Dir = v.Normalize()
			d.Redirect = redirectDelay(rng)
		}
	}
	d.Pos = next
}
