package sim

// constRand always returns the same draw.
type constRand float64

func (c constRand) Float64() float64 { return float64(c) }

// quietConfig is the default setup without driver attacks or taunts, so the
// only randomness left is steering.
func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.AttackChance = 0
	cfg.TauntsEnabled = false
	return cfg
}

func newQuietMatch() *Match {
	return NewMatch(quietConfig(), constRand(0.5))
}

// placeCone drops a stationary cone on top of d.
func placeCone(m *Match, d *Driver) {
	m.nextProjID++
	m.projectiles = append(m.projectiles, Projectile{
		ID:    m.nextProjID,
		Type:  ProjectileCone,
		Pos:   d.Pos,
		Dir:   Vec2{X: 1},
		Speed: 0,
	})
}

// placeHubcap drops a stationary driver projectile on top of the player.
func placeHubcap(m *Match) {
	m.nextProjID++
	m.projectiles = append(m.projectiles, Projectile{
		ID:    m.nextProjID,
		Type:  ProjectileHubcap,
		Pos:   m.player.Pos,
		Dir:   Vec2{X: 1},
		Speed: 0,
		Owner: "d1",
	})
}

func defeatAll(m *Match) {
	for _, d := range m.drivers {
		d.Health = 0
		d.Defeated = true
	}
}

func eventKinds(events []Event) []EventKind {
	kinds := make([]EventKind, len(events))
	for i, e := range events {
		kinds[i] = e.Kind
	}
	return kinds
}

func hasEvent(events []Event, kind EventKind) bool {
	for _, e := range events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}
