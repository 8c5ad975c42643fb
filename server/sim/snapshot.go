package sim

// PlayerSnapshot is a copy of the player's visible state.
type PlayerSnapshot struct {
	X, Y   float64
	Facing Facing
	Health int
}

// DriverSnapshot is a copy of one driver's visible state.
type DriverSnapshot struct {
	ID       string
	Name     string
	Kind     DriverKind
	X, Y     float64
	DirX     float64
	DirY     float64
	Health   int
	Defeated bool
}

// ProjectileSnapshot is a copy of one projectile.
type ProjectileSnapshot struct {
	ID   uint32
	Type ProjectileType
	X, Y float64
}

// Stats counts what happened during a match.
type Stats struct {
	Throws     int
	HitsLanded int
	HitsTaken  int
	Defeated   int
}

// Snapshot is a read-only view of a match after a tick. It shares no memory
// with the live match.
type Snapshot struct {
	Tick             int
	State            State
	Score            int
	TimeBonus        int
	ElapsedMS        int64
	RemainingSeconds int // countdown for display only
	InZone           bool
	HoldSeconds      float64
	Arena            Arena
	WinZone          Rect
	Player           PlayerSnapshot
	Drivers          []DriverSnapshot
	Projectiles      []ProjectileSnapshot
	Stats            Stats
}

// HoldProgress is the parking hold as a fraction of the required time.
func (s Snapshot) HoldProgress() float64 {
	p := s.HoldSeconds / HoldSeconds
	if p > 1 {
		return 1
	}
	return p
}

// Snapshot copies the current match state.
func (m *Match) Snapshot() Snapshot {
	s := Snapshot{
		Tick:             m.tick,
		State:            m.state,
		Score:            m.score.Value(),
		TimeBonus:        m.score.TimeBonus(),
		ElapsedMS:        m.ElapsedMS(),
		RemainingSeconds: m.RemainingSeconds(),
		InZone:           m.inZone,
		HoldSeconds:      float64(m.holdTicks) * TickDelta,
		Arena:            m.cfg.Arena,
		WinZone:          m.cfg.WinZone,
		Player: PlayerSnapshot{
			X:      m.player.Pos.X,
			Y:      m.player.Pos.Y,
			Facing: m.player.Facing,
			Health: m.player.Health,
		},
		Drivers:     make([]DriverSnapshot, 0, len(m.drivers)),
		Projectiles: make([]ProjectileSnapshot, 0, len(m.projectiles)),
		Stats:       m.stats,
	}
	for _, d := range m.drivers {
		s.Drivers = append(s.Drivers, DriverSnapshot{
			ID:       d.ID,
			Name:     d.Name,
			Kind:     d.Kind,
			X:        d.Pos.X,
			Y:        d.Pos.Y,
			DirX:     d.Dir.X,
			DirY:     d.Dir.Y,
			Health:   d.Health,
			Defeated: d.Defeated,
		})
	}
	for _, p := range m.projectiles {
		s.Projectiles = append(s.Projectiles, ProjectileSnapshot{
			ID:   p.ID,
			Type: p.Type,
			X:    p.Pos.X,
			Y:    p.Pos.Y,
		})
	}
	return s
}
