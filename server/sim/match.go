package sim

// State is the match's position in the win/loss state machine.
type State uint8

const (
	InProgress State = iota
	Victory
	DefeatByHealth
	DefeatByTimeout
)

func (s State) String() string {
	switch s {
	case Victory:
		return "victory"
	case DefeatByHealth:
		return "defeat_health"
	case DefeatByTimeout:
		return "defeat_timeout"
	default:
		return "in_progress"
	}
}

// Terminal reports whether the match is over.
func (s State) Terminal() bool {
	return s != InProgress
}

// Match is the authoritative state of one game. Only Tick mutates it, and it
// is not safe for concurrent use; observers take a Snapshot.
type Match struct {
	cfg Config
	rng Rand

	tick  int
	state State

	player      *Player
	drivers     []*Driver
	projectiles []Projectile
	nextProjID  uint32

	score     Score
	stats     Stats
	holdTicks int
	inZone    bool
	tauntIn   float64

	events []Event
}

// NewMatch sets up a fresh match: the player at the start line and the full
// roster at home.
func NewMatch(cfg Config, rng Rand) *Match {
	m := &Match{
		cfg:     cfg,
		rng:     rng,
		player:  NewPlayer(PlayerStart),
		drivers: make([]*Driver, 0, len(cfg.Roster)),
	}
	for _, spec := range cfg.Roster {
		m.drivers = append(m.drivers, NewDriver(spec, rng))
	}
	m.inZone = cfg.WinZone.Contains(m.player.Pos)
	if cfg.TauntsEnabled {
		m.tauntIn = tauntDelay(rng)
	}
	return m
}

func (m *Match) State() State { return m.state }
func (m *Match) Score() int   { return m.score.Value() }
func (m *Match) Ticks() int   { return m.tick }

// ElapsedMS is the simulated time since the match started.
func (m *Match) ElapsedMS() int64 {
	return int64(m.tick) * 1000 / TickRate
}

// RemainingSeconds is the countdown shown to the player, rounded up.
func (m *Match) RemainingSeconds() int {
	rem := m.cfg.MatchDurationMS*TickRate - int64(m.tick)*1000 // ms scaled by TickRate
	if rem <= 0 {
		return 0
	}
	return int((rem + 1000*TickRate - 1) / (1000 * TickRate))
}

// timeBonus is one point per whole second left on the clock.
func (m *Match) timeBonus() int {
	rem := m.cfg.MatchDurationMS*TickRate - int64(m.tick)*1000
	if rem <= 0 {
		return 0
	}
	return int(rem / (1000 * TickRate))
}

// Tick advances the match by one fixed step and returns the events it
// produced. Once the match has ended Tick does nothing.
func (m *Match) Tick(in Input) []Event {
	if m.state.Terminal() {
		return nil
	}
	m.events = nil
	m.tick++

	if m.tick >= m.cfg.durationTicks() {
		m.finish(DefeatByTimeout)
		return m.events
	}

	m.player.Move(in, m.cfg.Arena)
	if in.Fire {
		m.throw()
	}
	m.updateDrivers()
	m.updateTaunt()
	m.advanceProjectiles()

	m.resolveCollisions()
	if m.state.Terminal() {
		return m.events
	}

	m.evaluateParking()
	return m.events
}

func (m *Match) emit(e Event) {
	e.Tick = m.tick
	e.Score = m.score.Value()
	m.events = append(m.events, e)
}

func (m *Match) throw() {
	if !m.player.CanThrow(m.tick) {
		return
	}
	m.nextProjID++
	m.projectiles = append(m.projectiles, NewCone(m.nextProjID, m.player))
	m.player.LastThrow = m.tick
	m.stats.Throws++
	m.emit(Event{Kind: EventThrow})
}

func (m *Match) updateDrivers() {
	for _, d := range m.drivers {
		if d.Defeated {
			continue
		}
		Steer(d, m.cfg.Arena, m.rng)
		if m.rng.Float64() < m.cfg.AttackChance {
			m.nextProjID++
			m.projectiles = append(m.projectiles, NewDriverProjectile(m.nextProjID, d, m.player.Pos))
			m.emit(Event{Kind: EventDriverThrow, DriverID: d.ID})
		}
	}
}

// updateTaunt runs the periodic driver heckle off a countdown on the match.
func (m *Match) updateTaunt() {
	if !m.cfg.TauntsEnabled {
		return
	}
	m.tauntIn -= TickDelta
	if m.tauntIn > 0 {
		return
	}
	m.tauntIn = tauntDelay(m.rng)

	live := make([]*Driver, 0, len(m.drivers))
	for _, d := range m.drivers {
		if !d.Defeated {
			live = append(live, d)
		}
	}
	if len(live) == 0 {
		return
	}
	i := int(m.rng.Float64() * float64(len(live)))
	if i >= len(live) {
		i = len(live) - 1
	}
	m.emit(Event{Kind: EventTaunt, DriverID: live[i].ID, Text: pickPhrase("taunt", m.rng)})
}

func (m *Match) advanceProjectiles() {
	kept := m.projectiles[:0]
	for _, p := range m.projectiles {
		p.Advance()
		if p.Expired(m.cfg.Arena) {
			continue
		}
		kept = append(kept, p)
	}
	m.projectiles = kept
}

// resolveCollisions tests every live projectile against the live actors of
// the other side. A projectile lands at most one hit. If the player's health
// runs out the match ends on the spot and the remaining projectiles are left
// untouched.
func (m *Match) resolveCollisions() {
	kept := m.projectiles[:0]
	for i, p := range m.projectiles {
		if p.Type.FromPlayer() {
			if m.hitDriver(&p) {
				continue
			}
			kept = append(kept, p)
			continue
		}

		if !p.Box().Overlaps(m.player.Box()) {
			kept = append(kept, p)
			continue
		}
		died := m.player.TakeHit(PlayerHitDamage)
		m.score.Penalize()
		m.stats.HitsTaken++
		m.emit(Event{Kind: EventPlayerHit, DriverID: p.Owner, Health: m.player.Health})
		if died {
			kept = append(kept, m.projectiles[i+1:]...)
			m.projectiles = kept
			m.finish(DefeatByHealth)
			return
		}
	}
	m.projectiles = kept
}

// hitDriver applies a cone to the first live driver it overlaps.
func (m *Match) hitDriver(p *Projectile) bool {
	box := p.Box()
	for _, d := range m.drivers {
		if d.Defeated || !box.Overlaps(d.Box()) {
			continue
		}
		defeated := d.TakeHit(DriverHitDamage)
		m.score.Hit()
		m.stats.HitsLanded++
		m.emit(Event{Kind: EventDriverHit, DriverID: d.ID, Health: d.Health})
		if defeated {
			m.stats.Defeated++
			m.emit(Event{Kind: EventDriverDefeated, DriverID: d.ID, Text: pickPhrase("defeated", m.rng)})
		}
		return true
	}
	return false
}

// AllDefeated reports whether every driver in the roster is down.
func (m *Match) AllDefeated() bool {
	for _, d := range m.drivers {
		if !d.Defeated {
			return false
		}
	}
	return true
}

// evaluateParking runs the hold timer. Any tick where the player is outside
// the zone, or a driver is still up, resets it to zero.
func (m *Match) evaluateParking() {
	inZone := m.cfg.WinZone.Contains(m.player.Pos)
	if inZone != m.inZone {
		if inZone {
			m.emit(Event{Kind: EventZoneEnter})
		} else {
			m.emit(Event{Kind: EventZoneExit})
		}
		m.inZone = inZone
	}

	if !(inZone && m.AllDefeated()) {
		m.holdTicks = 0
		return
	}
	m.holdTicks++
	if m.holdTicks >= HoldTicks {
		m.score.AddTimeBonus(m.timeBonus())
		m.finish(Victory)
	}
}

func (m *Match) finish(s State) {
	m.state = s
	kind := EventDefeat
	if s == Victory {
		kind = EventVictory
	}
	m.emit(Event{Kind: kind, State: s, Health: m.player.Health})
}
