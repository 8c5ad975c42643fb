package sim

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestNewMatch(t *testing.T) {
	m := newQuietMatch()

	if m.State() != InProgress {
		t.Errorf("expected in_progress, got %s", m.State())
	}
	if len(m.drivers) != len(DefaultRoster) {
		t.Fatalf("expected %d drivers, got %d", len(DefaultRoster), len(m.drivers))
	}
	if m.player.Pos != PlayerStart || m.player.Health != MaxHealth {
		t.Errorf("player should start at %v with full health", PlayerStart)
	}
	if m.Score() != 0 {
		t.Errorf("expected score 0, got %d", m.Score())
	}
	if got := m.RemainingSeconds(); got != 120 {
		t.Errorf("expected 120 seconds on the clock, got %d", got)
	}
}

func TestPlayerMovementAndFacing(t *testing.T) {
	m := newQuietMatch()

	m.Tick(Input{Up: true})
	if m.player.Facing != FacingUp {
		t.Errorf("expected facing up, got %s", m.player.Facing)
	}
	if m.player.Pos.Y != PlayerStart.Y-5 {
		t.Errorf("expected y=%f, got %f", PlayerStart.Y-5, m.player.Pos.Y)
	}

	// With several keys held the last one applied wins.
	m.Tick(Input{Up: true, Right: true})
	if m.player.Facing != FacingRight {
		t.Errorf("expected facing right, got %s", m.player.Facing)
	}
}

func TestPlayerClampedToArena(t *testing.T) {
	m := newQuietMatch()
	for i := 0; i < 60; i++ {
		m.Tick(Input{Left: true, Up: true})
	}
	if m.player.Pos.X != 0 || m.player.Pos.Y != 0 {
		t.Errorf("expected player pinned at (0, 0), got %v", m.player.Pos)
	}
}

func TestThrowCooldown(t *testing.T) {
	m := newQuietMatch()

	throws := 0
	for i := 0; i < 60; i++ {
		for _, e := range m.Tick(Input{Fire: true}) {
			if e.Kind == EventThrow {
				throws++
			}
		}
	}
	// Ticks 1, 19, 37 and 55.
	if throws != 4 {
		t.Errorf("expected 4 throws in one second, got %d", throws)
	}
	if m.stats.Throws != 4 {
		t.Errorf("expected stats to count 4 throws, got %d", m.stats.Throws)
	}
}

func TestConeHitsDriver(t *testing.T) {
	m := newQuietMatch()
	d := m.drivers[0]

	placeCone(m, d)
	events := m.Tick(Input{})

	if d.Health != MaxHealth-DriverHitDamage {
		t.Errorf("expected driver health %d, got %d", MaxHealth-DriverHitDamage, d.Health)
	}
	if m.Score() != HitReward {
		t.Errorf("expected score %d, got %d", HitReward, m.Score())
	}
	if len(m.projectiles) != 0 {
		t.Error("cone should be consumed by the hit")
	}
	if !hasEvent(events, EventDriverHit) {
		t.Errorf("expected a driver_hit event, got %v", eventKinds(events))
	}
}

func TestDriverDefeatedOnce(t *testing.T) {
	m := newQuietMatch()
	d := m.drivers[2]

	defeats := 0
	for i := 0; i < 5; i++ {
		placeCone(m, d)
		for _, e := range m.Tick(Input{}) {
			if e.Kind == EventDriverDefeated {
				defeats++
				if e.DriverID != d.ID {
					t.Errorf("defeat reported for %s, expected %s", e.DriverID, d.ID)
				}
				if e.Text == "" {
					t.Error("defeat should carry a line")
				}
			}
		}
	}
	if !d.Defeated || d.Health != 0 {
		t.Fatalf("driver should be defeated after 5 hits, health=%d", d.Health)
	}
	if defeats != 1 {
		t.Errorf("expected exactly one defeat event, got %d", defeats)
	}

	// Cones pass through a defeated driver.
	pos := d.Pos
	score := m.Score()
	placeCone(m, d)
	events := m.Tick(Input{})
	if hasEvent(events, EventDriverHit) {
		t.Error("defeated driver should not be hit again")
	}
	if m.Score() != score {
		t.Errorf("score changed from %d to %d", score, m.Score())
	}
	if len(m.projectiles) != 1 {
		t.Error("cone should not be consumed by a defeated driver")
	}
	if d.Pos != pos || d.Health != 0 || !d.Defeated {
		t.Error("defeated driver should stay frozen")
	}
}

func TestPlayerHitPenaltyFloorsAtZero(t *testing.T) {
	m := newQuietMatch()

	placeHubcap(m)
	events := m.Tick(Input{})

	if m.player.Health != MaxHealth-PlayerHitDamage {
		t.Errorf("expected health %d, got %d", MaxHealth-PlayerHitDamage, m.player.Health)
	}
	if m.Score() != 0 {
		t.Errorf("score should not go below zero, got %d", m.Score())
	}
	if m.stats.HitsTaken != 1 {
		t.Errorf("expected 1 hit taken, got %d", m.stats.HitsTaken)
	}
	if !hasEvent(events, EventPlayerHit) {
		t.Errorf("expected a player_hit event, got %v", eventKinds(events))
	}
	if len(m.projectiles) != 0 {
		t.Error("projectile should be consumed by the hit")
	}
}

func TestPlayerHitReducesScore(t *testing.T) {
	m := newQuietMatch()
	placeCone(m, m.drivers[0])
	m.Tick(Input{})

	placeHubcap(m)
	m.Tick(Input{})

	if m.Score() != HitReward-HitPenalty {
		t.Errorf("expected score %d, got %d", HitReward-HitPenalty, m.Score())
	}
}

func TestDefeatByHealth(t *testing.T) {
	m := newQuietMatch()

	for i := 0; i < 49; i++ {
		placeHubcap(m)
		m.Tick(Input{})
	}
	if m.State() != InProgress {
		t.Fatalf("expected in_progress after 49 hits, got %s", m.State())
	}
	if m.player.Health != 2 {
		t.Fatalf("expected health 2, got %d", m.player.Health)
	}

	placeHubcap(m)
	events := m.Tick(Input{})
	if m.State() != DefeatByHealth {
		t.Fatalf("expected defeat_health, got %s", m.State())
	}
	if m.player.Health != 0 {
		t.Errorf("expected health 0, got %d", m.player.Health)
	}
	last := events[len(events)-1]
	if last.Kind != EventDefeat || last.State != DefeatByHealth {
		t.Errorf("expected a final defeat event, got %+v", last)
	}
}

func TestDefeatStopsCollisionPass(t *testing.T) {
	m := newQuietMatch()
	m.player.Health = 4

	for i := 0; i < 4; i++ {
		placeHubcap(m)
	}
	m.Tick(Input{})

	if m.State() != DefeatByHealth {
		t.Fatalf("expected defeat_health, got %s", m.State())
	}
	if m.stats.HitsTaken != 2 {
		t.Errorf("expected resolution to stop at the fatal hit, got %d hits", m.stats.HitsTaken)
	}
	if len(m.projectiles) != 2 {
		t.Errorf("expected 2 unresolved projectiles left, got %d", len(m.projectiles))
	}
}

func TestDefeatByTimeout(t *testing.T) {
	m := newQuietMatch()

	for i := 0; i < 7199; i++ {
		m.Tick(Input{})
	}
	if m.State() != InProgress {
		t.Fatalf("expected in_progress at tick 7199, got %s", m.State())
	}
	if got := m.RemainingSeconds(); got != 1 {
		t.Errorf("expected 1 second left, got %d", got)
	}

	events := m.Tick(Input{})
	if m.State() != DefeatByTimeout {
		t.Fatalf("expected defeat_timeout, got %s", m.State())
	}
	if len(events) != 1 || events[0].Kind != EventDefeat {
		t.Errorf("expected only a defeat event, got %v", eventKinds(events))
	}
	if m.Score() != 0 {
		t.Errorf("expected score 0, got %d", m.Score())
	}
	if m.RemainingSeconds() != 0 {
		t.Errorf("clock should read zero, got %d", m.RemainingSeconds())
	}
}

func TestDefeatByTimeoutAfterTakingHits(t *testing.T) {
	m := newQuietMatch()
	m.score.Hit() // one earlier cone, so the floor is exercised

	hubcap := Projectile{Type: ProjectileHubcap, Dir: Vec2{X: 1}, Owner: "d1"}
	hits := 0
	for m.State() == InProgress {
		if m.tick%600 == 0 && hits < 10 {
			h := hubcap
			m.nextProjID++
			h.ID = m.nextProjID
			h.Pos = m.player.Pos
			m.projectiles = append(m.projectiles, h)
			hits++
		}
		m.Tick(Input{})
	}

	if m.State() != DefeatByTimeout {
		t.Fatalf("expected defeat_timeout, got %s", m.State())
	}
	if m.stats.HitsTaken != 10 {
		t.Errorf("expected 10 hits taken, got %d", m.stats.HitsTaken)
	}
	if m.player.Health != MaxHealth-10*PlayerHitDamage {
		t.Errorf("expected health %d, got %d", MaxHealth-10*PlayerHitDamage, m.player.Health)
	}
	if m.Score() != 0 || m.score.TimeBonus() != 0 {
		t.Errorf("expected score 0 with no bonus, got %d (bonus %d)", m.Score(), m.score.TimeBonus())
	}
}

func TestVictoryAfterClearingLot(t *testing.T) {
	m := newQuietMatch()

	for _, d := range m.drivers {
		for i := 0; i < 5; i++ {
			placeCone(m, d)
			m.Tick(Input{})
		}
	}
	if !m.AllDefeated() {
		t.Fatal("all drivers should be defeated")
	}
	if m.Score() != 6*5*HitReward {
		t.Fatalf("expected score %d, got %d", 6*5*HitReward, m.Score())
	}

	m.player.Pos = Vec2{X: 700, Y: 500}
	var events []Event
	for i := 0; i < HoldTicks; i++ {
		if m.State() != InProgress {
			t.Fatalf("match ended early at hold tick %d", i)
		}
		events = m.Tick(Input{})
	}
	if m.State() != Victory {
		t.Fatalf("expected victory, got %s", m.State())
	}

	// 30 + 180 ticks = 3.5 s elapsed, 116.5 s left.
	if m.Ticks() != 210 {
		t.Fatalf("expected victory on tick 210, got %d", m.Ticks())
	}
	if m.score.TimeBonus() != 116 {
		t.Errorf("expected time bonus 116, got %d", m.score.TimeBonus())
	}
	if m.Score() != 1500+116 {
		t.Errorf("expected final score %d, got %d", 1500+116, m.Score())
	}
	last := events[len(events)-1]
	if last.Kind != EventVictory || last.State != Victory || last.Score != m.Score() {
		t.Errorf("unexpected final event %+v", last)
	}
}

func TestHoldResetsOnLeavingZone(t *testing.T) {
	m := newQuietMatch()
	defeatAll(m)
	m.player.Pos = Vec2{X: 778, Y: 500}

	// 2.9 s in the bay.
	for i := 0; i < 174; i++ {
		m.Tick(Input{})
	}
	if m.holdTicks != 174 {
		t.Fatalf("expected 174 hold ticks, got %d", m.holdTicks)
	}

	events := m.Tick(Input{Right: true})
	if m.holdTicks != 0 {
		t.Errorf("hold should reset when leaving the bay, got %d", m.holdTicks)
	}
	if !hasEvent(events, EventZoneExit) {
		t.Errorf("expected zone_exit, got %v", eventKinds(events))
	}

	events = m.Tick(Input{Left: true})
	if !hasEvent(events, EventZoneEnter) {
		t.Errorf("expected zone_enter, got %v", eventKinds(events))
	}
	for i := 1; i < HoldTicks-1; i++ {
		m.Tick(Input{})
	}
	if m.State() != InProgress {
		t.Fatalf("victory before a full uninterrupted hold, hold=%d", m.holdTicks)
	}
	m.Tick(Input{})
	if m.State() != Victory {
		t.Errorf("expected victory after a full hold, got %s", m.State())
	}
}

func TestNoVictoryWhileDriversRemain(t *testing.T) {
	m := newQuietMatch()
	for _, d := range m.drivers[1:] {
		d.Health = 0
		d.Defeated = true
	}
	// Park the survivor so it cannot wander into the bay.
	m.drivers[0].Speed = 0
	m.player.Pos = Vec2{X: 700, Y: 500}

	for i := 0; i < 3*HoldTicks; i++ {
		m.Tick(Input{})
	}
	if m.State() != InProgress {
		t.Errorf("expected in_progress with a driver standing, got %s", m.State())
	}
	if m.holdTicks != 0 {
		t.Errorf("hold should not accumulate, got %d", m.holdTicks)
	}
}

func TestTerminalMatchIgnoresTicks(t *testing.T) {
	m := newQuietMatch()
	defeatAll(m)
	m.player.Pos = Vec2{X: 700, Y: 500}
	for m.State() == InProgress {
		m.Tick(Input{})
	}

	before := m.Snapshot()
	events := m.Tick(Input{Right: true, Fire: true})
	after := m.Snapshot()

	if events != nil {
		t.Errorf("expected no events after the match ended, got %v", eventKinds(events))
	}
	if !reflect.DeepEqual(before, after) {
		t.Error("terminal match should not change")
	}
}

func TestTimeBonusAppliedOnce(t *testing.T) {
	var s Score
	s.AddTimeBonus(30)
	s.AddTimeBonus(40)
	if s.Value() != 30 || s.TimeBonus() != 30 {
		t.Errorf("expected a single bonus of 30, got value=%d bonus=%d", s.Value(), s.TimeBonus())
	}
}

func TestRandomPlayInvariants(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AttackChance = 0.05
	rng := rand.New(rand.NewSource(42))
	m := NewMatch(cfg, rng)
	keys := rand.New(rand.NewSource(99))

	for m.State() == InProgress {
		in := Input{
			Up:    keys.Intn(2) == 0,
			Down:  keys.Intn(3) == 0,
			Left:  keys.Intn(3) == 0,
			Right: keys.Intn(2) == 0,
			Fire:  keys.Intn(2) == 0,
		}
		events := m.Tick(in)
		snap := m.Snapshot()

		if !cfg.Arena.Contains(m.player.Pos) {
			t.Fatalf("tick %d: player left the arena at %v", snap.Tick, m.player.Pos)
		}
		if snap.Score < 0 {
			t.Fatalf("tick %d: negative score %d", snap.Tick, snap.Score)
		}
		if snap.Player.Health < 0 || snap.Player.Health > MaxHealth {
			t.Fatalf("tick %d: player health %d out of range", snap.Tick, snap.Player.Health)
		}
		for _, d := range snap.Drivers {
			if d.Health < 0 || d.Health > MaxHealth {
				t.Fatalf("tick %d: driver %s health %d out of range", snap.Tick, d.ID, d.Health)
			}
			if d.Defeated != (d.Health == 0) {
				t.Fatalf("tick %d: driver %s defeated=%v with health %d", snap.Tick, d.ID, d.Defeated, d.Health)
			}
		}
		for _, e := range events {
			if e.Kind == EventDriverThrow && e.DriverID == "" {
				t.Fatalf("tick %d: driver throw without a driver", snap.Tick)
			}
		}
	}
	if m.Ticks() > cfg.durationTicks() {
		t.Errorf("match ran past its duration: %d ticks", m.Ticks())
	}
}

func TestTauntsFire(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AttackChance = 0
	m := NewMatch(cfg, constRand(0.5))

	var taunt *Event
	for i := 0; i < int(TauntMax*TickRate)+1 && taunt == nil; i++ {
		for _, e := range m.Tick(Input{}) {
			if e.Kind == EventTaunt {
				e := e
				taunt = &e
			}
		}
	}
	if taunt == nil {
		t.Fatal("expected a taunt within the maximum delay")
	}
	if taunt.Text == "" || taunt.DriverID == "" {
		t.Errorf("taunt should name a driver and a line, got %+v", taunt)
	}
	if taunt.Cue() != CueTaunt {
		t.Errorf("expected cue %q, got %q", CueTaunt, taunt.Cue())
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	m := newQuietMatch()
	placeCone(m, m.drivers[0])
	snap := m.Snapshot()

	snap.Drivers[0].Health = 1
	snap.Projectiles[0].X = -1

	if m.drivers[0].Health != MaxHealth {
		t.Error("editing the snapshot changed a driver")
	}
	if m.projectiles[0].Pos.X == -1 {
		t.Error("editing the snapshot changed a projectile")
	}
}

func TestEventCues(t *testing.T) {
	tests := []struct {
		kind EventKind
		cue  string
	}{
		{EventThrow, CueThrow},
		{EventDriverThrow, ""},
		{EventDriverHit, CueHit},
		{EventDriverDefeated, CueExplosion},
		{EventPlayerHit, CuePlayerHit},
		{EventVictory, CueVictory},
		{EventDefeat, CueDefeat},
	}
	for _, tt := range tests {
		if got := (Event{Kind: tt.kind}).Cue(); got != tt.cue {
			t.Errorf("%s: expected cue %q, got %q", tt.kind, tt.cue, got)
		}
	}
}
