package sim

// EventKind identifies a state transition worth telling the outside world about.
type EventKind uint8

const (
	EventThrow EventKind = iota
	EventDriverThrow
	EventDriverHit
	EventDriverDefeated
	EventPlayerHit
	EventZoneEnter
	EventZoneExit
	EventTaunt
	EventVictory
	EventDefeat
)

var eventNames = [...]string{
	EventThrow:          "throw",
	EventDriverThrow:    "driver_throw",
	EventDriverHit:      "driver_hit",
	EventDriverDefeated: "driver_defeated",
	EventPlayerHit:      "player_hit",
	EventZoneEnter:      "zone_enter",
	EventZoneExit:       "zone_exit",
	EventTaunt:          "taunt",
	EventVictory:        "victory",
	EventDefeat:         "defeat",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// Presentation cue names.
const (
	CueThrow     = "throw"
	CueHit       = "hit"
	CueExplosion = "explosion"
	CuePlayerHit = "player_hit"
	CueZoneEnter = "zone_enter"
	CueZoneExit  = "zone_exit"
	CueTaunt     = "taunt"
	CueVictory   = "victory_fanfare"
	CueDefeat    = "defeat"
)

// Event is one notification produced by a tick.
type Event struct {
	Kind     EventKind
	Tick     int
	DriverID string // driver involved, if any
	Text     string // taunt line
	Health   int    // health of the actor that was hit, after the hit
	Score    int    // score after the event
	State    State  // final state for victory/defeat
}

// Cue returns the presentation cue for the event, or "" if it has none.
func (e Event) Cue() string {
	switch e.Kind {
	case EventThrow:
		return CueThrow
	case EventDriverHit:
		return CueHit
	case EventDriverDefeated:
		return CueExplosion
	case EventPlayerHit:
		return CuePlayerHit
	case EventZoneEnter:
		return CueZoneEnter
	case EventZoneExit:
		return CueZoneExit
	case EventTaunt:
		return CueTaunt
	case EventVictory:
		return CueVictory
	case EventDefeat:
		return CueDefeat
	}
	return ""
}

// Analytic reports whether the event is forwarded to analytics. Throws and
// zone crossings are too chatty.
func (e Event) Analytic() bool {
	switch e.Kind {
	case EventDriverHit, EventDriverDefeated, EventPlayerHit, EventVictory, EventDefeat:
		return true
	}
	return false
}
