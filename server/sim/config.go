package sim

// Config holds the tunable parts of a match. Rules that define the game
// (damage, rewards, hold time) are constants in tuning.go.
type Config struct {
	Arena           Arena
	WinZone         Rect
	MatchDurationMS int64
	AttackChance    float64 // per live driver per tick
	TauntsEnabled   bool
	Roster          []DriverSpec
}

// DefaultConfig returns the standard single-player match.
func DefaultConfig() Config {
	roster := make([]DriverSpec, len(DefaultRoster))
	copy(roster, DefaultRoster)
	return Config{
		Arena:           DefaultArena,
		WinZone:         DefaultWinZone,
		MatchDurationMS: MatchDurationMS,
		AttackChance:    AttackChance,
		TauntsEnabled:   true,
		Roster:          roster,
	}
}

// durationTicks converts the match duration to whole ticks, rounding up so a
// match never ends early.
func (c Config) durationTicks() int {
	return int((c.MatchDurationMS*TickRate + 999) / 1000)
}
