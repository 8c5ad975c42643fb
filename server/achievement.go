package main

// Achievement definitions
type AchievementDef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var Achievements = []AchievementDef{
	{"first_park", "First Park", "Win your first match"},
	{"clean_sweep", "Clean Sweep", "Win without taking a single hit"},
	{"speed_parker", "Speed Parker", "Win with a minute or more left on the clock"},
	{"high_roller", "High Roller", "Score 1500 points in one match"},
	{"regular", "Regular", "Play 10 matches"},
	{"demolition", "Demolition Derby", "Land 100 hits in total"},
}

const (
	speedParkerSeconds = 60
	highRollerScore    = 1500
	regularMatches     = 10
	demolitionHits     = 100
)

// CheckAchievements checks if any new achievements should be unlocked for a
// player after res, whose stats are already recorded. Returns the newly
// unlocked definitions.
func CheckAchievements(db *DB, playerID int64, res MatchResult) []AchievementDef {
	if db == nil {
		return nil
	}

	stats, err := db.GetStats(playerID)
	if err != nil || stats == nil {
		return nil
	}

	existing, err := db.GetAchievements(playerID)
	if err != nil {
		return nil
	}
	has := make(map[string]bool, len(existing))
	for _, a := range existing {
		has[a] = true
	}

	won := res.Victory()
	check := func(id string) bool {
		if has[id] {
			return false
		}
		switch id {
		case "first_park":
			return won
		case "clean_sweep":
			return won && res.Stats.HitsTaken == 0
		case "speed_parker":
			return won && res.RemainingSeconds >= speedParkerSeconds
		case "high_roller":
			return res.Score >= highRollerScore
		case "regular":
			return stats.Matches >= regularMatches
		case "demolition":
			return stats.TotalHits >= demolitionHits
		}
		return false
	}

	var unlocked []AchievementDef
	for _, def := range Achievements {
		if check(def.ID) {
			if newlyUnlocked, err := db.UnlockAchievement(playerID, def.ID); err == nil && newlyUnlocked {
				unlocked = append(unlocked, def)
			}
		}
	}
	return unlocked
}
