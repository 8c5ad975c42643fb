package main

// DLC item categories
const (
	DLCVehicle    = "vehicle"    // player car skin
	DLCProjectile = "projectile" // cone replacement
	DLCLot        = "lot"        // arena backdrop
)

// Unlock rule kinds
const (
	RuleBestScore   = "best_score"
	RuleWins        = "wins"
	RuleAchievement = "achievement"
)

// DLCItem is a cosmetic that unlocks by play rather than purchase
type DLCItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Asset       string `json:"asset"`
	Rule        string `json:"rule"`
	Threshold   int    `json:"threshold,omitempty"`
	Achievement string `json:"achievement,omitempty"`
	Preview     string `json:"preview"` // description for UI
}

// DLCCatalog is the full list of unlockable items
var DLCCatalog = []DLCItem{
	// Vehicles
	{ID: "car_hatchback", Name: "Hatchback", Type: DLCVehicle, Asset: "cars/hatchback.png", Rule: RuleWins, Threshold: 1, Preview: "Small, nippy, fits anywhere"},
	{ID: "car_minivan", Name: "Minivan", Type: DLCVehicle, Asset: "cars/minivan.png", Rule: RuleWins, Threshold: 5, Preview: "Room for the whole team"},
	{ID: "car_limo", Name: "Stretch Limo", Type: DLCVehicle, Asset: "cars/limo.png", Rule: RuleBestScore, Threshold: 1400, Preview: "Takes three spaces, deserves all of them"},
	{ID: "car_tank", Name: "Parking Tank", Type: DLCVehicle, Asset: "cars/tank.png", Rule: RuleAchievement, Achievement: "demolition", Preview: "Nobody argues with a tank"},

	// Projectiles
	{ID: "proj_barrel", Name: "Traffic Barrel", Type: DLCProjectile, Asset: "projectiles/barrel.png", Rule: RuleBestScore, Threshold: 1000, Preview: "Heavier than a cone, same attitude"},
	{ID: "proj_ticket", Name: "Parking Ticket", Type: DLCProjectile, Asset: "projectiles/ticket.png", Rule: RuleAchievement, Achievement: "clean_sweep", Preview: "The most feared paper in town"},
	{ID: "proj_boot", Name: "Wheel Boot", Type: DLCProjectile, Asset: "projectiles/boot.png", Rule: RuleWins, Threshold: 10, Preview: "Stops anyone in their tracks"},

	// Lots
	{ID: "lot_mall", Name: "Mall on Black Friday", Type: DLCLot, Asset: "lots/mall.png", Rule: RuleAchievement, Achievement: "regular", Preview: "No spot is safe"},
	{ID: "lot_airport", Name: "Airport Long-Stay", Type: DLCLot, Asset: "lots/airport.png", Rule: RuleAchievement, Achievement: "speed_parker", Preview: "Park fast, fly faster"},
}

// satisfied reports whether a player with these stats and achievements
// qualifies for item
func (item DLCItem) satisfied(stats *StatsRow, achievements map[string]bool) bool {
	switch item.Rule {
	case RuleBestScore:
		return stats.BestScore >= item.Threshold
	case RuleWins:
		return stats.Wins >= item.Threshold
	case RuleAchievement:
		return achievements[item.Achievement]
	}
	return false
}

// CheckDLCUnlocks unlocks every catalog item the player now qualifies for
// and returns the new ones. Safe to call repeatedly.
func CheckDLCUnlocks(db *DB, playerID int64) []DLCItem {
	if db == nil {
		return nil
	}
	stats, err := db.GetStats(playerID)
	if err != nil || stats == nil {
		return nil
	}
	ach, err := db.GetAchievements(playerID)
	if err != nil {
		return nil
	}
	has := make(map[string]bool, len(ach))
	for _, a := range ach {
		has[a] = true
	}

	var unlocked []DLCItem
	for _, item := range DLCCatalog {
		if !item.satisfied(stats, has) {
			continue
		}
		if isNew, err := db.UnlockDLC(playerID, item.ID); err == nil && isNew {
			unlocked = append(unlocked, item)
		}
	}
	return unlocked
}
