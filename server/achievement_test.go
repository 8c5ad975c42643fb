package main

import (
	"testing"

	"parking-server/server/sim"
)

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, id(it))
	}
	return out
}

func sameIDs(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func achievementID(a AchievementDef) string { return a.ID }
func dlcID(d DLCItem) string                { return d.ID }

func TestCheckAchievementsFirstCleanWin(t *testing.T) {
	db := openTestDB(t)
	id := mustCreatePlayer(t, db, "parker")

	res := MatchResult{
		PlayerID:         id,
		State:            sim.Victory,
		Score:            1200,
		DurationMS:       50000,
		RemainingSeconds: 70,
		Stats:            sim.Stats{HitsLanded: 6},
	}
	db.RecordMatchResult(id, true, res.Stats.HitsLanded, res.DurationMS)
	db.SubmitScore(id, res.Score, res.DurationMS)

	got := ids(CheckAchievements(db, id, res), achievementID)
	want := []string{"first_park", "clean_sweep", "speed_parker"}
	if !sameIDs(got, want) {
		t.Errorf("unlocked %v, want %v", got, want)
	}

	if again := CheckAchievements(db, id, res); len(again) != 0 {
		t.Errorf("second check unlocked %v, want none", ids(again, achievementID))
	}
}

func TestCheckAchievementsOnDefeat(t *testing.T) {
	db := openTestDB(t)
	id := mustCreatePlayer(t, db, "loser")

	res := MatchResult{
		PlayerID: id,
		State:    sim.DefeatByTimeout,
		Score:    1500,
		Stats:    sim.Stats{HitsLanded: 100, HitsTaken: 4},
	}
	db.RecordMatchResult(id, false, res.Stats.HitsLanded, 120000)

	got := ids(CheckAchievements(db, id, res), achievementID)
	want := []string{"high_roller", "demolition"}
	if !sameIDs(got, want) {
		t.Errorf("unlocked %v, want %v", got, want)
	}
}

func TestCheckAchievementsRegular(t *testing.T) {
	db := openTestDB(t)
	id := mustCreatePlayer(t, db, "regular")
	res := MatchResult{PlayerID: id, State: sim.DefeatByHealth, Stats: sim.Stats{HitsTaken: 50}}

	for i := 0; i < regularMatches-1; i++ {
		db.RecordMatchResult(id, false, 0, 1000)
		if got := CheckAchievements(db, id, res); len(got) != 0 {
			t.Fatalf("match %d unlocked %v", i+1, ids(got, achievementID))
		}
	}
	db.RecordMatchResult(id, false, 0, 1000)
	got := ids(CheckAchievements(db, id, res), achievementID)
	if !sameIDs(got, []string{"regular"}) {
		t.Errorf("unlocked %v, want [regular]", got)
	}
}

func TestCheckAchievementsNilDB(t *testing.T) {
	if got := CheckAchievements(nil, 1, MatchResult{State: sim.Victory}); got != nil {
		t.Errorf("nil db unlocked %v", got)
	}
}

func TestCheckDLCUnlocks(t *testing.T) {
	db := openTestDB(t)
	id := mustCreatePlayer(t, db, "collector")

	if got := CheckDLCUnlocks(db, id); len(got) != 0 {
		t.Fatalf("new player unlocked %v", ids(got, dlcID))
	}

	db.RecordMatchResult(id, true, 6, 50000)
	db.SubmitScore(id, 1500, 50000)
	db.UnlockAchievement(id, "clean_sweep")
	db.UnlockAchievement(id, "speed_parker")

	got := ids(CheckDLCUnlocks(db, id), dlcID)
	want := []string{"car_hatchback", "car_limo", "proj_barrel", "proj_ticket", "lot_airport"}
	if !sameIDs(got, want) {
		t.Errorf("unlocked %v, want %v", got, want)
	}
	if again := CheckDLCUnlocks(db, id); len(again) != 0 {
		t.Errorf("second check unlocked %v, want none", ids(again, dlcID))
	}

	owned, _ := db.GetDLCUnlocks(id)
	if len(owned) != len(want) {
		t.Errorf("owned %v, want %d items", owned, len(want))
	}
}

func TestDLCCatalogRules(t *testing.T) {
	known := make(map[string]bool, len(Achievements))
	for _, a := range Achievements {
		known[a.ID] = true
	}
	seen := make(map[string]bool)
	for _, item := range DLCCatalog {
		if seen[item.ID] {
			t.Errorf("duplicate catalog id %s", item.ID)
		}
		seen[item.ID] = true
		switch item.Rule {
		case RuleAchievement:
			if !known[item.Achievement] {
				t.Errorf("%s unlocks on unknown achievement %q", item.ID, item.Achievement)
			}
		case RuleBestScore, RuleWins:
			if item.Threshold <= 0 {
				t.Errorf("%s has no threshold", item.ID)
			}
		default:
			t.Errorf("%s has unknown rule %q", item.ID, item.Rule)
		}
	}
}

// A flawless run is the best any real match can do. Replaying it must be
// enough to earn every achievement and every catalog item.
func TestBestCaseMatchesUnlockEverything(t *testing.T) {
	db := openTestDB(t)
	hub := NewHub(db, nil, nil)
	id := mustCreatePlayer(t, db, "ace")

	cfg := sim.DefaultConfig()
	hits := maxHits(cfg)
	const durationMS = 20000
	best := MatchResult{
		PlayerID:         id,
		State:            sim.Victory,
		Score:            maxScore(cfg, hits, durationMS),
		DurationMS:       durationMS,
		RemainingSeconds: int((cfg.MatchDurationMS - durationMS) / 1000),
		Stats:            sim.Stats{Throws: hits, HitsLanded: hits, Defeated: len(cfg.Roster)},
	}
	if !plausible(ScoreSubmission{Score: best.Score, DurationMS: durationMS, Hits: hits}, cfg) {
		t.Fatalf("best case %+v should be a plausible submission", best)
	}

	got := map[string]bool{}
	for i := 0; i < 10; i++ {
		_, unlocked := hub.recordResult(best)
		for _, a := range unlocked.Achievements {
			got[a.ID] = true
		}
		for _, item := range unlocked.DLC {
			got[item.ID] = true
		}
	}
	for _, a := range Achievements {
		if !got[a.ID] {
			t.Errorf("achievement %s never unlocked", a.ID)
		}
	}
	for _, item := range DLCCatalog {
		if !got[item.ID] {
			t.Errorf("DLC %s never unlocked", item.ID)
		}
	}
}

func TestScoreThresholdsReachable(t *testing.T) {
	cfg := sim.DefaultConfig()
	// Fastest win that still earns speed_parker
	ceiling := maxScore(cfg, maxHits(cfg), cfg.MatchDurationMS-speedParkerSeconds*1000)
	if highRollerScore > ceiling {
		t.Errorf("high_roller needs %d, best score is %d", highRollerScore, ceiling)
	}
	for _, item := range DLCCatalog {
		if item.Rule == RuleBestScore && item.Threshold > ceiling {
			t.Errorf("%s needs %d, best score is %d", item.ID, item.Threshold, ceiling)
		}
	}
}
