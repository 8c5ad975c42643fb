package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"parking-server/server/sim"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
	maxSubmissionBytes      = 4 << 10
	statsWindowDays         = 7
)

func clampLimit(n int) int {
	if n <= 0 {
		return defaultLeaderboardLimit
	}
	if n > maxLeaderboardLimit {
		return maxLeaderboardLimit
	}
	return n
}

// ScoreSubmission is the body of POST /api/scores, sent by hosts that run
// the match themselves.
type ScoreSubmission struct {
	Score      int   `json:"score"`
	DurationMS int64 `json:"duration_ms"`
	Hits       int   `json:"hits,omitempty"`
	HitsTaken  int   `json:"hits_taken,omitempty"`
}

// ScoreResponse is returned for an accepted submission
type ScoreResponse struct {
	ScoredMsg
	Unlocked UnlockedMsg `json:"unlocked"`
}

// StatsResponse is the live and recent activity summary
type StatsResponse struct {
	Peers    int            `json:"peers"`
	Conns    int            `json:"conns"`
	Online   int            `json:"online"` // signed-in players
	Sessions int            `json:"sessions"`
	DAU      int            `json:"dau"`
	Events   map[string]int `json:"events"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorMsg{Msg: msg})
}

func (h *Hub) handleLeaderboardAPI(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeJSON(w, http.StatusOK, []LeaderboardEntry{})
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.leaderboard(limit)
	if err != nil {
		log.Printf("api: leaderboard: %v", err)
		writeError(w, http.StatusInternalServerError, "leaderboard unavailable")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Hub) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	if h.db == nil || h.auth == nil {
		writeError(w, http.StatusServiceUnavailable, "scores unavailable")
		return
	}
	playerID, _, err := h.auth.FromRequest(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	var sub ScoreSubmission
	r.Body = http.MaxBytesReader(w, r.Body, maxSubmissionBytes)
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	cfg := h.sessions.MatchConfig
	if !plausible(sub, cfg) {
		writeError(w, http.StatusBadRequest, "implausible score")
		return
	}
	limitMS := cfg.MatchDurationMS

	res := MatchResult{
		MatchID:          GenerateUUID(),
		PlayerID:         playerID,
		State:            sim.Victory,
		Score:            sub.Score,
		DurationMS:       sub.DurationMS,
		RemainingSeconds: int((limitMS - sub.DurationMS) / 1000),
		Stats:            sim.Stats{HitsLanded: sub.Hits, HitsTaken: sub.HitsTaken},
	}
	h.analytics.Track(EvtMatchEnd, playerID, "", eventData(map[string]interface{}{
		"mid":         res.MatchID,
		"state":       res.State.String(),
		"score":       res.Score,
		"duration_ms": res.DurationMS,
		"remote":      true,
	}))
	scored, unlocked := h.recordResult(res)
	if scored == nil {
		writeError(w, http.StatusInternalServerError, "could not store score")
		return
	}
	writeJSON(w, http.StatusCreated, ScoreResponse{ScoredMsg: *scored, Unlocked: unlocked})
}

// maxHits is the number of cone hits it takes to defeat the whole roster.
// Cones that hit a defeated driver do not count.
func maxHits(cfg sim.Config) int {
	perDriver := (sim.MaxHealth + sim.DriverHitDamage - 1) / sim.DriverHitDamage
	return len(cfg.Roster) * perDriver
}

// maxScore is the best score a won match with this many hits and this
// duration can reach: every hit rewarded, no penalties, the full time bonus.
func maxScore(cfg sim.Config, hits int, durationMS int64) int {
	return hits*sim.HitReward + int((cfg.MatchDurationMS-durationMS)/1000)
}

// plausible reports whether a submitted win could come from a real match.
func plausible(sub ScoreSubmission, cfg sim.Config) bool {
	switch {
	case sub.Score < 0, sub.Hits < 0, sub.HitsTaken < 0:
		return false
	case sub.DurationMS <= 0, sub.DurationMS > cfg.MatchDurationMS:
		return false
	case sub.Hits > maxHits(cfg):
		return false
	}
	return sub.Score <= maxScore(cfg, sub.Hits, sub.DurationMS)
}

func (h *Hub) handleDLCCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, DLCCatalog)
}

func (h *Hub) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := StatsResponse{
		Peers:    h.ClientCount(),
		Conns:    h.TotalConns(),
		Online:   h.OnlineCount(),
		Sessions: h.sessions.Count(),
		Events:   map[string]int{},
	}
	if h.analytics != nil {
		resp.Peers, resp.Sessions = h.analytics.GetLiveMetrics()
	}
	if dau, err := h.analytics.DAUCount(); err == nil {
		resp.DAU = dau
	} else {
		log.Printf("api: dau: %v", err)
	}
	if counts, err := h.analytics.EventCounts(statsWindowDays); err == nil {
		resp.Events = counts
	} else {
		log.Printf("api: event counts: %v", err)
	}
	writeJSON(w, http.StatusOK, resp)
}
