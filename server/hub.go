package main

import (
	"log"
	"sync"
)

const (
	maxConnsPerIP = 5
	maxTotalConns = 1000
)

// Hub manages all connected clients and routes them to sessions
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	sessions   *SessionManager
	// Connection limiting (mutex-protected, accessed from HTTP handlers)
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int
	// Auth, persistence, tracking; any may be nil
	db        *DB
	auth      *Auth
	analytics *Analytics
	baseURL   string
	// Online auth users: authPlayerID -> *Client
	onlineMu    sync.RWMutex
	onlineUsers map[int64]*Client
}

// NewHub creates a new Hub. db, auth and analytics are optional.
func NewHub(db *DB, auth *Auth, analytics *Analytics) *Hub {
	h := &Hub{
		clients:     make(map[*Client]bool),
		register:    make(chan *Client, 64),
		unregister:  make(chan *Client, 64),
		sessions:    NewSessionManager(),
		ipConns:     make(map[string]int),
		db:          db,
		auth:        auth,
		analytics:   analytics,
		onlineUsers: make(map[int64]*Client),
	}
	if analytics != nil {
		h.sessions.tracker = analytics
	}
	h.sessions.onResult = h.handleResult
	return h
}

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= maxTotalConns {
		return false
	}
	if h.ipConns[ip] >= maxConnsPerIP {
		return false
	}
	return true
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// Run processes register/unregister events
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.updateLiveMetrics()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			if client.authPlayerID != 0 {
				h.SetOffline(client.authPlayerID, client)
			}
			// Remove from session if in one
			if client.sessionID != "" {
				h.sessions.RemoveClient(client.sessionID, client.id, client.isOwner)
			}
			h.updateLiveMetrics()
		}
	}
}

func (h *Hub) updateLiveMetrics() {
	h.analytics.SetConcurrentPeers(h.ClientCount())
	h.analytics.SetActiveSessions(h.sessions.Count())
}

// handleResult persists a finished match and reports any unlocks to the
// driver. It runs off the match loop.
func (h *Hub) handleResult(sess *Session, res MatchResult) {
	h.analytics.Track(EvtMatchEnd, res.PlayerID, res.SessionID, eventData(map[string]interface{}{
		"mid":         res.MatchID,
		"state":       res.State.String(),
		"score":       res.Score,
		"duration_ms": res.DurationMS,
	}))
	if h.db == nil || res.PlayerID == 0 {
		return
	}

	scored, unlocked := h.recordResult(res)
	owner := sess.Game.Owner()
	if owner == nil {
		return
	}
	if scored != nil {
		owner.SendJSON(Envelope{T: MsgScored, Data: *scored})
	}
	if len(unlocked.Achievements) > 0 || len(unlocked.DLC) > 0 {
		owner.SendJSON(Envelope{T: MsgUnlocked, Data: unlocked})
	}
}

// recordResult updates the player's stats, stores the score of a victory
// and runs the unlock checks. scored is nil unless a score was stored.
func (h *Hub) recordResult(res MatchResult) (scored *ScoredMsg, unlocked UnlockedMsg) {
	if err := h.db.RecordMatchResult(res.PlayerID, res.Victory(), res.Stats.HitsLanded, res.DurationMS); err != nil {
		log.Printf("record match %s: %v", res.MatchID, err)
	}

	if res.Victory() {
		id, err := h.db.SubmitScore(res.PlayerID, res.Score, res.DurationMS)
		if err != nil {
			log.Printf("submit score for match %s: %v", res.MatchID, err)
		} else {
			h.analytics.Track(EvtScoreSubmit, res.PlayerID, res.SessionID, eventData(map[string]interface{}{
				"score_id": id,
				"score":    res.Score,
			}))
			msg := h.scoredMsg(id, res.Score)
			scored = &msg
		}
	}

	for _, a := range CheckAchievements(h.db, res.PlayerID, res) {
		h.analytics.Track(EvtAchievement, res.PlayerID, res.SessionID, eventData(map[string]string{"id": a.ID}))
		unlocked.Achievements = append(unlocked.Achievements, a)
	}
	for _, item := range CheckDLCUnlocks(h.db, res.PlayerID) {
		h.analytics.Track(EvtDLCUnlock, res.PlayerID, res.SessionID, eventData(map[string]string{"id": item.ID}))
		unlocked.DLC = append(unlocked.DLC, item)
	}
	return scored, unlocked
}

func (h *Hub) scoredMsg(id int64, score int) ScoredMsg {
	return ScoredMsg{
		ID:       id,
		Score:    score,
		ShareURL: shareURL(h.baseURL, id),
		QRPath:   qrPath(id),
	}
}

// SetOnline marks an authenticated user as online
func (h *Hub) SetOnline(playerID int64, client *Client) {
	h.onlineMu.Lock()
	defer h.onlineMu.Unlock()
	h.onlineUsers[playerID] = client
}

// SetOffline removes an authenticated user from online tracking, unless
// they have since reconnected on another client
func (h *Hub) SetOffline(playerID int64, client *Client) {
	h.onlineMu.Lock()
	defer h.onlineMu.Unlock()
	if h.onlineUsers[playerID] == client {
		delete(h.onlineUsers, playerID)
	}
}

// IsOnline checks if a player is online
func (h *Hub) IsOnline(playerID int64) bool {
	h.onlineMu.RLock()
	defer h.onlineMu.RUnlock()
	_, ok := h.onlineUsers[playerID]
	return ok
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// OnlineCount returns the number of signed-in players connected right now
func (h *Hub) OnlineCount() int {
	h.onlineMu.RLock()
	defer h.onlineMu.RUnlock()
	return len(h.onlineUsers)
}

// leaderboard returns the top entries with each player's online flag set
func (h *Hub) leaderboard(limit int) ([]LeaderboardEntry, error) {
	entries, err := h.db.GetLeaderboard(clampLimit(limit))
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Online = h.IsOnline(entries[i].PlayerID)
	}
	if entries == nil {
		entries = []LeaderboardEntry{}
	}
	return entries, nil
}

// TotalConns returns the tracked connection count
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}
