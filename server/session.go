package main

import (
	"sync"
	"time"

	"parking-server/server/sim"
)

const maxSessions = 100

// SessionIdleTimeout is how long an empty session lingers before removal
var SessionIdleTimeout = 30 * time.Second

// Session is one parking lot: a Game plus its lobby metadata
type Session struct {
	ID    string
	Name  string
	Owner string // display name of the driver
	Game  *Game
}

// SessionManager handles creation and lookup of sessions
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	// MatchConfig is used for every new Game.
	MatchConfig sim.Config
	tracker     Tracker
	onResult    func(*Session, MatchResult)
}

// NewSessionManager creates a new SessionManager
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		MatchConfig: sim.DefaultConfig(),
	}
}

// CreateSession creates an idle session. Returns nil if limit reached.
func (sm *SessionManager) CreateSession(name string) *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.sessions) >= maxSessions {
		return nil
	}

	id := GenerateUUID()
	game := NewGame(id, sm.MatchConfig)
	sess := &Session{
		ID:   id,
		Name: name,
		Game: game,
	}
	game.tracker = sm.tracker
	if sm.onResult != nil {
		game.onResult = func(res MatchResult) { sm.onResult(sess, res) }
	}
	sm.sessions[id] = sess
	return sess
}

// GetSession returns a session by ID
func (sm *SessionManager) GetSession(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// RemoveClient detaches a client from a session. When the driver leaves the
// match stops; an empty session is removed after SessionIdleTimeout.
func (sm *SessionManager) RemoveClient(sessionID, clientID string, isOwner bool) {
	sess := sm.GetSession(sessionID)
	if sess == nil {
		return
	}
	if isOwner {
		sess.Game.ClearOwner()
	} else {
		sess.Game.RemoveSpectator(clientID)
	}
	if sess.Game.PlayerCount() == 0 {
		time.AfterFunc(SessionIdleTimeout, func() { sm.reapIfEmpty(sessionID) })
	}
}

func (sm *SessionManager) reapIfEmpty(id string) {
	sm.mu.Lock()
	sess, ok := sm.sessions[id]
	if !ok || sess.Game.PlayerCount() > 0 {
		sm.mu.Unlock()
		return
	}
	delete(sm.sessions, id)
	sm.mu.Unlock()

	sess.Game.Stop()
}

// Count returns the number of live sessions
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// ListSessions returns info about all active sessions
func (sm *SessionManager) ListSessions() []SessionInfo {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	list := make([]SessionInfo, 0, len(sm.sessions))
	for _, sess := range sm.sessions {
		snap := sess.Game.Snapshot()
		list = append(list, SessionInfo{
			ID:      sess.ID,
			Name:    sess.Name,
			Players: sess.Game.PlayerCount(),
			State:   snap.State.String(),
			Score:   snap.Score,
		})
	}
	return list
}

// StopAll halts every match loop, used on shutdown
func (sm *SessionManager) StopAll() {
	sm.mu.RLock()
	games := make([]*Game, 0, len(sm.sessions))
	for _, sess := range sm.sessions {
		games = append(games, sess.Game)
	}
	sm.mu.RUnlock()

	for _, g := range games {
		g.Stop()
	}
}
