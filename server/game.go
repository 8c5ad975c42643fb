package main

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"parking-server/server/sim"
)

const (
	BroadcastRate  = 30 // state frames per second
	BroadcastEvery = sim.TickRate / BroadcastRate
)

const maxSpectatorsPerSession = 20

// Broadcaster receives session traffic
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// Tracker records analytics events without blocking
type Tracker interface {
	Track(evtType string, playerID int64, sessionID string, data string)
}

// MatchResult describes a finished match
type MatchResult struct {
	SessionID        string
	MatchID          string
	PlayerID         int64 // authenticated driver, 0 if anonymous
	State            sim.State
	Score            int
	TimeBonus        int
	DurationMS       int64
	RemainingSeconds int
	Stats            sim.Stats
}

// Victory reports whether the match was won
func (r MatchResult) Victory() bool {
	return r.State == sim.Victory
}

func (r MatchResult) toMsg() ResultMsg {
	return ResultMsg{
		MatchID:    r.MatchID,
		State:      r.State.String(),
		Victory:    r.Victory(),
		Score:      r.Score,
		TimeBonus:  r.TimeBonus,
		DurationMS: r.DurationMS,
		Throws:     r.Stats.Throws,
		Hits:       r.Stats.HitsLanded,
		HitsTaken:  r.Stats.HitsTaken,
		Defeated:   r.Stats.Defeated,
	}
}

// Game runs the matches of one session. One client drives; any number may
// watch. Only one match loop is ever live per Game.
type Game struct {
	ID  string
	cfg sim.Config

	tracker Tracker
	// onResult runs in its own goroutine after a match ends.
	onResult func(MatchResult)

	runner  sim.Runner
	startMu sync.Mutex // serializes Start and Stop

	mu         sync.RWMutex
	owner      Broadcaster
	ownerAuth  int64
	spectators map[string]Broadcaster
	input      sim.Input
	matchID    string
	last       sim.Snapshot
	running    bool
}

// NewGame creates an idle Game
func NewGame(id string, cfg sim.Config) *Game {
	return &Game{
		ID:         id,
		cfg:        cfg,
		spectators: make(map[string]Broadcaster),
	}
}

// Start begins a fresh match, cancelling the current one if any. It returns
// the new match ID.
func (g *Game) Start() string {
	g.startMu.Lock()
	defer g.startMu.Unlock()

	m := sim.NewMatch(g.cfg, rand.New(rand.NewSource(time.Now().UnixNano())))
	matchID := GenerateUUID()

	g.mu.Lock()
	g.matchID = matchID
	g.last = m.Snapshot()
	g.input = sim.Input{}
	g.running = true
	playerID := g.ownerAuth
	g.mu.Unlock()

	// g.mu must not be held here: the old loop may be inside onTick.
	g.runner.Start(context.Background(), m, g, func(snap sim.Snapshot, events []sim.Event) {
		g.onTick(matchID, snap, events)
	})

	if g.tracker != nil {
		g.tracker.Track(EvtMatchStart, playerID, g.ID, eventData(map[string]interface{}{"mid": matchID}))
	}
	return matchID
}

// Stop cancels the running match
func (g *Game) Stop() {
	g.startMu.Lock()
	defer g.startMu.Unlock()

	g.runner.Stop()

	g.mu.Lock()
	g.running = false
	g.matchID = ""
	g.mu.Unlock()
}

// Input is sampled by the match loop once per tick
func (g *Game) Input() sim.Input {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.input
}

// HandleInput stores the driver's held keys
func (g *Game) HandleInput(in sim.Input) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.input = in
}

// SetOwner hands the wheel to a client
func (g *Game) SetOwner(b Broadcaster, authPlayerID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.owner = b
	g.ownerAuth = authPlayerID
}

// ClearOwner removes the driver and stops the match
func (g *Game) ClearOwner() {
	g.mu.Lock()
	g.owner = nil
	g.ownerAuth = 0
	g.input = sim.Input{}
	g.mu.Unlock()
	g.Stop()
}

// Owner returns the driving client, or nil
func (g *Game) Owner() Broadcaster {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.owner
}

// AddSpectator adds a watcher. Returns false if the session is full.
func (g *Game) AddSpectator(id string, b Broadcaster) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.spectators) >= maxSpectatorsPerSession {
		return false
	}
	g.spectators[id] = b
	return true
}

// RemoveSpectator removes a watcher
func (g *Game) RemoveSpectator(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.spectators, id)
}

// PlayerCount returns the number of connected clients, driver included
func (g *Game) PlayerCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := len(g.spectators)
	if g.owner != nil {
		n++
	}
	return n
}

// Snapshot returns the state after the most recent tick
func (g *Game) Snapshot() sim.Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.last
}

// MatchID returns the current match ID, empty when stopped
func (g *Game) MatchID() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.matchID
}

// Running reports whether a match loop is live
func (g *Game) Running() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.running
}

func (g *Game) targetsLocked() []Broadcaster {
	targets := make([]Broadcaster, 0, len(g.spectators)+1)
	if g.owner != nil {
		targets = append(targets, g.owner)
	}
	for _, s := range g.spectators {
		targets = append(targets, s)
	}
	return targets
}

// onTick runs on the match loop goroutine after every tick.
func (g *Game) onTick(matchID string, snap sim.Snapshot, events []sim.Event) {
	g.mu.Lock()
	if g.matchID != matchID {
		// Late tick from a replaced match
		g.mu.Unlock()
		return
	}
	g.last = snap
	done := snap.State.Terminal()
	if done {
		g.running = false
	}
	targets := g.targetsLocked()
	playerID := g.ownerAuth
	g.mu.Unlock()

	for _, e := range events {
		if cue := e.Cue(); cue != "" {
			broadcastJSON(targets, Envelope{T: MsgCue, Data: CueMsg{
				Cue:      cue,
				DriverID: e.DriverID,
				Text:     e.Text,
				Tick:     e.Tick,
			}})
		}
		if e.Analytic() && g.tracker != nil {
			g.tracker.Track(e.Kind.String(), playerID, g.ID, eventData(map[string]interface{}{
				"mid":    matchID,
				"tick":   e.Tick,
				"driver": e.DriverID,
				"score":  e.Score,
			}))
		}
	}

	if snap.Tick%BroadcastEvery == 0 || done {
		broadcastState(targets, snap)
	}

	if !done {
		return
	}
	res := MatchResult{
		SessionID:        g.ID,
		MatchID:          matchID,
		PlayerID:         playerID,
		State:            snap.State,
		Score:            snap.Score,
		TimeBonus:        snap.TimeBonus,
		DurationMS:       snap.ElapsedMS,
		RemainingSeconds: snap.RemainingSeconds,
		Stats:            snap.Stats,
	}
	broadcastJSON(targets, Envelope{T: MsgResult, Data: res.toMsg()})
	if g.onResult != nil {
		go g.onResult(res)
	}
}

// broadcastState sends a msgpack state frame to every target
func broadcastState(targets []Broadcaster, snap sim.Snapshot) {
	data, err := msgpack.Marshal(stateFromSnapshot(snap))
	if err != nil {
		log.Printf("state encode error: %v", err)
		return
	}
	for _, t := range targets {
		t.SendBinary(data)
	}
}

// broadcastJSON sends a message to every target
func broadcastJSON(targets []Broadcaster, msg Envelope) {
	for _, t := range targets {
		t.SendJSON(msg)
	}
}

// eventData encodes analytics metadata
func eventData(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
