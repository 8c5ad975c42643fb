package main

import (
	"encoding/json"

	"parking-server/server/sim"
)

// Client -> Server message types
const (
	MsgRegister    = "register"
	MsgLogin       = "login"
	MsgGuest       = "guest"
	MsgAuth        = "auth"   // resume with a stored token
	MsgCreate      = "create" // start a new match session
	MsgWatch       = "watch"  // spectate a session
	MsgInput       = "input"
	MsgRestart     = "restart"
	MsgLeave       = "leave"
	MsgList        = "list"  // list sessions
	MsgCheck       = "check" // check if session exists
	MsgProfile     = "profile"
	MsgLeaderboard = "leaderboard"
	MsgDLC         = "dlc"
)

// Server -> Client message types
const (
	MsgAuthOK   = "auth_ok"
	MsgCreated  = "created" // session created, client should navigate
	MsgWelcome  = "welcome"
	MsgState    = "state" // binary msgpack frame
	MsgCue      = "cue"
	MsgResult   = "result"
	MsgUnlocked = "unlocked"
	MsgScored   = "scored"
	MsgSessions = "sessions"
	MsgChecked  = "checked"
	MsgError    = "error"
)

// Binary input frame: [inputMarker, flags]
const (
	inputMarker = 0x01

	flagUp    = 1 << 0
	flagDown  = 1 << 1
	flagLeft  = 1 << 2
	flagRight = 1 << 3
	flagFire  = 1 << 4
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// ClientInput is the JSON form of the held keys
type ClientInput struct {
	Up    bool `json:"up"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
	Right bool `json:"right"`
	Fire  bool `json:"fire"`
}

func (in ClientInput) toSim() sim.Input {
	return sim.Input{Up: in.Up, Down: in.Down, Left: in.Left, Right: in.Right, Fire: in.Fire}
}

// decodeBinaryInput parses a 2-byte input frame.
func decodeBinaryInput(msg []byte) (sim.Input, bool) {
	if len(msg) != 2 || msg[0] != inputMarker {
		return sim.Input{}, false
	}
	f := msg[1]
	return sim.Input{
		Up:    f&flagUp != 0,
		Down:  f&flagDown != 0,
		Left:  f&flagLeft != 0,
		Right: f&flagRight != 0,
		Fire:  f&flagFire != 0,
	}, true
}

// CreateMsg is sent when a player starts a session
type CreateMsg struct {
	Name        string `json:"name"`
	SessionName string `json:"sname"`
}

// WatchMsg is sent to spectate a session
type WatchMsg struct {
	Name      string `json:"name"`
	SessionID string `json:"sid"`
}

// RegisterMsg creates an account
type RegisterMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginMsg logs into an existing account
type LoginMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthMsg resumes a session from a stored JWT
type AuthMsg struct {
	Token string `json:"token"`
}

// AuthOKMsg confirms authentication
type AuthOKMsg struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	PlayerID int64  `json:"pid"`
	Guest    bool   `json:"guest,omitempty"`
}

// LeaderboardMsg requests the top scores
type LeaderboardMsg struct {
	Limit int `json:"limit"`
}

// PlayerState is the player's car in a state frame
type PlayerState struct {
	X      float64 `msgpack:"x" json:"x"`
	Y      float64 `msgpack:"y" json:"y"`
	Facing string  `msgpack:"f" json:"f"`
	Health int     `msgpack:"hp" json:"hp"`
}

// DriverState is one driver in a state frame
type DriverState struct {
	ID       string  `msgpack:"id" json:"id"`
	Name     string  `msgpack:"n" json:"n"`
	Kind     string  `msgpack:"k" json:"k"`
	Home     string  `msgpack:"h" json:"h"` // home art asset
	X        float64 `msgpack:"x" json:"x"`
	Y        float64 `msgpack:"y" json:"y"`
	Health   int     `msgpack:"hp" json:"hp"`
	Defeated bool    `msgpack:"df" json:"df"`
}

// ProjectileState is one projectile in a state frame
type ProjectileState struct {
	ID   uint32  `msgpack:"id" json:"id"`
	Type string  `msgpack:"t" json:"t"`
	X    float64 `msgpack:"x" json:"x"`
	Y    float64 `msgpack:"y" json:"y"`
}

// GameState is the full state frame, sent as msgpack
type GameState struct {
	Tick        int               `msgpack:"tick" json:"tick"`
	State       string            `msgpack:"st" json:"st"`
	Score       int               `msgpack:"sc" json:"sc"`
	Remaining   int               `msgpack:"rem" json:"rem"` // seconds, rounded up
	InZone      bool              `msgpack:"z" json:"z"`
	Hold        float64           `msgpack:"hold" json:"hold"` // 0..1
	Player      PlayerState       `msgpack:"p" json:"p"`
	Drivers     []DriverState     `msgpack:"d" json:"d"`
	Projectiles []ProjectileState `msgpack:"pr" json:"pr"`
}

// stateFromSnapshot converts a simulation snapshot to its wire form.
func stateFromSnapshot(s sim.Snapshot) GameState {
	gs := GameState{
		Tick:      s.Tick,
		State:     s.State.String(),
		Score:     s.Score,
		Remaining: s.RemainingSeconds,
		InZone:    s.InZone,
		Hold:      s.HoldProgress(),
		Player: PlayerState{
			X:      round1(s.Player.X),
			Y:      round1(s.Player.Y),
			Facing: s.Player.Facing.String(),
			Health: s.Player.Health,
		},
		Drivers:     make([]DriverState, 0, len(s.Drivers)),
		Projectiles: make([]ProjectileState, 0, len(s.Projectiles)),
	}
	for _, d := range s.Drivers {
		gs.Drivers = append(gs.Drivers, DriverState{
			ID:       d.ID,
			Name:     d.Name,
			Kind:     d.Kind.String(),
			Home:     d.Kind.HomeAsset(),
			X:        round1(d.X),
			Y:        round1(d.Y),
			Health:   d.Health,
			Defeated: d.Defeated,
		})
	}
	for _, p := range s.Projectiles {
		gs.Projectiles = append(gs.Projectiles, ProjectileState{
			ID:   p.ID,
			Type: p.Type.String(),
			X:    round1(p.X),
			Y:    round1(p.Y),
		})
	}
	return gs
}

// WelcomeMsg is sent when a client enters a session
type WelcomeMsg struct {
	SessionID string `json:"sid"`
	MatchID   string `json:"mid"`
	Role      string `json:"role"` // "driver" or "spectator"
	ArenaW    int    `json:"aw"`
	ArenaH    int    `json:"ah"`
}

// CueMsg tells clients to play a sound or effect
type CueMsg struct {
	Cue      string `json:"cue"`
	DriverID string `json:"did,omitempty"`
	Text     string `json:"text,omitempty"`
	Tick     int    `json:"tick"`
}

// ResultMsg announces the end of a match
type ResultMsg struct {
	MatchID    string `json:"mid"`
	State      string `json:"state"`
	Victory    bool   `json:"victory"`
	Score      int    `json:"score"`
	TimeBonus  int    `json:"bonus"`
	DurationMS int64  `json:"duration_ms"`
	Throws     int    `json:"throws"`
	Hits       int    `json:"hits"`
	HitsTaken  int    `json:"hits_taken"`
	Defeated   int    `json:"defeated"`
}

// UnlockedMsg lists achievements and DLC earned by the last match
type UnlockedMsg struct {
	Achievements []AchievementDef `json:"achievements,omitempty"`
	DLC          []DLCItem        `json:"dlc,omitempty"`
}

// ProfileDataMsg is the response to a profile request
type ProfileDataMsg struct {
	Username     string   `json:"username"`
	Matches      int      `json:"matches"`
	Wins         int      `json:"wins"`
	Losses       int      `json:"losses"`
	BestScore    int      `json:"best_score"`
	TotalHits    int      `json:"total_hits"`
	Playtime     float64  `json:"playtime"`
	Achievements []string `json:"achievements"`
	DLC          []string `json:"dlc"`
}

// SessionInfo is used in the session list
type SessionInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Players int    `json:"players"`
	State   string `json:"state"`
	Score   int    `json:"score"`
}

// ErrorMsg sends error to client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// CheckMsg is sent by client to check if a session exists
type CheckMsg struct {
	SID string `json:"sid"`
}

// CheckedMsg is the response to a session check
type CheckedMsg struct {
	SID     string `json:"sid"`
	Exists  bool   `json:"exists"`
	Name    string `json:"name,omitempty"`
	Players int    `json:"players,omitempty"`
}

// ScoredMsg confirms a submitted score and where to share it
type ScoredMsg struct {
	ID       int64  `json:"id"`
	Score    int    `json:"score"`
	ShareURL string `json:"url"`
	QRPath   string `json:"qr"`
}
