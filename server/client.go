package main

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"parking-server/server/sim"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 90
	maxNameLen        = 16
	maxSessionNameLen = 30
)

// outFrame is one queued websocket write
type outFrame struct {
	binary bool
	data   []byte
}

// msgBudget allows maxMessagesPerSec inbound messages per one-second window
type msgBudget struct {
	count   int
	resetAt time.Time
}

func (b *msgBudget) spend(now time.Time) bool {
	if now.After(b.resetAt) {
		b.count = 0
		b.resetAt = now.Add(time.Second)
	}
	b.count++
	return b.count <= maxMessagesPerSec
}

// Client is one browser connection. It either drives a session, watches
// one, or sits in the lobby.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan outFrame
	id         string
	sessionID  string
	remoteAddr string
	isOwner    bool
	budget     msgBudget
	// Auth state
	authPlayerID int64  // 0 = unauthenticated
	authUsername string // "" = unauthenticated
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan outFrame, sendBufSize),
		id:         GenerateID(4),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}

		if !c.budget.spend(time.Now()) {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		if msgType == websocket.BinaryMessage {
			if in, ok := decodeBinaryInput(message); ok {
				c.handleInput(in)
			}
			continue
		}
		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case f, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			kind := websocket.TextMessage
			if f.binary {
				kind = websocket.BinaryMessage
			}
			if err := c.conn.WriteMessage(kind, f.data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	c.SendRaw(data)
}

// SendRaw queues pre-marshaled JSON as a text frame
func (c *Client) SendRaw(data []byte) {
	c.enqueue(outFrame{data: data})
}

// SendBinary queues a msgpack state frame
func (c *Client) SendBinary(data []byte) {
	c.enqueue(outFrame{binary: true, data: data})
}

// enqueue drops the frame when the client is too slow to keep up.
func (c *Client) enqueue(f outFrame) {
	defer func() { recover() }() // send on closed channel after unregister
	select {
	case c.send <- f:
	default:
	}
}

func (c *Client) sendError(msg string) {
	c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: msg}})
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("unmarshal error: %v", err)
		return
	}

	switch env.T {
	case MsgList:
		c.handleList()
	case MsgCreate:
		c.handleCreate(env.D)
	case MsgWatch:
		c.handleWatch(env.D)
	case MsgInput:
		var in ClientInput
		if err := json.Unmarshal(env.D, &in); err == nil {
			c.handleInput(in.toSim())
		}
	case MsgRestart:
		c.handleRestart()
	case MsgLeave:
		c.handleLeave()
	case MsgCheck:
		c.handleCheck(env.D)
	case MsgRegister:
		c.handleRegister(env.D)
	case MsgLogin:
		c.handleLogin(env.D)
	case MsgGuest:
		c.handleGuest()
	case MsgAuth:
		c.handleAuth(env.D)
	case MsgProfile:
		c.handleProfile()
	case MsgLeaderboard:
		c.handleLeaderboard(env.D)
	case MsgDLC:
		c.SendJSON(Envelope{T: MsgDLC, Data: DLCCatalog})
	}
}

func (c *Client) handleList() {
	sessions := c.hub.sessions.ListSessions()
	c.SendJSON(Envelope{T: MsgSessions, Data: sessions})
}

func clampName(s, def string, max int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if r := []rune(s); len(r) > max {
		s = strings.TrimSpace(string(r[:max]))
	}
	return s
}

// handleCreate opens a new session with this client at the wheel and
// starts the first match right away.
func (c *Client) handleCreate(data json.RawMessage) {
	var msg CreateMsg
	if len(data) > 0 {
		if err := json.Unmarshal(data, &msg); err != nil {
			return
		}
	}
	name := clampName(msg.Name, "Driver", maxNameLen)
	if c.authUsername != "" {
		name = c.authUsername
	}
	sname := clampName(msg.SessionName, "Parking Lot", maxSessionNameLen)

	c.handleLeave()
	sess := c.hub.sessions.CreateSession(sname)
	if sess == nil {
		c.sendError("too many active sessions")
		return
	}
	sess.Owner = name
	c.sessionID = sess.ID
	c.isOwner = true

	sess.Game.SetOwner(c, c.authPlayerID)
	c.SendJSON(Envelope{T: MsgCreated, Data: map[string]string{"sid": sess.ID}})

	mid := sess.Game.Start()
	c.SendJSON(Envelope{T: MsgWelcome, Data: c.welcome(sess, mid, "driver")})
}

func (c *Client) handleWatch(data json.RawMessage) {
	var msg WatchMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	sess := c.hub.sessions.GetSession(msg.SessionID)
	if sess == nil {
		c.sendError("session not found")
		return
	}
	if sess.ID == c.sessionID {
		return
	}
	c.handleLeave()
	if !sess.Game.AddSpectator(c.id, c) {
		c.sendError("session full")
		return
	}
	c.sessionID = sess.ID
	c.isOwner = false
	c.SendJSON(Envelope{T: MsgWelcome, Data: c.welcome(sess, sess.Game.MatchID(), "spectator")})
}

func (c *Client) welcome(sess *Session, matchID, role string) WelcomeMsg {
	a := c.hub.sessions.MatchConfig.Arena
	return WelcomeMsg{
		SessionID: sess.ID,
		MatchID:   matchID,
		Role:      role,
		ArenaW:    int(a.MaxX - a.MinX),
		ArenaH:    int(a.MaxY - a.MinY),
	}
}

// ownedGame returns the Game this client drives, or nil
func (c *Client) ownedGame() *Game {
	if c.sessionID == "" || !c.isOwner {
		return nil
	}
	sess := c.hub.sessions.GetSession(c.sessionID)
	if sess == nil {
		return nil
	}
	return sess.Game
}

func (c *Client) handleInput(in sim.Input) {
	if g := c.ownedGame(); g != nil {
		g.HandleInput(in)
	}
}

func (c *Client) handleRestart() {
	g := c.ownedGame()
	if g == nil {
		c.sendError("not driving")
		return
	}
	sess := c.hub.sessions.GetSession(c.sessionID)
	mid := g.Start()
	c.SendJSON(Envelope{T: MsgWelcome, Data: c.welcome(sess, mid, "driver")})
}

func (c *Client) handleCheck(data json.RawMessage) {
	var msg CheckMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	sess := c.hub.sessions.GetSession(msg.SID)
	if sess == nil {
		c.SendJSON(Envelope{T: MsgChecked, Data: CheckedMsg{SID: msg.SID, Exists: false}})
		return
	}
	c.SendJSON(Envelope{T: MsgChecked, Data: CheckedMsg{
		SID:     msg.SID,
		Exists:  true,
		Name:    sess.Name,
		Players: sess.Game.PlayerCount(),
	}})
}

func (c *Client) handleLeave() {
	if c.sessionID == "" {
		return
	}
	c.hub.sessions.RemoveClient(c.sessionID, c.id, c.isOwner)
	c.sessionID = ""
	c.isOwner = false
}

func (c *Client) authenticated(id int64, username, token string, guest bool) {
	c.authPlayerID = id
	c.authUsername = username
	c.hub.SetOnline(id, c)
	if g := c.ownedGame(); g != nil {
		g.SetOwner(c, id)
	}
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:    token,
		Username: username,
		PlayerID: id,
		Guest:    guest,
	}})
}

func (c *Client) handleRegister(data json.RawMessage) {
	if c.hub.auth == nil {
		c.sendError("accounts are disabled")
		return
	}
	var msg RegisterMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Register(msg.Username, msg.Password)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.hub.analytics.Track(EvtSessionStart, id, "", "")
	c.authenticated(id, strings.TrimSpace(msg.Username), token, false)
}

func (c *Client) handleLogin(data json.RawMessage) {
	if c.hub.auth == nil {
		c.sendError("accounts are disabled")
		return
	}
	var msg LoginMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Login(msg.Username, msg.Password, c.remoteAddr)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.hub.analytics.Track(EvtSessionStart, id, "", "")
	c.authenticated(id, msg.Username, token, false)
}

func (c *Client) handleGuest() {
	if c.hub.auth == nil {
		c.sendError("accounts are disabled")
		return
	}
	id, name, token, err := c.hub.auth.Guest()
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.hub.analytics.Track(EvtSessionStart, id, "", `{"guest":true}`)
	c.authenticated(id, name, token, true)
}

func (c *Client) handleAuth(data json.RawMessage) {
	if c.hub.auth == nil {
		c.sendError("accounts are disabled")
		return
	}
	var msg AuthMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, username, err := c.hub.auth.ValidateToken(msg.Token)
	if err != nil {
		c.sendError("invalid token")
		return
	}
	c.hub.analytics.Track(EvtSessionStart, id, "", "")
	c.authenticated(id, username, msg.Token, false)
}

func (c *Client) handleProfile() {
	if c.hub.db == nil || c.authPlayerID == 0 {
		c.sendError("not authenticated")
		return
	}
	stats, err := c.hub.db.GetStats(c.authPlayerID)
	if err != nil || stats == nil {
		c.sendError("profile not found")
		return
	}
	achievements, _ := c.hub.db.GetAchievements(c.authPlayerID)
	dlc, _ := c.hub.db.GetDLCUnlocks(c.authPlayerID)
	c.SendJSON(Envelope{T: MsgProfile, Data: ProfileDataMsg{
		Username:     c.authUsername,
		Matches:      stats.Matches,
		Wins:         stats.Wins,
		Losses:       stats.Losses,
		BestScore:    stats.BestScore,
		TotalHits:    stats.TotalHits,
		Playtime:     stats.Playtime,
		Achievements: achievements,
		DLC:          dlc,
	}})
}

func (c *Client) handleLeaderboard(data json.RawMessage) {
	if c.hub.db == nil {
		c.SendJSON(Envelope{T: MsgLeaderboard, Data: []LeaderboardEntry{}})
		return
	}
	var msg LeaderboardMsg
	if len(data) > 0 {
		json.Unmarshal(data, &msg)
	}
	entries, err := c.hub.leaderboard(msg.Limit)
	if err != nil {
		log.Printf("leaderboard: %v", err)
		c.sendError("leaderboard unavailable")
		return
	}
	c.SendJSON(Envelope{T: MsgLeaderboard, Data: entries})
}
