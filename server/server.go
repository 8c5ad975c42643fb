package main

import (
	"log"
	"net"
	"net/http"
	"net/url"
	"path/filepath"
	"regexp"

	"github.com/gorilla/websocket"
)

// Client-side routes that the browser app resolves itself
var (
	sessionLinkRe = regexp.MustCompile(`^/[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	scoreLinkRe   = regexp.MustCompile(`^/score/[0-9]+$`)
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     sameOrigin,
}

// sameOrigin accepts browsers from this host and any client without an Origin
// header, such as scripts and tests.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && u.Host == r.Host
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func isAppRoute(path string) bool {
	return path == "/" || sessionLinkRe.MatchString(path) || scoreLinkRe.MatchString(path)
}

// spaHandler serves the static client uncached, answering shared session and
// score links with index.html.
func spaHandler(clientDir string) http.Handler {
	files := http.FileServer(http.Dir(clientDir))
	index := filepath.Join(clientDir, "index.html")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		if isAppRoute(r.URL.Path) {
			http.ServeFile(w, r, index)
			return
		}
		files.ServeHTTP(w, r)
	})
}

// serveWS upgrades a lobby connection once the per-IP and global limits allow it.
func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	ip := extractIP(r)
	if !h.CanAccept(ip) {
		http.Error(w, "too many connections", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrade error: %v", err)
		return
	}
	h.TrackConnect(ip)

	client := NewClient(h, conn, ip)
	h.register <- client

	go client.WritePump()
	go client.ReadPump()
}

// SetupRoutes wires the static client, the websocket lobby and the REST API.
func SetupRoutes(hub *Hub, clientDir string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/", spaHandler(clientDir))
	mux.HandleFunc("/ws", hub.serveWS)

	mux.HandleFunc("GET /api/leaderboard", hub.handleLeaderboardAPI)
	mux.HandleFunc("POST /api/scores", hub.handleSubmitScore)
	mux.HandleFunc("GET /api/scores/{id}/qr", hub.handleScoreQR)
	mux.HandleFunc("GET /api/dlc", hub.handleDLCCatalog)
	mux.HandleFunc("GET /api/stats", hub.handleStats)
	return mux
}
