package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	jwtExpiry        = 7 * 24 * time.Hour // 7 days
	bcryptCost       = 12
	minPasswordLen   = 4
	minUsernameLen   = 2
	maxUsernameLen   = 16
	loginRateWindow  = 60 * time.Second
	maxLoginAttempts = 10
)

const tokenIssuer = "parking-server"

var (
	errInvalidCredentials = errors.New("invalid username or password")
	errTooManyAttempts    = errors.New("too many login attempts, try again later")
	errMissingToken       = errors.New("missing bearer token")
)

// driverClaims is the JWT payload handed to browser and terminal drivers
type driverClaims struct {
	PlayerID int64  `json:"pid"`
	Username string `json:"usr"`
	jwt.RegisteredClaims
}

// Auth handles accounts and tokens
type Auth struct {
	db        *DB
	jwtSecret []byte
	limiter   *loginLimiter
}

// loginLimiter counts login attempts per IP in fixed windows
type loginLimiter struct {
	mu     sync.Mutex
	window time.Duration
	limit  int
	hits   map[string]*rateEntry
}

type rateEntry struct {
	count   int
	resetAt time.Time
}

func newLoginLimiter(window time.Duration, limit int) *loginLimiter {
	return &loginLimiter{window: window, limit: limit, hits: make(map[string]*rateEntry)}
}

func (l *loginLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.hits[ip]
	if !ok || now.After(e.resetAt) {
		if len(l.hits) > 1024 {
			l.pruneLocked(now)
		}
		l.hits[ip] = &rateEntry{count: 1, resetAt: now.Add(l.window)}
		return true
	}
	e.count++
	return e.count <= l.limit
}

func (l *loginLimiter) pruneLocked(now time.Time) {
	for ip, e := range l.hits {
		if now.After(e.resetAt) {
			delete(l.hits, ip)
		}
	}
}

// NewAuth creates a new Auth handler. A non-empty secret overrides the one
// persisted in the database.
func NewAuth(db *DB, secret string) *Auth {
	key := []byte(secret)
	if secret == "" {
		key = loadOrCreateSecret(db)
	}
	return &Auth{
		db:        db,
		jwtSecret: key,
		limiter:   newLoginLimiter(loginRateWindow, maxLoginAttempts),
	}
}

// loadOrCreateSecret loads the JWT secret from the database, or generates
// and persists a new one if none exists.
func loadOrCreateSecret(db *DB) []byte {
	if db != nil {
		if h := db.GetSetting("jwt_secret"); h != "" {
			if b, err := hex.DecodeString(h); err == nil && len(b) == 32 {
				return b
			}
		}
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic("failed to generate JWT secret: " + err.Error())
	}
	if db != nil {
		if err := db.SetSetting("jwt_secret", hex.EncodeToString(secret)); err != nil {
			log.Printf("warning: could not persist JWT secret: %v", err)
		}
	}
	return secret
}

// Register creates a new account
func (a *Auth) Register(username, password string) (int64, string, error) {
	username = strings.TrimSpace(username)

	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return 0, "", fmt.Errorf("username must be %d-%d characters", minUsernameLen, maxUsernameLen)
	}
	if strings.HasPrefix(username, guestPrefix) {
		return 0, "", fmt.Errorf("username may not start with %q", guestPrefix)
	}
	if len(password) < minPasswordLen {
		return 0, "", fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}

	exists, err := a.db.UsernameExists(username)
	if err != nil {
		return 0, "", fmt.Errorf("database error")
	}
	if exists {
		return 0, "", fmt.Errorf("username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return 0, "", fmt.Errorf("internal error")
	}

	id, err := a.db.CreatePlayer(username, string(hash))
	if err != nil {
		return 0, "", fmt.Errorf("failed to create account")
	}

	token, err := a.generateToken(id, username)
	if err != nil {
		return 0, "", fmt.Errorf("internal error")
	}
	return id, token, nil
}

// Login authenticates a user and returns a JWT
func (a *Auth) Login(username, password, ip string) (int64, string, error) {
	if !a.checkRate(ip) {
		return 0, "", errTooManyAttempts
	}

	player, err := a.db.GetPlayerByUsername(strings.TrimSpace(username))
	if err != nil {
		return 0, "", fmt.Errorf("database error")
	}
	if player == nil || player.PassHash == "" {
		return 0, "", errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(player.PassHash), []byte(password)); err != nil {
		return 0, "", errInvalidCredentials
	}

	token, err := a.generateToken(player.ID, player.Username)
	if err != nil {
		return 0, "", fmt.Errorf("internal error")
	}
	return player.ID, token, nil
}

// Guest creates a throwaway account so anonymous players still keep
// stats for the life of their token. Returns (id, name, token).
func (a *Auth) Guest() (int64, string, string, error) {
	var (
		id   int64
		name string
		err  error
	)
	// Collisions on 3 random bytes are rare; retry a few times.
	for i := 0; i < 3; i++ {
		name = GenerateGuestName()
		id, err = a.db.CreateGuest(name)
		if err == nil {
			break
		}
	}
	if err != nil {
		return 0, "", "", fmt.Errorf("failed to create guest")
	}
	token, err := a.generateToken(id, name)
	if err != nil {
		return 0, "", "", fmt.Errorf("internal error")
	}
	return id, name, token, nil
}

// ValidateToken checks a token's signature, issuer and expiry and returns
// the player it names.
func (a *Auth) ValidateToken(tokenStr string) (int64, string, error) {
	var claims driverClaims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(*jwt.Token) (interface{}, error) {
		return a.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, "", err
	}
	if claims.PlayerID <= 0 || claims.Username == "" {
		return 0, "", fmt.Errorf("invalid token claims")
	}
	return claims.PlayerID, claims.Username, nil
}

// FromRequest validates the request's "Authorization: Bearer" token. The
// terminal host uses this to submit scores.
func (a *Auth) FromRequest(r *http.Request) (int64, string, error) {
	tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || tok == "" {
		return 0, "", errMissingToken
	}
	return a.ValidateToken(tok)
}

func (a *Auth) generateToken(playerID int64, username string) (string, error) {
	now := time.Now()
	claims := driverClaims{
		PlayerID: playerID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(jwtExpiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.jwtSecret)
}

func (a *Auth) checkRate(ip string) bool {
	return a.limiter.allow(ip, time.Now())
}

const guestPrefix = "Guest_"

// GenerateGuestName creates a unique guest name like "Guest_a3f2c1"
func GenerateGuestName() string {
	return guestPrefix + GenerateID(3)
}
