package main

import (
	"database/sql"
	"errors"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// PlayerRow represents a player record in the database
type PlayerRow struct {
	ID        int64
	Username  string
	PassHash  string
	IsGuest   bool
	CreatedAt time.Time
}

// StatsRow represents player stats
type StatsRow struct {
	PlayerID  int64
	Matches   int
	Wins      int
	Losses    int
	BestScore int
	TotalHits int
	Playtime  float64 // seconds
}

// ScoreRow is one submitted victory
type ScoreRow struct {
	ID         int64
	PlayerID   int64
	Username   string
	Score      int
	DurationMS int64
	CreatedAt  time.Time
}

// LeaderboardEntry represents one row in the leaderboard
type LeaderboardEntry struct {
	Rank       int       `json:"rank"`
	ScoreID    int64     `json:"id"`
	PlayerID   int64     `json:"-"`
	Username   string    `json:"username"`
	Online     bool      `json:"online"`
	Score      int       `json:"score"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	// Per-connection pragmas go in the DSN so every pooled connection gets them.
	conn, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		pass_hash TEXT NOT NULL DEFAULT '',
		is_guest INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS stats (
		player_id INTEGER PRIMARY KEY REFERENCES players(id),
		matches INTEGER NOT NULL DEFAULT 0,
		wins INTEGER NOT NULL DEFAULT 0,
		losses INTEGER NOT NULL DEFAULT 0,
		best_score INTEGER NOT NULL DEFAULT 0,
		total_hits INTEGER NOT NULL DEFAULT 0,
		playtime REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS scores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		player_id INTEGER NOT NULL REFERENCES players(id),
		score INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		victory INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS achievements (
		player_id INTEGER NOT NULL REFERENCES players(id),
		achievement_id TEXT NOT NULL,
		unlocked_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (player_id, achievement_id)
	);

	CREATE TABLE IF NOT EXISTS dlc_unlocks (
		player_id INTEGER NOT NULL REFERENCES players(id),
		item_id TEXT NOT NULL,
		unlocked_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (player_id, item_id)
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS analytics_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		player_id INTEGER,
		session_id TEXT,
		data TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scores_player ON scores(player_id, score DESC);
	CREATE INDEX IF NOT EXISTS idx_scores_score ON scores(score DESC);
	CREATE INDEX IF NOT EXISTS idx_analytics_type ON analytics_events(event_type, created_at);
	`
	_, err := db.conn.Exec(schema)
	if err != nil {
		log.Printf("DB migration error: %v", err)
	}
	return err
}

// CreatePlayer creates a new player account (returns player ID)
func (db *DB) CreatePlayer(username, passHash string) (int64, error) {
	return db.insertPlayer(username, passHash, false)
}

// CreateGuest creates a guest player (no password)
func (db *DB) CreateGuest(username string) (int64, error) {
	return db.insertPlayer(username, "", true)
}

func (db *DB) insertPlayer(username, passHash string, guest bool) (int64, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"INSERT INTO players (username, pass_hash, is_guest) VALUES (?, ?, ?)",
		username, passHash, guest,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if _, err := tx.Exec("INSERT INTO stats (player_id) VALUES (?)", id); err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

// GetPlayerByUsername returns a player by username
func (db *DB) GetPlayerByUsername(username string) (*PlayerRow, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, pass_hash, is_guest, created_at FROM players WHERE username = ?",
		username,
	)
	return scanPlayer(row)
}

// GetPlayerByID returns a player by ID
func (db *DB) GetPlayerByID(id int64) (*PlayerRow, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, pass_hash, is_guest, created_at FROM players WHERE id = ?",
		id,
	)
	return scanPlayer(row)
}

func scanPlayer(row *sql.Row) (*PlayerRow, error) {
	p := &PlayerRow{}
	err := row.Scan(&p.ID, &p.Username, &p.PassHash, &p.IsGuest, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UsernameExists checks if a username is taken
func (db *DB) UsernameExists(username string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM players WHERE username = ?", username).Scan(&count)
	return count > 0, err
}

// GetStats returns player stats
func (db *DB) GetStats(playerID int64) (*StatsRow, error) {
	row := db.conn.QueryRow(
		"SELECT player_id, matches, wins, losses, best_score, total_hits, playtime FROM stats WHERE player_id = ?",
		playerID,
	)
	s := &StatsRow{}
	err := row.Scan(&s.PlayerID, &s.Matches, &s.Wins, &s.Losses, &s.BestScore, &s.TotalHits, &s.Playtime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// RecordMatchResult folds a finished match into the player's stats
func (db *DB) RecordMatchResult(playerID int64, won bool, hits int, durationMS int64) error {
	winInc, lossInc := 0, 1
	if won {
		winInc, lossInc = 1, 0
	}
	_, err := db.conn.Exec(`
		UPDATE stats SET
			matches = matches + 1,
			wins = wins + ?,
			losses = losses + ?,
			total_hits = total_hits + ?,
			playtime = playtime + ?
		WHERE player_id = ?`,
		winInc, lossInc, hits, float64(durationMS)/1000, playerID,
	)
	return err
}

// SubmitScore stores a victory score and raises the player's best.
// Returns the new score ID.
func (db *DB) SubmitScore(playerID int64, score int, durationMS int64) (int64, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"INSERT INTO scores (player_id, score, duration_ms) VALUES (?, ?, ?)",
		playerID, score, durationMS,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if _, err := tx.Exec(
		"UPDATE stats SET best_score = MAX(best_score, ?) WHERE player_id = ?",
		score, playerID,
	); err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

// GetScore returns a submitted score by ID
func (db *DB) GetScore(id int64) (*ScoreRow, error) {
	row := db.conn.QueryRow(`
		SELECT s.id, s.player_id, p.username, s.score, s.duration_ms, s.created_at
		FROM scores s JOIN players p ON p.id = s.player_id
		WHERE s.id = ?`, id)
	s := &ScoreRow{}
	err := row.Scan(&s.ID, &s.PlayerID, &s.Username, &s.Score, &s.DurationMS, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetLeaderboard returns each registered player's best score, highest first.
// Equal scores rank by who got there first.
func (db *DB) GetLeaderboard(limit int) ([]LeaderboardEntry, error) {
	rows, err := db.conn.Query(`
		SELECT s.id, p.id, p.username, s.score, s.duration_ms, s.created_at
		FROM scores s JOIN players p ON p.id = s.player_id
		WHERE p.is_guest = 0 AND s.id = (
			SELECT s2.id FROM scores s2 WHERE s2.player_id = s.player_id
			ORDER BY s2.score DESC, s2.id ASC LIMIT 1
		)
		ORDER BY s.score DESC, s.id ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.ScoreID, &e.PlayerID, &e.Username, &e.Score, &e.DurationMS, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		result = append(result, e)
	}
	return result, rows.Err()
}

// GetAchievements returns the IDs a player has unlocked
func (db *DB) GetAchievements(playerID int64) ([]string, error) {
	return db.listIDs("SELECT achievement_id FROM achievements WHERE player_id = ? ORDER BY unlocked_at, achievement_id", playerID)
}

// UnlockAchievement records an achievement. Returns true if it was new.
func (db *DB) UnlockAchievement(playerID int64, id string) (bool, error) {
	return db.insertOnce("INSERT OR IGNORE INTO achievements (player_id, achievement_id) VALUES (?, ?)", playerID, id)
}

// GetDLCUnlocks returns the DLC item IDs a player owns
func (db *DB) GetDLCUnlocks(playerID int64) ([]string, error) {
	return db.listIDs("SELECT item_id FROM dlc_unlocks WHERE player_id = ? ORDER BY unlocked_at, item_id", playerID)
}

// UnlockDLC records a DLC unlock. Returns true if it was new.
func (db *DB) UnlockDLC(playerID int64, itemID string) (bool, error) {
	return db.insertOnce("INSERT OR IGNORE INTO dlc_unlocks (player_id, item_id) VALUES (?, ?)", playerID, itemID)
}

func (db *DB) listIDs(query string, playerID int64) ([]string, error) {
	rows, err := db.conn.Query(query, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (db *DB) insertOnce(query string, playerID int64, id string) (bool, error) {
	res, err := db.conn.Exec(query, playerID, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// GetSetting returns a persisted setting, or "" if unset
func (db *DB) GetSetting(key string) string {
	var v string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&v)
	if err != nil {
		return ""
	}
	return v
}

// SetSetting persists a setting
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}
