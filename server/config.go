package main

import (
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds the server settings. Every flag falls back to a PARKING_*
// environment variable, which may come from a .env file.
type Config struct {
	Addr         string
	ClientDir    string
	DBPath       string
	BaseURL      string
	AnalyticsURL string
	AnalyticsKey string
	JWTSecret    string
}

// LoadConfig reads the optional env file, then parses args on top of the
// environment. A missing env file is not an error.
func LoadConfig(envFile string, args []string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return Config{}, err
			}
		} else {
			log.Printf("loaded environment from %s", envFile)
		}
	}

	var cfg Config
	fsFlags := flag.NewFlagSet("parking-server", flag.ContinueOnError)
	fsFlags.StringVar(&cfg.Addr, "addr", envOr("PARKING_ADDR", ":8080"), "HTTP listen address")
	fsFlags.StringVar(&cfg.ClientDir, "client", envOr("PARKING_CLIENT_DIR", ""), "Path to client directory (default: ../client)")
	fsFlags.StringVar(&cfg.DBPath, "db", envOr("PARKING_DB", "parking.db"), "SQLite database path")
	fsFlags.StringVar(&cfg.BaseURL, "base-url", envOr("PARKING_BASE_URL", "http://localhost:8080"), "Public URL used in share links")
	fsFlags.StringVar(&cfg.AnalyticsURL, "analytics-url", envOr("PARKING_ANALYTICS_URL", ""), "Third-party analytics endpoint (empty disables forwarding)")
	fsFlags.StringVar(&cfg.AnalyticsKey, "analytics-key", envOr("PARKING_ANALYTICS_KEY", ""), "Bearer key for the analytics endpoint")
	fsFlags.StringVar(&cfg.JWTSecret, "jwt-secret", envOr("PARKING_JWT_SECRET", ""), "JWT signing secret (default: persisted random secret)")
	if err := fsFlags.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.ClientDir == "" {
		cfg.ClientDir = defaultClientDir()
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func defaultClientDir() string {
	exe, _ := os.Executable()
	dir := filepath.Join(filepath.Dir(exe), "..", "client")
	// Fallback for development
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		dir = "../client"
	}
	return dir
}
