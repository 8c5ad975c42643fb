package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PARKING_ADDR", "PARKING_DB", "PARKING_BASE_URL", "PARKING_ANALYTICS_URL", "PARKING_CLIENT_DIR"} {
		t.Setenv(k, "")
	}
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"), nil)
	if err != nil {
		t.Fatalf("missing env file should be tolerated: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.DBPath != "parking.db" || cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.AnalyticsURL != "" {
		t.Errorf("analytics should be off by default, got %q", cfg.AnalyticsURL)
	}
	if cfg.ClientDir == "" {
		t.Error("client dir should fall back to a default")
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	t.Setenv("PARKING_ADDR", "")
	t.Setenv("PARKING_ANALYTICS_KEY", "")
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "PARKING_ADDR=:9090\nPARKING_ANALYTICS_KEY=from-file\n"
	if err := os.WriteFile(envFile, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv does not override variables that are already set, so clear
	// them for the loader to fill in.
	os.Unsetenv("PARKING_ADDR")
	os.Unsetenv("PARKING_ANALYTICS_KEY")

	cfg, err := LoadConfig(envFile, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("addr = %q, want :9090", cfg.Addr)
	}
	if cfg.AnalyticsKey != "from-file" {
		t.Errorf("analytics key = %q, want from-file", cfg.AnalyticsKey)
	}
}

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("PARKING_DB", "env.db")
	t.Setenv("PARKING_JWT_SECRET", "env-secret")

	cfg, err := LoadConfig("", []string{"-db", "flag.db", "-client", "/srv/client", "-analytics-url", "https://collector.example/ingest"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "flag.db" {
		t.Errorf("db = %q, want flag.db", cfg.DBPath)
	}
	if cfg.JWTSecret != "env-secret" {
		t.Errorf("jwt secret = %q, want env-secret", cfg.JWTSecret)
	}
	if cfg.ClientDir != "/srv/client" {
		t.Errorf("client = %q", cfg.ClientDir)
	}
	if cfg.AnalyticsURL != "https://collector.example/ingest" {
		t.Errorf("analytics url = %q", cfg.AnalyticsURL)
	}
}

func TestLoadConfigBadFlag(t *testing.T) {
	if _, err := LoadConfig("", []string{"-no-such-flag"}); err == nil {
		t.Error("unknown flag should be an error")
	}
}
