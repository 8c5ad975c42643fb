package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := LoadConfig(".env", os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("config: %v", err)
	}

	db, err := OpenDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	log.Printf("Database opened at %s", cfg.DBPath)

	analytics := NewAnalytics(db, NewForwarder(cfg.AnalyticsURL, cfg.AnalyticsKey))
	if cfg.AnalyticsURL != "" {
		log.Printf("Forwarding analytics to %s", cfg.AnalyticsURL)
	}
	auth := NewAuth(db, cfg.JWTSecret)

	hub := NewHub(db, auth, analytics)
	hub.baseURL = cfg.BaseURL
	go hub.Run()

	mux := SetupRoutes(hub, cfg.ClientDir)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{Addr: cfg.Addr, Handler: mux}

	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		log.Printf("Serving client files from %s", cfg.ClientDir)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	hub.sessions.StopAll()
	analytics.Stop()
	if err := db.Close(); err != nil {
		log.Printf("close database: %v", err)
	}
}
