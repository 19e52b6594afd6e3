package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"taskhub/internal/config"
	"taskhub/internal/db"
	"taskhub/internal/jobs"
	"taskhub/internal/metrics"
	"taskhub/internal/notify"
	"taskhub/internal/server"
	"taskhub/internal/suggest"
)

// suggestLimit caps how many typeahead suggestions a single lookup returns.
const suggestLimit = 10

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Metrics
	metrics.Init(database)

	// Notification fan-out
	notifier := notify.NewDispatcher(database)

	// Suggestion engines, one per client session. The fetch function scopes
	// lookups to the workspace encoded in the scope argument.
	fetch := func(ctx context.Context, query, scope string) ([]suggest.Suggestion, error) {
		workspaceID, err := uuid.Parse(scope)
		if err != nil {
			return nil, fmt.Errorf("invalid workspace scope: %w", err)
		}
		return database.SuggestTerms(ctx, workspaceID, query, suggestLimit)
	}
	manager := suggest.NewManager(fetch, suggest.Options{
		MinQueryLen: cfg.SuggestMinQueryLen,
		TTL:         cfg.SuggestTTL,
		MaxEntries:  cfg.SuggestMaxEntries,
		Debounce:    cfg.SuggestDebounce,
		Observer:    metrics.EngineObserver{},
	}, cfg.SuggestSessionIdle)
	defer manager.Close()

	// Background sweeper
	sweeper := jobs.NewSweeper(database, manager, cfg.SweepInterval, cfg.ActivityRetention)
	go sweeper.Start(ctx)

	// HTTP server
	srv := server.New(cfg)
	srv.RegisterRoutes(database, manager, notifier)

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
