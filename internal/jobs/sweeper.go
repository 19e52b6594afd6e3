package jobs

import (
	"context"
	"log"
	"time"

	"taskhub/internal/db"
	"taskhub/internal/suggest"
)

// Sweeper periodically evicts expired suggestion cache entries, disposes
// idle suggestion engines, and prunes old activity events.
type Sweeper struct {
	db        *db.DB
	manager   *suggest.Manager
	interval  time.Duration
	retention time.Duration
}

// NewSweeper creates a new background sweeper.
func NewSweeper(database *db.DB, manager *suggest.Manager, interval, retention time.Duration) *Sweeper {
	return &Sweeper{
		db:        database,
		manager:   manager,
		interval:  interval,
		retention: retention,
	}
}

// Start begins the background sweep loop.
func (s *Sweeper) Start(ctx context.Context) {
	log.Printf("Sweeper started (interval: %v, retention: %v)", s.interval, s.retention)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep runs one pass.
func (s *Sweeper) sweep(ctx context.Context) {
	now := time.Now()
	s.manager.Sweep(now)

	pruned, err := s.db.PruneEvents(ctx, now.Add(-s.retention))
	if err != nil {
		log.Printf("Sweeper: failed to prune activity events: %v", err)
		return
	}
	if pruned > 0 {
		log.Printf("Sweeper: pruned %d activity events", pruned)
	}
}
