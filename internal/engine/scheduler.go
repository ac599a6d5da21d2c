package engine

import (
	"context"
	"errors"
	"log"
	"time"
)

// Syncer pulls new mail from the remote mailbox before a pass
type Syncer interface {
	SyncMail(ctx context.Context) (int, error)
}

// Scheduler invokes the engine periodically. Manual sync requests go
// through the same engine guard, so overlapping triggers never race.
type Scheduler struct {
	engine   *Engine
	syncer   Syncer
	interval time.Duration
	stopChan chan struct{}
}

// NewScheduler creates a new scheduler
func NewScheduler(engine *Engine, syncer Syncer) *Scheduler {
	return &Scheduler{
		engine:   engine,
		syncer:   syncer,
		interval: 1 * time.Minute,
		stopChan: make(chan struct{}),
	}
}

// Start begins the scheduler loop
func (s *Scheduler) Start() {
	log.Printf("[Scheduler] Starting classification scheduler (interval: %s)", s.interval)

	go func() {
		// Run immediately on start
		s.runOnce()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runOnce()
			case <-s.stopChan:
				log.Println("[Scheduler] Scheduler stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	close(s.stopChan)
}

func (s *Scheduler) runOnce() {
	ctx := context.Background()

	if s.syncer != nil {
		if fetched, err := s.syncer.SyncMail(ctx); err != nil {
			log.Printf("[Scheduler] Mail sync failed: %v", err)
		} else if fetched > 0 {
			log.Printf("[Scheduler] Fetched %d new emails", fetched)
		}
	}

	if _, err := s.engine.RunPass(ctx); err != nil {
		if errors.Is(err, ErrPassInProgress) {
			return
		}
		log.Printf("[Scheduler] Pass failed: %v", err)
	}
}
