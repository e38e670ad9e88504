package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"

	"GETracker/market"

	"github.com/robfig/cron/v3"
)

// Scheduler triggers the daily background refresh on a cron schedule.
type Scheduler struct {
	Cron      *cron.Cron
	Refresher *market.Refresher
	Ctx       context.Context
}

func NewScheduler(ctx context.Context, r *market.Refresher) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Refresher: r,
		Ctx:       ctx,
	}
}

// Register adds the daily refresh task.
func (s *Scheduler) Register(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.refreshTask); err != nil {
		return fmt.Errorf("register daily refresh: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] refresh scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] refresh scheduler stopped")
}

// RunNow executes the refresh task immediately (for manual trigger / run-on-start).
func (s *Scheduler) RunNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	log.Println("[INFO] running scheduled refresh")
	if err := s.Refresher.RefreshAll(s.Ctx); err != nil && !errors.Is(err, market.ErrRefreshInFlight) {
		log.Printf("[ERROR] scheduled refresh: %v", err)
	}
}
