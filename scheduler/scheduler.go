// Package scheduler runs the periodic maintenance of the service: dropping
// sessions whose clerk has been idle for too long.
package scheduler

import (
	"fmt"
	"time"

	"github.com/giygas/inventario-farmacia/interfaces"
	"github.com/giygas/inventario-farmacia/logging"
	"github.com/giygas/inventario-farmacia/metrics"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler sweeps idle sessions on a fixed interval
type Scheduler struct {
	sessions  interfaces.SessionStore
	ttl       time.Duration
	interval  time.Duration
	scheduler *gocron.Scheduler
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(sessions interfaces.SessionStore, ttl, interval time.Duration) *Scheduler {
	return &Scheduler{
		sessions:  sessions,
		ttl:       ttl,
		interval:  interval,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start schedules the session sweep and starts the scheduler in the background
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).Do(s.sweepSessions)
	if err != nil {
		logging.Error("Failed to schedule session sweep", "error", err)
		return fmt.Errorf("failed to schedule session sweep: %w", err)
	}

	s.scheduler.StartAsync()
	logging.Info("Session sweep scheduled", "interval", s.interval.String(), "ttl", s.ttl.String())

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// sweepSessions removes idle sessions and their tables
func (s *Scheduler) sweepSessions() {
	removed := s.sessions.Sweep(s.ttl)
	remaining := s.sessions.Len()
	metrics.SessionsActive.Set(float64(remaining))

	if removed > 0 {
		logging.Info("Idle sessions removed", "removed", removed, "remaining", remaining)
	}
}
