// Package scheduler runs the background flow-reload job: a supplemental
// feature (§6 of SPEC_FULL.md) that periodically repeats the
// POST /reload_flow pipeline so a flow published in the store takes
// effect even if the messaging gateway never calls that endpoint.
// Adapted from the teacher's internal/queue.SchedulerImpl, trimmed from
// a generic cron-job-queue to the one recurring job this service needs.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/pytake/flowengine/internal/logger"
)

// Reloader is the one operation the scheduler drives; *flow.Service
// satisfies it.
type Reloader interface {
	Reload(ctx context.Context) error
}

// ReloadScheduler periodically invokes Reloader.Reload on a cron
// schedule, logging failures without ever stopping the loop — a
// transient store outage (§7 "Transient store") should not prevent the
// next scheduled attempt.
type ReloadScheduler struct {
	cron     *cron.Cron
	reloader Reloader
	log      *logger.Logger

	mu      sync.Mutex
	running bool
}

// New builds a ReloadScheduler that will call reloader.Reload on the
// given cron spec (e.g. "@every 5m") once Start is called.
func New(reloader Reloader, cronSpec string, log *logger.Logger) (*ReloadScheduler, error) {
	c := cron.New()
	s := &ReloadScheduler{cron: c, reloader: reloader, log: log}

	if _, err := c.AddFunc(cronSpec, s.runReload); err != nil {
		return nil, fmt.Errorf("invalid RELOAD_INTERVAL %q: %w", cronSpec, err)
	}
	return s, nil
}

// Start begins the background schedule. Calling it again while the
// schedule is running is a no-op.
func (s *ReloadScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.cron.Start()
	s.running = true
}

// Stop halts the scheduler and waits for any in-flight reload to
// finish, used during graceful shutdown.
func (s *ReloadScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
}

func (s *ReloadScheduler) runReload() {
	if err := s.reloader.Reload(context.Background()); err != nil {
		s.log.Warnf("scheduled reload_flow failed: %v", err)
	}
}
