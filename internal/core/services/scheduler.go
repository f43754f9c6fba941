package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rivergate-labs/chunksync/internal/core/domain"
	"github.com/rivergate-labs/chunksync/internal/core/ports/driving"
	"github.com/rivergate-labs/chunksync/internal/logger"
)

// DefaultSyncInterval is the default wall-clock interval between delta
// cycles when none is configured.
const DefaultSyncInterval = 6 * time.Hour

// Scheduler triggers delta sync cycles on a fixed interval. A trigger that
// fires while a cycle is still running is skipped and logged, never queued.
type Scheduler struct {
	orch driving.SyncOrchestrator

	mu       sync.Mutex
	interval time.Duration
	running  bool
	stopCh   chan struct{}
	reset    chan struct{}
	wg       sync.WaitGroup
}

// NewScheduler creates a scheduler. Intervals below one second fall back to
// DefaultSyncInterval.
func NewScheduler(orch driving.SyncOrchestrator, interval time.Duration) *Scheduler {
	if interval < time.Second {
		interval = DefaultSyncInterval
	}
	return &Scheduler{
		orch:     orch,
		interval: interval,
		reset:    make(chan struct{}, 1),
	}
}

// Interval returns the current trigger interval.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// SetInterval changes the trigger interval. The running loop picks the new
// value up immediately; the next cycle fires one full interval from now.
func (s *Scheduler) SetInterval(d time.Duration) {
	if d < time.Second {
		return
	}
	s.mu.Lock()
	changed := d != s.interval
	s.interval = d
	s.mu.Unlock()

	if changed {
		logger.Info("sync interval changed to %s", d)
		select {
		case s.reset <- struct{}{}:
		default:
		}
	}
}

// Start runs the scheduler loop, blocking until the context is cancelled or
// Stop is called. The first cycle fires one interval after Start.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	logger.Info("scheduler started: delta sync every %s", s.Interval())

	timer := time.NewTimer(s.Interval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			return ctx.Err()
		case <-stopCh:
			s.wg.Wait()
			return nil
		case <-s.reset:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(s.Interval())
		case <-timer.C:
			s.trigger(ctx)
			timer.Reset(s.Interval())
		}
	}
}

// Stop shuts the scheduler down and waits for an in-flight cycle to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
}

// trigger runs one delta cycle. Overlapping triggers are rejected by the
// orchestrator's cycle lock and logged as skipped.
func (s *Scheduler) trigger(ctx context.Context) {
	s.wg.Add(1)
	defer s.wg.Done()

	result, err := s.orch.RunCycle(ctx, domain.ModeDelta)
	switch {
	case errors.Is(err, domain.ErrSyncInProgress):
		logger.Warn("scheduled sync skipped: previous cycle still running")
	case err != nil:
		logger.Warn("scheduled sync failed: %v", err)
	case result.Failed > 0:
		logger.Warn("scheduled sync finished with failures: %s", result)
	default:
		logger.Info("scheduled sync finished: %s", result)
	}
}
