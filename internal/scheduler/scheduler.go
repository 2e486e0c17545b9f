// Package scheduler drives the daemon's periodic notification checks with
// a seconds-resolution cron.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/logging"
)

// DefaultSpec runs the check at the top of every minute.
const DefaultSpec = "0 * * * * *"

// DefaultSleepThreshold is the gap between ticks treated as a system sleep.
const DefaultSleepThreshold = time.Hour

// Checker is one periodic check run by the scheduler.
type Checker interface {
	Check(ctx context.Context, now time.Time) error
}

// Scheduler runs a Checker on a cron spec. A tick that arrives long after
// the previous one (the machine slept) is skipped so stale windows do not
// fire in a burst.
type Scheduler struct {
	cron           *cron.Cron
	spec           string
	checker        Checker
	sleepThreshold time.Duration
	now            func() time.Time

	mu       sync.Mutex
	lastTick time.Time
	ctx      context.Context
	cancel   context.CancelFunc
}

// New creates a scheduler. An empty spec uses DefaultSpec and a
// non-positive threshold uses DefaultSleepThreshold.
func New(spec string, checker Checker, sleepThreshold time.Duration) *Scheduler {
	if spec == "" {
		spec = DefaultSpec
	}
	if sleepThreshold <= 0 {
		sleepThreshold = DefaultSleepThreshold
	}
	return &Scheduler{
		cron:           cron.New(cron.WithSeconds()),
		spec:           spec,
		checker:        checker,
		sleepThreshold: sleepThreshold,
		now:            time.Now,
	}
}

// ValidateSpec reports whether spec is a valid six-field cron expression.
func ValidateSpec(spec string) error {
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(spec); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

// Start registers the check and starts the cron. The first check runs
// immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.lastTick = s.now()
	s.mu.Unlock()

	if _, err := s.cron.AddFunc(s.spec, s.tick); err != nil {
		return fmt.Errorf("add check job: %w", err)
	}
	s.run(s.lastTick)
	s.cron.Start()

	logging.DebugLog("scheduler started", "spec", s.spec)
	return nil
}

// Stop stops the cron and waits for a running check to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	logging.DebugLog("scheduler stopped")
}

func (s *Scheduler) tick() {
	now := s.now()

	s.mu.Lock()
	elapsed := now.Sub(s.lastTick)
	s.lastTick = now
	s.mu.Unlock()

	if elapsed > s.sleepThreshold {
		logging.Info("skipping check after sleep", logging.KeyDuration, elapsed.Round(time.Second))
		return
	}
	s.run(now)
}

func (s *Scheduler) run(now time.Time) {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := s.checker.Check(ctx, now); err != nil {
		logging.Error("check failed", logging.KeyError, err)
	}
}

// AddJob schedules job on spec next to the check, e.g. storage
// maintenance.
func (s *Scheduler) AddJob(spec string, job func()) error {
	if _, err := s.cron.AddFunc(spec, job); err != nil {
		return fmt.Errorf("add job %q: %w", spec, err)
	}
	return nil
}

// NextRun returns the earliest next run time, or zero when nothing is
// scheduled or the cron has not started.
func (s *Scheduler) NextRun() time.Time {
	var next time.Time
	for _, e := range s.cron.Entries() {
		if next.IsZero() || (!e.Next.IsZero() && e.Next.Before(next)) {
			next = e.Next
		}
	}
	return next
}
