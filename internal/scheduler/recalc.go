// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/prajwalvathreya/nba-project-backend/internal/model"
	"github.com/prajwalvathreya/nba-project-backend/internal/service"
)

// Recalculator is the leaderboard rebuild the job triggers.
type Recalculator interface {
	Recalculate(ctx context.Context, trigger string) (model.RecalcSummary, error)
}

// parser accepts standard five-field expressions plus descriptors such as
// "@hourly" and "@every 15m".
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ValidateSchedule reports whether expr is a usable cron expression.
func ValidateSchedule(expr string) error {
	if _, err := parser.Parse(expr); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", expr, err)
	}
	return nil
}

// RecalcScheduler rebuilds every leaderboard on a cron schedule.  A run that
// is still going when the next one fires causes that tick to be skipped.
type RecalcScheduler struct {
	recalc   Recalculator
	schedule string
	timeout  time.Duration
	log      *zap.Logger

	cron      *cron.Cron
	mu        sync.Mutex
	isRunning bool
}

func NewRecalcScheduler(recalc Recalculator, schedule string, log *zap.Logger) *RecalcScheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &RecalcScheduler{
		recalc:   recalc,
		schedule: schedule,
		timeout:  5 * time.Minute,
		log:      log,
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
	}
}

// Start registers the job and starts the cron loop.  It stops by itself
// when ctx is cancelled.
func (s *RecalcScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	if err := ValidateSchedule(s.schedule); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.schedule, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("schedule recalculation: %w", err)
	}
	s.cron.Start()
	s.isRunning = true

	next := s.cron.Entries()[0].Next
	s.log.Info("leaderboard scheduler started", zap.String("schedule", s.schedule), zap.Time("next_run", next))

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop waits for a running job and stops the loop.  Safe to call twice.
func (s *RecalcScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	<-s.cron.Stop().Done()
	s.isRunning = false
	s.log.Info("leaderboard scheduler stopped")
}

// RunOnce performs one recalculation.  Failures are logged by the
// recalculator and otherwise ignored; the next tick tries again.
func (s *RecalcScheduler) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	_, _ = s.recalc.Recalculate(ctx, service.TriggerSchedule)
}
