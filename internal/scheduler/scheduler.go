// Package scheduler drives the collection pipeline on a cron cadence and
// handles rate-limit backoff between cycles.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"market-signal-bot/internal/logger"
	"market-signal-bot/internal/pipeline"
)

// Runner is the unit of work the scheduler drives once per cycle.
type Runner interface {
	RunCycle(ctx context.Context, now time.Time) (*pipeline.Result, error)
}

// Scheduler runs cycles on a cron spec. When a cycle reports rate
// limiting, the next attempt is delayed by the provider's backoff instead
// of waiting for the next cron slot, up to maxRetries attempts in a row.
type Scheduler struct {
	cron       *cron.Cron
	runner     Runner
	ctx        context.Context
	maxRetries int

	mu         sync.Mutex // serializes cycles; cron and retry timers may collide
	retries    int
	retryTimer *time.Timer
}

func New(ctx context.Context, runner Runner, maxRetries int) *Scheduler {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Scheduler{
		cron:       cron.New(cron.WithSeconds()),
		runner:     runner,
		ctx:        ctx,
		maxRetries: maxRetries,
	}
}

// Register adds the cycle task under the given cron spec (with seconds).
func (s *Scheduler) Register(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.runCycle); err != nil {
		return fmt.Errorf("register cycle task: %w", err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info(s.ctx, "Scheduler started")
}

// Stop halts the cron scheduler and cancels any pending backoff retry.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.mu.Lock()
	if s.retryTimer != nil {
		s.retryTimer.Stop()
		s.retryTimer = nil
	}
	s.mu.Unlock()
	logger.Info(s.ctx, "Scheduler stopped")
}

// RunNow executes one cycle immediately (manual trigger / run-on-start).
func (s *Scheduler) RunNow() {
	s.runCycle()
}

func (s *Scheduler) runCycle() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.Err() != nil {
		return
	}

	res, err := s.runner.RunCycle(s.ctx, time.Now().UTC())
	if err != nil {
		logger.ErrorWithErr(s.ctx, "Cycle finished with errors", err)
	}

	if res != nil && res.RetryAfter > 0 {
		s.scheduleRetry(res.RetryAfter)
		return
	}
	s.retries = 0
}

// scheduleRetry arms a one-shot timer for a rate-limited cycle. Called
// with mu held.
func (s *Scheduler) scheduleRetry(after time.Duration) {
	if s.retries >= s.maxRetries {
		logger.Warn(s.ctx, "Rate-limit retries exhausted, waiting for next scheduled cycle",
			"retries", s.retries)
		s.retries = 0
		return
	}
	s.retries++
	logger.Warn(s.ctx, "Cycle rate limited, scheduling retry",
		"attempt", s.retries, "max", s.maxRetries, "after", after.String())

	if s.retryTimer != nil {
		s.retryTimer.Stop()
	}
	s.retryTimer = time.AfterFunc(after, s.runCycle)
}
