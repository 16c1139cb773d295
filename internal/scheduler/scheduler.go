package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abdulachik/trendfeed/internal/pipeline"
	"github.com/abdulachik/trendfeed/internal/snapshot"
	"github.com/go-co-op/gocron/v2"
)

// Runner executes one pipeline cycle.
type Runner interface {
	Run(ctx context.Context) (*snapshot.Snapshot, error)
}

// Scheduler triggers pipeline runs on a fixed interval and tracks the
// outcome of each cycle.
type Scheduler struct {
	scheduler gocron.Scheduler
	runner    Runner
	health    *Health
	interval  time.Duration
}

// Config holds scheduler configuration.
type Config struct {
	Runner   Runner
	Interval time.Duration
}

// New creates a new scheduler.
func New(cfg Config) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create gocron scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: s,
		runner:    cfg.Runner,
		health:    NewHealth(),
		interval:  cfg.Interval,
	}, nil
}

// Start registers the periodic pipeline job, runs the first cycle
// immediately, and begins the schedule.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.runCycle, ctx),
		gocron.WithName("pipeline-run"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("create pipeline job: %w", err)
	}

	slog.Info("starting scheduler", "interval", s.interval)
	s.scheduler.Start()
	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	slog.Info("stopping scheduler")
	return s.scheduler.Shutdown()
}

// runCycle executes one scheduled pipeline run.
func (s *Scheduler) runCycle(ctx context.Context) {
	slog.Debug("running pipeline cycle")

	snap, err := s.runner.Run(ctx)
	if errors.Is(err, pipeline.ErrRunInProgress) {
		// The previous run is still in flight; this trigger is dropped
		// rather than queued.
		slog.Warn("skipping pipeline cycle, previous run still in flight")
		return
	}
	if err != nil {
		s.health.SetUnhealthy("pipeline", err)
		slog.Error("pipeline cycle failed", "error", err)
		return
	}

	s.health.SetHealthy("pipeline", fmt.Sprintf("published %d items", len(snap.Items)))
	slog.Info("pipeline cycle complete", "items", len(snap.Items))
}

// Health returns the health tracker.
func (s *Scheduler) Health() *Health {
	return s.health
}
