package preview

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Refresher runs a task on a fixed interval.
type Refresher struct {
	scheduler gocron.Scheduler
	interval  time.Duration
	task      func(context.Context)
}

// NewRefresher creates a Refresher. The interval must be positive.
func NewRefresher(interval time.Duration, task func(context.Context)) (*Refresher, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("refresh interval must be positive, got %s", interval)
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Refresher{scheduler: s, interval: interval, task: task}, nil
}

// Start schedules the task and starts the scheduler. Runs never overlap.
func (r *Refresher) Start(ctx context.Context) error {
	_, err := r.scheduler.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(func() { r.task(ctx) }),
		gocron.WithName("pagemap-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create refresh job: %w", err)
	}
	slog.Info("Starting page map refresher", slog.Duration("interval", r.interval))
	r.scheduler.Start()
	return nil
}

// Stop shuts the scheduler down and waits for a running task.
func (r *Refresher) Stop() error {
	return r.scheduler.Shutdown()
}
