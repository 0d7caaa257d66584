package usecase

import (
	"context"
	"log/slog"
	"time"

	"ProductScanner/internal/ports"
)

// Scheduler drives the pipeline on whatever cadence the underlying driver
// implements. A failed run is logged and the schedule keeps going.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	logger   *slog.Logger
}

// NewScheduler returns a helper to start and stop the recurring scan.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{driver: driver, pipeline: pipeline, logger: logger}
}

// Start registers the pipeline run as the driver's job.
func (s *Scheduler) Start(ctx context.Context) error {
	return s.driver.Start(ctx, func(runTime time.Time) {
		if err := s.pipeline.ProcessRun(ctx, runTime); err != nil {
			s.logger.Error("run failed", "error", err)
		}
	})
}

// Stop tears down the underlying driver.
func (s *Scheduler) Stop(ctx context.Context) error {
	return s.driver.Stop(ctx)
}
