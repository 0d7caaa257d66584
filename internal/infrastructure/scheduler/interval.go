package scheduler

import (
	"context"
	"time"

	"ProductScanner/internal/ports"
)

const defaultInterval = 24 * time.Hour

// IntervalScheduler fires the job immediately and then on a fixed cadence.
type IntervalScheduler struct {
	interval time.Duration
	stop     chan struct{}
}

var _ ports.Scheduler = (*IntervalScheduler)(nil)

// NewIntervalScheduler builds a scheduler; non-positive intervals fall back
// to one run per day.
func NewIntervalScheduler(interval time.Duration) *IntervalScheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &IntervalScheduler{interval: interval}
}

// Start begins ticking. The job runs on the ticker goroutine itself, so runs
// never overlap; a slow run delays the next tick instead.
func (s *IntervalScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	if s.stop != nil {
		return nil
	}

	// The goroutine holds its own reference; Stop clears the field while the
	// goroutine may still be mid-run.
	s.stop = make(chan struct{})
	stop := s.stop
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		job(time.Now())
		for {
			select {
			case t := <-ticker.C:
				// A tick that raced Stop must not start another run.
				select {
				case <-stop:
					return
				default:
				}
				job(t)
			case <-ctx.Done():
				return
			case <-stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the ticker goroutine.
func (s *IntervalScheduler) Stop(ctx context.Context) error {
	if s.stop == nil {
		return nil
	}
	close(s.stop)
	s.stop = nil
	return nil
}
