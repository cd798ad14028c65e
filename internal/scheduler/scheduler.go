// Package scheduler sequences the forecast pipeline: it decides which cycle
// to process from wall-clock time and runs extraction then aggregation in
// strict order on a fixed period.
package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"

	"github.com/windatlas/windatlas/internal/constants"
	"github.com/windatlas/windatlas/internal/log"
)

// State is the pipeline state for the current invocation.
type State int32

const (
	StateIdle State = iota
	StateExtracting
	StateAggregating
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateExtracting:
		return "EXTRACTING"
	case StateAggregating:
		return "AGGREGATING"
	case StateFailed:
		return "FAILED"
	}
	return "UNKNOWN"
}

// Extractor is the extraction stage as the scheduler sees it.
type Extractor interface {
	Extract(ctx context.Context, date, cycle string) (int, error)
}

// Aggregator is the aggregation stage as the scheduler sees it.
type Aggregator interface {
	Aggregate(ctx context.Context, date, cycle string) (int, error)
}

// Scheduler periodically runs the two-stage pipeline for the latest
// available cycle. A failed stage halts that invocation, not the loop.
type Scheduler struct {
	scheduler  *gocron.Scheduler
	extractor  Extractor
	aggregator Aggregator
	interval   int // hours
	state      atomic.Int32
	now        func() time.Time
}

// New creates a Scheduler. intervalHours <= 0 defaults to the 6-hour synoptic
// period.
func New(extractor Extractor, aggregator Aggregator, intervalHours int) *Scheduler {
	if intervalHours <= 0 {
		intervalHours = 6
	}
	return &Scheduler{
		scheduler:  gocron.NewScheduler(time.UTC),
		extractor:  extractor,
		aggregator: aggregator,
		interval:   intervalHours,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// State returns the pipeline state of the most recent invocation.
func (s *Scheduler) State() State {
	return State(s.state.Load())
}

func (s *Scheduler) setState(state State) {
	s.state.Store(int32(state))
}

// TargetCycle maps wall-clock time to the latest cycle the upstream source
// has typically finished publishing. GFS output lags its synoptic time by
// several hours, so each 6-hour block targets the cycle before it; the first
// block of the day reaches back to the prior day's 18Z run.
func TargetCycle(now time.Time) (date, cycle string) {
	now = now.UTC()
	switch hour := now.Hour(); {
	case hour < 6:
		return now.AddDate(0, 0, -1).Format(constants.DateLayout), "18"
	case hour < 12:
		return now.Format(constants.DateLayout), "00"
	case hour < 18:
		return now.Format(constants.DateLayout), "06"
	default:
		return now.Format(constants.DateLayout), "12"
	}
}

// RunOnce runs extraction then aggregation for one (date, cycle). The first
// stage failure halts the run; aggregation is never invoked after a failed
// extraction.
func (s *Scheduler) RunOnce(ctx context.Context, date, cycle string) error {
	runID := uuid.New().String()

	s.setState(StateExtracting)
	log.Infow("pipeline run starting", "run_id", runID, "date", date, "cycle", cycle)

	rows, err := s.extractor.Extract(ctx, date, cycle)
	if err != nil {
		s.setState(StateFailed)
		log.Errorw("extraction failed; aggregation skipped",
			"run_id", runID, "date", date, "cycle", cycle, "error", err)
		return err
	}

	s.setState(StateAggregating)
	ranked, err := s.aggregator.Aggregate(ctx, date, cycle)
	if err != nil {
		s.setState(StateFailed)
		log.Errorw("aggregation failed",
			"run_id", runID, "date", date, "cycle", cycle, "error", err)
		return err
	}

	s.setState(StateIdle)
	log.Infow("pipeline run complete",
		"run_id", runID, "date", date, "cycle", cycle, "rows", rows, "countries", ranked)
	return nil
}

// Start schedules the periodic pipeline job and starts the loop. The loop
// stops when ctx is cancelled; an in-flight run finishes its current stage
// (extraction is safe to interrupt thanks to the upsert).
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.scheduler.Every(s.interval).Hours().Do(func() {
		date, cycle := TargetCycle(s.now())
		// Errors are logged inside RunOnce; the loop waits for the next tick.
		_ = s.RunOnce(ctx, date, cycle)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	log.Infof("scheduler started; running every %d hours", s.interval)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
