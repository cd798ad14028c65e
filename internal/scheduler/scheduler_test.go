package scheduler

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/windatlas/windatlas/internal/log"
)

func TestMain(m *testing.M) {
	if err := log.Init(true); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestTargetCycle(t *testing.T) {
	tests := []struct {
		hour          int
		expectedDate  string
		expectedCycle string
	}{
		{0, "20250806", "18"},
		{3, "20250806", "18"},
		{5, "20250806", "18"},
		{6, "20250807", "00"},
		{9, "20250807", "00"},
		{11, "20250807", "00"},
		{12, "20250807", "06"},
		{15, "20250807", "06"},
		{17, "20250807", "06"},
		{18, "20250807", "12"},
		{21, "20250807", "12"},
		{23, "20250807", "12"},
	}

	for _, tt := range tests {
		now := time.Date(2025, 8, 7, tt.hour, 30, 0, 0, time.UTC)
		date, cycle := TargetCycle(now)
		if date != tt.expectedDate || cycle != tt.expectedCycle {
			t.Errorf("TargetCycle(hour %02d) = (%s, %s), expected (%s, %s)",
				tt.hour, date, cycle, tt.expectedDate, tt.expectedCycle)
		}
	}
}

func TestTargetCycleCoversEveryHour(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		now := time.Date(2025, 8, 7, hour, 0, 0, 0, time.UTC)
		date, cycle := TargetCycle(now)
		if date == "" {
			t.Errorf("hour %d: empty date", hour)
		}
		switch cycle {
		case "00", "06", "12", "18":
		default:
			t.Errorf("hour %d: invalid cycle %q", hour, cycle)
		}
	}
}

type stubExtractor struct {
	calls int
	err   error
}

func (s *stubExtractor) Extract(ctx context.Context, date, cycle string) (int, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	return 42, nil
}

type stubAggregator struct {
	calls int
	err   error
}

func (s *stubAggregator) Aggregate(ctx context.Context, date, cycle string) (int, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	return 7, nil
}

func TestRunOnceSuccessPath(t *testing.T) {
	extractor := &stubExtractor{}
	aggregator := &stubAggregator{}
	s := New(extractor, aggregator, 6)

	if err := s.RunOnce(context.Background(), "20250807", "12"); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if extractor.calls != 1 || aggregator.calls != 1 {
		t.Errorf("stage calls = (%d, %d), expected (1, 1)", extractor.calls, aggregator.calls)
	}
	if s.State() != StateIdle {
		t.Errorf("state after success = %s, expected IDLE", s.State())
	}
}

func TestRunOnceExtractionFailureHaltsRun(t *testing.T) {
	extractErr := errors.New("source unavailable")
	extractor := &stubExtractor{err: extractErr}
	aggregator := &stubAggregator{}
	s := New(extractor, aggregator, 6)

	err := s.RunOnce(context.Background(), "20250807", "12")
	if !errors.Is(err, extractErr) {
		t.Fatalf("RunOnce error = %v, expected extraction error", err)
	}
	if aggregator.calls != 0 {
		t.Errorf("aggregation ran %d times after failed extraction, expected 0", aggregator.calls)
	}
	if s.State() != StateFailed {
		t.Errorf("state after failure = %s, expected FAILED", s.State())
	}
}

func TestRunOnceAggregationFailure(t *testing.T) {
	aggErr := errors.New("no data found")
	extractor := &stubExtractor{}
	aggregator := &stubAggregator{err: aggErr}
	s := New(extractor, aggregator, 6)

	err := s.RunOnce(context.Background(), "20250807", "12")
	if !errors.Is(err, aggErr) {
		t.Fatalf("RunOnce error = %v, expected aggregation error", err)
	}
	if extractor.calls != 1 {
		t.Errorf("extraction calls = %d, expected 1", extractor.calls)
	}
	if s.State() != StateFailed {
		t.Errorf("state after failure = %s, expected FAILED", s.State())
	}
}

func TestRunOnceRecoversAfterFailure(t *testing.T) {
	extractor := &stubExtractor{err: errors.New("flaky")}
	aggregator := &stubAggregator{}
	s := New(extractor, aggregator, 6)

	_ = s.RunOnce(context.Background(), "20250807", "12")
	if s.State() != StateFailed {
		t.Fatalf("state = %s, expected FAILED", s.State())
	}

	extractor.err = nil
	if err := s.RunOnce(context.Background(), "20250807", "12"); err != nil {
		t.Fatalf("RunOnce after recovery: %v", err)
	}
	if s.State() != StateIdle {
		t.Errorf("state after recovery = %s, expected IDLE", s.State())
	}
}
