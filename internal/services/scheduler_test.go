package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

func TestNextRunAt(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	s := NewDailyScheduler(3, loc)

	// Before 03:00 local: today.
	now := time.Date(2026, 2, 10, 1, 30, 0, 0, loc)
	next := s.nextRunAt(now)
	want := time.Date(2026, 2, 10, 3, 0, 0, 0, loc)
	if !next.Equal(want) {
		t.Errorf("nextRunAt = %v, want %v", next, want)
	}

	// After 03:00 local: tomorrow.
	now = time.Date(2026, 2, 10, 9, 0, 0, 0, loc)
	next = s.nextRunAt(now)
	want = time.Date(2026, 2, 11, 3, 0, 0, 0, loc)
	if !next.Equal(want) {
		t.Errorf("nextRunAt = %v, want %v", next, want)
	}

	// Exactly 03:00: strictly after, so tomorrow.
	now = time.Date(2026, 2, 10, 3, 0, 0, 0, loc)
	next = s.nextRunAt(now)
	if !next.Equal(want) {
		t.Errorf("nextRunAt at the boundary = %v, want %v", next, want)
	}
}

func TestSchedulerRunsJobAtScheduledTime(t *testing.T) {
	clock := clockz.NewFakeClock()
	s := NewDailyScheduler(3, time.UTC).WithClock(clock)

	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		s.Run(ctx, func(context.Context) error {
			runs.Add(1)
			return nil
		})
		close(stopped)
	}()

	// Let the scheduler park on the fake clock.
	time.Sleep(20 * time.Millisecond)
	if runs.Load() != 0 {
		t.Fatal("job ran before the scheduled time")
	}

	wait := s.nextRunAt(clock.Now()).Sub(clock.Now())
	clock.Advance(wait)
	clock.BlockUntilReady()
	time.Sleep(20 * time.Millisecond)

	if got := runs.Load(); got != 1 {
		t.Fatalf("job ran %d times after first trigger, want 1", got)
	}

	// Next trigger is a full day later.
	clock.Advance(24 * time.Hour)
	clock.BlockUntilReady()
	time.Sleep(20 * time.Millisecond)

	if got := runs.Load(); got != 2 {
		t.Fatalf("job ran %d times after second trigger, want 2", got)
	}

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop on cancellation")
	}
}
