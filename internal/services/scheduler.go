package services

import (
	"context"
	"log"
	"time"

	"github.com/zoobzio/clockz"
)

// Scheduler triggers a job once per day at a fixed local hour.
// It owns only the timing; the job itself is an ordinary function so
// it can equally be invoked immediately ("run now") or under test
// with a fake clock.
type Scheduler struct {
	Clock    clockz.Clock
	Hour     int
	Location *time.Location
}

// NewDailyScheduler schedules for hour o'clock in the given location
// (the seller's configured timezone). A nil location means UTC.
func NewDailyScheduler(hour int, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{Clock: clockz.RealClock, Hour: hour, Location: loc}
}

// WithClock sets a custom clock for testing.
func (s *Scheduler) WithClock(clock clockz.Clock) *Scheduler {
	s.Clock = clock
	return s
}

// nextRunAt returns the next occurrence of the configured hour
// strictly after now.
func (s *Scheduler) nextRunAt(now time.Time) time.Time {
	local := now.In(s.Location)
	next := time.Date(local.Year(), local.Month(), local.Day(), s.Hour, 0, 0, 0, s.Location)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Run blocks, invoking job at each scheduled time until ctx is
// canceled. Job failures are logged and scheduling continues.
func (s *Scheduler) Run(ctx context.Context, job func(context.Context) error) {
	for {
		now := s.Clock.Now()
		next := s.nextRunAt(now)
		wait := next.Sub(now)
		log.Printf("scheduler next run at=%s in=%s", next.Format(time.RFC3339), wait.Round(time.Second))

		select {
		case <-ctx.Done():
			log.Printf("scheduler stopped: %v", ctx.Err())
			return
		case <-s.Clock.After(wait):
		}

		if err := job(ctx); err != nil {
			log.Printf("scheduled run failed err=%v", err)
		}
	}
}
