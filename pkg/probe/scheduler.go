package probe

import (
	"context"
	"time"
)

// Task is a unit of work re-armed a fixed period after each run.
type Task struct {
	Period time.Duration
	Run    func()

	next time.Time
}

// Scheduler is a cooperative loop. Every Step calls the poll function and
// then runs each task whose next eligible time has passed. Nothing in a
// Step waits.
type Scheduler struct {
	now   func() time.Time
	poll  func()
	tasks []*Task
}

// NewScheduler creates a scheduler reading time from now. poll may be nil.
func NewScheduler(now func() time.Time, poll func()) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{now: now, poll: poll}
}

// Every registers fn to run once per period. The first run is due immediately.
func (s *Scheduler) Every(period time.Duration, fn func()) *Task {
	t := &Task{Period: period, Run: fn}
	s.tasks = append(s.tasks, t)
	return t
}

// Step performs one scheduler cycle.
func (s *Scheduler) Step() {
	if s.poll != nil {
		s.poll()
	}

	for _, t := range s.tasks {
		if s.now().Before(t.next) {
			continue
		}
		t.Run()
		// Re-arm from the end of the run, like a delay at the bottom of a loop.
		t.next = s.now().Add(t.Period)
	}
}

// Run steps until ctx is done. A positive idle sleeps between cycles to keep
// the loop from spinning.
func (s *Scheduler) Run(ctx context.Context, idle time.Duration) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.Step()

		if idle > 0 {
			time.Sleep(idle)
		}
	}
}
