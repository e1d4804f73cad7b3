package sched

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"
)

// Task is single pending deferred call.
type Task struct {
	Name string
	Due  time.Time
	seq  uint64
	fn   func()
}

// Scheduler keeps pending tasks by name. It is owned by a single editing
// session and is not safe for concurrent use.
type Scheduler struct {
	clock Clock
	tasks map[string]*Task
	seq   uint64
	log   *zap.Logger
}

// New creates scheduler. Nil clock means wall clock.
func New(clock Clock, log *zap.Logger) *Scheduler {
	if clock == nil {
		clock = RealClock()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{clock: clock, tasks: make(map[string]*Task), log: log.Named("sched")}
}

// Clock returns scheduler time source.
func (s *Scheduler) Clock() Clock {
	return s.clock
}

// Schedule arranges fn to run after delay. Pending task with the same name
// is superseded and will not run.
func (s *Scheduler) Schedule(name string, delay time.Duration, fn func()) {
	s.seq++
	if _, ok := s.tasks[name]; ok {
		s.log.Debug("Rescheduling task", zap.String("task", name), zap.Duration("delay", delay))
	}
	s.tasks[name] = &Task{Name: name, Due: s.clock.Now().Add(delay), seq: s.seq, fn: fn}
}

// Cancel drops pending task, reports whether there was one.
func (s *Scheduler) Cancel(name string) bool {
	_, ok := s.tasks[name]
	delete(s.tasks, name)
	return ok
}

// Pending returns due time of named task.
func (s *Scheduler) Pending(name string) (time.Time, bool) {
	t, ok := s.tasks[name]
	if !ok {
		return time.Time{}, false
	}
	return t.Due, true
}

// Len returns number of pending tasks.
func (s *Scheduler) Len() int {
	return len(s.tasks)
}

// Next returns earliest due time among pending tasks.
func (s *Scheduler) Next() (time.Time, bool) {
	var next time.Time
	found := false
	for _, t := range s.tasks {
		if !found || t.Due.Before(next) {
			next, found = t.Due, true
		}
	}
	return next, found
}

func (s *Scheduler) take(due func(*Task) bool) []*Task {
	var ready []*Task
	for name, t := range s.tasks {
		if due(t) {
			ready = append(ready, t)
			delete(s.tasks, name)
		}
	}
	slices.SortFunc(ready, func(a, b *Task) int {
		if c := a.Due.Compare(b.Due); c != 0 {
			return c
		}
		return int(a.seq) - int(b.seq)
	})
	return ready
}

func (s *Scheduler) run(ready []*Task) int {
	for _, t := range ready {
		s.log.Debug("Running task", zap.String("task", t.Name))
		t.fn()
	}
	return len(ready)
}

// RunDue runs every task whose due time has come, earliest first. Tasks
// scheduled while running wait for the next call.
func (s *Scheduler) RunDue() int {
	now := s.clock.Now()
	return s.run(s.take(func(t *Task) bool { return !t.Due.After(now) }))
}

// Flush runs all pending tasks regardless of due time.
func (s *Scheduler) Flush() int {
	return s.run(s.take(func(*Task) bool { return true }))
}

// Wait blocks until the earliest pending task is due, then runs due tasks.
// It returns immediately when nothing is pending.
func (s *Scheduler) Wait(ctx context.Context) (int, error) {
	next, ok := s.Next()
	if !ok {
		return 0, nil
	}
	if d := next.Sub(s.clock.Now()); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-timer.C:
		}
	}
	return s.RunDue(), nil
}
