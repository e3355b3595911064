package engine

import "time"

// TaskID identifies a scheduled callback. The zero value never names a live task.
type TaskID uint64

type task struct {
	id       TaskID
	due      time.Duration
	interval time.Duration
	fn       func()
}

// Scheduler is a virtual clock with cancellable deferred callbacks.
//
// Time only moves when Advance is called, so a frame driver, a test, or a
// manual "wait" request all drive the same deterministic timeline. Callbacks
// run in due order (ties by scheduling order) with Now set to their due time,
// and may schedule or cancel other tasks.
type Scheduler struct {
	now    time.Duration
	nextID TaskID
	tasks  []*task
}

// NewScheduler creates a scheduler at virtual time zero
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the elapsed virtual time
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After schedules fn once, delay from now
func (s *Scheduler) After(delay time.Duration, fn func()) TaskID {
	if delay < 0 {
		delay = 0
	}
	return s.add(s.now+delay, 0, fn)
}

// Every schedules fn repeatedly, first after one interval.
// Non-positive intervals schedule nothing.
func (s *Scheduler) Every(interval time.Duration, fn func()) TaskID {
	if interval <= 0 {
		return 0
	}
	return s.add(s.now+interval, interval, fn)
}

// Cancel removes a pending task and reports whether it was pending
func (s *Scheduler) Cancel(id TaskID) bool {
	for i, t := range s.tasks {
		if t.id == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// CancelAll drops every pending task
func (s *Scheduler) CancelAll() {
	s.tasks = nil
}

// Pending returns the number of scheduled tasks
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// Advance moves the clock forward by dt, firing every task that falls due
func (s *Scheduler) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	target := s.now + dt
	for {
		t := s.earliest()
		if t == nil || t.due > target {
			break
		}
		s.now = t.due
		if t.interval > 0 {
			t.due += t.interval
		} else {
			s.Cancel(t.id)
		}
		t.fn()
	}
	s.now = target
}

func (s *Scheduler) add(due, interval time.Duration, fn func()) TaskID {
	s.nextID++
	s.tasks = append(s.tasks, &task{id: s.nextID, due: due, interval: interval, fn: fn})
	return s.nextID
}

func (s *Scheduler) earliest() *task {
	var best *task
	for _, t := range s.tasks {
		if best == nil || t.due < best.due || (t.due == best.due && t.id < best.id) {
			best = t
		}
	}
	return best
}
