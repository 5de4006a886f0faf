package gesture

import (
	"sort"
	"time"
)

// Task is a scheduled callback that can be cancelled before it fires.
type Task interface {
	Cancel()
}

// Scheduler runs callbacks after a delay on the UI goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Task
	Now() time.Time
}

// ManualScheduler is a Scheduler driven by Advance. Tasks fire in deadline
// order on the caller's goroutine.
type ManualScheduler struct {
	now   time.Time
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	at        time.Time
	seq       int
	fn        func()
	cancelled bool
}

func (t *manualTask) Cancel() {
	t.cancelled = true
}

// NewManualScheduler starts a scheduler at a fixed epoch.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// AfterFunc schedules fn to run once the clock passes now+d.
func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) Task {
	s.seq++
	t := &manualTask{at: s.now.Add(d), seq: s.seq, fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

// Now returns the scheduler clock.
func (s *ManualScheduler) Now() time.Time {
	return s.now
}

// Advance moves the clock forward and runs every task that came due.
func (s *ManualScheduler) Advance(d time.Duration) {
	target := s.now.Add(d)
	for {
		next := s.popDue(target)
		if next == nil {
			break
		}
		s.now = next.at
		next.fn()
	}
	s.now = target
}

// Pending returns the number of tasks that are scheduled and not cancelled.
func (s *ManualScheduler) Pending() int {
	n := 0
	for _, t := range s.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}

func (s *ManualScheduler) popDue(target time.Time) *manualTask {
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	s.tasks = live
	sort.SliceStable(s.tasks, func(i, j int) bool {
		if s.tasks[i].at.Equal(s.tasks[j].at) {
			return s.tasks[i].seq < s.tasks[j].seq
		}
		return s.tasks[i].at.Before(s.tasks[j].at)
	})
	if len(s.tasks) == 0 || s.tasks[0].at.After(target) {
		return nil
	}
	t := s.tasks[0]
	s.tasks = s.tasks[1:]
	return t
}

// Debouncer coalesces calls so only the last one within Delay runs.
type Debouncer struct {
	scheduler Scheduler
	delay     time.Duration
	task      Task
	pending   func()
}

// NewDebouncer returns a debouncer scheduling on s.
func NewDebouncer(s Scheduler, delay time.Duration) *Debouncer {
	return &Debouncer{scheduler: s, delay: delay}
}

// Trigger cancels any pending call and schedules fn after the delay.
func (d *Debouncer) Trigger(fn func()) {
	d.Cancel()
	d.pending = fn
	if d.scheduler == nil {
		d.Flush()
		return
	}
	var task Task
	task = d.scheduler.AfterFunc(d.delay, func() {
		if d.task != task {
			return
		}
		d.task = nil
		run := d.pending
		d.pending = nil
		if run != nil {
			run()
		}
	})
	d.task = task
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	if d.task != nil {
		d.task.Cancel()
	}
	d.task = nil
	d.pending = nil
}

// Flush runs the pending call immediately.
func (d *Debouncer) Flush() {
	run := d.pending
	if d.task != nil {
		d.task.Cancel()
	}
	d.task = nil
	d.pending = nil
	if run != nil {
		run()
	}
}

// Pending reports whether a call is waiting to run.
func (d *Debouncer) Pending() bool {
	return d.pending != nil
}
