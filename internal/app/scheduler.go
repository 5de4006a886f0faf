package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/cli-timeline/internal/gesture"
)

// timerMsg is delivered by tea.Tick when a scheduled task is due. The id is
// looked up on arrival, so a cancelled task's tick is simply dropped.
type timerMsg struct {
	id int
}

// teaScheduler implements gesture.Scheduler on top of the Bubble Tea loop.
// AfterFunc queues a tea.Tick command; Update drains the queue after every
// message and runs due callbacks on the UI goroutine.
type teaScheduler struct {
	seq    int
	tasks  map[int]func()
	queued []tea.Cmd
	now    func() time.Time
}

type teaTask struct {
	s  *teaScheduler
	id int
}

func (t teaTask) Cancel() {
	delete(t.s.tasks, t.id)
}

func newTeaScheduler(now func() time.Time) *teaScheduler {
	if now == nil {
		now = time.Now
	}
	return &teaScheduler{tasks: map[int]func(){}, now: now}
}

func (s *teaScheduler) AfterFunc(d time.Duration, fn func()) gesture.Task {
	s.seq++
	id := s.seq
	s.tasks[id] = fn
	s.queued = append(s.queued, tea.Tick(d, func(time.Time) tea.Msg {
		return timerMsg{id: id}
	}))
	return teaTask{s: s, id: id}
}

func (s *teaScheduler) Now() time.Time {
	return s.now()
}

// fire runs the task with id unless it was cancelled.
func (s *teaScheduler) fire(id int) bool {
	fn, ok := s.tasks[id]
	if !ok {
		return false
	}
	delete(s.tasks, id)
	fn()
	return true
}

// drain returns the ticks queued since the last drain.
func (s *teaScheduler) drain() tea.Cmd {
	if len(s.queued) == 0 {
		return nil
	}
	cmds := s.queued
	s.queued = nil
	return tea.Batch(cmds...)
}

func (s *teaScheduler) pending() int {
	return len(s.tasks)
}
