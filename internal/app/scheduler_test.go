package app

import (
	"testing"
	"time"
)

func TestTeaSchedulerFiresOnce(t *testing.T) {
	s := newTeaScheduler(func() time.Time { return testNow })
	calls := 0
	s.AfterFunc(time.Second, func() { calls++ })

	if s.pending() != 1 {
		t.Fatalf("expected 1 pending task, got %d", s.pending())
	}
	if cmd := s.drain(); cmd == nil {
		t.Fatal("expected a tick command")
	}
	if cmd := s.drain(); cmd != nil {
		t.Fatal("expected drain to empty the queue")
	}
	if !s.fire(1) || calls != 1 {
		t.Fatalf("expected task to run once, calls=%d", calls)
	}
	if s.fire(1) || calls != 1 {
		t.Fatal("expected a fired task to be forgotten")
	}
}

func TestTeaSchedulerCancelDropsTick(t *testing.T) {
	s := newTeaScheduler(nil)
	calls := 0
	task := s.AfterFunc(time.Second, func() { calls++ })
	task.Cancel()

	if s.fire(1) || calls != 0 {
		t.Fatal("expected cancelled task to be dropped")
	}
	if s.pending() != 0 {
		t.Fatalf("expected no pending tasks, got %d", s.pending())
	}
}

func TestTeaSchedulerNow(t *testing.T) {
	s := newTeaScheduler(func() time.Time { return testNow })
	if !s.Now().Equal(testNow) {
		t.Fatalf("expected injected clock, got %v", s.Now())
	}
}

func TestTimerMsgRunsDebouncedLayoutSave(t *testing.T) {
	m := newTestModel(t)
	press(m, "]")
	if !m.tracks.SavePending() {
		t.Fatal("expected a pending track settings save")
	}
	ids := make([]int, 0, len(m.scheduler.tasks))
	for id := range m.scheduler.tasks {
		ids = append(ids, id)
	}
	for _, id := range ids {
		m.Update(timerMsg{id: id})
	}
	if m.tracks.SavePending() {
		t.Fatal("expected save to run on its timer")
	}
	if _, ok, err := m.storage.GetItem("timeline-track-settings"); err != nil || !ok {
		t.Fatalf("expected track settings persisted, ok=%v err=%v", ok, err)
	}
}
