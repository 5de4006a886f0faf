package playhead

import (
	"errors"
	"testing"
	"time"

	"github.com/treykane/cli-timeline/internal/gesture"
	"github.com/treykane/cli-timeline/internal/model"
	"github.com/treykane/cli-timeline/internal/store"
	"github.com/treykane/cli-timeline/internal/timecode"
)

type fixture struct {
	engine    *Engine
	store     *store.Store
	bus       *gesture.Bus
	scheduler *gesture.ManualScheduler
	feedback  *gesture.FeedbackState
	seeks     []int
	markers   []string
}

func newFixture(snap bool) *fixture {
	f := &fixture{
		store: store.New(store.Options{FPS: 24, Duration: 24 * 60 * 5, Zoom: 10, Markers: []model.Marker{
			{ID: "m1", Frame: 48, Label: "Beat"},
		}}),
		bus:       gesture.NewBus(),
		scheduler: gesture.NewManualScheduler(),
		feedback:  &gesture.FeedbackState{},
	}
	f.engine = New(Options{
		Store:         f.store,
		Bus:           f.bus,
		Feedback:      f.feedback,
		Scheduler:     f.scheduler,
		SnapToGrid:    snap,
		OnSeek:        func(frame int) { f.seeks = append(f.seeks, frame) },
		OnMarkerClick: func(m model.Marker) { f.markers = append(f.markers, m.ID) },
	})
	return f
}

func (f *fixture) position() int {
	return f.store.GetState().PlayheadPosition()
}

func TestClickRulerScenario(t *testing.T) {
	f := newFixture(false)
	f.engine.ClickRuler(240)
	if len(f.seeks) != 1 || f.seeks[0] != 24 {
		t.Fatalf("expected onSeek(24), got %v", f.seeks)
	}
	if f.position() != 24 {
		t.Fatalf("expected store position 24, got %d", f.position())
	}
}

func TestPixelToTimecodeScenario(t *testing.T) {
	f := newFixture(false)
	frame := f.engine.FrameAt(100, false)
	if frame != 10 || timecode.FramesToTimecode(frame, 24) != "00:00:10" {
		t.Fatalf("expected frame 10 / 00:00:10, got %d", frame)
	}
}

func TestClickRulerClamps(t *testing.T) {
	f := newFixture(false)
	if got := f.engine.ClickRuler(-500); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := f.engine.ClickRuler(1e9); got != 24*60*5 {
		t.Fatalf("expected duration, got %d", got)
	}
}

func TestDragOnlyCommitsOnPointerUp(t *testing.T) {
	f := newFixture(true)
	if !f.engine.PointerDownHandle(0) {
		t.Fatal("pointer down refused")
	}
	if f.engine.PointerDownHandle(0) {
		t.Fatal("second pointer down should be refused while dragging")
	}
	f.bus.Move(gesture.PointerEvent{X: 127})
	if got := f.engine.Position(); got != 13 {
		t.Fatalf("snap should round 12.7 to 13, got %d", got)
	}
	if f.position() != 0 || len(f.seeks) != 0 {
		t.Fatal("store should not change mid-drag")
	}
	tip := f.engine.Tooltip()
	if !tip.Visible || tip.Text != "00:00:13" || !tip.ShowSnap || !tip.Snap {
		t.Fatalf("unexpected drag tooltip %+v", tip)
	}
	if !f.feedback.Dragging() || !f.feedback.Unselectable {
		t.Fatal("drag should set cursor and disable selection")
	}

	f.bus.Up(gesture.PointerEvent{X: 127})
	if f.position() != 13 || len(f.seeks) != 1 {
		t.Fatalf("pointer up should commit 13, got %d (%v)", f.position(), f.seeks)
	}
	if f.bus.Active() || f.feedback.Dragging() {
		t.Fatal("drag should tear down listeners and feedback")
	}
	if f.engine.Tooltip().Visible {
		t.Fatal("tooltip should hide after drag when not hovering")
	}
}

func TestDragWithoutSnapFloors(t *testing.T) {
	f := newFixture(false)
	f.engine.PointerDownHandle(0)
	f.bus.Move(gesture.PointerEvent{X: 127})
	if got := f.engine.Position(); got != 12 {
		t.Fatalf("expected floor to 12, got %d", got)
	}
	if f.engine.Tooltip().Snap {
		t.Fatal("snap indicator should be off")
	}
	f.bus.Move(gesture.PointerEvent{X: -1e6})
	if got := f.engine.Position(); got != 0 {
		t.Fatalf("drag position should stay clamped, got %d", got)
	}
}

func TestUnmountMidDrag(t *testing.T) {
	f := newFixture(false)
	f.engine.PointerDownHandle(0)
	f.engine.Unmount()
	f.bus.Move(gesture.PointerEvent{X: 50})
	f.bus.Up(gesture.PointerEvent{X: 50})
	if len(f.seeks) != 0 || f.engine.Dragging() {
		t.Fatal("unmounted engine should ignore global events")
	}
}

func TestHoverTooltipDelays(t *testing.T) {
	f := newFixture(false)
	f.engine.HoverMove(240)
	if f.engine.Tooltip().Visible {
		t.Fatal("tooltip should wait for the show delay")
	}
	f.scheduler.Advance(DefaultShowDelay)
	tip := f.engine.Tooltip()
	if !tip.Visible || tip.Text != "00:01:00" || tip.ShowSnap {
		t.Fatalf("unexpected hover tooltip %+v", tip)
	}

	f.engine.HoverLeave()
	f.scheduler.Advance(DefaultHideDelay / 2)
	if !f.engine.Tooltip().Visible {
		t.Fatal("tooltip should linger for the hide delay")
	}
	f.engine.HoverMove(250)
	f.scheduler.Advance(time.Second)
	if !f.engine.Tooltip().Visible {
		t.Fatal("returning before the hide delay should keep the tooltip")
	}
	f.engine.HoverLeave()
	f.scheduler.Advance(DefaultHideDelay)
	if f.engine.Tooltip().Visible {
		t.Fatal("tooltip should hide after the hide delay")
	}
}

func TestHoverLeaveBeforeShowCancels(t *testing.T) {
	f := newFixture(false)
	f.engine.HoverMove(10)
	f.scheduler.Advance(100 * time.Millisecond)
	f.engine.HoverLeave()
	f.scheduler.Advance(time.Second)
	if f.engine.Tooltip().Visible {
		t.Fatal("tooltip should never appear")
	}
}

func TestKeyboardBounds(t *testing.T) {
	f := newFixture(false)
	duration := f.store.GetState().Duration()
	steps := []struct {
		key  string
		want int
	}{
		{"left", 0},
		{"right", 1},
		{"shift+right", 11},
		{"pgdown", 35},
		{"shift+left", 25},
		{"pgup", 1},
		{"pgup", 0},
		{"end", duration},
		{"right", duration},
		{"pgdown", duration},
		{"home", 0},
	}
	for _, s := range steps {
		if !f.engine.HandleKey(s.key, false) {
			t.Fatalf("%s not handled", s.key)
		}
		if got := f.position(); got != s.want {
			t.Fatalf("after %s: got %d, want %d", s.key, got, s.want)
		}
	}
	if f.engine.HandleKey("right", true) {
		t.Fatal("keys inside a text input should be ignored")
	}
	if f.engine.HandleKey("x", false) {
		t.Fatal("unbound key should not be consumed")
	}
}

func TestClickMarker(t *testing.T) {
	f := newFixture(false)
	m, ok := f.engine.MarkerAt(483, 5)
	if !ok {
		t.Fatal("expected marker near x=480")
	}
	f.engine.ClickMarker(m)
	if f.position() != 48 || len(f.markers) != 1 || f.markers[0] != "m1" {
		t.Fatalf("unexpected marker click result: pos=%d markers=%v", f.position(), f.markers)
	}
}

func TestGoToDialog(t *testing.T) {
	f := newFixture(false)
	d := f.engine.GoTo()
	d.Open()
	if !d.IsOpen() || d.Value() != "00:00:00" {
		t.Fatalf("unexpected initial dialog %q", d.Value())
	}

	_, err := d.Submit("1:30")
	if !errors.Is(err, timecode.ErrInvalidFormat) || !d.IsOpen() || d.Error() == "" {
		t.Fatalf("bad format should keep the dialog open, err=%v", err)
	}
	_, err = d.Submit("00:00:30")
	if !errors.Is(err, timecode.ErrInvalidRange) || !d.IsOpen() {
		t.Fatalf("frames >= fps should be rejected, err=%v", err)
	}
	_, err = d.Submit("99:00:00")
	if !errors.Is(err, timecode.ErrExceedsDuration) || !d.IsOpen() {
		t.Fatalf("past duration should be rejected, err=%v", err)
	}
	if f.position() != 0 || len(f.seeks) != 0 {
		t.Fatal("failed submissions must not seek")
	}

	frame, err := d.Submit("01:30:15")
	if err != nil || frame != 2175 {
		t.Fatalf("expected 2175, got %d (%v)", frame, err)
	}
	if d.IsOpen() || f.position() != 2175 {
		t.Fatal("valid submission should seek and close")
	}
}

func TestRulerDoubleActivationCycles(t *testing.T) {
	f := newFixture(false)
	r := f.engine.Ruler()
	f.engine.ClickRuler(10)
	f.scheduler.Advance(500 * time.Millisecond)
	f.engine.ClickRuler(10)
	if r.Granularity() != GranularitySeconds {
		t.Fatal("clicks 500ms apart should not cycle")
	}
	f.scheduler.Advance(200 * time.Millisecond)
	f.engine.ClickRuler(10)
	if r.Granularity() != GranularityFrames {
		t.Fatalf("double activation should cycle to frames, got %s", r.Granularity())
	}
	r.Cycle()
	r.Cycle()
	if r.Granularity() != GranularitySeconds {
		t.Fatal("cycle should wrap back to seconds")
	}
	if f.store.GetState().PlayheadPosition() != 1 {
		t.Fatal("granularity is display-only; seeking still applies")
	}
}

func TestRulerTicks(t *testing.T) {
	f := newFixture(false)
	r := f.engine.Ruler()
	ticks := r.Ticks(0, 1000, 10, 24, 24*60)
	var majors []Tick
	for _, tk := range ticks {
		if tk.Major {
			majors = append(majors, tk)
		}
	}
	if len(majors) < 2 || majors[0].Label != "00:00" || majors[1].Frame != 24 || majors[1].Label != "00:01" {
		t.Fatalf("unexpected second ticks %+v", majors)
	}
	for _, tk := range ticks {
		if tk.X < 0 || tk.X >= 1000 {
			t.Fatalf("tick outside viewport: %+v", tk)
		}
	}

	r.Cycle()
	ticks = r.Ticks(0, 1000, 10, 24, 24*60)
	if ticks[0].Label != "0" || ticks[1].Frame != 2 || ticks[1].Major {
		t.Fatalf("unexpected frame ticks %+v", ticks[:2])
	}
	if ticks[5].Frame != 10 || !ticks[5].Major || ticks[5].Label != "10" {
		t.Fatalf("expected a major tick at frame 10, got %+v", ticks[5])
	}
}

func TestTransport(t *testing.T) {
	f := newFixture(false)
	f.store.Dispatch(store.SetDuration{Frames: 30})
	if !f.engine.TogglePlay() {
		t.Fatal("expected playing")
	}
	f.engine.Advance(24)
	if f.position() != 24 {
		t.Fatalf("expected 24, got %d", f.position())
	}
	f.engine.Advance(24)
	if f.position() != 30 || f.store.GetState().IsPlaying() {
		t.Fatal("playback should stop at the end")
	}
	f.engine.TogglePlay()
	if f.position() != 0 {
		t.Fatal("play at end should rewind")
	}
}
