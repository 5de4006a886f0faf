package app

import (
	"testing"
	"time"

	"github.com/treykane/cli-timeline/internal/store"
)

func TestFramesPerTick(t *testing.T) {
	tests := []struct {
		fps  int
		want int
	}{
		{fps: 24, want: 1},
		{fps: 60, want: 1},
		{fps: 120, want: 2},
		{fps: 0, want: 1},
	}
	for _, tt := range tests {
		if got := framesPerTick(tt.fps); got != tt.want {
			t.Fatalf("framesPerTick(%d): got %d, want %d", tt.fps, got, tt.want)
		}
	}
}

func TestPlaybackInterval(t *testing.T) {
	if got := PlaybackInterval(25); got != 40*time.Millisecond {
		t.Fatalf("expected 40ms at 25fps, got %v", got)
	}
	if got, want := PlaybackInterval(240), PlaybackInterval(MaxPlaybackFPS); got != want {
		t.Fatalf("expected high fps capped at %v, got %v", want, got)
	}
}

func TestPlaybackAdvancesAndPauses(t *testing.T) {
	m := newTestModel(t)
	if cmd := m.togglePlayback(); cmd == nil {
		t.Fatal("expected a tick command when playback starts")
	}
	if !m.State().IsPlaying() || m.status != "Playing" {
		t.Fatalf("expected playing, status %q", m.status)
	}

	_, cmd := m.handlePlayTick(playTickMsg{seq: m.playSeq})
	if cmd == nil {
		t.Fatal("expected the next tick to be scheduled")
	}
	if got := m.State().PlayheadPosition(); got != 1 {
		t.Fatalf("expected playhead at 1, got %d", got)
	}

	if cmd := m.togglePlayback(); cmd != nil {
		t.Fatal("expected no tick command on pause")
	}
	if m.State().IsPlaying() {
		t.Fatal("expected paused transport")
	}
}

func TestStalePlayTickIgnored(t *testing.T) {
	m := newTestModel(t)
	m.togglePlayback()
	stale := m.playSeq
	m.togglePlayback()
	m.togglePlayback()

	_, cmd := m.handlePlayTick(playTickMsg{seq: stale})
	if cmd != nil {
		t.Fatal("expected stale tick to be dropped")
	}
	if got := m.State().PlayheadPosition(); got != 0 {
		t.Fatalf("expected playhead unchanged, got %d", got)
	}
}

func TestPlaybackStopsAtEnd(t *testing.T) {
	m := newTestModel(t)
	end := m.State().Duration()
	m.store.Dispatch(store.SetPlayheadPosition{Frame: end - 1})
	m.togglePlayback()

	_, cmd := m.handlePlayTick(playTickMsg{seq: m.playSeq})
	if cmd != nil {
		t.Fatal("expected playback to stop without another tick")
	}
	if m.State().IsPlaying() {
		t.Fatal("expected transport stopped at the end")
	}
	if m.status != "Stopped at end" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestPlayFromEndRestartsAtZero(t *testing.T) {
	m := newTestModel(t)
	m.store.Dispatch(store.SetPlayheadPosition{Frame: m.State().Duration()})
	m.togglePlayback()
	if got := m.State().PlayheadPosition(); got != 0 {
		t.Fatalf("expected playback to restart at 0, got %d", got)
	}
}
