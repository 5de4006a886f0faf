package model

import "testing"

func TestTrackTypeHeights(t *testing.T) {
	tests := []struct {
		typ       TrackType
		min, dflt int
	}{
		{TrackMedia, 60, 80},
		{TrackAudio, 40, 60},
		{TrackEffects, 40, 50},
		{TrackTransitions, 30, 40},
		{TrackText, 30, 40},
		{TrackKeyframes, 30, 40},
	}
	for _, tt := range tests {
		if got := tt.typ.MinHeight(); got != tt.min {
			t.Fatalf("%s min: got %d, want %d", tt.typ, got, tt.min)
		}
		if got := tt.typ.DefaultHeight(); got != tt.dflt {
			t.Fatalf("%s default: got %d, want %d", tt.typ, got, tt.dflt)
		}
		if tt.typ.DefaultHeight() < tt.typ.MinHeight() {
			t.Fatalf("%s default below minimum", tt.typ)
		}
	}
	if TrackType("bogus").Valid() {
		t.Fatal("unknown track type should be invalid")
	}
}

func TestDefaultTracksHaveUniqueIDs(t *testing.T) {
	tracks := DefaultTracks()
	if len(tracks) != len(TrackTypes) {
		t.Fatalf("expected %d tracks, got %d", len(TrackTypes), len(tracks))
	}
	seen := map[string]bool{}
	for _, tr := range tracks {
		if tr.ID == "" || seen[tr.ID] {
			t.Fatalf("duplicate or empty id %q", tr.ID)
		}
		seen[tr.ID] = true
	}
}

func TestShotSpan(t *testing.T) {
	s := Shot{StartTime: 10, Duration: 5}
	if !s.Contains(10) || !s.Contains(14) || s.Contains(15) || s.Contains(9) {
		t.Fatal("contains should follow [start, start+duration)")
	}
	if !s.Intersects(14, 20) || s.Intersects(15, 20) || s.Intersects(0, 10) {
		t.Fatal("intersects should use half-open spans")
	}
}

func TestLayoutPercentRoundTrip(t *testing.T) {
	l := DefaultLayout()
	for _, p := range Panels {
		w, h := l.Percent(p)
		if got := l.WithPercent(p, w, h); got != l {
			t.Fatalf("%s: WithPercent(Percent) changed the layout", p)
		}
	}
	l = l.WithPercent(PanelPreview, 50, 55)
	if w, h := l.Percent(PanelPreview); w != 50 || h != 55 {
		t.Fatalf("unexpected preview percent %v/%v", w, h)
	}
	if PanelPreview.Axes() != AxisWidth|AxisHeight || PanelTimeline.Axes() != AxisHeight {
		t.Fatal("unexpected panel axes")
	}
}
