package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/treykane/cli-timeline/internal/model"
)

func shot(id string, start, duration int, layers ...model.TrackType) model.Shot {
	s := model.Shot{ID: id, Name: id, StartTime: start, Duration: duration}
	for i, t := range layers {
		s.Layers = append(s.Layers, model.Layer{ID: fmt.Sprintf("%s-l%d", id, i), Type: t, Duration: duration, Opacity: 1})
	}
	return s
}

func testTracks() []model.Track {
	return []model.Track{
		{ID: "v", Type: model.TrackMedia, Height: 80},
		{ID: "h", Type: model.TrackEffects, Height: 50, Hidden: true},
		{ID: "a", Type: model.TrackAudio, Height: 60},
		{ID: "t", Type: model.TrackText, Height: 40},
	}
}

func TestGetTrackShots(t *testing.T) {
	shots := []model.Shot{
		shot("s1", 0, 10, model.TrackMedia, model.TrackAudio),
		shot("s2", 10, 10, model.TrackAudio),
		shot("s3", 20, 10, model.TrackMedia, model.TrackMedia),
	}
	got := GetTrackShots(shots, model.TrackMedia)
	want := []string{"s1-l0", "s3-l0", "s3-l1"}
	if len(got) != len(want) {
		t.Fatalf("expected %d pairs, got %d", len(want), len(got))
	}
	for i, ts := range got {
		if ts.Layer.ID != want[i] || ts.Layer.Type != model.TrackMedia {
			t.Fatalf("pair %d: got %s/%s", i, ts.Shot.ID, ts.Layer.ID)
		}
	}
	if len(GetTrackShots(shots, model.TrackKeyframes)) != 0 {
		t.Fatal("expected no keyframe pairs")
	}
}

func TestIndexMatchesGetTrackShots(t *testing.T) {
	shots := []model.Shot{
		shot("s3", 20, 10, model.TrackMedia, model.TrackMedia),
		shot("s1", 0, 40, model.TrackMedia, model.TrackAudio),
		shot("s2", 10, 10, model.TrackAudio),
	}
	idx := NewIndex(shots)
	for _, tt := range []model.TrackType{model.TrackMedia, model.TrackAudio, model.TrackText} {
		if got, want := idx.Count(tt), len(GetTrackShots(shots, tt)); got != want {
			t.Fatalf("%s: index has %d pairs, GetTrackShots %d", tt, got, want)
		}
	}
	// s1 starts first but is listed second; the index sorts by start.
	got := idx.Visible(model.TrackMedia, 0, 100)
	if len(got) != 3 || got[0].Shot.ID != "s1" {
		t.Fatalf("expected s1 first of 3 media pairs, got %+v", got)
	}
	// s1 is 40 frames long, so it still reaches frame 35.
	if got := idx.Visible(model.TrackMedia, 35, 36); len(got) != 1 || got[0].Shot.ID != "s1" {
		t.Fatalf("expected only s1 at frame 35, got %+v", got)
	}
}

func TestComputeWindowSkipsHiddenAndScrolls(t *testing.T) {
	w := ComputeWindow(testTracks(), 0, 0)
	if len(w.Slots) != 3 || w.TotalHeight != 180 {
		t.Fatalf("unexpected full window: %d slots, %dpx", len(w.Slots), w.TotalHeight)
	}
	if w.Slots[1].Track.ID != "a" || w.Slots[1].Top != 80 || w.Slots[1].Index != 2 {
		t.Fatalf("unexpected audio slot %+v", w.Slots[1])
	}

	w = ComputeWindow(testTracks(), 90, 50)
	if len(w.Slots) != 1 || w.Slots[0].Track.ID != "a" {
		t.Fatalf("expected only the audio track, got %+v", w.Slots)
	}

	w = ComputeWindow(testTracks(), 70, 80)
	if len(w.Slots) != 3 {
		t.Fatalf("expected three partially visible tracks, got %d", len(w.Slots))
	}
	if s, ok := w.SlotAt(145); !ok || s.Track.ID != "t" {
		t.Fatalf("SlotAt(145) = %+v, %v", s, ok)
	}
	if _, ok := w.SlotAt(500); ok {
		t.Fatal("SlotAt past the end should miss")
	}
}

func TestComputeWindowRaisesHeights(t *testing.T) {
	w := ComputeWindow([]model.Track{{ID: "v", Type: model.TrackMedia, Height: 5}}, 0, 0)
	if w.Slots[0].Height != 60 {
		t.Fatalf("expected height raised to 60, got %d", w.Slots[0].Height)
	}
}

func TestRenderDrawsVisibleShotsOnly(t *testing.T) {
	shots := make([]model.Shot, 0, 1000)
	for i := 0; i < 1000; i++ {
		shots = append(shots, shot(fmt.Sprintf("s%d", i), i*100, 50, model.TrackMedia))
	}
	in := Input{
		Tracks:         testTracks(),
		Shots:          shots,
		Zoom:           1,
		ViewportWidth:  400,
		ViewportHeight: 300,
		ScrollX:        10_000,
	}
	var surfaces []*recorder
	out, stats := Render(in, recorderFactory(&surfaces))
	if len(out) != 3 {
		t.Fatalf("expected 3 visible surfaces, got %d", len(out))
	}
	if surfaces[0].width != 400 || surfaces[0].height != 80 {
		t.Fatalf("unexpected surface size %dx%d", surfaces[0].width, surfaces[0].height)
	}
	// Frames [10000, 10400) intersect shots 100..103.
	if got := surfaces[0].count("fill", PaintShot); got != 4 {
		t.Fatalf("expected 4 shot rectangles, got %d", got)
	}
	if stats.Drawn != 4 || stats.Considered != 1000 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	for _, c := range surfaces[0].calls {
		if c.op == "fill" && (c.x+c.w < 0 || c.x >= 400) {
			t.Fatalf("drew a shot outside the viewport at x=%v", c.x)
		}
	}
}

func TestRenderPlayheadSpansVisibleTracks(t *testing.T) {
	in := Input{Tracks: testTracks(), Zoom: 10, Playhead: 12, ViewportWidth: 500}
	var surfaces []*recorder
	Render(in, recorderFactory(&surfaces))
	for _, s := range surfaces {
		if s.count("vline", PaintPlayhead) != 1 {
			t.Fatalf("track %s is missing the playhead", s.track.ID)
		}
	}
	in.Playhead = 100
	surfaces = nil
	Render(in, recorderFactory(&surfaces))
	if surfaces[0].count("vline", PaintPlayhead) != 0 {
		t.Fatal("off-screen playhead should not be drawn")
	}
}

func TestRenderSelectionAndBadge(t *testing.T) {
	in := Input{
		Tracks:        []model.Track{{ID: "v", Type: model.TrackMedia, Height: 80}},
		Shots:         []model.Shot{shot("multi", 0, 20, model.TrackMedia, model.TrackAudio)},
		Zoom:          5,
		Selected:      map[string]bool{"multi": true},
		ViewportWidth: 300,
	}
	var surfaces []*recorder
	Render(in, recorderFactory(&surfaces))
	s := surfaces[0]
	if s.count("fill", PaintShotSelected) != 1 || s.count("stroke", PaintShotSelected) != 1 {
		t.Fatal("selected shot should be highlighted")
	}
	badge := false
	for _, c := range s.calls {
		if c.op == "text" && c.paint == PaintBadge && c.text == "×2" {
			badge = true
		}
	}
	if !badge {
		t.Fatal("expected a ×2 layer badge")
	}
}

func TestHitTestAndClick(t *testing.T) {
	in := Input{
		Tracks: []model.Track{{ID: "v", Type: model.TrackMedia, Height: 80}, {ID: "a", Type: model.TrackAudio, Height: 60}},
		Shots: []model.Shot{
			shot("s1", 0, 10, model.TrackMedia),
			shot("s2", 10, 10, model.TrackMedia, model.TrackAudio),
		},
		Zoom:          10,
		ViewportWidth: 500,
		ScrollX:       50,
	}
	if id, ok := HitTest(in, "v", 0, 10); !ok || id != "s1" {
		t.Fatalf("expected s1 at frame 5, got %q %v", id, ok)
	}
	if id, ok := HitTest(in, "v", 60, 10); !ok || id != "s2" {
		t.Fatalf("expected s2 at frame 11, got %q %v", id, ok)
	}
	if _, ok := HitTest(in, "a", 0, 10); ok {
		t.Fatal("audio track has nothing at frame 5")
	}
	if _, ok := HitTest(in, "v", 300, 10); ok {
		t.Fatal("frame 35 is empty")
	}

	var gotID string
	var gotMulti bool
	if !Click(in, "a", 60, 5, true, func(id string, multi bool) { gotID, gotMulti = id, multi }) {
		t.Fatal("click should hit s2 on the audio track")
	}
	if gotID != "s2" || !gotMulti {
		t.Fatalf("unexpected selection %q multi=%v", gotID, gotMulti)
	}
}

func TestCellSurfaceRender(t *testing.T) {
	in := Input{
		Tracks:        []model.Track{{ID: "v", Type: model.TrackMedia, Height: 32, Color: "#4f8cff"}},
		Shots:         []model.Shot{shot("Intro", 2, 6, model.TrackMedia)},
		Zoom:          8,
		Playhead:      1,
		ViewportWidth: 160,
	}
	out, _ := Render(in, CellFactory(8, 16))
	cs := out[0].Surface.(*CellSurface)
	if cols, rows := cs.Grid(); cols != 20 || rows != 2 {
		t.Fatalf("unexpected grid %dx%d", cols, rows)
	}
	if cs.PaintAt(2, 0) != PaintShot || cs.PaintAt(8, 0) != PaintBackground {
		t.Fatal("shot should cover columns 2-7")
	}
	if row := cs.Text(0); !strings.Contains(row, "Intro") || []rune(row)[1] != '│' {
		t.Fatalf("unexpected row %q", row)
	}
	if cs.Render() == "" {
		t.Fatal("expected styled output")
	}
}

func TestImageSurface(t *testing.T) {
	in := Input{
		Tracks:        []model.Track{{ID: "v", Type: model.TrackMedia, Height: 60, Color: "#ff0000"}},
		Shots:         []model.Shot{shot("a", 0, 10, model.TrackMedia)},
		Zoom:          4,
		Playhead:      20,
		ViewportWidth: 100,
	}
	out, _ := Render(in, ImageFactory())
	img := out[0].Surface.(*ImageSurface).Image()
	if got := img.RGBAAt(20, 30); got.R != 0xff || got.G != 0 {
		t.Fatalf("expected track-coloured shot, got %+v", got)
	}
	if got := img.RGBAAt(80, 30); got != DefaultImagePalette[PaintPlayhead] {
		t.Fatalf("expected playhead at x=80, got %+v", got)
	}
	composed := Compose(out, 100, 20)
	if composed.Bounds().Dy() != 80 {
		t.Fatalf("expected composed height 80, got %d", composed.Bounds().Dy())
	}
	if _, err := ParseHexColor("nope"); err == nil {
		t.Fatal("expected error for bad colour")
	}
}
