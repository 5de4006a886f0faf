package render

import (
	"fmt"
	"math"

	"github.com/treykane/cli-timeline/internal/model"
	"github.com/treykane/cli-timeline/internal/timecode"
)

// Input is everything needed to draw one frame of the timeline.
type Input struct {
	Tracks         []model.Track
	Shots          []model.Shot
	Zoom           float64
	Playhead       int
	Selected       map[string]bool
	ViewportWidth  int
	ViewportHeight int
	ScrollX        float64
	ScrollY        float64

	// Heights overrides stored track heights when set.
	Heights Heights
	// Index is reused when set; otherwise one is built from Shots.
	Index *Index
}

func (in Input) index() *Index {
	if in.Index != nil {
		return in.Index
	}
	return NewIndex(in.Shots)
}

// frameRange returns the frames visible horizontally.
func (in Input) frameRange() (int, int) {
	start := int(math.Floor(timecode.PixelToFrame(in.ScrollX, in.Zoom)))
	end := int(math.Ceil(timecode.PixelToFrame(in.ScrollX+float64(in.ViewportWidth), in.Zoom)))
	return max(start, 0), end
}

// Window computes the vertical window for in.
func (in Input) Window() Window {
	return computeWindow(in.Tracks, in.Heights, in.ScrollY, float64(in.ViewportHeight))
}

// Stats counts work done by the last Render.
type Stats struct {
	Tracks     int // visible tracks drawn
	Considered int // track shots that exist on visible tracks
	Drawn      int // track shots intersecting the viewport
}

func (s Stats) String() string {
	return fmt.Sprintf("tracks %d, shots %d/%d", s.Tracks, s.Drawn, s.Considered)
}

const (
	shotInset   = 2
	textPadding = 4
	badgeWidth  = 24
)

// Render draws every visible track onto its own surface.
func Render(in Input, factory Factory) ([]TrackSurface, Stats) {
	var stats Stats
	win := in.Window()
	if len(win.Slots) == 0 || in.ViewportWidth <= 0 {
		return nil, stats
	}
	idx := in.index()
	startFrame, endFrame := in.frameRange()
	playheadX := timecode.FrameToPixel(float64(in.Playhead), in.Zoom) - in.ScrollX

	out := make([]TrackSurface, 0, len(win.Slots))
	for _, slot := range win.Slots {
		surface := factory(slot.Track, in.ViewportWidth, slot.Height)
		surface.Clear(PaintBackground)
		if slot.Track.Locked {
			surface.FillRect(0, 0, float64(in.ViewportWidth), 1, PaintLocked)
		}

		visible := idx.Visible(slot.Track.Type, startFrame, endFrame)
		stats.Considered += idx.Count(slot.Track.Type)
		stats.Drawn += len(visible)
		for _, ts := range visible {
			drawShot(surface, in, ts, slot.Height)
		}

		// The playhead spans every visible track.
		if playheadX >= 0 && playheadX < float64(in.ViewportWidth) {
			surface.VLine(playheadX, PaintPlayhead)
		}
		out = append(out, TrackSurface{Slot: slot, Surface: surface})
		stats.Tracks++
	}
	return out, stats
}

func drawShot(s Surface, in Input, ts TrackShot, height int) {
	x := timecode.FrameToPixel(float64(ts.Start()), in.Zoom) - in.ScrollX
	w := timecode.FrameToPixel(float64(ts.Shot.Duration), in.Zoom)
	h := float64(height - 2*shotInset)

	paint := PaintShot
	if in.Selected[ts.Shot.ID] {
		paint = PaintShotSelected
	}
	s.FillRect(x, shotInset, w, h, paint)
	if paint == PaintShotSelected {
		s.StrokeRect(x, shotInset, w, h, PaintShotSelected)
	}

	textX := max(x, 0) + textPadding
	s.DrawText(textX, shotInset+textPadding, ts.Shot.Name, PaintShotText)
	if n := len(ts.Shot.Layers); n > 1 && w > badgeWidth {
		s.DrawText(x+w-badgeWidth, shotInset+textPadding, fmt.Sprintf("×%d", n), PaintBadge)
	}
}

// HitTest maps a pointer at surface coordinates (x, y) on track trackID back
// to the topmost shot under it.
func HitTest(in Input, trackID string, x, y float64) (string, bool) {
	win := in.Window()
	var slot Slot
	found := false
	for _, s := range win.Slots {
		if s.Track.ID == trackID {
			slot, found = s, true
			break
		}
	}
	if !found || y < 0 || y >= float64(slot.Height) || in.Zoom <= 0 {
		return "", false
	}
	frame := int(math.Floor(timecode.PixelToFrame(x+in.ScrollX, in.Zoom)))
	if frame < 0 {
		return "", false
	}
	hits := in.index().At(slot.Track.Type, frame)
	if len(hits) == 0 {
		return "", false
	}
	return hits[0].Shot.ID, true
}

// Click resolves a click and reports the selection through onSelect. multi is
// true when a multi-select modifier was held. It returns false when nothing
// was hit.
func Click(in Input, trackID string, x, y float64, multi bool, onSelect func(id string, multi bool)) bool {
	id, ok := HitTest(in, trackID, x, y)
	if !ok {
		return false
	}
	if onSelect != nil {
		onSelect(id, multi)
	}
	return true
}
