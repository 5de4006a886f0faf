package playhead

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/treykane/cli-timeline/internal/gesture"
	"github.com/treykane/cli-timeline/internal/timecode"
)

// DoubleActivationWindow is the longest gap between two ruler activations
// that still counts as a double activation.
const DoubleActivationWindow = 400 * time.Millisecond

// Granularity selects how ruler ticks are labelled.
type Granularity int

const (
	GranularitySeconds Granularity = iota
	GranularityFrames
	GranularityMinutes
)

func (g Granularity) String() string {
	switch g {
	case GranularityFrames:
		return "frames"
	case GranularityMinutes:
		return "minutes"
	default:
		return "seconds"
	}
}

// Next returns the following granularity in the seconds -> frames -> minutes
// cycle.
func (g Granularity) Next() Granularity {
	return (g + 1) % 3
}

// Ruler holds display-only ruler state.
type Ruler struct {
	granularity Granularity
	clock       gesture.Scheduler
	last        time.Time
	hasLast     bool
}

func newRuler(clock gesture.Scheduler) *Ruler {
	return &Ruler{clock: clock}
}

// Granularity returns the current label granularity.
func (r *Ruler) Granularity() Granularity {
	return r.granularity
}

// Cycle advances to the next granularity.
func (r *Ruler) Cycle() Granularity {
	r.granularity = r.granularity.Next()
	return r.granularity
}

func (r *Ruler) now() time.Time {
	if r.clock != nil {
		return r.clock.Now()
	}
	return time.Now()
}

// activate records a click and cycles on a double activation.
func (r *Ruler) activate() bool {
	now := r.now()
	if r.hasLast && now.Sub(r.last) <= DoubleActivationWindow {
		r.hasLast = false
		r.Cycle()
		return true
	}
	r.last = now
	r.hasLast = true
	return false
}

// Tick is one labelled ruler mark.
type Tick struct {
	X     float64 // px from the left edge of the visible ruler
	Frame int
	Label string
	Major bool
}

// MinTickSpacing is the narrowest gap between major ticks, in px.
const MinTickSpacing = 80

var stepMultipliers = []int{1, 2, 5, 10, 15, 30, 60, 120, 300, 600}

// Ticks lists the major and minor ticks visible in [scrollX, scrollX+width).
func (r *Ruler) Ticks(scrollX, width, zoom float64, fps, duration int) []Tick {
	if zoom <= 0 || fps <= 0 || width <= 0 {
		return nil
	}
	base := fps
	switch r.granularity {
	case GranularityFrames:
		base = 1
	case GranularityMinutes:
		base = fps * 60
	}
	step := base
	for _, m := range stepMultipliers {
		step = base * m
		if float64(step)*zoom >= MinTickSpacing {
			break
		}
	}
	minor := step / 5
	if minor < 1 || float64(minor)*zoom < 8 {
		minor = 0
	}

	first := int(math.Floor(timecode.PixelToFrame(scrollX, zoom)))
	last := min(int(math.Ceil(timecode.PixelToFrame(scrollX+width, zoom))), duration)
	var ticks []Tick
	unit := step
	if minor > 0 {
		unit = minor
	}
	start := max(first-first%unit, 0)
	for f := start; f <= last; f += unit {
		x := timecode.FrameToPixel(float64(f), zoom) - scrollX
		if x < 0 || x >= width {
			continue
		}
		major := f%step == 0
		t := Tick{X: x, Frame: f, Major: major}
		if major {
			t.Label = r.label(f, fps)
		}
		ticks = append(ticks, t)
	}
	return ticks
}

func (r *Ruler) label(frame, fps int) string {
	switch r.granularity {
	case GranularityFrames:
		return fmt.Sprintf("%d", frame)
	case GranularityMinutes:
		return fmt.Sprintf("%dm", frame/(fps*60))
	default:
		tc := timecode.FramesToTimecode(frame, fps)
		return tc[:strings.LastIndex(tc, ":")]
	}
}
