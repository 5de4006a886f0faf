// Package render draws the visible slice of the timeline.
//
// Only tracks inside the vertical viewport get a surface, and on each of them
// only shots whose frame span intersects the horizontal viewport are drawn.
// Both lookups are binary searches, so a frame costs time proportional to what
// is on screen rather than to the size of the timeline.
package render

import (
	"sort"

	"github.com/treykane/cli-timeline/internal/model"
)

// Slot is the vertical placement of a visible track, in content px.
type Slot struct {
	Track  model.Track
	Index  int // position in the full track list
	Top    int
	Height int
}

// Bottom is the first px below the slot.
func (s Slot) Bottom() int {
	return s.Top + s.Height
}

// Window is the result of vertical windowing.
type Window struct {
	Slots       []Slot
	TotalHeight int
}

// Heights overrides track heights, e.g. during a vertical resize.
type Heights func(track model.Track) int

// ComputeWindow lays out non-hidden tracks top to bottom and returns the slots
// overlapping [scrollY, scrollY+viewportHeight). A non-positive viewport
// height returns every slot.
func ComputeWindow(tracks []model.Track, scrollY, viewportHeight float64) Window {
	return computeWindow(tracks, nil, scrollY, viewportHeight)
}

func computeWindow(tracks []model.Track, heights Heights, scrollY, viewportHeight float64) Window {
	laid := make([]Slot, 0, len(tracks))
	top := 0
	for i, t := range tracks {
		if t.Hidden {
			continue
		}
		h := t.Height
		if heights != nil {
			h = heights(t)
		}
		h = t.ClampHeight(h)
		laid = append(laid, Slot{Track: t, Index: i, Top: top, Height: h})
		top += h
	}
	w := Window{TotalHeight: top}
	if viewportHeight <= 0 {
		w.Slots = laid
		return w
	}

	// Tops are prefix sums, so both ends of the window are binary searches.
	start := sort.Search(len(laid), func(i int) bool { return float64(laid[i].Bottom()) > scrollY })
	end := sort.Search(len(laid), func(i int) bool { return float64(laid[i].Top) >= scrollY+viewportHeight })
	if start < end {
		w.Slots = laid[start:end]
	}
	return w
}

// SlotAt returns the slot containing content y.
func (w Window) SlotAt(y float64) (Slot, bool) {
	i := sort.Search(len(w.Slots), func(i int) bool { return float64(w.Slots[i].Bottom()) > y })
	if i < len(w.Slots) && float64(w.Slots[i].Top) <= y {
		return w.Slots[i], true
	}
	return Slot{}, false
}
