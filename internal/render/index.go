package render

import (
	"sort"

	"github.com/treykane/cli-timeline/internal/model"
)

// TrackShot pairs a shot with one of its layers.
type TrackShot struct {
	Shot  model.Shot
	Layer model.Layer
}

// Start returns the shot start frame.
func (ts TrackShot) Start() int {
	return ts.Shot.StartTime
}

// End returns the first frame after the shot.
func (ts TrackShot) End() int {
	return ts.Shot.EndTime()
}

// GetTrackShots returns every (shot, layer) pair whose layer type is
// trackType, in shot order. A shot with several matching layers yields one
// pair per layer.
func GetTrackShots(shots []model.Shot, trackType model.TrackType) []TrackShot {
	var out []TrackShot
	for _, s := range shots {
		for _, l := range s.Layers {
			if l.Type == trackType {
				out = append(out, TrackShot{Shot: s, Layer: l})
			}
		}
	}
	return out
}

type typeIndex struct {
	items       []TrackShot // sorted by start frame
	maxDuration int
}

// Index groups track shots per track type for range queries.
type Index struct {
	byType map[model.TrackType]*typeIndex
	total  int
}

// NewIndex builds an index over shots, one GetTrackShots pass per layer type
// present.
func NewIndex(shots []model.Shot) *Index {
	idx := &Index{byType: map[model.TrackType]*typeIndex{}, total: len(shots)}
	for _, s := range shots {
		for _, l := range s.Layers {
			if _, seen := idx.byType[l.Type]; seen {
				continue
			}
			ti := &typeIndex{items: GetTrackShots(shots, l.Type)}
			for _, ts := range ti.items {
				ti.maxDuration = max(ti.maxDuration, ts.Shot.Duration)
			}
			sort.SliceStable(ti.items, func(i, j int) bool {
				return ti.items[i].Start() < ti.items[j].Start()
			})
			idx.byType[l.Type] = ti
		}
	}
	return idx
}

// Count returns how many pairs exist for trackType.
func (idx *Index) Count(trackType model.TrackType) int {
	if ti := idx.byType[trackType]; ti != nil {
		return len(ti.items)
	}
	return 0
}

// Visible returns the pairs of trackType intersecting [startFrame, endFrame).
func (idx *Index) Visible(trackType model.TrackType, startFrame, endFrame int) []TrackShot {
	ti := idx.byType[trackType]
	if ti == nil || endFrame <= startFrame {
		return nil
	}
	// Nothing starting before startFrame-maxDuration can reach startFrame.
	lo := sort.Search(len(ti.items), func(i int) bool {
		return ti.items[i].Start() > startFrame-ti.maxDuration
	})
	hi := sort.Search(len(ti.items), func(i int) bool {
		return ti.items[i].Start() >= endFrame
	})
	var out []TrackShot
	for _, item := range ti.items[lo:hi] {
		if item.Shot.Intersects(startFrame, endFrame) {
			out = append(out, item)
		}
	}
	return out
}

// At returns the pairs of trackType whose span contains frame, last drawn
// first.
func (idx *Index) At(trackType model.TrackType, frame int) []TrackShot {
	hits := idx.Visible(trackType, frame, frame+1)
	for i, j := 0, len(hits)-1; i < j; i, j = i+1, j-1 {
		hits[i], hits[j] = hits[j], hits[i]
	}
	return hits
}
