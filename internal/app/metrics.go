package app

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/treykane/cli-timeline/internal/model"
	"github.com/treykane/cli-timeline/internal/store"
	"github.com/treykane/cli-timeline/internal/timecode"
)

type projectMetrics struct {
	shots         int
	selected      int
	tracks        int
	visibleTracks int
	markers       int
	assets        int
	coveredFrames int
	duration      int
	fps           int
}

// computeProjectMetrics summarizes s. Covered frames count the union of shot
// spans clipped to the timeline, so overlapping shots are not counted twice.
func computeProjectMetrics(s store.State) projectMetrics {
	shots := s.Shots()
	return projectMetrics{
		shots:         len(shots),
		selected:      len(s.Selection()),
		tracks:        len(s.Tracks()),
		visibleTracks: lo.CountBy(s.Tracks(), func(t model.Track) bool { return !t.Hidden }),
		markers:       len(s.Markers()),
		assets:        len(s.Assets()),
		coveredFrames: coveredFrames(shots, s.Duration()),
		duration:      s.Duration(),
		fps:           s.FPS(),
	}
}

func coveredFrames(shots []model.Shot, duration int) int {
	spans := make([][2]int, 0, len(shots))
	for _, s := range shots {
		start, end := max(s.StartTime, 0), min(s.EndTime(), duration)
		if end > start {
			spans = append(spans, [2]int{start, end})
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i][0] < spans[j][0] })
	total, reach := 0, 0
	for _, sp := range spans {
		start := max(sp[0], reach)
		if sp[1] > start {
			total += sp[1] - start
		}
		reach = max(reach, sp[1])
	}
	return total
}

func (p projectMetrics) coverage() float64 {
	if p.duration <= 0 {
		return 0
	}
	return float64(p.coveredFrames) / float64(p.duration) * 100
}

// projectSummaryLines feeds the area under the preview.
func (m *Model) projectSummaryLines() []string {
	p := computeProjectMetrics(m.store.GetState())
	return []string{
		mutedStyle.Render(fmt.Sprintf(" Shots %d (%d selected)", p.shots, p.selected)),
		mutedStyle.Render(fmt.Sprintf(" Tracks %d/%d visible", p.visibleTracks, p.tracks)),
		mutedStyle.Render(fmt.Sprintf(" Length %s at %d fps", timecode.FormatDuration(p.duration, p.fps), p.fps)),
		mutedStyle.Render(fmt.Sprintf(" Coverage %.0f%% · %d markers · %d assets", p.coverage(), p.markers, p.assets)),
	}
}
