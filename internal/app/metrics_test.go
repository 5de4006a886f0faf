package app

import (
	"testing"

	"github.com/treykane/cli-timeline/internal/model"
)

func span(start, duration int) model.Shot {
	return model.Shot{StartTime: start, Duration: duration}
}

func TestCoveredFrames(t *testing.T) {
	tests := []struct {
		name     string
		shots    []model.Shot
		duration int
		want     int
	}{
		{name: "empty", shots: nil, duration: 100, want: 0},
		{name: "disjoint", shots: []model.Shot{span(0, 10), span(20, 10)}, duration: 100, want: 20},
		{name: "overlapping", shots: []model.Shot{span(0, 30), span(10, 10), span(25, 10)}, duration: 100, want: 35},
		{name: "adjacent", shots: []model.Shot{span(0, 10), span(10, 10)}, duration: 100, want: 20},
		{name: "clipped at end", shots: []model.Shot{span(90, 30)}, duration: 100, want: 10},
		{name: "past end", shots: []model.Shot{span(150, 10)}, duration: 100, want: 0},
		{name: "unsorted", shots: []model.Shot{span(50, 10), span(0, 5)}, duration: 100, want: 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := coveredFrames(tt.shots, tt.duration); got != tt.want {
				t.Fatalf("coveredFrames: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestComputeProjectMetricsForSample(t *testing.T) {
	m := newTestModel(t)
	p := computeProjectMetrics(m.State())

	if p.shots != 5 || p.tracks != 6 || p.visibleTracks != 6 || p.markers != 2 || p.assets != 10 {
		t.Fatalf("unexpected counts %+v", p)
	}
	if p.coveredFrames != 240 {
		t.Fatalf("expected 240 covered frames, got %d", p.coveredFrames)
	}
	if got := p.coverage(); got < 3.33 || got > 3.34 {
		t.Fatalf("expected ~3.33%% coverage, got %v", got)
	}
}

func TestCoverageWithoutDuration(t *testing.T) {
	if got := (projectMetrics{coveredFrames: 10}).coverage(); got != 0 {
		t.Fatalf("expected 0 coverage without duration, got %v", got)
	}
}
