// Package store is the in-process state container shared by the timeline
// components. Components read a State snapshot, dispatch Actions and
// subscribe to changes; reducers never mutate a published snapshot.
package store

import (
	"maps"

	"github.com/treykane/cli-timeline/internal/model"
)

// State is an immutable snapshot. Slices and maps returned by its accessors
// are shared with the store and must not be modified.
type State struct {
	name      string
	layout    model.Layout
	tracks    []model.Track
	shots     []model.Shot
	assets    []model.Asset
	markers   []model.Marker
	position  int
	playing   bool
	zoom      float64
	duration  int
	fps       int
	selection map[string]bool
}

// Options seed a new store.
type Options struct {
	Name     string
	FPS      int
	Duration int
	Zoom     float64
	Layout   *model.Layout
	Tracks   []model.Track
	Shots    []model.Shot
	Assets   []model.Asset
	Markers  []model.Marker
}

func newState(opts Options) State {
	s := State{
		name:      opts.Name,
		layout:    model.DefaultLayout(),
		tracks:    opts.Tracks,
		shots:     opts.Shots,
		assets:    opts.Assets,
		markers:   opts.Markers,
		zoom:      opts.Zoom,
		duration:  opts.Duration,
		fps:       opts.FPS,
		selection: map[string]bool{},
	}
	if opts.Layout != nil {
		s.layout = *opts.Layout
	}
	if s.fps <= 0 {
		s.fps = 24
	}
	if s.duration <= 0 {
		s.duration = s.fps * 60 * 5
	}
	if s.zoom <= 0 {
		s.zoom = 2
	}
	if s.tracks == nil {
		s.tracks = model.DefaultTracks()
	}
	return s
}

func (s State) Name() string {
	return s.name
}

func (s State) Layout() model.Layout {
	return s.layout
}

func (s State) Tracks() []model.Track {
	return s.tracks
}

func (s State) Shots() []model.Shot {
	return s.shots
}

func (s State) Assets() []model.Asset {
	return s.assets
}

func (s State) Markers() []model.Marker {
	return s.markers
}

func (s State) PlayheadPosition() int {
	return s.position
}

func (s State) IsPlaying() bool {
	return s.playing
}

func (s State) ZoomLevel() float64 {
	return s.zoom
}

func (s State) Duration() int {
	return s.duration
}

func (s State) FPS() int {
	return s.fps
}

func (s State) Selection() map[string]bool {
	return s.selection
}

func (s State) Selected(shotID string) bool {
	return s.selection[shotID]
}

// Track returns the track with id.
func (s State) Track(id string) (model.Track, int, bool) {
	for i, t := range s.tracks {
		if t.ID == id {
			return t, i, true
		}
	}
	return model.Track{}, -1, false
}

// Shot returns the shot with id.
func (s State) Shot(id string) (model.Shot, bool) {
	for _, sh := range s.shots {
		if sh.ID == id {
			return sh, true
		}
	}
	return model.Shot{}, false
}

// Asset returns the asset with id.
func (s State) Asset(id string) (model.Asset, bool) {
	for _, a := range s.assets {
		if a.ID == id {
			return a, true
		}
	}
	return model.Asset{}, false
}

func (s State) withSelection(sel map[string]bool) State {
	s.selection = maps.Clone(sel)
	if s.selection == nil {
		s.selection = map[string]bool{}
	}
	return s
}
