package store

import (
	"slices"

	"github.com/samber/lo"

	"github.com/treykane/cli-timeline/internal/model"
	"github.com/treykane/cli-timeline/internal/timecode"
)

// Action is a state transition dispatched to the store.
type Action interface {
	reduce(State) State
}

// SetPanelLayout replaces the panel layout.
type SetPanelLayout struct {
	Layout model.Layout
}

func (a SetPanelLayout) reduce(s State) State {
	s.layout = a.Layout
	return s
}

// ResetPanelLayout restores the default panel layout.
type ResetPanelLayout struct{}

func (ResetPanelLayout) reduce(s State) State {
	s.layout = model.DefaultLayout()
	return s
}

// SetTracks replaces the track list. Heights are raised to each type minimum.
type SetTracks struct {
	Tracks []model.Track
}

func (a SetTracks) reduce(s State) State {
	s.tracks = lo.Map(a.Tracks, func(t model.Track, _ int) model.Track {
		t.Height = t.ClampHeight(t.Height)
		return t
	})
	return s
}

// AddTrack appends a default track of Type.
type AddTrack struct {
	Type model.TrackType
	ID   string
}

func (a AddTrack) reduce(s State) State {
	if !a.Type.Valid() {
		return s
	}
	t := model.NewTrack(a.Type)
	if a.ID != "" {
		t.ID = a.ID
	}
	s.tracks = append(slices.Clone(s.tracks), t)
	return s
}

// DeleteTrack removes the track with ID.
type DeleteTrack struct {
	ID string
}

func (a DeleteTrack) reduce(s State) State {
	s.tracks = lo.Reject(s.tracks, func(t model.Track, _ int) bool { return t.ID == a.ID })
	return s
}

// UpdateTrack replaces the track sharing Track.ID.
type UpdateTrack struct {
	Track model.Track
}

func (a UpdateTrack) reduce(s State) State {
	_, idx, ok := s.Track(a.Track.ID)
	if !ok {
		return s
	}
	t := a.Track
	t.Height = t.ClampHeight(t.Height)
	s.tracks = slices.Clone(s.tracks)
	s.tracks[idx] = t
	return s
}

// ReorderTrack moves the track at From to index To.
type ReorderTrack struct {
	From, To int
}

func (a ReorderTrack) reduce(s State) State {
	n := len(s.tracks)
	if a.From == a.To || a.From < 0 || a.From >= n || a.To < 0 || a.To >= n {
		return s
	}
	tracks := slices.Clone(s.tracks)
	moved := tracks[a.From]
	tracks = slices.Delete(tracks, a.From, a.From+1)
	tracks = slices.Insert(tracks, a.To, moved)
	s.tracks = tracks
	return s
}

// SetPlayheadPosition moves the playhead, clamped to [0, duration].
type SetPlayheadPosition struct {
	Frame int
}

func (a SetPlayheadPosition) reduce(s State) State {
	s.position = timecode.Clamp(a.Frame, s.duration)
	return s
}

// SetPlaying starts or stops the transport.
type SetPlaying struct {
	Playing bool
}

func (a SetPlaying) reduce(s State) State {
	s.playing = a.Playing
	return s
}

// Zoom bounds in px per frame.
const (
	MinZoom = 0.1
	MaxZoom = 100
)

// SetZoomLevel sets the px-per-frame scale, clamped to [MinZoom, MaxZoom].
type SetZoomLevel struct {
	Zoom float64
}

func (a SetZoomLevel) reduce(s State) State {
	s.zoom = min(max(a.Zoom, MinZoom), MaxZoom)
	return s
}

// SetDuration changes the timeline length and re-clamps the playhead.
type SetDuration struct {
	Frames int
}

func (a SetDuration) reduce(s State) State {
	if a.Frames < 1 {
		return s
	}
	s.duration = a.Frames
	s.position = timecode.Clamp(s.position, s.duration)
	return s
}

// AddShot appends a shot.
type AddShot struct {
	Shot model.Shot
}

func (a AddShot) reduce(s State) State {
	if a.Shot.Duration < 1 {
		a.Shot.Duration = 1
	}
	s.shots = append(slices.Clone(s.shots), a.Shot)
	return s
}

// DeleteShot removes the shot with ID and drops it from the selection.
type DeleteShot struct {
	ID string
}

func (a DeleteShot) reduce(s State) State {
	s.shots = lo.Reject(s.shots, func(sh model.Shot, _ int) bool { return sh.ID == a.ID })
	if s.selection[a.ID] {
		sel := lo.OmitByKeys(s.selection, []string{a.ID})
		s = s.withSelection(sel)
	}
	return s
}

// SetSelection replaces the selection, or toggles IDs into it when Multi is
// set.
type SetSelection struct {
	IDs   []string
	Multi bool
}

func (a SetSelection) reduce(s State) State {
	if !a.Multi {
		return s.withSelection(lo.Associate(a.IDs, func(id string) (string, bool) { return id, true }))
	}
	sel := s.withSelection(s.selection).selection
	for _, id := range a.IDs {
		if sel[id] {
			delete(sel, id)
		} else {
			sel[id] = true
		}
	}
	s.selection = sel
	return s
}

// LoadProject replaces the whole document.
type LoadProject struct {
	Name     string
	FPS      int
	Duration int
	Zoom     float64
	Tracks   []model.Track
	Shots    []model.Shot
	Assets   []model.Asset
	Markers  []model.Marker
}

func (a LoadProject) reduce(s State) State {
	next := newState(Options{
		Name:     a.Name,
		FPS:      a.FPS,
		Duration: a.Duration,
		Zoom:     a.Zoom,
		Tracks:   a.Tracks,
		Shots:    a.Shots,
		Assets:   a.Assets,
		Markers:  a.Markers,
	})
	next.layout = s.layout
	next = SetTracks{Tracks: next.tracks}.reduce(next)
	return next
}

type undoable struct {
	Action
}

// Undoable wraps a so that dispatching it records an undo point.
func Undoable(a Action) Action {
	return undoable{Action: a}
}
