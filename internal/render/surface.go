package render

import "github.com/treykane/cli-timeline/internal/model"

// Paint is a semantic colour role. Each surface maps roles to its own colours.
type Paint int

const (
	PaintBackground Paint = iota
	PaintGrid
	PaintShot
	PaintShotSelected
	PaintShotText
	PaintBadge
	PaintPlayhead
	PaintLocked
)

// Surface is a drawable area for one track. Coordinates are px relative to
// the surface's top-left corner.
type Surface interface {
	Size() (width, height int)
	Clear(p Paint)
	FillRect(x, y, w, h float64, p Paint)
	StrokeRect(x, y, w, h float64, p Paint)
	VLine(x float64, p Paint)
	DrawText(x, y float64, text string, p Paint)
}

// Factory allocates a surface for track sized width × height px.
type Factory func(track model.Track, width, height int) Surface

// TrackSurface is a rendered track.
type TrackSurface struct {
	Slot    Slot
	Surface Surface
}
