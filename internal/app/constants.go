package app

import "time"

// Layout constants define the fixed rows and columns of the editor screen.
const (
	// HeaderRows is the title bar above the panels.
	HeaderRows = 1

	// TimelineChromeRows are the divider and the two ruler rows at the top of
	// the timeline panel.
	TimelineChromeRows = 3

	// TrackHeaderCols is the width of the track name and controls column.
	TrackHeaderCols = 18

	// MinMiddleCols keeps the preview column usable when side panels grow.
	MinMiddleCols = 20

	// MinTopRows keeps the panel band visible when the timeline grows.
	MinTopRows = 4

	// FooterMinRows is the default number of rows reserved for the bottom
	// status/help area.
	FooterMinRows = 2
	// FooterMaxRows is the expanded footer height used when content does not
	// fit within FooterMinRows.
	FooterMaxRows = 3

	// GoToPopupWidth is the width of the go-to-timecode dialog.
	GoToPopupWidth = 44
)

// Input limits define maximum sizes for user input
const (
	// InputCharLimit is the maximum number of characters allowed in text inputs
	InputCharLimit = 16
)

// Rendering constants control render timing and optimization
const (
	// RenderWidthBucket is the granularity for width-based prompt render
	// caching. Widths are rounded down to a multiple of this value.
	RenderWidthBucket = 10

	// MaxPlaybackFPS caps the playback tick rate for high frame rate projects.
	MaxPlaybackFPS = 60

	// MarkerTolerance is how many cells away from a marker a ruler click still
	// hits it.
	MarkerTolerance = 1
)

// PlaybackInterval returns the tick interval for playing a project at fps.
func PlaybackInterval(fps int) time.Duration {
	fps = clamp(fps, 1, MaxPlaybackFPS)
	return time.Second / time.Duration(fps)
}
