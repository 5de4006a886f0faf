package model

// PanelID names one of the four resizable editor regions.
type PanelID string

const (
	PanelAssetLibrary PanelID = "assetLibrary"
	PanelPreview      PanelID = "preview"
	PanelShotConfig   PanelID = "shotConfig"
	PanelTimeline     PanelID = "timeline"
)

// Panels lists the panel identities in layout order.
var Panels = []PanelID{PanelAssetLibrary, PanelPreview, PanelShotConfig, PanelTimeline}

// Axis is a resize direction.
type Axis int

const (
	AxisWidth Axis = 1 << iota
	AxisHeight
)

// Axes returns which dimensions of panel p can be resized.
func (p PanelID) Axes() Axis {
	switch p {
	case PanelAssetLibrary, PanelShotConfig:
		return AxisWidth
	case PanelTimeline:
		return AxisHeight
	case PanelPreview:
		return AxisWidth | AxisHeight
	default:
		return 0
	}
}

// Valid reports whether p is one of the four panel identities.
func (p PanelID) Valid() bool {
	return p.Axes() != 0
}

// WidthPanel is the persisted shape of a width-only panel.
type WidthPanel struct {
	Width float64 `json:"width"`
}

// SizePanel is the persisted shape of a panel resizable in both axes.
type SizePanel struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// HeightPanel is the persisted shape of a height-only panel.
type HeightPanel struct {
	Height float64 `json:"height"`
}

// Layout stores every panel dimension as a percentage of the root container.
type Layout struct {
	AssetLibrary WidthPanel  `json:"assetLibrary"`
	Preview      SizePanel   `json:"preview"`
	ShotConfig   WidthPanel  `json:"shotConfig"`
	Timeline     HeightPanel `json:"timeline"`
}

// DefaultLayout returns the hard-coded layout used on first run and on reset.
func DefaultLayout() Layout {
	return Layout{
		AssetLibrary: WidthPanel{Width: 20},
		Preview:      SizePanel{Width: 60, Height: 60},
		ShotConfig:   WidthPanel{Width: 20},
		Timeline:     HeightPanel{Height: 40},
	}
}

// Percent returns the stored percentages (width, height) for panel p.
// Axes the panel cannot resize report 0.
func (l Layout) Percent(p PanelID) (w, h float64) {
	switch p {
	case PanelAssetLibrary:
		return l.AssetLibrary.Width, 0
	case PanelPreview:
		return l.Preview.Width, l.Preview.Height
	case PanelShotConfig:
		return l.ShotConfig.Width, 0
	case PanelTimeline:
		return 0, l.Timeline.Height
	}
	return 0, 0
}

// WithPercent returns a copy of l with panel p set to (w, h). Axes p does not
// resize are ignored.
func (l Layout) WithPercent(p PanelID, w, h float64) Layout {
	switch p {
	case PanelAssetLibrary:
		l.AssetLibrary.Width = w
	case PanelPreview:
		l.Preview.Width = w
		l.Preview.Height = h
	case PanelShotConfig:
		l.ShotConfig.Width = w
	case PanelTimeline:
		l.Timeline.Height = h
	}
	return l
}
