// Package model holds the timeline data types shared by every component:
// tracks, shots, layers, assets, markers and the panel layout.
package model

import (
	"slices"

	"github.com/google/uuid"
)

// TrackType is the semantic type of a timeline track.
type TrackType string

const (
	TrackMedia       TrackType = "media"
	TrackAudio       TrackType = "audio"
	TrackEffects     TrackType = "effects"
	TrackTransitions TrackType = "transitions"
	TrackText        TrackType = "text"
	TrackKeyframes   TrackType = "keyframes"
)

// TrackTypes lists every track type in default display order.
var TrackTypes = []TrackType{
	TrackMedia,
	TrackAudio,
	TrackEffects,
	TrackTransitions,
	TrackText,
	TrackKeyframes,
}

// trackTypeInfo describes per-type presentation and sizing.
type trackTypeInfo struct {
	MinHeight     int
	DefaultHeight int
	Name          string
	Color         string
	Icon          string
}

var trackTypeTable = map[TrackType]trackTypeInfo{
	TrackMedia:       {MinHeight: 60, DefaultHeight: 80, Name: "Media", Color: "#4f8cff", Icon: "▣"},
	TrackAudio:       {MinHeight: 40, DefaultHeight: 60, Name: "Audio", Color: "#3fbf7f", Icon: "♪"},
	TrackEffects:     {MinHeight: 40, DefaultHeight: 50, Name: "Effects", Color: "#c061ff", Icon: "✦"},
	TrackTransitions: {MinHeight: 30, DefaultHeight: 40, Name: "Transitions", Color: "#ffb347", Icon: "⇄"},
	TrackText:        {MinHeight: 30, DefaultHeight: 40, Name: "Text", Color: "#f2f2f2", Icon: "T"},
	TrackKeyframes:   {MinHeight: 30, DefaultHeight: 40, Name: "Keyframes", Color: "#ff6b6b", Icon: "◆"},
}

// Valid reports whether t is a known track type.
func (t TrackType) Valid() bool {
	_, ok := trackTypeTable[t]
	return ok
}

// MinHeight returns the minimum track height in px. Unknown types get the
// smallest configured minimum.
func (t TrackType) MinHeight() int {
	if info, ok := trackTypeTable[t]; ok {
		return info.MinHeight
	}
	return 30
}

// DefaultHeight returns the height a freshly added track of type t gets.
func (t TrackType) DefaultHeight() int {
	if info, ok := trackTypeTable[t]; ok {
		return info.DefaultHeight
	}
	return 40
}

// DisplayName returns a human label for t.
func (t TrackType) DisplayName() string {
	if info, ok := trackTypeTable[t]; ok {
		return info.Name
	}
	return string(t)
}

// Track is one horizontal lane of the timeline. Height is in px and never
// drops below Type.MinHeight().
type Track struct {
	ID     string    `json:"id" yaml:"id"`
	Type   TrackType `json:"type" yaml:"type"`
	Name   string    `json:"name" yaml:"name"`
	Height int       `json:"height" yaml:"height"`
	Locked bool      `json:"locked,omitempty" yaml:"locked,omitempty"`
	Hidden bool      `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Muted  bool      `json:"muted,omitempty" yaml:"muted,omitempty"`
	Solo   bool      `json:"solo,omitempty" yaml:"solo,omitempty"`
	Color  string    `json:"color,omitempty" yaml:"color,omitempty"`
	Icon   string    `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// NewTrack builds a track of type t with default height, color and icon.
func NewTrack(t TrackType) Track {
	info := trackTypeTable[t]
	return Track{
		ID:     NewID(),
		Type:   t,
		Name:   t.DisplayName(),
		Height: t.DefaultHeight(),
		Color:  info.Color,
		Icon:   info.Icon,
	}
}

// DefaultTracks returns one track of every type. IDs are stable ("media-1")
// so persisted track settings match across runs without a project file.
func DefaultTracks() []Track {
	tracks := make([]Track, 0, len(TrackTypes))
	for _, t := range TrackTypes {
		track := NewTrack(t)
		track.ID = string(t) + "-1"
		tracks = append(tracks, track)
	}
	return tracks
}

// ClampHeight raises h to the type minimum.
func (t Track) ClampHeight(h int) int {
	return max(h, t.Type.MinHeight())
}

// GenerationStatus tracks a shot's render state.
type GenerationStatus string

const (
	StatusPending    GenerationStatus = "pending"
	StatusGenerating GenerationStatus = "generating"
	StatusComplete   GenerationStatus = "complete"
	StatusFailed     GenerationStatus = "failed"
)

// GenerationParameters are the knobs handed to an image/video generator.
type GenerationParameters struct {
	Model       string  `json:"model" yaml:"model"`
	Seed        int64   `json:"seed" yaml:"seed"`
	Steps       int     `json:"steps" yaml:"steps"`
	Guidance    float64 `json:"guidance" yaml:"guidance"`
	AspectRatio string  `json:"aspectRatio" yaml:"aspect_ratio"`
}

// DefaultGenerationParameters returns the parameters new shots start with.
func DefaultGenerationParameters() GenerationParameters {
	return GenerationParameters{
		Model:       "default",
		Seed:        -1,
		Steps:       30,
		Guidance:    7.5,
		AspectRatio: "16:9",
	}
}

// Layer is a typed sub-element of a shot. StartTime is relative to the shot.
type Layer struct {
	ID        string         `json:"id" yaml:"id"`
	Type      TrackType      `json:"type" yaml:"type"`
	StartTime int            `json:"startTime" yaml:"start_time"`
	Duration  int            `json:"duration" yaml:"duration"`
	Locked    bool           `json:"locked,omitempty" yaml:"locked,omitempty"`
	Hidden    bool           `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Opacity   float64        `json:"opacity" yaml:"opacity"`
	BlendMode string         `json:"blendMode,omitempty" yaml:"blend_mode,omitempty"`
	Data      map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

// Shot is a time-spanning unit on the timeline. It occupies the frames
// [StartTime, StartTime+Duration).
type Shot struct {
	ID               string               `json:"id" yaml:"id"`
	Name             string               `json:"name" yaml:"name"`
	StartTime        int                  `json:"startTime" yaml:"start_time"`
	Duration         int                  `json:"duration" yaml:"duration"`
	Layers           []Layer              `json:"layers" yaml:"layers"`
	ReferenceImages  []string             `json:"referenceImages,omitempty" yaml:"reference_images,omitempty"`
	Prompt           string               `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	Parameters       GenerationParameters `json:"parameters" yaml:"parameters"`
	GenerationStatus GenerationStatus     `json:"generationStatus" yaml:"generation_status"`
}

// EndTime is the first frame after the shot.
func (s Shot) EndTime() int {
	return s.StartTime + s.Duration
}

// Contains reports whether frame falls inside the shot's span.
func (s Shot) Contains(frame int) bool {
	return frame >= s.StartTime && frame < s.EndTime()
}

// Intersects reports whether the shot overlaps [start, end).
func (s Shot) Intersects(start, end int) bool {
	return s.StartTime < end && s.EndTime() > start
}

// HasLayerType reports whether any layer of the shot has type t.
func (s Shot) HasLayerType(t TrackType) bool {
	return slices.ContainsFunc(s.Layers, func(l Layer) bool { return l.Type == t })
}

// AssetType is the semantic category of a library asset.
type AssetType string

const (
	AssetCharacter    AssetType = "character"
	AssetEnvironment  AssetType = "environment"
	AssetProp         AssetType = "prop"
	AssetCameraPreset AssetType = "camera-preset"
	AssetTemplate     AssetType = "template"
	AssetVisualStyle  AssetType = "visual-style"
)

// AssetTypes lists every known asset type.
var AssetTypes = []AssetType{
	AssetCharacter,
	AssetEnvironment,
	AssetProp,
	AssetCameraPreset,
	AssetTemplate,
	AssetVisualStyle,
}

// AssetMetadata carries free-form descriptive fields.
type AssetMetadata struct {
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Asset is an item from the asset library that can be dropped onto a track.
type Asset struct {
	ID           string        `json:"id" yaml:"id"`
	Type         AssetType     `json:"type" yaml:"type"`
	Name         string        `json:"name" yaml:"name"`
	ThumbnailURL string        `json:"thumbnailUrl,omitempty" yaml:"thumbnail_url,omitempty"`
	CategoryID   string        `json:"categoryId,omitempty" yaml:"category_id,omitempty"`
	Metadata     AssetMetadata `json:"metadata" yaml:"metadata"`
}

// Marker is a labelled point on the ruler.
type Marker struct {
	ID    string `json:"id" yaml:"id"`
	Frame int    `json:"frame" yaml:"frame"`
	Label string `json:"label" yaml:"label"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// NewID returns a random identifier for tracks, shots and layers.
func NewID() string {
	return uuid.NewString()
}
