// Package drop turns an asset dragged from the library into a shot on a
// timeline track.
package drop

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/treykane/cli-timeline/internal/logging"
	"github.com/treykane/cli-timeline/internal/model"
	"github.com/treykane/cli-timeline/internal/store"
	"github.com/treykane/cli-timeline/internal/timecode"
)

// PayloadTypeAsset is the only drag payload type a track accepts.
const PayloadTypeAsset = "ASSET"

// DefaultShotDuration is the length in frames of a shot created by a drop.
const DefaultShotDuration = 120

var ErrUnsupportedPayload = errors.New("unsupported drag payload")

var log = logging.New("drop")

// Payload is the JSON carried by a drag from the asset library.
type Payload struct {
	Asset      model.Asset `json:"asset"`
	CategoryID string      `json:"categoryId"`
	Type       string      `json:"type"`
}

// EncodePayload builds the drag payload for asset.
func EncodePayload(asset model.Asset, categoryID string) ([]byte, error) {
	return json.Marshal(Payload{Asset: asset, CategoryID: categoryID, Type: PayloadTypeAsset})
}

// DecodePayload parses a drag payload. Anything other than an ASSET payload
// carrying an asset type is rejected.
func DecodePayload(data []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("decode drag payload: %w: %w", ErrUnsupportedPayload, err)
	}
	if p.Type != PayloadTypeAsset {
		return Payload{}, fmt.Errorf("drag payload type %q: %w", p.Type, ErrUnsupportedPayload)
	}
	if strings.TrimSpace(string(p.Asset.Type)) == "" {
		return Payload{}, fmt.Errorf("drag payload without asset type: %w", ErrUnsupportedPayload)
	}
	return p, nil
}

// CanAccept reports whether a track of trackType accepts an asset of
// assetType. Visual styles only go on effects tracks; every other asset type
// is accepted everywhere.
func CanAccept(assetType model.AssetType, trackType model.TrackType) bool {
	if assetType == "" {
		return false
	}
	if assetType == model.AssetVisualStyle {
		return trackType == model.TrackEffects
	}
	return true
}

// Handler takes over shot creation. assets always holds one asset today.
type Handler func(frame int, assets []model.Asset, track model.Track)

// Store is the part of the state store the target depends on.
type Store interface {
	GetState() store.State
	Dispatch(store.Action)
}

// Target accepts drops for timeline tracks.
type Target struct {
	Store           Store
	Handler         Handler
	DefaultDuration int
	NewID           func() string
}

// Result describes what a drop did.
type Result struct {
	Accepted bool
	Frame    int
	ShotID   string
	Reason   string
}

// Frame computes the drop frame for a pointer at dropX over a track whose
// frame 0 sits at trackOriginX. The result is never negative.
func Frame(dropX, trackOriginX, zoom float64) int {
	return max(timecode.FrameAtPixel(dropX-trackOriginX, zoom, false), 0)
}

// Drop validates payload against track and creates a shot at the drop frame.
// Incompatible drops are ignored rather than reported as errors.
func (t *Target) Drop(payload Payload, dropX, trackOriginX float64, track model.Track) (Result, error) {
	if payload.Type != PayloadTypeAsset {
		return Result{}, fmt.Errorf("drop %q: %w", payload.Type, ErrUnsupportedPayload)
	}
	asset := payload.Asset
	if track.Locked {
		return Result{Reason: "track is locked"}, nil
	}
	if !CanAccept(asset.Type, track.Type) {
		log.Debug("ignored incompatible drop", "asset_type", asset.Type, "track_type", track.Type)
		return Result{Reason: fmt.Sprintf("%s assets cannot go on %s tracks", asset.Type, track.Type.DisplayName())}, nil
	}

	frame := Frame(dropX, trackOriginX, t.Store.GetState().ZoomLevel())
	if t.Handler != nil {
		t.Handler(frame, []model.Asset{asset}, track)
		return Result{Accepted: true, Frame: frame}, nil
	}

	shot := t.newShot(asset, frame, track)
	t.Store.Dispatch(store.Undoable(store.AddShot{Shot: shot}))
	return Result{Accepted: true, Frame: frame, ShotID: shot.ID}, nil
}

// DropJSON decodes data and drops it.
func (t *Target) DropJSON(data []byte, dropX, trackOriginX float64, track model.Track) (Result, error) {
	payload, err := DecodePayload(data)
	if err != nil {
		return Result{}, err
	}
	return t.Drop(payload, dropX, trackOriginX, track)
}

func (t *Target) newShot(asset model.Asset, frame int, track model.Track) model.Shot {
	newID := t.NewID
	if newID == nil {
		newID = model.NewID
	}
	duration := t.DefaultDuration
	if duration < 1 {
		duration = DefaultShotDuration
	}

	shot := model.Shot{
		ID:        newID(),
		Name:      asset.Name,
		StartTime: frame,
		Duration:  duration,
		Layers: []model.Layer{{
			ID:        newID(),
			Type:      track.Type,
			Duration:  duration,
			Opacity:   1,
			BlendMode: "normal",
			Data: map[string]any{
				"assetId":   asset.ID,
				"assetType": string(asset.Type),
			},
		}},
		Prompt:           asset.Metadata.Description,
		Parameters:       model.DefaultGenerationParameters(),
		GenerationStatus: model.StatusPending,
	}
	if asset.ThumbnailURL != "" {
		shot.ReferenceImages = []string{asset.ThumbnailURL}
	}
	return shot
}
