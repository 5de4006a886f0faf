package drop

import (
	"errors"
	"fmt"
	"testing"

	"github.com/treykane/cli-timeline/internal/model"
	"github.com/treykane/cli-timeline/internal/store"
)

func TestCanAccept(t *testing.T) {
	for _, tt := range model.TrackTypes {
		if got := CanAccept(model.AssetVisualStyle, tt); got != (tt == model.TrackEffects) {
			t.Fatalf("visual-style on %s: got %v", tt, got)
		}
		for _, at := range []model.AssetType{model.AssetCharacter, model.AssetEnvironment, model.AssetProp, model.AssetCameraPreset, model.AssetTemplate} {
			if !CanAccept(at, tt) {
				t.Fatalf("%s should be accepted on %s", at, tt)
			}
		}
	}
	if CanAccept("", model.TrackMedia) {
		t.Fatal("empty asset type should be refused")
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestDropCreatesUndoableShot(t *testing.T) {
	st := store.New(store.Options{Zoom: 10})
	target := &Target{Store: st, NewID: sequentialIDs()}
	asset := model.Asset{
		ID:           "hero",
		Type:         model.AssetCharacter,
		Name:         "Hero",
		ThumbnailURL: "thumbs/hero.png",
		Metadata:     model.AssetMetadata{Description: "a tired detective"},
	}
	track := model.Track{ID: "v", Type: model.TrackMedia, Height: 80}

	res, err := target.Drop(Payload{Asset: asset, Type: PayloadTypeAsset}, 350, 50, track)
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	if !res.Accepted || res.Frame != 30 || res.ShotID != "id-1" {
		t.Fatalf("unexpected result %+v", res)
	}

	shots := st.GetState().Shots()
	if len(shots) != 1 {
		t.Fatalf("expected one shot, got %d", len(shots))
	}
	s := shots[0]
	if s.StartTime != 30 || s.Duration != DefaultShotDuration || s.Name != "Hero" {
		t.Fatalf("unexpected shot %+v", s)
	}
	if len(s.ReferenceImages) != 1 || s.ReferenceImages[0] != "thumbs/hero.png" || s.Prompt != "a tired detective" {
		t.Fatalf("asset fields not copied: %+v", s)
	}
	if s.GenerationStatus != model.StatusPending || s.Parameters != model.DefaultGenerationParameters() {
		t.Fatal("expected pending status and default parameters")
	}
	if len(s.Layers) != 1 || s.Layers[0].Type != model.TrackMedia {
		t.Fatalf("expected one media layer, got %+v", s.Layers)
	}

	if !st.Undo() || len(st.GetState().Shots()) != 0 {
		t.Fatal("drop should be undoable")
	}
}

func TestDropClampsNegativeFrames(t *testing.T) {
	st := store.New(store.Options{Zoom: 10})
	target := &Target{Store: st}
	res, err := target.Drop(Payload{Asset: model.Asset{Type: model.AssetProp}, Type: PayloadTypeAsset}, 10, 200, model.Track{Type: model.TrackText})
	if err != nil || res.Frame != 0 {
		t.Fatalf("expected frame 0, got %+v (%v)", res, err)
	}
}

func TestIncompatibleDropIsIgnored(t *testing.T) {
	st := store.New(store.Options{Zoom: 10})
	target := &Target{Store: st}
	res, err := target.Drop(Payload{Asset: model.Asset{Type: model.AssetVisualStyle}, Type: PayloadTypeAsset}, 100, 0, model.Track{Type: model.TrackMedia})
	if err != nil {
		t.Fatalf("incompatible drop should not be an error: %v", err)
	}
	if res.Accepted || len(st.GetState().Shots()) != 0 {
		t.Fatal("incompatible drop should not create a shot")
	}
}

func TestCustomHandler(t *testing.T) {
	st := store.New(store.Options{Zoom: 2})
	var gotFrame int
	var gotAssets []model.Asset
	target := &Target{Store: st, Handler: func(frame int, assets []model.Asset, track model.Track) {
		gotFrame, gotAssets = frame, assets
	}}
	res, err := target.Drop(Payload{Asset: model.Asset{ID: "fx", Type: model.AssetVisualStyle}, Type: PayloadTypeAsset}, 41, 0, model.Track{Type: model.TrackEffects})
	if err != nil || !res.Accepted {
		t.Fatalf("drop: %+v %v", res, err)
	}
	if gotFrame != 20 || len(gotAssets) != 1 || gotAssets[0].ID != "fx" {
		t.Fatalf("handler got frame %d assets %+v", gotFrame, gotAssets)
	}
	if len(st.GetState().Shots()) != 0 {
		t.Fatal("custom handler should replace the default shot creation")
	}
}

func TestDecodePayload(t *testing.T) {
	data, err := EncodePayload(model.Asset{ID: "a", Type: model.AssetProp, Name: "Lamp"}, "props")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	p, err := DecodePayload(data)
	if err != nil || p.Asset.Name != "Lamp" || p.CategoryID != "props" {
		t.Fatalf("decode: %+v %v", p, err)
	}

	for _, raw := range []string{"not-json", `{"type":"FILE","asset":{"type":"prop"}}`, `{"type":"ASSET","asset":{}}`} {
		if _, err := DecodePayload([]byte(raw)); !errors.Is(err, ErrUnsupportedPayload) {
			t.Fatalf("%s: expected ErrUnsupportedPayload, got %v", raw, err)
		}
	}
}

func TestLockedTrackRefusesDrop(t *testing.T) {
	st := store.New(store.Options{Zoom: 1})
	target := &Target{Store: st}
	res, err := target.Drop(Payload{Asset: model.Asset{Type: model.AssetProp}, Type: PayloadTypeAsset}, 0, 0, model.Track{Type: model.TrackMedia, Locked: true})
	if err != nil || res.Accepted {
		t.Fatalf("locked track should ignore drops: %+v %v", res, err)
	}
}
