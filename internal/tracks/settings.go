package tracks

import (
	"encoding/json"
	"fmt"

	"github.com/samber/lo"

	"github.com/treykane/cli-timeline/internal/model"
	"github.com/treykane/cli-timeline/internal/storage"
	"github.com/treykane/cli-timeline/internal/store"
)

// StorageKey is the durable-storage key holding track settings.
const StorageKey = "timeline-track-settings"

// trackSetting is the persisted per-track state.
type trackSetting struct {
	Height int  `json:"height"`
	Locked bool `json:"locked,omitempty"`
	Hidden bool `json:"hidden,omitempty"`
	Muted  bool `json:"muted,omitempty"`
	Solo   bool `json:"solo,omitempty"`
}

type persistedSettings struct {
	Order  []string                `json:"order"`
	Tracks map[string]trackSetting `json:"tracks"`
}

func (m *Manager) scheduleSave() {
	m.saver.Trigger(m.saveSettings)
}

func (m *Manager) saveSettings() {
	tracks := m.store.GetState().Tracks()
	settings := persistedSettings{
		Order: lo.Map(tracks, func(t model.Track, _ int) string { return t.ID }),
		Tracks: lo.Associate(tracks, func(t model.Track) (string, trackSetting) {
			return t.ID, trackSetting{Height: t.Height, Locked: t.Locked, Hidden: t.Hidden, Muted: t.Muted, Solo: t.Solo}
		}),
	}
	data, err := json.Marshal(settings)
	if err != nil {
		log.Warn("encode track settings", "error", err)
		return
	}
	if err := storage.Set(m.storage, StorageKey, string(data)); err != nil {
		log.Warn("persist track settings", "error", err)
	}
}

func parseSettings(raw string) (persistedSettings, error) {
	var s persistedSettings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return persistedSettings{}, fmt.Errorf("parse track settings: %w: %w", storage.ErrStorageCorrupt, err)
	}
	if s.Tracks == nil {
		return persistedSettings{}, fmt.Errorf("track settings missing tracks: %w", storage.ErrStorageCorrupt)
	}
	return s, nil
}

// Mount restores persisted track settings once. Settings apply to tracks by
// id; unknown ids are ignored and heights are raised to the type minimum.
func (m *Manager) Mount() {
	if m.mounted {
		return
	}
	m.mounted = true

	raw, ok, err := storage.Get(m.storage, StorageKey)
	if err != nil {
		log.Warn("restore track settings, using defaults", "error", err)
		return
	}
	if !ok {
		return
	}
	settings, err := parseSettings(raw)
	if err != nil {
		log.Warn("restore track settings, using defaults", "error", err)
		return
	}

	current := m.store.GetState().Tracks()
	byID := lo.KeyBy(current, func(t model.Track) string { return t.ID })
	restored := make([]model.Track, 0, len(current))
	for _, id := range settings.Order {
		if t, ok := byID[id]; ok {
			restored = append(restored, t)
			delete(byID, id)
		}
	}
	for _, t := range current {
		if _, ok := byID[t.ID]; ok {
			restored = append(restored, t)
		}
	}
	for i, t := range restored {
		s, ok := settings.Tracks[t.ID]
		if !ok {
			continue
		}
		if s.Height > 0 {
			t.Height = t.ClampHeight(s.Height)
		}
		t.Locked = s.Locked
		t.Hidden = s.Hidden
		if t.Type == model.TrackAudio {
			t.Muted = s.Muted
			t.Solo = s.Solo
		}
		restored[i] = t
	}
	m.store.Dispatch(store.SetTracks{Tracks: restored})
}

// Unmount ends any live gesture and flushes a pending save.
func (m *Manager) Unmount() {
	m.endResizeSession(false)
	m.CancelDrag()
	m.saver.Flush()
}

// SavePending reports whether a debounced save is waiting.
func (m *Manager) SavePending() bool {
	return m.saver.Pending()
}
