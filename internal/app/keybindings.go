package app

import (
	"encoding/json"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/treykane/cli-timeline/internal/config"
)

// ---------------------------------------------------------------------------
// Action constants
// ---------------------------------------------------------------------------
//
// Each constant below identifies a user-triggerable action. The user presses
// a key, the key is looked up in the keyToAction map, and the resulting action
// string is dispatched in handleAction.
//
// Default key assignments are declared in defaultActionKeys. Users can
// override any assignment via the "keybindings" map in config.json or via an
// external keymap file (default: ~/.cli-timeline/keymap.json).
//
// Playhead stepping (←/→, Shift+←/→, PgUp/PgDn, Home/End) is owned by the
// playhead engine and is not rebindable.
// ---------------------------------------------------------------------------

const (
	// actionQuit flushes pending saves and exits the editor.
	actionQuit = "app.quit"

	// actionHelp opens the keybinding help overlay.
	actionHelp = "help.toggle"

	// actionUndo reverts the last undoable shot edit (drop or delete).
	actionUndo = "edit.undo"

	// actionSave writes the project YAML to the --project path.
	actionSave = "project.save"

	// actionFocusNext moves keyboard focus between the asset library and the
	// timeline.
	actionFocusNext = "focus.next"

	// actionGoTo opens the go-to-timecode dialog.
	actionGoTo = "playhead.goto"

	// actionPlay starts or pauses frame-stepping playback.
	actionPlay = "transport.toggle"

	// actionSnap toggles snap-to-grid for playhead seeks.
	actionSnap = "playhead.snap.toggle"

	// actionRulerCycle cycles the ruler granularity (seconds → frames →
	// minutes).
	actionRulerCycle = "ruler.granularity.cycle"

	// actionZoomIn increases pixels per frame around the playhead.
	actionZoomIn = "timeline.zoom.in"

	// actionZoomOut decreases pixels per frame around the playhead.
	actionZoomOut = "timeline.zoom.out"

	// actionScrollLeft scrolls the lanes left by a quarter of their width.
	actionScrollLeft = "timeline.scroll.left"

	// actionScrollRight scrolls the lanes right by a quarter of their width.
	actionScrollRight = "timeline.scroll.right"

	// actionCursorUp moves the asset cursor or the selected track up.
	actionCursorUp = "cursor.up"

	// actionCursorDown moves the asset cursor or the selected track down.
	actionCursorDown = "cursor.down"

	// actionTrackUp reorders the selected track one slot up.
	actionTrackUp = "track.move.up"

	// actionTrackDown reorders the selected track one slot down.
	actionTrackDown = "track.move.down"

	// actionTrackGrow makes the selected track one row taller.
	actionTrackGrow = "track.height.grow"

	// actionTrackShrink makes the selected track one row shorter, down to its
	// type minimum.
	actionTrackShrink = "track.height.shrink"

	// actionTrackLock toggles the lock on the selected track.
	actionTrackLock = "track.lock.toggle"

	// actionTrackHide toggles visibility of the selected track.
	actionTrackHide = "track.hide.toggle"

	// actionTrackMute toggles mute on the selected audio track.
	actionTrackMute = "track.mute.toggle"

	// actionTrackSolo toggles solo on the selected audio track.
	actionTrackSolo = "track.solo.toggle"

	// actionTrackAdd adds a track of the selected track's type.
	actionTrackAdd = "track.add"

	// actionTrackDelete removes the selected track.
	actionTrackDelete = "track.delete"

	// actionShotDelete deletes the selected shots (undoable).
	actionShotDelete = "shot.delete"

	// actionSelectClear clears the shot selection.
	actionSelectClear = "selection.clear"

	// actionLayoutReset restores the default panel sizes and forgets the
	// persisted layout.
	actionLayoutReset = "layout.reset"

	// actionAssetInsert drops the asset under the library cursor onto the
	// selected track at the playhead.
	actionAssetInsert = "asset.insert"
)

// defaultActionKeys maps each action to its factory-default key bindings.
//
// Key strings use the Bubble Tea notation:
//   - Modifier keys: "ctrl+", "alt+", "shift+"
//   - Special keys: "enter", "esc", "tab", "up", "down", "space"
//   - Single characters: "g", "?", "+", etc.
var defaultActionKeys = map[string][]string{
	actionQuit:        {"q", "ctrl+c"},
	actionHelp:        {"?"},
	actionUndo:        {"u", "ctrl+z"},
	actionSave:        {"ctrl+s"},
	actionFocusNext:   {"tab"},
	actionGoTo:        {"g", "ctrl+g"},
	actionPlay:        {"space"},
	actionSnap:        {"shift+s"},
	actionRulerCycle:  {"r"},
	actionZoomIn:      {"+", "="},
	actionZoomOut:     {"-"},
	actionScrollLeft:  {","},
	actionScrollRight: {"."},
	actionCursorUp:    {"up", "k"},
	actionCursorDown:  {"down", "j"},
	actionTrackUp:     {"shift+k", "alt+up"},
	actionTrackDown:   {"shift+j", "alt+down"},
	actionTrackGrow:   {"]"},
	actionTrackShrink: {"["},
	actionTrackLock:   {"shift+l"},
	actionTrackHide:   {"shift+h"},
	actionTrackMute:   {"m"},
	actionTrackSolo:   {"s"},
	actionTrackAdd:    {"a"},
	actionTrackDelete: {"shift+d"},
	actionShotDelete:  {"x", "delete"},
	actionSelectClear: {"esc"},
	actionLayoutReset: {"ctrl+r"},
	actionAssetInsert: {"enter"},
}

// actionDescriptions are the short labels shown in the help overlay.
var actionDescriptions = map[string]string{
	actionQuit:        "quit",
	actionHelp:        "toggle help",
	actionUndo:        "undo",
	actionSave:        "save project",
	actionFocusNext:   "switch focus",
	actionGoTo:        "go to timecode",
	actionPlay:        "play/pause",
	actionSnap:        "toggle snap",
	actionRulerCycle:  "ruler units",
	actionZoomIn:      "zoom in",
	actionZoomOut:     "zoom out",
	actionScrollLeft:  "scroll back",
	actionScrollRight: "scroll forward",
	actionCursorUp:    "previous",
	actionCursorDown:  "next",
	actionTrackUp:     "move track up",
	actionTrackDown:   "move track down",
	actionTrackGrow:   "taller track",
	actionTrackShrink: "shorter track",
	actionTrackLock:   "lock track",
	actionTrackHide:   "hide track",
	actionTrackMute:   "mute track",
	actionTrackSolo:   "solo track",
	actionTrackAdd:    "add track",
	actionTrackDelete: "delete track",
	actionShotDelete:  "delete shot",
	actionSelectClear: "clear selection",
	actionLayoutReset: "reset layout",
	actionAssetInsert: "insert asset",
}

// helpGroups orders actions into the help overlay columns.
var helpGroups = [][]string{
	{actionPlay, actionGoTo, actionSnap, actionRulerCycle, actionZoomIn, actionZoomOut, actionScrollLeft, actionScrollRight},
	{actionCursorUp, actionCursorDown, actionTrackUp, actionTrackDown, actionTrackGrow, actionTrackShrink, actionTrackAdd, actionTrackDelete},
	{actionTrackLock, actionTrackHide, actionTrackMute, actionTrackSolo, actionShotDelete, actionSelectClear, actionAssetInsert},
	{actionFocusNext, actionUndo, actionSave, actionLayoutReset, actionHelp, actionQuit},
}

// ---------------------------------------------------------------------------
// Keybinding initialization
// ---------------------------------------------------------------------------

// loadKeybindings initializes the bidirectional key↔action maps from three
// sources, applied in order of increasing priority:
//
//  1. defaultActionKeys, the built-in defaults.
//  2. cfg.Keybindings, inline overrides from config.json.
//  3. The external keymap file at cfg.KeymapFile, if it exists.
//
// Overrides replace an action's full default key set. Unknown actions and key
// conflicts are logged as warnings; the first action to claim a key wins.
func (m *Model) loadKeybindings(cfg config.Config) {
	m.keyForAction = map[string][]string{}
	for action, keys := range defaultActionKeys {
		m.keyForAction[action] = append([]string(nil), keys...)
	}

	for action, key := range cfg.Keybindings {
		m.applyKeybindingOverride(action, key)
	}

	fileOverrides := loadKeymapFile(cfg.KeymapFile)
	for action, key := range fileOverrides {
		m.applyKeybindingOverride(action, key)
	}

	m.rebuildActionKeyIndex()
}

// loadKeymapFile reads a flat JSON object mapping actions to keys:
//
//	{
//	    "transport.toggle": "p",
//	    "track.add": "ctrl+a"
//	}
//
// A missing file is not an error.
func loadKeymapFile(path string) map[string]string {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			appLog.Warn("read keymap file", "path", path, "error", err)
		}
		return nil
	}
	overrides := map[string]string{}
	if err := json.Unmarshal(data, &overrides); err != nil {
		appLog.Warn("parse keymap file", "path", path, "error", err)
		return nil
	}
	return overrides
}

func (m *Model) applyKeybindingOverride(action, key string) {
	action = strings.TrimSpace(action)
	key = normalizeKeyString(key)
	if action == "" || key == "" {
		return
	}
	if _, ok := defaultActionKeys[action]; !ok {
		appLog.Warn("ignore unknown keybinding action", "action", action)
		return
	}
	m.keyForAction[action] = []string{key}
}

// rebuildActionKeyIndex constructs the reverse lookup map (keyToAction). Map
// iteration order is random, so actions are visited sorted to keep conflict
// resolution stable between runs.
func (m *Model) rebuildActionKeyIndex() {
	m.keyToAction = map[string]string{}
	actions := make([]string, 0, len(m.keyForAction))
	for action := range m.keyForAction {
		actions = append(actions, action)
	}
	slices.Sort(actions)
	for _, action := range actions {
		for _, key := range m.keyForAction[action] {
			if key == "" {
				continue
			}
			if existing, ok := m.keyToAction[key]; ok && existing != action {
				appLog.Warn("keybinding conflict ignored", "key", key, "action", action, "existing_action", existing)
				continue
			}
			m.keyToAction[key] = action
		}
	}
}

// ---------------------------------------------------------------------------
// Key string normalization
// ---------------------------------------------------------------------------

// normalizeKeyString converts a user-provided key string into the canonical
// lowercase form used by the keybinding maps.
//
//	normalizeKeyString("Ctrl+G") → "ctrl+g"
//	normalizeKeyString("S")      → "shift+s"
//	normalizeKeyString(" ")      → "space"
func normalizeKeyString(key string) string {
	if key == " " {
		return "space"
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	// Bubble Tea may report uppercase single rune keys for shifted letters.
	if len([]rune(key)) == 1 && strings.ToUpper(key) == key && strings.ToLower(key) != key {
		return "shift+" + strings.ToLower(key)
	}
	return strings.ToLower(key)
}

// actionForKey looks up the action bound to the given key string.
func (m *Model) actionForKey(key string) string {
	if m.keyToAction == nil {
		return ""
	}
	return m.keyToAction[normalizeKeyString(key)]
}

func (m *Model) actionKeyLabels(action string) []string {
	keys, ok := m.keyForAction[action]
	if !ok || len(keys) == 0 {
		return nil
	}
	labels := make([]string, 0, len(keys))
	for _, key := range keys {
		label := humanizeKeyLabel(key)
		if label == "" || slices.Contains(labels, label) {
			continue
		}
		labels = append(labels, label)
	}
	return labels
}

func (m *Model) primaryActionKey(action, fallback string) string {
	keys := m.actionKeyLabels(action)
	if len(keys) == 0 {
		return fallback
	}
	return keys[0]
}

// binding converts an action into a bubbles key.Binding for the help view.
func (m *Model) binding(action string) key.Binding {
	keys := m.keyForAction[action]
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(strings.Join(m.actionKeyLabels(action), "/"), actionDescriptions[action]),
	)
}

// helpKeyMap adapts the action maps to help.KeyMap.
type helpKeyMap struct {
	m *Model
}

func (h helpKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{h.m.binding(actionHelp), h.m.binding(actionQuit)}
}

func (h helpKeyMap) FullHelp() [][]key.Binding {
	groups := make([][]key.Binding, 0, len(helpGroups))
	for _, actions := range helpGroups {
		group := make([]key.Binding, 0, len(actions))
		for _, action := range actions {
			group = append(group, h.m.binding(action))
		}
		groups = append(groups, group)
	}
	return groups
}

func humanizeKeyLabel(key string) string {
	normalized := normalizeKeyString(key)
	if normalized == "" {
		return ""
	}
	special := map[string]string{
		"up":        "↑",
		"down":      "↓",
		"left":      "←",
		"right":     "→",
		"enter":     "Enter",
		"esc":       "Esc",
		"tab":       "Tab",
		"home":      "Home",
		"end":       "End",
		"pgup":      "PgUp",
		"pgdown":    "PgDn",
		"space":     "Space",
		"delete":    "Del",
		"backspace": "Backspace",
	}
	parts := strings.Split(normalized, "+")
	if normalized == "+" {
		parts = []string{"+"}
	}
	for i, part := range parts {
		switch part {
		case "ctrl":
			parts[i] = "Ctrl"
		case "alt":
			parts[i] = "Alt"
		case "shift":
			parts[i] = "Shift"
		default:
			if label, ok := special[part]; ok {
				parts[i] = label
				continue
			}
			runes := []rune(part)
			if len(runes) == 1 && runes[0] >= 'a' && runes[0] <= 'z' {
				parts[i] = strings.ToUpper(part)
			} else if part != "" {
				parts[i] = strings.ToUpper(part[:1]) + part[1:]
			}
		}
	}
	return strings.Join(parts, "+")
}
