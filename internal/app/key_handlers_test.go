package app

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/cli-timeline/internal/store"
)

func TestGoToSubmitSeeksAndCloses(t *testing.T) {
	m := newTestModel(t)
	press(m, "g")
	if m.overlay != overlayGoTo {
		t.Fatalf("expected go-to overlay, got %v", m.overlay)
	}
	if got := m.gotoInput.Value(); got != "00:00:00" {
		t.Fatalf("expected prefilled timecode, got %q", got)
	}

	m.gotoInput.SetValue("00:10:00")
	press(m, "enter")

	if got := m.State().PlayheadPosition(); got != 240 {
		t.Fatalf("expected playhead at 240, got %d", got)
	}
	if m.overlay != overlayNone {
		t.Fatalf("expected overlay closed, got %v", m.overlay)
	}
	if m.status != "Moved to 00:10:00" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestGoToInvalidKeepsDialogOpen(t *testing.T) {
	m := newTestModel(t)
	press(m, "g")
	m.gotoInput.SetValue("1:2")
	press(m, "enter")

	if m.overlay != overlayGoTo {
		t.Fatalf("expected dialog to stay open, got %v", m.overlay)
	}
	if m.playhead.GoTo().Error() == "" {
		t.Fatal("expected inline error")
	}
	if got := m.State().PlayheadPosition(); got != 0 {
		t.Fatalf("expected playhead unchanged, got %d", got)
	}
	if !strings.Contains(m.View(), "Use MM:SS:FF") {
		t.Fatal("expected inline error in the rendered dialog")
	}
}

func TestGoToPastDurationIsRejected(t *testing.T) {
	m := newTestModel(t)
	press(m, "g")
	m.gotoInput.SetValue("99:00:00")
	press(m, "enter")
	if m.overlay != overlayGoTo || m.State().PlayheadPosition() != 0 {
		t.Fatalf("expected rejection past duration, overlay=%v pos=%d", m.overlay, m.State().PlayheadPosition())
	}
}

func TestGoToEscCancels(t *testing.T) {
	m := newTestModel(t)
	press(m, "g", "esc")
	if m.overlay != overlayNone {
		t.Fatalf("expected overlay closed, got %v", m.overlay)
	}
	if m.playhead.GoTo().IsOpen() {
		t.Fatal("expected dialog closed")
	}
	if m.gotoInput.Focused() {
		t.Fatal("expected input blurred")
	}
}

func TestGoToIgnoresControlRunes(t *testing.T) {
	m := newTestModel(t)
	press(m, "g")
	m.gotoInput.SetValue("")
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'0', 0x1b, '1'}})
	if got := m.gotoInput.Value(); got != "" {
		t.Fatalf("expected control runes dropped, got %q", got)
	}
}

func TestPlayheadKeysStepAndJump(t *testing.T) {
	m := newTestModel(t)
	press(m, "right", "right")
	if got := m.State().PlayheadPosition(); got != 2 {
		t.Fatalf("expected frame 2, got %d", got)
	}
	press(m, "left")
	if got := m.State().PlayheadPosition(); got != 1 {
		t.Fatalf("expected frame 1, got %d", got)
	}
	press(m, "end")
	if got, want := m.State().PlayheadPosition(), m.State().Duration(); got != want {
		t.Fatalf("expected end frame %d, got %d", want, got)
	}
	if m.scrollX == 0 {
		t.Fatal("expected view to follow the playhead to the end")
	}
}

func TestZoomKeysScaleZoom(t *testing.T) {
	m := newTestModel(t)
	press(m, "+")
	if got := m.State().ZoomLevel(); got != 2.5 {
		t.Fatalf("expected zoom 2.5, got %v", got)
	}
	press(m, "-")
	if got := m.State().ZoomLevel(); got != 2 {
		t.Fatalf("expected zoom back to 2, got %v", got)
	}
}

func TestDeleteSelectedShotAndUndo(t *testing.T) {
	m := newTestModel(t)
	m.store.Dispatch(store.SetSelection{IDs: []string{"shot-1"}})

	press(m, "x")
	if _, ok := m.State().Shot("shot-1"); ok {
		t.Fatal("expected shot-1 deleted")
	}
	if m.status != "Deleted 1 shot" {
		t.Fatalf("unexpected status %q", m.status)
	}

	press(m, "u")
	if _, ok := m.State().Shot("shot-1"); !ok {
		t.Fatal("expected undo to restore shot-1")
	}
	press(m, "u")
	if m.status != "Nothing to undo" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestDeleteWithoutSelection(t *testing.T) {
	m := newTestModel(t)
	press(m, "x")
	if m.status != "No shot selected" || len(m.State().Shots()) != 5 {
		t.Fatalf("expected nothing deleted, status %q", m.status)
	}
}

func TestTrackToggleKeys(t *testing.T) {
	m := newTestModel(t)

	press(m, "L")
	if tr, _, _ := m.State().Track("media-1"); !tr.Locked {
		t.Fatal("expected media track locked")
	}

	press(m, "m")
	if tr, _, _ := m.State().Track("media-1"); tr.Muted {
		t.Fatal("mute must not apply to a media track")
	}
	if !strings.Contains(m.status, "audio tracks only") {
		t.Fatalf("unexpected status %q", m.status)
	}

	press(m, "j", "m")
	if tr, _, _ := m.State().Track("audio-1"); !tr.Muted {
		t.Fatal("expected audio track muted")
	}
}

func TestHiddenTrackRefusesLock(t *testing.T) {
	m := newTestModel(t)
	press(m, "H", "L")
	tr, _, _ := m.State().Track("media-1")
	if !tr.Hidden || tr.Locked {
		t.Fatalf("expected hidden, unlocked track, got %+v", tr)
	}
	if m.status != "Hidden tracks cannot be locked" {
		t.Fatalf("unexpected status %q", m.status)
	}
	// The hidden track stays selected so it can be shown again.
	press(m, "H")
	if tr, _, _ := m.State().Track("media-1"); tr.Hidden {
		t.Fatal("expected track shown again")
	}
}

func TestCursorMovesTrackSelection(t *testing.T) {
	m := newTestModel(t)
	press(m, "j", "j")
	if m.selectedTrack != "effects-1" {
		t.Fatalf("expected effects-1 selected, got %q", m.selectedTrack)
	}
	press(m, "k", "k", "k")
	if m.selectedTrack != "media-1" {
		t.Fatalf("expected selection clamped at media-1, got %q", m.selectedTrack)
	}
}

func TestMoveAndResizeSelectedTrack(t *testing.T) {
	m := newTestModel(t)
	press(m, "J")
	if _, idx, _ := m.State().Track("media-1"); idx != 1 {
		t.Fatalf("expected media-1 moved to index 1, got %d", idx)
	}

	press(m, "]")
	if tr, _, _ := m.State().Track("media-1"); tr.Height != 96 {
		t.Fatalf("expected height 96 after growing one row, got %d", tr.Height)
	}
	press(m, "[", "[", "[")
	if tr, _, _ := m.State().Track("media-1"); tr.Height != 60 {
		t.Fatalf("expected height clamped to media minimum 60, got %d", tr.Height)
	}
}

func TestAddAndDeleteTrack(t *testing.T) {
	m := newTestModel(t)
	before := len(m.State().Tracks())
	press(m, "a")
	if got := len(m.State().Tracks()); got != before+1 {
		t.Fatalf("expected %d tracks, got %d", before+1, got)
	}
	added := m.selectedTrack
	if tr, _, _ := m.State().Track(added); tr.Type != "media" {
		t.Fatalf("expected a media track like the selection, got %q", tr.Type)
	}

	press(m, "D")
	if _, _, ok := m.State().Track(added); ok {
		t.Fatal("expected added track deleted")
	}
}

func TestInsertAssetAtPlayhead(t *testing.T) {
	m := newTestModel(t)
	press(m, "right", "right", "tab", "enter")

	if got := len(m.State().Shots()); got != 6 {
		t.Fatalf("expected a new shot, got %d shots", got)
	}
	var found bool
	for _, s := range m.State().Shots() {
		if s.Name == "Detective Vale" && s.StartTime == 2 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Detective Vale shot at frame 2, status %q", m.status)
	}
}

func TestInsertAssetOnLockedTrackIsRefused(t *testing.T) {
	m := newTestModel(t)
	press(m, "L", "tab", "enter")
	if got := len(m.State().Shots()); got != 5 {
		t.Fatalf("expected no new shot, got %d", got)
	}
	if m.status != "Drop refused: track is locked" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestHelpOverlayClosesOnAnyKey(t *testing.T) {
	m := newTestModel(t)
	press(m, "?")
	if m.overlay != overlayHelp {
		t.Fatalf("expected help overlay, got %v", m.overlay)
	}
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatal("expected help content in view")
	}
	press(m, "j")
	if m.overlay != overlayNone {
		t.Fatalf("expected help closed, got %v", m.overlay)
	}
	if m.selectedTrack != "media-1" {
		t.Fatal("closing key must not also move the cursor")
	}
}

func TestQuitReturnsTeaQuit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.handleKey(keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
	if !m.closed {
		t.Fatal("expected shutdown on quit")
	}
}

func TestSaveWithoutProjectPath(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if !strings.HasPrefix(m.status, "No project file") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestSnapAndRulerKeys(t *testing.T) {
	m := newTestModel(t)
	press(m, "S")
	if !m.playhead.Snap() || m.status != "Snap to grid: on" {
		t.Fatalf("expected snap on, status %q", m.status)
	}
	before := m.playhead.Ruler().Granularity()
	press(m, "r")
	if m.playhead.Ruler().Granularity() == before {
		t.Fatal("expected ruler granularity to cycle")
	}
}

func TestContainsControlRunes(t *testing.T) {
	if containsControlRunes([]rune("01:30:15")) {
		t.Fatal("plain timecode has no control runes")
	}
	if !containsControlRunes([]rune{'1', '\x1b'}) {
		t.Fatal("expected escape detected")
	}
}
