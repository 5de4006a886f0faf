package gesture

// CursorKind names the pointer shape shown during a drag.
type CursorKind string

const (
	CursorDefault   CursorKind = ""
	CursorColResize CursorKind = "col-resize"
	CursorRowResize CursorKind = "row-resize"
	CursorNWSE      CursorKind = "nwse-resize"
	CursorGrabbing  CursorKind = "grabbing"
	CursorMove      CursorKind = "move"
)

// DragFeedbackPort applies the global cursor and selection side effects of a
// drag. Engines receive it as a dependency instead of touching UI state.
type DragFeedbackPort interface {
	SetCursor(kind CursorKind)
	ClearCursor()
	SetSelectable(selectable bool)
}

// NopFeedback ignores every call.
type NopFeedback struct{}

func (NopFeedback) SetCursor(CursorKind) {}
func (NopFeedback) ClearCursor()         {}
func (NopFeedback) SetSelectable(bool)   {}

// FeedbackState records the current cursor and selection flag. The terminal
// UI renders it in the footer; tests assert on it.
type FeedbackState struct {
	Cursor       CursorKind
	Unselectable bool
	Calls        int
}

func (f *FeedbackState) SetCursor(kind CursorKind) {
	f.Cursor = kind
	f.Calls++
}

func (f *FeedbackState) ClearCursor() {
	f.Cursor = CursorDefault
	f.Calls++
}

func (f *FeedbackState) SetSelectable(selectable bool) {
	f.Unselectable = !selectable
	f.Calls++
}

// Dragging reports whether a drag has taken over the cursor.
func (f *FeedbackState) Dragging() bool {
	return f.Cursor != CursorDefault
}
