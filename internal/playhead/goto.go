package playhead

import (
	"errors"
	"fmt"

	"github.com/treykane/cli-timeline/internal/timecode"
)

// Dialog is the go-to-time entry point. It stays open until a valid timecode
// is submitted or it is cancelled.
type Dialog struct {
	engine *Engine
	open   bool
	value  string
	err    string
}

// Open shows the dialog prefilled with the current position.
func (d *Dialog) Open() {
	s := d.engine.state()
	d.open = true
	d.value = timecode.FramesToTimecode(d.engine.Position(), s.FPS())
	d.err = ""
}

// IsOpen reports whether the dialog is visible.
func (d *Dialog) IsOpen() bool {
	return d.open
}

// Value returns the prefilled or last submitted text.
func (d *Dialog) Value() string {
	return d.value
}

// Error returns the inline error shown under the field.
func (d *Dialog) Error() string {
	return d.err
}

// Cancel closes the dialog without seeking.
func (d *Dialog) Cancel() {
	d.open = false
	d.err = ""
}

// Submit validates text and seeks on success. On failure the dialog stays
// open with an inline message and nothing is mutated.
func (d *Dialog) Submit(text string) (int, error) {
	s := d.engine.state()
	d.value = text
	frame, err := timecode.TimecodeToFrames(text, s.FPS(), s.Duration())
	if err != nil {
		d.err = d.message(err)
		return 0, err
	}
	d.err = ""
	d.open = false
	return d.engine.Seek(frame), nil
}

func (d *Dialog) message(err error) string {
	s := d.engine.state()
	switch {
	case errors.Is(err, timecode.ErrInvalidFormat):
		return "Use MM:SS:FF, e.g. 01:30:15"
	case errors.Is(err, timecode.ErrInvalidRange):
		return fmt.Sprintf("Seconds must be under 60 and frames under %d", s.FPS())
	case errors.Is(err, timecode.ErrExceedsDuration):
		return fmt.Sprintf("Past the end of the timeline (%s)", timecode.FramesToTimecode(s.Duration(), s.FPS()))
	default:
		return err.Error()
	}
}
