package playhead

import "github.com/treykane/cli-timeline/internal/timecode"

// Tooltip returns the current tooltip.
func (e *Engine) Tooltip() Tooltip {
	return e.tooltip
}

func (e *Engine) showTooltip(frame int) {
	e.tooltip = Tooltip{
		Visible:  true,
		Text:     timecode.FramesToTimecode(frame, e.state().FPS()),
		X:        e.ScreenX(frame),
		ShowSnap: e.dragging,
		Snap:     e.snap,
	}
}

func (e *Engine) cancelTooltipTasks() {
	if e.showTask != nil {
		e.showTask.Cancel()
		e.showTask = nil
	}
	if e.hideTask != nil {
		e.hideTask.Cancel()
		e.hideTask = nil
	}
}

// HoverMove tracks the pointer over the ruler. The tooltip appears after the
// show delay and follows the pointer once visible.
func (e *Engine) HoverMove(x float64) {
	e.hoverX = x
	if e.dragging {
		return
	}
	if e.hideTask != nil {
		e.hideTask.Cancel()
		e.hideTask = nil
	}
	if e.tooltip.Visible {
		e.showTooltip(e.FrameAt(x, e.snap))
		e.hovered = true
		return
	}
	if e.hovered && e.showTask != nil {
		return
	}
	e.hovered = true
	if e.opts.Scheduler == nil {
		e.showTooltip(e.FrameAt(x, e.snap))
		return
	}
	e.showTask = e.opts.Scheduler.AfterFunc(e.opts.ShowDelay, func() {
		e.showTask = nil
		if e.hovered && !e.dragging {
			e.showTooltip(e.FrameAt(e.hoverX, e.snap))
		}
	})
}

// HoverLeave hides the tooltip after the hide delay.
func (e *Engine) HoverLeave() {
	if !e.hovered {
		return
	}
	e.hovered = false
	if e.showTask != nil {
		e.showTask.Cancel()
		e.showTask = nil
	}
	if e.dragging {
		return
	}
	if e.opts.Scheduler == nil {
		e.tooltip = Tooltip{}
		return
	}
	if e.hideTask != nil {
		e.hideTask.Cancel()
	}
	e.hideTask = e.opts.Scheduler.AfterFunc(e.opts.HideDelay, func() {
		e.hideTask = nil
		if !e.hovered && !e.dragging {
			e.tooltip = Tooltip{}
		}
	})
}
