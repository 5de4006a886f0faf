// Package timecode converts between frame indices, MM:SS:FF timecode strings,
// zoom-scaled pixel offsets and percentages of a container.
//
// Every function here is pure. Zoom is expressed in pixels per frame; callers
// in the terminal UI convert cells to pixels before calling in.
package timecode

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidFormat is returned when the text does not match M+:SS:FF.
	ErrInvalidFormat = errors.New("invalid timecode format")

	// ErrInvalidRange is returned when seconds >= 60 or frames >= fps.
	ErrInvalidRange = errors.New("timecode field out of range")

	// ErrExceedsDuration is returned when the parsed frame is past the maximum.
	ErrExceedsDuration = errors.New("timecode exceeds duration")
)

var timecodePattern = regexp.MustCompile(`^(\d+):(\d{2}):(\d{2})$`)

// FramesToTimecode renders frame as MM:SS:FF at the given frame rate.
// Minutes are zero-padded to two digits and may grow wider.
func FramesToTimecode(frame, fps int) string {
	if fps <= 0 {
		fps = 1
	}
	if frame < 0 {
		frame = 0
	}
	totalSeconds := frame / fps
	minutes := totalSeconds / 60
	seconds := totalSeconds % 60
	frames := frame % fps
	return fmt.Sprintf("%02d:%02d:%02d", minutes, seconds, frames)
}

// TimecodeToFrames parses an M+:SS:FF string into a frame index.
//
// maxFrames bounds the result; a negative maxFrames disables the check.
// Errors wrap ErrInvalidFormat, ErrInvalidRange or ErrExceedsDuration.
func TimecodeToFrames(text string, fps, maxFrames int) (int, error) {
	trimmed := strings.TrimSpace(text)
	match := timecodePattern.FindStringSubmatch(trimmed)
	if match == nil {
		return 0, fmt.Errorf("parse %q: %w", trimmed, ErrInvalidFormat)
	}
	if fps <= 0 {
		return 0, fmt.Errorf("parse %q at %d fps: %w", trimmed, fps, ErrInvalidRange)
	}

	minutes, err := strconv.Atoi(match[1])
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("minutes %q: %w", match[1], ErrExceedsDuration)
	}
	if err != nil {
		return 0, fmt.Errorf("parse minutes %q: %w", match[1], ErrInvalidFormat)
	}
	seconds, _ := strconv.Atoi(match[2])
	frames, _ := strconv.Atoi(match[3])

	if seconds >= 60 {
		return 0, fmt.Errorf("seconds %d: %w", seconds, ErrInvalidRange)
	}
	if frames >= fps {
		return 0, fmt.Errorf("frames %d at %d fps: %w", frames, fps, ErrInvalidRange)
	}

	// The product must fit in an int before it is compared to maxFrames.
	if minutes > (math.MaxInt-seconds*fps-frames)/(60*fps) {
		return 0, fmt.Errorf("minutes %d at %d fps: %w", minutes, fps, ErrExceedsDuration)
	}
	total := (minutes*60+seconds)*fps + frames
	if maxFrames >= 0 && total > maxFrames {
		return 0, fmt.Errorf("frame %d > %d: %w", total, maxFrames, ErrExceedsDuration)
	}
	return total, nil
}

// FrameToPixel returns the pixel offset of frame at zoom pixels per frame.
func FrameToPixel(frame, zoom float64) float64 {
	return frame * zoom
}

// PixelToFrame is the inverse of FrameToPixel. A non-positive zoom maps
// everything to frame 0.
func PixelToFrame(px, zoom float64) float64 {
	if zoom <= 0 {
		return 0
	}
	return px / zoom
}

// FrameAtPixel converts a pixel offset to an integer frame. With snap set the
// frame is rounded to the nearest boundary, otherwise it is floored.
func FrameAtPixel(px, zoom float64, snap bool) int {
	f := PixelToFrame(px, zoom)
	if snap {
		return int(math.Round(f))
	}
	return int(math.Floor(f))
}

// FrameToPercent returns the share of containerPx that frame occupies.
func FrameToPercent(frame, containerPx, zoom float64) float64 {
	return PixelsToPercent(FrameToPixel(frame, zoom), containerPx)
}

// PercentToFrame is the inverse of FrameToPercent.
func PercentToFrame(percent, containerPx, zoom float64) float64 {
	return PixelToFrame(PercentToPixels(percent, containerPx), zoom)
}

// PixelsToPercent returns px as a percentage of containerPx.
func PixelsToPercent(px, containerPx float64) float64 {
	if containerPx <= 0 {
		return 0
	}
	return px / containerPx * 100
}

// PercentToPixels returns percent of containerPx in pixels.
func PercentToPixels(percent, containerPx float64) float64 {
	return percent / 100 * containerPx
}

// FramesToSeconds converts a frame count into wall-clock seconds.
func FramesToSeconds(frame, fps int) float64 {
	if fps <= 0 {
		return 0
	}
	return float64(frame) / float64(fps)
}

// FormatDuration renders a frame count as a short human duration ("1m30.6s").
func FormatDuration(frames, fps int) string {
	secs := FramesToSeconds(frames, fps)
	d := time.Duration(secs * float64(time.Second)).Round(100 * time.Millisecond)
	return d.String()
}

// Clamp limits frame to [0, max].
func Clamp(frame, max int) int {
	if max < 0 {
		max = 0
	}
	if frame < 0 {
		return 0
	}
	if frame > max {
		return max
	}
	return frame
}
