package render

import "github.com/treykane/cli-timeline/internal/model"

type drawCall struct {
	op    string
	x, w  float64
	paint Paint
	text  string
}

// recorder is a Surface that records draw calls.
type recorder struct {
	track         model.Track
	width, height int
	calls         []drawCall
}

func recorderFactory(out *[]*recorder) Factory {
	return func(track model.Track, width, height int) Surface {
		r := &recorder{track: track, width: width, height: height}
		*out = append(*out, r)
		return r
	}
}

func (r *recorder) Size() (int, int) { return r.width, r.height }

func (r *recorder) Clear(p Paint) {
	r.calls = append(r.calls, drawCall{op: "clear", paint: p})
}

func (r *recorder) FillRect(x, y, w, h float64, p Paint) {
	r.calls = append(r.calls, drawCall{op: "fill", x: x, w: w, paint: p})
}

func (r *recorder) StrokeRect(x, y, w, h float64, p Paint) {
	r.calls = append(r.calls, drawCall{op: "stroke", x: x, w: w, paint: p})
}

func (r *recorder) VLine(x float64, p Paint) {
	r.calls = append(r.calls, drawCall{op: "vline", x: x, paint: p})
}

func (r *recorder) DrawText(x, y float64, text string, p Paint) {
	r.calls = append(r.calls, drawCall{op: "text", x: x, paint: p, text: text})
}

func (r *recorder) count(op string, p Paint) int {
	n := 0
	for _, c := range r.calls {
		if c.op == op && c.paint == p {
			n++
		}
	}
	return n
}
