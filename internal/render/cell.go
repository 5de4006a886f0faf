package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/treykane/cli-timeline/internal/model"
)

// CellPalette maps paints to terminal colours.
type CellPalette map[Paint]lipgloss.Color

// DefaultCellPalette is the terminal theme.
var DefaultCellPalette = CellPalette{
	PaintBackground:   lipgloss.Color("235"),
	PaintGrid:         lipgloss.Color("238"),
	PaintShot:         lipgloss.Color("62"),
	PaintShotSelected: lipgloss.Color("204"),
	PaintShotText:     lipgloss.Color("255"),
	PaintBadge:        lipgloss.Color("221"),
	PaintPlayhead:     lipgloss.Color("196"),
	PaintLocked:       lipgloss.Color("240"),
}

type cell struct {
	ch rune
	fg Paint
	bg Paint
}

// CellSurface draws into a grid of terminal cells. Each cell covers
// cellWidth × cellHeight px.
type CellSurface struct {
	width, height int
	cellW, cellH  float64
	cols, rows    int
	cells         []cell
	palette       CellPalette
	shotColor     lipgloss.Color
}

// NewCellSurface allocates a surface of width × height px.
func NewCellSurface(width, height, cellWidth, cellHeight int) *CellSurface {
	cellWidth = max(cellWidth, 1)
	cellHeight = max(cellHeight, 1)
	cols := max(int(math.Round(float64(width)/float64(cellWidth))), 1)
	rows := max(int(math.Round(float64(height)/float64(cellHeight))), 1)
	s := &CellSurface{
		width:   width,
		height:  height,
		cellW:   float64(cellWidth),
		cellH:   float64(cellHeight),
		cols:    cols,
		rows:    rows,
		cells:   make([]cell, cols*rows),
		palette: DefaultCellPalette,
	}
	s.Clear(PaintBackground)
	return s
}

// CellFactory returns a Factory producing CellSurfaces that tint shots with
// each track's colour.
func CellFactory(cellWidth, cellHeight int) Factory {
	return func(track model.Track, width, height int) Surface {
		s := NewCellSurface(width, height, cellWidth, cellHeight)
		if track.Color != "" {
			s.shotColor = lipgloss.Color(track.Color)
		}
		return s
	}
}

func (s *CellSurface) Size() (int, int) {
	return s.width, s.height
}

// Grid returns the surface size in cells.
func (s *CellSurface) Grid() (cols, rows int) {
	return s.cols, s.rows
}

func (s *CellSurface) Clear(p Paint) {
	for i := range s.cells {
		s.cells[i] = cell{ch: ' ', fg: PaintShotText, bg: p}
	}
}

func (s *CellSurface) colSpan(x, w float64) (int, int) {
	c0 := max(int(math.Floor(x/s.cellW)), 0)
	c1 := min(int(math.Ceil((x+w)/s.cellW)), s.cols)
	return c0, c1
}

func (s *CellSurface) rowSpan(y, h float64) (int, int) {
	r0 := max(int(math.Floor(y/s.cellH)), 0)
	r1 := min(int(math.Ceil((y+h)/s.cellH)), s.rows)
	return r0, r1
}

func (s *CellSurface) FillRect(x, y, w, h float64, p Paint) {
	c0, c1 := s.colSpan(x, w)
	r0, r1 := s.rowSpan(y, h)
	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			s.cells[r*s.cols+c] = cell{ch: ' ', fg: PaintShotText, bg: p}
		}
	}
}

func (s *CellSurface) StrokeRect(x, y, w, h float64, p Paint) {
	c0, c1 := s.colSpan(x, w)
	r0, r1 := s.rowSpan(y, h)
	if c0 >= c1 || r0 >= r1 {
		return
	}
	for r := r0; r < r1; r++ {
		if float64(c0)*s.cellW >= x {
			s.set(c0, r, '▏', p)
		}
		if float64(c1)*s.cellW <= x+w+s.cellW {
			s.set(c1-1, r, '▕', p)
		}
	}
}

func (s *CellSurface) set(c, r int, ch rune, fg Paint) {
	if c < 0 || c >= s.cols || r < 0 || r >= s.rows {
		return
	}
	i := r*s.cols + c
	s.cells[i].ch = ch
	s.cells[i].fg = fg
}

func (s *CellSurface) VLine(x float64, p Paint) {
	c := int(math.Floor(x / s.cellW))
	for r := 0; r < s.rows; r++ {
		s.set(c, r, '│', p)
	}
}

func (s *CellSurface) DrawText(x, y float64, text string, p Paint) {
	c := int(math.Floor(x / s.cellW))
	r := int(math.Floor(y / s.cellH))
	if r < 0 || r >= s.rows || c >= s.cols {
		return
	}
	if c < 0 {
		runes := []rune(text)
		if -c >= len(runes) {
			return
		}
		text = string(runes[-c:])
		c = 0
	}
	text = ansi.Truncate(text, s.cols-c, "…")
	for _, ch := range text {
		s.set(c, r, ch, p)
		c++
	}
}

// Text returns the plain characters of row r.
func (s *CellSurface) Text(r int) string {
	if r < 0 || r >= s.rows {
		return ""
	}
	var b strings.Builder
	for _, c := range s.cells[r*s.cols : (r+1)*s.cols] {
		b.WriteRune(c.ch)
	}
	return b.String()
}

// PaintAt returns the background paint of cell (c, r).
func (s *CellSurface) PaintAt(c, r int) Paint {
	if c < 0 || c >= s.cols || r < 0 || r >= s.rows {
		return PaintBackground
	}
	return s.cells[r*s.cols+c].bg
}

func (s *CellSurface) color(p Paint) lipgloss.Color {
	if p == PaintShot && s.shotColor != "" {
		return s.shotColor
	}
	return s.palette[p]
}

// Render returns the styled rows joined by newlines. Runs of identically
// styled cells share one style application.
func (s *CellSurface) Render() string {
	lines := make([]string, s.rows)
	for r := 0; r < s.rows; r++ {
		var b strings.Builder
		row := s.cells[r*s.cols : (r+1)*s.cols]
		start := 0
		for i := 1; i <= len(row); i++ {
			if i < len(row) && row[i].fg == row[start].fg && row[i].bg == row[start].bg {
				continue
			}
			var run strings.Builder
			for _, c := range row[start:i] {
				run.WriteRune(c.ch)
			}
			style := lipgloss.NewStyle().
				Foreground(s.color(row[start].fg)).
				Background(s.color(row[start].bg))
			b.WriteString(style.Render(run.String()))
			start = i
		}
		lines[r] = b.String()
	}
	return strings.Join(lines, "\n")
}
