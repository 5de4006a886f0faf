package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/treykane/cli-timeline/internal/model"
)

// ImagePalette maps paints to RGBA colours.
type ImagePalette map[Paint]color.RGBA

// DefaultImagePalette mirrors the terminal theme.
var DefaultImagePalette = ImagePalette{
	PaintBackground:   {R: 0x26, G: 0x26, B: 0x26, A: 0xff},
	PaintGrid:         {R: 0x44, G: 0x44, B: 0x44, A: 0xff},
	PaintShot:         {R: 0x5f, G: 0x5f, B: 0xd7, A: 0xff},
	PaintShotSelected: {R: 0xff, G: 0x5f, B: 0x87, A: 0xff},
	PaintShotText:     {R: 0xee, G: 0xee, B: 0xee, A: 0xff},
	PaintBadge:        {R: 0xff, G: 0xd7, B: 0x5f, A: 0xff},
	PaintPlayhead:     {R: 0xff, G: 0x00, B: 0x00, A: 0xff},
	PaintLocked:       {R: 0x58, G: 0x58, B: 0x58, A: 0xff},
}

// ImageSurface draws into an RGBA image at one pixel per px.
type ImageSurface struct {
	img       *image.RGBA
	palette   ImagePalette
	shotColor *color.RGBA
}

// NewImageSurface allocates a width × height surface.
func NewImageSurface(width, height int) *ImageSurface {
	return &ImageSurface{
		img:     image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1))),
		palette: DefaultImagePalette,
	}
}

// ImageFactory produces ImageSurfaces tinted with each track's colour.
func ImageFactory() Factory {
	return func(track model.Track, width, height int) Surface {
		s := NewImageSurface(width, height)
		if c, err := ParseHexColor(track.Color); err == nil {
			s.shotColor = &c
		}
		return s
	}
}

// Image returns the backing image.
func (s *ImageSurface) Image() *image.RGBA {
	return s.img
}

func (s *ImageSurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *ImageSurface) color(p Paint) color.RGBA {
	if p == PaintShot && s.shotColor != nil {
		return *s.shotColor
	}
	return s.palette[p]
}

func (s *ImageSurface) Clear(p Paint) {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(s.color(p)), image.Point{}, draw.Src)
}

func rect(x, y, w, h float64) image.Rectangle {
	return image.Rect(
		int(math.Floor(x)), int(math.Floor(y)),
		int(math.Ceil(x+w)), int(math.Ceil(y+h)),
	)
}

func (s *ImageSurface) FillRect(x, y, w, h float64, p Paint) {
	r := rect(x, y, w, h).Intersect(s.img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(s.img, r, image.NewUniform(s.color(p)), image.Point{}, draw.Src)
}

func (s *ImageSurface) StrokeRect(x, y, w, h float64, p Paint) {
	s.FillRect(x, y, w, 1, p)
	s.FillRect(x, y+h-1, w, 1, p)
	s.FillRect(x, y, 1, h, p)
	s.FillRect(x+w-1, y, 1, h, p)
}

func (s *ImageSurface) VLine(x float64, p Paint) {
	_, h := s.Size()
	s.FillRect(x, 0, 1, float64(h), p)
}

func (s *ImageSurface) DrawText(x, y float64, text string, p Paint) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(s.color(p)),
		Face: face,
		Dot:  fixed.P(int(x), int(y)+face.Ascent),
	}
	d.DrawString(text)
}

// Compose stacks rendered track surfaces into one image of width × total
// height, leaving a gap of rulerHeight px at the top.
func Compose(surfaces []TrackSurface, width, rulerHeight int) *image.RGBA {
	height := rulerHeight
	for _, ts := range surfaces {
		height += ts.Slot.Height
	}
	out := image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))
	draw.Draw(out, out.Bounds(), image.NewUniform(DefaultImagePalette[PaintGrid]), image.Point{}, draw.Src)
	y := rulerHeight
	for _, ts := range surfaces {
		img, ok := ts.Surface.(*ImageSurface)
		if !ok {
			y += ts.Slot.Height
			continue
		}
		dst := image.Rect(0, y, width, y+ts.Slot.Height)
		draw.Draw(out, dst, img.img, image.Point{}, draw.Src)
		y += ts.Slot.Height
	}
	return out
}

// ParseHexColor parses "#rrggbb".
func ParseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("parse colour %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
