// Package raster implements the board's drawing surface on top of a gg
// software context.
package raster

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/gogpu/gg"

	"LocalPaint/internal/state"
)

// Default canvas size in pixels.
const (
	DefaultWidth  = 950
	DefaultHeight = 550
)

// Surface is a fixed-size RGBA canvas. It is not safe for concurrent use
// except for DecodeSnapshot, which does not touch the canvas.
type Surface struct {
	dc     *gg.Context
	width  int
	height int
	locate func() (x, y float64)
}

var _ state.Surface = (*Surface)(nil)

// New creates a transparent surface of the given size.
func New(width, height int) *Surface {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Surface{
		dc:     gg.NewContext(width, height),
		width:  width,
		height: height,
	}
}

// SetLocator sets the function reporting where the surface's top-left
// corner currently sits on screen. Without one the surface is at the origin.
func (s *Surface) SetLocator(fn func() (x, y float64)) {
	s.locate = fn
}

func (s *Surface) Width() int { return s.width }

func (s *Surface) Height() int { return s.height }

// BoundingBox implements state.Surface.
func (s *Surface) BoundingBox() state.Rect {
	r := state.Rect{Width: float64(s.width), Height: float64(s.height)}
	if s.locate != nil {
		r.X, r.Y = s.locate()
	}
	return r
}

// ReadPixels returns a copy of the canvas.
func (s *Surface) ReadPixels() *image.RGBA {
	return toRGBA(s.dc.Image())
}

// WritePixels replaces the canvas with img.
func (s *Surface) WritePixels(img *image.RGBA) {
	old := s.dc
	s.dc = gg.NewContextForImage(img)
	s.width, s.height = s.dc.Width(), s.dc.Height()
	if err := old.Close(); err != nil {
		gg.Logger().Warn("raster: closing replaced context", "err", err)
	}
}

// EncodeSnapshot encodes the canvas as PNG.
func (s *Surface) EncodeSnapshot() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("raster: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeSnapshot decodes PNG data produced by EncodeSnapshot.
func (s *Surface) DecodeSnapshot(ctx context.Context, data []byte) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("raster: decode png: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return toRGBA(img), nil
}

// DrawSegment strokes a straight line with round caps and joins.
func (s *Surface) DrawSegment(from, to state.Point, c color.Color, width float64) error {
	s.dc.SetColor(c)
	s.dc.SetLineWidth(width)
	s.dc.SetLineCap(gg.LineCapRound)
	s.dc.SetLineJoin(gg.LineJoinRound)
	s.dc.MoveTo(from.X, from.Y)
	s.dc.LineTo(to.X, to.Y)
	if err := s.dc.Stroke(); err != nil {
		return fmt.Errorf("raster: stroke segment: %w", err)
	}
	return nil
}

// Clear makes every pixel transparent.
func (s *Surface) Clear() {
	s.dc.Clear()
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return dst
}
