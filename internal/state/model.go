package state

import (
	"context"
	"image"
	"image/color"
	"time"
)

// Line width bounds accepted by the width control.
const (
	MinLineWidth     = 1
	MaxLineWidth     = 20
	DefaultLineWidth = 5
)

// Point is a position in surface-local coordinates unless noted otherwise.
type Point struct{ X, Y float64 }

// Rect is the on-screen bounding box of a surface.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Local translates a pointer position given in window coordinates into the
// surface's own coordinate space.
func (r Rect) Local(p Point) Point {
	return Point{X: p.X - r.X, Y: p.Y - r.Y}
}

// Tool selects what a stroke paints with.
type Tool int

const (
	Brush Tool = iota
	Eraser
)

func (t Tool) String() string {
	switch t {
	case Brush:
		return "brush"
	case Eraser:
		return "eraser"
	}
	return "unknown"
}

// Snapshot is one full-canvas PNG encoding kept in the history.
// Snapshots are never mutated after creation.
type Snapshot struct {
	ID        string
	Revision  uint64
	Data      []byte
	CreatedAt time.Time
}

// Surface is the rendering capability the Board drives. Everything except
// DecodeSnapshot is called with the Board locked, on the event thread.
type Surface interface {
	// BoundingBox is the surface's on-screen rectangle.
	BoundingBox() Rect
	// ReadPixels returns a copy of the buffer that the caller owns.
	ReadPixels() *image.RGBA
	// WritePixels replaces the whole buffer.
	WritePixels(img *image.RGBA)
	EncodeSnapshot() ([]byte, error)
	// DecodeSnapshot runs on a background goroutine and must not touch the
	// live buffer.
	DecodeSnapshot(ctx context.Context, data []byte) (*image.RGBA, error)
	DrawSegment(from, to Point, c color.Color, width float64) error
	// Clear blanks the buffer to transparent.
	Clear()
}

// Dispatcher runs fn on the thread that owns the UI. fyne.Do satisfies it.
type Dispatcher func(fn func())

// Event tells listeners what visibly changed on the board.
type Event int

const (
	EventSegment Event = iota
	EventCommit
	EventClear
	EventRestore
	EventStyle
)

func (e Event) String() string {
	switch e {
	case EventSegment:
		return "segment"
	case EventCommit:
		return "commit"
	case EventClear:
		return "clear"
	case EventRestore:
		return "restore"
	case EventStyle:
		return "style"
	}
	return "unknown"
}
