package ui

import (
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"LocalPaint/internal/raster"
	"LocalPaint/internal/state"
)

// BoardWidget shows the raster surface and feeds pointer input to the board.
// One surface pixel is one Fyne unit.
type BoardWidget struct {
	widget.BaseWidget
	board   *state.Board
	surface *raster.Surface

	lastPaint time.Time
}

// segmentRefresh caps repaints while a stroke is being dragged.
const segmentRefresh = time.Second / 60

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)

func NewBoardWidget(board *state.Board, surface *raster.Surface) *BoardWidget {
	b := &BoardWidget{board: board, surface: surface}
	b.ExtendBaseWidget(b)
	surface.SetLocator(b.origin)
	board.Subscribe(b.onBoardEvent)
	return b
}

// onBoardEvent repaints after every visible change. Segments only repaint
// once per frame; the commit that ends the stroke always repaints.
func (b *BoardWidget) onBoardEvent(e state.Event) {
	switch e {
	case state.EventStyle:
		return
	case state.EventSegment:
		if time.Since(b.lastPaint) < segmentRefresh {
			return
		}
	}
	b.lastPaint = time.Now()
	b.Refresh()
}

// origin is the widget's top-left corner in window coordinates.
func (b *BoardWidget) origin() (float64, float64) {
	app := fyne.CurrentApp()
	if app == nil {
		return 0, 0
	}
	pos := app.Driver().AbsolutePositionForObject(b)
	return float64(pos.X), float64(pos.Y)
}

func toPoint(p fyne.Position) state.Point {
	return state.Point{X: float64(p.X), Y: float64(p.Y)}
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.board.BeginStroke(toPoint(e.AbsolutePosition))
	}
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.board.EndStroke()
	}
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	b.board.ContinueStroke(toPoint(e.AbsolutePosition))
}

// DragEnd is delivered even when the button is released outside the
// widget, so the stroke never stays open.
func (b *BoardWidget) DragEnd() {
	b.board.EndStroke()
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardWidgetRenderer{board: b}
	r.background = canvas.NewRectangle(b.board.Background())
	r.background.StrokeColor = color.Black
	r.background.StrokeWidth = 1
	r.image = canvas.NewImageFromImage(b.board.Image())
	r.image.FillMode = canvas.ImageFillStretch
	r.image.ScaleMode = canvas.ImageScalePixels
	return r
}

type boardWidgetRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
	image      *canvas.Image
}

func (r *boardWidgetRenderer) size() fyne.Size {
	return fyne.NewSize(float32(r.board.surface.Width()), float32(r.board.surface.Height()))
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.background, r.image}
}

func (r *boardWidgetRenderer) Layout(fyne.Size) {
	s := r.size()
	r.background.Resize(s)
	r.image.Move(fyne.NewPos(0, 0))
	r.image.Resize(s)
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return r.size()
}

func (r *boardWidgetRenderer) Refresh() {
	r.background.FillColor = r.board.board.Background()
	r.image.Image = r.board.board.Image()
	r.Layout(r.size())
	r.background.Refresh()
	r.image.Refresh()
}

func (r *boardWidgetRenderer) Destroy() {}
