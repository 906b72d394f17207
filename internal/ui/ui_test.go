package ui

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"LocalPaint/internal/config"
	"LocalPaint/internal/raster"
	"LocalPaint/internal/state"
)

type fixture struct {
	win     fyne.Window
	board   *state.Board
	surface *raster.Surface
	canvas  *BoardWidget
	toolbar *Toolbar
}

func newFixture(t *testing.T, save config.Save) *fixture {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	surface := raster.New(100, 80)
	board := state.NewBoard(surface, state.Options{})
	win := test.NewWindow(widget.NewLabel(""))
	t.Cleanup(win.Close)

	content, bw, tb := NewContent(win, board, surface, save)
	win.SetContent(content)
	win.Resize(fyne.NewSize(900, 400))
	return &fixture{win: win, board: board, surface: surface, canvas: bw, toolbar: tb}
}

// at converts a point on the canvas to window coordinates.
func (f *fixture) at(x, y float32) fyne.Position {
	origin := fyne.CurrentApp().Driver().AbsolutePositionForObject(f.canvas)
	return origin.Add(fyne.NewPos(x, y))
}

func (f *fixture) drag(from, to fyne.Position) {
	f.canvas.MouseDown(&desktop.MouseEvent{
		PointEvent: fyne.PointEvent{AbsolutePosition: from},
		Button:     desktop.MouseButtonPrimary,
	})
	f.canvas.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{AbsolutePosition: to}})
	f.canvas.DragEnd()
}

func TestBoardWidgetDrawsAndCommits(t *testing.T) {
	f := newFixture(t, config.Save{})

	f.drag(f.at(10, 20), f.at(60, 20))
	assert.False(t, f.board.Drawing())
	assert.Equal(t, 1, f.board.HistoryLen())

	img := f.board.Image()
	assert.Greater(t, img.RGBAAt(35, 20).A, uint8(0))
	assert.Zero(t, img.RGBAAt(35, 60).A)

	// the pointer-up that follows the drag end adds nothing
	f.canvas.MouseUp(&desktop.MouseEvent{Button: desktop.MouseButtonPrimary})
	assert.Equal(t, 1, f.board.HistoryLen())
	assert.Equal(t, "Step 1 of 1", f.toolbar.Status.Text)
}

func TestBoardWidgetRepaintsOnCommit(t *testing.T) {
	f := newFixture(t, config.Save{})
	r, ok := test.WidgetRenderer(f.canvas).(*boardWidgetRenderer)
	require.True(t, ok)

	f.canvas.MouseDown(&desktop.MouseEvent{
		PointEvent: fyne.PointEvent{AbsolutePosition: f.at(10, 20)},
		Button:     desktop.MouseButtonPrimary,
	})
	for x := float32(12); x <= 60; x += 2 {
		f.canvas.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{AbsolutePosition: f.at(x, 20)}})
	}
	f.canvas.DragEnd()

	shown, ok := r.image.Image.(*image.RGBA)
	require.True(t, ok)
	assert.Greater(t, shown.RGBAAt(58, 20).A, uint8(0), "last segment is on screen after the commit")
}

func TestBoardWidgetIgnoresSecondaryButton(t *testing.T) {
	f := newFixture(t, config.Save{})

	f.canvas.MouseDown(&desktop.MouseEvent{
		PointEvent: fyne.PointEvent{AbsolutePosition: f.at(10, 10)},
		Button:     desktop.MouseButtonSecondary,
	})
	assert.False(t, f.board.Drawing())
}

func TestBoardWidgetMinSizeMatchesSurface(t *testing.T) {
	f := newFixture(t, config.Save{})
	assert.Equal(t, fyne.NewSize(100, 80), f.canvas.MinSize())
}

func TestToolbarToolButtons(t *testing.T) {
	f := newFixture(t, config.Save{})

	assert.Equal(t, state.Brush, f.board.Tool())
	test.Tap(f.toolbar.Eraser)
	assert.Equal(t, state.Eraser, f.board.Tool())
	assert.Equal(t, state.Eraser.String(), f.board.Tool().String())
	test.Tap(f.toolbar.Brush)
	assert.Equal(t, state.Brush, f.board.Tool())
}

func TestToolbarWidthSlider(t *testing.T) {
	f := newFixture(t, config.Save{})

	assert.Equal(t, float64(state.MinLineWidth), f.toolbar.Width.Min)
	assert.Equal(t, float64(state.MaxLineWidth), f.toolbar.Width.Max)
	assert.Equal(t, float64(state.DefaultLineWidth), f.toolbar.Width.Value)

	f.toolbar.Width.SetValue(12)
	assert.Equal(t, 12, f.board.LineWidth())
	assert.Equal(t, "12", f.toolbar.WidthLabel.Text)

	f.toolbar.Width.SetValue(40)
	assert.LessOrEqual(t, f.board.LineWidth(), state.MaxLineWidth)
}

func TestToolbarUndoRedo(t *testing.T) {
	f := newFixture(t, config.Save{})

	assert.True(t, f.toolbar.Undo.Disabled())
	assert.True(t, f.toolbar.Redo.Disabled())

	f.drag(f.at(10, 10), f.at(40, 10))
	f.drag(f.at(10, 50), f.at(40, 50))
	require.Equal(t, 2, f.board.HistoryLen())
	assert.False(t, f.toolbar.Undo.Disabled())

	test.Tap(f.toolbar.Undo)
	f.board.Wait()
	assert.Equal(t, 0, f.board.HistoryIndex())
	assert.Zero(t, f.board.Image().RGBAAt(25, 50).A)
	assert.True(t, f.toolbar.Undo.Disabled())
	assert.False(t, f.toolbar.Redo.Disabled())

	test.Tap(f.toolbar.Redo)
	f.board.Wait()
	assert.Equal(t, 1, f.board.HistoryIndex())
	assert.Greater(t, f.board.Image().RGBAAt(25, 50).A, uint8(0))
}

func TestToolbarClear(t *testing.T) {
	f := newFixture(t, config.Save{})

	f.drag(f.at(10, 10), f.at(40, 10))
	test.Tap(f.toolbar.Clear)

	assert.Zero(t, f.board.Image().RGBAAt(25, 10).A)
	assert.Equal(t, 1, f.board.HistoryLen())
	assert.Equal(t, "Canvas cleared", f.toolbar.Status.Text)
}

func TestToolbarSave(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, config.Save{Dir: dir, Name: state.DefaultFileName})

	f.drag(f.at(10, 10), f.at(40, 10))
	test.Tap(f.toolbar.Save)

	path := filepath.Join(dir, state.DefaultFileName)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, "Saved "+path, f.toolbar.Status.Text)
}

func TestToolbarSaveOtherFormat(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, config.Save{Dir: dir, Name: "drawing.bmp"})

	f.drag(f.at(10, 10), f.at(40, 10))
	test.Tap(f.toolbar.Save)

	path := filepath.Join(dir, "drawing.bmp")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	img, err := bmp.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 80, img.Bounds().Dy())
	assert.Equal(t, "Saved "+path, f.toolbar.Status.Text)
	assert.Equal(t, 1, f.board.HistoryLen())
}

func TestToolbarSaveRejectsUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	f := newFixture(t, config.Save{Dir: dir, Name: "drawing.tiff"})

	test.Tap(f.toolbar.Save)

	_, err := os.Stat(filepath.Join(dir, "drawing.tiff"))
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, "Cannot save drawing.tiff", f.toolbar.Status.Text)
}

type memWriter struct {
	bytes.Buffer
	uri    fyne.URI
	closed bool
}

func (m *memWriter) Close() error {
	m.closed = true
	return nil
}

func (m *memWriter) URI() fyne.URI { return m.uri }

func TestToolbarExportTo(t *testing.T) {
	f := newFixture(t, config.Save{})
	f.drag(f.at(10, 10), f.at(40, 10))

	w := &memWriter{uri: storage.NewFileURI(filepath.Join(t.TempDir(), "drawing.png"))}
	f.toolbar.exportTo(w)

	assert.True(t, w.closed)
	img, err := png.Decode(bytes.NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 80, img.Bounds().Dy())
	assert.Equal(t, "Exported drawing.png", f.toolbar.Status.Text)
}

func TestToolbarExportRejectsUnknownExtension(t *testing.T) {
	f := newFixture(t, config.Save{})

	w := &memWriter{uri: storage.NewFileURI(filepath.Join(t.TempDir(), "drawing.tiff"))}
	f.toolbar.exportTo(w)

	assert.True(t, w.closed)
	assert.Zero(t, w.Len())
	assert.Contains(t, f.toolbar.Status.Text, "Cannot export drawing.tiff")
}
