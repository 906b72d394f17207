package ui

import (
	"fmt"
	"image/color"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"LocalPaint/internal/config"
	"LocalPaint/internal/export"
	"LocalPaint/internal/logx"
	"LocalPaint/internal/state"
)

// --- Custom Widget for the color swatch ---
type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func()
}

func newColorSwatch(c color.Color, tapped func()) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) SetColor(c color.Color) {
	s.Color = c
	s.Refresh()
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(32, 32))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return &swatchRenderer{
		WidgetRenderer: widget.NewSimpleRenderer(container.NewStack(rect, border)),
		swatch:         s,
		rect:           rect,
	}
}

type swatchRenderer struct {
	fyne.WidgetRenderer
	swatch *colorSwatch
	rect   *canvas.Rectangle
}

func (r *swatchRenderer) Refresh() {
	r.rect.FillColor = r.swatch.Color
	r.rect.Refresh()
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped()
	}
}

// Toolbar holds the drawing controls and the status line.
type Toolbar struct {
	win   fyne.Window
	board *state.Board
	save  config.Save

	Swatch     *colorSwatch
	Width      *widget.Slider
	WidthLabel *widget.Label
	Brush      *widget.Button
	Eraser     *widget.Button
	Clear      *widget.Button
	Undo       *widget.Button
	Redo       *widget.Button
	Save       *widget.Button
	Export     *widget.Button
	Status     *widget.Label
}

func NewToolbar(win fyne.Window, board *state.Board, save config.Save) *Toolbar {
	t := &Toolbar{win: win, board: board, save: save}

	t.Swatch = newColorSwatch(board.Color(), t.pickColor)

	t.Width = widget.NewSlider(state.MinLineWidth, state.MaxLineWidth)
	t.Width.Step = 1
	t.Width.SetValue(float64(board.LineWidth()))
	t.WidthLabel = widget.NewLabel(fmt.Sprint(board.LineWidth()))
	t.Width.OnChanged = func(v float64) {
		board.SetLineWidth(int(v))
		t.WidthLabel.SetText(fmt.Sprint(board.LineWidth()))
	}

	t.Brush = widget.NewButtonWithIcon("Brush", theme.DocumentCreateIcon(), func() {
		board.SetTool(state.Brush)
	})
	t.Eraser = widget.NewButtonWithIcon("Eraser", theme.ContentClearIcon(), func() {
		board.SetTool(state.Eraser)
	})
	t.Clear = widget.NewButtonWithIcon("Clear", theme.DeleteIcon(), func() {
		board.Clear()
		t.SetStatus("Canvas cleared")
	})
	t.Undo = widget.NewButtonWithIcon("Undo", theme.ContentUndoIcon(), board.Undo)
	t.Redo = widget.NewButtonWithIcon("Redo", theme.ContentRedoIcon(), board.Redo)
	t.Save = widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), t.saveCanvas)
	t.Export = widget.NewButtonWithIcon("Export...", theme.DownloadIcon(), t.showExport)
	t.Status = widget.NewLabel("Ready")

	board.Subscribe(t.onBoardEvent)
	t.sync()
	return t
}

// Object assembles the controls into one row.
func (t *Toolbar) Object() fyne.CanvasObject {
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), t.Width)
	return container.NewHBox(
		widget.NewLabel("Brush Color:"),
		t.Swatch,
		widget.NewSeparator(),
		widget.NewLabel("Brush Size:"),
		sliderContainer,
		t.WidthLabel,
		widget.NewSeparator(),
		t.Brush,
		t.Eraser,
		widget.NewSeparator(),
		t.Clear,
		t.Undo,
		t.Redo,
		widget.NewSeparator(),
		t.Save,
		t.Export,
		layout.NewSpacer(),
	)
}

func (t *Toolbar) SetStatus(text string) {
	t.Status.SetText(text)
}

func (t *Toolbar) onBoardEvent(e state.Event) {
	switch e {
	case state.EventCommit, state.EventRestore:
		t.SetStatus(fmt.Sprintf("Step %d of %d", t.board.HistoryIndex()+1, t.board.HistoryLen()))
	}
	if e != state.EventSegment {
		t.sync()
	}
}

// sync updates the buttons to match the board.
func (t *Toolbar) sync() {
	if t.board.Tool() == state.Eraser {
		t.Brush.Importance = widget.MediumImportance
		t.Eraser.Importance = widget.HighImportance
	} else {
		t.Brush.Importance = widget.HighImportance
		t.Eraser.Importance = widget.MediumImportance
	}
	t.Brush.Refresh()
	t.Eraser.Refresh()

	enable(t.Undo, t.board.CanUndo())
	enable(t.Redo, t.board.CanRedo())
}

func enable(b *widget.Button, on bool) {
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}

func (t *Toolbar) pickColor() {
	picker := dialog.NewColorPicker("Brush Color", "Choose the brush color", func(c color.Color) {
		t.board.SetColor(c)
		t.Swatch.SetColor(c)
	}, t.win)
	picker.Advanced = true
	picker.SetColor(t.board.Color())
	picker.Show()
}

// saveCanvas writes the canvas to the configured file. PNG names get the
// exact snapshot bytes; other extensions go through the exporter.
func (t *Toolbar) saveCanvas() {
	name := t.save.Name
	if name == "" {
		name = state.DefaultFileName
	}
	format, err := export.FormatFromPath(name)
	if err != nil {
		logx.Logger().Warn("save failed", "name", name, "err", err)
		t.SetStatus("Cannot save " + name)
		return
	}

	path := filepath.Join(t.save.Dir, name)
	if format == export.PNG {
		path, err = t.board.SaveFile(t.save.Dir, name)
	} else {
		err = export.File(path, t.board.Image())
	}
	if err != nil {
		logx.Logger().Warn("save failed", "path", path, "err", err)
		t.SetStatus("Error saving canvas")
		return
	}
	t.SetStatus("Saved " + path)
}
