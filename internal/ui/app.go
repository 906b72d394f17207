package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"LocalPaint/internal/config"
	"LocalPaint/internal/raster"
	"LocalPaint/internal/state"
)

const Title = "LocalPaint"

// NewContent lays out the title, the canvas and the controls below it.
func NewContent(win fyne.Window, board *state.Board, surface *raster.Surface, save config.Save) (fyne.CanvasObject, *BoardWidget, *Toolbar) {
	heading := widget.NewLabelWithStyle(Title, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	canvasWidget := NewBoardWidget(board, surface)
	toolbar := NewToolbar(win, board, save)

	content := container.NewBorder(
		heading,
		container.NewVBox(toolbar.Object(), toolbar.Status),
		nil, nil,
		container.NewCenter(canvasWidget),
	)
	return content, canvasWidget, toolbar
}

// RunApp opens the main window and blocks until it is closed. A non-empty
// shareLink is shown in the status line.
func RunApp(board *state.Board, surface *raster.Surface, cfg config.Config, shareLink string) {
	myApp := app.NewWithID("io.localpaint")
	myWindow := myApp.NewWindow(Title)

	content, _, toolbar := NewContent(myWindow, board, surface, cfg.Save)
	if shareLink != "" {
		toolbar.SetStatus("Live view: " + shareLink)
	}

	myWindow.SetContent(content)
	myWindow.Resize(fyne.NewSize(float32(cfg.Canvas.Width)+80, float32(cfg.Canvas.Height)+160))
	myWindow.ShowAndRun()
}
