package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"LocalPaint/internal/export"
	"LocalPaint/internal/logx"
	"LocalPaint/internal/state"
)

func (t *Toolbar) showExport() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, t.win)
			return
		}
		if writer == nil {
			return // cancelled
		}
		t.exportTo(writer)
	}, t.win)
	d.SetFileName(state.DefaultFileName)
	d.SetFilter(storage.NewExtensionFileFilter(export.Extensions))
	d.Show()
}

// exportTo encodes the canvas in the format named by the writer's extension.
func (t *Toolbar) exportTo(writer fyne.URIWriteCloser) {
	defer func() {
		if err := writer.Close(); err != nil {
			logx.Logger().Warn("export: closing writer", "err", err)
		}
	}()

	name := writer.URI().Name()
	format, err := export.FormatFromPath(name)
	if err != nil {
		logx.Logger().Warn("export: rejected", "name", name, "err", err)
		t.SetStatus(fmt.Sprintf("Cannot export %s: use png, jpg, bmp or pdf", name))
		return
	}

	img := t.board.Image()
	if img == nil {
		t.SetStatus("Nothing to export")
		return
	}
	if err := export.Encode(writer, img, format); err != nil {
		logx.Logger().Warn("export: failed", "name", name, "err", err)
		t.SetStatus("Error exporting " + name)
		return
	}
	logx.Logger().Info("export: wrote canvas", "uri", writer.URI().String(), "format", format.String())
	t.SetStatus("Exported " + name)
}
