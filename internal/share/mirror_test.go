package share

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalPaint/internal/raster"
	"LocalPaint/internal/state"
)

func TestMirrorPublishesSettledCanvas(t *testing.T) {
	hub := NewHub()
	board := state.NewBoard(raster.New(40, 30), state.Options{})
	Mirror(hub, board, 40, 30)

	board.BeginStroke(state.Point{X: 5, Y: 5})
	board.ContinueStroke(state.Point{X: 30, Y: 5})
	_, ok := hub.Latest()
	assert.False(t, ok, "segments are not published")

	board.EndStroke()
	f, ok := hub.Latest()
	require.True(t, ok)
	snap, _ := board.Current()
	assert.Equal(t, "commit", f.Event)
	assert.Equal(t, snap.Revision, f.Revision)
	assert.Equal(t, snap.Data, f.PNG, "commit frames reuse the snapshot bytes")
	assert.Equal(t, 40, f.Width)
	assert.Equal(t, 30, f.Height)

	board.Clear()
	f, _ = hub.Latest()
	assert.Equal(t, "clear", f.Event)
	img, err := png.Decode(bytes.NewReader(f.PNG))
	require.NoError(t, err)
	_, _, _, a := img.At(15, 5).RGBA()
	assert.Zero(t, a)

	board.SetTool(state.Eraser)
	f, _ = hub.Latest()
	assert.Equal(t, uint64(2), f.Seq, "style changes are not published")
}

func TestMirrorPublishesRestore(t *testing.T) {
	hub := NewHub()
	board := state.NewBoard(raster.New(40, 30), state.Options{})
	Mirror(hub, board, 40, 30)

	for _, y := range []float64{5, 20} {
		board.BeginStroke(state.Point{X: 5, Y: y})
		board.ContinueStroke(state.Point{X: 30, Y: y})
		board.EndStroke()
	}
	first := board.HistoryIndex()
	board.Undo()
	board.Wait()

	f, ok := hub.Latest()
	require.True(t, ok)
	snap, _ := board.Current()
	assert.Equal(t, "restore", f.Event)
	assert.Equal(t, snap.Data, f.PNG)
	assert.Equal(t, first-1, board.HistoryIndex())
}
