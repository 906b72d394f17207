package state

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sync"

	"LocalPaint/internal/logx"
)

// DefaultFileName is the name Save writes the canvas to.
const DefaultFileName = "canvas_drawing.png"

// ErrNoSurface is returned when a board is used without a surface.
var ErrNoSurface = errors.New("state: board has no surface")

// Options configures a new Board. Zero values pick the defaults.
type Options struct {
	Background   color.Color
	Color        color.Color
	LineWidth    int
	HistoryLimit int
	Dispatch     Dispatcher
}

// Board owns the drawing state of one canvas: tool and style, the stroke in
// progress and the snapshot history. Pointer handlers and toolbar actions call
// into it; it renders through its Surface.
type Board struct {
	mu      sync.Mutex
	surface Surface
	history *History
	clock   *Clock

	tool       Tool
	color      color.Color
	background color.Color
	width      int

	drawing bool
	last    Point

	dispatch   Dispatcher
	restoreGen uint64
	cancel     context.CancelFunc
	restores   sync.WaitGroup

	listenMu  sync.RWMutex
	listeners []func(Event)
}

// NewBoard creates a board drawing onto s.
func NewBoard(s Surface, opts Options) *Board {
	b := &Board{
		surface:    s,
		history:    NewHistory(opts.HistoryLimit),
		clock:      newClock(),
		tool:       Brush,
		color:      opts.Color,
		background: opts.Background,
		width:      clampWidth(opts.LineWidth),
		dispatch:   opts.Dispatch,
	}
	if b.color == nil {
		b.color = color.Black
	}
	if b.background == nil {
		b.background = color.White
	}
	if opts.LineWidth == 0 {
		b.width = DefaultLineWidth
	}
	if b.dispatch == nil {
		b.dispatch = func(fn func()) { fn() }
	}
	return b
}

func clampWidth(w int) int {
	if w < MinLineWidth {
		return MinLineWidth
	}
	if w > MaxLineWidth {
		return MaxLineWidth
	}
	return w
}

// Subscribe registers fn to be called after every visible change. Listeners
// run without the board locked and may call back into it.
func (b *Board) Subscribe(fn func(Event)) {
	b.listenMu.Lock()
	b.listeners = append(b.listeners, fn)
	b.listenMu.Unlock()
}

func (b *Board) notify(e Event) {
	b.listenMu.RLock()
	listeners := make([]func(Event), len(b.listeners))
	copy(listeners, b.listeners)
	b.listenMu.RUnlock()

	for _, fn := range listeners {
		fn(e)
	}
}

// BeginStroke starts a stroke at pos, given in window coordinates. A stroke
// still marked in progress (its release was never seen) is abandoned and the
// new one starts fresh from pos. An undo or redo still decoding is applied
// before the stroke starts.
func (b *Board) BeginStroke(pos Point) {
	b.mu.Lock()
	if b.surface == nil {
		b.mu.Unlock()
		return
	}
	if b.drawing {
		logx.Logger().Debug("stroke: restarting unfinished stroke")
	}
	restored := b.settle(true)
	b.last = b.surface.BoundingBox().Local(pos)
	b.drawing = true
	b.mu.Unlock()

	if restored {
		b.notify(EventRestore)
	}
}

// ContinueStroke draws a segment from the last recorded point to pos.
// It does nothing unless a stroke is in progress.
func (b *Board) ContinueStroke(pos Point) {
	b.mu.Lock()
	if !b.drawing || b.surface == nil {
		b.mu.Unlock()
		return
	}
	to := b.surface.BoundingBox().Local(pos)
	c := b.color
	if b.tool == Eraser {
		c = b.background
	}
	if err := b.surface.DrawSegment(b.last, to, c, float64(b.width)); err != nil {
		logx.Logger().Warn("stroke: draw segment failed", "from", b.last, "to", to, "err", err)
	}
	b.last = to
	b.mu.Unlock()

	b.notify(EventSegment)
}

// EndStroke finishes the stroke in progress and records the canvas as a new
// history entry, discarding any redo entries. It does nothing unless a
// stroke is in progress.
func (b *Board) EndStroke() {
	b.mu.Lock()
	if !b.drawing || b.surface == nil {
		b.mu.Unlock()
		return
	}
	b.drawing = false
	b.settle(false)

	data, err := b.surface.EncodeSnapshot()
	if err != nil {
		b.mu.Unlock()
		logx.Logger().Warn("stroke: snapshot encode failed, history unchanged", "err", err)
		return
	}
	snap := b.clock.Stamp(data)
	b.history.Push(snap)
	logx.Logger().Debug("stroke: committed",
		"revision", snap.Revision, "index", b.history.Index(), "len", b.history.Len(), "bytes", len(data))
	b.mu.Unlock()

	b.notify(EventCommit)
}

// Clear blanks the whole canvas. It is not recorded in the history.
func (b *Board) Clear() {
	b.mu.Lock()
	if b.surface == nil {
		b.mu.Unlock()
		return
	}
	b.settle(false)
	b.surface.Clear()
	b.mu.Unlock()

	b.notify(EventClear)
}

// Undo steps the history back one entry and restores the canvas to it once
// the snapshot has been decoded. It does nothing at the first entry.
func (b *Board) Undo() {
	b.step("undo", b.history.Back)
}

// Redo steps the history forward one entry. It does nothing at the last
// entry.
func (b *Board) Redo() {
	b.step("redo", b.history.Forward)
}

// step moves the history cursor and starts an asynchronous restore. A newer
// restore supersedes older ones: their decode is cancelled and, if it still
// completes, its result is dropped.
func (b *Board) step(op string, move func() (Snapshot, bool)) {
	b.mu.Lock()
	if b.surface == nil {
		b.mu.Unlock()
		return
	}
	snap, ok := move()
	if !ok {
		b.mu.Unlock()
		return
	}
	if b.cancel != nil {
		b.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	b.restoreGen++
	gen := b.restoreGen
	b.restores.Add(1)
	logx.Logger().Debug(op, "index", b.history.Index(), "len", b.history.Len(), "revision", snap.Revision)
	b.mu.Unlock()

	go b.restore(ctx, gen, snap)
}

func (b *Board) restore(ctx context.Context, gen uint64, snap Snapshot) {
	img, err := b.surface.DecodeSnapshot(ctx, snap.Data)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logx.Logger().Warn("restore: snapshot decode failed", "revision", snap.Revision, "err", err)
		}
		b.restores.Done()
		return
	}

	b.dispatch(func() {
		defer b.restores.Done()

		b.mu.Lock()
		if gen != b.restoreGen {
			b.mu.Unlock()
			logx.Logger().Debug("restore: superseded", "revision", snap.Revision)
			return
		}
		b.surface.WritePixels(img)
		b.cancel()
		b.cancel = nil
		b.mu.Unlock()

		b.notify(EventRestore)
	})
}

// settle drops any restore still in flight so it cannot overwrite drawing
// done after it was started. With apply set, the snapshot at the history
// cursor is decoded in place first, so new strokes land on the canvas the
// history says is shown. It reports whether pixels were replaced. Callers
// hold b.mu.
func (b *Board) settle(apply bool) bool {
	if b.cancel == nil {
		return false
	}
	b.cancel()
	b.cancel = nil
	b.restoreGen++
	if !apply {
		return false
	}

	snap, ok := b.history.Current()
	if !ok {
		return false
	}
	img, err := b.surface.DecodeSnapshot(context.Background(), snap.Data)
	if err != nil {
		logx.Logger().Warn("restore: snapshot decode failed", "revision", snap.Revision, "err", err)
		return false
	}
	b.surface.WritePixels(img)
	logx.Logger().Debug("restore: applied before stroke", "revision", snap.Revision)
	return true
}

// Wait blocks until every restore started so far has been applied or
// dropped.
func (b *Board) Wait() {
	b.restores.Wait()
}

// Encode returns the current canvas as PNG.
func (b *Board) Encode() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.surface == nil {
		return nil, ErrNoSurface
	}
	return b.surface.EncodeSnapshot()
}

// Save writes the current canvas to w as PNG.
func (b *Board) Save(w io.Writer) error {
	data, err := b.Encode()
	if err != nil {
		return fmt.Errorf("save: encode canvas: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("save: write canvas: %w", err)
	}
	return nil
}

// SaveFile writes the canvas as PNG to name inside dir, using
// DefaultFileName when name is empty, and returns the path written.
func (b *Board) SaveFile(dir, name string) (string, error) {
	if name == "" {
		name = DefaultFileName
	}
	path := filepath.Join(dir, name)
	data, err := b.Encode()
	if err != nil {
		return "", fmt.Errorf("save: encode canvas: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save: %w", err)
	}
	logx.Logger().Info("save: wrote canvas", "path", path, "bytes", len(data))
	return path, nil
}

// Image returns a copy of the current canvas pixels.
func (b *Board) Image() *image.RGBA {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.surface == nil {
		return nil
	}
	return b.surface.ReadPixels()
}

// SetColor sets the brush color used from the next segment on.
func (b *Board) SetColor(c color.Color) {
	if c == nil {
		return
	}
	b.mu.Lock()
	b.color = c
	b.mu.Unlock()
	b.notify(EventStyle)
}

// SetLineWidth sets the stroke width, clamped to [MinLineWidth, MaxLineWidth].
func (b *Board) SetLineWidth(w int) {
	b.mu.Lock()
	b.width = clampWidth(w)
	b.mu.Unlock()
	b.notify(EventStyle)
}

func (b *Board) SetTool(t Tool) {
	b.mu.Lock()
	b.tool = t
	b.mu.Unlock()
	b.notify(EventStyle)
}

func (b *Board) Tool() Tool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tool
}

func (b *Board) Color() color.Color {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.color
}

func (b *Board) Background() color.Color {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.background
}

func (b *Board) LineWidth() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width
}

// Drawing reports whether a stroke is in progress.
func (b *Board) Drawing() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.drawing
}

func (b *Board) HistoryLen() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.history.Len()
}

func (b *Board) HistoryIndex() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.history.Index()
}

func (b *Board) CanUndo() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.history.CanUndo()
}

func (b *Board) CanRedo() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.history.CanRedo()
}

// Current returns the snapshot the history cursor points at.
func (b *Board) Current() (Snapshot, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.history.Current()
}
