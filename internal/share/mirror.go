package share

import (
	"LocalPaint/internal/logx"
	"LocalPaint/internal/state"
)

// Mirror publishes the board's canvas to hub whenever it visibly settles:
// after a commit, a restore or a clear. Frames for commits and restores
// reuse the snapshot bytes; only a clear needs a fresh encode.
func Mirror(hub *Hub, board *state.Board, width, height int) {
	board.Subscribe(func(e state.Event) {
		f := Frame{Event: e.String(), Width: width, Height: height}
		switch e {
		case state.EventCommit, state.EventRestore:
			snap, ok := board.Current()
			if !ok {
				return
			}
			f.Revision, f.PNG = snap.Revision, snap.Data
		case state.EventClear:
			data, err := board.Encode()
			if err != nil {
				logx.Logger().Warn("share: encoding frame", "event", e.String(), "err", err)
				return
			}
			f.PNG = data
			if snap, ok := board.Current(); ok {
				f.Revision = snap.Revision
			}
		default:
			return
		}
		hub.Publish(f)
	})
}
