package state

// History is a linear undo/redo list of snapshots with a cursor.
// The cursor is always within [-1, Len()-1]; -1 means nothing recorded yet.
type History struct {
	entries []Snapshot
	index   int
	limit   int
}

// NewHistory creates an empty history. A limit of zero or less keeps every
// entry; otherwise the oldest entries are dropped once limit is exceeded.
func NewHistory(limit int) *History {
	if limit < 0 {
		limit = 0
	}
	return &History{index: -1, limit: limit}
}

// Push discards everything after the cursor, appends s and moves the cursor
// onto it.
func (h *History) Push(s Snapshot) {
	h.entries = append(h.entries[:h.index+1], s)
	h.index = len(h.entries) - 1

	if h.limit > 0 && len(h.entries) > h.limit {
		drop := len(h.entries) - h.limit
		// copy so the dropped snapshots can be collected
		h.entries = append([]Snapshot(nil), h.entries[drop:]...)
		h.index -= drop
	}
}

func (h *History) Len() int { return len(h.entries) }

func (h *History) Index() int { return h.index }

// Current returns the snapshot under the cursor.
func (h *History) Current() (Snapshot, bool) {
	if h.index < 0 {
		return Snapshot{}, false
	}
	return h.entries[h.index], true
}

func (h *History) CanUndo() bool { return h.index > 0 }

func (h *History) CanRedo() bool { return h.index < len(h.entries)-1 }

// Back moves the cursor one entry towards the oldest snapshot and returns it.
// It reports false, leaving the cursor alone, when already at the first entry.
func (h *History) Back() (Snapshot, bool) {
	if !h.CanUndo() {
		return Snapshot{}, false
	}
	h.index--
	return h.entries[h.index], true
}

// Forward is the inverse of Back.
func (h *History) Forward() (Snapshot, bool) {
	if !h.CanRedo() {
		return Snapshot{}, false
	}
	h.index++
	return h.entries[h.index], true
}
