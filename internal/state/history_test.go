package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snap(rev uint64) Snapshot {
	return Snapshot{Revision: rev, Data: []byte{byte(rev)}}
}

func revisions(h *History) []uint64 {
	out := make([]uint64, 0, h.Len())
	for _, s := range h.entries {
		out = append(out, s.Revision)
	}
	return out
}

func TestHistoryEmpty(t *testing.T) {
	h := NewHistory(0)
	assert.Equal(t, 0, h.Len())
	assert.Equal(t, -1, h.Index())
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())

	_, ok := h.Current()
	assert.False(t, ok)
	_, ok = h.Back()
	assert.False(t, ok)
	_, ok = h.Forward()
	assert.False(t, ok)
	assert.Equal(t, -1, h.Index())
}

func TestHistoryPushAdvances(t *testing.T) {
	h := NewHistory(0)
	for i := 1; i <= 4; i++ {
		h.Push(snap(uint64(i)))
		assert.Equal(t, i, h.Len())
		assert.Equal(t, i-1, h.Index())
	}
	cur, ok := h.Current()
	require.True(t, ok)
	assert.Equal(t, uint64(4), cur.Revision)
}

func TestHistoryBackForward(t *testing.T) {
	h := NewHistory(0)
	h.Push(snap(1))

	_, ok := h.Back()
	assert.False(t, ok, "cannot step below the first entry")
	assert.Equal(t, 0, h.Index())

	h.Push(snap(2))
	h.Push(snap(3))

	s, ok := h.Back()
	require.True(t, ok)
	assert.Equal(t, uint64(2), s.Revision)
	assert.Equal(t, 1, h.Index())

	s, ok = h.Forward()
	require.True(t, ok)
	assert.Equal(t, uint64(3), s.Revision)

	_, ok = h.Forward()
	assert.False(t, ok)
	assert.Equal(t, 2, h.Index())
}

func TestHistoryPushTruncatesRedo(t *testing.T) {
	h := NewHistory(0)
	h.Push(snap(1))
	h.Push(snap(2))
	h.Push(snap(3))
	h.Back()
	h.Back()

	h.Push(snap(4))
	assert.Equal(t, []uint64{1, 4}, revisions(h))
	assert.Equal(t, 1, h.Index())
	assert.False(t, h.CanRedo())
}

func TestHistoryLimitDropsOldest(t *testing.T) {
	h := NewHistory(3)
	for i := 1; i <= 5; i++ {
		h.Push(snap(uint64(i)))
	}
	assert.Equal(t, []uint64{3, 4, 5}, revisions(h))
	assert.Equal(t, 2, h.Index())

	h.Back()
	h.Back()
	assert.False(t, h.CanUndo())
	s, _ := h.Current()
	assert.Equal(t, uint64(3), s.Revision)
}

func TestHistoryNegativeLimitIsUnbounded(t *testing.T) {
	h := NewHistory(-2)
	for i := 1; i <= 10; i++ {
		h.Push(snap(uint64(i)))
	}
	assert.Equal(t, 10, h.Len())
}
