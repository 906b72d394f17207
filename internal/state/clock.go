package state

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Clock numbers the snapshots taken by one board. Revisions only grow, so a
// snapshot's revision also orders it against entries dropped from history.
type Clock struct {
	revision atomic.Uint64
	now      func() time.Time
}

func newClock() *Clock {
	return &Clock{now: time.Now}
}

// Tick advances the clock and returns the new revision.
func (c *Clock) Tick() uint64 {
	return c.revision.Add(1)
}

// Revision returns the last revision handed out.
func (c *Clock) Revision() uint64 {
	return c.revision.Load()
}

// Stamp wraps encoded canvas data into a new snapshot.
func (c *Clock) Stamp(data []byte) Snapshot {
	return Snapshot{
		ID:        uuid.NewString(),
		Revision:  c.Tick(),
		Data:      data,
		CreatedAt: c.now(),
	}
}
