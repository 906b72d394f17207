// Package share serves a read-only live view of the canvas to other machines
// on the local network. Viewers receive every published frame over a
// websocket; they cannot draw.
package share

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"LocalPaint/internal/logx"
)

const writeTimeout = 10 * time.Second

// Frame is one published canvas state. The JSON fields are sent as a text
// message ahead of the binary PNG message.
type Frame struct {
	Session  string `json:"session"`
	Seq      uint64 `json:"seq"`
	Revision uint64 `json:"revision"`
	Event    string `json:"event"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	PNG      []byte `json:"-"`
}

type viewer struct {
	conn   *websocket.Conn
	addr   string
	frames chan Frame
	done   chan struct{}
}

// offer queues f, replacing a frame the viewer has not picked up yet.
func (v *viewer) offer(f Frame) {
	for {
		select {
		case v.frames <- f:
			return
		default:
		}
		select {
		case <-v.frames:
		default:
		}
	}
}

func (v *viewer) writeLoop() {
	defer v.conn.Close()
	for {
		select {
		case <-v.done:
			return
		case f := <-v.frames:
			if err := v.write(f); err != nil {
				logx.Logger().Info("share: viewer write failed", "addr", v.addr, "err", err)
				return
			}
		}
	}
}

func (v *viewer) write(f Frame) error {
	if err := v.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	if err := v.conn.WriteJSON(f); err != nil {
		return err
	}
	return v.conn.WriteMessage(websocket.BinaryMessage, f.PNG)
}

// Hub fans published frames out to every connected viewer. Slow viewers
// skip intermediate frames and always end on the newest one.
type Hub struct {
	session  string
	upgrader websocket.Upgrader
	seq      atomic.Uint64

	mu      sync.RWMutex
	viewers map[*viewer]struct{}
	latest  *Frame
}

func NewHub() *Hub {
	return &Hub{
		session: uuid.NewString(),
		viewers: make(map[*viewer]struct{}),
	}
}

// Session identifies this hub in every frame it sends.
func (h *Hub) Session() string { return h.session }

// Publish stamps f with the session and the next sequence number and sends
// it to all viewers. Viewers that connect later receive it first.
func (h *Hub) Publish(f Frame) Frame {
	f.Session = h.session
	f.Seq = h.seq.Add(1)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = &f
	for v := range h.viewers {
		v.offer(f)
	}
	logx.Logger().Debug("share: published frame", "seq", f.Seq, "event", f.Event, "viewers", len(h.viewers))
	return f
}

// Latest returns the most recently published frame.
func (h *Hub) Latest() (Frame, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.latest == nil {
		return Frame{}, false
	}
	return *h.latest, true
}

// Viewers returns the number of connected viewers.
func (h *Hub) Viewers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.viewers)
}

func (h *Hub) add(v *viewer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.viewers[v] = struct{}{}
	if h.latest != nil {
		v.offer(*h.latest)
	}
	logx.Logger().Info("share: viewer connected", "addr", v.addr, "viewers", len(h.viewers))
}

func (h *Hub) remove(v *viewer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.viewers, v)
	logx.Logger().Info("share: viewer disconnected", "addr", v.addr, "viewers", len(h.viewers))
}

// ServeHTTP upgrades the request to a websocket and streams frames until the
// viewer goes away. Anything the viewer sends is discarded.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logx.Logger().Warn("share: upgrade failed", "addr", r.RemoteAddr, "err", err)
		return
	}
	v := &viewer{
		conn:   conn,
		addr:   r.RemoteAddr,
		frames: make(chan Frame, 1),
		done:   make(chan struct{}),
	}
	h.add(v)
	go v.writeLoop()

	for {
		if _, _, err := conn.NextReader(); err != nil {
			break
		}
	}
	h.remove(v)
	close(v.done)
}
