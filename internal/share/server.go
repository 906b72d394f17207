package share

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"LocalPaint/internal/logx"
)

// Server exposes a Hub over HTTP:
//
//	/           viewer page
//	/ws         websocket frame stream
//	/frame.png  latest frame
type Server struct {
	hub  *Hub
	addr string
}

func NewServer(port int, hub *Hub) *Server {
	return &Server{hub: hub, addr: fmt.Sprintf(":%d", port)}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", s.hub)
	mux.HandleFunc("/frame.png", s.serveFrame)
	mux.HandleFunc("/", s.servePage)
	return mux
}

func (s *Server) serveFrame(w http.ResponseWriter, _ *http.Request) {
	f, ok := s.hub.Latest()
	if !ok {
		http.Error(w, "nothing drawn yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(f.PNG)
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(viewerPage))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("share: listen %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logx.Logger().Warn("share: shutdown", "err", err)
		}
	}()

	logx.Logger().Info("share: live view listening", "addr", ln.Addr().String(), "session", s.hub.Session())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("share: serve: %w", err)
	}
	return nil
}

const viewerPage = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>LocalPaint live view</title>
<style>body{font-family:sans-serif;background:#eee}img{background:#fff;border:1px solid #000}</style>
</head>
<body>
<h1>LocalPaint live view</h1>
<p id="status">connecting...</p>
<img id="canvas" alt="">
<script>
const img = document.getElementById("canvas");
const status = document.getElementById("status");
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
ws.binaryType = "blob";
let header = null;
ws.onmessage = (e) => {
  if (typeof e.data === "string") { header = JSON.parse(e.data); return; }
  const old = img.src;
  img.src = URL.createObjectURL(e.data);
  if (old) URL.revokeObjectURL(old);
  if (header) status.textContent = "frame " + header.seq + " (" + header.event + ")";
};
ws.onclose = () => { status.textContent = "disconnected"; };
</script>
</body>
</html>
`
