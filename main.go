package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"github.com/gogpu/gg"

	"LocalPaint/internal/config"
	"LocalPaint/internal/logx"
	"LocalPaint/internal/raster"
	"LocalPaint/internal/share"
	"LocalPaint/internal/state"
	"LocalPaint/internal/ui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "localpaint:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.FromArgs("localpaint", args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	logx.SetLogger(logger)
	gg.SetLogger(logger)

	surface := raster.New(cfg.Canvas.Width, cfg.Canvas.Height)
	board := state.NewBoard(surface, state.Options{
		Background:   cfg.BackgroundColor(),
		Color:        cfg.BrushColor(),
		LineWidth:    cfg.Brush.Width,
		HistoryLimit: cfg.History.Limit,
		Dispatch:     fyne.Do,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var shareLink string
	if cfg.Share.Enabled {
		stop, link := startShare(ctx, cfg.Share, board, surface)
		defer stop()
		shareLink = link
	}

	logger.Info("starting", "width", surface.Width(), "height", surface.Height(), "share", cfg.Share.Enabled)
	ui.RunApp(board, surface, cfg, shareLink)
	return nil
}

// startShare serves the live view and publishes a frame whenever the canvas
// changes. The returned func stops the mDNS announcement.
func startShare(ctx context.Context, cfg config.Share, board *state.Board, surface *raster.Surface) (func(), string) {
	log := logx.Logger()
	hub := share.NewHub()
	server := share.NewServer(cfg.Port, hub)

	go func() {
		if err := server.ListenAndServe(ctx); err != nil {
			log.Error("share: server stopped", "err", err)
		}
	}()

	share.Mirror(hub, board, surface.Width(), surface.Height())

	link := fmt.Sprintf("http://%s:%d/", share.OutgoingIP(), cfg.Port)
	log.Info("share: live view", "link", link, "session", hub.Session())

	stop := func() {}
	if cfg.Advertise {
		mdnsServer, err := share.Advertise(cfg.Port, hub.Session())
		if err != nil {
			log.Warn("share: mdns advertise failed", "err", err)
		} else {
			stop = func() {
				if err := mdnsServer.Shutdown(); err != nil {
					log.Warn("share: mdns shutdown", "err", err)
				}
			}
		}
	}
	return stop, link
}
