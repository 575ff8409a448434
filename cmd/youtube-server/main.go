package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BootlifeXu/youtube-server/internal/app"
	"github.com/BootlifeXu/youtube-server/internal/config"
	"github.com/BootlifeXu/youtube-server/internal/gate"
	"github.com/BootlifeXu/youtube-server/internal/resolver"
	"github.com/BootlifeXu/youtube-server/internal/store"
	"github.com/BootlifeXu/youtube-server/internal/youtube"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config", slog.Any("error", err))
		os.Exit(1)
	}

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		logger.Error("store", slog.Any("error", err))
		os.Exit(1)
	}
	defer st.Close()

	g := gate.New(cfg.AccessToken, cfg.YouTubeAPIKey)
	yt := youtube.New(cfg.UpstreamTimeout)
	res := resolver.New()

	server := app.New(g, yt, res, st, logger)

	srv := &http.Server{
		Addr:        cfg.Addr,
		Handler:     server.Handler(),
		ReadTimeout: 10 * time.Second,
		// Streaming responses run as long as the client keeps reading.
		WriteTimeout: 0,
	}

	go func() {
		logger.Info("youtube-server listening",
			slog.String("addr", cfg.Addr),
			slog.String("db", cfg.DatabasePath),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("shutdown", slog.Any("error", err))
	}
}
