package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/BootlifeXu/youtube-server/internal/features/audio"
	"github.com/BootlifeXu/youtube-server/internal/features/favorites"
	"github.com/BootlifeXu/youtube-server/internal/features/folders"
	"github.com/BootlifeXu/youtube-server/internal/features/health"
	"github.com/BootlifeXu/youtube-server/internal/features/search"
	"github.com/BootlifeXu/youtube-server/internal/features/stream"
	"github.com/BootlifeXu/youtube-server/internal/features/suggest"
	"github.com/BootlifeXu/youtube-server/internal/features/thumb"
	"github.com/BootlifeXu/youtube-server/internal/gate"
	"github.com/BootlifeXu/youtube-server/internal/platform/metrics"
	"github.com/BootlifeXu/youtube-server/internal/resolver"
	"github.com/BootlifeXu/youtube-server/internal/store"
	"github.com/BootlifeXu/youtube-server/internal/youtube"
)

// App wires dependencies and exposes the HTTP handler tree.
type App struct {
	handler http.Handler
	metrics *metrics.Registry
}

// New constructs a fully wired application.
func New(g *gate.Gate, yt *youtube.Client, res *resolver.Resolver, st *store.Store, logger *slog.Logger) *App {
	registry := metrics.New()
	mux := http.NewServeMux()

	mux.Handle("GET /health", registry.Wrap("health", health.Handler()))
	mux.Handle("GET /metrics", registry.Handler())

	mux.Handle("POST /api/v1/search", registry.Wrap("search", search.Handler(g, yt)))
	mux.Handle("GET /api/v1/suggest", registry.Wrap("suggest", suggest.Handler(yt)))
	mux.Handle("POST /api/v1/audio/{videoID}", registry.Wrap("audio", audio.Handler(g, res)))
	mux.Handle("GET /api/v1/thumb/{videoID}", registry.Wrap("thumb", thumb.Handler(yt.HTTPClient())))

	// Streaming bypasses the per-call upstream timeout: the proxy holds the
	// connection for as long as the client consumes.
	mux.Handle("/stream/{videoID}", registry.Wrap("stream", stream.Handler(res, &http.Client{})))

	mux.Handle("GET /api/v1/folders", registry.Wrap("folders_list", folders.ListHandler(st)))
	mux.Handle("POST /api/v1/folders", registry.Wrap("folders_create", folders.CreateHandler(st)))
	mux.Handle("PUT /api/v1/folders/{id}", registry.Wrap("folders_rename", folders.RenameHandler(st)))
	mux.Handle("DELETE /api/v1/folders/{id}", registry.Wrap("folders_delete", folders.DeleteHandler(st)))

	mux.Handle("GET /api/v1/favorites", registry.Wrap("favorites_list", favorites.ListHandler(st)))
	mux.Handle("POST /api/v1/favorites", registry.Wrap("favorites_save", favorites.SaveHandler(st)))
	mux.Handle("DELETE /api/v1/favorites/{videoID}", registry.Wrap("favorites_delete", favorites.DeleteHandler(st)))
	mux.Handle("PUT /api/v1/favorites/{videoID}/move", registry.Wrap("favorites_move", favorites.MoveHandler(st)))

	handler := logRequests(logger, mux)
	handler = cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "Range", "If-Range"},
	}).Handler(handler)

	return &App{handler: handler, metrics: registry}
}

// Handler returns the root http.Handler.
func (a *App) Handler() http.Handler {
	return a.handler
}

func logRequests(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("elapsed", time.Since(start)),
		)
	})
}
