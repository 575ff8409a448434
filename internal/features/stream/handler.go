package stream

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/BootlifeXu/youtube-server/internal/resolver"
	"github.com/BootlifeXu/youtube-server/internal/web"
)

// Resolver is the slice of the media resolver this handler uses.
type Resolver interface {
	Resolve(ctx context.Context, videoID string) (resolver.AudioResolution, error)
}

var passthroughHeaders = []string{
	"Content-Type",
	"Content-Length",
	"Content-Range",
	"Accept-Ranges",
	"Cache-Control",
	"ETag",
	"Last-Modified",
	"Expires",
}

// Handler proxies the best audio-only rendition as a raw byte stream, with
// range support for seeking. The request context rides along to the upstream
// fetch, so a client disconnect cancels it.
func Handler(res Resolver, httpClient *http.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			web.RespondError(w, fmt.Errorf("unsupported method: %w", web.ErrBadRequest))
			return
		}

		videoID := r.PathValue("videoID")
		if videoID == "" {
			web.RespondError(w, fmt.Errorf("missing video id: %w", web.ErrBadRequest))
			return
		}

		resolution, err := res.Resolve(r.Context(), videoID)
		if err != nil {
			web.RespondError(w, err)
			return
		}

		req, err := http.NewRequestWithContext(r.Context(), r.Method, resolution.PlayableURL, nil)
		if err != nil {
			web.RespondError(w, err)
			return
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")
		req.Header.Set("Referer", "https://www.youtube.com/")
		if rng := r.Header.Get("Range"); rng != "" {
			req.Header.Set("Range", rng)
		}
		if ifRange := r.Header.Get("If-Range"); ifRange != "" {
			req.Header.Set("If-Range", ifRange)
		}

		resp, err := httpClient.Do(req)
		if err != nil {
			web.RespondError(w, fmt.Errorf("audio fetch: %v: %w", err, web.ErrUpstream))
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
			web.RespondError(w, fmt.Errorf("audio upstream status %s: %w", resp.Status, web.ErrUpstream))
			return
		}

		// Copy selected headers from the upstream response.
		for _, key := range passthroughHeaders {
			if values, ok := resp.Header[key]; ok {
				w.Header()[key] = values
			}
		}
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", resolution.MimeType)
		}
		// Ensure downstream clients know seeking is available.
		if w.Header().Get("Accept-Ranges") == "" {
			w.Header().Set("Accept-Ranges", "bytes")
		}

		w.WriteHeader(resp.StatusCode)

		if r.Method == http.MethodHead {
			return
		}
		// Once headers are out, a mid-transfer failure can only terminate the
		// connection; there is no error body left to send.
		_, _ = io.Copy(w, resp.Body)
	}
}
