package thumb

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/BootlifeXu/youtube-server/internal/platform/cache"
	"github.com/BootlifeXu/youtube-server/internal/web"
)

const (
	thumbURLTemplate = "https://i.ytimg.com/vi/%s/hqdefault.jpg"
	maxThumbSize     = 1 << 20 // 1MB
	thumbCacheTTL    = 10 * time.Minute
)

type cachedThumb struct {
	Data        []byte
	ContentType string
}

// Handler proxies video thumbnails through the backend so the browser client
// never talks to the image CDN directly. Responses are memory-cached.
func Handler(httpClient *http.Client) http.HandlerFunc {
	thumbCache := cache.New[cachedThumb]()

	return func(w http.ResponseWriter, r *http.Request) {
		videoID := r.PathValue("videoID")
		if videoID == "" {
			web.RespondError(w, fmt.Errorf("missing video id: %w", web.ErrBadRequest))
			return
		}

		if entry, ok := thumbCache.Get(videoID); ok {
			writeThumb(w, entry)
			return
		}

		target := fmt.Sprintf(thumbURLTemplate, videoID)
		req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target, nil)
		if err != nil {
			web.RespondError(w, err)
			return
		}

		resp, err := httpClient.Do(req)
		if err != nil {
			web.RespondError(w, fmt.Errorf("thumbnail fetch: %v: %w", err, web.ErrUpstream))
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			web.RespondError(w, fmt.Errorf("thumbnail for %s: %w", videoID, web.ErrNotFound))
			return
		}
		if resp.StatusCode != http.StatusOK {
			web.RespondError(w, fmt.Errorf("thumbnail upstream status %s: %w", resp.Status, web.ErrUpstream))
			return
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxThumbSize))
		if err != nil {
			web.RespondError(w, fmt.Errorf("thumbnail read: %v: %w", err, web.ErrUpstream))
			return
		}

		contentType := resp.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "image/jpeg"
		}

		entry := cachedThumb{Data: body, ContentType: contentType}
		thumbCache.Set(videoID, entry, thumbCacheTTL)
		writeThumb(w, entry)
	}
}

func writeThumb(w http.ResponseWriter, entry cachedThumb) {
	w.Header().Set("Content-Type", entry.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(entry.Data)
}
