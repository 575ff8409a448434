// Package youtube wraps the YouTube Data API v3 calls the gateway relies on.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/BootlifeXu/youtube-server/internal/platform/cache"
	"github.com/BootlifeXu/youtube-server/internal/web"
)

const (
	defaultSearchURL  = "https://www.googleapis.com/youtube/v3/search"
	defaultSuggestURL = "https://suggestqueries.google.com/complete/search"

	// Page size is a design constant, not client-controlled.
	maxResults = 10

	searchCacheTTL = 5 * time.Minute
)

// Client calls the Data API. The upstream credential is passed per call; it
// comes out of the access gate, never out of client state.
type Client struct {
	httpClient  *http.Client
	searchURL   string
	suggestURL  string
	searchCache *cache.Cache[SearchPage]
}

// New creates a client with the given per-call timeout.
func New(timeout time.Duration) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		searchURL:   defaultSearchURL,
		suggestURL:  defaultSuggestURL,
		searchCache: cache.New[SearchPage](),
	}
}

// HTTPClient exposes the underlying HTTP client for ancillary fetches.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Search runs search.list for query and returns a normalized page. pageCursor
// is an opaque upstream page token; empty means the first page.
func (c *Client) Search(ctx context.Context, apiKey, query, pageCursor string) (SearchPage, error) {
	cacheKey := strings.ToLower(strings.TrimSpace(query)) + "\x00" + pageCursor
	if page, ok := c.searchCache.Get(cacheKey); ok {
		return page, nil
	}

	u, err := url.Parse(c.searchURL)
	if err != nil {
		return SearchPage{}, err
	}
	q := u.Query()
	q.Set("part", "snippet")
	q.Set("type", "video")
	q.Set("maxResults", fmt.Sprint(maxResults))
	q.Set("q", query)
	q.Set("key", apiKey)
	if pageCursor != "" {
		q.Set("pageToken", pageCursor)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return SearchPage{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SearchPage{}, fmt.Errorf("search request: %v: %w", err, web.ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return SearchPage{}, fmt.Errorf("search upstream status %s (%s): %w", resp.Status, strings.TrimSpace(string(bodyBytes)), web.ErrUpstream)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return SearchPage{}, fmt.Errorf("search payload malformed: %w", web.ErrUpstream)
	}

	page := normalize(decoded)
	c.searchCache.Set(cacheKey, page, searchCacheTTL)
	return page, nil
}

// normalize projects the upstream payload onto the summary shape, preserving
// upstream ordering. Thumbnails prefer the medium rendition, falling back to
// default.
func normalize(resp searchResponse) SearchPage {
	page := SearchPage{
		Videos:     make([]VideoSummary, 0, len(resp.Items)),
		NextCursor: resp.NextPageToken,
		PrevCursor: resp.PrevPageToken,
	}
	for _, item := range resp.Items {
		thumb := item.Snippet.Thumbnails.Medium.URL
		if thumb == "" {
			thumb = item.Snippet.Thumbnails.Default.URL
		}
		page.Videos = append(page.Videos, VideoSummary{
			ID:           item.ID.VideoID,
			Title:        item.Snippet.Title,
			ChannelName:  item.Snippet.ChannelTitle,
			ThumbnailURL: thumb,
			PublishedAt:  item.Snippet.PublishedAt,
		})
	}
	return page
}

// Suggest returns autocomplete suggestions for query. The endpoint is keyless,
// so it sits outside the access gate.
func (c *Client) Suggest(ctx context.Context, query string) ([]string, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	endpoint := fmt.Sprintf("%s?client=firefox&ds=yt&q=%s", c.suggestURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("suggest request: %v: %w", err, web.ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("suggest upstream status %s: %w", resp.Status, web.ErrUpstream)
	}

	// Payload shape: ["query", ["s1", "s2", ...], ...]
	var payload []any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("suggest payload malformed: %w", web.ErrUpstream)
	}
	if len(payload) < 2 {
		return nil, nil
	}
	rawSuggestions, _ := payload[1].([]any)
	suggestions := make([]string, 0, len(rawSuggestions))
	for _, entry := range rawSuggestions {
		suggestions = append(suggestions, fmt.Sprint(entry))
	}
	return suggestions, nil
}
