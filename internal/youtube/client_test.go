package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/BootlifeXu/youtube-server/internal/web"
)

const searchFixture = `{
	"nextPageToken": "NEXT",
	"prevPageToken": "PREV",
	"items": [
		{"id": {"videoId": "vid1"}, "snippet": {
			"title": "First",
			"channelTitle": "Chan A",
			"publishedAt": "2024-01-01T00:00:00Z",
			"thumbnails": {"default": {"url": "d1"}, "medium": {"url": "m1"}}
		}},
		{"id": {"videoId": "vid2"}, "snippet": {
			"title": "Second",
			"channelTitle": "Chan B",
			"publishedAt": "2024-02-01T00:00:00Z",
			"thumbnails": {"default": {"url": "d2"}}
		}},
		{"id": {"videoId": "vid3"}, "snippet": {
			"title": "Third",
			"channelTitle": "Chan C",
			"publishedAt": "2024-03-01T00:00:00Z",
			"thumbnails": {"default": {"url": "d3"}, "medium": {"url": "m3"}}
		}}
	]
}`

func newTestClient(upstream *httptest.Server) *Client {
	c := New(5 * time.Second)
	c.searchURL = upstream.URL + "/search"
	c.suggestURL = upstream.URL + "/suggest"
	return c
}

func TestSearchNormalization(t *testing.T) {
	var gotQuery string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchFixture))
	}))
	defer upstream.Close()

	c := newTestClient(upstream)
	page, err := c.Search(context.Background(), "api-key", "lofi beats", "TOKEN")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(page.Videos) != 3 {
		t.Fatalf("videos = %d, want 3", len(page.Videos))
	}
	// Upstream ordering preserved.
	for i, id := range []string{"vid1", "vid2", "vid3"} {
		if page.Videos[i].ID != id {
			t.Errorf("videos[%d].ID = %q, want %q", i, page.Videos[i].ID, id)
		}
	}
	// Medium thumbnail preferred, default as fallback.
	if page.Videos[0].ThumbnailURL != "m1" {
		t.Errorf("videos[0].ThumbnailURL = %q, want m1", page.Videos[0].ThumbnailURL)
	}
	if page.Videos[1].ThumbnailURL != "d2" {
		t.Errorf("videos[1].ThumbnailURL = %q, want d2 (default fallback)", page.Videos[1].ThumbnailURL)
	}
	if page.NextCursor != "NEXT" || page.PrevCursor != "PREV" {
		t.Errorf("cursors = %q/%q", page.NextCursor, page.PrevCursor)
	}

	q, err := url.ParseQuery(gotQuery)
	if err != nil {
		t.Fatalf("parse upstream query: %v", err)
	}
	if q.Get("maxResults") != "10" {
		t.Errorf("maxResults = %q, want 10", q.Get("maxResults"))
	}
	if q.Get("pageToken") != "TOKEN" {
		t.Errorf("pageToken = %q, want TOKEN", q.Get("pageToken"))
	}
	if q.Get("key") != "api-key" {
		t.Errorf("key = %q", q.Get("key"))
	}
}

func TestSearchCaches(t *testing.T) {
	calls := 0
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		_, _ = w.Write([]byte(searchFixture))
	}))
	defer upstream.Close()

	c := newTestClient(upstream)
	for i := 0; i < 3; i++ {
		if _, err := c.Search(context.Background(), "k", "query", ""); err != nil {
			t.Fatalf("Search: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("upstream calls = %d, want 1", calls)
	}
}

func TestSearchUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"code": 403}}`, http.StatusForbidden)
	}))
	defer upstream.Close()

	c := newTestClient(upstream)
	_, err := c.Search(context.Background(), "k", "query", "")
	if !errors.Is(err, web.ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
}

func TestSearchMalformedPayload(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer upstream.Close()

	c := newTestClient(upstream)
	_, err := c.Search(context.Background(), "k", "query", "")
	if !errors.Is(err, web.ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}
}

func TestSuggest(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`["lofi", ["lofi beats", "lofi girl"]]`))
	}))
	defer upstream.Close()

	c := newTestClient(upstream)
	got, err := c.Suggest(context.Background(), "lofi")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(got) != 2 || got[0] != "lofi beats" || got[1] != "lofi girl" {
		t.Fatalf("suggestions = %v", got)
	}
}

func TestSuggestEmptyQuery(t *testing.T) {
	c := New(time.Second)
	got, err := c.Suggest(context.Background(), "   ")
	if err != nil || got != nil {
		t.Fatalf("Suggest empty = %v, %v; want nil, nil", got, err)
	}
}
