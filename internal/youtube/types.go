package youtube

// VideoSummary is one normalized search result card. It is the projection the
// frontend sees; nothing else from the upstream payload survives.
type VideoSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ChannelName  string `json:"channelName"`
	ThumbnailURL string `json:"thumbnailUrl"`
	PublishedAt  string `json:"publishedAt"`
}

// SearchPage is one page of results. Cursors are upstream page tokens passed
// through verbatim; ordering is upstream ordering.
type SearchPage struct {
	Videos     []VideoSummary `json:"videos"`
	NextCursor string         `json:"nextCursor,omitempty"`
	PrevCursor string         `json:"prevCursor,omitempty"`
}

// searchResponse mirrors the slice of the Data API v3 search.list payload we
// actually read.
type searchResponse struct {
	NextPageToken string `json:"nextPageToken"`
	PrevPageToken string `json:"prevPageToken"`
	Items         []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
			Thumbnails   struct {
				Default struct {
					URL string `json:"url"`
				} `json:"default"`
				Medium struct {
					URL string `json:"url"`
				} `json:"medium"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}
