package search

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/BootlifeXu/youtube-server/internal/gate"
	"github.com/BootlifeXu/youtube-server/internal/web"
	"github.com/BootlifeXu/youtube-server/internal/youtube"
)

// Searcher is the slice of the upstream client this handler uses.
type Searcher interface {
	Search(ctx context.Context, apiKey, query, pageCursor string) (youtube.SearchPage, error)
}

type request struct {
	Query       string `json:"query"`
	PageCursor  string `json:"pageCursor"`
	AccessToken string `json:"accessToken"`
}

// Handler proxies search requests to the Data API behind the access gate.
func Handler(g *gate.Gate, client Searcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := web.DecodeJSON(r, &req); err != nil {
			web.RespondError(w, err)
			return
		}
		if strings.TrimSpace(req.Query) == "" {
			web.RespondError(w, fmt.Errorf("query is required: %w", web.ErrBadRequest))
			return
		}

		apiKey, err := g.Authorize(req.AccessToken)
		if err != nil {
			web.RespondError(w, err)
			return
		}

		page, err := client.Search(r.Context(), apiKey, req.Query, req.PageCursor)
		if err != nil {
			web.RespondError(w, err)
			return
		}
		web.Respond(w, http.StatusOK, page)
	}
}
