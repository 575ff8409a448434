package suggest

import (
	"context"
	"net/http"

	"github.com/BootlifeXu/youtube-server/internal/web"
)

// Suggester is the slice of the upstream client this handler uses.
type Suggester interface {
	Suggest(ctx context.Context, query string) ([]string, error)
}

type response struct {
	Suggestions []string `json:"suggestions"`
}

// Handler returns JSON autocomplete suggestions. The upstream endpoint is
// keyless, so this route sits outside the access gate.
func Handler(client Suggester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results, err := client.Suggest(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			web.RespondError(w, err)
			return
		}
		if results == nil {
			results = []string{}
		}
		web.Respond(w, http.StatusOK, response{Suggestions: results})
	}
}
