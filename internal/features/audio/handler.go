package audio

import (
	"context"
	"fmt"
	"net/http"

	"github.com/BootlifeXu/youtube-server/internal/gate"
	"github.com/BootlifeXu/youtube-server/internal/resolver"
	"github.com/BootlifeXu/youtube-server/internal/web"
)

// Resolver is the slice of the media resolver this handler uses.
type Resolver interface {
	Resolve(ctx context.Context, videoID string) (resolver.AudioResolution, error)
}

type request struct {
	AccessToken string `json:"accessToken"`
}

// Handler resolves a video ID to its best audio-only URL, behind the access
// gate.
func Handler(g *gate.Gate, res Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID := r.PathValue("videoID")
		if videoID == "" {
			web.RespondError(w, fmt.Errorf("missing video id: %w", web.ErrBadRequest))
			return
		}

		var req request
		if err := web.DecodeJSON(r, &req); err != nil {
			web.RespondError(w, err)
			return
		}
		if _, err := g.Authorize(req.AccessToken); err != nil {
			web.RespondError(w, err)
			return
		}

		resolution, err := res.Resolve(r.Context(), videoID)
		if err != nil {
			web.RespondError(w, err)
			return
		}
		web.Respond(w, http.StatusOK, resolution)
	}
}
