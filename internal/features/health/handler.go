package health

import (
	"net/http"

	"github.com/BootlifeXu/youtube-server/internal/web"
)

type status struct {
	Status string `json:"status"`
}

// Handler reports liveness.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		web.Respond(w, http.StatusOK, status{Status: "ok"})
	}
}
