package favorites

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/BootlifeXu/youtube-server/internal/store"
	"github.com/BootlifeXu/youtube-server/internal/web"
)

type saveRequest struct {
	VideoID      string  `json:"videoId"`
	Title        string  `json:"title"`
	Channel      string  `json:"channel"`
	ThumbnailURL string  `json:"thumbnailUrl"`
	FolderID     *string `json:"folderId"`
}

type moveRequest struct {
	FolderID *string `json:"folderId"`
}

// ListHandler returns every favorite.
func ListHandler(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		favorites, err := s.ListFavorites(r.Context())
		if err != nil {
			web.RespondError(w, err)
			return
		}
		web.Respond(w, http.StatusOK, favorites)
	}
}

// SaveHandler upserts a favorite: re-adding the same video refreshes its
// metadata and folder assignment.
func SaveHandler(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req saveRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.RespondError(w, err)
			return
		}
		if strings.TrimSpace(req.VideoID) == "" {
			web.RespondError(w, fmt.Errorf("videoId is required: %w", web.ErrBadRequest))
			return
		}

		fav, err := s.SaveFavorite(r.Context(), store.Favorite{
			VideoID:      req.VideoID,
			Title:        req.Title,
			Channel:      req.Channel,
			ThumbnailURL: req.ThumbnailURL,
			FolderID:     req.FolderID,
		})
		if err != nil {
			web.RespondError(w, err)
			return
		}
		web.Respond(w, http.StatusCreated, fav)
	}
}

// DeleteHandler removes a favorite by video ID.
func DeleteHandler(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.DeleteFavorite(r.Context(), r.PathValue("videoID")); err != nil {
			web.RespondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// MoveHandler reassigns a favorite to a folder, or to none when folderId is
// null. A dedicated operation keeps the intent explicit at the boundary.
func MoveHandler(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req moveRequest
		if err := web.DecodeJSON(r, &req); err != nil {
			web.RespondError(w, err)
			return
		}
		if err := s.MoveFavorite(r.Context(), r.PathValue("videoID"), req.FolderID); err != nil {
			web.RespondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
