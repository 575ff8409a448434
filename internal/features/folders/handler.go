package folders

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/BootlifeXu/youtube-server/internal/store"
	"github.com/BootlifeXu/youtube-server/internal/web"
)

type request struct {
	Name string `json:"name"`
}

// ListHandler returns every folder.
func ListHandler(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		folders, err := s.ListFolders(r.Context())
		if err != nil {
			web.RespondError(w, err)
			return
		}
		web.Respond(w, http.StatusOK, folders)
	}
}

// CreateHandler creates a folder from {"name": ...}.
func CreateHandler(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := decodeName(r)
		if err != nil {
			web.RespondError(w, err)
			return
		}
		folder, err := s.CreateFolder(r.Context(), name)
		if err != nil {
			web.RespondError(w, err)
			return
		}
		web.Respond(w, http.StatusCreated, folder)
	}
}

// RenameHandler renames the folder addressed by the path.
func RenameHandler(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := decodeName(r)
		if err != nil {
			web.RespondError(w, err)
			return
		}
		folder, err := s.RenameFolder(r.Context(), r.PathValue("id"), name)
		if err != nil {
			web.RespondError(w, err)
			return
		}
		web.Respond(w, http.StatusOK, folder)
	}
}

// DeleteHandler deletes a folder, detaching its favorites.
func DeleteHandler(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.DeleteFolder(r.Context(), r.PathValue("id")); err != nil {
			web.RespondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func decodeName(r *http.Request) (string, error) {
	var req request
	if err := web.DecodeJSON(r, &req); err != nil {
		return "", err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", fmt.Errorf("folder name is required: %w", web.ErrBadRequest)
	}
	return name, nil
}
