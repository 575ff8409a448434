package web

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Sentinel errors for the gateway's error taxonomy. Handlers and the
// underlying layers wrap these; RespondError maps them to status codes at the
// request boundary.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUpstream     = errors.New("upstream error")
)

type errorBody struct {
	Error string `json:"error"`
}

// Respond writes v as JSON with the given status.
func Respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RespondError translates err into a JSON error body with the status implied
// by the taxonomy. Unknown errors become 500.
func RespondError(w http.ResponseWriter, err error) {
	Respond(w, StatusFor(err), errorBody{Error: err.Error()})
}

// StatusFor returns the HTTP status for an error per the taxonomy.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// DecodeJSON reads the request body into dst, returning ErrBadRequest on
// malformed input.
func DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return ErrBadRequest
	}
	return nil
}
