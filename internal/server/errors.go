package server

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jacentio/lattice/store"
)

const kindBadRequest = "bad_request"

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// statusFor maps a store error kind to an HTTP status.
func statusFor(kind store.Kind) int {
	switch kind {
	case store.KindConflict:
		return http.StatusConflict
	case store.KindValidation:
		return http.StatusUnprocessableEntity
	case store.KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// writeError writes err as JSON with a status derived from its kind.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if kind, ok := store.KindOf(err); ok {
		s.writeJSON(w, statusFor(kind), errorResponse{Error: err.Error(), Kind: kind.String()})
		return
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) || errors.Is(err, errBadRequest) {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: kindBadRequest})
		return
	}

	s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}
