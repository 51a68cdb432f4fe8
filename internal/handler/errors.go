package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/starter-api/backend/internal/domain"
	"github.com/starter-api/backend/internal/validate"
)

// errorBody is the {"detail": "..."} shape of every non-validation error.
type errorBody struct {
	Detail string `json:"detail"`
}

// writeJSON renders v with status. Bodies are indented when the server
// renders for humans.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	if s.pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		s.log.Error("write response", "error", err)
	}
}

// writeError maps err to a status and body:
//
//   - *validate.Errors: 400 when any input was malformed, 404 when only
//     references were missing, with the descriptors as the body
//   - domain.ErrNotFound: 404
//   - domain.ErrConflict: 409
//   - anything else: 500, logged
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var errs *validate.Errors
	switch {
	case errors.As(err, &errs):
		s.writeJSON(w, errs.Status(), errs)
	case errors.Is(err, domain.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, errorBody{Detail: notFound})
	case errors.Is(err, domain.ErrConflict):
		s.writeJSON(w, http.StatusConflict, errorBody{Detail: "A resource with these values already exists."})
	default:
		s.log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorBody{Detail: "A server error occurred."})
	}
}

// requestError writes a 400 for input rejected before reaching the
// service layer, or 413 when the body exceeded the size limit.
func (s *Server) requestError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Detail: "Request body too large."})
		return
	}
	s.writeJSON(w, http.StatusBadRequest, errorBody{Detail: err.Error()})
}
