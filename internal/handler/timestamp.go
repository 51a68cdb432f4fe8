package handler

import (
	"errors"
	"net/http"

	"github.com/starter-api/backend/internal/validate"
)

type timestampResponse struct {
	Kind     validate.Kind      `json:"kind"`
	TimeZone string             `json:"timezone"`
	Value    validate.Timestamp `json:"value"`
}

// GetTime handles GET /api/time?kind=&tz=.
// kind is datetime (default), date or time; tz is an IANA zone name and
// defaults to TIME_ZONE.
func (s *Server) GetTime(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	kind := validate.KindDateTime
	if raw := q.Get("kind"); raw != "" {
		k, err := validate.ParseKind(raw)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, errorBody{Detail: err.Error()})
			return
		}
		kind = k
	}

	tz := q.Get("tz")
	if tz == "" {
		tz = s.timeZone
	}

	ts, err := validate.CurrentTimestampAt(s.now(), kind, tz)
	if err != nil {
		if errors.Is(err, validate.ErrUnknownTimezone) || errors.Is(err, validate.ErrUnsupportedKind) {
			s.writeJSON(w, http.StatusBadRequest, errorBody{Detail: err.Error()})
			return
		}
		s.writeError(w, r, err, "")
		return
	}
	s.writeJSON(w, http.StatusOK, timestampResponse{Kind: kind, TimeZone: tz, Value: ts})
}
