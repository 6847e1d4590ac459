package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/example/jetsetgo/internal/amadeus"
	"github.com/example/jetsetgo/internal/booking"
)

// envelope is the response shape every endpoint uses: success plus either
// the payload fields or an error string.
type envelope map[string]any

func respondJSON(w http.ResponseWriter, status int, payload envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func respondData(w http.ResponseWriter, status int, payload envelope) {
	out := envelope{"success": true}
	for k, v := range payload {
		out[k] = v
	}
	respondJSON(w, status, out)
}

func respondError(w http.ResponseWriter, status int, msg string, extra ...envelope) {
	out := envelope{"success": false, "error": msg}
	for _, e := range extra {
		for k, v := range e {
			out[k] = v
		}
	}
	respondJSON(w, status, out)
}

// respondUpstreamError maps the client error taxonomy onto HTTP statuses.
// Provider detail is passed through; raw credentials never appear in any
// branch because the error types never carry them.
func respondUpstreamError(w http.ResponseWriter, err error) {
	var authErr *amadeus.AuthError
	var apiErr *amadeus.APIError

	switch {
	case errors.Is(err, amadeus.ErrCredentialsMissing):
		respondError(w, http.StatusInternalServerError,
			"API credentials not configured. Please contact support.")
	case errors.As(err, &authErr):
		respondError(w, http.StatusInternalServerError, authErr.Detail,
			envelope{"code": authErr.Status})
	case errors.As(err, &apiErr):
		respondError(w, http.StatusInternalServerError, apiErr.Detail,
			envelope{"code": apiErr.Status})
	case errors.Is(err, booking.ErrNotFound):
		respondError(w, http.StatusNotFound, "order not found")
	default:
		log.Printf("upstream error: %v", err)
		respondError(w, http.StatusInternalServerError,
			"upstream service unavailable",
			envelope{"code": http.StatusInternalServerError})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, envelope{
		"status":    "healthy",
		"uptime":    time.Since(s.started).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"apiKeys": envelope{
			"amadeus": s.Amadeus.Configured(),
			"resend":  s.Mailer != nil && s.Mailer.Configured(),
		},
	})
}
