package web

import (
	"errors"
	"log"
	"net/http"

	"github.com/example/jetsetgo/internal/mailer"
)

// handleSendEmail sends a booking confirmation. Delivery failures degrade to
// a successful response with a note so the booking flow never blocks on the
// mail provider.
func (s *Server) handleSendEmail(w http.ResponseWriter, r *http.Request) {
	var req mailer.ConfirmationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Name == "" {
		respondError(w, http.StatusBadRequest,
			"Missing required fields: name and email are required")
		return
	}

	if s.Mailer == nil || !s.Mailer.Configured() {
		respondError(w, http.StatusInternalServerError, "Missing email API key")
		return
	}

	msg := mailer.BuildConfirmation(req)
	id, err := s.Mailer.Send(r.Context(), msg)
	if err != nil {
		var sendErr *mailer.SendError
		if errors.As(err, &sendErr) && sendErr.DomainNotVerified() {
			respondData(w, http.StatusOK, envelope{
				"note": "Booking confirmed. Email delivery is pending domain verification.",
			})
			return
		}
		log.Printf("send confirmation email: %v", err)
		respondData(w, http.StatusOK, envelope{
			"note": "Booking confirmed. Confirmation email could not be sent.",
		})
		return
	}
	respondData(w, http.StatusOK, envelope{"id": id})
}
