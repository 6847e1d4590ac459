package mailer

import (
	"fmt"
	"regexp"
	"strings"
)

// ConfirmationRequest is a callback/booking confirmation request from the
// frontend. Details vary by Type; unknown keys are ignored.
type ConfirmationRequest struct {
	Name    string            `json:"name"`
	Email   string            `json:"email"`
	Phone   string            `json:"phone"`
	Type    string            `json:"type"`
	Details map[string]string `json:"details"`
}

// BuildConfirmation renders the confirmation email for a request.
func BuildConfirmation(req ConfirmationRequest) Message {
	typ := req.Type
	if typ == "" {
		typ = "callback"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div style="font-family: Arial, sans-serif; padding: 20px; max-width: 600px; margin: 0 auto;">`)
	fmt.Fprintf(&b, `<div style="background-color: #0066b2; padding: 20px; text-align: center; color: white;"><h1>%s Request Confirmation</h1></div>`, strings.ToUpper(typ))
	fmt.Fprintf(&b, `<div style="padding: 20px; background-color: #f9f9f9;">`)
	fmt.Fprintf(&b, `<p>Dear %s,</p><p>Thank you for your %s request. We have received your information and will contact you shortly.</p>`, req.Name, typ)
	fmt.Fprintf(&b, `<div style="background-color: white; padding: 15px; margin: 15px 0; border-radius: 5px;"><h3>Your Request Details:</h3>`)
	fmt.Fprintf(&b, `<p><strong>Name:</strong> %s</p><p><strong>Phone:</strong> %s</p><p><strong>Email:</strong> %s</p>`, req.Name, req.Phone, req.Email)

	switch typ {
	case "package":
		writeDetail(&b, "Package Information", req.Details, [][2]string{
			{"packageName", "Package Name"},
			{"travelDate", "Travel Date"},
			{"guests", "Number of Guests"},
			{"budget", "Budget"},
			{"request", "Special Requests"},
		})
	case "rental":
		writeDetail(&b, "Hotel Booking Information", req.Details, [][2]string{
			{"hotelName", "Hotel Name"},
			{"checkIn", "Check-in Date"},
			{"checkOut", "Check-out Date"},
			{"guests", "Number of Guests"},
			{"roomType", "Room Type"},
			{"totalPrice", "Total Price"},
		})
	case "cruise":
		writeDetail(&b, "Cruise Information", req.Details, [][2]string{
			{"preferredTime", "Preferred Time"},
			{"message", "Message"},
		})
	}

	b.WriteString(`</div><p>Best regards,<br>The JetSetGo Team</p></div>`)
	b.WriteString(`<div style="padding: 20px; text-align: center; font-size: 12px; color: #666;"><p>This is an automated message, please do not reply to this email.</p></div></div>`)

	html := b.String()
	return Message{
		To:      []string{req.Email},
		Subject: fmt.Sprintf("JetSetGo %s Request Confirmation", strings.ToUpper(typ)),
		HTML:    html,
		Text:    stripTags(html),
	}
}

func writeDetail(b *strings.Builder, title string, details map[string]string, fields [][2]string) {
	fmt.Fprintf(b, "<h3>%s:</h3>", title)
	for _, f := range fields {
		v := details[f[0]]
		if v == "" {
			v = "Not specified"
		}
		fmt.Fprintf(b, "<p><strong>%s:</strong> %s</p>", f[1], v)
	}
}

var (
	tagRe   = regexp.MustCompile(`<[^>]*>`)
	spaceRe = regexp.MustCompile(`\s+`)
)

func stripTags(html string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(tagRe.ReplaceAllString(html, " "), " "))
}
