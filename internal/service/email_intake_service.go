package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cast"

	"github.com/MicahMunyard/easyworkshophub-sub002/internal/core"
)

// EmailIntakeService converts inbound customer emails into pending diary
// bookings. The email provider integration lives outside this repo; what
// arrives here is the provider's JSON payload, loosely typed.
type EmailIntakeService struct {
	bookings core.BookingService
}

func NewEmailIntakeService(bookings core.BookingService) *EmailIntakeService {
	return &EmailIntakeService{bookings: bookings}
}

// InboundEmail is the normalized shape of an intake payload.
type InboundEmail struct {
	From    string
	Subject string
	Body    string
}

var (
	fromNameRe = regexp.MustCompile(`^\s*"?([^"<]+?)"?\s*<[^>]+>`)
	emailRe    = regexp.MustCompile(`<?([A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,})>?`)
	phoneRe    = regexp.MustCompile(`(\+?\d[\d\s\-().]{7,}\d)`)
	regoRe     = regexp.MustCompile(`\b(?:rego|registration|plate)[:\s]+([A-Za-z0-9\- ]{3,10})\b`)
	vehicleRe  = regexp.MustCompile(`(?i)\b((?:19|20)\d{2}\s+[A-Z][A-Za-z]+\s+[A-Za-z0-9\-]+)`)
	dateRe     = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})(?:[T ](\d{2}:\d{2}))?\b`)
	replyRe    = regexp.MustCompile(`(?i)^(re|fwd?)\s*:\s*`)
)

// ParsePayload maps the provider's loose JSON into an InboundEmail.
func ParsePayload(payload map[string]interface{}) InboundEmail {
	return InboundEmail{
		From:    cast.ToString(payload["from"]),
		Subject: cast.ToString(payload["subject"]),
		Body:    cast.ToString(payload["body"]),
	}
}

// ConvertToBooking applies the parsing heuristics and creates a pending
// booking under the workshop account. The raw email body is preserved in
// the booking notes so nothing extracted lossily is lost.
func (s *EmailIntakeService) ConvertToBooking(email InboundEmail, userID string) (*core.Booking, error) {
	if strings.TrimSpace(email.From) == "" {
		return nil, fmt.Errorf("inbound email has no sender")
	}

	req := &core.BookingRequest{
		CustomerName:  extractCustomerName(email.From),
		CustomerEmail: extractEmailAddress(email.From),
		CustomerPhone: extractPhone(email.Body),
		Vehicle:       extractVehicle(email.Body),
		ServiceName:   extractServiceName(email.Subject),
		BookingTime:   extractRequestedTime(email.Body),
		Notes:         strings.TrimSpace(email.Body),
		UserID:        userID,
	}

	return s.bookings.CreateBooking(req)
}

// extractCustomerName prefers the display name of a "Name <addr>" sender,
// falling back to the mailbox part of the address.
func extractCustomerName(from string) string {
	if m := fromNameRe.FindStringSubmatch(from); m != nil {
		return strings.TrimSpace(m[1])
	}
	addr := extractEmailAddress(from)
	if at := strings.Index(addr, "@"); at > 0 {
		return addr[:at]
	}
	return strings.TrimSpace(from)
}

func extractEmailAddress(from string) string {
	if m := emailRe.FindStringSubmatch(from); m != nil {
		return m[1]
	}
	return ""
}

func extractPhone(body string) string {
	for _, m := range phoneRe.FindAllStringSubmatch(body, -1) {
		candidate := strings.TrimSpace(m[1])
		// Requested dates also look like digit runs, skip them
		if dateRe.MatchString(candidate) {
			continue
		}
		// A match of mostly separators is noise, require 8+ digits
		digits := 0
		for _, r := range candidate {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits >= 8 {
			return candidate
		}
	}
	return ""
}

// extractVehicle looks for an explicit rego mention first, then a
// "year make model" phrase.
func extractVehicle(body string) string {
	if m := regoRe.FindStringSubmatch(body); m != nil {
		return "Rego " + strings.ToUpper(strings.TrimSpace(m[1]))
	}
	if m := vehicleRe.FindStringSubmatch(body); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// extractServiceName strips reply/forward prefixes off the subject.
func extractServiceName(subject string) string {
	s := strings.TrimSpace(subject)
	for replyRe.MatchString(s) {
		s = replyRe.ReplaceAllString(s, "")
	}
	if s == "" {
		return "General enquiry"
	}
	return s
}

// extractRequestedTime picks the first ISO-looking date (with optional
// HH:MM) out of the body.
func extractRequestedTime(body string) string {
	m := dateRe.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	if m[2] != "" {
		return m[1] + " " + m[2]
	}
	return m[1]
}
