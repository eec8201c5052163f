package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"

	domain "github.com/MicahMunyard/easyworkshophub-sub002/internal/core"
	"github.com/MicahMunyard/easyworkshophub-sub002/internal/service"
)

// IntakeHandler receives inbound email webhooks from the mail provider and
// turns them into pending bookings.
type IntakeHandler struct {
	Settings domain.SettingsRepository
	Intake   *service.EmailIntakeService
}

// verifyToken checks the HS256 signature on the provider's bearer token
// and returns the subject claim (the workshop account the mailbox belongs
// to).
func (h *IntakeHandler) verifyToken(tokenString, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("unexpected claims type")
	}
	subject, _ := claims.GetSubject()
	return subject, nil
}

// ReceiveEmail handles POST /api/intake/email.
func (h *IntakeHandler) ReceiveEmail(e *core.RequestEvent) error {
	settings, _ := h.Settings.GetSettings()
	if settings.IntakeSecret == "" {
		log.Println("⚠️ [INTAKE] No intake secret configured, rejecting webhook")
		return e.JSON(503, map[string]string{"error": "Email intake is not configured"})
	}

	header := e.Request.Header.Get("Authorization")
	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == "" || tokenString == header {
		return e.JSON(401, map[string]string{"error": "Missing bearer token"})
	}

	userID, err := h.verifyToken(tokenString, settings.IntakeSecret)
	if err != nil {
		log.Printf("⚠️ [INTAKE] Rejected webhook: %v", err)
		return e.JSON(401, map[string]string{"error": "Invalid token"})
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(e.Request.Body).Decode(&payload); err != nil {
		return e.JSON(400, map[string]string{"error": "Invalid JSON payload"})
	}
	if userID == "" {
		userID = cast.ToString(payload["user_id"])
	}

	email := service.ParsePayload(payload)
	if email.From == "" {
		return e.JSON(400, map[string]string{"error": "Missing sender"})
	}

	booking, err := h.Intake.ConvertToBooking(email, userID)
	if err != nil {
		log.Printf("❌ [INTAKE] Could not convert email to booking: %v", err)
		return e.JSON(500, map[string]string{"error": "Could not create booking"})
	}

	log.Printf("✅ [INTAKE] Created booking %s from email by %s", booking.ID, email.From)
	return e.JSON(201, map[string]string{"booking_id": booking.ID})
}
