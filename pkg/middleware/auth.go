package middleware

import (
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

// authToken pulls the auth token from the pb_auth cookie or, for API
// clients, the Authorization header.
func authToken(e *core.RequestEvent) string {
	if cookie, err := e.Request.Cookie("pb_auth"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := e.Request.Header.Get("Authorization")
	return strings.TrimPrefix(header, "Bearer ")
}

// RequireAdmin middleware ensures the user is an authenticated superuser.
func RequireAdmin(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		token := authToken(e)
		if token == "" {
			return apis.NewUnauthorizedError("Missing auth token", nil)
		}
		record, err := app.FindAuthRecordByToken(token, core.TokenTypeAuth)
		if err != nil || record == nil || !record.IsSuperuser() {
			return apis.NewUnauthorizedError("Admin access required", nil)
		}
		e.Auth = record
		return e.Next()
	}
}

// RequireTech middleware ensures the user is an authenticated technician.
func RequireTech(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		token := authToken(e)
		if token == "" {
			return apis.NewUnauthorizedError("Missing auth token", nil)
		}

		// Token must belong to the 'technicians' auth collection
		record, err := app.FindAuthRecordByToken(token, core.TokenTypeAuth)
		if err != nil || record == nil || record.Collection().Name != "technicians" {
			return apis.NewUnauthorizedError("Technician access required", nil)
		}

		e.Auth = record
		return e.Next()
	}
}
