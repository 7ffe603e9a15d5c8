package http_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"folio/internal/testsupport"
)

// loginAdmin provisions an admin and returns the session cookie value.
func loginAdmin(t *testing.T, db *gorm.DB, app *fiber.App) string {
	t.Helper()
	testsupport.CreateTestUserForAuth(t, db, "admin@example.com", "password123")
	return testsupport.LoginTestUser(t, app, "admin@example.com", "password123")
}

// adminJSONRequest builds a JSON request carrying the admin session cookie.
func adminJSONRequest(t *testing.T, session, method, target string, payload any) *http.Request {
	t.Helper()
	req := testsupport.NewJSONRequest(t, method, target, payload)
	req.AddCookie(&http.Cookie{Name: testsupport.SessionCookieName, Value: session})
	return req
}
