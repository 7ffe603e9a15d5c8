package http_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/testsupport"
)

func TestLoginAction(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	app := testsupport.CreateMinimalTestApp(t, db)
	testsupport.CreateTestUserForAuth(t, db, "admin@example.com", "password123")

	t.Run("sets session cookie on success", func(t *testing.T) {
		req := testsupport.NewJSONRequest(t, "POST", "/api/login", map[string]string{
			"email":    "admin@example.com",
			"password": "password123",
		})

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var cookie string
		for _, c := range resp.Cookies() {
			if c.Name == testsupport.SessionCookieName {
				cookie = c.Value
			}
		}
		assert.NotEmpty(t, cookie)

		var user struct {
			Email             string `json:"email"`
			EncryptedPassword string `json:"encrypted_password"`
		}
		testsupport.DecodeJSONBody(t, resp, &user)
		assert.Equal(t, "admin@example.com", user.Email)
		// The password hash never leaves the server.
		assert.Empty(t, user.EncryptedPassword)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		req := testsupport.NewJSONRequest(t, "POST", "/api/login", map[string]string{
			"email":    "admin@example.com",
			"password": "wrong",
		})

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejects an unknown email with the same error", func(t *testing.T) {
		req := testsupport.NewJSONRequest(t, "POST", "/api/login", map[string]string{
			"email":    "nobody@example.com",
			"password": "password123",
		})

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

		var body struct {
			Error string `json:"error"`
		}
		testsupport.DecodeJSONBody(t, resp, &body)
		assert.Equal(t, "Invalid email or password", body.Error)
	})

	t.Run("requires both fields", func(t *testing.T) {
		req := testsupport.NewJSONRequest(t, "POST", "/api/login", map[string]string{"email": "admin@example.com"})

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestCurrentUserAction(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	app := testsupport.CreateMinimalTestApp(t, db)
	testsupport.CreateTestUserForAuth(t, db, "admin@example.com", "password123")

	t.Run("returns the logged-in admin", func(t *testing.T) {
		session := testsupport.LoginTestUser(t, app, "admin@example.com", "password123")

		req := testsupport.NewJSONRequest(t, "GET", "/api/user", nil)
		req.AddCookie(&http.Cookie{Name: testsupport.SessionCookieName, Value: session})

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var user struct {
			Email string `json:"email"`
		}
		testsupport.DecodeJSONBody(t, resp, &user)
		assert.Equal(t, "admin@example.com", user.Email)
	})

	t.Run("401 without a session", func(t *testing.T) {
		req := testsupport.NewJSONRequest(t, "GET", "/api/user", nil)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestLogoutAction(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	app := testsupport.CreateMinimalTestApp(t, db)
	testsupport.CreateTestUserForAuth(t, db, "admin@example.com", "password123")

	session := testsupport.LoginTestUser(t, app, "admin@example.com", "password123")

	req := testsupport.NewJSONRequest(t, "POST", "/api/logout", nil)
	req.AddCookie(&http.Cookie{Name: testsupport.SessionCookieName, Value: session})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	t.Run("logout without a session is unauthorized", func(t *testing.T) {
		req := testsupport.NewJSONRequest(t, "POST", "/api/logout", nil)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
