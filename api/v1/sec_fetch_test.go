package v1_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/testsupport"
)

// TestSecFetchSitePolicy verifies that the public write endpoints accept
// both cross-origin browser requests and requests without a
// Sec-Fetch-Site header (server-to-server clients), while forged header
// values are still rejected.
func TestSecFetchSitePolicy(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	app := testsupport.CreateMinimalTestApp(t, db)

	tests := []struct {
		name           string
		secFetchSite   string
		expectedStatus int
	}{
		{"cross-site browser request", "cross-site", fiber.StatusCreated},
		{"same-site browser request", "same-site", fiber.StatusCreated},
		{"same-origin browser request", "same-origin", fiber.StatusCreated},
		{"direct navigation", "none", fiber.StatusCreated},
		{"no header (non-browser client)", "", fiber.StatusCreated},
		{"unexpected header value", "evil-value", fiber.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testsupport.NewJSONRequest(t, "POST", "/api/page-views", map[string]string{"page": "/"})
			req.Header.Del("Sec-Fetch-Site")
			if tt.secFetchSite != "" {
				req.Header.Set("Sec-Fetch-Site", tt.secFetchSite)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}

	t.Run("contact form accepts cross-site submissions", func(t *testing.T) {
		req := testsupport.NewJSONRequest(t, "POST", "/api/contact-messages", map[string]string{
			"name":    "Ada",
			"email":   "ada@example.com",
			"message": "Hello from another origin",
		})
		req.Header.Set("Sec-Fetch-Site", "cross-site")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	})
}
