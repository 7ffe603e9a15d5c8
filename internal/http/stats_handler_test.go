package http_test

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/analytics"
	"folio/internal/testsupport"
)

func TestStatsAction(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	app := testsupport.CreateMinimalTestApp(t, db)
	session := loginAdmin(t, db, app)

	now := time.Now().UTC()
	ua := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/126.0.0.0 Safari/537.36"
	testsupport.CreatePageView(t, db, "/", "1.1.1.1", now.Add(-time.Hour), testsupport.WithUserAgent(ua))
	testsupport.CreatePageView(t, db, "/#projects", "1.1.1.1", now.Add(-50*time.Minute), testsupport.WithUserAgent(ua))
	testsupport.CreatePageView(t, db, "/", "2.2.2.2", now.Add(-30*time.Minute))

	t.Run("serves the full report", func(t *testing.T) {
		resp, err := app.Test(adminJSONRequest(t, session, "GET", "/api/page-views/stats", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var report analytics.StatsReport
		testsupport.DecodeJSONBody(t, resp, &report)

		assert.EqualValues(t, 3, report.Total)
		assert.EqualValues(t, 2, report.UniqueVisitors)
		assert.Len(t, report.PeakHours, 24)
		assert.Len(t, report.DayOfWeek, 7)
		assert.Len(t, report.Daily, 7)
		assert.Len(t, report.EngagementFunnel, len(analytics.FunnelSections))
		assert.Equal(t, 2, report.SessionInsights.TotalSessions)
	})

	t.Run("requires authentication", func(t *testing.T) {
		resp, err := app.Test(testsupport.NewJSONRequest(t, "GET", "/api/page-views/stats", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
