package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/analytics"
	"folio/internal/testsupport"
)

func TestComputeStatsEmptyLog(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	report, err := analytics.ComputeStats(db, logger, time.Now().UTC())
	require.NoError(t, err)

	assert.EqualValues(t, 0, report.Total)
	assert.Equal(t, 0, report.GrowthPercent)
	assert.Equal(t, 0, report.SessionInsights.BounceRate)
	assert.EqualValues(t, 0, report.Devices.Mobile)
	assert.EqualValues(t, 0, report.Devices.Desktop)
	assert.Len(t, report.Daily, 7)
	assert.Len(t, report.Monthly, 30)
	assert.Len(t, report.MonthlyTrend, 6)
	assert.Len(t, report.DayOfWeek, 7)
	assert.Empty(t, report.RecentViews)

	// Dense hour histogram even with zero events
	require.Len(t, report.PeakHours, 24)
	assert.Equal(t, "00", report.PeakHours[0].Hour)
	assert.Equal(t, "23", report.PeakHours[23].Hour)

	// Funnel guards the zero-visitor division
	require.Len(t, report.EngagementFunnel, len(analytics.FunnelSections))
	for _, step := range report.EngagementFunnel {
		assert.EqualValues(t, 0, step.Visitors)
		assert.Equal(t, 0, step.Percent)
	}
}

func TestComputeStatsSessionsAndVisitors(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	now := time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)
	start := now.Add(-2 * time.Hour)

	// IP A: two sessions (40 minute gap splits), IP B: one session
	testsupport.CreatePageView(t, db, "/", "1.1.1.1", start)
	testsupport.CreatePageView(t, db, "/projects", "1.1.1.1", start.Add(5*time.Minute))
	testsupport.CreatePageView(t, db, "/", "1.1.1.1", start.Add(40*time.Minute))
	testsupport.CreatePageView(t, db, "/", "2.2.2.2", start)

	report, err := analytics.ComputeStats(db, logger, now)
	require.NoError(t, err)

	assert.EqualValues(t, 4, report.Total)
	assert.EqualValues(t, 4, report.Today)
	assert.EqualValues(t, 2, report.UniqueVisitors)
	assert.Equal(t, 3, report.SessionInsights.TotalSessions)
	assert.Equal(t, 100, report.GrowthPercent) // yesterday empty, today not

	// Both IPs first seen today
	assert.Equal(t, 2, report.NewVisitorsToday)
	assert.Equal(t, 0, report.ReturningVisitorsToday)
}

func TestComputeStatsReturningVisitors(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	now := time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)
	testsupport.CreatePageView(t, db, "/", "1.1.1.1", now.AddDate(0, 0, -5))
	testsupport.CreatePageView(t, db, "/", "1.1.1.1", now.Add(-time.Hour))
	testsupport.CreatePageView(t, db, "/", "2.2.2.2", now.Add(-time.Hour))

	report, err := analytics.ComputeStats(db, logger, now)
	require.NoError(t, err)

	assert.Equal(t, 1, report.ReturningVisitorsToday)
	assert.Equal(t, 1, report.NewVisitorsToday)
}

func TestComputeStatsDeviceAndBrowserSums(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	now := time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)
	at := now.Add(-time.Hour)

	testsupport.CreatePageView(t, db, "/", "1.1.1.1", at,
		testsupport.WithUserAgent("Mozilla/5.0 (Windows NT 10.0) Chrome/120.0 Safari/537.36"))
	testsupport.CreatePageView(t, db, "/", "2.2.2.2", at,
		testsupport.WithUserAgent("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0) Safari/604.1"))
	testsupport.CreatePageView(t, db, "/", "3.3.3.3", at,
		testsupport.WithUserAgent("Mozilla/5.0 (Linux; Android 14) Mobile Firefox/120.0"))
	// No user agent at all
	testsupport.CreatePageView(t, db, "/", "4.4.4.4", at)

	report, err := analytics.ComputeStats(db, logger, now)
	require.NoError(t, err)

	// mobile + desktop always sums to total, including null-UA views
	assert.Equal(t, report.Total, report.Devices.Mobile+report.Devices.Desktop)
	assert.EqualValues(t, 2, report.Devices.Mobile)

	// browsers sum to the non-null-UA view count
	var browserSum int64
	for _, b := range report.Browsers {
		browserSum += b.Count
	}
	assert.EqualValues(t, 3, browserSum)

	// priority order: Chrome+Safari classifies as Chrome
	names := map[string]int64{}
	for _, b := range report.Browsers {
		names[b.Name] = b.Count
	}
	assert.EqualValues(t, 1, names["Chrome"])
	assert.EqualValues(t, 1, names["Safari"])
	assert.EqualValues(t, 1, names["Firefox"])
}

func TestComputeStatsFunnelAndReferrers(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	now := time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)
	at := now.Add(-time.Hour)

	testsupport.CreatePageView(t, db, "/", "1.1.1.1", at,
		testsupport.WithReferrer("https://news.ycombinator.com/item?id=1"))
	testsupport.CreatePageView(t, db, "/", "2.2.2.2", at,
		testsupport.WithReferrer("not a url"))
	testsupport.CreatePageView(t, db, "/#projects", "1.1.1.1", at.Add(time.Minute))

	report, err := analytics.ComputeStats(db, logger, now)
	require.NoError(t, err)

	steps := map[string]analytics.FunnelStep{}
	for _, s := range report.EngagementFunnel {
		steps[s.Section] = s
	}
	assert.EqualValues(t, 2, steps["/"].Visitors)
	assert.Equal(t, 100, steps["/"].Percent)
	assert.EqualValues(t, 1, steps["/#projects"].Visitors)
	assert.Equal(t, 50, steps["/#projects"].Percent)
	assert.EqualValues(t, 0, steps["/#contact"].Visitors)
	assert.Equal(t, 0, steps["/#contact"].Percent)

	domains := map[string]string{}
	for _, r := range report.TopReferrers {
		domains[r.Referrer] = r.Domain
	}
	assert.Equal(t, "news.ycombinator.com", domains["https://news.ycombinator.com/item?id=1"])
	// Unparseable referrer falls back to the raw string
	assert.Equal(t, "not a url", domains["not a url"])
}

func TestComputeStatsWeeklyComparison(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	// Wednesday; this week started Monday the 16th
	now := time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)

	// Last week: 2 views, 2 visitors
	testsupport.CreatePageView(t, db, "/", "1.1.1.1", time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC))
	testsupport.CreatePageView(t, db, "/", "2.2.2.2", time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC))
	// This week: 3 views, 1 visitor
	testsupport.CreatePageView(t, db, "/", "3.3.3.3", time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC))
	testsupport.CreatePageView(t, db, "/", "3.3.3.3", time.Date(2026, 3, 17, 10, 0, 0, 0, time.UTC))
	testsupport.CreatePageView(t, db, "/", "3.3.3.3", now.Add(-time.Hour))

	report, err := analytics.ComputeStats(db, logger, now)
	require.NoError(t, err)

	wc := report.WeeklyComparison
	assert.EqualValues(t, 3, wc.ThisWeekViews)
	assert.EqualValues(t, 2, wc.LastWeekViews)
	assert.Equal(t, 50, wc.ViewsChange)
	assert.EqualValues(t, 1, wc.ThisWeekVisitors)
	assert.EqualValues(t, 2, wc.LastWeekVisitors)
	assert.Equal(t, -50, wc.VisitorsChange)
}

func TestComputeStatsDailyBuckets(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	now := time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)
	testsupport.CreatePageView(t, db, "/", "1.1.1.1", now.Add(-time.Hour))
	testsupport.CreatePageView(t, db, "/", "1.1.1.1", now.AddDate(0, 0, -2))

	report, err := analytics.ComputeStats(db, logger, now)
	require.NoError(t, err)

	require.Len(t, report.Daily, 7)
	assert.Equal(t, "Mar 18", report.Daily[6].Date)
	assert.EqualValues(t, 1, report.Daily[6].Count)
	assert.Equal(t, "Mar 16", report.Daily[4].Date)
	assert.EqualValues(t, 1, report.Daily[4].Count)
	assert.Equal(t, "Mar 12", report.Daily[0].Date)

	require.Len(t, report.MonthlyTrend, 6)
	assert.Equal(t, "Mar 2026", report.MonthlyTrend[5].Month)
	assert.Equal(t, "Mar", report.MonthlyTrend[5].Short)
	assert.EqualValues(t, 2, report.MonthlyTrend[5].Count)
	assert.Equal(t, "Oct 2025", report.MonthlyTrend[0].Month)
}
