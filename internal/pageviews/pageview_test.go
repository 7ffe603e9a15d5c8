package pageviews_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/pageviews"
	"folio/internal/testsupport"
)

func TestResolveClientIP(t *testing.T) {
	tests := []struct {
		name         string
		forwardedFor string
		remoteIP     string
		want         string
	}{
		{"no forwarded header", "", "10.0.0.1", "10.0.0.1"},
		{"single forwarded hop", "203.0.113.7", "10.0.0.1", "203.0.113.7"},
		{"multiple hops takes first", "203.0.113.7, 70.41.3.18, 150.172.238.178", "10.0.0.1", "203.0.113.7"},
		{"whitespace around hop", "  203.0.113.7 , 70.41.3.18", "10.0.0.1", "203.0.113.7"},
		{"invalid forwarded value falls back", "not-an-ip", "10.0.0.1", "10.0.0.1"},
		{"ipv6 forwarded", "2001:db8::1", "10.0.0.1", "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pageviews.ResolveClientIP(tt.forwardedFor, tt.remoteIP))
		})
	}
}

func TestRecord(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()

	t.Run("stores a full view", func(t *testing.T) {
		testsupport.CleanAllTables(db)

		err := pageviews.Record(db, logger, &pageviews.RecordInput{
			Page:      "/projects",
			RemoteIP:  "203.0.113.7",
			UserAgent: "Mozilla/5.0 (Windows NT 10.0) Chrome/120.0",
			Referrer:  "https://news.ycombinator.com/item?id=1",
		})
		require.NoError(t, err)

		var view pageviews.PageView
		require.NoError(t, db.First(&view).Error)
		assert.Equal(t, "/projects", view.Page)
		assert.Equal(t, "203.0.113.7", view.IP)
		require.NotNil(t, view.UserAgent)
		assert.Equal(t, "Mozilla/5.0 (Windows NT 10.0) Chrome/120.0", *view.UserAgent)
		require.NotNil(t, view.Referrer)
		assert.WithinDuration(t, time.Now().UTC(), view.CreatedAt, 5*time.Second)
	})

	t.Run("empty page defaults to root", func(t *testing.T) {
		testsupport.CleanAllTables(db)

		err := pageviews.Record(db, logger, &pageviews.RecordInput{RemoteIP: "10.0.0.1"})
		require.NoError(t, err)

		var view pageviews.PageView
		require.NoError(t, db.First(&view).Error)
		assert.Equal(t, "/", view.Page)
	})

	t.Run("missing user agent and referrer stay null", func(t *testing.T) {
		testsupport.CleanAllTables(db)

		err := pageviews.Record(db, logger, &pageviews.RecordInput{Page: "/", RemoteIP: "10.0.0.1"})
		require.NoError(t, err)

		var view pageviews.PageView
		require.NoError(t, db.First(&view).Error)
		assert.Nil(t, view.UserAgent)
		assert.Nil(t, view.Referrer)
	})

	t.Run("page truncated to max length", func(t *testing.T) {
		testsupport.CleanAllTables(db)

		long := "/" + strings.Repeat("a", 600)
		err := pageviews.Record(db, logger, &pageviews.RecordInput{Page: long, RemoteIP: "10.0.0.1"})
		require.NoError(t, err)

		var view pageviews.PageView
		require.NoError(t, db.First(&view).Error)
		assert.Len(t, view.Page, pageviews.MaxPageLength)
		assert.Equal(t, long[:pageviews.MaxPageLength], view.Page)
	})

	t.Run("forwarded-for wins over remote ip", func(t *testing.T) {
		testsupport.CleanAllTables(db)

		err := pageviews.Record(db, logger, &pageviews.RecordInput{
			Page:         "/",
			ForwardedFor: "203.0.113.9, 10.0.0.1",
			RemoteIP:     "10.0.0.1",
		})
		require.NoError(t, err)

		var view pageviews.PageView
		require.NoError(t, db.First(&view).Error)
		assert.Equal(t, "203.0.113.9", view.IP)
	})
}

func TestCounts(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	testsupport.CreatePageView(t, db, "/", "1.1.1.1", now)
	testsupport.CreatePageView(t, db, "/", "1.1.1.1", now.Add(-time.Hour))
	testsupport.CreatePageView(t, db, "/about", "2.2.2.2", now.AddDate(0, 0, -1))
	testsupport.CreatePageView(t, db, "/about", "3.3.3.3", now.AddDate(0, 0, -10))

	total, err := pageviews.CountAll(db)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)

	today, err := pageviews.CountOnDay(db, now)
	require.NoError(t, err)
	assert.EqualValues(t, 2, today)

	yesterday, err := pageviews.CountOnDay(db, now.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.EqualValues(t, 1, yesterday)

	lastWeek, err := pageviews.CountSince(db, now.AddDate(0, 0, -7))
	require.NoError(t, err)
	assert.EqualValues(t, 3, lastWeek)

	uniques, err := pageviews.CountDistinctIPs(db)
	require.NoError(t, err)
	assert.EqualValues(t, 3, uniques)

	window, err := pageviews.CountDistinctIPsBetween(db, now.AddDate(0, 0, -2), now.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.EqualValues(t, 2, window)
}

func TestTopPagesAndReferrers(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		testsupport.CreatePageView(t, db, "/", "1.1.1.1", now,
			testsupport.WithReferrer("https://google.com/search"))
	}
	testsupport.CreatePageView(t, db, "/projects", "1.1.1.1", now,
		testsupport.WithReferrer("https://github.com/someone"))
	testsupport.CreatePageView(t, db, "/projects", "2.2.2.2", now)
	testsupport.CreatePageView(t, db, "/contact", "2.2.2.2", now)

	pages, err := pageviews.TopPages(db, 2)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "/", pages[0].Value)
	assert.EqualValues(t, 3, pages[0].Count)
	assert.Equal(t, "/projects", pages[1].Value)
	assert.EqualValues(t, 2, pages[1].Count)

	referrers, err := pageviews.TopReferrers(db, 5)
	require.NoError(t, err)
	require.Len(t, referrers, 2)
	assert.Equal(t, "https://google.com/search", referrers[0].Value)
	assert.EqualValues(t, 3, referrers[0].Count)
}

func TestHourAndWeekdayCounts(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	// 2026-03-15 is a Sunday
	sunday := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)
	testsupport.CreatePageView(t, db, "/", "1.1.1.1", sunday)
	testsupport.CreatePageView(t, db, "/", "1.1.1.1", sunday.Add(10*time.Minute))
	testsupport.CreatePageView(t, db, "/", "2.2.2.2", sunday.Add(14*time.Hour)) // 23:30, still Sunday
	monday := sunday.AddDate(0, 0, 1)
	testsupport.CreatePageView(t, db, "/", "2.2.2.2", monday)

	hours, err := pageviews.HourCounts(db)
	require.NoError(t, err)
	assert.EqualValues(t, 3, hours["09"])
	assert.EqualValues(t, 1, hours["23"])

	weekdays, err := pageviews.WeekdayCounts(db)
	require.NoError(t, err)
	assert.EqualValues(t, 3, weekdays["0"]) // Sunday
	assert.EqualValues(t, 1, weekdays["1"]) // Monday
}

func TestVisitorProbes(t *testing.T) {
	db := testsupport.SetupTestDB(t)

	today := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	testsupport.CreatePageView(t, db, "/", "1.1.1.1", today.AddDate(0, 0, -3))
	testsupport.CreatePageView(t, db, "/", "1.1.1.1", today)
	testsupport.CreatePageView(t, db, "/", "2.2.2.2", today)

	ips, err := pageviews.DistinctIPsOnDay(db, today)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1.1.1.1", "2.2.2.2"}, ips)

	returning, err := pageviews.HasViewBefore(db, "1.1.1.1", pageviews.StartOfDay(today))
	require.NoError(t, err)
	assert.True(t, returning)

	fresh, err := pageviews.HasViewBefore(db, "2.2.2.2", pageviews.StartOfDay(today))
	require.NoError(t, err)
	assert.False(t, fresh)
}

func TestDayBoundaries(t *testing.T) {
	// Wednesday mid-afternoon
	at := time.Date(2026, 3, 18, 15, 42, 7, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC), pageviews.StartOfDay(at))
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), pageviews.StartOfWeek(at))
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), pageviews.StartOfMonth(at))

	// Sunday belongs to the week that started the previous Monday
	sunday := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), pageviews.StartOfWeek(sunday))

	// Monday is its own week start
	monday := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, monday, pageviews.StartOfWeek(monday))
}
