// Package analytics derives the visitor statistics report from the raw
// page-view log. There is no pre-aggregated state: every report is a pure
// function of the log and a reference instant, recomputed per request.
package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"sort"
	"time"

	"gorm.io/gorm"

	"folio/internal/pageviews"
	"folio/internal/pkg/async"
)

// FunnelSections is the fixed ordered list of portfolio sections measured
// by the engagement funnel.
var FunnelSections = []string{"/", "/#hero", "/#about", "/#experience", "/#services", "/#projects", "/#contact"}

var dayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// GrowthPercent computes relative change with the zero-division policy
// used throughout the report: 100 when climbing from zero, 0 when both
// periods are empty.
func GrowthPercent(current, previous int64) int {
	if previous > 0 {
		return int(math.Round(float64(current-previous) / float64(previous) * 100))
	}
	if current > 0 {
		return 100
	}
	return 0
}

// newReturningSplit carries the today-visitor classification across the pool.
type newReturningSplit struct {
	New       int
	Returning int
}

// ComputeStats builds the full report from the event log as of now.
// Sub-queries run concurrently on a worker pool; the queries are not
// wrapped in one snapshot, so concurrent recorder writes may be visible
// to some sub-aggregates and not others. Any sub-query error fails the
// whole report.
func ComputeStats(db *gorm.DB, logger *slog.Logger, now time.Time) (*StatsReport, error) {
	now = now.UTC()
	today := pageviews.StartOfDay(now)
	thisWeekStart := pageviews.StartOfWeek(now)
	lastWeekStart := thisWeekStart.AddDate(0, 0, -7)

	tasks := []async.Task{
		{Name: "total", Execute: func() (interface{}, error) {
			return pageviews.CountAll(db)
		}},
		{Name: "today", Execute: func() (interface{}, error) {
			return pageviews.CountOnDay(db, now)
		}},
		{Name: "yesterday", Execute: func() (interface{}, error) {
			return pageviews.CountOnDay(db, now.AddDate(0, 0, -1))
		}},
		{Name: "thisWeek", Execute: func() (interface{}, error) {
			return pageviews.CountSince(db, thisWeekStart)
		}},
		{Name: "thisMonth", Execute: func() (interface{}, error) {
			return pageviews.CountSince(db, pageviews.StartOfMonth(now))
		}},
		{Name: "uniqueVisitors", Execute: func() (interface{}, error) {
			return pageviews.CountDistinctIPs(db)
		}},
		{Name: "daily", Execute: func() (interface{}, error) {
			return dailyBuckets(db, now, 7)
		}},
		{Name: "monthly", Execute: func() (interface{}, error) {
			return dailyBuckets(db, now, 30)
		}},
		{Name: "topPages", Execute: func() (interface{}, error) {
			rows, err := pageviews.TopPages(db, 5)
			if err != nil {
				return nil, err
			}
			pages := make([]PageCount, 0, len(rows))
			for _, r := range rows {
				pages = append(pages, PageCount{Page: r.Value, Count: r.Count})
			}
			return pages, nil
		}},
		{Name: "topReferrers", Execute: func() (interface{}, error) {
			rows, err := pageviews.TopReferrers(db, 5)
			if err != nil {
				return nil, err
			}
			referrers := make([]ReferrerCount, 0, len(rows))
			for _, r := range rows {
				referrers = append(referrers, ReferrerCount{
					Referrer: r.Value,
					Domain:   referrerDomain(r.Value),
					Count:    r.Count,
				})
			}
			return referrers, nil
		}},
		{Name: "userAgents", Execute: func() (interface{}, error) {
			return pageviews.UserAgentCounts(db)
		}},
		{Name: "peakHours", Execute: func() (interface{}, error) {
			counts, err := pageviews.HourCounts(db)
			if err != nil {
				return nil, err
			}
			hours := make([]HourCount, 0, 24)
			for h := 0; h < 24; h++ {
				key := fmt.Sprintf("%02d", h)
				hours = append(hours, HourCount{Hour: key, Count: counts[key]})
			}
			return hours, nil
		}},
		{Name: "dayOfWeek", Execute: func() (interface{}, error) {
			counts, err := pageviews.WeekdayCounts(db)
			if err != nil {
				return nil, err
			}
			days := make([]DayCount, 0, 7)
			for d := 0; d < 7; d++ {
				days = append(days, DayCount{Day: dayNames[d], Count: counts[fmt.Sprintf("%d", d)]})
			}
			return days, nil
		}},
		{Name: "sessions", Execute: func() (interface{}, error) {
			rows, err := pageviews.AllByCreatedAt(db)
			if err != nil {
				return nil, err
			}
			return SummarizeSessions(BuildSessions(rows)), nil
		}},
		{Name: "funnel", Execute: func() (interface{}, error) {
			steps := make([]FunnelStep, 0, len(FunnelSections))
			for _, section := range FunnelSections {
				count, err := pageviews.CountDistinctIPsForPage(db, section)
				if err != nil {
					return nil, err
				}
				steps = append(steps, FunnelStep{Section: section, Visitors: count})
			}
			return steps, nil
		}},
		{Name: "lastWeekViews", Execute: func() (interface{}, error) {
			return pageviews.CountBetween(db, lastWeekStart, thisWeekStart)
		}},
		{Name: "lastWeekVisitors", Execute: func() (interface{}, error) {
			return pageviews.CountDistinctIPsBetween(db, lastWeekStart, thisWeekStart)
		}},
		{Name: "thisWeekVisitors", Execute: func() (interface{}, error) {
			return pageviews.CountDistinctIPsSince(db, thisWeekStart)
		}},
		{Name: "monthlyTrend", Execute: func() (interface{}, error) {
			return monthlyTrend(db, now)
		}},
		{Name: "newReturning", Execute: func() (interface{}, error) {
			return splitTodayVisitors(db, today)
		}},
		{Name: "recentViews", Execute: func() (interface{}, error) {
			rows, err := pageviews.Recent(db, 10)
			if err != nil {
				return nil, err
			}
			views := make([]RecentView, 0, len(rows))
			for _, r := range rows {
				views = append(views, RecentView{Page: r.Page, IP: r.IP, Referrer: r.Referrer, CreatedAt: r.CreatedAt})
			}
			return views, nil
		}},
	}

	pool := async.NewPool(8)
	results := pool.Execute(context.Background(), tasks)

	for name, result := range results {
		if result.Err != nil {
			logger.Error("stats sub-query failed", slog.String("query", name), slog.Any("error", result.Err))
			return nil, fmt.Errorf("error computing %s: %w", name, result.Err)
		}
	}

	total := results["total"].Data.(int64)
	todayCount := results["today"].Data.(int64)
	yesterdayCount := results["yesterday"].Data.(int64)
	thisWeek := results["thisWeek"].Data.(int64)
	uniqueVisitors := results["uniqueVisitors"].Data.(int64)
	lastWeekViews := results["lastWeekViews"].Data.(int64)
	thisWeekVisitors := results["thisWeekVisitors"].Data.(int64)
	lastWeekVisitors := results["lastWeekVisitors"].Data.(int64)
	split := results["newReturning"].Data.(newReturningSplit)

	browsers, osBreakdown, mobile := classifyUserAgents(results["userAgents"].Data.([]pageviews.ValueCount))

	// Funnel percentages come out of all-time distinct visitors; an empty
	// log divides by 1 instead of crashing.
	funnel := results["funnel"].Data.([]FunnelStep)
	funnelBase := uniqueVisitors
	if funnelBase == 0 {
		funnelBase = 1
	}
	for i := range funnel {
		funnel[i].Percent = int(math.Round(float64(funnel[i].Visitors) / float64(funnelBase) * 100))
	}

	return &StatsReport{
		Total:           total,
		Today:           todayCount,
		Yesterday:       yesterdayCount,
		ThisWeek:        thisWeek,
		ThisMonth:       results["thisMonth"].Data.(int64),
		UniqueVisitors:  uniqueVisitors,
		GrowthPercent:   GrowthPercent(todayCount, yesterdayCount),
		Daily:           results["daily"].Data.([]DateCount),
		Monthly:         results["monthly"].Data.([]DateCount),
		TopPages:        results["topPages"].Data.([]PageCount),
		TopReferrers:    results["topReferrers"].Data.([]ReferrerCount),
		SessionInsights: results["sessions"].Data.(SessionInsights),
		Browsers:        browsers,
		// Desktop is derived arithmetically so the split always sums to total.
		Devices:          DeviceSplit{Mobile: mobile, Desktop: total - mobile},
		PeakHours:        results["peakHours"].Data.([]HourCount),
		OSBreakdown:      osBreakdown,
		EngagementFunnel: funnel,
		WeeklyComparison: WeeklyComparison{
			ThisWeekViews:    thisWeek,
			LastWeekViews:    lastWeekViews,
			ViewsChange:      GrowthPercent(thisWeek, lastWeekViews),
			ThisWeekVisitors: thisWeekVisitors,
			LastWeekVisitors: lastWeekVisitors,
			VisitorsChange:   GrowthPercent(thisWeekVisitors, lastWeekVisitors),
		},
		MonthlyTrend:           results["monthlyTrend"].Data.([]MonthCount),
		DayOfWeek:              results["dayOfWeek"].Data.([]DayCount),
		NewVisitorsToday:       split.New,
		ReturningVisitorsToday: split.Returning,
		RecentViews:            results["recentViews"].Data.([]RecentView),
	}, nil
}

// dailyBuckets counts views for each of the last n calendar days,
// inclusive of today, oldest first.
func dailyBuckets(db *gorm.DB, now time.Time, n int) ([]DateCount, error) {
	buckets := make([]DateCount, 0, n)
	for i := n - 1; i >= 0; i-- {
		day := pageviews.StartOfDay(now).AddDate(0, 0, -i)
		count, err := pageviews.CountOnDay(db, day)
		if err != nil {
			return nil, err
		}
		buckets = append(buckets, DateCount{Date: day.Format("Jan 02"), Count: count})
	}
	return buckets, nil
}

// monthlyTrend counts views per calendar month for the last 6 months,
// oldest first.
func monthlyTrend(db *gorm.DB, now time.Time) ([]MonthCount, error) {
	trend := make([]MonthCount, 0, 6)
	for i := 5; i >= 0; i-- {
		start := pageviews.StartOfMonth(now).AddDate(0, -i, 0)
		count, err := pageviews.CountBetween(db, start, start.AddDate(0, 1, 0))
		if err != nil {
			return nil, err
		}
		trend = append(trend, MonthCount{
			Month: start.Format("Jan 2006"),
			Short: start.Format("Jan"),
			Count: count,
		})
	}
	return trend, nil
}

// splitTodayVisitors classifies each IP seen today as new or returning by
// probing for any earlier event. One probe per IP; fine at this scale.
func splitTodayVisitors(db *gorm.DB, today time.Time) (newReturningSplit, error) {
	ips, err := pageviews.DistinctIPsOnDay(db, today)
	if err != nil {
		return newReturningSplit{}, err
	}

	var split newReturningSplit
	for _, ip := range ips {
		seen, err := pageviews.HasViewBefore(db, ip, today)
		if err != nil {
			return newReturningSplit{}, err
		}
		if seen {
			split.Returning++
		} else {
			split.New++
		}
	}
	return split, nil
}

// classifyUserAgents folds per-user-agent counts into browser and OS
// breakdowns plus the mobile view count. Classification runs in Go rather
// than SQL so the substring matches stay case sensitive.
func classifyUserAgents(rows []pageviews.ValueCount) (browsers, osBreakdown []NameCount, mobile int64) {
	browserCounts := make(map[string]int64)
	osCounts := make(map[string]int64)
	for _, row := range rows {
		browserCounts[ClassifyBrowser(row.Value)] += row.Count
		osCounts[ClassifyOS(row.Value)] += row.Count
		if IsMobile(row.Value) {
			mobile += row.Count
		}
	}
	return sortedNameCounts(browserCounts), sortedNameCounts(osCounts), mobile
}

func sortedNameCounts(counts map[string]int64) []NameCount {
	out := make([]NameCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, NameCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// referrerDomain extracts the host for display, falling back to the raw
// string when the referrer does not parse as a URL.
func referrerDomain(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}
