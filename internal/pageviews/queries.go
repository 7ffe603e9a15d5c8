package pageviews

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ValueCount is a grouped count keyed by a raw column value.
type ValueCount struct {
	Value string
	Count int64
}

// IPTimestamp is the minimal projection used for session reconstruction.
type IPTimestamp struct {
	IP        string
	CreatedAt time.Time
}

// CountAll returns the total number of recorded page views.
func CountAll(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&PageView{}).Count(&count).Error
	return count, err
}

// CountOnDay counts views whose created_at falls on the given calendar day.
func CountOnDay(db *gorm.DB, day time.Time) (int64, error) {
	start := StartOfDay(day)
	return CountBetween(db, start, start.AddDate(0, 0, 1))
}

// CountSince counts views with created_at >= from.
func CountSince(db *gorm.DB, from time.Time) (int64, error) {
	var count int64
	err := db.Model(&PageView{}).Where("created_at >= ?", from).Count(&count).Error
	return count, err
}

// CountBetween counts views with from <= created_at < to.
func CountBetween(db *gorm.DB, from, to time.Time) (int64, error) {
	var count int64
	err := db.Model(&PageView{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	return count, err
}

// CountDistinctIPs returns the number of distinct visitor IPs over the whole log.
func CountDistinctIPs(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&PageView{}).Distinct("ip").Count(&count).Error
	return count, err
}

// CountDistinctIPsBetween returns distinct visitor IPs in [from, to).
func CountDistinctIPsBetween(db *gorm.DB, from, to time.Time) (int64, error) {
	var count int64
	err := db.Model(&PageView{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Distinct("ip").Count(&count).Error
	return count, err
}

// CountDistinctIPsSince returns distinct visitor IPs with created_at >= from.
func CountDistinctIPsSince(db *gorm.DB, from time.Time) (int64, error) {
	var count int64
	err := db.Model(&PageView{}).
		Where("created_at >= ?", from).
		Distinct("ip").Count(&count).Error
	return count, err
}

// TopPages returns the most viewed pages, ordered by count descending.
// Ties fall back to store iteration order; this is a display ranking.
func TopPages(db *gorm.DB, limit int) ([]ValueCount, error) {
	var results []ValueCount
	err := db.Raw(`
        SELECT page AS value, COUNT(*) AS count
        FROM page_views
        GROUP BY page
        ORDER BY count DESC
        LIMIT ?
    `, limit).Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching top pages: %w", err)
	}
	return results, nil
}

// TopReferrers returns the most common referrers, excluding views recorded
// without one, ordered by count descending.
func TopReferrers(db *gorm.DB, limit int) ([]ValueCount, error) {
	var results []ValueCount
	err := db.Raw(`
        SELECT referrer AS value, COUNT(*) AS count
        FROM page_views
        WHERE referrer IS NOT NULL AND referrer != ''
        GROUP BY referrer
        ORDER BY count DESC
        LIMIT ?
    `, limit).Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching top referrers: %w", err)
	}
	return results, nil
}

// UserAgentCounts groups views by their exact user-agent string, skipping
// views recorded without one. Classification happens on top of these rows.
func UserAgentCounts(db *gorm.DB) ([]ValueCount, error) {
	var results []ValueCount
	err := db.Raw(`
        SELECT user_agent AS value, COUNT(*) AS count
        FROM page_views
        WHERE user_agent IS NOT NULL
        GROUP BY user_agent
    `).Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching user agent counts: %w", err)
	}
	return results, nil
}

// HourCounts returns view counts keyed by the zero-padded hour of day
// ("00".."23"). Hours with no views are absent; callers densify.
func HourCounts(db *gorm.DB) (map[string]int64, error) {
	var rows []ValueCount
	err := db.Raw(`
        SELECT strftime('%H', created_at) AS value, COUNT(*) AS count
        FROM page_views
        GROUP BY value
        ORDER BY value
    `).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching hourly counts: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Value] = r.Count
	}
	return counts, nil
}

// WeekdayCounts returns view counts keyed by SQLite weekday number
// ("0" = Sunday .. "6" = Saturday).
func WeekdayCounts(db *gorm.DB) (map[string]int64, error) {
	var rows []ValueCount
	err := db.Raw(`
        SELECT strftime('%w', created_at) AS value, COUNT(*) AS count
        FROM page_views
        GROUP BY value
    `).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching weekday counts: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Value] = r.Count
	}
	return counts, nil
}

// Recent returns the latest views by created_at descending.
func Recent(db *gorm.DB, limit int) ([]PageView, error) {
	var views []PageView
	err := db.Model(&PageView{}).
		Select("page", "ip", "referrer", "created_at").
		Order("created_at DESC").
		Limit(limit).
		Find(&views).Error
	return views, err
}

// AllByCreatedAt returns the (ip, created_at) projection of the whole log
// ordered ascending, the input for session reconstruction.
func AllByCreatedAt(db *gorm.DB) ([]IPTimestamp, error) {
	var rows []IPTimestamp
	err := db.Model(&PageView{}).
		Select("ip", "created_at").
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// DistinctIPsOnDay returns the distinct visitor IPs seen on the given day.
func DistinctIPsOnDay(db *gorm.DB, day time.Time) ([]string, error) {
	start := StartOfDay(day)
	var ips []string
	err := db.Model(&PageView{}).
		Where("created_at >= ? AND created_at < ?", start, start.AddDate(0, 0, 1)).
		Distinct().Pluck("ip", &ips).Error
	return ips, err
}

// HasViewBefore reports whether the IP has any view strictly before the
// given instant. Probed per IP for the new-vs-returning split; O(IPs seen
// today) queries, deliberately unoptimized at this data scale.
func HasViewBefore(db *gorm.DB, ip string, before time.Time) (bool, error) {
	var count int64
	err := db.Model(&PageView{}).
		Where("ip = ? AND created_at < ?", ip, before).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

// CountDistinctIPsForPage returns distinct visitor IPs that viewed an exact page.
func CountDistinctIPsForPage(db *gorm.DB, page string) (int64, error) {
	var count int64
	err := db.Model(&PageView{}).
		Where("page = ?", page).
		Distinct("ip").Count(&count).Error
	return count, err
}

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfWeek truncates t to the preceding Monday midnight UTC (ISO weeks).
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

// StartOfMonth truncates t to the first of the month, midnight UTC.
func StartOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
