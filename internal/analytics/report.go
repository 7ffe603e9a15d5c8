package analytics

import "time"

// StatsReport is the full aggregation result served by the stats endpoint.
// The field set and JSON names are the contract consumed by the admin
// dashboard; every number is recomputed from the raw event log per call.
type StatsReport struct {
	Total          int64  `json:"total"`
	Today          int64  `json:"today"`
	Yesterday      int64  `json:"yesterday"`
	ThisWeek       int64  `json:"this_week"`
	ThisMonth      int64  `json:"this_month"`
	UniqueVisitors int64  `json:"unique_visitors"`
	GrowthPercent  int    `json:"growth_percent"`

	Daily   []DateCount `json:"daily"`   // last 7 days, oldest first
	Monthly []DateCount `json:"monthly"` // last 30 days, oldest first

	TopPages     []PageCount     `json:"top_pages"`
	TopReferrers []ReferrerCount `json:"top_referrers"`

	SessionInsights SessionInsights `json:"session_insights"`

	Browsers    []NameCount  `json:"browsers"`
	Devices     DeviceSplit  `json:"devices"`
	PeakHours   []HourCount  `json:"peak_hours"`
	OSBreakdown []NameCount  `json:"os_breakdown"`

	EngagementFunnel []FunnelStep     `json:"engagement_funnel"`
	WeeklyComparison WeeklyComparison `json:"weekly_comparison"`
	MonthlyTrend     []MonthCount     `json:"monthly_trend"` // last 6 months, oldest first
	DayOfWeek        []DayCount       `json:"day_of_week"`   // Sunday first

	NewVisitorsToday       int `json:"new_visitors_today"`
	ReturningVisitorsToday int `json:"returning_visitors_today"`

	RecentViews []RecentView `json:"recent_views"`
}

type DateCount struct {
	Date  string `json:"date"` // "Jan 02"
	Count int64  `json:"count"`
}

type PageCount struct {
	Page  string `json:"page"`
	Count int64  `json:"count"`
}

type ReferrerCount struct {
	Referrer string `json:"referrer"`
	Domain   string `json:"domain"`
	Count    int64  `json:"count"`
}

type NameCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type DeviceSplit struct {
	Mobile  int64 `json:"mobile"`
	Desktop int64 `json:"desktop"`
}

type HourCount struct {
	Hour  string `json:"hour"` // "00".."23"
	Count int64  `json:"count"`
}

type FunnelStep struct {
	Section  string `json:"section"`
	Visitors int64  `json:"visitors"`
	Percent  int    `json:"percent"`
}

type WeeklyComparison struct {
	ThisWeekViews    int64 `json:"this_week_views"`
	LastWeekViews    int64 `json:"last_week_views"`
	ViewsChange      int   `json:"views_change"`
	ThisWeekVisitors int64 `json:"this_week_visitors"`
	LastWeekVisitors int64 `json:"last_week_visitors"`
	VisitorsChange   int   `json:"visitors_change"`
}

type MonthCount struct {
	Month string `json:"month"` // "Jan 2006"
	Short string `json:"short"` // "Jan"
	Count int64  `json:"count"`
}

type DayCount struct {
	Day   string `json:"day"` // "Sun".."Sat"
	Count int64  `json:"count"`
}

type RecentView struct {
	Page      string    `json:"page"`
	IP        string    `json:"ip"`
	Referrer  *string   `json:"referrer"`
	CreatedAt time.Time `json:"created_at"`
}
