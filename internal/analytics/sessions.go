package analytics

import (
	"math"
	"sort"
	"time"

	"folio/internal/pageviews"
)

// SessionGap is the inactivity threshold that closes a session. Two views
// from the same IP more than this far apart belong to different sessions.
const SessionGap = 30 * time.Minute

// Session is a derived, never-persisted run of same-IP views.
type Session struct {
	Duration int64 // seconds between first and last view
	Pages    int
}

// SessionInsights is the summary block of the stats report.
type SessionInsights struct {
	AvgDuration    int64   `json:"avg_duration"`
	AvgPages       float64 `json:"avg_pages"`
	BounceRate     int     `json:"bounce_rate"`
	TotalSessions  int     `json:"total_sessions"`
	LongestSession int64   `json:"longest_session"`
}

// BuildSessions reconstructs sessions from the (ip, created_at) projection
// of the event log. Rows are grouped by IP, each group walked once in
// timestamp order: a gap over SessionGap closes the running session and
// opens a new one.
func BuildSessions(rows []pageviews.IPTimestamp) []Session {
	byIP := make(map[string][]time.Time)
	for _, row := range rows {
		byIP[row.IP] = append(byIP[row.IP], row.CreatedAt)
	}

	var sessions []Session
	for _, times := range byIP {
		// Input is globally ordered; per-IP subsequences keep that order,
		// the sort is a no-op guard against unordered callers.
		sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

		var start, end time.Time
		pages := 0
		for _, at := range times {
			switch {
			case pages == 0:
				start, end, pages = at, at, 1
			case at.Sub(end) <= SessionGap:
				end = at
				pages++
			default:
				sessions = append(sessions, Session{Duration: int64(end.Sub(start).Seconds()), Pages: pages})
				start, end, pages = at, at, 1
			}
		}
		if pages > 0 {
			sessions = append(sessions, Session{Duration: int64(end.Sub(start).Seconds()), Pages: pages})
		}
	}
	return sessions
}

// SummarizeSessions derives the report numbers from a session collection.
// Everything is zero when there are no sessions.
func SummarizeSessions(sessions []Session) SessionInsights {
	total := len(sessions)
	if total == 0 {
		return SessionInsights{}
	}

	var durationSum, longest int64
	var pageSum, bounces int
	for _, s := range sessions {
		durationSum += s.Duration
		pageSum += s.Pages
		if s.Duration > longest {
			longest = s.Duration
		}
		if s.Pages == 1 {
			bounces++
		}
	}

	return SessionInsights{
		AvgDuration:    int64(math.Round(float64(durationSum) / float64(total))),
		AvgPages:       math.Round(float64(pageSum)/float64(total)*10) / 10,
		BounceRate:     int(math.Round(float64(bounces) / float64(total) * 100)),
		TotalSessions:  total,
		LongestSession: longest,
	}
}
