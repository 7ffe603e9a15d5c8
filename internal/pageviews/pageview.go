// Package pageviews stores the raw visitor event log. Page views are
// append-only: rows are never updated or deleted, and every statistic is
// recomputed from this table on demand.
package pageviews

import (
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"
)

// MaxPageLength bounds the stored page path. Longer values are truncated
// rather than rejected: the tracking beacon is fire-and-forget.
const MaxPageLength = 500

// PageView represents one recorded page view. Immutable once created;
// CreatedAt is the sole ordering and bucketing key.
type PageView struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Page      string    `gorm:"index;size:500;not null" json:"page"`
	IP        string    `gorm:"index;not null" json:"ip"`
	UserAgent *string   `json:"user_agent"`
	Referrer  *string   `json:"referrer"`
	CreatedAt time.Time `gorm:"index;not null" json:"created_at"`
}

// RecordInput defines the input required to record a page view.
type RecordInput struct {
	Page         string
	ForwardedFor string // raw X-Forwarded-For header, may be empty
	RemoteIP     string // direct connection IP
	UserAgent    string // empty means the header was absent
	Referrer     string // empty means the header was absent
}

// ResolveClientIP picks the client IP for an event. The first entry of the
// forwarded-for chain wins when it parses as an IP literal; otherwise the
// direct connection IP is used. The header is client-supplied and spoofable,
// which is acceptable for a low-stakes analytics signal.
func ResolveClientIP(forwardedFor, remoteIP string) string {
	if forwardedFor != "" {
		first := strings.TrimSpace(strings.Split(forwardedFor, ",")[0])
		if first != "" && net.ParseIP(first) != nil {
			return first
		}
	}
	return remoteIP
}

// Record appends one page view to the event log.
func Record(db *gorm.DB, logger *slog.Logger, input *RecordInput) error {
	page := input.Page
	if page == "" {
		page = "/"
	}
	if len(page) > MaxPageLength {
		page = page[:MaxPageLength]
	}

	view := &PageView{
		Page:      page,
		IP:        ResolveClientIP(input.ForwardedFor, input.RemoteIP),
		UserAgent: nullable(input.UserAgent),
		Referrer:  nullable(input.Referrer),
		CreatedAt: time.Now().UTC(),
	}

	err := sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Create(view).Error
	})
	if err != nil {
		logger.Error("Failed to record page view", slog.Any("error", err))
		return err
	}

	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
