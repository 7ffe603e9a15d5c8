// Package messages stores contact-form submissions. Messages are created
// by the public intake endpoint and only ever mutated by the admin
// read-flag toggle.
package messages

import (
	"log/slog"
	"time"

	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"
)

const (
	MaxNameLength    = 255
	MaxEmailLength   = 255
	MaxMessageLength = 5000
)

type ContactMessage struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	Message   string    `gorm:"not null" json:"message"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Create appends a new unread message.
func Create(db *gorm.DB, logger *slog.Logger, msg *ContactMessage) error {
	msg.Read = false
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Create(msg).Error
	})
}

// List returns all messages, newest first.
func List(db *gorm.DB) ([]ContactMessage, error) {
	var msgs []ContactMessage
	err := db.Order("created_at DESC").Find(&msgs).Error
	return msgs, err
}

// FindByID returns one message; gorm.ErrRecordNotFound when absent.
func FindByID(db *gorm.DB, id uint) (*ContactMessage, error) {
	var msg ContactMessage
	if err := db.First(&msg, id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// MarkRead flips the read flag on and returns the updated message.
func MarkRead(db *gorm.DB, logger *slog.Logger, id uint) (*ContactMessage, error) {
	msg, err := FindByID(db, id)
	if err != nil {
		return nil, err
	}
	err = sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Model(msg).Update("read", true).Error
	})
	if err != nil {
		return nil, err
	}
	msg.Read = true
	return msg, nil
}

// Delete removes a message permanently.
func Delete(db *gorm.DB, logger *slog.Logger, id uint) error {
	if _, err := FindByID(db, id); err != nil {
		return err
	}
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Delete(&ContactMessage{}, id).Error
	})
}

// UnreadCount returns the number of unread messages.
func UnreadCount(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&ContactMessage{}).Where("read = ?", false).Count(&count).Error
	return count, err
}
