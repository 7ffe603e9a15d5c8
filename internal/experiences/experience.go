// Package experiences manages the work-history entries of the portfolio.
package experiences

import (
	"log/slog"
	"time"

	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"
)

type Experience struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Role         string    `gorm:"size:255;not null" json:"role"`
	Period       string    `gorm:"size:100;not null" json:"period"`
	Organization string    `gorm:"size:255;not null" json:"organization"`
	Icon         *string   `gorm:"size:5000" json:"icon"`
	Accent       *string   `gorm:"size:20" json:"accent"`
	Points       []string  `gorm:"serializer:json" json:"points"`
	SortOrder    int       `gorm:"index;not null;default:0" json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func List(db *gorm.DB) ([]Experience, error) {
	var experiences []Experience
	err := db.Order("sort_order ASC, created_at DESC").Find(&experiences).Error
	return experiences, err
}

func FindByID(db *gorm.DB, id uint) (*Experience, error) {
	var experience Experience
	if err := db.First(&experience, id).Error; err != nil {
		return nil, err
	}
	return &experience, nil
}

func Create(db *gorm.DB, logger *slog.Logger, experience *Experience) error {
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Create(experience).Error
	})
}

func Save(db *gorm.DB, logger *slog.Logger, experience *Experience) error {
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Save(experience).Error
	})
}

func Delete(db *gorm.DB, logger *slog.Logger, id uint) error {
	if _, err := FindByID(db, id); err != nil {
		return err
	}
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Delete(&Experience{}, id).Error
	})
}

func Reorder(db *gorm.DB, logger *slog.Logger, ids []uint) error {
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		for index, id := range ids {
			if err := tx.Model(&Experience{}).Where("id = ?", id).
				Update("sort_order", index).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
