// Package services manages the offered-services entries of the portfolio.
package services

import (
	"log/slog"
	"time"

	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"
)

type Service struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Number      string    `gorm:"size:10;not null" json:"number"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"not null" json:"description"`
	Items       []string  `gorm:"serializer:json" json:"items"`
	Icon        *string   `gorm:"size:5000" json:"icon"`
	SortOrder   int       `gorm:"index;not null;default:0" json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func List(db *gorm.DB) ([]Service, error) {
	var services []Service
	err := db.Order("sort_order ASC, created_at DESC").Find(&services).Error
	return services, err
}

func FindByID(db *gorm.DB, id uint) (*Service, error) {
	var service Service
	if err := db.First(&service, id).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

func Create(db *gorm.DB, logger *slog.Logger, service *Service) error {
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Create(service).Error
	})
}

func Save(db *gorm.DB, logger *slog.Logger, service *Service) error {
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Save(service).Error
	})
}

func Delete(db *gorm.DB, logger *slog.Logger, id uint) error {
	if _, err := FindByID(db, id); err != nil {
		return err
	}
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Delete(&Service{}, id).Error
	})
}

func Reorder(db *gorm.DB, logger *slog.Logger, ids []uint) error {
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		for index, id := range ids {
			if err := tx.Model(&Service{}).Where("id = ?", id).
				Update("sort_order", index).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
