// Package skills manages the skill-category entries of the portfolio.
package skills

import (
	"log/slog"
	"time"

	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"
)

type Skill struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Category  string    `gorm:"size:255;not null" json:"category"`
	Icon      *string   `gorm:"size:5000" json:"icon"`
	Accent    *string   `gorm:"size:20" json:"accent"`
	Items     []string  `gorm:"serializer:json" json:"items"`
	SortOrder int       `gorm:"index;not null;default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func List(db *gorm.DB) ([]Skill, error) {
	var skills []Skill
	err := db.Order("sort_order ASC, created_at DESC").Find(&skills).Error
	return skills, err
}

func FindByID(db *gorm.DB, id uint) (*Skill, error) {
	var skill Skill
	if err := db.First(&skill, id).Error; err != nil {
		return nil, err
	}
	return &skill, nil
}

func Create(db *gorm.DB, logger *slog.Logger, skill *Skill) error {
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Create(skill).Error
	})
}

func Save(db *gorm.DB, logger *slog.Logger, skill *Skill) error {
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Save(skill).Error
	})
}

func Delete(db *gorm.DB, logger *slog.Logger, id uint) error {
	if _, err := FindByID(db, id); err != nil {
		return err
	}
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Delete(&Skill{}, id).Error
	})
}

func Reorder(db *gorm.DB, logger *slog.Logger, ids []uint) error {
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		for index, id := range ids {
			if err := tx.Model(&Skill{}).Where("id = ?", id).
				Update("sort_order", index).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
