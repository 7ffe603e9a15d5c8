// Package contactlinks manages the external contact links shown in the
// portfolio footer.
package contactlinks

import (
	"log/slog"
	"time"

	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"
)

type ContactLink struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Label     string    `gorm:"size:100;not null" json:"label"`
	Href      string    `gorm:"size:500;not null" json:"href"`
	IconSVG   *string   `gorm:"column:icon_svg" json:"icon_svg"`
	SortOrder int       `gorm:"index;not null;default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func List(db *gorm.DB) ([]ContactLink, error) {
	var links []ContactLink
	err := db.Order("sort_order ASC").Find(&links).Error
	return links, err
}

func FindByID(db *gorm.DB, id uint) (*ContactLink, error) {
	var link ContactLink
	if err := db.First(&link, id).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func Create(db *gorm.DB, logger *slog.Logger, link *ContactLink) error {
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Create(link).Error
	})
}

func Save(db *gorm.DB, logger *slog.Logger, link *ContactLink) error {
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Save(link).Error
	})
}

func Delete(db *gorm.DB, logger *slog.Logger, id uint) error {
	if _, err := FindByID(db, id); err != nil {
		return err
	}
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Delete(&ContactLink{}, id).Error
	})
}

func Reorder(db *gorm.DB, logger *slog.Logger, ids []uint) error {
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		for index, id := range ids {
			if err := tx.Model(&ContactLink{}).Where("id = ?", id).
				Update("sort_order", index).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
