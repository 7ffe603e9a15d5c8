// Package projects manages the portfolio's project entries, the richest
// of the content entities: free-form case-study fields plus media lists,
// all stored as JSON columns.
package projects

import (
	"log/slog"
	"time"

	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"
)

// Stat is a headline metric shown on a project card.
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Section is a free-form case-study block.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Project struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"not null" json:"description"`
	Technologies []string  `gorm:"serializer:json" json:"technologies"`
	Image        *string   `json:"image"`
	Category     *string   `gorm:"size:50" json:"category"`
	Link         *string   `gorm:"size:500" json:"link"`
	Github       *string   `gorm:"size:500" json:"github"`
	Videos       []string  `gorm:"serializer:json" json:"videos"`
	Images       []string  `gorm:"serializer:json" json:"images"`
	Stats        []Stat    `gorm:"serializer:json" json:"stats"`
	Skills       []string  `gorm:"serializer:json" json:"skills"`
	Problem      *string   `json:"problem"`
	Solution     []string  `gorm:"serializer:json" json:"solution"`
	Benefits     []string  `gorm:"serializer:json" json:"benefits"`
	Sections     []Section `gorm:"serializer:json" json:"sections"`
	SortOrder    int       `gorm:"index;not null;default:0" json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// List returns all projects in display order.
func List(db *gorm.DB) ([]Project, error) {
	var projects []Project
	err := db.Order("sort_order ASC, created_at DESC").Find(&projects).Error
	return projects, err
}

// FindByID returns one project; gorm.ErrRecordNotFound when absent.
func FindByID(db *gorm.DB, id uint) (*Project, error) {
	var project Project
	if err := db.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func Create(db *gorm.DB, logger *slog.Logger, project *Project) error {
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Create(project).Error
	})
}

// Save persists every field of an already-loaded project.
func Save(db *gorm.DB, logger *slog.Logger, project *Project) error {
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Save(project).Error
	})
}

func Delete(db *gorm.DB, logger *slog.Logger, id uint) error {
	if _, err := FindByID(db, id); err != nil {
		return err
	}
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		return tx.Delete(&Project{}, id).Error
	})
}

// Reorder assigns sort_order by position in ids. Unknown ids are skipped.
func Reorder(db *gorm.DB, logger *slog.Logger, ids []uint) error {
	return sqlite.PerformWrite(logger, db, func(tx *gorm.DB) error {
		for index, id := range ids {
			if err := tx.Model(&Project{}).Where("id = ?", id).
				Update("sort_order", index).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
