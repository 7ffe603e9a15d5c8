// Package settings holds site configuration as a key-value store: which
// portfolio sections are visible and the hero block content. Reads of the
// visible-sections list go through a short-lived cache since the public
// frontend asks for it on every page load.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/karloscodes/cartridge/cache"
	"github.com/karloscodes/cartridge/sqlite"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// Setting represents a configuration item in the database
type Setting struct {
	ID        uint      `gorm:"primaryKey"`
	Key       string    `gorm:"uniqueIndex;not null"`
	Value     string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:milli"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:milli"`
}

const (
	KeyVisibleSections = "visible_sections"
	KeyHeroContent     = "hero_content"
)

// AllSections is every section the frontend knows how to render, in
// display order. The visible-sections setting is always a subset.
var AllSections = []string{"hero", "about", "experience", "services", "projects", "contact"}

// sectionLabels maps section keys to their admin display labels. Keys
// without an entry fall back to a title-cased key.
var sectionLabels = map[string]string{
	"hero":       "Hero",
	"about":      "About",
	"experience": "Experiences",
	"services":   "Services",
	"projects":   "Projects",
	"contact":    "Contact",
}

var titleCaser = cases.Title(language.English)

var visibleSectionsCache *cache.Cache[string, []string]

// SectionState is one section with its visibility flag, for the admin UI.
type SectionState struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Visible bool   `json:"visible"`
}

// SetupDefaultSettings seeds the default settings and primes the cache.
func SetupDefaultSettings(dbConn *gorm.DB) error {
	defaultSections, err := json.Marshal(AllSections)
	if err != nil {
		return fmt.Errorf("failed to marshal default sections: %w", err)
	}

	defaults := []Setting{
		{Key: KeyVisibleSections, Value: string(defaultSections)},
	}
	err = sqlite.PerformWrite(slog.Default(), dbConn, func(tx *gorm.DB) error {
		for _, setting := range defaults {
			err := tx.Exec(`
                INSERT INTO settings (key, value, created_at, updated_at)
                VALUES (?, ?, ?, ?)
                ON CONFLICT(key) DO NOTHING
            `, setting.Key, setting.Value, time.Now().UTC(), time.Now().UTC()).Error
			if err != nil {
				return fmt.Errorf("failed to upsert setting %s: %w", setting.Key, err)
			}
		}
		return nil
	})

	loadCache(dbConn, slog.Default())

	return err
}

// GetSetting retrieves a setting value from the database
func GetSetting(dbConn *gorm.DB, key string) (string, error) {
	var setting Setting
	result := dbConn.Where("key = ?", key).First(&setting)

	if result.Error != nil {
		return "", result.Error
	}

	return setting.Value, nil
}

// UpdateSetting writes a setting, creating it when missing, and drops the
// section cache so the next read sees the new value.
func UpdateSetting(dbConn *gorm.DB, logger *slog.Logger, key string, value string) error {
	err := sqlite.PerformWrite(logger, dbConn, func(tx *gorm.DB) error {
		result := tx.Model(&Setting{}).Where("key = ?", key).Update("value", value)
		if result.Error != nil {
			return fmt.Errorf("failed to update setting: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			setting := Setting{Key: key, Value: value}
			if err := tx.Create(&setting).Error; err != nil {
				return fmt.Errorf("failed to create setting: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if visibleSectionsCache != nil {
		visibleSectionsCache.Clear()
	}
	return nil
}

// VisibleSections returns the sections the public frontend should render.
// Falls back to all sections when the setting is missing or unparseable.
func VisibleSections(dbConn *gorm.DB) []string {
	if visibleSectionsCache == nil {
		loadCache(dbConn, slog.Default())
	}

	sections, err := visibleSectionsCache.Get(KeyVisibleSections)
	if err != nil || sections == nil {
		return AllSections
	}
	return sections
}

// UpdateVisibleSections stores the new visible-section list.
func UpdateVisibleSections(dbConn *gorm.DB, logger *slog.Logger, sections []string) error {
	value, err := json.Marshal(sections)
	if err != nil {
		return fmt.Errorf("failed to marshal sections: %w", err)
	}
	return UpdateSetting(dbConn, logger, KeyVisibleSections, string(value))
}

// IsKnownSection reports whether key names a renderable section.
func IsKnownSection(key string) bool {
	for _, s := range AllSections {
		if s == key {
			return true
		}
	}
	return false
}

// SectionStates returns every section with its visibility flag.
func SectionStates(dbConn *gorm.DB) []SectionState {
	visible := VisibleSections(dbConn)
	visibleSet := make(map[string]bool, len(visible))
	for _, key := range visible {
		visibleSet[key] = true
	}

	states := make([]SectionState, 0, len(AllSections))
	for _, key := range AllSections {
		states = append(states, SectionState{
			Key:     key,
			Label:   SectionLabel(key),
			Visible: visibleSet[key],
		})
	}
	return states
}

// SectionLabel returns the admin display label for a section key.
func SectionLabel(key string) string {
	if label, ok := sectionLabels[key]; ok {
		return label
	}
	return titleCaser.String(key)
}

// HeroContent returns the stored hero block as raw JSON, or nil when it
// has never been set.
func HeroContent(dbConn *gorm.DB) (json.RawMessage, error) {
	value, err := GetSetting(dbConn, KeyHeroContent)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	if value == "" {
		return nil, nil
	}
	return json.RawMessage(value), nil
}

// UpdateHeroContent stores the hero block.
func UpdateHeroContent(dbConn *gorm.DB, logger *slog.Logger, content json.RawMessage) error {
	return UpdateSetting(dbConn, logger, KeyHeroContent, string(content))
}

func loadCache(dbConn *gorm.DB, logger *slog.Logger) {
	fetchFunc := func(key string) ([]string, error) {
		var value string
		err := dbConn.WithContext(context.Background()).
			Raw("SELECT value FROM settings WHERE key = ? LIMIT 1", key).Scan(&value).Error
		if err != nil {
			return nil, err
		}
		if value == "" {
			return AllSections, nil
		}
		var sections []string
		if err := json.Unmarshal([]byte(value), &sections); err != nil {
			return AllSections, nil
		}
		return sections, nil
	}
	visibleSectionsCache = cache.NewCache[string, []string](logger, 5*time.Minute, fetchFunc)
}

// ResetCacheForTest drops the section cache so tests observe writes done
// directly against the database.
func ResetCacheForTest() {
	visibleSectionsCache = nil
}
