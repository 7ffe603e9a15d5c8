// Package seeder fills an empty database with demo portfolio content and
// a plausible page-view history so the admin dashboard has something to
// show on a fresh install.
package seeder

import (
	"context"
	_ "embed"
	"fmt"
	"math/rand/v2"
	"time"

	"log/slog"

	"github.com/karloscodes/cartridge"
	"github.com/karloscodes/cartridge/sqlite"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"folio/internal/contactlinks"
	"folio/internal/experiences"
	"folio/internal/messages"
	"folio/internal/pageviews"
	"folio/internal/projects"
	"folio/internal/services"
	"folio/internal/skills"
)

//go:embed content.yml
var demoContent []byte

// Seeder inserts demo content and synthetic traffic.
type Seeder struct {
	DBManager cartridge.DBManager
	Logger    *slog.Logger
	ViewCount int
}

// NewSeeder creates a new seeder instance.
func NewSeeder(dbManager cartridge.DBManager, logger *slog.Logger, viewCount int) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		DBManager: dbManager,
		Logger:    logger,
		ViewCount: viewCount,
	}
}

type demoProject struct {
	Title        string          `yaml:"title"`
	Description  string          `yaml:"description"`
	Category     string          `yaml:"category"`
	Link         string          `yaml:"link"`
	Github       string          `yaml:"github"`
	Technologies []string        `yaml:"technologies"`
	Skills       []string        `yaml:"skills"`
	Stats        []projects.Stat `yaml:"stats"`
	Problem      string          `yaml:"problem"`
	Solution     []string        `yaml:"solution"`
	Benefits     []string        `yaml:"benefits"`
	Sections     []demoSection   `yaml:"sections"`
}

type demoSection struct {
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

type demoExperience struct {
	Role         string   `yaml:"role"`
	Period       string   `yaml:"period"`
	Organization string   `yaml:"organization"`
	Accent       string   `yaml:"accent"`
	Points       []string `yaml:"points"`
}

type demoService struct {
	Number      string   `yaml:"number"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Items       []string `yaml:"items"`
}

type demoSkill struct {
	Category string   `yaml:"category"`
	Items    []string `yaml:"items"`
	Accent   string   `yaml:"accent"`
}

type demoContactLink struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

type demoData struct {
	Projects     []demoProject     `yaml:"projects"`
	Experiences  []demoExperience  `yaml:"experiences"`
	Services     []demoService     `yaml:"services"`
	Skills       []demoSkill       `yaml:"skills"`
	ContactLinks []demoContactLink `yaml:"contact_links"`
}

// Seed populates content tables (only when they are empty) and generates
// synthetic page-view traffic on top.
func (s *Seeder) Seed(ctx context.Context) error {
	start := time.Now()
	s.Logger.Info("Seeding demo data...", slog.Int("viewCount", s.ViewCount))

	if err := s.SeedContent(); err != nil {
		return err
	}
	if err := s.SeedTraffic(ctx); err != nil {
		return err
	}

	s.Logger.Info("Seeding completed", slog.Duration("elapsed", time.Since(start)))
	return nil
}

// SeedContent inserts the embedded demo portfolio. Tables that already
// hold rows are left alone so reseeding never clobbers real content.
func (s *Seeder) SeedContent() error {
	var data demoData
	if err := yaml.Unmarshal(demoContent, &data); err != nil {
		return fmt.Errorf("failed to parse embedded demo content: %w", err)
	}

	db := s.DBManager.GetConnection()

	if empty, err := tableEmpty(db, &projects.Project{}); err != nil {
		return err
	} else if empty {
		for i, p := range data.Projects {
			project := &projects.Project{
				Title:        p.Title,
				Description:  p.Description,
				Category:     optional(p.Category),
				Link:         optional(p.Link),
				Github:       optional(p.Github),
				Technologies: p.Technologies,
				Skills:       p.Skills,
				Stats:        p.Stats,
				Problem:      optional(p.Problem),
				Solution:     p.Solution,
				Benefits:     p.Benefits,
				SortOrder:    i,
			}
			for _, sec := range p.Sections {
				project.Sections = append(project.Sections, projects.Section{Title: sec.Title, Content: sec.Content})
			}
			if err := projects.Create(db, s.Logger, project); err != nil {
				return fmt.Errorf("failed to seed project %q: %w", p.Title, err)
			}
		}
		s.Logger.Info("Seeded projects", slog.Int("count", len(data.Projects)))
	}

	if empty, err := tableEmpty(db, &experiences.Experience{}); err != nil {
		return err
	} else if empty {
		for i, e := range data.Experiences {
			experience := &experiences.Experience{
				Role:         e.Role,
				Period:       e.Period,
				Organization: e.Organization,
				Accent:       optional(e.Accent),
				Points:       e.Points,
				SortOrder:    i,
			}
			if err := experiences.Create(db, s.Logger, experience); err != nil {
				return fmt.Errorf("failed to seed experience %q: %w", e.Role, err)
			}
		}
		s.Logger.Info("Seeded experiences", slog.Int("count", len(data.Experiences)))
	}

	if empty, err := tableEmpty(db, &services.Service{}); err != nil {
		return err
	} else if empty {
		for i, sv := range data.Services {
			service := &services.Service{
				Number:      sv.Number,
				Title:       sv.Title,
				Description: sv.Description,
				Items:       sv.Items,
				SortOrder:   i,
			}
			if err := services.Create(db, s.Logger, service); err != nil {
				return fmt.Errorf("failed to seed service %q: %w", sv.Title, err)
			}
		}
		s.Logger.Info("Seeded services", slog.Int("count", len(data.Services)))
	}

	if empty, err := tableEmpty(db, &skills.Skill{}); err != nil {
		return err
	} else if empty {
		for i, sk := range data.Skills {
			skill := &skills.Skill{
				Category:  sk.Category,
				Items:     sk.Items,
				Accent:    optional(sk.Accent),
				SortOrder: i,
			}
			if err := skills.Create(db, s.Logger, skill); err != nil {
				return fmt.Errorf("failed to seed skill %q: %w", sk.Category, err)
			}
		}
		s.Logger.Info("Seeded skills", slog.Int("count", len(data.Skills)))
	}

	if empty, err := tableEmpty(db, &contactlinks.ContactLink{}); err != nil {
		return err
	} else if empty {
		for i, l := range data.ContactLinks {
			link := &contactlinks.ContactLink{
				Label:     l.Label,
				Href:      l.Href,
				SortOrder: i,
			}
			if err := contactlinks.Create(db, s.Logger, link); err != nil {
				return fmt.Errorf("failed to seed contact link %q: %w", l.Label, err)
			}
		}
		s.Logger.Info("Seeded contact links", slog.Int("count", len(data.ContactLinks)))
	}

	if empty, err := tableEmpty(db, &messages.ContactMessage{}); err != nil {
		return err
	} else if empty {
		demo := &messages.ContactMessage{
			Name:    "Dana Whitfield",
			Email:   "dana@example.com",
			Message: "Hi! Saw your Ledgerline write-up and would love to talk about a similar build for our team.",
		}
		if err := messages.Create(db, s.Logger, demo); err != nil {
			return fmt.Errorf("failed to seed contact message: %w", err)
		}
	}

	return nil
}

// Traffic shape for the synthetic visit log.
var (
	journeyTemplates = [][]string{
		{"/", "/#hero", "/#about"},
		{"/", "/#hero", "/#about", "/#experience", "/#projects"},
		{"/", "/#projects", "/#contact"},
		{"/", "/#about", "/#services", "/#contact"},
		{"/", "/#hero", "/#about", "/#experience", "/#services", "/#projects", "/#contact"},
		{"/"},
		{"/", "/#services"},
	}

	seedUserAgents = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:127.0) Gecko/20100101 Firefox/127.0",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36 Edg/126.0.0.0",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Mobile/15E148 Safari/604.1",
		"Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Mobile Safari/537.36",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36 OPR/111.0.0.0",
	}

	seedReferrers = []string{
		"https://www.google.com/",
		"https://github.com/example",
		"https://www.linkedin.com/",
		"https://news.ycombinator.com/",
		"", // direct
		"",
		"",
	}
)

// SeedTraffic writes ViewCount synthetic page views spread over the last
// 90 days. Visits come in short journeys from a stable IP pool so the
// session and returning-visitor stats look like real traffic.
func (s *Seeder) SeedTraffic(ctx context.Context) error {
	db := s.DBManager.GetConnection()
	ipPool := generateIPPool(80)
	now := time.Now().UTC()

	created := 0
	var batch []pageviews.PageView

	for created < s.ViewCount {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		ip := ipPool[rand.IntN(len(ipPool))]
		journey := journeyTemplates[rand.IntN(len(journeyTemplates))]
		ua := seedUserAgents[rand.IntN(len(seedUserAgents))]
		referrer := seedReferrers[rand.IntN(len(seedReferrers))]

		// Bias visit times toward recent days and working hours.
		daysAgo := rand.IntN(90)
		if rand.IntN(3) == 0 {
			daysAgo = rand.IntN(7)
		}
		at := now.AddDate(0, 0, -daysAgo).
			Truncate(24 * time.Hour).
			Add(time.Duration(8+rand.IntN(14)) * time.Hour).
			Add(time.Duration(rand.IntN(60)) * time.Minute)

		for _, page := range journey {
			if created >= s.ViewCount {
				break
			}
			view := pageviews.PageView{
				Page:      page,
				IP:        ip,
				CreatedAt: at,
			}
			if ua != "" {
				view.UserAgent = &ua
			}
			if referrer != "" {
				view.Referrer = &referrer
			}
			batch = append(batch, view)
			created++
			// A page or two per minute keeps the whole journey inside
			// one session.
			at = at.Add(time.Duration(30+rand.IntN(120)) * time.Second)
		}

		if len(batch) >= 500 {
			if err := s.flush(db, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := s.flush(db, batch); err != nil {
			return err
		}
	}

	s.Logger.Info("Seeded page views", slog.Int("count", created))
	return nil
}

func (s *Seeder) flush(db *gorm.DB, batch []pageviews.PageView) error {
	return sqlite.PerformWrite(s.Logger, db, func(tx *gorm.DB) error {
		return tx.CreateInBatches(batch, 100).Error
	})
}

func tableEmpty(db *gorm.DB, model interface{}) (bool, error) {
	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

func generateIPPool(size int) []string {
	pool := make([]string, 0, size)
	for i := 0; i < size; i++ {
		pool = append(pool, fmt.Sprintf("%d.%d.%d.%d",
			rand.IntN(223)+1, rand.IntN(256), rand.IntN(256), rand.IntN(256)))
	}
	return pool
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
