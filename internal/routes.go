package internal

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/karloscodes/cartridge"
	cartridgemiddleware "github.com/karloscodes/cartridge/middleware"

	v1 "folio/api/v1"
	"folio/internal/config"
	"folio/internal/http"
	"folio/internal/http/middleware"
)

// publicCORSConfig is shared by every public endpoint. The portfolio
// frontend may be served from a different origin than the API, so the
// public surface stays permissive.
var publicCORSConfig = &cors.Config{
	AllowOrigins: "*",
	AllowMethods: "POST,GET,OPTIONS",
	AllowHeaders: "Origin, Content-Type, Accept, Authorization, Referrer, User-Agent",
}

// SetupSession configures session management on the server.
func SetupSession(srv *cartridge.Server) {
	cfg := config.GetConfig()
	sessionMgr := cartridge.NewSessionManager(cartridge.SessionConfig{
		CookieName: cfg.AppName + "_session",
		Secret:     cfg.GetSessionSecret(),
		TTL:        time.Duration(cfg.GetLoginSessionTimeout()) * time.Second,
		Secure:     cfg.IsProduction(),
		LoginPath:  "/login",
	})
	srv.SetSession(sessionMgr)
}

// MountAppRoutes mounts all application routes using cartridge's route API.
func MountAppRoutes(srv *cartridge.Server) {
	SetupSession(srv)

	cfg := config.GetConfig()
	sessionMgr := srv.Session()

	// Rate limiting only applies in production; in development and test
	// it would interfere with rapid-fire requests.
	conditionalRateLimiter := func(limiter fiber.Handler) fiber.Handler {
		return func(c *fiber.Ctx) error {
			if cfg.IsProduction() {
				return limiter(c)
			}
			return c.Next()
		}
	}

	// 70/min per IP covers one visitor browsing the whole portfolio while
	// keeping beacon floods out.
	publicRateLimiter := conditionalRateLimiter(cartridgemiddleware.RateLimiter(
		cartridgemiddleware.WithMax(70),
		cartridgemiddleware.WithDuration(time.Minute),
	))

	// Stricter limit on login to slow down credential guessing.
	authRateLimiter := conditionalRateLimiter(cartridgemiddleware.RateLimiter(
		cartridgemiddleware.WithMax(10),
		cartridgemiddleware.WithDuration(time.Minute),
	))

	// The default global Sec-Fetch-Site check only admits same-origin
	// browser writes, which would 403 every mutation coming from a
	// frontend on another origin and from non-browser clients. Mutating
	// routes opt out of the global check and run this guard instead: it
	// rejects unexpected Sec-Fetch-Site values while letting requests
	// without the header (server-to-server beacons, curl) through.
	secFetchSiteGuard := cartridgemiddleware.SecFetchSiteMiddleware(cartridgemiddleware.SecFetchSiteConfig{
		AllowedValues: []string{"cross-site", "same-site", "same-origin", "none"},
		Methods:       []string{fiber.MethodPost, fiber.MethodDelete},
	})

	// Public read endpoints: portfolio content fetched by the frontend.
	publicConfig := &cartridge.RouteConfig{
		EnableCORS:       true,
		CustomMiddleware: []fiber.Handler{publicRateLimiter},
		CORSConfig:       publicCORSConfig,
	}

	// Public write endpoints: the tracking beacon and the contact form.
	// CORS runs first so rejected requests still carry CORS headers.
	publicAPIConfig := &cartridge.RouteConfig{
		EnableCORS:         true,
		WriteConcurrency:   false,
		EnableSecFetchSite: cartridge.Bool(false),
		CustomMiddleware:   []fiber.Handler{publicRateLimiter, secFetchSiteGuard},
		CORSConfig:         publicCORSConfig,
	}

	adminConfig := &cartridge.RouteConfig{
		EnableSecFetchSite: cartridge.Bool(false),
		CustomMiddleware: []fiber.Handler{
			secFetchSiteGuard,
			middleware.RequireAuth(sessionMgr),
		},
	}

	noContent := func(ctx *cartridge.Context) error {
		return ctx.SendStatus(fiber.StatusNoContent)
	}

	// === HEALTH ===
	srv.Get("/_health", http.HealthIndexAction)
	srv.Head("/_health", http.HealthIndexAction)

	// === PUBLIC CONTENT ===
	srv.Get("/api/projects", http.ProjectsIndexAction, publicConfig)
	srv.Get("/api/projects/:id", http.ProjectShowAction, publicConfig)
	srv.Get("/api/experiences", http.ExperiencesIndexAction, publicConfig)
	srv.Get("/api/experiences/:id", http.ExperienceShowAction, publicConfig)
	srv.Get("/api/services", http.ServicesIndexAction, publicConfig)
	srv.Get("/api/skills", http.SkillsIndexAction, publicConfig)
	srv.Get("/api/contact-links", http.ContactLinksIndexAction, publicConfig)
	srv.Get("/api/settings/visible-sections", http.VisibleSectionsAction, publicConfig)
	srv.Get("/api/settings/hero", http.HeroContentAction, publicConfig)

	// === PUBLIC API (tracking beacon + contact form) ===
	srv.Post("/api/page-views", v1.CreatePageViewHandler, publicAPIConfig)
	srv.Options("/api/page-views", noContent, publicAPIConfig)
	srv.Post("/api/contact-messages", v1.CreateContactMessageHandler, publicAPIConfig)
	srv.Options("/api/contact-messages", noContent, publicAPIConfig)

	// === AUTHENTICATION ===
	loginConfig := &cartridge.RouteConfig{
		EnableSecFetchSite: cartridge.Bool(false),
		CustomMiddleware:   []fiber.Handler{authRateLimiter, secFetchSiteGuard},
	}
	srv.Post("/api/login", http.LoginAction, loginConfig)
	srv.Post("/api/logout", http.LogoutAction, adminConfig)
	srv.Get("/api/user", http.CurrentUserAction, adminConfig)

	// === ADMIN: ANALYTICS ===
	srv.Get("/api/page-views/stats", http.StatsAction, adminConfig)

	// === ADMIN: CONTACT MESSAGES ===
	srv.Get("/api/contact-messages", http.MessagesIndexAction, adminConfig)
	srv.Get("/api/contact-messages/unread-count", http.MessagesUnreadCountAction, adminConfig)
	srv.Post("/api/contact-messages/:id/read", http.MessageMarkReadAction, adminConfig)
	srv.Delete("/api/contact-messages/:id", http.MessageDeleteAction, adminConfig)

	// === ADMIN: CONTENT ===
	srv.Post("/api/projects", http.ProjectCreateAction, adminConfig)
	srv.Post("/api/projects/reorder", http.ProjectsReorderAction, adminConfig)
	srv.Post("/api/projects/upload-file", http.ProjectUploadFileAction, adminConfig)
	srv.Post("/api/projects/:id", http.ProjectUpdateAction, adminConfig)
	srv.Delete("/api/projects/:id", http.ProjectDeleteAction, adminConfig)

	srv.Post("/api/experiences", http.ExperienceCreateAction, adminConfig)
	srv.Post("/api/experiences/reorder", http.ExperiencesReorderAction, adminConfig)
	srv.Post("/api/experiences/:id", http.ExperienceUpdateAction, adminConfig)
	srv.Delete("/api/experiences/:id", http.ExperienceDeleteAction, adminConfig)

	srv.Post("/api/services", http.ServiceCreateAction, adminConfig)
	srv.Post("/api/services/reorder", http.ServicesReorderAction, adminConfig)
	srv.Post("/api/services/:id", http.ServiceUpdateAction, adminConfig)
	srv.Delete("/api/services/:id", http.ServiceDeleteAction, adminConfig)

	srv.Post("/api/skills", http.SkillCreateAction, adminConfig)
	srv.Post("/api/skills/reorder", http.SkillsReorderAction, adminConfig)
	srv.Post("/api/skills/:id", http.SkillUpdateAction, adminConfig)
	srv.Delete("/api/skills/:id", http.SkillDeleteAction, adminConfig)

	srv.Post("/api/contact-links", http.ContactLinkCreateAction, adminConfig)
	srv.Post("/api/contact-links/reorder", http.ContactLinksReorderAction, adminConfig)
	srv.Post("/api/contact-links/:id", http.ContactLinkUpdateAction, adminConfig)
	srv.Delete("/api/contact-links/:id", http.ContactLinkDeleteAction, adminConfig)

	// === ADMIN: SETTINGS ===
	srv.Get("/api/settings/sections", http.SectionStatesAction, adminConfig)
	srv.Post("/api/settings/sections", http.UpdateVisibleSectionsAction, adminConfig)
	srv.Post("/api/settings/hero", http.UpdateHeroContentAction, adminConfig)
	srv.Post("/api/settings/hero/upload-image", http.HeroUploadImageAction, adminConfig)
}
