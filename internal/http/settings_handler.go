package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"folio/internal/config"
	"folio/internal/settings"
	"folio/internal/uploads"
)

// VisibleSectionsAction returns the ordered list of sections the public
// site should render.
func VisibleSectionsAction(ctx *cartridge.Context) error {
	return ctx.JSON(settings.VisibleSections(ctx.DB()))
}

// HeroContentAction returns the hero block content, or null when it has
// never been customized.
func HeroContentAction(ctx *cartridge.Context) error {
	content, err := settings.HeroContent(ctx.DB())
	if err != nil {
		ctx.Logger.Error("Failed to load hero content", slog.Any("error", err))
		return serverError(ctx)
	}
	if content == nil {
		return ctx.JSON(nil)
	}
	ctx.Ctx.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return ctx.Ctx.Send(content)
}

// SectionStatesAction lists every known section with its label and
// visibility (admin).
func SectionStatesAction(ctx *cartridge.Context) error {
	return ctx.JSON(settings.SectionStates(ctx.DB()))
}

func UpdateVisibleSectionsAction(ctx *cartridge.Context) error {
	var params struct {
		VisibleSections []string `json:"visible_sections"`
	}
	if err := ctx.BodyParser(&params); err != nil {
		return invalidBody(ctx)
	}

	errs := ValidationErrors{}
	if params.VisibleSections == nil {
		errs.Add("visible_sections", "The visible_sections field is required.")
	}
	for _, key := range params.VisibleSections {
		if !settings.IsKnownSection(key) {
			errs.Add("visible_sections", "Unknown section: "+key)
		}
	}
	if errs.Any() {
		return validationFailed(ctx, errs)
	}

	if err := settings.UpdateVisibleSections(ctx.DB(), ctx.Logger, params.VisibleSections); err != nil {
		ctx.Logger.Error("Failed to update visible sections", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(settings.SectionStates(ctx.DB()))
}

func UpdateHeroContentAction(ctx *cartridge.Context) error {
	body := ctx.Ctx.Body()
	if len(body) == 0 || !json.Valid(body) {
		return invalidBody(ctx)
	}

	content := make(json.RawMessage, len(body))
	copy(content, body)
	if err := settings.UpdateHeroContent(ctx.DB(), ctx.Logger, content); err != nil {
		ctx.Logger.Error("Failed to update hero content", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(fiber.Map{"message": "Hero content updated"})
}

// HeroUploadImageAction stores a hero background image (admin). Hero
// images get a tighter size cap than general media uploads.
func HeroUploadImageAction(ctx *cartridge.Context) error {
	file, err := ctx.Ctx.FormFile("file")
	if err != nil {
		errs := ValidationErrors{}
		errs.Add("file", "The file field is required.")
		return validationFailed(ctx, errs)
	}

	cfg := config.GetConfig()
	result, err := uploads.SaveImage(file, filepath.Join(cfg.UploadsDirectory, "hero"), "/uploads/hero")
	if err != nil {
		var verr *uploads.ValidationError
		if errors.As(err, &verr) {
			errs := ValidationErrors{}
			errs.Add("file", verr.Message)
			return validationFailed(ctx, errs)
		}
		ctx.Logger.Error("Failed to store hero image", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(result)
}
