package http

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
	"gorm.io/gorm"

	"folio/internal/experiences"
)

type experienceParams struct {
	Role         *string  `json:"role"`
	Period       *string  `json:"period"`
	Organization *string  `json:"organization"`
	Icon         *string  `json:"icon"`
	Accent       *string  `json:"accent"`
	Points       []string `json:"points"`
	SortOrder    *int     `json:"sort_order"`
}

func (p *experienceParams) validate(creating bool) ValidationErrors {
	errs := ValidationErrors{}
	if creating || p.Role != nil {
		errs.requireString("role", deref(p.Role), 255)
	}
	if creating || p.Period != nil {
		errs.requireString("period", deref(p.Period), 100)
	}
	if creating || p.Organization != nil {
		errs.requireString("organization", deref(p.Organization), 255)
	}
	if p.Icon != nil {
		errs.capString("icon", *p.Icon, 5000)
	}
	if p.Accent != nil {
		errs.capString("accent", *p.Accent, 20)
	}
	return errs
}

func (p *experienceParams) apply(experience *experiences.Experience) {
	if p.Role != nil {
		experience.Role = *p.Role
	}
	if p.Period != nil {
		experience.Period = *p.Period
	}
	if p.Organization != nil {
		experience.Organization = *p.Organization
	}
	if p.Icon != nil {
		experience.Icon = p.Icon
	}
	if p.Accent != nil {
		experience.Accent = p.Accent
	}
	if p.Points != nil {
		experience.Points = p.Points
	}
	if p.SortOrder != nil {
		experience.SortOrder = *p.SortOrder
	}
}

func ExperiencesIndexAction(ctx *cartridge.Context) error {
	list, err := experiences.List(ctx.DB())
	if err != nil {
		ctx.Logger.Error("Failed to list experiences", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(list)
}

func ExperienceShowAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return notFound(ctx, "Experience")
	}
	experience, err := experiences.FindByID(ctx.DB(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(ctx, "Experience")
		}
		ctx.Logger.Error("Failed to load experience", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(experience)
}

func ExperienceCreateAction(ctx *cartridge.Context) error {
	var params experienceParams
	if err := ctx.BodyParser(&params); err != nil {
		return invalidBody(ctx)
	}
	if errs := params.validate(true); errs.Any() {
		return validationFailed(ctx, errs)
	}

	var experience experiences.Experience
	params.apply(&experience)
	if err := experiences.Create(ctx.DB(), ctx.Logger, &experience); err != nil {
		ctx.Logger.Error("Failed to create experience", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.Status(fiber.StatusCreated).JSON(experience)
}

func ExperienceUpdateAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return notFound(ctx, "Experience")
	}

	experience, err := experiences.FindByID(ctx.DB(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(ctx, "Experience")
		}
		ctx.Logger.Error("Failed to load experience", slog.Any("error", err))
		return serverError(ctx)
	}

	var params experienceParams
	if err := ctx.BodyParser(&params); err != nil {
		return invalidBody(ctx)
	}
	if errs := params.validate(false); errs.Any() {
		return validationFailed(ctx, errs)
	}

	params.apply(experience)
	if err := experiences.Save(ctx.DB(), ctx.Logger, experience); err != nil {
		ctx.Logger.Error("Failed to update experience", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(experience)
}

func ExperienceDeleteAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return notFound(ctx, "Experience")
	}
	if err := experiences.Delete(ctx.DB(), ctx.Logger, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(ctx, "Experience")
		}
		ctx.Logger.Error("Failed to delete experience", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(fiber.Map{"message": "Experience deleted successfully"})
}

func ExperiencesReorderAction(ctx *cartridge.Context) error {
	ids, errs := parseReorderIDs(ctx)
	if errs != nil {
		return validationFailed(ctx, errs)
	}
	if err := experiences.Reorder(ctx.DB(), ctx.Logger, ids); err != nil {
		ctx.Logger.Error("Failed to reorder experiences", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(fiber.Map{"message": "Order updated"})
}
