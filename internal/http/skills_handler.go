package http

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
	"gorm.io/gorm"

	"folio/internal/skills"
)

type skillParams struct {
	Category  *string  `json:"category"`
	Icon      *string  `json:"icon"`
	Accent    *string  `json:"accent"`
	Items     []string `json:"items"`
	SortOrder *int     `json:"sort_order"`
}

func (p *skillParams) validate(creating bool) ValidationErrors {
	errs := ValidationErrors{}
	if creating || p.Category != nil {
		errs.requireString("category", deref(p.Category), 255)
	}
	if p.Icon != nil {
		errs.capString("icon", *p.Icon, 5000)
	}
	if p.Accent != nil {
		errs.capString("accent", *p.Accent, 20)
	}
	return errs
}

func (p *skillParams) apply(skill *skills.Skill) {
	if p.Category != nil {
		skill.Category = *p.Category
	}
	if p.Icon != nil {
		skill.Icon = p.Icon
	}
	if p.Accent != nil {
		skill.Accent = p.Accent
	}
	if p.Items != nil {
		skill.Items = p.Items
	}
	if p.SortOrder != nil {
		skill.SortOrder = *p.SortOrder
	}
}

func SkillsIndexAction(ctx *cartridge.Context) error {
	list, err := skills.List(ctx.DB())
	if err != nil {
		ctx.Logger.Error("Failed to list skills", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(list)
}

func SkillCreateAction(ctx *cartridge.Context) error {
	var params skillParams
	if err := ctx.BodyParser(&params); err != nil {
		return invalidBody(ctx)
	}
	if errs := params.validate(true); errs.Any() {
		return validationFailed(ctx, errs)
	}

	var skill skills.Skill
	params.apply(&skill)
	if err := skills.Create(ctx.DB(), ctx.Logger, &skill); err != nil {
		ctx.Logger.Error("Failed to create skill", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.Status(fiber.StatusCreated).JSON(skill)
}

func SkillUpdateAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return notFound(ctx, "Skill")
	}

	skill, err := skills.FindByID(ctx.DB(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(ctx, "Skill")
		}
		ctx.Logger.Error("Failed to load skill", slog.Any("error", err))
		return serverError(ctx)
	}

	var params skillParams
	if err := ctx.BodyParser(&params); err != nil {
		return invalidBody(ctx)
	}
	if errs := params.validate(false); errs.Any() {
		return validationFailed(ctx, errs)
	}

	params.apply(skill)
	if err := skills.Save(ctx.DB(), ctx.Logger, skill); err != nil {
		ctx.Logger.Error("Failed to update skill", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(skill)
}

func SkillDeleteAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return notFound(ctx, "Skill")
	}
	if err := skills.Delete(ctx.DB(), ctx.Logger, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(ctx, "Skill")
		}
		ctx.Logger.Error("Failed to delete skill", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(fiber.Map{"message": "Skill deleted successfully"})
}

func SkillsReorderAction(ctx *cartridge.Context) error {
	ids, errs := parseReorderIDs(ctx)
	if errs != nil {
		return validationFailed(ctx, errs)
	}
	if err := skills.Reorder(ctx.DB(), ctx.Logger, ids); err != nil {
		ctx.Logger.Error("Failed to reorder skills", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(fiber.Map{"message": "Order updated"})
}
