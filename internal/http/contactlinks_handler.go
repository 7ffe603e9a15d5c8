package http

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
	"gorm.io/gorm"

	"folio/internal/contactlinks"
)

type contactLinkParams struct {
	Label     *string `json:"label"`
	Href      *string `json:"href"`
	IconSVG   *string `json:"icon_svg"`
	SortOrder *int    `json:"sort_order"`
}

func (p *contactLinkParams) validate(creating bool) ValidationErrors {
	errs := ValidationErrors{}
	if creating || p.Label != nil {
		errs.requireString("label", deref(p.Label), 100)
	}
	if creating || p.Href != nil {
		errs.requireString("href", deref(p.Href), 500)
	}
	return errs
}

func (p *contactLinkParams) apply(link *contactlinks.ContactLink) {
	if p.Label != nil {
		link.Label = *p.Label
	}
	if p.Href != nil {
		link.Href = *p.Href
	}
	if p.IconSVG != nil {
		link.IconSVG = p.IconSVG
	}
	if p.SortOrder != nil {
		link.SortOrder = *p.SortOrder
	}
}

func ContactLinksIndexAction(ctx *cartridge.Context) error {
	list, err := contactlinks.List(ctx.DB())
	if err != nil {
		ctx.Logger.Error("Failed to list contact links", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(list)
}

func ContactLinkCreateAction(ctx *cartridge.Context) error {
	var params contactLinkParams
	if err := ctx.BodyParser(&params); err != nil {
		return invalidBody(ctx)
	}
	if errs := params.validate(true); errs.Any() {
		return validationFailed(ctx, errs)
	}

	var link contactlinks.ContactLink
	params.apply(&link)
	if err := contactlinks.Create(ctx.DB(), ctx.Logger, &link); err != nil {
		ctx.Logger.Error("Failed to create contact link", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.Status(fiber.StatusCreated).JSON(link)
}

func ContactLinkUpdateAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return notFound(ctx, "Contact link")
	}

	link, err := contactlinks.FindByID(ctx.DB(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(ctx, "Contact link")
		}
		ctx.Logger.Error("Failed to load contact link", slog.Any("error", err))
		return serverError(ctx)
	}

	var params contactLinkParams
	if err := ctx.BodyParser(&params); err != nil {
		return invalidBody(ctx)
	}
	if errs := params.validate(false); errs.Any() {
		return validationFailed(ctx, errs)
	}

	params.apply(link)
	if err := contactlinks.Save(ctx.DB(), ctx.Logger, link); err != nil {
		ctx.Logger.Error("Failed to update contact link", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(link)
}

func ContactLinkDeleteAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return notFound(ctx, "Contact link")
	}
	if err := contactlinks.Delete(ctx.DB(), ctx.Logger, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(ctx, "Contact link")
		}
		ctx.Logger.Error("Failed to delete contact link", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(fiber.Map{"message": "Contact link deleted successfully"})
}

func ContactLinksReorderAction(ctx *cartridge.Context) error {
	ids, errs := parseReorderIDs(ctx)
	if errs != nil {
		return validationFailed(ctx, errs)
	}
	if err := contactlinks.Reorder(ctx.DB(), ctx.Logger, ids); err != nil {
		ctx.Logger.Error("Failed to reorder contact links", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(fiber.Map{"message": "Order updated"})
}
