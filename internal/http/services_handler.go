package http

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
	"gorm.io/gorm"

	"folio/internal/services"
)

type serviceParams struct {
	Number      *string  `json:"number"`
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Items       []string `json:"items"`
	Icon        *string  `json:"icon"`
	SortOrder   *int     `json:"sort_order"`
}

func (p *serviceParams) validate(creating bool) ValidationErrors {
	errs := ValidationErrors{}
	if creating || p.Number != nil {
		errs.requireString("number", deref(p.Number), 10)
	}
	if creating || p.Title != nil {
		errs.requireString("title", deref(p.Title), 255)
	}
	if creating || p.Description != nil {
		errs.requireString("description", deref(p.Description), 0)
	}
	if p.Icon != nil {
		errs.capString("icon", *p.Icon, 5000)
	}
	return errs
}

func (p *serviceParams) apply(service *services.Service) {
	if p.Number != nil {
		service.Number = *p.Number
	}
	if p.Title != nil {
		service.Title = *p.Title
	}
	if p.Description != nil {
		service.Description = *p.Description
	}
	if p.Items != nil {
		service.Items = p.Items
	}
	if p.Icon != nil {
		service.Icon = p.Icon
	}
	if p.SortOrder != nil {
		service.SortOrder = *p.SortOrder
	}
}

func ServicesIndexAction(ctx *cartridge.Context) error {
	list, err := services.List(ctx.DB())
	if err != nil {
		ctx.Logger.Error("Failed to list services", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(list)
}

func ServiceCreateAction(ctx *cartridge.Context) error {
	var params serviceParams
	if err := ctx.BodyParser(&params); err != nil {
		return invalidBody(ctx)
	}
	if errs := params.validate(true); errs.Any() {
		return validationFailed(ctx, errs)
	}

	var service services.Service
	params.apply(&service)
	if err := services.Create(ctx.DB(), ctx.Logger, &service); err != nil {
		ctx.Logger.Error("Failed to create service", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.Status(fiber.StatusCreated).JSON(service)
}

func ServiceUpdateAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return notFound(ctx, "Service")
	}

	service, err := services.FindByID(ctx.DB(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(ctx, "Service")
		}
		ctx.Logger.Error("Failed to load service", slog.Any("error", err))
		return serverError(ctx)
	}

	var params serviceParams
	if err := ctx.BodyParser(&params); err != nil {
		return invalidBody(ctx)
	}
	if errs := params.validate(false); errs.Any() {
		return validationFailed(ctx, errs)
	}

	params.apply(service)
	if err := services.Save(ctx.DB(), ctx.Logger, service); err != nil {
		ctx.Logger.Error("Failed to update service", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(service)
}

func ServiceDeleteAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return notFound(ctx, "Service")
	}
	if err := services.Delete(ctx.DB(), ctx.Logger, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(ctx, "Service")
		}
		ctx.Logger.Error("Failed to delete service", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(fiber.Map{"message": "Service deleted successfully"})
}

func ServicesReorderAction(ctx *cartridge.Context) error {
	ids, errs := parseReorderIDs(ctx)
	if errs != nil {
		return validationFailed(ctx, errs)
	}
	if err := services.Reorder(ctx.DB(), ctx.Logger, ids); err != nil {
		ctx.Logger.Error("Failed to reorder services", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(fiber.Map{"message": "Order updated"})
}
