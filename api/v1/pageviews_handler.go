// Package v1 exposes the unauthenticated endpoints the public portfolio
// site talks to: the page-view tracking beacon and the contact form.
package v1

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"folio/internal/pageviews"
)

type pageViewParams struct {
	Page string `json:"page"`
}

// CreatePageViewHandler records a visit from the tracking beacon. The
// beacon is fire-and-forget, so input is normalized rather than
// rejected: a missing page becomes "/" and overlong paths are clamped.
func CreatePageViewHandler(ctx *cartridge.Context) error {
	var params pageViewParams
	// A malformed or empty body still counts as a visit to "/".
	_ = ctx.BodyParser(&params)

	input := &pageviews.RecordInput{
		Page:         params.Page,
		ForwardedFor: ctx.Get("X-Forwarded-For"),
		RemoteIP:     ctx.IP(),
		UserAgent:    ctx.Get("User-Agent"),
		Referrer:     ctx.Get("Referer"),
	}
	if err := pageviews.Record(ctx.DB(), ctx.Logger, input); err != nil {
		ctx.Logger.Error("Failed to record page view", slog.Any("error", err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record page view",
		})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "ok"})
}
