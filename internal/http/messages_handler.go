package http

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
	"gorm.io/gorm"

	"folio/internal/messages"
)

// MessagesIndexAction lists all contact messages, newest first.
func MessagesIndexAction(ctx *cartridge.Context) error {
	msgs, err := messages.List(ctx.DB())
	if err != nil {
		ctx.Logger.Error("Failed to list messages", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(msgs)
}

// MessagesUnreadCountAction returns the number of unread messages, polled
// by the admin layout badge.
func MessagesUnreadCountAction(ctx *cartridge.Context) error {
	count, err := messages.UnreadCount(ctx.DB())
	if err != nil {
		ctx.Logger.Error("Failed to count unread messages", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(fiber.Map{"count": count})
}

// MessageMarkReadAction flips a message's read flag on.
func MessageMarkReadAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return notFound(ctx, "Message")
	}

	msg, err := messages.MarkRead(ctx.DB(), ctx.Logger, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(ctx, "Message")
		}
		ctx.Logger.Error("Failed to mark message read", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(msg)
}

// MessageDeleteAction removes a message.
func MessageDeleteAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return notFound(ctx, "Message")
	}

	if err := messages.Delete(ctx.DB(), ctx.Logger, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(ctx, "Message")
		}
		ctx.Logger.Error("Failed to delete message", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(fiber.Map{"message": "Message deleted"})
}
