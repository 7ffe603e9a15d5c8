package v1

import (
	"fmt"
	"log/slog"
	"net/mail"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"folio/internal/messages"
)

type contactMessageParams struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (p *contactMessageParams) validate() map[string][]string {
	errs := map[string][]string{}
	add := func(field, msg string) { errs[field] = append(errs[field], msg) }

	if p.Name == "" {
		add("name", "The name field is required.")
	} else if len(p.Name) > messages.MaxNameLength {
		add("name", fmt.Sprintf("The name may not be greater than %d characters.", messages.MaxNameLength))
	}

	if p.Email == "" {
		add("email", "The email field is required.")
	} else {
		if len(p.Email) > messages.MaxEmailLength {
			add("email", fmt.Sprintf("The email may not be greater than %d characters.", messages.MaxEmailLength))
		}
		if _, err := mail.ParseAddress(p.Email); err != nil {
			add("email", "The email must be a valid email address.")
		}
	}

	if p.Message == "" {
		add("message", "The message field is required.")
	} else if len(p.Message) > messages.MaxMessageLength {
		add("message", fmt.Sprintf("The message may not be greater than %d characters.", messages.MaxMessageLength))
	}

	return errs
}

// CreateContactMessageHandler receives a contact form submission from the
// public site. Unlike the page-view beacon this one validates strictly:
// the sender sees the result.
func CreateContactMessageHandler(ctx *cartridge.Context) error {
	var params contactMessageParams
	if err := ctx.BodyParser(&params); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if errs := params.validate(); len(errs) > 0 {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "The given data was invalid.",
			"errors":  errs,
		})
	}

	msg := &messages.ContactMessage{
		Name:    params.Name,
		Email:   params.Email,
		Message: params.Message,
	}
	if err := messages.Create(ctx.DB(), ctx.Logger, msg); err != nil {
		ctx.Logger.Error("Failed to store contact message", slog.Any("error", err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to store message",
		})
	}

	return ctx.Status(fiber.StatusCreated).JSON(msg)
}
