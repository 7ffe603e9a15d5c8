package http

import (
	"fmt"
	"net/mail"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
)

// ValidationErrors collects per-field messages for a 422 response.
type ValidationErrors map[string][]string

func (v ValidationErrors) Add(field, message string) {
	v[field] = append(v[field], message)
}

func (v ValidationErrors) Any() bool { return len(v) > 0 }

// requireString validates a required string field with a length cap
// (0 means unbounded).
func (v ValidationErrors) requireString(field, value string, max int) {
	if value == "" {
		v.Add(field, fmt.Sprintf("The %s field is required.", field))
		return
	}
	v.capString(field, value, max)
}

// capString validates only the length cap for optional fields.
func (v ValidationErrors) capString(field, value string, max int) {
	if max > 0 && len(value) > max {
		v.Add(field, fmt.Sprintf("The %s may not be greater than %d characters.", field, max))
	}
}

func (v ValidationErrors) requireEmail(field, value string, max int) {
	v.requireString(field, value, max)
	if value == "" {
		return
	}
	if _, err := mail.ParseAddress(value); err != nil {
		v.Add(field, fmt.Sprintf("The %s must be a valid email address.", field))
	}
}

func validationFailed(ctx *cartridge.Context, errs ValidationErrors) error {
	return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"message": "The given data was invalid.",
		"errors":  errs,
	})
}

func invalidBody(ctx *cartridge.Context) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid request body",
	})
}

func notFound(ctx *cartridge.Context, what string) error {
	return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": what + " not found",
	})
}

func serverError(ctx *cartridge.Context) error {
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}
