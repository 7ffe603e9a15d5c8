package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"folio/internal/users"
)

type loginParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginAction authenticates an admin and sets the session cookie. The
// error body never says whether the email exists.
func LoginAction(ctx *cartridge.Context) error {
	var params loginParams
	if err := ctx.BodyParser(&params); err != nil {
		return invalidBody(ctx)
	}

	errs := ValidationErrors{}
	errs.requireString("email", params.Email, 255)
	errs.requireString("password", params.Password, 0)
	if errs.Any() {
		return validationFailed(ctx, errs)
	}

	user, ok := users.Authenticate(ctx.DB(), params.Email, params.Password)
	if !ok {
		ctx.Logger.Debug("Failed login attempt", slog.String("email", params.Email))
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid email or password",
		})
	}

	if err := ctx.Session.SetSession(ctx.Ctx, user.ID); err != nil {
		ctx.Logger.Error("Failed to set session", slog.Any("error", err))
		return serverError(ctx)
	}

	ctx.Logger.Debug("Login successful", slog.String("email", user.Email))
	return ctx.JSON(user)
}

// LogoutAction clears the session.
func LogoutAction(ctx *cartridge.Context) error {
	ctx.Session.ClearSession(ctx.Ctx)
	return ctx.JSON(fiber.Map{"message": "Logged out"})
}

// CurrentUserAction returns the authenticated admin.
func CurrentUserAction(ctx *cartridge.Context) error {
	userID, ok := ctx.Session.GetUserID(ctx.Ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthenticated",
		})
	}

	user, err := users.FindByID(ctx.DB(), userID)
	if err != nil {
		ctx.Logger.Error("Failed to load session user", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(user)
}
