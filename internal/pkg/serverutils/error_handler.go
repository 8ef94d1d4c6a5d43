package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Domain errors services may return; the handler maps them to HTTP statuses.
var (
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("access denied")
)

// ErrorHandler is installed as the fiber app's global error handler so
// controllers can just return errors.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	case errors.Is(err, ErrNotFound):
		code = fiber.StatusNotFound
		message = err.Error()
	case errors.Is(err, ErrForbidden):
		code = fiber.StatusForbidden
		message = err.Error()
	}

	return ctx.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
