package middleware

import (
	"errors"

	"go-tailor-inventory/internal/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// ErrorHandler renders any error returned by a handler as {status, message}.
// Internal causes are logged and never sent to the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(ErrorResponse{Status: fiberErr.Code, Message: fiberErr.Message})
	}

	appErr := apperror.As(err)
	if appErr.Kind == apperror.KindInternal {
		zerolog.Ctx(c.UserContext()).Error().
			Err(appErr.Err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("internal error")
	}

	status := appErr.Status()
	return c.Status(status).JSON(ErrorResponse{Status: status, Message: appErr.Message})
}
