package handlers

import (
	"errors"

	"storefront/internal/apperrors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrorHandler renders every error returned by a handler as
// {success: false, message, errors?}. Unexpected errors become 500s; their
// detail is only exposed when exposeDetails is set.
func ErrorHandler(exposeDetails bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		body := fiber.Map{"success": false}

		var appErr *apperrors.AppError
		var fiberErr *fiber.Error
		status := fiber.StatusInternalServerError
		switch {
		case errors.As(err, &appErr):
			status = appErr.Status
			body["message"] = appErr.Message
			if len(appErr.Fields) > 0 {
				body["errors"] = appErr.Fields
			}
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			body["message"] = fiberErr.Message
		default:
			body["message"] = "Internal Server Error"
		}

		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
			if exposeDetails {
				body["error"] = err.Error()
			}
		}
		return c.Status(status).JSON(body)
	}
}

// parseBody decodes the request body into out.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		log.Debug().Err(err).Str("path", c.Path()).Msg("error parsing request body")
		return apperrors.InvalidInput("Invalid request body")
	}
	return nil
}
