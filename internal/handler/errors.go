package handler

import (
	"errors"

	"go-shop-ms/internal/apperr"
	"go-shop-ms/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler maps apperr kinds to statuses. Server errors are logged with
// their cause and answered with a generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	kind := apperr.KindOf(err)
	if kind == apperr.KindServer {
		middleware.Logger(c).Error("request_failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(kind.Status()).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	var ae *apperr.Error
	errors.As(err, &ae)
	return c.Status(kind.Status()).JSON(fiber.Map{"error": ae.Message})
}

func invalidJSON() error {
	return apperr.Validation("invalid JSON")
}
