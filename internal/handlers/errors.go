package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Windi-Fikriyansyah/gigboard/internal/services/lifecycle"
)

func statusFor(kind lifecycle.Kind) int {
	switch kind {
	case lifecycle.KindForbidden:
		return fiber.StatusForbidden
	case lifecycle.KindInvalidInput:
		return fiber.StatusBadRequest
	case lifecycle.KindConflict:
		return fiber.StatusConflict
	case lifecycle.KindNotFound:
		return fiber.StatusNotFound
	case lifecycle.KindUnauthenticated:
		return fiber.StatusUnauthorized
	case lifecycle.KindStorageUnavailable:
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler renders every error in the {success,message,errors} envelope.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var le *lifecycle.Error
		if errors.As(err, &le) {
			if le.Kind == lifecycle.KindStorageUnavailable {
				logger.Error("storage unavailable",
					zap.String("method", c.Method()),
					zap.String("path", c.Path()),
					zap.Error(le.Unwrap()),
					zap.ByteString("stack", le.StackTrace()))
			}
			body := fiber.Map{
				"success": false,
				"message": le.Message,
				"code":    le.Kind,
			}
			if len(le.Fields) > 0 {
				body["errors"] = le.Fields
			}
			return c.Status(statusFor(le.Kind)).JSON(body)
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{
				"success": false,
				"message": fe.Message,
			})
		}

		logger.Error("unhandled error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "internal server error",
		})
	}
}

func invalidBody() error {
	return fiber.NewError(fiber.StatusBadRequest, "invalid body")
}

func badID(field string) error {
	fields := lifecycle.FieldErrors{}
	fields.Add(field, "must be a valid id")
	return lifecycle.InvalidInput("invalid "+field, fields)
}
