package handlers

import (
	"errors"

	"maisonmarket/internal/domain"

	"github.com/gofiber/fiber/v2"
)

// Every API reply is the same envelope: {success, data} or
// {success, error}. Nothing leaks internals past this boundary.
type apiError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func fail(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   apiError{Code: code, Message: message},
	})
}

func failFields(c *fiber.Ctx, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   apiError{Code: "validation", Message: "invalid input", Fields: fields},
	})
}

// failErr maps domain sentinels onto the envelope; anything unrecognized
// becomes a generic 500 with no detail.
func failErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrForbidden):
		return fail(c, fiber.StatusForbidden, "forbidden", "operation not allowed")
	case errors.Is(err, domain.ErrDefaultRecord):
		return fail(c, fiber.StatusConflict, "default_record", "make another record the default first")
	case errors.Is(err, domain.ErrTransition):
		return fail(c, fiber.StatusConflict, "illegal_transition", "status change not allowed")
	case errors.Is(err, domain.ErrDuplicate):
		return fail(c, fiber.StatusConflict, "duplicate", "resource already exists")
	case errors.Is(err, domain.ErrNotEnoughStock):
		return fail(c, fiber.StatusConflict, "out_of_stock", "not enough stock available")
	case errors.Is(err, domain.ErrValidation):
		return fail(c, fiber.StatusBadRequest, "validation", "invalid input")
	default:
		return fail(c, fiber.StatusInternalServerError, "internal", "something went wrong, please retry")
	}
}
