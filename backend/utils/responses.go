package utils

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"skillpath/backend/progress"
)

type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func Success(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(SuccessResponse{
		Success: true,
		Data:    data,
	})
}

func Error(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(ErrorResponse{
		Success: false,
		Error:   http.StatusText(status),
		Message: err.Error(),
	})
}

func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, fiber.NewError(fiber.StatusNotFound, message))
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, fiber.NewError(fiber.StatusBadRequest, message))
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, fiber.NewError(fiber.StatusUnauthorized, message))
}

func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, fiber.NewError(fiber.StatusForbidden, message))
}

// EngineError maps a progress-engine error onto the matching HTTP response.
func EngineError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, progress.ErrNotFound):
		return Error(c, fiber.StatusNotFound, err)
	case errors.Is(err, progress.ErrUnauthenticated):
		return Error(c, fiber.StatusUnauthorized, err)
	case errors.Is(err, progress.ErrStoreUnavailable):
		return Error(c, fiber.StatusServiceUnavailable, err)
	default:
		return Error(c, fiber.StatusInternalServerError, err)
	}
}
