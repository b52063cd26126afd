package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse sends the standard error envelope. The envelope shape is
// shared by the global error handler and the 404 fallback in main.
func ErrorResponse(c *fiber.Ctx, message string, status int, errorType string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":    status,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}

// NotFoundResponse sends a 404. Rows owned by another user get the same
// response as rows that do not exist, so existence never leaks.
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, message, fiber.StatusNotFound, "notFound")
}

// InvalidInputResponse sends a 400 for malformed or failed-validation input.
func InvalidInputResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, message, fiber.StatusBadRequest, "validation.input")
}

// UpstreamResponse sends a generic 500. The underlying cause is logged by the
// caller, never returned to the client.
func UpstreamResponse(c *fiber.Ctx, errorType string) error {
	return ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, errorType)
}

// SuccessDeleteResponse sends the {success:true} body used by delete routes.
func SuccessDeleteResponse(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Ok        bool   `json:"ok"`
	Timestamp string `json:"timestamp"`
	URL       string `json:"url"`
	Type      string `json:"type,omitempty"`
}
