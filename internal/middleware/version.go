package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const currentAPIVersion = "1.0.0"

// VersionMiddleware resolves the X-Api-Version request header into
// c.Locals("apiVersion") and echoes the served version on the response.
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := strings.TrimSpace(c.Get("X-Api-Version"))
		switch version {
		case "", "1", "1.0":
			version = currentAPIVersion
		}

		c.Locals("apiVersion", version)
		c.Set("X-Api-Version", currentAPIVersion)

		return c.Next()
	}
}
