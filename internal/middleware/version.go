package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// CurrentAPIVersion is the query contract version served by the gateway.
const CurrentAPIVersion = "1.0.0"

// VersionMiddleware parses the X-Api-Version header, stores it in context
// and echoes the served version back.
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := c.Get("X-Api-Version", CurrentAPIVersion)

		// Support version aliases
		if version == "1" || version == "1.0" {
			version = CurrentAPIVersion
		}
		if version != CurrentAPIVersion {
			return fiber.NewError(fiber.StatusNotAcceptable, "unsupported api version "+version)
		}

		c.Locals("apiVersion", version)
		c.Set("X-Api-Version", CurrentAPIVersion)

		return c.Next()
	}
}
