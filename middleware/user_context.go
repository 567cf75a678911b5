// middleware/user_context.go
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
)

// UserIDKey is the fiber.Ctx local holding the caller's user id.
const UserIDKey = "user_id"

// UserContextMiddleware copies the X-User-ID header set by the gateway or
// client into the request locals. Requests without the header pass through;
// handlers decide whether an acting user is required.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID := headerUserID(c); userID != "" {
			c.Locals(UserIDKey, userID)
		}
		return c.Next()
	}
}

// UserID returns the acting user: the explicit value when non-blank,
// otherwise the id captured by UserContextMiddleware.
func UserID(c *fiber.Ctx, explicit string) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return fiberutils.CopyString(explicit)
	}
	if v, ok := c.Locals(UserIDKey).(string); ok {
		return v
	}
	return headerUserID(c)
}

// headerUserID copies the header value out of the request buffer, which
// fasthttp reuses once the handler returns.
func headerUserID(c *fiber.Ctx) string {
	return fiberutils.CopyString(strings.TrimSpace(c.Get("X-User-ID")))
}
