package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"EcoScan-Backend/domain"
	"EcoScan-Backend/internal/api/presenters"
)

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		RequireUser() fiber.Handler
	}

	middleware struct{}
)

func NewMiddleware() Middleware {
	return &middleware{}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, " + domain.HeaderUserID,
	})
}

// RequireUser rejects requests without an X-User-ID header and exposes the
// id to handlers as Locals("user_id").
func (m *middleware) RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get(domain.HeaderUserID))
		if userID == "" {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedMissingUser, domain.ErrMissingUser)
		}
		c.Locals(domain.LocalsUserID, userID)
		return c.Next()
	}
}
