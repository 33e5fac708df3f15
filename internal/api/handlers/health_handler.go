package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const healthTimeout = 2 * time.Second

type (
	HealthHandler interface {
		Ping(c *fiber.Ctx) error
		Health(c *fiber.Ctx) error
	}

	healthHandler struct {
		db    *gorm.DB
		redis *goredis.Client
	}
)

func NewHealthHandler(db *gorm.DB, redis *goredis.Client) HealthHandler {
	return &healthHandler{db: db, redis: redis}
}

func (h *healthHandler) Ping(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "pong"})
}

// Health reports postgres and redis reachability. Any failing dependency
// turns the response into a 503.
func (h *healthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), healthTimeout)
	defer cancel()

	checks := fiber.Map{"database": "ok", "redis": "ok"}
	status := fiber.StatusOK

	if err := h.pingDB(ctx); err != nil {
		checks["database"] = err.Error()
		status = fiber.StatusServiceUnavailable
	}
	if err := h.redis.Ping(ctx).Err(); err != nil {
		checks["redis"] = err.Error()
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status": status == fiber.StatusOK,
		"checks": checks,
	})
}

func (h *healthHandler) pingDB(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
