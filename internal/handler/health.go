package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Version is reported by the readiness check.
const Version = "1.0.0"

type HealthHandler struct {
	pool    *pgxpool.Pool
	rdb     *redis.Client
	startAt time.Time
}

func NewHealthHandler(pool *pgxpool.Pool, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{
		pool:    pool,
		rdb:     rdb,
		startAt: time.Now(),
	}
}

// Live handles GET /health/live
func (h *HealthHandler) Live(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready handles GET /health/ready
//
// The database is required. The player cache is optional, so a missing or
// unreachable Redis degrades the status without failing the check.
func (h *HealthHandler) Ready(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	db := checkDB(ctx, h.pool)
	cache := checkRedis(ctx, h.rdb)

	overall := "healthy"
	status := fiber.StatusOK
	switch {
	case db["status"] != "up":
		overall = "unhealthy"
		status = fiber.StatusServiceUnavailable
	case cache["status"] == "down":
		overall = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":         overall,
		"checks":         fiber.Map{"database": db, "cache": cache},
		"uptime_seconds": int(time.Since(h.startAt).Seconds()),
		"version":        Version,
	})
}

func checkDB(ctx context.Context, pool *pgxpool.Pool) fiber.Map {
	if pool == nil {
		return fiber.Map{"status": "down", "error": "not configured"}
	}
	start := time.Now()
	err := pool.Ping(ctx)
	return checkResult(err, time.Since(start))
}

func checkRedis(ctx context.Context, rdb *redis.Client) fiber.Map {
	if rdb == nil {
		return fiber.Map{"status": "disabled"}
	}
	start := time.Now()
	err := rdb.Ping(ctx).Err()
	return checkResult(err, time.Since(start))
}

func checkResult(err error, latency time.Duration) fiber.Map {
	if err != nil {
		return fiber.Map{
			"status":     "down",
			"latency_ms": latency.Milliseconds(),
			"error":      "connection failed",
		}
	}
	return fiber.Map{"status": "up", "latency_ms": latency.Milliseconds()}
}
