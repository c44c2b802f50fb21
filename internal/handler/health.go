package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports liveness of the server and its backing stores.
type HealthHandler struct {
	DB    *sql.DB
	Redis *redis.Client
}

func NewHealthHandler(db *sql.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{DB: db, Redis: rdb}
}

// Check pings the database (and Redis when configured). The server is
// considered healthy without Redis since caching and rate limiting degrade
// gracefully.
func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	out := echo.Map{"status": "ok"}
	if err := h.DB.PingContext(ctx); err != nil {
		out["status"] = "degraded"
		out["db"] = err.Error()
		return c.JSON(http.StatusServiceUnavailable, out)
	}
	out["db"] = "ok"

	if h.Redis != nil {
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			out["redis"] = "down"
		} else {
			out["redis"] = "ok"
		}
	}
	return c.JSON(http.StatusOK, out)
}
