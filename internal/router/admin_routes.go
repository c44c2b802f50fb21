package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/nivleking/blc-shipping-frontend-sub000/internal/config"
	"github.com/nivleking/blc-shipping-frontend-sub000/internal/handler"
	"github.com/nivleking/blc-shipping-frontend-sub000/internal/middleware"
)

// RegisterAdmin registers ADMIN-scoped room management endpoints under /v1.
// All routes require a valid JWT and the ADMIN role. Read-mostly listing
// endpoints go through the short-TTL Redis response cache.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string, cacheCfg config.CacheConfig, rdb *redis.Client) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	cached := middleware.NewRedisCache(cacheCfg, rdb)

	// ---- Rooms ----
	g.POST("/rooms", a.CreateRoom)
	g.GET("/rooms", a.ListRooms, cached)
	g.GET("/rooms/:id", a.GetRoom, cached)
	g.DELETE("/rooms/:id", a.DeleteRoom)
	g.POST("/rooms/:id/start", a.StartRoom)

	// ---- Players ----
	g.POST("/rooms/:id/users", a.AssignUser)
	g.DELETE("/rooms/:id/users/:userId", a.RemoveUser)

	// ---- Round flow ----
	g.POST("/rooms/:id/cards/deal", a.DealCards)
	g.POST("/rooms/:id/swap", a.SwapBays)
	g.PUT("/rooms/:id/ports", a.UpdatePortConfig)
	g.GET("/rooms/:id/rankings", a.Rankings, cached)
}
