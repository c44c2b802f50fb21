package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/nivleking/blc-shipping-frontend-sub000/internal/config"
	"github.com/nivleking/blc-shipping-frontend-sub000/internal/handler"
	"github.com/nivleking/blc-shipping-frontend-sub000/internal/middleware"
)

// RegisterPlayer registers PLAYER-scoped in-game endpoints under /v1.
// Move and card actions sit behind the Redis token bucket so a stuck client
// hammering drops cannot flood the engine.
func RegisterPlayer(e *echo.Echo, p *handler.PlayerHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("PLAYER", "ADMIN"),
		middleware.NewTokenBucket(rlCfg, rdb),
	)

	// ---- Arena ----
	g.GET("/rooms/:id/arena", p.GetArena)
	g.POST("/rooms/:id/moves", p.MoveContainer)
	g.POST("/rooms/:id/discharge", p.Discharge)
	g.GET("/rooms/:id/restow", p.RestowReport)

	// ---- Sales calls ----
	g.GET("/rooms/:id/cards", p.ListSalesCalls)
	g.POST("/rooms/:id/cards/:cardId/accept", p.AcceptSalesCall)
	g.POST("/rooms/:id/cards/:cardId/reject", p.RejectSalesCall)

	// ---- Round state ----
	g.POST("/rooms/:id/section/advance", p.AdvanceSection)
	g.GET("/rooms/:id/capacity", p.CapacityUptake)
}
