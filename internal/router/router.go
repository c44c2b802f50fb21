// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/nivleking/blc-shipping-frontend-sub000/internal/handler"
	"github.com/nivleking/blc-shipping-frontend-sub000/internal/hub"
	"github.com/nivleking/blc-shipping-frontend-sub000/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication:
// the health check and the per-room websocket stream.
func RegisterRoutes(e *echo.Echo, health *handler.HealthHandler, h *hub.Hub) {
	e.GET("/healthz", health.Check)
	e.GET("/ws/rooms/:id", hub.ServeWs(h))
}

// RegisterAuth registers all authentication-related routes. Unauthenticated
// operations live under /v1/auth, while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// /refresh rotates the refresh token; /refresh-access reuses it.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "PLAYER"))
	auth.GET("/me", a.Me)

	// Logout also works without the JWT middleware so an expired session can
	// still revoke its refresh token.
	e.POST("/v1/logout", a.Logout)
}
