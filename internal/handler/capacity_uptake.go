package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nivleking/blc-shipping-frontend-sub000/internal/capacity"
)

// CapacityUptake computes the weekly A..K capacity ledger for the calling
// player's ship. A negative G, I or K marks overbooking.
func (h *PlayerHandler) CapacityUptake(c echo.Context) error {
	roomID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	bundle, err := h.Capacity.LoadBundle(ctx, roomID, userID)
	if err != nil {
		return shipLoadError(c, err)
	}
	points := capacity.Compute(bundle)
	return c.JSON(http.StatusOK, echo.Map{
		"port":       bundle.Port,
		"points":     points,
		"overbooked": points.Overbooked(),
	})
}
