package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nivleking/blc-shipping-frontend-sub000/internal/stowage"
)

// AdvanceSection moves a ship from the discharge section to the sales call
// section. The gate holds until no bay container is still destined for the
// current port; containers sitting on the dock do not block.
func (h *PlayerHandler) AdvanceSection(c echo.Context) error {
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

	rm, state, _, _, m, containers, err := h.loadShip(ctx, roomID, userID)
	if err != nil {
		return shipLoadError(c, err)
	}

	machine := stowage.RestoreSectionMachine(state.Round, rm.TotalRounds, state.Section, state.Port)
	if err := machine.Advance(m, containers); err != nil {
		switch {
		case errors.Is(err, stowage.ErrSectionGated):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
		case errors.Is(err, stowage.ErrFinalPhase):
			return c.JSON(http.StatusConflict, echo.Map{"error": "simulation is in its final phase"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "advance failed"})
	}

	if err := h.Arenas.SetSection(ctx, roomID, userID, machine.Section()); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save section failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"round":   machine.Round(),
		"section": machine.Section(),
		"port":    machine.Port(),
	})
}
