package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nivleking/blc-shipping-frontend-sub000/internal/repository"
)

// Colors cycle through spawned container batches so each accepted card's
// boxes are visually grouped on the board.
var containerColors = []string{"yellow", "blue", "green", "orange", "purple", "red", "teal", "pink"}

// ListSalesCalls returns the ship's cards for its current round, backlog and
// committed offers first.
func (h *PlayerHandler) ListSalesCalls(c echo.Context) error {
	roomID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	state, err := h.Arenas.GetShipState(ctx, roomID, userID)
	if err != nil {
		return shipLoadError(c, err)
	}
	cards, err := h.Cards.ListForRound(ctx, roomID, userID, state.Round)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list cards failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"round": state.Round, "cards": cards})
}

// AcceptSalesCall accepts a pending card: containers spawn onto the player's
// inventory (they start on the dock conceptually, unplaced until dragged)
// and the card's revenue is credited.
func (h *PlayerHandler) AcceptSalesCall(c echo.Context) error {
	roomID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	cardID, err := paramID(c, "cardId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid card id"})
	}
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	color := containerColors[cardID%uint64(len(containerColors))]
	spawned, err := h.Cards.AcceptTx(ctx, cardID, roomID, userID, color)
	if err != nil {
		return cardError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"accepted": cardID, "containers": spawned})
}

// RejectSalesCall rejects a pending non-committed card. Committed cards are
// refused with 403.
func (h *PlayerHandler) RejectSalesCall(c echo.Context) error {
	roomID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	cardID, err := paramID(c, "cardId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid card id"})
	}
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Cards.RejectTx(ctx, cardID, roomID, userID); err != nil {
		return cardError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"rejected": cardID})
}

func cardError(c echo.Context, err error) error {
	switch err {
	case repository.ErrCardNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "card not found"})
	case repository.ErrForbidden:
		return c.JSON(http.StatusForbidden, echo.Map{"error": "card cannot be handled by this ship"})
	case repository.ErrConflict:
		return c.JSON(http.StatusConflict, echo.Map{"error": "card already handled"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "card update failed"})
}
