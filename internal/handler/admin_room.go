package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nivleking/blc-shipping-frontend-sub000/internal/hub"
	"github.com/nivleking/blc-shipping-frontend-sub000/internal/model"
	"github.com/nivleking/blc-shipping-frontend-sub000/internal/queue"
	"github.com/nivleking/blc-shipping-frontend-sub000/internal/repository"
	queue_publisher "github.com/nivleking/blc-shipping-frontend-sub000/internal/service"
	"github.com/nivleking/blc-shipping-frontend-sub000/internal/stowage"
)

// AdminHandler bundles dependencies for room administration endpoints.
type AdminHandler struct {
	Rooms        *repository.RoomRepo
	Users        *repository.UserRepo
	Arenas       *repository.ArenaRepo
	Cards        *repository.SalesCallRepo
	Hub          *hub.Hub
	SwapDelaySec int
}

func NewAdminHandler(rooms *repository.RoomRepo, users *repository.UserRepo, arenas *repository.ArenaRepo, cards *repository.SalesCallRepo, h *hub.Hub, swapDelaySec int) *AdminHandler {
	return &AdminHandler{Rooms: rooms, Users: users, Arenas: arenas, Cards: cards, Hub: h, SwapDelaySec: swapDelaySec}
}

type createRoomReq struct {
	Name              string            `json:"name"`
	Description       string            `json:"description"`
	TotalRounds       int               `json:"total_rounds"`
	MaxUsers          int               `json:"max_users"`
	BayCount          int               `json:"bay_count"`
	BayRows           int               `json:"bay_rows"`
	BayColumns        int               `json:"bay_columns"`
	BayTypes          []string          `json:"bay_types"`
	DockRows          int               `json:"dock_rows"`
	DockColumns       int               `json:"dock_columns"`
	MaxCapacityDry    int               `json:"max_capacity_dry"`
	MaxCapacityReefer int               `json:"max_capacity_reefer"`
	Ports             []string          `json:"ports"`
	SwapConfig        map[string]string `json:"swap_config"`
}

// CreateRoom creates a room in the "created" state. Geometry defaults keep a
// hand-typed request playable.
func (h *AdminHandler) CreateRoom(c echo.Context) error {
	var req createRoomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	if len(req.Ports) < 2 || len(req.SwapConfig) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least two ports and a swap_config required"})
	}
	if req.TotalRounds <= 0 {
		req.TotalRounds = len(req.Ports)
	}
	if req.MaxUsers <= 0 {
		req.MaxUsers = len(req.Ports)
	}
	if req.BayCount <= 0 {
		req.BayCount = 2
	}
	if req.BayRows <= 0 {
		req.BayRows = 4
	}
	if req.BayColumns <= 0 {
		req.BayColumns = 4
	}
	if req.DockRows <= 0 {
		req.DockRows = 3
	}
	if req.DockColumns <= 0 {
		req.DockColumns = 5
	}
	for len(req.BayTypes) < req.BayCount {
		req.BayTypes = append(req.BayTypes, model.ContainerDry)
	}

	rm := &model.Room{
		Name:              req.Name,
		Description:       req.Description,
		Status:            model.RoomCreated,
		TotalRounds:       req.TotalRounds,
		CurrentRound:      1,
		MaxUsers:          req.MaxUsers,
		BayCount:          req.BayCount,
		BayRows:           req.BayRows,
		BayColumns:        req.BayColumns,
		BayTypes:          req.BayTypes[:req.BayCount],
		DockRows:          req.DockRows,
		DockColumns:       req.DockColumns,
		MaxCapacityDry:    req.MaxCapacityDry,
		MaxCapacityReefer: req.MaxCapacityReefer,
		Ports:             req.Ports,
		SwapConfig:        req.SwapConfig,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Rooms.Create(ctx, rm); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create room failed"})
	}
	return c.JSON(http.StatusCreated, rm)
}

// ListRooms returns every room.
func (h *AdminHandler) ListRooms(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rooms, err := h.Rooms.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list rooms failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": rooms})
}

// GetRoom returns one room plus its assigned players.
func (h *AdminHandler) GetRoom(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rm, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load room failed"})
	}
	users, err := h.Users.ListByRoom(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load users failed"})
	}
	players := make([]userPart, 0, len(users))
	for _, u := range users {
		players = append(players, userPart{ID: u.ID, Email: u.Email, Role: u.Role})
	}
	return c.JSON(http.StatusOK, echo.Map{"room": rm, "players": players})
}

// DeleteRoom removes a room and everything hanging off it.
func (h *AdminHandler) DeleteRoom(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Rooms.Delete(ctx, id); err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete room failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

type assignUserReq struct {
	UserID uint64 `json:"user_id"`
}

// AssignUser adds a player to the room.
func (h *AdminHandler) AssignUser(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req assignUserReq
	if err := c.Bind(&req); err != nil || req.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Rooms.AssignUser(ctx, id, req.UserID); err != nil {
		switch err {
		case repository.ErrRoomNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "room is full"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assign failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveUser detaches a player from the room.
func (h *AdminHandler) RemoveUser(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	userID, err := paramID(c, "userId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Rooms.RemoveUser(ctx, id, userID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// StartRoom activates a room: each assigned player gets a home port from the
// room's port list (in join order) and a fresh ship state at round 1,
// section 1.
func (h *AdminHandler) StartRoom(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	rm, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load room failed"})
	}
	if rm.Status != model.RoomCreated {
		return c.JSON(http.StatusConflict, echo.Map{"error": "room already started"})
	}
	users, err := h.Users.ListByRoom(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load users failed"})
	}
	if len(users) == 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "no players assigned"})
	}

	for i, u := range users {
		machine := stowage.NewSectionMachine(rm.TotalRounds, rm.Ports[i%len(rm.Ports)])
		state := repository.ShipState{
			RoomID:  id,
			UserID:  u.ID,
			Section: machine.Section(),
			Round:   machine.Round(),
			Port:    machine.Port(),
		}
		if err := h.Arenas.UpsertShipState(ctx, state); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "init ship failed"})
		}
	}
	if err := h.Rooms.UpdateStatus(ctx, id, model.RoomActive); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "activate failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": model.RoomActive})
}

type dealCardReq struct {
	UserID      uint64 `json:"user_id"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Type        string `json:"type"`
	Quantity    int    `json:"quantity"`
	Revenue     int64  `json:"revenue"`
	Priority    string `json:"priority"`
}

// DealCards inserts a batch of sales call cards for the room's current round.
func (h *AdminHandler) DealCards(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var reqs []dealCardReq
	if err := c.Bind(&reqs); err != nil || len(reqs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "card list required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	rm, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load room failed"})
	}

	cards := make([]model.SalesCallCard, 0, len(reqs))
	for _, r := range reqs {
		if r.UserID == 0 || r.Destination == "" || r.Quantity <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id, destination and quantity required"})
		}
		priority := r.Priority
		if priority != model.PriorityCommitted {
			priority = model.PriorityNonCommitted
		}
		typ := r.Type
		if typ != model.ContainerReefer {
			typ = model.ContainerDry
		}
		cards = append(cards, model.SalesCallCard{
			RoomID:        id,
			UserID:        r.UserID,
			Origin:        r.Origin,
			Destination:   r.Destination,
			Type:          typ,
			Quantity:      r.Quantity,
			Revenue:       r.Revenue,
			Priority:      priority,
			OriginalRound: rm.CurrentRound,
			Round:         rm.CurrentRound,
		})
	}
	if err := h.Cards.DealBulk(ctx, cards); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "deal failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"dealt": len(cards)})
}

// SwapBays ends the current round for every ship: each player's port moves
// to its successor in the rotation, sections reset to discharge and pending
// cards carry over as backlog. When the new round exceeds total_rounds the
// room enters the final phase and is marked finished.
func (h *AdminHandler) SwapBays(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	rm, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load room failed"})
	}
	if rm.Status != model.RoomActive {
		return c.JSON(http.StatusConflict, echo.Map{"error": "room is not active"})
	}

	round, err := h.Rooms.BumpRound(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "advance round failed"})
	}
	finalPhase := round > rm.TotalRounds

	users, err := h.Users.ListByRoom(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load users failed"})
	}
	for _, u := range users {
		state, err := h.Arenas.GetShipState(ctx, id, u.ID)
		if err != nil {
			continue // player never initialized, nothing to rotate
		}
		machine := stowage.RestoreSectionMachine(state.Round, rm.TotalRounds, state.Section, state.Port)
		machine.Swap(rm.SwapConfig[state.Port])
		state.Port = machine.Port()
		state.Section = machine.Section()
		state.Round = round // the room counter is authoritative if a ship lagged
		if err := h.Arenas.UpsertShipState(ctx, state); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "rotate ship failed"})
		}
	}

	if err := h.Cards.CarryBacklog(ctx, id, round); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "carry backlog failed"})
	}
	if finalPhase {
		if err := h.Rooms.UpdateStatus(ctx, id, model.RoomFinished); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "finish room failed"})
		}
	}

	ev := queue.RoundAdvancedEvent{
		RoomID:     id,
		Round:      round,
		FinalPhase: finalPhase,
		SwapConfig: rm.SwapConfig,
		AdvancedAt: time.Now().UTC().Format(time.RFC3339),
	}
	_ = queue_publisher.PublishRoundAdvanced(ctx, ev)

	// Clients freeze input for the delay window while the rotation settles.
	h.Hub.Emit(hub.Event{Type: hub.EventSwapBays, RoomID: id, Payload: echo.Map{
		"event":          ev,
		"swap_delay_sec": h.SwapDelaySec,
	}})
	if finalPhase {
		h.Hub.Emit(hub.Event{Type: hub.EventEndSimulation, RoomID: id})
	}
	return c.JSON(http.StatusOK, echo.Map{"round": round, "final_phase": finalPhase, "swap_delay_sec": h.SwapDelaySec})
}

type portConfigReq struct {
	SwapConfig map[string]string `json:"swap_config"`
}

// UpdatePortConfig replaces the rotation map and notifies connected clients.
func (h *AdminHandler) UpdatePortConfig(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req portConfigReq
	if err := c.Bind(&req); err != nil || len(req.SwapConfig) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "swap_config required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Rooms.UpdateSwapConfig(ctx, id, req.SwapConfig); err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.Hub.Emit(hub.Event{Type: hub.EventPortConfigUpdated, RoomID: id, Payload: req.SwapConfig})
	return c.NoContent(http.StatusNoContent)
}

// Rankings returns the room leaderboard and pushes it to connected clients.
func (h *AdminHandler) Rankings(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rankings, err := h.Arenas.Rankings(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "rankings failed"})
	}
	h.Hub.Emit(hub.Event{Type: hub.EventRankingsUpdated, RoomID: id, Payload: rankings})
	return c.JSON(http.StatusOK, echo.Map{"rankings": rankings})
}
