package handler

import (
	"context"
	"errors"
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

// PlayerHandler bundles dependencies for in-game player endpoints.
type PlayerHandler struct {
	Rooms      *repository.RoomRepo
	Arenas     *repository.ArenaRepo
	Containers *repository.ContainerRepo
	Cards      *repository.SalesCallRepo
	Capacity   *repository.CapacityRepo
	Hub        *hub.Hub
	RestowFee  int64
}

func NewPlayerHandler(rooms *repository.RoomRepo, arenas *repository.ArenaRepo, containers *repository.ContainerRepo, cards *repository.SalesCallRepo, capRepo *repository.CapacityRepo, h *hub.Hub, restowFee int64) *PlayerHandler {
	return &PlayerHandler{
		Rooms: rooms, Arenas: arenas, Containers: containers,
		Cards: cards, Capacity: capRepo, Hub: h, RestowFee: restowFee,
	}
}

// roomBays translates room geometry into stowage bay descriptors.
func roomBays(rm *model.Room) []stowage.Bay {
	bays := make([]stowage.Bay, rm.BayCount)
	for i := range bays {
		typ := model.ContainerDry
		if i < len(rm.BayTypes) {
			typ = rm.BayTypes[i]
		}
		bays[i] = stowage.Bay{Index: i, Rows: rm.BayRows, Columns: rm.BayColumns, Type: typ}
	}
	return bays
}

func roomDock(rm *model.Room) stowage.DockLayout {
	return stowage.DockLayout{Rows: rm.DockRows, Columns: rm.DockColumns}
}

// shipPersister binds the arena repository to one (room, user) pair so the
// drag controller can persist snapshots without knowing about ships.
type shipPersister struct {
	arenas *repository.ArenaRepo
	roomID uint64
	userID uint64
}

func (p shipPersister) UpsertBayArena(ctx context.Context, snap stowage.BaySnapshot) error {
	return p.arenas.UpsertBayArena(ctx, p.roomID, p.userID, snap)
}

func (p shipPersister) UpsertDockArena(ctx context.Context, snap stowage.DockSnapshot) error {
	return p.arenas.UpsertDockArena(ctx, p.roomID, p.userID, snap)
}

func (p shipPersister) AppendLog(ctx context.Context, lg stowage.MoveLog) error {
	return p.arenas.AppendLog(ctx, p.roomID, p.userID, lg)
}

// loadShip assembles the full in-memory picture of one ship: geometry,
// placements and container metadata.
func (h *PlayerHandler) loadShip(ctx context.Context, roomID, userID uint64) (*model.Room, repository.ShipState, []stowage.Bay, stowage.DockLayout, *stowage.PlacementMap, map[string]model.Container, error) {
	rm, err := h.Rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, repository.ShipState{}, nil, stowage.DockLayout{}, nil, nil, err
	}
	state, err := h.Arenas.GetShipState(ctx, roomID, userID)
	if err != nil {
		return nil, repository.ShipState{}, nil, stowage.DockLayout{}, nil, nil, err
	}

	bays := roomBays(rm)
	dock := roomDock(rm)

	baySnap, err := h.Arenas.LoadBayArena(ctx, roomID, userID, bays)
	if err != nil {
		return nil, repository.ShipState{}, nil, stowage.DockLayout{}, nil, nil, err
	}
	dockSnap, err := h.Arenas.LoadDockArena(ctx, roomID, userID, dock)
	if err != nil {
		return nil, repository.ShipState{}, nil, stowage.DockLayout{}, nil, nil, err
	}

	m := stowage.NewPlacementMap()
	if err := stowage.LoadBaySnapshot(m, baySnap, bays); err != nil {
		return nil, repository.ShipState{}, nil, stowage.DockLayout{}, nil, nil, err
	}
	if err := stowage.LoadDockSnapshot(m, dockSnap); err != nil {
		return nil, repository.ShipState{}, nil, stowage.DockLayout{}, nil, nil, err
	}

	containers, err := h.Containers.MapByShip(ctx, roomID, userID)
	if err != nil {
		return nil, repository.ShipState{}, nil, stowage.DockLayout{}, nil, nil, err
	}
	return rm, state, bays, dock, m, containers, nil
}

// GetArena returns the ship's current bays, dock, restow report and dock
// occupancy for rendering.
func (h *PlayerHandler) GetArena(c echo.Context) error {
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

	rm, state, bays, dock, m, containers, err := h.loadShip(ctx, roomID, userID)
	if err != nil {
		return shipLoadError(c, err)
	}

	rotation := stowage.PortRotation(rm.SwapConfig, state.Port)
	report := stowage.Detect(m, bays, containers, state.Port, rotation)

	// The paginator lands on the lowest occupied page so a dock emptied by
	// discharges never leaves the client stranded on a blank page.
	positions := m.DockPositions()
	ipp := dock.ItemsPerPage()
	pager := stowage.NewPaginator(dock)
	pager.Reconcile(positions)
	occupancy := stowage.OccupancyPercent(positions, pager.Page(), ipp)

	return c.JSON(http.StatusOK, echo.Map{
		"room_id":     roomID,
		"round":       state.Round,
		"section":     state.Section,
		"port":        state.Port,
		"revenue":     state.Revenue,
		"penalty":     state.Penalty,
		"bays":        stowage.BuildBaySnapshot(m, bays),
		"dock":        stowage.BuildDockSnapshot(m, dock),
		"containers":  containers,
		"restow":      report,
		"dock_page":   pager.Page(),
		"dock_status": stowage.OccupancyStatus(occupancy),
		"dock_pages":  stowage.TotalPages(positions, ipp),
	})
}

type moveReq struct {
	ContainerID string `json:"container_id"`
	To          string `json:"to"` // cell key, e.g. "bay-0-5" or "docks-3"
}

// MoveContainer executes one drag and drop on the server: pick the container
// up from wherever it sits, validate the target and persist the new arenas.
// Rule violations come back as 422 with the reason; persistence failures do
// not roll the move back.
func (h *PlayerHandler) MoveContainer(c echo.Context) error {
	roomID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req moveReq
	if err := c.Bind(&req); err != nil || req.ContainerID == "" || req.To == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "container_id and to required"})
	}
	target, err := stowage.ParseCell(req.To)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid target cell"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	_, state, bays, dock, m, _, err := h.loadShip(ctx, roomID, userID)
	if err != nil {
		return shipLoadError(c, err)
	}

	ctrl := stowage.NewController(bays, dock, m, shipPersister{arenas: h.Arenas, roomID: roomID, userID: userID})
	if err := ctrl.Begin(req.ContainerID); err != nil {
		return stowageError(c, err)
	}
	res, err := ctrl.Drop(ctx, target)
	if err != nil {
		ctrl.Cancel()
		return stowageError(c, err)
	}

	_ = queue_publisher.PublishStowageMove(ctx, queue.StowageMoveEvent{
		RoomID:      roomID,
		UserID:      userID,
		ContainerID: res.ContainerID,
		FromCell:    res.From.ID(),
		ToCell:      res.To.ID(),
		Port:        state.Port,
		Round:       state.Round,
		MovedAt:     time.Now().UTC().Format(time.RFC3339),
	})

	out := echo.Map{"move": res}
	if res.PersistErr != nil {
		out["persisted"] = false
	}
	return c.JSON(http.StatusOK, out)
}

type dischargeReq struct {
	ContainerID string `json:"container_id"`
}

// Discharge unloads a container destined for the current port: it must be
// liftable (nothing stacked above) and is then destroyed, clearing its cell.
func (h *PlayerHandler) Discharge(c echo.Context) error {
	roomID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req dischargeReq
	if err := c.Bind(&req); err != nil || req.ContainerID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "container_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	_, state, bays, dock, m, containers, err := h.loadShip(ctx, roomID, userID)
	if err != nil {
		return shipLoadError(c, err)
	}

	cont, ok := containers[req.ContainerID]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "container not found"})
	}
	if cont.Destination != state.Port {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "container is not due at this port"})
	}
	cell, ok := m.CellOf(req.ContainerID)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "container is not placed"})
	}
	if err := stowage.RemoveError(cell, m, bays); err != nil {
		return stowageError(c, err)
	}
	if _, ok := m.Remove(req.ContainerID); !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "container is not placed"})
	}

	if err := h.Containers.DeleteByIDs(ctx, roomID, []string{req.ContainerID}); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "discharge failed"})
	}
	p := shipPersister{arenas: h.Arenas, roomID: roomID, userID: userID}
	_ = p.UpsertBayArena(ctx, stowage.BuildBaySnapshot(m, bays))
	_ = p.UpsertDockArena(ctx, stowage.BuildDockSnapshot(m, dock))

	return c.JSON(http.StatusOK, echo.Map{"discharged": req.ContainerID, "cell": cell.ID()})
}

// RestowReport recomputes the blocking/restow analysis. With ?charge=true
// the configured fee per flagged restow is added to the ship's penalty
// total; plain reads stay free so the UI can poll.
func (h *PlayerHandler) RestowReport(c echo.Context) error {
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

	rm, state, bays, _, m, containers, err := h.loadShip(ctx, roomID, userID)
	if err != nil {
		return shipLoadError(c, err)
	}

	rotation := stowage.PortRotation(rm.SwapConfig, state.Port)
	report := stowage.Detect(m, bays, containers, state.Port, rotation)

	var charge int64
	if c.QueryParam("charge") == "true" {
		charge = int64(len(report.Restows)) * h.RestowFee
		if charge > 0 {
			_ = h.Arenas.AddPenalty(ctx, roomID, userID, charge)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"restow": report, "penalty_charged": charge})
}

func shipLoadError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrRoomNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	case errors.Is(err, repository.ErrShipNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ship not initialized"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load ship failed"})
}

// stowageError maps engine sentinels to HTTP statuses: rule violations are
// 422 so the client can show the reason inline, unknown ids are 404.
func stowageError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, stowage.ErrUnknownContainer):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, stowage.ErrCellOccupied),
		errors.Is(err, stowage.ErrFloating),
		errors.Is(err, stowage.ErrBlockedAbove),
		errors.Is(err, stowage.ErrBadCell):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, stowage.ErrDragInFlight),
		errors.Is(err, stowage.ErrNotDragging),
		errors.Is(err, stowage.ErrAlreadyPlaced):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
}
