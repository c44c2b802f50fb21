package stowage

import (
	"context"
	"log"
	"time"
)

// Persister is the port through which an accepted move reaches the outside
// world. The two arena upserts are independent and must be idempotent on the
// collaborator side; the engine imposes no relative order between them. The
// log append is fire-and-forget.
type Persister interface {
	UpsertBayArena(ctx context.Context, snap BaySnapshot) error
	UpsertDockArena(ctx context.Context, snap DockSnapshot) error
	AppendLog(ctx context.Context, entry MoveLog) error
}

// MoveLog is one applied-move record handed to the log collaborator.
type MoveLog struct {
	ContainerID string    `json:"container_id"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	MovedAt     time.Time `json:"moved_at"`
}

// MoveResult reports an applied move together with the snapshots that were
// handed to persistence. PersistErr carries the first persistence failure,
// surfaced as a transient notification; the in-memory placement map is NOT
// rolled back on persistence failure (optimistic local state).
type MoveResult struct {
	ContainerID string       `json:"container_id"`
	From        Cell         `json:"from"`
	To          Cell         `json:"to"`
	Bays        BaySnapshot  `json:"bays"`
	Dock        DockSnapshot `json:"dock"`
	PersistErr  error        `json:"-"`
}

// Controller orchestrates one drag-and-drop interaction at a time:
// Idle -> Dragging -> {Dropped-Valid, Dropped-Rejected} -> Idle. It is the
// only writer of the placement map. All mutation happens synchronously
// inside Begin/Drop; there is no concurrent access to guard against.
type Controller struct {
	bays      []Bay
	dock      DockLayout
	placement *PlacementMap
	persister Persister

	dragging string // container id in flight, "" when idle
	source   Cell
}

// NewController wires a controller over the given placement map. persister
// may be nil in tests; persistence is then skipped.
func NewController(bays []Bay, dock DockLayout, m *PlacementMap, p Persister) *Controller {
	return &Controller{bays: bays, dock: dock, placement: m, persister: p}
}

// Placements exposes the underlying map for read-derivation.
func (c *Controller) Placements() *PlacementMap { return c.placement }

// Dragging returns the container currently in flight, if any.
func (c *Controller) Dragging() (string, bool) {
	return c.dragging, c.dragging != ""
}

// Begin starts a drag for the container. The drag is refused outright when
// the container is unknown or not removable (something rests on top); in
// both cases no state changes and the caller surfaces the reason.
func (c *Controller) Begin(containerID string) error {
	if c.dragging != "" {
		return ErrDragInFlight
	}
	cell, ok := c.placement.CellOf(containerID)
	if !ok {
		return ErrUnknownContainer
	}
	if err := RemoveError(cell, c.placement, c.bays); err != nil {
		return err
	}
	c.dragging = containerID
	c.source = cell
	return nil
}

// Cancel ends the drag without mutating anything. Dropping outside any valid
// target is equivalent.
func (c *Controller) Cancel() {
	c.dragging = ""
	c.source = Cell{}
}

// Reset discards any in-flight drag state. Called when a swap_bays event
// forces a full arena re-fetch mid-interaction.
func (c *Controller) Reset() { c.Cancel() }

// Drop completes the drag onto the target cell. An occupied target rejects
// silently (ErrCellOccupied, same net effect as not dropping); an invalid
// target rejects with a specific reason (ErrFloating for unsupported bay
// cells). On a valid drop the placement map is updated atomically and the
// new bay and dock snapshots are handed to the persister. Validation runs
// with the dragged container lifted out of the map: its own source cell must
// not count as support for the cell above it. On rejection the container is
// restored to the source and the drag stays active.
func (c *Controller) Drop(ctx context.Context, target Cell) (MoveResult, error) {
	if c.dragging == "" {
		return MoveResult{}, ErrNotDragging
	}
	if target == c.source {
		// Dropping back where it started is an ordinary rejection.
		return MoveResult{}, ErrCellOccupied
	}

	id := c.dragging
	from := c.source
	c.placement.Remove(id)
	if err := PlaceError(target, c.placement, c.bays); err != nil {
		// Rejections leave the drag active so the UI can try another cell;
		// the caller cancels explicitly when the gesture ends.
		_ = c.placement.Place(id, from)
		return MoveResult{}, err
	}
	if err := c.placement.Place(id, target); err != nil {
		// Cannot happen after PlaceError passed, but never strand the
		// container: put it back where it was.
		_ = c.placement.Place(id, from)
		return MoveResult{}, err
	}
	c.Cancel()

	res := MoveResult{
		ContainerID: id,
		From:        from,
		To:          target,
		Bays:        BuildBaySnapshot(c.placement, c.bays),
		Dock:        BuildDockSnapshot(c.placement, c.dock),
	}
	if c.persister != nil {
		if err := c.persister.UpsertBayArena(ctx, res.Bays); err != nil {
			log.Printf("stowage: bay arena upsert failed: %v", err)
			res.PersistErr = err
		}
		if err := c.persister.UpsertDockArena(ctx, res.Dock); err != nil {
			log.Printf("stowage: dock arena upsert failed: %v", err)
			if res.PersistErr == nil {
				res.PersistErr = err
			}
		}
		if err := c.persister.AppendLog(ctx, MoveLog{
			ContainerID: id, From: from.ID(), To: target.ID(), MovedAt: time.Now().UTC(),
		}); err != nil {
			log.Printf("stowage: move log append failed: %v", err)
		}
	}
	return res, nil
}
