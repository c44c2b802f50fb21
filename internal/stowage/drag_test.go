package stowage

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePersister records calls and can be told to fail.
type fakePersister struct {
	bayCalls  int
	dockCalls int
	logCalls  int
	fail      error
}

func (f *fakePersister) UpsertBayArena(ctx context.Context, snap BaySnapshot) error {
	f.bayCalls++
	return f.fail
}
func (f *fakePersister) UpsertDockArena(ctx context.Context, snap DockSnapshot) error {
	f.dockCalls++
	return f.fail
}
func (f *fakePersister) AppendLog(ctx context.Context, entry MoveLog) error {
	f.logCalls++
	return nil
}

var testDock = DockLayout{Rows: 2, Columns: 3}

func newTestController(p Persister) *Controller {
	return NewController(testBays, testDock, NewPlacementMap(), p)
}

func TestDragMoveDockToBay(t *testing.T) {
	p := &fakePersister{}
	c := newTestController(p)
	require.NoError(t, c.Placements().Place("c1", DockCell(0)))

	require.NoError(t, c.Begin("c1"))
	res, err := c.Drop(context.Background(), BayCell(0, CellIndex(2, 0, 2)))
	require.NoError(t, err)

	assert.Equal(t, "c1", res.ContainerID)
	assert.Equal(t, "docks-0", res.From.ID())
	assert.Equal(t, "bay-0-4", res.To.ID())
	assert.Equal(t, 1, p.bayCalls)
	assert.Equal(t, 1, p.dockCalls)
	assert.Equal(t, 1, p.logCalls)

	_, dragging := c.Dragging()
	assert.False(t, dragging, "controller should return to idle after a drop")
}

func TestDragRefusedWhenBlockedAbove(t *testing.T) {
	c := newTestController(nil)
	require.NoError(t, c.Placements().Place("base", BayCell(0, CellIndex(2, 0, 2))))
	require.NoError(t, c.Placements().Place("top", BayCell(0, CellIndex(1, 0, 2))))

	err := c.Begin("base")
	assert.ErrorIs(t, err, ErrBlockedAbove)
	_, dragging := c.Dragging()
	assert.False(t, dragging, "refused drag must not start")
}

func TestDropOnOccupiedCellRejectsSilently(t *testing.T) {
	c := newTestController(nil)
	require.NoError(t, c.Placements().Place("a", DockCell(0)))
	require.NoError(t, c.Placements().Place("b", DockCell(1)))

	require.NoError(t, c.Begin("a"))
	_, err := c.Drop(context.Background(), DockCell(1))
	assert.ErrorIs(t, err, ErrCellOccupied)

	// State unchanged, drag still active so another target can be tried.
	cell, ok := c.Placements().CellOf("a")
	require.True(t, ok)
	assert.Equal(t, DockCell(0), cell)
	_, dragging := c.Dragging()
	assert.True(t, dragging)
	c.Cancel()
}

func TestDropFloatingRejectsWithReason(t *testing.T) {
	c := newTestController(nil)
	require.NoError(t, c.Placements().Place("a", DockCell(0)))
	require.NoError(t, c.Begin("a"))

	_, err := c.Drop(context.Background(), BayCell(0, CellIndex(0, 0, 2)))
	assert.ErrorIs(t, err, ErrFloating)
	cell, _ := c.Placements().CellOf("a")
	assert.Equal(t, DockCell(0), cell)
	c.Cancel()
}

func TestDropAboveOwnCellRejectsAsFloating(t *testing.T) {
	c := newTestController(nil)
	require.NoError(t, c.Placements().Place("e", BayCell(0, CellIndex(2, 0, 2))))
	require.NoError(t, c.Begin("e"))

	// The only thing under the target is the dragged container itself; once
	// lifted it cannot be its own support.
	_, err := c.Drop(context.Background(), BayCell(0, CellIndex(1, 0, 2)))
	assert.ErrorIs(t, err, ErrFloating)

	cell, ok := c.Placements().CellOf("e")
	require.True(t, ok)
	assert.Equal(t, "bay-0-4", cell.ID(), "rejected drop must restore the source")
	_, dragging := c.Dragging()
	assert.True(t, dragging)
	c.Cancel()
	assertGravity(t, c.Placements(), testBays)
}

func TestDropBackOnSourceRejectsSilently(t *testing.T) {
	c := newTestController(nil)
	require.NoError(t, c.Placements().Place("a", DockCell(2)))
	require.NoError(t, c.Begin("a"))

	_, err := c.Drop(context.Background(), DockCell(2))
	assert.ErrorIs(t, err, ErrCellOccupied)
	cell, _ := c.Placements().CellOf("a")
	assert.Equal(t, DockCell(2), cell)
	c.Cancel()
}

func TestDropWithoutDrag(t *testing.T) {
	c := newTestController(nil)
	_, err := c.Drop(context.Background(), DockCell(0))
	assert.ErrorIs(t, err, ErrNotDragging)
}

func TestSecondDragRefusedWhileInFlight(t *testing.T) {
	c := newTestController(nil)
	require.NoError(t, c.Placements().Place("a", DockCell(0)))
	require.NoError(t, c.Placements().Place("b", DockCell(1)))
	require.NoError(t, c.Begin("a"))
	assert.ErrorIs(t, c.Begin("b"), ErrDragInFlight)
	c.Cancel()
}

func TestResetDiscardsInFlightDrag(t *testing.T) {
	c := newTestController(nil)
	require.NoError(t, c.Placements().Place("a", DockCell(0)))
	require.NoError(t, c.Begin("a"))

	c.Reset() // swap_bays arrived mid-drag

	_, dragging := c.Dragging()
	assert.False(t, dragging)
	cell, ok := c.Placements().CellOf("a")
	require.True(t, ok)
	assert.Equal(t, DockCell(0), cell, "reset must not mutate placements")
}

func TestPersistFailureDoesNotRollBack(t *testing.T) {
	p := &fakePersister{fail: errors.New("backend down")}
	c := newTestController(p)
	require.NoError(t, c.Placements().Place("c1", DockCell(0)))
	require.NoError(t, c.Begin("c1"))

	res, err := c.Drop(context.Background(), BayCell(0, CellIndex(2, 1, 2)))
	require.NoError(t, err, "the move itself succeeds")
	assert.Error(t, res.PersistErr)

	cell, ok := c.Placements().CellOf("c1")
	require.True(t, ok)
	assert.Equal(t, "bay-0-5", cell.ID(), "in-memory state stays authoritative")
}

// TestGravityInvariantUnderRandomMoves drives the controller with random
// pick-up/drop attempts and asserts after every accepted move that no bay
// container floats: every occupied cell at row r has an occupied cell at
// row r+1 beneath it (or sits in the bottom row).
func TestGravityInvariantUnderRandomMoves(t *testing.T) {
	bays := []Bay{
		{Index: 0, Rows: 4, Columns: 3, Type: "dry"},
		{Index: 1, Rows: 3, Columns: 2, Type: "reefer"},
	}
	dock := DockLayout{Rows: 3, Columns: 4}
	m := NewPlacementMap()
	c := NewController(bays, dock, m, nil)

	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for i, id := range ids {
		require.NoError(t, m.Place(id, DockCell(i)))
	}

	rng := rand.New(rand.NewSource(7))
	randomCell := func() Cell {
		if rng.Intn(2) == 0 {
			return DockCell(rng.Intn(dock.ItemsPerPage() * 2))
		}
		b := bays[rng.Intn(len(bays))]
		return BayCell(b.Index, rng.Intn(b.Cells()))
	}

	for step := 0; step < 2000; step++ {
		id := ids[rng.Intn(len(ids))]
		if err := c.Begin(id); err != nil {
			continue
		}
		if _, err := c.Drop(context.Background(), randomCell()); err != nil {
			c.Cancel()
		}
		assertGravity(t, m, bays)
	}
}

func assertGravity(t *testing.T, m *PlacementMap, bays []Bay) {
	t.Helper()
	for _, p := range m.Placements() {
		if p.Cell.IsDock() {
			continue
		}
		b, ok := bayByIndex(bays, p.Cell.Bay)
		require.True(t, ok)
		row, col := RowCol(p.Cell.Index, b.Columns)
		if row == b.Rows-1 {
			continue
		}
		below := BayCell(b.Index, CellIndex(row+1, col, b.Columns))
		require.True(t, m.Occupied(below),
			"container %s floats at %s", p.ContainerID, p.Cell.ID())
	}
}
