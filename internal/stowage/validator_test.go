package stowage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBays is a single 3x2 dry bay: rows 0..2 top to bottom, columns 0..1.
var testBays = []Bay{{Index: 0, Rows: 3, Columns: 2, Type: "dry"}}

func TestCanPlaceBottomRowAlwaysSupported(t *testing.T) {
	m := NewPlacementMap()
	bottom := BayCell(0, CellIndex(2, 0, 2))
	assert.True(t, CanPlace(bottom, m, testBays))
}

func TestCanPlaceRefusesFloating(t *testing.T) {
	m := NewPlacementMap()
	mid := BayCell(0, CellIndex(1, 0, 2))
	assert.False(t, CanPlace(mid, m, testBays))
	assert.ErrorIs(t, PlaceError(mid, m, testBays), ErrFloating)

	// With support below the same cell becomes legal.
	require.NoError(t, m.Place("c1", BayCell(0, CellIndex(2, 0, 2))))
	assert.True(t, CanPlace(mid, m, testBays))
}

func TestCanPlaceRefusesOccupied(t *testing.T) {
	m := NewPlacementMap()
	bottom := BayCell(0, CellIndex(2, 1, 2))
	require.NoError(t, m.Place("c1", bottom))
	assert.ErrorIs(t, PlaceError(bottom, m, testBays), ErrCellOccupied)
}

func TestCanPlaceDock(t *testing.T) {
	m := NewPlacementMap()
	assert.True(t, CanPlace(DockCell(5), m, testBays))
	require.NoError(t, m.Place("c1", DockCell(5)))
	assert.False(t, CanPlace(DockCell(5), m, testBays))
	// No gravity in the dock: any free position works.
	assert.True(t, CanPlace(DockCell(17), m, testBays))
}

func TestCanRemoveBlockedAbove(t *testing.T) {
	m := NewPlacementMap()
	bottom := BayCell(0, CellIndex(2, 0, 2))
	mid := BayCell(0, CellIndex(1, 0, 2))
	require.NoError(t, m.Place("base", bottom))
	require.NoError(t, m.Place("top", mid))

	assert.False(t, CanRemove(bottom, m, testBays))
	assert.ErrorIs(t, RemoveError(bottom, m, testBays), ErrBlockedAbove)
	assert.True(t, CanRemove(mid, m, testBays))
}

func TestCanRemoveBottomRowWithNothingAbove(t *testing.T) {
	m := NewPlacementMap()
	bottom := BayCell(0, CellIndex(2, 1, 2))
	require.NoError(t, m.Place("solo", bottom))
	assert.True(t, CanRemove(bottom, m, testBays))
	assert.True(t, CanRemove(DockCell(3), m, testBays))
}

func TestValidatorRejectsCellsOutsideDeck(t *testing.T) {
	m := NewPlacementMap()
	assert.ErrorIs(t, PlaceError(BayCell(9, 0), m, testBays), ErrBadCell)
	assert.ErrorIs(t, PlaceError(BayCell(0, 99), m, testBays), ErrBadCell)
	assert.ErrorIs(t, RemoveError(BayCell(9, 0), m, testBays), ErrBadCell)
}
