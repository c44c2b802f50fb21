package stowage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlacementMapBasics(t *testing.T) {
	m := NewPlacementMap()
	require.NoError(t, m.Place("a", DockCell(0)))
	require.NoError(t, m.Place("b", BayCell(0, 4)))

	assert.Equal(t, 2, m.Len())
	id, ok := m.At(DockCell(0))
	require.True(t, ok)
	assert.Equal(t, "a", id)

	assert.ErrorIs(t, m.Place("c", DockCell(0)), ErrCellOccupied)
	assert.ErrorIs(t, m.Place("a", DockCell(9)), ErrAlreadyPlaced)

	cell, ok := m.Remove("a")
	require.True(t, ok)
	assert.Equal(t, DockCell(0), cell)
	assert.Equal(t, 1, m.Len())
	_, ok = m.Remove("a")
	assert.False(t, ok)
}

func TestSnapshotRoundTrip(t *testing.T) {
	m := NewPlacementMap()
	require.NoError(t, m.Place("base", BayCell(0, CellIndex(2, 0, 2))))
	require.NoError(t, m.Place("top", BayCell(0, CellIndex(1, 0, 2))))
	require.NoError(t, m.Place("staged", DockCell(7)))

	baySnap := BuildBaySnapshot(m, testBays)
	dockSnap := BuildDockSnapshot(m, testDock)

	assert.Equal(t, "base", baySnap[0][2][0])
	assert.Equal(t, "top", baySnap[0][1][0])
	assert.Equal(t, 12, len(dockSnap.Cells), "padded to whole pages")
	assert.Equal(t, "staged", dockSnap.Cells[7])

	restored := NewPlacementMap()
	require.NoError(t, LoadBaySnapshot(restored, baySnap, testBays))
	require.NoError(t, LoadDockSnapshot(restored, dockSnap))
	assert.Equal(t, m.Len(), restored.Len())
	cell, ok := restored.CellOf("staged")
	require.True(t, ok)
	assert.Equal(t, DockCell(7), cell)
}

func TestDecodeArenaPlainAndStringWrapped(t *testing.T) {
	valid := []byte(`[[["",""],["","a"],["b","c"]]]`)
	snap, err := DecodeArena(valid, testBays)
	require.NoError(t, err)
	assert.Equal(t, "a", snap[0][1][1])

	// Backends sometimes deliver the matrix as a JSON string.
	wrapped := []byte(`"[[[\"\",\"\"],[\"\",\"a\"],[\"b\",\"c\"]]]"`)
	snap, err = DecodeArena(wrapped, testBays)
	require.NoError(t, err)
	assert.Equal(t, "a", snap[0][1][1])
}

func TestDecodeArenaFallsBackToEmpty(t *testing.T) {
	snap, err := DecodeArena([]byte(`{"not":"an arena"}`), testBays)
	assert.ErrorIs(t, err, ErrBadArena)
	require.Len(t, snap, 1)
	assert.Len(t, snap[0], 3)
	assert.Len(t, snap[0][0], 2)
	for _, row := range snap[0] {
		for _, cell := range row {
			assert.Empty(t, cell)
		}
	}

	snap, err = DecodeArena(nil, testBays)
	assert.NoError(t, err)
	assert.Len(t, snap, 1)
}

func TestDecodeDockFallback(t *testing.T) {
	snap, err := DecodeDock([]byte(`garbage`), testDock)
	assert.ErrorIs(t, err, ErrBadArena)
	assert.Equal(t, testDock.Rows, snap.Rows)
	assert.Len(t, snap.Cells, testDock.ItemsPerPage())

	good := []byte(`{"rows":2,"columns":3,"cells":["","x","","","",""]}`)
	snap, err = DecodeDock(good, testDock)
	require.NoError(t, err)
	assert.Equal(t, "x", snap.Cells[1])
}
