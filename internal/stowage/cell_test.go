package stowage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellIDRoundTrip(t *testing.T) {
	for bay := 0; bay < 4; bay++ {
		for idx := 0; idx < 12; idx++ {
			c := BayCell(bay, idx)
			parsed, err := ParseCell(c.ID())
			require.NoError(t, err)
			assert.Equal(t, c, parsed)
		}
	}
	for pos := 0; pos < 30; pos++ {
		c := DockCell(pos)
		parsed, err := ParseCell(c.ID())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
}

func TestCellIndexInverse(t *testing.T) {
	const rows, columns = 4, 5
	for row := 0; row < rows; row++ {
		for col := 0; col < columns; col++ {
			idx := CellIndex(row, col, columns)
			r, c := RowCol(idx, columns)
			assert.Equal(t, row, r)
			assert.Equal(t, col, c)
		}
	}
}

func TestParseCellRejectsGarbage(t *testing.T) {
	for _, id := range []string{"", "bay", "bay-1", "bay-x-2", "bay-1-2-3", "docks", "docks-x", "slot-1-2", "docks--1"} {
		_, err := ParseCell(id)
		assert.ErrorIs(t, err, ErrBadCellID, "id=%q", id)
	}
}

func TestBayCellKeyFormat(t *testing.T) {
	assert.Equal(t, "bay-2-7", BayCell(2, 7).ID())
	assert.Equal(t, "docks-13", DockCell(13).ID())
}
