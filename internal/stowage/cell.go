// Package stowage implements the ship stowage engine: cell addressing,
// placement validation under the gravity rule, drag-and-drop orchestration,
// restowage detection, dock pagination and the per-round section machine.
// All functions here are synchronous and free of I/O; persistence happens
// through ports injected into the Controller.
package stowage

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Area kinds used in cell identifiers.
const (
	AreaBay  = "bay"
	AreaDock = "docks"
)

// ErrBadCellID is returned by ParseCell for identifiers that do not follow
// the bay-{bay}-{index} or docks-{position} scheme.
var ErrBadCellID = errors.New("malformed cell id")

// Cell is a derived location, not an entity. For bay cells Index is the flat
// cell index inside the bay grid; for dock cells Index is the linear dock
// position, continuous across pages.
type Cell struct {
	Area  string `json:"area"`
	Bay   int    `json:"bay"` // bay index; -1 for dock cells
	Index int    `json:"index"`
}

// BayCell builds a bay cell address.
func BayCell(bay, index int) Cell { return Cell{Area: AreaBay, Bay: bay, Index: index} }

// DockCell builds a dock cell address from a linear position.
func DockCell(position int) Cell { return Cell{Area: AreaDock, Bay: -1, Index: position} }

// IsDock reports whether the cell lives in the dock staging area.
func (c Cell) IsDock() bool { return c.Area == AreaDock }

// ID renders the canonical string key: bay-{bay}-{index} or docks-{position}.
func (c Cell) ID() string {
	if c.IsDock() {
		return fmt.Sprintf("docks-%d", c.Index)
	}
	return fmt.Sprintf("bay-%d-%d", c.Bay, c.Index)
}

// ParseCell decodes a cell key produced by Cell.ID. It round-trips for every
// valid address: ParseCell(c.ID()) == c.
func ParseCell(id string) (Cell, error) {
	parts := strings.Split(id, "-")
	switch {
	case len(parts) == 2 && parts[0] == AreaDock:
		pos, err := strconv.Atoi(parts[1])
		if err != nil || pos < 0 {
			return Cell{}, ErrBadCellID
		}
		return DockCell(pos), nil
	case len(parts) == 3 && parts[0] == AreaBay:
		bay, err := strconv.Atoi(parts[1])
		if err != nil || bay < 0 {
			return Cell{}, ErrBadCellID
		}
		idx, err := strconv.Atoi(parts[2])
		if err != nil || idx < 0 {
			return Cell{}, ErrBadCellID
		}
		return BayCell(bay, idx), nil
	}
	return Cell{}, ErrBadCellID
}

// CellIndex flattens a (row, col) coordinate into a cell index for a grid
// with the given number of columns.
func CellIndex(row, col, columns int) int { return row*columns + col }

// RowCol is the inverse of CellIndex.
func RowCol(index, columns int) (row, col int) {
	if columns <= 0 {
		return 0, 0
	}
	return index / columns, index % columns
}

// Bay describes one vertical stack grid on the ship. Row 0 is the top row;
// row Rows-1 sits on the deck and needs no support.
type Bay struct {
	Index   int
	Rows    int
	Columns int
	Type    string // "dry" | "reefer"; informational only, never enforced
}

// Cells returns the number of addressable cells in the bay.
func (b Bay) Cells() int { return b.Rows * b.Columns }

// bayByIndex looks a bay up by its Index field rather than slice position,
// since deck configurations may skip indices.
func bayByIndex(bays []Bay, index int) (Bay, bool) {
	for _, b := range bays {
		if b.Index == index {
			return b, true
		}
	}
	return Bay{}, false
}
