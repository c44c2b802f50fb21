package stowage

// CanPlace reports whether a container may be dropped into the cell. Dock
// cells accept any container while unoccupied. Bay cells additionally
// enforce the gravity rule: outside the bottom row the cell directly below
// (same column, row+1) must already be occupied.
func CanPlace(c Cell, m *PlacementMap, bays []Bay) bool {
	return PlaceError(c, m, bays) == nil
}

// CanRemove reports whether the container in the cell may be picked up. Dock
// cells always allow removal. A bay cell is locked while the cell directly
// above it (same column, row-1) holds a container; a bottom-row container
// with nothing above is always removable.
func CanRemove(c Cell, m *PlacementMap, bays []Bay) bool {
	return RemoveError(c, m, bays) == nil
}

// PlaceError is the reason-carrying form of CanPlace. It returns nil when
// the placement is legal, ErrCellOccupied when the target holds a container,
// ErrFloating when the cell below is empty, and ErrBadCell for addresses
// outside the deck configuration.
func PlaceError(c Cell, m *PlacementMap, bays []Bay) error {
	if c.IsDock() {
		if c.Index < 0 {
			return ErrBadCell
		}
		if m.Occupied(c) {
			return ErrCellOccupied
		}
		return nil
	}
	b, ok := bayByIndex(bays, c.Bay)
	if !ok || c.Index < 0 || c.Index >= b.Cells() {
		return ErrBadCell
	}
	if m.Occupied(c) {
		return ErrCellOccupied
	}
	row, col := RowCol(c.Index, b.Columns)
	if row < b.Rows-1 {
		below := BayCell(b.Index, CellIndex(row+1, col, b.Columns))
		if !m.Occupied(below) {
			return ErrFloating
		}
	}
	return nil
}

// RemoveError is the reason-carrying form of CanRemove. It returns nil when
// removal is legal and ErrBlockedAbove when another container rests on top.
func RemoveError(c Cell, m *PlacementMap, bays []Bay) error {
	if c.IsDock() {
		return nil
	}
	b, ok := bayByIndex(bays, c.Bay)
	if !ok || c.Index < 0 || c.Index >= b.Cells() {
		return ErrBadCell
	}
	row, col := RowCol(c.Index, b.Columns)
	if row > 0 {
		above := BayCell(b.Index, CellIndex(row-1, col, b.Columns))
		if m.Occupied(above) {
			return ErrBlockedAbove
		}
	}
	return nil
}
