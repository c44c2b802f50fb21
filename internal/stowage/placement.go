package stowage

import (
	"encoding/json"
	"errors"
	"sort"
)

// ErrBadArena is returned when an arena snapshot from the backend cannot be
// decoded. Callers fall back to an empty arena of the configured dimensions
// instead of failing the request.
var ErrBadArena = errors.New("malformed arena data")

// Placement pairs a container with its current location.
type Placement struct {
	ContainerID string `json:"container_id"`
	Cell        Cell   `json:"cell"`
}

// PlacementMap is the single source of mutable truth for stowage. It keeps a
// bidirectional index between container ids and cells and preserves insertion
// order so snapshots stay deterministic. At most one container occupies a
// cell at any time. Only the drag Controller's accept path writes to it;
// every read-derivation (restow detection, capacity points, pagination)
// treats it as read-only input.
type PlacementMap struct {
	byCell map[string]string // cell key -> container id
	byID   map[string]Cell   // container id -> cell
	order  []string          // container ids, insertion order
}

// NewPlacementMap returns an empty placement map.
func NewPlacementMap() *PlacementMap {
	return &PlacementMap{
		byCell: make(map[string]string),
		byID:   make(map[string]Cell),
	}
}

// Len reports the number of placed containers.
func (m *PlacementMap) Len() int { return len(m.byID) }

// At returns the container occupying the cell, if any.
func (m *PlacementMap) At(c Cell) (string, bool) {
	id, ok := m.byCell[c.ID()]
	return id, ok
}

// Occupied reports whether any container sits in the cell.
func (m *PlacementMap) Occupied(c Cell) bool {
	_, ok := m.byCell[c.ID()]
	return ok
}

// CellOf returns the cell holding the container, if placed.
func (m *PlacementMap) CellOf(containerID string) (Cell, bool) {
	c, ok := m.byID[containerID]
	return c, ok
}

// Place puts a container into a cell. It refuses occupied cells and refuses
// to double-place a container; movement goes through Remove then Place.
func (m *PlacementMap) Place(containerID string, c Cell) error {
	if _, ok := m.byCell[c.ID()]; ok {
		return ErrCellOccupied
	}
	if _, ok := m.byID[containerID]; ok {
		return ErrAlreadyPlaced
	}
	m.byCell[c.ID()] = containerID
	m.byID[containerID] = c
	m.order = append(m.order, containerID)
	return nil
}

// Remove takes a container off the map and returns the cell it occupied.
func (m *PlacementMap) Remove(containerID string) (Cell, bool) {
	c, ok := m.byID[containerID]
	if !ok {
		return Cell{}, false
	}
	delete(m.byID, containerID)
	delete(m.byCell, c.ID())
	for i, id := range m.order {
		if id == containerID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return c, true
}

// Placements returns the current placements in insertion order.
func (m *PlacementMap) Placements() []Placement {
	out := make([]Placement, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, Placement{ContainerID: id, Cell: m.byID[id]})
	}
	return out
}

// DockPositions returns the linear positions of all dock-placed containers,
// sorted ascending. Used by the pagination engine.
func (m *PlacementMap) DockPositions() []int {
	var out []int
	for _, c := range m.byID {
		if c.IsDock() {
			out = append(out, c.Index)
		}
	}
	sort.Ints(out)
	return out
}

// BaySnapshot is the wire shape of the ship arena:
// snapshot[bayOrdinal][row][col] holds a container id or "" for empty.
type BaySnapshot [][][]string

// DockSnapshot is the wire shape of the staging dock: a linear cell slice
// plus the page grid descriptor.
type DockSnapshot struct {
	Rows    int      `json:"rows"`
	Columns int      `json:"columns"`
	Cells   []string `json:"cells"`
}

// EmptyBaySnapshot builds an all-empty arena matching the deck configuration.
func EmptyBaySnapshot(bays []Bay) BaySnapshot {
	snap := make(BaySnapshot, len(bays))
	for i, b := range bays {
		grid := make([][]string, b.Rows)
		for r := range grid {
			grid[r] = make([]string, b.Columns)
		}
		snap[i] = grid
	}
	return snap
}

// BuildBaySnapshot renders the bay side of the placement map as a nested
// matrix, ordered like the bays slice.
func BuildBaySnapshot(m *PlacementMap, bays []Bay) BaySnapshot {
	snap := EmptyBaySnapshot(bays)
	for i, b := range bays {
		for _, p := range m.Placements() {
			if p.Cell.IsDock() || p.Cell.Bay != b.Index {
				continue
			}
			row, col := RowCol(p.Cell.Index, b.Columns)
			if row < b.Rows && col < b.Columns {
				snap[i][row][col] = p.ContainerID
			}
		}
	}
	return snap
}

// BuildDockSnapshot renders the dock side of the placement map as a linear
// slice padded to whole pages.
func BuildDockSnapshot(m *PlacementMap, dock DockLayout) DockSnapshot {
	positions := m.DockPositions()
	ipp := dock.ItemsPerPage()
	pages := TotalPages(positions, ipp)
	cells := make([]string, pages*ipp)
	for _, p := range m.Placements() {
		if p.Cell.IsDock() && p.Cell.Index < len(cells) {
			cells[p.Cell.Index] = p.ContainerID
		}
	}
	return DockSnapshot{Rows: dock.Rows, Columns: dock.Columns, Cells: cells}
}

// LoadBaySnapshot places every container from an arena snapshot onto the map.
// Rows or columns beyond the configured bay dimensions are ignored.
func LoadBaySnapshot(m *PlacementMap, snap BaySnapshot, bays []Bay) error {
	for i, grid := range snap {
		if i >= len(bays) {
			break
		}
		b := bays[i]
		for row := 0; row < len(grid) && row < b.Rows; row++ {
			for col := 0; col < len(grid[row]) && col < b.Columns; col++ {
				id := grid[row][col]
				if id == "" {
					continue
				}
				if err := m.Place(id, BayCell(b.Index, CellIndex(row, col, b.Columns))); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// LoadDockSnapshot places every container from a dock snapshot onto the map.
func LoadDockSnapshot(m *PlacementMap, snap DockSnapshot) error {
	for pos, id := range snap.Cells {
		if id == "" {
			continue
		}
		if err := m.Place(id, DockCell(pos)); err != nil {
			return err
		}
	}
	return nil
}

// DecodeArena is the single normalization boundary for arena data coming off
// the wire. The backend sometimes delivers the matrix as a JSON array and
// sometimes as a JSON string wrapping that array; both are accepted. On any
// decode failure it returns an all-empty arena of the configured dimensions
// together with ErrBadArena so callers can log and degrade instead of crash.
func DecodeArena(raw []byte, bays []Bay) (BaySnapshot, error) {
	if len(raw) == 0 {
		return EmptyBaySnapshot(bays), nil
	}
	data := raw
	// String-wrapped payload: unquote first.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return EmptyBaySnapshot(bays), nil
		}
		data = []byte(s)
	}
	var snap BaySnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return EmptyBaySnapshot(bays), ErrBadArena
	}
	return snap, nil
}

// DecodeDock normalizes a dock snapshot the same way DecodeArena does for
// bay matrices, falling back to an empty dock on malformed input.
func DecodeDock(raw []byte, dock DockLayout) (DockSnapshot, error) {
	empty := DockSnapshot{Rows: dock.Rows, Columns: dock.Columns, Cells: make([]string, dock.ItemsPerPage())}
	if len(raw) == 0 {
		return empty, nil
	}
	data := raw
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return empty, nil
		}
		data = []byte(s)
	}
	var snap DockSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return empty, ErrBadArena
	}
	if snap.Rows == 0 || snap.Columns == 0 {
		snap.Rows, snap.Columns = dock.Rows, dock.Columns
	}
	return snap, nil
}
