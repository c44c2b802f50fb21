package stowage

import "errors"

// Sentinel errors for rejected interactions. Every rejection carries a
// distinguishable reason; none of them is fatal and the placement map is
// left untouched whenever one is returned.
var (
	// ErrCellOccupied: the drop target already holds a container.
	ErrCellOccupied = errors.New("cell already occupied")
	// ErrFloating: a bay drop with no support directly below (gravity rule).
	ErrFloating = errors.New("container cannot float")
	// ErrBlockedAbove: the source container has another container resting on it.
	ErrBlockedAbove = errors.New("blocked by container above")
	// ErrAlreadyPlaced: the container is already somewhere on the map.
	ErrAlreadyPlaced = errors.New("container already placed")
	// ErrUnknownContainer: drag started for a container not on the map.
	ErrUnknownContainer = errors.New("container not placed")
	// ErrNotDragging: drop or cancel without a drag in flight.
	ErrNotDragging = errors.New("no drag in progress")
	// ErrDragInFlight: a second drag was started before the first finished.
	ErrDragInFlight = errors.New("drag already in progress")
	// ErrBadCell: the cell does not exist in the configured deck.
	ErrBadCell = errors.New("cell outside deck configuration")
	// ErrSectionGated: section advance refused while port-destined containers
	// remain in the bays.
	ErrSectionGated = errors.New("unload all containers destined for your port first")
	// ErrFinalPhase: the simulation passed its last round; only discharging
	// remains.
	ErrFinalPhase = errors.New("simulation is in the final unloading phase")
)
