package stowage

import (
	"github.com/nivleking/blc-shipping-frontend-sub000/internal/model"
)

// Issue kinds reported by Detect.
const (
	IssueBlocking = "blocking" // sits on top of a container that must be discharged now
	IssueRestow   = "restow"   // will have to move at an earlier port than its own
)

// Issue describes one container flagged by the restowage detector.
type Issue struct {
	ContainerID string   `json:"container_id"`
	Destination string   `json:"destination"`
	Cell        Cell     `json:"cell"`
	Kind        string   `json:"kind"`
	Blocks      []string `json:"blocks,omitempty"` // target ids trapped beneath (blocking only)
}

// Report is the output of the restowage detector, keyed by container id for
// O(1) lookup while rendering and while gating removals. It is recomputed
// whenever the placement map or the current port changes; nothing here is
// persisted.
type Report struct {
	Targets  map[string]Cell  `json:"targets"`  // destination == current port
	Blocking map[string]Issue `json:"blocking"` // must move before a target can lift
	Restows  map[string]Issue `json:"restows"`  // out of optimal unstacking order
}

// Detect scans every bay column stack and classifies containers against the
// current port. portOrder is the rotation starting at currentPort; ports not
// present in it sort after every known port.
//
// A container is blocking when a target sits anywhere beneath it in the same
// bay/column: the target cannot be lifted out until this container moves. A
// container is flagged restow (non-blocking) when some container beneath it
// is due at an earlier port than its own destination, meaning it will have
// to be relocated before its natural top-down unstacking turn.
func Detect(m *PlacementMap, bays []Bay, containers map[string]model.Container, currentPort string, portOrder []string) Report {
	rep := Report{
		Targets:  make(map[string]Cell),
		Blocking: make(map[string]Issue),
		Restows:  make(map[string]Issue),
	}

	rank := make(map[string]int, len(portOrder))
	for i, p := range portOrder {
		rank[p] = i
	}
	rankOf := func(port string) int {
		if r, ok := rank[port]; ok {
			return r
		}
		return len(portOrder) // unknown ports discharge last
	}

	type slot struct {
		id   string
		row  int
		cell Cell
	}
	// Group bay placements into per-column stacks keyed by (bay, column).
	stacks := make(map[[2]int][]slot)
	for _, p := range m.Placements() {
		if p.Cell.IsDock() {
			continue
		}
		if _, ok := containers[p.ContainerID]; !ok {
			continue
		}
		b, ok := bayByIndex(bays, p.Cell.Bay)
		if !ok {
			continue
		}
		row, col := RowCol(p.Cell.Index, b.Columns)
		key := [2]int{p.Cell.Bay, col}
		stacks[key] = append(stacks[key], slot{id: p.ContainerID, row: row, cell: p.Cell})
	}

	for _, stack := range stacks {
		// Order top-first (row ascending); stacks are at most a few containers
		// tall so insertion sort is fine.
		for i := 1; i < len(stack); i++ {
			for j := i; j > 0 && stack[j].row < stack[j-1].row; j-- {
				stack[j], stack[j-1] = stack[j-1], stack[j]
			}
		}
		for i, s := range stack {
			c := containers[s.id]
			if c.Destination == currentPort {
				rep.Targets[s.id] = s.cell
				continue
			}
			var trapped []string
			earlier := false
			for _, below := range stack[i+1:] {
				bc := containers[below.id]
				if bc.Destination == currentPort {
					trapped = append(trapped, below.id)
				}
				if rankOf(bc.Destination) < rankOf(c.Destination) {
					earlier = true
				}
			}
			switch {
			case len(trapped) > 0:
				rep.Blocking[s.id] = Issue{
					ContainerID: s.id, Destination: c.Destination,
					Cell: s.cell, Kind: IssueBlocking, Blocks: trapped,
				}
			case earlier:
				rep.Restows[s.id] = Issue{
					ContainerID: s.id, Destination: c.Destination,
					Cell: s.cell, Kind: IssueRestow,
				}
			}
		}
	}
	return rep
}

// PortRotation derives the discharge order starting at currentPort by
// following successor edges in the swap configuration. The visited set
// bounds the walk to |ports| steps, so cyclic configs terminate.
func PortRotation(swap map[string]string, currentPort string) []string {
	order := []string{currentPort}
	visited := map[string]bool{currentPort: true}
	p := currentPort
	for range swap {
		next, ok := swap[p]
		if !ok || visited[next] {
			break
		}
		order = append(order, next)
		visited[next] = true
		p = next
	}
	return order
}
