package stowage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nivleking/blc-shipping-frontend-sub000/internal/model"
)

func restowContainers(dest map[string]string) map[string]model.Container {
	out := make(map[string]model.Container, len(dest))
	for id, d := range dest {
		out[id] = model.Container{ID: id, Type: model.ContainerDry, Destination: d}
	}
	return out
}

// Minimal blocking case: X (destined for the current port) at row 1, Y at
// row 0 directly above it. Y must be reported blocking and X as a target
// that cannot be lifted until Y moves.
func TestDetectMinimalBlockingCase(t *testing.T) {
	m := NewPlacementMap()
	require.NoError(t, m.Place("X", BayCell(0, CellIndex(1, 0, 2))))
	require.NoError(t, m.Place("Y", BayCell(0, CellIndex(0, 0, 2))))

	containers := restowContainers(map[string]string{"X": "SBY", "Y": "MKS"})
	rep := Detect(m, testBays, containers, "SBY", []string{"SBY", "MKS"})

	assert.Contains(t, rep.Targets, "X")
	require.Contains(t, rep.Blocking, "Y")
	assert.Equal(t, []string{"X"}, rep.Blocking["Y"].Blocks)
	assert.NotContains(t, rep.Restows, "Y")

	cell, _ := m.CellOf("X")
	assert.False(t, CanRemove(cell, m, testBays), "X is trapped until Y moves")
}

func TestDetectNonBlockingRestowFlag(t *testing.T) {
	// Stack, top to bottom: A (due 3rd port) above B (due 2nd port). No
	// target involved, but A must be lifted before B can discharge, so A is
	// flagged restow.
	m := NewPlacementMap()
	require.NoError(t, m.Place("B", BayCell(0, CellIndex(2, 0, 2))))
	require.NoError(t, m.Place("A", BayCell(0, CellIndex(1, 0, 2))))

	containers := restowContainers(map[string]string{"A": "MDN", "B": "MKS"})
	rep := Detect(m, testBays, containers, "SBY", []string{"SBY", "MKS", "MDN"})

	assert.Empty(t, rep.Blocking)
	assert.Contains(t, rep.Restows, "A")
	assert.NotContains(t, rep.Restows, "B")
}

func TestDetectWellOrderedStackIsClean(t *testing.T) {
	// Earlier port on top of later port: discharge order matches stack order.
	m := NewPlacementMap()
	require.NoError(t, m.Place("late", BayCell(0, CellIndex(2, 1, 2))))
	require.NoError(t, m.Place("early", BayCell(0, CellIndex(1, 1, 2))))

	containers := restowContainers(map[string]string{"early": "MKS", "late": "MDN"})
	rep := Detect(m, testBays, containers, "SBY", []string{"SBY", "MKS", "MDN"})

	assert.Empty(t, rep.Blocking)
	assert.Empty(t, rep.Restows)
	assert.Empty(t, rep.Targets)
}

func TestDetectIgnoresDockAndSeparateColumns(t *testing.T) {
	m := NewPlacementMap()
	require.NoError(t, m.Place("dockT", DockCell(0)))
	require.NoError(t, m.Place("colA", BayCell(0, CellIndex(2, 0, 2))))
	require.NoError(t, m.Place("colB", BayCell(0, CellIndex(2, 1, 2))))

	containers := restowContainers(map[string]string{
		"dockT": "SBY", "colA": "SBY", "colB": "MKS",
	})
	rep := Detect(m, testBays, containers, "SBY", []string{"SBY", "MKS"})

	assert.Contains(t, rep.Targets, "colA")
	assert.NotContains(t, rep.Targets, "dockT", "dock containers are not stowage targets")
	assert.Empty(t, rep.Blocking, "containers in other columns never block")
}

func TestPortRotation(t *testing.T) {
	swap := map[string]string{"SBY": "MKS", "MKS": "MDN", "MDN": "JYP", "JYP": "SBY"}
	assert.Equal(t, []string{"SBY", "MKS", "MDN", "JYP"}, PortRotation(swap, "SBY"))
	assert.Equal(t, []string{"MDN", "JYP", "SBY", "MKS"}, PortRotation(swap, "MDN"))
	// Broken config must still terminate.
	assert.Equal(t, []string{"X"}, PortRotation(map[string]string{"A": "B"}, "X"))
}
