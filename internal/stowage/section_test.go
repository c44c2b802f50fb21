package stowage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nivleking/blc-shipping-frontend-sub000/internal/model"
)

func TestAdvanceGatedByPortDestinedContainer(t *testing.T) {
	m := NewPlacementMap()
	require.NoError(t, m.Place("X", BayCell(0, CellIndex(2, 0, 2))))
	containers := map[string]model.Container{
		"X": {ID: "X", Type: model.ContainerDry, Destination: "SBY"},
	}

	sm := NewSectionMachine(5, "SBY")
	err := sm.Advance(m, containers)
	assert.ErrorIs(t, err, ErrSectionGated)
	assert.Equal(t, SectionDischarge, sm.Section())

	// Discharge the container, then the gate opens.
	m.Remove("X")
	require.NoError(t, sm.Advance(m, containers))
	assert.Equal(t, SectionSalesCall, sm.Section())
}

func TestAdvanceIgnoresDockContainers(t *testing.T) {
	m := NewPlacementMap()
	require.NoError(t, m.Place("X", DockCell(0)))
	containers := map[string]model.Container{
		"X": {ID: "X", Destination: "SBY"},
	}
	sm := NewSectionMachine(5, "SBY")
	assert.NoError(t, sm.Advance(m, containers))
}

func TestSwapResetsSectionAndRotatesPort(t *testing.T) {
	sm := NewSectionMachine(3, "SBY")
	require.NoError(t, sm.Advance(NewPlacementMap(), nil))
	assert.Equal(t, SectionSalesCall, sm.Section())

	sm.Swap("MKS")
	assert.Equal(t, 2, sm.Round())
	assert.Equal(t, SectionDischarge, sm.Section())
	assert.Equal(t, "MKS", sm.Port())
}

func TestFinalPhaseBlocksAdvance(t *testing.T) {
	sm := NewSectionMachine(2, "SBY")
	sm.Swap("MKS") // round 2
	assert.False(t, sm.FinalPhase())
	sm.Swap("MDN") // round 3 > totalRounds
	assert.True(t, sm.FinalPhase())

	err := sm.Advance(NewPlacementMap(), nil)
	assert.ErrorIs(t, err, ErrFinalPhase)
	assert.Equal(t, SectionDischarge, sm.Section())
}

func TestRestoreSectionMachine(t *testing.T) {
	sm := RestoreSectionMachine(4, 6, SectionSalesCall, "MDN")
	assert.Equal(t, 4, sm.Round())
	assert.Equal(t, SectionSalesCall, sm.Section())
	assert.Equal(t, "MDN", sm.Port())

	// Unknown section values normalize to discharge.
	sm = RestoreSectionMachine(1, 6, 0, "SBY")
	assert.Equal(t, SectionDischarge, sm.Section())
}
