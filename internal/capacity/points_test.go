package capacity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nivleking/blc-shipping-frontend-sub000/internal/model"
)

var testSwap = map[string]string{
	"SBY": "MKS", "MKS": "MDN", "MDN": "JYP", "JYP": "SBY",
}

func assertTotals(t *testing.T, p Points) {
	t.Helper()
	for name, s := range map[string]Split{
		"A": p.A, "B": p.B, "C": p.C, "D": p.D, "E": p.E, "F": p.F,
		"G": p.G, "H": p.H, "I": p.I, "J": p.J, "K": p.K,
	} {
		assert.Equalf(t, s.Dry+s.Reefer, s.Total, "point %s: total != dry+reefer", name)
	}
}

func TestNextAndLaterPorts(t *testing.T) {
	next, later := NextAndLaterPorts(testSwap, "SBY")
	assert.Equal(t, "MKS", next)
	assert.Equal(t, []string{"MDN", "JYP"}, later)

	next, later = NextAndLaterPorts(testSwap, "JYP")
	assert.Equal(t, "SBY", next)
	assert.Equal(t, []string{"MKS", "MDN"}, later)

	// Missing port yields an empty classification rather than a panic.
	next, later = NextAndLaterPorts(testSwap, "XXX")
	assert.Empty(t, next)
	assert.Empty(t, later)
}

func TestComputeBucketsContainersAndCards(t *testing.T) {
	b := Bundle{
		Port:       "SBY",
		SwapConfig: testSwap,
		Containers: []model.Container{
			{ID: "1", Type: model.ContainerDry, Destination: "MKS"},    // A
			{ID: "2", Type: model.ContainerReefer, Destination: "MKS"}, // A
			{ID: "3", Type: model.ContainerDry, Destination: "MDN"},    // B
			{ID: "4", Type: model.ContainerDry, Destination: "JYP"},    // B
			{ID: "5", Type: model.ContainerDry, Destination: "SBY"},    // neither: home port
		},
		AcceptedCards: []model.SalesCallCard{
			{Type: model.ContainerDry, Destination: "MKS", Quantity: 4},    // C, J
			{Type: model.ContainerReefer, Destination: "MDN", Quantity: 2}, // D, J
			{Type: model.ContainerDry, Destination: "SBY", Quantity: 3},    // J only
		},
		Backlog:     NewSplit(1, 1),
		MaxCapacity: NewSplit(12, 6),
	}

	p := Compute(b)
	assertTotals(t, p)

	assert.Equal(t, NewSplit(1, 1), p.A)
	assert.Equal(t, NewSplit(2, 0), p.B)
	assert.Equal(t, NewSplit(4, 0), p.C, "C counts card quantities, not containers")
	assert.Equal(t, NewSplit(0, 2), p.D)
	assert.Equal(t, NewSplit(2, 2), p.F)
	assert.Equal(t, NewSplit(10, 4), p.G)
	assert.Equal(t, NewSplit(9, 3), p.I)
	assert.Equal(t, NewSplit(7, 2), p.J)
	assert.Equal(t, NewSplit(2, 1), p.K)
	assert.False(t, p.Overbooked())
}

// Overbooking scenario: committed space exceeds the ship. G must go negative
// and be flagged, never rejected.
func TestComputeOverbooking(t *testing.T) {
	b := Bundle{
		Port:       "SBY",
		SwapConfig: testSwap,
		Containers: append(
			containersTo("MDN", model.ContainerDry, 6),
			containersTo("MDN", model.ContainerReefer, 3)...,
		),
		AcceptedCards: []model.SalesCallCard{
			{Type: model.ContainerDry, Destination: "JYP", Quantity: 6},
			{Type: model.ContainerReefer, Destination: "JYP", Quantity: 3},
		},
		MaxCapacity: NewSplit(10, 5),
	}

	p := Compute(b)
	assertTotals(t, p)

	require.Equal(t, NewSplit(6, 3), p.B)
	require.Equal(t, NewSplit(6, 3), p.D)
	assert.Equal(t, Split{Dry: 12, Reefer: 6, Total: 18}, p.F)
	assert.Equal(t, Split{Dry: -2, Reefer: -1, Total: -3}, p.G)
	assert.True(t, p.Overbooked())
}

func TestComputeAlgebraChain(t *testing.T) {
	b := Bundle{
		Port:       "MKS",
		SwapConfig: testSwap,
		AcceptedCards: []model.SalesCallCard{
			{Type: model.ContainerDry, Destination: "MDN", Quantity: 5},
			{Type: model.ContainerReefer, Destination: "SBY", Quantity: 2},
		},
		Backlog:     NewSplit(3, 2),
		MaxCapacity: NewSplit(8, 4),
	}
	p := Compute(b)
	assertTotals(t, p)

	assert.Equal(t, p.B.Add(p.D), p.F)
	assert.Equal(t, p.E.Sub(p.F), p.G)
	assert.Equal(t, p.G.Sub(p.H), p.I)
	assert.Equal(t, p.I.Sub(p.J), p.K)
}

func TestSplitArithmetic(t *testing.T) {
	a := NewSplit(3, 2)
	b := NewSplit(5, 4)
	assert.Equal(t, Split{Dry: 8, Reefer: 6, Total: 14}, a.Add(b))
	diff := a.Sub(b)
	assert.Equal(t, Split{Dry: -2, Reefer: -2, Total: -4}, diff)
	assert.True(t, diff.Negative())
	assert.False(t, a.Negative())
}

func containersTo(dest, typ string, n int) []model.Container {
	out := make([]model.Container, n)
	for i := range out {
		out[i] = model.Container{Type: typ, Destination: dest}
	}
	return out
}
