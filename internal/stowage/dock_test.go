package stowage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageBoundary(t *testing.T) {
	const ipp = 6 // 2x3 dock
	assert.Equal(t, 0, PageFor(ipp-1, ipp), "last cell of the grid stays on page 0")
	assert.Equal(t, 1, PageFor(ipp, ipp), "next position opens page 1")
}

func TestTotalPages(t *testing.T) {
	const ipp = 6
	assert.Equal(t, 1, TotalPages(nil, ipp), "empty dock still shows one page")
	assert.Equal(t, 1, TotalPages([]int{0, 5}, ipp))
	assert.Equal(t, 2, TotalPages([]int{0, 6}, ipp))
	assert.Equal(t, 4, TotalPages([]int{23}, ipp))
}

func TestVisibleItems(t *testing.T) {
	positions := []int{0, 3, 5, 6, 11, 12}
	assert.Equal(t, []int{0, 3, 5}, VisibleItems(positions, 0, 6))
	assert.Equal(t, []int{6, 11}, VisibleItems(positions, 1, 6))
	assert.Equal(t, []int{12}, VisibleItems(positions, 2, 6))
}

func TestOccupancyThresholds(t *testing.T) {
	assert.Equal(t, DockOK, OccupancyStatus(69))
	assert.Equal(t, DockNearCapacity, OccupancyStatus(70))
	assert.Equal(t, DockNearCapacity, OccupancyStatus(99))
	assert.Equal(t, DockFull, OccupancyStatus(100))
}

func TestOccupancyPercent(t *testing.T) {
	// 5 of 6 cells on page 0 -> 83%.
	positions := []int{0, 1, 2, 3, 4}
	assert.Equal(t, 83, OccupancyPercent(positions, 0, 6))
	assert.Equal(t, DockNearCapacity, OccupancyStatus(OccupancyPercent(positions, 0, 6)))
}

func TestOfferOverflowOnlyWhenFull(t *testing.T) {
	p := NewPaginator(DockLayout{Rows: 2, Columns: 3})

	partial := []int{0, 1, 2, 3, 4}
	assert.False(t, p.OfferOverflow(partial))
	assert.Equal(t, 0, p.Page())

	full := []int{0, 1, 2, 3, 4, 5}
	assert.True(t, p.OfferOverflow(full))
	assert.Equal(t, 1, p.Page())
	assert.True(t, p.OverflowOffered())
}

func TestOverflowDiscardedWithoutDrop(t *testing.T) {
	p := NewPaginator(DockLayout{Rows: 2, Columns: 3})
	full := []int{0, 1, 2, 3, 4, 5}
	assert.True(t, p.OfferOverflow(full))

	p.EndDrag(false) // drag ended elsewhere
	assert.Equal(t, 0, p.Page())
	assert.False(t, p.OverflowOffered())
}

func TestOverflowKeptAfterDrop(t *testing.T) {
	p := NewPaginator(DockLayout{Rows: 2, Columns: 3})
	full := []int{0, 1, 2, 3, 4, 5}
	assert.True(t, p.OfferOverflow(full))

	p.EndDrag(true)
	assert.Equal(t, 1, p.Page())
	assert.False(t, p.OverflowOffered())
}

func TestReconcileJumpsToLowestOccupiedPage(t *testing.T) {
	p := NewPaginator(DockLayout{Rows: 2, Columns: 3})
	p.SetPage(2, []int{6, 14})
	assert.Equal(t, 2, p.Page())

	// Page 2 emptied; lowest occupied page is 1.
	p.Reconcile([]int{6})
	assert.Equal(t, 1, p.Page())

	// Everything gone: back to page 0.
	p.SetPage(1, []int{6})
	p.Reconcile(nil)
	assert.Equal(t, 0, p.Page())
}

func TestFirstFreePosition(t *testing.T) {
	assert.Equal(t, 2, FirstFreePosition([]int{0, 1, 3}, 0, 6))
	assert.Equal(t, 6, FirstFreePosition([]int{0, 1, 2, 3, 4, 5}, 1, 6))
	assert.Equal(t, -1, FirstFreePosition([]int{0, 1, 2, 3, 4, 5}, 0, 6))
}
