package stowage

// Dock occupancy thresholds, in percent. At NearCapacityPercent the UI shows
// a warning, at FullPercent the page is critical and an overflow page may be
// offered during a drag.
const (
	NearCapacityPercent = 70
	FullPercent         = 100
)

// Occupancy status labels derived from the thresholds above.
const (
	DockOK           = "ok"
	DockNearCapacity = "near_capacity"
	DockFull         = "full"
)

// DockLayout describes the fixed page grid of the staging dock.
type DockLayout struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// ItemsPerPage returns the page size of the dock grid.
func (d DockLayout) ItemsPerPage() int { return d.Rows * d.Columns }

// TotalPages returns how many pages the given linear positions span. An
// empty dock still has one page.
func TotalPages(positions []int, itemsPerPage int) int {
	if itemsPerPage <= 0 {
		return 1
	}
	max := -1
	for _, p := range positions {
		if p > max {
			max = p
		}
	}
	if max < 0 {
		return 1
	}
	return max/itemsPerPage + 1
}

// PageFor returns the page a linear position belongs to: position
// itemsPerPage-1 is still page 0, position itemsPerPage opens page 1.
func PageFor(position, itemsPerPage int) int {
	if itemsPerPage <= 0 || position < 0 {
		return 0
	}
	return position / itemsPerPage
}

// VisibleItems filters positions down to the window
// [page*itemsPerPage, (page+1)*itemsPerPage).
func VisibleItems(positions []int, page, itemsPerPage int) []int {
	lo, hi := page*itemsPerPage, (page+1)*itemsPerPage
	out := make([]int, 0, len(positions))
	for _, p := range positions {
		if p >= lo && p < hi {
			out = append(out, p)
		}
	}
	return out
}

// OccupancyPercent returns the page fill ratio in percent.
func OccupancyPercent(positions []int, page, itemsPerPage int) int {
	if itemsPerPage <= 0 {
		return 0
	}
	return len(VisibleItems(positions, page, itemsPerPage)) * 100 / itemsPerPage
}

// OccupancyStatus maps a fill percentage onto the warning ladder.
func OccupancyStatus(percent int) string {
	switch {
	case percent >= FullPercent:
		return DockFull
	case percent >= NearCapacityPercent:
		return DockNearCapacity
	default:
		return DockOK
	}
}

// FirstFreePosition returns the lowest unoccupied linear position on the
// given page, or -1 when the page is full.
func FirstFreePosition(positions []int, page, itemsPerPage int) int {
	taken := make(map[int]bool, len(positions))
	for _, p := range positions {
		taken[p] = true
	}
	for pos := page * itemsPerPage; pos < (page+1)*itemsPerPage; pos++ {
		if !taken[pos] {
			return pos
		}
	}
	return -1
}

// Paginator tracks the visible dock page for one player, including the
// provisional overflow page offered while a full page is being dragged over.
// The overflow page holds no real data until something is dropped into it;
// it is discarded when the drag ends elsewhere.
type Paginator struct {
	Layout   DockLayout
	page     int
	overflow bool
}

// NewPaginator returns a paginator showing page 0.
func NewPaginator(layout DockLayout) *Paginator {
	return &Paginator{Layout: layout}
}

// Page returns the page currently shown.
func (p *Paginator) Page() int { return p.page }

// OverflowOffered reports whether a provisional next page is being shown.
func (p *Paginator) OverflowOffered() bool { return p.overflow }

// SetPage clamps and applies manual navigation. Navigating away drops any
// provisional overflow page.
func (p *Paginator) SetPage(page int, positions []int) {
	total := TotalPages(positions, p.Layout.ItemsPerPage())
	if page < 0 {
		page = 0
	}
	if page >= total {
		page = total - 1
	}
	p.page = page
	p.overflow = false
}

// OfferOverflow advances to a provisional empty page when the current page
// is 100% occupied during a bay-to-dock drag. It reports whether the
// overflow page was presented.
func (p *Paginator) OfferOverflow(positions []int) bool {
	ipp := p.Layout.ItemsPerPage()
	if OccupancyPercent(positions, p.page, ipp) < FullPercent {
		return false
	}
	p.page++
	p.overflow = true
	return true
}

// EndDrag finalizes the overflow page: when the drag ended without a drop on
// it the provisional page is discarded and the view snaps back.
func (p *Paginator) EndDrag(droppedOnOverflow bool) {
	if p.overflow && !droppedOnOverflow {
		p.page--
	}
	p.overflow = false
}

// Reconcile re-points the view after a removal: when the current page went
// empty and is not page 0, jump to the lowest page that still has
// containers, else page 0.
func (p *Paginator) Reconcile(positions []int) {
	ipp := p.Layout.ItemsPerPage()
	if p.page == 0 || len(VisibleItems(positions, p.page, ipp)) > 0 {
		return
	}
	if len(positions) == 0 {
		p.page = 0
		return
	}
	lowest := PageFor(positions[0], ipp)
	for _, pos := range positions[1:] {
		if pg := PageFor(pos, ipp); pg < lowest {
			lowest = pg
		}
	}
	p.page = lowest
}
