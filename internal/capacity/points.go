// Package capacity computes the weekly capacity uptake ledger: the derived
// points A through K that track on-board cargo, accepted bookings, remaining
// space and backlog for one player and one week. Everything here is a pure
// function of its inputs; the points are recomputed on every data refresh
// and never persisted.
package capacity

import (
	"github.com/nivleking/blc-shipping-frontend-sub000/internal/model"
)

// Split is a {dry, reefer, total} triple. Total == Dry+Reefer holds for
// every point the engine emits.
type Split struct {
	Dry    int `json:"dry"`
	Reefer int `json:"reefer"`
	Total  int `json:"total"`
}

// NewSplit builds a split with its total derived from the components.
func NewSplit(dry, reefer int) Split {
	return Split{Dry: dry, Reefer: reefer, Total: dry + reefer}
}

// Add returns the componentwise sum.
func (s Split) Add(o Split) Split { return NewSplit(s.Dry+o.Dry, s.Reefer+o.Reefer) }

// Sub returns the componentwise difference. Components may go negative;
// that signals overbooking, not an error.
func (s Split) Sub(o Split) Split { return NewSplit(s.Dry-o.Dry, s.Reefer-o.Reefer) }

// Negative reports whether any component dropped below zero.
func (s Split) Negative() bool { return s.Dry < 0 || s.Reefer < 0 || s.Total < 0 }

// Points is the full A..K ledger for one player and week.
//
//	A  on-board containers destined for the next port
//	B  on-board containers destined for later ports
//	C  accepted booking quantities to the next port
//	D  accepted booking quantities to later ports
//	E  maximum ship capacity
//	F  B + D        committed space sailing past the next port
//	G  E - F        remaining capacity (negative = overbooked)
//	H  backlog carried from the prior week
//	I  G - H
//	J  accepted booking quantities this week, all destinations
//	K  I - J        net capacity after this week's bookings
//
// A and B count physical containers while C and D count booked quantities
// from cards whose containers may not exist yet. The two counting methods
// are deliberately different and must not be unified.
type Points struct {
	A Split `json:"a"`
	B Split `json:"b"`
	C Split `json:"c"`
	D Split `json:"d"`
	E Split `json:"e"`
	F Split `json:"f"`
	G Split `json:"g"`
	H Split `json:"h"`
	I Split `json:"i"`
	J Split `json:"j"`
	K Split `json:"k"`
}

// Overbooked reports whether remaining capacity went negative anywhere in
// the G/I/K chain. A warning condition, never an error.
func (p Points) Overbooked() bool {
	return p.G.Negative() || p.I.Negative() || p.K.Negative()
}

// Bundle is the per-room/user/week input assembled by the capacity
// repository from arena, card and configuration data.
type Bundle struct {
	Containers    []model.Container     `json:"containers"`     // on board at week start
	AcceptedCards []model.SalesCallCard `json:"accepted_cards"` // accepted this week
	Backlog       Split                 `json:"backlog"`
	MaxCapacity   Split                 `json:"max_capacity"`
	SwapConfig    map[string]string     `json:"swap_config"`
	Port          string                `json:"port"` // the player's current port
}

// NextAndLaterPorts walks the port-swap graph from the current port. The
// first hop is the next port; the walk then follows successor edges until it
// returns to the current port or exhausts the node count (the visited set
// bounds the walk, so cyclic configs terminate). The next port itself is not
// part of laterPorts.
func NextAndLaterPorts(swap map[string]string, currentPort string) (next string, later []string) {
	next = swap[currentPort]
	if next == "" {
		return "", nil
	}
	visited := map[string]bool{currentPort: true, next: true}
	p := next
	for range swap {
		succ, ok := swap[p]
		if !ok || succ == currentPort || visited[succ] {
			break
		}
		later = append(later, succ)
		visited[succ] = true
		p = succ
	}
	return next, later
}

// Compute derives the full A..K ledger from a bundle.
func Compute(b Bundle) Points {
	next, later := NextAndLaterPorts(b.SwapConfig, b.Port)
	laterSet := make(map[string]bool, len(later))
	for _, p := range later {
		laterSet[p] = true
	}

	bucket := func(dry, reefer *int, typ string) {
		if typ == model.ContainerReefer {
			*reefer++
		} else {
			*dry++
		}
	}

	var aDry, aReefer, bDry, bReefer int
	for _, c := range b.Containers {
		switch {
		case c.Destination == next:
			bucket(&aDry, &aReefer, c.Type)
		case laterSet[c.Destination]:
			bucket(&bDry, &bReefer, c.Type)
		}
	}

	// C/D/J sum card quantities, not containers.
	var cDry, cReefer, dDry, dReefer, jDry, jReefer int
	for _, card := range b.AcceptedCards {
		dry, reefer := 0, 0
		if card.Type == model.ContainerReefer {
			reefer = card.Quantity
		} else {
			dry = card.Quantity
		}
		jDry += dry
		jReefer += reefer
		switch {
		case card.Destination == next:
			cDry += dry
			cReefer += reefer
		case laterSet[card.Destination]:
			dDry += dry
			dReefer += reefer
		}
	}

	p := Points{
		A: NewSplit(aDry, aReefer),
		B: NewSplit(bDry, bReefer),
		C: NewSplit(cDry, cReefer),
		D: NewSplit(dDry, dReefer),
		E: NewSplit(b.MaxCapacity.Dry, b.MaxCapacity.Reefer),
		H: NewSplit(b.Backlog.Dry, b.Backlog.Reefer),
		J: NewSplit(jDry, jReefer),
	}
	p.F = p.B.Add(p.D)
	p.G = p.E.Sub(p.F)
	p.I = p.G.Sub(p.H)
	p.K = p.I.Sub(p.J)
	return p
}
