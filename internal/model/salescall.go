package model

import "time"

// Sales call card priorities. Committed cards cannot be rejected.
const (
	PriorityCommitted    = "Committed"
	PriorityNonCommitted = "Non-Committed"
)

// Sales call card statuses. A card transitions pending -> accepted|rejected
// exactly once; accepted cards spawn Containers.
const (
	CardPending  = "pending"
	CardAccepted = "accepted"
	CardRejected = "rejected"
)

// SalesCallCard is an offered shipment dealt to a player each round during
// section 2. Accepting it earns revenue and generates Quantity containers of
// the card's type bound for Destination; rejecting is refused for Committed
// priority.
type SalesCallCard struct {
	ID            uint64     `json:"id"`
	RoomID        uint64     `json:"room_id"`
	UserID        uint64     `json:"user_id"`
	Origin        string     `json:"origin"`
	Destination   string     `json:"destination"`
	Type          string     `json:"type"` // "dry" | "reefer"
	Quantity      int        `json:"quantity"`
	Revenue       int64      `json:"revenue"`
	Priority      string     `json:"priority"`
	IsBacklog     bool       `json:"is_backlog"`
	OriginalRound int        `json:"original_round"`
	Round         int        `json:"round"`
	Status        string     `json:"status"`
	HandledAt     *time.Time `json:"handled_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Rejectable reports whether the reject action is allowed for this card.
func (c SalesCallCard) Rejectable() bool { return c.Priority != PriorityCommitted }
