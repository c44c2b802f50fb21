package model

import "time"

// Container types. Reefer bays are matched to reefer containers visually
// only; the validator never enforces the pairing and mis-stowing is left to
// cost the player instead.
const (
	ContainerDry    = "dry"
	ContainerReefer = "reefer"
)

// Container is one physical shipping container in play. A container is
// immutable once created; it is destroyed when discharged at its destination
// port and removed from the simulation.
//
// Fields:
//  ID          – uuid primary key (containers.id).
//  CardID      – originating sales call card, nil for seeded cargo.
//  RoomID      – room the container belongs to.
//  UserID      – player currently carrying the container.
//  Type        – "dry" or "reefer".
//  Destination – port code the container must be discharged at.
//  Color       – derived display attribute, not business-relevant.
type Container struct {
	ID          string    `json:"id"`
	CardID      *uint64   `json:"card_id,omitempty"`
	RoomID      uint64    `json:"room_id"`
	UserID      uint64    `json:"user_id"`
	Type        string    `json:"type"`
	Destination string    `json:"destination"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsReefer reports whether the container needs a powered slot.
func (c Container) IsReefer() bool { return c.Type == ContainerReefer }
