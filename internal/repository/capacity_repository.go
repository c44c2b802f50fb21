package repository

import (
	"context"

	"github.com/nivleking/blc-shipping-frontend-sub000/internal/capacity"
	"github.com/nivleking/blc-shipping-frontend-sub000/internal/model"
)

// CapacityRepo assembles the weekly capacity-uptake input for one ship from
// the container, card, ship state and room tables. It owns no table of its
// own.
type CapacityRepo struct {
	rooms      *RoomRepo
	arenas     *ArenaRepo
	containers *ContainerRepo
	cards      *SalesCallRepo
}

func NewCapacityRepo(rooms *RoomRepo, arenas *ArenaRepo, containers *ContainerRepo, cards *SalesCallRepo) *CapacityRepo {
	return &CapacityRepo{rooms: rooms, arenas: arenas, containers: containers, cards: cards}
}

// LoadBundle gathers everything capacity.Compute needs for a ship's current
// round: containers on board, cards accepted this round, the backlog totals
// and the room's capacity limits and rotation.
func (r *CapacityRepo) LoadBundle(ctx context.Context, roomID, userID uint64) (capacity.Bundle, error) {
	var b capacity.Bundle

	room, err := r.rooms.GetByID(ctx, roomID)
	if err != nil {
		return b, err
	}
	state, err := r.arenas.GetShipState(ctx, roomID, userID)
	if err != nil {
		return b, err
	}

	containers, err := r.containers.ListByShip(ctx, roomID, userID)
	if err != nil {
		return b, err
	}

	accepted, err := r.cards.ListAcceptedForRound(ctx, roomID, userID, state.Round)
	if err != nil {
		return b, err
	}
	backlog, err := r.cards.ListBacklogForRound(ctx, roomID, userID, state.Round)
	if err != nil {
		return b, err
	}

	b.Containers = containers
	b.AcceptedCards = make([]model.SalesCallCard, 0, len(accepted))
	for _, c := range accepted {
		b.AcceptedCards = append(b.AcceptedCards, *c)
	}
	for _, c := range backlog {
		if c.Type == model.ContainerReefer {
			b.Backlog.Reefer += c.Quantity
		} else {
			b.Backlog.Dry += c.Quantity
		}
	}
	b.Backlog.Total = b.Backlog.Dry + b.Backlog.Reefer

	b.MaxCapacity = capacity.NewSplit(room.MaxCapacityDry, room.MaxCapacityReefer)
	b.SwapConfig = room.SwapConfig
	b.Port = state.Port
	return b, nil
}
