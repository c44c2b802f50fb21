package repository

import (
	"context"
	"database/sql"

	"github.com/nivleking/blc-shipping-frontend-sub000/internal/model"
)

// ContainerRepo encapsulates queries on the containers table. Containers are
// created when a sales call card is accepted (or seeded at room start) and
// deleted when discharged at their destination port.
type ContainerRepo struct {
	db *sql.DB
}

func NewContainerRepo(db *sql.DB) *ContainerRepo { return &ContainerRepo{db: db} }

// ListByShip returns every container currently owned by a (room, user) pair,
// keyed later by ID against the stored arenas.
func (r *ContainerRepo) ListByShip(ctx context.Context, roomID, userID uint64) ([]model.Container, error) {
	const q = `SELECT id, card_id, room_id, user_id, type, destination, color, created_at
		FROM containers WHERE room_id=? AND user_id=? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, q, roomID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Container
	for rows.Next() {
		var (
			c      model.Container
			cardID sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &cardID, &c.RoomID, &c.UserID, &c.Type, &c.Destination, &c.Color, &c.CreatedAt); err != nil {
			return nil, err
		}
		if cardID.Valid {
			id := uint64(cardID.Int64)
			c.CardID = &id
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// MapByShip is ListByShip keyed by container id, the shape the stowage
// detectors consume.
func (r *ContainerRepo) MapByShip(ctx context.Context, roomID, userID uint64) (map[string]model.Container, error) {
	list, err := r.ListByShip(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]model.Container, len(list))
	for _, c := range list {
		out[c.ID] = c
	}
	return out, nil
}

// CreateBulkTx inserts containers in a single statement inside an existing
// transaction. Passing an empty slice has no effect and returns nil.
func (r *ContainerRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, containers []model.Container) error {
	if len(containers) == 0 {
		return nil
	}
	query := `INSERT INTO containers (id, card_id, room_id, user_id, type, destination, color) VALUES `
	args := make([]interface{}, 0, len(containers)*7)
	for i, c := range containers {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?)"
		var cardID interface{}
		if c.CardID != nil {
			cardID = *c.CardID
		}
		args = append(args, c.ID, cardID, c.RoomID, c.UserID, c.Type, c.Destination, c.Color)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// DeleteByIDs removes discharged containers.
func (r *ContainerRepo) DeleteByIDs(ctx context.Context, roomID uint64, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `DELETE FROM containers WHERE room_id=? AND id IN (`
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, roomID)
	for i, id := range ids {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, id)
	}
	query += ")"
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// ReassignShip hands every container of one ship to another user. Used when
// bays swap between players at the end of a round.
func (r *ContainerRepo) ReassignShip(ctx context.Context, tx *sql.Tx, roomID, fromUser, toUser uint64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE containers SET user_id=? WHERE room_id=? AND user_id=?`,
		toUser, roomID, fromUser)
	return err
}
