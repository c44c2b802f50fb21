// This file defines repository methods for sales call cards. Accepting a
// card is the only write path that creates containers, so the accept flow
// runs in one transaction: flip the card status, bulk-insert the spawned
// containers and credit the ship's revenue. Committed cards refuse the
// reject action at this layer as well as in the handler.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/nivleking/blc-shipping-frontend-sub000/internal/model"
)

// SalesCallRepo encapsulates queries on the sales_call_cards table.
type SalesCallRepo struct {
	db         *sql.DB
	containers *ContainerRepo
}

func NewSalesCallRepo(db *sql.DB, containers *ContainerRepo) *SalesCallRepo {
	return &SalesCallRepo{db: db, containers: containers}
}

const cardColumns = `id, room_id, user_id, origin, destination, type, quantity,
	revenue, priority, is_backlog, original_round, round, status, handled_at, created_at`

func scanCard(row interface{ Scan(...any) error }) (*model.SalesCallCard, error) {
	var (
		c         model.SalesCallCard
		handledAt sql.NullTime
	)
	err := row.Scan(&c.ID, &c.RoomID, &c.UserID, &c.Origin, &c.Destination, &c.Type,
		&c.Quantity, &c.Revenue, &c.Priority, &c.IsBacklog, &c.OriginalRound,
		&c.Round, &c.Status, &handledAt, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if handledAt.Valid {
		t := handledAt.Time
		c.HandledAt = &t
	}
	return &c, nil
}

// DealBulk inserts a batch of freshly dealt cards in one statement.
func (r *SalesCallRepo) DealBulk(ctx context.Context, cards []model.SalesCallCard) error {
	if len(cards) == 0 {
		return nil
	}
	query := `INSERT INTO sales_call_cards
		(room_id, user_id, origin, destination, type, quantity, revenue, priority, is_backlog, original_round, round, status) VALUES `
	args := make([]interface{}, 0, len(cards)*12)
	for i, c := range cards {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
		args = append(args, c.RoomID, c.UserID, c.Origin, c.Destination, c.Type,
			c.Quantity, c.Revenue, c.Priority, c.IsBacklog, c.OriginalRound, c.Round, model.CardPending)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// GetByID fetches one card. Returns ErrCardNotFound when absent.
func (r *SalesCallRepo) GetByID(ctx context.Context, id uint64) (*model.SalesCallCard, error) {
	const q = `SELECT ` + cardColumns + ` FROM sales_call_cards WHERE id = ?`
	c, err := scanCard(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCardNotFound
	}
	return c, err
}

// ListForRound returns a ship's cards for the given round, backlog first so
// carried-over offers surface at the top of the sales call screen.
func (r *SalesCallRepo) ListForRound(ctx context.Context, roomID, userID uint64, round int) ([]*model.SalesCallCard, error) {
	const q = `SELECT ` + cardColumns + ` FROM sales_call_cards
		WHERE room_id=? AND user_id=? AND round=?
		ORDER BY is_backlog DESC, priority='Committed' DESC, id`
	rows, err := r.db.QueryContext(ctx, q, roomID, userID, round)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.SalesCallCard
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListAcceptedForRound returns cards already accepted this round, the input
// for capacity point C/D bookkeeping.
func (r *SalesCallRepo) ListAcceptedForRound(ctx context.Context, roomID, userID uint64, round int) ([]*model.SalesCallCard, error) {
	const q = `SELECT ` + cardColumns + ` FROM sales_call_cards
		WHERE room_id=? AND user_id=? AND round=? AND status=? AND is_backlog=0 ORDER BY id`
	return r.listCards(ctx, q, roomID, userID, round, model.CardAccepted)
}

// ListBacklogForRound returns accepted backlog cards carried into this round.
func (r *SalesCallRepo) ListBacklogForRound(ctx context.Context, roomID, userID uint64, round int) ([]*model.SalesCallCard, error) {
	const q = `SELECT ` + cardColumns + ` FROM sales_call_cards
		WHERE room_id=? AND user_id=? AND round=? AND status=? AND is_backlog=1 ORDER BY id`
	return r.listCards(ctx, q, roomID, userID, round, model.CardAccepted)
}

func (r *SalesCallRepo) listCards(ctx context.Context, q string, args ...interface{}) ([]*model.SalesCallCard, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.SalesCallCard
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AcceptTx accepts a pending card: flips the status, spawns Quantity
// containers bound for the card's destination and credits the ship's
// revenue. Returns the created containers so the handler can report them.
// ErrConflict when the card was already handled; ErrForbidden when the card
// belongs to another ship.
func (r *SalesCallRepo) AcceptTx(ctx context.Context, cardID, roomID, userID uint64, color string) ([]model.Container, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	c, err := r.lockCard(ctx, tx, cardID, roomID, userID)
	if err != nil {
		return nil, err
	}
	if c.Status != model.CardPending {
		err = ErrConflict
		return nil, err
	}

	now := time.Now().UTC()
	if _, err = tx.ExecContext(ctx,
		`UPDATE sales_call_cards SET status=?, handled_at=? WHERE id=?`,
		model.CardAccepted, now, cardID); err != nil {
		return nil, err
	}

	spawned := make([]model.Container, 0, c.Quantity)
	for i := 0; i < c.Quantity; i++ {
		id := c.ID
		spawned = append(spawned, model.Container{
			ID:          uuid.NewString(),
			CardID:      &id,
			RoomID:      roomID,
			UserID:      userID,
			Type:        c.Type,
			Destination: c.Destination,
			Color:       color,
		})
	}
	if err = r.containers.CreateBulkTx(ctx, tx, spawned); err != nil {
		return nil, err
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE ship_states SET revenue=revenue+?, updated_at=CURRENT_TIMESTAMP
		 WHERE room_id=? AND user_id=?`, c.Revenue, roomID, userID); err != nil {
		return nil, err
	}
	return spawned, nil
}

// RejectTx rejects a pending card. Committed cards cannot be rejected and
// yield ErrForbidden.
func (r *SalesCallRepo) RejectTx(ctx context.Context, cardID, roomID, userID uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	c, err := r.lockCard(ctx, tx, cardID, roomID, userID)
	if err != nil {
		return err
	}
	if !c.Rejectable() {
		err = ErrForbidden
		return err
	}
	if c.Status != model.CardPending {
		err = ErrConflict
		return err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE sales_call_cards SET status=?, handled_at=NOW() WHERE id=?`,
		model.CardRejected, cardID)
	return err
}

func (r *SalesCallRepo) lockCard(ctx context.Context, tx *sql.Tx, cardID, roomID, userID uint64) (*model.SalesCallCard, error) {
	const q = `SELECT ` + cardColumns + ` FROM sales_call_cards WHERE id = ? FOR UPDATE`
	c, err := scanCard(tx.QueryRowContext(ctx, q, cardID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCardNotFound
	}
	if err != nil {
		return nil, err
	}
	if c.RoomID != roomID || c.UserID != userID {
		return nil, ErrForbidden
	}
	return c, nil
}

// CarryBacklog moves a ship's still-pending cards into the next round as
// backlog. Called when the admin swaps bays; original_round stays put so the
// UI can show how long an offer has waited.
func (r *SalesCallRepo) CarryBacklog(ctx context.Context, roomID uint64, nextRound int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sales_call_cards SET is_backlog=1, round=?
		 WHERE room_id=? AND status=? AND round<?`,
		nextRound, roomID, model.CardPending, nextRound)
	return err
}
