// This file defines repository methods for rooms. A Room carries the deck
// geometry shared by every ship in the session plus the port rotation, so
// three columns (bay_types, ports, swap_config) are stored as JSON text and
// marshalled here rather than leaking encoding concerns into handlers.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/nivleking/blc-shipping-frontend-sub000/internal/model"
)

// RoomRepo encapsulates all database queries related to rooms and the
// room_users membership table.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the provided DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

const roomColumns = `id, name, description, status, total_rounds, current_round,
	max_users, bay_count, bay_rows, bay_columns, bay_types,
	dock_rows, dock_columns, max_capacity_dry, max_capacity_reefer,
	ports, swap_config, created_at, updated_at`

func scanRoom(row interface{ Scan(...any) error }) (*model.Room, error) {
	var (
		rm       model.Room
		bayTypes []byte
		ports    []byte
		swapCfg  []byte
	)
	err := row.Scan(&rm.ID, &rm.Name, &rm.Description, &rm.Status,
		&rm.TotalRounds, &rm.CurrentRound, &rm.MaxUsers,
		&rm.BayCount, &rm.BayRows, &rm.BayColumns, &bayTypes,
		&rm.DockRows, &rm.DockColumns, &rm.MaxCapacityDry, &rm.MaxCapacityReefer,
		&ports, &swapCfg, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(bayTypes) > 0 {
		if err := json.Unmarshal(bayTypes, &rm.BayTypes); err != nil {
			return nil, err
		}
	}
	if len(ports) > 0 {
		if err := json.Unmarshal(ports, &rm.Ports); err != nil {
			return nil, err
		}
	}
	if len(swapCfg) > 0 {
		if err := json.Unmarshal(swapCfg, &rm.SwapConfig); err != nil {
			return nil, err
		}
	}
	return &rm, nil
}

// Create inserts a new room. On success the room's ID, CreatedAt and
// UpdatedAt fields are populated from the stored row.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	bayTypes, err := json.Marshal(rm.BayTypes)
	if err != nil {
		return err
	}
	ports, err := json.Marshal(rm.Ports)
	if err != nil {
		return err
	}
	swapCfg, err := json.Marshal(rm.SwapConfig)
	if err != nil {
		return err
	}
	const q = `INSERT INTO rooms (name, description, status, total_rounds, current_round,
		max_users, bay_count, bay_rows, bay_columns, bay_types,
		dock_rows, dock_columns, max_capacity_dry, max_capacity_reefer, ports, swap_config)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		rm.Name, rm.Description, rm.Status, rm.TotalRounds, rm.CurrentRound,
		rm.MaxUsers, rm.BayCount, rm.BayRows, rm.BayColumns, bayTypes,
		rm.DockRows, rm.DockColumns, rm.MaxCapacityDry, rm.MaxCapacityReefer, ports, swapCfg)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rm.ID = uint64(id)

	stored, err := r.GetByID(ctx, rm.ID)
	if err != nil {
		return err
	}
	rm.CreatedAt, rm.UpdatedAt = stored.CreatedAt, stored.UpdatedAt
	return nil
}

// GetByID fetches a room by its ID. Returns ErrRoomNotFound if no row exists.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
	rm, err := scanRoom(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	return rm, err
}

// List returns all rooms ordered by id, newest last.
func (r *RoomRepo) List(ctx context.Context) ([]*model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

// UpdateStatus transitions a room between created/active/finished.
func (r *RoomRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE rooms SET status=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// UpdateSwapConfig replaces the port rotation map, used when an admin edits
// the weekly route before the session starts.
func (r *RoomRepo) UpdateSwapConfig(ctx context.Context, id uint64, swap map[string]string) error {
	raw, err := json.Marshal(swap)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE rooms SET swap_config=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, raw, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// BumpRound increments current_round. Called when the admin swaps bays.
func (r *RoomRepo) BumpRound(ctx context.Context, id uint64) (int, error) {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE rooms SET current_round=current_round+1, updated_at=CURRENT_TIMESTAMP WHERE id=?`, id); err != nil {
		return 0, err
	}
	var round int
	err := r.db.QueryRowContext(ctx, `SELECT current_round FROM rooms WHERE id=?`, id).Scan(&round)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrRoomNotFound
	}
	return round, err
}

// AssignUser adds a player to a room, refusing once max_users is reached.
func (r *RoomRepo) AssignUser(ctx context.Context, roomID, userID uint64) error {
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

	var maxUsers, current int
	if err = tx.QueryRowContext(ctx,
		`SELECT max_users FROM rooms WHERE id=? FOR UPDATE`, roomID).Scan(&maxUsers); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrRoomNotFound
		}
		return err
	}
	if err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM room_users WHERE room_id=?`, roomID).Scan(&current); err != nil {
		return err
	}
	if current >= maxUsers {
		err = ErrConflict
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO room_users (room_id, user_id) VALUES (?,?)`, roomID, userID)
	return err
}

// RemoveUser detaches a player from a room.
func (r *RoomRepo) RemoveUser(ctx context.Context, roomID, userID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM room_users WHERE room_id=? AND user_id=?`, roomID, userID)
	return err
}

// IsMember reports whether the user is assigned to the room.
func (r *RoomRepo) IsMember(ctx context.Context, roomID, userID uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM room_users WHERE room_id=? AND user_id=? LIMIT 1`,
		roomID, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// Delete removes a room and all dependent records (memberships, ship states,
// bay and dock arenas, containers, sales call cards and move logs) within a
// transaction. Returns ErrRoomNotFound when the id does not exist.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
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

	var exists uint64
	if err = tx.QueryRowContext(ctx, `SELECT id FROM rooms WHERE id=?`, id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrRoomNotFound
		}
		return err
	}
	for _, q := range []string{
		`DELETE FROM move_logs WHERE room_id=?`,
		`DELETE FROM containers WHERE room_id=?`,
		`DELETE FROM sales_call_cards WHERE room_id=?`,
		`DELETE FROM ship_bays WHERE room_id=?`,
		`DELETE FROM ship_docks WHERE room_id=?`,
		`DELETE FROM ship_states WHERE room_id=?`,
		`DELETE FROM room_users WHERE room_id=?`,
		`DELETE FROM rooms WHERE id=?`,
	} {
		if _, err = tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	return nil
}
