// This file defines repository methods for per-ship persisted state: the bay
// arena, the dock arena, the section/round pointer and the move log. Arenas
// are stored whole as JSON text keyed by (room_id, user_id) and written with
// INSERT ... ON DUPLICATE KEY UPDATE so every drop replaces the prior
// snapshot in one statement.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/nivleking/blc-shipping-frontend-sub000/internal/stowage"
)

// ShipState mirrors the ship_states table: where a ship is in the weekly
// cycle plus its running revenue and restow penalty totals.
type ShipState struct {
	RoomID  uint64 `json:"room_id"`
	UserID  uint64 `json:"user_id"`
	Section int    `json:"section"`
	Round   int    `json:"round"`
	Port    string `json:"port"`
	Revenue int64  `json:"revenue"`
	Penalty int64  `json:"penalty"`
}

// ArenaRepo encapsulates ship_bays, ship_docks, ship_states and move_logs.
type ArenaRepo struct {
	db *sql.DB
}

func NewArenaRepo(db *sql.DB) *ArenaRepo { return &ArenaRepo{db: db} }

// UpsertBayArena replaces the stored bay snapshot for a ship.
func (r *ArenaRepo) UpsertBayArena(ctx context.Context, roomID, userID uint64, snap stowage.BaySnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	const q = `INSERT INTO ship_bays (room_id, user_id, arena) VALUES (?,?,?)
		ON DUPLICATE KEY UPDATE arena=VALUES(arena), updated_at=CURRENT_TIMESTAMP`
	_, err = r.db.ExecContext(ctx, q, roomID, userID, raw)
	return err
}

// UpsertDockArena replaces the stored dock snapshot for a ship.
func (r *ArenaRepo) UpsertDockArena(ctx context.Context, roomID, userID uint64, snap stowage.DockSnapshot) error {
	raw, err := json.Marshal(snap.Cells)
	if err != nil {
		return err
	}
	const q = `INSERT INTO ship_docks (room_id, user_id, dock_rows, dock_columns, arena) VALUES (?,?,?,?,?)
		ON DUPLICATE KEY UPDATE dock_rows=VALUES(dock_rows), dock_columns=VALUES(dock_columns),
		arena=VALUES(arena), updated_at=CURRENT_TIMESTAMP`
	_, err = r.db.ExecContext(ctx, q, roomID, userID, snap.Rows, snap.Columns, raw)
	return err
}

// LoadBayArena decodes the stored bay snapshot. A missing row or a payload
// that fails to decode yields an empty arena for the given geometry, so a
// fresh ship always starts playable.
func (r *ArenaRepo) LoadBayArena(ctx context.Context, roomID, userID uint64, bays []stowage.Bay) (stowage.BaySnapshot, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT arena FROM ship_bays WHERE room_id=? AND user_id=? LIMIT 1`,
		roomID, userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return stowage.EmptyBaySnapshot(bays), nil
	}
	if err != nil {
		return nil, err
	}
	snap, decErr := stowage.DecodeArena(raw, bays)
	if decErr != nil {
		// Corrupt payload: surface the empty fallback, not an error.
		return snap, nil
	}
	return snap, nil
}

// LoadDockArena decodes the stored dock snapshot, falling back to an empty
// single page when absent or undecodable.
func (r *ArenaRepo) LoadDockArena(ctx context.Context, roomID, userID uint64, layout stowage.DockLayout) (stowage.DockSnapshot, error) {
	var (
		raw        []byte
		rows, cols int
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT dock_rows, dock_columns, arena FROM ship_docks WHERE room_id=? AND user_id=? LIMIT 1`,
		roomID, userID).Scan(&rows, &cols, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return stowage.DockSnapshot{Rows: layout.Rows, Columns: layout.Columns}, nil
	}
	if err != nil {
		return stowage.DockSnapshot{}, err
	}
	snap, decErr := stowage.DecodeDock(raw, stowage.DockLayout{Rows: rows, Columns: cols})
	if decErr != nil {
		return snap, nil
	}
	return snap, nil
}

// AppendLog records one completed container move.
func (r *ArenaRepo) AppendLog(ctx context.Context, roomID, userID uint64, lg stowage.MoveLog) error {
	const q = `INSERT INTO move_logs (room_id, user_id, container_id, from_cell, to_cell, moved_at)
		VALUES (?,?,?,?,?,?)`
	_, err := r.db.ExecContext(ctx, q, roomID, userID, lg.ContainerID, lg.From, lg.To, lg.MovedAt)
	return err
}

// GetShipState fetches the section/round pointer for a ship.
func (r *ArenaRepo) GetShipState(ctx context.Context, roomID, userID uint64) (ShipState, error) {
	var s ShipState
	err := r.db.QueryRowContext(ctx,
		`SELECT room_id, user_id, section, round, port, revenue, penalty
		 FROM ship_states WHERE room_id=? AND user_id=? LIMIT 1`,
		roomID, userID).Scan(&s.RoomID, &s.UserID, &s.Section, &s.Round, &s.Port, &s.Revenue, &s.Penalty)
	if errors.Is(err, sql.ErrNoRows) {
		return ShipState{}, ErrShipNotFound
	}
	return s, err
}

// UpsertShipState writes the full ship state row.
func (r *ArenaRepo) UpsertShipState(ctx context.Context, s ShipState) error {
	const q = `INSERT INTO ship_states (room_id, user_id, section, round, port, revenue, penalty)
		VALUES (?,?,?,?,?,?,?)
		ON DUPLICATE KEY UPDATE section=VALUES(section), round=VALUES(round), port=VALUES(port),
		revenue=VALUES(revenue), penalty=VALUES(penalty), updated_at=CURRENT_TIMESTAMP`
	_, err := r.db.ExecContext(ctx, q,
		s.RoomID, s.UserID, s.Section, s.Round, s.Port, s.Revenue, s.Penalty)
	return err
}

// SetSection moves a ship between section 1 and 2 without touching money.
func (r *ArenaRepo) SetSection(ctx context.Context, roomID, userID uint64, section int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE ship_states SET section=?, updated_at=CURRENT_TIMESTAMP
		 WHERE room_id=? AND user_id=?`, section, roomID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrShipNotFound
	}
	return nil
}

// AddPenalty accrues restow charges onto a ship's running penalty total.
func (r *ArenaRepo) AddPenalty(ctx context.Context, roomID, userID uint64, amount int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE ship_states SET penalty=penalty+?, updated_at=CURRENT_TIMESTAMP
		 WHERE room_id=? AND user_id=?`, amount, roomID, userID)
	return err
}

// Ranking is one row of the room leaderboard.
type Ranking struct {
	UserID   uint64 `json:"user_id"`
	Email    string `json:"email"`
	Port     string `json:"port"`
	Revenue  int64  `json:"revenue"`
	Penalty  int64  `json:"penalty"`
	Net      int64  `json:"net"`
	Accepted int    `json:"accepted"`
	Rejected int    `json:"rejected"`
}

// Rankings returns the room leaderboard ordered by net earnings, with card
// handling counts alongside the money columns.
func (r *ArenaRepo) Rankings(ctx context.Context, roomID uint64) ([]Ranking, error) {
	const q = `SELECT s.user_id, u.email, s.port, s.revenue, s.penalty,
		(s.revenue - s.penalty) AS net,
		(SELECT COUNT(*) FROM sales_call_cards c
		 WHERE c.room_id=s.room_id AND c.user_id=s.user_id AND c.status='accepted') AS accepted,
		(SELECT COUNT(*) FROM sales_call_cards c
		 WHERE c.room_id=s.room_id AND c.user_id=s.user_id AND c.status='rejected') AS rejected
		FROM ship_states s JOIN users u ON u.id = s.user_id
		WHERE s.room_id=? ORDER BY net DESC, s.user_id`
	rows, err := r.db.QueryContext(ctx, q, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Ranking
	for rows.Next() {
		var rk Ranking
		if err := rows.Scan(&rk.UserID, &rk.Email, &rk.Port, &rk.Revenue, &rk.Penalty, &rk.Net, &rk.Accepted, &rk.Rejected); err != nil {
			return nil, err
		}
		out = append(out, rk)
	}
	return out, rows.Err()
}
