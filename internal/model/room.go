package model

import "time"

// Room statuses as stored in rooms.status.
const (
	RoomCreated  = "created"
	RoomActive   = "active"
	RoomFinished = "finished"
)

// Room is a simulation session configured by an admin: the deck layout every
// player ship uses, the port rotation and the weekly round schedule.
//
// BayTypes holds one entry per bay ("dry"/"reefer"); Ports lists the port
// codes in play and SwapConfig maps each port to its successor in the weekly
// rotation. All three are stored as JSON columns.
type Room struct {
	ID                uint64            `json:"id"`
	Name              string            `json:"name"`
	Description       string            `json:"description"`
	Status            string            `json:"status"`
	TotalRounds       int               `json:"total_rounds"`
	CurrentRound      int               `json:"current_round"`
	MaxUsers          int               `json:"max_users"`
	BayCount          int               `json:"bay_count"`
	BayRows           int               `json:"bay_rows"`
	BayColumns        int               `json:"bay_columns"`
	BayTypes          []string          `json:"bay_types"`
	DockRows          int               `json:"dock_rows"`
	DockColumns       int               `json:"dock_columns"`
	MaxCapacityDry    int               `json:"max_capacity_dry"`
	MaxCapacityReefer int               `json:"max_capacity_reefer"`
	Ports             []string          `json:"ports"`
	SwapConfig        map[string]string `json:"swap_config"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}
