// Package queue defines message payloads exchanged over the message broker.
package queue

// StowageMoveEvent is published after a container move has been committed to
// a ship's arenas. It carries enough context for downstream consumers to log
// or feed analytics without querying the primary database.
type StowageMoveEvent struct {
	RoomID      uint64 `json:"room_id"`
	UserID      uint64 `json:"user_id"`
	ContainerID string `json:"container_id"`
	FromCell    string `json:"from_cell"`
	ToCell      string `json:"to_cell"`
	Port        string `json:"port"`
	Round       int    `json:"round"`
	MovedAt     string `json:"moved_at"`
}

// RoundAdvancedEvent is published when an admin swaps bays and the room
// moves to the next round (or into the final phase).
type RoundAdvancedEvent struct {
	RoomID     uint64            `json:"room_id"`
	Round      int               `json:"round"`
	FinalPhase bool              `json:"final_phase"`
	SwapConfig map[string]string `json:"swap_config"`
	AdvancedAt string            `json:"advanced_at"`
}
