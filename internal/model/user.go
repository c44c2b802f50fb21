package model

import "time"

// User roles. Admins configure rooms and decks and review analytics;
// players run ships inside a room.
const (
	RoleAdmin  = "ADMIN"
	RolePlayer = "PLAYER"
)

// User is an authenticated account.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – normalized (lowercase) login email.
//  PasswordHash – bcrypt hash of the password.
//  Role         – ADMIN or PLAYER.
//  IsActive     – soft enable flag.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
