// Package repository contains data access logic separated from HTTP handlers.
// This file defines sentinel errors reused across repositories so that
// higher layers can distinguish failure scenarios. For example,
// ErrForbidden indicates the current user may not act on a resource
// (rejecting a committed sales call, touching another player's ship),
// while ErrConflict signals an operation cannot proceed because of
// existing state (accepting a card twice, joining a full room).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation they are
// not allowed to perform. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update collides with existing state,
// such as handling a sales call card that was already accepted or
// rejected. Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrRoomNotFound is returned when a room id does not exist.
var ErrRoomNotFound = errors.New("room not found")

// ErrCardNotFound is returned when a sales call card id does not exist.
var ErrCardNotFound = errors.New("sales call card not found")

// ErrShipNotFound is returned when no ship state row exists yet for a
// (room, user) pair.
var ErrShipNotFound = errors.New("ship not found")
