package model

import "errors"

// Common errors used across the application.
//
// Each maps to one of the service's error kinds: invalid argument, failed
// precondition, already exists, not found, full, or already disposed. The
// API layer translates them to wire statuses.
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrNameTaken      = errors.New("player name is already taken")
	ErrInvalidName    = errors.New("invalid player name")
	ErrInvalidRating  = errors.New("rating out of range")
	ErrInvalidToken   = errors.New("invalid token")

	// Room errors
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomFull        = errors.New("room is full")
	ErrAlreadyInRoom   = errors.New("player is already in a room")
	ErrRoomDisposed    = errors.New("room is disposed")
	ErrInvalidCapacity = errors.New("room capacity must be at least 2")

	// Game errors
	ErrGameNotFound    = errors.New("game not found")
	ErrGameExists      = errors.New("game is already registered")
	ErrTooFewPlayers   = errors.New("game needs at least 2 players")
	ErrNotInGame       = errors.New("player is not in this game")
	ErrNotPlayerTurn   = errors.New("not this player's turn")
	ErrNoTurnInPlay    = errors.New("no turn in play")
	ErrInvalidWord     = errors.New("invalid word")
	ErrClaimNotAllowed = errors.New("claim not allowed")
	ErrRoomNotReady    = errors.New("room is not full yet")
)
