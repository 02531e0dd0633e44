package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID int64

// Player represents a registered participant
//
// The account record is owned by the storage layer; rooms and games only
// ever read the ID and Rating.
type Player struct {
	ID     PlayerID
	Name   string // display name, unique
	Rating int    // matchmaking skill rating, [0, MaxRating]
	Token  string // opaque client-supplied credential

	LastLogin time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MaxRating is the largest rating a player can hold
const MaxRating = 65535
