package storage

import (
	"context"

	"github.com/mcoot/shiritorimatch-go/internal/model"
)

// Storage defines the interface for player account persistence.
//
// Rooms and games are deliberately not stored: they are process-memory
// session state and vanish on restart. Only accounts survive.
type Storage interface {
	// CreatePlayer persists a new player, assigning its ID. Fails with
	// ErrNameTaken if the display name is already in use.
	CreatePlayer(ctx context.Context, player *model.Player) error

	// SavePlayer updates an existing player. Fails with ErrNameTaken if a
	// rename collides with another player's name.
	SavePlayer(ctx context.Context, player *model.Player) error

	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)

	// GetPlayerByToken resolves a credential token to its player
	GetPlayerByToken(ctx context.Context, token string) (*model.Player, error)

	DeletePlayer(ctx context.Context, id model.PlayerID) error
}
