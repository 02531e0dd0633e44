package player

import (
	"context"
	"errors"
	"fmt"

	"github.com/mcoot/shiritorimatch-go/internal/dependencies/clock"
	"github.com/mcoot/shiritorimatch-go/internal/dependencies/random"
	"github.com/mcoot/shiritorimatch-go/internal/model"
	"github.com/mcoot/shiritorimatch-go/internal/storage"
)

const (
	tokenLength   = 32
	tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Service handles player accounts: registration, token sign-in and profile
// updates
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
}

// New creates a new player service
func New(storage storage.Storage, clk clock.Clock, rnd random.Random) *Service {
	return &Service{
		storage: storage,
		clock:   clk,
		random:  rnd,
	}
}

// SignUp registers a new player under the given display name. The token is
// the player's credential for later sign-ins; if the client does not supply
// one, a random token is generated.
func (s *Service) SignUp(ctx context.Context, name, token string) (*model.Player, error) {
	if name == "" {
		return nil, fmt.Errorf("name must not be empty: %w", model.ErrInvalidName)
	}
	if token == "" {
		token = s.random.String(tokenLength, tokenAlphabet)
	}

	now := s.clock.Now()
	player := &model.Player{
		Name:      name,
		Token:     token,
		LastLogin: now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.storage.CreatePlayer(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

// SignIn resolves a token to its player and stamps the login time
func (s *Service) SignIn(ctx context.Context, token string) (*model.Player, error) {
	player, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	player.LastLogin = s.clock.Now()
	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

// Authenticate resolves a token to its player without side effects
func (s *Service) Authenticate(ctx context.Context, token string) (*model.Player, error) {
	if token == "" {
		return nil, model.ErrInvalidToken
	}
	player, err := s.storage.GetPlayerByToken(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil, model.ErrInvalidToken
		}
		return nil, err
	}
	return player, nil
}

// FindPlayer looks up a player by id
func (s *Service) FindPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.storage.GetPlayer(ctx, id)
}

// UpdateProfile changes the player's display name and rating
func (s *Service) UpdateProfile(ctx context.Context, id model.PlayerID, name string, rating int) (*model.Player, error) {
	if name == "" {
		return nil, fmt.Errorf("name must not be empty: %w", model.ErrInvalidName)
	}
	if rating < 0 || rating > model.MaxRating {
		return nil, fmt.Errorf("rating %d not in [0, %d]: %w", rating, model.MaxRating, model.ErrInvalidRating)
	}

	player, err := s.storage.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *player
	updated.Name = name
	updated.Rating = rating
	updated.UpdatedAt = s.clock.Now()
	if err := s.storage.SavePlayer(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
