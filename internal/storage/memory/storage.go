package memory

import (
	"context"
	"sync"

	"github.com/mcoot/shiritorimatch-go/internal/model"
	"github.com/mcoot/shiritorimatch-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	nextID     model.PlayerID
	players    map[model.PlayerID]*model.Player
	nameIndex  map[string]model.PlayerID
	tokenIndex map[string]model.PlayerID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:    make(map[model.PlayerID]*model.Player),
		nameIndex:  make(map[string]model.PlayerID),
		tokenIndex: make(map[string]model.PlayerID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.nameIndex[player.Name]; taken {
		return model.ErrNameTaken
	}
	s.nextID++
	player.ID = s.nextID
	stored := *player
	s.players[player.ID] = &stored
	s.nameIndex[player.Name] = player.ID
	s.tokenIndex[player.Token] = player.ID
	return nil
}

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.players[player.ID]
	if !ok {
		return model.ErrPlayerNotFound
	}
	if owner, taken := s.nameIndex[player.Name]; taken && owner != player.ID {
		return model.ErrNameTaken
	}
	delete(s.nameIndex, existing.Name)
	delete(s.tokenIndex, existing.Token)
	stored := *player
	s.players[player.ID] = &stored
	s.nameIndex[player.Name] = player.ID
	s.tokenIndex[player.Token] = player.ID
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	// Copy so callers can't mutate the stored record outside SavePlayer
	out := *player
	return &out, nil
}

func (s *Storage) GetPlayerByToken(ctx context.Context, token string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.tokenIndex[token]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	out := *player
	return &out, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[id]
	if !ok {
		return nil
	}
	delete(s.players, id)
	delete(s.nameIndex, player.Name)
	delete(s.tokenIndex, player.Token)
	return nil
}
