package game

import (
	"fmt"
	"sync"

	"github.com/samber/lo"

	"github.com/mcoot/shiritorimatch-go/internal/model"
)

// Game is anything the registry can track: identified, and disposable when
// evicted
type Game interface {
	ID() model.GameID
	Dispose()
}

// Registry maps game ids to live game instances
type Registry struct {
	mu    sync.Mutex
	games map[model.GameID]Game
}

func NewRegistry() *Registry {
	return &Registry{
		games: make(map[model.GameID]Game),
	}
}

// Add registers a game under its id
func (r *Registry) Add(g Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[g.ID()]; ok {
		return fmt.Errorf("game %s: %w", g.ID(), model.ErrGameExists)
	}
	r.games[g.ID()] = g
	return nil
}

// Get returns the game registered under id
func (r *Registry) Get(id model.GameID) (Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[id]
	if !ok {
		return nil, fmt.Errorf("game %s: %w", id, model.ErrGameNotFound)
	}
	return g, nil
}

// Remove evicts and disposes the game registered under id, reporting
// whether it was present
func (r *Registry) Remove(id model.GameID) bool {
	r.mu.Lock()
	g, ok := r.games[id]
	delete(r.games, id)
	r.mu.Unlock()

	// Dispose outside the registry lock; it notifies game subscribers
	if ok {
		g.Dispose()
	}
	return ok
}

// Games returns all registered games
func (r *Registry) Games() []Game {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo.Values(r.games)
}
