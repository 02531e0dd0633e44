package shiritori

import (
	"fmt"
	"log/slog"

	"github.com/mcoot/shiritorimatch-go/internal/dependencies/clock"
	"github.com/mcoot/shiritorimatch-go/internal/dependencies/random"
	"github.com/mcoot/shiritorimatch-go/internal/model"
	"github.com/mcoot/shiritorimatch-go/internal/services/game"
	"github.com/mcoot/shiritorimatch-go/internal/services/room"
)

// Controller ties the room layer to shiritori games. It resolves a caller's
// room to their game and owns the game lifecycle: the first ready signal
// from a member of a full room creates the game, and a finished game takes
// its room down with it.
type Controller struct {
	rooms  *room.Directory
	games  *game.Registry
	clock  clock.Clock
	random random.Random
	logger *slog.Logger
}

func NewController(rooms *room.Directory, games *game.Registry, clk clock.Clock, rnd random.Random, logger *slog.Logger) *Controller {
	return &Controller{
		rooms:  rooms,
		games:  games,
		clock:  clk,
		random: rnd,
		logger: logger.With(slog.String("component", "shiritori-controller")),
	}
}

// Ready signals that the player is ready to play. The player's room must be
// full. If the room has no game yet one is created for its roster; racing
// callers settle via the room's write-once game id, and the loser's spare
// game is discarded before anyone can observe it.
func (c *Controller) Ready(playerID model.PlayerID) error {
	r, err := c.rooms.FindRoomByPlayer(playerID)
	if err != nil {
		return err
	}
	if !r.IsFull() {
		return fmt.Errorf("room %d is not full: %w", r.No(), model.ErrRoomNotReady)
	}

	if r.GameID() == "" {
		if err := c.createGame(r); err != nil {
			return err
		}
	}

	g, err := c.gameFor(r)
	if err != nil {
		return err
	}
	return g.Ready(playerID)
}

// Answer submits the player's word for their current turn
func (c *Controller) Answer(playerID model.PlayerID, word string) (model.GameResult, error) {
	g, err := c.GameForPlayer(playerID)
	if err != nil {
		return "", err
	}
	return g.Answer(playerID, word)
}

// Claim disputes the answer preceding the player's current turn
func (c *Controller) Claim(playerID model.PlayerID) error {
	g, err := c.GameForPlayer(playerID)
	if err != nil {
		return err
	}
	return g.Claim(playerID)
}

// GameForPlayer resolves the player's current room to its running game
func (c *Controller) GameForPlayer(playerID model.PlayerID) (*Game, error) {
	r, err := c.rooms.FindRoomByPlayer(playerID)
	if err != nil {
		return nil, err
	}
	return c.gameFor(r)
}

func (c *Controller) gameFor(r *room.Room) (*Game, error) {
	id := r.GameID()
	if id == "" {
		return nil, fmt.Errorf("room %d has no game: %w", r.No(), model.ErrGameNotFound)
	}
	reg, err := c.games.Get(id)
	if err != nil {
		return nil, err
	}
	g, ok := reg.(*Game)
	if !ok {
		return nil, fmt.Errorf("game %s is not a shiritori game: %w", id, model.ErrGameNotFound)
	}
	return g, nil
}

func (c *Controller) createGame(r *room.Room) error {
	g, err := New(r.PlayerIDs(), c.clock, c.random, c.logger)
	if err != nil {
		return err
	}

	if !r.SetGameID(g.ID()) {
		// Another ready call got there first; discard the spare
		g.Dispose()
		return nil
	}

	if err := c.games.Add(g); err != nil {
		g.Dispose()
		return err
	}

	// Once the game finishes, retire it and its room
	roomNo := r.No()
	gameID := g.ID()
	g.OnGameEvent(func(e model.GameEvent) {
		if e.Type != model.EventEnd && e.Type != model.EventAbort {
			return
		}
		c.games.Remove(gameID)
		c.rooms.RemoveRoom(roomNo)
		c.logger.Info("game finished",
			slog.String("game_id", string(gameID)),
			slog.Int("room_no", int(roomNo)),
			slog.String("event", string(e.Type)))
	})

	// And if the room is dissolved out from under the game, abort the game
	// rather than leaving it to run out its turn timer
	r.Subscribe(func(u room.Update) {
		if !u.Room.Disposed() {
			return
		}
		if c.games.Remove(gameID) {
			c.logger.Info("game aborted with its room",
				slog.String("game_id", string(gameID)),
				slog.Int("room_no", int(roomNo)))
		}
	})

	c.logger.Info("game created for room",
		slog.String("game_id", string(gameID)),
		slog.Int("room_no", int(roomNo)))
	return nil
}
