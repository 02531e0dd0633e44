package matchmaker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/shiritorimatch-go/internal/dependencies/clock"
	"github.com/mcoot/shiritorimatch-go/internal/model"
	"github.com/mcoot/shiritorimatch-go/internal/services/room"
)

// DefaultCapacity is the size of the room created when no existing room can
// be matched
const DefaultCapacity = 2

// step is one stage of the widening search: how far from the player's
// rating to look, and how long to wait before moving on if nothing matched
type step struct {
	ratingRange int
	wait        time.Duration
}

// schedule widens the acceptable skill gap over time, trading match quality
// for wait time. The final unbounded step accepts any room before falling
// back to creating one.
var schedule = []step{
	{ratingRange: 100, wait: 5 * time.Second},
	{ratingRange: 100},
	{ratingRange: 200, wait: 5 * time.Second},
	{ratingRange: 100},
	{ratingRange: 200},
	{ratingRange: model.MaxRating},
}

// Matchmaker places players into rooms near their skill rating
type Matchmaker struct {
	rooms  *room.Directory
	clock  clock.Clock
	logger *slog.Logger
}

func New(rooms *room.Directory, clk clock.Clock, logger *slog.Logger) *Matchmaker {
	return &Matchmaker{
		rooms:  rooms,
		clock:  clk,
		logger: logger.With(slog.String("component", "matchmaker")),
	}
}

// MatchRoom finds a room for the player, widening the acceptable rating
// range step by step, and creates a fresh two-player room if the whole
// schedule comes up empty. The waits between steps happen outside any lock,
// so concurrent matchmaking calls never block each other.
//
// Joining a candidate can race with other matchmakers filling it first;
// full and duplicate-join failures just move on to the next candidate.
func (m *Matchmaker) MatchRoom(ctx context.Context, player *model.Player) (*room.Room, error) {
	for _, st := range schedule {
		// another call may have joined this player while we waited
		if _, err := m.rooms.FindRoomByPlayer(player.ID); err == nil {
			return nil, fmt.Errorf("player %d: %w", player.ID, model.ErrAlreadyInRoom)
		}

		if r := m.tryStep(player, st); r != nil {
			return r, nil
		}

		if st.wait > 0 {
			if err := m.clock.Sleep(ctx, st.wait); err != nil {
				return nil, err
			}
		}
	}

	r, err := m.rooms.CreateRoom(DefaultCapacity)
	if err != nil {
		return nil, err
	}
	if err := r.AddPlayer(player); err != nil {
		return nil, err
	}
	m.logger.Info("created fallback room",
		slog.Int("room_no", int(r.No())),
		slog.Int64("player_id", int64(player.ID)))
	return r, nil
}

// tryStep attempts to join each candidate in the step's rating window,
// oldest room first
func (m *Matchmaker) tryStep(player *model.Player, st step) *room.Room {
	minRating := max(player.Rating-st.ratingRange, 0)
	maxRating := min(player.Rating+st.ratingRange, model.MaxRating)

	for _, r := range m.rooms.FindAvailableRooms(minRating, maxRating) {
		err := r.AddPlayer(player)
		if err == nil {
			m.logger.Info("matched player to room",
				slog.Int("room_no", int(r.No())),
				slog.Int64("player_id", int64(player.ID)),
				slog.Int("rating_range", st.ratingRange))
			return r
		}
		if errors.Is(err, model.ErrRoomFull) ||
			errors.Is(err, model.ErrAlreadyInRoom) ||
			errors.Is(err, model.ErrRoomDisposed) {
			// lost the race for this room; try the next
			m.logger.Debug("candidate room unavailable",
				slog.Int("room_no", int(r.No())),
				slog.String("reason", err.Error()))
			continue
		}
		m.logger.Warn("failed to join candidate room",
			slog.Int("room_no", int(r.No())),
			slog.String("error", err.Error()))
	}
	return nil
}
