package room

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/mcoot/shiritorimatch-go/internal/model"
	"github.com/mcoot/shiritorimatch-go/internal/pubsub"
)

// Update is the payload delivered to room subscribers after every committed
// change. It carries the membership as it was before the change so observers
// can diff it against the room's current state.
type Update struct {
	Room         *Room
	OldPlayerIDs []model.PlayerID
}

// Room is a lobby holding up to MaxPlayers players.
//
// A Room is shared by reference between the directory, the matchmaker and
// any number of request handlers; every state transition happens under the
// room's own lock. Subscribers are notified after the change has been
// applied, outside the lock.
type Room struct {
	no         model.RoomNo
	maxPlayers int
	createdAt  time.Time

	mu        sync.Mutex
	playerIDs []model.PlayerID
	rating    int
	gameID    model.GameID
	disposed  bool

	subs pubsub.Subscribers[Update]
}

// New creates a room with the given number and capacity.
//
// Rooms are normally created through a Directory, which assigns the number;
// a standalone room works too and still self-disposes correctly.
func New(no model.RoomNo, maxPlayers int, now time.Time) *Room {
	return &Room{
		no:         no,
		maxPlayers: maxPlayers,
		createdAt:  now,
	}
}

// No returns the room's numeric code
func (r *Room) No() model.RoomNo {
	return r.no
}

// MaxPlayers returns the room's capacity
func (r *Room) MaxPlayers() int {
	return r.maxPlayers
}

// CreatedAt returns the room's creation time
func (r *Room) CreatedAt() time.Time {
	return r.createdAt
}

// PlayerIDs returns a copy of the current membership, in join order.
// Join order determines turn order in games started from this room.
func (r *Room) PlayerIDs() []model.PlayerID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.PlayerID(nil), r.playerIDs...)
}

// Rating returns the room's running average member rating
func (r *Room) Rating() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rating
}

// GameID returns the id of the game started from this room, if any
func (r *Room) GameID() model.GameID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gameID
}

// SetGameID associates a game with this room. It reports false if the room
// is disposed or a game is already set; the id is write-once until the room
// is dissolved.
func (r *Room) SetGameID(id model.GameID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed || r.gameID != "" {
		return false
	}
	r.gameID = id
	return true
}

// Disposed reports whether the room has been dissolved
func (r *Room) Disposed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.disposed
}

// IsFull reports whether membership has reached capacity
func (r *Room) IsFull() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.playerIDs) >= r.maxPlayers
}

// AddPlayer adds the player to the room, updating the running rating
// average. It fails if the room is disposed, full, or already contains the
// player.
func (r *Room) AddPlayer(player *model.Player) error {
	r.mu.Lock()
	if r.disposed {
		r.mu.Unlock()
		return fmt.Errorf("room %d: %w", r.no, model.ErrRoomDisposed)
	}
	if len(r.playerIDs) >= r.maxPlayers {
		r.mu.Unlock()
		return fmt.Errorf("room %d: %w", r.no, model.ErrRoomFull)
	}
	if lo.Contains(r.playerIDs, player.ID) {
		r.mu.Unlock()
		return fmt.Errorf("player %d in room %d: %w", player.ID, r.no, model.ErrAlreadyInRoom)
	}

	old := append([]model.PlayerID(nil), r.playerIDs...)
	r.playerIDs = append(r.playerIDs, player.ID)
	r.rating = averageRating(len(old), r.rating, player.Rating, len(r.playerIDs))
	r.mu.Unlock()

	r.subs.Notify(Update{Room: r, OldPlayerIDs: old})
	return nil
}

// RemovePlayer removes the player from the room if present, updating the
// running rating average. It reports whether a removal happened; removing a
// non-member is a no-op, not an error.
func (r *Room) RemovePlayer(player *model.Player) (bool, error) {
	r.mu.Lock()
	if r.disposed {
		r.mu.Unlock()
		return false, fmt.Errorf("room %d: %w", r.no, model.ErrRoomDisposed)
	}

	i := lo.IndexOf(r.playerIDs, player.ID)
	if i < 0 {
		r.mu.Unlock()
		return false, nil
	}

	old := append([]model.PlayerID(nil), r.playerIDs...)
	r.playerIDs = append(r.playerIDs[:i], r.playerIDs[i+1:]...)
	r.rating = averageRating(len(old), r.rating, -player.Rating, len(r.playerIDs))
	r.mu.Unlock()

	r.subs.Notify(Update{Room: r, OldPlayerIDs: old})
	return true, nil
}

// Dispose dissolves the room: membership is cleared, the disposed flag is
// set, one final update is delivered and all subscribers are detached.
// Calling Dispose again is a no-op.
func (r *Room) Dispose() {
	r.mu.Lock()
	if r.disposed {
		r.mu.Unlock()
		return
	}
	old := r.playerIDs
	r.playerIDs = nil
	r.rating = 0
	r.gameID = ""
	r.disposed = true
	r.mu.Unlock()

	r.subs.Notify(Update{Room: r, OldPlayerIDs: old})
	r.subs.Clear()
}

// Subscribe registers fn to be called after every committed change. The
// returned function removes the subscription; calling it is safe at any
// time, including concurrently with a notification in flight.
func (r *Room) Subscribe(fn func(Update)) (unsubscribe func()) {
	return r.subs.Add(fn)
}

// averageRating folds one joining (positive delta) or leaving (negative
// delta) member into the running average. The integer rounding drifts over
// many join/leave cycles; the rating is a matchmaking hint, not an exact
// statistic, so the approximation is deliberate.
func averageRating(oldCount, oldRating, delta, newCount int) int {
	if newCount == 0 {
		return 0
	}
	return int(math.Round(float64(oldCount*oldRating+delta) / float64(newCount)))
}
