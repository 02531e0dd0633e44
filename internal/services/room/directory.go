package room

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"sync"

	"github.com/samber/lo"

	"github.com/mcoot/shiritorimatch-go/internal/dependencies/clock"
	"github.com/mcoot/shiritorimatch-go/internal/dependencies/random"
	"github.com/mcoot/shiritorimatch-go/internal/model"
	"github.com/mcoot/shiritorimatch-go/internal/pubsub"
)

const (
	// MinRoomNo and MaxRoomNo bound generated room numbers; MaxRoomNo is
	// exclusive
	MinRoomNo = 10
	MaxRoomNo = 9999

	// retiredHistorySize is how many recently retired numbers are kept out
	// of circulation
	retiredHistorySize = 100

	// MinCapacity is the smallest allowed room size
	MinCapacity = 2
)

// Directory owns the set of active rooms. It generates room numbers,
// maintains a player-to-room reverse index by observing every room's update
// events, and republishes those events to directory-level subscribers.
//
// The directory lock covers only its own bookkeeping; each room has its own
// lock. Lock order is directory then room (onRoomUpdated reads room state
// under the directory lock); a room lock is never held while taking the
// directory lock.
type Directory struct {
	clock  clock.Clock
	random random.Random
	logger *slog.Logger

	mu             sync.Mutex
	rooms          map[model.RoomNo]*Room
	roomNoByPlayer map[model.PlayerID]model.RoomNo
	retired        []model.RoomNo

	subs pubsub.Subscribers[*Room]
}

// NewDirectory creates an empty room directory
func NewDirectory(clk clock.Clock, rnd random.Random, logger *slog.Logger) *Directory {
	return &Directory{
		clock:          clk,
		random:         rnd,
		logger:         logger.With(slog.String("component", "room-directory")),
		rooms:          make(map[model.RoomNo]*Room),
		roomNoByPlayer: make(map[model.PlayerID]model.RoomNo),
	}
}

// CreateRoom allocates a fresh room number, registers a new room of the
// given capacity and returns it
func (d *Directory) CreateRoom(maxPlayers int) (*Room, error) {
	if maxPlayers < MinCapacity {
		return nil, fmt.Errorf("max players %d: %w", maxPlayers, model.ErrInvalidCapacity)
	}

	d.mu.Lock()
	no := d.generateNumber()
	r := New(no, maxPlayers, d.clock.Now())
	r.Subscribe(d.onRoomUpdated)
	d.rooms[no] = r
	d.mu.Unlock()

	d.logger.Info("room created",
		slog.Int("room_no", int(no)),
		slog.Int("max_players", maxPlayers))

	d.subs.Notify(r)
	return r, nil
}

// GetRoom returns the active room with the given number
func (d *Directory) GetRoom(no model.RoomNo) (*Room, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	r, ok := d.rooms[no]
	if !ok {
		return nil, fmt.Errorf("room %d: %w", no, model.ErrRoomNotFound)
	}
	return r, nil
}

// Rooms returns all active rooms
func (d *Directory) Rooms() []*Room {
	d.mu.Lock()
	defer d.mu.Unlock()
	return lo.Values(d.rooms)
}

// FindRoomByPlayer returns the room the player is currently in
func (d *Directory) FindRoomByPlayer(playerID model.PlayerID) (*Room, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	no, ok := d.roomNoByPlayer[playerID]
	if !ok {
		return nil, fmt.Errorf("player %d: %w", playerID, model.ErrRoomNotFound)
	}
	r, ok := d.rooms[no]
	if !ok {
		return nil, fmt.Errorf("player %d: %w", playerID, model.ErrRoomNotFound)
	}
	return r, nil
}

// FindAvailableRooms returns the active, non-full rooms whose rating lies in
// [minRating, maxRating], oldest first
func (d *Directory) FindAvailableRooms(minRating, maxRating int) []*Room {
	d.mu.Lock()
	rooms := lo.Values(d.rooms)
	d.mu.Unlock()

	matched := lo.Filter(rooms, func(r *Room, _ int) bool {
		if r.Disposed() || r.IsFull() {
			return false
		}
		rating := r.Rating()
		return rating >= minRating && rating <= maxRating
	})
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt().Before(matched[j].CreatedAt())
	})
	return matched
}

// RemoveRoom dissolves the room with the given number. It reports whether
// the room existed. The directory's own bookkeeping happens in the room's
// update handler, so a room disposed directly (without going through here)
// is cleaned up the same way.
func (d *Directory) RemoveRoom(no model.RoomNo) bool {
	d.mu.Lock()
	r, ok := d.rooms[no]
	d.mu.Unlock()
	if !ok {
		return false
	}
	r.Dispose()
	return true
}

// Players returns the ids of all players currently in some room
func (d *Directory) Players() []model.PlayerID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return lo.Keys(d.roomNoByPlayer)
}

// OnUpdated registers fn to be called whenever any room under this
// directory changes (including creation and disposal). The returned
// function removes the subscription.
func (d *Directory) OnUpdated(fn func(*Room)) (unsubscribe func()) {
	return d.subs.Add(fn)
}

// onRoomUpdated keeps the reverse index and active set in sync with a
// room's membership, then republishes the event
func (d *Directory) onRoomUpdated(u Update) {
	r := u.Room
	current := r.PlayerIDs()

	d.mu.Lock()
	if _, ok := d.rooms[r.No()]; !ok {
		// Room already evicted by an earlier event
		d.mu.Unlock()
		return
	}

	for _, playerID := range lo.Without(u.OldPlayerIDs, current...) {
		// A stale entry pointing at a different room belongs to whoever
		// wrote it last; leave it alone
		if no, ok := d.roomNoByPlayer[playerID]; ok && no == r.No() {
			delete(d.roomNoByPlayer, playerID)
		}
	}
	for _, playerID := range lo.Without(current, u.OldPlayerIDs...) {
		d.roomNoByPlayer[playerID] = r.No()
	}

	if r.Disposed() {
		d.addRetired(r.No())
		delete(d.rooms, r.No())
		d.logger.Info("room retired", slog.Int("room_no", int(r.No())))
	}
	d.mu.Unlock()

	d.subs.Notify(r)
}

// generateNumber picks an unused room number. Must be called with the
// directory lock held.
//
// Collisions are expected to be rare relative to the code space, so plain
// rejection sampling is fine; if rooms were ever allocated densely this
// would need a shuffled free list instead.
func (d *Directory) generateNumber() model.RoomNo {
	for {
		no := model.RoomNo(MinRoomNo + d.random.Intn(MaxRoomNo-MinRoomNo))
		if !isGoodNumber(no) {
			continue
		}
		if _, inUse := d.rooms[no]; inUse {
			continue
		}
		if lo.Contains(d.retired, no) {
			continue
		}
		return no
	}
}

// isGoodNumber rejects numbers with a run of 3 or more identical digits,
// which read like typos
func isGoodNumber(no model.RoomNo) bool {
	s := strconv.Itoa(int(no))
	run := 0
	last := byte(0)
	for i := 0; i < len(s); i++ {
		if s[i] != last {
			last = s[i]
			run = 0
		}
		run++
		if run >= 3 {
			return false
		}
	}
	return true
}

// addRetired records a retired number, evicting the oldest past capacity.
// Must be called with the directory lock held.
func (d *Directory) addRetired(no model.RoomNo) {
	d.retired = append(d.retired, no)
	if len(d.retired) > retiredHistorySize {
		d.retired = d.retired[1:]
	}
}
