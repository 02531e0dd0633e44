package shiritori

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/mcoot/shiritorimatch-go/internal/dependencies/clock"
	"github.com/mcoot/shiritorimatch-go/internal/dependencies/random"
	"github.com/mcoot/shiritorimatch-go/internal/model"
	"github.com/mcoot/shiritorimatch-go/internal/pubsub"
)

// TurnLimit is how long a player has to answer or claim before forfeiting
const TurnLimit = 10 * time.Second

// maxClaimsPerPlayer is the number of claims by one player that aborts the
// match as a draw
const maxClaimsPerPlayer = 2

// Game is one shiritori match.
//
// The append-only event log is the single source of truth: turn ownership,
// ready status, claim counts and termination are all derived from it. All
// state transitions happen under the game's lock; subscriber notification
// happens after commit, outside the lock.
type Game struct {
	id        model.GameID
	playerIDs []model.PlayerID
	createdAt time.Time

	clock  clock.Clock
	random random.Random
	logger *slog.Logger

	mu          sync.Mutex
	events      []model.GameEvent
	usedWords   map[string]struct{}
	cancelTimer func()

	subs pubsub.Subscribers[model.GameEvent]
}

// New starts a shiritori game for the given roster. Roster order is turn
// order. At least two players are required.
//
// The construction-time start event is recorded in the log but has no
// observers yet; subscribers attach afterwards and only ever see later
// events.
func New(playerIDs []model.PlayerID, clk clock.Clock, rnd random.Random, logger *slog.Logger) (*Game, error) {
	if len(playerIDs) < 2 {
		return nil, fmt.Errorf("%d players: %w", len(playerIDs), model.ErrTooFewPlayers)
	}

	g := &Game{
		id:        model.GameID(uuid.NewString()),
		playerIDs: append([]model.PlayerID(nil), playerIDs...),
		createdAt: clk.Now(),
		clock:     clk,
		random:    rnd,
		logger:    logger.With(slog.String("component", "shiritori")),
		usedWords: make(map[string]struct{}),
	}
	g.events = append(g.events, model.GameEvent{Type: model.EventStart})

	g.logger.Info("game created",
		slog.String("game_id", string(g.id)),
		slog.Int("player_count", len(playerIDs)))
	return g, nil
}

// ID returns the game's unique identifier
func (g *Game) ID() model.GameID {
	return g.id
}

// PlayerIDs returns the fixed roster, in turn order
func (g *Game) PlayerIDs() []model.PlayerID {
	return append([]model.PlayerID(nil), g.playerIDs...)
}

// CreatedAt returns the game's start time
func (g *Game) CreatedAt() time.Time {
	return g.createdAt
}

// Events returns a copy of the event log
func (g *Game) Events() []model.GameEvent {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]model.GameEvent(nil), g.events...)
}

// Disposed reports whether the game has ended (an end or abort event has
// been recorded)
func (g *Game) Disposed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.disposedLocked()
}

// IsReady reports whether the player has completed their ready-check
func (g *Game) IsReady(playerID model.PlayerID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.isReadyLocked(playerID)
}

// ClaimCount returns how many claims the player has raised this match
func (g *Game) ClaimCount(playerID model.PlayerID) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.claimCountLocked(playerID)
}

// CurrentTurn returns the input event for the turn currently awaiting an
// answer
func (g *Game) CurrentTurn() (model.GameEvent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, _, err := g.inputTurnLocked(0)
	return e, err
}

// OnGameEvent registers fn to be called for every event committed after
// this point. The returned function removes the subscription.
func (g *Game) OnGameEvent(fn func(model.GameEvent)) (unsubscribe func()) {
	return g.subs.Add(fn)
}

// Ready completes the ready-check for the player. Once every roster member
// is ready, an opening character is drawn and the first turn begins.
// Readying twice, or readying a finished game, is a no-op.
func (g *Game) Ready(playerID model.PlayerID) error {
	if !lo.Contains(g.playerIDs, playerID) {
		return fmt.Errorf("player %d: %w", playerID, model.ErrNotInGame)
	}

	g.mu.Lock()
	if g.disposedLocked() || g.isReadyLocked(playerID) {
		g.mu.Unlock()
		return nil
	}

	fired := []model.GameEvent{g.record(model.GameEvent{Type: model.EventReady, PlayerID: playerID})}
	if g.allReadyLocked() {
		opening := string(openingChars[g.random.Intn(len(openingChars))])
		fired = append(fired, g.startTurnLocked(g.playerIDs[0], opening))
	}
	g.mu.Unlock()

	g.notify(fired)
	return nil
}

// Answer submits a word for the player's current turn. The result is OK if
// the normalized word starts with the required character and is unused,
// Gameover if such a word ends in ん (the answering player loses), and NG
// otherwise. The raw, non-normalized word is what gets recorded.
func (g *Game) Answer(playerID model.PlayerID, word string) (model.GameResult, error) {
	g.mu.Lock()

	input, _, err := g.inputTurnLocked(0)
	if err != nil {
		g.mu.Unlock()
		return "", err
	}
	if input.PlayerID != playerID {
		g.mu.Unlock()
		return "", fmt.Errorf("player %d: %w", playerID, model.ErrNotPlayerTurn)
	}

	normalized := normalizeWord(word)
	if err := validateWord(normalized); err != nil {
		g.mu.Unlock()
		return "", err
	}

	result := model.ResultNG
	if strings.HasPrefix(normalized, input.Word) {
		if _, used := g.usedWords[normalized]; !used {
			if strings.HasSuffix(normalized, losingMora) {
				result = model.ResultGameover
			} else {
				result = model.ResultOK
			}
		}
	}

	fired := []model.GameEvent{g.record(model.GameEvent{
		Type:     model.EventAnswer,
		PlayerID: playerID,
		Word:     word,
		Result:   result,
	})}

	switch result {
	case model.ResultOK:
		g.usedWords[normalized] = struct{}{}
		next := g.nextPlayerLocked(playerID)
		fired = append(fired, g.startTurnLocked(next, trailingChar(normalized)))
	case model.ResultGameover:
		fired = append(fired, g.finishLocked(model.EventEnd))
	}
	g.mu.Unlock()

	g.notify(fired)
	return result, nil
}

// Claim disputes the answer of the turn immediately preceding the current
// one. Each earlier claim shifts the target one turn further back. A valid
// claim rewinds play to the disputed turn's owner with the same required
// character; a player's second claim of the match aborts the game as a
// draw.
func (g *Game) Claim(playerID model.PlayerID) error {
	if !lo.Contains(g.playerIDs, playerID) {
		return fmt.Errorf("player %d: %w", playerID, model.ErrNotInGame)
	}

	g.mu.Lock()

	prev, _, err := g.inputTurnLocked(1)
	if err != nil {
		g.mu.Unlock()
		return fmt.Errorf("no previous turn: %w", model.ErrClaimNotAllowed)
	}
	if prev.PlayerID == playerID {
		g.mu.Unlock()
		return fmt.Errorf("cannot claim own turn: %w", model.ErrClaimNotAllowed)
	}

	fired := []model.GameEvent{g.record(model.GameEvent{Type: model.EventClaim, PlayerID: playerID})}

	if g.claimCountLocked(playerID) >= maxClaimsPerPlayer {
		// Repeated disputes from the same player void the match
		fired = append(fired, g.finishLocked(model.EventAbort))
		g.logger.Info("game aborted by repeated claims",
			slog.String("game_id", string(g.id)),
			slog.Int64("player_id", int64(playerID)))
	} else {
		fired = append(fired, g.startTurnLocked(prev.PlayerID, prev.Word))
	}
	g.mu.Unlock()

	g.notify(fired)
	return nil
}

// Dispose aborts the game if it is still running and detaches all
// subscribers. Safe to call multiple times.
func (g *Game) Dispose() {
	g.mu.Lock()
	var fired []model.GameEvent
	if !g.disposedLocked() {
		fired = append(fired, g.finishLocked(model.EventAbort))
	}
	g.mu.Unlock()

	g.notify(fired)
	g.subs.Clear()
}

// expireTurn fires when a turn's deadline passes. The turn that was started
// may long since have been answered or rewound, so the event identity is
// re-checked under the lock before forfeiting.
func (g *Game) expireTurn(idx int) {
	g.mu.Lock()
	_, curIdx, err := g.inputTurnLocked(0)
	if err != nil || curIdx != idx {
		g.mu.Unlock()
		return
	}

	delinquent := g.events[idx].PlayerID
	fired := []model.GameEvent{
		g.record(model.GameEvent{
			Type:     model.EventAnswer,
			PlayerID: delinquent,
			Result:   model.ResultGameover,
		}),
		g.finishLocked(model.EventEnd),
	}
	g.mu.Unlock()

	g.logger.Info("turn timed out",
		slog.String("game_id", string(g.id)),
		slog.Int64("player_id", int64(delinquent)))

	g.notify(fired)
	g.subs.Clear()
}

// record appends an event to the log. Must be called with the lock held.
func (g *Game) record(e model.GameEvent) model.GameEvent {
	g.events = append(g.events, e)
	return e
}

// startTurnLocked begins a turn for the given player and required
// character, scheduling the forfeit check for its deadline. Must be called
// with the lock held.
func (g *Game) startTurnLocked(playerID model.PlayerID, char string) model.GameEvent {
	if g.cancelTimer != nil {
		g.cancelTimer()
	}
	e := g.record(model.GameEvent{
		Type:     model.EventInput,
		PlayerID: playerID,
		Word:     char,
		Limit:    g.clock.Now().Add(TurnLimit),
	})
	idx := len(g.events) - 1
	g.cancelTimer = g.clock.AfterFunc(TurnLimit, func() { g.expireTurn(idx) })
	return e
}

// finishLocked records the terminal event and stops any pending turn timer.
// Must be called with the lock held.
func (g *Game) finishLocked(terminal model.GameEventType) model.GameEvent {
	if g.cancelTimer != nil {
		g.cancelTimer()
		g.cancelTimer = nil
	}
	return g.record(model.GameEvent{Type: terminal})
}

// notify delivers committed events in order, then detaches subscribers if
// the game just ended
func (g *Game) notify(events []model.GameEvent) {
	for _, e := range events {
		g.subs.Notify(e)
	}
	for _, e := range events {
		if e.Type == model.EventEnd || e.Type == model.EventAbort {
			g.subs.Clear()
			return
		}
	}
}

// inputTurnLocked walks the log backward for the input event skip turns
// before the current one. Each claim encountered shifts the target one turn
// further back, which is what lets repeated claims reach progressively
// earlier turns. Must be called with the lock held.
func (g *Game) inputTurnLocked(skip int) (model.GameEvent, int, error) {
	for i := len(g.events) - 1; i >= 0; i-- {
		e := g.events[i]
		switch e.Type {
		case model.EventEnd, model.EventAbort:
			return model.GameEvent{}, 0, fmt.Errorf("game %s is over: %w", g.id, model.ErrNoTurnInPlay)
		case model.EventClaim:
			skip++
		case model.EventInput:
			if skip == 0 {
				return e, i, nil
			}
			skip--
		}
	}
	return model.GameEvent{}, 0, fmt.Errorf("game %s: %w", g.id, model.ErrNoTurnInPlay)
}

func (g *Game) disposedLocked() bool {
	for i := len(g.events) - 1; i >= 0; i-- {
		if g.events[i].Type == model.EventEnd || g.events[i].Type == model.EventAbort {
			return true
		}
	}
	return false
}

func (g *Game) isReadyLocked(playerID model.PlayerID) bool {
	// Ready events sit at the front of the log, so scan forward
	for _, e := range g.events {
		if e.Type == model.EventReady && e.PlayerID == playerID {
			return true
		}
	}
	return false
}

func (g *Game) allReadyLocked() bool {
	ready := lo.CountBy(g.events, func(e model.GameEvent) bool {
		return e.Type == model.EventReady
	})
	return ready >= len(g.playerIDs)
}

func (g *Game) claimCountLocked(playerID model.PlayerID) int {
	return lo.CountBy(g.events, func(e model.GameEvent) bool {
		return e.Type == model.EventClaim && e.PlayerID == playerID
	})
}

func (g *Game) nextPlayerLocked(playerID model.PlayerID) model.PlayerID {
	i := lo.IndexOf(g.playerIDs, playerID)
	return g.playerIDs[(i+1)%len(g.playerIDs)]
}
