package model

import "time"

// GameEventType identifies the type of game event
type GameEventType string

const (
	EventStart  GameEventType = "start"  // game constructed
	EventReady  GameEventType = "ready"  // a player finished their ready-check
	EventInput  GameEventType = "input"  // a turn began; Word holds the required character
	EventAnswer GameEventType = "answer" // a player answered; Word holds the raw answer
	EventClaim  GameEventType = "claim"  // a player disputed the previous answer
	EventEnd    GameEventType = "end"    // game over
	EventAbort  GameEventType = "abort"  // game aborted (draw or disposal)
)

// GameResult is the outcome of an answer
type GameResult string

const (
	ResultOK       GameResult = "ok"
	ResultNG       GameResult = "ng"
	ResultGameover GameResult = "gameover"
)

// GameEvent is one entry in a game's append-only event log.
// Which fields are set depends on the event type.
type GameEvent struct {
	Type     GameEventType `json:"type"`
	PlayerID PlayerID      `json:"player_id,omitempty"`
	Word     string        `json:"word,omitempty"`
	Result   GameResult    `json:"result,omitempty"`
	Limit    time.Time     `json:"limit,omitzero"` // answer deadline, set on input events
}
