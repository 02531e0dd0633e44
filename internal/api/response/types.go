package response

import (
	"time"

	"github.com/mcoot/shiritorimatch-go/internal/model"
	"github.com/mcoot/shiritorimatch-go/internal/services/room"
	"github.com/mcoot/shiritorimatch-go/internal/services/shiritori"
)

// Player represents a player in API responses
type Player struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Rating int    `json:"rating"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:     int64(p.ID),
		Name:   p.Name,
		Rating: p.Rating,
	}
}

// SignUpResponse is the response for the sign-up endpoint. It is the only
// place the credential token is ever echoed back.
type SignUpResponse struct {
	Player Player `json:"player"`
	Token  string `json:"token"`
}

// Room represents a room in API responses
type Room struct {
	No         int       `json:"no"`
	MaxPlayers int       `json:"max_players"`
	PlayerIDs  []int64   `json:"player_ids"`
	Rating     int       `json:"rating"`
	GameID     string    `json:"game_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// RoomFromModel converts a room.Room to a response Room
func RoomFromModel(r *room.Room) Room {
	ids := r.PlayerIDs()
	playerIDs := make([]int64, len(ids))
	for i, id := range ids {
		playerIDs[i] = int64(id)
	}
	return Room{
		No:         int(r.No()),
		MaxPlayers: r.MaxPlayers(),
		PlayerIDs:  playerIDs,
		Rating:     r.Rating(),
		GameID:     string(r.GameID()),
		CreatedAt:  r.CreatedAt(),
	}
}

// RoomList is the response for listing rooms
type RoomList struct {
	Rooms []Room `json:"rooms"`
}

// GameEvent represents one game event in API responses
type GameEvent struct {
	Type     string     `json:"type"`
	PlayerID int64      `json:"player_id,omitempty"`
	Word     string     `json:"word,omitempty"`
	Result   string     `json:"result,omitempty"`
	Limit    *time.Time `json:"limit,omitempty"`
}

// GameEventFromModel converts a model.GameEvent
func GameEventFromModel(e model.GameEvent) GameEvent {
	out := GameEvent{
		Type:     string(e.Type),
		PlayerID: int64(e.PlayerID),
		Word:     e.Word,
		Result:   string(e.Result),
	}
	if !e.Limit.IsZero() {
		limit := e.Limit
		out.Limit = &limit
	}
	return out
}

// GameState represents a running game in API responses
type GameState struct {
	ID          string      `json:"id"`
	PlayerIDs   []int64     `json:"player_ids"`
	Events      []GameEvent `json:"events"`
	CurrentTurn *GameEvent  `json:"current_turn,omitempty"`
	Finished    bool        `json:"finished"`
}

// GameStateFromModel converts a shiritori.Game to a response GameState
func GameStateFromModel(g *shiritori.Game) GameState {
	ids := g.PlayerIDs()
	playerIDs := make([]int64, len(ids))
	for i, id := range ids {
		playerIDs[i] = int64(id)
	}

	modelEvents := g.Events()
	events := make([]GameEvent, len(modelEvents))
	for i, e := range modelEvents {
		events[i] = GameEventFromModel(e)
	}

	state := GameState{
		ID:        string(g.ID()),
		PlayerIDs: playerIDs,
		Events:    events,
		Finished:  g.Disposed(),
	}
	if turn, err := g.CurrentTurn(); err == nil {
		t := GameEventFromModel(turn)
		state.CurrentTurn = &t
	}
	return state
}

// AnswerResponse is the response after submitting a word
type AnswerResponse struct {
	Result string `json:"result"`
}
