package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case SignUpResult:
		o.printSignUpResult(v)
	case Room:
		o.printRoom(v)
	case RoomList:
		o.printRoomList(v)
	case GameState:
		o.printGameState(v)
	case AnswerResult:
		o.printAnswerResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Rating int    `json:"rating"`
}

// SignUpResult combines player and token
type SignUpResult struct {
	Player Player `json:"player"`
	Token  string `json:"token"`
}

// Room response type
type Room struct {
	No         int       `json:"no"`
	MaxPlayers int       `json:"max_players"`
	PlayerIDs  []int64   `json:"player_ids"`
	Rating     int       `json:"rating"`
	GameID     string    `json:"game_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// RoomList response type
type RoomList struct {
	Rooms []Room `json:"rooms"`
}

// GameEvent response type
type GameEvent struct {
	Type     string     `json:"type"`
	PlayerID int64      `json:"player_id,omitempty"`
	Word     string     `json:"word,omitempty"`
	Result   string     `json:"result,omitempty"`
	Limit    *time.Time `json:"limit,omitempty"`
}

// GameState response type
type GameState struct {
	ID          string      `json:"id"`
	PlayerIDs   []int64     `json:"player_ids"`
	Events      []GameEvent `json:"events"`
	CurrentTurn *GameEvent  `json:"current_turn,omitempty"`
	Finished    bool        `json:"finished"`
}

// AnswerResult response type
type AnswerResult struct {
	Result string `json:"result"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s (#%d)\n", p.Name, p.ID)
	fmt.Printf("Rating: %d\n", p.Rating)
}

func (o *Output) printSignUpResult(r SignUpResult) {
	o.printPlayer(r.Player)
	fmt.Printf("Token: %s\n", r.Token)
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room: %d\n", r.No)
	fmt.Printf("Rating: %d\n", r.Rating)
	if r.GameID != "" {
		fmt.Printf("Game: %s\n", r.GameID)
	}
	ids := make([]string, len(r.PlayerIDs))
	for i, id := range r.PlayerIDs {
		ids[i] = fmt.Sprintf("#%d", id)
	}
	fmt.Printf("Players (%d/%d): %s\n", len(r.PlayerIDs), r.MaxPlayers, strings.Join(ids, ", "))
	fmt.Printf("Created: %s\n", r.CreatedAt.Format(time.RFC3339))
}

func (o *Output) printRoomList(l RoomList) {
	fmt.Printf("Rooms (%d):\n", len(l.Rooms))
	for _, r := range l.Rooms {
		game := ""
		if r.GameID != "" {
			game = " [in game]"
		}
		fmt.Printf("  %d: %d/%d players, rating %d%s\n", r.No, len(r.PlayerIDs), r.MaxPlayers, r.Rating, game)
	}
}

func (o *Output) printGameState(g GameState) {
	fmt.Printf("Game: %s\n", g.ID)
	ids := make([]string, len(g.PlayerIDs))
	for i, id := range g.PlayerIDs {
		ids[i] = fmt.Sprintf("#%d", id)
	}
	fmt.Printf("Players: %s\n", strings.Join(ids, ", "))

	if g.Finished {
		fmt.Println("State: finished")
	} else if g.CurrentTurn != nil {
		fmt.Printf("Turn: player #%d", g.CurrentTurn.PlayerID)
		if g.CurrentTurn.Word != "" {
			fmt.Printf(", starting with %q", g.CurrentTurn.Word)
		}
		fmt.Println()
		if g.CurrentTurn.Limit != nil {
			fmt.Printf("Deadline: %s\n", g.CurrentTurn.Limit.Format(time.RFC3339))
		}
	} else {
		fmt.Println("State: waiting for players")
	}

	fmt.Printf("Events (%d):\n", len(g.Events))
	for _, e := range g.Events {
		line := "  " + e.Type
		if e.PlayerID != 0 {
			line += fmt.Sprintf(" player=#%d", e.PlayerID)
		}
		if e.Word != "" {
			line += fmt.Sprintf(" word=%s", e.Word)
		}
		if e.Result != "" {
			line += fmt.Sprintf(" result=%s", e.Result)
		}
		fmt.Println(line)
	}
}

func (o *Output) printAnswerResult(a AnswerResult) {
	switch a.Result {
	case "ok":
		fmt.Println("Accepted")
	case "ng":
		fmt.Println("Rejected - try another word")
	case "gameover":
		fmt.Println("Game over!")
	default:
		fmt.Printf("Result: %s\n", a.Result)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
