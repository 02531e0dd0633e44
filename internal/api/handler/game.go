package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/shiritorimatch-go/internal/api/middleware"
	"github.com/mcoot/shiritorimatch-go/internal/api/request"
	"github.com/mcoot/shiritorimatch-go/internal/api/response"
	"github.com/mcoot/shiritorimatch-go/internal/api/sse"
	"github.com/mcoot/shiritorimatch-go/internal/model"
	"github.com/mcoot/shiritorimatch-go/internal/services/shiritori"
)

// GameHandler handles shiritori gameplay endpoints. The caller's game is
// always resolved through their current room.
type GameHandler struct {
	controller *shiritori.Controller
}

// NewGameHandler creates a new game handler
func NewGameHandler(controller *shiritori.Controller) *GameHandler {
	return &GameHandler{
		controller: controller,
	}
}

// Ready handles POST /api/v1/game/ready
func (h *GameHandler) Ready(w http.ResponseWriter, r *http.Request) {
	p := middleware.MustGetPlayer(r.Context())

	if err := h.controller.Ready(p.ID); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Answer handles POST /api/v1/game/answer
func (h *GameHandler) Answer(w http.ResponseWriter, r *http.Request) {
	p := middleware.MustGetPlayer(r.Context())

	var req request.AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	result, err := h.controller.Answer(p.ID, req.Word)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AnswerResponse{Result: string(result)})
}

// Claim handles POST /api/v1/game/claim
func (h *GameHandler) Claim(w http.ResponseWriter, r *http.Request) {
	p := middleware.MustGetPlayer(r.Context())

	if err := h.controller.Claim(p.ID); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Get handles GET /api/v1/game
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	p := middleware.MustGetPlayer(r.Context())

	g, err := h.controller.GameForPlayer(p.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameStateFromModel(g))
}

// Events handles GET /api/v1/game/events, streaming the caller's game
// events as server-sent events
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	p := middleware.MustGetPlayer(r.Context())

	g, err := h.controller.GameForPlayer(p.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	events := make(chan sse.Event, sse.SendBufferSize)
	unsubscribe := g.OnGameEvent(func(e model.GameEvent) {
		select {
		case events <- sse.Event{Name: "game", Data: response.GameEventFromModel(e)}:
		default:
		}
	})
	defer unsubscribe()

	_ = sse.Serve(w, r, events)
}
