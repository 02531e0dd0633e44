package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/shiritorimatch-go/internal/api/middleware"
	"github.com/mcoot/shiritorimatch-go/internal/api/request"
	"github.com/mcoot/shiritorimatch-go/internal/api/response"
	"github.com/mcoot/shiritorimatch-go/internal/api/sse"
	"github.com/mcoot/shiritorimatch-go/internal/model"
	"github.com/mcoot/shiritorimatch-go/internal/services/matchmaker"
	"github.com/mcoot/shiritorimatch-go/internal/services/room"
)

// RoomHandler handles room and matchmaking endpoints
type RoomHandler struct {
	rooms      *room.Directory
	matchmaker *matchmaker.Matchmaker
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms *room.Directory, mm *matchmaker.Matchmaker) *RoomHandler {
	return &RoomHandler{
		rooms:      rooms,
		matchmaker: mm,
	}
}

// Create handles POST /api/v1/rooms
//
// The creator joins the room they just created; a creation that cannot be
// joined is rolled back.
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	p := middleware.MustGetPlayer(r.Context())

	var req request.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if _, err := h.rooms.FindRoomByPlayer(p.ID); err == nil {
		WriteError(w, fmt.Errorf("player %d: %w", p.ID, model.ErrAlreadyInRoom))
		return
	}

	created, err := h.rooms.CreateRoom(req.MaxPlayers)
	if err != nil {
		WriteError(w, err)
		return
	}
	if err := created.AddPlayer(p); err != nil {
		h.rooms.RemoveRoom(created.No())
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RoomFromModel(created))
}

// List handles GET /api/v1/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	all := h.rooms.Rooms()
	rooms := make([]response.Room, len(all))
	for i, rm := range all {
		rooms[i] = response.RoomFromModel(rm)
	}
	response.JSON(w, http.StatusOK, response.RoomList{Rooms: rooms})
}

// Get handles GET /api/v1/rooms/{no}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	no, err := roomNo(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	rm, err := h.rooms.GetRoom(no)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RoomFromModel(rm))
}

// Join handles POST /api/v1/rooms/{no}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	p := middleware.MustGetPlayer(r.Context())

	no, err := roomNo(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	// joining a second room is not allowed, even a different one
	if _, err := h.rooms.FindRoomByPlayer(p.ID); err == nil {
		WriteError(w, fmt.Errorf("player %d: %w", p.ID, model.ErrAlreadyInRoom))
		return
	}

	rm, err := h.rooms.GetRoom(no)
	if err != nil {
		WriteError(w, err)
		return
	}
	if err := rm.AddPlayer(p); err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(rm))
}

// Leave handles POST /api/v1/rooms/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	p := middleware.MustGetPlayer(r.Context())

	rm, err := h.rooms.FindRoomByPlayer(p.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	if _, err := rm.RemovePlayer(p); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Remove handles DELETE /api/v1/rooms/{no}
func (h *RoomHandler) Remove(w http.ResponseWriter, r *http.Request) {
	no, err := roomNo(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if !h.rooms.RemoveRoom(no) {
		WriteError(w, fmt.Errorf("room %d: %w", no, model.ErrRoomNotFound))
		return
	}
	response.NoContent(w)
}

// Match handles POST /api/v1/rooms/match
func (h *RoomHandler) Match(w http.ResponseWriter, r *http.Request) {
	p := middleware.MustGetPlayer(r.Context())

	rm, err := h.matchmaker.MatchRoom(r.Context(), p)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(rm))
}

// GetMine handles GET /api/v1/rooms/me
func (h *RoomHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	p := middleware.MustGetPlayer(r.Context())

	rm, err := h.rooms.FindRoomByPlayer(p.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RoomFromModel(rm))
}

// Events handles GET /api/v1/rooms/events, streaming directory updates as
// server-sent events
func (h *RoomHandler) Events(w http.ResponseWriter, r *http.Request) {
	events := make(chan sse.Event, sse.SendBufferSize)
	unsubscribe := h.rooms.OnUpdated(func(rm *room.Room) {
		// drop rather than block a slow stream; the next update catches
		// the client up since payloads carry full room state
		select {
		case events <- sse.Event{Name: "room", Data: response.RoomFromModel(rm)}:
		default:
		}
	})
	defer unsubscribe()

	_ = sse.Serve(w, r, events)
}

func roomNo(r *http.Request) (model.RoomNo, error) {
	no, err := strconv.Atoi(mux.Vars(r)["no"])
	if err != nil {
		return 0, NewInvalidRequestError("invalid room number")
	}
	return model.RoomNo(no), nil
}
