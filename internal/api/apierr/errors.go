package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/shiritorimatch-go/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeNameTaken       = "NAME_TAKEN"
	CodePlayerNotFound  = "PLAYER_NOT_FOUND"
	CodeRoomNotFound    = "ROOM_NOT_FOUND"
	CodeRoomFull        = "ROOM_FULL"
	CodeAlreadyInRoom   = "ALREADY_IN_ROOM"
	CodeRoomDisposed    = "ROOM_DISPOSED"
	CodeRoomNotReady    = "ROOM_NOT_READY"
	CodeGameNotFound    = "GAME_NOT_FOUND"
	CodeNotYourTurn     = "NOT_YOUR_TURN"
	CodeNoTurnInPlay    = "NO_TURN_IN_PLAY"
	CodeInvalidWord     = "INVALID_WORD"
	CodeClaimNotAllowed = "CLAIM_NOT_ALLOWED"
	CodeInternalError   = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// invalid argument
	case errors.Is(err, model.ErrInvalidName):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Name must not be empty"}}
	case errors.Is(err, model.ErrInvalidRating):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Rating out of range"}}
	case errors.Is(err, model.ErrInvalidCapacity):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Room capacity must be at least 2"}}
	case errors.Is(err, model.ErrTooFewPlayers):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Not enough players to start a game"}}
	case errors.Is(err, model.ErrInvalidWord):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidWord, "Word must be at least two kana characters"}}

	// not found
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrRoomNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoomNotFound, "Room not found"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}

	// conflict
	case errors.Is(err, model.ErrNameTaken):
		return &httpError{http.StatusConflict, APIError{CodeNameTaken, "Name is already taken"}}
	case errors.Is(err, model.ErrRoomFull):
		return &httpError{http.StatusConflict, APIError{CodeRoomFull, "Room is full"}}
	case errors.Is(err, model.ErrAlreadyInRoom):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyInRoom, "Already in a room"}}
	case errors.Is(err, model.ErrGameExists):
		return &httpError{http.StatusConflict, APIError{CodeGameNotFound, "Game already registered"}}

	// failed precondition
	case errors.Is(err, model.ErrRoomNotReady):
		return &httpError{http.StatusConflict, APIError{CodeRoomNotReady, "Room is not full yet"}}
	case errors.Is(err, model.ErrNotPlayerTurn):
		return &httpError{http.StatusForbidden, APIError{CodeNotYourTurn, "Not your turn"}}
	case errors.Is(err, model.ErrNotInGame):
		return &httpError{http.StatusForbidden, APIError{CodeGameNotFound, "Not a participant in this game"}}
	case errors.Is(err, model.ErrNoTurnInPlay):
		return &httpError{http.StatusConflict, APIError{CodeNoTurnInPlay, "No turn in play"}}
	case errors.Is(err, model.ErrClaimNotAllowed):
		return &httpError{http.StatusConflict, APIError{CodeClaimNotAllowed, "Claim not allowed"}}

	// gone
	case errors.Is(err, model.ErrRoomDisposed):
		return &httpError{http.StatusGone, APIError{CodeRoomDisposed, "Room has been disposed"}}

	// auth
	case errors.Is(err, model.ErrInvalidToken):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid token"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
