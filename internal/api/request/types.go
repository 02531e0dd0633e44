package request

// SignUpRequest is the request body for registering a player
type SignUpRequest struct {
	Name string `json:"name"`
	// Token is the credential the client wants to sign in with later.
	// Left empty, the server generates one.
	Token string `json:"token,omitempty"`
}

// SignInRequest is the request body for signing in with a token
type SignInRequest struct {
	Token string `json:"token"`
}

// UpdateMeRequest is the request body for updating the caller's profile
type UpdateMeRequest struct {
	Name   string `json:"name"`
	Rating int    `json:"rating"`
}

// CreateRoomRequest is the request body for creating a room
type CreateRoomRequest struct {
	MaxPlayers int `json:"max_players"`
}

// AnswerRequest is the request body for answering a turn
type AnswerRequest struct {
	Word string `json:"word"`
}
