package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/shiritorimatch-go/internal/api/handler"
	"github.com/mcoot/shiritorimatch-go/internal/api/middleware"
	"github.com/mcoot/shiritorimatch-go/internal/services/matchmaker"
	"github.com/mcoot/shiritorimatch-go/internal/services/player"
	"github.com/mcoot/shiritorimatch-go/internal/services/room"
	"github.com/mcoot/shiritorimatch-go/internal/services/shiritori"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger        *slog.Logger
	PlayerService *player.Service
	RoomDirectory *room.Directory
	Matchmaker    *matchmaker.Matchmaker
	GameControl   *shiritori.Controller
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	playerHandler := handler.NewPlayerHandler(cfg.PlayerService)
	roomHandler := handler.NewRoomHandler(cfg.RoomDirectory, cfg.Matchmaker)
	gameHandler := handler.NewGameHandler(cfg.GameControl)

	authMiddleware := middleware.Auth(cfg.PlayerService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Account routes (no auth required to register or sign in)
	api.HandleFunc("/players", playerHandler.SignUp).Methods(http.MethodPost)
	api.HandleFunc("/players/signin", playerHandler.SignIn).Methods(http.MethodPost)

	playerProtected := api.PathPrefix("/players").Subrouter()
	playerProtected.Use(authMiddleware)
	playerProtected.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)
	playerProtected.HandleFunc("/me", playerHandler.UpdateMe).Methods(http.MethodPatch)
	playerProtected.HandleFunc("/{id:[0-9]+}", playerHandler.Get).Methods(http.MethodGet)

	// Room and matchmaking routes (all require auth)
	rooms := api.PathPrefix("/rooms").Subrouter()
	rooms.Use(authMiddleware)
	rooms.HandleFunc("", roomHandler.Create).Methods(http.MethodPost)
	rooms.HandleFunc("", roomHandler.List).Methods(http.MethodGet)
	rooms.HandleFunc("/events", roomHandler.Events).Methods(http.MethodGet)
	rooms.HandleFunc("/match", roomHandler.Match).Methods(http.MethodPost)
	rooms.HandleFunc("/me", roomHandler.GetMine).Methods(http.MethodGet)
	rooms.HandleFunc("/leave", roomHandler.Leave).Methods(http.MethodPost)
	rooms.HandleFunc("/{no:[0-9]+}", roomHandler.Get).Methods(http.MethodGet)
	rooms.HandleFunc("/{no:[0-9]+}", roomHandler.Remove).Methods(http.MethodDelete)
	rooms.HandleFunc("/{no:[0-9]+}/join", roomHandler.Join).Methods(http.MethodPost)

	// Gameplay routes (all require auth; the caller's game is implied by
	// their room)
	game := api.PathPrefix("/game").Subrouter()
	game.Use(authMiddleware)
	game.HandleFunc("", gameHandler.Get).Methods(http.MethodGet)
	game.HandleFunc("/events", gameHandler.Events).Methods(http.MethodGet)
	game.HandleFunc("/ready", gameHandler.Ready).Methods(http.MethodPost)
	game.HandleFunc("/answer", gameHandler.Answer).Methods(http.MethodPost)
	game.HandleFunc("/claim", gameHandler.Claim).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
