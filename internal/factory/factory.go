package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/shiritorimatch-go/internal/dependencies/clock"
	"github.com/mcoot/shiritorimatch-go/internal/dependencies/random"
	"github.com/mcoot/shiritorimatch-go/internal/services/game"
	"github.com/mcoot/shiritorimatch-go/internal/services/matchmaker"
	"github.com/mcoot/shiritorimatch-go/internal/services/player"
	"github.com/mcoot/shiritorimatch-go/internal/services/room"
	"github.com/mcoot/shiritorimatch-go/internal/services/shiritori"
	"github.com/mcoot/shiritorimatch-go/internal/storage"
	"github.com/mcoot/shiritorimatch-go/internal/storage/memory"
	redisstorage "github.com/mcoot/shiritorimatch-go/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	PlayerService *player.Service
	RoomDirectory *room.Directory
	GameRegistry  *game.Registry
	GameControl   *shiritori.Controller
	Matchmaker    *matchmaker.Matchmaker
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	return NewWithDependencies(store, clock.New(), random.New(), logger), nil
}

// NewWithDependencies creates an App with the given dependencies (useful
// for testing with mock clock and random)
func NewWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	playerService := player.New(store, clk, rnd)
	roomDirectory := room.NewDirectory(clk, rnd, logger)
	gameRegistry := game.NewRegistry()
	gameControl := shiritori.NewController(roomDirectory, gameRegistry, clk, rnd, logger)
	mm := matchmaker.New(roomDirectory, clk, logger)

	return &App{
		Storage:       store,
		Clock:         clk,
		Random:        rnd,
		PlayerService: playerService,
		RoomDirectory: roomDirectory,
		GameRegistry:  gameRegistry,
		GameControl:   gameControl,
		Matchmaker:    mm,
	}
}
