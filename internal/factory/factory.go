package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/fireworks-games/hanabot/internal/api/sse"
	"github.com/fireworks-games/hanabot/internal/config"
	"github.com/fireworks-games/hanabot/internal/dependencies/clock"
	"github.com/fireworks-games/hanabot/internal/dependencies/random"
	"github.com/fireworks-games/hanabot/internal/model"
	"github.com/fireworks-games/hanabot/internal/services/auth"
	"github.com/fireworks-games/hanabot/internal/services/deck"
	"github.com/fireworks-games/hanabot/internal/services/game"
	"github.com/fireworks-games/hanabot/internal/services/lobby"
	"github.com/fireworks-games/hanabot/internal/storage"
	"github.com/fireworks-games/hanabot/internal/storage/memory"
	redisstorage "github.com/fireworks-games/hanabot/internal/storage/redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	DeckService     *deck.Service
	GameController  *game.Controller
	LobbyController *lobby.Controller
	AuthService     *auth.Service
	HubManager      *sse.HubManager
}

// Config holds configuration for the application factory
type Config struct {
	// Rules are the game rule parameters; zero value means defaults
	Rules model.Rules
	// AuthConfig holds configuration for the auth service (optional)
	AuthConfig auth.Config
	// Logger is the application logger (optional); nil means no-op
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	StorageType string
	// RedisConfig holds Redis connection settings (required for redis storage)
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
		storageType = config.StorageTypeMemory
	}

	switch storageType {
	case config.StorageTypeMemory:
		store = memory.New()
	case config.StorageTypeRedis:
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

	rules := cfg.Rules
	if rules.ClueTokens == 0 {
		rules = model.DefaultRules()
	}

	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	return newWithDependencies(store, clock.New(), random.New(), rules, authCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	rules model.Rules,
	authCfg auth.Config,
	logger *slog.Logger,
) *App {
	hubManager := sse.NewHubManager(logger)

	// The game controller publishes into a fanout so the seat releaser can
	// be attached after the lobby controller exists
	events := &fanout{}
	events.add(sse.NewBroadcaster(hubManager, logger))

	deckService := deck.New(rnd)
	gameController := game.NewController(store, deckService, events, rules, clk, rnd, logger)
	lobbyController := lobby.NewController(store, gameController, events, clk, rnd, logger)
	authService := auth.New(store, clk, authCfg)

	events.add(&releaser{lobby: lobbyController, logger: logger})

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		DeckService:     deckService,
		GameController:  gameController,
		LobbyController: lobbyController,
		AuthService:     authService,
		HubManager:      hubManager,
	}
}

// fanout dispatches each event to every attached sink, in attach order
type fanout struct {
	mu    sync.RWMutex
	sinks []game.Publisher
}

func (f *fanout) add(p game.Publisher) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sinks = append(f.sinks, p)
}

func (f *fanout) Publish(ctx context.Context, event model.Event) {
	f.mu.RLock()
	sinks := f.sinks
	f.mu.RUnlock()
	for _, sink := range sinks {
		sink.Publish(ctx, event)
	}
}

// releaser returns a finished game's players to the waiting queue. Abandoned
// games are skipped: the quit path re-queues its players itself, under the
// lobby lock it already holds.
type releaser struct {
	lobby  *lobby.Controller
	logger *slog.Logger
}

func (r *releaser) Publish(ctx context.Context, event model.Event) {
	if event.Type != model.EventGameEnded {
		return
	}
	payload, ok := event.Payload.(model.GameEndedPayload)
	if !ok || payload.Reason == model.EndReasonAbandoned {
		return
	}

	if err := r.lobby.ReleaseGame(ctx, event.GameID); err != nil {
		r.logger.Error("failed to release players from finished game",
			slog.String("game_id", string(event.GameID)),
			slog.String("error", err.Error()),
		)
	}
}
