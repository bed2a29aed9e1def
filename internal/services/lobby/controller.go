package lobby

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/fireworks-games/hanabot/internal/dependencies/clock"
	"github.com/fireworks-games/hanabot/internal/dependencies/random"
	"github.com/fireworks-games/hanabot/internal/model"
	"github.com/fireworks-games/hanabot/internal/services/game"
	"github.com/fireworks-games/hanabot/internal/storage"
)

// MaxGamePlayers caps how many waiting players one game can seat
const MaxGamePlayers = 5

// Controller manages the waiting queue and player-to-game session mapping.
// All operations serialize on a single mutex: the lobby is a singleton and
// its transitions must be atomic.
type Controller struct {
	storage        storage.Storage
	gameController *game.Controller
	events         game.Publisher
	clock          clock.Clock
	random         random.Random
	logger         *slog.Logger

	mu sync.Mutex
}

// NewController creates a new LobbyController
func NewController(
	storage storage.Storage,
	gameController *game.Controller,
	events game.Publisher,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:        storage,
		gameController: gameController,
		events:         events,
		clock:          clock,
		random:         random,
		logger:         logger,
	}
}

func (c *Controller) publish(ctx context.Context, event model.Event) {
	if c.events != nil {
		c.events.Publish(ctx, event)
	}
}

// GetLobby retrieves the lobby
func (c *Controller) GetLobby(ctx context.Context) (*model.Lobby, error) {
	return c.storage.GetLobby(ctx)
}

// Join adds a player to the waiting queue. Joining while already waiting is
// a no-op; joining while seated in a game is rejected.
func (c *Controller) Join(ctx context.Context, playerID model.PlayerID) (*model.Lobby, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, err := c.storage.GetLobby(ctx)
	if err != nil {
		return nil, err
	}

	if _, seated := lobby.GameFor(playerID); seated {
		return nil, model.ErrAlreadyInGame
	}
	if lobby.IsWaiting(playerID) {
		return lobby, nil
	}

	lobby.Waiting = append(lobby.Waiting, playerID)
	lobby.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		return nil, err
	}

	c.publish(ctx, model.Event{
		Type:      model.EventPlayerJoined,
		Timestamp: lobby.UpdatedAt,
		PlayerID:  playerID,
		Payload:   model.PlayerJoinedPayload{PlayerID: playerID, Waiting: len(lobby.Waiting)},
	})

	c.logger.Info("player joined lobby",
		slog.String("player_id", string(playerID)),
		slog.Int("waiting", len(lobby.Waiting)),
	)
	return lobby, nil
}

// Leave removes a player from the waiting queue. Leaving without waiting is
// a no-op; leaving does not quit an active game.
func (c *Controller) Leave(ctx context.Context, playerID model.PlayerID) (*model.Lobby, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, err := c.storage.GetLobby(ctx)
	if err != nil {
		return nil, err
	}

	if !lobby.RemoveWaiting(playerID) {
		return lobby, nil
	}
	lobby.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		return nil, err
	}

	c.publish(ctx, model.Event{
		Type:      model.EventPlayerLeft,
		Timestamp: lobby.UpdatedAt,
		PlayerID:  playerID,
		Payload:   model.PlayerLeftPayload{PlayerID: playerID, Waiting: len(lobby.Waiting)},
	})

	c.logger.Info("player left lobby",
		slog.String("player_id", string(playerID)),
		slog.Int("waiting", len(lobby.Waiting)),
	)
	return lobby, nil
}

// Start forms a game of the requested size. The initiator must be waiting
// and always gets a seat; the rest are the longest-waiting players, seated
// in join order. A numPlayers of 0 means "as many as possible": the whole
// waiting queue, capped at MaxGamePlayers.
func (c *Controller) Start(ctx context.Context, initiator model.PlayerID, numPlayers int) (*model.Game, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, err := c.storage.GetLobby(ctx)
	if err != nil {
		return nil, err
	}

	if !lobby.IsWaiting(initiator) {
		return nil, model.ErrNotWaiting
	}
	if numPlayers == 0 {
		numPlayers = min(MaxGamePlayers, len(lobby.Waiting))
		if numPlayers < 2 {
			return nil, model.ErrInsufficientPlayers
		}
	}
	if numPlayers < 2 || numPlayers > MaxGamePlayers {
		return nil, model.ErrInvalidPlayerCount
	}
	if numPlayers > len(lobby.Waiting) {
		return nil, model.ErrInsufficientPlayers
	}

	players := make([]model.PlayerID, 0, numPlayers)
	players = append(players, initiator)
	for _, id := range lobby.Waiting {
		if len(players) == numPlayers {
			break
		}
		if id != initiator {
			players = append(players, id)
		}
	}

	newGame, err := c.gameController.CreateGame(ctx, players)
	if err != nil {
		return nil, err
	}

	for _, id := range players {
		lobby.RemoveWaiting(id)
		lobby.Seated[id] = newGame.ID
	}
	lobby.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		return nil, err
	}

	c.logger.Info("game started from lobby",
		slog.String("game_id", string(newGame.ID)),
		slog.String("initiator", string(initiator)),
		slog.Int("player_count", numPlayers),
		slog.Int("still_waiting", len(lobby.Waiting)),
	)
	return newGame, nil
}

// Resolve returns the game the player is currently seated in
func (c *Controller) Resolve(ctx context.Context, playerID model.PlayerID) (model.GameID, error) {
	lobby, err := c.storage.GetLobby(ctx)
	if err != nil {
		return "", err
	}
	gameID, ok := lobby.GameFor(playerID)
	if !ok {
		return "", model.ErrNotInGame
	}
	return gameID, nil
}

// Quit abandons the player's active game and returns every seated player,
// quitter included, to the waiting queue in shuffled order.
func (c *Controller) Quit(ctx context.Context, playerID model.PlayerID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, err := c.storage.GetLobby(ctx)
	if err != nil {
		return err
	}

	gameID, ok := lobby.GameFor(playerID)
	if !ok {
		return model.ErrNotInGame
	}

	if err := c.gameController.AbandonGame(ctx, gameID); err != nil {
		return err
	}

	return c.releaseSeats(ctx, lobby, gameID)
}

// ReleaseGame returns the players of a finished game to the waiting queue.
// Called when a game reaches a natural ending.
func (c *Controller) ReleaseGame(ctx context.Context, gameID model.GameID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, err := c.storage.GetLobby(ctx)
	if err != nil {
		return err
	}
	return c.releaseSeats(ctx, lobby, gameID)
}

// releaseSeats moves every player seated in the game back to the waiting
// queue. Re-queue order is shuffled so the next game is not the same group
// in the same seats.
func (c *Controller) releaseSeats(ctx context.Context, lobby *model.Lobby, gameID model.GameID) error {
	var released []model.PlayerID
	for id, g := range lobby.Seated {
		if g == gameID {
			released = append(released, id)
		}
	}

	sort.Slice(released, func(i, j int) bool { return released[i] < released[j] })
	c.random.Shuffle(len(released), func(i, j int) {
		released[i], released[j] = released[j], released[i]
	})

	for _, id := range released {
		delete(lobby.Seated, id)
		lobby.Waiting = append(lobby.Waiting, id)
	}
	lobby.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		return err
	}

	c.logger.Info("players returned to lobby",
		slog.String("game_id", string(gameID)),
		slog.Int("released", len(released)),
		slog.Int("waiting", len(lobby.Waiting)),
	)
	return nil
}

// ControllerInterface defines operations of the lobby controller
type ControllerInterface interface {
	GetLobby(ctx context.Context) (*model.Lobby, error)
	Join(ctx context.Context, playerID model.PlayerID) (*model.Lobby, error)
	Leave(ctx context.Context, playerID model.PlayerID) (*model.Lobby, error)
	Start(ctx context.Context, initiator model.PlayerID, numPlayers int) (*model.Game, error)
	Resolve(ctx context.Context, playerID model.PlayerID) (model.GameID, error)
	Quit(ctx context.Context, playerID model.PlayerID) error
	ReleaseGame(ctx context.Context, gameID model.GameID) error
}

var _ ControllerInterface = (*Controller)(nil)
