package storage

import (
	"context"

	"github.com/fireworks-games/hanabot/internal/model"
)

// Storage defines the interface for data persistence. Everything the engine
// needs to resume after a restart goes through here: the full game states
// (deck order, hands with knowledge, discards, stacks, tokens, turn order)
// and the lobby's waiting/seated bookkeeping.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Registered player operations
	SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error
	GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error)
	GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error)

	// Lobby operations (single waiting room)
	SaveLobby(ctx context.Context, lobby *model.Lobby) error
	GetLobby(ctx context.Context) (*model.Lobby, error)

	// Game operations
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	DeleteGame(ctx context.Context, id model.GameID) error
	ListGames(ctx context.Context) ([]*model.Game, error)
}
