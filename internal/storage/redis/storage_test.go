package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/fireworks-games/hanabot/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.GuestPlayerTTL = time.Hour
	cfg.GameTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:          "player-1",
		DisplayName: "Alice",
		IsGuest:     true,
		CreatedAt:   time.Now().UTC(),
	}

	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	got, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal("Alice", got.DisplayName)
	s.True(got.IsGuest)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "missing")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestGuestPlayerExpires() {
	player := &model.Player{ID: "player-1", DisplayName: "Alice", IsGuest: true}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Registered player tests

func (s *StorageSuite) TestRegisteredPlayerLookupByUsername() {
	rp := &model.RegisteredPlayer{
		PlayerID:     "player-1",
		Username:     "alice",
		PasswordHash: "hash",
	}
	s.Require().NoError(s.storage.SaveRegisteredPlayer(s.ctx, rp))

	got, err := s.storage.GetRegisteredPlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), got.PlayerID)

	_, err = s.storage.GetRegisteredPlayerByUsername(s.ctx, "bob")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Lobby tests

func (s *StorageSuite) TestGetLobbyReturnsEmptyLobbyWhenUnset() {
	lobby, err := s.storage.GetLobby(s.ctx)
	s.Require().NoError(err)
	s.Empty(lobby.Waiting)
	s.NotNil(lobby.Seated)
}

func (s *StorageSuite) TestLobbyRoundTrip() {
	lobby := model.NewLobby()
	lobby.Waiting = []model.PlayerID{"alice", "bob"}
	lobby.Seated["carol"] = "GAME1"

	s.Require().NoError(s.storage.SaveLobby(s.ctx, lobby))

	got, err := s.storage.GetLobby(s.ctx)
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"alice", "bob"}, got.Waiting)
	s.Equal(model.GameID("GAME1"), got.Seated["carol"])
}

func (s *StorageSuite) TestLobbySurvivesGameExpiry() {
	lobby := model.NewLobby()
	lobby.Waiting = []model.PlayerID{"alice"}
	s.Require().NoError(s.storage.SaveLobby(s.ctx, lobby))

	s.mini.FastForward(48 * time.Hour)

	got, err := s.storage.GetLobby(s.ctx)
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"alice"}, got.Waiting)
}

// Game tests

func (s *StorageSuite) TestGameRoundTripPreservesKnowledge() {
	hand := model.Hand{Player: "alice"}
	hand.Append(model.Card{Color: model.ColorRed, Rank: 1})
	hand.Slots[0].Knowledge.MarkColor(model.ColorRed)
	hand.Slots[0].Knowledge.Record("bob", model.ColorClue(model.ColorRed), true)

	game := &model.Game{
		ID:      "GAME1",
		Status:  model.GameStatusInProgress,
		Players: []model.PlayerID{"alice", "bob"},
		Hands:   []model.Hand{hand, {Player: "bob"}},
		Stacks:  map[model.Color]model.Rank{model.ColorBlue: 3},
		Clues:   6,
		Bombs:   1,
	}
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	got, err := s.storage.GetGame(s.ctx, "GAME1")
	s.Require().NoError(err)
	s.Equal(model.Rank(3), got.Stacks[model.ColorBlue])
	s.Equal(model.ColorRed, got.Hands[0].Slots[0].Knowledge.Color)
	s.Require().Len(got.Hands[0].Slots[0].Knowledge.History, 1)
	s.True(got.Hands[0].Slots[0].Knowledge.History[0].Touched)
}

func (s *StorageSuite) TestGameRoundTripPreservesTurnsLeft() {
	lap := 2
	game := &model.Game{ID: "GAME1", TurnsLeft: &lap}
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	got, err := s.storage.GetGame(s.ctx, "GAME1")
	s.Require().NoError(err)
	s.Require().NotNil(got.TurnsLeft)
	s.Equal(2, *got.TurnsLeft)
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestDeleteGame() {
	s.Require().NoError(s.storage.SaveGame(s.ctx, &model.Game{ID: "GAME1"}))
	s.Require().NoError(s.storage.DeleteGame(s.ctx, "GAME1"))

	_, err := s.storage.GetGame(s.ctx, "GAME1")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestListGamesSkipsExpiredEntries() {
	s.Require().NoError(s.storage.SaveGame(s.ctx, &model.Game{ID: "GAME1"}))
	s.Require().NoError(s.storage.SaveGame(s.ctx, &model.Game{ID: "GAME2"}))

	games, err := s.storage.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Len(games, 2)

	// Expire the values; the index entries must be cleaned up, not returned
	s.mini.FastForward(2 * time.Hour)

	games, err = s.storage.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Empty(games)
}
