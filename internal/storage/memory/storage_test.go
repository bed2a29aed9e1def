package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/fireworks-games/hanabot/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:          "player-1",
		DisplayName: "Alice",
		IsGuest:     true,
		CreatedAt:   time.Now(),
	}

	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	got, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(player.DisplayName, got.DisplayName)
	s.True(got.IsGuest)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "missing")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestDeletePlayer() {
	player := &model.Player{ID: "player-1", DisplayName: "Alice"}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))
	s.Require().NoError(s.storage.DeletePlayer(s.ctx, "player-1"))

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

	got, err = s.storage.GetRegisteredPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal("alice", got.Username)

	_, err = s.storage.GetRegisteredPlayerByUsername(s.ctx, "bob")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Lobby tests

func (s *StorageSuite) TestGetLobbyReturnsEmptyLobbyWhenUnset() {
	lobby, err := s.storage.GetLobby(s.ctx)
	s.Require().NoError(err)
	s.Empty(lobby.Waiting)
	s.Empty(lobby.Seated)
}

func (s *StorageSuite) TestSaveAndGetLobby() {
	lobby := model.NewLobby()
	lobby.Waiting = []model.PlayerID{"alice", "bob"}
	lobby.Seated["carol"] = "GAME1"

	s.Require().NoError(s.storage.SaveLobby(s.ctx, lobby))

	got, err := s.storage.GetLobby(s.ctx)
	s.Require().NoError(err)
	s.Equal(lobby.Waiting, got.Waiting)
	s.Equal(model.GameID("GAME1"), got.Seated["carol"])
}

// Game tests

func (s *StorageSuite) TestSaveAndGetGame() {
	game := &model.Game{
		ID:      "GAME1",
		Status:  model.GameStatusInProgress,
		Players: []model.PlayerID{"alice", "bob"},
		Stacks:  map[model.Color]model.Rank{model.ColorRed: 2},
		Clues:   7,
	}
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	got, err := s.storage.GetGame(s.ctx, "GAME1")
	s.Require().NoError(err)
	s.Equal(game.Players, got.Players)
	s.Equal(model.Rank(2), got.Stacks[model.ColorRed])
}

func (s *StorageSuite) TestGetGameReturnsIsolatedCopy() {
	game := &model.Game{
		ID:      "GAME1",
		Status:  model.GameStatusInProgress,
		Players: []model.PlayerID{"alice", "bob"},
		Hands: []model.Hand{
			{Player: "alice", Slots: []model.Slot{{Card: model.Card{Color: model.ColorRed, Rank: 1}}}},
			{Player: "bob", Slots: []model.Slot{{Card: model.Card{Color: model.ColorBlue, Rank: 4}}}},
		},
		Deck:     []model.Card{{Color: model.ColorGreen, Rank: 1}},
		Discards: []model.Card{},
		Stacks:   map[model.Color]model.Rank{model.ColorRed: 2},
		Clues:    7,
	}
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	// Mutating the caller's copy after saving must not touch the store
	game.Clues = 0
	game.Stacks[model.ColorRed] = 5
	game.Hands[0].Slots[0].Knowledge.MarkColor(model.ColorRed)

	got, err := s.storage.GetGame(s.ctx, "GAME1")
	s.Require().NoError(err)
	s.Equal(7, got.Clues)
	s.Equal(model.Rank(2), got.Stacks[model.ColorRed])
	s.False(got.Hands[0].Slots[0].Knowledge.KnownColor())

	// Mutating a retrieved copy must not touch the store either
	got.Deck = nil
	got.Hands[1].Slots[0].Card = model.Card{Color: model.ColorYellow, Rank: 5}

	again, err := s.storage.GetGame(s.ctx, "GAME1")
	s.Require().NoError(err)
	s.Len(again.Deck, 1)
	s.Equal(model.Card{Color: model.ColorBlue, Rank: 4}, again.Hands[1].Slots[0].Card)
}

func (s *StorageSuite) TestGetLobbyReturnsIsolatedCopy() {
	lobby := model.NewLobby()
	lobby.Waiting = []model.PlayerID{"alice"}
	s.Require().NoError(s.storage.SaveLobby(s.ctx, lobby))

	got, err := s.storage.GetLobby(s.ctx)
	s.Require().NoError(err)
	got.Waiting = append(got.Waiting, "bob")
	got.Seated["carol"] = "GAME1"

	again, err := s.storage.GetLobby(s.ctx)
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"alice"}, again.Waiting)
	s.Empty(again.Seated)
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestDeleteGame() {
	game := &model.Game{ID: "GAME1"}
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))
	s.Require().NoError(s.storage.DeleteGame(s.ctx, "GAME1"))

	_, err := s.storage.GetGame(s.ctx, "GAME1")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestListGames() {
	s.Require().NoError(s.storage.SaveGame(s.ctx, &model.Game{ID: "GAME1"}))
	s.Require().NoError(s.storage.SaveGame(s.ctx, &model.Game{ID: "GAME2"}))

	games, err := s.storage.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Len(games, 2)
}
