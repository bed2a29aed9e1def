package factory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/fireworks-games/hanabot/internal/dependencies/mocks"
	"github.com/fireworks-games/hanabot/internal/model"
	"github.com/fireworks-games/hanabot/internal/services/auth"
	"github.com/fireworks-games/hanabot/internal/storage"
	"github.com/fireworks-games/hanabot/internal/storage/memory"
	"github.com/fireworks-games/hanabot/internal/testutil"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) createGuest(name string) model.PlayerID {
	session, err := s.app.AuthService.CreateGuestPlayer(s.ctx, name)
	s.Require().NoError(err)
	return session.PlayerID
}

// Test: full flow from guest creation through a lost game and back to the
// waiting queue. With shuffling mocked out the deal is deterministic: the
// first player holds red 1,1,1,2,2, the second red 3,3,4,4,5, and the draw
// pile continues with the green cards in ascending order.
func (s *IntegrationSuite) TestLobbyToFinishedGame() {
	alice := s.createGuest("Alice")
	bob := s.createGuest("Bob")

	// Both players queue up
	_, err := s.app.LobbyController.Join(s.ctx, alice)
	s.Require().NoError(err)
	lobbyState, err := s.app.LobbyController.Join(s.ctx, bob)
	s.Require().NoError(err)
	s.Len(lobbyState.Waiting, 2)

	// Alice starts a two-player game
	s.app.MockRandom.QueueString("GAME01")
	game, err := s.app.LobbyController.Start(s.ctx, alice, 2)
	s.Require().NoError(err)
	s.Equal(model.GameID("GAME01"), game.ID)
	s.Equal([]model.PlayerID{alice, bob}, game.Players)

	gameID, err := s.app.LobbyController.Resolve(s.ctx, alice)
	s.Require().NoError(err)
	s.Equal(game.ID, gameID)

	// Alice opens with her red 1
	game, err = s.app.GameController.Play(s.ctx, gameID, alice, 1)
	s.Require().NoError(err)
	s.Equal(model.Rank(1), game.StackTop(model.ColorRed))

	// Bob points out Alice's remaining ones (two red 1s plus the drawn
	// green 1)
	game, err = s.app.GameController.Clue(s.ctx, gameID, bob, alice, model.RankClue(1))
	s.Require().NoError(err)
	s.Equal(7, game.Clues)

	// Alice's own view now shows the touched ranks without the cards
	view, err := s.app.GameController.Observe(s.ctx, gameID, alice)
	s.Require().NoError(err)
	s.Require().NotNil(view.OwnHand[1].Rank)
	s.Equal(model.Rank(1), *view.OwnHand[1].Rank)
	s.Nil(view.OwnHand[2].Rank)
	s.Require().Len(view.Others, 1)
	s.Equal(bob, view.Others[0].Player)

	// Alice plays her red 2, Bob his red 3
	game, err = s.app.GameController.Play(s.ctx, gameID, alice, 3)
	s.Require().NoError(err)
	game, err = s.app.GameController.Play(s.ctx, gameID, bob, 1)
	s.Require().NoError(err)
	s.Equal(3, game.Score())

	// Alice discards a green 1 to buy the clue token back
	game, err = s.app.GameController.Discard(s.ctx, gameID, alice, 4)
	s.Require().NoError(err)
	s.Equal(8, game.Clues)

	// Three misplays in a row blow the game up
	game, err = s.app.GameController.Play(s.ctx, gameID, bob, 1) // second red 3
	s.Require().NoError(err)
	s.Equal(1, game.Bombs)
	game, err = s.app.GameController.Play(s.ctx, gameID, alice, 5) // green 2 on empty stack
	s.Require().NoError(err)
	s.Equal(2, game.Bombs)
	game, err = s.app.GameController.Play(s.ctx, gameID, bob, 3) // red 5 on a 3
	s.Require().NoError(err)
	s.Equal(3, game.Bombs)
	s.Equal(model.GameStatusLost, game.Status)
	s.Equal(3, game.Score())

	// The finished game released its players back into the waiting queue
	lobbyState, err = s.app.LobbyController.GetLobby(s.ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]model.PlayerID{alice, bob}, lobbyState.Waiting)
	s.Empty(lobbyState.Seated)

	// Moves against the dead game are rejected
	_, err = s.app.GameController.Play(s.ctx, gameID, alice, 1)
	s.ErrorIs(err, model.ErrGameFinished)
}

// slowSaveStorage stretches game saves so concurrent lobby and game
// operations overlap
type slowSaveStorage struct {
	storage.Storage
	delay time.Duration
}

func (s *slowSaveStorage) SaveGame(ctx context.Context, g *model.Game) error {
	time.Sleep(s.delay)
	return s.Storage.SaveGame(ctx, g)
}

// Test: a game ending naturally while another seat quits must not wedge the
// lobby. The quit path holds the lobby mutex and then wants the game lock;
// the ending move holds the game lock, so its seat release must only run
// after that lock is dropped.
func TestConcurrentQuitAndGameEnd(t *testing.T) {
	store := &slowSaveStorage{Storage: memory.New(), delay: 150 * time.Millisecond}
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	rnd := mocks.NewMockRandom()

	rules := model.DefaultRules()
	rules.BombTokens = 1 // first misplay ends the game

	app := newWithDependencies(store, clk, rnd, rules, auth.DefaultConfig(), testutil.NopLogger())
	ctx := context.Background()

	aliceSession, err := app.AuthService.CreateGuestPlayer(ctx, "Alice")
	require.NoError(t, err)
	bobSession, err := app.AuthService.CreateGuestPlayer(ctx, "Bob")
	require.NoError(t, err)
	alice, bob := aliceSession.PlayerID, bobSession.PlayerID

	_, err = app.LobbyController.Join(ctx, alice)
	require.NoError(t, err)
	_, err = app.LobbyController.Join(ctx, bob)
	require.NoError(t, err)

	rnd.QueueString("GAME03")
	g, err := app.LobbyController.Start(ctx, alice, 2)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var playErr, quitErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		// Red 2 on an empty stack: the misplay ends the game
		_, playErr = app.GameController.Play(ctx, g.ID, alice, 4)
	}()
	go func() {
		defer wg.Done()
		// Land inside the slowed game-ending save
		time.Sleep(50 * time.Millisecond)
		quitErr = app.LobbyController.Quit(ctx, bob)
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("concurrent quit and game-ending move never completed")
	}

	// Whichever side finished the game first, the other saw it already over
	if playErr != nil {
		assert.ErrorIs(t, playErr, model.ErrGameFinished)
	}
	if quitErr != nil {
		assert.ErrorIs(t, quitErr, model.ErrNotInGame)
	}

	stored, err := app.GameController.GetGame(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, stored.Status.Terminal())

	lobbyState, err := app.LobbyController.GetLobby(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []model.PlayerID{alice, bob}, lobbyState.Waiting)
	assert.Empty(t, lobbyState.Seated)
}

// Test: quitting mid-game abandons it and requeues every seat
func (s *IntegrationSuite) TestQuitAbandonsGame() {
	alice := s.createGuest("Alice")
	bob := s.createGuest("Bob")
	carol := s.createGuest("Carol")

	for _, id := range []model.PlayerID{alice, bob, carol} {
		_, err := s.app.LobbyController.Join(s.ctx, id)
		s.Require().NoError(err)
	}

	s.app.MockRandom.QueueString("GAME02")
	game, err := s.app.LobbyController.Start(s.ctx, alice, 3)
	s.Require().NoError(err)

	// One move, then Bob bails
	_, err = s.app.GameController.Play(s.ctx, game.ID, alice, 1)
	s.Require().NoError(err)
	s.Require().NoError(s.app.LobbyController.Quit(s.ctx, bob))

	stored, err := s.app.GameController.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStatusAbandoned, stored.Status)

	lobbyState, err := s.app.LobbyController.GetLobby(s.ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]model.PlayerID{alice, bob, carol}, lobbyState.Waiting)
	s.Empty(lobbyState.Seated)
}
