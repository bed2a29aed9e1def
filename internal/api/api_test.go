package api_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fireworks-games/hanabot/internal/api"
	"github.com/fireworks-games/hanabot/internal/api/response"
	"github.com/fireworks-games/hanabot/internal/factory"
	"github.com/fireworks-games/hanabot/internal/model"
)

// testServer routes requests through the full router with real dependencies
type testServer struct {
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		AuthService:     app.AuthService,
		LobbyController: app.LobbyController,
		GameController:  app.GameController,
		Hubs:            app.HubManager,
	})

	return &testServer{handler: router}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestCreateGuestPlayer(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{"display_name": "Alice"}
	rr := ts.request(http.MethodPost, "/api/v1/players/guest", body, "")

	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp response.AuthResponse
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)

	assert.Equal(t, "Alice", resp.Player.DisplayName)
	assert.True(t, resp.Player.IsGuest)
	assert.NotEmpty(t, resp.SessionToken)
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	// Register
	registerBody := map[string]string{
		"username":     "alice",
		"password":     "secret123",
		"display_name": "Alice",
	}
	rr := ts.request(http.MethodPost, "/api/v1/players/register", registerBody, "")
	assert.Equal(t, http.StatusCreated, rr.Code)

	var registerResp response.AuthResponse
	err := json.Unmarshal(rr.Body.Bytes(), &registerResp)
	require.NoError(t, err)
	assert.False(t, registerResp.Player.IsGuest)

	// Login
	loginBody := map[string]string{
		"username": "alice",
		"password": "secret123",
	}
	rr = ts.request(http.MethodPost, "/api/v1/players/login", loginBody, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var loginResp response.AuthResponse
	err = json.Unmarshal(rr.Body.Bytes(), &loginResp)
	require.NoError(t, err)
	assert.Equal(t, registerResp.Player.ID, loginResp.Player.ID)
}

func TestGetMe(t *testing.T) {
	ts := newTestServer(t)

	token := createGuestPlayer(t, ts, "Bob")

	rr := ts.request(http.MethodGet, "/api/v1/players/me", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var meResp response.Player
	err := json.Unmarshal(rr.Body.Bytes(), &meResp)
	require.NoError(t, err)
	assert.Equal(t, "Bob", meResp.DisplayName)
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	ts := newTestServer(t)

	// Try to get /me without token
	rr := ts.request(http.MethodGet, "/api/v1/players/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Try to join the lobby without token
	rr = ts.request(http.MethodPost, "/api/v1/lobby/join", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestJoinAndLeaveLobby(t *testing.T) {
	ts := newTestServer(t)

	token1 := createGuestPlayer(t, ts, "Alice")
	token2 := createGuestPlayer(t, ts, "Bob")

	rr := ts.request(http.MethodPost, "/api/v1/lobby/join", nil, token1)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/lobby/join", nil, token2)
	assert.Equal(t, http.StatusOK, rr.Code)

	var lobbyResp response.Lobby
	err := json.Unmarshal(rr.Body.Bytes(), &lobbyResp)
	require.NoError(t, err)
	assert.Len(t, lobbyResp.Waiting, 2)

	// Bob leaves again
	rr = ts.request(http.MethodPost, "/api/v1/lobby/leave", nil, token2)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/lobby", nil, token1)
	assert.Equal(t, http.StatusOK, rr.Code)
	err = json.Unmarshal(rr.Body.Bytes(), &lobbyResp)
	require.NoError(t, err)
	assert.Len(t, lobbyResp.Waiting, 1)
}

func TestStartGameRequiresEnoughPlayers(t *testing.T) {
	ts := newTestServer(t)

	token := createGuestPlayer(t, ts, "Alice")

	rr := ts.request(http.MethodPost, "/api/v1/lobby/join", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	body := map[string]int{"num_players": 2}
	rr = ts.request(http.MethodPost, "/api/v1/lobby/start", body, token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "INSUFFICIENT_PLAYERS")
}

func TestStartGameWithoutCountSeatsEveryoneWaiting(t *testing.T) {
	ts := newTestServer(t)

	tokens := []string{
		createGuestPlayer(t, ts, "Alice"),
		createGuestPlayer(t, ts, "Bob"),
		createGuestPlayer(t, ts, "Carol"),
	}
	for _, token := range tokens {
		rr := ts.request(http.MethodPost, "/api/v1/lobby/join", nil, token)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	// No count in the body: the game seats everyone waiting
	rr := ts.request(http.MethodPost, "/api/v1/lobby/start", nil, tokens[0])
	require.Equal(t, http.StatusCreated, rr.Code)

	var started response.GameStarted
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &started))
	assert.Len(t, started.Players, 3)
}

func TestGameFlow(t *testing.T) {
	ts := newTestServer(t)

	token1 := createGuestPlayer(t, ts, "Alice")
	token2 := createGuestPlayer(t, ts, "Bob")
	_, view1 := startTwoPlayerGame(t, ts, token1, token2)

	// Alice sees Bob's cards but only knowledge about her own
	assert.Len(t, view1.OwnHand, 5)
	require.Len(t, view1.Others, 1)
	assert.Len(t, view1.Others[0].Cards, 5)
	assert.Equal(t, 8, view1.Clues)
	assert.Equal(t, 40, view1.DeckCount)

	// Discarding at the clue cap is rejected
	activeToken := tokenFor(view1, token1, token2)
	rr := ts.request(http.MethodPost, "/api/v1/game/discard", map[string]int{"slot": 1}, activeToken)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "MAX_CLUES")

	// Moving out of turn is forbidden
	idleToken := token1
	if activeToken == token1 {
		idleToken = token2
	}
	rr = ts.request(http.MethodPost, "/api/v1/game/play", map[string]int{"slot": 1}, idleToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "NOT_YOUR_TURN")

	// A clue on a rank visible in the other hand always lands
	activeView := view1
	if activeToken == token2 {
		activeView = getGameView(t, ts, token2)
	}
	clueBody := map[string]any{
		"target": activeView.Others[0].Player,
		"rank":   activeView.Others[0].Cards[0].Rank,
	}
	rr = ts.request(http.MethodPost, "/api/v1/game/clue", clueBody, activeToken)
	assert.Equal(t, http.StatusOK, rr.Code)

	var afterClue model.ObservableState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &afterClue))
	assert.Equal(t, 7, afterClue.Clues)

	// The new active player can always play a slot, legally or not
	rr = ts.request(http.MethodPost, "/api/v1/game/play", map[string]int{"slot": 1}, tokenFor(&afterClue, token1, token2))
	assert.Equal(t, http.StatusOK, rr.Code)

	var afterPlay model.ObservableState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &afterPlay))
	assert.Equal(t, 39, afterPlay.DeckCount)
	// The played card landed on a stack or in the discards; a fresh card
	// was drawn to replace it
	assert.Equal(t, 1, afterPlay.Score+len(collectDiscards(&afterPlay)))

	// Deck info reflects the draw
	rr = ts.request(http.MethodGet, "/api/v1/game/deck", nil, token1)
	assert.Equal(t, http.StatusOK, rr.Code)
	var deckResp response.DeckInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &deckResp))
	assert.Equal(t, 39, deckResp.Remaining)
	assert.False(t, deckResp.FinalLap)

	// Either player may ping the table
	rr = ts.request(http.MethodPost, "/api/v1/game/ping", nil, token2)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestQuitGame(t *testing.T) {
	ts := newTestServer(t)

	token1 := createGuestPlayer(t, ts, "Alice")
	token2 := createGuestPlayer(t, ts, "Bob")
	startTwoPlayerGame(t, ts, token1, token2)

	rr := ts.request(http.MethodPost, "/api/v1/game/quit", nil, token2)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	// The game is gone for both players
	rr = ts.request(http.MethodGet, "/api/v1/game", nil, token1)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "NOT_IN_GAME")

	// Everyone is back in the waiting queue
	rr = ts.request(http.MethodGet, "/api/v1/lobby", nil, token1)
	require.Equal(t, http.StatusOK, rr.Code)
	var lobbyResp response.Lobby
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &lobbyResp))
	assert.Len(t, lobbyResp.Waiting, 2)
	assert.Empty(t, lobbyResp.Seated)
}

func TestGameViewWithoutGame(t *testing.T) {
	ts := newTestServer(t)

	token := createGuestPlayer(t, ts, "Alice")

	rr := ts.request(http.MethodGet, "/api/v1/game", nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// Helper functions

func createGuestPlayer(t *testing.T, ts *testServer, displayName string) string {
	t.Helper()

	body := map[string]string{"display_name": displayName}
	rr := ts.request(http.MethodPost, "/api/v1/players/guest", body, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.AuthResponse
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)

	return resp.SessionToken
}

func startTwoPlayerGame(t *testing.T, ts *testServer, token1, token2 string) (response.GameStarted, *model.ObservableState) {
	t.Helper()

	for _, token := range []string{token1, token2} {
		rr := ts.request(http.MethodPost, "/api/v1/lobby/join", nil, token)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	body := map[string]int{"num_players": 2}
	rr := ts.request(http.MethodPost, "/api/v1/lobby/start", body, token1)
	require.Equal(t, http.StatusCreated, rr.Code)

	var started response.GameStarted
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &started))
	require.Len(t, started.Players, 2)

	return started, getGameView(t, ts, token1)
}

func getGameView(t *testing.T, ts *testServer, token string) *model.ObservableState {
	t.Helper()

	rr := ts.request(http.MethodGet, "/api/v1/game", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)

	var view model.ObservableState
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	return &view
}

// tokenFor maps the active seat back to its session token. The initiator
// always has the first seat.
func tokenFor(view *model.ObservableState, token1, token2 string) string {
	if view.Active == view.Players[0] {
		return token1
	}
	return token2
}

func collectDiscards(view *model.ObservableState) []model.Rank {
	var all []model.Rank
	for _, ranks := range view.Discards {
		all = append(all, ranks...)
	}
	return all
}
