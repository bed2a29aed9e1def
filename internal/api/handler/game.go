package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fireworks-games/hanabot/internal/api/apierr"
	"github.com/fireworks-games/hanabot/internal/api/middleware"
	"github.com/fireworks-games/hanabot/internal/api/request"
	"github.com/fireworks-games/hanabot/internal/api/response"
	"github.com/fireworks-games/hanabot/internal/api/sse"
	"github.com/fireworks-games/hanabot/internal/model"
	"github.com/fireworks-games/hanabot/internal/services/game"
	"github.com/fireworks-games/hanabot/internal/services/lobby"
)

// GameHandler handles the endpoints for a player's current game
type GameHandler struct {
	lobbyController *lobby.Controller
	gameController  *game.Controller
	hubs            *sse.HubManager
}

// NewGameHandler creates a new game handler
func NewGameHandler(
	lobbyController *lobby.Controller,
	gameController *game.Controller,
	hubs *sse.HubManager,
) *GameHandler {
	return &GameHandler{
		lobbyController: lobbyController,
		gameController:  gameController,
		hubs:            hubs,
	}
}

// resolve finds the caller's current game
func (h *GameHandler) resolve(r *http.Request) (model.GameID, model.PlayerID, error) {
	player := middleware.MustGetPlayer(r.Context())
	gameID, err := h.lobbyController.Resolve(r.Context(), player.ID)
	if err != nil {
		return "", "", err
	}
	return gameID, player.ID, nil
}

// Get handles GET /api/v1/game: the caller's view of their current game
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	gameID, playerID, err := h.resolve(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	view, err := h.gameController.Observe(r.Context(), gameID, playerID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameView{ObservableState: view})
}

// Play handles POST /api/v1/game/play
func (h *GameHandler) Play(w http.ResponseWriter, r *http.Request) {
	gameID, playerID, err := h.resolve(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	var req request.PlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	g, err := h.gameController.Play(r.Context(), gameID, playerID, req.Slot)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameView{ObservableState: g.Observe(playerID)})
}

// Discard handles POST /api/v1/game/discard
func (h *GameHandler) Discard(w http.ResponseWriter, r *http.Request) {
	gameID, playerID, err := h.resolve(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	var req request.DiscardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	g, err := h.gameController.Discard(r.Context(), gameID, playerID, req.Slot)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameView{ObservableState: g.Observe(playerID)})
}

// Clue handles POST /api/v1/game/clue
func (h *GameHandler) Clue(w http.ResponseWriter, r *http.Request) {
	gameID, playerID, err := h.resolve(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	var req request.ClueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Target == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("target is required"))
		return
	}

	clue := model.Clue{Color: model.Color(req.Color), Rank: model.Rank(req.Rank)}
	g, err := h.gameController.Clue(r.Context(), gameID, playerID, model.PlayerID(req.Target), clue)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameView{ObservableState: g.Observe(playerID)})
}

// Ping handles POST /api/v1/game/ping
func (h *GameHandler) Ping(w http.ResponseWriter, r *http.Request) {
	gameID, playerID, err := h.resolve(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	if err := h.gameController.Ping(r.Context(), gameID, playerID); err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Quit handles POST /api/v1/game/quit
func (h *GameHandler) Quit(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	if err := h.lobbyController.Quit(r.Context(), player.ID); err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Discards handles GET /api/v1/game/discards
func (h *GameHandler) Discards(w http.ResponseWriter, r *http.Request) {
	gameID, _, err := h.resolve(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	g, err := h.gameController.GetGame(r.Context(), gameID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Discards{ByColor: g.DiscardsByColor()})
}

// Deck handles GET /api/v1/game/deck
func (h *GameHandler) Deck(w http.ResponseWriter, r *http.Request) {
	gameID, _, err := h.resolve(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	g, err := h.gameController.GetGame(r.Context(), gameID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.DeckInfo{
		Remaining: g.DeckCount(),
		FinalLap:  g.TurnsLeft != nil,
		TurnsLeft: g.TurnsLeft,
	})
}

// Events handles GET /api/v1/game/events: SSE stream of the caller's game
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	gameID, playerID, err := h.resolve(r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	sse.ServeSSE(w, r, h.hubs.GameHub(gameID), playerID)
}

// LobbyEvents handles GET /api/v1/lobby/events: SSE stream of lobby activity
func (h *GameHandler) LobbyEvents(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	sse.ServeSSE(w, r, h.hubs.LobbyHub(), player.ID)
}
