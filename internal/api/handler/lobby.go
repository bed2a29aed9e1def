package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/fireworks-games/hanabot/internal/api/apierr"
	"github.com/fireworks-games/hanabot/internal/api/middleware"
	"github.com/fireworks-games/hanabot/internal/api/request"
	"github.com/fireworks-games/hanabot/internal/api/response"
	"github.com/fireworks-games/hanabot/internal/services/lobby"
)

// LobbyHandler handles the waiting room endpoints
type LobbyHandler struct {
	lobbyController *lobby.Controller
}

// NewLobbyHandler creates a new lobby handler
func NewLobbyHandler(lobbyController *lobby.Controller) *LobbyHandler {
	return &LobbyHandler{
		lobbyController: lobbyController,
	}
}

// Get handles GET /api/v1/lobby
func (h *LobbyHandler) Get(w http.ResponseWriter, r *http.Request) {
	l, err := h.lobbyController.GetLobby(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.LobbyFromModel(l))
}

// Join handles POST /api/v1/lobby/join
func (h *LobbyHandler) Join(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	l, err := h.lobbyController.Join(r.Context(), player.ID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.LobbyFromModel(l))
}

// Leave handles POST /api/v1/lobby/leave
func (h *LobbyHandler) Leave(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	l, err := h.lobbyController.Leave(r.Context(), player.ID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.LobbyFromModel(l))
}

// Start handles POST /api/v1/lobby/start
func (h *LobbyHandler) Start(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	// The body and the count are both optional: no count means "as many
	// waiting players as fit"
	var req request.StartGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	game, err := h.lobbyController.Start(r.Context(), player.ID, req.NumPlayers)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.GameStartedFromModel(game))
}
