package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fireworks-games/hanabot/internal/api/handler"
	"github.com/fireworks-games/hanabot/internal/api/middleware"
	"github.com/fireworks-games/hanabot/internal/api/sse"
	"github.com/fireworks-games/hanabot/internal/services/auth"
	"github.com/fireworks-games/hanabot/internal/services/game"
	"github.com/fireworks-games/hanabot/internal/services/lobby"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	AuthService     *auth.Service
	LobbyController *lobby.Controller
	GameController  *game.Controller
	Hubs            *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	playerHandler := handler.NewPlayerHandler(cfg.AuthService)
	lobbyHandler := handler.NewLobbyHandler(cfg.LobbyController)
	gameHandler := handler.NewGameHandler(cfg.LobbyController, cfg.GameController, cfg.Hubs)

	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Player routes (no auth required for creating players/logging in)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)

	playerProtected := api.PathPrefix("/players").Subrouter()
	playerProtected.Use(authMiddleware)
	playerProtected.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)

	// Lobby routes (all require auth)
	lobbyRoutes := api.PathPrefix("/lobby").Subrouter()
	lobbyRoutes.Use(authMiddleware)
	lobbyRoutes.HandleFunc("", lobbyHandler.Get).Methods(http.MethodGet)
	lobbyRoutes.HandleFunc("/join", lobbyHandler.Join).Methods(http.MethodPost)
	lobbyRoutes.HandleFunc("/leave", lobbyHandler.Leave).Methods(http.MethodPost)
	lobbyRoutes.HandleFunc("/start", lobbyHandler.Start).Methods(http.MethodPost)
	lobbyRoutes.HandleFunc("/events", gameHandler.LobbyEvents).Methods(http.MethodGet)

	// Game routes address the caller's current game
	gameRoutes := api.PathPrefix("/game").Subrouter()
	gameRoutes.Use(authMiddleware)
	gameRoutes.HandleFunc("", gameHandler.Get).Methods(http.MethodGet)
	gameRoutes.HandleFunc("/play", gameHandler.Play).Methods(http.MethodPost)
	gameRoutes.HandleFunc("/discard", gameHandler.Discard).Methods(http.MethodPost)
	gameRoutes.HandleFunc("/clue", gameHandler.Clue).Methods(http.MethodPost)
	gameRoutes.HandleFunc("/ping", gameHandler.Ping).Methods(http.MethodPost)
	gameRoutes.HandleFunc("/quit", gameHandler.Quit).Methods(http.MethodPost)
	gameRoutes.HandleFunc("/discards", gameHandler.Discards).Methods(http.MethodGet)
	gameRoutes.HandleFunc("/deck", gameHandler.Deck).Methods(http.MethodGet)
	gameRoutes.HandleFunc("/events", gameHandler.Events).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
