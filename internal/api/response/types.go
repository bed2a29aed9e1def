package response

import (
	"github.com/fireworks-games/hanabot/internal/model"
	"github.com/fireworks-games/hanabot/internal/services/auth"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsGuest:     p.IsGuest,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
	}
}

// Lobby represents the waiting room in API responses
type Lobby struct {
	Waiting []string          `json:"waiting"`
	Seated  map[string]string `json:"seated"`
}

// LobbyFromModel converts a model.Lobby
func LobbyFromModel(l *model.Lobby) Lobby {
	waiting := make([]string, len(l.Waiting))
	for i, p := range l.Waiting {
		waiting[i] = string(p)
	}
	seated := make(map[string]string, len(l.Seated))
	for p, g := range l.Seated {
		seated[string(p)] = string(g)
	}
	return Lobby{Waiting: waiting, Seated: seated}
}

// GameStarted is the response when a game is formed
type GameStarted struct {
	GameID  string   `json:"game_id"`
	Players []string `json:"players"` // Seat order
	First   string   `json:"first"`
}

// GameStartedFromModel converts a freshly created game
func GameStartedFromModel(g *model.Game) GameStarted {
	players := make([]string, len(g.Players))
	for i, p := range g.Players {
		players[i] = string(p)
	}
	return GameStarted{
		GameID:  string(g.ID),
		Players: players,
		First:   string(g.CurrentPlayer()),
	}
}

// GameView is a player's projection of their game. The observable state
// already hides the observer's own cards, so it passes through as-is.
type GameView struct {
	*model.ObservableState
}

// Discards is the per-color discard pile summary
type Discards struct {
	ByColor map[model.Color][]model.Rank `json:"by_color"`
}

// DeckInfo reports the remaining draw pile and final lap state
type DeckInfo struct {
	Remaining int  `json:"remaining"`
	FinalLap  bool `json:"final_lap"`
	TurnsLeft *int `json:"turns_left,omitempty"`
}
