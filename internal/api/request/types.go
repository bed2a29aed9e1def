package request

// CreateGuestRequest is the request body for creating a guest player
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// StartGameRequest is the request body for forming a game from the lobby.
// A missing or zero NumPlayers seats everyone waiting, up to the game cap.
type StartGameRequest struct {
	NumPlayers int `json:"num_players"`
}

// PlayRequest is the request body for playing a card by slot
type PlayRequest struct {
	Slot int `json:"slot"`
}

// DiscardRequest is the request body for discarding a card by slot
type DiscardRequest struct {
	Slot int `json:"slot"`
}

// ClueRequest is the request body for giving a clue. Exactly one of Color
// and Rank must be set.
type ClueRequest struct {
	Target string `json:"target"`
	Color  string `json:"color,omitempty"`
	Rank   int    `json:"rank,omitempty"`
}
