package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	// Lobby events
	EventPlayerJoined EventType = "player_joined"
	EventPlayerLeft   EventType = "player_left"

	// Game events
	EventGameFormed     EventType = "game_formed"
	EventTurnAdvanced   EventType = "turn_advanced"
	EventCardPlayed     EventType = "card_played"
	EventCardDiscarded  EventType = "card_discarded"
	EventClueGiven      EventType = "clue_given"
	EventPlayerPinged   EventType = "player_pinged"
	EventGameUnwinnable EventType = "game_unwinnable"
	EventGameEnded      EventType = "game_ended"
)

// Event is the base structure for all events emitted by the engine after an
// accepted command
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	GameID    GameID    `json:"game_id,omitempty"` // Empty for lobby-only events
	PlayerID  PlayerID  `json:"player_id,omitempty"`
	Payload   any       `json:"payload,omitempty"`
}

// PlayerJoinedPayload contains data for player joined events
type PlayerJoinedPayload struct {
	PlayerID PlayerID `json:"player_id"`
	Waiting  int      `json:"waiting"`
}

// PlayerLeftPayload contains data for player left events
type PlayerLeftPayload struct {
	PlayerID PlayerID `json:"player_id"`
	Waiting  int      `json:"waiting"`
}

// GameFormedPayload contains data for game formed events
type GameFormedPayload struct {
	GameID   GameID     `json:"game_id"`
	Players  []PlayerID `json:"players"` // Seat order
	HandSize int        `json:"hand_size"`
}

// TurnAdvancedPayload contains data for turn advanced events
type TurnAdvancedPayload struct {
	Next      PlayerID `json:"next"`
	Clues     int      `json:"clues"`
	Bombs     int      `json:"bombs"`
	DeckCount int      `json:"deck_count"`
	FinalLap  bool     `json:"final_lap"`
}

// CardPlayedPayload contains data for card played events
type CardPlayedPayload struct {
	Player  PlayerID `json:"player"`
	Slot    int      `json:"slot"`
	Card    Card     `json:"card"`
	Success bool     `json:"success"` // false means the card was bombed to the discard pile
}

// CardDiscardedPayload contains data for card discarded events
type CardDiscardedPayload struct {
	Player PlayerID `json:"player"`
	Slot   int      `json:"slot"`
	Card   Card     `json:"card"`
}

// ClueGivenPayload contains data for clue given events
type ClueGivenPayload struct {
	Giver  PlayerID `json:"giver"`
	Target PlayerID `json:"target"`
	Clue   Clue     `json:"clue"`
	Slots  []int    `json:"slots"` // 1-based indices of matching cards
}

// PlayerPingedPayload contains data for player pinged events
type PlayerPingedPayload struct {
	By     PlayerID `json:"by"`
	Active PlayerID `json:"active"`
}

// GameUnwinnablePayload contains data for game unwinnable events
type GameUnwinnablePayload struct {
	MaxScore int `json:"max_score"`
}

// GameEndedPayload contains data for game ended events
type GameEndedPayload struct {
	Reason EndReason `json:"reason"`
	Score  int       `json:"score"`
}
