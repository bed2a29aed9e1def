package model

import "time"

// Lobby is the single waiting room: players queue here until a game is
// started, and the Seated map tracks which game each playing member is in.
// A player is in at most one of the two at any time.
type Lobby struct {
	// Waiting players in join order; the front has waited longest
	Waiting []PlayerID `json:"waiting"`

	// Seated maps each playing member to their active game
	Seated map[PlayerID]GameID `json:"seated"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewLobby returns an empty lobby
func NewLobby() *Lobby {
	return &Lobby{
		Waiting: []PlayerID{},
		Seated:  make(map[PlayerID]GameID),
	}
}

// Clone returns a deep copy that is safe to read while the original is
// being mutated under the lobby mutex
func (l *Lobby) Clone() *Lobby {
	out := *l
	out.Waiting = append([]PlayerID{}, l.Waiting...)
	out.Seated = make(map[PlayerID]GameID, len(l.Seated))
	for p, g := range l.Seated {
		out.Seated[p] = g
	}
	return &out
}

// IsWaiting reports whether the player is in the waiting queue
func (l *Lobby) IsWaiting(p PlayerID) bool {
	for _, id := range l.Waiting {
		if id == p {
			return true
		}
	}
	return false
}

// GameFor returns the game the player is seated in, if any
func (l *Lobby) GameFor(p PlayerID) (GameID, bool) {
	id, ok := l.Seated[p]
	return id, ok
}

// RemoveWaiting takes the player out of the waiting queue, reporting
// whether they were in it
func (l *Lobby) RemoveWaiting(p PlayerID) bool {
	for i, id := range l.Waiting {
		if id == p {
			l.Waiting = append(l.Waiting[:i], l.Waiting[i+1:]...)
			return true
		}
	}
	return false
}
