package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GameStatus represents the current phase of a game
type GameStatus string

const (
	GameStatusForming    GameStatus = "forming"     // Players assigned, cards not yet dealt
	GameStatusInProgress GameStatus = "in_progress" // Accepting moves
	GameStatusWon        GameStatus = "won"         // All five stacks completed
	GameStatusCompleted  GameStatus = "completed"   // Deck ran out, final lap played to the end
	GameStatusLost       GameStatus = "lost"        // Bomb limit reached
	GameStatusAbandoned  GameStatus = "abandoned"   // Quit before a natural ending
)

// Terminal reports whether the game accepts no further moves
func (s GameStatus) Terminal() bool {
	switch s {
	case GameStatusWon, GameStatusCompleted, GameStatusLost, GameStatusAbandoned:
		return true
	}
	return false
}

// Rules holds the configurable rule parameters
type Rules struct {
	// ClueTokens is the starting and maximum clue token count
	ClueTokens int `json:"clue_tokens" yaml:"clue_tokens"`
	// BombTokens is the number of misplays that lose the game
	BombTokens int `json:"bomb_tokens" yaml:"bomb_tokens"`
	// StackBonus refunds a clue token when a stack is completed at rank 5
	StackBonus bool `json:"stack_bonus" yaml:"stack_bonus"`
	// FinalLap overrides the number of turns taken after the deck empties;
	// 0 means one turn per player
	FinalLap int `json:"final_lap" yaml:"final_lap"`
}

// DefaultRules returns the standard Hanabi rule parameters
func DefaultRules() Rules {
	return Rules{
		ClueTokens: 8,
		BombTokens: 3,
		StackBonus: true,
		FinalLap:   0,
	}
}

// Game is the authoritative, full-information state of one Hanabi game.
// Players must only ever see it through an ObservableState projection.
type Game struct {
	ID     GameID     `json:"id"`
	Status GameStatus `json:"status"`
	Rules  Rules      `json:"rules"`

	// Players in fixed seat order; Hands is parallel to it
	Players []PlayerID `json:"players"`
	Hands   []Hand     `json:"hands"`

	// Deck holds the remaining draw pile; the front card is drawn next
	Deck []Card `json:"deck"`

	// Discards is append-only: misplays and discards both land here
	Discards []Card `json:"discards"`

	// Stacks maps each color to the top rank played so far (absent = empty)
	Stacks map[Color]Rank `json:"stacks"`

	Clues int `json:"clues"`
	Bombs int `json:"bombs"`

	// Turn is the seat index of the active player
	Turn int `json:"turn"`

	// TurnsLeft counts down the final lap; nil until the deck empties
	TurnsLeft *int `json:"turns_left,omitempty"`

	// Unwinnable is set once a perfect score becomes impossible
	Unwinnable bool `json:"unwinnable"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy that is safe to read while the original is
// being mutated under the game lock
func (g *Game) Clone() *Game {
	out := *g
	out.Players = append([]PlayerID(nil), g.Players...)
	out.Hands = make([]Hand, len(g.Hands))
	for i := range g.Hands {
		out.Hands[i] = g.Hands[i].Clone()
	}
	out.Deck = append([]Card(nil), g.Deck...)
	out.Discards = append([]Card(nil), g.Discards...)
	out.Stacks = make(map[Color]Rank, len(g.Stacks))
	for c, r := range g.Stacks {
		out.Stacks[c] = r
	}
	if g.TurnsLeft != nil {
		left := *g.TurnsLeft
		out.TurnsLeft = &left
	}
	return &out
}

// CurrentPlayer returns the player whose turn it is
func (g *Game) CurrentPlayer() PlayerID {
	if len(g.Players) == 0 {
		return ""
	}
	return g.Players[g.Turn]
}

// Seat returns the seat index of a player, or -1 if they are not in the game
func (g *Game) Seat(p PlayerID) int {
	for i, id := range g.Players {
		if id == p {
			return i
		}
	}
	return -1
}

// HandOf returns the hand of a player, or nil if they are not in the game
func (g *Game) HandOf(p PlayerID) *Hand {
	if i := g.Seat(p); i >= 0 {
		return &g.Hands[i]
	}
	return nil
}

// StackTop returns the top rank of a color's stack, 0 when empty
func (g *Game) StackTop(c Color) Rank {
	return g.Stacks[c]
}

// Score is the sum of the top ranks of all stacks
func (g *Game) Score() int {
	score := 0
	for _, r := range g.Stacks {
		score += int(r)
	}
	return score
}

// PerfectScore is the score with every stack completed
const PerfectScore = int(MaxRank) * 5

// DeckCount returns the number of cards left to draw
func (g *Game) DeckCount() int {
	return len(g.Deck)
}

// CardCount totals the cards across deck, hands, discards, and stacks.
// It must equal DeckSize for every reachable state.
func (g *Game) CardCount() int {
	n := len(g.Deck) + len(g.Discards)
	for i := range g.Hands {
		n += len(g.Hands[i].Slots)
	}
	for _, r := range g.Stacks {
		n += int(r)
	}
	return n
}

// DiscardsByColor groups the discard pile per color with ranks sorted
// ascending, the form the discards query presents
func (g *Game) DiscardsByColor() map[Color][]Rank {
	out := make(map[Color][]Rank)
	for _, card := range g.Discards {
		ranks := out[card.Color]
		pos := len(ranks)
		for i, r := range ranks {
			if card.Rank < r {
				pos = i
				break
			}
		}
		ranks = append(ranks, 0)
		copy(ranks[pos+1:], ranks[pos:])
		ranks[pos] = card.Rank
		out[card.Color] = ranks
	}
	return out
}

// MaxAchievableScore computes the best score still reachable given what has
// been discarded: a color's stack is capped below the lowest not-yet-stacked
// rank whose copies are all in the discard pile.
func (g *Game) MaxAchievableScore() int {
	gone := make(map[Card]int)
	for _, card := range g.Discards {
		gone[card]++
	}

	total := 0
	for _, c := range ColorOrder {
		reachable := int(MaxRank)
		for r := g.StackTop(c) + 1; r <= MaxRank; r++ {
			if gone[Card{Color: c, Rank: r}] >= RankCopies[r] {
				reachable = int(r) - 1
				break
			}
		}
		total += reachable
	}
	return total
}

// EndReason explains how a game ended
type EndReason string

const (
	EndReasonWon       EndReason = "won"       // Perfect score
	EndReasonCompleted EndReason = "completed" // Final lap ran out
	EndReasonLost      EndReason = "lost"      // Bomb limit
	EndReasonAbandoned EndReason = "abandoned" // Explicit quit
)
