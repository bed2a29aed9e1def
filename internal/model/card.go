package model

import "fmt"

// Color is one of the five card colors
type Color string

const (
	ColorRed    Color = "red"
	ColorGreen  Color = "green"
	ColorWhite  Color = "white"
	ColorBlue   Color = "blue"
	ColorYellow Color = "yellow"
)

// ColorOrder fixes the canonical color ordering used for deck construction
// and display
var ColorOrder = []Color{ColorRed, ColorGreen, ColorWhite, ColorBlue, ColorYellow}

// Valid reports whether c is one of the five colors
func (c Color) Valid() bool {
	for _, known := range ColorOrder {
		if c == known {
			return true
		}
	}
	return false
}

// Rank is a card rank, 1 through 5
type Rank int

// MaxRank is the highest rank; playing it completes a stack
const MaxRank Rank = 5

// Valid reports whether r is in the playable range
func (r Rank) Valid() bool {
	return r >= 1 && r <= MaxRank
}

// RankCopies gives the number of copies of each rank per color
var RankCopies = map[Rank]int{1: 3, 2: 2, 3: 2, 4: 2, 5: 1}

// DeckSize is the total card count: five colors times ten cards each
const DeckSize = 50

// Card is a single physical card
type Card struct {
	Color Color `json:"color"`
	Rank  Rank  `json:"rank"`
}

func (c Card) String() string {
	return fmt.Sprintf("%s %d", c.Color, c.Rank)
}

// Clue is a color or rank hint. Exactly one of Color and Rank is set.
type Clue struct {
	Color Color `json:"color,omitempty"`
	Rank  Rank  `json:"rank,omitempty"`
}

// ColorClue builds a color hint
func ColorClue(c Color) Clue {
	return Clue{Color: c}
}

// RankClue builds a rank hint
func RankClue(r Rank) Clue {
	return Clue{Rank: r}
}

// IsColor reports whether the clue hints a color rather than a rank
func (c Clue) IsColor() bool {
	return c.Color != ""
}

// Valid reports whether the clue carries exactly one well-formed hint
func (c Clue) Valid() bool {
	if c.IsColor() {
		return c.Color.Valid() && c.Rank == 0
	}
	return c.Rank.Valid()
}

// Matches reports whether the clue would touch the given card
func (c Clue) Matches(card Card) bool {
	if c.IsColor() {
		return card.Color == c.Color
	}
	return card.Rank == c.Rank
}

func (c Clue) String() string {
	if c.IsColor() {
		return string(c.Color)
	}
	return fmt.Sprintf("%d", c.Rank)
}
