package model

// GivenClue records one clue as it touched (or skipped) a card, oldest first
type GivenClue struct {
	Giver   PlayerID `json:"giver"`
	Clue    Clue     `json:"clue"`
	Touched bool     `json:"touched"`
}

// Knowledge accumulates what a card's holder has learned about it. Facts are
// only ever added, never retracted: once a color or rank is known it stays
// known for the life of the card.
type Knowledge struct {
	// Color and Rank are the positively known values, empty/zero if unknown
	Color Color `json:"color,omitempty"`
	Rank  Rank  `json:"rank,omitempty"`

	// NotColors and NotRanks are values ruled out by clues that skipped
	// this card
	NotColors []Color `json:"not_colors,omitempty"`
	NotRanks  []Rank  `json:"not_ranks,omitempty"`

	// History lists every clue given while this card was in hand
	History []GivenClue `json:"history,omitempty"`
}

// Clone returns a deep copy of the knowledge record
func (k *Knowledge) Clone() Knowledge {
	out := *k
	out.NotColors = append([]Color(nil), k.NotColors...)
	out.NotRanks = append([]Rank(nil), k.NotRanks...)
	out.History = append([]GivenClue(nil), k.History...)
	return out
}

// KnownColor reports whether the color is positively known
func (k *Knowledge) KnownColor() bool {
	return k.Color != ""
}

// KnownRank reports whether the rank is positively known
func (k *Knowledge) KnownRank() bool {
	return k.Rank != 0
}

// MarkColor records a positive color fact. Idempotent.
func (k *Knowledge) MarkColor(c Color) {
	k.Color = c
}

// MarkRank records a positive rank fact. Idempotent.
func (k *Knowledge) MarkRank(r Rank) {
	k.Rank = r
}

// ExcludeColor rules out a color. Idempotent, and a no-op once the actual
// color is known.
func (k *Knowledge) ExcludeColor(c Color) {
	if k.KnownColor() {
		return
	}
	for _, existing := range k.NotColors {
		if existing == c {
			return
		}
	}
	k.NotColors = append(k.NotColors, c)
}

// ExcludeRank rules out a rank. Idempotent, and a no-op once the actual rank
// is known.
func (k *Knowledge) ExcludeRank(r Rank) {
	if k.KnownRank() {
		return
	}
	for _, existing := range k.NotRanks {
		if existing == r {
			return
		}
	}
	k.NotRanks = append(k.NotRanks, r)
}

// Record appends a clue to the card's history
func (k *Knowledge) Record(giver PlayerID, clue Clue, touched bool) {
	k.History = append(k.History, GivenClue{Giver: giver, Clue: clue, Touched: touched})
}

// KnowledgeSummary is the derived, player-facing view of a card's knowledge
type KnowledgeSummary struct {
	// Color and Rank are set when positively known
	Color *Color `json:"color,omitempty"`
	Rank  *Rank  `json:"rank,omitempty"`

	// PossibleColors and PossibleRanks list what has not been ruled out
	PossibleColors []Color `json:"possible_colors"`
	PossibleRanks  []Rank  `json:"possible_ranks"`

	// Exact means both color and rank are pinned down
	Exact bool `json:"exact"`
}

// Summary derives the player-facing view: positive facts pin the value,
// otherwise exclusions narrow the candidate set.
func (k *Knowledge) Summary() KnowledgeSummary {
	var s KnowledgeSummary

	if k.KnownColor() {
		c := k.Color
		s.Color = &c
		s.PossibleColors = []Color{c}
	} else {
		for _, c := range ColorOrder {
			if !k.colorExcluded(c) {
				s.PossibleColors = append(s.PossibleColors, c)
			}
		}
		if len(s.PossibleColors) == 1 {
			c := s.PossibleColors[0]
			s.Color = &c
		}
	}

	if k.KnownRank() {
		r := k.Rank
		s.Rank = &r
		s.PossibleRanks = []Rank{r}
	} else {
		for r := Rank(1); r <= MaxRank; r++ {
			if !k.rankExcluded(r) {
				s.PossibleRanks = append(s.PossibleRanks, r)
			}
		}
		if len(s.PossibleRanks) == 1 {
			r := s.PossibleRanks[0]
			s.Rank = &r
		}
	}

	s.Exact = s.Color != nil && s.Rank != nil
	return s
}

func (k *Knowledge) colorExcluded(c Color) bool {
	for _, excluded := range k.NotColors {
		if excluded == c {
			return true
		}
	}
	return false
}

func (k *Knowledge) rankExcluded(r Rank) bool {
	for _, excluded := range k.NotRanks {
		if excluded == r {
			return true
		}
	}
	return false
}
