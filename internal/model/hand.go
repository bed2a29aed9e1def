package model

// Slot is one card in a hand together with what its holder knows about it
type Slot struct {
	Card      Card      `json:"card"`
	Knowledge Knowledge `json:"knowledge"`
}

// Hand is one player's cards in slot order. Slot indices are 1-based at the
// API surface; removing a card shifts later cards left and draws append at
// the right.
type Hand struct {
	Player PlayerID `json:"player"`
	Slots  []Slot   `json:"slots"`
}

// Clone returns a deep copy of the hand
func (h *Hand) Clone() Hand {
	out := *h
	out.Slots = make([]Slot, len(h.Slots))
	for i := range h.Slots {
		out.Slots[i] = Slot{
			Card:      h.Slots[i].Card,
			Knowledge: h.Slots[i].Knowledge.Clone(),
		}
	}
	return out
}

// Remove takes the card out of the given 1-based slot
func (h *Hand) Remove(slot int) (Card, error) {
	if slot < 1 || slot > len(h.Slots) {
		return Card{}, ErrNoSuchSlot
	}
	card := h.Slots[slot-1].Card
	h.Slots = append(h.Slots[:slot-1], h.Slots[slot:]...)
	return card, nil
}

// Append adds a freshly drawn card, with empty knowledge, as the newest slot
func (h *Hand) Append(card Card) {
	h.Slots = append(h.Slots, Slot{Card: card})
}

// MatchingSlots returns the 1-based slots the clue would touch
func (h *Hand) MatchingSlots(clue Clue) []int {
	var slots []int
	for i := range h.Slots {
		if clue.Matches(h.Slots[i].Card) {
			slots = append(slots, i+1)
		}
	}
	return slots
}

// ApplyClue records the clue against every card in the hand: positive facts
// on the cards it touches, exclusions on the rest. Clues that touch nothing
// are rejected without changing any knowledge.
func (h *Hand) ApplyClue(giver PlayerID, clue Clue) ([]int, error) {
	slots := h.MatchingSlots(clue)
	if len(slots) == 0 {
		return nil, ErrNoMatchingCards
	}

	for i := range h.Slots {
		s := &h.Slots[i]
		touched := clue.Matches(s.Card)
		if clue.IsColor() {
			if touched {
				s.Knowledge.MarkColor(clue.Color)
			} else {
				s.Knowledge.ExcludeColor(clue.Color)
			}
		} else {
			if touched {
				s.Knowledge.MarkRank(clue.Rank)
			} else {
				s.Knowledge.ExcludeRank(clue.Rank)
			}
		}
		s.Knowledge.Record(giver, clue, touched)
	}

	return slots, nil
}
