package model

// VisibleHand is another player's hand as seen by an observer: the true
// cards plus what that player themselves knows about them
type VisibleHand struct {
	Player PlayerID           `json:"player"`
	Cards  []Card             `json:"cards"`
	Known  []KnowledgeSummary `json:"known"`
}

// ObservableState is the projection of a Game onto one observer. The
// observer's own cards appear only as knowledge summaries; everyone else's
// appear in full. Hiding is done by construction, not access control.
type ObservableState struct {
	GameID   GameID     `json:"game_id"`
	Observer PlayerID   `json:"observer"`
	Status   GameStatus `json:"status"`

	Players []PlayerID `json:"players"` // Seat order
	Active  PlayerID   `json:"active"`

	Clues     int  `json:"clues"`
	Bombs     int  `json:"bombs"`
	DeckCount int  `json:"deck_count"`
	FinalLap  bool `json:"final_lap"`

	Stacks   map[Color]Rank   `json:"stacks"`
	Discards map[Color][]Rank `json:"discards"`
	Score    int              `json:"score"`

	// OwnHand is what the observer knows about their own cards, in slot order
	OwnHand []KnowledgeSummary `json:"own_hand"`

	// Others holds the remaining hands in play order starting after the
	// observer's seat
	Others []VisibleHand `json:"others"`
}

// Observe projects the game onto the given observer. Observers outside the
// game (or an empty observer) see every hand in full.
func (g *Game) Observe(observer PlayerID) *ObservableState {
	state := &ObservableState{
		GameID:    g.ID,
		Observer:  observer,
		Status:    g.Status,
		Players:   append([]PlayerID(nil), g.Players...),
		Active:    g.CurrentPlayer(),
		Clues:     g.Clues,
		Bombs:     g.Bombs,
		DeckCount: len(g.Deck),
		FinalLap:  g.TurnsLeft != nil,
		Stacks:    make(map[Color]Rank, len(g.Stacks)),
		Discards:  g.DiscardsByColor(),
		Score:     g.Score(),
	}
	for c, r := range g.Stacks {
		state.Stacks[c] = r
	}

	seat := g.Seat(observer)
	if seat >= 0 {
		own := &g.Hands[seat]
		state.OwnHand = make([]KnowledgeSummary, len(own.Slots))
		for i := range own.Slots {
			state.OwnHand[i] = own.Slots[i].Knowledge.Summary()
		}
	}

	start := 0
	if seat >= 0 {
		start = seat + 1
	}
	for i := 0; i < len(g.Hands); i++ {
		idx := (start + i) % len(g.Hands)
		if idx == seat {
			continue
		}
		hand := &g.Hands[idx]
		visible := VisibleHand{
			Player: hand.Player,
			Cards:  make([]Card, len(hand.Slots)),
			Known:  make([]KnowledgeSummary, len(hand.Slots)),
		}
		for j := range hand.Slots {
			visible.Cards[j] = hand.Slots[j].Card
			visible.Known[j] = hand.Slots[j].Knowledge.Summary()
		}
		state.Others = append(state.Others, visible)
	}

	return state
}
