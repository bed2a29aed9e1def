package deck

import (
	"github.com/fireworks-games/hanabot/internal/dependencies/random"
	"github.com/fireworks-games/hanabot/internal/model"
)

// Service builds, shuffles, and deals decks
type Service struct {
	random random.Random
}

// New creates a new deck Service
func New(random random.Random) *Service {
	return &Service{random: random}
}

// Build returns the full 50-card deck in deterministic order: colors in
// ColorOrder, ranks ascending with their fixed copy counts.
func (s *Service) Build() []model.Card {
	cards := make([]model.Card, 0, model.DeckSize)
	for _, color := range model.ColorOrder {
		for r := model.Rank(1); r <= model.MaxRank; r++ {
			for i := 0; i < model.RankCopies[r]; i++ {
				cards = append(cards, model.Card{Color: color, Rank: r})
			}
		}
	}
	return cards
}

// Shuffle permutes the deck in place
func (s *Service) Shuffle(cards []model.Card) {
	s.random.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// HandSize returns the number of cards dealt per player: 5 for 2-3 players,
// 4 for 4-5
func HandSize(numPlayers int) (int, error) {
	switch numPlayers {
	case 2, 3:
		return 5, nil
	case 4, 5:
		return 4, nil
	default:
		return 0, model.ErrInvalidPlayerCount
	}
}

// Deal removes the opening hands from the front of the deck, one hand at a
// time. It returns the hands in seat order and the remaining draw pile.
func (s *Service) Deal(cards []model.Card, numPlayers int) ([][]model.Card, []model.Card, error) {
	size, err := HandSize(numPlayers)
	if err != nil {
		return nil, nil, err
	}

	hands := make([][]model.Card, numPlayers)
	for i := 0; i < numPlayers; i++ {
		hands[i] = append([]model.Card(nil), cards[:size]...)
		cards = cards[size:]
	}
	return hands, cards, nil
}
