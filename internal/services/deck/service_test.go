package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fireworks-games/hanabot/internal/dependencies/mocks"
	"github.com/fireworks-games/hanabot/internal/model"
)

func TestBuild(t *testing.T) {
	s := New(mocks.NewMockRandom())

	cards := s.Build()
	require.Len(t, cards, model.DeckSize)

	counts := make(map[model.Card]int)
	for _, c := range cards {
		counts[c]++
	}
	for _, color := range model.ColorOrder {
		for r := model.Rank(1); r <= model.MaxRank; r++ {
			assert.Equal(t, model.RankCopies[r], counts[model.Card{Color: color, Rank: r}],
				"wrong copy count for %s %d", color, r)
		}
	}
}

func TestHandSize(t *testing.T) {
	for players, expected := range map[int]int{2: 5, 3: 5, 4: 4, 5: 4} {
		size, err := HandSize(players)
		require.NoError(t, err)
		assert.Equal(t, expected, size)
	}

	for _, players := range []int{0, 1, 6, -1} {
		_, err := HandSize(players)
		assert.ErrorIs(t, err, model.ErrInvalidPlayerCount)
	}
}

func TestDeal(t *testing.T) {
	s := New(mocks.NewMockRandom())
	cards := s.Build()

	hands, rest, err := s.Deal(cards, 3)
	require.NoError(t, err)
	require.Len(t, hands, 3)
	for _, h := range hands {
		assert.Len(t, h, 5)
	}
	assert.Len(t, rest, model.DeckSize-15)

	// Hands come off the front in order
	assert.Equal(t, cards[0], hands[0][0])
	assert.Equal(t, cards[5], hands[1][0])
	assert.Equal(t, cards[10], hands[2][0])
	assert.Equal(t, cards[15], rest[0])
}

func TestDealInvalidPlayerCount(t *testing.T) {
	s := New(mocks.NewMockRandom())
	_, _, err := s.Deal(s.Build(), 6)
	assert.ErrorIs(t, err, model.ErrInvalidPlayerCount)
}

func TestShuffleNoOpWithMockRandom(t *testing.T) {
	s := New(mocks.NewMockRandom())
	cards := s.Build()
	before := append([]model.Card(nil), cards...)
	s.Shuffle(cards)
	assert.Equal(t, before, cards)
}
