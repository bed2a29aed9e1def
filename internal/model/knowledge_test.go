package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnowledgeAccumulates(t *testing.T) {
	var k Knowledge

	k.ExcludeColor(ColorRed)
	k.ExcludeColor(ColorRed) // idempotent
	k.ExcludeRank(1)
	assert.Equal(t, []Color{ColorRed}, k.NotColors)
	assert.Equal(t, []Rank{1}, k.NotRanks)

	k.MarkColor(ColorBlue)
	k.MarkRank(3)
	assert.True(t, k.KnownColor())
	assert.True(t, k.KnownRank())

	// Exclusions are no-ops once the value is known
	k.ExcludeColor(ColorGreen)
	k.ExcludeRank(2)
	assert.Equal(t, []Color{ColorRed}, k.NotColors)
	assert.Equal(t, []Rank{1}, k.NotRanks)
}

func TestSummaryFromPositiveFacts(t *testing.T) {
	var k Knowledge
	k.MarkColor(ColorYellow)

	s := k.Summary()
	require.NotNil(t, s.Color)
	assert.Equal(t, ColorYellow, *s.Color)
	assert.Nil(t, s.Rank)
	assert.Equal(t, []Color{ColorYellow}, s.PossibleColors)
	assert.Len(t, s.PossibleRanks, 5)
	assert.False(t, s.Exact)

	k.MarkRank(2)
	s = k.Summary()
	require.NotNil(t, s.Rank)
	assert.Equal(t, Rank(2), *s.Rank)
	assert.True(t, s.Exact)
}

func TestSummaryDerivesValueFromExclusions(t *testing.T) {
	var k Knowledge
	for _, c := range []Color{ColorRed, ColorGreen, ColorWhite, ColorBlue} {
		k.ExcludeColor(c)
	}

	s := k.Summary()
	require.NotNil(t, s.Color)
	assert.Equal(t, ColorYellow, *s.Color)
	assert.Equal(t, []Color{ColorYellow}, s.PossibleColors)
}

func TestSummaryNarrowsPossibles(t *testing.T) {
	var k Knowledge
	k.ExcludeRank(1)
	k.ExcludeRank(5)

	s := k.Summary()
	assert.Nil(t, s.Rank)
	assert.Equal(t, []Rank{2, 3, 4}, s.PossibleRanks)
}

func TestRecordKeepsHistoryInOrder(t *testing.T) {
	var k Knowledge
	k.Record("alice", ColorClue(ColorRed), true)
	k.Record("bob", RankClue(2), false)

	require.Len(t, k.History, 2)
	assert.Equal(t, PlayerID("alice"), k.History[0].Giver)
	assert.True(t, k.History[0].Touched)
	assert.Equal(t, PlayerID("bob"), k.History[1].Giver)
	assert.False(t, k.History[1].Touched)
}
