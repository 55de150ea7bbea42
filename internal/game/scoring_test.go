package game

import (
	"testing"

	"github.com/lox/lastcard/internal/deck"
	"github.com/stretchr/testify/assert"
)

func TestScoreHand(t *testing.T) {
	t.Parallel()

	players := []*Player{
		{ID: "0", Hand: nil},
		{ID: "1", Hand: deck.MustParseCards("B7 W")},
		{ID: "2", Hand: deck.MustParseCards("GS")},
	}
	assert.Equal(t, 77, ScoreHand(players, "0"))

	// the winner's own cards never count
	assert.Equal(t, 20, ScoreHand(players, "1"))
}

func TestApplyHandResultDoesNotMutate(t *testing.T) {
	t.Parallel()

	m := NewMatchState(100)
	next := m.ApplyHandResult("1", 60)

	assert.Equal(t, 1, m.HandNumber)
	assert.Empty(t, m.TotalScores)

	assert.Equal(t, 2, next.HandNumber)
	assert.Equal(t, 60, next.TotalScores["1"])
	assert.Equal(t, 60, next.CurrentHandScores["1"])
	assert.False(t, next.IsMatchOver())

	last := next.ApplyHandResult("1", 40)
	assert.Equal(t, 100, last.TotalScores["1"])
	assert.Equal(t, 40, last.CurrentHandScores["1"])
	assert.True(t, last.IsMatchOver())
}

func TestMatchLeader(t *testing.T) {
	t.Parallel()

	m := NewMatchState(500)
	id, score := m.Leader()
	assert.Empty(t, id)
	assert.Zero(t, score)

	m = m.ApplyHandResult("2", 30).ApplyHandResult("1", 30)
	id, score = m.Leader()
	assert.Equal(t, "1", id, "ties go to the lowest id")
	assert.Equal(t, 30, score)
}
