package game

import (
	"encoding/json"
	"testing"

	"github.com/lox/lastcard/internal/deck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRestoreResumesMatch(t *testing.T) {
	t.Parallel()

	e := newScriptedEngine(t, 2, 2, "R+2 R1 B+2 B3 G2 G3 R5 Y1 Y2 Y3 Y4 Y5 Y6")
	_, err := e.AttemptPlay(0, deck.NoColor)
	require.NoError(t, err)

	data, err := json.Marshal(e.Snapshot())
	require.NoError(t, err)

	var state State
	require.NoError(t, json.Unmarshal(data, &state))
	restored, err := Restore(state, WithSeed(9), WithLogger(quietLogger()))
	require.NoError(t, err)

	assert.Equal(t, 13, state.CardTotal)
	assert.Equal(t, e.ID(), restored.ID())
	assert.Equal(t, e.Round(), restored.Round())
	assert.Equal(t, e.Match(), restored.Match())
	require.NoError(t, restored.ValidateCardConservation())

	// the restored engine keeps playing from the same position
	v, err := restored.AttemptPlay(0, deck.NoColor)
	require.NoError(t, err)
	assert.Equal(t, 4, v.PendingDraw)

	// and the original is unaffected
	assert.Equal(t, 2, e.PendingDraw())
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	t.Parallel()

	e := newScriptedEngine(t, 1, 2, "R1 R2 B3 B4 R5 G6 G7")
	state := e.Snapshot()
	state.Round.Players[0].Hand = nil
	state.Round.Deck = nil

	assert.Len(t, mustHand(t, e, HumanID), 2)
	assert.Equal(t, 2, e.Round().DeckSize)
}

func TestStateValidate(t *testing.T) {
	t.Parallel()

	valid := func() State {
		e := newScriptedEngine(t, 1, 2, "R1 R2 B3 B4 R5 G6 G7")
		return e.Snapshot()
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*State)
	}{
		{name: "version", mutate: func(s *State) { s.Version = 99 }},
		{name: "match id", mutate: func(s *State) { s.MatchID = "" }},
		{name: "hand size", mutate: func(s *State) { s.HandSize = 0 }},
		{name: "target", mutate: func(s *State) { s.Match.TargetScore = 0 }},
		{name: "nil round", mutate: func(s *State) { s.Round = nil }},
		{name: "current seat", mutate: func(s *State) { s.Round.Current = 5 }},
		{name: "direction", mutate: func(s *State) { s.Round.Direction = 0 }},
		{name: "empty discard", mutate: func(s *State) { s.Round.Discard = nil }},
		{name: "pending without penalty card", mutate: func(s *State) { s.Round.PendingDraw = 2 }},
		{name: "duplicate card", mutate: func(s *State) {
			s.Round.Deck = append(s.Round.Deck, s.Round.Players[0].Hand[0])
		}},
		{name: "missing card", mutate: func(s *State) {
			s.Round.Deck = s.Round.Deck[1:]
		}},
		{name: "card total", mutate: func(s *State) { s.CardTotal = 0 }},
		{name: "invalid card", mutate: func(s *State) {
			s.Round.Deck[0].Value = 12
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			assert.Error(t, s.Validate())

			_, err := Restore(s)
			assert.Error(t, err)
		})
	}
}
