package game

import (
	"testing"

	"github.com/lox/lastcard/internal/deck"
	"github.com/lox/lastcard/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartMatchDealsOpeningState(t *testing.T) {
	t.Parallel()

	e, err := StartMatch(3, WithSeed(42), WithLogger(quietLogger()))
	require.NoError(t, err)

	v := e.Round()
	assert.NotEmpty(t, v.MatchID)
	assert.Equal(t, e.ID(), v.MatchID)
	assert.Equal(t, int64(42), e.Seed())
	assert.Equal(t, 1, v.HandNumber)
	require.Len(t, v.Players, 4)
	for _, p := range v.Players {
		assert.Len(t, p.Hand, deck.DefaultHandSize)
	}
	assert.Equal(t, deck.Size-4*deck.DefaultHandSize-1, v.DeckSize)
	assert.Equal(t, 1, v.DiscardSize)
	assert.Equal(t, deck.Number, v.TopCard.Type)
	assert.Equal(t, v.TopCard.Color, v.ActiveColor)
	assert.Zero(t, v.PendingDraw)
	assert.Zero(t, v.Current)
	assert.Equal(t, Clockwise, v.Direction)
	assert.False(t, v.Over())
	require.NoError(t, e.ValidateCardConservation())

	assert.Equal(t, HumanID, v.Players[0].ID)
	assert.Equal(t, "Player 1", v.Players[0].Name)
	assert.False(t, v.Players[0].Automated)
	assert.Equal(t, "3", v.Players[3].ID)
	assert.Equal(t, "Bot 3", v.Players[3].Name)
	assert.True(t, v.Players[3].Automated)
}

func TestStartMatchIsDeterministicForSeed(t *testing.T) {
	t.Parallel()

	a, err := StartMatch(2, WithSeed(7))
	require.NoError(t, err)
	b, err := StartMatch(2, WithSeed(7))
	require.NoError(t, err)

	for _, id := range []string{"0", "1", "2"} {
		assert.Equal(t, handCodes(t, a, id), handCodes(t, b, id))
	}
	assert.Equal(t, a.TopCard().String(), b.TopCard().String())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestStartMatchRejectsBadConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		opponents int
		opts      []Option
	}{
		{name: "no opponents", opponents: 0},
		{name: "too many opponents", opponents: MaxOpponents + 1},
		{name: "zero target", opponents: 1, opts: []Option{WithTargetScore(0)}},
		{name: "zero hand size", opponents: 1, opts: []Option{WithHandSize(0)}},
		{name: "hands exceed deck", opponents: MaxOpponents, opts: []Option{WithHandSize(20)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := StartMatch(tt.opponents, tt.opts...)
			assert.Error(t, err)
		})
	}
}

func TestSkipMovesPastNextPlayer(t *testing.T) {
	t.Parallel()

	rec := &eventRecorder{}
	bus := NewEventBus()
	bus.Subscribe(rec)
	e := newScriptedEngine(t, 3, 2, "RS R1 B2 B3 G2 G3 Y2 Y3 R5 B9 G9 Y9", WithEventBus(bus))
	rec.reset()

	v, err := e.AttemptPlay(0, deck.NoColor)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Current)
	assert.Equal(t, "RS", v.TopCard.String())
	assert.Equal(t, deck.Red, v.ActiveColor)

	require.Len(t, rec.events, 1)
	played := rec.events[0].(CardPlayedEvent)
	assert.Equal(t, "1", played.SkippedID)
	assert.Equal(t, "2", played.Next.ID)
}

func TestReverseHeadsUpActsAsSkip(t *testing.T) {
	t.Parallel()

	e := newScriptedEngine(t, 1, 2, "RR R1 B2 B3 R5 G9 G8")

	v, err := e.AttemptPlay(0, deck.NoColor)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Current, "same player goes again")
	assert.Equal(t, Clockwise, v.Direction)
}

func TestReverseFlipsDirection(t *testing.T) {
	t.Parallel()

	e := newScriptedEngine(t, 2, 2, "RR R1 B2 B3 G2 G3 R5 Y9")

	v, err := e.AttemptPlay(0, deck.NoColor)
	require.NoError(t, err)
	assert.Equal(t, CounterClockwise, v.Direction)
	assert.Equal(t, 2, v.Current)
}

func TestDrawTwoStacksAndPenaltyEndsTurn(t *testing.T) {
	t.Parallel()

	e := newScriptedEngine(t, 2, 2, "R+2 R1 B+2 B3 G2 G3 R5 Y1 Y2 Y3 Y4 Y5 Y6")

	v, err := e.AttemptPlay(0, deck.NoColor)
	require.NoError(t, err)
	assert.Equal(t, 2, v.PendingDraw)
	assert.Equal(t, 1, v.Current)

	_, err = e.Play(1, 1, deck.NoColor)
	require.ErrorIs(t, err, ErrIllegalMove, "B3 cannot answer a pending draw")

	v, err = e.Play(1, 0, deck.NoColor)
	require.NoError(t, err)
	assert.Equal(t, 4, v.PendingDraw)
	assert.Equal(t, deck.Blue, v.ActiveColor)
	assert.Equal(t, 2, v.Current)

	v, err = e.AttemptDraw()
	require.NoError(t, err)
	assert.Zero(t, v.PendingDraw)
	assert.Equal(t, 0, v.Current)
	assert.Equal(t, 2, v.DeckSize)
	assert.Equal(t, "G2 G3 Y1 Y2 Y3 Y4", handCodes(t, e, "2"))
	require.NoError(t, e.ValidateCardConservation())
}

func TestWildDrawFourNeedsColorChoice(t *testing.T) {
	t.Parallel()

	e := newScriptedEngine(t, 1, 2, "W+4 B1 G2 G3 R5 Y1 Y2 Y3 Y4")
	before := e.Round()

	_, err := e.AttemptPlay(0, deck.NoColor)
	require.ErrorIs(t, err, ErrMissingColorChoice)
	assert.Equal(t, before, e.Round(), "rejected play must not change state")

	v, err := e.AttemptPlay(0, deck.Green)
	require.NoError(t, err)
	assert.Equal(t, deck.Green, v.ActiveColor)
	assert.Equal(t, 4, v.PendingDraw)
	assert.Equal(t, 1, v.Current)

	_, err = e.AttemptPlay(0, deck.NoColor)
	require.ErrorIs(t, err, ErrIllegalMove, "G2 cannot answer a pending wild draw four")

	v, err = e.AttemptDraw()
	require.NoError(t, err)
	assert.Len(t, v.Players[1].Hand, 6)
	assert.Equal(t, 0, v.Current)
}

func TestWildDrawFourIllegalWhileHoldingActiveColor(t *testing.T) {
	t.Parallel()

	e := newScriptedEngine(t, 1, 2, "W+4 R1 G2 G3 R5 Y1")
	before := e.Round()

	_, err := e.AttemptPlay(0, deck.Blue)
	require.ErrorIs(t, err, ErrIllegalMove)
	assert.Equal(t, before, e.Round())
}

func TestRejectedActions(t *testing.T) {
	t.Parallel()

	e := newScriptedEngine(t, 1, 2, "R1 R2 B3 B4 R5 G6 G7")
	before := e.Round()

	_, err := e.Play(1, 0, deck.NoColor)
	assert.ErrorIs(t, err, ErrIllegalMove)

	_, err = e.AttemptPlay(5, deck.NoColor)
	assert.ErrorIs(t, err, ErrInvalidIndex)

	_, err = e.AttemptPlay(-1, deck.NoColor)
	assert.ErrorIs(t, err, ErrInvalidIndex)

	_, err = e.Play(7, 0, deck.NoColor)
	assert.ErrorIs(t, err, ErrUnknownPlayer)

	_, err = e.Draw(1)
	assert.ErrorIs(t, err, ErrIllegalMove)

	assert.ErrorIs(t, e.DeclareLastCard("9"), ErrUnknownPlayer)

	_, err = e.Hand("9")
	assert.ErrorIs(t, err, ErrUnknownPlayer)

	_, err = e.StartHand()
	assert.ErrorIs(t, err, ErrHandInProgress)

	assert.Equal(t, before, e.Round())
}

func TestVoluntaryDrawEndsTurn(t *testing.T) {
	t.Parallel()

	e := newScriptedEngine(t, 1, 2, "R1 R2 B3 B4 R5 G6 G7")
	require.NotEmpty(t, e.LegalPlays())

	v, err := e.AttemptDraw()
	require.NoError(t, err)
	assert.Equal(t, 1, v.Current)
	assert.Equal(t, 1, v.DeckSize)
	assert.Equal(t, "R1 R2 G6", handCodes(t, e, "0"))
}

func TestDrawWithBothPilesEmpty(t *testing.T) {
	t.Parallel()

	rec := &eventRecorder{}
	bus := NewEventBus()
	bus.Subscribe(rec)
	e := newScriptedEngine(t, 1, 1, "R1 B2 R5", WithEventBus(bus))
	rec.reset()

	v, err := e.AttemptDraw()
	require.NoError(t, err)
	assert.Equal(t, 1, v.Current)
	assert.Len(t, v.Players[0].Hand, 1)

	require.Len(t, rec.events, 1)
	assert.Zero(t, rec.events[0].(CardsDrawnEvent).Count)
}

func TestDrawReshufflesDiscardPile(t *testing.T) {
	t.Parallel()

	rec := &eventRecorder{}
	bus := NewEventBus()
	bus.Subscribe(rec)
	e := newScriptedEngine(t, 1, 2, "R1 R2 R3 R4 R5 G1", WithEventBus(bus))

	_, err := e.AttemptPlay(0, deck.NoColor) // R1
	require.NoError(t, err)
	_, err = e.AttemptPlay(0, deck.NoColor) // R3
	require.NoError(t, err)
	v, err := e.AttemptDraw() // G1, deck now empty
	require.NoError(t, err)
	require.Zero(t, v.DeckSize)

	rec.reset()
	v, err = e.AttemptDraw()
	require.NoError(t, err)

	assert.Equal(t, []EventType{EventTypeDeckReshuffled, EventTypeCardsDrawn}, rec.types())
	assert.Equal(t, 1, v.DeckSize)
	assert.Equal(t, 1, v.DiscardSize)
	assert.Equal(t, "R3", v.TopCard.String())
	assert.Len(t, v.Players[1].Hand, 2)
	assert.Equal(t, 1, e.Snapshot().Round.Reshuffles)
	require.NoError(t, e.ValidateCardConservation())
}

func TestChallengeUpheld(t *testing.T) {
	t.Parallel()

	rec := &eventRecorder{}
	bus := NewEventBus()
	bus.Subscribe(rec)
	e := newScriptedEngine(t, 2, 2, "R1 R2 B1 B9 G2 G3 R5 Y1 Y2 Y3 Y4 Y5 Y6 Y7 Y8", WithEventBus(bus))

	_, err := e.AttemptPlay(0, deck.NoColor) // R1
	require.NoError(t, err)
	v, err := e.AttemptPlay(0, deck.NoColor) // B1 matches on value
	require.NoError(t, err)
	assert.Equal(t, "1", v.Call.Holder)
	assert.True(t, v.Call.Required)

	rec.reset()
	outcome, err := e.RaiseChallenge(HumanID, "1")
	require.NoError(t, err)
	assert.Equal(t, ChallengeUpheld, outcome)
	assert.Equal(t, "B9 Y1 Y2 Y3 Y4", handCodes(t, e, "1"))
	assert.Equal(t, 2, e.Round().Current)

	require.Equal(t, []EventType{EventTypeCardsDrawn, EventTypeChallengeResolved}, rec.types())
	resolved := rec.events[1].(ChallengeResolvedEvent)
	assert.Equal(t, "1", resolved.PenalizedID)
	assert.Equal(t, DrawChallengePenalty, rec.events[0].(CardsDrawnEvent).Mode)
}

func TestChallengeRejectedAfterDeclaration(t *testing.T) {
	t.Parallel()

	e := newScriptedEngine(t, 2, 2, "R1 R2 B1 B9 G2 G3 R5 Y1 Y2 Y3 Y4 Y5 Y6 Y7 Y8")

	_, err := e.AttemptPlay(0, deck.NoColor)
	require.NoError(t, err)
	_, err = e.AttemptPlay(0, deck.NoColor)
	require.NoError(t, err)
	require.NoError(t, e.DeclareLastCard("1"))

	outcome, err := e.RaiseChallenge(HumanID, "1")
	require.NoError(t, err)
	assert.Equal(t, ChallengeRejected, outcome)
	assert.Equal(t, "R2 Y1 Y2 Y3 Y4", handCodes(t, e, HumanID))
	assert.Equal(t, "B9", handCodes(t, e, "1"))
}

func TestEarlyDeclarationKeepsOtherDeclarations(t *testing.T) {
	t.Parallel()

	// seat 0: R1 R2, seat 1: R3 B4, seat 2: G5 G6, top R9
	e := newScriptedEngine(t, 2, 2, "R1 R2 R3 B4 G5 G6 R9 Y1 Y2 Y3 Y4 Y5 Y6 Y7 Y8")

	_, err := e.AttemptPlay(0, deck.NoColor) // R1
	require.NoError(t, err)
	require.NoError(t, e.DeclareLastCard(HumanID))
	require.NoError(t, e.DeclareLastCard("1"), "early declaration on two cards")

	outcome, err := e.RaiseChallenge("2", HumanID)
	require.NoError(t, err)
	assert.Equal(t, ChallengeRejected, outcome)
	assert.Equal(t, "R2", handCodes(t, e, HumanID))
	assert.Equal(t, "G5 G6 Y1 Y2 Y3 Y4", handCodes(t, e, "2"))

	v, err := e.AttemptPlay(0, deck.NoColor) // seat 1 plays R3
	require.NoError(t, err)
	assert.Equal(t, "1", v.Call.Holder)
	assert.False(t, v.Call.Required, "seat 1 declared before reaching one card")
	assert.True(t, v.Call.HasDeclared(HumanID))
	assert.True(t, v.Call.HasDeclared("1"))
}

func TestChallengeRejectedWhenTargetHoldsMoreCards(t *testing.T) {
	t.Parallel()

	e := newScriptedEngine(t, 1, 2, "R1 R2 B1 B9 R5 Y1 Y2 Y3 Y4")

	outcome, err := e.RaiseChallenge(HumanID, "1")
	require.NoError(t, err)
	assert.Equal(t, ChallengeRejected, outcome)
	assert.Len(t, mustHand(t, e, HumanID), 6)
	assert.Equal(t, 0, e.Round().Current, "challenges never move the turn")
}

func TestChallengeErrors(t *testing.T) {
	t.Parallel()

	e := newScriptedEngine(t, 1, 2, "R1 R2 B1 B9 R5 Y1 Y2 Y3 Y4")

	_, err := e.RaiseChallenge(HumanID, HumanID)
	assert.ErrorIs(t, err, ErrIllegalMove)

	_, err = e.RaiseChallenge("7", HumanID)
	assert.ErrorIs(t, err, ErrUnknownPlayer)

	_, err = e.RaiseChallenge(HumanID, "7")
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestWinningEndsHandAndMatch(t *testing.T) {
	t.Parallel()

	rec := &eventRecorder{}
	bus := NewEventBus()
	bus.Subscribe(rec)
	e := newScriptedEngine(t, 1, 1, "R1 W R5 G1 G2 G3", WithEventBus(bus), WithTargetScore(50))

	v, err := e.AttemptPlay(0, deck.NoColor)
	require.NoError(t, err)
	assert.True(t, v.Over())
	assert.Equal(t, HumanID, v.WinnerID)
	assert.Equal(t, 1, v.HandNumber)

	assert.Equal(t, []EventType{
		EventTypeHandStarted,
		EventTypeCardPlayed,
		EventTypeHandEnded,
		EventTypeMatchEnded,
	}, rec.types())
	assert.Equal(t, 50, rec.events[2].(HandEndedEvent).Score)
	assert.Zero(t, rec.events[1].(CardPlayedEvent).Next, "no one is next after the winning card")

	m := e.Match()
	assert.Equal(t, 50, m.TotalScores[HumanID])
	assert.Equal(t, 50, m.CurrentHandScores[HumanID])
	assert.True(t, e.IsMatchOver())

	_, err = e.StartHand()
	assert.ErrorIs(t, err, ErrMatchOver)
	_, err = e.AttemptDraw()
	assert.ErrorIs(t, err, ErrHandOver)
	_, err = e.AttemptPlay(0, deck.NoColor)
	assert.ErrorIs(t, err, ErrHandOver)
	assert.ErrorIs(t, e.DeclareLastCard("1"), ErrHandOver)
	_, err = e.RaiseChallenge("1", HumanID)
	assert.ErrorIs(t, err, ErrHandOver)
	assert.Nil(t, e.LegalPlays())
}

func TestStartHandKeepsTotals(t *testing.T) {
	t.Parallel()

	e := newScriptedEngine(t, 1, 1, "R1 W R5 G1 G2 G3")

	_, err := e.AttemptPlay(0, deck.NoColor)
	require.NoError(t, err)
	require.False(t, e.IsMatchOver())

	v, err := e.StartHand()
	require.NoError(t, err)
	assert.Equal(t, 2, v.HandNumber)
	assert.False(t, v.Over())
	assert.Zero(t, v.Current)
	assert.Equal(t, "R1", handCodes(t, e, HumanID))
	assert.Equal(t, 50, e.Match().TotalScores[HumanID])

	_, err = e.StartHand()
	assert.ErrorIs(t, err, ErrHandInProgress)
}

func TestWinOnDrawCardLeavesPendingDraw(t *testing.T) {
	t.Parallel()

	e := newScriptedEngine(t, 1, 1, "R+2 B1 R5 G1 G2")

	v, err := e.AttemptPlay(0, deck.NoColor)
	require.NoError(t, err)
	assert.Equal(t, HumanID, v.WinnerID)
	assert.Equal(t, 2, v.PendingDraw)
	assert.Equal(t, 0, v.Current)
	assert.Equal(t, 1, e.Match().TotalScores[HumanID])
}

func TestOpeningHandWonImmediately(t *testing.T) {
	t.Parallel()

	rec := &eventRecorder{}
	bus := NewEventBus()
	bus.Subscribe(rec)
	// seat 0: R3, seat 1: W, top R5
	e := newScriptedEngine(t, 1, 1, "R3 W R5 G1 G2", WithEventBus(bus), WithTargetScore(500))

	v, err := e.AttemptPlay(0, deck.NoColor)
	require.NoError(t, err)
	assert.True(t, v.Over())
	assert.Equal(t, HumanID, v.WinnerID)
	assert.Empty(t, handCodes(t, e, HumanID))
	assert.Equal(t, "W", handCodes(t, e, "1"))

	assert.Equal(t, 50, ScoreHand(e.Snapshot().Round.Players, HumanID))
	m := e.Match()
	assert.Equal(t, 50, m.TotalScores[HumanID])
	assert.Zero(t, m.TotalScores["1"])
	assert.Equal(t, 500, m.TargetScore)
	assert.False(t, e.IsMatchOver())

	ended := rec.events[len(rec.events)-1].(HandEndedEvent)
	assert.Equal(t, 50, ended.Score)
	assert.Equal(t, 50, ended.TotalScores[HumanID])

	v, err = e.StartHand()
	require.NoError(t, err)
	assert.Equal(t, 2, v.HandNumber)
}

func TestEndToEndScriptedHand(t *testing.T) {
	t.Parallel()

	// seat 0: R7 GS, seat 1: R3 B3, top R5, deck Y1 Y2
	e := newScriptedEngine(t, 1, 2, "R7 GS R3 B3 R5 Y1 Y2", WithTargetScore(10))

	v, err := e.AttemptPlay(0, deck.NoColor) // R7
	require.NoError(t, err)
	assert.Equal(t, 1, v.Current)

	require.NoError(t, e.DeclareLastCard(HumanID))

	v, err = e.AttemptPlay(0, deck.NoColor) // R3
	require.NoError(t, err)
	assert.Equal(t, 0, v.Current)

	_, err = e.AttemptPlay(0, deck.NoColor)
	require.ErrorIs(t, err, ErrIllegalMove, "GS on R3")

	v, err = e.AttemptDraw() // Y1
	require.NoError(t, err)
	assert.False(t, v.Call.HasDeclared(HumanID), "declaration lapses once the hand grows")

	v, err = e.AttemptPlay(0, deck.NoColor) // B3 on R3
	require.NoError(t, err)
	assert.True(t, v.Over())
	assert.Equal(t, "1", v.WinnerID)

	// GS (20) + Y1 (1)
	assert.Equal(t, 21, e.Match().TotalScores["1"])
	assert.True(t, e.IsMatchOver())
	require.NoError(t, e.ValidateCardConservation())
}

func TestRandomPlayKeepsInvariants(t *testing.T) {
	t.Parallel()

	for seed := int64(1); seed <= 5; seed++ {
		e, err := StartMatch(3, WithSeed(seed), WithTargetScore(200), WithLogger(quietLogger()))
		require.NoError(t, err)
		rng := randutil.New(seed)

		for step := 0; step < 3000 && !e.IsMatchOver(); step++ {
			v := e.Round()
			if v.Over() {
				_, err := e.StartHand()
				require.NoError(t, err)
				continue
			}

			hand := v.CurrentPlayer().Hand
			legal := e.LegalPlays()
			isLegal := make(map[int]bool)
			for _, i := range legal {
				require.True(t, IsLegalPlay(hand[i], v.TopCard, v.ActiveColor, v.PendingDraw, hand))
				isLegal[i] = true
			}
			for i := range hand {
				if !isLegal[i] {
					_, err := e.AttemptPlay(i, deck.Red)
					require.ErrorIs(t, err, ErrIllegalMove)
					require.Equal(t, v, e.Round())
					break
				}
			}

			if len(legal) > 0 && rng.IntN(4) > 0 {
				idx := legal[rng.IntN(len(legal))]
				next, err := e.AttemptPlay(idx, deck.Colors[rng.IntN(len(deck.Colors))])
				require.NoError(t, err)
				require.Len(t, next.Players[v.Current].Hand, len(hand)-1)
			} else {
				_, err := e.AttemptDraw()
				require.NoError(t, err)
			}

			require.NoError(t, e.ValidateCardConservation())
			r := e.Round()
			total := r.DeckSize + r.DiscardSize
			for _, p := range r.Players {
				total += len(p.Hand)
			}
			require.Equal(t, deck.Size, total)
			if r.PendingDraw > 0 {
				require.True(t, r.TopCard.Type.IsPenalty())
			}
			require.True(t, r.ActiveColor.Valid())
		}
	}
}

func mustHand(t *testing.T, e *Engine, id string) []deck.Card {
	t.Helper()
	hand, err := e.Hand(id)
	require.NoError(t, err)
	return hand
}
