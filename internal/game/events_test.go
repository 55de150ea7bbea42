package game

import (
	"testing"
	"time"

	"github.com/lox/lastcard/internal/deck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventFormatter(t *testing.T) {
	t.Parallel()

	human := PlayerView{ID: HumanID, Name: "Player 1"}
	bot := PlayerView{ID: "1", Name: "Bot 1", Automated: true, Hand: deck.MustParseCards("R1 R2")}
	lastCard := PlayerView{ID: "2", Name: "Bot 2", Automated: true, Hand: deck.MustParseCards("G9")}

	tests := []struct {
		name     string
		opts     FormattingOptions
		event    GameEvent
		expected string
	}{
		{
			name:     "hand started",
			event:    HandStartedEvent{HandNumber: 3, TopCard: card("B4"), FirstPlayer: human},
			expected: "*** HAND #3 *** Player 1 starts on B4",
		},
		{
			name:     "hand started from perspective",
			opts:     FormattingOptions{Perspective: HumanID},
			event:    HandStartedEvent{HandNumber: 1, TopCard: card("R0"), FirstPlayer: human},
			expected: "*** HAND #1 *** You start on R0",
		},
		{
			name:     "number card",
			event:    CardPlayedEvent{Player: bot, Card: card("R7"), ActiveColor: deck.Red},
			expected: "Bot 1: plays R7",
		},
		{
			name:     "wild with color",
			opts:     FormattingOptions{Perspective: HumanID},
			event:    CardPlayedEvent{Player: human, Card: card("W+4"), ActiveColor: deck.Blue, PendingDraw: 4},
			expected: "You: play W+4 and choose blue (next player owes 4)",
		},
		{
			name:     "reverse down to one card",
			event:    CardPlayedEvent{Player: lastCard, Card: card("GR"), ActiveColor: deck.Green, Reversed: true},
			expected: "Bot 2: plays GR, direction reversed [1 card left]",
		},
		{
			name:     "voluntary draw",
			event:    CardsDrawnEvent{Player: bot, Count: 1, Mode: DrawVoluntary},
			expected: "Bot 1: draws a card",
		},
		{
			name:     "penalty draw",
			event:    CardsDrawnEvent{Player: bot, Count: 4, Mode: DrawPenalty},
			expected: "Bot 1: draws 4 penalty cards",
		},
		{
			name:     "challenge draw",
			opts:     FormattingOptions{Perspective: HumanID},
			event:    CardsDrawnEvent{Player: human, Count: 4, Mode: DrawChallengePenalty},
			expected: "You: draw 4 cards for a lost challenge",
		},
		{
			name:     "reshuffle",
			event:    DeckReshuffledEvent{DeckSize: 40},
			expected: "Discard pile reshuffled into a 40 card deck",
		},
		{
			name:     "declaration",
			event:    LastCardDeclaredEvent{Player: lastCard},
			expected: "Bot 2: \"Last card!\"",
		},
		{
			name:     "challenge upheld",
			event:    ChallengeResolvedEvent{Challenger: bot, Target: lastCard, Outcome: ChallengeUpheld},
			expected: "Bot 1 caught Bot 2 without a call: upheld",
		},
		{
			name:     "challenge rejected",
			event:    ChallengeResolvedEvent{Challenger: human, Target: bot, Outcome: ChallengeRejected},
			expected: "Player 1 challenged Bot 1: rejected",
		},
		{
			name: "hand ended",
			event: HandEndedEvent{
				HandNumber:  2,
				Winner:      bot,
				Score:       77,
				TotalScores: map[string]int{"1": 120, "0": 30},
			},
			expected: "*** HAND #2 OVER *** Bot 1 scores 77 points | totals: 0=30 1=120",
		},
		{
			name:     "match ended",
			opts:     FormattingOptions{Perspective: HumanID},
			event:    MatchEndedEvent{Winner: human, TotalScores: map[string]int{"0": 512}},
			expected: "*** You win the match with 512 points ***",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := NewEventFormatter(tt.opts)
			assert.Equal(t, tt.expected, formatter.Format(tt.event))
		})
	}
}

func TestEventTimestamps(t *testing.T) {
	t.Parallel()

	rec := &eventRecorder{}
	bus := NewEventBus()
	bus.Subscribe(rec)
	before := time.Now()
	newScriptedEngine(t, 1, 2, "R1 R2 B3 B4 R5 G6 G7", WithEventBus(bus))

	require.Len(t, rec.events, 1)
	started := rec.events[0].(HandStartedEvent)
	assert.False(t, started.Timestamp().Before(before))
	assert.Equal(t, 1, started.HandNumber)
	assert.Equal(t, "R5", started.TopCard.String())
	assert.Len(t, started.Players, 2)
}

func TestEventBusUnsubscribe(t *testing.T) {
	t.Parallel()

	bus := NewEventBus()
	a, b := &eventRecorder{}, &eventRecorder{}
	bus.Subscribe(a)
	bus.Subscribe(b)

	bus.Publish(DeckReshuffledEvent{DeckSize: 1})
	bus.Unsubscribe(a)
	bus.Publish(DeckReshuffledEvent{DeckSize: 2})

	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 2)
}

func TestEventBusUnsubscribeFuncIsNoop(t *testing.T) {
	t.Parallel()

	var got int
	fn := SubscriberFunc(func(GameEvent) { got++ })
	bus := NewEventBus()
	bus.Subscribe(fn)

	assert.NotPanics(t, func() {
		bus.Unsubscribe(fn)
		bus.Unsubscribe(SubscriberFunc(func(GameEvent) {}))
		bus.Unsubscribe(nil)
	})
	bus.Publish(DeckReshuffledEvent{DeckSize: 1})
	assert.Equal(t, 1, got)
}

func TestEventsPublishedAfterUnlock(t *testing.T) {
	t.Parallel()

	var (
		e     *Engine
		views []RoundView
	)
	bus := NewEventBus()
	bus.Subscribe(SubscriberFunc(func(event GameEvent) {
		if e != nil {
			// re-entering the engine from a subscriber must not deadlock
			views = append(views, e.Round())
		}
	}))
	e = newScriptedEngine(t, 1, 2, "R1 R2 B3 B4 R5 G6 G7", WithEventBus(bus))

	_, err := e.AttemptPlay(0, deck.NoColor)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "R1", views[0].TopCard.String())
	assert.Same(t, bus, e.Events())
}
