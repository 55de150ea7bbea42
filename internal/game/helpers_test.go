package game

import (
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/lastcard/internal/deck"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// newScriptedEngine deals a match from a fixed card ordering. Hands are dealt
// in contiguous blocks of handSize starting with seat 0, then the first number
// card of what remains becomes the opening discard.
func newScriptedEngine(t *testing.T, opponents, handSize int, codes string, opts ...Option) *Engine {
	t.Helper()
	base := []Option{
		WithFixedDeck(deck.MustParseCards(codes)),
		WithHandSize(handSize),
		WithSeed(1),
		WithLogger(quietLogger()),
	}
	e, err := StartMatch(opponents, append(base, opts...)...)
	require.NoError(t, err)
	return e
}

// eventRecorder captures events in publication order
type eventRecorder struct {
	mu     sync.Mutex
	events []GameEvent
}

func (r *eventRecorder) OnEvent(event GameEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) types() []EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]EventType, len(r.events))
	for i, ev := range r.events {
		types[i] = ev.EventType()
	}
	return types
}

func (r *eventRecorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func handCodes(t *testing.T, e *Engine, id string) string {
	t.Helper()
	hand, err := e.Hand(id)
	require.NoError(t, err)
	return deck.FormatCards(hand)
}
