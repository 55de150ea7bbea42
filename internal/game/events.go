package game

import (
	"reflect"
	"sync"
	"time"

	"github.com/lox/lastcard/internal/deck"
)

// GameEvent represents anything that happened inside the engine
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// HandStartedEvent is published after a hand has been dealt
type HandStartedEvent struct {
	MatchID     string
	HandNumber  int
	TopCard     deck.Card
	FirstPlayer PlayerView
	Players     []PlayerView
	timestamp   time.Time
}

func (e HandStartedEvent) EventType() EventType { return EventTypeHandStarted }
func (e HandStartedEvent) Timestamp() time.Time { return e.timestamp }

// CardPlayedEvent is published when a card reaches the discard pile.
// Next is zero when the play won the hand.
type CardPlayedEvent struct {
	Player      PlayerView
	Card        deck.Card
	ActiveColor deck.Color
	PendingDraw int
	SkippedID   string
	Reversed    bool
	Next        PlayerView
	timestamp   time.Time
}

func (e CardPlayedEvent) EventType() EventType { return EventTypeCardPlayed }
func (e CardPlayedEvent) Timestamp() time.Time { return e.timestamp }

// CardsDrawnEvent is published whenever cards move from the deck to a hand
type CardsDrawnEvent struct {
	Player    PlayerView
	Count     int
	Mode      DrawMode
	Next      PlayerView
	timestamp time.Time
}

func (e CardsDrawnEvent) EventType() EventType { return EventTypeCardsDrawn }
func (e CardsDrawnEvent) Timestamp() time.Time { return e.timestamp }

// DeckReshuffledEvent is published when the discard pile becomes the deck
type DeckReshuffledEvent struct {
	DeckSize  int
	timestamp time.Time
}

func (e DeckReshuffledEvent) EventType() EventType { return EventTypeDeckReshuffled }
func (e DeckReshuffledEvent) Timestamp() time.Time { return e.timestamp }

// LastCardDeclaredEvent is published when a player declares their last card
type LastCardDeclaredEvent struct {
	Player    PlayerView
	timestamp time.Time
}

func (e LastCardDeclaredEvent) EventType() EventType { return EventTypeLastCardDeclared }
func (e LastCardDeclaredEvent) Timestamp() time.Time { return e.timestamp }

// ChallengeResolvedEvent is published after a challenge penalty is drawn
type ChallengeResolvedEvent struct {
	Challenger  PlayerView
	Target      PlayerView
	Outcome     ChallengeOutcome
	PenalizedID string
	timestamp   time.Time
}

func (e ChallengeResolvedEvent) EventType() EventType { return EventTypeChallengeResolved }
func (e ChallengeResolvedEvent) Timestamp() time.Time { return e.timestamp }

// HandEndedEvent is published when a player empties their hand
type HandEndedEvent struct {
	HandNumber  int
	Winner      PlayerView
	Score       int
	TotalScores map[string]int
	timestamp   time.Time
}

func (e HandEndedEvent) EventType() EventType { return EventTypeHandEnded }
func (e HandEndedEvent) Timestamp() time.Time { return e.timestamp }

// MatchEndedEvent is published when a total reaches the target score
type MatchEndedEvent struct {
	MatchID     string
	Winner      PlayerView
	TotalScores map[string]int
	timestamp   time.Time
}

func (e MatchEndedEvent) EventType() EventType { return EventTypeMatchEnded }
func (e MatchEndedEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// SubscriberFunc adapts a function to EventSubscriber
type SubscriberFunc func(event GameEvent)

func (f SubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus delivers events synchronously, in subscription order
type SimpleEventBus struct {
	mu          sync.RWMutex
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events. SubscriberFunc
// values are not comparable, so unsubscribing one is a no-op.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	if t := reflect.TypeOf(subscriber); t == nil || !t.Comparable() {
		return
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	bus.mu.RLock()
	subs := append([]EventSubscriber(nil), bus.subscribers...)
	bus.mu.RUnlock()
	for _, subscriber := range subs {
		subscriber.OnEvent(event)
	}
}
