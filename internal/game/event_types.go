package game

// EventType represents a game event type with type safety
type EventType string

// EventType constants for engine events
const (
	EventTypeHandStarted       EventType = "hand_started"
	EventTypeCardPlayed        EventType = "card_played"
	EventTypeCardsDrawn        EventType = "cards_drawn"
	EventTypeDeckReshuffled    EventType = "deck_reshuffled"
	EventTypeLastCardDeclared  EventType = "last_card_declared"
	EventTypeChallengeResolved EventType = "challenge_resolved"
	EventTypeHandEnded         EventType = "hand_ended"
	EventTypeMatchEnded        EventType = "match_ended"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}
