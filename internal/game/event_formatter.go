package game

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// FormattingOptions controls how events are rendered for different contexts
type FormattingOptions struct {
	Perspective string // Player id rendered as "You"
}

// EventFormatter turns engine events into one-line, human-readable text
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	return &EventFormatter{opts: opts}
}

// Format renders any engine event. Unknown events render as their type.
func (ef *EventFormatter) Format(event GameEvent) string {
	switch ev := event.(type) {
	case HandStartedEvent:
		return ef.FormatHandStarted(ev)
	case CardPlayedEvent:
		return ef.FormatCardPlayed(ev)
	case CardsDrawnEvent:
		return ef.FormatCardsDrawn(ev)
	case DeckReshuffledEvent:
		return fmt.Sprintf("Discard pile reshuffled into a %d card deck", ev.DeckSize)
	case LastCardDeclaredEvent:
		return fmt.Sprintf("%s: \"Last card!\"", ef.name(ev.Player))
	case ChallengeResolvedEvent:
		return ef.FormatChallenge(ev)
	case HandEndedEvent:
		return ef.FormatHandEnded(ev)
	case MatchEndedEvent:
		return fmt.Sprintf("*** %s %s the match with %d points ***",
			ef.name(ev.Winner), ef.verb(ev.Winner, "win", "wins"), ev.TotalScores[ev.Winner.ID])
	default:
		return event.EventType().String()
	}
}

// FormatHandStarted formats the opening of a hand
func (ef *EventFormatter) FormatHandStarted(ev HandStartedEvent) string {
	return fmt.Sprintf("*** HAND #%d *** %s %s on %s", ev.HandNumber,
		ef.name(ev.FirstPlayer), ef.verb(ev.FirstPlayer, "start", "starts"), ev.TopCard)
}

// FormatCardPlayed formats a play, including its side effects
func (ef *EventFormatter) FormatCardPlayed(ev CardPlayedEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s %s", ef.name(ev.Player), ef.verb(ev.Player, "play", "plays"), ev.Card)
	if ev.Card.IsWild() {
		fmt.Fprintf(&b, " and %s %s", ef.verb(ev.Player, "choose", "chooses"), ev.ActiveColor)
	}
	if ev.Reversed {
		b.WriteString(", direction reversed")
	}
	if ev.PendingDraw > 0 {
		fmt.Fprintf(&b, " (next player owes %d)", ev.PendingDraw)
	}
	if n := len(ev.Player.Hand); n == 1 {
		b.WriteString(" [1 card left]")
	}
	return b.String()
}

// FormatCardsDrawn formats a draw of any mode
func (ef *EventFormatter) FormatCardsDrawn(ev CardsDrawnEvent) string {
	noun := "cards"
	if ev.Count == 1 {
		noun = "card"
	}
	who := ef.name(ev.Player)
	draws := ef.verb(ev.Player, "draw", "draws")
	switch ev.Mode {
	case DrawPenalty:
		return fmt.Sprintf("%s: %s %d penalty %s", who, draws, ev.Count, noun)
	case DrawChallengePenalty:
		return fmt.Sprintf("%s: %s %d %s for a lost challenge", who, draws, ev.Count, noun)
	default:
		return fmt.Sprintf("%s: %s a card", who, draws)
	}
}

// FormatChallenge formats a resolved last-card challenge
func (ef *EventFormatter) FormatChallenge(ev ChallengeResolvedEvent) string {
	if ev.Outcome == ChallengeUpheld {
		return fmt.Sprintf("%s caught %s without a call: upheld", ef.name(ev.Challenger), ef.name(ev.Target))
	}
	return fmt.Sprintf("%s challenged %s: rejected", ef.name(ev.Challenger), ef.name(ev.Target))
}

// FormatHandEnded formats the end of a hand with the running totals
func (ef *EventFormatter) FormatHandEnded(ev HandEndedEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*** HAND #%d OVER *** %s %s %d points", ev.HandNumber,
		ef.name(ev.Winner), ef.verb(ev.Winner, "score", "scores"), ev.Score)
	if len(ev.TotalScores) > 0 {
		b.WriteString(" | totals:")
		for _, id := range slices.Sorted(maps.Keys(ev.TotalScores)) {
			fmt.Fprintf(&b, " %s=%d", id, ev.TotalScores[id])
		}
	}
	return b.String()
}

func (ef *EventFormatter) name(p PlayerView) string {
	if ef.opts.Perspective != "" && p.ID == ef.opts.Perspective {
		return "You"
	}
	return p.Name
}

func (ef *EventFormatter) verb(p PlayerView, second, third string) string {
	if ef.opts.Perspective != "" && p.ID == ef.opts.Perspective {
		return second
	}
	return third
}
