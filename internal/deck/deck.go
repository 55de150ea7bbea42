package deck

import (
	"fmt"
	rand "math/rand/v2"
)

// Size is the number of cards in the canonical deck
const Size = 108

// DefaultHandSize is the number of cards dealt to each player at hand start
const DefaultHandSize = 7

// BuildStandardDeck returns the 108-card catalog in a fixed, unshuffled order.
// Per color: one 0, two each of 1-9, two each of Skip, Reverse and DrawTwo;
// then four Wild and four WildDrawFour.
func BuildStandardDeck() []Card {
	cards := make([]Card, 0, Size)

	for _, color := range Colors {
		cards = append(cards, NewNumber(color, 0))
		for value := 1; value <= 9; value++ {
			cards = append(cards, NewNumber(color, value), NewNumber(color, value))
		}
		for range 2 {
			cards = append(cards,
				NewAction(color, Skip),
				NewAction(color, Reverse),
				NewAction(color, DrawTwo),
			)
		}
	}

	for range 4 {
		cards = append(cards, NewWild(Wild), NewWild(WildDrawFour))
	}

	return cards
}

// Shuffle returns a uniformly random permutation of cards using Fisher-Yates.
// The input slice is not modified.
func Shuffle(cards []Card, rng *rand.Rand) []Card {
	shuffled := make([]Card, len(cards))
	copy(shuffled, cards)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// DealOpeningHands deals handSize cards to each of playerCount players in
// contiguous blocks from the top of the deck (index 0), seat 0 first.
func DealOpeningHands(cards []Card, playerCount, handSize int) ([][]Card, []Card, error) {
	if playerCount < 1 {
		return nil, nil, fmt.Errorf("need at least one player, got %d", playerCount)
	}
	if handSize < 1 {
		return nil, nil, fmt.Errorf("hand size must be positive, got %d", handSize)
	}
	if need := playerCount * handSize; need > len(cards) {
		return nil, nil, fmt.Errorf("deck has %d cards, cannot deal %d", len(cards), need)
	}

	hands := make([][]Card, playerCount)
	next := 0
	for p := range playerCount {
		hands[p] = append([]Card(nil), cards[next:next+handSize]...)
		next += handSize
	}

	remaining := append([]Card(nil), cards[next:]...)
	return hands, remaining, nil
}

// DrawOpeningDiscard takes cards from the top of the deck until it finds a
// Number card. Skipped cards are recycled to the bottom of the deck, never
// discarded, so the opening discard always has a color and no pending effect.
func DrawOpeningDiscard(cards []Card) (Card, []Card, error) {
	remaining := append([]Card(nil), cards...)
	for range len(remaining) {
		top := remaining[0]
		remaining = remaining[1:]
		if top.Type == Number {
			return top, remaining, nil
		}
		remaining = append(remaining, top)
	}
	return Card{}, cards, fmt.Errorf("no number card among %d cards", len(cards))
}
