package game

import "github.com/lox/lastcard/internal/deck"

// IsLegalPlay reports whether card may be played on top given the active
// color, any pending forced draw, and the acting player's full hand.
//
// A pending draw can only be stacked with the same penalty type. Wild is
// always playable otherwise; WildDrawFour only when the hand holds nothing of
// the active color.
func IsLegalPlay(card, top deck.Card, activeColor deck.Color, pendingDraw int, hand []deck.Card) bool {
	if pendingDraw > 0 {
		switch top.Type {
		case deck.DrawTwo:
			return card.Type == deck.DrawTwo
		case deck.WildDrawFour:
			return card.Type == deck.WildDrawFour
		default:
			return false
		}
	}

	switch card.Type {
	case deck.Wild:
		return true
	case deck.WildDrawFour:
		for _, held := range hand {
			if held.Color == activeColor {
				return false
			}
		}
		return true
	}

	if card.Color == activeColor {
		return true
	}

	if card.Type == deck.Number && top.Type == deck.Number {
		return card.Value == top.Value
	}

	return card.Type == top.Type
}

// LegalPlays returns the indexes of every legal card in hand, in hand order
func LegalPlays(hand []deck.Card, top deck.Card, activeColor deck.Color, pendingDraw int) []int {
	var legal []int
	for i, card := range hand {
		if IsLegalPlay(card, top, activeColor, pendingDraw, hand) {
			legal = append(legal, i)
		}
	}
	return legal
}
