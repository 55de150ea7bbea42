package bot

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/lastcard/internal/deck"
	"github.com/lox/lastcard/internal/game"
)

// ActionKind is what an automated player wants to do on its turn
type ActionKind int

const (
	Play ActionKind = iota
	Draw
)

func (k ActionKind) String() string {
	if k == Draw {
		return "draw"
	}
	return "play"
}

// Action is a move proposal. The caller decides when to submit it to the
// engine; nothing here touches engine state.
type Action struct {
	Kind      ActionKind
	CardIndex int
	Color     deck.Color // set only for wild plays
	Reasoning string
}

func (a Action) String() string {
	if a.Kind == Draw {
		return "draw"
	}
	if a.Color != deck.NoColor {
		return fmt.Sprintf("play #%d as %s", a.CardIndex, a.Color)
	}
	return fmt.Sprintf("play #%d", a.CardIndex)
}

// ChooseMove plays the first legal card in hand order, or draws if there is
// none. rng is only consulted to pick a color for a wild when the rest of the
// hand has no colored cards.
func ChooseMove(hand []deck.Card, top deck.Card, activeColor deck.Color, pendingDraw int, rng *rand.Rand) Action {
	for i, card := range hand {
		if !game.IsLegalPlay(card, top, activeColor, pendingDraw, hand) {
			continue
		}
		action := Action{Kind: Play, CardIndex: i, Reasoning: "first legal card " + card.String()}
		if card.IsWild() {
			rest := make([]deck.Card, 0, len(hand)-1)
			rest = append(rest, hand[:i]...)
			rest = append(rest, hand[i+1:]...)
			action.Color = ChooseColor(rest, rng)
		}
		return action
	}

	if pendingDraw > 0 {
		return Action{Kind: Draw, Reasoning: fmt.Sprintf("cannot stack, taking %d", pendingDraw)}
	}
	return Action{Kind: Draw, Reasoning: "no legal card"}
}

// ChooseColor returns the most frequent color in hand, ties going to the
// earlier color in catalog order. A hand with no colored cards gets a
// uniformly random color.
func ChooseColor(hand []deck.Card, rng *rand.Rand) deck.Color {
	var counts [len(deck.Colors)]int
	for _, card := range hand {
		for i, c := range deck.Colors {
			if card.Color == c {
				counts[i]++
			}
		}
	}

	best := -1
	for i, n := range counts {
		if n > 0 && (best < 0 || n > counts[best]) {
			best = i
		}
	}
	if best < 0 {
		return deck.Colors[rng.IntN(len(deck.Colors))]
	}
	return deck.Colors[best]
}
