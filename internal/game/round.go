package game

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/lastcard/internal/deck"
)

// Direction is the order in which turns pass around the seats
type Direction int

const (
	Clockwise        Direction = 1
	CounterClockwise Direction = -1
)

func (d Direction) String() string {
	if d == CounterClockwise {
		return "counter-clockwise"
	}
	return "clockwise"
}

// DrawMode distinguishes why cards are being drawn
type DrawMode int

const (
	// DrawPenalty resolves a pending DrawTwo/WildDrawFour and ends the turn
	DrawPenalty DrawMode = iota
	// DrawVoluntary takes a single card and ends the turn
	DrawVoluntary
	// DrawChallengePenalty adds cards to any player without touching the turn
	DrawChallengePenalty
)

func (m DrawMode) String() string {
	switch m {
	case DrawPenalty:
		return "penalty"
	case DrawVoluntary:
		return "voluntary"
	case DrawChallengePenalty:
		return "challenge"
	default:
		return "unknown"
	}
}

// Round is the authoritative state of a single hand. Index 0 of Deck is the
// top of the draw pile; the last element of Discard is the top card.
type Round struct {
	Players     []*Player   `json:"players"`
	Deck        []deck.Card `json:"deck"`
	Discard     []deck.Card `json:"discard"`
	Current     int         `json:"current"`
	Direction   Direction   `json:"direction"`
	ActiveColor deck.Color  `json:"active_color"`
	PendingDraw int         `json:"pending_draw"`
	WinnerID    string      `json:"winner_id,omitempty"`
	Call        CallState   `json:"call"`
	Reshuffles  int         `json:"reshuffles"`

	rng *rand.Rand
}

// playResult describes the effects of an applied play
type playResult struct {
	Card     deck.Card
	Color    deck.Color
	Skipped  string
	Reversed bool
	Won      bool
}

// drawResult describes the effects of an applied draw
type drawResult struct {
	PlayerID   string
	Cards      []deck.Card
	Reshuffled int
}

// newRound deals a fresh hand to players from an already ordered deck
func newRound(players []*Player, cards []deck.Card, handSize int, rng *rand.Rand) (*Round, error) {
	hands, remaining, err := deck.DealOpeningHands(cards, len(players), handSize)
	if err != nil {
		return nil, err
	}
	top, remaining, err := deck.DrawOpeningDiscard(remaining)
	if err != nil {
		return nil, err
	}

	for i, p := range players {
		p.Hand = hands[i]
	}

	r := &Round{
		Players:     players,
		Deck:        remaining,
		Discard:     []deck.Card{top},
		Current:     0,
		Direction:   Clockwise,
		ActiveColor: top.Color,
		rng:         rng,
	}
	for _, p := range players {
		r.Call.observe(p)
	}
	return r, nil
}

// TopCard returns the card governing legality of the next play
func (r *Round) TopCard() deck.Card {
	if len(r.Discard) == 0 {
		return deck.Card{}
	}
	return r.Discard[len(r.Discard)-1]
}

// CurrentPlayer returns the player whose turn it is
func (r *Round) CurrentPlayer() *Player {
	return r.Players[r.Current]
}

// Over reports whether a player has emptied their hand
func (r *Round) Over() bool {
	return r.WinnerID != ""
}

// CardCount returns the number of cards across deck, discard pile and hands
func (r *Round) CardCount() int {
	n := len(r.Deck) + len(r.Discard)
	for _, p := range r.Players {
		n += len(p.Hand)
	}
	return n
}

func (r *Round) playerIndex(id string) (int, bool) {
	for i, p := range r.Players {
		if p.ID == id {
			return i, true
		}
	}
	return -1, false
}

// nextIndex returns the seat steps turns away in the current direction
func (r *Round) nextIndex(steps int) int {
	n := len(r.Players)
	next := (r.Current + steps*int(r.Direction)) % n
	if next < 0 {
		next += n
	}
	return next
}

func (r *Round) advance() {
	r.Current = r.nextIndex(1)
}

// validatePlay checks every precondition of applyPlay without mutating state
func (r *Round) validatePlay(playerIndex, cardIndex int, chosen deck.Color) (deck.Card, error) {
	if r.Over() {
		return deck.Card{}, ErrHandOver
	}
	if playerIndex < 0 || playerIndex >= len(r.Players) {
		return deck.Card{}, fmt.Errorf("seat %d: %w", playerIndex, ErrUnknownPlayer)
	}
	if playerIndex != r.Current {
		return deck.Card{}, fmt.Errorf("%w: not %s's turn", ErrIllegalMove, r.Players[playerIndex].Name)
	}

	hand := r.Players[playerIndex].Hand
	if len(hand) == 0 {
		return deck.Card{}, ErrEmptyHand
	}
	if cardIndex < 0 || cardIndex >= len(hand) {
		return deck.Card{}, fmt.Errorf("%w %d (hand has %d cards)", ErrInvalidIndex, cardIndex, len(hand))
	}

	card := hand[cardIndex]
	if !IsLegalPlay(card, r.TopCard(), r.ActiveColor, r.PendingDraw, hand) {
		return deck.Card{}, fmt.Errorf("%w: %s on %s (active %s, pending %d)",
			ErrIllegalMove, card, r.TopCard(), r.ActiveColor, r.PendingDraw)
	}
	if card.IsWild() && !chosen.Valid() {
		return deck.Card{}, fmt.Errorf("%w: %s", ErrMissingColorChoice, card)
	}
	return card, nil
}

// applyPlay moves a card from the acting hand to the discard pile and runs
// its effect. State is untouched when an error is returned.
func (r *Round) applyPlay(playerIndex, cardIndex int, chosen deck.Color) (playResult, error) {
	if _, err := r.validatePlay(playerIndex, cardIndex, chosen); err != nil {
		return playResult{}, err
	}

	player := r.Players[playerIndex]
	card := player.removeCard(cardIndex)
	r.Discard = append(r.Discard, card)
	r.Call.observe(player)

	result := playResult{Card: card}
	if !card.IsWild() {
		r.ActiveColor = card.Color
	}

	steps := 1
	switch card.Type {
	case deck.Skip:
		steps = 2
	case deck.Reverse:
		if len(r.Players) == 2 {
			// heads-up reverse acts as a skip: the same player goes again
			steps = 2
		} else {
			r.Direction = -r.Direction
			result.Reversed = true
		}
	case deck.DrawTwo:
		r.PendingDraw += 2
	case deck.Wild:
		r.ActiveColor = chosen
	case deck.WildDrawFour:
		r.ActiveColor = chosen
		r.PendingDraw += 4
	}
	result.Color = r.ActiveColor

	if len(player.Hand) == 0 {
		r.WinnerID = player.ID
		result.Won = true
		return result, nil
	}

	if steps == 2 {
		result.Skipped = r.Players[r.nextIndex(1)].ID
	}
	r.Current = r.nextIndex(steps)
	return result, nil
}

// applyDraw draws cards according to mode. Penalty and voluntary draws act
// for playerIndex, which must hold the turn, and end that turn. Challenge
// draws put count cards into target's hand and leave the turn alone.
func (r *Round) applyDraw(playerIndex int, mode DrawMode, count int, target int) (drawResult, error) {
	if r.Over() {
		return drawResult{}, ErrHandOver
	}

	switch mode {
	case DrawPenalty, DrawVoluntary:
		if playerIndex < 0 || playerIndex >= len(r.Players) {
			return drawResult{}, fmt.Errorf("seat %d: %w", playerIndex, ErrUnknownPlayer)
		}
		if playerIndex != r.Current {
			return drawResult{}, fmt.Errorf("%w: not %s's turn", ErrIllegalMove, r.Players[playerIndex].Name)
		}
		if mode == DrawPenalty && r.PendingDraw == 0 {
			return drawResult{}, fmt.Errorf("%w: no penalty to draw", ErrIllegalMove)
		}
		if mode == DrawVoluntary && r.PendingDraw > 0 {
			return drawResult{}, fmt.Errorf("%w: must resolve pending draw of %d", ErrIllegalMove, r.PendingDraw)
		}
	case DrawChallengePenalty:
		if target < 0 || target >= len(r.Players) {
			return drawResult{}, fmt.Errorf("seat %d: %w", target, ErrUnknownPlayer)
		}
		if count < 1 {
			return drawResult{}, fmt.Errorf("%w: draw count %d", ErrIllegalMove, count)
		}
	default:
		return drawResult{}, fmt.Errorf("%w: unknown draw mode %d", ErrIllegalMove, int(mode))
	}

	var res drawResult
	switch mode {
	case DrawPenalty:
		res = r.drawInto(playerIndex, r.PendingDraw)
		r.PendingDraw = 0
		r.advance()
	case DrawVoluntary:
		res = r.drawInto(playerIndex, 1)
		r.advance()
	case DrawChallengePenalty:
		res = r.drawInto(target, count)
	}
	return res, nil
}

// drawInto moves up to count cards from the deck into a hand, reshuffling
// the discard pile beneath the top card whenever the deck runs out. If both
// piles are exhausted drawing stops early.
func (r *Round) drawInto(index, count int) drawResult {
	player := r.Players[index]
	res := drawResult{PlayerID: player.ID}
	for range count {
		if len(r.Deck) == 0 {
			if !r.reshuffle() {
				break
			}
			res.Reshuffled++
		}
		card := r.Deck[0]
		r.Deck = r.Deck[1:]
		player.Hand = append(player.Hand, card)
		res.Cards = append(res.Cards, card)
	}
	r.Call.observe(player)
	return res
}

// reshuffle turns every discard except the top card into a new deck
func (r *Round) reshuffle() bool {
	if len(r.Discard) <= 1 {
		return false
	}
	top := r.Discard[len(r.Discard)-1]
	r.Deck = deck.Shuffle(r.Discard[:len(r.Discard)-1], r.rng)
	r.Discard = []deck.Card{top}
	r.Reshuffles++
	return true
}

func (r *Round) clone() *Round {
	cp := *r
	cp.Players = make([]*Player, len(r.Players))
	for i, p := range r.Players {
		cp.Players[i] = p.clone()
	}
	cp.Deck = append([]deck.Card(nil), r.Deck...)
	cp.Discard = append([]deck.Card(nil), r.Discard...)
	cp.Call = r.Call.clone()
	return &cp
}
