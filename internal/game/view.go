package game

import (
	"fmt"

	"github.com/lox/lastcard/internal/deck"
)

// RoundView is a read-only snapshot of the current hand for presentation layers
type RoundView struct {
	MatchID     string
	HandNumber  int
	Players     []PlayerView
	TopCard     deck.Card
	ActiveColor deck.Color
	PendingDraw int
	Current     int
	Direction   Direction
	DeckSize    int
	DiscardSize int
	WinnerID    string
	Call        CallState
}

// CurrentPlayer returns the view of the player whose turn it is
func (v RoundView) CurrentPlayer() PlayerView {
	return v.Players[v.Current]
}

// Over reports whether the hand has a winner
func (v RoundView) Over() bool {
	return v.WinnerID != ""
}

// Player looks up a seat by id
func (v RoundView) Player(id string) (PlayerView, bool) {
	for _, p := range v.Players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerView{}, false
}

// view builds a RoundView. Callers hold the lock.
func (e *Engine) view() RoundView {
	r := e.round
	return RoundView{
		MatchID:     e.id,
		HandNumber:  e.currentHandNumber(),
		Players:     e.playerViews(),
		TopCard:     r.TopCard(),
		ActiveColor: r.ActiveColor,
		PendingDraw: r.PendingDraw,
		Current:     r.Current,
		Direction:   r.Direction,
		DeckSize:    len(r.Deck),
		DiscardSize: len(r.Discard),
		WinnerID:    r.WinnerID,
		Call:        r.Call.clone(),
	}
}

// currentHandNumber is the number of the hand being played, or of the hand
// just finished once the match state has moved on.
func (e *Engine) currentHandNumber() int {
	if e.round.Over() {
		return e.match.HandNumber - 1
	}
	return e.match.HandNumber
}

func (e *Engine) playerViews() []PlayerView {
	views := make([]PlayerView, len(e.round.Players))
	for i, p := range e.round.Players {
		views[i] = p.view()
	}
	return views
}

// Round returns a snapshot of the current hand
func (e *Engine) Round() RoundView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view()
}

// Match returns a copy of the match scores
func (e *Engine) Match() MatchState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.match.clone()
}

// Hand returns a copy of a player's hand
func (e *Engine) Hand(playerID string) ([]deck.Card, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx, ok := e.round.playerIndex(playerID)
	if !ok {
		return nil, fmt.Errorf("%q: %w", playerID, ErrUnknownPlayer)
	}
	return append([]deck.Card(nil), e.round.Players[idx].Hand...), nil
}

// TopCard returns the top of the discard pile
func (e *Engine) TopCard() deck.Card {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.round.TopCard()
}

// ActiveColor returns the color the next play must match
func (e *Engine) ActiveColor() deck.Color {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.round.ActiveColor
}

// PendingDraw returns the forced-draw penalty owed by the current player
func (e *Engine) PendingDraw() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.round.PendingDraw
}

// CurrentPlayer returns the player whose turn it is
func (e *Engine) CurrentPlayer() PlayerView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.round.CurrentPlayer().view()
}

// LegalPlays returns the indexes of the current player's legal cards
func (e *Engine) LegalPlays() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	r := e.round
	if r.Over() {
		return nil
	}
	return LegalPlays(r.CurrentPlayer().Hand, r.TopCard(), r.ActiveColor, r.PendingDraw)
}

// IsMatchOver reports whether any total has reached the target score
func (e *Engine) IsMatchOver() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.match.IsMatchOver()
}
