package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/lox/lastcard/internal/deck"
	"github.com/lox/lastcard/internal/gameid"
)

// StateVersion is bumped whenever the State layout changes incompatibly
const StateVersion = 2

// State is the complete, serializable model of a match in progress.
// CardTotal is the number of cards the current hand was dealt from.
type State struct {
	Version   int        `json:"version"`
	MatchID   string     `json:"match_id"`
	HandSize  int        `json:"hand_size"`
	CardTotal int        `json:"card_total"`
	SavedAt   time.Time  `json:"saved_at"`
	Round     *Round     `json:"round"`
	Match     MatchState `json:"match"`
}

// Snapshot returns a deep copy of the engine state
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return State{
		Version:   StateVersion,
		MatchID:   e.id,
		HandSize:  e.handSize,
		CardTotal: e.cardTotal,
		SavedAt:   time.Now().UTC(),
		Round:     e.round.clone(),
		Match:     e.match.clone(),
	}
}

// Restore rebuilds an engine from a snapshot. Options supply what a snapshot
// does not carry: RNG, logger, event bus and deck source for later hands.
func Restore(state State, opts ...Option) (*Engine, error) {
	if err := state.Validate(); err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	cfg.handSize = state.HandSize
	cfg.targetScore = state.Match.TargetScore
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.finish()

	e := newEngine(state.MatchID, cfg)
	e.round = state.Round.clone()
	e.round.rng = cfg.rng
	e.match = state.Match.clone()
	e.cardTotal = state.CardTotal

	e.logger.Info("Restored match",
		"hand", e.currentHandNumber(),
		"current", e.round.CurrentPlayer().Name)
	return e, nil
}

// Validate checks that a snapshot describes a consistent match
func (s State) Validate() error {
	var errs []error
	if s.Version != StateVersion {
		errs = append(errs, fmt.Errorf("unsupported state version %d", s.Version))
	}
	if err := gameid.Validate(s.MatchID); err != nil {
		errs = append(errs, err)
	}
	if s.HandSize < 1 {
		errs = append(errs, fmt.Errorf("invalid hand size %d", s.HandSize))
	}
	if s.Match.TargetScore < 1 {
		errs = append(errs, fmt.Errorf("invalid target score %d", s.Match.TargetScore))
	}
	if s.Match.HandNumber < 1 {
		errs = append(errs, fmt.Errorf("invalid hand number %d", s.Match.HandNumber))
	}

	r := s.Round
	if r == nil {
		errs = append(errs, errors.New("missing round"))
		return errors.Join(errs...)
	}
	if len(r.Players) < 2 {
		errs = append(errs, fmt.Errorf("need at least 2 players, got %d", len(r.Players)))
	}
	if r.Current < 0 || r.Current >= len(r.Players) {
		errs = append(errs, fmt.Errorf("current seat %d out of range", r.Current))
	}
	if r.Direction != Clockwise && r.Direction != CounterClockwise {
		errs = append(errs, fmt.Errorf("invalid direction %d", r.Direction))
	}
	if len(r.Discard) == 0 {
		errs = append(errs, errors.New("empty discard pile"))
	}
	if got := r.CardCount(); got != s.CardTotal {
		errs = append(errs, fmt.Errorf("round holds %d cards, dealt %d", got, s.CardTotal))
	}
	if r.PendingDraw < 0 {
		errs = append(errs, fmt.Errorf("negative pending draw %d", r.PendingDraw))
	}
	if r.PendingDraw > 0 && len(r.Discard) > 0 && !r.TopCard().Type.IsPenalty() {
		errs = append(errs, fmt.Errorf("pending draw %d on %s", r.PendingDraw, r.TopCard()))
	}

	seen := make(map[string]bool)
	check := func(where string, cards []deck.Card) {
		for _, c := range cards {
			if err := c.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", where, err))
			}
			if seen[c.ID] {
				errs = append(errs, fmt.Errorf("%s: duplicate card %s", where, c.ID))
			}
			seen[c.ID] = true
		}
	}
	check("deck", r.Deck)
	check("discard", r.Discard)
	for _, p := range r.Players {
		if p == nil {
			errs = append(errs, errors.New("nil player"))
			continue
		}
		check("player "+p.ID, p.Hand)
	}

	return errors.Join(errs...)
}
