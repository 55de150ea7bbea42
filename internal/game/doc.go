// Package game implements the rules engine for a last-card shedding game
// played by one human seat and several automated opponents.
//
// The main type is Engine, which owns the deck, discard pile, hands, turn
// order, active color, pending draw penalty and the match scores. All
// methods are synchronous critical sections, so a presentation layer can call
// them from any goroutine.
//
// # Basic Usage
//
// Start a match against three bots and play for the current player:
//
//	e, err := game.StartMatch(3, game.WithSeed(42))
//	if err != nil {
//	    return err
//	}
//	view, err := e.AttemptPlay(0, deck.NoColor)
//	if errors.Is(err, game.ErrIllegalMove) {
//	    view, err = e.AttemptDraw()
//	}
//	if view.Over() && !e.IsMatchOver() {
//	    view, err = e.StartHand()
//	}
//
// # Deterministic Testing
//
// Randomness is injected: WithSeed or WithRNG control shuffles and
// reshuffles, and WithFixedDeck deals every hand from a known ordering:
//
//	cards := deck.MustParseCards("R5 ... ")
//	e, _ := game.StartMatch(1, game.WithFixedDeck(cards), game.WithHandSize(1))
//
// # Architecture
//
// Engine delegates to small, separately testable pieces:
//   - IsLegalPlay: pure legality check, shared with the bot policy
//   - Round: the turn state machine (plays, draws, reshuffles, advancement)
//   - CallState: last-card declarations and challenges
//   - MatchState: hand scoring and accumulation toward the target score
//   - EventBus: synchronous change notifications, published after the
//     engine lock is released so subscribers may call back in
package game
