package game

import (
	"fmt"
	"maps"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/lastcard/internal/deck"
	"github.com/lox/lastcard/internal/gameid"
)

// MaxOpponents bounds the automated seats so opening hands fit in the deck
const MaxOpponents = 9

// Engine owns the round and match state of one match. Every method is a
// critical section: concurrent callers are serialized, never interleaved.
type Engine struct {
	mu sync.Mutex

	id         string
	seed       int64
	rng        *rand.Rand
	logger     *log.Logger
	bus        EventBus
	handSize   int
	deckSource DeckSource

	round     *Round
	match     MatchState
	cardTotal int
}

// StartMatch creates a match between the human seat and the given number of
// automated opponents, and deals the first hand.
func StartMatch(opponents int, opts ...Option) (*Engine, error) {
	if opponents < 1 || opponents > MaxOpponents {
		return nil, fmt.Errorf("opponents must be between 1 and %d, got %d", MaxOpponents, opponents)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.targetScore < 1 {
		return nil, fmt.Errorf("target score must be positive, got %d", cfg.targetScore)
	}
	if cfg.handSize < 1 {
		return nil, fmt.Errorf("hand size must be positive, got %d", cfg.handSize)
	}
	cfg.finish()

	id, err := gameid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create match id: %w", err)
	}

	e := newEngine(id, cfg)
	e.match = NewMatchState(cfg.targetScore)
	e.logger.Info("Starting match", "opponents", opponents, "target", cfg.targetScore, "seed", cfg.seed)

	events, err := e.deal(newSeats(opponents, cfg.allAutomated))
	if err != nil {
		return nil, err
	}
	e.publish(events)
	return e, nil
}

func newEngine(id string, cfg *engineConfig) *Engine {
	return &Engine{
		id:         id,
		seed:       cfg.seed,
		rng:        cfg.rng,
		logger:     cfg.logger.WithPrefix("engine").With("match", gameid.Short(id)),
		bus:        cfg.bus,
		handSize:   cfg.handSize,
		deckSource: cfg.deckSource,
	}
}

// ID returns the match id
func (e *Engine) ID() string {
	return e.id
}

// Seed returns the seed the engine RNG was created from, or 0 if an RNG was injected
func (e *Engine) Seed() int64 {
	return e.seed
}

// Events returns the bus the engine publishes to
func (e *Engine) Events() EventBus {
	return e.bus
}

// StartHand re-deals for the next hand, keeping match totals.
func (e *Engine) StartHand() (RoundView, error) {
	e.mu.Lock()
	if e.match.IsMatchOver() {
		e.mu.Unlock()
		return RoundView{}, ErrMatchOver
	}
	if !e.round.Over() {
		e.mu.Unlock()
		return RoundView{}, ErrHandInProgress
	}

	events, err := e.deal(e.round.Players)
	if err != nil {
		e.mu.Unlock()
		return RoundView{}, err
	}
	view := e.view()
	e.mu.Unlock()

	e.publish(events)
	return view, nil
}

// deal builds a new round for players. Callers hold the lock.
func (e *Engine) deal(players []*Player) ([]GameEvent, error) {
	cards := e.deckSource(e.rng)
	round, err := newRound(players, cards, e.handSize, e.rng)
	if err != nil {
		return nil, fmt.Errorf("failed to deal hand %d: %w", e.match.HandNumber, err)
	}
	e.round = round
	e.cardTotal = round.CardCount()

	e.logger.Debug("Dealt hand",
		"hand", e.match.HandNumber,
		"top", round.TopCard(),
		"deck", len(round.Deck))

	return []GameEvent{HandStartedEvent{
		MatchID:     e.id,
		HandNumber:  e.match.HandNumber,
		TopCard:     round.TopCard(),
		FirstPlayer: round.CurrentPlayer().view(),
		Players:     e.playerViews(),
		timestamp:   time.Now(),
	}}, nil
}

// AttemptPlay plays the card at cardIndex for whoever holds the turn.
// color is required for wild cards and ignored otherwise.
func (e *Engine) AttemptPlay(cardIndex int, color deck.Color) (RoundView, error) {
	return e.play(func(r *Round) int { return r.Current }, cardIndex, color)
}

// Play plays the card at cardIndex from seat playerIndex, which must hold the turn.
func (e *Engine) Play(playerIndex, cardIndex int, color deck.Color) (RoundView, error) {
	return e.play(func(*Round) int { return playerIndex }, cardIndex, color)
}

func (e *Engine) play(seat func(*Round) int, cardIndex int, color deck.Color) (RoundView, error) {
	e.mu.Lock()
	r := e.round
	reshuffles := r.Reshuffles
	playerIndex := seat(r)
	res, err := r.applyPlay(playerIndex, cardIndex, color)
	if err != nil {
		e.mu.Unlock()
		e.logger.Debug("Rejected play", "seat", playerIndex, "index", cardIndex, "error", err)
		return RoundView{}, err
	}

	player := r.Players[playerIndex]
	e.logger.Debug("Card played",
		"player", player.Name,
		"card", res.Card,
		"color", res.Color,
		"pending", r.PendingDraw,
		"left", len(player.Hand))

	event := CardPlayedEvent{
		Player:      player.view(),
		Card:        res.Card,
		ActiveColor: res.Color,
		PendingDraw: r.PendingDraw,
		SkippedID:   res.Skipped,
		Reversed:    res.Reversed,
		timestamp:   time.Now(),
	}
	if !res.Won {
		event.Next = r.CurrentPlayer().view()
	}
	events := e.reshuffleEvents(reshuffles, []GameEvent{event})
	if res.Won {
		events = append(events, e.finishHand(player)...)
	}
	e.checkConservation()
	view := e.view()
	e.mu.Unlock()

	e.publish(events)
	return view, nil
}

// AttemptDraw draws for whoever holds the turn: the pending penalty if there
// is one, otherwise a single card. Either way the turn passes on.
func (e *Engine) AttemptDraw() (RoundView, error) {
	return e.draw(func(r *Round) int { return r.Current })
}

// Draw draws for seat playerIndex, which must hold the turn.
func (e *Engine) Draw(playerIndex int) (RoundView, error) {
	return e.draw(func(*Round) int { return playerIndex })
}

func (e *Engine) draw(seat func(*Round) int) (RoundView, error) {
	e.mu.Lock()
	mode := DrawVoluntary
	if e.round.PendingDraw > 0 {
		mode = DrawPenalty
	}
	events, err := e.applyDraw(seat(e.round), mode, 1, -1)
	if err != nil {
		e.mu.Unlock()
		return RoundView{}, err
	}
	view := e.view()
	e.mu.Unlock()

	e.publish(events)
	return view, nil
}

// applyDraw runs a draw and returns its events. Callers hold the lock.
func (e *Engine) applyDraw(playerIndex int, mode DrawMode, count, target int) ([]GameEvent, error) {
	r := e.round
	reshuffles := r.Reshuffles
	res, err := r.applyDraw(playerIndex, mode, count, target)
	if err != nil {
		e.logger.Debug("Rejected draw", "seat", playerIndex, "mode", mode, "error", err)
		return nil, err
	}

	idx, _ := r.playerIndex(res.PlayerID)
	drawer := r.Players[idx]
	e.logger.Debug("Cards drawn",
		"player", drawer.Name,
		"mode", mode,
		"count", len(res.Cards),
		"deck", len(r.Deck))

	e.checkConservation()
	return e.reshuffleEvents(reshuffles, []GameEvent{CardsDrawnEvent{
		Player:    drawer.view(),
		Count:     len(res.Cards),
		Mode:      mode,
		Next:      r.CurrentPlayer().view(),
		timestamp: time.Now(),
	}}), nil
}

// DeclareLastCard records that playerID has announced their last card.
// Early declarations are accepted; gating on hand size is up to the caller.
func (e *Engine) DeclareLastCard(playerID string) error {
	e.mu.Lock()
	r := e.round
	if r.Over() {
		e.mu.Unlock()
		return ErrHandOver
	}
	idx, ok := r.playerIndex(playerID)
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("%q: %w", playerID, ErrUnknownPlayer)
	}
	r.Call.declare(playerID)
	player := r.Players[idx]
	e.logger.Debug("Last card declared", "player", player.Name, "cards", len(player.Hand))
	event := LastCardDeclaredEvent{Player: player.view(), timestamp: time.Now()}
	e.mu.Unlock()

	e.publish([]GameEvent{event})
	return nil
}

// RaiseChallenge challenges targetID for holding one card without declaring.
// The losing side draws ChallengePenalty cards; the turn does not move.
func (e *Engine) RaiseChallenge(challengerID, targetID string) (ChallengeOutcome, error) {
	e.mu.Lock()
	r := e.round
	if r.Over() {
		e.mu.Unlock()
		return ChallengeRejected, ErrHandOver
	}
	challenger, ok := r.playerIndex(challengerID)
	if !ok {
		e.mu.Unlock()
		return ChallengeRejected, fmt.Errorf("challenger %q: %w", challengerID, ErrUnknownPlayer)
	}
	target, ok := r.playerIndex(targetID)
	if !ok {
		e.mu.Unlock()
		return ChallengeRejected, fmt.Errorf("target %q: %w", targetID, ErrUnknownPlayer)
	}
	if challenger == target {
		e.mu.Unlock()
		return ChallengeRejected, fmt.Errorf("%w: cannot challenge yourself", ErrIllegalMove)
	}

	outcome, penalized := ChallengeRejected, challenger
	if len(r.Players[target].Hand) == 1 && !r.Call.HasDeclared(targetID) {
		outcome, penalized = ChallengeUpheld, target
	}

	events, err := e.applyDraw(r.Current, DrawChallengePenalty, ChallengePenalty, penalized)
	if err != nil {
		e.mu.Unlock()
		return ChallengeRejected, err
	}

	e.logger.Debug("Challenge resolved",
		"challenger", r.Players[challenger].Name,
		"target", r.Players[target].Name,
		"outcome", outcome)

	events = append(events, ChallengeResolvedEvent{
		Challenger:  r.Players[challenger].view(),
		Target:      r.Players[target].view(),
		Outcome:     outcome,
		PenalizedID: r.Players[penalized].ID,
		timestamp:   time.Now(),
	})
	e.mu.Unlock()

	e.publish(events)
	return outcome, nil
}

// finishHand scores the hand won by winner. Callers hold the lock.
func (e *Engine) finishHand(winner *Player) []GameEvent {
	handNumber := e.match.HandNumber
	score := ScoreHand(e.round.Players, winner.ID)
	e.match = e.match.ApplyHandResult(winner.ID, score)

	e.logger.Info("Hand won",
		"hand", handNumber,
		"winner", winner.Name,
		"score", score,
		"total", e.match.TotalScores[winner.ID])

	events := []GameEvent{HandEndedEvent{
		HandNumber:  handNumber,
		Winner:      winner.view(),
		Score:       score,
		TotalScores: maps.Clone(e.match.TotalScores),
		timestamp:   time.Now(),
	}}

	if e.match.IsMatchOver() {
		e.logger.Info("Match won", "winner", winner.Name, "total", e.match.TotalScores[winner.ID])
		events = append(events, MatchEndedEvent{
			MatchID:     e.id,
			Winner:      winner.view(),
			TotalScores: maps.Clone(e.match.TotalScores),
			timestamp:   time.Now(),
		})
	}
	return events
}

func (e *Engine) reshuffleEvents(before int, events []GameEvent) []GameEvent {
	if e.round.Reshuffles == before {
		return events
	}
	e.logger.Debug("Reshuffled discard pile", "deck", len(e.round.Deck))
	reshuffle := DeckReshuffledEvent{DeckSize: len(e.round.Deck), timestamp: time.Now()}
	return append([]GameEvent{reshuffle}, events...)
}

// checkConservation logs if cards have appeared or vanished. Callers hold the lock.
func (e *Engine) checkConservation() {
	if err := e.validateConservation(); err != nil {
		e.logger.Error("Card conservation violated", "error", err)
	}
}

func (e *Engine) validateConservation() error {
	if got := e.round.CardCount(); got != e.cardTotal {
		return fmt.Errorf("card count %d, expected %d", got, e.cardTotal)
	}
	return nil
}

// ValidateCardConservation checks deck + discard + hands against the count dealt
func (e *Engine) ValidateCardConservation() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.validateConservation()
}

func (e *Engine) publish(events []GameEvent) {
	for _, event := range events {
		e.bus.Publish(event)
	}
}
