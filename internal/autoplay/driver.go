// Package autoplay drives automated seats through an Engine: it waits a
// think delay on an injectable clock, asks the bot policy for a move and
// submits it, and runs the last-card declare/challenge reflexes.
package autoplay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/lastcard/internal/bot"
	"github.com/lox/lastcard/internal/game"
	"github.com/lox/lastcard/internal/randutil"
)

var (
	// ErrNeedsHuman is returned by RunHand when the turn belongs to a human seat
	ErrNeedsHuman = errors.New("autoplay: waiting for a human player")
	// ErrStalled is returned when a hand runs past MaxTurnsPerHand
	ErrStalled = errors.New("autoplay: hand stalled")
)

// MaxTurnsPerHand bounds RunHand. Every card in play would have to cycle
// through the hands dozens of times to reach it.
const MaxTurnsPerHand = 10000

// Option configures a Driver
type Option func(*config)

type config struct {
	clock     quartz.Clock
	delay     time.Duration
	logger    *log.Logger
	seed      int64
	declare   float64
	challenge float64
	instincts bot.Instincts
}

// WithClock sets the clock used for think delays. Defaults to the real clock.
func WithClock(clock quartz.Clock) Option {
	return func(c *config) { c.clock = clock }
}

// WithDelay sets how long a bot "thinks" before each turn. Zero disables waiting.
func WithDelay(d time.Duration) Option {
	return func(c *config) { c.delay = d }
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithSeed seeds the bots. Defaults to the engine seed.
func WithSeed(seed int64) Option {
	return func(c *config) { c.seed = seed }
}

// WithProbabilities sets the declare and challenge probabilities of every bot
func WithProbabilities(declare, challenge float64) Option {
	return func(c *config) {
		c.declare = declare
		c.challenge = challenge
	}
}

// WithInstincts gives every bot the same instincts, overriding WithProbabilities
func WithInstincts(instincts bot.Instincts) Option {
	return func(c *config) { c.instincts = instincts }
}

// Driver plays the automated seats of one engine. Calls to Step and the Run
// methods must not overlap; the engine itself may be used concurrently.
type Driver struct {
	engine *game.Engine
	bots   map[string]*bot.Bot
	clock  quartz.Clock
	delay  time.Duration
	logger *log.Logger
}

// New creates a driver with one bot per automated seat of engine
func New(engine *game.Engine, opts ...Option) *Driver {
	cfg := &config{
		declare:   bot.DefaultDeclareProbability,
		challenge: bot.DefaultChallengeProbability,
		seed:      engine.Seed(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.clock == nil {
		cfg.clock = quartz.NewReal()
	}
	if cfg.logger == nil {
		cfg.logger = log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	}

	d := &Driver{
		engine: engine,
		bots:   make(map[string]*bot.Bot),
		clock:  cfg.clock,
		delay:  cfg.delay,
		logger: cfg.logger.WithPrefix("autoplay"),
	}
	for i, p := range engine.Round().Players {
		if !p.Automated {
			continue
		}
		rng := randutil.New(randutil.Derive(cfg.seed, i))
		instincts := cfg.instincts
		if instincts == nil {
			instincts = bot.NewProbabilistic(cfg.declare, cfg.challenge, rng)
		}
		d.bots[p.ID] = bot.New(rng, instincts, cfg.logger.With("player", p.Name))
	}
	return d
}

// Step plays one automated turn. It reports false without waiting when the
// hand is over or the turn belongs to a human.
func (d *Driver) Step(ctx context.Context) (bool, error) {
	view := d.engine.Round()
	if view.Over() {
		return false, nil
	}
	player := view.CurrentPlayer()
	b, ok := d.bots[player.ID]
	if !ok {
		return false, nil
	}

	if err := d.wait(ctx); err != nil {
		return false, err
	}
	if err := d.takeTurn(view.Current, player.ID, b); err != nil {
		return false, err
	}
	return true, nil
}

// RunUntilHuman plays automated turns until a human must act or the hand ends
func (d *Driver) RunUntilHuman(ctx context.Context) error {
	for {
		acted, err := d.Step(ctx)
		if err != nil {
			return err
		}
		if !acted {
			return nil
		}
	}
}

// RunHand plays the current hand to completion. Every seat to move must be
// automated, otherwise ErrNeedsHuman is returned.
func (d *Driver) RunHand(ctx context.Context) error {
	for turn := 0; turn < MaxTurnsPerHand; turn++ {
		acted, err := d.Step(ctx)
		if err != nil {
			return err
		}
		if acted {
			continue
		}
		if !d.engine.Round().Over() {
			return ErrNeedsHuman
		}
		return nil
	}
	return fmt.Errorf("%w after %d turns", ErrStalled, MaxTurnsPerHand)
}

// PlayMatch plays hands until the match is over
func (d *Driver) PlayMatch(ctx context.Context) error {
	for {
		if err := d.RunHand(ctx); err != nil {
			return err
		}
		if d.engine.IsMatchOver() {
			return nil
		}
		if _, err := d.engine.StartHand(); err != nil {
			return err
		}
	}
}

// wait blocks for the think delay or until ctx is done
func (d *Driver) wait(ctx context.Context) error {
	if d.delay <= 0 {
		return ctx.Err()
	}

	elapsed := make(chan struct{})
	timer := d.clock.AfterFunc(d.delay, func() {
		close(elapsed)
	}, "autoplay", "think")
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-elapsed:
		return nil
	}
}

func (d *Driver) takeTurn(seat int, id string, b *bot.Bot) error {
	view := d.engine.Round()
	if view.Over() || view.Current != seat {
		// someone else moved the game on while we were thinking
		return nil
	}

	if d.maybeChallenge(view, id, b) {
		view = d.engine.Round()
	}

	name := view.Players[seat].Name
	action := b.Decide(view)
	var err error
	switch action.Kind {
	case bot.Play:
		view, err = d.engine.Play(seat, action.CardIndex, action.Color)
	case bot.Draw:
		view, err = d.engine.Draw(seat)
	}
	if err != nil {
		// the policy only proposes legal moves, so this is a bug
		return fmt.Errorf("%s: %s: %w", name, action, err)
	}

	d.maybeDeclare(view, id, b)
	return nil
}

// maybeChallenge lets the bot call out a rival sitting on one undeclared card
func (d *Driver) maybeChallenge(view game.RoundView, id string, b *bot.Bot) bool {
	call := view.Call
	if !call.Required || call.Holder == "" || call.Holder == id {
		return false
	}
	holder, ok := view.Player(call.Holder)
	if !ok || holder.HandSize() != 1 {
		return false
	}
	if !b.Instincts().ShouldChallenge() {
		d.logger.Debug("Missed undeclared last card", "player", id, "holder", holder.Name)
		return false
	}

	outcome, err := d.engine.RaiseChallenge(id, holder.ID)
	if err != nil {
		d.logger.Warn("Challenge failed", "player", id, "target", holder.Name, "error", err)
		return false
	}
	d.logger.Debug("Challenge raised", "player", id, "target", holder.Name, "outcome", outcome)
	return true
}

// maybeDeclare lets the bot announce its last card right after playing down to one
func (d *Driver) maybeDeclare(view game.RoundView, id string, b *bot.Bot) {
	if view.Over() {
		return
	}
	player, ok := view.Player(id)
	if !ok || player.HandSize() != 1 || view.Call.HasDeclared(id) {
		return
	}
	if !b.Instincts().ShouldDeclare() {
		d.logger.Debug("Forgot to declare last card", "player", player.Name)
		return
	}
	if err := d.engine.DeclareLastCard(id); err != nil {
		d.logger.Warn("Declaration failed", "player", player.Name, "error", err)
	}
}
