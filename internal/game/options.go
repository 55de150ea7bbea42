package game

import (
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/lastcard/internal/deck"
	"github.com/lox/lastcard/internal/randutil"
)

// DeckSource produces the ordered deck for a new hand. Index 0 is dealt first.
type DeckSource func(rng *rand.Rand) []deck.Card

// ShuffledDeck is the default DeckSource: a fresh catalog, uniformly shuffled.
func ShuffledDeck(rng *rand.Rand) []deck.Card {
	return deck.Shuffle(deck.BuildStandardDeck(), rng)
}

// Option configures an Engine during creation.
type Option func(*engineConfig)

type engineConfig struct {
	seed         int64
	rng          *rand.Rand
	logger       *log.Logger
	bus          EventBus
	targetScore  int
	handSize     int
	deckSource   DeckSource
	allAutomated bool
}

func defaultConfig() *engineConfig {
	return &engineConfig{
		targetScore: DefaultTargetScore,
		handSize:    deck.DefaultHandSize,
		deckSource:  ShuffledDeck,
	}
}

func (c *engineConfig) finish() {
	if c.rng == nil {
		c.seed = randutil.Resolve(c.seed)
		c.rng = randutil.New(c.seed)
	}
	if c.logger == nil {
		c.logger = log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	}
	if c.bus == nil {
		c.bus = NewEventBus()
	}
}

// WithSeed seeds the engine RNG. Zero picks a time-based seed.
func WithSeed(seed int64) Option {
	return func(c *engineConfig) {
		c.seed = seed
	}
}

// WithRNG sets the random source used for shuffles and reshuffles.
// It takes precedence over WithSeed.
func WithRNG(rng *rand.Rand) Option {
	return func(c *engineConfig) {
		c.rng = rng
	}
}

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithEventBus publishes engine events to bus instead of a private one.
func WithEventBus(bus EventBus) Option {
	return func(c *engineConfig) {
		c.bus = bus
	}
}

// WithTargetScore sets the total that ends the match. Default is 500.
func WithTargetScore(score int) Option {
	return func(c *engineConfig) {
		c.targetScore = score
	}
}

// WithHandSize sets the number of cards dealt to each player. Default is 7.
func WithHandSize(n int) Option {
	return func(c *engineConfig) {
		c.handSize = n
	}
}

// WithDeckSource overrides how each hand's deck is produced, for example to
// force a specific ordering in tests.
func WithDeckSource(src DeckSource) Option {
	return func(c *engineConfig) {
		c.deckSource = src
	}
}

// WithFixedDeck deals every hand from a copy of cards in the given order.
func WithFixedDeck(cards []deck.Card) Option {
	return WithDeckSource(func(*rand.Rand) []deck.Card {
		return append([]deck.Card(nil), cards...)
	})
}

// WithAllAutomated marks the human seat as automated too, for simulations.
func WithAllAutomated() Option {
	return func(c *engineConfig) {
		c.allAutomated = true
	}
}
