package bot

import (
	rand "math/rand/v2"
	"sync"
)

// Default probabilities for the two reflexes bots have outside their turn
const (
	DefaultDeclareProbability   = 0.8
	DefaultChallengeProbability = 0.7
)

// Instincts decides the side actions around a turn: whether a bot remembers
// to announce its last card, and whether it notices a rival who did not.
type Instincts interface {
	ShouldDeclare() bool
	ShouldChallenge() bool
}

// Probabilistic rolls against fixed probabilities. Safe for concurrent use.
type Probabilistic struct {
	declare   float64
	challenge float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewProbabilistic returns instincts that declare and challenge with the
// given probabilities, clamped to [0, 1].
func NewProbabilistic(declare, challenge float64, rng *rand.Rand) *Probabilistic {
	return &Probabilistic{
		declare:   clamp(declare),
		challenge: clamp(challenge),
		rng:       rng,
	}
}

func (p *Probabilistic) ShouldDeclare() bool {
	return p.roll(p.declare)
}

func (p *Probabilistic) ShouldChallenge() bool {
	return p.roll(p.challenge)
}

func (p *Probabilistic) roll(prob float64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Float64() < prob
}

func clamp(p float64) float64 {
	return min(max(p, 0), 1)
}

// Fixed always answers the same way, for deterministic tests
type Fixed struct {
	Declare   bool
	Challenge bool
}

func (f Fixed) ShouldDeclare() bool   { return f.Declare }
func (f Fixed) ShouldChallenge() bool { return f.Challenge }
