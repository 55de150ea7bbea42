// Package simulator plays bot-only matches in parallel and aggregates the results.
package simulator

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/lastcard/internal/autoplay"
	"github.com/lox/lastcard/internal/bot"
	"github.com/lox/lastcard/internal/deck"
	"github.com/lox/lastcard/internal/game"
	"github.com/lox/lastcard/internal/randutil"
	"github.com/lox/lastcard/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for running simulations
type Config struct {
	Matches              int
	Opponents            int
	TargetScore          int
	HandSize             int
	Seed                 int64 // 0 picks a time-based seed
	Workers              int   // 0 uses GOMAXPROCS
	DeclareProbability   float64
	ChallengeProbability float64
	Timeout              time.Duration // per match, 0 for none
	Logger               *log.Logger
}

// DefaultConfig returns a configuration with the standard rules
func DefaultConfig() Config {
	return Config{
		Matches:              100,
		Opponents:            3,
		TargetScore:          game.DefaultTargetScore,
		HandSize:             deck.DefaultHandSize,
		DeclareProbability:   bot.DefaultDeclareProbability,
		ChallengeProbability: bot.DefaultChallengeProbability,
		Timeout:              30 * time.Second,
	}
}

// Result is the aggregated outcome of a simulation run
type Result struct {
	Seed     int64
	Stats    *statistics.Statistics
	Duration time.Duration
}

// Run plays cfg.Matches independent matches. Match i is seeded from
// randutil.Derive(seed, i), so results do not depend on the worker count.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Matches < 1 {
		return nil, fmt.Errorf("matches must be positive, got %d", cfg.Matches)
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, cfg.Matches)
	seed := randutil.Resolve(cfg.Seed)
	logger := cfg.Logger.WithPrefix("simulator")

	logger.Info("Starting simulation", "matches", cfg.Matches, "opponents", cfg.Opponents, "workers", workers, "seed", seed)
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan int)
	results := make(chan *statistics.Statistics, workers)

	g.Go(func() error {
		defer close(jobs)
		for i := range cfg.Matches {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for range workers {
		g.Go(func() error {
			stats := &statistics.Statistics{}
			for i := range jobs {
				if err := playMatch(ctx, cfg, randutil.Derive(seed, i), stats); err != nil {
					return fmt.Errorf("match %d: %w", i, err)
				}
			}
			select {
			case results <- stats:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	go func() {
		defer close(results)
		g.Wait()
	}()

	total := &statistics.Statistics{}
	for stats := range results {
		total.Merge(stats)
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := total.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	result := &Result{Seed: seed, Stats: total, Duration: time.Since(start)}
	logger.Info("Simulation finished", "matches", total.Matches, "hands", total.Hands, "duration", result.Duration)
	return result, nil
}

// playMatch runs one complete match and records it into stats
func playMatch(ctx context.Context, cfg Config, seed int64, stats *statistics.Statistics) error {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	rec := &recorder{seed: seed, stats: stats}
	bus := game.NewEventBus()
	bus.Subscribe(rec)

	e, err := game.StartMatch(cfg.Opponents,
		game.WithSeed(seed),
		game.WithAllAutomated(),
		game.WithTargetScore(cfg.TargetScore),
		game.WithHandSize(cfg.HandSize),
		game.WithEventBus(bus),
		game.WithLogger(cfg.Logger))
	if err != nil {
		return err
	}

	d := autoplay.New(e,
		autoplay.WithSeed(seed),
		autoplay.WithProbabilities(cfg.DeclareProbability, cfg.ChallengeProbability),
		autoplay.WithLogger(cfg.Logger))
	if err := d.PlayMatch(ctx); err != nil {
		return fmt.Errorf("seed %d: %w", seed, err)
	}
	if err := e.ValidateCardConservation(); err != nil {
		return fmt.Errorf("seed %d: %w", seed, err)
	}
	return nil
}

// recorder turns engine events into statistics. It runs on the goroutine
// driving the match, so it needs no locking.
type recorder struct {
	seed       int64
	stats      *statistics.Statistics
	reshuffles int
	hands      int
}

func (r *recorder) OnEvent(event game.GameEvent) {
	switch ev := event.(type) {
	case game.DeckReshuffledEvent:
		r.reshuffles++
	case game.LastCardDeclaredEvent:
		r.stats.Declarations++
	case game.ChallengeResolvedEvent:
		if ev.Outcome == game.ChallengeUpheld {
			r.stats.ChallengesUpheld++
		} else {
			r.stats.ChallengesRejected++
		}
	case game.HandEndedEvent:
		r.stats.Add(statistics.HandResult{
			Seed:       r.seed,
			HandNumber: ev.HandNumber,
			WinnerSeat: seat(ev.Winner.ID),
			Score:      ev.Score,
			Reshuffles: r.reshuffles,
		})
		r.reshuffles = 0
		r.hands++
	case game.MatchEndedEvent:
		r.stats.AddMatch(statistics.MatchResult{
			Seed:       r.seed,
			WinnerSeat: seat(ev.Winner.ID),
			Hands:      r.hands,
			Total:      ev.TotalScores[ev.Winner.ID],
		})
		r.hands = 0
	}
}

// seat maps a player id back to its seat index; ids are seat numbers
func seat(id string) int {
	n, err := strconv.Atoi(id)
	if err != nil {
		return -1
	}
	return n
}
