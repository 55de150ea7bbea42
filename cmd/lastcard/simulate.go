package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/lox/lastcard/internal/simulator"
)

type SimulateCmd struct {
	Config    string        `short:"c" default:"lastcard.hcl" help:"Path to HCL configuration file"`
	Matches   int           `short:"m" default:"1000" help:"Number of matches to play"`
	Opponents int           `short:"o" help:"Number of bots per match besides seat 0 (overrides config)"`
	Target    int           `short:"t" help:"Score that wins a match (overrides config)"`
	Seed      int64         `help:"RNG seed, 0 for random (overrides config)"`
	Workers   int           `short:"w" help:"Parallel workers, 0 for one per CPU"`
	Timeout   time.Duration `default:"30s" help:"Give up on a single match after this long"`
	LogLevel  string        `short:"l" help:"Log level (overrides config)"`
}

func (c *SimulateCmd) Run() error {
	cfg, err := loadConfig(c.Config, c.Opponents, c.Target, c.Seed, c.LogLevel)
	if err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := simulator.Run(ctx, simulator.Config{
		Matches:              c.Matches,
		Opponents:            cfg.Match.Opponents,
		TargetScore:          cfg.Match.TargetScore,
		HandSize:             cfg.Match.HandSize,
		Seed:                 cfg.Match.Seed,
		Workers:              c.Workers,
		DeclareProbability:   cfg.Bot.DeclareProbability,
		ChallengeProbability: cfg.Bot.ChallengeProbability,
		Timeout:              c.Timeout,
		Logger:               logger,
	})
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	printResults(os.Stdout, result, cfg.Match.Opponents+1)
	return nil
}

func printResults(w io.Writer, result *simulator.Result, seats int) {
	stats := result.Stats
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "=== SIMULATION RESULTS ===\n")
	fmt.Fprintf(w, "Seed: %d\n", result.Seed)
	fmt.Fprintf(w, "Matches: %d, Hands: %d (%.1f hands/match)\n",
		stats.Matches, stats.Hands, float64(stats.Hands)/float64(stats.Matches))
	fmt.Fprintf(w, "Duration: %s (%.1f matches/sec)\n",
		result.Duration.Round(time.Millisecond), float64(stats.Matches)/result.Duration.Seconds())
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "Hand score: %.2f mean, %.2f median, %d max\n", stats.Mean(), stats.Median(), stats.MaxScore)
	fmt.Fprintf(w, "Std dev: %.2f, 95%% CI: [%.2f, %.2f]\n", stats.StdDev(), low, high)
	fmt.Fprintf(w, "Percentiles: p10 %.0f, p90 %.0f\n", stats.Percentile(0.1), stats.Percentile(0.9))
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "Seat   Hand wins   Match wins\n")
	for seat := range seats {
		fmt.Fprintf(w, "%-6d %8.1f%%   %9.1f%%\n", seat, stats.HandWinRate(seat)*100, stats.MatchWinRate(seat)*100)
	}
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "Reshuffles: %d (%.2f per hand)\n", stats.Reshuffles, float64(stats.Reshuffles)/float64(stats.Hands))
	fmt.Fprintf(w, "Declarations: %d\n", stats.Declarations)
	fmt.Fprintf(w, "Challenges: %d upheld, %d rejected\n", stats.ChallengesUpheld, stats.ChallengesRejected)
}
