package simulator

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Matches = 6
	cfg.TargetScore = 150
	cfg.Seed = 12345
	cfg.Timeout = 10 * time.Second
	cfg.Logger = log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
	return cfg
}

func TestRun(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Workers = 3
	result, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	stats := result.Stats
	assert.Equal(t, int64(12345), result.Seed)
	assert.Equal(t, 6, stats.Matches)
	assert.GreaterOrEqual(t, stats.Hands, stats.Matches)
	assert.Positive(t, stats.Mean())
	assert.GreaterOrEqual(t, float64(stats.MaxScore), stats.Mean())
	assert.LessOrEqual(t, len(stats.HandWins), cfg.Opponents+1)
	require.NoError(t, stats.Validate())
}

func TestRunIsIndependentOfWorkerCount(t *testing.T) {
	t.Parallel()

	one := testConfig()
	one.Workers = 1
	many := testConfig()
	many.Workers = 4

	a, err := Run(context.Background(), one)
	require.NoError(t, err)
	b, err := Run(context.Background(), many)
	require.NoError(t, err)

	assert.Equal(t, a.Stats.Hands, b.Stats.Hands)
	assert.Equal(t, a.Stats.SumScore, b.Stats.SumScore)
	assert.Equal(t, a.Stats.HandWins, b.Stats.HandWins)
	assert.Equal(t, a.Stats.MatchWins, b.Stats.MatchWins)
	assert.Equal(t, a.Stats.ChallengesUpheld, b.Stats.ChallengesUpheld)
	assert.Equal(t, a.Stats.Median(), b.Stats.Median())
}

func TestRunRejectsBadConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Matches = 0
	_, err := Run(context.Background(), cfg)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Opponents = 0
	_, err = Run(context.Background(), cfg)
	assert.Error(t, err)
}

func TestRunHonoursCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, testConfig())
	assert.ErrorIs(t, err, context.Canceled)
}
