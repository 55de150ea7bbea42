package randutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsDeterministic(t *testing.T) {
	t.Parallel()

	a, b := New(42), New(42)
	for range 10 {
		assert.Equal(t, a.IntN(1000), b.IntN(1000))
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(7), Resolve(7))
	assert.NotZero(t, Resolve(0))
}

func TestDeriveProducesDistinctSeeds(t *testing.T) {
	t.Parallel()

	seen := make(map[int64]bool)
	for n := range 100 {
		s := Derive(1, n)
		assert.False(t, seen[s], "duplicate derived seed at %d", n)
		seen[s] = true
	}
}
