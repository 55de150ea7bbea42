package game

import (
	"testing"

	"github.com/lox/lastcard/internal/deck"
	"github.com/stretchr/testify/assert"
)

func TestCallStateRequiresDeclarationAtOneCard(t *testing.T) {
	t.Parallel()

	p := &Player{ID: "1", Hand: deck.MustParseCards("R1")}
	var c CallState
	c.observe(p)
	assert.Equal(t, "1", c.Holder)
	assert.True(t, c.Required)

	c.declare("1")
	assert.False(t, c.Required)
	assert.True(t, c.HasDeclared("1"))
}

func TestCallStateEarlyDeclarationCarriesOver(t *testing.T) {
	t.Parallel()

	p := &Player{ID: "2", Hand: deck.MustParseCards("R1")}
	var c CallState
	c.declare("2")
	c.observe(p)
	assert.False(t, c.Required)
	assert.True(t, c.HasDeclared("2"))
}

func TestCallStateClearsWhenHandGrows(t *testing.T) {
	t.Parallel()

	p := &Player{ID: "1", Hand: deck.MustParseCards("R1")}
	var c CallState
	c.observe(p)
	c.declare("1")

	p.Hand = deck.MustParseCards("R1 B2 B3")
	c.observe(p)
	assert.Empty(t, c.Declared)
	assert.Empty(t, c.Holder)
	assert.False(t, c.Required)
}

func TestCallStateKeepsEveryDeclaration(t *testing.T) {
	t.Parallel()

	p := &Player{ID: "0", Hand: deck.MustParseCards("R1")}
	var c CallState
	c.observe(p)
	c.declare("0")
	c.declare("1")
	c.declare("1")
	assert.True(t, c.HasDeclared("0"))
	assert.True(t, c.HasDeclared("1"))
	assert.Equal(t, []string{"0", "1"}, c.Declared)
	assert.False(t, c.Required)

	p.Hand = deck.MustParseCards("R1 B2")
	c.observe(p)
	assert.Equal(t, []string{"1"}, c.Declared)
}

func TestChallengeOutcomeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "upheld", ChallengeUpheld.String())
	assert.Equal(t, "rejected", ChallengeRejected.String())
}
