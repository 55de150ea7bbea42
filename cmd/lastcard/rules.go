package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/lox/lastcard/internal/deck"
	"github.com/lox/lastcard/internal/game"
)

type RulesCmd struct{}

func (c *RulesCmd) Run() error {
	return printRules(os.Stdout)
}

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))

// cardKinds lists one row per kind of card in catalog order
var cardKinds = []struct {
	name   string
	sample deck.Card
	effect string
}{
	{"Number 0-9", deck.NewNumber(deck.Red, 7), "none"},
	{"Skip", deck.NewAction(deck.Red, deck.Skip), "next player loses their turn"},
	{"Reverse", deck.NewAction(deck.Red, deck.Reverse), "direction flips; acts as Skip with two players"},
	{"Draw Two", deck.NewAction(deck.Red, deck.DrawTwo), "next player owes 2, stackable with Draw Two"},
	{"Wild", deck.NewWild(deck.Wild), "player chooses the color"},
	{"Wild Draw Four", deck.NewWild(deck.WildDrawFour), "chooses color, next owes 4; only without the active color"},
}

func printRules(w io.Writer) error {
	counts := make(map[deck.Type]int)
	for _, card := range deck.BuildStandardDeck() {
		counts[card.Type]++
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Card", "Code", "In deck", "Points", "Effect")
	for _, kind := range cardKinds {
		points := strconv.Itoa(kind.sample.Score())
		if kind.sample.Type == deck.Number {
			points = "face value"
		}
		t.Row(kind.name, kind.sample.String(), strconv.Itoa(counts[kind.sample.Type]), points, kind.effect)
	}

	_, err := fmt.Fprintf(w, "%s\n%s\n\n%s\n",
		titleStyle.Render(fmt.Sprintf("Deck: %d cards", deck.Size)),
		t.Render(),
		fmt.Sprintf("Empty your hand to score the points left in every other hand.\n"+
			"First to %d wins the match. Call \"last card\" on your last card or draw %d if challenged.",
			game.DefaultTargetScore, game.ChallengePenalty))
	return err
}
