package game

import (
	"fmt"

	"github.com/lox/lastcard/internal/deck"
)

// HumanID is the id of the single human seat, always seat 0.
const HumanID = "0"

// Player represents a seat in the match
type Player struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Hand      []deck.Card `json:"hand"`
	Automated bool        `json:"automated"`
}

// HandSize returns the number of cards the player holds
func (p *Player) HandSize() int {
	return len(p.Hand)
}

// HasColor reports whether the player holds a card of the given color
func (p *Player) HasColor(c deck.Color) bool {
	for _, card := range p.Hand {
		if card.Color == c {
			return true
		}
	}
	return false
}

func (p *Player) removeCard(index int) deck.Card {
	card := p.Hand[index]
	p.Hand = append(p.Hand[:index:index], p.Hand[index+1:]...)
	return card
}

func (p *Player) clone() *Player {
	cp := *p
	cp.Hand = append([]deck.Card(nil), p.Hand...)
	return &cp
}

// newSeats creates the human seat followed by the automated seats
func newSeats(opponents int, allAutomated bool) []*Player {
	players := make([]*Player, 0, opponents+1)
	players = append(players, &Player{ID: HumanID, Name: "Player 1", Automated: allAutomated})
	for i := 1; i <= opponents; i++ {
		players = append(players, &Player{
			ID:        fmt.Sprint(i),
			Name:      fmt.Sprintf("Bot %d", i),
			Automated: true,
		})
	}
	return players
}

// PlayerView is a read-only copy of a seat for presentation layers
type PlayerView struct {
	ID        string
	Name      string
	Automated bool
	Hand      []deck.Card
}

// HandSize returns the number of cards in the viewed hand
func (v PlayerView) HandSize() int {
	return len(v.Hand)
}

func (p *Player) view() PlayerView {
	return PlayerView{
		ID:        p.ID,
		Name:      p.Name,
		Automated: p.Automated,
		Hand:      append([]deck.Card(nil), p.Hand...),
	}
}
