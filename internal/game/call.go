package game

import "slices"

// ChallengeOutcome is the result of challenging a player's last-card call
type ChallengeOutcome int

const (
	// ChallengeUpheld means the target held one card without declaring it
	ChallengeUpheld ChallengeOutcome = iota
	// ChallengeRejected means the challenge was wrong and the challenger pays
	ChallengeRejected
)

// ChallengePenalty is the number of cards drawn by the losing side of a challenge
const ChallengePenalty = 4

func (o ChallengeOutcome) String() string {
	if o == ChallengeUpheld {
		return "upheld"
	}
	return "rejected"
}

// CallState tracks last-card declarations. Declared holds every player with
// a declaration on record; an entry lapses when that player's hand moves off
// one card. Holder is the player who most recently reached exactly one card
// and Required stays true until they declare or their hand size changes.
type CallState struct {
	Declared []string `json:"declared,omitempty"`
	Holder   string   `json:"holder,omitempty"`
	Required bool     `json:"required"`
}

// HasDeclared reports whether playerID has a declaration on record
func (c CallState) HasDeclared(playerID string) bool {
	return slices.Contains(c.Declared, playerID)
}

func (c *CallState) declare(playerID string) {
	if !c.HasDeclared(playerID) {
		c.Declared = append(c.Declared, playerID)
	}
	if c.Holder == playerID {
		c.Required = false
	}
}

// observe updates the call state after p's hand size changed
func (c *CallState) observe(p *Player) {
	if len(p.Hand) == 1 {
		c.Holder = p.ID
		c.Required = !c.HasDeclared(p.ID)
		return
	}
	c.Declared = slices.DeleteFunc(c.Declared, func(id string) bool { return id == p.ID })
	if c.Holder == p.ID {
		c.Holder = ""
		c.Required = false
	}
}

func (c CallState) clone() CallState {
	c.Declared = slices.Clone(c.Declared)
	return c
}
