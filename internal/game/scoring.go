package game

import (
	"maps"
	"slices"
)

// DefaultTargetScore is the total a player must reach to win the match
const DefaultTargetScore = 500

// MatchState accumulates hand results toward the target score
type MatchState struct {
	CurrentHandScores map[string]int `json:"current_hand_scores"`
	TotalScores       map[string]int `json:"total_scores"`
	TargetScore       int            `json:"target_score"`
	HandNumber        int            `json:"hand_number"`
}

// NewMatchState returns a match with no scores, starting at hand 1
func NewMatchState(targetScore int) MatchState {
	return MatchState{
		CurrentHandScores: make(map[string]int),
		TotalScores:       make(map[string]int),
		TargetScore:       targetScore,
		HandNumber:        1,
	}
}

// ScoreHand sums the card values left in every hand except the winner's
func ScoreHand(players []*Player, winnerID string) int {
	score := 0
	for _, p := range players {
		if p.ID == winnerID {
			continue
		}
		for _, card := range p.Hand {
			score += card.Score()
		}
	}
	return score
}

// ApplyHandResult credits score to the winner and moves to the next hand.
// The receiver is not modified.
func (m MatchState) ApplyHandResult(winnerID string, score int) MatchState {
	next := m.clone()
	next.CurrentHandScores[winnerID] = score
	next.TotalScores[winnerID] += score
	next.HandNumber++
	return next
}

// IsMatchOver reports whether any total has reached the target
func (m MatchState) IsMatchOver() bool {
	for _, total := range m.TotalScores {
		if total >= m.TargetScore {
			return true
		}
	}
	return false
}

// Leader returns the player with the highest total, ties broken by id
func (m MatchState) Leader() (string, int) {
	ids := slices.Sorted(maps.Keys(m.TotalScores))
	leader, best := "", -1
	for _, id := range ids {
		if m.TotalScores[id] > best {
			leader, best = id, m.TotalScores[id]
		}
	}
	return leader, max(best, 0)
}

func (m MatchState) clone() MatchState {
	cp := m
	cp.CurrentHandScores = maps.Clone(m.CurrentHandScores)
	cp.TotalScores = maps.Clone(m.TotalScores)
	if cp.CurrentHandScores == nil {
		cp.CurrentHandScores = make(map[string]int)
	}
	if cp.TotalScores == nil {
		cp.TotalScores = make(map[string]int)
	}
	return cp
}
