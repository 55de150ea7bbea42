package statistics

import (
	"fmt"
	"math"
	"slices"
)

// HandResult is the outcome of one simulated hand
type HandResult struct {
	Seed       int64 // match seed, for replay
	HandNumber int
	WinnerSeat int
	Score      int // points credited to the winner
	Reshuffles int
}

// MatchResult is the outcome of one simulated match
type MatchResult struct {
	Seed       int64
	WinnerSeat int
	Hands      int
	Total      int // winner's final total
}

// Statistics aggregates simulation results. Seat-indexed slices grow as
// needed, so one Statistics can mix table sizes.
type Statistics struct {
	Matches int
	Hands   int

	SumScore  float64
	SumScore2 float64 // sum of squares for variance
	Scores    []float64
	MaxScore  int

	HandWins  []int // per seat
	MatchWins []int // per seat

	Reshuffles         int
	Declarations       int
	ChallengesUpheld   int
	ChallengesRejected int
}

// Add incorporates a hand result
func (s *Statistics) Add(result HandResult) {
	score := float64(result.Score)
	s.Hands++
	s.SumScore += score
	s.SumScore2 += score * score
	s.Scores = append(s.Scores, score)
	s.MaxScore = max(s.MaxScore, result.Score)
	s.Reshuffles += result.Reshuffles
	s.HandWins = bump(s.HandWins, result.WinnerSeat)
}

// AddMatch incorporates a match result
func (s *Statistics) AddMatch(result MatchResult) {
	s.Matches++
	s.MatchWins = bump(s.MatchWins, result.WinnerSeat)
}

// Merge folds other into s
func (s *Statistics) Merge(other *Statistics) {
	s.Matches += other.Matches
	s.Hands += other.Hands
	s.SumScore += other.SumScore
	s.SumScore2 += other.SumScore2
	s.Scores = append(s.Scores, other.Scores...)
	s.MaxScore = max(s.MaxScore, other.MaxScore)
	s.HandWins = mergeCounts(s.HandWins, other.HandWins)
	s.MatchWins = mergeCounts(s.MatchWins, other.MatchWins)
	s.Reshuffles += other.Reshuffles
	s.Declarations += other.Declarations
	s.ChallengesUpheld += other.ChallengesUpheld
	s.ChallengesRejected += other.ChallengesRejected
}

func bump(counts []int, seat int) []int {
	if seat < 0 {
		return counts
	}
	for len(counts) <= seat {
		counts = append(counts, 0)
	}
	counts[seat]++
	return counts
}

func mergeCounts(dst, src []int) []int {
	for len(dst) < len(src) {
		dst = append(dst, 0)
	}
	for i, n := range src {
		dst[i] += n
	}
	return dst
}

// Mean returns the mean hand score
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumScore / float64(s.Hands)
}

// Variance returns the sample variance of hand scores
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumScore2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

// StdDev returns the sample standard deviation of hand scores
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median hand score
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the hand score at p (0.0 to 1.0), interpolating
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Scores) == 0 {
		return 0
	}
	sorted := slices.Clone(s.Scores)
	slices.Sort(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// HandWinRate returns the share of hands won by seat
func (s *Statistics) HandWinRate(seat int) float64 {
	if s.Hands == 0 || seat < 0 || seat >= len(s.HandWins) {
		return 0
	}
	return float64(s.HandWins[seat]) / float64(s.Hands)
}

// MatchWinRate returns the share of matches won by seat
func (s *Statistics) MatchWinRate(seat int) float64 {
	if s.Matches == 0 || seat < 0 || seat >= len(s.MatchWins) {
		return 0
	}
	return float64(s.MatchWins[seat]) / float64(s.Matches)
}

// Validate checks the counters agree with each other
func (s *Statistics) Validate() error {
	if s.Matches <= 0 {
		return fmt.Errorf("invalid matches count: %d", s.Matches)
	}
	if s.Hands < s.Matches {
		return fmt.Errorf("hands (%d) fewer than matches (%d)", s.Hands, s.Matches)
	}
	if len(s.Scores) != s.Hands {
		return fmt.Errorf("scores length (%d) does not match hands count (%d)", len(s.Scores), s.Hands)
	}
	if total := sum(s.HandWins); total != s.Hands {
		return fmt.Errorf("hand wins total (%d) does not match hands (%d)", total, s.Hands)
	}
	if total := sum(s.MatchWins); total != s.Matches {
		return fmt.Errorf("match wins total (%d) does not match matches (%d)", total, s.Matches)
	}
	return nil
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}
