package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/blackjackforbots/internal/game"
)

// EpisodeResult represents the outcome of a single blackjack round
type EpisodeResult struct {
	Reward       float64 // Settled reward in {-1, 0, 1, 1.5}
	Seed         int64   // RNG seed for this round (for replay)
	Steps        int     // Step calls until the round terminated
	PlayerTotal  int     // Player's final total (may exceed 21)
	DealerTotal  int     // Dealer's final total (may exceed 21)
	DealerUpCard int     // Point value of the dealer's first card (2-11)
	PlayerBust   bool    // Round ended on a player bust
}

// UpCardStats tracks statistics for a specific dealer up card
type UpCardStats struct {
	Episodes int
	Sum      float64
	Sum2     float64
}

// Statistics tracks reward statistics across simulated rounds
type Statistics struct {
	Episodes int
	Sum      float64
	Sum2     float64   // Sum of squares for variance calculation
	Values   []float64 // Store all values for median/percentile calculation
	Steps    int       // Total Step calls across all rounds

	// Outcome analytics
	Wins       int
	Blackjacks int
	Pushes     int
	Losses     int
	PlayerBust int     // Losses caused by the player busting
	DealerBust int     // Rounds where the dealer busted
	WinReward  float64 // Reward from wins and blackjacks
	LossReward float64 // Reward from losses (negative)
	AllReward  float64 // Total reward for sanity check

	// Dealer up card analytics, indexed by point value (2-11)
	UpCardResults [12]UpCardStats
}

// Mean returns the expected return per round
func (s *Statistics) Mean() float64 {
	if s.Episodes == 0 {
		return 0
	}
	return s.Sum / float64(s.Episodes)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Episodes < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.Sum2 - float64(s.Episodes)*mean*mean) / float64(s.Episodes-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Episodes == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Episodes))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	se := s.StdError()
	margin := 1.96 * se // 95% confidence
	return mean - margin, mean + margin
}

// Add incorporates a new round result into the statistics
func (s *Statistics) Add(result EpisodeResult) {
	reward := result.Reward
	s.Episodes++
	s.Sum += reward
	s.Sum2 += reward * reward
	s.Values = append(s.Values, reward)
	s.Steps += result.Steps

	switch game.OutcomeOf(reward) {
	case game.BlackjackWin:
		s.Blackjacks++
		s.WinReward += reward
	case game.Win:
		s.Wins++
		s.WinReward += reward
	case game.Loss:
		s.Losses++
		s.LossReward += reward
	default:
		s.Pushes++
	}
	s.AllReward += reward // Total for sanity check

	if result.PlayerBust {
		s.PlayerBust++
	} else if result.DealerTotal > game.BlackjackTotal {
		s.DealerBust++
	}

	up := result.DealerUpCard
	if up >= 2 && up <= 11 {
		s.UpCardResults[up].Episodes++
		s.UpCardResults[up].Sum += reward
		s.UpCardResults[up].Sum2 += reward * reward
	}
}

// Merge folds other into s. Values keep s's results first.
func (s *Statistics) Merge(other *Statistics) {
	s.Episodes += other.Episodes
	s.Sum += other.Sum
	s.Sum2 += other.Sum2
	s.Values = append(s.Values, other.Values...)
	s.Steps += other.Steps
	s.Wins += other.Wins
	s.Blackjacks += other.Blackjacks
	s.Pushes += other.Pushes
	s.Losses += other.Losses
	s.PlayerBust += other.PlayerBust
	s.DealerBust += other.DealerBust
	s.WinReward += other.WinReward
	s.LossReward += other.LossReward
	s.AllReward += other.AllReward
	for i := range s.UpCardResults {
		s.UpCardResults[i].Episodes += other.UpCardResults[i].Episodes
		s.UpCardResults[i].Sum += other.UpCardResults[i].Sum
		s.UpCardResults[i].Sum2 += other.UpCardResults[i].Sum2
	}
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// WinRate returns the fraction of rounds won, naturals included
func (s *Statistics) WinRate() float64 {
	if s.Episodes == 0 {
		return 0
	}
	return float64(s.Wins+s.Blackjacks) / float64(s.Episodes)
}

// AvgSteps returns the mean number of Step calls per round
func (s *Statistics) AvgSteps() float64 {
	if s.Episodes == 0 {
		return 0
	}
	return float64(s.Steps) / float64(s.Episodes)
}

// UpCardMean returns the mean reward against a dealer up card value (2-11)
func (s *Statistics) UpCardMean(up int) float64 {
	if up < 2 || up > 11 {
		return 0
	}
	us := s.UpCardResults[up]
	if us.Episodes == 0 {
		return 0
	}
	return us.Sum / float64(us.Episodes)
}

// IsLedgerBalanced checks if the accounting is consistent
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllReward-s.WinReward-s.LossReward) <= 1e-6
}

// Validate performs comprehensive validation of statistics data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllReward=%.6f, WinReward=%.6f, LossReward=%.6f",
			s.AllReward, s.WinReward, s.LossReward)
	}

	if s.Episodes <= 0 {
		return fmt.Errorf("invalid episode count: %d", s.Episodes)
	}

	if len(s.Values) != s.Episodes {
		return fmt.Errorf("values array length (%d) does not match episode count (%d)",
			len(s.Values), s.Episodes)
	}

	outcomes := s.Wins + s.Blackjacks + s.Pushes + s.Losses
	if outcomes != s.Episodes {
		return fmt.Errorf("outcome total (%d) does not match episode count (%d)", outcomes, s.Episodes)
	}

	if s.PlayerBust > s.Losses {
		return fmt.Errorf("player busts (%d) exceed losses (%d)", s.PlayerBust, s.Losses)
	}

	totalUpCard := 0
	for up := 2; up <= 11; up++ {
		totalUpCard += s.UpCardResults[up].Episodes
	}
	if totalUpCard != s.Episodes {
		return fmt.Errorf("up card total (%d) does not match episode count (%d)", totalUpCard, s.Episodes)
	}

	return nil
}
