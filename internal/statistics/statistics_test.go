package statistics

import (
	"math"
	"strings"
	"testing"
)

func TestStatistics_Empty(t *testing.T) {
	stats := &Statistics{}

	if stats.Mean() != 0 {
		t.Errorf("Expected mean of 0 for empty stats, got %f", stats.Mean())
	}
	if stats.Variance() != 0 {
		t.Errorf("Expected variance of 0 for empty stats, got %f", stats.Variance())
	}
	if stats.StdError() != 0 {
		t.Errorf("Expected stderr of 0 for empty stats, got %f", stats.StdError())
	}
	if stats.Median() != 0 {
		t.Errorf("Expected median of 0 for empty stats, got %f", stats.Median())
	}
	if stats.WinRate() != 0 {
		t.Errorf("Expected win rate of 0 for empty stats, got %f", stats.WinRate())
	}
}

func TestStatistics_MultipleValues(t *testing.T) {
	stats := &Statistics{}

	results := []EpisodeResult{
		{Reward: 1.5, DealerUpCard: 10, Steps: 1, PlayerTotal: 21, DealerTotal: 17},
		{Reward: -1, DealerUpCard: 10, Steps: 2, PlayerTotal: 24, DealerTotal: 12, PlayerBust: true},
		{Reward: 1, DealerUpCard: 6, Steps: 1, PlayerTotal: 15, DealerTotal: 26},
		{Reward: 0, DealerUpCard: 11, Steps: 1, PlayerTotal: 19, DealerTotal: 19},
		{Reward: -1, DealerUpCard: 11, Steps: 3, PlayerTotal: 18, DealerTotal: 20},
	}
	for _, r := range results {
		stats.Add(r)
	}

	expectedMean := (1.5 - 1 + 1 + 0 - 1) / 5.0
	if math.Abs(stats.Mean()-expectedMean) > 1e-9 {
		t.Errorf("Expected mean of %f, got %f", expectedMean, stats.Mean())
	}
	if stats.Blackjacks != 1 || stats.Wins != 1 || stats.Pushes != 1 || stats.Losses != 2 {
		t.Errorf("Unexpected outcome counts: bj=%d win=%d push=%d loss=%d",
			stats.Blackjacks, stats.Wins, stats.Pushes, stats.Losses)
	}
	if stats.PlayerBust != 1 {
		t.Errorf("Expected 1 player bust, got %d", stats.PlayerBust)
	}
	if stats.DealerBust != 1 {
		t.Errorf("Expected 1 dealer bust, got %d", stats.DealerBust)
	}
	if math.Abs(stats.AvgSteps()-8.0/5.0) > 1e-9 {
		t.Errorf("Expected 1.6 steps per round, got %f", stats.AvgSteps())
	}
	if math.Abs(stats.WinRate()-0.4) > 1e-9 {
		t.Errorf("Expected win rate of 0.4, got %f", stats.WinRate())
	}

	// sorted values: -1, -1, 0, 1, 1.5
	if stats.Median() != 0 {
		t.Errorf("Expected median of 0, got %f", stats.Median())
	}

	if stats.UpCardResults[10].Episodes != 2 {
		t.Errorf("Expected 2 rounds against a ten, got %d", stats.UpCardResults[10].Episodes)
	}
	if math.Abs(stats.UpCardMean(10)-0.25) > 1e-9 {
		t.Errorf("Expected mean 0.25 against a ten, got %f", stats.UpCardMean(10))
	}
	if stats.UpCardMean(1) != 0 || stats.UpCardMean(12) != 0 {
		t.Error("Expected 0 for invalid up card values")
	}

	if !stats.IsLedgerBalanced() {
		t.Error("Expected ledger to be balanced")
	}
	if err := stats.Validate(); err != nil {
		t.Errorf("Expected valid stats, got %v", err)
	}
}

func TestStatistics_Variance(t *testing.T) {
	stats := &Statistics{}

	// [-1, 1, 1, -1] -> mean 0, sample variance 4/3
	for _, v := range []float64{-1, 1, 1, -1} {
		stats.Add(EpisodeResult{Reward: v, DealerUpCard: 5})
	}

	if math.Abs(stats.Variance()-4.0/3.0) > 1e-9 {
		t.Errorf("Expected variance of %f, got %f", 4.0/3.0, stats.Variance())
	}

	low, high := stats.ConfidenceInterval95()
	if math.Abs((low+high)/2-stats.Mean()) > 1e-9 {
		t.Errorf("Confidence interval not symmetric around mean. Low: %f, High: %f", low, high)
	}
	if high-low <= 0 {
		t.Errorf("Confidence interval should be positive width, got %f", high-low)
	}
}

func TestStatistics_Percentiles(t *testing.T) {
	stats := &Statistics{}
	for _, v := range []float64{-1, 0, 1, 1.5, -1} {
		stats.Add(EpisodeResult{Reward: v, DealerUpCard: 2})
	}

	tests := []struct {
		percentile float64
		expected   float64
	}{
		{0.0, -1},
		{0.25, -1},
		{0.5, 0},
		{0.75, 1},
		{1.0, 1.5},
	}

	for _, test := range tests {
		result := stats.Percentile(test.percentile)
		if math.Abs(result-test.expected) > 1e-9 {
			t.Errorf("Percentile %.2f: expected %f, got %f", test.percentile, test.expected, result)
		}
	}
}

func TestStatistics_Merge(t *testing.T) {
	a := &Statistics{}
	b := &Statistics{}
	all := &Statistics{}

	results := []EpisodeResult{
		{Reward: 1, DealerUpCard: 4, Steps: 1},
		{Reward: -1, DealerUpCard: 9, Steps: 2, PlayerBust: true},
		{Reward: 1.5, DealerUpCard: 10, Steps: 1},
		{Reward: 0, DealerUpCard: 11, Steps: 1},
	}
	for i, r := range results {
		if i%2 == 0 {
			a.Add(r)
		} else {
			b.Add(r)
		}
		all.Add(r)
	}

	a.Merge(b)
	if a.Episodes != all.Episodes || a.Sum != all.Sum || a.Sum2 != all.Sum2 || a.Steps != all.Steps {
		t.Errorf("Merged totals differ: %+v vs %+v", a, all)
	}
	if a.UpCardResults != all.UpCardResults {
		t.Errorf("Merged up card results differ")
	}
	if err := a.Validate(); err != nil {
		t.Errorf("Expected merged stats to validate, got %v", err)
	}
}

func TestStatistics_Validate(t *testing.T) {
	tests := []struct {
		name    string
		stats   Statistics
		wantErr string
	}{
		{
			name:    "no episodes",
			stats:   Statistics{},
			wantErr: "invalid episode count",
		},
		{
			name: "ledger mismatch",
			stats: Statistics{
				Episodes: 1, Values: []float64{1}, Wins: 1,
				AllReward: 1, WinReward: 0.5,
			},
			wantErr: "ledger mismatch",
		},
		{
			name: "values mismatch",
			stats: Statistics{
				Episodes: 2, Values: []float64{1}, Wins: 2,
				AllReward: 2, WinReward: 2,
			},
			wantErr: "values array length",
		},
		{
			name: "outcomes mismatch",
			stats: Statistics{
				Episodes: 2, Values: []float64{1, 1}, Wins: 1,
				AllReward: 2, WinReward: 2,
			},
			wantErr: "outcome total",
		},
		{
			name: "busts exceed losses",
			stats: Statistics{
				Episodes: 1, Values: []float64{1}, Wins: 1, PlayerBust: 1,
				AllReward: 1, WinReward: 1,
			},
			wantErr: "player busts",
		},
		{
			name: "up card mismatch",
			stats: Statistics{
				Episodes: 1, Values: []float64{1}, Wins: 1,
				AllReward: 1, WinReward: 1,
			},
			wantErr: "up card total",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.stats.Validate()
			if err == nil {
				t.Fatalf("Expected validation error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got: %v", tt.wantErr, err)
			}
		})
	}
}
