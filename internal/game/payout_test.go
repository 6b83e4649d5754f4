package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		player   string
		dealer   string
		expected float64
	}{
		{"natural beats sixteen", "AK", "T6", RewardBlackjack},
		{"natural beats three card 21", "AK", "T65", RewardBlackjack},
		{"natural against natural pushes", "AK", "QA", RewardPush},
		{"dealer bust", "T8", "T6K", RewardWin},
		{"higher total wins", "T9", "T7", RewardWin},
		{"lower total loses", "T7", "T9", RewardLoss},
		{"equal totals push", "T8", "K8", RewardPush},
		{"three card 21 loses to dealer natural", "777", "AJ", RewardLoss},
		{"three card 21 pushes dealer three card 21", "777", "T56", RewardPush},
		{"player bust always loses", "T95", "T6K", RewardLoss},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Resolve(hand(tt.player), hand(tt.dealer)))
		})
	}
}

func TestOutcomeOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Loss, OutcomeOf(RewardLoss))
	assert.Equal(t, Push, OutcomeOf(RewardPush))
	assert.Equal(t, Win, OutcomeOf(RewardWin))
	assert.Equal(t, BlackjackWin, OutcomeOf(RewardBlackjack))
	assert.Equal(t, "blackjack", BlackjackWin.String())
}
