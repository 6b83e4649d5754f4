package game

// Rewards paid at the end of a round, in units of the initial bet.
const (
	RewardLoss      = -1.0
	RewardPush      = 0.0
	RewardWin       = 1.0
	RewardBlackjack = 1.5
)

// Outcome classifies a settled reward
type Outcome int

const (
	Loss Outcome = iota
	Push
	Win
	BlackjackWin
)

// String returns the string representation of an outcome
func (o Outcome) String() string {
	switch o {
	case Loss:
		return "loss"
	case Push:
		return "push"
	case Win:
		return "win"
	case BlackjackWin:
		return "blackjack"
	default:
		return "unknown"
	}
}

// OutcomeOf maps a reward back to its outcome
func OutcomeOf(reward float64) Outcome {
	switch {
	case reward >= RewardBlackjack:
		return BlackjackWin
	case reward > RewardPush:
		return Win
	case reward < RewardPush:
		return Loss
	default:
		return Push
	}
}

// Resolve compares two finished hands and returns the player's reward.
//
// A player natural pays 1.5 unless the dealer also holds one. Otherwise the
// higher total wins, a dealer bust pays the player and equal totals push.
// The engine settles player busts itself, but Resolve still scores them as
// a loss so it is total over every pair of hands.
func Resolve(player, dealer Hand) float64 {
	if player.IsBust() {
		return RewardLoss
	}

	if player.IsBlackjack() {
		if dealer.IsBlackjack() {
			return RewardPush
		}
		return RewardBlackjack
	}

	playerTotal := player.Total()
	dealerTotal := dealer.Total()

	switch {
	case dealer.IsBust() || playerTotal > dealerTotal:
		return RewardWin
	case dealerTotal > playerTotal || dealer.IsBlackjack():
		return RewardLoss
	default:
		return RewardPush
	}
}
