package client

import (
	"context"

	"github.com/lox/blackjackforbots/internal/bot"
	"github.com/lox/blackjackforbots/internal/statistics"
)

// PlayRound plays one remote round to completion with b
func (c *Client) PlayRound(ctx context.Context, b bot.Bot, seed *int64) (statistics.EpisodeResult, error) {
	state, err := c.Reset(ctx, seed, 0)
	if err != nil {
		return statistics.EpisodeResult{}, err
	}
	upCard := state.Observation.DealerUpCardValue

	steps := 0
	for !state.Terminated && !state.Truncated {
		decision := b.MakeDecision(state.Observation)
		state, err = c.Step(ctx, decision.Action)
		if err != nil {
			return statistics.EpisodeResult{}, err
		}
		steps++
	}

	result := statistics.EpisodeResult{
		Reward:       state.Reward,
		Steps:        steps,
		PlayerTotal:  state.Info.PlayerHand.Total(),
		DealerTotal:  state.Info.DealerHand.Total(),
		DealerUpCard: upCard,
		PlayerBust:   state.Info.PlayerHand.IsBust(),
	}
	if seed != nil {
		result.Seed = *seed
	}
	return result, nil
}
