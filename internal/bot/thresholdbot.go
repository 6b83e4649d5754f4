package bot

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjackforbots/internal/game"
)

// ThresholdBot hits below a fixed total and stands from it upwards,
// mirroring the dealer when the threshold is 17
type ThresholdBot struct {
	standOn int
	logger  *log.Logger
}

// NewThresholdBot creates a bot that stands once its total reaches standOn
func NewThresholdBot(standOn int, logger *log.Logger) *ThresholdBot {
	return &ThresholdBot{standOn: standOn, logger: logger}
}

func (b *ThresholdBot) MakeDecision(obs game.Observation) Decision {
	d := Decision{Action: game.Hit, Reasoning: fmt.Sprintf("threshold-bot hitting %d below %d", obs.OwnHandValue, b.standOn)}
	if obs.OwnHandValue >= b.standOn {
		d = Decision{Action: game.Stand, Reasoning: fmt.Sprintf("threshold-bot standing on %d", obs.OwnHandValue)}
	}
	return logDecision(b.logger, obs, d)
}
