package bot

import (
	"github.com/charmbracelet/log"
	"github.com/lox/blackjackforbots/internal/game"
)

// ChartBot plays the hit/stand part of basic strategy for a dealer that
// stands on soft 17. Without doubling or splitting only the stand
// thresholds remain.
type ChartBot struct {
	logger *log.Logger
}

// NewChartBot creates a new ChartBot instance
func NewChartBot(logger *log.Logger) *ChartBot {
	return &ChartBot{logger: logger}
}

func (c *ChartBot) MakeDecision(obs game.Observation) Decision {
	return logDecision(c.logger, obs, chartDecision(obs))
}

func chartDecision(obs game.Observation) Decision {
	total := obs.OwnHandValue
	up := obs.DealerUpCardValue
	weakDealer := up >= 2 && up <= 6

	if obs.UsableAces > 0 {
		switch {
		case total >= 19:
			return Decision{Action: game.Stand, Reasoning: "chart-bot soft 19+"}
		case total == 18 && up <= 8:
			return Decision{Action: game.Stand, Reasoning: "chart-bot soft 18 against 2-8"}
		default:
			return Decision{Action: game.Hit, Reasoning: "chart-bot improving soft hand"}
		}
	}

	switch {
	case total >= 17:
		return Decision{Action: game.Stand, Reasoning: "chart-bot hard 17+"}
	case total >= 13 && weakDealer:
		return Decision{Action: game.Stand, Reasoning: "chart-bot stiff hand against weak dealer"}
	case total == 12 && up >= 4 && up <= 6:
		return Decision{Action: game.Stand, Reasoning: "chart-bot 12 against 4-6"}
	default:
		return Decision{Action: game.Hit, Reasoning: "chart-bot hitting"}
	}
}
