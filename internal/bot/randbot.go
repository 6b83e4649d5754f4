package bot

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjackforbots/internal/game"
)

// RandBot samples uniformly from the action space, ignoring the observation
type RandBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewRandBot creates a new RandBot instance
func NewRandBot(rng *rand.Rand, logger *log.Logger) *RandBot {
	return &RandBot{rng: rng, logger: logger}
}

func (r *RandBot) MakeDecision(obs game.Observation) Decision {
	action := game.Action(r.rng.IntN(game.NumActions))
	return logDecision(r.logger, obs, Decision{Action: action, Reasoning: "rand-bot random action"})
}
