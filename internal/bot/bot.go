// Package bot contains driving policies that play the game through its
// observation alone, the same view any external agent gets.
package bot

import (
	"fmt"
	rand "math/rand/v2"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjackforbots/internal/game"
)

// Decision is an action together with a short human-readable reason
type Decision struct {
	Action    game.Action
	Reasoning string
}

// Bot chooses the next action from an observation
type Bot interface {
	MakeDecision(obs game.Observation) Decision
}

// logDecision records a decision at debug level and passes it through
func logDecision(logger *log.Logger, obs game.Observation, d Decision) Decision {
	if logger != nil {
		logger.Debug("Decision",
			"total", obs.OwnHandValue,
			"upCard", obs.DealerUpCardValue,
			"soft", obs.UsableAces > 0,
			"action", d.Action,
			"reason", d.Reasoning)
	}
	return d
}

// Factory builds a fresh bot. Bots may hold an RNG, so every concurrent
// round gets its own instance.
type Factory func(rng *rand.Rand, logger *log.Logger) Bot

var registry = map[string]Factory{
	"random": func(rng *rand.Rand, logger *log.Logger) Bot { return NewRandBot(rng, logger) },
	"stand17": func(_ *rand.Rand, logger *log.Logger) Bot {
		return NewThresholdBot(game.DealerStandsOn, logger)
	},
	"chart": func(_ *rand.Rand, logger *log.Logger) Bot { return NewChartBot(logger) },
}

// Lookup returns the factory registered under name
func Lookup(name string) (Factory, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown bot %q (available: %v)", name, Names())
	}
	return f, nil
}

// Names lists the registered bot names in sorted order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
