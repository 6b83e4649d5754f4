package game

import (
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjackforbots/internal/deck"
	"github.com/lox/blackjackforbots/internal/randutil"
)

// ShoeFactory builds the shoe for a new round.
type ShoeFactory func(decks int, rng *rand.Rand) (*deck.Shoe, error)

// EnvOption configures an Env during creation.
type EnvOption func(*envConfig)

// envConfig holds all configuration for creating an Env.
type envConfig struct {
	decks   int         // Default: 1
	actions int         // Default: NumActions
	rng     *rand.Rand  // Default: time-seeded
	logger  *log.Logger // Default: discard
	shoe    ShoeFactory // Default: deck.NewShoe
}

// WithDecks sets how many decks make up each round's shoe.
func WithDecks(n int) EnvOption {
	return func(c *envConfig) {
		c.decks = n
	}
}

// WithActions sets the action-space arity. Only NumActions is supported.
func WithActions(n int) EnvOption {
	return func(c *envConfig) {
		c.actions = n
	}
}

// WithSeed seeds the Env's private RNG so unseeded resets are reproducible.
func WithSeed(seed int64) EnvOption {
	return func(c *envConfig) {
		c.rng = randutil.New(seed)
	}
}

// WithRNG hands the Env an RNG it will own. The caller must not use it afterwards.
func WithRNG(rng *rand.Rand) EnvOption {
	return func(c *envConfig) {
		c.rng = rng
	}
}

// WithLogger sets the logger for round lifecycle events.
func WithLogger(logger *log.Logger) EnvOption {
	return func(c *envConfig) {
		c.logger = logger
	}
}

// WithShoeFactory replaces how shoes are built, e.g. with stacked shoes in tests.
func WithShoeFactory(f ShoeFactory) EnvOption {
	return func(c *envConfig) {
		c.shoe = f
	}
}

// StackedShoe returns a ShoeFactory that deals cards in the given order
// every round, ignoring the deck count and RNG.
func StackedShoe(cards ...deck.Card) ShoeFactory {
	return func(int, *rand.Rand) (*deck.Shoe, error) {
		return deck.NewStackedShoe(cards...), nil
	}
}

func defaultEnvConfig() *envConfig {
	return &envConfig{
		decks:   1,
		actions: NumActions,
		shoe:    deck.NewShoe,
	}
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
