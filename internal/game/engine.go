package game

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjackforbots/internal/deck"
	"github.com/lox/blackjackforbots/internal/randutil"
)

// Env runs one round of blackjack at a time against a stand-on-17 dealer.
// It owns its shoe, both hands and its RNG. An Env is not safe for concurrent
// use; run independent rounds on independent Envs.
type Env struct {
	decks   int
	actions int
	rng     *rand.Rand
	newShoe ShoeFactory
	logger  *log.Logger

	shoe   *deck.Shoe
	player Hand
	dealer Hand
	stands bool
	phase  Phase
	reward float64
	round  int
}

// NewEnv creates an Env. Nothing is dealt until the first Reset.
func NewEnv(opts ...EnvOption) (*Env, error) {
	cfg := defaultEnvConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.decks < 1 {
		return nil, fmt.Errorf("%w: got %d", deck.ErrInvalidDecks, cfg.decks)
	}
	if cfg.actions != NumActions {
		return nil, fmt.Errorf("%w: %d actions, only %d are defined", ErrInvalidActionSpace, cfg.actions, NumActions)
	}
	if cfg.rng == nil {
		cfg.rng = randutil.NewFromTime()
	}
	if cfg.logger == nil {
		cfg.logger = discardLogger()
	}

	return &Env{
		decks:   cfg.decks,
		actions: cfg.actions,
		rng:     cfg.rng,
		newShoe: cfg.shoe,
		logger:  cfg.logger.WithPrefix("env"),
		phase:   PhaseIdle,
	}, nil
}

// Reset discards the current round, builds and shuffles a fresh shoe and
// deals dealer, player, dealer, player. A non-nil seed reseeds the Env's RNG
// first, making the new round reproducible.
func (e *Env) Reset(seed *int64) (Observation, Info, error) {
	if seed != nil {
		e.rng = randutil.New(*seed)
	}

	shoe, err := e.newShoe(e.decks, e.rng)
	if err != nil {
		return Observation{}, Info{}, fmt.Errorf("build shoe: %w", err)
	}

	e.shoe = shoe
	e.player = e.player[:0]
	e.dealer = e.dealer[:0]
	e.stands = false
	e.reward = 0
	e.phase = PhaseIdle
	e.round++

	for range 2 {
		if err := e.deal(&e.dealer); err != nil {
			return Observation{}, Info{}, err
		}
		if err := e.deal(&e.player); err != nil {
			return Observation{}, Info{}, err
		}
	}

	e.phase = AwaitingAction
	e.logger.Debug("Round dealt",
		"round", e.round,
		"player", e.player.String(),
		"dealerUp", e.dealer[0].String(),
		"shoe", e.shoe.Remaining())

	return e.observe(), e.info(), nil
}

// Step applies one player action. Hitting into a bust settles the round at
// -1 without the dealer playing; standing plays the dealer out and settles
// by comparing hands. Any other step leaves the round open with reward 0.
func (e *Env) Step(action Action) (StepResult, error) {
	if e.phase != AwaitingAction {
		return StepResult{}, fmt.Errorf("%w: round is %s", ErrInvalidState, e.phase)
	}
	if !action.Valid() {
		return StepResult{}, fmt.Errorf("%w: %d", ErrInvalidAction, int(action))
	}

	switch action {
	case Stand:
		e.stands = true
	case Hit:
		if err := e.deal(&e.player); err != nil {
			return StepResult{}, err
		}
	}

	e.logger.Debug("Player action", "round", e.round, "action", action, "player", e.player.String())

	if e.player.IsBust() {
		e.settle(RewardLoss)
		return e.result(), nil
	}

	if e.stands {
		if err := PlayDealer(&e.dealer, e.shoe); err != nil {
			return StepResult{}, err
		}
		e.settle(Resolve(e.player, e.dealer))
	}

	return e.result(), nil
}

// Phase returns where the current round is in its lifecycle
func (e *Env) Phase() Phase {
	return e.phase
}

// Reward returns the settled reward, or 0 while the round is still open
func (e *Env) Reward() float64 {
	return e.reward
}

// Round returns how many rounds have been dealt
func (e *Env) Round() int {
	return e.round
}

// Decks returns the number of decks per shoe
func (e *Env) Decks() int {
	return e.decks
}

// ActionSpace returns the number of defined actions
func (e *Env) ActionSpace() int {
	return e.actions
}

// PlayerHand returns a copy of the player's hand
func (e *Env) PlayerHand() Hand {
	return e.player.Clone()
}

// DealerHand returns a copy of the dealer's hand
func (e *Env) DealerHand() Hand {
	return e.dealer.Clone()
}

// Observe returns the current observation without changing state
func (e *Env) Observe() Observation {
	return e.observe()
}

// Info returns a snapshot of the shoe and both hands
func (e *Env) Info() Info {
	return e.info()
}

func (e *Env) deal(hand *Hand) error {
	card, err := e.shoe.DealOne()
	if err != nil {
		return fmt.Errorf("deal: %w", err)
	}
	*hand = append(*hand, card)
	return nil
}

func (e *Env) settle(reward float64) {
	e.reward = reward
	e.phase = Terminal
	e.logger.Debug("Round settled",
		"round", e.round,
		"reward", reward,
		"outcome", OutcomeOf(reward),
		"player", e.player.String(),
		"playerTotal", e.player.Total(),
		"dealer", e.dealer.String(),
		"dealerTotal", e.dealer.Total())
}

func (e *Env) result() StepResult {
	return StepResult{
		Observation: e.observe(),
		Reward:      e.reward,
		Terminated:  e.phase == Terminal,
		Truncated:   false,
		Info:        e.info(),
	}
}

func (e *Env) observe() Observation {
	return observe(e.player, e.dealer)
}

func (e *Env) info() Info {
	info := Info{
		PlayerHand: e.player.Clone(),
		DealerHand: e.dealer.Clone(),
	}
	if e.shoe != nil {
		info.Shoe = e.shoe.Cards()
	}
	return info
}
