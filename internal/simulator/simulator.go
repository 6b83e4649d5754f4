package simulator

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/blackjackforbots/internal/bot"
	"github.com/lox/blackjackforbots/internal/game"
	"github.com/lox/blackjackforbots/internal/randutil"
	"github.com/lox/blackjackforbots/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for running simulations
type Config struct {
	Episodes      int
	Decks         int
	Bot           string
	Seed          int64 // 0 picks a time-based seed, reported in the Result
	Workers       int
	ProgressEvery int // log progress every N episodes, 0 disables
	Logger        *log.Logger
	Clock         quartz.Clock
}

// Result is the outcome of a simulation run
type Result struct {
	Stats   *statistics.Statistics
	Seed    int64
	Elapsed time.Duration
}

// Simulator plays many independent rounds with one bot
type Simulator struct {
	config  Config
	factory bot.Factory
	logger  *log.Logger
	clock   quartz.Clock
	start   time.Time
	done    atomic.Int64
}

// New creates a new simulator with the given configuration
func New(config Config) (*Simulator, error) {
	if config.Episodes < 1 {
		return nil, fmt.Errorf("episodes must be positive, got %d", config.Episodes)
	}
	if config.Decks < 1 {
		config.Decks = 1
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.Workers > config.Episodes {
		config.Workers = config.Episodes
	}

	factory, err := bot.Lookup(config.Bot)
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	clock := config.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}

	return &Simulator{
		config:  config,
		factory: factory,
		logger:  logger.WithPrefix("simulator"),
		clock:   clock,
	}, nil
}

// Run executes the simulation. Every episode derives its own seed from the
// base seed, so the statistics do not depend on the number of workers.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	seed := s.config.Seed
	if seed == 0 {
		seed = s.clock.Now().UnixNano()
	}

	s.logger.Info("Starting simulation",
		"episodes", s.config.Episodes,
		"decks", s.config.Decks,
		"bot", s.config.Bot,
		"workers", s.config.Workers,
		"seed", seed)

	s.start = s.clock.Now()
	s.done.Store(0)

	workers := s.config.Workers
	perWorker := s.config.Episodes / workers
	remainder := s.config.Episodes % workers
	shards := make([]*statistics.Statistics, workers)

	g, ctx := errgroup.WithContext(ctx)

	first := 0
	for w := range workers {
		count := perWorker
		if w < remainder {
			count++ // Distribute remainder episodes
		}
		from, to := first, first+count
		first = to

		g.Go(func() error {
			stats, err := s.runShard(ctx, seed, from, to)
			if err != nil {
				return err
			}
			shards[w] = stats
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for _, shard := range shards {
		stats.Merge(shard)
	}

	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	elapsed := s.clock.Since(s.start)
	s.logger.Info("Simulation complete",
		"episodes", stats.Episodes,
		"mean", stats.Mean(),
		"elapsed", elapsed)

	return &Result{Stats: stats, Seed: seed, Elapsed: elapsed}, nil
}

// runShard plays episodes [from, to) on one Env
func (s *Simulator) runShard(ctx context.Context, seed int64, from, to int) (*statistics.Statistics, error) {
	env, err := game.NewEnv(
		game.WithDecks(s.config.Decks),
		game.WithLogger(s.logger),
	)
	if err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for episode := from; episode < to; episode++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := s.playEpisode(env, randutil.Derive(seed, episode))
		if err != nil {
			return nil, fmt.Errorf("episode %d: %w", episode, err)
		}
		stats.Add(result)
		s.reportProgress()
	}
	return stats, nil
}

// playEpisode plays one round to completion
func (s *Simulator) playEpisode(env *game.Env, seed int64) (statistics.EpisodeResult, error) {
	b := s.factory(randutil.New(^seed), s.logger)

	obs, _, err := env.Reset(&seed)
	if err != nil {
		return statistics.EpisodeResult{}, err
	}
	upCard := obs.DealerUpCardValue

	steps := 0
	for {
		decision := b.MakeDecision(obs)
		res, err := env.Step(decision.Action)
		if err != nil {
			return statistics.EpisodeResult{}, err
		}
		steps++
		obs = res.Observation

		if res.Terminated || res.Truncated {
			return statistics.EpisodeResult{
				Reward:       res.Reward,
				Seed:         seed,
				Steps:        steps,
				PlayerTotal:  res.Info.PlayerHand.Total(),
				DealerTotal:  res.Info.DealerHand.Total(),
				DealerUpCard: upCard,
				PlayerBust:   res.Info.PlayerHand.IsBust(),
			}, nil
		}
	}
}

func (s *Simulator) reportProgress() {
	done := s.done.Add(1)
	every := int64(s.config.ProgressEvery)
	if every <= 0 || done%every != 0 {
		return
	}
	s.logger.Info("Progress",
		"done", done,
		"total", s.config.Episodes,
		"elapsed", s.clock.Since(s.start))
}
