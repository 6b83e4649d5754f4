package main

import (
	"fmt"
	"os"

	"github.com/lox/blackjackforbots/internal/config"
	"github.com/lox/blackjackforbots/internal/report"
	"github.com/lox/blackjackforbots/internal/simulator"
)

// SimulateCmd runs a batch of rounds. Zero-valued flags fall back to the config file.
type SimulateCmd struct {
	Config        string `kong:"default='blackjack.hcl',env='BLACKJACK_CONFIG',help='HCL config file (optional)'"`
	Episodes      int    `kong:"short='n',env='BLACKJACK_EPISODES',help='Number of rounds to simulate'"`
	Decks         int    `kong:"env='BLACKJACK_DECKS',help='Decks per shoe'"`
	Seed          int64  `kong:"env='BLACKJACK_SEED',help='Base RNG seed (0 for random)'"`
	Bot           string `kong:"env='BLACKJACK_BOT',help='Bot to play: random, stand17, chart'"`
	Workers       int    `kong:"short='w',env='BLACKJACK_WORKERS',help='Parallel workers'"`
	ProgressEvery int    `kong:"default='0',help='Log progress every N rounds (0 disables)'"`
	Output        string `kong:"short='o',type='path',help='Write a JSON report to this file'"`
	Debug         bool   `kong:"help='Enable debug logging'"`
}

func (c *SimulateCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	c.applyTo(cfg.Simulation)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := stderrLogger(cfg.LogLevel, c.Debug)
	if err != nil {
		return err
	}
	ctx := setupSignalHandler(logger)

	sim := cfg.Simulation
	s, err := simulator.New(simulator.Config{
		Episodes:      sim.Episodes,
		Decks:         sim.Decks,
		Bot:           sim.Bot,
		Seed:          sim.Seed,
		Workers:       sim.Workers,
		ProgressEvery: c.ProgressEvery,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	result, err := s.Run(ctx)
	if err != nil {
		return err
	}

	r := report.New(report.Meta{
		Bot:     sim.Bot,
		Decks:   sim.Decks,
		Seed:    result.Seed,
		Elapsed: result.Elapsed,
	}, result.Stats)
	r.Print(os.Stdout)

	if c.Output != "" {
		if err := r.WriteFile(c.Output); err != nil {
			return err
		}
		logger.Info("Wrote report", "path", c.Output)
	}
	return nil
}

// applyTo overrides config values with any flags that were set
func (c *SimulateCmd) applyTo(sim *config.SimulationSettings) {
	if c.Episodes != 0 {
		sim.Episodes = c.Episodes
	}
	if c.Decks != 0 {
		sim.Decks = c.Decks
	}
	if c.Seed != 0 {
		sim.Seed = c.Seed
	}
	if c.Bot != "" {
		sim.Bot = c.Bot
	}
	if c.Workers != 0 {
		sim.Workers = c.Workers
	}
}
