package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/blackjackforbots/internal/game"
	"github.com/lox/blackjackforbots/internal/tui"
)

// PlayCmd opens an interactive table in the terminal
type PlayCmd struct {
	Decks   int    `kong:"default='1',env='BLACKJACK_DECKS',help='Decks per shoe'"`
	Seed    *int64 `kong:"env='BLACKJACK_SEED',help='Seed the table for a reproducible session'"`
	NoColor bool   `kong:"help='Disable colored output'"`
	Debug   bool   `kong:"help='Enable debug logging to stderr'"`
}

func (c *PlayCmd) Run() error {
	// The table owns stdout; only warnings reach stderr by default
	logger, err := stderrLogger("warn", c.Debug)
	if err != nil {
		return err
	}

	opts := []game.EnvOption{game.WithDecks(c.Decks), game.WithLogger(logger)}
	if c.Seed != nil {
		opts = append(opts, game.WithSeed(*c.Seed))
	}
	env, err := game.NewEnv(opts...)
	if err != nil {
		return err
	}

	model, err := tui.NewModel(env, game.NewRenderer(os.Stdout, c.NoColor), logger)
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(model).Run()
	return err
}
