package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lox/blackjackforbots/internal/bot"
	"github.com/lox/blackjackforbots/internal/game"
	"github.com/lox/blackjackforbots/internal/randutil"
)

// DealCmd plays one round with a bot and prints every step
type DealCmd struct {
	Bot     string `kong:"default='chart',env='BLACKJACK_BOT',help='Bot to play: random, stand17, chart'"`
	Decks   int    `kong:"default='1',env='BLACKJACK_DECKS',help='Decks per shoe'"`
	Seed    int64  `kong:"env='BLACKJACK_SEED',help='Round seed (0 for random)'"`
	NoColor bool   `kong:"help='Disable colored output'"`
	Debug   bool   `kong:"help='Enable debug logging'"`
}

func (c *DealCmd) Run() error {
	logger, err := stderrLogger("warn", c.Debug)
	if err != nil {
		return err
	}

	factory, err := bot.Lookup(c.Bot)
	if err != nil {
		return err
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	env, err := game.NewEnv(game.WithDecks(c.Decks), game.WithLogger(logger))
	if err != nil {
		return err
	}
	b := factory(randutil.New(^seed), logger)
	r := game.NewRenderer(os.Stdout, c.NoColor)
	styles := r.Styles()

	obs, info, err := env.Reset(&seed)
	if err != nil {
		return err
	}
	fmt.Println(styles.Header.Render(fmt.Sprintf("Seed %d · %s bot · %d deck(s)", seed, c.Bot, c.Decks)))
	fmt.Printf("%s %s\n", styles.Label.Render("Player:"), r.FormatHand(info.PlayerHand))
	fmt.Printf("%s %s ??\n", styles.Label.Render("Dealer:"), info.DealerHand[0])

	for env.Phase() == game.AwaitingAction {
		decision := b.MakeDecision(obs)
		fmt.Printf("%s %s (%s)\n", styles.Label.Render("Bot:"), decision.Action, decision.Reasoning)

		result, err := env.Step(decision.Action)
		if err != nil {
			return err
		}
		obs = result.Observation
	}

	fmt.Println()
	r.RenderEnv(env)
	return nil
}
