package main

import (
	"os"
	"time"

	"github.com/lox/blackjackforbots/internal/bot"
	"github.com/lox/blackjackforbots/internal/client"
	"github.com/lox/blackjackforbots/internal/randutil"
	"github.com/lox/blackjackforbots/internal/report"
	"github.com/lox/blackjackforbots/internal/statistics"
)

// ConnectCmd plays rounds against a remote server with a built-in bot
type ConnectCmd struct {
	Server string `kong:"default='ws://localhost:8080/ws',env='BLACKJACK_SERVER',help='WebSocket server URL'"`
	Bot    string `kong:"default='chart',env='BLACKJACK_BOT',help='Bot to play: random, stand17, chart'"`
	Rounds int    `kong:"short='n',default='100',help='Number of rounds to play'"`
	Seed   int64  `kong:"env='BLACKJACK_SEED',help='Base seed for round seeds (0 for random)'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

func (c *ConnectCmd) Run() error {
	logger, err := stderrLogger("info", c.Debug)
	if err != nil {
		return err
	}
	ctx := setupSignalHandler(logger)

	factory, err := bot.Lookup(c.Bot)
	if err != nil {
		return err
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	cl := client.NewClient(c.Server, logger)
	if err := cl.Connect(ctx); err != nil {
		return err
	}
	defer func() { _ = cl.Close() }()

	start := time.Now()
	stats := &statistics.Statistics{}
	for i := range c.Rounds {
		if ctx.Err() != nil {
			break
		}
		roundSeed := randutil.Derive(seed, i)
		result, err := cl.PlayRound(ctx, factory(randutil.New(^roundSeed), logger), &roundSeed)
		if err != nil {
			return err
		}
		stats.Add(result)
	}

	report.New(report.Meta{
		Bot:     c.Bot,
		Seed:    seed,
		Elapsed: time.Since(start),
	}, stats).Print(os.Stdout)
	return nil
}
