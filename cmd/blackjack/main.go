package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Simulate SimulateCmd      `cmd:"" help:"Play many rounds with a built-in bot and report the return"`
	Deal     DealCmd          `cmd:"" help:"Play and print a single round with a built-in bot"`
	Play     PlayCmd          `cmd:"" help:"Play interactively in the terminal"`
	Serve    ServeCmd         `cmd:"" help:"Serve Reset/Step over WebSocket"`
	Connect  ConnectCmd       `cmd:"" help:"Play against a remote server with a built-in bot"`
	Bots     BotsCmd          `cmd:"" help:"List the built-in bots"`
}

func main() {
	// A missing .env is fine; variables may come from the environment
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Single-player blackjack environment for bots"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
