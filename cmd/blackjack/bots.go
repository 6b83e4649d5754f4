package main

import (
	"fmt"

	"github.com/lox/blackjackforbots/internal/bot"
)

// BotsCmd lists the registered bots
type BotsCmd struct{}

func (c *BotsCmd) Run() error {
	for _, name := range bot.Names() {
		fmt.Println(name)
	}
	return nil
}
