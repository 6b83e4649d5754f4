package main

import (
	"context"
	"fmt"
	"time"

	"github.com/lox/blackjackforbots/internal/config"
	"github.com/lox/blackjackforbots/internal/server"
)

// ServeCmd runs the WebSocket server. Zero-valued flags fall back to the config file.
type ServeCmd struct {
	Config      string        `kong:"default='blackjack.hcl',env='BLACKJACK_CONFIG',help='HCL config file (optional)'"`
	Addr        string        `kong:"env='BLACKJACK_ADDR',help='Listen address, e.g. :8080'"`
	Decks       int           `kong:"env='BLACKJACK_DECKS',help='Default decks per shoe for new sessions'"`
	MaxDecks    int           `kong:"env='BLACKJACK_MAX_DECKS',help='Largest shoe a client may request on reset'"`
	IdleTimeout time.Duration `kong:"env='BLACKJACK_IDLE_TIMEOUT',help='Close sessions idle for this long'"`
	Seed        int64         `kong:"env='BLACKJACK_SEED',help='Base seed for session RNGs (0 for random)'"`
	Debug       bool          `kong:"help='Enable debug logging'"`
}

func (c *ServeCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.Decks != 0 {
		cfg.Server.Decks = c.Decks
	}
	if c.MaxDecks != 0 {
		cfg.Server.MaxDecks = c.MaxDecks
	} else if cfg.Server.MaxDecks < cfg.Server.Decks {
		cfg.Server.MaxDecks = cfg.Server.Decks
	}
	if c.IdleTimeout != 0 {
		cfg.Server.IdleTimeout = c.IdleTimeout.String()
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	addr := c.Addr
	if addr == "" {
		addr = cfg.ServerAddress()
	}

	logger, err := stderrLogger(cfg.LogLevel, c.Debug)
	if err != nil {
		return err
	}

	s := server.NewServer(logger,
		server.WithDecks(cfg.Server.Decks),
		server.WithMaxDecks(cfg.Server.MaxDecks),
		server.WithIdleTimeout(cfg.IdleTimeout()),
		server.WithSeed(c.Seed),
	)

	// Setup graceful shutdown
	ctx := setupSignalHandler(logger)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- s.Start(addr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}
