// Package config loads blackjack.hcl, the optional file holding simulation
// and server settings. Command-line flags override whatever it sets.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/blackjackforbots/internal/bot"
)

// DefaultFile is the config file looked up when none is given
const DefaultFile = "blackjack.hcl"

// maxShoeDecks bounds any shoe a remote client can make the server build
const maxShoeDecks = 64

// Config represents the complete configuration
type Config struct {
	LogLevel   string              `hcl:"log_level,optional"`
	Simulation *SimulationSettings `hcl:"simulation,block"`
	Server     *ServerSettings     `hcl:"server,block"`
}

// SimulationSettings configures batch simulation runs
type SimulationSettings struct {
	Episodes int    `hcl:"episodes,optional"`
	Decks    int    `hcl:"decks,optional"`
	Seed     int64  `hcl:"seed,optional"`
	Bot      string `hcl:"bot,optional"`
	Workers  int    `hcl:"workers,optional"`
}

// ServerSettings configures the websocket server
type ServerSettings struct {
	Address     string `hcl:"address,optional"`
	Port        int    `hcl:"port,optional"`
	Decks       int    `hcl:"decks,optional"`
	MaxDecks    int    `hcl:"max_decks,optional"`
	IdleTimeout string `hcl:"idle_timeout,optional"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Simulation: &SimulationSettings{
			Episodes: 10000,
			Decks:    1,
			Seed:     0,
			Bot:      "random",
			Workers:  1,
		},
		Server: &ServerSettings{
			Address:     "localhost",
			Port:        8080,
			Decks:       1,
			MaxDecks:    8,
			IdleTimeout: "5m",
		},
	}
}

// Load loads configuration from an HCL file. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and fills in defaults for anything unset
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()

	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}

	if c.Simulation == nil {
		c.Simulation = def.Simulation
	}
	if c.Simulation.Episodes == 0 {
		c.Simulation.Episodes = def.Simulation.Episodes
	}
	if c.Simulation.Decks == 0 {
		c.Simulation.Decks = def.Simulation.Decks
	}
	if c.Simulation.Bot == "" {
		c.Simulation.Bot = def.Simulation.Bot
	}
	if c.Simulation.Workers == 0 {
		c.Simulation.Workers = def.Simulation.Workers
	}

	if c.Server == nil {
		c.Server = def.Server
	}
	if c.Server.Address == "" {
		c.Server.Address = def.Server.Address
	}
	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
	if c.Server.Decks == 0 {
		c.Server.Decks = def.Server.Decks
	}
	if c.Server.MaxDecks == 0 {
		c.Server.MaxDecks = def.Server.MaxDecks
	}
	if c.Server.IdleTimeout == "" {
		c.Server.IdleTimeout = def.Server.IdleTimeout
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	sim := c.Simulation
	if sim.Episodes < 1 {
		return fmt.Errorf("simulation: episodes must be positive, got %d", sim.Episodes)
	}
	if sim.Decks < 1 {
		return fmt.Errorf("simulation: decks must be at least 1, got %d", sim.Decks)
	}
	if sim.Workers < 1 {
		return fmt.Errorf("simulation: workers must be at least 1, got %d", sim.Workers)
	}
	if _, err := bot.Lookup(sim.Bot); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}

	srv := c.Server
	if srv.Port < 1 || srv.Port > 65535 {
		return fmt.Errorf("server: invalid port: %d", srv.Port)
	}
	if srv.Decks < 1 {
		return fmt.Errorf("server: decks must be at least 1, got %d", srv.Decks)
	}
	if srv.MaxDecks < srv.Decks || srv.MaxDecks > maxShoeDecks {
		return fmt.Errorf("server: max_decks must be between %d and %d, got %d", srv.Decks, maxShoeDecks, srv.MaxDecks)
	}
	if d, err := time.ParseDuration(srv.IdleTimeout); err != nil || d <= 0 {
		return fmt.Errorf("server: invalid idle_timeout %q", srv.IdleTimeout)
	}

	return nil
}

// ServerAddress returns the full listen address
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// IdleTimeout returns the parsed server idle timeout. Call Validate first.
func (c *Config) IdleTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.IdleTimeout)
	return d
}
