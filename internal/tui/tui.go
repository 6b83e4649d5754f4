// Package tui is an interactive blackjack table for a human player. It drives
// a game.Env through Reset and Step only.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/lox/blackjackforbots/internal/game"
	"github.com/lox/blackjackforbots/internal/statistics"
)

// Model is the Bubble Tea model for one player at one table
type Model struct {
	env      *game.Env
	renderer *game.Renderer
	logger   *log.Logger

	keys keyMap
	help help.Model

	steps    int
	upCard   int
	stats    statistics.Statistics
	err      error
	quitting bool
	width    int
}

// NewModel creates a model and deals the first round
func NewModel(env *game.Env, renderer *game.Renderer, logger *log.Logger) (*Model, error) {
	m := &Model{
		env:      env,
		renderer: renderer,
		logger:   logger.WithPrefix("tui"),
		keys:     defaultKeyMap(),
		help:     help.New(),
	}
	if err := m.deal(); err != nil {
		return nil, err
	}
	return m, nil
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Hit):
			m.step(game.Hit)
		case key.Matches(msg, m.keys.Stand):
			m.step(game.Stand)
		case key.Matches(msg, m.keys.Deal):
			m.err = m.deal()
		}
	}
	return m, nil
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return m.summary() + "\n"
	}

	styles := m.renderer.Styles()
	var b strings.Builder

	b.WriteString(styles.Header.Render(fmt.Sprintf("Blackjack · round %d", m.env.Round())))
	b.WriteString("\n\n")

	player := m.env.PlayerHand()
	dealer := m.env.DealerHand()

	fmt.Fprintf(&b, "%s %s\n", styles.Label.Render("Dealer:"), m.dealerView(dealer))
	fmt.Fprintf(&b, "%s %s\n", styles.Label.Render("Player:"), m.renderer.FormatHand(player))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(styles.Bust.Render("Error: " + m.err.Error()))
	case m.env.Phase() == game.Terminal:
		fmt.Fprintf(&b, "%s %s", styles.Label.Render("Returns:"), m.renderer.FormatReward(m.env.Reward()))
	default:
		b.WriteString(styles.Total.Render("Hit or stand?"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.summary())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")

	return b.String()
}

// Stats returns the results of every settled round
func (m *Model) Stats() *statistics.Statistics {
	return &m.stats
}

// dealerView hides the hole card until the round is settled
func (m *Model) dealerView(dealer game.Hand) string {
	if m.env.Phase() == game.Terminal || len(dealer) < 2 {
		return m.renderer.FormatHand(dealer)
	}
	styles := m.renderer.Styles()
	return styles.Card.Render(dealer[0].String()) + " " + styles.Card.Render("??")
}

func (m *Model) summary() string {
	if m.stats.Episodes == 0 {
		return m.renderer.Styles().Push.Render("No rounds settled yet")
	}
	return m.renderer.Styles().Push.Render(fmt.Sprintf(
		"Rounds: %d  Net: %+g  Wins: %d  Blackjacks: %d  Pushes: %d  Losses: %d",
		m.stats.Episodes, m.stats.Sum, m.stats.Wins, m.stats.Blackjacks, m.stats.Pushes, m.stats.Losses))
}

func (m *Model) deal() error {
	obs, _, err := m.env.Reset(nil)
	if err != nil {
		m.keys.roundOpen(false)
		return err
	}
	m.steps = 0
	m.upCard = obs.DealerUpCardValue
	m.keys.roundOpen(true)
	return nil
}

func (m *Model) step(action game.Action) {
	result, err := m.env.Step(action)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.steps++

	if !result.Terminated {
		return
	}

	m.keys.roundOpen(false)
	m.stats.Add(statistics.EpisodeResult{
		Reward:       result.Reward,
		Steps:        m.steps,
		PlayerTotal:  result.Info.PlayerHand.Total(),
		DealerTotal:  result.Info.DealerHand.Total(),
		DealerUpCard: m.upCard,
		PlayerBust:   result.Info.PlayerHand.IsBust(),
	})
	m.logger.Debug("Round settled",
		"round", m.env.Round(),
		"reward", result.Reward,
		"outcome", game.OutcomeOf(result.Reward))
}
