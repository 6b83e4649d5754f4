package game

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// DisplayStyles contains styling for round display
type DisplayStyles struct {
	Header lipgloss.Style
	Label  lipgloss.Style
	Card   lipgloss.Style
	Ace    lipgloss.Style
	Total  lipgloss.Style
	Bust   lipgloss.Style
	Win    lipgloss.Style
	Loss   lipgloss.Style
	Push   lipgloss.Style
}

// NewDisplayStyles creates a new set of display styles bound to r
func NewDisplayStyles(r *lipgloss.Renderer) *DisplayStyles {
	return &DisplayStyles{
		Header: r.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 2).
			Bold(true),
		Label: r.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),
		Card: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true),
		Ace: r.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		Total: r.NewStyle().
			Foreground(lipgloss.Color("#74B9FF")),
		Bust: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		Win: r.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),
		Loss: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		Push: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
	}
}

// Renderer writes human-readable dumps of a round
type Renderer struct {
	out    io.Writer
	styles *DisplayStyles
}

// NewRenderer creates a renderer writing to w. Color is detected from w
// unless noColor forces plain ASCII output.
func NewRenderer(w io.Writer, noColor bool) *Renderer {
	lr := lipgloss.NewRenderer(w)
	if noColor {
		lr.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{
		out:    w,
		styles: NewDisplayStyles(lr),
	}
}

// Styles exposes the renderer's styles for other views (e.g. the TUI)
func (r *Renderer) Styles() *DisplayStyles {
	return r.styles
}

// FormatHand renders cards followed by the hand total
func (r *Renderer) FormatHand(h Hand) string {
	cards := make([]string, len(h))
	for i, card := range h {
		if card.IsAce() {
			cards[i] = r.styles.Ace.Render(card.String())
		} else {
			cards[i] = r.styles.Card.Render(card.String())
		}
	}

	v := h.Evaluate()
	total := fmt.Sprintf("(%d)", v.Total)
	switch {
	case v.IsBust():
		total = r.styles.Bust.Render(fmt.Sprintf("(%d bust)", v.Total))
	case h.IsBlackjack():
		total = r.styles.Win.Render("(blackjack)")
	case v.IsSoft():
		total = r.styles.Total.Render(fmt.Sprintf("(soft %d)", v.Total))
	default:
		total = r.styles.Total.Render(total)
	}

	return strings.Join(cards, " ") + " " + total
}

// FormatReward renders a settled reward with its outcome
func (r *Renderer) FormatReward(reward float64) string {
	text := fmt.Sprintf("%+g %s", reward, OutcomeOf(reward))
	switch OutcomeOf(reward) {
	case Win, BlackjackWin:
		return r.styles.Win.Render(text)
	case Loss:
		return r.styles.Loss.Render(text)
	default:
		return r.styles.Push.Render(text)
	}
}

// Render dumps both hands and, when the round is settled, the reward
func (r *Renderer) Render(player, dealer Hand, reward *float64) {
	fmt.Fprintf(r.out, "%s %s\n", r.styles.Label.Render("Player:"), r.FormatHand(player))
	fmt.Fprintf(r.out, "%s %s\n", r.styles.Label.Render("Dealer:"), r.FormatHand(dealer))
	if reward != nil {
		fmt.Fprintf(r.out, "%s %s\n", r.styles.Label.Render("Returns:"), r.FormatReward(*reward))
	}
}

// RenderEnv renders the Env's current round
func (r *Renderer) RenderEnv(e *Env) {
	if e.Phase() == Terminal {
		reward := e.Reward()
		r.Render(e.player, e.dealer, &reward)
		return
	}
	r.Render(e.player, e.dealer, nil)
}
