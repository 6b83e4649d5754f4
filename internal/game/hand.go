package game

import (
	"strings"

	"github.com/lox/blackjackforbots/internal/deck"
)

const (
	// BlackjackTotal is the best possible hand total.
	BlackjackTotal = 21

	// softAceBonus is what an Ace loses when it drops from 11 to 1.
	softAceBonus = 10
)

// Hand is an ordered run of cards held by the player or the dealer
type Hand []deck.Card

// Valuation is the derived value of a hand. It is always recomputed from the
// cards, never stored alongside them.
type Valuation struct {
	Total      int // best total, above 21 when the hand is bust
	Aces       int // raw number of aces in the hand
	UsableAces int // aces still counting as 11
}

// IsSoft reports whether at least one ace is counting as 11
func (v Valuation) IsSoft() bool {
	return v.UsableAces > 0
}

// IsBust reports whether the total is over 21
func (v Valuation) IsBust() bool {
	return v.Total > BlackjackTotal
}

// Evaluate computes the best total for cards. Every ace starts at 11 and is
// downgraded to 1, one at a time, only while the total is over 21.
func Evaluate(cards []deck.Card) Valuation {
	var v Valuation
	for _, card := range cards {
		v.Total += card.Value()
		if card.IsAce() {
			v.Aces++
		}
	}

	v.UsableAces = v.Aces
	for v.Total > BlackjackTotal && v.UsableAces > 0 {
		v.Total -= softAceBonus
		v.UsableAces--
	}

	return v
}

// IsBlackjack reports whether cards are a natural: exactly two cards worth 21
func IsBlackjack(cards []deck.Card) bool {
	return len(cards) == 2 && Evaluate(cards).Total == BlackjackTotal
}

// IsBust reports whether cards total more than 21
func IsBust(cards []deck.Card) bool {
	return Evaluate(cards).IsBust()
}

// Evaluate is shorthand for Evaluate(h)
func (h Hand) Evaluate() Valuation {
	return Evaluate(h)
}

// Total returns the best total of the hand
func (h Hand) Total() int {
	return Evaluate(h).Total
}

// IsBlackjack is shorthand for IsBlackjack(h)
func (h Hand) IsBlackjack() bool {
	return IsBlackjack(h)
}

// IsBust is shorthand for IsBust(h)
func (h Hand) IsBust() bool {
	return IsBust(h)
}

// Clone returns a copy that shares no storage with h
func (h Hand) Clone() Hand {
	if h == nil {
		return Hand{}
	}
	out := make(Hand, len(h))
	copy(out, h)
	return out
}

// String renders the hand as space separated rank symbols, e.g. "A K"
func (h Hand) String() string {
	parts := make([]string, len(h))
	for i, card := range h {
		parts[i] = card.String()
	}
	return strings.Join(parts, " ")
}
