package game

import (
	"fmt"

	"github.com/lox/blackjackforbots/internal/deck"
)

// DealerStandsOn is the total at which the dealer stops drawing. The dealer
// stands on every 17, soft ones included.
const DealerStandsOn = 17

// PlayDealer draws cards from shoe onto hand until it totals at least 17.
// Every draw raises the hand's minimum total, so the loop always ends; the
// only failure is an exhausted shoe.
func PlayDealer(hand *Hand, shoe *deck.Shoe) error {
	for Evaluate(*hand).Total < DealerStandsOn {
		card, err := shoe.DealOne()
		if err != nil {
			return fmt.Errorf("dealer draw: %w", err)
		}
		*hand = append(*hand, card)
	}
	return nil
}
