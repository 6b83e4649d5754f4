package deck

import (
	"errors"
	"fmt"
	"math"
	rand "math/rand/v2"

	"github.com/lox/blackjackforbots/internal/randutil"
)

var (
	// ErrEmptyShoe is returned when a card is requested from an exhausted shoe.
	// A single round cannot drain even one deck, so seeing it means a caller
	// is misusing the shoe.
	ErrEmptyShoe = errors.New("deck: shoe is empty")

	// ErrInvalidDecks is returned when a shoe is requested with fewer than one
	// deck, or with more than fit in memory.
	ErrInvalidDecks = errors.New("deck: invalid number of decks")
)

// Shoe is the working stack of one or more concatenated decks. Cards leave
// from the front only and are never put back.
type Shoe struct {
	cards []Card
	decks int
	rng   *rand.Rand
}

// NewShoe builds a shoe of n standard decks and shuffles it with rng. A nil
// rng gets a time-seeded generator of its own.
func NewShoe(decks int, rng *rand.Rand) (*Shoe, error) {
	if decks < 1 || decks > math.MaxInt/DeckSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDecks, decks)
	}
	if rng == nil {
		rng = randutil.NewFromTime()
	}

	shoe := &Shoe{
		cards: make([]Card, 0, decks*DeckSize),
		decks: decks,
		rng:   rng,
	}

	for range decks {
		for range SuitsPerDeck {
			for _, rank := range Ranks {
				shoe.cards = append(shoe.cards, NewCard(rank))
			}
		}
	}

	shoe.Shuffle()
	return shoe, nil
}

// NewStackedShoe returns an unshuffled shoe that deals cards in the given
// order. Useful for reproducing exact situations in tests.
func NewStackedShoe(cards ...Card) *Shoe {
	stacked := make([]Card, len(cards))
	copy(stacked, cards)
	return &Shoe{cards: stacked}
}

// Shuffle randomizes the order of the remaining cards using Fisher-Yates
func (s *Shoe) Shuffle() {
	if s.rng == nil {
		return
	}
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

// DealOne removes and returns the next card
func (s *Shoe) DealOne() (Card, error) {
	if len(s.cards) == 0 {
		return Card{}, ErrEmptyShoe
	}

	card := s.cards[0]
	s.cards = s.cards[1:]
	return card, nil
}

// Remaining returns the number of cards left in the shoe
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// Decks returns the number of decks the shoe was built from (0 for stacked shoes)
func (s *Shoe) Decks() int {
	return s.decks
}

// Cards returns a copy of the remaining cards in dealing order
func (s *Shoe) Cards() []Card {
	out := make([]Card, len(s.cards))
	copy(out, s.cards)
	return out
}
