package deck

import (
	"fmt"
	"strings"
)

// Rank represents a card rank. Suits never affect blackjack rules, so a card
// is fully described by its rank.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Ranks lists every rank in ascending order, one entry per rank of a deck.
var Ranks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

// SuitsPerDeck is the multiplicity of each rank in a standard 52-card deck.
const SuitsPerDeck = 4

// DeckSize is the number of cards in one standard deck.
const DeckSize = 13 * SuitsPerDeck

// String returns the string representation of a rank
func (r Rank) String() string {
	switch r {
	case Two:
		return "2"
	case Three:
		return "3"
	case Four:
		return "4"
	case Five:
		return "5"
	case Six:
		return "6"
	case Seven:
		return "7"
	case Eight:
		return "8"
	case Nine:
		return "9"
	case Ten:
		return "T"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		return "?"
	}
}

// Valid reports whether r is one of the thirteen ranks.
func (r Rank) Valid() bool {
	return r >= Two && r <= Ace
}

// Card represents a playing card
type Card struct {
	Rank Rank
}

// NewCard creates a new card
func NewCard(rank Rank) Card {
	return Card{Rank: rank}
}

// String returns the rank symbol of the card (e.g., "A", "T", "7")
func (c Card) String() string {
	return c.Rank.String()
}

// Value returns the blackjack point value of the card. Face cards count 10
// and an Ace counts 11; downgrading an Ace to 1 is the evaluator's job.
func (c Card) Value() int {
	switch {
	case c.Rank == Ace:
		return 11
	case c.Rank >= Ten:
		return 10
	default:
		return int(c.Rank)
	}
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// IsFaceCard returns true if the card is a face card (J, Q, K)
func (c Card) IsFaceCard() bool {
	return c.Rank >= Jack && c.Rank <= King
}

// ParseRank parses a single rank symbol. "10" and "T" both mean Ten.
func ParseRank(s string) (Rank, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "2":
		return Two, nil
	case "3":
		return Three, nil
	case "4":
		return Four, nil
	case "5":
		return Five, nil
	case "6":
		return Six, nil
	case "7":
		return Seven, nil
	case "8":
		return Eight, nil
	case "9":
		return Nine, nil
	case "T", "10":
		return Ten, nil
	case "J":
		return Jack, nil
	case "Q":
		return Queen, nil
	case "K":
		return King, nil
	case "A":
		return Ace, nil
	default:
		return 0, fmt.Errorf("invalid rank %q", s)
	}
}

// ParseCards parses a run of rank symbols such as "AK" or "T95". Whitespace
// and commas between symbols are ignored.
func ParseCards(s string) ([]Card, error) {
	cards := []Card{}
	s = strings.NewReplacer(" ", "", ",", "").Replace(s)
	for i := 0; i < len(s); i++ {
		sym := s[i : i+1]
		if strings.HasPrefix(s[i:], "10") {
			sym = "10"
			i++
		}
		rank, err := ParseRank(sym)
		if err != nil {
			return nil, err
		}
		cards = append(cards, NewCard(rank))
	}
	return cards, nil
}

// MustParseCards is like ParseCards but panics on malformed input. Intended
// for tests and fixtures.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(fmt.Sprintf("deck: %v", err))
	}
	return cards
}

// MarshalText encodes the card as its rank symbol
func (c Card) MarshalText() ([]byte, error) {
	if !c.Rank.Valid() {
		return nil, fmt.Errorf("invalid rank %d", int(c.Rank))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a rank symbol
func (c *Card) UnmarshalText(text []byte) error {
	rank, err := ParseRank(string(text))
	if err != nil {
		return err
	}
	c.Rank = rank
	return nil
}
