package game

import (
	"testing"

	"github.com/lox/blackjackforbots/internal/deck"
	"github.com/lox/blackjackforbots/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayDealer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		dealer    string
		shoe      string
		expected  string
		remaining int
	}{
		{"stands on soft 17", "A6", "T", "A 6", 1},
		{"stands on hard 17", "T7", "5", "T 7", 1},
		{"stands on 20", "KQ", "", "K Q", 0},
		{"draws to 17", "T4", "3T", "T 4 3", 1},
		{"draws and busts", "T6", "K", "T 6 K", 0},
		{"soft hand drawing past 21", "A5", "T9", "A 5 T 9", 0},
		{"stops on soft 17 after drawing", "22", "2A3A7", "2 2 2 A", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := hand(tt.dealer)
			shoe := deck.NewStackedShoe(deck.MustParseCards(tt.shoe)...)

			require.NoError(t, PlayDealer(&h, shoe))
			assert.Equal(t, tt.expected, h.String())
			assert.Equal(t, tt.remaining, shoe.Remaining())
		})
	}
}

func TestPlayDealerEmptyShoe(t *testing.T) {
	t.Parallel()

	h := hand("T2")
	shoe := deck.NewStackedShoe(deck.MustParseCards("2")...)

	err := PlayDealer(&h, shoe)
	assert.ErrorIs(t, err, deck.ErrEmptyShoe)
	assert.Equal(t, "T 2 2", h.String())
}

func TestPlayDealerAlwaysFinishesAtSeventeenOrMore(t *testing.T) {
	t.Parallel()

	for seed := range int64(500) {
		shoe, err := deck.NewShoe(1, randutil.New(seed))
		require.NoError(t, err)

		var h Hand
		for range 2 {
			card, err := shoe.DealOne()
			require.NoError(t, err)
			h = append(h, card)
		}

		require.NoError(t, PlayDealer(&h, shoe))
		assert.GreaterOrEqual(t, h.Total(), DealerStandsOn, "seed %d hand %s", seed, h)

		// The last card drawn was needed: without it the dealer was below 17.
		if len(h) > 2 {
			assert.Less(t, h[:len(h)-1].Total(), DealerStandsOn, "seed %d hand %s", seed, h)
		}
	}
}
