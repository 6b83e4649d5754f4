package game

import "github.com/lox/blackjackforbots/internal/deck"

// Observation is what a driving policy sees after Reset and every Step.
// OwnHandValue is reported even when the hand is bust; the terminal reward is
// the only bust signal.
type Observation struct {
	OwnHandValue      int `json:"own_hand_value"`
	UsableAces        int `json:"usable_aces"` // 1 when any ace counts as 11
	DealerUpCardValue int `json:"dealer_up_card_value"`
}

// Info is diagnostic state for rendering and debugging. Every slice is a
// fresh copy; changing it never reaches the engine.
type Info struct {
	Shoe       []deck.Card `json:"shoe"`
	PlayerHand Hand        `json:"player_hand"`
	DealerHand Hand        `json:"dealer_hand"`
}

// StepResult is everything Step reports about a transition
type StepResult struct {
	Observation Observation `json:"observation"`
	Reward      float64     `json:"reward"`
	Terminated  bool        `json:"terminated"`
	// Truncated is always false; the engine imposes no step cap.
	Truncated bool `json:"truncated"`
	Info      Info `json:"info"`
}

// Space describes one discrete observation field as [0, N)
type Space struct {
	Name string `json:"name"`
	N    int    `json:"n"`
}

// ObservationSpace lists the discrete range of every observation field
func ObservationSpace() []Space {
	return []Space{
		{Name: "own_hand_value", N: 32},
		{Name: "usable_aces", N: 2},
		{Name: "dealer_up_card_value", N: 12},
	}
}

// Valid reports whether every field lies inside ObservationSpace
func (o Observation) Valid() bool {
	values := []int{o.OwnHandValue, o.UsableAces, o.DealerUpCardValue}
	for i, space := range ObservationSpace() {
		if values[i] < 0 || values[i] >= space.N {
			return false
		}
	}
	return true
}

func observe(player, dealer Hand) Observation {
	v := player.Evaluate()
	obs := Observation{OwnHandValue: v.Total}
	if v.IsSoft() {
		obs.UsableAces = 1
	}
	if len(dealer) > 0 {
		obs.DealerUpCardValue = dealer[0].Value()
	}
	return obs
}
