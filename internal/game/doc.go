// Package game implements single-player blackjack against a fixed-policy dealer.
//
// The main type is Env, which runs one round at a time behind a narrow
// Reset/Step contract suitable for automated decision-making experiments.
//
// # Basic Usage
//
//	env, err := game.NewEnv(game.WithDecks(6))
//	obs, info, err := env.Reset(nil)
//	for {
//	    res, err := env.Step(game.Hit)
//	    if res.Terminated {
//	        fmt.Println(res.Reward)
//	        break
//	    }
//	}
//
// # Deterministic Testing
//
// Pass a seed to Reset to reproduce a round's shoe exactly:
//
//	seed := int64(42)
//	obs, info, err := env.Reset(&seed)
//
// Or stack the shoe for complete control over the cards dealt:
//
//	env, _ := game.NewEnv(game.WithShoeFactory(
//	    game.StackedShoe(deck.MustParseCards("TAK6")...)))
//
// # Architecture
//
// Env delegates to pure helpers:
//   - Evaluate: best total with soft/hard ace resolution
//   - PlayDealer: the stand-on-17 dealer (stands on soft 17)
//   - Resolve: compares finished hands to a reward in {-1, 0, 1, 1.5}
//
// Each Env owns its shoe, hands and RNG, so independent rounds can run on
// independent Envs concurrently.
package game
