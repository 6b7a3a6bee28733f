// Package engine provides the core rules of Mancala, Kalah variant.
//
// The engine package implements the game mechanics including:
//   - Sowing counter-clockwise while skipping the opponent's store
//   - Extra turns when the last stone lands in the mover's store
//   - Captures from the opposite pit
//   - End-of-game sweep and winner selection
//   - Rule set loading and validation
//
// Board Layout:
//
// The board is a fixed array of 14 counters. Indices 0-5 are player A's pits,
// 6 is A's store, 7-12 are B's pits and 13 is B's store. The array is never
// rotated; player-relative views are computed with ToAbsolute and ToRelative.
//
//	   12 11 10  9  8  7
//	13                    6
//	    0  1  2  3  4  5
//
// Usage:
//
//	rules, err := engine.LoadRules("configs/kalah.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(rules)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Player A sows their third pit
//	if err := gameEngine.PlayMove(2); err != nil {
//		var invalid *engine.InvalidMoveError
//		if errors.As(err, &invalid) {
//			fmt.Println(invalid.Reason)
//		}
//	}
//
// Concurrency:
//
// GameEngine holds no locks. Hosts that share an engine between goroutines
// must serialize every call.
//
// Invariants:
//
// The total number of stones never changes. The engine verifies this after
// every move and after the final sweep, and panics on a mismatch.
package engine
