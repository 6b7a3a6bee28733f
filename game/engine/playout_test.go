package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// TestRandomPlayouts plays random legal games to completion and checks the
// board invariants after every move.
func TestRandomPlayouts(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for stones := 1; stones <= 6; stones++ {
		for _, captureEmpty := range []bool{false, true} {
			rules := createTestRules()
			rules.StonesPerPit = stones
			rules.CaptureEmptyOpposite = captureEmpty

			for game := 0; game < 25; game++ {
				e, err := NewEngine(rules)
				require.NoError(t, err)

				total := rules.TotalStones()
				for moves := 0; !e.IsOver(); moves++ {
					require.Less(t, moves, 1000, "game did not terminate")

					legal := e.LegalMoves()
					require.NotEmpty(t, legal, "no legal moves in a running game")
					mover := e.CurrentPlayer()

					entry, err := e.Play(legal[rng.Intn(len(legal))])
					require.NoError(t, err)
					require.NotNil(t, entry)

					require.Equal(t, total, e.Board().Total())
					for i, n := range e.Board() {
						require.GreaterOrEqual(t, n, 0, "pit %d went negative", i)
					}
					if !e.IsOver() {
						if entry.ExtraTurn {
							require.Equal(t, mover, e.CurrentPlayer())
						} else {
							require.Equal(t, mover.Opponent(), e.CurrentPlayer())
						}
					}
				}

				require.Equal(t, total, e.StoreCount(PlayerA)+e.StoreCount(PlayerB))
				switch {
				case e.StoreCount(PlayerA) > e.StoreCount(PlayerB):
					require.Equal(t, OutcomeA, e.Winner())
				case e.StoreCount(PlayerB) > e.StoreCount(PlayerA):
					require.Equal(t, OutcomeB, e.Winner())
				default:
					require.Equal(t, OutcomeDraw, e.Winner())
				}
			}
		}
	}
}
