package simulate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mancala/game/engine"
)

func TestRun(t *testing.T) {
	report, err := Run(context.Background(), Options{Games: 40, Workers: 4, Seed: 7})
	require.NoError(t, err)

	assert.Equal(t, 40, report.Games)
	assert.Equal(t, engine.DefaultStonesPerPit, report.StonesPerPit)
	assert.Equal(t, 40, report.Wins[engine.OutcomeA]+report.Wins[engine.OutcomeB]+report.Wins[engine.OutcomeDraw])
	assert.Zero(t, report.Wins[engine.OutcomeNone])
	assert.Equal(t, 40*48, report.StoreTotals[engine.PlayerA]+report.StoreTotals[engine.PlayerB])
	assert.GreaterOrEqual(t, report.MaxMoves, 1)
	assert.InDelta(t, float64(report.TotalMoves)/40, report.MeanMoves(), 1e-9)
}

func TestRun_DeterministicAcrossWorkerCounts(t *testing.T) {
	rules := engine.DefaultRules()
	rules.StonesPerPit = 3
	rules.CaptureEmptyOpposite = true

	one, err := Run(context.Background(), Options{Games: 30, Workers: 1, Seed: 99, Rules: rules})
	require.NoError(t, err)
	many, err := Run(context.Background(), Options{Games: 30, Workers: 8, Seed: 99, Rules: rules})
	require.NoError(t, err)

	assert.Equal(t, one, many)
}

func TestRun_Errors(t *testing.T) {
	_, err := Run(context.Background(), Options{Games: 0})
	assert.ErrorIs(t, err, ErrNoGames)

	bad := engine.DefaultRules()
	bad.StonesPerPit = 0
	_, err = Run(context.Background(), Options{Games: 1, Rules: bad})
	assert.ErrorIs(t, err, engine.ErrInvalidRules)
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Options{Games: 1000, Workers: 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestPlayGame(t *testing.T) {
	for stones := engine.MinStonesPerPit; stones <= 6; stones++ {
		rules := engine.DefaultRules()
		rules.StonesPerPit = stones

		res, err := PlayGame(context.Background(), rules, uint64(stones))
		require.NoError(t, err)

		a, b := res.Board[engine.StoreA], res.Board[engine.StoreB]
		assert.Equal(t, rules.TotalStones(), a+b, "stones must all end in stores")
		switch {
		case a > b:
			assert.Equal(t, engine.OutcomeA, res.Winner)
		case b > a:
			assert.Equal(t, engine.OutcomeB, res.Winner)
		default:
			assert.Equal(t, engine.OutcomeDraw, res.Winner)
		}
		assert.LessOrEqual(t, res.ExtraTurns, res.Moves)
		assert.LessOrEqual(t, res.Captures, res.Moves)
	}
}
