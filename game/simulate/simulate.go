package simulate

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/mancala/game/engine"
)

// maxMovesPerGame bounds a single playout. Kalah always terminates well below it.
const maxMovesPerGame = 1000

var ErrNoGames = errors.New("games must be positive")

// Options controls a simulation run
type Options struct {
	Games   int
	Workers int // defaults to GOMAXPROCS
	Seed    uint64
	Rules   *engine.Rules // defaults to engine.DefaultRules
}

// Report aggregates the outcome of every simulated game
type Report struct {
	RulesName    string                 `json:"rules_name"`
	StonesPerPit int                    `json:"stones_per_pit"`
	Games        int                    `json:"games"`
	Wins         map[engine.Outcome]int `json:"wins"`
	TotalMoves   int                    `json:"total_moves"`
	MaxMoves     int                    `json:"max_moves"`
	ExtraTurns   int                    `json:"extra_turns"`
	Captures     int                    `json:"captures"`
	Captured     int                    `json:"captured_stones"`
	StoreTotals  map[engine.Player]int  `json:"store_totals"`
}

// MeanMoves is the average number of sowings per game
func (r *Report) MeanMoves() float64 {
	if r.Games == 0 {
		return 0
	}
	return float64(r.TotalMoves) / float64(r.Games)
}

// WinRate is the share of games with the given outcome
func (r *Report) WinRate(o engine.Outcome) float64 {
	if r.Games == 0 {
		return 0
	}
	return float64(r.Wins[o]) / float64(r.Games)
}

// GameResult is the summary of one playout
type GameResult struct {
	Winner     engine.Outcome
	Moves      int
	ExtraTurns int
	Captures   int
	Captured   int
	Board      engine.Board
}

func (r *Report) add(g GameResult) {
	r.Games++
	r.Wins[g.Winner]++
	r.TotalMoves += g.Moves
	r.MaxMoves = max(r.MaxMoves, g.Moves)
	r.ExtraTurns += g.ExtraTurns
	r.Captures += g.Captures
	r.Captured += g.Captured
	r.StoreTotals[engine.PlayerA] += g.Board[engine.StoreA]
	r.StoreTotals[engine.PlayerB] += g.Board[engine.StoreB]
}

// Run plays opts.Games random games across a worker pool. The first failing
// game cancels the rest and its error is returned.
func Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Games <= 0 {
		return nil, ErrNoGames
	}
	rules := opts.Rules
	if rules == nil {
		rules = engine.DefaultRules()
	}
	if err := engine.ValidateRules(rules); err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, opts.Games)

	report := &Report{
		RulesName:    rules.Name,
		StonesPerPit: rules.StonesPerPit,
		Wins:         make(map[engine.Outcome]int),
		StoreTotals:  make(map[engine.Player]int),
	}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan int)

	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < opts.Games; i++ {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := range jobs {
				res, err := PlayGame(ctx, rules, opts.Seed+uint64(i))
				if err != nil {
					return fmt.Errorf("game %d: %w", i, err)
				}
				mu.Lock()
				report.add(*res)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("rules", report.RulesName).
		Int("games", report.Games).
		Int("workers", workers).
		Float64("mean_moves", report.MeanMoves()).
		Msg("simulation finished")

	return report, nil
}

// PlayGame plays one seeded random game to completion and checks stone
// conservation after every sowing.
func PlayGame(ctx context.Context, rules *engine.Rules, seed uint64) (*GameResult, error) {
	e, err := engine.NewEngine(rules)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	total := rules.TotalStones()

	res := &GameResult{}
	for !e.IsOver() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if res.Moves >= maxMovesPerGame {
			return nil, fmt.Errorf("no result after %d moves", maxMovesPerGame)
		}

		legal := e.LegalMoves()
		if len(legal) == 0 {
			return nil, fmt.Errorf("player %s has no legal move in a running game", e.CurrentPlayer())
		}

		entry, err := e.Play(legal[rng.Intn(len(legal))])
		if err != nil {
			return nil, err
		}
		if entry == nil {
			return nil, errors.New("legal move was a no-op")
		}
		if got := e.Board().Total(); got != total {
			return nil, fmt.Errorf("stone count %d after move %d, want %d", got, entry.MoveNumber, total)
		}

		res.Moves++
		if entry.ExtraTurn {
			res.ExtraTurns++
		}
		if entry.Captured > 0 {
			res.Captures++
			res.Captured += entry.Captured
		}
	}

	res.Winner = e.Winner()
	res.Board = e.Board()
	return res, nil
}
