// Command analyze prints quick, human-readable statistics about the rule sets
// in the project's configs directory. For each rule set it plays seeded random
// games and summarizes win shares, game length, extra turns and captures, so
// rule sets can be compared at a glance.
//
// Usage: analyze [configs-dir] [games]
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/wricardo/mancala/game/config"
	"github.com/wricardo/mancala/game/engine"
	"github.com/wricardo/mancala/game/simulate"
)

const (
	defaultGames = 2000
	seed         = 2024
)

// Analysis is the summary printed for one rule set
type Analysis struct {
	ConfigID string
	Report   *simulate.Report
}

func main() {
	dir := "configs"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}
	games := defaultGames
	if len(os.Args) > 2 {
		n, err := strconv.Atoi(os.Args[2])
		if err != nil || n <= 0 {
			fmt.Fprintf(os.Stderr, "games must be a positive integer, got %q\n", os.Args[2])
			os.Exit(2)
		}
		games = n
	}

	analyses, err := analyzeDir(context.Background(), dir, games)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printAnalyses(os.Stdout, analyses)
}

// analyzeDir simulates every valid rule set found in dir
func analyzeDir(ctx context.Context, dir string, games int) ([]Analysis, error) {
	manager, err := config.NewManager(dir)
	if err != nil {
		return nil, err
	}

	infos, err := manager.ListConfigs()
	if err != nil {
		return nil, err
	}

	analyses := make([]Analysis, 0, len(infos))
	for _, info := range infos {
		rules, err := manager.LoadConfig(info.ConfigID)
		if err != nil {
			return nil, err
		}

		report, err := simulate.Run(ctx, simulate.Options{Games: games, Seed: seed, Rules: rules})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", info.ConfigID, err)
		}
		analyses = append(analyses, Analysis{ConfigID: info.ConfigID, Report: report})
	}

	return analyses, nil
}

func printAnalyses(w io.Writer, analyses []Analysis) {
	for _, a := range analyses {
		r := a.Report
		perGame := func(n int) float64 { return float64(n) / float64(r.Games) }

		fmt.Fprintf(w, "\n=== Analyzing %s ===\n", a.ConfigID)
		fmt.Fprintf(w, "Name: %s\n", r.RulesName)
		fmt.Fprintf(w, "Stones: %d per pit, %d total\n", r.StonesPerPit, 2*engine.PitsPerSide*r.StonesPerPit)
		fmt.Fprintf(w, "Games: %d\n", r.Games)
		fmt.Fprintf(w, "Wins: A %.1f%%  B %.1f%%  draw %.1f%%\n",
			100*r.WinRate(engine.OutcomeA), 100*r.WinRate(engine.OutcomeB), 100*r.WinRate(engine.OutcomeDraw))
		fmt.Fprintf(w, "Moves: mean %.1f, max %d\n", r.MeanMoves(), r.MaxMoves)
		fmt.Fprintf(w, "Extra turns per game: %.2f\n", perGame(r.ExtraTurns))
		fmt.Fprintf(w, "Captures per game: %.2f (%.1f stones)\n", perGame(r.Captures), perGame(r.Captured))
		fmt.Fprintf(w, "Mean final stores: A %.1f  B %.1f\n",
			perGame(r.StoreTotals[engine.PlayerA]), perGame(r.StoreTotals[engine.PlayerB]))

		if edge := r.WinRate(engine.OutcomeA) - r.WinRate(engine.OutcomeB); edge > 0.1 || edge < -0.1 {
			fmt.Fprintf(w, "⚠️  First-player edge under random play: %+.1f%%\n", 100*edge)
		} else {
			fmt.Fprintf(w, "✅ Balanced under random play\n")
		}
	}
}
