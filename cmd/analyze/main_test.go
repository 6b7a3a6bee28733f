package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/mancala/game/engine"
	"github.com/wricardo/mancala/game/simulate"
)

func TestAnalyzeDir(t *testing.T) {
	analyses, err := analyzeDir(context.Background(), "../../configs", 20)
	if err != nil {
		t.Fatalf("analyzeDir failed: %v", err)
	}
	if len(analyses) == 0 {
		t.Fatal("Expected at least one rule set")
	}

	for _, a := range analyses {
		if a.Report.Games != 20 {
			t.Errorf("%s: expected 20 games, got %d", a.ConfigID, a.Report.Games)
		}
	}
}

func TestAnalyzeDir_MissingDir(t *testing.T) {
	if _, err := analyzeDir(context.Background(), filepath.Join(t.TempDir(), "nope"), 10); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestAnalyzeDir_SkipsInvalidFiles(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "kalah.json"), []byte(`{"name":"K","description":"d","stones_per_pit":2}`), 0644)
	os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{broken`), 0644)

	analyses, err := analyzeDir(context.Background(), dir, 5)
	if err != nil {
		t.Fatalf("analyzeDir failed: %v", err)
	}
	if len(analyses) != 1 || analyses[0].ConfigID != "kalah" {
		t.Errorf("Expected only kalah, got %+v", analyses)
	}
}

func TestPrintAnalyses(t *testing.T) {
	report := &simulate.Report{
		RulesName:    "Kalah",
		StonesPerPit: 4,
		Games:        10,
		Wins:         map[engine.Outcome]int{engine.OutcomeA: 8, engine.OutcomeB: 2},
		TotalMoves:   400,
		MaxMoves:     55,
		ExtraTurns:   50,
		Captures:     20,
		Captured:     90,
		StoreTotals:  map[engine.Player]int{engine.PlayerA: 300, engine.PlayerB: 180},
	}

	var buf bytes.Buffer
	printAnalyses(&buf, []Analysis{{ConfigID: "kalah", Report: report}})
	out := buf.String()

	for _, want := range []string{
		"=== Analyzing kalah ===",
		"Stones: 4 per pit, 48 total",
		"Wins: A 80.0%  B 20.0%  draw 0.0%",
		"Moves: mean 40.0, max 55",
		"Extra turns per game: 5.00",
		"Captures per game: 2.00 (9.0 stones)",
		"First-player edge under random play: +60.0%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}
