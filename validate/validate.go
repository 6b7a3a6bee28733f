// Package validate checks rule set JSON files before they are served. It
// reports:
//   - JSON structure and unknown fields
//   - Required fields and the stones-per-pit range
//   - Format verbs in the player-facing messages
//   - Playability: a seeded game played to completion keeps every stone
package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/multierr"

	"github.com/wricardo/mancala/game/engine"
	"github.com/wricardo/mancala/game/simulate"
)

// smokeSeed seeds the playability check so reports are reproducible
const smokeSeed = 1

// Result captures the outcome of validating a single file. Err combines every
// problem found; Info holds summary lines for valid files.
type Result struct {
	File  string
	Rules *engine.Rules
	Err   error
	Info  []string
}

// Valid reports whether no problem was found
func (r *Result) Valid() bool {
	return r.Err == nil
}

// Problems lists each problem on its own
func (r *Result) Problems() []string {
	errs := multierr.Errors(r.Err)
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}

// messageVerbs is the number of format verbs each message takes
var messageVerbs = []struct {
	key   string
	get   func(m *engine.RuleMessages) string
	verbs int
}{
	{"welcome", func(m *engine.RuleMessages) string { return m.Welcome }, 0},
	{"turn", func(m *engine.RuleMessages) string { return m.Turn }, 1},
	{"extra_turn", func(m *engine.RuleMessages) string { return m.ExtraTurn }, 1},
	{"capture", func(m *engine.RuleMessages) string { return m.Capture }, 1},
	{"empty_pit", func(m *engine.RuleMessages) string { return m.EmptyPit }, 0},
	{"victory", func(m *engine.RuleMessages) string { return m.Victory }, 1},
	{"draw", func(m *engine.RuleMessages) string { return m.Draw }, 0},
}

// countVerbs counts printf verbs, ignoring the %% escape
func countVerbs(s string) int {
	n := 0
	for i := 0; i < len(s)-1; i++ {
		if s[i] != '%' {
			continue
		}
		if s[i+1] == '%' {
			i++
			continue
		}
		n++
	}
	return n
}

// ValidateFile validates one rule set file
func ValidateFile(path string) *Result {
	result := &Result{File: filepath.Base(path)}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Err = fmt.Errorf("failed to read file: %w", err)
		return result
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var rules engine.Rules
	if err := dec.Decode(&rules); err != nil {
		result.Err = fmt.Errorf("invalid JSON: %w", err)
		return result
	}

	var errs error
	for _, m := range messageVerbs {
		msg := m.get(&rules.Messages)
		if msg == "" {
			continue
		}
		if got := countVerbs(msg); got != m.verbs {
			errs = multierr.Append(errs, fmt.Errorf("messages.%s takes %d format verbs, found %d", m.key, m.verbs, got))
		}
	}
	errs = multierr.Append(errs, engine.ValidateRules(&rules))

	if errs != nil {
		result.Err = errs
		return result
	}

	// ParseRules fills message defaults, which the playability check relies on
	parsed, err := engine.ParseRules(data)
	if err != nil {
		result.Err = err
		return result
	}
	result.Rules = parsed

	game, err := simulate.PlayGame(context.Background(), parsed, smokeSeed)
	if err != nil {
		result.Err = fmt.Errorf("playability check failed: %w", err)
		return result
	}

	capture := "standard"
	if parsed.CaptureEmptyOpposite {
		capture = "empty opposite allowed"
	}
	result.Info = []string{
		fmt.Sprintf("Name: %s", parsed.Name),
		fmt.Sprintf("Stones: %d per pit, %d total", parsed.StonesPerPit, parsed.TotalStones()),
		fmt.Sprintf("Capture: %s", capture),
		fmt.Sprintf("Smoke game: %d moves, winner %s", game.Moves, game.Winner),
	}

	return result
}

// ValidateDir validates every *.json file in dir, sorted by name. The returned error
// combines the problems of all invalid files.
func ValidateDir(dir string) ([]*Result, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no rule files found in %s", dir)
	}
	sort.Strings(files)

	var errs error
	results := make([]*Result, 0, len(files))
	for _, file := range files {
		result := ValidateFile(file)
		results = append(results, result)
		if !result.Valid() {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", result.File, result.Err))
		}
	}

	return results, errs
}

// Print writes a human-readable report and returns whether all files are valid
func Print(w io.Writer, results []*Result) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid() {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  ✓ "+info)
			}
			continue
		}

		allValid = false
		fmt.Fprintln(w, "❌ INVALID")
		for _, problem := range result.Problems() {
			fmt.Fprintln(w, "  ❌ "+problem)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All rule sets are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some rule sets have errors")
	}
	return allValid
}
