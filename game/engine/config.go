package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateRules validates a rule set for correctness and playability
func ValidateRules(rules *Rules) error {
	if rules == nil {
		return fmt.Errorf("%w: rules cannot be nil", ErrInvalidRules)
	}

	// Validate required fields
	if rules.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRules)
	}
	if rules.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidRules)
	}

	if rules.StonesPerPit < MinStonesPerPit || rules.StonesPerPit > MaxStonesPerPit {
		return fmt.Errorf("%w: stones_per_pit must be between %d and %d, got %d",
			ErrInvalidRules, MinStonesPerPit, MaxStonesPerPit, rules.StonesPerPit)
	}

	// Format strings are optional, but when present they must take the expected verbs
	if rules.Messages.Turn != "" && !strings.Contains(rules.Messages.Turn, "%s") {
		return fmt.Errorf("%w: messages.turn must contain %%s for the player", ErrInvalidRules)
	}
	if rules.Messages.ExtraTurn != "" && !strings.Contains(rules.Messages.ExtraTurn, "%s") {
		return fmt.Errorf("%w: messages.extra_turn must contain %%s for the player", ErrInvalidRules)
	}
	if rules.Messages.Capture != "" && !strings.Contains(rules.Messages.Capture, "%d") {
		return fmt.Errorf("%w: messages.capture must contain %%d for the captured stones", ErrInvalidRules)
	}
	if rules.Messages.Victory != "" && !strings.Contains(rules.Messages.Victory, "%s") {
		return fmt.Errorf("%w: messages.victory must contain %%s for the winner", ErrInvalidRules)
	}

	return nil
}

// LoadRules loads a rule set from a JSON file
func LoadRules(filename string) (*Rules, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	path := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			path = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	rules, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return rules, nil
}

// ParseRules decodes and validates a rule set
func ParseRules(data []byte) (*Rules, error) {
	var rules Rules
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}
	rules.applyMessageDefaults()

	if err := ValidateRules(&rules); err != nil {
		return nil, err
	}
	return &rules, nil
}

// DefaultRules returns the standard Kalah rule set
func DefaultRules() *Rules {
	rules := &Rules{
		Name:         "Kalah",
		Description:  "Standard Kalah: six pits per side, four stones per pit",
		StonesPerPit: DefaultStonesPerPit,
	}
	rules.applyMessageDefaults()
	return rules
}

// applyMessageDefaults fills in messages left empty
func (r *Rules) applyMessageDefaults() {
	m := &r.Messages
	if m.Welcome == "" {
		m.Welcome = "New game. Player A moves first."
	}
	if m.Turn == "" {
		m.Turn = "Player %s to move"
	}
	if m.ExtraTurn == "" {
		m.ExtraTurn = "Last stone in the store! Player %s moves again"
	}
	if m.Capture == "" {
		m.Capture = "Capture! %d stones to the store"
	}
	if m.EmptyPit == "" {
		m.EmptyPit = "That pit is empty, pick another"
	}
	if m.Victory == "" {
		m.Victory = "Player %s wins!"
	}
	if m.Draw == "" {
		m.Draw = "Draw!"
	}
}
