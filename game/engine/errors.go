package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMove matches every move rejected by the engine.
	ErrInvalidMove = errors.New("invalid move")

	// ErrGameOver indicates a move attempted after the game ended.
	ErrGameOver = errors.New("game is over")

	// ErrNotOwnPit indicates a pit outside the current player's row.
	ErrNotOwnPit = errors.New("pit does not belong to the current player")

	// ErrInvalidRules indicates a rule set that failed validation.
	ErrInvalidRules = errors.New("invalid rules")
)

// InvalidMoveError describes a rejected move. Err is ErrGameOver or ErrNotOwnPit.
type InvalidMoveError struct {
	Player Player
	Pit    int
	Reason string
	Err    error
}

func (e *InvalidMoveError) Error() string {
	msg := fmt.Sprintf("invalid move by player %s at pit %d", e.Player, e.Pit)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *InvalidMoveError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrInvalidMove) hold for every InvalidMoveError.
func (e *InvalidMoveError) Is(target error) bool {
	return target == ErrInvalidMove
}
