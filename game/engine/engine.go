package engine

import "fmt"

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	Reset() *GameState
	IsOver() bool
	Winner() Outcome
	CurrentPlayer() Player

	// Board access
	PitCount(abs int) int
	RelativePitCount(rel int) int
	StoreCount(p Player) int
	Board() Board

	// Moves
	PlayMove(pit int) error
	PlayPit(abs int) error
	Play(pit int) (*MoveHistoryEntry, error)
	LegalMoves() []int

	// Configuration
	GetRules() *Rules

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// GameEngine implements the Engine interface. It is not safe for concurrent
// use; callers serialize access.
type GameEngine struct {
	board   Board
	current Player
	winner  Outcome
	message string
	rules   *Rules

	moveHistory  []MoveHistoryEntry
	currentMoves []MoveHistoryEntry
	totalMoves   int
}

// NewEngine creates a new game engine with the provided rules
func NewEngine(rules *Rules) (*GameEngine, error) {
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}

	r := *rules
	r.applyMessageDefaults()

	e := &GameEngine{rules: &r}
	e.start()
	return e, nil
}

// NewEngineWithDefaults creates a new game engine with standard Kalah rules
func NewEngineWithDefaults() *GameEngine {
	e := &GameEngine{rules: DefaultRules()}
	e.start()
	return e
}

// NewEngineFromBoard creates an engine positioned at an arbitrary board. The
// board must hold exactly the stone count the rules conserve.
func NewEngineFromBoard(rules *Rules, board Board, current Player) (*GameEngine, error) {
	e, err := NewEngine(rules)
	if err != nil {
		return nil, err
	}
	if !current.Valid() {
		return nil, fmt.Errorf("unknown player %q", current)
	}
	for i, n := range board {
		if n < 0 {
			return nil, fmt.Errorf("board index %d has negative count %d", i, n)
		}
	}
	if board.Total() != e.rules.TotalStones() {
		return nil, fmt.Errorf("board holds %d stones, rules %q require %d",
			board.Total(), e.rules.Name, e.rules.TotalStones())
	}

	e.board = board
	e.current = current
	e.message = fmt.Sprintf(e.rules.Messages.Turn, current)
	e.checkEndOfGame()
	return e, nil
}

// start puts the engine at the initial position
func (e *GameEngine) start() {
	e.board = InitialBoard(e.rules.StonesPerPit)
	e.current = PlayerA
	e.winner = OutcomeNone
	e.message = e.rules.Messages.Welcome
	e.currentMoves = []MoveHistoryEntry{}
}

// GetState returns a copy of the current game state
func (e *GameEngine) GetState() *GameState {
	state := &GameState{
		Board:             e.board,
		CurrentPlayer:     e.current,
		Winner:            e.winner,
		GameOver:          e.IsOver(),
		Message:           e.message,
		RulesName:         e.rules.Name,
		StonesPerPit:      e.rules.StonesPerPit,
		MoveHistory:       append([]MoveHistoryEntry{}, e.moveHistory...),
		TotalMoves:        e.totalMoves,
		CurrentMoves:      append([]MoveHistoryEntry{}, e.currentMoves...),
		CurrentMovesCount: len(e.currentMoves),
		LegalMoves:        e.LegalMoves(),
	}
	return state
}

// Reset restores the initial position. The cumulative history survives,
// the current segment is cleared.
func (e *GameEngine) Reset() *GameState {
	e.start()
	return e.GetState()
}

// IsOver returns whether the game has ended
func (e *GameEngine) IsOver() bool {
	return e.winner != OutcomeNone
}

// Winner returns the outcome, OutcomeNone while the game runs
func (e *GameEngine) Winner() Outcome {
	return e.winner
}

// CurrentPlayer returns the player to move
func (e *GameEngine) CurrentPlayer() Player {
	return e.current
}

// PitCount returns the counter at an absolute index. It panics outside 0-13.
func (e *GameEngine) PitCount(abs int) int {
	if abs < 0 || abs >= BoardSize {
		panic(fmt.Sprintf("engine: board index %d out of range", abs))
	}
	return e.board[abs]
}

// RelativePitCount returns the counter at an index relative to the current player
func (e *GameEngine) RelativePitCount(rel int) int {
	if rel < 0 || rel >= BoardSize {
		panic(fmt.Sprintf("engine: relative index %d out of range", rel))
	}
	return e.board[ToAbsolute(e.current, rel)]
}

// StoreCount returns the stones in the player's store
func (e *GameEngine) StoreCount(p Player) int {
	return e.board[StoreIndex(p)]
}

// Board returns a copy of the counters
func (e *GameEngine) Board() Board {
	return e.board
}

// TotalStones returns the conserved stone count
func (e *GameEngine) TotalStones() int {
	return e.rules.TotalStones()
}

// LegalMoves returns the current player's non-empty own-row pits
func (e *GameEngine) LegalMoves() []int {
	if e.IsOver() {
		return nil
	}
	moves := make([]int, 0, PitsPerSide)
	for row := 0; row < PitsPerSide; row++ {
		if e.board[PitIndex(e.current, row)] > 0 {
			moves = append(moves, row)
		}
	}
	return moves
}

// GetRules returns the engine's rule set
func (e *GameEngine) GetRules() *Rules {
	return e.rules
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	history := make([]MoveHistoryEntry, len(e.moveHistory))
	copy(history, e.moveHistory)
	return history
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.moveHistory) == 0 {
		return nil
	}
	last := e.moveHistory[len(e.moveHistory)-1]
	return &last
}

// PlayMove plays the current player's own-row pit (0-5)
func (e *GameEngine) PlayMove(pit int) error {
	_, err := e.Play(pit)
	return err
}

// PlayPit plays the pit at an absolute index, which must be one of the
// current player's six pits
func (e *GameEngine) PlayPit(abs int) error {
	if e.IsOver() {
		return &InvalidMoveError{Player: e.current, Pit: abs, Reason: "the game has ended", Err: ErrGameOver}
	}
	row, ok := RowIndex(e.current, abs)
	if !ok {
		return &InvalidMoveError{
			Player: e.current,
			Pit:    abs,
			Reason: fmt.Sprintf("index %d is not one of player %s's pits", abs, e.current),
			Err:    ErrNotOwnPit,
		}
	}
	return e.PlayMove(row)
}

// BulkMove plays pits in sequence and stops at the first error or at game over
func (e *GameEngine) BulkMove(pits []int) ([]*MoveHistoryEntry, error) {
	entries := make([]*MoveHistoryEntry, 0, len(pits))
	for _, pit := range pits {
		if e.IsOver() {
			break
		}
		entry, err := e.Play(pit)
		if err != nil {
			return entries, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
