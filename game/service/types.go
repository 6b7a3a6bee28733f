package service

import (
	"time"

	"github.com/wricardo/mancala/game/engine"
)

// Event types reported in MoveResult and BulkMoveResult
const (
	EventMove      = "move"
	EventExtraTurn = "extra_turn"
	EventCapture   = "capture"
	EventNoOp      = "no_op"
	EventGameOver  = "game_over"
	EventReset     = "reset"
)

// Stop reason codes for bulk moves
const (
	StopGameOver    = "game_over"
	StopInvalidMove = "invalid_move"
	StopEmptyPit    = "empty_pit"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string            `json:"id"`
	ConfigName     string            `json:"config_name"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
	Rules          *engine.Rules     `json:"rules"`
}

// MoveResult contains the result of a single sowing
type MoveResult struct {
	Success   bool              `json:"success"`
	NoOp      bool              `json:"no_op,omitempty"`
	ExtraTurn bool              `json:"extra_turn,omitempty"`
	Captured  int               `json:"captured,omitempty"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
	Events    []GameEvent       `json:"events,omitempty"`
	Step      *StepInfo         `json:"step,omitempty"`
}

// BulkMoveResult contains the result of a pit sequence
type BulkMoveResult struct {
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // game_over|invalid_move|empty_pit
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	StartBoard engine.Board          `json:"start_board"`
	EndBoard   engine.Board          `json:"end_board"`
	StoreDelta map[engine.Player]int `json:"store_delta"`

	Steps []StepInfo `json:"steps,omitempty"`

	GameOver   bool           `json:"game_over"`
	Winner     engine.Outcome `json:"winner,omitempty"`
	Message    string         `json:"message,omitempty"`
	LegalMoves []int          `json:"legal_moves,omitempty"`
}

// StepInfo is a compact record of one executed sowing
type StepInfo struct {
	Idx         int           `json:"idx"`
	Player      engine.Player `json:"player"`
	Pit         int           `json:"pit"`
	Sown        int           `json:"sown"`
	LastIndex   int           `json:"last_index"`
	ExtraTurn   bool          `json:"extra_turn,omitempty"`
	Captured    int           `json:"captured,omitempty"`
	StoreBefore int           `json:"store_before"`
	StoreAfter  int           `json:"store_after"`
	GameOver    bool          `json:"game_over,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string        `json:"type"` // see the Event* constants
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
	Player    engine.Player `json:"player,omitempty"`
	Pit       *int          `json:"pit,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a rule set file
type ConfigInfo struct {
	Filename             string `json:"filename"`
	ConfigID             string `json:"config_id"` // The identifier to use for session creation
	Name                 string `json:"name"`      // Display name
	Description          string `json:"description"`
	StonesPerPit         int    `json:"stones_per_pit"`
	CaptureEmptyOpposite bool   `json:"capture_empty_opposite"`
}
