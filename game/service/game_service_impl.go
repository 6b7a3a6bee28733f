package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/mancala/game/engine"
	"github.com/wricardo/mancala/game/layout"
)

// ErrConfigUnavailable wraps rule set lookups that failed while creating a session
var ErrConfigUnavailable = errors.New("config unavailable")

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	board    *layout.Board
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		board:    layout.NewBoard(),
	}
}

// getConfigID returns the config_id for a rule set display name
func (s *gameServiceImpl) getConfigID(name string) string {
	if available, err := s.configs.ListConfigs(); err == nil {
		for _, cfg := range available {
			if cfg.Name == name {
				return cfg.ConfigID
			}
		}
	}
	if name == "" {
		return "default"
	}
	return name
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	if configID == "" {
		configID = s.getConfigID(sess.Rules.Name)
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		Rules:          sess.Rules,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rules *engine.Rules
	if configName != "" {
		var err error
		rules, err = s.configs.LoadConfig(configName)
		if err != nil {
			if strings.Contains(err.Error(), "configuration not found") {
				available, listErr := s.configs.ListConfigs()
				if listErr == nil && len(available) > 0 {
					ids := make([]string, 0, len(available))
					for _, cfg := range available {
						ids = append(ids, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: config '%s' not found. Available configs: %v", ErrConfigUnavailable, configName, ids)
				}
				return nil, fmt.Errorf("%w: config '%s' not found. Use /api/configs to list available configurations", ErrConfigUnavailable, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		rules = s.configs.GetDefault()
	}

	sess, err := s.sessions.Create("", rules)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Debug().Str("session", sess.ID).Str("rules", rules.Name).Msg("session created")
	return s.sessionInfo(sess, configName), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	// Touching LastAccessedAt needs the write lock; readers see it under RLock.
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return s.sessionInfo(sess, ""), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, ""))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("session not found: %w", err)
	}
	log.Debug().Str("session", sessionID).Msg("session deleted")
	return nil
}

// Move sows one of the current player's pits
func (s *gameServiceImpl) Move(ctx context.Context, sessionID string, pit int, reset bool) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	var events []GameEvent
	if reset {
		// A rejected move leaves the game untouched, reset included.
		if err := engine.CheckPit(engine.PlayerA, pit); err != nil {
			return nil, fmt.Errorf("move rejected: %w", err)
		}
		sess.Engine.Reset()
		events = append(events, resetEvent())
	}

	mover := sess.Engine.CurrentPlayer()
	storeBefore := sess.Engine.StoreCount(mover)
	entry, err := sess.Engine.Play(pit)
	if err != nil {
		return nil, fmt.Errorf("move rejected: %w", err)
	}

	result := s.buildMoveResult(sess, entry, mover, pit, storeBefore)
	result.Events = append(events, result.Events...)
	return result, nil
}

// Click dispatches a click in board pixels to the session's engine
func (s *gameServiceImpl) Click(ctx context.Context, sessionID string, x, y int) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	mover := sess.Engine.CurrentPlayer()
	storeBefore := sess.Engine.StoreCount(mover)
	movesBefore := len(sess.Engine.GetMoveHistory())

	played, err := s.board.Click(sess.Engine, x, y)
	if err != nil {
		return nil, fmt.Errorf("move rejected: %w", err)
	}
	if !played {
		state := sess.Engine.GetState()
		return &MoveResult{
			NoOp:      true,
			GameState: state,
			Message:   "Click ignored: not one of your pits",
			Events:    []GameEvent{noOpEvent(mover, nil, "click outside the current player's pits")},
		}, nil
	}

	// An empty pit leaves the history unchanged
	var entry *engine.MoveHistoryEntry
	if len(sess.Engine.GetMoveHistory()) > movesBefore {
		entry = sess.Engine.GetLastMove()
	}
	abs, _ := s.board.HitTest(x, y)
	row, _ := engine.RowIndex(mover, abs)
	return s.buildMoveResult(sess, entry, mover, row, storeBefore), nil
}

// buildMoveResult describes a completed Play call. A nil entry is an empty
// pit no-op.
func (s *gameServiceImpl) buildMoveResult(sess *Session, entry *engine.MoveHistoryEntry, mover engine.Player, pit, storeBefore int) *MoveResult {
	state := sess.Engine.GetState()

	if entry == nil {
		return &MoveResult{
			NoOp:      true,
			GameState: state,
			Message:   sess.Rules.Messages.EmptyPit,
			Events:    []GameEvent{noOpEvent(mover, &pit, sess.Rules.Messages.EmptyPit)},
		}
	}

	return &MoveResult{
		Success:   true,
		ExtraTurn: entry.ExtraTurn,
		Captured:  entry.Captured,
		GameState: state,
		Message:   state.Message,
		Events:    extractMoveEvents(entry, state),
		Step:      newStepInfo(1, entry, storeBefore, state),
	}
}

// BulkMove plays a pit sequence, stopping at the first rejected or empty pit
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, pits []int, reset bool) (*BulkMoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	result := &BulkMoveResult{
		RequestedMoves: len(pits),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}

	if reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, resetEvent())
	}

	start := sess.Engine.Board()
	result.StartBoard = start

	if len(pits) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		pits = pits[:engine.MaxBulkMoves]
	}

	for i, pit := range pits {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if sess.Engine.IsOver() {
			result.StoppedReason = "game is over"
			result.StopReasonCode = StopGameOver
			result.StoppedOnMove = i + 1
			break
		}

		mover := sess.Engine.CurrentPlayer()
		storeBefore := sess.Engine.StoreCount(mover)
		entry, err := sess.Engine.Play(pit)
		if err != nil {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d rejected: %v", i+1, err)
			result.StopReasonCode = StopInvalidMove
			result.StoppedOnMove = i + 1
			break
		}
		if entry == nil {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("move %d: pit %d is empty", i+1, pit)
			result.StopReasonCode = StopEmptyPit
			result.StoppedOnMove = i + 1
			p := pit
			result.Events = append(result.Events, noOpEvent(mover, &p, sess.Rules.Messages.EmptyPit))
			break
		}

		result.MovesExecuted++
		state := sess.Engine.GetState()
		result.Events = append(result.Events, extractMoveEvents(entry, state)...)
		result.Steps = append(result.Steps, *newStepInfo(i+1, entry, storeBefore, state))
	}

	end := sess.Engine.GetState()
	result.GameState = end
	result.EndBoard = end.Board
	result.StoreDelta = map[engine.Player]int{
		engine.PlayerA: end.Board[engine.StoreA] - start[engine.StoreA],
		engine.PlayerB: end.Board[engine.StoreB] - start[engine.StoreB],
	}
	result.GameOver = end.GameOver
	result.Message = end.Message
	result.LegalMoves = end.LegalMoves
	if end.GameOver {
		result.Winner = end.Winner
		if result.StopReasonCode == "" {
			result.StopReasonCode = StopGameOver
		}
	}

	return result, nil
}

// Reset resets a game session to initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.Reset(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	return paginateHistory(sess.Engine.GetMoveHistory(), opts), nil
}

// paginateHistory slices a history with the requested page, size and order
func paginateHistory(history []engine.MoveHistoryEntry, opts HistoryOptions) *HistoryResponse {
	total := len(history)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := min(start+opts.Limit, total)

	moves := []engine.MoveHistoryEntry{}
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				moves = append(moves, history[i])
			}
		} else {
			moves = append(moves, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}
}

// ListConfigs returns available rule sets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific rule set
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.Rules, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a rule set to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, rules *engine.Rules) error {
	return s.configs.SaveConfig(configName, rules)
}

// extractMoveEvents generates events from a recorded sowing
func extractMoveEvents(entry *engine.MoveHistoryEntry, state *engine.GameState) []GameEvent {
	now := time.Now()
	pit := entry.Pit

	events := []GameEvent{{
		Type:      EventMove,
		Message:   fmt.Sprintf("Player %s sowed %d stones from pit %d", entry.Player, entry.Sown, entry.Pit),
		Timestamp: now,
		Player:    entry.Player,
		Pit:       &pit,
	}}

	if entry.ExtraTurn {
		events = append(events, GameEvent{
			Type:      EventExtraTurn,
			Message:   fmt.Sprintf("Player %s moves again", entry.Player),
			Timestamp: now,
			Player:    entry.Player,
		})
	}
	if entry.Captured > 0 {
		events = append(events, GameEvent{
			Type:      EventCapture,
			Message:   fmt.Sprintf("Player %s captured %d stones", entry.Player, entry.Captured),
			Timestamp: now,
			Player:    entry.Player,
		})
	}
	if state.GameOver {
		events = append(events, GameEvent{
			Type:      EventGameOver,
			Message:   state.Message,
			Timestamp: now,
		})
	}

	return events
}

func newStepInfo(idx int, entry *engine.MoveHistoryEntry, storeBefore int, state *engine.GameState) *StepInfo {
	return &StepInfo{
		Idx:         idx,
		Player:      entry.Player,
		Pit:         entry.Pit,
		Sown:        entry.Sown,
		LastIndex:   entry.LastIndex,
		ExtraTurn:   entry.ExtraTurn,
		Captured:    entry.Captured,
		StoreBefore: storeBefore,
		StoreAfter:  entry.BoardAfter[engine.StoreIndex(entry.Player)],
		GameOver:    state.GameOver,
	}
}

func noOpEvent(p engine.Player, pit *int, msg string) GameEvent {
	return GameEvent{
		Type:      EventNoOp,
		Message:   msg,
		Timestamp: time.Now(),
		Player:    p,
		Pit:       pit,
	}
}

func resetEvent() GameEvent {
	return GameEvent{
		Type:      EventReset,
		Message:   "Game reset to initial state",
		Timestamp: time.Now(),
	}
}
