package service

import (
	"context"
	"time"

	"github.com/wricardo/mancala/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID string, pit int, reset bool) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, pits []int, reset bool) (*BulkMoveResult, error)
	Click(ctx context.Context, sessionID string, x, y int) (*MoveResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.Rules, error)
	SaveConfig(ctx context.Context, configName string, rules *engine.Rules) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, rules *engine.Rules) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, rules *engine.Rules) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles rule set loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.Rules, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.Rules
	SaveConfig(name string, rules *engine.Rules) error
}

// Session represents an active game session
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Rules          *engine.Rules
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
