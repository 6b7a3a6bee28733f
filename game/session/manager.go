package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wricardo/mancala/game/engine"
	"github.com/wricardo/mancala/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// maxSessionIDLength bounds caller-chosen ids
const maxSessionIDLength = 64

// Manager handles game session lifecycle
type Manager struct {
	sessions map[string]*service.Session
	mu       sync.RWMutex
}

// NewManager creates a new session manager
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*service.Session),
	}
}

// Create creates a new session with the given ID and rule set. An empty id
// gets a generated one.
func (m *Manager) Create(id string, rules *engine.Rules) (*service.Session, error) {
	if id == "" {
		id = generateSessionID()
	} else if err := validateSessionID(id); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(id)
	if _, exists := m.sessions[key]; exists {
		return nil, ErrSessionAlreadyExists
	}

	eng, err := engine.NewEngine(rules)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	now := time.Now()
	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Rules:          eng.GetRules(),
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	m.sessions[key] = session

	return session, nil
}

// Get retrieves a session by ID (case-insensitive)
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// GetOrCreate gets an existing session or creates a new one
func (m *Manager) GetOrCreate(id string, rules *engine.Rules) (*service.Session, error) {
	session, err := m.Get(id)
	if err == nil {
		return session, nil
	}

	if errors.Is(err, ErrSessionNotFound) {
		return m.Create(id, rules)
	}
	return nil, err
}

// List returns all active sessions
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

// Delete removes a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(id)
	if _, exists := m.sessions[key]; !exists {
		return ErrSessionNotFound
	}
	delete(m.sessions, key)
	return nil
}

// UpdateLastAccessed updates the last accessed time for a session
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return ErrSessionNotFound
	}
	session.LastAccessedAt = time.Now()
	return nil
}

// CleanupExpiredSessions removes sessions that haven't been accessed in the given duration
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for key, session := range m.sessions {
		if session.LastAccessedAt.Before(cutoff) {
			delete(m.sessions, key)
			removed++
		}
	}
	return removed
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// generateSessionID returns the first 8 hex characters of a random UUID
func generateSessionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func validateSessionID(id string) error {
	if len(id) > maxSessionIDLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidSessionID, maxSessionIDLength)
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("%w: %q contains %q", ErrInvalidSessionID, id, r)
		}
	}
	return nil
}
