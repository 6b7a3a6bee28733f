package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/mancala/game/engine"
	"github.com/wricardo/mancala/game/service"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// DefaultConfigID is the rule set used when a session names none
const DefaultConfigID = "kalah"

// Manager handles rule set loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.Rules
	configs       map[string]*engine.Rules
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.Rules),
	}

	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	return m, nil
}

// LoadConfig loads a rule set by id, with or without the .json extension
func (m *Manager) LoadConfig(name string) (*engine.Rules, error) {
	name = strings.TrimSuffix(name, ".json")
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return nil, fmt.Errorf("%w: bad config name %q", ErrInvalidConfig, name)
	}

	m.mu.RLock()
	if rules, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return rules, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if rules, exists := m.configs[name]; exists {
		return rules, nil
	}

	data, err := os.ReadFile(filepath.Join(m.configDir, name+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	rules, err := engine.ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	m.configs[name] = rules
	return rules, nil
}

// ListConfigs returns information about every valid rule set in the directory
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*service.ConfigInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")
		rules, err := m.LoadConfig(id)
		if err != nil {
			// Skip invalid rule sets
			continue
		}

		configs = append(configs, &service.ConfigInfo{
			Filename:             entry.Name(),
			ConfigID:             id,
			Name:                 rules.Name,
			Description:          rules.Description,
			StonesPerPit:         rules.StonesPerPit,
			CaptureEmptyOpposite: rules.CaptureEmptyOpposite,
		})
	}

	sort.Slice(configs, func(i, j int) bool { return configs[i].ConfigID < configs[j].ConfigID })
	return configs, nil
}

// GetDefault returns the default rule set
func (m *Manager) GetDefault() *engine.Rules {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default rule set by id
func (m *Manager) SetDefault(name string) error {
	rules, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = rules
	return nil
}

// RefreshCache drops every cached rule set and reloads the default
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*engine.Rules)
	m.mu.Unlock()

	return m.loadDefaultConfig()
}

// loadDefaultConfig picks kalah.json, then the first valid file, then the
// built-in rules
func (m *Manager) loadDefaultConfig() error {
	rules, err := m.LoadConfig(DefaultConfigID)
	if err != nil {
		rules = engine.DefaultRules()
		if configs, listErr := m.ListConfigs(); listErr == nil && len(configs) > 0 {
			if first, loadErr := m.LoadConfig(configs[0].ConfigID); loadErr == nil {
				rules = first
			}
		}
	}

	m.mu.Lock()
	m.defaultConfig = rules
	m.mu.Unlock()
	return nil
}

// SaveConfig validates a rule set and writes it to disk
func (m *Manager) SaveConfig(name string, rules *engine.Rules) error {
	if err := engine.ValidateRules(rules); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	name = strings.TrimSuffix(name, ".json")
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("%w: bad config name %q", ErrInvalidConfig, name)
	}

	data, err := json.MarshalIndent(rules, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(m.configDir, name+".json"), data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[name] = rules
	m.mu.Unlock()

	return nil
}
