package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/skirmishlab/skirmish/game/engine"
	"github.com/skirmishlab/skirmish/game/service"
)

var (
	ErrLevelNotFound = errors.New("level not found")
	ErrInvalidLevel  = errors.New("invalid level")
)

// Manager handles level loading and caching
type Manager struct {
	levelDir     string
	defaultLevel *engine.LevelConfig
	levels       map[string]*engine.LevelConfig
	mu           sync.RWMutex
}

// NewManager creates a new level manager
func NewManager(levelDir string) (*Manager, error) {
	if _, err := os.Stat(levelDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("level directory does not exist: %s", levelDir)
	}

	m := &Manager{
		levelDir: levelDir,
		levels:   make(map[string]*engine.LevelConfig),
	}

	if err := m.loadDefaultLevel(); err != nil {
		return nil, fmt.Errorf("failed to load default level: %w", err)
	}

	return m, nil
}

// LoadLevel loads a level by name
func (m *Manager) LoadLevel(name string) (*engine.LevelConfig, error) {
	m.mu.RLock()
	if level, exists := m.levels[name]; exists {
		m.mu.RUnlock()
		return level, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring the write lock
	if level, exists := m.levels[name]; exists {
		return level, nil
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}
	levelPath := filepath.Join(m.levelDir, filename)

	data, err := os.ReadFile(levelPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrLevelNotFound
		}
		return nil, fmt.Errorf("failed to read level file: %w", err)
	}

	var level engine.LevelConfig
	if err := json.Unmarshal(data, &level); err != nil {
		return nil, fmt.Errorf("failed to parse level: %w", err)
	}

	if err := engine.ValidateLevelConfig(&level); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	m.levels[name] = &level
	return &level, nil
}

// ListLevels returns information about all available levels
func (m *Manager) ListLevels() ([]*service.LevelInfo, error) {
	entries, err := os.ReadDir(m.levelDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read level directory: %w", err)
	}

	var levels []*service.LevelInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")
		level, err := m.LoadLevel(name)
		if err != nil {
			// Skip invalid levels
			continue
		}

		levels = append(levels, &service.LevelInfo{
			Filename:       entry.Name(),
			LevelID:        name,
			Name:           level.Name,
			Description:    level.Description,
			Width:          level.Width,
			Height:         level.Height,
			MaxPlayerUnits: level.MaxPlayerUnits,
		})
	}

	return levels, nil
}

// GetDefault returns the default level
func (m *Manager) GetDefault() *engine.LevelConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultLevel
}

// SetDefault sets the default level by name
func (m *Manager) SetDefault(name string) error {
	level, err := m.LoadLevel(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultLevel = level
	return nil
}

// RefreshCache reloads all cached levels from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.levels = make(map[string]*engine.LevelConfig)
	m.mu.Unlock()

	return m.loadDefaultLevel()
}

// loadDefaultLevel resolves the default level: "skirmish" if present,
// otherwise the first valid level in the catalog, otherwise a built-in
// minimal level
func (m *Manager) loadDefaultLevel() error {
	level, err := m.LoadLevel("skirmish")
	if err != nil {
		levels, listErr := m.ListLevels()
		if listErr != nil || len(levels) == 0 {
			m.mu.Lock()
			m.defaultLevel = minimalLevel()
			m.mu.Unlock()
			return nil
		}

		level, err = m.LoadLevel(levels[0].LevelID)
		if err != nil {
			m.mu.Lock()
			m.defaultLevel = minimalLevel()
			m.mu.Unlock()
			return nil
		}
	}

	m.mu.Lock()
	m.defaultLevel = level
	m.mu.Unlock()
	return nil
}

// SaveLevel saves a level to disk
func (m *Manager) SaveLevel(name string, level *engine.LevelConfig) error {
	if err := engine.ValidateLevelConfig(level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}
	levelPath := filepath.Join(m.levelDir, filename)

	data, err := json.MarshalIndent(level, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal level: %w", err)
	}

	if err := os.WriteFile(levelPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write level file: %w", err)
	}

	m.mu.Lock()
	m.levels[name] = level
	m.mu.Unlock()

	return nil
}

// minimalLevel builds a playable fallback level
func minimalLevel() *engine.LevelConfig {
	return &engine.LevelConfig{
		Name:        "default",
		Description: "Built-in fallback skirmish field",
		Width:       7,
		Height:      7,
		Layout: []string{
			".......",
			"..hh...",
			".f...s.",
			".f...s.",
			"...M...",
			".......",
			".......",
		},
		MaxPlayerUnits: 3,
		DeploymentPoints: []engine.Position{
			{X: 2, Y: 6},
			{X: 3, Y: 6},
			{X: 4, Y: 6},
		},
		Factions: []engine.FactionConfig{
			{ID: 0, Name: "player"},
			{ID: 1, Name: "raiders"},
		},
		UnitTypes: map[string]engine.UnitTypeConfig{
			"soldier": {
				Name:       "soldier",
				Attributes: engine.UnitAttributes{MaxHP: 20, HP: 20, Movement: 30, Initiative: 5, Attack: 6, Defense: 4},
			},
			"scout": {
				Name:       "scout",
				Attributes: engine.UnitAttributes{MaxHP: 12, HP: 12, Movement: 50, Initiative: 8, Attack: 3, Defense: 2},
			},
		},
	}
}
