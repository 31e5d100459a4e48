package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/skirmishlab/skirmish/game/engine"
	"github.com/skirmishlab/skirmish/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData is the serialized form of a session
type PersistedSessionData struct {
	ID             string            `json:"id"`
	LevelName      string            `json:"level_name"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
}

// marshalSession serializes a session for storage
func marshalSession(session *service.Session, levelID string) ([]byte, error) {
	data := PersistedSessionData{
		ID:             session.ID,
		LevelName:      levelID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.State(),
	}
	return json.MarshalIndent(data, "", "  ")
}

// restoreSession rebuilds a live session from its serialized form. The
// level is loaded through the level manager so the engine always starts
// from a validated configuration, then the persisted state replaces the
// fresh one.
func restoreSession(raw []byte, levels service.LevelManager) (*service.Session, error) {
	var data PersistedSessionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	level, err := levels.LoadLevel(data.LevelName)
	if err != nil {
		return nil, fmt.Errorf("failed to load level '%s': %w", data.LevelName, err)
	}

	eng, err := engine.NewEngine(level)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	if data.GameState != nil {
		if err := eng.SetState(data.GameState); err != nil {
			return nil, fmt.Errorf("failed to restore game state: %w", err)
		}
	}

	return &service.Session{
		ID:             data.ID,
		Engine:         eng,
		Level:          level,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}, nil
}

// levelIDForSession resolves the catalog ID for the session's level so the
// stored reference survives display-name edits
func levelIDForSession(session *service.Session, levels service.LevelManager) (string, error) {
	infos, err := levels.ListLevels()
	if err != nil {
		return "", fmt.Errorf("failed to list levels: %w", err)
	}
	for _, info := range infos {
		if info.Name == session.Level.Name {
			return info.LevelID, nil
		}
	}
	// Assume the display name is already the catalog ID
	return session.Level.Name, nil
}
