package service

import (
	"time"

	"github.com/skirmishlab/skirmish/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string           `json:"id"`
	LevelName      string           `json:"level_name"`
	CreatedAt      time.Time        `json:"created_at"`
	LastAccessedAt time.Time        `json:"last_accessed_at"`
	Snapshot       *engine.Snapshot `json:"snapshot"`
}

// CommandResult contains the outcome of one applied command
type CommandResult struct {
	Applied  bool             `json:"applied"`
	Snapshot *engine.Snapshot `json:"snapshot"`
	Message  string           `json:"message"`
	Error    string           `json:"error,omitempty"`
	Reason   string           `json:"reason,omitempty"` // Machine-friendly rejection code
}

// ReachableResult contains the reachable set for one unit
type ReachableResult struct {
	Pos      engine.Position        `json:"pos"`
	UnitID   int                    `json:"unit_id"`
	TypeName string                 `json:"type_name"`
	Budget   int                    `json:"budget"`
	Tiles    []engine.ReachableView `json:"tiles"`
}

// HistoryOptions configures command history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated command history
type HistoryResponse struct {
	Commands      []engine.CommandRecord `json:"commands"`
	TotalCommands int                    `json:"total_commands"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"page_size"`
	TotalPages    int                    `json:"total_pages"`
	HasNext       bool                   `json:"has_next"`
	HasPrevious   bool                   `json:"has_previous"`
}

// LevelInfo provides information about a level in the catalog
type LevelInfo struct {
	Filename       string `json:"filename"`
	LevelID        string `json:"level_id"` // The identifier to use for session creation
	Name           string `json:"name"`     // Display name
	Description    string `json:"description"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	MaxPlayerUnits int    `json:"max_player_units"`
}
