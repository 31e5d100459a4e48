package engine

import (
	"fmt"
	"time"
)

// Engine ties the game state store, the command processor, and the
// snapshot builder together behind one interface
type Engine interface {
	// Command processing
	Apply(cmd Command) (*Snapshot, error)

	// Read side
	Snapshot() *Snapshot
	Reachable(pos Position) (map[Position]ReachableInfo, error)
	Phase() Phase

	// State management (used by persistence)
	State() *GameState
	SetState(state *GameState) error

	// Level and history
	Level() *LevelConfig
	CommandLog() []CommandRecord
}

// GameEngine implements the Engine interface
type GameEngine struct {
	level *LevelConfig
	state *GameState
	proc  *Processor
}

// NewEngine creates an engine for a validated level configuration
func NewEngine(level *LevelConfig) (*GameEngine, error) {
	state, err := InitGameStateFromConfig(level)
	if err != nil {
		return nil, err
	}
	return &GameEngine{
		level: level,
		state: state,
		proc:  NewProcessor(state, PlayerFaction),
	}, nil
}

// Apply processes one command to completion: validate, mutate on success,
// log the outcome, and rebuild the snapshot. On rejection the store is
// unchanged and the rejection is both logged and returned; the snapshot is
// still returned so callers can render the unchanged state.
func (e *GameEngine) Apply(cmd Command) (*Snapshot, error) {
	message, err := e.proc.Apply(cmd)

	record := CommandRecord{
		Seq:       len(e.state.Log) + 1,
		Command:   cmd,
		Applied:   err == nil,
		Message:   message,
		Timestamp: time.Now().Unix(),
	}
	if err != nil {
		record.Error = err.Error()
		e.state.Message = err.Error()
	} else {
		e.state.Message = message
	}
	e.state.Log = append(e.state.Log, record)

	return BuildSnapshot(e.state, e.proc), err
}

// Snapshot rebuilds the current view without applying anything
func (e *GameEngine) Snapshot() *Snapshot {
	return BuildSnapshot(e.state, e.proc)
}

// Reachable computes the reachable set for the unit at pos without
// touching the processor's selection. It serves advisory UI pre-filtering
// and AI queries; move validation still happens in the processor.
func (e *GameEngine) Reachable(pos Position) (map[Position]ReachableInfo, error) {
	if !e.state.Board.IsValidPosition(pos) {
		return nil, &OutOfBoundsError{Pos: pos, Board: e.state.Board}
	}
	unit, ok := e.state.UnitAt(pos)
	if !ok {
		return nil, fmt.Errorf("no unit at (%d, %d)", pos.X, pos.Y)
	}
	return e.state.Reachable(unit)
}

// Phase returns the processor's current phase
func (e *GameEngine) Phase() Phase {
	return e.proc.Phase()
}

// State returns the authoritative store
func (e *GameEngine) State() *GameState {
	return e.state
}

// SetState replaces the store (used when loading persisted sessions). The
// processor is rebound and reset to Idle: selections do not survive a
// restore.
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	e.state = state
	e.proc = NewProcessor(state, PlayerFaction)
	return nil
}

// Level returns the level configuration the engine was built from
func (e *GameEngine) Level() *LevelConfig {
	return e.level
}

// CommandLog returns the full command history
func (e *GameEngine) CommandLog() []CommandRecord {
	return e.state.Log
}
