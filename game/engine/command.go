package engine

import "fmt"

// CommandType tags the intent a Command carries
type CommandType string

const (
	CommandSelectUnit   CommandType = "select_unit"
	CommandMoveUnit     CommandType = "move_unit"
	CommandDeployUnit   CommandType = "deploy_unit"
	CommandUndeployUnit CommandType = "undeploy_unit"
	CommandCancel       CommandType = "cancel"
)

// Command describes one externally issued intent. Commands are consumed
// one at a time, never batched or reordered. Pos is the subject position
// for select/deploy/undeploy; Target is the move destination; UnitType
// names the type to deploy.
type Command struct {
	Type     CommandType `json:"type"`
	Pos      *Position   `json:"pos,omitempty"`
	Target   *Position   `json:"target,omitempty"`
	UnitType string      `json:"unit_type,omitempty"`
}

// Phase is the command processor's state-machine phase. Selection
// transitions straight through "unit selected" into awaiting a move
// target, because the reachable set is computed as part of selecting.
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseAwaitingTarget Phase = "awaiting_move_target"
)

// CommandRecord is one entry of the command log
type CommandRecord struct {
	Seq       int     `json:"seq"`
	Command   Command `json:"command"`
	Applied   bool    `json:"applied"`
	Message   string  `json:"message"`
	Error     string  `json:"error,omitempty"`
	Timestamp int64   `json:"timestamp"`
}

// Processor validates and applies commands against a game state. Within a
// single command all reads of the store complete before any write is
// issued, so validation always observes one consistent state.
type Processor struct {
	state         *GameState
	actingFaction FactionID

	phase        Phase
	selected     Occupant
	hasSelection bool
	reachable    map[Position]ReachableInfo
}

// NewProcessor creates a processor acting for the given faction
func NewProcessor(state *GameState, actingFaction FactionID) *Processor {
	return &Processor{
		state:         state,
		actingFaction: actingFaction,
		phase:         PhaseIdle,
	}
}

// Phase returns the current state-machine phase
func (p *Processor) Phase() Phase {
	return p.phase
}

// Selected returns the currently selected unit and its position, if a
// selection is active
func (p *Processor) Selected() (*Unit, Position, bool) {
	if !p.hasSelection {
		return nil, Position{}, false
	}
	unit, ok := p.state.Units[p.selected.ID]
	if !ok {
		return nil, Position{}, false
	}
	pos, ok := p.state.Occupancy.PositionOf(p.selected)
	if !ok {
		return nil, Position{}, false
	}
	return unit, pos, true
}

// Reachable returns a copy of the reachable set computed for the current
// selection
func (p *Processor) Reachable() map[Position]ReachableInfo {
	if p.reachable == nil {
		return nil
	}
	result := make(map[Position]ReachableInfo, len(p.reachable))
	for pos, info := range p.reachable {
		result[pos] = info
	}
	return result
}

// Apply validates and applies one command. On success it returns a
// human-readable outcome message. On rejection it returns a typed error
// and leaves the store unchanged. "Nothing selectable here" is a no-op
// outcome, not an error.
func (p *Processor) Apply(cmd Command) (string, error) {
	switch cmd.Type {
	case CommandSelectUnit:
		return p.applySelect(cmd)
	case CommandMoveUnit:
		return p.applyMove(cmd)
	case CommandDeployUnit:
		return p.applyDeploy(cmd)
	case CommandUndeployUnit:
		return p.applyUndeploy(cmd)
	case CommandCancel:
		return p.applyCancel()
	default:
		return "", &InvalidCommandError{Type: cmd.Type, Reason: ReasonWrongPhase, Detail: "unknown command type"}
	}
}

// applySelect selects the acting side's unit at cmd.Pos and computes its
// reachable set. Selecting a tile with nothing selectable clears the
// selection as a no-op outcome. Reselecting while awaiting a move target
// replaces the selection.
func (p *Processor) applySelect(cmd Command) (string, error) {
	if cmd.Pos == nil {
		return "", &InvalidCommandError{Type: cmd.Type, Reason: ReasonMissingPosition}
	}
	pos := *cmd.Pos
	if !p.state.Board.IsValidPosition(pos) {
		return "", &OutOfBoundsError{Pos: pos, Board: p.state.Board}
	}

	unit, ok := p.state.UnitAt(pos)
	if !ok || unit.Faction != p.actingFaction {
		p.clearSelection()
		return fmt.Sprintf("nothing selectable at (%d, %d)", pos.X, pos.Y), nil
	}

	reachable, err := p.state.Reachable(unit)
	if err != nil {
		return "", err
	}

	p.selected = UnitOccupant(unit.ID)
	p.hasSelection = true
	p.reachable = reachable
	p.phase = PhaseAwaitingTarget
	return fmt.Sprintf("selected %s at (%d, %d); %d tiles in range",
		unit.TypeName, pos.X, pos.Y, len(reachable)), nil
}

// applyMove moves the selected unit to cmd.Target. The target must be in
// the reachable set computed at selection time and must be unoccupied;
// any UI-side pre-filtering is advisory only and is re-validated here.
func (p *Processor) applyMove(cmd Command) (string, error) {
	if cmd.Target == nil {
		return "", &InvalidCommandError{Type: cmd.Type, Reason: ReasonMissingPosition}
	}
	if p.phase != PhaseAwaitingTarget || !p.hasSelection {
		return "", &InvalidCommandError{Type: cmd.Type, Reason: ReasonNoSelection, Detail: "no unit is selected"}
	}

	target := *cmd.Target
	info, ok := p.reachable[target]
	if !ok {
		// Rejected: the processor stays in awaiting_move_target
		return "", &UnreachableError{Target: target}
	}
	origin, ok := p.state.Occupancy.PositionOf(p.selected)
	if !ok {
		return "", &UnknownOccupantError{Occupant: p.selected}
	}
	if target != origin && len(p.state.Occupancy.OccupantsAt(target)) > 0 {
		return "", &InvalidCommandError{
			Type:   cmd.Type,
			Reason: ReasonPositionOccupied,
			Detail: fmt.Sprintf("(%d, %d) is occupied", target.X, target.Y),
		}
	}

	// Reads done; write phase. Remove-before-insert keeps the occupancy
	// invariant through the move.
	if target != origin {
		if err := p.state.Occupancy.Remove(p.selected); err != nil {
			return "", err
		}
		if err := p.state.Occupancy.Insert(target, p.selected); err != nil {
			return "", err
		}
	}

	unitName := "unit"
	if unit, ok := p.state.Units[p.selected.ID]; ok {
		unitName = unit.TypeName
	}
	p.clearSelection()
	return fmt.Sprintf("%s moved to (%d, %d) for cost %d", unitName, target.X, target.Y, info.Cost), nil
}

// applyDeploy places a new player unit of cmd.UnitType at cmd.Pos. Valid
// only from Idle, only at a deployment point, only onto an empty tile,
// and only below the level's unit cap; each violated constraint is
// reported distinctly.
func (p *Processor) applyDeploy(cmd Command) (string, error) {
	if cmd.Pos == nil {
		return "", &InvalidCommandError{Type: cmd.Type, Reason: ReasonMissingPosition}
	}
	if p.phase != PhaseIdle {
		return "", &InvalidCommandError{Type: cmd.Type, Reason: ReasonWrongPhase, Detail: "deployment requires an idle selection"}
	}

	pos := *cmd.Pos
	if !p.state.Board.IsValidPosition(pos) {
		return "", &OutOfBoundsError{Pos: pos, Board: p.state.Board}
	}
	if !p.state.IsDeploymentPoint(pos) {
		return "", &InvalidCommandError{
			Type:   cmd.Type,
			Reason: ReasonNotDeployable,
			Detail: fmt.Sprintf("(%d, %d) is not a deployment point", pos.X, pos.Y),
		}
	}
	if len(p.state.Occupancy.OccupantsAt(pos)) > 0 {
		return "", &InvalidCommandError{
			Type:   cmd.Type,
			Reason: ReasonPositionOccupied,
			Detail: fmt.Sprintf("(%d, %d) already holds an occupant", pos.X, pos.Y),
		}
	}
	if deployed := p.state.DeployedCount(); deployed >= p.state.MaxPlayerUnits {
		return "", &InvalidCommandError{
			Type:   cmd.Type,
			Reason: ReasonUnitCapReached,
			Detail: fmt.Sprintf("%d of %d units already deployed", deployed, p.state.MaxPlayerUnits),
		}
	}
	if _, ok := p.state.UnitTypes[cmd.UnitType]; !ok {
		return "", &InvalidCommandError{
			Type:   cmd.Type,
			Reason: ReasonUnknownUnitType,
			Detail: fmt.Sprintf("unit type %q is not defined", cmd.UnitType),
		}
	}

	unit, err := p.state.SpawnUnit(cmd.UnitType, p.actingFaction, pos)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("deployed %s at (%d, %d)", unit.TypeName, pos.X, pos.Y), nil
}

// applyUndeploy removes the deployed player unit at cmd.Pos. The position
// must be a deployment point holding a player unit — not an enemy, not an
// object.
func (p *Processor) applyUndeploy(cmd Command) (string, error) {
	if cmd.Pos == nil {
		return "", &InvalidCommandError{Type: cmd.Type, Reason: ReasonMissingPosition}
	}
	if p.phase != PhaseIdle {
		return "", &InvalidCommandError{Type: cmd.Type, Reason: ReasonWrongPhase, Detail: "undeploy requires an idle selection"}
	}

	pos := *cmd.Pos
	if !p.state.Board.IsValidPosition(pos) {
		return "", &OutOfBoundsError{Pos: pos, Board: p.state.Board}
	}
	if !p.state.IsDeploymentPoint(pos) {
		return "", &InvalidCommandError{
			Type:   cmd.Type,
			Reason: ReasonNotDeployable,
			Detail: fmt.Sprintf("(%d, %d) is not a deployment point", pos.X, pos.Y),
		}
	}
	unit, ok := p.state.UnitAt(pos)
	if !ok || unit.Faction != p.actingFaction {
		return "", &InvalidCommandError{
			Type:   cmd.Type,
			Reason: ReasonNothingToUndeploy,
			Detail: fmt.Sprintf("no deployed unit at (%d, %d)", pos.X, pos.Y),
		}
	}

	typeName := unit.TypeName
	if err := p.state.RemoveUnit(unit.ID); err != nil {
		return "", err
	}
	return fmt.Sprintf("removed %s from (%d, %d)", typeName, pos.X, pos.Y), nil
}

// applyCancel clears the current selection and returns to Idle
func (p *Processor) applyCancel() (string, error) {
	p.clearSelection()
	return "selection cleared", nil
}

func (p *Processor) clearSelection() {
	p.phase = PhaseIdle
	p.hasSelection = false
	p.selected = Occupant{}
	p.reachable = nil
}
