package engine

import "fmt"

// OutOfBoundsError reports a position that fails the board bounds check
type OutOfBoundsError struct {
	Pos   Position
	Board Board
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("position (%d, %d) outside board %dx%d",
		e.Pos.X, e.Pos.Y, e.Board.Width, e.Board.Height)
}

// DuplicateOccupantError reports an insert of an occupant that already has
// a recorded position. The caller must remove the occupant first.
type DuplicateOccupantError struct {
	Occupant Occupant
	Pos      Position
}

func (e *DuplicateOccupantError) Error() string {
	return fmt.Sprintf("%s %d already placed at (%d, %d); remove before inserting",
		e.Occupant.Kind, e.Occupant.ID, e.Pos.X, e.Pos.Y)
}

// UnknownOccupantError reports a remove or lookup of an occupant with no
// recorded position. This signals a caller logic mistake rather than being
// silently accepted.
type UnknownOccupantError struct {
	Occupant Occupant
}

func (e *UnknownOccupantError) Error() string {
	return fmt.Sprintf("%s %d has no recorded position", e.Occupant.Kind, e.Occupant.ID)
}

// InvalidMoverError reports a reachability query whose origin position is
// outside the board. This is a precondition violation, not a budget issue.
type InvalidMoverError struct {
	Origin Position
	Board  Board
}

func (e *InvalidMoverError) Error() string {
	return fmt.Sprintf("mover origin (%d, %d) outside board %dx%d",
		e.Origin.X, e.Origin.Y, e.Board.Width, e.Board.Height)
}

// UnreachableError reports a move target that is not in the computed
// reachable set
type UnreachableError struct {
	Target Position
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("target (%d, %d) is not reachable", e.Target.X, e.Target.Y)
}

// CommandReason identifies which precondition a rejected command violated
type CommandReason string

const (
	ReasonWrongPhase        CommandReason = "wrong_phase"
	ReasonMissingPosition   CommandReason = "missing_position"
	ReasonNoSelection       CommandReason = "no_selection"
	ReasonNotDeployable     CommandReason = "not_a_deployment_point"
	ReasonPositionOccupied  CommandReason = "position_occupied"
	ReasonUnitCapReached    CommandReason = "unit_cap_reached"
	ReasonUnknownUnitType   CommandReason = "unknown_unit_type"
	ReasonNothingToUndeploy CommandReason = "nothing_to_undeploy"
)

// InvalidCommandError reports a command whose preconditions are violated.
// Reason identifies the failed constraint so the caller can display a
// meaningful message.
type InvalidCommandError struct {
	Type   CommandType
	Reason CommandReason
	Detail string
}

func (e *InvalidCommandError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s rejected (%s): %s", e.Type, e.Reason, e.Detail)
	}
	return fmt.Sprintf("%s rejected (%s)", e.Type, e.Reason)
}
