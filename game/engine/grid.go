package engine

import "sort"

// IsValidPosition reports whether pos lies within board bounds. This is
// the universal bounds guard; no other code re-implements the bounds math.
func (b Board) IsValidPosition(pos Position) bool {
	return pos.X >= 0 && pos.X < b.Width && pos.Y >= 0 && pos.Y < b.Height
}

// StepInDirection returns the position one step from pos in the given
// direction, and whether that position lies on the board. It is the single
// source of truth for adjacency.
func StepInDirection(board Board, pos Position, dir Direction) (Position, bool) {
	next := pos
	switch dir {
	case DirUp:
		next.Y--
	case DirDown:
		next.Y++
	case DirLeft:
		next.X--
	case DirRight:
		next.X++
	default:
		return Position{}, false
	}

	if !board.IsValidPosition(next) {
		return Position{}, false
	}
	return next, true
}

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// sortPositions orders positions by (y, x) in place
func sortPositions(positions []Position) {
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Less(positions[j])
	})
}
