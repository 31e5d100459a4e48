package engine

import (
	"encoding/json"
	"fmt"
	"sort"
)

// OccupancyIndex is a bidirectional mapping between board positions and the
// occupants placed there. The two directions are always mutual inverses: an
// occupant appears in exactly one position's list, and a position's list
// holds no duplicate occupant. Insert and Remove are the only code paths
// that touch the maps, which is what guards the invariant.
type OccupancyIndex struct {
	board Board
	byPos map[Position][]Occupant
	byOcc map[Occupant]Position
}

// NewOccupancyIndex creates an empty index for the given board
func NewOccupancyIndex(board Board) *OccupancyIndex {
	return &OccupancyIndex{
		board: board,
		byPos: make(map[Position][]Occupant),
		byOcc: make(map[Occupant]Position),
	}
}

// Board returns the board the index validates positions against
func (idx *OccupancyIndex) Board() Board {
	return idx.board
}

// OccupantsAt returns the occupants at pos. The result is a copy; it is
// empty (never nil-dereferencing) for unoccupied or out-of-bounds positions.
func (idx *OccupancyIndex) OccupantsAt(pos Position) []Occupant {
	occupants := idx.byPos[pos]
	if len(occupants) == 0 {
		return nil
	}
	result := make([]Occupant, len(occupants))
	copy(result, occupants)
	return result
}

// PositionOf returns the recorded position of an occupant, if any
func (idx *OccupancyIndex) PositionOf(o Occupant) (Position, bool) {
	pos, ok := idx.byOcc[o]
	return pos, ok
}

// Insert places an occupant at pos, updating both directions together.
// It fails with OutOfBoundsError if pos is off the board, and with
// DuplicateOccupantError if the occupant already has a recorded position
// (the caller must Remove first).
func (idx *OccupancyIndex) Insert(pos Position, o Occupant) error {
	if !idx.board.IsValidPosition(pos) {
		return &OutOfBoundsError{Pos: pos, Board: idx.board}
	}
	if existing, ok := idx.byOcc[o]; ok {
		return &DuplicateOccupantError{Occupant: o, Pos: existing}
	}

	idx.byPos[pos] = append(idx.byPos[pos], o)
	idx.byOcc[o] = pos
	return nil
}

// Remove clears an occupant's claim, updating both directions together.
// Removing an occupant with no recorded position fails with
// UnknownOccupantError: it indicates the caller's assumptions about state
// were wrong and must not be silently ignored.
func (idx *OccupancyIndex) Remove(o Occupant) error {
	pos, ok := idx.byOcc[o]
	if !ok {
		return &UnknownOccupantError{Occupant: o}
	}

	occupants := idx.byPos[pos]
	for i, candidate := range occupants {
		if candidate == o {
			occupants = append(occupants[:i], occupants[i+1:]...)
			break
		}
	}
	if len(occupants) == 0 {
		delete(idx.byPos, pos)
	} else {
		idx.byPos[pos] = occupants
	}
	delete(idx.byOcc, o)
	return nil
}

// Len returns the number of placed occupants
func (idx *OccupancyIndex) Len() int {
	return len(idx.byOcc)
}

// occupancyEntry is the serialized form of one claim
type occupancyEntry struct {
	Occupant Occupant `json:"occupant"`
	Pos      Position `json:"pos"`
}

// occupancyPayload is the serialized form of the whole index
type occupancyPayload struct {
	Board   Board            `json:"board"`
	Entries []occupancyEntry `json:"entries"`
}

// MarshalJSON serializes the index as a sorted claim list so that equal
// indexes produce identical JSON.
func (idx *OccupancyIndex) MarshalJSON() ([]byte, error) {
	entries := make([]occupancyEntry, 0, len(idx.byOcc))
	for o, pos := range idx.byOcc {
		entries = append(entries, occupancyEntry{Occupant: o, Pos: pos})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].Occupant, entries[j].Occupant
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.ID < b.ID
	})
	return json.Marshal(occupancyPayload{Board: idx.board, Entries: entries})
}

// UnmarshalJSON rebuilds the index through Insert so the bidirectional
// invariant holds for loaded data too.
func (idx *OccupancyIndex) UnmarshalJSON(data []byte) error {
	var payload occupancyPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}

	idx.board = payload.Board
	idx.byPos = make(map[Position][]Occupant)
	idx.byOcc = make(map[Occupant]Position)
	for _, entry := range payload.Entries {
		if err := idx.Insert(entry.Pos, entry.Occupant); err != nil {
			return fmt.Errorf("invalid occupancy entry: %w", err)
		}
	}
	return nil
}
