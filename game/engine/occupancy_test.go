package engine

import (
	"encoding/json"
	"errors"
	"testing"
)

// checkInverse verifies the two sides of the index are mutual inverses:
// every placed occupant appears exactly once in its position's list, and
// every listed occupant maps back to that position.
func checkInverse(t *testing.T, idx *OccupancyIndex) {
	t.Helper()

	for y := 0; y < idx.Board().Height; y++ {
		for x := 0; x < idx.Board().Width; x++ {
			pos := Position{X: x, Y: y}
			for _, o := range idx.OccupantsAt(pos) {
				recorded, ok := idx.PositionOf(o)
				if !ok {
					t.Fatalf("occupant %v listed at (%d, %d) but has no recorded position", o, x, y)
				}
				if recorded != pos {
					t.Fatalf("occupant %v listed at (%d, %d) but recorded at (%d, %d)", o, x, y, recorded.X, recorded.Y)
				}
			}
		}
	}

	for y := 0; y < idx.Board().Height; y++ {
		for x := 0; x < idx.Board().Width; x++ {
			pos := Position{X: x, Y: y}
			occupants := idx.OccupantsAt(pos)
			seen := make(map[Occupant]int)
			for _, o := range occupants {
				seen[o]++
			}
			for o, count := range seen {
				if count != 1 {
					t.Fatalf("occupant %v appears %d times at (%d, %d)", o, count, x, y)
				}
			}
		}
	}
}

func TestOccupancyIndex_InsertAndLookup(t *testing.T) {
	idx := NewOccupancyIndex(Board{Width: 5, Height: 5})
	pos := Position{X: 2, Y: 3}
	occ := UnitOccupant(1)

	if err := idx.Insert(pos, occ); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, ok := idx.PositionOf(occ)
	if !ok || got != pos {
		t.Errorf("PositionOf: expected (%v, true), got (%v, %v)", pos, got, ok)
	}
	occupants := idx.OccupantsAt(pos)
	if len(occupants) != 1 || occupants[0] != occ {
		t.Errorf("OccupantsAt: expected [%v], got %v", occ, occupants)
	}
	checkInverse(t, idx)
}

func TestOccupancyIndex_InsertOutOfBounds(t *testing.T) {
	idx := NewOccupancyIndex(Board{Width: 3, Height: 3})

	err := idx.Insert(Position{X: 3, Y: 0}, UnitOccupant(1))
	var oobErr *OutOfBoundsError
	if !errors.As(err, &oobErr) {
		t.Fatalf("expected OutOfBoundsError, got %v", err)
	}
	if idx.Len() != 0 {
		t.Errorf("failed insert must not add entries, got %d", idx.Len())
	}
}

func TestOccupancyIndex_DuplicateInsertRejected(t *testing.T) {
	idx := NewOccupancyIndex(Board{Width: 5, Height: 5})
	occ := UnitOccupant(7)

	if err := idx.Insert(Position{X: 1, Y: 1}, occ); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	err := idx.Insert(Position{X: 2, Y: 2}, occ)
	var dupErr *DuplicateOccupantError
	if !errors.As(err, &dupErr) {
		t.Fatalf("expected DuplicateOccupantError, got %v", err)
	}
	if dupErr.Pos != (Position{X: 1, Y: 1}) {
		t.Errorf("error must carry the existing position, got %v", dupErr.Pos)
	}

	// The failed insert must leave both sides untouched
	if pos, _ := idx.PositionOf(occ); pos != (Position{X: 1, Y: 1}) {
		t.Errorf("occupant moved by failed insert: %v", pos)
	}
	if len(idx.OccupantsAt(Position{X: 2, Y: 2})) != 0 {
		t.Error("failed insert left a claim at the target position")
	}
	checkInverse(t, idx)
}

func TestOccupancyIndex_RemoveUnknownIsError(t *testing.T) {
	idx := NewOccupancyIndex(Board{Width: 5, Height: 5})

	err := idx.Remove(UnitOccupant(42))
	var unknownErr *UnknownOccupantError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownOccupantError, got %v", err)
	}
}

func TestOccupancyIndex_RemoveThenReinsert(t *testing.T) {
	idx := NewOccupancyIndex(Board{Width: 5, Height: 5})
	occ := ObjectOccupant(3)

	if err := idx.Insert(Position{X: 0, Y: 0}, occ); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := idx.Remove(occ); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, ok := idx.PositionOf(occ); ok {
		t.Error("removed occupant still has a position")
	}
	if err := idx.Insert(Position{X: 4, Y: 4}, occ); err != nil {
		t.Fatalf("reinsert after remove failed: %v", err)
	}
	checkInverse(t, idx)
}

func TestOccupancyIndex_InvariantUnderChurn(t *testing.T) {
	idx := NewOccupancyIndex(Board{Width: 4, Height: 4})

	// A deterministic churn of inserts, moves, and removes
	ops := []struct {
		insert bool
		occ    Occupant
		pos    Position
	}{
		{true, UnitOccupant(1), Position{X: 0, Y: 0}},
		{true, UnitOccupant(2), Position{X: 1, Y: 0}},
		{true, ObjectOccupant(3), Position{X: 2, Y: 2}},
		{false, UnitOccupant(1), Position{}},
		{true, UnitOccupant(1), Position{X: 3, Y: 3}},
		{true, UnitOccupant(4), Position{X: 0, Y: 0}},
		{false, UnitOccupant(2), Position{}},
		{true, UnitOccupant(2), Position{X: 0, Y: 0}},
	}

	for i, op := range ops {
		var err error
		if op.insert {
			err = idx.Insert(op.pos, op.occ)
		} else {
			err = idx.Remove(op.occ)
		}
		if err != nil {
			t.Fatalf("op %d failed: %v", i, err)
		}
		checkInverse(t, idx)
	}

	// (0,0) now holds unit 4 and unit 2
	occupants := idx.OccupantsAt(Position{X: 0, Y: 0})
	if len(occupants) != 2 {
		t.Fatalf("expected 2 occupants at (0,0), got %d", len(occupants))
	}
}

func TestOccupancyIndex_JSONRoundTrip(t *testing.T) {
	idx := NewOccupancyIndex(Board{Width: 5, Height: 5})
	entries := map[Occupant]Position{
		UnitOccupant(1):   {X: 1, Y: 2},
		UnitOccupant(2):   {X: 3, Y: 0},
		ObjectOccupant(3): {X: 4, Y: 4},
	}
	for occ, pos := range entries {
		if err := idx.Insert(pos, occ); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	data, err := json.Marshal(idx)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	restored := &OccupancyIndex{}
	if err := json.Unmarshal(data, restored); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if restored.Board() != idx.Board() {
		t.Errorf("board not restored: %v", restored.Board())
	}
	for occ, pos := range entries {
		got, ok := restored.PositionOf(occ)
		if !ok || got != pos {
			t.Errorf("occupant %v: expected (%v, true), got (%v, %v)", occ, pos, got, ok)
		}
	}
	checkInverse(t, restored)

	// Marshaling twice yields identical bytes (sorted entries)
	again, err := json.Marshal(idx)
	if err != nil {
		t.Fatalf("second marshal failed: %v", err)
	}
	if string(data) != string(again) {
		t.Error("marshal output is not deterministic")
	}
}
