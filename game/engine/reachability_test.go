package engine

import (
	"errors"
	"testing"
)

// Callback fixtures shared by the reachability tests

func unitCost(Position) int { return 1 }

func noOccupants(Position) (FactionID, bool) { return 0, false }

func differentFactionsHostile(a, b FactionID) bool { return a != b }

func singleMover(faction FactionID, pos Position) Mover {
	return Mover{Faction: faction, Origins: []Position{pos}}
}

func TestReachablePositions_ZeroBudgetYieldsOrigin(t *testing.T) {
	board := Board{Width: 5, Height: 5}
	origin := Position{X: 2, Y: 2}

	reachable, err := ReachablePositions(board, singleMover(0, origin), 0, noOccupants, unitCost, differentFactionsHostile)
	if err != nil {
		t.Fatalf("ReachablePositions failed: %v", err)
	}

	if len(reachable) != 1 {
		t.Fatalf("expected exactly the origin, got %d tiles", len(reachable))
	}
	info, ok := reachable[origin]
	if !ok {
		t.Fatal("origin missing from reachable set")
	}
	if info.Cost != 0 || info.From != origin {
		t.Errorf("origin info: expected cost 0 and From == origin, got %+v", info)
	}
}

func TestReachablePositions_ManhattanDiamond(t *testing.T) {
	board := Board{Width: 5, Height: 5}
	origin := Position{X: 2, Y: 2}

	reachable, err := ReachablePositions(board, singleMover(0, origin), 2, noOccupants, unitCost, differentFactionsHostile)
	if err != nil {
		t.Fatalf("ReachablePositions failed: %v", err)
	}

	if len(reachable) != 13 {
		t.Fatalf("expected the 13-tile diamond, got %d tiles", len(reachable))
	}
	for y := 0; y < board.Height; y++ {
		for x := 0; x < board.Width; x++ {
			pos := Position{X: x, Y: y}
			dist := ManhattanDistance(origin, pos)
			info, ok := reachable[pos]
			if dist <= 2 {
				if !ok {
					t.Errorf("(%d, %d) at distance %d missing from reachable set", x, y, dist)
					continue
				}
				if info.Cost != dist {
					t.Errorf("(%d, %d): expected cost %d, got %d", x, y, dist, info.Cost)
				}
			} else if ok {
				t.Errorf("(%d, %d) at distance %d must not be reachable", x, y, dist)
			}
		}
	}
}

func TestReachablePositions_HostileOccupantBlocks(t *testing.T) {
	board := Board{Width: 5, Height: 5}
	origin := Position{X: 2, Y: 2}
	hostilePos := Position{X: 3, Y: 2}

	occupantAt := func(pos Position) (FactionID, bool) {
		if pos == hostilePos {
			return 1, true
		}
		return 0, false
	}

	reachable, err := ReachablePositions(board, singleMover(0, origin), 2, occupantAt, unitCost, differentFactionsHostile)
	if err != nil {
		t.Fatalf("ReachablePositions failed: %v", err)
	}

	if _, ok := reachable[hostilePos]; ok {
		t.Error("hostile-occupied tile must not be reachable")
	}
	// (4,2) is only reachable through the hostile tile within budget 2
	if _, ok := reachable[Position{X: 4, Y: 2}]; ok {
		t.Error("tile behind the hostile occupant must not be reachable within budget")
	}
	// The rest of the diamond is intact: 13 - hostile tile - the tile behind it
	if len(reachable) != 11 {
		t.Errorf("expected 11 tiles, got %d", len(reachable))
	}
}

func TestReachablePositions_FriendlyOccupantPassable(t *testing.T) {
	board := Board{Width: 5, Height: 5}
	origin := Position{X: 2, Y: 2}
	friendPos := Position{X: 3, Y: 2}

	occupantAt := func(pos Position) (FactionID, bool) {
		if pos == friendPos {
			return 0, true
		}
		return 0, false
	}

	reachable, err := ReachablePositions(board, singleMover(0, origin), 2, occupantAt, unitCost, differentFactionsHostile)
	if err != nil {
		t.Fatalf("ReachablePositions failed: %v", err)
	}

	if _, ok := reachable[friendPos]; !ok {
		t.Error("friendly-occupied tile must remain traversable")
	}
	if info, ok := reachable[Position{X: 4, Y: 2}]; !ok || info.Cost != 2 {
		t.Errorf("tile behind the friendly occupant must be reachable through it, got %+v ok=%v", info, ok)
	}
	if len(reachable) != 13 {
		t.Errorf("expected the full 13-tile diamond, got %d", len(reachable))
	}
}

func TestReachablePositions_ImpassableTerrainExcluded(t *testing.T) {
	board := Board{Width: 3, Height: 1}
	origin := Position{X: 0, Y: 0}
	wall := Position{X: 1, Y: 0}

	costAt := func(pos Position) int {
		if pos == wall {
			return ImpassableCost
		}
		return 1
	}

	reachable, err := ReachablePositions(board, singleMover(0, origin), 100, noOccupants, costAt, differentFactionsHostile)
	if err != nil {
		t.Fatalf("ReachablePositions failed: %v", err)
	}

	if _, ok := reachable[wall]; ok {
		t.Error("impassable tile must never be entered")
	}
	if _, ok := reachable[Position{X: 2, Y: 0}]; ok {
		t.Error("tile behind the wall is unreachable on a 3x1 board")
	}
}

func TestReachablePositions_RelaxationFindsCheaperPath(t *testing.T) {
	// 3x3 board where the direct path east is expensive but a detour
	// south is cheap: relaxation must record the cheaper cost.
	board := Board{Width: 3, Height: 3}
	origin := Position{X: 0, Y: 0}

	costAt := func(pos Position) int {
		if pos.Y == 0 && pos.X > 0 {
			return 5
		}
		return 1
	}

	reachable, err := ReachablePositions(board, singleMover(0, origin), 20, noOccupants, costAt, differentFactionsHostile)
	if err != nil {
		t.Fatalf("ReachablePositions failed: %v", err)
	}

	// (2,0): direct east costs 10; around the south edge costs
	// 1+1+1+5 = 8... the cheapest is down, right, right, up = 1+1+1+5
	info, ok := reachable[Position{X: 2, Y: 0}]
	if !ok {
		t.Fatal("(2,0) should be reachable")
	}
	if info.Cost != 8 {
		t.Errorf("(2,0): expected relaxed cost 8, got %d", info.Cost)
	}
}

func TestReachablePositions_CostOptimality_BruteForce(t *testing.T) {
	// Varied-cost 4x4 board; compare against exhaustive path search
	board := Board{Width: 4, Height: 4}
	origin := Position{X: 0, Y: 0}
	budget := 9

	costs := [][]int{
		{1, 3, 1, 2},
		{2, 4, 1, 3},
		{1, 1, 2, 1},
		{3, 2, 1, 1},
	}
	costAt := func(pos Position) int { return costs[pos.Y][pos.X] }

	reachable, err := ReachablePositions(board, singleMover(0, origin), budget, noOccupants, costAt, differentFactionsHostile)
	if err != nil {
		t.Fatalf("ReachablePositions failed: %v", err)
	}

	// Exhaustive search: explore every path, pruning only on budget and
	// on already-found-cheaper arrivals.
	best := map[Position]int{origin: 0}
	var explore func(pos Position, cost int)
	explore = func(pos Position, cost int) {
		for _, dir := range Directions {
			next, ok := StepInDirection(board, pos, dir)
			if !ok {
				continue
			}
			newCost := cost + costAt(next)
			if newCost > budget {
				continue
			}
			if known, seen := best[next]; seen && known <= newCost {
				continue
			}
			best[next] = newCost
			explore(next, newCost)
		}
	}
	explore(origin, 0)

	if len(reachable) != len(best) {
		t.Errorf("reachable set size %d differs from brute force %d", len(reachable), len(best))
	}
	for pos, want := range best {
		info, ok := reachable[pos]
		if !ok {
			t.Errorf("(%d, %d) found by brute force but not by the engine", pos.X, pos.Y)
			continue
		}
		if info.Cost != want {
			t.Errorf("(%d, %d): engine cost %d, brute force %d", pos.X, pos.Y, info.Cost, want)
		}
	}
}

func TestReachablePositions_TieBreakDeterministic(t *testing.T) {
	// On a uniform-cost board every diagonal neighbor is reachable by two
	// equal-cost paths; the recorded predecessor must be the one with the
	// lower (y, x) ordinal.
	board := Board{Width: 3, Height: 3}
	origin := Position{X: 1, Y: 1}

	for range 10 {
		reachable, err := ReachablePositions(board, singleMover(0, origin), 2, noOccupants, unitCost, differentFactionsHostile)
		if err != nil {
			t.Fatalf("ReachablePositions failed: %v", err)
		}

		tests := []struct {
			pos  Position
			from Position
		}{
			{Position{X: 0, Y: 0}, Position{X: 1, Y: 0}},
			{Position{X: 2, Y: 0}, Position{X: 1, Y: 0}},
			{Position{X: 0, Y: 2}, Position{X: 0, Y: 1}},
			{Position{X: 2, Y: 2}, Position{X: 2, Y: 1}},
		}
		for _, test := range tests {
			info, ok := reachable[test.pos]
			if !ok {
				t.Fatalf("(%d, %d) missing from reachable set", test.pos.X, test.pos.Y)
			}
			if info.From != test.from {
				t.Errorf("(%d, %d): expected predecessor (%d, %d), got (%d, %d)",
					test.pos.X, test.pos.Y, test.from.X, test.from.Y, info.From.X, info.From.Y)
			}
		}
	}
}

func TestReachablePositions_InvalidMover(t *testing.T) {
	board := Board{Width: 5, Height: 5}

	_, err := ReachablePositions(board, singleMover(0, Position{X: 5, Y: 2}), 10, noOccupants, unitCost, differentFactionsHostile)
	var moverErr *InvalidMoverError
	if !errors.As(err, &moverErr) {
		t.Fatalf("expected InvalidMoverError, got %v", err)
	}
}

func TestReachablePositions_NegativeBudgetRejected(t *testing.T) {
	board := Board{Width: 5, Height: 5}

	_, err := ReachablePositions(board, singleMover(0, Position{X: 2, Y: 2}), -1, noOccupants, unitCost, differentFactionsHostile)
	if err == nil {
		t.Fatal("expected an error for a negative budget")
	}
}

func TestReachablePositions_MultipleOrigins(t *testing.T) {
	board := Board{Width: 5, Height: 1}
	mover := Mover{Faction: 0, Origins: []Position{{X: 0, Y: 0}, {X: 4, Y: 0}}}

	reachable, err := ReachablePositions(board, mover, 1, noOccupants, unitCost, differentFactionsHostile)
	if err != nil {
		t.Fatalf("ReachablePositions failed: %v", err)
	}

	expected := map[Position]int{
		{X: 0, Y: 0}: 0,
		{X: 1, Y: 0}: 1,
		{X: 3, Y: 0}: 1,
		{X: 4, Y: 0}: 0,
	}
	if len(reachable) != len(expected) {
		t.Fatalf("expected %d tiles, got %d", len(expected), len(reachable))
	}
	for pos, cost := range expected {
		if info, ok := reachable[pos]; !ok || info.Cost != cost {
			t.Errorf("(%d, %d): expected cost %d, got %+v ok=%v", pos.X, pos.Y, cost, info, ok)
		}
	}
}

func TestPathTo(t *testing.T) {
	board := Board{Width: 5, Height: 5}
	origin := Position{X: 2, Y: 2}

	reachable, err := ReachablePositions(board, singleMover(0, origin), 2, noOccupants, unitCost, differentFactionsHostile)
	if err != nil {
		t.Fatalf("ReachablePositions failed: %v", err)
	}

	path, err := PathTo(reachable, Position{X: 2, Y: 0})
	if err != nil {
		t.Fatalf("PathTo failed: %v", err)
	}
	if len(path) != 3 {
		t.Fatalf("expected a 3-step path, got %v", path)
	}
	if path[0] != origin {
		t.Errorf("path must start at the origin, got %v", path[0])
	}
	if path[len(path)-1] != (Position{X: 2, Y: 0}) {
		t.Errorf("path must end at the target, got %v", path[len(path)-1])
	}
	for i := 1; i < len(path); i++ {
		if ManhattanDistance(path[i-1], path[i]) != 1 {
			t.Errorf("path steps %v -> %v are not adjacent", path[i-1], path[i])
		}
	}

	_, err = PathTo(reachable, Position{X: 4, Y: 4})
	var unreachable *UnreachableError
	if !errors.As(err, &unreachable) {
		t.Fatalf("expected UnreachableError, got %v", err)
	}
}
