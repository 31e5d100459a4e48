package engine

import (
	"container/heap"
	"fmt"
)

// Mover describes the unit attempting movement: its faction and the
// positions it currently occupies (normally one).
type Mover struct {
	Faction FactionID
	Origins []Position
}

// ReachableInfo describes one reachable tile: the cheapest cumulative cost
// to enter it and the position moved from immediately before it. Origins
// carry cost 0 with From equal to the origin itself.
type ReachableInfo struct {
	Cost int      `json:"cost"`
	From Position `json:"from"`
}

// OccupantFactionFunc reports the faction of the occupant at a position,
// if any unit stands there.
type OccupantFactionFunc func(Position) (FactionID, bool)

// TerrainCostFunc reports the budget cost of entering a position. Costs at
// or above ImpassableCost mark tiles that can never be entered.
type TerrainCostFunc func(Position) int

// HostilityFunc reports whether faction b blocks movement for faction a.
// The engine hard-codes no policy; the caller owns it.
type HostilityFunc func(a, b FactionID) bool

// frontierItem is one pending expansion in the uniform-cost frontier
type frontierItem struct {
	cost int
	pos  Position
}

// frontier is a min-heap ordered by cost, then by (y, x). The positional
// order makes expansion of equal-cost tiles deterministic.
type frontier []frontierItem

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].cost != f[j].cost {
		return f[i].cost < f[j].cost
	}
	return f[i].pos.Less(f[j].pos)
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(frontierItem)) }

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}

// ReachablePositions computes every tile reachable from the mover's origins
// within the movement budget, with the cheapest cost and predecessor link
// per tile.
//
// A tile is expandable only if it is on the board, its cumulative cost stays
// within budget, its terrain cost is below ImpassableCost, and it is not
// occupied by a unit whose faction is hostile to the mover (per hostile).
// Friendly-occupied tiles are traversable and appear in the result; whether
// a move may end on one is the command processor's call, not the engine's.
//
// Equal-cost ties are broken deterministically: the predecessor with the
// lower (y, x) ordinal is kept.
//
// A zero budget is valid and yields exactly the origins at cost 0. An
// origin outside the board fails with InvalidMoverError.
func ReachablePositions(
	board Board,
	mover Mover,
	budget int,
	occupantFaction OccupantFactionFunc,
	terrainCost TerrainCostFunc,
	hostile HostilityFunc,
) (map[Position]ReachableInfo, error) {
	if budget < 0 {
		return nil, fmt.Errorf("movement budget must be non-negative, got %d", budget)
	}
	if len(mover.Origins) == 0 {
		return nil, fmt.Errorf("mover has no origin position")
	}
	for _, origin := range mover.Origins {
		if !board.IsValidPosition(origin) {
			return nil, &InvalidMoverError{Origin: origin, Board: board}
		}
	}

	dist := make(map[Position]int)
	prev := make(map[Position]Position)
	queue := &frontier{}
	heap.Init(queue)

	for _, origin := range mover.Origins {
		if _, seen := dist[origin]; seen {
			continue
		}
		dist[origin] = 0
		prev[origin] = origin
		heap.Push(queue, frontierItem{cost: 0, pos: origin})
	}

	for queue.Len() > 0 {
		item := heap.Pop(queue).(frontierItem)

		// Skip stale queue entries superseded by a cheaper path
		if item.cost > dist[item.pos] {
			continue
		}

		for _, dir := range Directions {
			next, ok := StepInDirection(board, item.pos, dir)
			if !ok {
				continue
			}

			entryCost := terrainCost(next)
			if entryCost >= ImpassableCost {
				continue
			}

			newCost := item.cost + entryCost
			if newCost > budget {
				continue
			}

			if faction, occupied := occupantFaction(next); occupied && hostile(mover.Faction, faction) {
				continue
			}

			best, visited := dist[next]
			switch {
			case !visited || newCost < best:
				dist[next] = newCost
				prev[next] = item.pos
				heap.Push(queue, frontierItem{cost: newCost, pos: next})
			case newCost == best && item.pos.Less(prev[next]):
				// Equal-cost path through an ordinally smaller
				// predecessor: keep that predecessor. Cost is
				// unchanged, so no re-expansion is needed.
				prev[next] = item.pos
			}
		}
	}

	reachable := make(map[Position]ReachableInfo, len(dist))
	for pos, cost := range dist {
		reachable[pos] = ReachableInfo{Cost: cost, From: prev[pos]}
	}
	return reachable, nil
}

// PathTo reconstructs the path to target by walking predecessor links back
// to an origin (where From equals the position itself). The returned slice
// runs origin first, target last. It fails with UnreachableError if target
// is not in the reachable set.
func PathTo(reachable map[Position]ReachableInfo, target Position) ([]Position, error) {
	if _, ok := reachable[target]; !ok {
		return nil, &UnreachableError{Target: target}
	}

	var path []Position
	pos := target
	for range len(reachable) + 1 {
		path = append(path, pos)
		info := reachable[pos]
		if info.From == pos {
			// Reached an origin; reverse into origin-first order
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path, nil
		}
		pos = info.From
	}
	return nil, fmt.Errorf("predecessor chain for (%d, %d) does not terminate", target.X, target.Y)
}
