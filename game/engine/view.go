package engine

import "sort"

// OccupantView is the display projection of one occupant
type OccupantView struct {
	Kind      OccupantKind `json:"kind"`
	ID        int          `json:"id"`
	TypeName  string       `json:"type_name"`
	Faction   *FactionID   `json:"faction,omitempty"`
	HPPercent *int         `json:"hp_percent,omitempty"`
}

// TileView is the display projection of one tile
type TileView struct {
	Terrain       Terrain        `json:"terrain"`
	MoveCost      int            `json:"move_cost"`
	Occupants     []OccupantView `json:"occupants,omitempty"`
	Deployable    bool           `json:"deployable,omitempty"`
	ReachableCost *int           `json:"reachable_cost,omitempty"`
}

// SelectedView describes the currently selected unit
type SelectedView struct {
	ID         int            `json:"id"`
	TypeName   string         `json:"type_name"`
	Pos        Position       `json:"pos"`
	Faction    FactionID      `json:"faction"`
	Attributes UnitAttributes `json:"attributes"`
	HPPercent  int            `json:"hp_percent"`
}

// ReachableView is one reachable tile in listing form
type ReachableView struct {
	Pos  Position `json:"pos"`
	Cost int      `json:"cost"`
	From Position `json:"from"`
}

// Snapshot is the read-only projection of the game state consumed by a
// rendering layer. It is rebuilt fully after every applied command, never
// incrementally patched.
type Snapshot struct {
	LevelName        string          `json:"level_name"`
	Board            Board           `json:"board"`
	Phase            Phase           `json:"phase"`
	Message          string          `json:"message"`
	Tiles            [][]TileView    `json:"tiles"`
	Selected         *SelectedView   `json:"selected,omitempty"`
	Reachable        []ReachableView `json:"reachable,omitempty"`
	DeploymentPoints []Position      `json:"deployment_points"`
	DeployedCount    int             `json:"deployed_count"`
	MaxPlayerUnits   int             `json:"max_player_units"`
	TotalCommands    int             `json:"total_commands"`
}

// hpPercent derives the display HP fraction; it is computed here rather
// than stored in the state.
func hpPercent(attrs UnitAttributes) int {
	if attrs.MaxHP <= 0 {
		return 0
	}
	return attrs.HP * 100 / attrs.MaxHP
}

// BuildSnapshot projects the store and processor into a Snapshot. It is a
// pure read: calling it any number of times on unmutated inputs yields
// identical output.
func BuildSnapshot(state *GameState, proc *Processor) *Snapshot {
	reachable := proc.Reachable()

	tiles := make([][]TileView, state.Board.Height)
	for y := 0; y < state.Board.Height; y++ {
		tiles[y] = make([]TileView, state.Board.Width)
		for x := 0; x < state.Board.Width; x++ {
			pos := Position{X: x, Y: y}
			view := TileView{
				Terrain:    state.TerrainAt(pos),
				MoveCost:   state.TerrainCostAt(pos),
				Deployable: state.IsDeploymentPoint(pos),
			}
			for _, o := range state.Occupancy.OccupantsAt(pos) {
				view.Occupants = append(view.Occupants, buildOccupantView(state, o))
			}
			if info, ok := reachable[pos]; ok {
				cost := info.Cost
				view.ReachableCost = &cost
			}
			tiles[y][x] = view
		}
	}

	snapshot := &Snapshot{
		LevelName:        state.LevelName,
		Board:            state.Board,
		Phase:            proc.Phase(),
		Message:          state.Message,
		Tiles:            tiles,
		DeploymentPoints: append([]Position(nil), state.DeploymentPoints...),
		DeployedCount:    state.DeployedCount(),
		MaxPlayerUnits:   state.MaxPlayerUnits,
		TotalCommands:    len(state.Log),
	}

	if unit, pos, ok := proc.Selected(); ok {
		snapshot.Selected = &SelectedView{
			ID:         unit.ID,
			TypeName:   unit.TypeName,
			Pos:        pos,
			Faction:    unit.Faction,
			Attributes: unit.Attributes,
			HPPercent:  hpPercent(unit.Attributes),
		}
	}

	if len(reachable) > 0 {
		views := make([]ReachableView, 0, len(reachable))
		for pos, info := range reachable {
			views = append(views, ReachableView{Pos: pos, Cost: info.Cost, From: info.From})
		}
		sort.Slice(views, func(i, j int) bool {
			return views[i].Pos.Less(views[j].Pos)
		})
		snapshot.Reachable = views
	}

	return snapshot
}

// buildOccupantView projects one occupant for display
func buildOccupantView(state *GameState, o Occupant) OccupantView {
	view := OccupantView{Kind: o.Kind, ID: o.ID}
	switch o.Kind {
	case OccupantUnit:
		if unit, ok := state.Units[o.ID]; ok {
			view.TypeName = unit.TypeName
			faction := unit.Faction
			view.Faction = &faction
			percent := hpPercent(unit.Attributes)
			view.HPPercent = &percent
		}
	case OccupantObject:
		if obj, ok := state.Objects[o.ID]; ok {
			view.TypeName = obj.TypeName
		}
	}
	return view
}
