package engine

import "fmt"

// GameState is the authoritative mutable world: terrain, units, objects,
// the occupancy index, and the level's deployment configuration. It is
// exclusively owned by whichever context holds it; nothing in this package
// mutates it outside an explicit method call.
type GameState struct {
	LevelName        string                    `json:"level_name"`
	Board            Board                     `json:"board"`
	Tiles            [][]Tile                  `json:"tiles"`
	Units            map[int]*Unit             `json:"units"`
	Objects          map[int]*Object           `json:"objects"`
	Occupancy        *OccupancyIndex           `json:"occupancy"`
	Factions         []FactionConfig           `json:"factions"`
	DeploymentPoints []Position                `json:"deployment_points"`
	MaxPlayerUnits   int                       `json:"max_player_units"`
	UnitTypes        map[string]UnitTypeConfig `json:"unit_types"`
	NextID           int                       `json:"next_id"`
	Log              []CommandRecord           `json:"log"`
	Message          string                    `json:"message"`
}

// TerrainAt returns the terrain of a tile. The position must be valid.
func (gs *GameState) TerrainAt(pos Position) Terrain {
	return gs.Tiles[pos.Y][pos.X].Terrain
}

// TerrainCostAt returns the budget cost of entering pos. An object standing
// on the tile overrides the terrain cost (walls make tiles impassable).
// Out-of-bounds positions are impassable.
func (gs *GameState) TerrainCostAt(pos Position) int {
	if !gs.Board.IsValidPosition(pos) {
		return ImpassableCost
	}
	for _, o := range gs.Occupancy.OccupantsAt(pos) {
		if o.Kind != OccupantObject {
			continue
		}
		if obj, ok := gs.Objects[o.ID]; ok {
			return obj.MoveCost
		}
	}
	return gs.TerrainAt(pos).MoveCost()
}

// OccupantFactionAt returns the faction of the unit standing at pos, if
// any. Objects carry no faction; they block through TerrainCostAt instead.
func (gs *GameState) OccupantFactionAt(pos Position) (FactionID, bool) {
	for _, o := range gs.Occupancy.OccupantsAt(pos) {
		if o.Kind != OccupantUnit {
			continue
		}
		if unit, ok := gs.Units[o.ID]; ok {
			return unit.Faction, true
		}
	}
	return 0, false
}

// Hostile reports whether faction b blocks movement for faction a. A
// faction with an explicit hostile_to list is hostile to exactly the
// factions it names; without one, every other faction is hostile.
func (gs *GameState) Hostile(a, b FactionID) bool {
	if a == b {
		return false
	}
	for _, f := range gs.Factions {
		if f.ID != a {
			continue
		}
		if len(f.HostileTo) == 0 {
			break
		}
		for _, target := range f.HostileTo {
			if target == b {
				return true
			}
		}
		return false
	}
	return true
}

// IsDeploymentPoint reports whether pos is pre-designated for player
// deployment
func (gs *GameState) IsDeploymentPoint(pos Position) bool {
	for _, p := range gs.DeploymentPoints {
		if p == pos {
			return true
		}
	}
	return false
}

// DeployedCount counts player units standing on deployment points: the
// units placed through DeployUnit, as opposed to pre-placed level units.
func (gs *GameState) DeployedCount() int {
	count := 0
	for _, pos := range gs.DeploymentPoints {
		for _, o := range gs.Occupancy.OccupantsAt(pos) {
			if o.Kind != OccupantUnit {
				continue
			}
			if unit, ok := gs.Units[o.ID]; ok && unit.Faction == PlayerFaction {
				count++
			}
		}
	}
	return count
}

// UnitAt returns the unit standing at pos, if any
func (gs *GameState) UnitAt(pos Position) (*Unit, bool) {
	for _, o := range gs.Occupancy.OccupantsAt(pos) {
		if o.Kind != OccupantUnit {
			continue
		}
		if unit, ok := gs.Units[o.ID]; ok {
			return unit, true
		}
	}
	return nil, false
}

// ObjectAt returns the object standing at pos, if any
func (gs *GameState) ObjectAt(pos Position) (*Object, bool) {
	for _, o := range gs.Occupancy.OccupantsAt(pos) {
		if o.Kind != OccupantObject {
			continue
		}
		if obj, ok := gs.Objects[o.ID]; ok {
			return obj, true
		}
	}
	return nil, false
}

// AllocateID hands out the next entity id
func (gs *GameState) AllocateID() int {
	id := gs.NextID
	gs.NextID++
	return id
}

// MoverFor builds the reachability mover for a unit. The unit must be
// placed.
func (gs *GameState) MoverFor(unit *Unit) (Mover, error) {
	pos, ok := gs.Occupancy.PositionOf(UnitOccupant(unit.ID))
	if !ok {
		return Mover{}, &UnknownOccupantError{Occupant: UnitOccupant(unit.ID)}
	}
	return Mover{Faction: unit.Faction, Origins: []Position{pos}}, nil
}

// Reachable computes the reachable set for a placed unit using its
// movement attribute as the budget and the store's terrain, occupancy, and
// faction tables as callbacks.
func (gs *GameState) Reachable(unit *Unit) (map[Position]ReachableInfo, error) {
	mover, err := gs.MoverFor(unit)
	if err != nil {
		return nil, err
	}
	return ReachablePositions(
		gs.Board,
		mover,
		unit.Attributes.Movement,
		gs.OccupantFactionAt,
		gs.TerrainCostAt,
		gs.Hostile,
	)
}

// SpawnUnit creates a unit of a configured type and claims pos for it.
// The unit registry is only updated after the occupancy claim succeeds.
func (gs *GameState) SpawnUnit(typeName string, faction FactionID, pos Position) (*Unit, error) {
	unitType, ok := gs.UnitTypes[typeName]
	if !ok {
		return nil, fmt.Errorf("unknown unit type %q", typeName)
	}

	unit := &Unit{
		ID:         gs.AllocateID(),
		TypeName:   typeName,
		Faction:    faction,
		Attributes: unitType.Attributes,
	}
	if err := gs.Occupancy.Insert(pos, UnitOccupant(unit.ID)); err != nil {
		return nil, err
	}
	gs.Units[unit.ID] = unit
	return unit, nil
}

// RemoveUnit clears a unit's occupancy claim and deletes it from the
// registry
func (gs *GameState) RemoveUnit(id int) error {
	if _, ok := gs.Units[id]; !ok {
		return fmt.Errorf("unknown unit id %d", id)
	}
	if err := gs.Occupancy.Remove(UnitOccupant(id)); err != nil {
		return err
	}
	delete(gs.Units, id)
	return nil
}

// SpawnObject creates an object and claims pos for it
func (gs *GameState) SpawnObject(typeName string, moveCost, hpModify int, pos Position) (*Object, error) {
	obj := &Object{
		ID:       gs.AllocateID(),
		TypeName: typeName,
		MoveCost: moveCost,
		HPModify: hpModify,
	}
	if err := gs.Occupancy.Insert(pos, ObjectOccupant(obj.ID)); err != nil {
		return nil, err
	}
	gs.Objects[obj.ID] = obj
	return obj, nil
}
