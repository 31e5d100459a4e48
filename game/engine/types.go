package engine

// Terrain identifies the ground type of a tile
type Terrain string

const (
	Plain        Terrain = "plain"
	Hill         Terrain = "hill"
	Forest       Terrain = "forest"
	Mountain     Terrain = "mountain"
	ShallowWater Terrain = "shallow_water"
	DeepWater    Terrain = "deep_water"
)

const (
	// BasicMoveCost is the cost of entering a plain tile. Movement budgets
	// are expressed in these units.
	BasicMoveCost = 10

	// ImpassableCost marks tiles that can never be entered regardless of
	// budget. Any cost at or above this value is treated as impassable.
	ImpassableCost = BasicMoveCost * 1000

	// Validation constants
	MinBoardDim = 2
	MaxBoardDim = 64

	WebSocketBufferSize = 256
)

// terrainMoveCost holds per-terrain entry costs
var terrainMoveCost = map[Terrain]int{
	Plain:        BasicMoveCost,
	Hill:         13,
	Forest:       13,
	Mountain:     20,
	ShallowWater: 17,
	DeepWater:    ImpassableCost,
}

// MoveCost returns the budget cost of entering a tile of this terrain.
// Unknown terrain is impassable.
func (t Terrain) MoveCost() int {
	if cost, ok := terrainMoveCost[t]; ok {
		return cost
	}
	return ImpassableCost
}

// Valid reports whether t is a known terrain kind
func (t Terrain) Valid() bool {
	_, ok := terrainMoveCost[t]
	return ok
}

// Position represents x,y coordinates on the board. Positions are value
// types, compared and hashed by value.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Less orders positions by (y, x). This ordering is the deterministic
// tie-break used throughout the engine (reachability predecessors,
// snapshot listings).
func (p Position) Less(q Position) bool {
	if p.Y != q.Y {
		return p.Y < q.Y
	}
	return p.X < q.X
}

// Board holds the dimensions of the playing field. Valid positions are
// exactly 0 <= x < Width, 0 <= y < Height.
type Board struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Direction is one of the four movement directions
type Direction string

const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
)

// Directions lists the four movement directions in expansion order
var Directions = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

// FactionID identifies an allegiance grouping. Faction 0 is always the
// player's side.
type FactionID int

// PlayerFaction is the faction commanded through the command processor
const PlayerFaction FactionID = 0

// OccupantKind discriminates the two things that can claim a position
type OccupantKind string

const (
	OccupantUnit   OccupantKind = "unit"
	OccupantObject OccupantKind = "object"
)

// Occupant is an opaque reference to a unit or placed object. Occupants do
// not own positions; the occupancy index owns the claim.
type Occupant struct {
	Kind OccupantKind `json:"kind"`
	ID   int          `json:"id"`
}

// UnitOccupant builds the occupant reference for a unit id
func UnitOccupant(id int) Occupant {
	return Occupant{Kind: OccupantUnit, ID: id}
}

// ObjectOccupant builds the occupant reference for an object id
func ObjectOccupant(id int) Occupant {
	return Occupant{Kind: OccupantObject, ID: id}
}

// UnitAttributes is the combat-relevant attribute block of a unit.
// Movement is a budget in terrain-cost units (a plain tile costs
// BasicMoveCost to enter).
type UnitAttributes struct {
	MaxHP      int `json:"max_hp"`
	HP         int `json:"hp"`
	MaxMP      int `json:"max_mp"`
	MP         int `json:"mp"`
	Movement   int `json:"movement"`
	Initiative int `json:"initiative"`
	Attack     int `json:"attack"`
	Defense    int `json:"defense"`
}

// Unit is a placed combatant. Its position lives in the occupancy index,
// not here.
type Unit struct {
	ID         int            `json:"id"`
	TypeName   string         `json:"type_name"`
	Faction    FactionID      `json:"faction"`
	Attributes UnitAttributes `json:"attributes"`
}

// Object is a placed battlefield object (wall, tent, ...). MoveCost
// overrides the terrain cost of the tile it stands on; ImpassableCost
// makes the tile a blocker.
type Object struct {
	ID       int    `json:"id"`
	TypeName string `json:"type_name"`
	MoveCost int    `json:"move_cost"`
	HPModify int    `json:"hp_modify"`
}

// Tile is one cell of the terrain grid
type Tile struct {
	Terrain Terrain `json:"terrain"`
}
