package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FactionConfig declares one faction of a level. An empty HostileTo list
// means every other faction is hostile.
type FactionConfig struct {
	ID        FactionID   `json:"id"`
	Name      string      `json:"name"`
	HostileTo []FactionID `json:"hostile_to,omitempty"`
}

// UnitTypeConfig declares a deployable or pre-placeable unit type
type UnitTypeConfig struct {
	Name       string         `json:"name"`
	Attributes UnitAttributes `json:"attributes"`
}

// ObjectTypeConfig declares a placeable object type. Impassable objects
// ignore MoveCost and block their tile outright.
type ObjectTypeConfig struct {
	Name       string `json:"name"`
	Impassable bool   `json:"impassable"`
	MoveCost   int    `json:"move_cost"`
	HPModify   int    `json:"hp_modify"`
}

// UnitPlacement pre-places one unit at level load
type UnitPlacement struct {
	UnitType  string    `json:"unit_type"`
	FactionID FactionID `json:"faction_id"`
	Pos       Position  `json:"pos"`
}

// ObjectPlacement pre-places one object at level load
type ObjectPlacement struct {
	ObjectType string   `json:"object_type"`
	Pos        Position `json:"pos"`
}

// LevelConfig represents a level definition loaded from JSON
type LevelConfig struct {
	Name             string                      `json:"name"`
	Description      string                      `json:"description"`
	Width            int                         `json:"width"`
	Height           int                         `json:"height"`
	Layout           []string                    `json:"layout"`
	Legend           map[string]string           `json:"legend,omitempty"`
	MaxPlayerUnits   int                         `json:"max_player_units"`
	DeploymentPoints []Position                  `json:"deployment_points"`
	Factions         []FactionConfig             `json:"factions"`
	UnitTypes        map[string]UnitTypeConfig   `json:"unit_types"`
	ObjectTypes      map[string]ObjectTypeConfig `json:"object_types,omitempty"`
	Units            []UnitPlacement             `json:"units,omitempty"`
	Objects          []ObjectPlacement           `json:"objects,omitempty"`
}

// DefaultLegend maps layout characters to terrain names
var DefaultLegend = map[string]string{
	".": string(Plain),
	"h": string(Hill),
	"f": string(Forest),
	"M": string(Mountain),
	"s": string(ShallowWater),
	"w": string(DeepWater),
}

// legend returns the level's legend, falling back to DefaultLegend
func (c *LevelConfig) legend() map[string]string {
	if len(c.Legend) > 0 {
		return c.Legend
	}
	return DefaultLegend
}

// ValidateLevelConfig validates a level configuration for correctness and
// playability
func ValidateLevelConfig(c *LevelConfig) error {
	if c == nil {
		return fmt.Errorf("level validation: config cannot be nil")
	}
	if c.Name == "" {
		return fmt.Errorf("level validation: name is required")
	}
	if c.Width < MinBoardDim || c.Width > MaxBoardDim {
		return fmt.Errorf("level validation: width must be between %d and %d, got %d", MinBoardDim, MaxBoardDim, c.Width)
	}
	if c.Height < MinBoardDim || c.Height > MaxBoardDim {
		return fmt.Errorf("level validation: height must be between %d and %d, got %d", MinBoardDim, MaxBoardDim, c.Height)
	}

	if len(c.Layout) != c.Height {
		return fmt.Errorf("level validation: layout must have %d rows to match height, got %d", c.Height, len(c.Layout))
	}
	legend := c.legend()
	for i, row := range c.Layout {
		if len(row) != c.Width {
			return fmt.Errorf("level validation: layout row %d must have %d characters to match width, got %d", i+1, c.Width, len(row))
		}
		for j, char := range row {
			name, ok := legend[string(char)]
			if !ok {
				return fmt.Errorf("level validation: character %q at row %d, col %d is not in the legend", char, i+1, j+1)
			}
			if !Terrain(name).Valid() {
				return fmt.Errorf("level validation: legend[%q] names unknown terrain %q", char, name)
			}
		}
	}

	board := Board{Width: c.Width, Height: c.Height}

	if c.MaxPlayerUnits < 1 {
		return fmt.Errorf("level validation: max_player_units must be at least 1, got %d", c.MaxPlayerUnits)
	}
	if len(c.DeploymentPoints) == 0 {
		return fmt.Errorf("level validation: at least one deployment point is required")
	}
	seen := make(map[Position]bool)
	for _, pos := range c.DeploymentPoints {
		if !board.IsValidPosition(pos) {
			return fmt.Errorf("level validation: deployment point (%d, %d) is outside the board", pos.X, pos.Y)
		}
		if seen[pos] {
			return fmt.Errorf("level validation: duplicate deployment point (%d, %d)", pos.X, pos.Y)
		}
		seen[pos] = true
	}

	if err := validateFactions(c.Factions); err != nil {
		return err
	}
	if len(c.UnitTypes) == 0 {
		return fmt.Errorf("level validation: at least one unit type is required")
	}
	for name, unitType := range c.UnitTypes {
		if unitType.Attributes.MaxHP < 1 {
			return fmt.Errorf("level validation: unit type %q must have positive max_hp", name)
		}
		if unitType.Attributes.Movement < 0 {
			return fmt.Errorf("level validation: unit type %q has negative movement", name)
		}
	}

	return validatePlacements(c, board)
}

// validateFactions checks the faction table includes the player faction
// and has no duplicate ids
func validateFactions(factions []FactionConfig) error {
	if len(factions) == 0 {
		return fmt.Errorf("level validation: at least one faction is required")
	}
	ids := make(map[FactionID]bool)
	hasPlayer := false
	for _, f := range factions {
		if ids[f.ID] {
			return fmt.Errorf("level validation: duplicate faction id %d", f.ID)
		}
		ids[f.ID] = true
		if f.ID == PlayerFaction {
			hasPlayer = true
		}
	}
	if !hasPlayer {
		return fmt.Errorf("level validation: faction table must include the player faction (id %d)", PlayerFaction)
	}
	for _, f := range factions {
		for _, target := range f.HostileTo {
			if !ids[target] {
				return fmt.Errorf("level validation: faction %d is hostile to undeclared faction %d", f.ID, target)
			}
		}
	}
	return nil
}

// validatePlacements checks pre-placed units and objects reference known
// types and factions and claim distinct, in-bounds positions
func validatePlacements(c *LevelConfig, board Board) error {
	factionIDs := make(map[FactionID]bool)
	for _, f := range c.Factions {
		factionIDs[f.ID] = true
	}

	claimed := make(map[Position]bool)
	for i, placement := range c.Units {
		if _, ok := c.UnitTypes[placement.UnitType]; !ok {
			return fmt.Errorf("level validation: unit placement %d references unknown unit type %q", i+1, placement.UnitType)
		}
		if !factionIDs[placement.FactionID] {
			return fmt.Errorf("level validation: unit placement %d references undeclared faction %d", i+1, placement.FactionID)
		}
		if !board.IsValidPosition(placement.Pos) {
			return fmt.Errorf("level validation: unit placement %d at (%d, %d) is outside the board", i+1, placement.Pos.X, placement.Pos.Y)
		}
		if claimed[placement.Pos] {
			return fmt.Errorf("level validation: position (%d, %d) is claimed twice", placement.Pos.X, placement.Pos.Y)
		}
		claimed[placement.Pos] = true
	}
	for i, placement := range c.Objects {
		if _, ok := c.ObjectTypes[placement.ObjectType]; !ok {
			return fmt.Errorf("level validation: object placement %d references unknown object type %q", i+1, placement.ObjectType)
		}
		if !board.IsValidPosition(placement.Pos) {
			return fmt.Errorf("level validation: object placement %d at (%d, %d) is outside the board", i+1, placement.Pos.X, placement.Pos.Y)
		}
		if claimed[placement.Pos] {
			return fmt.Errorf("level validation: position (%d, %d) is claimed twice", placement.Pos.X, placement.Pos.Y)
		}
		claimed[placement.Pos] = true
	}
	return nil
}

// LoadLevelConfig loads and validates a level configuration from a JSON
// file
func LoadLevelConfig(filename string) (*LevelConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read level file %q: %w", filename, err)
	}

	var config LevelConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse level file %q: %w", filename, err)
	}

	if err := ValidateLevelConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadLevelByName loads a level by name from the levels directory. The
// LEVEL_DIR environment variable overrides the default directory.
func LoadLevelByName(levelName string) (*LevelConfig, error) {
	if !strings.HasSuffix(levelName, ".json") {
		levelName += ".json"
	}

	levelDir := "levels"
	if dir := os.Getenv("LEVEL_DIR"); dir != "" {
		levelDir = dir
	}
	return LoadLevelConfig(filepath.Join(levelDir, levelName))
}

// InitGameStateFromConfig builds the authoritative store for a validated
// level: terrain tiles from the layout, then pre-placed objects, then
// pre-placed units.
func InitGameStateFromConfig(c *LevelConfig) (*GameState, error) {
	if err := ValidateLevelConfig(c); err != nil {
		return nil, err
	}

	board := Board{Width: c.Width, Height: c.Height}
	legend := c.legend()

	tiles := make([][]Tile, c.Height)
	for y := 0; y < c.Height; y++ {
		tiles[y] = make([]Tile, c.Width)
		for x := 0; x < c.Width; x++ {
			tiles[y][x] = Tile{Terrain: Terrain(legend[string(c.Layout[y][x])])}
		}
	}

	deployment := make([]Position, len(c.DeploymentPoints))
	copy(deployment, c.DeploymentPoints)
	sortPositions(deployment)

	unitTypes := make(map[string]UnitTypeConfig, len(c.UnitTypes))
	for name, unitType := range c.UnitTypes {
		unitTypes[name] = unitType
	}

	gs := &GameState{
		LevelName:        c.Name,
		Board:            board,
		Tiles:            tiles,
		Units:            make(map[int]*Unit),
		Objects:          make(map[int]*Object),
		Occupancy:        NewOccupancyIndex(board),
		Factions:         c.Factions,
		DeploymentPoints: deployment,
		MaxPlayerUnits:   c.MaxPlayerUnits,
		UnitTypes:        unitTypes,
		NextID:           1,
		Log:              []CommandRecord{},
	}

	for _, placement := range c.Objects {
		objectType := c.ObjectTypes[placement.ObjectType]
		moveCost := objectType.MoveCost
		if objectType.Impassable {
			moveCost = ImpassableCost
		}
		if _, err := gs.SpawnObject(placement.ObjectType, moveCost, objectType.HPModify, placement.Pos); err != nil {
			return nil, fmt.Errorf("failed to place object %q: %w", placement.ObjectType, err)
		}
	}
	for _, placement := range c.Units {
		if _, err := gs.SpawnUnit(placement.UnitType, placement.FactionID, placement.Pos); err != nil {
			return nil, fmt.Errorf("failed to place unit %q: %w", placement.UnitType, err)
		}
	}

	return gs, nil
}
