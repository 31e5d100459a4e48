package engine

import (
	"strings"
	"testing"
)

func TestValidateLevelConfig_Valid(t *testing.T) {
	if err := ValidateLevelConfig(testLevelConfig()); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidateLevelConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *LevelConfig)
		errPart string
	}{
		{
			name:    "missing name",
			mutate:  func(c *LevelConfig) { c.Name = "" },
			errPart: "name is required",
		},
		{
			name:    "width too small",
			mutate:  func(c *LevelConfig) { c.Width = 1 },
			errPart: "width",
		},
		{
			name:    "height too large",
			mutate:  func(c *LevelConfig) { c.Height = 65 },
			errPart: "height",
		},
		{
			name:    "layout row count mismatch",
			mutate:  func(c *LevelConfig) { c.Layout = c.Layout[:4] },
			errPart: "layout must have",
		},
		{
			name:    "layout row width mismatch",
			mutate:  func(c *LevelConfig) { c.Layout[2] = "...." },
			errPart: "row 3",
		},
		{
			name:    "unknown layout character",
			mutate:  func(c *LevelConfig) { c.Layout[0] = "..x.." },
			errPart: "not in the legend",
		},
		{
			name: "legend names unknown terrain",
			mutate: func(c *LevelConfig) {
				c.Legend = map[string]string{".": "lava"}
			},
			errPart: "unknown terrain",
		},
		{
			name:    "zero unit cap",
			mutate:  func(c *LevelConfig) { c.MaxPlayerUnits = 0 },
			errPart: "max_player_units",
		},
		{
			name:    "no deployment points",
			mutate:  func(c *LevelConfig) { c.DeploymentPoints = nil },
			errPart: "deployment point",
		},
		{
			name: "deployment point out of bounds",
			mutate: func(c *LevelConfig) {
				c.DeploymentPoints = append(c.DeploymentPoints, Position{X: 5, Y: 0})
			},
			errPart: "outside the board",
		},
		{
			name: "duplicate deployment point",
			mutate: func(c *LevelConfig) {
				c.DeploymentPoints = append(c.DeploymentPoints, Position{X: 0, Y: 0})
			},
			errPart: "duplicate deployment point",
		},
		{
			name:    "no factions",
			mutate:  func(c *LevelConfig) { c.Factions = nil },
			errPart: "faction is required",
		},
		{
			name: "missing player faction",
			mutate: func(c *LevelConfig) {
				c.Factions = []FactionConfig{{ID: 1, Name: "raiders"}}
			},
			errPart: "player faction",
		},
		{
			name: "duplicate faction id",
			mutate: func(c *LevelConfig) {
				c.Factions = append(c.Factions, FactionConfig{ID: 1, Name: "bandits"})
			},
			errPart: "duplicate faction",
		},
		{
			name: "hostility to undeclared faction",
			mutate: func(c *LevelConfig) {
				c.Factions[1].HostileTo = []FactionID{7}
			},
			errPart: "undeclared faction",
		},
		{
			name:    "no unit types",
			mutate:  func(c *LevelConfig) { c.UnitTypes = nil },
			errPart: "unit type is required",
		},
		{
			name: "unit type without hp",
			mutate: func(c *LevelConfig) {
				c.UnitTypes["ghost"] = UnitTypeConfig{Name: "ghost"}
			},
			errPart: "max_hp",
		},
		{
			name: "placement of unknown unit type",
			mutate: func(c *LevelConfig) {
				c.Units = []UnitPlacement{{UnitType: "dragon", FactionID: 0, Pos: Position{X: 1, Y: 1}}}
			},
			errPart: "unknown unit type",
		},
		{
			name: "placement for undeclared faction",
			mutate: func(c *LevelConfig) {
				c.Units = []UnitPlacement{{UnitType: "soldier", FactionID: 9, Pos: Position{X: 1, Y: 1}}}
			},
			errPart: "undeclared faction",
		},
		{
			name: "placements claim the same tile",
			mutate: func(c *LevelConfig) {
				c.Units = []UnitPlacement{
					{UnitType: "soldier", FactionID: 0, Pos: Position{X: 1, Y: 1}},
					{UnitType: "scout", FactionID: 1, Pos: Position{X: 1, Y: 1}},
				}
			},
			errPart: "claimed twice",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := testLevelConfig()
			test.mutate(config)
			err := ValidateLevelConfig(config)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), test.errPart) {
				t.Errorf("error %q does not mention %q", err.Error(), test.errPart)
			}
		})
	}
}

func TestInitGameStateFromConfig_Placements(t *testing.T) {
	config := testLevelConfig()
	config.ObjectTypes = map[string]ObjectTypeConfig{
		"wall":  {Name: "wall", Impassable: true},
		"swamp": {Name: "swamp", MoveCost: 25},
	}
	config.Objects = []ObjectPlacement{
		{ObjectType: "wall", Pos: Position{X: 2, Y: 1}},
		{ObjectType: "swamp", Pos: Position{X: 3, Y: 3}},
	}
	config.Units = []UnitPlacement{
		{UnitType: "soldier", FactionID: 1, Pos: Position{X: 4, Y: 4}},
	}

	state, err := InitGameStateFromConfig(config)
	if err != nil {
		t.Fatalf("InitGameStateFromConfig failed: %v", err)
	}

	if state.TerrainCostAt(Position{X: 2, Y: 1}) != ImpassableCost {
		t.Error("impassable object must make its tile impassable")
	}
	if got := state.TerrainCostAt(Position{X: 3, Y: 3}); got != 25 {
		t.Errorf("object move cost must override terrain, got %d", got)
	}
	if got := state.TerrainCostAt(Position{X: 0, Y: 4}); got != BasicMoveCost {
		t.Errorf("plain tile cost: expected %d, got %d", BasicMoveCost, got)
	}

	unit, ok := state.UnitAt(Position{X: 4, Y: 4})
	if !ok || unit.Faction != 1 || unit.TypeName != "soldier" {
		t.Fatalf("pre-placed unit missing or wrong: %+v ok=%v", unit, ok)
	}

	// Deployment points come out sorted regardless of config order
	for i := 1; i < len(state.DeploymentPoints); i++ {
		if !state.DeploymentPoints[i-1].Less(state.DeploymentPoints[i]) {
			t.Fatal("deployment points not sorted")
		}
	}
}

func TestInitGameStateFromConfig_TerrainFromLegend(t *testing.T) {
	config := testLevelConfig()
	config.Layout = []string{
		".hfMs",
		"w....",
		".....",
		".....",
		".....",
	}

	state, err := InitGameStateFromConfig(config)
	if err != nil {
		t.Fatalf("InitGameStateFromConfig failed: %v", err)
	}

	tests := []struct {
		pos     Position
		terrain Terrain
		cost    int
	}{
		{Position{X: 0, Y: 0}, Plain, 10},
		{Position{X: 1, Y: 0}, Hill, 13},
		{Position{X: 2, Y: 0}, Forest, 13},
		{Position{X: 3, Y: 0}, Mountain, 20},
		{Position{X: 4, Y: 0}, ShallowWater, 17},
		{Position{X: 0, Y: 1}, DeepWater, ImpassableCost},
	}
	for _, test := range tests {
		if got := state.TerrainAt(test.pos); got != test.terrain {
			t.Errorf("(%d, %d): expected terrain %s, got %s", test.pos.X, test.pos.Y, test.terrain, got)
		}
		if got := state.TerrainCostAt(test.pos); got != test.cost {
			t.Errorf("(%d, %d): expected cost %d, got %d", test.pos.X, test.pos.Y, test.cost, got)
		}
	}
}

func TestGameState_Hostile(t *testing.T) {
	state := newTestState(t)

	tests := []struct {
		name     string
		a, b     FactionID
		expected bool
	}{
		{"same faction", 0, 0, false},
		{"default hostility", 0, 1, true},
		{"default hostility reversed", 1, 0, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := state.Hostile(test.a, test.b); got != test.expected {
				t.Errorf("Hostile(%d, %d): expected %v, got %v", test.a, test.b, test.expected, got)
			}
		})
	}

	// An explicit hostile_to list narrows hostility to the named factions
	state.Factions = []FactionConfig{
		{ID: 0, Name: "player", HostileTo: []FactionID{2}},
		{ID: 1, Name: "neutral"},
		{ID: 2, Name: "raiders"},
	}
	if state.Hostile(0, 1) {
		t.Error("faction 1 is not in the player's hostile list")
	}
	if !state.Hostile(0, 2) {
		t.Error("faction 2 is in the player's hostile list")
	}
}
