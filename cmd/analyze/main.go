// Command analyze prints quick, human-readable heuristics about level
// files in the project's levels directory. It summarizes board size,
// terrain distribution, and per-unit-type movement coverage from the
// deployment zone, and highlights unit types that cannot move at all.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/skirmishlab/skirmish/game/engine"
)

// UnitCoverage summarizes how far one unit type can range from the
// deployment zone on an empty board.
type UnitCoverage struct {
	TypeName       string
	Budget         int
	ReachableTiles int
	Pinned         bool
}

// LevelAnalysis is the computed summary for one level file
type LevelAnalysis struct {
	Name             string
	Width            int
	Height           int
	MaxPlayerUnits   int
	DeploymentPoints int
	TerrainCounts    map[engine.Terrain]int
	ImpassableTiles  int
	Coverage         []UnitCoverage
}

func main() {
	levelDir := "levels"
	if len(os.Args) > 1 {
		levelDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(levelDir, "*.json"))
	if err != nil || len(files) == 0 {
		fmt.Printf("No level files found in %s\n", levelDir)
		os.Exit(1)
	}

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))

		analysis, err := analyzeLevel(file)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		printAnalysis(analysis)
	}
}

// analyzeLevel loads one level and computes its summary
func analyzeLevel(path string) (*LevelAnalysis, error) {
	level, err := engine.LoadLevelConfig(path)
	if err != nil {
		return nil, err
	}

	state, err := engine.InitGameStateFromConfig(level)
	if err != nil {
		return nil, err
	}

	analysis := &LevelAnalysis{
		Name:             level.Name,
		Width:            level.Width,
		Height:           level.Height,
		MaxPlayerUnits:   level.MaxPlayerUnits,
		DeploymentPoints: len(level.DeploymentPoints),
		TerrainCounts:    make(map[engine.Terrain]int),
	}

	for y := 0; y < level.Height; y++ {
		for x := 0; x < level.Width; x++ {
			pos := engine.Position{X: x, Y: y}
			analysis.TerrainCounts[state.TerrainAt(pos)]++
			if state.TerrainCostAt(pos) >= engine.ImpassableCost {
				analysis.ImpassableTiles++
			}
		}
	}

	// Per-type coverage: expand from every deployment point at once on
	// the pre-placed board, treating the probe as a player unit.
	mover := engine.Mover{
		Faction: engine.PlayerFaction,
		Origins: append([]engine.Position(nil), level.DeploymentPoints...),
	}
	typeNames := make([]string, 0, len(level.UnitTypes))
	for name := range level.UnitTypes {
		typeNames = append(typeNames, name)
	}
	sort.Strings(typeNames)

	for _, name := range typeNames {
		unitType := level.UnitTypes[name]
		reachable, err := engine.ReachablePositions(
			state.Board,
			mover,
			unitType.Attributes.Movement,
			state.OccupantFactionAt,
			state.TerrainCostAt,
			state.Hostile,
		)
		if err != nil {
			return nil, fmt.Errorf("coverage for %q: %w", name, err)
		}

		analysis.Coverage = append(analysis.Coverage, UnitCoverage{
			TypeName:       name,
			Budget:         unitType.Attributes.Movement,
			ReachableTiles: len(reachable),
			Pinned:         len(reachable) <= len(mover.Origins),
		})
	}

	return analysis, nil
}

// printAnalysis renders one summary to stdout
func printAnalysis(a *LevelAnalysis) {
	fmt.Printf("Name: %s\n", a.Name)
	fmt.Printf("Board: %d x %d\n", a.Width, a.Height)
	fmt.Printf("Unit cap: %d\n", a.MaxPlayerUnits)
	fmt.Printf("Deployment points: %d\n", a.DeploymentPoints)

	terrains := make([]string, 0, len(a.TerrainCounts))
	for terrain := range a.TerrainCounts {
		terrains = append(terrains, string(terrain))
	}
	sort.Strings(terrains)
	fmt.Printf("Terrain:")
	for _, terrain := range terrains {
		fmt.Printf(" %s=%d", terrain, a.TerrainCounts[engine.Terrain(terrain)])
	}
	fmt.Println()

	total := a.Width * a.Height
	fmt.Printf("Impassable tiles: %d/%d\n", a.ImpassableTiles, total)

	for _, coverage := range a.Coverage {
		if coverage.Pinned {
			fmt.Printf("⚠️  %s (budget %d): cannot leave the deployment zone\n",
				coverage.TypeName, coverage.Budget)
			continue
		}
		fmt.Printf("✅ %s (budget %d): %d/%d tiles reachable from deployment\n",
			coverage.TypeName, coverage.Budget, coverage.ReachableTiles, total)
	}
}
