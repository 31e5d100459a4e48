// Command validate provides a small CLI that validates level JSON files
// in the ../levels directory. It checks:
//   - JSON structure against an embedded JSON Schema
//   - Level semantics (board dimensions, layout, legend, factions,
//     deployment points, unit types, placements)
//   - Connectivity: every deployment point and pre-placed unit sits on a
//     passable tile reachable from the first deployment point
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/skirmishlab/skirmish/game/engine"
)

// levelSchema is the structural contract for level files. Semantic rules
// (board bounds, legend membership, faction references) live in the
// engine validator; the schema only rejects malformed documents early
// with a precise path.
const levelSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["name", "width", "height", "layout", "max_player_units", "deployment_points", "factions", "unit_types"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "width": {"type": "integer", "minimum": 2, "maximum": 64},
    "height": {"type": "integer", "minimum": 2, "maximum": 64},
    "layout": {
      "type": "array",
      "minItems": 2,
      "items": {"type": "string"}
    },
    "legend": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    },
    "max_player_units": {"type": "integer", "minimum": 1},
    "deployment_points": {
      "type": "array",
      "minItems": 1,
      "items": {"$ref": "#/$defs/position"}
    },
    "factions": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id"],
        "properties": {
          "id": {"type": "integer", "minimum": 0},
          "name": {"type": "string"},
          "hostile_to": {"type": "array", "items": {"type": "integer", "minimum": 0}}
        }
      }
    },
    "unit_types": {
      "type": "object",
      "minProperties": 1,
      "additionalProperties": {
        "type": "object",
        "required": ["attributes"],
        "properties": {
          "name": {"type": "string"},
          "attributes": {
            "type": "object",
            "required": ["max_hp"],
            "properties": {
              "max_hp": {"type": "integer", "minimum": 1},
              "movement": {"type": "integer", "minimum": 0}
            }
          }
        }
      }
    },
    "object_types": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "impassable": {"type": "boolean"},
          "move_cost": {"type": "integer", "minimum": 0}
        }
      }
    },
    "units": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["unit_type", "faction_id", "pos"],
        "properties": {
          "unit_type": {"type": "string", "minLength": 1},
          "faction_id": {"type": "integer", "minimum": 0},
          "pos": {"$ref": "#/$defs/position"}
        }
      }
    },
    "objects": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["object_type", "pos"],
        "properties": {
          "object_type": {"type": "string", "minLength": 1},
          "pos": {"$ref": "#/$defs/position"}
        }
      }
    }
  },
  "$defs": {
    "position": {
      "type": "object",
      "required": ["x", "y"],
      "properties": {
        "x": {"type": "integer", "minimum": 0},
        "y": {"type": "integer", "minimum": 0}
      }
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString("level.schema.json", levelSchema)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateLevel loads and validates a single level JSON file. It runs
// the schema pass, the engine's semantic validator, and a connectivity
// analysis over the terrain.
func validateLevel(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var document interface{}
	if err := json.Unmarshal(data, &document); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if err := compiledSchema.Validate(document); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, schemaErrors(err)...)
		return result
	}

	var level engine.LevelConfig
	if err := json.Unmarshal(data, &level); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to decode level: %v", err))
		return result
	}

	if err := engine.ValidateLevelConfig(&level); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	connectivity := validateConnectivity(&level)
	if !connectivity.Valid {
		result.Valid = false
	}
	result.Errors = append(result.Errors, connectivity.Errors...)

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", level.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Board: %dx%d", level.Width, level.Height))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Deployment points: %d", len(level.DeploymentPoints)))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Factions: %d", len(level.Factions)))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Unit types: %d", len(level.UnitTypes)))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Unit cap: %d", level.MaxPlayerUnits))
	}

	return result
}

// schemaErrors flattens a jsonschema validation error into one line per
// leaf failure
func schemaErrors(err error) []string {
	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{fmt.Sprintf("Schema validation failed: %v", err)}
	}

	var lines []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			location := e.InstanceLocation
			if location == "" {
				location = "/"
			}
			lines = append(lines, fmt.Sprintf("Schema violation at %s: %s", location, e.Message))
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(validationErr)
	return lines
}

// validateConnectivity checks every deployment point and pre-placed unit
// against a flood fill from the first deployment point. Movement uses
// 4-directional adjacency over passable terrain; impassable objects
// block their tile.
func validateConnectivity(level *engine.LevelConfig) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	state, err := engine.InitGameStateFromConfig(level)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot build state for connectivity test: %v", err))
		return result
	}

	passable := func(pos engine.Position) bool {
		return state.TerrainCostAt(pos) < engine.ImpassableCost
	}

	// Deployment points must be usable at all
	for _, pos := range state.DeploymentPoints {
		if !passable(pos) {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("Deployment point (%d,%d) sits on impassable terrain", pos.X, pos.Y))
		}
	}
	if !result.Valid {
		return result
	}

	// Flood fill from the first deployment point
	visited := make(map[engine.Position]bool)
	queue := []engine.Position{state.DeploymentPoints[0]}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true

		for _, dir := range engine.Directions {
			neighbor, ok := engine.StepInDirection(state.Board, current, dir)
			if ok && !visited[neighbor] && passable(neighbor) {
				queue = append(queue, neighbor)
			}
		}
	}

	unreachable := []string{}
	for _, pos := range state.DeploymentPoints {
		if !visited[pos] {
			unreachable = append(unreachable, fmt.Sprintf("Deployment point at (%d,%d)", pos.X, pos.Y))
		}
	}
	for _, placement := range level.Units {
		if !visited[placement.Pos] {
			unreachable = append(unreachable, fmt.Sprintf("Pre-placed %s at (%d,%d)", placement.UnitType, placement.Pos.X, placement.Pos.Y))
		}
	}

	if len(unreachable) > 0 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Connectivity failure: %d positions cut off from the deployment zone", len(unreachable)))
		for _, entry := range unreachable {
			result.Errors = append(result.Errors, fmt.Sprintf("Unreachable: %s", entry))
		}
	} else {
		checked := len(state.DeploymentPoints) + len(level.Units)
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Connectivity: all %d checked positions share one region", checked))
	}

	return result
}

// main scans the levels directory for *.json files and validates each
// one, printing a concise report and exiting with non-zero status if any
// are invalid.
func main() {
	levelDir := "../levels"
	if len(os.Args) > 1 {
		levelDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(levelDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding level files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No level files found in %s\n", levelDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateLevel(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All levels are valid!")
	} else {
		fmt.Println("❌ Some levels have errors")
		os.Exit(1)
	}
}
