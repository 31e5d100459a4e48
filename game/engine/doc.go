// Package engine provides the core tactical logic for the Skirmish game.
//
// The engine package implements:
//   - Grid geometry: bounds checking and directional stepping
//   - The occupancy index: a bidirectional position <-> occupant mapping
//   - Budget-constrained reachability (uniform-cost search with terrain
//     costs and faction-aware blocking)
//   - The authoritative game state store (tiles, units, objects)
//   - The command processor that validates and applies player intents
//   - The snapshot builder that projects state into a display-ready view
//
// Core Types:
//
// GameState is the authoritative mutable world. Command describes one
// externally issued intent (select, move, deploy, undeploy, cancel) and is
// applied by a Processor, one command at a time. Snapshot is the read-only
// projection rebuilt after every applied command. LevelConfig defines a
// level loaded from JSON files.
//
// Usage:
//
//	level, err := engine.LoadLevelConfig("levels/crossing.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	eng, err := engine.NewEngine(level)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	snap, err := eng.Apply(engine.Command{
//		Type: engine.CommandSelectUnit,
//		Pos:  &engine.Position{X: 2, Y: 2},
//	})
//
// Concurrency:
//
// The engine is single-threaded by design. Commands are applied one at a
// time to completion; callers that share an Engine across goroutines must
// serialize access (the session layer does this).
package engine
