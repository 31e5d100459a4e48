// Package config provides level catalog management.
//
// Levels are stored as JSON files in the levels directory. The Manager
// loads them on demand, validates them through the engine, and caches the
// parsed result. A default level is resolved at startup so a session can
// always be created without naming a level.
//
// Usage:
//
//	manager, err := config.NewManager("levels")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	level, err := manager.LoadLevel("crossing")
//	levels, err := manager.ListLevels()
//	def := manager.GetDefault()
package config
