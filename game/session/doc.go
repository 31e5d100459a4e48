// Package session manages game session lifecycle and persistence.
//
// The Manager keeps live sessions in memory under short case-insensitive
// IDs and optionally writes them through to a SessionPersistence backend.
// Two backends are provided: FilePersistence stores one JSON file per
// session, SQLitePersistence stores sessions in a single SQLite database.
//
// Sessions not found in memory are transparently loaded from the backend,
// so a server restart does not lose running games.
package session
