// Package service defines the application-facing API for running skirmish
// sessions.
//
// The GameService interface is the single entry point used by every
// transport (REST, WebSocket, MCP). It composes a SessionManager for
// session lifecycle and a LevelManager for level catalog access, and
// exposes the engine's command/snapshot cycle per session.
//
// All GameService methods are safe for concurrent use; the engine itself
// is single-threaded, so the service serializes access to each session's
// engine.
package service
