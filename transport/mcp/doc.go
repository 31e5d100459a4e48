// Package mcp provides the Model Context Protocol interface to the game.
//
// The package is a thin client: every tool call is proxied to the REST
// API server, so MCP agents and WebSocket viewers always observe the
// same session state.
//
// MCP Tools:
//
//   - create_session: Create a new game session with level selection
//   - get_session: Get specific session details
//   - list_sessions: List all active sessions
//   - battlefield: Render the board with terrain, units and movement range
//   - deploy_unit: Place a new unit on a deployment point
//   - undeploy_unit: Remove a friendly unit from a deployment point
//   - select_unit: Select a unit and compute its movement range
//   - move_unit: Move the selected unit to a reachable tile
//   - cancel: Clear the current selection
//   - reachable: Inspect any friendly unit's movement range
//   - describe_tile: Detailed info about one tile
//   - command_history: Retrieve command history with pagination
//   - list_levels: List available levels
//   - game_instructions: Full rules and board legend
//
// Rejected commands are reported as successful tool calls carrying the
// rejection reason, mirroring the REST contract; only transport failures
// become tool errors.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
