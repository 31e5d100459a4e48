package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/skirmishlab/skirmish/game/engine"
	"github.com/skirmishlab/skirmish/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Skirmish Tactics",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Skirmish Tactics - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME LOOP:
Deploy units on deployment points (+), select a unit to see its movement
range, then move it. Movement spends a per-unit budget against terrain
costs; a plain tile costs 10.

AVAILABLE TOOLS:
- create_session: Create a new game session
- get_session: Get session details
- list_sessions: List all active sessions
- battlefield: Render the current board state
- deploy_unit: Place a new unit on a deployment point
- undeploy_unit: Remove a friendly unit from a deployment point
- select_unit: Select a unit and compute its movement range
- move_unit: Move the selected unit to a reachable tile
- cancel: Clear the current selection
- reachable: Inspect the movement range of any friendly unit
- describe_tile: Get detailed info about one tile
- command_history: View past commands
- list_levels: List available levels
- game_instructions: Get comprehensive game rules

NOTE: Rejected commands are normal gameplay, not errors. The response
always carries the rejection reason and the unchanged board.`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	sessionProp := map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
	xProp := map[string]interface{}{
		"type":        "integer",
		"description": "X coordinate (column, 0-based)",
	}
	yProp := map[string]interface{}{
		"type":        "integer",
		"description": "Y coordinate (row, 0-based)",
	}

	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional level selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"level_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the level to play (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp,
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "battlefield",
		Description: "Render the current board state with terrain, units and movement range",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp,
			},
			Required: []string{"session_id"},
		},
	}, c.handleBattlefield)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "deploy_unit",
		Description: "Place a new player unit of the given type on a deployment point",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp,
				"x":          xProp,
				"y":          yProp,
				"unit_type": map[string]interface{}{
					"type":        "string",
					"description": "Unit type name from the level's roster (e.g. soldier)",
				},
			},
			Required: []string{"session_id", "x", "y", "unit_type"},
		},
	}, c.handleDeployUnit)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "undeploy_unit",
		Description: "Remove a friendly unit standing on a deployment point",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp,
				"x":          xProp,
				"y":          yProp,
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleUndeployUnit)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "select_unit",
		Description: "Select the friendly unit at a position and compute its movement range",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp,
				"x":          xProp,
				"y":          yProp,
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleSelectUnit)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_unit",
		Description: "Move the selected unit to a target tile. The target must be inside the movement range shown after selecting; an adjacent tile can still be out of range when the unit's budget is below the terrain cost.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp,
				"x":          xProp,
				"y":          yProp,
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleMoveUnit)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "cancel",
		Description: "Clear the current selection and return to idle",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp,
			},
			Required: []string{"session_id"},
		},
	}, c.handleCancel)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reachable",
		Description: "Compute the movement range of the friendly unit at a position without selecting it",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp,
				"x":          xProp,
				"y":          yProp,
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleReachable)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_tile",
		Description: "Get detailed information about one tile: terrain, movement cost, occupants, deployability and whether it is in the current movement range",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp,
				"x":          xProp,
				"y":          yProp,
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeTile)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "command_history",
		Description: "Get command history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp,
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleCommandHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_levels",
		Description: "List available levels",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListLevels)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game rules and the board legend",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// applyCommand posts one command and formats the result
func (c *Client) applyCommand(sessionID string, cmd engine.Command) (*mcp.CallToolResult, error) {
	var result service.CommandResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/command", sessionID), cmd, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCommandResult(&result)), nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	levelID, _ := args["level_id"].(string)

	body := map[string]string{}
	if levelID != "" {
		body["level_id"] = levelID
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nLevel: %s\n\n%s",
		session.ID, session.LevelName, formatSnapshot(session.Snapshot))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Level: %s, Created: %s)\n",
			s.ID, s.LevelName, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleBattlefield(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var snapshot engine.Snapshot
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/snapshot", sessionID), nil, &snapshot)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSnapshot(&snapshot)), nil
}

func (c *Client) handleDeployUnit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	unitType, _ := args["unit_type"].(string)
	pos, err := positionArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return c.applyCommand(sessionID, engine.Command{
		Type:     engine.CommandDeployUnit,
		Pos:      pos,
		UnitType: unitType,
	})
}

func (c *Client) handleUndeployUnit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	pos, err := positionArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return c.applyCommand(sessionID, engine.Command{
		Type: engine.CommandUndeployUnit,
		Pos:  pos,
	})
}

func (c *Client) handleSelectUnit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	pos, err := positionArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return c.applyCommand(sessionID, engine.Command{
		Type: engine.CommandSelectUnit,
		Pos:  pos,
	})
}

func (c *Client) handleMoveUnit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	intent, _ := args["intent"].(string)
	target, err := positionArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	return c.applyCommand(sessionID, engine.Command{
		Type:   engine.CommandMoveUnit,
		Target: target,
	})
}

func (c *Client) handleCancel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	return c.applyCommand(sessionID, engine.Command{Type: engine.CommandCancel})
}

func (c *Client) handleReachable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	pos, err := positionArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.ReachableResult
	err = c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/reachable?x=%d&y=%d", sessionID, pos.X, pos.Y), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatReachableResult(&result)), nil
}

func (c *Client) handleDescribeTile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	pos, err := positionArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var snapshot engine.Snapshot
	err = c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/snapshot", sessionID), nil, &snapshot)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if pos.X < 0 || pos.X >= snapshot.Board.Width || pos.Y < 0 || pos.Y >= snapshot.Board.Height {
		return mcp.NewToolResultError(fmt.Sprintf("Coordinates (%d, %d) are out of bounds. Board size is %dx%d",
			pos.X, pos.Y, snapshot.Board.Width, snapshot.Board.Height)), nil
	}

	return mcp.NewToolResultText(formatTile(&snapshot, *pos)), nil
}

func (c *Client) handleCommandHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	params := "?"
	if page, ok := args["page"].(float64); ok {
		params += fmt.Sprintf("page=%d&", int(page))
	}
	if limit, ok := args["limit"].(float64); ok {
		params += fmt.Sprintf("limit=%d&", int(limit))
	}

	var history service.HistoryResponse
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/history%s", sessionID, params), nil, &history)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListLevels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var levels []service.LevelInfo
	err := c.apiCall("GET", "/api/levels", nil, &levels)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Levels:\n\n"
	for _, level := range levels {
		result += fmt.Sprintf("• %s — %s\n  %s\n  Board: %dx%d, Unit cap: %d\n\n",
			level.LevelID, level.Name, level.Description,
			level.Width, level.Height, level.MaxPlayerUnits)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Skirmish Tactics - Complete Rules

GAME LOOP:
Deploy units on deployment points, select a unit to compute its movement
range, then move it anywhere inside that range. One command at a time.

BOARD LEGEND:
• . - Plain (cost 10)
• h - Hill (cost 13)
• f - Forest (cost 13)
• M - Mountain (cost 20)
• s - Shallow water (cost 17)
• w - Deep water (IMPASSABLE)
• + - Deployment point (empty)
• U - Player unit
• E - Enemy unit
• O - Object (blocks movement)
• @ - Selected unit
• * - Tile inside the selected unit's movement range

MOVEMENT RULES:
• Each unit has a movement budget in terrain-cost units. A budget of 30
  crosses three plain tiles, or two hills with 4 left over.
• Entering a tile costs that tile's terrain cost. Costs accumulate along
  the path; the engine always finds the cheapest path.
• Deep water and objects can never be entered. Tiles holding hostile
  units block pathing; friendly units can be moved through but not
  stopped on.
• IMPORTANT: adjacency does not guarantee reachability. A unit whose
  budget is below the terrain cost of a neighbouring tile cannot enter
  it, even from one tile away.

COMMAND FLOW:
• deploy_unit: only on an empty deployment point, only while idle, only
  below the level's unit cap, only with a type from the level's roster.
• select_unit: selecting a friendly unit moves the session to the
  awaiting-target phase and shows the movement range. Selecting an empty
  tile is a no-op; selecting an enemy clears any selection.
• move_unit: the target must be inside the shown range and not occupied.
  A rejected move keeps the selection so you can pick another target.
• cancel: clears the selection from any phase.
• undeploy_unit: removes a friendly unit standing on a deployment point.

REJECTIONS:
Rejected commands are part of normal play. The response always names the
reason (for example not_a_deployment_point, target_unreachable,
position_occupied) and returns the unchanged board. Read the reason,
adjust, retry.

STRATEGY NOTES FOR AI AGENTS:
• Use reachable or select_unit before every move; never assume a tile is
  in range from visual distance alone.
• Use describe_tile when terrain characters are ambiguous; s (shallow,
  passable at cost 17) and w (deep, impassable) are easy to confuse.
• Terrain cost differences matter: a detour over plains is often cheaper
  than a direct line over mountains.

SESSION MANAGEMENT:
• Multiple sessions can run simultaneously, each with independent state.
• Session IDs are 4 characters and case-insensitive.`

	return mcp.NewToolResultText(instructions), nil
}

// positionArg extracts the x/y pair every board-targeting tool carries
func positionArg(args map[string]interface{}) (*engine.Position, error) {
	x, okX := args["x"].(float64)
	y, okY := args["y"].(float64)
	if !okX || !okY {
		return nil, fmt.Errorf("x and y integer arguments are required")
	}
	return &engine.Position{X: int(x), Y: int(y)}, nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nLevel: %s\nCreated: %s\n\n%s",
		session.ID, session.LevelName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatSnapshot(session.Snapshot))
}

func formatSnapshot(snapshot *engine.Snapshot) string {
	if snapshot == nil {
		return "No snapshot available"
	}

	var result strings.Builder

	result.WriteString(fmt.Sprintf("Level: %s | Phase: %s | Deployed: %d/%d | Commands: %d\n",
		snapshot.LevelName, snapshot.Phase,
		snapshot.DeployedCount, snapshot.MaxPlayerUnits, snapshot.TotalCommands))

	if snapshot.Selected != nil {
		s := snapshot.Selected
		result.WriteString(fmt.Sprintf("Selected: %s #%d at (%d,%d) | HP: %d%% | Budget: %d | In range: %d tiles\n",
			s.TypeName, s.ID, s.Pos.X, s.Pos.Y, s.HPPercent, s.Attributes.Movement, len(snapshot.Reachable)))
	}
	result.WriteString("\n")

	for y := 0; y < snapshot.Board.Height; y++ {
		for x := 0; x < snapshot.Board.Width; x++ {
			result.WriteString(tileChar(snapshot, engine.Position{X: x, Y: y}))
		}
		result.WriteString("\n")
	}

	if snapshot.Message != "" {
		result.WriteString(fmt.Sprintf("\nMessage: %s", snapshot.Message))
	}

	return result.String()
}

// tileChar maps one tile to its single-character display form. Occupants
// win over range markers, range markers over deployment points, those
// over bare terrain.
func tileChar(snapshot *engine.Snapshot, pos engine.Position) string {
	tile := snapshot.Tiles[pos.Y][pos.X]

	if snapshot.Selected != nil && snapshot.Selected.Pos == pos {
		return "@"
	}

	for _, o := range tile.Occupants {
		switch o.Kind {
		case engine.OccupantUnit:
			if o.Faction != nil && *o.Faction == engine.PlayerFaction {
				return "U"
			}
			return "E"
		case engine.OccupantObject:
			return "O"
		}
	}

	if tile.ReachableCost != nil {
		return "*"
	}
	if tile.Deployable {
		return "+"
	}

	return terrainChar(tile.Terrain)
}

func terrainChar(terrain engine.Terrain) string {
	switch terrain {
	case engine.Plain:
		return "."
	case engine.Hill:
		return "h"
	case engine.Forest:
		return "f"
	case engine.Mountain:
		return "M"
	case engine.ShallowWater:
		return "s"
	case engine.DeepWater:
		return "w"
	default:
		return "?"
	}
}

func formatCommandResult(result *service.CommandResult) string {
	var b strings.Builder

	if result.Applied {
		b.WriteString("✓ Command applied\n")
	} else {
		b.WriteString("✗ Command rejected\n")
		if result.Reason != "" {
			b.WriteString(fmt.Sprintf("Reason: %s\n", result.Reason))
		}
		if result.Error != "" {
			b.WriteString(fmt.Sprintf("Detail: %s\n", result.Error))
		}
	}
	if result.Message != "" {
		b.WriteString(fmt.Sprintf("Message: %s\n", result.Message))
	}

	b.WriteString("\n")
	b.WriteString(formatSnapshot(result.Snapshot))
	return b.String()
}

func formatReachableResult(result *service.ReachableResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Unit: %s #%d at (%d,%d) | Budget: %d\n",
		result.TypeName, result.UnitID, result.Pos.X, result.Pos.Y, result.Budget))
	b.WriteString(fmt.Sprintf("Reachable tiles (%d):\n", len(result.Tiles)))

	for _, tile := range result.Tiles {
		line := fmt.Sprintf("- (%d,%d) cost=%d", tile.Pos.X, tile.Pos.Y, tile.Cost)
		if tile.Pos != result.Pos {
			line += fmt.Sprintf(" via (%d,%d)", tile.From.X, tile.From.Y)
		}
		b.WriteString(line + "\n")
	}

	return b.String()
}

func formatTile(snapshot *engine.Snapshot, pos engine.Position) string {
	tile := snapshot.Tiles[pos.Y][pos.X]

	passable := tile.MoveCost < engine.ImpassableCost
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Tile at (%d, %d):\n", pos.X, pos.Y))
	b.WriteString(fmt.Sprintf("Terrain: %s\n", tile.Terrain))
	b.WriteString(fmt.Sprintf("Move cost: %d\n", tile.MoveCost))
	b.WriteString(fmt.Sprintf("Passable: %v\n", passable))
	b.WriteString(fmt.Sprintf("Deployment point: %v\n", tile.Deployable))

	if len(tile.Occupants) == 0 {
		b.WriteString("Occupants: none\n")
	} else {
		b.WriteString("Occupants:\n")
		for _, o := range tile.Occupants {
			switch o.Kind {
			case engine.OccupantUnit:
				faction := "unknown"
				if o.Faction != nil {
					if *o.Faction == engine.PlayerFaction {
						faction = "player"
					} else {
						faction = fmt.Sprintf("faction %d", *o.Faction)
					}
				}
				hp := 0
				if o.HPPercent != nil {
					hp = *o.HPPercent
				}
				b.WriteString(fmt.Sprintf("- unit #%d %s (%s, HP %d%%)\n", o.ID, o.TypeName, faction, hp))
			case engine.OccupantObject:
				b.WriteString(fmt.Sprintf("- object #%d %s (blocks movement)\n", o.ID, o.TypeName))
			}
		}
	}

	if tile.ReachableCost != nil {
		b.WriteString(fmt.Sprintf("In movement range: yes (cost %d)\n", *tile.ReachableCost))
	} else if snapshot.Selected != nil {
		b.WriteString("In movement range: no\n")
	}

	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Command History (Page %d/%d) — Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalCommands))

	for _, record := range history.Commands {
		status := "✓"
		if !record.Applied {
			status = "✗"
		}
		line := fmt.Sprintf("%d. %s %s", record.Seq, record.Command.Type, status)
		if record.Command.Pos != nil {
			line += fmt.Sprintf(" pos=(%d,%d)", record.Command.Pos.X, record.Command.Pos.Y)
		}
		if record.Command.Target != nil {
			line += fmt.Sprintf(" target=(%d,%d)", record.Command.Target.X, record.Command.Target.Y)
		}
		if record.Command.UnitType != "" {
			line += fmt.Sprintf(" type=%s", record.Command.UnitType)
		}
		if record.Error != "" {
			line += fmt.Sprintf(" [%s]", record.Error)
		}
		b.WriteString(line + "\n")
	}

	return b.String()
}
