package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/gecko-puzzle/game/engine"
	"github.com/wricardo/gecko-puzzle/game/service"
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
		baseURL: strings.TrimSuffix(baseURL, "/"),
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
		"Gecko Puzzle",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Gecko Puzzle - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Drag the gecko onto goal zones of its own color before the level timer runs out.

AVAILABLE TOOLS:
- create_session: Create a game session (manual clock by default)
- list_sessions / get_session: Inspect sessions
- game_state: Current board, gecko and zones
- move: One tile step (up/down/left/right)
- bulk_move: Several steps at once
- drag: Drag the head by a pixel offset, as a player would
- wait: Advance a manual clock by some milliseconds
- restart: Start again from level one
- move_history: View past moves
- describe_cell: Inspect one tile
- list_configs: Available configurations
- game_instructions: Rules and scoring

NOTE: The 'intent' parameter on move tools serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func intentProperty(what string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Brief explanation of the intent behind " + what + " (serves as a rubber duck to help explain your reasoning)",
	}
}

var directionEnum = []string{"up", "down", "left", "right"}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the config to use (optional, see list_configs)",
				},
				"manual_clock": map[string]interface{}{
					"type":        "boolean",
					"description": "Freeze the level timer between calls so time only passes through 'wait' (default true)",
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
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state with a text map of the board",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the gecko's head one tile",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        directionEnum,
					"description": "Direction to move",
				},
				"intent": intentProperty("this move"),
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: fmt.Sprintf("Execute up to %d moves in sequence, stopping at the first rejected one", service.MaxBulkMoves),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"moves": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": directionEnum,
					},
					"description": "Array of moves",
				},
				"intent": intentProperty("this sequence of moves"),
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleBulkMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "drag",
		Description: "Press on the gecko's head and drag it by a pixel offset. Offsets under half a tile are ignored; the larger axis wins.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"dx": map[string]interface{}{
					"type":        "integer",
					"description": "Horizontal offset in pixels (positive is right)",
				},
				"dy": map[string]interface{}{
					"type":        "integer",
					"description": "Vertical offset in pixels (positive is down)",
				},
				"intent": intentProperty("this drag"),
			},
			Required: []string{"session_id", "dx", "dy"},
		},
	}, c.handleDrag)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "wait",
		Description: "Advance a manual-clock session by some milliseconds (timer ticks, flashes, level transitions)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"ms": map[string]interface{}{
					"type":        "integer",
					"description": "Milliseconds to advance",
				},
			},
			Required: []string{"session_id", "ms"},
		},
	}, c.handleWait)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "restart",
		Description: "Restart the game from level one",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleRestart)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
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
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Describe one tile: wall or path, which gecko segment occupies it and which goal zone covers it",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"col": map[string]interface{}{
					"type":        "integer",
					"description": "Column of the tile (0-based)",
				},
				"row": map[string]interface{}{
					"type":        "integer",
					"description": "Row of the tile (0-based)",
				},
			},
			Required: []string{"session_id", "col", "row"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
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

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads a JSON number argument
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configName, _ := args["config_name"].(string)
	manual := true
	if v, ok := args["manual_clock"].(bool); ok {
		manual = v
	}

	body := map[string]interface{}{"manual_clock": manual}
	if configName != "" {
		body["config_id"] = configName
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	clock := "live"
	if session.ManualClock {
		clock = "manual (use 'wait' to let time pass)"
	}
	result := fmt.Sprintf("Created session: %s\nConfig: %s\nClock: %s\n\n%s",
		session.ID, session.ConfigName, clock, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		score, level := 0, 0
		if s.GameState != nil {
			score, level = s.GameState.Score, s.GameState.Level
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Level: %d, Score: %d, Created: %s)\n",
			s.ID, s.ConfigName, level, score, s.CreatedAt.Format("15:04:05"))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var state service.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	direction, _ := args["direction"].(string)

	var result service.MoveResult
	body := map[string]interface{}{"direction": direction}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	movesRaw, _ := args["moves"].([]interface{})

	moves := make([]string, 0, len(movesRaw))
	for _, m := range movesRaw {
		if move, ok := m.(string); ok {
			moves = append(moves, move)
		}
	}

	var result service.BulkMoveResult
	body := map[string]interface{}{"moves": moves}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/bulk-move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatBulkMoveResult(sessionID, &result)), nil
}

func (c *Client) handleDrag(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	dx, _ := intArg(args, "dx")
	dy, _ := intArg(args, "dy")

	var result service.MoveResult
	body := map[string]int{"dx": dx, "dy": dy}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/drag"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleWait(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	ms, ok := intArg(args, "ms")
	if !ok {
		return mcp.NewToolResultError("ms is required"), nil
	}

	var state service.GameState
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/advance"), map[string]int{"ms": ms}, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Advanced %dms\n\n%s", ms, formatGameState(&state))), nil
}

func (c *Client) handleRestart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Message string             `json:"message"`
		State   *service.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/restart"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", fmt.Sprint(limit))
	}
	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		levels := fmt.Sprintf("%d levels", config.Levels)
		if config.Procedural {
			levels = "procedural levels"
		}
		fmt.Fprintf(&b, "• %s (%s)\n  %s\n  Grid: %dx%d, Gecko length: %d, %ds per level, %s\n\n",
			config.ConfigID, config.Name, config.Description,
			config.GridWidth, config.GridHeight, config.CreatureLength, config.LevelSeconds, levels)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Gecko Puzzle - Instructions

GAME OBJECTIVE:
Guide the gecko onto every goal zone of its color. Each level lasts a fixed
number of seconds; clear all zones before the timer reaches zero.

MOVEMENT:
• The gecko moves one tile at a time: up, down, left or right
• Its body follows the head; the tail cell is freed
• Walls (the border ring) block movement
• The head may not enter a body segment, except the segment right behind it:
  stepping there reverses the gecko (backtrack)
• 'drag' imitates a finger: offsets under half a tile do nothing and the
  larger axis decides the direction

SCORING:
• Covering a zone of the same color: +50, the zone disappears and the gecko
  takes the color of another remaining zone
• Touching a zone of another color: -10 once per contact (no repeated penalty
  while staying on it)
• Clearing all zones: +100 level bonus, then the next level starts

TIME:
• Sessions created by this interface use a manual clock: time passes only
  through 'wait'. Flashes and the level transition need a short wait too.
• When the timer hits zero the game is over; 'restart' begins again.

MAP LEGEND (game_state):
• # wall   . path
• @ gecko head   o gecko body
• r g b y p n  goal zones (red green blue yellow purple orange)

Good luck!`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	col, okCol := intArg(args, "col")
	row, okRow := intArg(args, "row")
	if !okCol || !okRow {
		return mcp.NewToolResultError("col and row are required"), nil
	}

	var info engine.CellInfo
	path := fmt.Sprintf("%s?col=%d&row=%d", sessionPath(sessionID, "/cell"), col, row)
	if err := c.apiCall(ctx, "GET", path, nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatCellInfo(&info)), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nManual clock: %v\nCreated: %s\n\n%s",
		session.ID, session.ConfigName, session.ManualClock,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *service.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Level: %d | Score: %d | Time: %ds | Phase: %s | Moves: %d\n",
		state.Level, state.Score, state.TimeRemaining, state.Phase, state.TotalMoves)

	if len(state.Creature) > 0 {
		head := state.Creature[0]
		fmt.Fprintf(&b, "Gecko: %s, head at %s, length %d\n",
			state.CreatureColor, formatCell(head, state.TileSize), len(state.Creature))
	}

	fmt.Fprintf(&b, "Zones left: %d\n", state.ZonesLeft)
	for _, z := range state.Zones {
		fmt.Fprintf(&b, "  - %s %s at %s\n", z.ID, z.Color, formatCell(z.Position, state.TileSize))
	}

	if len(state.PossibleMoves) > 0 {
		moves := make([]string, len(state.PossibleMoves))
		for i, d := range state.PossibleMoves {
			moves[i] = string(d)
		}
		fmt.Fprintf(&b, "Possible moves: %s\n", strings.Join(moves, ","))
	}

	if m := formatMap(state); m != "" {
		b.WriteString("\n")
		b.WriteString(m)
	}

	switch state.Phase {
	case engine.PhaseGameOver:
		b.WriteString("\nGAME OVER")
	case engine.PhaseLevelComplete:
		b.WriteString("\nLEVEL COMPLETE")
	}

	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", state.Message)
	}
	return b.String()
}

// formatCell renders a pixel position as its tile coordinate
func formatCell(p engine.Position, tileSize int) string {
	if tileSize <= 0 {
		return fmt.Sprintf("(%d,%d)px", p.X, p.Y)
	}
	return fmt.Sprintf("col %d row %d", p.X/tileSize, p.Y/tileSize)
}

var zoneLetters = map[engine.Color]byte{
	engine.Red:    'r',
	engine.Green:  'g',
	engine.Blue:   'b',
	engine.Yellow: 'y',
	engine.Purple: 'p',
	engine.Orange: 'n',
}

// formatMap draws the board as text, one character per tile
func formatMap(state *service.GameState) string {
	w, h, tile := state.GridWidth, state.GridHeight, state.TileSize
	if w <= 0 || h <= 0 || tile <= 0 {
		return ""
	}

	rows := make([][]byte, h)
	for y := range rows {
		rows[y] = make([]byte, w)
		for x := range rows[y] {
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				rows[y][x] = '#'
			} else {
				rows[y][x] = '.'
			}
		}
	}

	set := func(p engine.Position, ch byte) {
		col, row := p.X/tile, p.Y/tile
		if col >= 0 && col < w && row >= 0 && row < h {
			rows[row][col] = ch
		}
	}
	for _, z := range state.Zones {
		if ch, ok := zoneLetters[z.Color]; ok {
			set(z.Position, ch)
		}
	}
	for i := len(state.Creature) - 1; i >= 0; i-- {
		ch := byte('o')
		if i == 0 {
			ch = '@'
		}
		set(state.Creature[i], ch)
	}

	var b strings.Builder
	for _, row := range rows {
		b.Write(row)
		b.WriteByte('\n')
	}
	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	switch {
	case result.Success && result.Backtrack:
		b.WriteString("✓ Backtracked\n")
	case result.Success:
		b.WriteString("✓ Move successful\n")
	default:
		fmt.Fprintf(&b, "✗ Move failed (%s)\n", result.Reason)
	}

	if result.Success {
		fmt.Fprintf(&b, "Head: (%d,%d) → (%d,%d)\n", result.From.X, result.From.Y, result.To.X, result.To.Y)
	}
	if result.ScoreDelta != 0 {
		fmt.Fprintf(&b, "Score change: %+d\n", result.ScoreDelta)
	}
	for _, ev := range result.Collisions {
		b.WriteString(formatCollision(ev))
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatCollision(ev engine.CollisionEvent) string {
	if ev.Kind == engine.CollisionMatch {
		return fmt.Sprintf("- Matched %s zone %s (%+d)\n", ev.ZoneColor, ev.ZoneID, ev.ScoreDelta)
	}
	return fmt.Sprintf("- Touched %s zone %s with the wrong color (%+d)\n", ev.ZoneColor, ev.ZoneID, ev.ScoreDelta)
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder

	configName := ""
	if result.GameState != nil {
		configName = result.GameState.ConfigName
	}
	fmt.Fprintf(&b, "Session: %s • Config: %s\n", sessionID, configName)
	fmt.Fprintf(&b, "Executed %d/%d moves\n", result.MovesExecuted, result.RequestedMoves)
	if result.Truncated {
		fmt.Fprintf(&b, "Truncated to the first %d moves\n", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped on move %d: %s\n", result.StoppedOnMove, result.StoppedReason)
	}
	if result.ScoreDelta != 0 {
		fmt.Fprintf(&b, "Score change: %+d\n", result.ScoreDelta)
	}

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for _, s := range result.Steps {
			status := "✓"
			if !s.Success {
				status = "✗ " + string(s.Reason)
			} else if s.Backtrack {
				status = "✓ backtrack"
			}
			fmt.Fprintf(&b, "%d. %s (%d,%d)→(%d,%d) %s\n", s.Idx, s.Dir, s.From.X, s.From.Y, s.To.X, s.To.Y, status)
			for _, ev := range s.Collisions {
				b.WriteString("   ")
				b.WriteString(formatCollision(ev))
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d, Total: %d moves)\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		status := "✓"
		if !move.Success {
			status = "✗ " + string(move.Reason)
		} else if move.Backtrack {
			status = "✓ backtrack"
		}
		fmt.Fprintf(&b, "#%d: %s (%d,%d)→(%d,%d) level=%d score=%d %s\n",
			move.MoveNumber, move.Action,
			move.FromPosition.X, move.FromPosition.Y,
			move.ToPosition.X, move.ToPosition.Y,
			move.Level, move.Score, status)
	}

	if history.HasNext {
		b.WriteString("\n(More moves available on next page)")
	}
	return b.String()
}

func formatCellInfo(info *engine.CellInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cell col %d row %d (center %d,%d px)\n",
		info.Cell.Col, info.Cell.Row, info.Position.X, info.Position.Y)
	fmt.Fprintf(&b, "Tile: %s\n", info.Kind)

	switch {
	case info.Segment == 0:
		b.WriteString("Occupied by the gecko's head\n")
	case info.Segment > 0:
		fmt.Fprintf(&b, "Occupied by gecko segment %d\n", info.Segment)
	}
	if info.ZoneID != "" {
		fmt.Fprintf(&b, "Covered by %s zone %s\n", info.ZoneColor, info.ZoneID)
	}
	if info.Kind == engine.Wall {
		b.WriteString("Walls cannot be entered.")
	}
	return b.String()
}
