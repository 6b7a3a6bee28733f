package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mancala/game/engine"
	"github.com/wricardo/mancala/game/layout"
	"github.com/wricardo/mancala/game/service"
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
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Kalah",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Kalah - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Two players, A and B, each own six pits and a store. Player A's pits are
absolute indices 0-5 and A's store is 6; B's pits are 7-12 and B's store is 13.
Moves name one of the mover's own pits as 0-5, counted from the mover's left.

AVAILABLE TOOLS:
- create_session: Create a new game with an optional rule set
- list_sessions / get_session: Inspect sessions
- game_state: Board, player to move and legal pits
- play_pit: Sow one pit
- play_sequence: Sow several pits in order, stopping at the first problem
- reset_game: Restart from the initial board
- move_history: Past moves with pagination
- list_configs: Available rule sets
- game_instructions: Full rules
- describe_pit: Details for one absolute board index`),
	)

	c.registerTools()
}

func sessionProperty() map[string]any {
	return map[string]any{
		"type":        "string",
		"description": "Session ID",
	}
}

func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional rule set selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"config_id": map[string]any{
					"type":        "string",
					"description": "Rule set to use, e.g. kalah or kalah6 (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the board, the player to move and the legal pits",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "play_pit",
		Description: "Sow one of the current player's pits (0-5, own-row index)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionProperty(),
				"pit": map[string]any{
					"type":        "integer",
					"description": "Own-row pit index 0-5",
					"minimum":     0,
					"maximum":     engine.PitsPerSide - 1,
				},
				"reset": map[string]any{
					"type":        "boolean",
					"description": "Reset the game before playing",
				},
			},
			Required: []string{"session_id", "pit"},
		},
	}, c.handlePlayPit)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "play_sequence",
		Description: fmt.Sprintf("Sow several pits in order (max %d). Each entry is played by whoever is to move at that point.", engine.MaxBulkMoves),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionProperty(),
				"pits": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "integer", "minimum": 0, "maximum": engine.PitsPerSide - 1},
					"description": "Own-row pit indices",
				},
				"reset": map[string]any{
					"type":        "boolean",
					"description": "Reset the game before playing",
				},
			},
			Required: []string{"session_id", "pits"},
		},
	}, c.handlePlaySequence)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to its initial board",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history with pagination",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionProperty(),
				"page": map[string]any{
					"type":        "integer",
					"description": "Page number (default 1)",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Moves per page (default 20)",
				},
				"order": map[string]any{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Sort order (default desc)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available rule sets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete rules of Kalah and how pits are numbered",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_pit",
		Description: "Describe one absolute board index (0-13): owner, stones, opposite pit and where a sowing from it would end",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionProperty(),
				"index": map[string]any{
					"type":        "integer",
					"description": "Absolute board index 0-13",
					"minimum":     0,
					"maximum":     engine.BoardSize - 1,
				},
			},
			Required: []string{"session_id", "index"},
		},
	}, c.handleDescribePit)
}

// GetMCPServer returns the underlying MCP server
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body any, result any) error {
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

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// intArg reads a whole-number JSON argument; JSON numbers decode as float64
func intArg(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	}
	return 0, false
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nRules: %s\n", session.ID, session.ConfigName)
	if session.GameState != nil {
		result += "\n" + formatGameState(session.GameState)
	}
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
		status := "in progress"
		if s.GameState != nil && s.GameState.GameOver {
			status = "finished"
		}
		fmt.Fprintf(&b, "- %s (Rules: %s, %s, Created: %s)\n",
			s.ID, s.ConfigName, status, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := request.GetArguments()["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := request.GetArguments()["session_id"].(string)

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handlePlayPit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, _ := args["session_id"].(string)
	reset, _ := args["reset"].(bool)
	pit, ok := intArg(args, "pit")
	if !ok {
		return mcp.NewToolResultError("pit must be an integer between 0 and 5"), nil
	}

	body := map[string]any{
		"pit":   pit,
		"reset": reset,
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handlePlaySequence(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, _ := args["session_id"].(string)
	reset, _ := args["reset"].(bool)
	raw, _ := args["pits"].([]any)

	pits := make([]int, 0, len(raw))
	for i, v := range raw {
		n, ok := intArg(map[string]any{"pit": v}, "pit")
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("pits[%d] is not an integer", i)), nil
		}
		pits = append(pits, n)
	}
	if len(pits) == 0 {
		return mcp.NewToolResultError("pits must not be empty"), nil
	}

	body := map[string]any{
		"pits":  pits,
		"reset": reset,
	}

	var result service.BulkMoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/bulk-move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkMoveResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := request.GetArguments()["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := response.Message + "\n"
	if response.State != nil {
		result += "\n" + formatGameState(response.State)
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, _ := args["session_id"].(string)

	query := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		query.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		query.Set("limit", fmt.Sprint(limit))
	}
	if order, _ := args["order"].(string); order != "" {
		query.Set("order", order)
	}

	path := sessionPath(sessionID, "/history")
	if len(query) > 0 {
		path += "?" + query.Encode()
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
	b.WriteString("Available Rule Sets:\n\n")
	for _, cfg := range configs {
		capture := "standard capture"
		if cfg.CaptureEmptyOpposite {
			capture = "captures against empty pits"
		}
		fmt.Fprintf(&b, "- %s: %s (%d stones per pit, %s)\n", cfg.ConfigID, cfg.Name, cfg.StonesPerPit, capture)
		if cfg.Description != "" {
			fmt.Fprintf(&b, "  %s\n", cfg.Description)
		}
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Kalah - Complete Instructions

GAME OBJECTIVE:
Finish with more stones in your store than your opponent.

BOARD LAYOUT:
Fourteen positions in a fixed order. Sowing runs counter-clockwise through them.
  0-5   Player A's pits (left to right from A's side)
  6     Player A's store
  7-12  Player B's pits (left to right from B's side)
  13    Player B's store

        12  11  10   9   8   7
  [13]                          [6]
         0   1   2   3   4   5

Pit i is opposite pit 12-i. Moves use own-row numbers 0-5, so pit 2 means
absolute index 2 for A and absolute index 9 for B.

GAME MECHANICS:
- Sowing: lift every stone from the chosen pit and drop one into each following
  position, skipping the opponent's store.
- Extra turn: if the last stone lands in your own store you move again.
- Capture: if the last stone lands in an empty pit on your own row and the
  opposite pit holds stones, both go to your store. Some rule sets also
  capture when the opposite pit is empty.
- Empty pits: choosing an empty pit does nothing and the same player is still to move.

END OF GAME:
When either row is empty after a move, each player moves the stones left on
their row into their own store. The larger store wins; equal stores draw.

TOOLS:
- game_state shows the board and legal_moves (own-row numbers).
- play_pit sows one pit; play_sequence sows several and stops at the end of
  the game, on an invalid pit or on an empty pit.
- describe_pit explains any absolute index, including where its sowing ends.

Good luck!`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribePit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, _ := args["session_id"].(string)
	index, ok := intArg(args, "index")
	if !ok || index < 0 || index >= engine.BoardSize {
		return mcp.NewToolResultError(fmt.Sprintf("index must be an integer between 0 and %d", engine.BoardSize-1)), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(describePit(&state, index)), nil
}

// describePit explains one absolute index against a snapshot
func describePit(state *engine.GameState, index int) string {
	var b strings.Builder
	stones := state.Board[index]

	if engine.IsStore(index) {
		owner := engine.PlayerA
		if index == engine.StoreB {
			owner = engine.PlayerB
		}
		fmt.Fprintf(&b, "Index %d: store of player %s\n", index, owner)
		fmt.Fprintf(&b, "Stones: %d\n", stones)
		return b.String()
	}

	owner, _ := engine.Owner(index)
	row, _ := engine.RowIndex(owner, index)
	opp := engine.OppositeIndex(index)

	fmt.Fprintf(&b, "Index %d: player %s's pit %d\n", index, owner, row)
	fmt.Fprintf(&b, "Stones: %d\n", stones)
	fmt.Fprintf(&b, "Opposite: index %d with %d stones\n", opp, state.Board[opp])

	switch {
	case stones == 0:
		b.WriteString("Sowing: empty, choosing it does nothing\n")
	default:
		last := landingIndex(state.Board, index)
		fmt.Fprintf(&b, "Sowing: last stone lands on index %d", last)
		switch {
		case engine.IsOwnStore(last, owner):
			b.WriteString(" (own store, extra turn)")
		case stones < engine.BoardSize-1:
			if lastOwner, ok := engine.Owner(last); ok && lastOwner == owner && state.Board[last] == 0 {
				fmt.Fprintf(&b, " (empty own pit, opposite holds %d)", state.Board[engine.OppositeIndex(last)])
			}
		}
		b.WriteString("\n")
	}

	if !state.GameOver && owner == state.CurrentPlayer {
		if stones > 0 {
			fmt.Fprintf(&b, "Playable now as pit %d\n", row)
		}
	} else if !state.GameOver {
		b.WriteString("Not playable now: belongs to the player who is waiting\n")
	}

	return b.String()
}

// landingIndex follows a sowing from index without changing the board
func landingIndex(board engine.Board, index int) int {
	owner, _ := engine.Owner(index)
	pos := index
	for left := board[index]; left > 0; {
		pos = (pos + 1) % engine.BoardSize
		if engine.IsOpponentStore(pos, owner) {
			continue
		}
		left--
	}
	return pos
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	result := fmt.Sprintf("Session: %s\nRules: %s\nCreated: %s\nLast Accessed: %s\n",
		session.ID, session.ConfigName,
		session.CreatedAt.Format(time.RFC3339), session.LastAccessedAt.Format(time.RFC3339))
	if session.GameState != nil {
		result += "\n" + formatGameState(session.GameState)
	}
	return result
}

func formatGameState(state *engine.GameState) string {
	var b strings.Builder

	b.WriteString(layout.Render(layout.StateView(state)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Stores: A=%d B=%d\n", state.Board[engine.StoreA], state.Board[engine.StoreB])
	if state.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", state.Message)
	}
	if !state.GameOver {
		fmt.Fprintf(&b, "Legal pits for %s: %s\n", state.CurrentPlayer, formatPits(state.LegalMoves))
	}
	fmt.Fprintf(&b, "Moves this game: %d\n", state.CurrentMovesCount)

	return b.String()
}

func formatPits(pits []int) string {
	if len(pits) == 0 {
		return "none"
	}
	parts := make([]string, len(pits))
	for i, p := range pits {
		parts[i] = fmt.Sprint(p)
	}
	return strings.Join(parts, ", ")
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder

	switch {
	case result.NoOp:
		fmt.Fprintf(&b, "- No move made: %s\n", result.Message)
	case result.Success:
		b.WriteString("✓ Move successful\n")
		if result.Step != nil {
			fmt.Fprintf(&b, "Player %s sowed %d stones from pit %d, last stone on index %d\n",
				result.Step.Player, result.Step.Sown, result.Step.Pit, result.Step.LastIndex)
		}
		if result.ExtraTurn {
			b.WriteString("Extra turn!\n")
		}
		if result.Captured > 0 {
			fmt.Fprintf(&b, "Captured %d stones\n", result.Captured)
		}
		if result.Message != "" {
			fmt.Fprintf(&b, "%s\n", result.Message)
		}
	default:
		fmt.Fprintf(&b, "✗ Move failed: %s\n", result.Message)
	}

	if result.GameState != nil {
		b.WriteString("\n")
		b.WriteString(formatGameState(result.GameState))
	}

	return b.String()
}

func formatBulkMoveResult(result *service.BulkMoveResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Executed %d of %d moves\n", result.MovesExecuted, result.RequestedMoves)
	if result.Truncated {
		fmt.Fprintf(&b, "Sequence truncated to %d moves\n", result.Limit)
	}
	if result.StopReasonCode != "" {
		fmt.Fprintf(&b, "Stopped on move %d (%s): %s\n", result.StoppedOnMove, result.StopReasonCode, result.StoppedReason)
	}

	for _, step := range result.Steps {
		line := fmt.Sprintf("%d. %s pit %d: sowed %d, last on %d, store %d->%d",
			step.Idx, step.Player, step.Pit, step.Sown, step.LastIndex, step.StoreBefore, step.StoreAfter)
		if step.ExtraTurn {
			line += ", extra turn"
		}
		if step.Captured > 0 {
			line += fmt.Sprintf(", captured %d", step.Captured)
		}
		b.WriteString(line + "\n")
	}

	if len(result.StoreDelta) > 0 {
		fmt.Fprintf(&b, "Store change: A %+d, B %+d\n", result.StoreDelta[engine.PlayerA], result.StoreDelta[engine.PlayerB])
	}
	if result.GameOver {
		fmt.Fprintf(&b, "Game over, winner: %s\n", result.Winner)
	}

	if result.GameState != nil {
		b.WriteString("\n")
		b.WriteString(formatGameState(result.GameState))
	}

	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Move History (page %d of %d, %d total moves):\n\n", history.Page, history.TotalPages, history.TotalMoves)
	for _, m := range history.Moves {
		line := fmt.Sprintf("#%d %s pit %d: sowed %d, last on %d", m.MoveNumber, m.Player, m.Pit, m.Sown, m.LastIndex)
		if m.ExtraTurn {
			line += ", extra turn"
		}
		if m.Captured > 0 {
			line += fmt.Sprintf(", captured %d", m.Captured)
		}
		b.WriteString(line + "\n")
	}

	if history.HasNext {
		fmt.Fprintf(&b, "\nMore moves on page %d\n", history.Page+1)
	}

	return b.String()
}
