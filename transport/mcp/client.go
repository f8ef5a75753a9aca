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

	"github.com/wricardo/mcp-training/rivercrossing/game/engine"
	"github.com/wricardo/mcp-training/rivercrossing/game/service"
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
			Timeout: 30 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"River Crossing Solver",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`River Crossing Solver - MCP Interface

This is a thin client that proxies all requests to the REST API server.

PUZZLE:
An operator (the farmer) ferries entities across a river. The boat carries the
operator plus at most one companion. A bank without the operator must never
hold two members of the same conflict group.

AVAILABLE TOOLS:
- list_configs: List available puzzles
- describe_puzzle: Show the entities, moves and conflicts of a puzzle
- solve: Solve a puzzle with bfs, dfs or astar and return every crossing
- compare_strategies: Solve a puzzle with all three strategies side by side
- create_session: Solve a puzzle and open a step-by-step replay
- get_session: Get a replay session and its current step
- step: Move a replay forward or backward
- reset_replay: Rewind a replay to the start
- list_sessions: List replay sessions

BFS and A* return shortest solutions. DFS returns a valid solution that may be longer.`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]any {
	return map[string]any{
		"type":        "string",
		"description": "Session ID",
	}
}

func configIDProperty(desc string) map[string]any {
	return map[string]any{
		"type":        "string",
		"description": desc,
	}
}

func strategyProperty() map[string]any {
	return map[string]any{
		"type":        "string",
		"enum":        []string{"bfs", "dfs", "astar"},
		"description": "Search strategy (default astar)",
	}
}

func heuristicProperty() map[string]any {
	return map[string]any{
		"type":        "string",
		"enum":        []string{engine.HeuristicRemaining, engine.HeuristicHalf, engine.HeuristicZero},
		"description": "A* heuristic (default: the puzzle's own, then remaining)",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Puzzles
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available puzzle configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_puzzle",
		Description: "Describe the entities, allowed crossings and conflicts of a puzzle",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"config_id": configIDProperty("Puzzle config ID (optional, defaults to classic)"),
			},
		},
	}, c.handleDescribePuzzle)

	// Solving
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "solve",
		Description: "Solve a puzzle and list every crossing of the solution",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"config_id": configIDProperty("Puzzle config ID (optional)"),
				"strategy":  strategyProperty(),
				"heuristic": heuristicProperty(),
				"max_expansions": map[string]any{
					"type":        "integer",
					"description": "Stop after this many expanded states (optional)",
				},
			},
		},
	}, c.handleSolve)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "compare_strategies",
		Description: "Solve a puzzle with BFS, DFS and A* and compare cost and effort",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"config_id": configIDProperty("Puzzle config ID"),
			},
			Required: []string{"config_id"},
		},
	}, c.handleCompare)

	// Replay sessions
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Solve a puzzle and open a replay session positioned at the start state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"config_id": configIDProperty("Puzzle config ID (optional)"),
				"strategy":  strategyProperty(),
				"heuristic": heuristicProperty(),
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a replay session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "step",
		Description: "Move a replay cursor by delta crossings (negative steps back)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionIDProperty(),
				"delta": map[string]any{
					"type":        "integer",
					"description": "Crossings to advance (default 1)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleStep)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_replay",
		Description: "Rewind a replay to the start state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all replay sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleListSessions)
}

// GetMCPServer returns the underlying MCP server for serving
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
		var errResp struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// arguments returns the tool arguments as a map
func arguments(request mcp.CallToolRequest) map[string]any {
	args, _ := request.Params.Arguments.(map[string]any)
	if args == nil {
		return map[string]any{}
	}
	return args
}

// intArg reads an integer argument; JSON numbers arrive as float64
func intArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	}
	return def
}

func solveBody(args map[string]any) map[string]any {
	body := map[string]any{}
	for _, key := range []string{"config_id", "strategy", "heuristic"} {
		if v, _ := args[key].(string); v != "" {
			body[key] = v
		}
	}
	return body
}

// Puzzle handlers

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []*service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatConfigs(configs)), nil
}

func (c *Client) handleDescribePuzzle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	configID, _ := arguments(request)["config_id"].(string)
	if configID == "" {
		configID = "classic"
	}

	var cfg engine.PuzzleConfig
	if err := c.apiCall(ctx, "GET", "/api/configs/"+url.PathEscape(configID), nil, &cfg); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatPuzzle(&cfg)), nil
}

// Solve handlers

func (c *Client) handleSolve(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	body := solveBody(args)
	if n := intArg(args, "max_expansions", 0); n > 0 {
		body["max_expansions"] = n
	}

	var sol solutionView
	if err := c.apiCall(ctx, "POST", "/api/solve", body, &sol); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSolution(&sol)), nil
}

func (c *Client) handleCompare(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	configID, _ := arguments(request)["config_id"].(string)
	if configID == "" {
		return mcp.NewToolResultError("config_id is required"), nil
	}

	var cmp comparisonView
	path := fmt.Sprintf("/api/configs/%s/compare", url.PathEscape(configID))
	if err := c.apiCall(ctx, "GET", path, nil, &cmp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatComparison(&cmp)), nil
}

// Session handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", solveBody(arguments(request)), &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n", session.ID, session.ConfigName)
	return mcp.NewToolResultText(result + formatSessionInfo(&session)), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", "/api/sessions/"+url.PathEscape(sessionID), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleStep(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	body := map[string]int{"delta": intArg(args, "delta", 1)}
	var frame service.ReplayFrame
	path := fmt.Sprintf("/api/sessions/%s/step", url.PathEscape(sessionID))
	if err := c.apiCall(ctx, "POST", path, body, &frame); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatFrame(&frame)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	var resp struct {
		Message string               `json:"message"`
		Frame   *service.ReplayFrame `json:"frame"`
	}
	path := fmt.Sprintf("/api/sessions/%s/reset", url.PathEscape(sessionID))
	if err := c.apiCall(ctx, "POST", path, nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(resp.Message + "\n" + formatFrame(resp.Frame)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var resp struct {
		Count    int                    `json:"count"`
		Sessions []*service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if resp.Count == 0 {
		return mcp.NewToolResultText("No active sessions"), nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Active sessions: %d\n", resp.Count)
	for _, s := range resp.Sessions {
		fmt.Fprintf(&b, "- %s: %s (%s)", s.ID, s.ConfigName, s.Strategy)
		if s.Frame != nil {
			fmt.Fprintf(&b, " step %d/%d", s.Frame.Index, s.Frame.Total)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}
