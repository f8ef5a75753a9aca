// Package mcp provides the Model Context Protocol surface of the river crossing solver.
//
// The Client is a thin proxy: every tool calls the REST API served by the
// api package and formats the JSON answer as text for AI agents.
//
// MCP Tools:
//   - list_configs: List available puzzles
//   - describe_puzzle: Entities, allowed crossings and conflicts of a puzzle
//   - solve: Solve with bfs, dfs or astar and list every crossing
//   - compare_strategies: Cost and search effort of all strategies side by side
//   - create_session: Solve a puzzle and open a replay session
//   - get_session: Session details and the current replay step
//   - step: Move the replay cursor by delta crossings
//   - reset_replay: Rewind a replay to the start state
//   - list_sessions: List replay sessions
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
