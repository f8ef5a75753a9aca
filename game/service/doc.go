// Package service provides the business logic layer for the river-crossing solver.
//
// The service package implements:
//   - Stateless solving of named puzzle configurations
//   - Side-by-side comparison of BFS, DFS and A*
//   - Replay sessions that step through a solution at the caller's pace
//   - Configuration listing, loading and saving
//
// Core Interfaces:
//
// SolverService is the main service interface providing high-level operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages puzzle configuration loading and validation.
// SolveRecorder observes finished runs, typically for metrics.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the engine. Searches are synchronous and never shared; a session holds the
// finished solution and a replay cursor, so presentation never influences
// search behaviour.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	solver := service.NewSolverService(sessionMgr, configMgr)
//
//	info, err := solver.CreateSession(ctx, service.SolveRequest{ConfigID: "classic", Strategy: "bfs"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	frame, err := solver.Step(ctx, info.ID, 1)
//
// Session Management:
//
// Sessions are identified by unique 4-character IDs. Each holds its own
// solution and cursor; the cursor is clamped to the solution bounds.
package service
