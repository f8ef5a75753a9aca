// Package api provides the HTTP REST API of the river crossing solver.
//
// Endpoints:
//
// Solving:
//   - POST /api/solve - Solve a puzzle {config_id, strategy, heuristic, max_expansions}
//   - GET /api/configs/{name}/compare - Solve with BFS, DFS and A* side by side
//
// Configuration:
//   - GET /api/configs - List puzzle configurations
//   - GET /api/configs/{name} - Get one configuration
//   - POST /api/configs - Validate and save a configuration
//
// Replay Sessions:
//   - POST /api/sessions - Solve a puzzle and open a replay of the solution
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=n)
//   - GET /api/sessions/{id} - Get a session and its current frame
//   - DELETE /api/sessions/{id} - Delete a session
//   - POST /api/sessions/{id}/step - Move the replay cursor {delta}
//   - POST /api/sessions/{id}/reset - Rewind to the start state
//   - POST /api/sessions/{id}/play - Advance one step per interval {interval_ms}
//   - POST /api/sessions/{id}/pause - Stop playback
//
// Other:
//   - GET /ws?session={id} - Replay frames over WebSocket
//   - GET /metrics - Prometheus metrics
//   - GET /api/health - Health check
//
// An exhausted search is not an error: POST /api/solve answers 200 with
// "found": false. Errors are returned as JSON with the matching status code:
//
//	{
//	  "error": "session not found: session not found",
//	  "code": 404
//	}
//
// Unknown sessions and configs map to 404, invalid strategies, heuristics and
// configs to 400, and unsolvable or over-limit searches to 422.
package api
