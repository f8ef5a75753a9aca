// Package websocket provides WebSocket transport for replaying solutions.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - Broadcasting of replay frames to every client watching a session
//   - Replay commands (step, reset) sent by clients
//   - Connection lifecycle management
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a read and a
// write goroutine; all hub state is owned by the Run loop.
//
// Message Protocol:
//
// Messages are JSON-encoded:
//   - Incoming: {"action": "step", "delta": 1} or {"action": "reset"}
//   - Outgoing: {"session_id": "ab12", "event": "frame", "frame": {...}}
//
// Session Integration:
//
// Clients specify their session via query parameter (?session=ab12) when
// connecting. Frames are delivered only to clients of the same session.
//
// Usage:
//
//	hub := websocket.NewHub(websocket.WithCommandHandler(handle))
//	go hub.Run(ctx)
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
package websocket
