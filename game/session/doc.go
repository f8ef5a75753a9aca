// Package session provides replay session management for the river-crossing solver.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Optional JSON file persistence that re-solves puzzles on load
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// FilePersistence stores one JSON file per session holding the config ID,
// strategy, heuristic and replay cursor. Search state is never persisted; a
// loaded session solves its puzzle again, which is deterministic.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create(service.NewSession("", "classic", puzzle, solution))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
package session
