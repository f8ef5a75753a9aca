// Package search provides a generic state-space search engine with three
// interchangeable strategies: breadth-first, depth-first and A*.
//
// What
//
//   - A single traversal loop parameterized over a Frontier:
//   - BFS: first-in-first-out queue
//   - DFS: last-in-first-out stack, successors pushed in reverse so they
//     pop in generation order
//   - A*: binary heap ordered by f = PathCost + heuristic, ties broken by
//     insertion order
//   - A visited set keyed by Node.Key. A node is marked visited when it is
//     removed from the frontier, so duplicates may coexist in the frontier
//     until the first copy is expanded.
//   - The first popped node that satisfies IsGoal is returned immediately.
//   - Path reconstruction follows Node.Parent links back to the start.
//
// Determinism
//
//	Given the same start node and an Expander that emits successors in a
//	fixed order, every strategy returns the same goal and statistics on
//	every run. A* never compares nodes directly; equal f values are ordered
//	by a monotonically increasing counter.
//
// Termination
//
//	Each run is synchronous and owns its frontier and visited set. The
//	number of expansions is bounded by the number of distinct keys. When the
//	frontier empties without a goal, Search returns ErrNotFound together
//	with a Result carrying the run statistics. WithMaxExpansions and
//	WithContext bound a run from the outside.
//
// Complexity:
//
//   - BFS/DFS: O(V + E) pushes and pops.
//   - A*: O((V + E) log E) with lazy duplicate entries in the heap.
package search
