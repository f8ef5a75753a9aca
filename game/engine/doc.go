// Package engine provides the river-crossing domain for the search engine.
//
// The engine package implements the puzzle mechanics including:
//   - Immutable states with canonical bank contents and deduplication keys
//   - Move enumeration and the safety predicate for unattended conflicts
//   - Heuristics for A* over the number of entities left on the origin bank
//   - Solution path reconstruction and verification
//   - Puzzle configuration loading (JSON or YAML) and validation
//
// Core Types:
//
// State is a node of the implicit state graph. RuleSet generates the
// successors of a State from a validated PuzzleConfig. Puzzle binds the two
// and runs game/search over them, returning a Solution.
//
// Usage:
//
//	cfg, err := engine.LoadPuzzleConfig("configs/classic.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	puzzle, err := engine.NewPuzzle(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sol, err := puzzle.Solve(search.AStar, engine.HeuristicRemaining)
//	if errors.Is(err, search.ErrNotFound) {
//		// unsolvable
//	}
//	for _, step := range sol.Steps {
//		fmt.Println(puzzle.Describe(step))
//	}
//
// Puzzle Rules:
//
// An operator ferries entities across a river. Every crossing carries the
// operator, alone or with exactly one companion. A bank without the operator
// must never hold two or more members of the same conflict group. The puzzle
// is solved when the origin bank is empty.
package engine
