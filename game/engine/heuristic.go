package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wricardo/mcp-training/rivercrossing/game/search"
)

// ErrUnknownHeuristic is returned for heuristic names HeuristicByName does not know.
var ErrUnknownHeuristic = errors.New("unknown heuristic")

// Heuristic names accepted by HeuristicByName.
const (
	HeuristicRemaining = "remaining"
	HeuristicHalf      = "half"
	HeuristicZero      = "zero"

	DefaultHeuristic = HeuristicRemaining
)

// RemainingCount estimates the remaining crossings as the number of entities
// still on the origin bank. A crossing can move two entities, so this may
// overestimate near the goal.
func RemainingCount(s *State) int {
	return len(s.near)
}

// HalfRemaining divides the origin bank by the boat capacity, rounding up.
// It never overestimates.
func HalfRemaining(s *State) int {
	return (len(s.near) + 1) / 2
}

// Zero turns A* into uniform-cost search.
func Zero(*State) int {
	return 0
}

// HeuristicNames lists the accepted heuristic names.
func HeuristicNames() []string {
	return []string{HeuristicRemaining, HeuristicHalf, HeuristicZero}
}

// HeuristicByName resolves a heuristic. The empty name selects DefaultHeuristic.
func HeuristicByName(name string) (search.Heuristic[*State], error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", HeuristicRemaining:
		return RemainingCount, nil
	case HeuristicHalf:
		return HalfRemaining, nil
	case HeuristicZero:
		return Zero, nil
	default:
		return nil, fmt.Errorf("%w %q (want one of %s)", ErrUnknownHeuristic, name, strings.Join(HeuristicNames(), ", "))
	}
}
