package engine

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/rivercrossing/game/search"
)

func TestPuzzle_SolveClassic(t *testing.T) {
	puzzle := NewPuzzleWithDefaults()
	want := []string{
		"farmer+goat", "farmer", "farmer+wolf", "farmer+goat",
		"farmer+cabbage", "farmer", "farmer+goat",
	}

	for _, strategy := range search.Strategies() {
		t.Run(strategy.String(), func(t *testing.T) {
			sol, err := puzzle.Solve(strategy, "")
			require.NoError(t, err)
			require.True(t, sol.Found)

			assert.Equal(t, 7, sol.Cost)
			assert.Len(t, sol.Steps, 8)
			assert.Equal(t, want, moveStrings(sol.Moves()))
			assert.LessOrEqual(t, sol.Expanded, 10)
			require.NoError(t, puzzle.Rules().VerifyPath(sol.Steps))

			goal := sol.Goal()
			assert.Empty(t, goal.Near())
			assert.Equal(t, []string{"cabbage", "farmer", "goat", "wolf"}, goal.Far())
			assert.Equal(t, Destination, goal.Transport())
		})
	}
}

func TestPuzzle_SolveAbstract(t *testing.T) {
	puzzle, err := NewPuzzle(abstractConfig())
	require.NoError(t, err)

	tests := []struct {
		strategy  search.Strategy
		heuristic string
		expanded  int
		generated int
	}{
		{search.BFS, "", 9, 19},
		{search.DFS, "", 7, 15},
		{search.AStar, HeuristicRemaining, 9, 19},
		{search.AStar, HeuristicHalf, 9, 19},
		{search.AStar, HeuristicZero, 9, 19},
	}

	for _, tt := range tests {
		t.Run(tt.strategy.String()+"/"+tt.heuristic, func(t *testing.T) {
			sol, err := puzzle.Solve(tt.strategy, tt.heuristic)
			require.NoError(t, err)
			assert.Equal(t, 7, sol.Cost)
			assert.Equal(t, tt.expanded, sol.Expanded)
			assert.Equal(t, tt.generated, sol.Generated)
			assert.Equal(t, tt.heuristic, sol.Heuristic)
			require.NoError(t, puzzle.Rules().VerifyPath(sol.Steps))

			// every crossing flips the boat and costs one
			for i, step := range sol.Steps {
				assert.Equal(t, i, step.Index)
				assert.Equal(t, i, step.State.Cost())
				if i > 0 {
					assert.Equal(t, sol.Steps[i-1].State.Transport().Opposite(), step.State.Transport())
				}
			}
		})
	}
}

func TestPuzzle_AStarNotWorseThanBFS(t *testing.T) {
	puzzle := NewPuzzleWithDefaults()
	bfs, err := puzzle.Solve(search.BFS, "")
	require.NoError(t, err)

	for _, h := range HeuristicNames() {
		astar, err := puzzle.Solve(search.AStar, h)
		require.NoError(t, err)
		assert.LessOrEqual(t, astar.Cost, bfs.Cost, h)
	}
}

func TestPuzzle_SolveUsesConfiguredHeuristic(t *testing.T) {
	cfg := abstractConfig()
	cfg.Heuristic = HeuristicZero
	puzzle, err := NewPuzzle(cfg)
	require.NoError(t, err)

	sol, err := puzzle.Solve(search.AStar, "")
	require.NoError(t, err)
	assert.Equal(t, HeuristicZero, sol.Heuristic)

	sol, err = puzzle.Solve(search.BFS, "half")
	require.NoError(t, err)
	assert.Empty(t, sol.Heuristic)

	_, err = puzzle.Solve(search.AStar, "euclid")
	assert.ErrorIs(t, err, ErrUnknownHeuristic)
}

func TestPuzzle_Unsolvable(t *testing.T) {
	puzzle, err := NewPuzzle(triangleConfig())
	require.NoError(t, err)

	for _, strategy := range search.Strategies() {
		sol, err := puzzle.Solve(strategy, "")
		require.ErrorIs(t, err, search.ErrNotFound)
		require.NotNil(t, sol)
		assert.False(t, sol.Found)
		assert.Nil(t, sol.Goal())
		assert.Equal(t, 1, sol.Expanded)
		assert.Equal(t, 0, sol.Generated)
	}
}

func TestPuzzle_StartIsGoal(t *testing.T) {
	cfg := abstractConfig()
	cfg.Start = &StartConfig{Far: []string{"O", "A", "B", "C"}, Transport: Destination}
	puzzle, err := NewPuzzle(cfg)
	require.NoError(t, err)

	sol, err := puzzle.Solve(search.BFS, "")
	require.NoError(t, err)
	assert.Equal(t, 0, sol.Cost)
	require.Len(t, sol.Steps, 1)
	assert.Nil(t, sol.Steps[0].Move)
}

func TestPuzzle_SolveOptions(t *testing.T) {
	puzzle := NewPuzzleWithDefaults()

	sol, err := puzzle.Solve(search.BFS, "", search.WithMaxExpansions(3))
	require.ErrorIs(t, err, search.ErrExpansionLimit)
	assert.Equal(t, 3, sol.Expanded)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = puzzle.Solve(search.DFS, "", search.WithContext(ctx))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = puzzle.Solve(search.Strategy(9), "")
	assert.ErrorIs(t, err, search.ErrUnknownStrategy)
}

func TestNewPuzzle_InvalidConfig(t *testing.T) {
	cfg := abstractConfig()
	cfg.Operator = ""
	_, err := NewPuzzle(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestReconstructPath(t *testing.T) {
	_, err := ReconstructPath(nil)
	assert.ErrorIs(t, err, ErrInvalidGoalReconstruction)

	r := mustRules(abstractConfig())
	first, err := r.Apply(r.Initial(), Move{"O", "B"})
	require.NoError(t, err)
	second, err := r.Apply(first, Move{"O"})
	require.NoError(t, err)

	steps, err := ReconstructPath(second)
	require.NoError(t, err)
	require.Len(t, steps, 3)
	assert.Same(t, r.Initial(), steps[0].State)
	assert.Nil(t, steps[0].Move)
	assert.Equal(t, Move{"O", "B"}, steps[1].Move)
	assert.Equal(t, Move{"O"}, steps[2].Move)

	// not a goal
	assert.Error(t, r.VerifyPath(steps))
	assert.Error(t, r.VerifyPath(nil))
	assert.Error(t, r.VerifyPath(steps[1:]))
}

func TestHeuristics(t *testing.T) {
	s := NewState([]string{"O", "A", "B"}, []string{"C"}, Origin)
	assert.Equal(t, 3, RemainingCount(s))
	assert.Equal(t, 2, HalfRemaining(s))
	assert.Equal(t, 0, Zero(s))

	goal := NewState(nil, []string{"O"}, Destination)
	assert.Equal(t, 0, RemainingCount(goal))
	assert.Equal(t, 0, HalfRemaining(goal))

	h, err := HeuristicByName("")
	require.NoError(t, err)
	assert.Equal(t, 3, h(s))
	h, err = HeuristicByName("HALF")
	require.NoError(t, err)
	assert.Equal(t, 2, h(s))
}

func TestPuzzle_DescribeAndRender(t *testing.T) {
	puzzle := NewPuzzleWithDefaults()
	sol, err := puzzle.Solve(search.BFS, "")
	require.NoError(t, err)

	assert.Equal(t, "start: [C F G W] B~~~~ []", puzzle.Describe(sol.Steps[0]))
	assert.Equal(t, "1. farmer takes goat to the destination bank: [C W] ~~~~B [F G]", puzzle.Describe(sol.Steps[1]))
	assert.Equal(t, "2. farmer crosses alone to the origin bank: [C F W] B~~~~ [G]", puzzle.Describe(sol.Steps[2]))
}

func TestSolution_JSON(t *testing.T) {
	sol, err := NewPuzzleWithDefaults().Solve(search.AStar, "")
	require.NoError(t, err)

	data, err := json.Marshal(sol)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "astar", decoded["strategy"])
	assert.Equal(t, "remaining", decoded["heuristic"])
	assert.EqualValues(t, 7, decoded["cost"])
	assert.Len(t, decoded["steps"], 8)
}
