package search_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/rivercrossing/game/search"
)

// diamond has a short route A→C→G and a long route A→B→D→G.
var diamond = adjacency{
	"A": {"B", "C"},
	"B": {"D"},
	"C": {"G"},
	"D": {"G"},
}

func TestSearch_Errors(t *testing.T) {
	start := startNode("A", "G")

	_, err := search.Search(search.Strategy(0), start, diamond, nil)
	assert.ErrorIs(t, err, search.ErrUnknownStrategy)

	_, err = search.Search[*testNode](search.BFS, start, nil, nil)
	assert.ErrorIs(t, err, search.ErrNilExpander)

	_, err = search.Search(search.BFS, start, diamond, nil, search.WithMaxExpansions(-1))
	assert.ErrorIs(t, err, search.ErrOptionViolation)
}

func TestSearch_StrategiesOnDiamond(t *testing.T) {
	tests := []struct {
		strategy search.Strategy
		wantPath []string
		wantCost int
	}{
		{search.BFS, []string{"A", "C", "G"}, 2},
		{search.DFS, []string{"A", "B", "D", "G"}, 3},
		{search.AStar, []string{"A", "C", "G"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.strategy.String(), func(t *testing.T) {
			res, err := search.Search(tt.strategy, startNode("A", "G"), diamond, nil)
			require.NoError(t, err)
			require.True(t, res.Found)
			assert.Equal(t, tt.wantCost, res.Goal.PathCost())
			assert.Equal(t, tt.strategy, res.Strategy)

			path, err := res.Path()
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, ids(path))
		})
	}
}

func TestSearch_StartIsGoal(t *testing.T) {
	for _, strategy := range search.Strategies() {
		start := startNode("A", "A")
		res, err := search.Search(strategy, start, diamond, nil)
		require.NoError(t, err)
		assert.Same(t, start, res.Goal)
		assert.Equal(t, 0, res.Expanded)
		assert.Equal(t, 0, res.Goal.PathCost())
	}
}

func TestSearch_ExhaustedCycle(t *testing.T) {
	cycle := adjacency{"A": {"B"}, "B": {"A", "C"}, "C": {"A"}}

	for _, strategy := range search.Strategies() {
		t.Run(strategy.String(), func(t *testing.T) {
			res, err := search.Search(strategy, startNode("A", "Z"), cycle, nil)
			require.ErrorIs(t, err, search.ErrNotFound)
			require.NotNil(t, res)
			assert.False(t, res.Found)
			// each distinct key is expanded exactly once
			assert.Equal(t, 3, res.Expanded)

			_, err = res.Path()
			assert.ErrorIs(t, err, search.ErrInvalidGoal)
		})
	}
}

func TestSearch_AStarTieBreakByInsertion(t *testing.T) {
	fork := adjacency{"A": {"B", "C"}}

	res, err := search.Search(search.AStar, startNode("A", "B", "C"), fork, nil)
	require.NoError(t, err)
	assert.Equal(t, "B", res.Goal.id)

	// reversed emission order flips the winner
	res, err = search.Search(search.AStar, startNode("A", "B", "C"), adjacency{"A": {"C", "B"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "C", res.Goal.id)
}

func TestSearch_AStarFollowsHeuristic(t *testing.T) {
	g := adjacency{"A": {"B", "C"}, "B": {"G"}, "C": {"G"}}
	h := func(n *testNode) int {
		if n.id == "B" {
			return 5
		}
		return 0
	}

	var expanded []string
	res, err := search.Search(search.AStar, startNode("A", "G"), g, h,
		search.WithOnExpand(func(key string, _ int) { expanded = append(expanded, key) }))
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "C"}, expanded)
	path, err := res.Path()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "G"}, ids(path))
}

func TestSearch_DFSExploresInGenerationOrder(t *testing.T) {
	tree := adjacency{"A": {"B", "C"}, "B": {"D", "E"}}

	var expanded []string
	_, err := search.Search(search.DFS, startNode("A"), tree, nil,
		search.WithOnExpand(func(key string, _ int) { expanded = append(expanded, key) }))
	require.ErrorIs(t, err, search.ErrNotFound)
	assert.Equal(t, []string{"A", "B", "D", "E", "C"}, expanded)
}

func TestSearch_Statistics(t *testing.T) {
	var generated int
	res, err := search.Search(search.BFS, startNode("A", "G"), diamond, nil,
		search.WithOnGenerate(func(string, int) { generated++ }))
	require.NoError(t, err)

	// FIFO order is A, B, C, D: D is queued ahead of the G generated by C,
	// and D generates G a second time
	assert.Equal(t, 4, res.Expanded)
	assert.Equal(t, 5, res.Generated)
	assert.Equal(t, res.Generated, generated)
	assert.GreaterOrEqual(t, res.MaxFrontier, 2)
}

func TestSearch_MaxExpansions(t *testing.T) {
	chain := adjacency{"A": {"B"}, "B": {"C"}, "C": {"D"}}

	res, err := search.Search(search.BFS, startNode("A", "D"), chain, nil, search.WithMaxExpansions(2))
	require.ErrorIs(t, err, search.ErrExpansionLimit)
	assert.Equal(t, 2, res.Expanded)

	// the goal is popped after the third expansion and still returned
	res, err = search.Search(search.BFS, startNode("A", "D"), chain, nil, search.WithMaxExpansions(3))
	require.NoError(t, err)
	assert.Equal(t, "D", res.Goal.id)
	assert.Equal(t, 3, res.Expanded)
}

func TestSearch_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := search.Search(search.BFS, startNode("A", "G"), diamond, nil, search.WithContext(ctx))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResult_PathNil(t *testing.T) {
	var res *search.Result[*testNode]
	_, err := res.Path()
	assert.ErrorIs(t, err, search.ErrInvalidGoal)
}

func TestReconstructPath_SingleNode(t *testing.T) {
	n := startNode("A")
	assert.Equal(t, []string{"A"}, ids(search.ReconstructPath(n)))
}

func TestParseStrategy(t *testing.T) {
	tests := map[string]search.Strategy{
		"bfs":    search.BFS,
		"BFS":    search.BFS,
		"dfs":    search.DFS,
		" dfs ":  search.DFS,
		"astar":  search.AStar,
		"A*":     search.AStar,
		"a-star": search.AStar,
	}
	for in, want := range tests {
		got, err := search.ParseStrategy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := search.ParseStrategy("greedy")
	assert.ErrorIs(t, err, search.ErrUnknownStrategy)
}

func TestStrategy_JSON(t *testing.T) {
	data, err := json.Marshal(map[string]search.Strategy{"s": search.AStar})
	require.NoError(t, err)
	assert.JSONEq(t, `{"s":"astar"}`, string(data))

	var decoded struct {
		S search.Strategy `json:"s"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"s":"dfs"}`), &decoded))
	assert.Equal(t, search.DFS, decoded.S)

	assert.Error(t, json.Unmarshal([]byte(`{"s":"nope"}`), &decoded))
}
