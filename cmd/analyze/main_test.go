package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/rivercrossing/game/engine"
	"github.com/wricardo/mcp-training/rivercrossing/game/search"
)

var configDir = filepath.Join("..", "..", "configs")

func TestRunPlan(t *testing.T) {
	var labels []string
	for _, r := range runPlan() {
		labels = append(labels, r.Label())
	}
	assert.Equal(t, []string{"bfs", "dfs", "astar/remaining", "astar/half", "astar/zero"}, labels)
}

func TestAnalyzePuzzle(t *testing.T) {
	runs, err := analyzePuzzle(context.Background(), engine.DefaultPuzzleConfig(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 5)

	bfs, dfs := runs[0], runs[1]
	assert.Equal(t, search.BFS, bfs.Strategy)
	assert.True(t, bfs.Found)
	assert.Equal(t, 7, bfs.Cost)
	assert.Equal(t, 9, bfs.Expanded)
	assert.Equal(t, 19, bfs.Generated)

	assert.True(t, dfs.Found)
	assert.Equal(t, 7, dfs.Expanded)
	assert.Equal(t, 15, dfs.Generated)

	for _, r := range runs[2:] {
		assert.True(t, r.Found, r.Label())
		assert.Equal(t, 7, r.Cost, r.Label())
		assert.NoError(t, r.Err, r.Label())
	}

	cost, ok := optimalCost(runs)
	assert.True(t, ok)
	assert.Equal(t, 7, cost)
}

func TestAnalyzePuzzle_ExpansionLimit(t *testing.T) {
	runs, err := analyzePuzzle(context.Background(), engine.DefaultPuzzleConfig(), 2)
	require.NoError(t, err)
	for _, r := range runs {
		assert.False(t, r.Found, r.Label())
		assert.ErrorIs(t, r.Err, search.ErrExpansionLimit, r.Label())
	}
	_, ok := optimalCost(runs)
	assert.False(t, ok)
}

func TestAnalyzeConfig(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, analyzeConfig(context.Background(), &out, engine.DefaultPuzzleConfig(), 0))

	report := out.String()
	assert.Contains(t, report, "Name: classic")
	assert.Contains(t, report, "Entities: 4 (operator farmer)")
	assert.Contains(t, report, "Conflict Groups: 2")
	assert.Contains(t, report, "astar/half")
	assert.Contains(t, report, "✅ Optimal solution: 7 crossings")
	assert.NotContains(t, report, "suboptimal")
}

func TestAnalyzeAll(t *testing.T) {
	t.Run("every puzzle", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, analyzeAll(context.Background(), &out, configDir, nil, 0))

		report := out.String()
		assert.Contains(t, report, "=== Analyzing abstract ===")
		assert.Contains(t, report, "=== Analyzing classic ===")
		assert.Contains(t, report, "=== Analyzing midstream ===")
		assert.Contains(t, report, "✅ Optimal solution: 6 crossings")
		assert.Contains(t, report, "=== Analyzing triangle ===")
		assert.Contains(t, report, "⚠️  UNSOLVABLE: 1 reachable states")
	})

	t.Run("named puzzles", func(t *testing.T) {
		var out bytes.Buffer
		err := analyzeAll(context.Background(), &out, configDir, []string{"classic", "missing"}, 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing")
		assert.Contains(t, out.String(), "=== Analyzing classic ===")
		assert.Contains(t, out.String(), "Error loading config")
		assert.NotContains(t, out.String(), "triangle")
	})

	t.Run("expansion limit", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, analyzeAll(context.Background(), &out, configDir, []string{"classic"}, 1))
		assert.Contains(t, out.String(), "expansion limit")
		assert.Contains(t, out.String(), "Inconclusive")
	})

	t.Run("invalid directory", func(t *testing.T) {
		assert.Error(t, analyzeAll(context.Background(), &bytes.Buffer{}, "/non/existent/path", nil, 0))
	})
}
