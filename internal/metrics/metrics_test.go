package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/rivercrossing/game/engine"
	"github.com/wricardo/mcp-training/rivercrossing/game/search"
)

func TestRecorder_RecordSolve(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)
	puzzle := engine.NewPuzzleWithDefaults()

	sol, err := puzzle.Solve(search.BFS, "")
	require.NoError(t, err)
	r.RecordSolve(search.BFS, sol, err)

	sol, err = puzzle.Solve(search.BFS, "", search.WithMaxExpansions(1))
	require.Error(t, err)
	r.RecordSolve(search.BFS, sol, err)

	r.RecordSolve(search.AStar, nil, fmt.Errorf("bad heuristic"))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.solves.WithLabelValues("bfs", OutcomeSolved)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.solves.WithLabelValues("bfs", OutcomeLimit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.solves.WithLabelValues("astar", OutcomeError)))

	// one histogram series per strategy that produced a solution value
	assert.Equal(t, 1, testutil.CollectAndCount(r.expanded))
	assert.Equal(t, 1, testutil.CollectAndCount(r.cost))
}

func TestRecorder_ReplayClients(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())
	r.SetReplayClients(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(r.replayClients))
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, OutcomeSolved, Outcome(nil))
	assert.Equal(t, OutcomeNoSolution, Outcome(fmt.Errorf("wrapped: %w", search.ErrNotFound)))
	assert.Equal(t, OutcomeLimit, Outcome(search.ErrExpansionLimit))
	assert.Equal(t, OutcomeError, Outcome(search.ErrUnknownStrategy))
}
