package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/rivercrossing/game/search"
	"github.com/wricardo/mcp-training/rivercrossing/game/service"
	"github.com/wricardo/mcp-training/rivercrossing/transport/mcp"
)

func TestConstants(t *testing.T) {
	assert.Equal(t, "1.0.0", Version)
	assert.Equal(t, "River Crossing Solver", AppName)
}

func TestNewApp(t *testing.T) {
	app := newApp()
	assert.Equal(t, Version, app.Version)

	var names []string
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)
	}
	assert.Equal(t, []string{"serve", "mcp", "solve"}, names)

	var flags []string
	for _, f := range app.Flags {
		flags = append(flags, f.Names()[0])
	}
	assert.Equal(t, []string{"host", "port", "config-dir", "sessions-dir", "log-level", "debug"}, flags)
}

func TestInitializeServices(t *testing.T) {
	svc, err := initializeServices("configs", t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, svc.solver)
	require.NotNil(t, svc.registry)

	info, err := svc.solver.CreateSession(context.Background(), service.SolveRequest{ConfigID: "classic", Strategy: "bfs"})
	require.NoError(t, err)
	assert.Equal(t, 7, info.Frame.Total)
	assert.True(t, svc.persistence.Exists(info.ID))
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	_, err := initializeServices("/non/existent/path", t.TempDir())
	assert.Error(t, err)
}

func TestPruneDeletedSessions(t *testing.T) {
	svc, err := initializeServices("configs", t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	kept, err := svc.solver.CreateSession(ctx, service.SolveRequest{ConfigID: "classic"})
	require.NoError(t, err)
	gone, err := svc.solver.CreateSession(ctx, service.SolveRequest{ConfigID: "abstract"})
	require.NoError(t, err)

	assert.Equal(t, 0, pruneDeletedSessions(svc.sessions, svc.persistence))
	require.NoError(t, svc.persistence.Delete(gone.ID))

	assert.Equal(t, 1, pruneDeletedSessions(svc.sessions, svc.persistence))
	assert.True(t, svc.sessions.Exists(kept.ID))
	assert.False(t, svc.sessions.Exists(gone.ID))
	assert.Equal(t, 0, pruneDeletedSessions(svc.sessions, nil))
}

func TestHTTPHandler(t *testing.T) {
	svc, err := initializeServices("configs", t.TempDir())
	require.NoError(t, err)

	apiServer, _ := svc.newAPI()
	defer apiServer.Close()
	handler := newHTTPHandler(apiServer, mcp.NewClient("http://127.0.0.1:1"))

	t.Run("api", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("metrics", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "go_goroutines")
		assert.Contains(t, w.Body.String(), "rivercrossing_replay_clients")
	})

	t.Run("mcp rejects GET", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/mcp", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("mcp ping", func(t *testing.T) {
		body := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("POST", "/mcp", body))
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "2.0", resp["jsonrpc"])
		assert.EqualValues(t, 1, resp["id"])
		assert.NotContains(t, resp, "error")
	})
}

func TestSolvePuzzle(t *testing.T) {
	tests := []struct {
		name     string
		opts     solveOptions
		contains []string
	}{
		{
			name: "classic bfs",
			opts: solveOptions{ConfigDir: "configs", Puzzle: "classic", Strategy: "bfs"},
			contains: []string{
				"Puzzle: classic",
				"Strategy: bfs\n",
				"start: [C F G W] B~~~~ []",
				"1. farmer takes goat to the destination bank: [C W] ~~~~B [F G]",
				"2. farmer crosses alone to the origin bank",
				"Solved in 7 crossings (expanded 9, generated 19",
			},
		},
		{
			name:     "default puzzle astar",
			opts:     solveOptions{ConfigDir: "configs", Strategy: "astar"},
			contains: []string{"Puzzle: classic", "Strategy: astar (heuristic remaining)", "Solved in 7 crossings"},
		},
		{
			name:     "yaml file path",
			opts:     solveOptions{ConfigDir: "configs", Puzzle: filepath.Join("configs", "abstract.yaml"), Strategy: "astar", Heuristic: "zero"},
			contains: []string{"Puzzle: abstract", "(heuristic zero)", "Solved in 7 crossings"},
		},
		{
			name:     "custom start",
			opts:     solveOptions{ConfigDir: "configs", Puzzle: "midstream", Strategy: "bfs"},
			contains: []string{"Puzzle: midstream", "Solved in 6 crossings"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, solvePuzzle(context.Background(), &out, tt.opts))
			for _, want := range tt.contains {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func TestSolvePuzzleErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("unsolvable", func(t *testing.T) {
		var out bytes.Buffer
		err := solvePuzzle(ctx, &out, solveOptions{ConfigDir: "configs", Puzzle: "triangle", Strategy: "bfs"})
		var exitErr cli.ExitCoder
		require.True(t, errors.As(err, &exitErr))
		assert.Equal(t, 2, exitErr.ExitCode())
		assert.Contains(t, out.String(), "No solution: 1 states expanded")
	})

	t.Run("unknown strategy", func(t *testing.T) {
		err := solvePuzzle(ctx, &bytes.Buffer{}, solveOptions{ConfigDir: "configs", Puzzle: "classic", Strategy: "greedy"})
		assert.ErrorIs(t, err, search.ErrUnknownStrategy)
	})

	t.Run("expansion limit", func(t *testing.T) {
		err := solvePuzzle(ctx, &bytes.Buffer{}, solveOptions{ConfigDir: "configs", Puzzle: "classic", Strategy: "bfs", MaxExpansions: 3})
		assert.ErrorIs(t, err, search.ErrExpansionLimit)
	})

	t.Run("unknown puzzle", func(t *testing.T) {
		err := solvePuzzle(ctx, &bytes.Buffer{}, solveOptions{ConfigDir: "configs", Puzzle: "nope", Strategy: "bfs"})
		assert.Error(t, err)
	})

	t.Run("invalid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"name":"broken","operator":"ghost","entities":["farmer"]}`), 0644))
		err := solvePuzzle(ctx, &bytes.Buffer{}, solveOptions{ConfigDir: "configs", Puzzle: path, Strategy: "bfs"})
		assert.Error(t, err)
	})
}

func TestSolveCommand(t *testing.T) {
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	err := app.Run(context.Background(), []string{"rivercrossing", "--config-dir", "configs", "solve", "--strategy", "dfs", "classic"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Strategy: dfs")
	assert.Contains(t, out.String(), "Solved in 7 crossings (expanded 7, generated 15")
}
