package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/rivercrossing/api"
	"github.com/wricardo/mcp-training/rivercrossing/game/config"
	"github.com/wricardo/mcp-training/rivercrossing/game/service"
	"github.com/wricardo/mcp-training/rivercrossing/game/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	configs, err := config.NewManager(filepath.Join("..", "..", "configs"))
	require.NoError(t, err)

	srv := api.NewServer(service.NewSolverService(session.NewManager(), configs), nil)
	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return ts
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")
	assert.Equal(t, "http://localhost:8080", client.baseURL)
	assert.NotNil(t, client.client)
}

func TestClient_Session(t *testing.T) {
	ts := newTestServer(t)
	client := NewClient(ts.URL)
	ctx := context.Background()

	session, err := client.CreateSession(ctx, "classic", "bfs", "")
	require.NoError(t, err)
	assert.Equal(t, session.ID, client.sessionID)
	assert.Equal(t, "classic", session.ConfigName)
	assert.Equal(t, "bfs", session.Strategy)
	require.NotNil(t, session.Frame)
	assert.Equal(t, 7, session.Frame.Total)

	frame, err := client.Step(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, frame.Index)
	assert.Contains(t, frame.Description, "2. farmer crosses alone")

	got, err := client.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Frame.Index)

	frame, err = client.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, frame.Index)
}

func TestClient_Errors(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	client := NewClient(ts.URL)
	_, err := client.CreateSession(ctx, "triangle", "bfs", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "no solution")

	client.sessionID = "missing"
	_, err = client.GetSession(ctx)
	assert.ErrorContains(t, err, "404")

	plain := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer plain.Close()
	_, err = NewClient(plain.URL).Step(ctx, 1)
	assert.ErrorContains(t, err, "boom")
}

func TestRun(t *testing.T) {
	ts := newTestServer(t)
	sessionFile := filepath.Join(t.TempDir(), ".session")
	opts := Options{
		ServerURL:   ts.URL,
		ConfigID:    "classic",
		Strategy:    "bfs",
		SessionFile: sessionFile,
	}

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &out, opts))

	report := out.String()
	assert.Contains(t, report, "Step 0/7: start: [C F G W] B~~~~ []")
	assert.Contains(t, report, "Step 1/7: 1. farmer takes goat to the destination bank")
	assert.Contains(t, report, "Step 7/7: 7. farmer takes goat")
	assert.Contains(t, report, "🎉 Everyone is across in 7 crossings")
	assert.Equal(t, 8, strings.Count(report, "Step "))

	saved, err := os.ReadFile(sessionFile)
	require.NoError(t, err)
	assert.NotEmpty(t, saved)

	t.Run("resumes saved session", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, run(context.Background(), &out, opts))
		assert.Contains(t, out.String(), "(session "+string(saved)+")")
	})

	t.Run("stale session is replaced", func(t *testing.T) {
		stale := opts
		stale.Continue = "gone"
		stale.SessionFile = ""

		var out bytes.Buffer
		require.NoError(t, run(context.Background(), &out, stale))
		assert.Contains(t, out.String(), "🎉 Everyone is across")
		assert.NotContains(t, out.String(), "(session gone)")
	})
}

func TestRun_Unsolvable(t *testing.T) {
	ts := newTestServer(t)
	err := run(context.Background(), &bytes.Buffer{}, Options{ServerURL: ts.URL, ConfigID: "triangle", Strategy: "bfs"})
	assert.ErrorContains(t, err, "create session")
}

func TestReplay_Cancelled(t *testing.T) {
	ts := newTestServer(t)
	client := NewClient(ts.URL)
	_, err := client.CreateSession(context.Background(), "classic", "bfs", "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, replay(ctx, &bytes.Buffer{}, client, 0))
}
