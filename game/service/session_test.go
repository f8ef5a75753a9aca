package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/rivercrossing/game/engine"
	"github.com/wricardo/mcp-training/rivercrossing/game/search"
	"github.com/wricardo/mcp-training/rivercrossing/game/service"
)

func newReplay(t *testing.T) *service.Session {
	t.Helper()
	puzzle := engine.NewPuzzleWithDefaults()
	sol, err := puzzle.Solve(search.BFS, "")
	require.NoError(t, err)
	return service.NewSession("ab12", "classic", puzzle, sol)
}

func TestSession_CursorClamps(t *testing.T) {
	s := newReplay(t)

	assert.Equal(t, 0, s.Cursor())
	assert.Equal(t, 0, s.Advance(-5).Index)
	assert.Equal(t, 7, s.Advance(50).Index)
	assert.Equal(t, 3, s.Seek(3).Index)
	assert.Equal(t, 0, s.Rewind().Index)
}

func TestSession_Frame(t *testing.T) {
	s := newReplay(t)

	f := s.Seek(1)
	assert.Equal(t, "ab12", f.SessionID)
	assert.Equal(t, 7, f.Total)
	assert.Equal(t, engine.Move{"farmer", "goat"}, f.Step.Move)
	assert.Equal(t, "[C W] ~~~~B [F G]", f.Rendered)
	assert.False(t, f.Done)

	info := s.Info()
	assert.Equal(t, "classic", info.ConfigName)
	assert.Equal(t, search.BFS, info.Strategy)
	assert.Equal(t, 1, info.Frame.Index)
}
