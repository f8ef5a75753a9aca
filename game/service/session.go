package service

import (
	"sync"
	"time"

	"github.com/wricardo/mcp-training/rivercrossing/game/engine"
)

// Session represents a solved puzzle being replayed step by step.
// The replay cursor and the access time are guarded by the session's own lock.
type Session struct {
	ID        string
	ConfigID  string
	Puzzle    *engine.Puzzle
	Solution  *engine.Solution
	CreatedAt time.Time

	mu           sync.Mutex
	cursor       int
	lastAccessed time.Time
}

// NewSession creates a session positioned at the start state.
func NewSession(id, configID string, puzzle *engine.Puzzle, sol *engine.Solution) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		ConfigID:     configID,
		Puzzle:       puzzle,
		Solution:     sol,
		CreatedAt:    now,
		lastAccessed: now,
	}
}

// Touch records an access at the current time.
func (s *Session) Touch() {
	s.SetLastAccessed(time.Now())
}

// SetLastAccessed overrides the access time, e.g. when restoring a session.
func (s *Session) SetLastAccessed(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccessed = t
}

// LastAccessed returns the time of the latest access.
func (s *Session) LastAccessed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccessed
}

// Cursor returns the index of the current step.
func (s *Session) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Frame returns the current step.
func (s *Session) Frame() *ReplayFrame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frameLocked()
}

// Advance moves the cursor by delta steps, clamped to the solution bounds.
func (s *Session) Advance(delta int) *ReplayFrame {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seekLocked(s.cursor + delta)
	return s.frameLocked()
}

// Seek moves the cursor to index, clamped to the solution bounds.
func (s *Session) Seek(index int) *ReplayFrame {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seekLocked(index)
	return s.frameLocked()
}

// Rewind moves the cursor back to the start state.
func (s *Session) Rewind() *ReplayFrame {
	return s.Seek(0)
}

// Info returns the session summary with its current frame.
func (s *Session) Info() *SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &SessionInfo{
		ID:             s.ID,
		ConfigName:     s.ConfigID,
		CreatedAt:      s.CreatedAt,
		LastAccessedAt: s.lastAccessed,
		Strategy:       s.Solution.Strategy,
		Heuristic:      s.Solution.Heuristic,
		Frame:          s.frameLocked(),
		Solution:       s.Solution,
	}
}

func (s *Session) seekLocked(index int) {
	last := len(s.Solution.Steps) - 1
	if index > last {
		index = last
	}
	if index < 0 {
		index = 0
	}
	s.cursor = index
}

func (s *Session) frameLocked() *ReplayFrame {
	steps := s.Solution.Steps
	if len(steps) == 0 {
		return &ReplayFrame{SessionID: s.ID, Done: true}
	}
	step := steps[s.cursor]
	return &ReplayFrame{
		SessionID:   s.ID,
		Index:       s.cursor,
		Total:       len(steps) - 1,
		Step:        step,
		Description: s.Puzzle.Describe(step),
		Rendered:    s.Puzzle.Render(step.State),
		Done:        s.cursor == len(steps)-1,
	}
}
