package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/wricardo/mcp-training/rivercrossing/game/engine"
	"github.com/wricardo/mcp-training/rivercrossing/game/search"
)

// ErrNoSolution is returned when a session is requested for an unsolvable puzzle.
var ErrNoSolution = errors.New("puzzle has no solution")

// Option configures the solver service.
type Option func(*solverServiceImpl)

// WithRecorder registers an observer for every solve run.
func WithRecorder(r SolveRecorder) Option {
	return func(s *solverServiceImpl) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithMaxExpansions bounds every search run issued by the service.
func WithMaxExpansions(n int) Option {
	return func(s *solverServiceImpl) {
		if n > 0 {
			s.maxExpansions = n
		}
	}
}

// solverServiceImpl implements the SolverService interface
type solverServiceImpl struct {
	sessions      SessionManager
	configs       ConfigManager
	recorder      SolveRecorder
	maxExpansions int
	mu            sync.RWMutex
}

type noopRecorder struct{}

func (noopRecorder) RecordSolve(search.Strategy, *engine.Solution, error) {}

// NewSolverService creates a new solver service instance
func NewSolverService(sessions SessionManager, configs ConfigManager, opts ...Option) SolverService {
	s := &solverServiceImpl{
		sessions: sessions,
		configs:  configs,
		recorder: noopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// loadPuzzle resolves a config ID to a puzzle, falling back to the default config
func (s *solverServiceImpl) loadPuzzle(configID string) (string, *engine.Puzzle, error) {
	var config *engine.PuzzleConfig
	if configID == "" {
		config = s.configs.GetDefault()
		configID = config.Name
	} else {
		var err error
		config, err = s.configs.LoadConfig(configID)
		if err != nil {
			return "", nil, s.configError(configID, err)
		}
	}

	puzzle, err := engine.NewPuzzle(config)
	if err != nil {
		return "", nil, err
	}
	return configID, puzzle, nil
}

// configError adds the available config IDs to a lookup failure
func (s *solverServiceImpl) configError(configID string, err error) error {
	available, listErr := s.configs.ListConfigs()
	if listErr != nil || len(available) == 0 {
		return fmt.Errorf("config '%s': %w", configID, err)
	}
	var ids []string
	for _, cfg := range available {
		ids = append(ids, cfg.ConfigID)
	}
	return fmt.Errorf("config '%s': %w (available configs: %v)", configID, err, ids)
}

// solve runs one search and reports it to the recorder
func (s *solverServiceImpl) solve(ctx context.Context, puzzle *engine.Puzzle, strategy search.Strategy, heuristic string, maxExpansions int) (*engine.Solution, error) {
	if maxExpansions <= 0 {
		maxExpansions = s.maxExpansions
	}
	sol, err := puzzle.Solve(strategy, heuristic,
		search.WithContext(ctx),
		search.WithMaxExpansions(maxExpansions),
	)
	s.recorder.RecordSolve(strategy, sol, err)

	if sol != nil {
		slog.Debug("solve finished",
			"puzzle", sol.Puzzle,
			"strategy", strategy,
			"found", sol.Found,
			"cost", sol.Cost,
			"expanded", sol.Expanded,
			"duration", sol.Duration,
		)
	}
	return sol, err
}

// Solve runs a single stateless search
func (s *solverServiceImpl) Solve(ctx context.Context, req SolveRequest) (*engine.Solution, error) {
	strategy, err := parseStrategy(req.Strategy)
	if err != nil {
		return nil, err
	}
	_, puzzle, err := s.loadPuzzle(req.ConfigID)
	if err != nil {
		return nil, err
	}
	return s.solve(ctx, puzzle, strategy, req.Heuristic, req.MaxExpansions)
}

// Compare solves the same puzzle with every strategy
func (s *solverServiceImpl) Compare(ctx context.Context, configID string) (*Comparison, error) {
	configID, puzzle, err := s.loadPuzzle(configID)
	if err != nil {
		return nil, err
	}

	cmp := &Comparison{ConfigID: configID, OptimalCost: -1}
	for _, strategy := range search.Strategies() {
		sol, err := s.solve(ctx, puzzle, strategy, "", 0)
		if err != nil && !errors.Is(err, search.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", strategy, err)
		}
		cmp.Results = append(cmp.Results, sol)
		if sol.Found && strategy != search.DFS {
			cmp.Solvable = true
			if cmp.OptimalCost < 0 || sol.Cost < cmp.OptimalCost {
				cmp.OptimalCost = sol.Cost
			}
		}
	}
	return cmp, nil
}

// CreateSession solves a puzzle and opens a replay session on the solution
func (s *solverServiceImpl) CreateSession(ctx context.Context, req SolveRequest) (*SessionInfo, error) {
	strategy, err := parseStrategy(req.Strategy)
	if err != nil {
		return nil, err
	}
	configID, puzzle, err := s.loadPuzzle(req.ConfigID)
	if err != nil {
		return nil, err
	}

	sol, err := s.solve(ctx, puzzle, strategy, req.Heuristic, req.MaxExpansions)
	if errors.Is(err, search.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNoSolution, configID)
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create(NewSession("", configID, puzzle, sol))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session.Info(), nil
}

// GetSession retrieves session information
func (s *solverServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return session.Info(), nil
}

// ListSessions returns all active sessions
func (s *solverServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sess.Info())
	}
	return result, nil
}

// DeleteSession removes a session
func (s *solverServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions.Delete(sessionID)
}

// Step moves the replay cursor of a session by delta steps
func (s *solverServiceImpl) Step(ctx context.Context, sessionID string, delta int) (*ReplayFrame, error) {
	return s.withSession(sessionID, func(sess *Session) *ReplayFrame {
		return sess.Advance(delta)
	})
}

// Reset rewinds the replay cursor of a session to the start state
func (s *solverServiceImpl) Reset(ctx context.Context, sessionID string) (*ReplayFrame, error) {
	return s.withSession(sessionID, (*Session).Rewind)
}

// withSession applies fn to a session and persists the new cursor
func (s *solverServiceImpl) withSession(sessionID string, fn func(*Session) *ReplayFrame) (*ReplayFrame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	frame := fn(session)
	if err := s.sessions.UpdateLastAccessed(sessionID); err != nil {
		slog.Warn("failed to update session access time", "session", sessionID, "error", err)
	}
	return frame, nil
}

// ListConfigs returns available configurations
func (s *solverServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific configuration
func (s *solverServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.PuzzleConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a configuration
func (s *solverServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.PuzzleConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// parseStrategy resolves a strategy name; the empty name selects A*
func parseStrategy(name string) (search.Strategy, error) {
	if name == "" {
		return search.AStar, nil
	}
	return search.ParseStrategy(name)
}
