package service

import (
	"context"

	"github.com/wricardo/mcp-training/rivercrossing/game/engine"
	"github.com/wricardo/mcp-training/rivercrossing/game/search"
)

// SolverService defines all solver-related operations
type SolverService interface {
	// Solving
	Solve(ctx context.Context, req SolveRequest) (*engine.Solution, error)
	Compare(ctx context.Context, configID string) (*Comparison, error)

	// Replay sessions
	CreateSession(ctx context.Context, req SolveRequest) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error
	Step(ctx context.Context, sessionID string, delta int) (*ReplayFrame, error)
	Reset(ctx context.Context, sessionID string) (*ReplayFrame, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.PuzzleConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.PuzzleConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(session *Session) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles puzzle configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.PuzzleConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.PuzzleConfig
	SaveConfig(name string, config *engine.PuzzleConfig) error
}

// SolveRecorder observes finished solve runs
type SolveRecorder interface {
	RecordSolve(strategy search.Strategy, sol *engine.Solution, err error)
}
