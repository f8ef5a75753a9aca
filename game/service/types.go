package service

import (
	"time"

	"github.com/wricardo/mcp-training/rivercrossing/game/engine"
	"github.com/wricardo/mcp-training/rivercrossing/game/search"
)

// SessionInfo provides information about a replay session
type SessionInfo struct {
	ID             string           `json:"id"`
	ConfigName     string           `json:"config_name"`
	CreatedAt      time.Time        `json:"created_at"`
	LastAccessedAt time.Time        `json:"last_accessed_at"`
	Strategy       search.Strategy  `json:"strategy"`
	Heuristic      string           `json:"heuristic,omitempty"`
	Frame          *ReplayFrame     `json:"frame"`
	Solution       *engine.Solution `json:"solution"`
}

// ReplayFrame is the presentation view of one solution step
type ReplayFrame struct {
	SessionID   string      `json:"session_id"`
	Index       int         `json:"index"`
	Total       int         `json:"total"` // crossings in the solution
	Step        engine.Step `json:"step"`
	Description string      `json:"description"`
	Rendered    string      `json:"rendered"`
	Done        bool        `json:"done"`
}

// SolveRequest selects a puzzle and search strategy
type SolveRequest struct {
	ConfigID      string `json:"config_id"`
	Strategy      string `json:"strategy"`
	Heuristic     string `json:"heuristic,omitempty"`
	MaxExpansions int    `json:"max_expansions,omitempty"`
}

// Comparison lists one solution per strategy for the same puzzle
type Comparison struct {
	ConfigID    string             `json:"config_id"`
	Results     []*engine.Solution `json:"results"`
	OptimalCost int                `json:"optimal_cost"` // -1 when unsolvable
	Solvable    bool               `json:"solvable"`
}

// ConfigInfo provides information about a puzzle configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for solving and session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Operator    string `json:"operator"`
	Entities    int    `json:"entities"`
	Conflicts   int    `json:"conflicts"`
	Heuristic   string `json:"heuristic,omitempty"`
}
