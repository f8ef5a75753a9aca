package engine

import (
	"time"

	"github.com/wricardo/mcp-training/rivercrossing/game/search"
)

// Puzzle binds a validated configuration to its rule set.
type Puzzle struct {
	config *PuzzleConfig
	rules  *RuleSet
}

// NewPuzzle creates a new puzzle with the provided configuration
func NewPuzzle(config *PuzzleConfig) (*Puzzle, error) {
	rules, err := NewRuleSet(config)
	if err != nil {
		return nil, err
	}
	return &Puzzle{config: config, rules: rules}, nil
}

// NewPuzzleWithDefaults creates a new puzzle with the classic configuration
func NewPuzzleWithDefaults() *Puzzle {
	config := DefaultPuzzleConfig()
	return &Puzzle{config: config, rules: newRuleSet(config)}
}

// Config returns the puzzle configuration.
func (p *Puzzle) Config() *PuzzleConfig { return p.config }

// Rules returns the puzzle rule set.
func (p *Puzzle) Rules() *RuleSet { return p.rules }

// Initial returns the start state.
func (p *Puzzle) Initial() *State { return p.rules.Initial() }

// Solution is the outcome of one solve run.
type Solution struct {
	Puzzle      string          `json:"puzzle"`
	Strategy    search.Strategy `json:"strategy"`
	Heuristic   string          `json:"heuristic,omitempty"`
	Found       bool            `json:"found"`
	Cost        int             `json:"cost"`
	Steps       []Step          `json:"steps"`
	Expanded    int             `json:"expanded"`
	Generated   int             `json:"generated"`
	MaxFrontier int             `json:"max_frontier"`
	Duration    time.Duration   `json:"duration_ns"`
}

// Moves returns the crossings of the solution in order.
func (s *Solution) Moves() []Move {
	var moves []Move
	for _, step := range s.Steps {
		if step.Move != nil {
			moves = append(moves, step.Move)
		}
	}
	return moves
}

// Goal returns the final state of a found solution, nil otherwise.
func (s *Solution) Goal() *State {
	if !s.Found || len(s.Steps) == 0 {
		return nil
	}
	return s.Steps[len(s.Steps)-1].State
}

// Solve searches for a solution with strategy. heuristic names the A*
// heuristic and is ignored by BFS and DFS; the empty name falls back to the
// configured heuristic and then to DefaultHeuristic.
//
// When no solution exists the returned Solution carries the run statistics
// and the error wraps search.ErrNotFound. The same holds for
// search.ErrExpansionLimit and context errors.
func (p *Puzzle) Solve(strategy search.Strategy, heuristic string, opts ...search.Option) (*Solution, error) {
	var h search.Heuristic[*State]
	name := ""
	if strategy == search.AStar {
		name = heuristic
		if name == "" {
			name = p.config.Heuristic
		}
		if name == "" {
			name = DefaultHeuristic
		}
		var err error
		if h, err = HeuristicByName(name); err != nil {
			return nil, err
		}
	}

	started := time.Now()
	res, err := search.Search(strategy, p.rules.Initial(), p.rules, h, opts...)
	if res == nil {
		return nil, err
	}

	sol := &Solution{
		Puzzle:      p.config.Name,
		Strategy:    strategy,
		Heuristic:   name,
		Found:       res.Found,
		Expanded:    res.Expanded,
		Generated:   res.Generated,
		MaxFrontier: res.MaxFrontier,
		Duration:    time.Since(started),
	}
	if err != nil {
		return sol, err
	}

	steps, err := ReconstructPath(res.Goal)
	if err != nil {
		return sol, err
	}
	sol.Steps = steps
	sol.Cost = res.Goal.Cost()
	return sol, nil
}
