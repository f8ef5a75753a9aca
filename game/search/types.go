package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for search execution.
var (
	// ErrNotFound is returned when the frontier is exhausted without reaching a goal.
	// It is a normal outcome; callers must check it before reconstructing a path.
	ErrNotFound = errors.New("search: no solution found")

	// ErrInvalidGoal is returned when a path is requested from a result without a goal.
	ErrInvalidGoal = errors.New("search: no goal to reconstruct a path from")

	// ErrUnknownStrategy is returned for strategies outside BFS, DFS and AStar.
	ErrUnknownStrategy = errors.New("search: unknown strategy")

	// ErrNilExpander is returned when no successor function is supplied.
	ErrNilExpander = errors.New("search: expander is nil")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("search: invalid option supplied")

	// ErrExpansionLimit is returned when WithMaxExpansions stops a run early.
	ErrExpansionLimit = errors.New("search: expansion limit reached")
)

// Node is a search state. Key identifies the node for deduplication and must
// ignore path-dependent data such as cost and predecessor. Parent returns the
// node this one was generated from, and false for the start node.
type Node[S any] interface {
	Key() string
	IsGoal() bool
	PathCost() int
	Parent() (S, bool)
}

// Expander produces the successors of a node in a fixed, deterministic order.
type Expander[S any] interface {
	Successors(s S) []S
}

// ExpanderFunc adapts a plain function to the Expander interface.
type ExpanderFunc[S any] func(s S) []S

// Successors calls f(s).
func (f ExpanderFunc[S]) Successors(s S) []S { return f(s) }

// Heuristic estimates the remaining cost from a node to the nearest goal.
// It must return a non-negative value; A* is optimal only when it never
// overestimates.
type Heuristic[S any] func(s S) int

// Strategy selects the frontier discipline of a search run.
type Strategy int

const (
	// BFS expands nodes in non-decreasing depth order.
	BFS Strategy = iota + 1
	// DFS expands the most recently generated node first.
	DFS
	// AStar expands the node with the lowest cost-plus-heuristic first.
	AStar
)

// Strategies lists every supported strategy in a stable order.
func Strategies() []Strategy {
	return []Strategy{BFS, DFS, AStar}
}

// String returns the canonical lowercase name of the strategy.
func (s Strategy) String() string {
	switch s {
	case BFS:
		return "bfs"
	case DFS:
		return "dfs"
	case AStar:
		return "astar"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// Valid reports whether s is one of the supported strategies.
func (s Strategy) Valid() bool {
	return s == BFS || s == DFS || s == AStar
}

// ParseStrategy resolves a strategy name. Matching is case-insensitive and
// accepts "a*" and "a-star" as spellings of astar.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bfs", "breadth-first":
		return BFS, nil
	case "dfs", "depth-first":
		return DFS, nil
	case "astar", "a*", "a-star":
		return AStar, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Option configures a search run via functional arguments.
// An invalid Option is recorded and surfaced as ErrOptionViolation
// when Search is invoked.
type Option func(*Options)

// Options holds parameters and callbacks for a search run.
type Options struct {
	// Ctx allows cancellation and deadlines; checked once per loop iteration.
	Ctx context.Context

	// MaxExpansions, if > 0, stops the run with ErrExpansionLimit when a
	// non-goal node is popped after that many expansions. A goal popped at
	// the limit is still returned.
	MaxExpansions int

	// OnExpand is called before a node's successors are generated.
	OnExpand func(key string, cost int)

	// OnGenerate is called for every successor pushed onto the frontier.
	OnGenerate func(key string, cost int)

	err error
}

// DefaultOptions returns Options with a background context, no expansion
// limit and no-op hooks.
func DefaultOptions() Options {
	return Options{
		Ctx:        context.Background(),
		OnExpand:   func(string, int) {},
		OnGenerate: func(string, int) {},
	}
}

// WithContext sets a context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithMaxExpansions bounds the number of expansions.
//
//	n > 0: stop after n expansions
//	n == 0: no limit
//	n < 0: invalid option → ErrOptionViolation
func WithMaxExpansions(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: MaxExpansions cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxExpansions = n
	}
}

// WithOnExpand registers a callback run on every expansion.
func WithOnExpand(fn func(key string, cost int)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnExpand = fn
		}
	}
}

// WithOnGenerate registers a callback run for every generated successor.
func WithOnGenerate(fn func(key string, cost int)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnGenerate = fn
		}
	}
}
