package search

import (
	"context"
	"fmt"
)

// Result holds the outcome of a search run:
//   - Goal: the goal node, valid only when Found is true.
//   - Expanded: nodes whose successors were generated.
//   - Generated: successors pushed onto the frontier, duplicates included.
//   - MaxFrontier: largest frontier size observed.
type Result[S Node[S]] struct {
	Strategy    Strategy
	Goal        S
	Found       bool
	Expanded    int
	Generated   int
	MaxFrontier int
}

// Path reconstructs the path from the start node to the goal.
// Returns ErrInvalidGoal if the run did not find a goal.
func (r *Result[S]) Path() ([]S, error) {
	if r == nil || !r.Found {
		return nil, ErrInvalidGoal
	}
	return ReconstructPath(r.Goal), nil
}

// ReconstructPath follows Parent links from goal back to the start node and
// returns the nodes ordered start → goal.
func ReconstructPath[S Node[S]](goal S) []S {
	path := []S{goal}
	for cur := goal; ; {
		prev, ok := cur.Parent()
		if !ok {
			break
		}
		path = append(path, prev)
		cur = prev
	}
	// reverse to get start → goal
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// walker encapsulates the mutable state of one search run.
type walker[S Node[S]] struct {
	opts     Options
	ctx      context.Context
	rules    Expander[S]
	frontier Frontier[S]
	visited  map[string]bool
	res      *Result[S]
}

// Search explores the graph implied by rules from start using strategy and
// returns the first goal node removed from the frontier.
//
// The heuristic is consulted only by AStar; nil means the zero heuristic.
// Returns ErrUnknownStrategy, ErrNilExpander or ErrOptionViolation for invalid
// input, ErrNotFound when the frontier is exhausted, ErrExpansionLimit when
// WithMaxExpansions stops the run, or the context error on cancellation.
// The Result is non-nil whenever the run started, so statistics are available
// alongside ErrNotFound.
func Search[S Node[S]](strategy Strategy, start S, rules Expander[S], h Heuristic[S], opts ...Option) (*Result[S], error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if rules == nil {
		return nil, ErrNilExpander
	}

	frontier, err := NewFrontier(strategy, h)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", err, strategy)
	}

	w := &walker[S]{
		opts:     o,
		ctx:      o.Ctx,
		rules:    rules,
		frontier: frontier,
		visited:  make(map[string]bool),
		res:      &Result[S]{Strategy: strategy},
	}

	w.frontier.Push(start)
	w.res.MaxFrontier = 1
	return w.res, w.loop()
}

// loop pops nodes until a goal is found, the frontier empties, or the run
// is stopped by cancellation or the expansion limit.
func (w *walker[S]) loop() error {
	for w.frontier.Len() > 0 {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		cur := w.frontier.Pop()
		key := cur.Key()
		if w.visited[key] {
			continue
		}
		w.visited[key] = true

		if cur.IsGoal() {
			w.res.Goal = cur
			w.res.Found = true
			return nil
		}

		if w.opts.MaxExpansions > 0 && w.res.Expanded >= w.opts.MaxExpansions {
			return fmt.Errorf("%w: %d expansions", ErrExpansionLimit, w.res.Expanded)
		}
		w.expand(cur, key)
	}
	return ErrNotFound
}

// expand generates the successors of cur and pushes them onto the frontier.
func (w *walker[S]) expand(cur S, key string) {
	w.res.Expanded++
	w.opts.OnExpand(key, cur.PathCost())

	next := w.rules.Successors(cur)
	for _, n := range next {
		w.opts.OnGenerate(n.Key(), n.PathCost())
	}
	w.res.Generated += len(next)
	w.frontier.Push(next...)

	if l := w.frontier.Len(); l > w.res.MaxFrontier {
		w.res.MaxFrontier = l
	}
}
