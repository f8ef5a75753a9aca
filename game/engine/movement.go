package engine

import (
	"errors"
	"fmt"
	"slices"
)

// ErrIllegalMove is returned by Apply when a move cannot be made from a state.
var ErrIllegalMove = errors.New("illegal move")

// RuleSet generates transitions for a validated puzzle configuration.
// It is read-only after construction and safe for concurrent use.
type RuleSet struct {
	operator  string
	universe  []string
	moves     []Move
	conflicts [][]string
	initial   *State
}

// NewRuleSet validates config and derives its move list and start state.
func NewRuleSet(config *PuzzleConfig) (*RuleSet, error) {
	if err := ValidatePuzzleConfig(config); err != nil {
		return nil, err
	}
	return newRuleSet(config), nil
}

// newRuleSet assumes config has passed validation.
func newRuleSet(config *PuzzleConfig) *RuleSet {
	r := &RuleSet{
		operator: config.Operator,
		universe: canonical(config.Entities),
	}

	r.moves = append(r.moves, Move{config.Operator})
	for _, c := range config.Companions {
		r.moves = append(r.moves, Move{config.Operator, c})
	}
	for _, group := range config.Conflicts {
		r.conflicts = append(r.conflicts, canonical(group))
	}

	if config.Start != nil {
		transport := config.Start.Transport
		if transport == "" {
			transport = Origin
		}
		r.initial = NewState(config.Start.Near, config.Start.Far, transport)
	} else {
		r.initial = NewState(config.Entities, nil, Origin)
	}
	return r
}

// Operator returns the entity that accompanies every crossing.
func (r *RuleSet) Operator() string { return r.operator }

// Universe returns every entity in sorted order.
func (r *RuleSet) Universe() []string { return slices.Clone(r.universe) }

// Moves returns the move list in generation order: the operator alone, then
// the operator with each companion.
func (r *RuleSet) Moves() []Move {
	out := make([]Move, len(r.moves))
	for i, m := range r.moves {
		out[i] = slices.Clone(m)
	}
	return out
}

// Initial returns the start state.
func (r *RuleSet) Initial() *State { return r.initial }

// IsSafe reports whether a bank can be left as is. A bank is unsafe when the
// operator is absent and two or more members of one conflict group remain.
func (r *RuleSet) IsSafe(bank []string) bool {
	if slices.Contains(bank, r.operator) {
		return true
	}
	for _, group := range r.conflicts {
		present := 0
		for _, e := range group {
			if slices.Contains(bank, e) {
				present++
			}
		}
		if present >= 2 {
			return false
		}
	}
	return true
}

// Successors returns every safe state reachable from s in one crossing,
// in move-list order.
func (r *RuleSet) Successors(s *State) []*State {
	var out []*State
	for _, m := range r.moves {
		next := cross(s, m)
		if next == nil {
			continue
		}
		if r.IsSafe(next.near) && r.IsSafe(next.far) {
			out = append(out, next)
		}
	}
	return out
}

// Apply makes a single crossing from s. It returns ErrIllegalMove when the
// move is not in the move list, its entities are not all on the boat's bank,
// or either bank would be left unsafe.
func (r *RuleSet) Apply(s *State, move Move) (*State, error) {
	idx := slices.IndexFunc(r.moves, move.Equal)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s is not an allowed crossing", ErrIllegalMove, move)
	}
	m := r.moves[idx]

	next := cross(s, m)
	if next == nil {
		return nil, fmt.Errorf("%w: %s not all on the %s bank", ErrIllegalMove, m, s.transport)
	}
	if !r.IsSafe(next.near) {
		return nil, fmt.Errorf("%w: %s leaves the origin bank unsafe", ErrIllegalMove, m)
	}
	if !r.IsSafe(next.far) {
		return nil, fmt.Errorf("%w: %s leaves the destination bank unsafe", ErrIllegalMove, m)
	}
	return next, nil
}

// IsTransition reports whether to is reachable from from in one legal crossing.
func (r *RuleSet) IsTransition(from, to *State) bool {
	if from == nil || to == nil {
		return false
	}
	for _, next := range r.Successors(from) {
		if next.Equal(to) {
			return true
		}
	}
	return false
}

// cross moves the entities of m to the opposite bank and flips the boat.
// It returns nil when any entity of m is not on the boat's bank.
func cross(s *State, m Move) *State {
	from, to := s.near, s.far
	if s.transport == Destination {
		from, to = s.far, s.near
	}
	for _, e := range m {
		if !slices.Contains(from, e) {
			return nil
		}
	}

	remaining := make([]string, 0, len(from))
	for _, e := range from {
		if !slices.Contains(m, e) {
			remaining = append(remaining, e)
		}
	}
	arrived := canonical(append(slices.Clone(to), m...))

	near, far := remaining, arrived
	if s.transport == Destination {
		near, far = arrived, remaining
	}
	return newState(near, far, s.transport.Opposite(), s.cost+1, s, slices.Clone(m))
}
