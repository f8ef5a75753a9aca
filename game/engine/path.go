package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wricardo/mcp-training/rivercrossing/game/search"
)

// ErrInvalidGoalReconstruction is returned when a path is requested without a goal.
var ErrInvalidGoalReconstruction = errors.New("path reconstruction: no goal state")

// Step is one element of a solution path. Move is nil for the start state.
type Step struct {
	Index int    `json:"index"`
	State *State `json:"state"`
	Move  Move   `json:"move,omitempty"`
}

// ReconstructPath unrolls the predecessor chain of goal into steps ordered
// from the start state to goal.
func ReconstructPath(goal *State) ([]Step, error) {
	if goal == nil {
		return nil, ErrInvalidGoalReconstruction
	}

	states := search.ReconstructPath(goal)
	steps := make([]Step, len(states))
	for i, s := range states {
		steps[i] = Step{Index: i, State: s, Move: s.Move()}
	}
	return steps, nil
}

// VerifyPath checks that steps start at the initial arrangement, end at a
// goal, and that each step is one legal crossing from the previous.
func (r *RuleSet) VerifyPath(steps []Step) error {
	if len(steps) == 0 {
		return errors.New("path is empty")
	}
	if !steps[0].State.Equal(r.initial) {
		return fmt.Errorf("path starts at %s, not the initial state", steps[0].State)
	}
	for i := 1; i < len(steps); i++ {
		if !r.IsTransition(steps[i-1].State, steps[i].State) {
			return fmt.Errorf("step %d: %s is not reachable from %s", i, steps[i].State, steps[i-1].State)
		}
	}
	if last := steps[len(steps)-1].State; !last.IsGoal() {
		return fmt.Errorf("path ends at %s, which is not a goal", last)
	}
	return nil
}

// Describe renders a step as a sentence for display.
func (p *Puzzle) Describe(step Step) string {
	s := step.State
	if step.Move == nil {
		return fmt.Sprintf("start: %s", p.Render(s))
	}

	operator := p.config.Operator
	var b strings.Builder
	fmt.Fprintf(&b, "%d. %s", step.Index, operator)
	if len(step.Move) == 1 {
		b.WriteString(" crosses alone")
	} else {
		var carried []string
		for _, e := range step.Move {
			if e != operator {
				carried = append(carried, e)
			}
		}
		fmt.Fprintf(&b, " takes %s", strings.Join(carried, " and "))
	}
	fmt.Fprintf(&b, " to the %s bank: %s", s.Transport(), p.Render(s))
	return b.String()
}

// Render draws a state with the configured symbols, origin bank on the left.
func (p *Puzzle) Render(s *State) string {
	glyphs := func(bank []string) string {
		out := make([]string, len(bank))
		for i, e := range bank {
			out[i] = p.config.Symbol(e)
		}
		return strings.Join(out, " ")
	}
	return fmt.Sprintf("[%s] %s [%s]", glyphs(s.near), boatGlyph(s.transport), glyphs(s.far))
}
