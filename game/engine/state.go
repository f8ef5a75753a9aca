package engine

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// State is one arrangement of entities across the river. States are
// immutable once built; successors are new values linked back through parent.
type State struct {
	near      []string
	far       []string
	transport Side
	cost      int
	parent    *State
	move      Move
	key       string
}

// NewState builds a start state with no predecessor. Bank contents are
// sorted and deduplicated.
func NewState(near, far []string, transport Side) *State {
	return newState(canonical(near), canonical(far), transport, 0, nil, nil)
}

func newState(near, far []string, transport Side, cost int, parent *State, move Move) *State {
	s := &State{
		near:      near,
		far:       far,
		transport: transport,
		cost:      cost,
		parent:    parent,
		move:      move,
	}
	s.key = stateKey(near, far, transport)
	return s
}

// stateKey encodes (near, far, transport). Entities are quoted so names
// containing separators cannot collide.
func stateKey(near, far []string, transport Side) string {
	var b strings.Builder
	for _, bank := range [][]string{near, far} {
		for i, e := range bank {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(e))
		}
		b.WriteByte('|')
	}
	b.WriteString(string(transport))
	return b.String()
}

// canonical returns a sorted copy of entities without duplicates.
func canonical(entities []string) []string {
	out := slices.Clone(entities)
	slices.Sort(out)
	return slices.Compact(out)
}

// Near returns the entities on the origin bank.
func (s *State) Near() []string { return slices.Clone(s.near) }

// Far returns the entities on the destination bank.
func (s *State) Far() []string { return slices.Clone(s.far) }

// Transport returns the bank the boat is on.
func (s *State) Transport() Side { return s.transport }

// Cost returns the number of crossings from the start state.
func (s *State) Cost() int { return s.cost }

// Move returns the entities that crossed to reach s, nil for a start state.
func (s *State) Move() Move { return slices.Clone(s.move) }

// Bank returns the entities on side.
func (s *State) Bank(side Side) []string {
	if side == Origin {
		return s.Near()
	}
	return s.Far()
}

// On reports whether entity is on side.
func (s *State) On(side Side, entity string) bool {
	bank := s.near
	if side == Destination {
		bank = s.far
	}
	_, found := slices.BinarySearch(bank, entity)
	return found
}

// Key identifies the arrangement, ignoring cost and history.
func (s *State) Key() string { return s.key }

// IsGoal reports whether the origin bank is empty.
func (s *State) IsGoal() bool { return len(s.near) == 0 }

// PathCost returns Cost; it satisfies search.Node.
func (s *State) PathCost() int { return s.cost }

// Parent returns the predecessor of s.
func (s *State) Parent() (*State, bool) {
	return s.parent, s.parent != nil
}

// Equal reports whether s and o describe the same arrangement.
func (s *State) Equal(o *State) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.key == o.key
}

func (s *State) String() string {
	return fmt.Sprintf("[%s] %s [%s] (cost %d)",
		strings.Join(s.near, " "), boatGlyph(s.transport), strings.Join(s.far, " "), s.cost)
}

func boatGlyph(side Side) string {
	if side == Origin {
		return "B~~~~"
	}
	return "~~~~B"
}

// stateView is the JSON shape of a State.
type stateView struct {
	Near      []string `json:"near"`
	Far       []string `json:"far"`
	Transport Side     `json:"transport"`
	Cost      int      `json:"cost"`
	Move      Move     `json:"move,omitempty"`
	Goal      bool     `json:"goal"`
}

// MarshalJSON renders the arrangement without the predecessor chain.
func (s *State) MarshalJSON() ([]byte, error) {
	near, far := s.near, s.far
	if near == nil {
		near = []string{}
	}
	if far == nil {
		far = []string{}
	}
	return json.Marshal(stateView{
		Near:      near,
		Far:       far,
		Transport: s.transport,
		Cost:      s.cost,
		Move:      s.move,
		Goal:      s.IsGoal(),
	})
}
