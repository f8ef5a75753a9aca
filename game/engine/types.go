package engine

import (
	"fmt"
	"strings"
)

// Side identifies a river bank.
type Side string

const (
	Origin      Side = "origin"
	Destination Side = "destination"

	// Validation constants
	MinEntities = 1
	MaxEntities = 20
)

// Opposite returns the other bank.
func (s Side) Opposite() Side {
	if s == Origin {
		return Destination
	}
	return Origin
}

// Valid reports whether s names a bank.
func (s Side) Valid() bool {
	return s == Origin || s == Destination
}

// ParseSide resolves a bank name. "left"/"near" and "right"/"far" are accepted
// as aliases.
func ParseSide(name string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "origin", "left", "near":
		return Origin, nil
	case "destination", "right", "far":
		return Destination, nil
	default:
		return "", fmt.Errorf("unknown side %q", name)
	}
}

// Move lists the entities carried by one crossing, operator first.
type Move []string

// String renders the move as its entities joined by "+".
func (m Move) String() string {
	return strings.Join(m, "+")
}

// Equal reports whether m and o carry the same entities, in any order.
func (m Move) Equal(o Move) bool {
	if len(m) != len(o) {
		return false
	}
	seen := make(map[string]int, len(m))
	for _, e := range m {
		seen[e]++
	}
	for _, e := range o {
		if seen[e] == 0 {
			return false
		}
		seen[e]--
	}
	return true
}

// StartConfig describes a custom initial arrangement.
type StartConfig struct {
	Near      []string `json:"near" yaml:"near"`
	Far       []string `json:"far" yaml:"far"`
	Transport Side     `json:"transport" yaml:"transport"`
}

// PuzzleConfig represents the puzzle configuration from JSON or YAML
type PuzzleConfig struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	Operator    string            `json:"operator" yaml:"operator"`
	Entities    []string          `json:"entities" yaml:"entities"`
	Companions  []string          `json:"companions" yaml:"companions"`
	Conflicts   [][]string        `json:"conflicts" yaml:"conflicts"`
	Start       *StartConfig      `json:"start,omitempty" yaml:"start,omitempty"`
	Symbols     map[string]string `json:"symbols,omitempty" yaml:"symbols,omitempty"`
	Heuristic   string            `json:"heuristic,omitempty" yaml:"heuristic,omitempty"`
}

// Symbol returns the display glyph for entity, or the entity name itself.
func (c *PuzzleConfig) Symbol(entity string) string {
	if s, ok := c.Symbols[entity]; ok && s != "" {
		return s
	}
	return entity
}
