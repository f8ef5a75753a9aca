package engine

// abstractConfig is the classic puzzle with abstract names: operator O and
// entities A, B, C where {A,B} and {B,C} conflict without O.
func abstractConfig() *PuzzleConfig {
	return &PuzzleConfig{
		Name:       "abstract",
		Operator:   "O",
		Entities:   []string{"O", "A", "B", "C"},
		Companions: []string{"A", "B", "C"},
		Conflicts:  [][]string{{"A", "B"}, {"B", "C"}},
	}
}

// triangleConfig has three mutually conflicting companions and no solution.
func triangleConfig() *PuzzleConfig {
	return &PuzzleConfig{
		Name:       "triangle",
		Operator:   "F",
		Entities:   []string{"F", "A", "B", "C"},
		Companions: []string{"A", "B", "C"},
		Conflicts:  [][]string{{"A", "B"}, {"B", "C"}, {"A", "C"}},
	}
}

func mustRules(cfg *PuzzleConfig) *RuleSet {
	r, err := NewRuleSet(cfg)
	if err != nil {
		panic(err)
	}
	return r
}

func moveStrings(moves []Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	return out
}
