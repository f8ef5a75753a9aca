package search_test

// testNode is a minimal search.Node over string identifiers.
type testNode struct {
	id     string
	cost   int
	parent *testNode
	goals  map[string]bool
}

func (n *testNode) Key() string   { return n.id }
func (n *testNode) IsGoal() bool  { return n.goals[n.id] }
func (n *testNode) PathCost() int { return n.cost }

func (n *testNode) Parent() (*testNode, bool) {
	return n.parent, n.parent != nil
}

// adjacency maps a node ID to its successor IDs, in emission order.
type adjacency map[string][]string

func (a adjacency) Successors(n *testNode) []*testNode {
	out := make([]*testNode, 0, len(a[n.id]))
	for _, id := range a[n.id] {
		out = append(out, &testNode{id: id, cost: n.cost + 1, parent: n, goals: n.goals})
	}
	return out
}

func startNode(id string, goals ...string) *testNode {
	g := make(map[string]bool, len(goals))
	for _, id := range goals {
		g[id] = true
	}
	return &testNode{id: id, goals: g}
}

func ids(path []*testNode) []string {
	out := make([]string, len(path))
	for i, n := range path {
		out[i] = n.id
	}
	return out
}
