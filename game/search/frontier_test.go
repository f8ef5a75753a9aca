package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/rivercrossing/game/search"
)

func popAll(f search.Frontier[*testNode]) []string {
	var out []string
	for f.Len() > 0 {
		out = append(out, f.Pop().id)
	}
	return out
}

func TestFrontier_Disciplines(t *testing.T) {
	batch := func() []*testNode {
		return []*testNode{{id: "a", cost: 2}, {id: "b", cost: 1}, {id: "c", cost: 1}}
	}

	fifo, err := search.NewFrontier[*testNode](search.BFS, nil)
	require.NoError(t, err)
	fifo.Push(batch()...)
	assert.Equal(t, []string{"a", "b", "c"}, popAll(fifo))

	lifo, err := search.NewFrontier[*testNode](search.DFS, nil)
	require.NoError(t, err)
	lifo.Push(batch()...)
	lifo.Push(&testNode{id: "d"})
	assert.Equal(t, []string{"d", "a", "b", "c"}, popAll(lifo))

	pq, err := search.NewFrontier[*testNode](search.AStar, nil)
	require.NoError(t, err)
	pq.Push(batch()...)
	assert.Equal(t, []string{"b", "c", "a"}, popAll(pq))
}

func TestFrontier_PriorityUsesHeuristic(t *testing.T) {
	h := func(n *testNode) int {
		if n.id == "b" {
			return 10
		}
		return 0
	}
	pq, err := search.NewFrontier[*testNode](search.AStar, h)
	require.NoError(t, err)
	pq.Push(&testNode{id: "a", cost: 3}, &testNode{id: "b", cost: 0}, &testNode{id: "c", cost: 3})
	assert.Equal(t, []string{"a", "c", "b"}, popAll(pq))
}

func TestFrontier_UnknownStrategy(t *testing.T) {
	_, err := search.NewFrontier[*testNode](search.Strategy(42), nil)
	assert.ErrorIs(t, err, search.ErrUnknownStrategy)
}
