package search

import "container/heap"

// Frontier holds generated-but-not-yet-expanded nodes. Push receives the
// successors of one expansion in generation order; the frontier decides the
// order in which Pop returns them.
type Frontier[S any] interface {
	Push(items ...S)
	Pop() S
	Len() int
}

// NewFrontier returns the frontier for strategy. The heuristic is used only
// by AStar; nil means the zero heuristic.
func NewFrontier[S Node[S]](strategy Strategy, h Heuristic[S]) (Frontier[S], error) {
	switch strategy {
	case BFS:
		return &fifoQueue[S]{}, nil
	case DFS:
		return &lifoStack[S]{}, nil
	case AStar:
		if h == nil {
			h = func(S) int { return 0 }
		}
		return &priorityQueue[S]{h: h}, nil
	default:
		return nil, ErrUnknownStrategy
	}
}

// fifoQueue is a first-in-first-out queue.
type fifoQueue[S any] struct {
	items []S
}

func (q *fifoQueue[S]) Push(items ...S) { q.items = append(q.items, items...) }

func (q *fifoQueue[S]) Pop() S {
	item := q.items[0]
	var zero S
	q.items[0] = zero
	q.items = q.items[1:]
	return item
}

func (q *fifoQueue[S]) Len() int { return len(q.items) }

// lifoStack is a last-in-first-out stack. A batch is pushed in reverse so the
// first item of the batch is popped first.
type lifoStack[S any] struct {
	items []S
}

func (st *lifoStack[S]) Push(items ...S) {
	for i := len(items) - 1; i >= 0; i-- {
		st.items = append(st.items, items[i])
	}
}

func (st *lifoStack[S]) Pop() S {
	n := len(st.items)
	item := st.items[n-1]
	var zero S
	st.items[n-1] = zero
	st.items = st.items[:n-1]
	return item
}

func (st *lifoStack[S]) Len() int { return len(st.items) }

// pqEntry pairs a node with its f value and insertion sequence.
type pqEntry[S any] struct {
	item S
	f    int
	seq  uint64
}

// entryHeap is a min-heap of entries ordered by f, then seq.
type entryHeap[S any] []pqEntry[S]

func (h entryHeap[S]) Len() int { return len(h) }

func (h entryHeap[S]) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}

func (h entryHeap[S]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap[S]) Push(x any) { *h = append(*h, x.(pqEntry[S])) }

func (h *entryHeap[S]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// priorityQueue orders nodes by f = PathCost + h, breaking ties by insertion order.
// Stale duplicates are left in the heap and discarded by the visited check.
type priorityQueue[S Node[S]] struct {
	h       Heuristic[S]
	entries entryHeap[S]
	counter uint64
}

func (pq *priorityQueue[S]) Push(items ...S) {
	for _, item := range items {
		heap.Push(&pq.entries, pqEntry[S]{
			item: item,
			f:    item.PathCost() + pq.h(item),
			seq:  pq.counter,
		})
		pq.counter++
	}
}

func (pq *priorityQueue[S]) Pop() S {
	return heap.Pop(&pq.entries).(pqEntry[S]).item
}

func (pq *priorityQueue[S]) Len() int { return pq.entries.Len() }
