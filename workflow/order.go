package workflow

import "container/heap"

type intMinHeap []int

func (h intMinHeap) Len() int           { return len(h) }
func (h intMinHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intMinHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *intMinHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *intMinHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// topoOrder returns all node ids in topological order. Among nodes that are
// ready at the same time the one inserted first wins. Callers hold g.mu.
func (g *Graph) topoOrder() ([]string, error) {
	indeg := make(map[string]int, len(g.order))
	for _, id := range g.order {
		for _, s := range g.succ[id] {
			indeg[s]++
		}
	}

	ready := &intMinHeap{}
	for i, id := range g.order {
		if indeg[id] == 0 {
			heap.Push(ready, i)
		}
	}

	out := make([]string, 0, len(g.order))
	for ready.Len() > 0 {
		id := g.order[heap.Pop(ready).(int)]
		out = append(out, id)
		for _, s := range g.succ[id] {
			indeg[s]--
			if indeg[s] == 0 {
				heap.Push(ready, g.index[s])
			}
		}
	}
	if len(out) != len(g.order) {
		return nil, cycleError(g.findCycle())
	}
	return out, nil
}

// findCycle extracts one cycle path by depth first search in insertion order.
func (g *Graph) findCycle() []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[string]int, len(g.order))
	parent := make(map[string]string, len(g.order))

	var cycle []string

	var dfs func(u string) bool
	dfs = func(u string) bool {
		color[u] = gray
		for _, v := range g.succ[u] {
			switch color[v] {
			case white:
				parent[v] = u
				if dfs(v) {
					return true
				}
			case gray:
				// back edge u -> v closes v ... u -> v
				cycle = append(cycle, v)
				for cur := u; cur != v; cur = parent[cur] {
					cycle = append(cycle, cur)
				}
				cycle = append(cycle, v)
				return true
			}
		}
		color[u] = black
		return false
	}

	for _, id := range g.order {
		if color[id] == white && dfs(id) {
			break
		}
	}

	for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
		cycle[i], cycle[j] = cycle[j], cycle[i]
	}
	return cycle
}

// descendants returns seeds plus everything reachable from them. Callers hold g.mu.
func (g *Graph) descendants(seeds []string) map[string]struct{} {
	seen := make(map[string]struct{}, len(g.order))
	stack := append([]string(nil), seeds...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		stack = append(stack, g.succ[id]...)
	}
	return seen
}

// sources returns the nodes without incoming edges in insertion order.
func (g *Graph) sources() []string {
	hasPred := make(map[string]bool, len(g.order))
	for _, id := range g.order {
		for _, s := range g.succ[id] {
			hasPred[s] = true
		}
	}
	var out []string
	for _, id := range g.order {
		if !hasPred[id] {
			out = append(out, id)
		}
	}
	return out
}
