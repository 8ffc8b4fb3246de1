package graph

import "fmt"

// DFS returns the nodes reachable from start in depth-first pre-order.
// Successors are explored in ascending id order.
func (g *Graph[P]) DFS(start NodeID) ([]NodeID, error) {
	if err := g.checkID(start); err != nil {
		return nil, fmt.Errorf("dfs: %w", err)
	}

	visited := make([]bool, g.capacity)
	out := make([]NodeID, 0, g.size)
	g.dfs(start, visited, &out)
	return out, nil
}

func (g *Graph[P]) dfs(u NodeID, visited []bool, out *[]NodeID) {
	visited[u] = true
	*out = append(*out, u)

	for v := 0; v < g.size; v++ {
		if g.weight(u, v) > noEdge && !visited[v] {
			g.dfs(v, visited, out)
		}
	}
}

// BFS returns the nodes reachable from start in breadth-first order.
// Nodes are marked when enqueued so each is queued at most once.
func (g *Graph[P]) BFS(start NodeID) ([]NodeID, error) {
	if err := g.checkID(start); err != nil {
		return nil, fmt.Errorf("bfs: %w", err)
	}

	visited := make([]bool, g.capacity)
	out := make([]NodeID, 0, g.size)
	q := newFIFO(g.size)

	visited[start] = true
	q.push(start)

	for !q.empty() {
		u, _ := q.pop()
		out = append(out, u)

		for v := 0; v < g.size; v++ {
			if g.weight(u, v) > noEdge && !visited[v] {
				visited[v] = true
				q.push(v)
			}
		}
	}
	return out, nil
}

// PathExists reports whether dst is reachable from src. The search stops as
// soon as dst shows up among the successors of a dequeued node.
func (g *Graph[P]) PathExists(src, dst NodeID) (bool, error) {
	if err := g.checkPair(src, dst); err != nil {
		return false, fmt.Errorf("path exists: %w", err)
	}
	if src == dst {
		return true, nil
	}

	visited := make([]bool, g.capacity)
	q := newFIFO(g.size)

	visited[src] = true
	q.push(src)

	for !q.empty() {
		u, _ := q.pop()
		for v := 0; v < g.size; v++ {
			if g.weight(u, v) <= noEdge {
				continue
			}
			if v == dst {
				return true, nil
			}
			if !visited[v] {
				visited[v] = true
				q.push(v)
			}
		}
	}
	return false, nil
}
