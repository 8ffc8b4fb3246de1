package graph

import (
	"fmt"
	"math"
)

const noPredecessor = -1

// Path returns some path from src to dst with the fewest edges, found by
// breadth-first search. The result runs from src to dst inclusive.
// It returns ErrNoPath when dst is unreachable.
func (g *Graph[P]) Path(src, dst NodeID) ([]NodeID, error) {
	if err := g.checkPair(src, dst); err != nil {
		return nil, fmt.Errorf("path: %w", err)
	}
	if src == dst {
		return []NodeID{src}, nil
	}

	visited := make([]bool, g.capacity)
	pred := newPredecessors(g.capacity)
	q := newFIFO(g.size)

	visited[src] = true
	q.push(src)

	found := false
	for !found && !q.empty() {
		u, _ := q.pop()
		for v := 0; v < g.size; v++ {
			if g.weight(u, v) <= noEdge || visited[v] {
				continue
			}
			visited[v] = true
			pred[v] = u
			q.push(v)
			if v == dst {
				found = true
				break
			}
		}
	}

	if !found {
		return nil, fmt.Errorf("path: %w", noPath(src, dst))
	}
	return reconstruct(pred, dst), nil
}

// PathWeight sums the edge weights along path. Paths with fewer than two
// nodes weigh 0. It returns ErrNoEdge if two consecutive nodes are not
// connected in the current graph, and ErrInvalidID for unknown ids.
func (g *Graph[P]) PathWeight(path []NodeID) (int, error) {
	if len(path) == 0 {
		return 0, nil
	}
	if err := g.checkID(path[0]); err != nil {
		return 0, fmt.Errorf("path weight: %w", err)
	}

	total := 0
	for i := 1; i < len(path); i++ {
		u, v := path[i-1], path[i]
		if err := g.checkID(v); err != nil {
			return 0, fmt.Errorf("path weight: %w", err)
		}

		w := g.weight(u, v)
		if w <= noEdge {
			return 0, fmt.Errorf("path weight: %w between %d and %d", ErrNoEdge, u, v)
		}
		if total > math.MaxInt-w {
			return 0, fmt.Errorf("path weight: %w", ErrWeightOverflow)
		}
		total += w
	}
	return total, nil
}

// ShortestPath returns the minimum-weight path from src to dst using
// Dijkstra's algorithm over the dense matrix in O(V²).
func (g *Graph[P]) ShortestPath(src, dst NodeID) ([]NodeID, error) {
	if err := g.checkPair(src, dst); err != nil {
		return nil, fmt.Errorf("shortest path: %w", err)
	}
	if src == dst {
		return []NodeID{src}, nil
	}

	sp := g.dijkstra(src)
	if err := sp.check(src, dst); err != nil {
		return nil, fmt.Errorf("shortest path: %w", err)
	}
	return reconstruct(sp.pred, dst), nil
}

// ShortestPathWeight returns the total weight of the shortest path from src
// to dst. The weight from a node to itself is 0.
func (g *Graph[P]) ShortestPathWeight(src, dst NodeID) (int, error) {
	if err := g.checkPair(src, dst); err != nil {
		return 0, fmt.Errorf("shortest path weight: %w", err)
	}
	if src == dst {
		return 0, nil
	}

	sp := g.dijkstra(src)
	if err := sp.check(src, dst); err != nil {
		return 0, fmt.Errorf("shortest path weight: %w", err)
	}
	return sp.dist[dst], nil
}

// ShortestPathWeights returns the shortest-path weight from src to every
// node, indexed by id. Unreachable nodes are reported false in reached, and
// so are nodes whose every path from src weighs more than an int can hold.
func (g *Graph[P]) ShortestPathWeights(src NodeID) (dist []int, reached []bool, err error) {
	if err := g.checkID(src); err != nil {
		return nil, nil, fmt.Errorf("shortest path weights: %w", err)
	}

	sp := g.dijkstra(src)
	return sp.dist[:g.size], sp.reached[:g.size], nil
}

type shortestPaths struct {
	dist    []int
	reached []bool
	pred    []NodeID
	// overflow marks nodes reachable only through paths that overflow int.
	overflow []bool
}

func (sp shortestPaths) check(src, dst NodeID) error {
	switch {
	case sp.reached[dst]:
		return nil
	case sp.overflow[dst]:
		return fmt.Errorf("%w from %d to %d", ErrWeightOverflow, src, dst)
	default:
		return noPath(src, dst)
	}
}

// dijkstra computes single-source shortest paths from src. reached[v]
// replaces an "infinite" distance sentinel.
//
// A relaxation whose sum overflows is skipped rather than failing the run,
// so one huge edge only affects the destinations that depend on it.
func (g *Graph[P]) dijkstra(src NodeID) shortestPaths {
	sp := shortestPaths{
		dist:     make([]int, g.capacity),
		reached:  make([]bool, g.capacity),
		pred:     newPredecessors(g.capacity),
		overflow: make([]bool, g.capacity),
	}
	visited := make([]bool, g.capacity)

	sp.reached[src] = true

	for count := 0; count < g.size-1; count++ {
		u := -1
		for v := 0; v < g.size; v++ {
			if visited[v] || !sp.reached[v] {
				continue
			}
			if u == -1 || sp.dist[v] < sp.dist[u] {
				u = v
			}
		}
		if u == -1 {
			break
		}
		visited[u] = true

		for v := 0; v < g.size; v++ {
			w := g.weight(u, v)
			if visited[v] || w <= noEdge {
				continue
			}
			if sp.dist[u] > math.MaxInt-w {
				if !sp.reached[v] {
					sp.overflow[v] = true
				}
				continue
			}
			if d := sp.dist[u] + w; !sp.reached[v] || d < sp.dist[v] {
				sp.dist[v] = d
				sp.reached[v] = true
				sp.overflow[v] = false
				sp.pred[v] = u
			}
		}
	}

	// Everything behind an overflowed node overflows too.
	var stack []NodeID
	for v := 0; v < g.size; v++ {
		if sp.overflow[v] {
			stack = append(stack, v)
		}
	}
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for v := 0; v < g.size; v++ {
			if g.weight(u, v) <= noEdge || sp.reached[v] || sp.overflow[v] {
				continue
			}
			sp.overflow[v] = true
			stack = append(stack, v)
		}
	}
	return sp
}

func newPredecessors(n int) []NodeID {
	pred := make([]NodeID, n)
	for i := range pred {
		pred[i] = noPredecessor
	}
	return pred
}

// reconstruct walks predecessors back from dst. The source is the node
// whose predecessor is unset.
func reconstruct(pred []NodeID, dst NodeID) []NodeID {
	n := 0
	for v := dst; v != noPredecessor; v = pred[v] {
		n++
	}

	path := make([]NodeID, n)
	for v, i := dst, n-1; v != noPredecessor; v, i = pred[v], i-1 {
		path[i] = v
	}
	return path
}
