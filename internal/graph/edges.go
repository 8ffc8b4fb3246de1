package graph

import "fmt"

// AddEdge sets the weight of the directed edge src→dst, replacing any
// previous weight. Self-loops are allowed.
func (g *Graph[P]) AddEdge(src, dst NodeID, weight int) error {
	if err := g.checkPair(src, dst); err != nil {
		return fmt.Errorf("add edge: %w", err)
	}
	if weight <= noEdge {
		return fmt.Errorf("add edge %d->%d: %w (got %d)", src, dst, ErrInvalidWeight, weight)
	}

	g.matrix[src*g.capacity+dst] = weight
	return nil
}

// RemoveEdge deletes the edge src→dst. Removing an absent edge succeeds.
func (g *Graph[P]) RemoveEdge(src, dst NodeID) error {
	if err := g.checkPair(src, dst); err != nil {
		return fmt.Errorf("remove edge: %w", err)
	}

	g.matrix[src*g.capacity+dst] = noEdge
	return nil
}

// EdgeWeight returns the weight of src→dst and whether the edge exists.
// A missing edge reports weight 0 and ok == false.
func (g *Graph[P]) EdgeWeight(src, dst NodeID) (weight int, ok bool, err error) {
	if err := g.checkPair(src, dst); err != nil {
		return 0, false, fmt.Errorf("edge weight: %w", err)
	}

	w := g.weight(src, dst)
	if w <= noEdge {
		return 0, false, nil
	}
	return w, true, nil
}

// Adjacent reports whether the edge src→dst exists.
func (g *Graph[P]) Adjacent(src, dst NodeID) (bool, error) {
	if err := g.checkPair(src, dst); err != nil {
		return false, fmt.Errorf("adjacent: %w", err)
	}
	return g.weight(src, dst) > noEdge, nil
}

// Neighbors returns the successors of id in ascending id order.
func (g *Graph[P]) Neighbors(id NodeID) ([]NodeID, error) {
	if err := g.checkID(id); err != nil {
		return nil, fmt.Errorf("neighbors: %w", err)
	}

	out := []NodeID{}
	for v := 0; v < g.size; v++ {
		if g.weight(id, v) > noEdge {
			out = append(out, v)
		}
	}
	return out, nil
}

// EdgeCount returns the number of directed edges.
func (g *Graph[P]) EdgeCount() int {
	n := 0
	for u := 0; u < g.size; u++ {
		for v := 0; v < g.size; v++ {
			if g.weight(u, v) > noEdge {
				n++
			}
		}
	}
	return n
}

func (g *Graph[P]) checkPair(src, dst NodeID) error {
	if err := g.checkID(src); err != nil {
		return err
	}
	return g.checkID(dst)
}
