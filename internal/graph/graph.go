// Package graph implements a weighted directed graph backed by a dense
// adjacency matrix.
//
// Nodes are identified by dense integer ids assigned in insertion order
// (0, 1, ..., Size()-1). Ids are never reused or renumbered because nodes
// cannot be deleted. Each node carries an integer value and a payload of
// type P. The graph holds payloads by reference only; their lifetime is
// managed by whoever created them.
//
// Edge weights are positive integers. A zero matrix entry means "no edge".
//
// A Graph is not safe for concurrent use. Callers that share a Graph across
// goroutines must serialize access themselves.
package graph

const (
	initialCapacity = 10
	growthFactor    = 2
	noEdge          = 0
)

// NodeID identifies a node within a single Graph.
type NodeID = int

// Node is a snapshot of a node record.
type Node[P any] struct {
	ID      NodeID
	Value   int
	Payload P
}

// Graph is a weighted directed graph over payloads of type P.
type Graph[P any] struct {
	nodes    []Node[P]
	matrix   []int // capacity*capacity, row-major
	size     int
	capacity int
}

// New returns an empty graph with the default initial capacity.
func New[P any]() *Graph[P] {
	return NewWithCapacity[P](initialCapacity)
}

// NewWithCapacity returns an empty graph with room for n nodes before the
// first growth. Non-positive n falls back to the default.
func NewWithCapacity[P any](n int) *Graph[P] {
	if n <= 0 {
		n = initialCapacity
	}
	return &Graph[P]{
		nodes:    make([]Node[P], n),
		matrix:   make([]int, n*n),
		capacity: n,
	}
}

// Size returns the number of nodes.
func (g *Graph[P]) Size() int { return g.size }

// Capacity returns the number of node slots currently allocated.
func (g *Graph[P]) Capacity() int { return g.capacity }

// AddNode appends a node and returns its id. The node table and matrix
// double in capacity when full.
func (g *Graph[P]) AddNode(value int, payload P) NodeID {
	if g.size == g.capacity {
		g.grow(g.capacity * growthFactor)
	}

	id := g.size
	g.nodes[id] = Node[P]{ID: id, Value: value, Payload: payload}
	g.size++
	return id
}

// grow reallocates the node table and matrix with newCap slots. Existing
// nodes and the size×size block of edges are copied into fresh storage and
// only then swapped in, so a failed allocation leaves g unchanged.
func (g *Graph[P]) grow(newCap int) {
	nodes := make([]Node[P], newCap)
	copy(nodes, g.nodes[:g.size])

	matrix := make([]int, newCap*newCap)
	for i := 0; i < g.size; i++ {
		copy(matrix[i*newCap:i*newCap+g.size], g.matrix[i*g.capacity:i*g.capacity+g.size])
	}

	g.nodes = nodes
	g.matrix = matrix
	g.capacity = newCap
}

// Node returns a copy of the node record for id.
func (g *Graph[P]) Node(id NodeID) (Node[P], error) {
	if err := g.checkID(id); err != nil {
		return Node[P]{}, err
	}
	return g.nodes[id], nil
}

// Value returns the integer value stored with id.
func (g *Graph[P]) Value(id NodeID) (int, error) {
	if err := g.checkID(id); err != nil {
		return 0, err
	}
	return g.nodes[id].Value, nil
}

// NodeData returns the payload associated with id.
func (g *Graph[P]) NodeData(id NodeID) (P, error) {
	if err := g.checkID(id); err != nil {
		var zero P
		return zero, err
	}
	return g.nodes[id].Payload, nil
}

// SetNodeData replaces the payload of id. If release is non-nil it is called
// with the previous payload before the new one is installed.
func (g *Graph[P]) SetNodeData(id NodeID, payload P, release func(P)) error {
	if err := g.checkID(id); err != nil {
		return err
	}
	if release != nil {
		release(g.nodes[id].Payload)
	}
	g.nodes[id].Payload = payload
	return nil
}

func (g *Graph[P]) checkID(id NodeID) error {
	if id < 0 || id >= g.size {
		return invalidID(id, g.size)
	}
	return nil
}

func (g *Graph[P]) weight(src, dst NodeID) int {
	return g.matrix[src*g.capacity+dst]
}
