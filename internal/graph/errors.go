package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidID reports a node id outside [0, Size()).
	ErrInvalidID = errors.New("graph: invalid node id")
	// ErrInvalidWeight reports a zero or negative edge weight.
	ErrInvalidWeight = errors.New("graph: edge weight must be positive")
	// ErrNoPath reports that the destination is unreachable from the source.
	ErrNoPath = errors.New("graph: no path")
	// ErrNoEdge reports a consecutive pair in a path with no connecting edge.
	ErrNoEdge = errors.New("graph: no edge")
	// ErrWeightOverflow reports a path whose total weight does not fit in an int.
	ErrWeightOverflow = errors.New("graph: path weight overflows int")
)

func invalidID(id NodeID, size int) error {
	return fmt.Errorf("%w: %d (size %d)", ErrInvalidID, id, size)
}

func noPath(src, dst NodeID) error {
	return fmt.Errorf("%w from %d to %d", ErrNoPath, src, dst)
}
