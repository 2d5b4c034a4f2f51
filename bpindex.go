// Package bpindex defines the shared vocabulary of the in-memory B+ tree index:
// error kinds, bulk-load distribution policies, leaf traversal orders, and the
// Index surface consumed by drivers.
//
// The tree itself lives in package bptree.
package bpindex

import (
	"cmp"
	"fmt"
)

// Index is the surface external drivers are written against.
// The *bptree.Tree type satisfies this interface.
//
// Implementations are single-threaded and not reentrant.
type Index[K cmp.Ordered, V any] interface {
	// Insert stores val under key, replacing the payload of an existing key.
	Insert(key K, val V)

	// Delete removes key. A miss is reported as ErrKeyNotFound and leaves
	// the index untouched.
	Delete(key K) error

	// Search returns the payload stored under key.
	Search(key K) (val V, found bool)

	// RangeSearch returns the payloads of every key in [low, high], in key order.
	RangeSearch(low, high K) []V

	// Validate re-derives every structural invariant.
	// It returns nil or an error wrapping ErrStructuralViolation.
	Validate() error

	// Height returns the number of levels above the leaves (0 for a single leaf).
	Height() int

	// LeafKeys returns every key in leaf order, gathered by the given traversal.
	LeafKeys(order Traversal) []K
}

// Distribution selects how the bulk loader fills nodes.
type Distribution uint8

const (
	// Dense packs every node to its maximum occupancy.
	Dense Distribution = iota + 1
	// Sparse fills every node to its minimum occupancy.
	Sparse
)

func (d Distribution) String() string {
	switch d {
	case Dense:
		return "dense"
	case Sparse:
		return "sparse"
	}
	return fmt.Sprintf("distribution(%d)", uint8(d))
}

// Valid reports whether d names a known policy.
func (d Distribution) Valid() bool {
	return d == Dense || d == Sparse
}

// ParseDistribution maps "dense" or "sparse" to its Distribution.
func ParseDistribution(s string) (Distribution, error) {
	switch s {
	case "dense":
		return Dense, nil
	case "sparse":
		return Sparse, nil
	}
	return 0, fmt.Errorf("%w: unknown distribution %q", ErrInvalidConfiguration, s)
}

// Traversal selects how LeafKeys reaches the leaves.
type Traversal uint8

const (
	// Sequential follows the leaf chain from the first leaf.
	Sequential Traversal = iota
	// TopDown walks the tree from the root, left to right.
	TopDown
)

func (t Traversal) String() string {
	switch t {
	case Sequential:
		return "sequential"
	case TopDown:
		return "topdown"
	}
	return fmt.Sprintf("traversal(%d)", uint8(t))
}
