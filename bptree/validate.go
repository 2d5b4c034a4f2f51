// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bptree

import (
	"cmp"
	"fmt"
	"strings"
)

// Invariant names one structural property of a tree.
type Invariant uint8

const (
	RoleTag Invariant = iota + 1
	KeyCount
	ChildCount
	KeyOrder
	PayloadAlignment
	LeafDepth
	Bracketing
	LeafChain
	KeyTotal
)

func (inv Invariant) String() string {
	switch inv {
	case RoleTag:
		return "role tag"
	case KeyCount:
		return "key count"
	case ChildCount:
		return "child count"
	case KeyOrder:
		return "key order"
	case PayloadAlignment:
		return "payload alignment"
	case LeafDepth:
		return "leaf depth"
	case Bracketing:
		return "bracketing"
	case LeafChain:
		return "leaf chain"
	case KeyTotal:
		return "key total"
	}
	return fmt.Sprintf("invariant(%d)", uint8(inv))
}

// Violation describes the first broken invariant found by Validate.
// Path lists the child indexes taken from the root; the root has an empty path.
type Violation struct {
	Invariant Invariant
	Path      []int
	Height    int
	Expected  string
	Actual    string
}

func (v *Violation) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s at /", ErrStructuralViolation, v.Invariant)
	for i, index := range v.Path {
		if i > 0 {
			b.WriteByte('/')
		}
		fmt.Fprint(&b, index)
	}
	fmt.Fprintf(&b, " (height %d): expected %s, got %s", v.Height, v.Expected, v.Actual)
	return b.String()
}

func (v *Violation) Unwrap() error {
	return ErrStructuralViolation
}

// IsValid reports whether Validate finds nothing.
func (tree *Tree[K, V]) IsValid() bool {
	return tree.Validate() == nil
}

// Validate re-derives every structural invariant from scratch and returns
// the first violation as a *Violation, or nil.
//
// Shape is checked first (roles, counts, payload alignment, leaf depth), then
// key order and separator bracketing, then the leaf chain. Later phases assume
// the shape is sound.
func (tree *Tree[K, V]) Validate() error {
	leaves, v := tree.validateShape()
	if v != nil {
		return v
	}
	if v = tree.validateOrder(); v != nil {
		return v
	}
	return tree.validateChain(leaves)
}

type frame[K cmp.Ordered, V any] struct {
	node  *node[K, V]
	path  []int
	depth int
}

func (tree *Tree[K, V]) validateShape() (leaves []*node[K, V], v *Violation) {
	if tree.root == nil {
		return nil, &Violation{Invariant: RoleTag, Height: tree.high, Expected: "a root", Actual: "nil"}
	}
	total := 0
	stack := []frame[K, V]{{node: tree.root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n, high := f.node, tree.high-f.depth
		violate := func(inv Invariant, expected, actual any) *Violation {
			return &Violation{
				Invariant: inv,
				Path:      f.path,
				Height:    high,
				Expected:  fmt.Sprint(expected),
				Actual:    fmt.Sprint(actual),
			}
		}

		if n.table != tree.table {
			actual := "no table"
			if n.table != nil {
				actual = fmt.Sprintf("order %d", n.table.Order)
			}
			return nil, violate(RoleTag, fmt.Sprintf("order %d", tree.table.Order), actual)
		}
		if isRoot := f.depth == 0; n.root != isRoot {
			return nil, violate(RoleTag, fmt.Sprintf("root=%t", isRoot), fmt.Sprintf("root=%t", n.root))
		}
		if n.isLeaf() != (high == 0) {
			expected, actual := "branch", "leaf"
			if high == 0 {
				expected, actual = actual, expected
			}
			return nil, violate(LeafDepth, expected, actual)
		}

		b := n.bounds()
		if count := len(n.keys); count < b.MinKeys || count > b.MaxKeys {
			return nil, violate(KeyCount, fmt.Sprintf("%s %s", n.role(), b), count)
		}

		if n.isLeaf() {
			if len(n.vals) != len(n.keys) {
				return nil, violate(PayloadAlignment, fmt.Sprintf("%d payloads", len(n.keys)), len(n.vals))
			}
			if len(n.nodes) != 0 {
				return nil, violate(ChildCount, "no children", len(n.nodes))
			}
			total += len(n.keys)
			leaves = append(leaves, n)
			continue
		}

		if len(n.vals) != 0 {
			return nil, violate(PayloadAlignment, "no payloads", len(n.vals))
		}
		if children := len(n.nodes); children != len(n.keys)+1 {
			return nil, violate(ChildCount, fmt.Sprintf("%d children for %d keys", len(n.keys)+1, len(n.keys)), children)
		}
		if children := len(n.nodes); children < b.MinChildren || children > b.MaxChildren {
			return nil, violate(ChildCount, fmt.Sprintf("%s %s", n.role(), b), children)
		}
		for i := len(n.nodes) - 1; i >= 0; i-- {
			if n.nodes[i] == nil {
				return nil, violate(ChildCount, fmt.Sprintf("child %d", i), "nil")
			}
			stack = append(stack, frame[K, V]{
				node:  n.nodes[i],
				path:  append(f.path[:len(f.path):len(f.path)], i),
				depth: f.depth + 1,
			})
		}
	}
	if total != tree.count {
		return nil, &Violation{Invariant: KeyTotal, Height: tree.high, Expected: fmt.Sprint(tree.count), Actual: fmt.Sprint(total)}
	}
	return leaves, nil
}

// validateOrder checks that keys ascend strictly within each node and that
// every separator keys[i] of a branch satisfies
// max(nodes[i]) < keys[i] <= min(nodes[i+1]).
func (tree *Tree[K, V]) validateOrder() *Violation {
	stack := []frame[K, V]{{node: tree.root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := f.node
		violate := func(inv Invariant, expected string, actual any) *Violation {
			return &Violation{
				Invariant: inv,
				Path:      f.path,
				Height:    tree.high - f.depth,
				Expected:  expected,
				Actual:    fmt.Sprint(actual),
			}
		}

		for i := 1; i < len(n.keys); i++ {
			if !(n.keys[i-1] < n.keys[i]) {
				return violate(KeyOrder, fmt.Sprintf("key %d above %v", i, n.keys[i-1]), n.keys[i])
			}
		}
		if n.isLeaf() {
			continue
		}

		for i, sep := range n.keys {
			if hi, ok := n.nodes[i].maxKey(); ok && !(hi < sep) {
				return violate(Bracketing, fmt.Sprintf("separator %d above left max %v", i, hi), sep)
			}
			if lo, ok := n.nodes[i+1].minKey(); ok && !(sep <= lo) {
				return violate(Bracketing, fmt.Sprintf("separator %d at most right min %v", i, lo), sep)
			}
		}
		for i := len(n.nodes) - 1; i >= 0; i-- {
			stack = append(stack, frame[K, V]{
				node:  n.nodes[i],
				path:  append(f.path[:len(f.path):len(f.path)], i),
				depth: f.depth + 1,
			})
		}
	}
	return nil
}

// validateChain walks the leaf chain from the first leaf and checks it visits
// exactly the top-down leaves, in order, and ends in nil.
func (tree *Tree[K, V]) validateChain(leaves []*node[K, V]) error {
	violate := func(expected string, actual any) error {
		return &Violation{Invariant: LeafChain, Expected: expected, Actual: fmt.Sprint(actual)}
	}

	leaf := tree.root.firstLeaf()
	for i, want := range leaves {
		if leaf == nil {
			return violate(fmt.Sprintf("%d leaves", len(leaves)), i)
		}
		if leaf != want {
			return violate(fmt.Sprintf("leaf %d in top-down order", i), "another leaf")
		}
		leaf = leaf.next
	}
	if leaf != nil {
		return violate("nil after the last leaf", "a further leaf")
	}
	return nil
}
