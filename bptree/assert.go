//go:build debug

package bptree

import "cmp"

// assertValid panics if tree no longer passes Validate.
// Only enabled with -tags debug.
func assertValid[K cmp.Ordered, V any](op string, tree *Tree[K, V]) {
	if err := tree.Validate(); err != nil {
		illegal(op, "%v", err)
	}
}
