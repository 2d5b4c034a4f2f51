//go:build !debug

package bptree

import "cmp"

// assertValid is a no-op in production.
// Enable with -tags debug to re-validate the whole tree after every mutation.
func assertValid[K cmp.Ordered, V any](string, *Tree[K, V]) {}
