// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bptree

import "slices"

// split cuts an overflowing node in two. n keeps the left half, right is the
// new sibling and sep the key the parent must place between them.
//
// A leaf keeps the larger half and sep is a copy of right's first key.
// A branch promotes its middle key; sep is in neither half.
//
// Both halves lose the root overlay; installing a new root is up to the caller.
func (n *node[K, V]) split() (sep K, right *node[K, V]) {
	if !n.isOverflow() {
		illegal("split", "node has %d keys, max %d", len(n.keys), n.bounds().MaxKeys)
	}
	n.root = false

	count := len(n.keys)
	if n.isLeaf() {
		cut := (count + 1) / 2
		right = newLeaf(n.table, slices.Clone(n.keys[cut:]), slices.Clone(n.vals[cut:]))
		right.next = n.next
		n.next = right

		clear(n.keys[cut:])
		clear(n.vals[cut:])
		n.keys = n.keys[:cut]
		n.vals = n.vals[:cut]
		sep = right.keys[0]
		return
	}

	cut := count / 2
	sep = n.keys[cut]
	right = newBranch(n.table, slices.Clone(n.keys[cut+1:]), slices.Clone(n.nodes[cut+1:]))

	clear(n.keys[cut:])
	clear(n.nodes[cut+1:])
	n.keys = n.keys[:cut]
	n.nodes = n.nodes[:cut+1]
	return
}
