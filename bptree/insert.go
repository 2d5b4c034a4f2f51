// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bptree

import "go.uber.org/zap"

// Insert stores val under key. An existing key has its payload replaced in
// place; a new key may split nodes up to the root, growing the tree by one level.
func (tree *Tree[K, V]) Insert(key K, val V) {
	leaf := tree.searchNode(key)
	if i, found := leaf.find(key); found {
		leaf.vals[i] = val
		return
	}

	tree.insertAtHeight(&entry[K, V]{key: key, val: val}, 0)
	tree.count++

	if tree.root.isOverflow() {
		tree.grow()
	}
	assertValid("Insert", tree)
}

// insertAtHeight places e into the node at height target on the path towards
// e.key: a payload into a leaf at height 0, a child right of e.key above.
// Children that overflow on the way back up are split, and the new sibling is
// spliced into their parent. An overflowing root is left to the caller.
func (tree *Tree[K, V]) insertAtHeight(e *entry[K, V], target int) {
	if target < 0 || target > tree.high {
		illegal("insert", "height %d outside [0, %d]", target, tree.high)
	}
	var path Level[K, V]
	n := path.descend(tree.root, tree.high, target, e.key)
	n.insert(n.locate(e.key), e)

	for h := len(path) - 1; h >= 0; h-- {
		parent, i := path[h].Node, path[h].Index
		child := parent.nodes[i]
		if !child.isOverflow() {
			return
		}
		sep, right := child.split()
		if ce := tree.log.Check(zap.DebugLevel, "split"); ce != nil {
			ce.Write(
				zap.Int("height", tree.high-h-1),
				zap.Any("separator", sep),
				zap.Int("left", len(child.keys)),
				zap.Int("right", len(right.keys)),
			)
		}
		parent.insert(i, &entry[K, V]{key: sep, node: right})
	}
}

// grow splits the overflowing root and installs a new root above the halves.
func (tree *Tree[K, V]) grow() {
	left := tree.root
	sep, right := left.split()
	root := newBranch(tree.table, []K{sep}, []*node[K, V]{left, right})
	root.root = true
	tree.root = root
	tree.high++
	if ce := tree.log.Check(zap.DebugLevel, "root split"); ce != nil {
		ce.Write(zap.Int("height", tree.high), zap.Any("separator", sep))
	}
}
