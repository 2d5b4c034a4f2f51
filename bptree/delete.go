// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bptree

import (
	"fmt"

	"go.uber.org/zap"
)

// Delete removes key and its payload. Underflowing nodes are repaired by
// redistribution or merging; a root left with a single child is replaced by
// it, shrinking the tree by one level.
//
// A missing key is reported as ErrKeyNotFound and changes nothing.
func (tree *Tree[K, V]) Delete(key K) error {
	if _, found := tree.Search(key); !found {
		if ce := tree.log.Check(zap.DebugLevel, "delete miss"); ce != nil {
			ce.Write(zap.Any("key", key))
		}
		return fmt.Errorf("Delete %v: %w", key, ErrKeyNotFound)
	}

	tree.deleteKey(key)
	tree.count--

	if tree.root.isSingular() {
		tree.collapse()
	}
	assertValid("Delete", tree)
	return nil
}

// deleteKey removes key from its leaf, then repairs every underflowing node on
// the path bottom-up: redistribute, else merge with the right sibling, else
// merge into the left sibling.
func (tree *Tree[K, V]) deleteKey(key K) {
	var path Level[K, V]
	leaf := path.descend(tree.root, tree.high, 0, key)
	i, found := leaf.find(key)
	if !found {
		return
	}
	leaf.remove(i)

	for h := len(path) - 1; h >= 0; h-- {
		parent, i := path[h].Node, path[h].Index
		if !parent.nodes[i].isUnderflow() {
			return
		}
		tree.fix(parent, i, tree.high-h-1)
	}
}

// fix restores the minimum occupancy of child i of parent, at height high.
func (tree *Tree[K, V]) fix(parent *node[K, V], i, high int) {
	if donor := parent.redistribute(i); donor != none {
		if ce := tree.log.Check(zap.DebugLevel, "redistribute"); ce != nil {
			ce.Write(zap.Int("height", high), zap.Int("index", i), zap.Stringer("donor", donor))
		}
		return
	}
	merged := i
	if !parent.merge(i) {
		merged = i - 1
		if !parent.merge(i - 1) {
			illegal("delete", "child %d at height %d has no sibling to merge with", i, high)
		}
	}
	if ce := tree.log.Check(zap.DebugLevel, "merge"); ce != nil {
		ce.Write(zap.Int("height", high), zap.Int("index", merged))
	}
}

// collapse replaces a singular root by its only child.
func (tree *Tree[K, V]) collapse() {
	child := tree.root.nodes[0]
	tree.root.nodes[0] = nil
	child.root = true
	tree.root = child
	tree.high--
	if ce := tree.log.Check(zap.DebugLevel, "root collapse"); ce != nil {
		ce.Write(zap.Int("height", tree.high))
	}
}
