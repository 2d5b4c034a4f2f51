// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bptree

import "iter"

// searchNode descends to the leaf whose range contains key.
// The leaf is where key is or would be; it need not hold key.
func (tree *Tree[K, V]) searchNode(key K) *node[K, V] {
	n := tree.root
	for !n.isLeaf() {
		n = n.nodes[n.locate(key)]
	}
	return n
}

// Search returns the payload stored under key.
// found is false when key is absent.
func (tree *Tree[K, V]) Search(key K) (val V, found bool) {
	leaf := tree.searchNode(key)
	i, found := leaf.find(key)
	if !found {
		return
	}
	return leaf.vals[i], true
}

// Contains reports whether key is present.
func (tree *Tree[K, V]) Contains(key K) bool {
	_, found := tree.Search(key)
	return found
}

// RangeSearch returns the payloads of every key in [low, high] in key order.
// An empty or inverted range yields nil.
func (tree *Tree[K, V]) RangeSearch(low, high K) (vals []V) {
	for _, val := range tree.Scan(low, high) {
		vals = append(vals, val)
	}
	return
}

// Scan yields every key in [low, high] with its payload, walking the leaf chain
// from the leaf that would hold low and stopping at the first key above high.
func (tree *Tree[K, V]) Scan(low, high K) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if high < low {
			return
		}
		leaf := tree.searchNode(low)
		i, _ := leaf.find(low)
		for ; leaf != nil; leaf, i = leaf.next, 0 {
			for ; i < len(leaf.keys); i++ {
				if leaf.keys[i] > high {
					return
				}
				if !yield(leaf.keys[i], leaf.vals[i]) {
					return
				}
			}
		}
	}
}

// All yields every key with its payload in ascending order.
func (tree *Tree[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for leaf := tree.root.firstLeaf(); leaf != nil; leaf = leaf.next {
			for i := range leaf.keys {
				if !yield(leaf.keys[i], leaf.vals[i]) {
					return
				}
			}
		}
	}
}
