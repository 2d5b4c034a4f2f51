// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bptree

import "cmp"

// Level is the path of branches from the root down to a leaf, standing in for
// the call stack of a recursive descent.
//
// level[0] is the root, level[len-1] the branch directly above the leaf.
// Each element records the branch and the index of the child taken.
// A root-only tree has an empty Level.
type Level[K cmp.Ordered, V any] []level[K, V]

type level[K cmp.Ordered, V any] struct {
	Node  *node[K, V]
	Index int
}

// child returns the node below level i.
func (l Level[K, V]) child(i int) *node[K, V] {
	return l[i].Node.nodes[l[i].Index]
}

func (l Level[K, V]) next(i int) bool {
	l[i].Index++
	if l[i].Index < len(l[i].Node.nodes) {
		return true
	}
	l[i].Index--
	return false
}

func (l Level[K, V]) prev(i int) bool {
	if l[i].Index == 0 {
		return false
	}
	l[i].Index--
	return true
}

// descend walks from n towards key until it reaches height target,
// appending every branch passed to l. Returns the node reached.
func (l *Level[K, V]) descend(n *node[K, V], high, target int, key K) *node[K, V] {
	for ; high > target; high-- {
		i := n.locate(key)
		*l = append(*l, level[K, V]{Node: n, Index: i})
		n = n.nodes[i]
	}
	return n
}

// seekFirst walks the leftmost path below n, appending every branch passed.
func (l *Level[K, V]) seekFirst(n *node[K, V]) *node[K, V] {
	for !n.isLeaf() {
		*l = append(*l, level[K, V]{Node: n, Index: 0})
		n = n.nodes[0]
	}
	return n
}

// seekLast walks the rightmost path below n, appending every branch passed.
func (l *Level[K, V]) seekLast(n *node[K, V]) *node[K, V] {
	for !n.isLeaf() {
		i := len(n.nodes) - 1
		*l = append(*l, level[K, V]{Node: n, Index: i})
		n = n.nodes[i]
	}
	return n
}
