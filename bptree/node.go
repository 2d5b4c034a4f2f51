// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bptree

import (
	"cmp"
	"slices"
)

type kind uint8

const (
	leafKind kind = iota
	branchKind
)

// node is one structural unit of the tree.
//
// A leaf holds keys and aligned vals and links to the next leaf.
// A branch holds keys and len(keys)+1 owned children; keys[i] separates
// nodes[i] from nodes[i+1].
type node[K cmp.Ordered, V any] struct {
	table *Table
	kind  kind
	root  bool
	keys  []K
	vals  []V
	nodes []*node[K, V]
	next  *node[K, V] // not owned
}

// entry is what gets placed into a node at a given height:
// a payload at height 0, a child to the right of key above.
type entry[K cmp.Ordered, V any] struct {
	key  K
	val  V
	node *node[K, V]
}

func newLeaf[K cmp.Ordered, V any](table *Table, keys []K, vals []V) *node[K, V] {
	return &node[K, V]{table: table, kind: leafKind, keys: keys, vals: vals}
}

func newBranch[K cmp.Ordered, V any](table *Table, keys []K, nodes []*node[K, V]) *node[K, V] {
	return &node[K, V]{table: table, kind: branchKind, keys: keys, nodes: nodes}
}

func (n *node[K, V]) role() Role {
	if n.root {
		return RoleRoot
	}
	if n.kind == leafKind {
		return RoleLeaf
	}
	return RoleInternal
}

func (n *node[K, V]) bounds() Bounds {
	return n.table.of(n.role(), n.isLeaf())
}

func (n *node[K, V]) isLeaf() bool {
	return n.kind == leafKind
}

func (n *node[K, V]) isRoot() bool {
	return n.root
}

// isFull reports whether one more key would overflow n.
func (n *node[K, V]) isFull() bool {
	return len(n.keys) >= n.bounds().MaxKeys
}

func (n *node[K, V]) isOverflow() bool {
	return len(n.keys) > n.bounds().MaxKeys
}

func (n *node[K, V]) isUnderflow() bool {
	return len(n.keys) < n.bounds().MinKeys
}

// isPlentiful reports whether n can donate a key and stay within bounds.
func (n *node[K, V]) isPlentiful() bool {
	b := n.bounds()
	return b.MinKeys < len(n.keys) && len(n.keys) <= b.MaxKeys
}

// isSingular reports a branch left with no keys and a single child,
// which must be replaced by that child.
func (n *node[K, V]) isSingular() bool {
	return n.kind == branchKind && len(n.keys) == 0 && len(n.nodes) == 1
}

// locate returns the number of keys <= key: the slot that keeps keys sorted
// and, for a branch, the child whose range contains key.
func (n *node[K, V]) locate(key K) int {
	i, found := slices.BinarySearch(n.keys, key)
	if found {
		i++
	}
	return i
}

// find returns the index of key in n.keys.
func (n *node[K, V]) find(key K) (int, bool) {
	return slices.BinarySearch(n.keys, key)
}

// height counts the levels below n; leaves are at height 0.
func (n *node[K, V]) height() (high int) {
	for !n.isLeaf() {
		high++
		n = n.nodes[0]
	}
	return
}

func (n *node[K, V]) firstLeaf() *node[K, V] {
	for !n.isLeaf() {
		n = n.nodes[0]
	}
	return n
}

func (n *node[K, V]) lastLeaf() *node[K, V] {
	for !n.isLeaf() {
		n = n.nodes[len(n.nodes)-1]
	}
	return n
}

// minKey returns the smallest key stored in the leaves below n.
func (n *node[K, V]) minKey() (key K, ok bool) {
	leaf := n.firstLeaf()
	if len(leaf.keys) == 0 {
		return
	}
	return leaf.keys[0], true
}

// maxKey returns the largest key stored in the leaves below n.
func (n *node[K, V]) maxKey() (key K, ok bool) {
	leaf := n.lastLeaf()
	if len(leaf.keys) == 0 {
		return
	}
	return leaf.keys[len(leaf.keys)-1], true
}

// mustMinKey is minKey for subtrees that cannot be empty.
func (n *node[K, V]) mustMinKey(op string) K {
	key, ok := n.minKey()
	if !ok {
		illegal(op, "subtree has an empty leaf")
	}
	return key
}

// insert places e at slot i. A child goes to the right of its key.
func (n *node[K, V]) insert(i int, e *entry[K, V]) {
	n.keys = slices.Insert(n.keys, i, e.key)
	if n.isLeaf() {
		n.vals = slices.Insert(n.vals, i, e.val)
		return
	}
	n.nodes = slices.Insert(n.nodes, i+1, e.node)
}

// remove drops key i together with its payload (leaf) or the child right of it (branch).
func (n *node[K, V]) remove(i int) {
	n.keys = slices.Delete(n.keys, i, i+1)
	if n.isLeaf() {
		n.vals = slices.Delete(n.vals, i, i+1)
		return
	}
	n.nodes = slices.Delete(n.nodes, i+1, i+2)
}

func (n *node[K, V]) hasLeftSibling(i int) bool {
	return !n.isLeaf() && 0 < i && i < len(n.nodes)
}

func (n *node[K, V]) hasRightSibling(i int) bool {
	return !n.isLeaf() && 0 <= i && i < len(n.nodes)-1
}

// leaves returns the leaves below n in top-down, left-to-right order.
func (n *node[K, V]) leaves() (leaves []*node[K, V]) {
	stack := []*node[K, V]{n}
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if curr.isLeaf() {
			leaves = append(leaves, curr)
			continue
		}
		for i := len(curr.nodes) - 1; i >= 0; i-- {
			stack = append(stack, curr.nodes[i])
		}
	}
	return
}
