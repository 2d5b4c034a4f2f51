// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package bptree implements an in-memory B+ tree with bulk loading,
// point and range queries, and rebalancing insert and delete.
//
// Every key lives in a leaf next to its payload; branches hold separator keys
// only. Leaves are chained in ascending order for range scans. Node occupancy
// is bounded by the tree order (see Constraints); the root is exempt from the
// minimums of its role.
//
// A Tree is not safe for concurrent use and is not reentrant: mutating it
// while an Iterator or Scan is in progress leaves the walk undefined.
package bptree

import (
	"cmp"
	"slices"

	"github.com/dacapoday/bpindex"
	"go.uber.org/zap"
)

var _ bpindex.Index[int, string] = (*Tree[int, string])(nil)

// Tree is an ordered index from K to V.
type Tree[K cmp.Ordered, V any] struct {
	root  *node[K, V]
	table *Table
	dist  Distribution
	log   *zap.Logger
	high  int
	count int
}

// New returns an empty tree: a single empty leaf root.
func New[K cmp.Ordered, V any](opts *Options) (*Tree[K, V], error) {
	tree, err := newTree[K, V](opts)
	if err != nil {
		return nil, err
	}
	tree.root = newLeaf[K, V](tree.table, nil, nil)
	tree.root.root = true
	return tree, nil
}

func newTree[K cmp.Ordered, V any](opts *Options) (*Tree[K, V], error) {
	o := *opts.EnsureDefaults()
	if err := o.Validate(); err != nil {
		return nil, err
	}
	table, err := Constraints(o.Order)
	if err != nil {
		return nil, err
	}
	return &Tree[K, V]{
		table: table,
		dist:  o.Distribution,
		log:   o.Logger,
	}, nil
}

// Order returns the maximum number of keys per node.
func (tree *Tree[K, V]) Order() int {
	return tree.table.Order
}

// Constraints returns the bound table shared by every node of the tree.
func (tree *Tree[K, V]) Constraints() *Table {
	return tree.table
}

// Distribution returns the policy the tree was bulk loaded with.
func (tree *Tree[K, V]) Distribution() Distribution {
	return tree.dist
}

// Height returns the number of levels above the leaves (0 for a root-only tree).
func (tree *Tree[K, V]) Height() int {
	return tree.high
}

// Len returns the number of keys.
func (tree *Tree[K, V]) Len() int {
	return tree.count
}

// Empty reports whether the tree holds no keys.
func (tree *Tree[K, V]) Empty() bool {
	return tree.count == 0
}

// Min returns the smallest key.
func (tree *Tree[K, V]) Min() (K, bool) {
	return tree.root.minKey()
}

// Max returns the largest key.
func (tree *Tree[K, V]) Max() (K, bool) {
	return tree.root.maxKey()
}

// LeafKeys returns every key in leaf order. Sequential follows the leaf chain,
// TopDown walks the tree; on a valid tree both agree.
func (tree *Tree[K, V]) LeafKeys(order Traversal) (keys []K) {
	if order == TopDown {
		for _, leaf := range tree.root.leaves() {
			keys = append(keys, leaf.keys...)
		}
		return
	}
	for leaf := tree.root.firstLeaf(); leaf != nil; leaf = leaf.next {
		keys = append(keys, leaf.keys...)
	}
	return
}

// KeyLayer returns the keys of every node at the given height, left to right.
// Height 0 lists the leaves. Heights above the root yield nil.
func (tree *Tree[K, V]) KeyLayer(high int) (layer [][]K) {
	if high < 0 || high > tree.high {
		return
	}
	nodes := []*node[K, V]{tree.root}
	for dig := tree.high - high; dig > 0; dig-- {
		var below []*node[K, V]
		for _, n := range nodes {
			below = append(below, n.nodes...)
		}
		nodes = below
	}
	for _, n := range nodes {
		layer = append(layer, slices.Clone(n.keys))
	}
	return
}

// Stats summarizes the shape of a tree.
type Stats struct {
	Height        int
	InternalNodes int
	LeafNodes     int
	Keys          int
	// LeafFill is the mean leaf occupancy relative to the order.
	LeafFill float64
}

// Stats walks the tree and counts its nodes.
func (tree *Tree[K, V]) Stats() (stats Stats) {
	stats.Height = tree.high
	stack := []*node[K, V]{tree.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.isLeaf() {
			stats.LeafNodes++
			stats.Keys += len(n.keys)
			continue
		}
		stats.InternalNodes++
		stack = append(stack, n.nodes...)
	}
	stats.LeafFill = float64(stats.Keys) / float64(stats.LeafNodes*tree.table.Order)
	return
}
