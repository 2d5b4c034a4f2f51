// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bptree

import (
	"cmp"
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// Construct bulk loads keys with each payload set to the key's printed form.
func Construct[K cmp.Ordered](keys []K, opts *Options) (*Tree[K, string], error) {
	vals := make([]string, len(keys))
	for i, key := range keys {
		vals[i] = fmt.Sprint(key)
	}
	return Build(keys, vals, opts)
}

// Build bulk loads a tree from unordered keys and their aligned payloads.
// Nodes are filled bottom-up following opts.Distribution. The input slices
// are not modified.
//
// Keys must be unique and vals must be as long as keys.
func Build[K cmp.Ordered, V any](keys []K, vals []V, opts *Options) (*Tree[K, V], error) {
	tree, err := newTree[K, V](opts)
	if err != nil {
		return nil, err
	}
	if len(vals) != len(keys) {
		return nil, fmt.Errorf("Build: %w: %d payloads for %d keys", ErrInvalidConfiguration, len(vals), len(keys))
	}

	items := make([]entry[K, V], len(keys))
	for i := range keys {
		items[i] = entry[K, V]{key: keys[i], val: vals[i]}
	}
	slices.SortFunc(items, func(a, b entry[K, V]) int {
		return cmp.Compare(a.key, b.key)
	})
	for i := 1; i < len(items); i++ {
		if items[i-1].key == items[i].key {
			return nil, fmt.Errorf("Build: %w: duplicate key %v", ErrInvalidConfiguration, items[i].key)
		}
	}

	level := tree.buildLeaves(items)
	for len(level) > 1 {
		level = tree.buildBranches(level)
		tree.high++
	}
	tree.root = level[0]
	tree.root.root = true
	tree.count = len(items)

	if ce := tree.log.Check(zap.DebugLevel, "build"); ce != nil {
		ce.Write(
			zap.Int("keys", tree.count),
			zap.Int("order", tree.table.Order),
			zap.Stringer("distribution", tree.dist),
			zap.Int("height", tree.high),
		)
	}
	return tree, nil
}

// buildLeaves groups sorted items into chained leaves.
// No items yield a single empty leaf.
func (tree *Tree[K, V]) buildLeaves(items []entry[K, V]) []*node[K, V] {
	bounds := tree.table.Leaf
	groups := distribute(len(items), bounds.MinKeys, bounds.MaxKeys, tree.dist)
	if len(groups) == 0 {
		return []*node[K, V]{newLeaf[K, V](tree.table, nil, nil)}
	}

	leaves := make([]*node[K, V], 0, len(groups))
	start := 0
	for _, count := range groups {
		end := start + count
		keys := make([]K, 0, bounds.MaxKeys+1)
		vals := make([]V, 0, bounds.MaxKeys+1)
		for _, item := range items[start:end] {
			keys = append(keys, item.key)
			vals = append(vals, item.val)
		}
		leaf := newLeaf(tree.table, keys, vals)
		if len(leaves) > 0 {
			leaves[len(leaves)-1].next = leaf
		}
		leaves = append(leaves, leaf)
		start = end
	}
	return leaves
}

// buildBranches groups one level of nodes under parents. Grouping counts
// children; each parent's keys are the minimum keys of its children but the first.
func (tree *Tree[K, V]) buildBranches(level []*node[K, V]) []*node[K, V] {
	bounds := tree.table.Internal
	groups := distribute(len(level), bounds.MinChildren, bounds.MaxChildren, tree.dist)

	parents := make([]*node[K, V], 0, len(groups))
	start := 0
	for _, count := range groups {
		end := start + count
		nodes := make([]*node[K, V], 0, bounds.MaxChildren+1)
		nodes = append(nodes, level[start:end]...)
		keys := make([]K, 0, bounds.MaxKeys+1)
		for _, child := range nodes[1:] {
			keys = append(keys, child.mustMinKey("build"))
		}
		parents = append(parents, newBranch(tree.table, keys, nodes))
		start = end
	}
	return parents
}

// distribute splits total items into group sizes within [lower, upper].
// Only a lone group, which becomes the root, may fall below lower.
//
// Dense emits full groups; when what remains is too much for one group but
// too little for a full one plus a minimal one, it ends with remain-lower and lower.
// Sparse emits minimal groups; a remainder under 2*lower goes into one group.
func distribute(total, lower, upper int, dist Distribution) (groups []int) {
	remain := total
	switch dist {
	case Sparse:
		for remain > 0 {
			if remain < 2*lower {
				groups = append(groups, remain)
				break
			}
			groups = append(groups, lower)
			remain -= lower
		}
	default:
		for remain > 0 {
			if remain <= upper {
				groups = append(groups, remain)
				break
			}
			if remain < lower+upper {
				groups = append(groups, remain-lower, lower)
				break
			}
			groups = append(groups, upper)
			remain -= upper
		}
	}
	return
}
