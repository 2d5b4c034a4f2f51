// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bptree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func collectKeys(nodes []*node[int, string]) (keys [][]int) {
	for _, n := range nodes {
		keys = append(keys, n.keys)
	}
	return
}

func TestRedistributeLeafFromLeft(t *testing.T) {
	table := mustTable(t, 3)
	leaves := chainLeaves(table, []int{1, 2, 3}, []int{5})
	parent := branchOf(table, []int{5}, leaves)

	require.Equal(t, fromLeft, parent.redistribute(1))
	require.Equal(t, [][]int{{1, 2}, {3, 5}}, collectKeys(parent.nodes))
	require.Equal(t, []string{"3", "5"}, leaves[1].vals)
	require.Equal(t, []int{3}, parent.keys)
}

func TestRedistributeLeafFromRight(t *testing.T) {
	table := mustTable(t, 3)
	leaves := chainLeaves(table, []int{1}, []int{5, 6, 7})
	parent := branchOf(table, []int{5}, leaves)

	require.Equal(t, fromRight, parent.redistribute(0))
	require.Equal(t, [][]int{{1, 5}, {6, 7}}, collectKeys(parent.nodes))
	require.Equal(t, []int{6}, parent.keys)
}

func TestRedistributePrefersLeft(t *testing.T) {
	table := mustTable(t, 3)
	leaves := chainLeaves(table, []int{1, 2, 3}, []int{5}, []int{7, 8, 9})
	parent := branchOf(table, []int{5, 7}, leaves)

	require.Equal(t, fromLeft, parent.redistribute(1))
	require.Equal(t, [][]int{{1, 2}, {3, 5}, {7, 8, 9}}, collectKeys(parent.nodes))
	require.Equal(t, []int{3, 7}, parent.keys)
}

func TestRedistributeNone(t *testing.T) {
	table := mustTable(t, 3)
	leaves := chainLeaves(table, []int{1}, []int{5, 6})
	parent := branchOf(table, []int{5}, leaves)

	require.Equal(t, none, parent.redistribute(0))
	require.Equal(t, "none", none.String())
}

func TestRedistributeBranch(t *testing.T) {
	table := mustTable(t, 3)
	low := chainLeaves(table, []int{1, 2}, []int{3, 4}, []int{5, 6}, []int{7, 8})
	high := chainLeaves(table, []int{10, 11})
	left := branchOf(table, []int{3, 5, 7}, low)
	curr := branchOf(table, nil, high)
	parent := branchOf(table, []int{10}, []*node[int, string]{left, curr})

	require.Equal(t, fromLeft, parent.redistribute(1))
	require.Equal(t, []int{3, 5}, left.keys)
	require.Len(t, left.nodes, 3)
	require.Equal(t, []int{10}, curr.keys)
	require.Equal(t, []*node[int, string]{low[3], high[0]}, curr.nodes)
	require.Equal(t, []int{7}, parent.keys)

	// and back again from the right
	require.Equal(t, none, parent.redistribute(0))
	left.keys, left.nodes = left.keys[:0], left.nodes[:1]
	parent.keys[0] = 3
	curr.keys = []int{5, 7, 10}
	curr.nodes = []*node[int, string]{low[1], low[2], low[3], high[0]}
	require.Equal(t, fromRight, parent.redistribute(0))
	require.Equal(t, []int{3}, left.keys)
	require.Equal(t, []*node[int, string]{low[0], low[1]}, left.nodes)
	require.Equal(t, []int{7, 10}, curr.keys)
	require.Equal(t, []int{5}, parent.keys)
}

func TestMergeLeaf(t *testing.T) {
	table := mustTable(t, 3)
	leaves := chainLeaves(table, []int{1}, []int{5, 6}, []int{9, 10})
	parent := branchOf(table, []int{5, 9}, leaves)

	require.True(t, parent.merge(0))
	require.Equal(t, [][]int{{1, 5, 6}, {9, 10}}, collectKeys(parent.nodes))
	require.Equal(t, []string{"1", "5", "6"}, leaves[0].vals)
	require.Equal(t, []int{9}, parent.keys)
	require.Same(t, leaves[2], leaves[0].next)

	// no right sibling
	require.False(t, parent.merge(1))

	full := chainLeaves(table, []int{1}, []int{5, 6, 7})
	parent = branchOf(table, []int{5}, full)
	require.False(t, parent.merge(0))
	require.Len(t, parent.nodes, 2)
}

func TestMergeBranch(t *testing.T) {
	table := mustTable(t, 3)
	low := chainLeaves(table, []int{1, 2}, []int{3, 4})
	high := chainLeaves(table, []int{10, 11}, []int{12, 13})
	left := branchOf(table, []int{3}, low)
	right := branchOf(table, []int{12}, high)
	parent := branchOf(table, []int{10}, []*node[int, string]{left, right})

	require.True(t, parent.merge(0))
	require.Equal(t, []int{3, 10, 12}, left.keys)
	require.Equal(t, append(low, high...), left.nodes)
	require.Empty(t, parent.keys)
	require.True(t, parent.isSingular())
}
