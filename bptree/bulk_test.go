// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bptree

import (
	"fmt"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestDistribute(t *testing.T) {
	tests := []struct {
		total, lower, upper int
		dist                Distribution
		want                []int
	}{
		{0, 2, 3, Dense, nil},
		{1, 2, 3, Dense, []int{1}},
		{3, 2, 3, Dense, []int{3}},
		{4, 2, 3, Dense, []int{2, 2}},
		{7, 2, 3, Dense, []int{3, 2, 2}},
		{10, 2, 3, Dense, []int{3, 3, 2, 2}},
		{12, 2, 3, Dense, []int{3, 3, 3, 3}},
		{0, 2, 3, Sparse, nil},
		{3, 2, 3, Sparse, []int{3}},
		{4, 2, 3, Sparse, []int{2, 2}},
		{7, 2, 3, Sparse, []int{2, 2, 3}},
		{10, 2, 3, Sparse, []int{2, 2, 2, 2, 2}},
		{5, 3, 5, Sparse, []int{5}},
		{7, 3, 5, Sparse, []int{3, 4}},
	}
	for _, tt := range tests {
		got := distribute(tt.total, tt.lower, tt.upper, tt.dist)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("distribute(%d, %d, %d, %s) (-want +got):\n%s", tt.total, tt.lower, tt.upper, tt.dist, diff)
		}
	}
}

func TestDistributeBounds(t *testing.T) {
	for _, order := range orders {
		table := mustTable(t, order)
		for _, b := range []Bounds{table.Leaf, {MinKeys: table.Internal.MinChildren, MaxKeys: table.Internal.MaxChildren}} {
			for _, dist := range dists {
				for total := 1; total <= 200; total++ {
					groups := distribute(total, b.MinKeys, b.MaxKeys, dist)
					sum := 0
					for _, g := range groups {
						sum += g
						require.LessOrEqual(t, g, b.MaxKeys, "order %d %s total %d: %v", order, dist, total, groups)
						if len(groups) > 1 {
							require.GreaterOrEqual(t, g, b.MinKeys, "order %d %s total %d: %v", order, dist, total, groups)
						}
					}
					require.Equal(t, total, sum)
				}
			}
		}
	}
}

func TestBuildDense(t *testing.T) {
	tree := mustConstruct(t, newMockKeys(10), 3, Dense)
	require.Equal(t, 1, tree.Height())
	require.Equal(t, 10, tree.Len())
	require.Equal(t, [][]int{{1, 2, 3}, {4, 5, 6}, {7, 8}, {9, 10}}, tree.KeyLayer(0))
	require.Equal(t, [][]int{{4, 7, 9}}, tree.KeyLayer(1))
	require.Nil(t, tree.KeyLayer(2))
}

func TestBuildSparse(t *testing.T) {
	tree := mustConstruct(t, newMockKeys(10), 3, Sparse)
	require.Equal(t, 2, tree.Height())
	require.Equal(t, [][]int{{1, 2}, {3, 4}, {5, 6}, {7, 8}, {9, 10}}, tree.KeyLayer(0))
	require.Equal(t, [][]int{{3}, {7, 9}}, tree.KeyLayer(1))
	require.Equal(t, [][]int{{5}}, tree.KeyLayer(2))

	stats := tree.Stats()
	require.Equal(t, Stats{Height: 2, InternalNodes: 3, LeafNodes: 5, Keys: 10, LeafFill: 10.0 / 15}, stats)
}

func TestBuildEmpty(t *testing.T) {
	for _, dist := range dists {
		tree := mustConstruct(t, nil, 3, dist)
		require.Equal(t, 0, tree.Height())
		require.True(t, tree.Empty())
		_, found := tree.Search(1)
		require.False(t, found)
		_, ok := tree.Min()
		require.False(t, ok)
		require.Empty(t, tree.LeafKeys(Sequential))
	}
}

func TestBuildUnordered(t *testing.T) {
	keys := []int{9, 3, 7, 1, 5, 10, 2, 8, 4, 6}
	input := slices.Clone(keys)
	tree := mustConstruct(t, keys, 3, Dense)
	require.Equal(t, input, keys)
	require.Equal(t, mustConstruct(t, newMockKeys(10), 3, Dense).KeyLayer(0), tree.KeyLayer(0))

	val, found := tree.Search(7)
	require.True(t, found)
	require.Equal(t, "7", val)
}

func TestBuildPayloads(t *testing.T) {
	tree, err := Build([]string{"b", "a", "c"}, []int{2, 1, 3}, &Options{Order: 2})
	require.NoError(t, err)
	requireValid(t, tree)
	require.Equal(t, []int{1, 2, 3}, tree.RangeSearch("a", "z"))
}

func TestBuildInvalid(t *testing.T) {
	_, err := Construct([]int{1, 2, 2}, &Options{Order: 3})
	require.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = Build([]int{1, 2}, []string{"1"}, &Options{Order: 3})
	require.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = Construct([]int{1}, &Options{Order: 1})
	require.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = Construct([]int{1}, &Options{Order: 3, Distribution: Distribution(9)})
	require.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = Construct([]int{1}, nil)
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestBuildAllShapes(t *testing.T) {
	for _, order := range orders {
		for _, dist := range dists {
			t.Run(fmt.Sprintf("%d/%s", order, dist), func(t *testing.T) {
				for count := 0; count <= 120; count++ {
					keys := newMockShuffled(count, uint64(count))
					tree := mustConstruct(t, keys, order, dist)
					want := slices.Sorted(slices.Values(keys))
					if count == 0 {
						want = nil
					}
					require.Equal(t, want, tree.LeafKeys(Sequential))
					require.Equal(t, count, tree.Len())
				}
			})
		}
	}
}

func TestBuildSparseIsTaller(t *testing.T) {
	for _, order := range orders {
		keys := newMockKeys(500)
		dense := mustConstruct(t, keys, order, Dense)
		sparse := mustConstruct(t, keys, order, Sparse)
		require.LessOrEqual(t, dense.Height(), sparse.Height(), "order %d", order)
		require.LessOrEqual(t, dense.Stats().LeafNodes, sparse.Stats().LeafNodes, "order %d", order)
	}
}
