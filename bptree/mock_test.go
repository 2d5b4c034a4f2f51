// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bptree

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

// newMockKeys returns 1..count in ascending order.
func newMockKeys(count int) []int {
	keys := make([]int, count)
	for i := range keys {
		keys[i] = i + 1
	}
	return keys
}

// newMockShuffled returns count distinct keys spread over [0, 4*count) in random order.
func newMockShuffled(count int, seed uint64) []int {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	keys := r.Perm(4 * count)[:count]
	return keys
}

func newMockVals(keys []int) []string {
	vals := make([]string, len(keys))
	for i, key := range keys {
		vals[i] = fmt.Sprint(key)
	}
	return vals
}

func mustConstruct(t testing.TB, keys []int, order int, dist Distribution) *Tree[int, string] {
	t.Helper()
	tree, err := Construct(keys, &Options{Order: order, Distribution: dist})
	require.NoError(t, err)
	requireValid(t, tree)
	return tree
}

func requireValid[K cmp.Ordered, V any](t testing.TB, tree *Tree[K, V]) {
	t.Helper()
	require.NoError(t, tree.Validate())
	require.Equal(t, tree.LeafKeys(Sequential), tree.LeafKeys(TopDown))
}

var orders = []int{2, 3, 4, 5, 6, 7}
var dists = []Distribution{Dense, Sparse}
