// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bptree

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDeleteMissing(t *testing.T) {
	tree := mustConstruct(t, newMockKeys(10), 3, Dense)
	before := tree.KeyLayer(0)

	err := tree.Delete(11)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrKeyNotFound))
	require.Equal(t, before, tree.KeyLayer(0))
	require.Equal(t, 10, tree.Len())

	empty, err := New[int, string](&Options{Order: 3})
	require.NoError(t, err)
	require.ErrorIs(t, empty.Delete(1), ErrKeyNotFound)
}

func TestDeleteRedistributes(t *testing.T) {
	tree := mustConstruct(t, []int{1, 2, 3, 4, 5}, 3, Dense)
	require.Equal(t, [][]int{{1, 2, 3}, {4, 5}}, tree.KeyLayer(0))

	require.NoError(t, tree.Delete(5))
	requireValid(t, tree)
	require.Equal(t, [][]int{{1, 2}, {3, 4}}, tree.KeyLayer(0))
	require.Equal(t, [][]int{{3}}, tree.KeyLayer(1))
}

func TestDeleteMergesAndCollapses(t *testing.T) {
	tree := mustConstruct(t, []int{1, 2, 3, 4}, 3, Dense)
	require.Equal(t, 1, tree.Height())

	require.NoError(t, tree.Delete(1))
	requireValid(t, tree)
	require.Equal(t, 0, tree.Height())
	require.Equal(t, [][]int{{2, 3, 4}}, tree.KeyLayer(0))
}

func TestDeleteAll(t *testing.T) {
	for _, order := range orders {
		for _, dist := range dists {
			keys := newMockShuffled(150, uint64(order)*7)
			tree := mustConstruct(t, keys, order, dist)
			for i, key := range keys {
				require.NoError(t, tree.Delete(key), "order %d %s key %d", order, dist, key)
				requireValid(t, tree)
				require.Equal(t, len(keys)-i-1, tree.Len())
				_, found := tree.Search(key)
				require.False(t, found)
			}
			require.True(t, tree.Empty())
			require.Equal(t, 0, tree.Height())
		}
	}
}

func TestMixedOperations(t *testing.T) {
	for _, order := range orders {
		for _, dist := range dists {
			t.Run(fmt.Sprintf("%d/%s", order, dist), func(t *testing.T) {
				r := rand.New(rand.NewPCG(uint64(order), uint64(dist)))
				keys := newMockShuffled(40, uint64(order))
				tree := mustConstruct(t, keys, order, dist)
				model := make(map[int]string, len(keys))
				for _, key := range keys {
					model[key] = fmt.Sprint(key)
				}

				for step := range 600 {
					key := r.IntN(200)
					switch r.IntN(3) {
					case 0:
						val := fmt.Sprintf("%d@%d", key, step)
						tree.Insert(key, val)
						model[key] = val
					case 1:
						err := tree.Delete(key)
						if _, ok := model[key]; ok {
							require.NoError(t, err)
							delete(model, key)
						} else {
							require.ErrorIs(t, err, ErrKeyNotFound)
						}
					default:
						val, found := tree.Search(key)
						want, ok := model[key]
						require.Equal(t, ok, found)
						require.Equal(t, want, val)
					}
					requireValid(t, tree)
					require.Equal(t, len(model), tree.Len())
				}

				want := make([]int, 0, len(model))
				for key := range model {
					want = append(want, key)
				}
				slices.Sort(want)
				require.Equal(t, want, tree.LeafKeys(Sequential))
			})
		}
	}
}

func TestDeleteLogsStructuralChanges(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	tree, err := Construct(newMockKeys(4), &Options{Order: 3, Logger: zap.New(core)})
	require.NoError(t, err)
	require.Equal(t, 1, logs.FilterMessage("build").Len())

	require.NoError(t, tree.Delete(1))
	require.Equal(t, 1, logs.FilterMessage("merge").Len())
	require.Equal(t, 1, logs.FilterMessage("root collapse").Len())

	require.Error(t, tree.Delete(1))
	require.Equal(t, 1, logs.FilterMessage("delete miss").Len())
}
