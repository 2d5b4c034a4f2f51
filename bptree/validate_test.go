// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bptree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireViolation(t *testing.T, tree *Tree[int, string], inv Invariant) *Violation {
	t.Helper()
	err := tree.Validate()
	require.ErrorIs(t, err, ErrStructuralViolation)
	var v *Violation
	require.True(t, errors.As(err, &v))
	require.Equal(t, inv, v.Invariant, "%v", err)
	require.False(t, tree.IsValid())
	return v
}

// sampleTree is order 3, dense, keys 1..10:
// leaves [1 2 3] [4 5 6] [7 8] [9 10] under root [4 7 9].
func sampleTree(t *testing.T) *Tree[int, string] {
	return mustConstruct(t, newMockKeys(10), 3, Dense)
}

func TestValidateSound(t *testing.T) {
	tree := sampleTree(t)
	require.NoError(t, tree.Validate())
	require.True(t, tree.IsValid())
}

func TestValidateKeyCount(t *testing.T) {
	tree := sampleTree(t)
	leaf := tree.root.nodes[2]
	leaf.keys, leaf.vals = leaf.keys[:1], leaf.vals[:1]
	tree.count--
	v := requireViolation(t, tree, KeyCount)
	require.Equal(t, []int{2}, v.Path)
	require.Equal(t, 0, v.Height)
	require.Contains(t, v.Error(), "key count at /2 (height 0)")
}

func TestValidateRootTag(t *testing.T) {
	tree := sampleTree(t)
	tree.root.nodes[0].root = true
	requireViolation(t, tree, RoleTag)

	tree = sampleTree(t)
	tree.root.root = false
	requireViolation(t, tree, RoleTag)
}

func TestValidatePayloadAlignment(t *testing.T) {
	tree := sampleTree(t)
	tree.root.nodes[1].vals = tree.root.nodes[1].vals[:2]
	requireViolation(t, tree, PayloadAlignment)
}

func TestValidateChildCount(t *testing.T) {
	tree := sampleTree(t)
	tree.root.keys = tree.root.keys[:2]
	requireViolation(t, tree, ChildCount)
}

func TestValidateLeafDepth(t *testing.T) {
	tree := sampleTree(t)
	tree.high = 2
	requireViolation(t, tree, LeafDepth)
}

func TestValidateKeyOrder(t *testing.T) {
	tree := sampleTree(t)
	leaf := tree.root.nodes[0]
	leaf.keys[0], leaf.keys[1] = leaf.keys[1], leaf.keys[0]
	requireViolation(t, tree, KeyOrder)
}

func TestValidateBracketing(t *testing.T) {
	tree := sampleTree(t)
	tree.root.keys[0] = 3 // leaf 0 holds 3
	requireViolation(t, tree, Bracketing)

	tree = sampleTree(t)
	tree.root.keys[1] = 8 // leaf 2 holds 7
	requireViolation(t, tree, Bracketing)
}

func TestValidateLeafChain(t *testing.T) {
	tree := sampleTree(t)
	tree.root.nodes[1].next = tree.root.nodes[3]
	requireViolation(t, tree, LeafChain)

	tree = sampleTree(t)
	tree.root.nodes[3].next = newLeaf[int, string](tree.table, nil, nil)
	requireViolation(t, tree, LeafChain)

	tree = sampleTree(t)
	tree.root.nodes[2].next = nil
	requireViolation(t, tree, LeafChain)
}

func TestValidateKeyTotal(t *testing.T) {
	tree := sampleTree(t)
	tree.count++
	requireViolation(t, tree, KeyTotal)
}

func TestValidateForeignTable(t *testing.T) {
	tree := sampleTree(t)
	tree.root.nodes[0].table = mustTable(t, 5)
	requireViolation(t, tree, RoleTag)
}
