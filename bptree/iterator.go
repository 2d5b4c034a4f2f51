// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bptree

import (
	"cmp"

	"github.com/dacapoday/bpindex/iterator"
)

// Iterator returns an unpositioned cursor over tree.
// Call SeekFirst, SeekLast or Seek before reading.
func (tree *Tree[K, V]) Iterator() *Iterator[K, V] {
	return &Iterator[K, V]{tree: tree, err: exhausted}
}

var _ iterator.Iterator[int, string] = (*Iterator[int, string])(nil)

// Iterator walks the leaves of a Tree through the branch path above the
// current leaf rather than the leaf chain, so it moves both ways.
//
// Mutating the tree while positioned leaves the iterator undefined.
type Iterator[K cmp.Ordered, V any] struct {
	tree  *Tree[K, V]
	level Level[K, V]
	leaf  *node[K, V]
	index int
	err   error
}

func (iter *Iterator[K, V]) Valid() bool {
	return iter.err == null
}

func (iter *Iterator[K, V]) Error() error {
	if iter.err == null || iter.err == exhausted {
		return nil
	}
	return iter.err
}

func (iter *Iterator[K, V]) Key() (key K) {
	if iter.err != null {
		return
	}
	return iter.leaf.keys[iter.index]
}

func (iter *Iterator[K, V]) Val() (val V) {
	if iter.err != null {
		return
	}
	return iter.leaf.vals[iter.index]
}

func (iter *Iterator[K, V]) Next() bool {
	if iter.err != null {
		return false
	}
	if iter.index+1 < len(iter.leaf.keys) {
		iter.index++
		return true
	}
	return iter.nextLeaf()
}

func (iter *Iterator[K, V]) Prev() bool {
	if iter.err != null {
		return false
	}
	if iter.index > 0 {
		iter.index--
		return true
	}
	return iter.prevLeaf()
}

func (iter *Iterator[K, V]) SeekFirst() bool {
	iter.level = iter.level[:0]
	iter.leaf = iter.level.seekFirst(iter.tree.root)
	return iter.settle(0)
}

func (iter *Iterator[K, V]) SeekLast() bool {
	iter.level = iter.level[:0]
	iter.leaf = iter.level.seekLast(iter.tree.root)
	return iter.settle(len(iter.leaf.keys) - 1)
}

// Seek positions at the first key not less than key.
func (iter *Iterator[K, V]) Seek(key K) bool {
	iter.level = iter.level[:0]
	tree := iter.tree
	iter.leaf = iter.level.descend(tree.root, tree.high, 0, key)
	index, _ := iter.leaf.find(key)
	if index < len(iter.leaf.keys) {
		return iter.settle(index)
	}
	// every key of this leaf is below key; the answer opens the next one
	iter.err = null
	return iter.nextLeaf()
}

// settle marks the iterator positioned at index of the current leaf,
// or exhausted when the leaf is empty.
func (iter *Iterator[K, V]) settle(index int) bool {
	if len(iter.leaf.keys) == 0 {
		iter.err = exhausted
		return false
	}
	iter.index = index
	iter.err = null
	return true
}

func (iter *Iterator[K, V]) nextLeaf() bool {
	h := len(iter.level) - 1
	for {
		if h < 0 {
			iter.err = exhausted
			return false
		}
		if iter.level.next(h) {
			break
		}
		h--
	}
	child := iter.level.child(h)
	iter.level = iter.level[:h+1]
	iter.leaf = iter.level.seekFirst(child)
	iter.index = 0
	return true
}

func (iter *Iterator[K, V]) prevLeaf() bool {
	h := len(iter.level) - 1
	for {
		if h < 0 {
			iter.err = exhausted
			return false
		}
		if iter.level.prev(h) {
			break
		}
		h--
	}
	child := iter.level.child(h)
	iter.level = iter.level[:h+1]
	iter.leaf = iter.level.seekLast(child)
	iter.index = len(iter.leaf.keys) - 1
	return true
}
