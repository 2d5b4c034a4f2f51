// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bptree

// merge folds child i+1 into child i and drops the separator between them.
// Returns false when child i has no right sibling or that sibling is full.
func (n *node[K, V]) merge(i int) bool {
	if !n.hasRightSibling(i) || n.nodes[i+1].isFull() {
		return false
	}
	left, right := n.nodes[i], n.nodes[i+1]

	if left.isLeaf() {
		left.keys = append(left.keys, right.keys...)
		left.vals = append(left.vals, right.vals...)
		left.next = right.next
	} else {
		left.keys = append(left.keys, right.mustMinKey("merge"))
		left.keys = append(left.keys, right.keys...)
		left.nodes = append(left.nodes, right.nodes...)
	}
	n.remove(i)
	return true
}

// side names the sibling that donated during redistribute.
type side int8

const (
	none side = iota
	fromLeft
	fromRight
)

func (s side) String() string {
	switch s {
	case fromLeft:
		return "left"
	case fromRight:
		return "right"
	}
	return "none"
}

// redistribute moves one key (and for branches, one child) into child i from a
// plentiful sibling, left first. Returns none when neither sibling can donate.
func (n *node[K, V]) redistribute(i int) side {
	curr := n.nodes[i]

	if n.hasLeftSibling(i) && n.nodes[i-1].isPlentiful() {
		left := n.nodes[i-1]
		last := len(left.keys) - 1
		if curr.isLeaf() {
			key, val := left.keys[last], left.vals[last]
			left.remove(last)
			curr.insert(0, &entry[K, V]{key: key, val: val})
			n.keys[i-1] = key
		} else {
			key := curr.mustMinKey("redistribute")
			child := left.nodes[last+1]
			left.nodes[last+1] = nil
			left.nodes = left.nodes[:last+1]
			var zero K
			left.keys[last] = zero
			left.keys = left.keys[:last]

			curr.keys = append([]K{key}, curr.keys...)
			curr.nodes = append([]*node[K, V]{child}, curr.nodes...)
			n.keys[i-1] = child.mustMinKey("redistribute")
		}
		return fromLeft
	}

	if n.hasRightSibling(i) && n.nodes[i+1].isPlentiful() {
		right := n.nodes[i+1]
		if curr.isLeaf() {
			key, val := right.keys[0], right.vals[0]
			right.remove(0)
			curr.insert(len(curr.keys), &entry[K, V]{key: key, val: val})
			n.keys[i] = right.keys[0]
		} else {
			child := right.nodes[0]
			right.keys = right.keys[1:]
			right.nodes = right.nodes[1:]

			curr.keys = append(curr.keys, child.mustMinKey("redistribute"))
			curr.nodes = append(curr.nodes, child)
			n.keys[i] = right.mustMinKey("redistribute")
		}
		return fromRight
	}

	return none
}
