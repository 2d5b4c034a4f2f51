// Package iterator defines the cursor contract shared by ordered indexes.
package iterator

// Iterator represents a cursor over a sorted key-value dataset.
// The iterator maintains a current position and can be moved forward or backward
// through the dataset in sorted key order.
//
// Usage:
//
//	for iter.SeekFirst(); iter.Valid(); iter.Next() {
//	    key, val := iter.Key(), iter.Val()
//	    // process key, val
//	}
//	if err := iter.Error(); err != nil {
//	    // handle error
//	}
//
// An iterator observes the dataset it was created from in place. Mutating the
// dataset while an iterator is positioned leaves the iterator undefined.
type Iterator[K, V any] interface {
	// Valid returns true if positioned at a valid key-value pair.
	// Returns false when not positioned; check Error() to distinguish the cause.
	Valid() bool

	// Error returns any error that occurred during operations.
	// Returns nil when not positioned due to normal conditions (initial state,
	// boundary reached, empty dataset).
	Error() error

	// Key returns the key at the current iterator position.
	// Returns the zero key if Valid() returns false.
	Key() K

	// Val returns the value at the current iterator position.
	// Returns the zero value if Valid() returns false.
	Val() V

	// Next advances the iterator to the next key-value pair in ascending order.
	// Returns false once the end is reached.
	Next() bool

	// Prev moves the iterator to the previous key-value pair in descending order.
	// Returns false once the beginning is passed.
	Prev() bool

	// SeekFirst positions the iterator at the first (smallest) key in the dataset.
	// Returns false if the dataset is empty.
	SeekFirst() bool

	// SeekLast positions the iterator at the last (largest) key in the dataset.
	// Returns false if the dataset is empty.
	SeekLast() bool

	// Seek positions the iterator at the first key that is greater than or equal
	// to the given key. Returns true if positioned at a valid entry.
	Seek(key K) bool
}
