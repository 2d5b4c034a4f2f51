// Package oracle is a reference ordered store backed by an in-memory Pebble
// instance. Experiments mirror every tree mutation into it and compare results.
package oracle

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
)

type Store struct {
	db *pebble.DB
}

// Open creates an empty store on a fresh in-memory filesystem.
func Open() (*Store, error) {
	opts := &pebble.Options{
		FS:           vfs.NewMem(),
		MemTableSize: 4 << 20,
	}
	db, err := pebble.Open("oracle", opts)
	if err != nil {
		return nil, fmt.Errorf("oracle: open: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Set inserts or replaces the value for key.
func (s *Store) Set(key int, val string) error {
	if err := s.db.Set(encodeKey(key), []byte(val), pebble.NoSync); err != nil {
		return fmt.Errorf("oracle: set %d: %w", key, err)
	}
	return nil
}

// Delete removes key; a missing key is not an error.
func (s *Store) Delete(key int) error {
	if err := s.db.Delete(encodeKey(key), pebble.NoSync); err != nil {
		return fmt.Errorf("oracle: delete %d: %w", key, err)
	}
	return nil
}

// Get returns the value stored under key.
func (s *Store) Get(key int) (val string, found bool, err error) {
	b, closer, err := s.db.Get(encodeKey(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("oracle: get %d: %w", key, err)
	}
	val = string(b) // copies; b is only valid until Close
	return val, true, closer.Close()
}

// Range returns the values of every key in [low, high] in key order.
func (s *Store) Range(low, high int) (vals []string, err error) {
	err = s.scan(low, high, func(_ int, val string) {
		vals = append(vals, val)
	})
	return
}

// Keys returns every key in ascending order.
func (s *Store) Keys() (keys []int, err error) {
	err = s.scan(math.MinInt64, math.MaxInt64, func(key int, _ string) {
		keys = append(keys, key)
	})
	return
}

func (s *Store) scan(low, high int, fn func(key int, val string)) error {
	if high < low {
		return nil
	}
	opts := &pebble.IterOptions{LowerBound: encodeKey(low)}
	if high < math.MaxInt64 {
		opts.UpperBound = encodeKey(high + 1)
	}
	iter, err := s.db.NewIter(opts)
	if err != nil {
		return fmt.Errorf("oracle: range: %w", err)
	}
	for valid := iter.First(); valid; valid = iter.Next() {
		k := iter.Key()
		if len(k) != 8 {
			iter.Close()
			return fmt.Errorf("oracle: unexpected key length %d", len(k))
		}
		fn(decodeKey(k), string(iter.Value()))
	}
	if err := iter.Error(); err != nil {
		iter.Close()
		return fmt.Errorf("oracle: range: %w", err)
	}
	return iter.Close()
}

// encodeKey maps key to 8 big-endian bytes with the sign bit flipped,
// so byte order matches signed integer order.
func encodeKey(key int) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(int64(key))^(1<<63))
	return b
}

func decodeKey(b []byte) int {
	return int(int64(binary.BigEndian.Uint64(b) ^ (1 << 63)))
}
