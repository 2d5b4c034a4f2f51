// Package keygen draws random integer keys for experiments and tests.
package keygen

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrExhausted reports that no fresh key was found within the attempt budget.
var ErrExhausted = errors.New("keygen: exhausted")

// Attempts bounds the draws FreshKey makes before giving up.
const Attempts = 20

// Slack widens the range FreshKey draws from beyond the current min and max.
const Slack = 10

// Set is what FreshKey needs to know about the keys already present.
type Set interface {
	Min() (int, bool)
	Max() (int, bool)
	Contains(key int) bool
}

// Generator is a seeded source of keys. It is not safe for concurrent use.
type Generator struct {
	r *rand.Rand
}

func New(seed uint64) *Generator {
	return &Generator{r: rand.New(rand.NewPCG(seed, seed>>32|seed<<32))}
}

// Sample returns count distinct keys from [low, high) in random order.
func (g *Generator) Sample(low, high, count int) ([]int, error) {
	span := high - low
	if count < 0 || span < count {
		return nil, fmt.Errorf("keygen: cannot sample %d distinct keys from [%d, %d)", count, low, high)
	}
	// partial Fisher-Yates over a sparse view of [0, span)
	swapped := make(map[int]int, count)
	at := func(i int) int {
		if v, ok := swapped[i]; ok {
			return v
		}
		return i
	}
	keys := make([]int, count)
	for i := range keys {
		j := i + g.r.IntN(span-i)
		keys[i] = low + at(j)
		swapped[j] = at(i)
	}
	return keys, nil
}

// FreshKey returns a key absent from set, drawn from [min-Slack, max+Slack].
// An empty set draws from [0, 2*Slack).
func (g *Generator) FreshKey(set Set) (int, error) {
	low, ok := set.Min()
	high, _ := set.Max()
	if !ok {
		low, high = Slack, Slack-1
	}
	low, high = low-Slack, high+Slack
	for range Attempts {
		key := low + g.r.IntN(high-low+1)
		if !set.Contains(key) {
			return key, nil
		}
	}
	return 0, fmt.Errorf("%w: %d draws from [%d, %d] all present", ErrExhausted, Attempts, low, high)
}

// Pick returns a uniformly chosen element of keys.
func (g *Generator) Pick(keys []int) (int, bool) {
	if len(keys) == 0 {
		return 0, false
	}
	return keys[g.r.IntN(len(keys))], true
}

// IntN exposes the underlying source for choosing operations.
func (g *Generator) IntN(n int) int {
	return g.r.IntN(n)
}
