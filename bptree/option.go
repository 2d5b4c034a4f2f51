// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bptree

import (
	"fmt"

	"github.com/dacapoday/bpindex"
	"go.uber.org/zap"
)

type Distribution = bpindex.Distribution
type Traversal = bpindex.Traversal

const (
	Dense  = bpindex.Dense
	Sparse = bpindex.Sparse

	Sequential = bpindex.Sequential
	TopDown    = bpindex.TopDown
)

// Options configures a tree.
type Options struct {
	// Order bounds the number of keys per node. Must be at least 2.
	Order int

	// Distribution selects the bulk-load policy. Defaults to Dense.
	Distribution Distribution

	// Logger receives Debug events for structural changes
	// (split, merge, redistribute, root growth and collapse).
	// Defaults to a no-op logger.
	Logger *zap.Logger
}

// EnsureDefaults fills unset optional fields and returns o.
// A nil receiver yields a fresh Options with defaults.
func (o *Options) EnsureDefaults() *Options {
	if o == nil {
		o = &Options{}
	}
	if o.Distribution == 0 {
		o.Distribution = Dense
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Validate reports configurations the tree cannot be built with.
func (o *Options) Validate() error {
	if o.Order < 2 {
		return fmt.Errorf("%w: order %d < 2", ErrInvalidConfiguration, o.Order)
	}
	if !o.Distribution.Valid() {
		return fmt.Errorf("%w: unknown %s", ErrInvalidConfiguration, o.Distribution)
	}
	return nil
}
