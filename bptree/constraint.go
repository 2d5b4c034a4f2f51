// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bptree

import (
	"fmt"
	"sync"
)

// Role is the structural role a node plays in its tree.
type Role uint8

const (
	RoleLeaf Role = iota
	RoleInternal
	RoleRoot
)

func (r Role) String() string {
	switch r {
	case RoleLeaf:
		return "leaf"
	case RoleInternal:
		return "internal"
	case RoleRoot:
		return "root"
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// Bounds limits the key and child counts of one role.
// Children bounds are zero for leaves.
type Bounds struct {
	MinKeys     int
	MaxKeys     int
	MinChildren int
	MaxChildren int
}

func (b Bounds) String() string {
	if b.MaxChildren == 0 {
		return fmt.Sprintf("keys [%d-%d]", b.MinKeys, b.MaxKeys)
	}
	return fmt.Sprintf("keys [%d-%d], children [%d-%d]", b.MinKeys, b.MaxKeys, b.MinChildren, b.MaxChildren)
}

// Table holds the bounds of every role for one order.
// Root applies to an internal root; a leaf root uses RootLeaf.
type Table struct {
	Order    int
	Leaf     Bounds
	Internal Bounds
	Root     Bounds
	RootLeaf Bounds
}

var tables sync.Map // int -> *Table

// Constraints returns the memoized bound table for order.
// Orders below 2 cannot split a node into two valid halves.
func Constraints(order int) (*Table, error) {
	if order < 2 {
		return nil, fmt.Errorf("%w: order %d < 2", ErrInvalidConfiguration, order)
	}
	if table, ok := tables.Load(order); ok {
		return table.(*Table), nil
	}
	table, _ := tables.LoadOrStore(order, newTable(order))
	return table.(*Table), nil
}

func newTable(order int) *Table {
	minChildren := (order + 2) / 2 // ceil((order+1)/2)
	return &Table{
		Order: order,
		Leaf: Bounds{
			MinKeys: (order + 1) / 2,
			MaxKeys: order,
		},
		Internal: Bounds{
			MinKeys:     minChildren - 1,
			MaxKeys:     order,
			MinChildren: minChildren,
			MaxChildren: order + 1,
		},
		Root: Bounds{
			MinKeys:     1,
			MaxKeys:     order,
			MinChildren: 2,
			MaxChildren: order + 1,
		},
		RootLeaf: Bounds{
			MinKeys: 0,
			MaxKeys: order,
		},
	}
}

// BoundsFor returns the bounds of role for order.
// RoleRoot yields the bounds of an internal root.
func BoundsFor(order int, role Role) (Bounds, error) {
	table, err := Constraints(order)
	if err != nil {
		return Bounds{}, err
	}
	return table.of(role, role == RoleLeaf), nil
}

func (table *Table) of(role Role, leaf bool) Bounds {
	switch role {
	case RoleRoot:
		if leaf {
			return table.RootLeaf
		}
		return table.Root
	case RoleInternal:
		return table.Internal
	}
	return table.Leaf
}

// Describe lists the bounds of every role, one line each.
func (table *Table) Describe() []string {
	return []string{
		fmt.Sprintf("order %d", table.Order),
		fmt.Sprintf("%s, %s", RoleInternal, table.Internal),
		fmt.Sprintf("%s, %s", RoleLeaf, table.Leaf),
		fmt.Sprintf("%s, %s", RoleRoot, table.Root),
	}
}
