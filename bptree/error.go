package bptree

import (
	"errors"
	"fmt"

	"github.com/dacapoday/bpindex"
)

var (
	ErrInvalidConfiguration = bpindex.ErrInvalidConfiguration
	ErrIllegalOperation     = bpindex.ErrIllegalOperation
	ErrStructuralViolation  = bpindex.ErrStructuralViolation
	ErrKeyNotFound          = bpindex.ErrKeyNotFound
)

// null marks a positioned iterator, exhausted one that ran off either end.
var null = errors.New("")
var exhausted = errors.New("exhausted")

// illegal aborts the current mutation. The mutation engine only reaches it
// through a defect, so the tree is not left in a usable state.
func illegal(op string, format string, args ...any) {
	panic(fmt.Errorf("%s: %w: %s", op, ErrIllegalOperation, fmt.Sprintf(format, args...)))
}
