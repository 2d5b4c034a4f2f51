package bpindex

import "errors"

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrIllegalOperation     = errors.New("illegal operation")
	ErrStructuralViolation  = errors.New("structural violation")
	ErrKeyNotFound          = errors.New("key not found")
)
