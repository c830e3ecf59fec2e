package objtree

import (
	errors "gopkg.in/src-d/go-errors.v1"
)

var (
	// ErrInvalidRoot is returned by Build when the root has no indirect
	// identity or no content.
	ErrInvalidRoot = errors.NewKind("invalid root %s: %s")

	// ErrNotFound is returned when an object cannot be resolved, or its
	// stored generation differs from the requested one.
	ErrNotFound = errors.NewKind("object %d %d R not found")

	// ErrNotADictionary marks an object that cannot be expanded
	ErrNotADictionary = errors.NewKind("object %d is a %s, not a dictionary")

	// ErrAllocation is returned by allocators that cannot provide storage
	ErrAllocation = errors.NewKind("cannot allocate %s")
)
