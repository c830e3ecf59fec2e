package core

import (
	errors "gopkg.in/src-d/go-errors.v1"
)

// ErrObjectNotFound is returned by documents when an object number cannot be
// resolved.
var ErrObjectNotFound = errors.NewKind("object %d not found")

// Document resolves indirect objects by number. Implementations must be safe
// to call repeatedly from one goroutine; dictionary values returned from
// GetObject are snapshots that callers may enumerate freely.
type Document interface {
	GetObject(num uint32) (Object, error)
}

// GenerationSource is implemented by documents that know the generation
// number stored for each object.
type GenerationSource interface {
	Generation(num uint32) (uint16, bool)
}

// Resolve follows obj if it is a reference and returns it unchanged otherwise.
// A nil object resolves to nil without error.
func Resolve(doc Document, obj Object) (Object, error) {
	ref, ok := obj.(Reference)
	if !ok {
		return obj, nil
	}
	return doc.GetObject(ref.Number)
}

// ResolveDict resolves obj and asserts that the result is a dictionary.
// The second result is false when obj is missing or resolves to anything
// else.
func ResolveDict(doc Document, obj Object) (Dict, bool, error) {
	if obj == nil {
		return nil, false, nil
	}
	resolved, err := Resolve(doc, obj)
	if err != nil {
		return nil, false, err
	}
	dict, ok := resolved.(Dict)
	return dict, ok, nil
}

// GenerationOf returns the stored generation for num, or 0 when doc does not
// track generations.
func GenerationOf(doc Document, num uint32) uint16 {
	if gs, ok := doc.(GenerationSource); ok {
		if gen, ok := gs.Generation(num); ok {
			return gen
		}
	}
	return 0
}
