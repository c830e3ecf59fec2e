// Package memdoc provides an in-memory document: a table of numbered
// objects satisfying core.Document. It backs tests and fixtures and lets
// callers inspect object graphs that were never serialized to a file.
package memdoc

import (
	"sort"
	"sync"

	"github.com/tsawler/pdftree/core"
)

type entry struct {
	obj core.Object
	gen uint16
}

// Document is a concurrency-safe table of indirect objects
type Document struct {
	mu      sync.RWMutex
	objects map[uint32]entry
}

var (
	_ core.Document         = (*Document)(nil)
	_ core.GenerationSource = (*Document)(nil)
)

// New creates an empty document
func New() *Document {
	return &Document{objects: make(map[uint32]entry)}
}

// Add stores obj as object num with generation 0 and returns a reference
// to it.
func (d *Document) Add(num uint32, obj core.Object) core.Reference {
	return d.Set(num, 0, obj)
}

// Set stores obj as object num with the given generation, replacing any
// previous object with that number.
func (d *Document) Set(num uint32, gen uint16, obj core.Object) core.Reference {
	d.mu.Lock()
	d.objects[num] = entry{obj: obj, gen: gen}
	d.mu.Unlock()
	return core.Reference{Number: num, Generation: gen}
}

// Remove deletes object num
func (d *Document) Remove(num uint32) {
	d.mu.Lock()
	delete(d.objects, num)
	d.mu.Unlock()
}

// GetObject returns object num, or an error matching core.ErrObjectNotFound
func (d *Document) GetObject(num uint32) (core.Object, error) {
	d.mu.RLock()
	e, ok := d.objects[num]
	d.mu.RUnlock()
	if !ok {
		return nil, core.ErrObjectNotFound.New(num)
	}
	return e.obj, nil
}

// Generation returns the stored generation of object num
func (d *Document) Generation(num uint32) (uint16, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.objects[num]
	return e.gen, ok
}

// Len returns the number of stored objects
func (d *Document) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.objects)
}

// Numbers returns the stored object numbers in ascending order
func (d *Document) Numbers() []uint32 {
	d.mu.RLock()
	nums := make([]uint32, 0, len(d.objects))
	for n := range d.objects {
		nums = append(nums, n)
	}
	d.mu.RUnlock()
	sort.Slice(nums, func(i, j int) bool { return nums[i] < nums[j] })
	return nums
}
