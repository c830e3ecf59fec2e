package objtree

import (
	"github.com/tsawler/pdftree/core"
)

// Stats summarizes a build
type Stats struct {
	// Nodes is the number of nodes in the tree, root included
	Nodes int
	// MaxDepth is the depth of the deepest node
	MaxDepth int
	// EffectiveDepth is the depth bound the build used
	EffectiveDepth int
	// Processed is the number of objects taken off the work queue
	Processed int
	// Truncated is set when the object budget ran out with work queued
	Truncated bool
}

// Tree is an owned snapshot of the reference graph below a root object.
// Call Release when done with it.
type Tree struct {
	root     *Node
	alloc    Allocator
	warnings []Warning
	stats    Stats
}

// Root returns the root node, or nil once the tree is released
func (t *Tree) Root() *Node {
	if t == nil {
		return nil
	}
	return t.root
}

// Stats returns build statistics. A released tree reports zero.
func (t *Tree) Stats() Stats {
	if t == nil || t.root == nil {
		return Stats{}
	}
	return t.stats
}

// Warnings returns the non-fatal conditions met during the build, in the
// order they occurred. A released tree has none.
func (t *Tree) Warnings() []Warning {
	if t == nil {
		return nil
	}
	return t.warnings
}

// Len returns the number of nodes
func (t *Tree) Len() int {
	n := 0
	t.Walk(func(*Node) bool {
		n++
		return true
	})
	return n
}

// Walk visits every node in depth-first pre-order, children in order,
// until fn returns false.
func (t *Tree) Walk(fn func(n *Node) bool) {
	if t.Root() == nil {
		return
	}
	stack := []*Node{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(n) {
			return
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
}

// Find returns the node for object num, or nil
func (t *Tree) Find(num uint32) *Node {
	var found *Node
	t.Walk(func(n *Node) bool {
		if n.Ref.Number == num {
			found = n
			return false
		}
		return true
	})
	return found
}

// Parent returns the node whose children include the node for num, or nil
// for the root and for objects not in the tree.
func (t *Tree) Parent(num uint32) *Node {
	var parent *Node
	t.Walk(func(n *Node) bool {
		for _, c := range n.children {
			if c.Ref.Number == num {
				parent = n
				return false
			}
		}
		return true
	})
	return parent
}

// Refs returns the identities of all nodes in pre-order
func (t *Tree) Refs() []core.ObjectRef {
	var refs []core.ObjectRef
	t.Walk(func(n *Node) bool {
		refs = append(refs, n.Ref)
		return true
	})
	return refs
}

// Release returns every node and child list to the allocator. Children are
// released before their parent, without recursion. Releasing a nil or
// already released tree does nothing.
func (t *Tree) Release() {
	if t == nil || t.root == nil {
		return
	}
	alloc := t.alloc
	if alloc == nil {
		alloc = HeapAllocator{}
	}

	type frame struct {
		node     *Node
		expanded bool
	}
	stack := []frame{{node: t.root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if !top.expanded {
			top.expanded = true
			for _, c := range top.node.children {
				stack = append(stack, frame{node: c})
			}
			continue
		}

		n := top.node
		stack = stack[:len(stack)-1]
		n.Content = ""
		if n.children != nil {
			alloc.FreeChildren(n.children)
			n.children = nil
		}
		alloc.FreeNode(n)
	}

	t.root = nil
	t.stats = Stats{}
	t.warnings = nil
}
