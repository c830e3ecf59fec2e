package objtree

import (
	"github.com/tsawler/pdftree/core"
)

// Node is one object in a tree. Its children are the objects first
// discovered through it.
type Node struct {
	Ref     core.ObjectRef
	Depth   int
	Content string

	children []*Node
}

// Children returns the node's children in discovery order. The slice is
// owned by the node.
func (n *Node) Children() []*Node {
	return n.children
}

// ChildCount returns the number of children
func (n *Node) ChildCount() int {
	return len(n.children)
}

// Capacity returns the capacity of the child list
func (n *Node) Capacity() int {
	return cap(n.children)
}

// appendChild adds child, doubling the child list through alloc when it is
// full. On failure the node is unchanged.
func (n *Node) appendChild(child *Node, alloc Allocator) error {
	if len(n.children) == cap(n.children) {
		newCap := cap(n.children) * 2
		if newCap == 0 {
			newCap = DefaultInitialChildren
		}
		grown, err := alloc.NewChildren(newCap)
		if err != nil {
			return err
		}
		grown = append(grown, n.children...)
		if n.children != nil {
			alloc.FreeChildren(n.children)
		}
		n.children = grown
	}
	n.children = append(n.children, child)
	return nil
}
