package objtree

// Allocator provides node and child-list storage for a tree. Every value it
// hands out is returned to it exactly once when the tree is released.
type Allocator interface {
	NewNode() (*Node, error)
	// NewChildren returns an empty child list with the given capacity
	NewChildren(capacity int) ([]*Node, error)
	FreeChildren(children []*Node)
	FreeNode(node *Node)
}

// HeapAllocator allocates from the Go heap. Frees are no-ops.
type HeapAllocator struct{}

var _ Allocator = HeapAllocator{}

// NewNode allocates a node
func (HeapAllocator) NewNode() (*Node, error) {
	return &Node{}, nil
}

// NewChildren allocates a child list
func (HeapAllocator) NewChildren(capacity int) ([]*Node, error) {
	return make([]*Node, 0, capacity), nil
}

// FreeChildren does nothing; the garbage collector reclaims the list
func (HeapAllocator) FreeChildren([]*Node) {}

// FreeNode does nothing; the garbage collector reclaims the node
func (HeapAllocator) FreeNode(*Node) {}
