package objtree

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/pdftree/core"
	"github.com/tsawler/pdftree/serialize"
)

// Builder materializes reference trees from a document
type Builder struct {
	doc    core.Document
	limits Limits
	log    logrus.FieldLogger
	alloc  Allocator
	ser    *serialize.Serializer
}

// Option configures a Builder
type Option func(*Builder)

// WithLimits sets the traversal limits. Zero fields keep their defaults.
func WithLimits(l Limits) Option {
	return func(b *Builder) {
		b.limits = l.withDefaults()
	}
}

// WithLogger sets the logger used for build diagnostics
func WithLogger(l logrus.FieldLogger) Option {
	return func(b *Builder) {
		if l != nil {
			b.log = l
		}
	}
}

// WithAllocator sets the allocator nodes and child lists come from
func WithAllocator(a Allocator) Option {
	return func(b *Builder) {
		if a != nil {
			b.alloc = a
		}
	}
}

// WithSerializer sets the serializer used to render node content
func WithSerializer(s *serialize.Serializer) Option {
	return func(b *Builder) {
		if s != nil {
			b.ser = s
		}
	}
}

// NewBuilder creates a builder over doc
func NewBuilder(doc core.Document, opts ...Option) *Builder {
	b := &Builder{
		doc:    doc,
		limits: DefaultLimits(),
		log:    logrus.StandardLogger(),
		alloc:  HeapAllocator{},
		ser:    &serialize.Serializer{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Limits returns the limits in effect
func (b *Builder) Limits() Limits {
	return b.limits
}

// Build walks the reference graph breadth-first from root and returns the
// tree of first discoveries. content is the rendered root object. Each
// object appears at most once, at the shallowest position breadth-first
// order reaches it. Nodes at maxDepth are not expanded.
//
// Only an invalid root is an error. Unresolvable objects, allocation
// failures, a clamped depth and an exhausted object budget are recorded as
// warnings on the returned tree.
func (b *Builder) Build(root core.ObjectRef, content string, maxDepth int) (*Tree, error) {
	if root.Number == 0 {
		return nil, ErrInvalidRoot.New(root, "object number is 0")
	}
	if content == "" {
		return nil, ErrInvalidRoot.New(root, "content is empty")
	}

	depth := b.limits.EffectiveDepth(maxDepth)
	log := b.log.WithFields(logrus.Fields{
		"root":      root.String(),
		"max_depth": depth,
	})
	log.Debug("building object tree")

	w := &walk{
		b:       b,
		tree:    &Tree{alloc: b.alloc},
		depth:   depth,
		visited: make(map[uint32]*Node),
		missing: make(map[uint32]bool),
		log:     log,
	}
	if maxDepth > b.limits.DepthCeiling {
		w.warn(WarnDepthExceeded, 0, fmt.Sprintf("max depth %d clamped to %d", maxDepth, depth))
	}

	rootNode, err := w.newNode(root, 0, content)
	if err != nil {
		return nil, err
	}
	w.tree.root = rootNode
	w.visited[root.Number] = rootNode
	w.run()

	w.tree.stats.EffectiveDepth = depth
	w.tree.stats.Nodes = len(w.visited)
	log.WithFields(logrus.Fields{
		"nodes":     w.tree.stats.Nodes,
		"processed": w.tree.stats.Processed,
	}).Debug("object tree built")
	return w.tree, nil
}

// walk holds the state of one build
type walk struct {
	b       *Builder
	tree    *Tree
	depth   int
	visited map[uint32]*Node
	missing map[uint32]bool
	log     *logrus.Entry
}

func (w *walk) run() {
	limits := w.b.limits
	queue := []*Node{w.tree.root}
	processed := 0

	for len(queue) > 0 && processed < limits.ObjectBudget {
		node := queue[0]
		queue[0] = nil
		queue = queue[1:]
		processed++

		if node.Depth >= w.depth {
			continue
		}
		dict, ok := w.expandable(node)
		if !ok {
			continue
		}

		for _, num := range ExtractReferences(dict, node.Ref.Number, limits.ScanWidth) {
			if _, seen := w.visited[num]; seen || w.missing[num] {
				continue
			}
			obj, err := w.b.doc.GetObject(num)
			if err != nil {
				w.missing[num] = true
				w.warn(WarnNotFound, num, err.Error())
				continue
			}
			content := w.b.ser.Serialize(obj, 0)
			if content == "" {
				continue
			}

			ref := core.ObjectRef{Number: num, Generation: core.GenerationOf(w.b.doc, num)}
			child, err := w.newNode(ref, node.Depth+1, content)
			if err != nil {
				w.warn(WarnAllocationFailure, num, err.Error())
				continue
			}
			if err := node.appendChild(child, w.b.alloc); err != nil {
				w.free(child)
				w.warn(WarnAllocationFailure, num, err.Error())
				continue
			}

			w.visited[num] = child
			if child.Depth > w.tree.stats.MaxDepth {
				w.tree.stats.MaxDepth = child.Depth
			}
			if child.Depth < w.depth {
				queue = append(queue, child)
			}
		}
	}

	w.tree.stats.Processed = processed
	if len(queue) > 0 {
		w.tree.stats.Truncated = true
		w.warn(WarnBudgetExceeded, 0, fmt.Sprintf("object budget %d exhausted with %d objects queued", limits.ObjectBudget, len(queue)))
	}
}

// expandable returns the dictionary whose references become node's
// children
func (w *walk) expandable(node *Node) (core.Dict, bool) {
	num := node.Ref.Number
	obj, err := w.b.doc.GetObject(num)
	if err != nil {
		if !w.missing[num] {
			w.missing[num] = true
			w.warn(WarnNotFound, num, err.Error())
		}
		return nil, false
	}

	switch v := obj.(type) {
	case core.Dict:
		return v, true
	case *core.Stream:
		if v != nil && w.b.limits.ExpandStreams {
			return v.Dict, true
		}
	}
	if w.log.Logger.IsLevelEnabled(logrus.TraceLevel) {
		w.log.WithField("object", num).Trace(ErrNotADictionary.New(num, core.KindOf(obj)).Error())
	}
	return nil, false
}

func (w *walk) newNode(ref core.ObjectRef, depth int, content string) (*Node, error) {
	node, err := w.b.alloc.NewNode()
	if err != nil {
		return nil, err
	}
	children, err := w.b.alloc.NewChildren(w.b.limits.InitialChildren)
	if err != nil {
		w.b.alloc.FreeNode(node)
		return nil, err
	}
	node.Ref = ref
	node.Depth = depth
	node.Content = content
	node.children = children
	return node, nil
}

// free returns a node that was never attached
func (w *walk) free(node *Node) {
	if node.children != nil {
		w.b.alloc.FreeChildren(node.children)
		node.children = nil
	}
	w.b.alloc.FreeNode(node)
}

func (w *walk) warn(code WarningCode, num uint32, msg string) {
	w.tree.warnings = append(w.tree.warnings, Warning{Code: code, Object: num, Message: msg})
	w.log.WithFields(logrus.Fields{"object": num, "code": code.String()}).Debug(msg)
}
