package resolver

import (
	"fmt"

	"github.com/tsawler/pdftree/core"
)

// DefaultMaxDepth is how many references deep Expand inlines by default
const DefaultMaxDepth = 4

// Expander replaces indirect references with the objects they name. A
// reference is left in place when its target is already being expanded
// further up, when it lies deeper than the depth limit, or when it does
// not resolve.
type Expander struct {
	doc      core.Document
	maxDepth int
	onPath   map[uint32]bool // cycle detection
}

// Option configures the expander
type Option func(*Expander)

// WithMaxDepth sets how many references deep are inlined (default: 4)
func WithMaxDepth(depth int) Option {
	return func(x *Expander) {
		if depth > 0 {
			x.maxDepth = depth
		}
	}
}

// NewExpander creates an expander over doc
func NewExpander(doc core.Document, opts ...Option) *Expander {
	x := &Expander{
		doc:      doc,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Expand returns a copy of obj with references inlined. obj itself is not
// modified. Stream data is shared with the original.
func (x *Expander) Expand(obj core.Object) (core.Object, error) {
	x.onPath = make(map[uint32]bool)
	return x.expand(obj, 0)
}

// ExpandObject loads object num and expands it. num is treated as being
// on the path, so references back to it stay references.
func (x *Expander) ExpandObject(num uint32) (core.Object, error) {
	obj, err := x.doc.GetObject(num)
	if err != nil {
		return nil, err
	}
	x.onPath = map[uint32]bool{num: true}
	return x.expand(obj, 0)
}

func (x *Expander) expand(obj core.Object, depth int) (core.Object, error) {
	switch v := obj.(type) {
	case core.Reference:
		if depth >= x.maxDepth || x.onPath[v.Number] {
			return v, nil
		}
		target, err := x.doc.GetObject(v.Number)
		if err != nil {
			if core.ErrObjectNotFound.Is(err) {
				return v, nil
			}
			return nil, fmt.Errorf("failed to resolve reference %s: %w", v, err)
		}

		// unmark afterwards so the object can appear in other branches
		x.onPath[v.Number] = true
		defer delete(x.onPath, v.Number)
		return x.expand(target, depth+1)

	case core.Dict:
		out := make(core.Dict, len(v))
		var err error
		v.Range(func(key string, value core.Object) bool {
			var expanded core.Object
			expanded, err = x.expand(value, depth)
			if err != nil {
				err = fmt.Errorf("failed to expand dict key %s: %w", key, err)
				return false
			}
			out[key] = expanded
			return true
		})
		if err != nil {
			return nil, err
		}
		return out, nil

	case core.Array:
		out := make(core.Array, len(v))
		for i, elem := range v {
			expanded, err := x.expand(elem, depth)
			if err != nil {
				return nil, fmt.Errorf("failed to expand array element %d: %w", i, err)
			}
			out[i] = expanded
		}
		return out, nil

	case *core.Stream:
		if v == nil {
			return obj, nil
		}
		dict, err := x.expand(v.Dict, depth)
		if err != nil {
			return nil, fmt.Errorf("failed to expand stream dict: %w", err)
		}
		return &core.Stream{Dict: dict.(core.Dict), Data: v.Data}, nil

	default:
		// Primitive types don't need resolution
		return obj, nil
	}
}
