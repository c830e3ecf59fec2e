package objtree

import (
	"github.com/tsawler/pdftree/core"
)

// ExtractReferences lists the object numbers dict points at, in key order:
// direct reference values, reference elements among the first scanWidth
// elements of array values, and reference values of nested dictionaries one
// level down. References to object 0 or to self are dropped. Duplicates are
// kept; Build removes them. A non-positive scanWidth selects
// DefaultScanWidth.
func ExtractReferences(dict core.Dict, self uint32, scanWidth int) []uint32 {
	if scanWidth <= 0 {
		scanWidth = DefaultScanWidth
	}

	var refs []uint32
	add := func(obj core.Object) {
		ref, ok := obj.(core.Reference)
		if !ok || ref.Number == 0 || ref.Number == self {
			return
		}
		refs = append(refs, ref.Number)
	}

	dict.Range(func(_ string, val core.Object) bool {
		switch v := val.(type) {
		case core.Reference:
			add(v)
		case core.Array:
			for i := 0; i < len(v) && i < scanWidth; i++ {
				add(v[i])
			}
		case core.Dict:
			v.Range(func(_ string, sub core.Object) bool {
				add(sub)
				return true
			})
		}
		return true
	})
	return refs
}
