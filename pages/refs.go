package pages

import (
	"github.com/tsawler/pdftree/core"
)

// ContentStreamObjects returns the object numbers of the page's content
// streams. /Contents may be a single reference or an array of references;
// direct streams have no number and are skipped. At most limit numbers are
// returned and a non-positive limit returns none.
func (p *Page) ContentStreamObjects(limit int) []uint32 {
	if limit <= 0 {
		return nil
	}

	var nums []uint32
	switch v := p.dict.Get("Contents").(type) {
	case core.Reference:
		nums = append(nums, v.Number)
	case core.Array:
		for _, elem := range v {
			if len(nums) >= limit {
				break
			}
			if ref, ok := elem.(core.Reference); ok {
				nums = append(nums, ref.Number)
			}
		}
	}
	return nums
}

// ReferencedObjects returns the object numbers referenced from the page
// dictionary: direct references, references inside arrays and references
// one level down in nested dictionaries, in key order. At most limit numbers
// are returned and a non-positive limit returns none. Duplicates are kept.
func (p *Page) ReferencedObjects(limit int) []uint32 {
	if limit <= 0 {
		return nil
	}

	var nums []uint32
	add := func(obj core.Object) {
		if ref, ok := obj.(core.Reference); ok && len(nums) < limit {
			nums = append(nums, ref.Number)
		}
	}

	p.dict.Range(func(_ string, val core.Object) bool {
		switch v := val.(type) {
		case core.Reference:
			add(v)
		case core.Array:
			for _, elem := range v {
				add(elem)
			}
		case core.Dict:
			v.Range(func(_ string, sub core.Object) bool {
				add(sub)
				return len(nums) < limit
			})
		}
		return len(nums) < limit
	})
	return nums
}
