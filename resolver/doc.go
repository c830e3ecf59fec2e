// Package resolver inlines indirect references for display.
//
// PDF objects refer to each other with indirect references such as
// "5 0 R". An [Expander] replaces them with the objects they name, so a
// font dictionary can be printed together with its descriptor:
//
//	x := resolver.NewExpander(doc, resolver.WithMaxDepth(2))
//	obj, err := x.ExpandObject(12)
//	fmt.Println(serialize.Serialize(obj))
//
// Circular references are not an error: a reference back to an object
// that is already being expanded is kept as a reference. The same holds
// for references beyond the depth limit and for objects that do not exist.
package resolver
