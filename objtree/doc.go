// Package objtree builds bounded trees of the indirect objects reachable
// from a root object.
//
// A [Builder] walks the reference graph breadth-first. Every object appears
// once, under the object that first reached it, and each [Node] carries the
// rendered form of its object:
//
//	b := objtree.NewBuilder(doc, objtree.WithLimits(limits))
//	tree, err := b.Build(page.Ref(), serialize.Serialize(page.Dict()), 4)
//	if err != nil {
//		return err
//	}
//	defer tree.Release()
//
// Traversal is bounded by depth, by the number of array elements scanned per
// container and by a total object budget. See [Limits].
//
// Non-fatal conditions are reported as [Warning] values on the tree.
package objtree
