// Package pages provides PDF page tree traversal and page access.
//
// # Page Tree
//
// PDF documents organize pages in a tree of /Pages nodes. The [PageTree]
// type flattens it into document order, skipping /Kids entries that loop
// back to a node already visited:
//
//	tree := pages.NewPageTree(pagesDict, pagesRef, doc)
//	count, _ := tree.Count()
//	page, _ := tree.GetPage(0)  // 0-indexed
//
// # Page Access
//
// A [Page] knows its own object identity ([Page.Ref]) and its dictionary
// ([Page.Dict]). MediaBox, CropBox, Rotate and Resources are inherited
// from enclosing /Pages nodes when the page does not set them.
//
// [Page.ContentStreamObjects] and [Page.ReferencedObjects] list the object
// numbers a page points at without resolving them.
package pages
