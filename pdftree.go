// Package pdftree builds diagnostic trees of the indirect objects a PDF page
// refers to.
//
// Basic usage:
//
//	tree, err := pdftree.Open("document.pdf").Page(1).MaxDepth(4).Tree()
//	if err != nil {
//	    // handle error
//	}
//	defer tree.Release()
//	if w := tree.Warnings(); len(w) > 0 {
//	    log.Println("Warnings:", objtree.FormatWarnings(w))
//	}
//
// The functions in this file work on any [core.Document], including an
// already opened [reader.Reader] or an in-memory [memdoc.Document].
package pdftree

import (
	"github.com/tsawler/pdftree/core"
	"github.com/tsawler/pdftree/objtree"
	"github.com/tsawler/pdftree/pages"
	"github.com/tsawler/pdftree/reader"
)

// Open returns an Extractor for the PDF at filename. The file is opened
// lazily and closed by terminal operations such as Tree, or by Close.
//
// Example:
//
//	count, err := pdftree.Open("document.pdf").PageCount()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromReader returns an Extractor over an already opened reader. The caller
// keeps ownership of r and must close it.
func FromReader(r *reader.Reader) *Extractor {
	return &Extractor{
		reader:       r,
		ownsReader:   false,
		readerOpened: true,
		options:      defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil.
//
// Example:
//
//	count := pdftree.Must(pdftree.Open("document.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// BuildTree builds the reference tree rooted at page. maxDepth <= 0
// selects the configured default depth. The caller owns the tree and
// should release it with ReleaseTree.
func BuildTree(doc core.Document, page *pages.Page, maxDepth int, opts ...Option) (*objtree.Tree, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return buildTree(doc, page, maxDepth, o)
}

func buildTree(doc core.Document, page *pages.Page, maxDepth int, o options) (*objtree.Tree, error) {
	if doc == nil {
		doc = page.Document()
	}
	content := o.serializer.Serialize(page.Dict(), 0)
	return objtree.NewBuilder(doc, o.builderOptions()...).Build(page.Ref(), content, maxDepth)
}

// ReleaseTree releases tree. A nil tree is ignored.
func ReleaseTree(tree *objtree.Tree) {
	tree.Release()
}

// DescribeObject returns the rendered form of object num with generation
// gen, or an objtree.ErrNotFound error. The serializer from opts is used.
func DescribeObject(doc core.Document, num uint32, gen uint16, opts ...Option) (string, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return objtree.RawObjectContent(doc, o.serializer, num, gen)
}

// ContentStreamObjects lists up to limit object numbers of the page's
// content streams.
func ContentStreamObjects(page *pages.Page, limit int) []uint32 {
	return page.ContentStreamObjects(limit)
}

// ReferencedObjects lists up to limit object numbers the page dictionary
// refers to directly, through arrays or through one nested dictionary.
func ReferencedObjects(page *pages.Page, limit int) []uint32 {
	return page.ReferencedObjects(limit)
}
