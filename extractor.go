package pdftree

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/pdftree/config"
	"github.com/tsawler/pdftree/core"
	"github.com/tsawler/pdftree/objtree"
	"github.com/tsawler/pdftree/pages"
	"github.com/tsawler/pdftree/reader"
	"github.com/tsawler/pdftree/resolver"
)

// Extractor provides a fluent interface over one PDF file.
// Each configuration method returns a new Extractor, so chains can branch
// from a shared prefix.
type Extractor struct {
	filename string

	reader       *reader.Reader
	ownsReader   bool // true if we opened the reader and should close it
	readerOpened bool

	page     int // 1-indexed
	maxDepth int
	inline   int
	options  options

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Extractor with a deep copy of options
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename:     e.filename,
		reader:       e.reader,
		ownsReader:   e.ownsReader,
		readerOpened: e.readerOpened,
		page:         e.page,
		maxDepth:     e.maxDepth,
		inline:       e.inline,
		options:      e.options.clone(),
		err:          e.err,
	}
}

// ensureReader opens the reader if not already open
func (e *Extractor) ensureReader() error {
	if e.readerOpened {
		return nil
	}
	if e.filename == "" {
		return fmt.Errorf("no filename specified")
	}
	r, err := reader.Open(e.filename, e.options.readerOptions()...)
	if err != nil {
		return fmt.Errorf("failed to open PDF: %w", err)
	}
	e.reader = r
	e.ownsReader = true
	e.readerOpened = true
	return nil
}

// Close releases the reader if the Extractor opened it. It is safe to call
// Close multiple times.
func (e *Extractor) Close() error {
	if e.ownsReader && e.reader != nil {
		err := e.reader.Close()
		e.reader = nil
		e.ownsReader = false
		e.readerOpened = false
		return err
	}
	return nil
}

// Page selects the page (1-indexed) page operations work on. The default
// is the first page.
//
// Example:
//
//	tree, err := pdftree.Open("doc.pdf").Page(3).Tree()
func (e *Extractor) Page(n int) *Extractor {
	newExt := e.clone()
	if n < 1 && newExt.err == nil {
		newExt.err = fmt.Errorf("invalid page number %d", n)
	}
	newExt.page = n
	return newExt
}

// MaxDepth sets the depth bound of Tree. Zero or less selects the
// configured default.
func (e *Extractor) MaxDepth(d int) *Extractor {
	newExt := e.clone()
	newExt.maxDepth = d
	return newExt
}

// Limits sets traversal limits
func (e *Extractor) Limits(l objtree.Limits) *Extractor {
	newExt := e.clone()
	newExt.options.limits = l
	return newExt
}

// Logger sets the logger used by the reader and the tree builder
func (e *Extractor) Logger(l logrus.FieldLogger) *Extractor {
	newExt := e.clone()
	WithLogger(l)(&newExt.options)
	return newExt
}

// Config applies file settings
func (e *Extractor) Config(cfg *config.Config) *Extractor {
	newExt := e.clone()
	WithConfig(cfg)(&newExt.options)
	return newExt
}

// Inline makes ObjectInfo replace references with their targets, up to
// depth references deep.
func (e *Extractor) Inline(depth int) *Extractor {
	newExt := e.clone()
	newExt.inline = depth
	return newExt
}

// ExpandStreams makes Tree follow references in stream dictionaries
func (e *Extractor) ExpandStreams() *Extractor {
	newExt := e.clone()
	newExt.options.limits.ExpandStreams = true
	return newExt
}

// selectedPage opens the reader and resolves the selected page
func (e *Extractor) selectedPage() (*pages.Page, error) {
	if err := e.ensureReader(); err != nil {
		return nil, err
	}
	n := e.page
	if n == 0 {
		n = 1
	}
	count, err := e.reader.PageCount()
	if err != nil {
		return nil, fmt.Errorf("failed to get page count: %w", err)
	}
	if n > count {
		return nil, fmt.Errorf("page %d out of range (1-%d)", n, count)
	}
	page, err := e.reader.GetPage(n - 1)
	if err != nil {
		return nil, fmt.Errorf("failed to get page %d: %w", n, err)
	}
	return page, nil
}

// Tree builds the reference tree of the selected page. This is a terminal
// operation that closes the underlying reader; the tree does not depend on
// it.
//
// Example:
//
//	tree, err := pdftree.Open("doc.pdf").MaxDepth(3).Tree()
//	defer tree.Release()
func (e *Extractor) Tree() (*objtree.Tree, error) {
	if e.err != nil {
		return nil, e.err
	}
	defer e.Close()

	page, err := e.selectedPage()
	if err != nil {
		return nil, err
	}
	return buildTree(e.reader, page, e.maxDepth, e.options)
}

// PageInfo describes the selected page dictionary. This is a terminal
// operation.
func (e *Extractor) PageInfo() (objtree.InfoSnapshot, error) {
	if e.err != nil {
		return objtree.InfoSnapshot{}, e.err
	}
	defer e.Close()

	page, err := e.selectedPage()
	if err != nil {
		return objtree.InfoSnapshot{}, err
	}
	return objtree.DescribePage(page, e.options.serializer), nil
}

// Describe returns the rendered form of object num with generation gen.
// This is a terminal operation.
func (e *Extractor) Describe(num uint32, gen uint16) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	defer e.Close()

	if err := e.ensureReader(); err != nil {
		return "", err
	}
	return objtree.RawObjectContent(e.reader, e.options.serializer, num, gen)
}

// ObjectInfo describes object num with generation gen using the
// configured serializer. This is a terminal operation.
func (e *Extractor) ObjectInfo(num uint32, gen uint16) (objtree.InfoSnapshot, error) {
	if e.err != nil {
		return objtree.InfoSnapshot{}, e.err
	}
	defer e.Close()

	if err := e.ensureReader(); err != nil {
		return objtree.InfoSnapshot{}, err
	}
	if _, err := objtree.RawObjectContent(e.reader, e.options.serializer, num, gen); err != nil {
		return objtree.InfoSnapshot{}, err
	}
	var obj core.Object
	var err error
	if e.inline > 0 {
		obj, err = resolver.NewExpander(e.reader, resolver.WithMaxDepth(e.inline)).ExpandObject(num)
	} else {
		obj, err = e.reader.GetObject(num)
	}
	if err != nil {
		return objtree.InfoSnapshot{}, err
	}
	return objtree.InfoSnapshot{
		Ref:       core.ObjectRef{Number: num, Generation: gen},
		Content:   e.options.serializer.Serialize(obj, 0),
		Indirect:  true,
		HasStream: core.KindOf(obj) == core.KindStream,
	}, nil
}

// ContentStreamObjects lists up to limit content stream object numbers of
// the selected page. This is a terminal operation.
func (e *Extractor) ContentStreamObjects(limit int) ([]uint32, error) {
	if e.err != nil {
		return nil, e.err
	}
	defer e.Close()

	page, err := e.selectedPage()
	if err != nil {
		return nil, err
	}
	return ContentStreamObjects(page, limit), nil
}

// ReferencedObjects lists up to limit object numbers the selected page
// refers to. This is a terminal operation.
func (e *Extractor) ReferencedObjects(limit int) ([]uint32, error) {
	if e.err != nil {
		return nil, e.err
	}
	defer e.Close()

	page, err := e.selectedPage()
	if err != nil {
		return nil, err
	}
	return ReferencedObjects(page, limit), nil
}

// PageCount returns the number of pages. This does NOT close the reader.
//
// Example:
//
//	ext := pdftree.Open("document.pdf")
//	defer ext.Close()
//	count, err := ext.PageCount()
func (e *Extractor) PageCount() (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	if err := e.ensureReader(); err != nil {
		return 0, err
	}
	return e.reader.PageCount()
}

// PageRefs returns the object identity of every page in document order.
// This does NOT close the reader.
func (e *Extractor) PageRefs() ([]core.ObjectRef, error) {
	if e.err != nil {
		return nil, e.err
	}
	if err := e.ensureReader(); err != nil {
		return nil, err
	}
	all, err := e.reader.Pages()
	if err != nil {
		return nil, err
	}
	refs := make([]core.ObjectRef, len(all))
	for i, p := range all {
		refs[i] = p.Ref()
	}
	return refs, nil
}
