package pages

import (
	"fmt"

	"github.com/tsawler/pdftree/core"
)

// Catalog represents the PDF document catalog (root of document structure)
type Catalog struct {
	dict core.Dict
	doc  core.Document
}

// NewCatalog creates a new catalog from a dictionary
func NewCatalog(dict core.Dict, doc core.Document) *Catalog {
	return &Catalog{
		dict: dict,
		doc:  doc,
	}
}

// Type returns the catalog type (should be "Catalog")
func (c *Catalog) Type() string {
	name, _ := c.dict.GetName("Type")
	return string(name)
}

// Version returns the /Version entry if present
func (c *Catalog) Version() string {
	name, _ := c.dict.GetName("Version")
	return string(name)
}

// Pages returns the page tree root together with its object identity. The
// identity is zero when /Pages is a direct dictionary.
func (c *Catalog) Pages() (core.Dict, core.ObjectRef, error) {
	pagesObj := c.dict.Get("Pages")
	if pagesObj == nil {
		return nil, core.ObjectRef{}, fmt.Errorf("catalog missing /Pages entry")
	}

	var ref core.ObjectRef
	if r, ok := pagesObj.(core.Reference); ok {
		ref = r.Ref()
	}

	pagesDict, ok, err := core.ResolveDict(c.doc, pagesObj)
	if err != nil {
		return nil, ref, fmt.Errorf("failed to resolve /Pages: %w", err)
	}
	if !ok {
		return nil, ref, fmt.Errorf("invalid /Pages kind: %v", core.KindOf(pagesObj))
	}
	return pagesDict, ref, nil
}

// PageTree flattens the /Pages hierarchy into page order
type PageTree struct {
	root    core.Dict
	rootRef core.ObjectRef
	doc     core.Document
	pages   []*Page
}

// NewPageTree creates a new page tree from the root pages dictionary
func NewPageTree(root core.Dict, rootRef core.ObjectRef, doc core.Document) *PageTree {
	return &PageTree{
		root:    root,
		rootRef: rootRef,
		doc:     doc,
	}
}

// Count returns the /Count of the root node, falling back to the number of
// leaves when /Count is missing or wrong.
func (t *PageTree) Count() (int, error) {
	if count, ok := t.root.GetInt("Count"); ok && count >= 0 {
		return int(count), nil
	}
	pages, err := t.Pages()
	if err != nil {
		return 0, err
	}
	return len(pages), nil
}

// GetPage returns the page at the given index (0-based)
func (t *PageTree) GetPage(index int) (*Page, error) {
	pages, err := t.Pages()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(pages) {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, len(pages))
	}
	return pages[index], nil
}

// Pages returns all pages in document order
func (t *PageTree) Pages() ([]*Page, error) {
	if t.pages != nil {
		return t.pages, nil
	}

	pages := make([]*Page, 0)
	visited := make(map[uint32]bool)
	if !t.rootRef.IsZero() {
		visited[t.rootRef.Number] = true
	}
	if err := t.traversePageNode(t.root, t.rootRef, nil, visited, &pages); err != nil {
		return nil, fmt.Errorf("failed to traverse page tree: %w", err)
	}
	t.pages = pages
	return pages, nil
}

// traversePageNode walks one node. ancestors holds the /Pages nodes above
// node, nearest first, for inheritable attributes.
func (t *PageTree) traversePageNode(node core.Dict, ref core.ObjectRef, ancestors []core.Dict, visited map[uint32]bool, out *[]*Page) error {
	typeName, _ := node.GetName("Type")
	if typeName == "" {
		// some writers omit /Type on intermediate nodes
		if node.Has("Kids") {
			typeName = "Pages"
		} else {
			typeName = "Page"
		}
	}

	switch typeName {
	case "Pages":
		kidsObj, err := core.Resolve(t.doc, node.Get("Kids"))
		if err != nil {
			return fmt.Errorf("failed to resolve /Kids: %w", err)
		}
		kids, ok := kidsObj.(core.Array)
		if !ok {
			return fmt.Errorf("invalid /Kids kind: %v", core.KindOf(kidsObj))
		}

		chain := append([]core.Dict{node}, ancestors...)
		for i, kidObj := range kids {
			var kidRef core.ObjectRef
			if r, ok := kidObj.(core.Reference); ok {
				if visited[r.Number] {
					// loops in /Kids would otherwise recurse forever
					continue
				}
				visited[r.Number] = true
				kidRef = r.Ref()
			}

			kidDict, ok, err := core.ResolveDict(t.doc, kidObj)
			if err != nil {
				return fmt.Errorf("failed to resolve kid %d: %w", i, err)
			}
			if !ok {
				return fmt.Errorf("invalid kid %d kind: %v", i, core.KindOf(kidObj))
			}
			if err := t.traversePageNode(kidDict, kidRef, chain, visited, out); err != nil {
				return err
			}
		}

	case "Page":
		*out = append(*out, NewPage(node, ref, ancestors, t.doc))

	default:
		return fmt.Errorf("unexpected page node type: %s", typeName)
	}
	return nil
}

// Page represents a single PDF page
type Page struct {
	dict      core.Dict
	ref       core.ObjectRef
	ancestors []core.Dict // enclosing /Pages nodes, nearest first
	doc       core.Document
}

// NewPage creates a page. ref is the identity of the page object and is zero
// for pages that are not indirect objects.
func NewPage(dict core.Dict, ref core.ObjectRef, ancestors []core.Dict, doc core.Document) *Page {
	return &Page{
		dict:      dict,
		ref:       ref,
		ancestors: ancestors,
		doc:       doc,
	}
}

// Ref returns the identity of the page object
func (p *Page) Ref() core.ObjectRef {
	return p.ref
}

// Dict returns the page dictionary
func (p *Page) Dict() core.Dict {
	return p.dict
}

// Document returns the document the page belongs to
func (p *Page) Document() core.Document {
	return p.doc
}

// Type returns the page type (should be "Page")
func (p *Page) Type() string {
	name, _ := p.dict.GetName("Type")
	return string(name)
}

// inherited looks up key on the page, then on each ancestor
func (p *Page) inherited(key string) core.Object {
	if obj := p.dict.Get(key); obj != nil {
		return obj
	}
	for _, a := range p.ancestors {
		if obj := a.Get(key); obj != nil {
			return obj
		}
	}
	return nil
}

// MediaBox returns the page media box [x1 y1 x2 y2]
// This is inheritable, so checks parents if not present
func (p *Page) MediaBox() ([]float64, error) {
	return p.getBox("MediaBox")
}

// CropBox returns the page crop box, defaulting to MediaBox
func (p *Page) CropBox() ([]float64, error) {
	box, err := p.getBox("CropBox")
	if err != nil {
		return p.MediaBox()
	}
	return box, nil
}

func (p *Page) getBox(name string) ([]float64, error) {
	boxObj := p.inherited(name)
	if boxObj == nil {
		return nil, fmt.Errorf("%s not found", name)
	}

	resolved, err := core.Resolve(p.doc, boxObj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", name, err)
	}
	arr, ok := resolved.(core.Array)
	if !ok {
		return nil, fmt.Errorf("invalid %s kind: %v", name, core.KindOf(resolved))
	}
	if len(arr) != 4 {
		return nil, fmt.Errorf("invalid %s length: %d (expected 4)", name, len(arr))
	}

	box := make([]float64, 4)
	for i, elem := range arr {
		switch v := elem.(type) {
		case core.Int:
			box[i] = float64(v)
		case core.Real:
			box[i] = float64(v)
		default:
			return nil, fmt.Errorf("invalid %s element kind: %v", name, core.KindOf(elem))
		}
	}
	return box, nil
}

// Resources returns the page resources dictionary
// This is inheritable
func (p *Page) Resources() (core.Dict, error) {
	resObj := p.inherited("Resources")
	if resObj == nil {
		return nil, fmt.Errorf("resources not found")
	}
	dict, ok, err := core.ResolveDict(p.doc, resObj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Resources: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("invalid Resources kind: %v", core.KindOf(resObj))
	}
	return dict, nil
}

// Contents returns the resolved content stream objects
func (p *Page) Contents() ([]core.Object, error) {
	contentsObj := p.dict.Get("Contents")
	if contentsObj == nil {
		return nil, nil
	}

	resolved, err := core.Resolve(p.doc, contentsObj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Contents: %w", err)
	}

	switch v := resolved.(type) {
	case *core.Stream:
		return []core.Object{v}, nil
	case core.Array:
		streams := make([]core.Object, len(v))
		for i, elem := range v {
			obj, err := core.Resolve(p.doc, elem)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve contents[%d]: %w", i, err)
			}
			streams[i] = obj
		}
		return streams, nil
	default:
		return nil, fmt.Errorf("invalid Contents kind: %v", core.KindOf(resolved))
	}
}

// Rotate returns the page rotation (0, 90, 180, or 270)
// This is inheritable
func (p *Page) Rotate() int {
	if rotate, ok := p.inherited("Rotate").(core.Int); ok {
		return int(rotate)
	}
	return 0
}

// Width returns the page width (from MediaBox)
func (p *Page) Width() (float64, error) {
	box, err := p.MediaBox()
	if err != nil {
		return 0, err
	}
	return box[2] - box[0], nil
}

// Height returns the page height (from MediaBox)
func (p *Page) Height() (float64, error) {
	box, err := p.MediaBox()
	if err != nil {
		return 0, err
	}
	return box[3] - box[1], nil
}
