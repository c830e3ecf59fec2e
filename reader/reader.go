package reader

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"sync"

	"github.com/edsrzf/mmap-go"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tsawler/pdftree/core"
	"github.com/tsawler/pdftree/pages"
)

// DefaultCacheSize is the number of parsed objects a Reader keeps
const DefaultCacheSize = 4096

// PDFVersion represents a PDF version
type PDFVersion struct {
	Major int
	Minor int
}

// String returns the version as a string (e.g., "1.7")
func (v PDFVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Reader is a core.Document backed by a PDF file. The file is memory-mapped
// for the lifetime of the Reader.
type Reader struct {
	file *os.File
	mm   mmap.MMap
	data []byte

	xref    *core.XRefTable
	trailer core.Dict
	version PDFVersion

	cacheSize int
	log       logrus.FieldLogger

	// mu guards cache, objStreams and pageTree. It is never held while
	// parsing because resolving an indirect /Length re-enters GetObject.
	mu         sync.Mutex
	cache      *lru.Cache[uint32, core.Object]
	objStreams map[uint32]*core.ObjectStream
	pageTree   *pages.PageTree
}

var (
	_ core.Document         = (*Reader)(nil)
	_ core.GenerationSource = (*Reader)(nil)
)

// Option configures a Reader
type Option func(*Reader)

// WithCacheSize sets the number of parsed objects kept in memory
func WithCacheSize(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.cacheSize = n
		}
	}
}

// WithLogger sets the logger used for recoverable structure problems
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Reader) {
		if log != nil {
			r.log = log
		}
	}
}

// Open memory-maps filename and parses its header and cross-reference data
func Open(filename string, opts ...Option) (*Reader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errors.Wrap(err, "failed to get file info")
	}
	if info.Size() == 0 {
		file.Close()
		return nil, errors.Errorf("%s is empty", filename)
	}

	mm, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		file.Close()
		return nil, errors.Wrapf(err, "failed to map %s", filename)
	}

	r, err := newReader(mm, opts...)
	if err != nil {
		mm.Unmap()
		file.Close()
		return nil, errors.Wrapf(err, "failed to read %s", filename)
	}
	r.file = file
	r.mm = mm
	return r, nil
}

// NewReader reads a PDF held in memory
func NewReader(data []byte, opts ...Option) (*Reader, error) {
	return newReader(data, opts...)
}

func newReader(data []byte, opts ...Option) (*Reader, error) {
	r := &Reader{
		data:       data,
		cacheSize:  DefaultCacheSize,
		log:        logrus.StandardLogger(),
		objStreams: make(map[uint32]*core.ObjectStream),
	}
	for _, opt := range opts {
		opt(r)
	}

	cache, err := lru.New[uint32, core.Object](r.cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create object cache")
	}
	r.cache = cache

	version, err := parseHeader(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse header")
	}
	r.version = version

	xref, err := core.LoadXRef(data, r)
	if err != nil {
		r.log.WithError(err).Warn("cross-reference data unusable, rebuilding from object headers")
		if xref, err = core.ReconstructXRef(data); err != nil {
			return nil, errors.Wrap(err, "failed to load xref")
		}
	}
	r.xref = xref
	r.trailer = xref.Trailer

	return r, nil
}

// Close unmaps the file and closes it
func (r *Reader) Close() error {
	var firstErr error
	if r.mm != nil {
		if err := r.mm.Unmap(); err != nil {
			firstErr = errors.Wrap(err, "failed to unmap file")
		}
		r.mm = nil
	}
	if r.file != nil {
		if err := r.file.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, "failed to close file")
		}
		r.file = nil
	}
	r.data = nil
	return firstErr
}

var versionPattern = regexp.MustCompile(`^%PDF-(\d+)\.(\d+)`)

// parseHeader finds "%PDF-x.y" within the first kilobyte; some writers put
// junk before it.
func parseHeader(data []byte) (PDFVersion, error) {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	idx := bytes.Index(head, []byte("%PDF-"))
	if idx < 0 {
		n := min(len(head), 8)
		return PDFVersion{}, fmt.Errorf("invalid PDF header: %q", head[:n])
	}
	matches := versionPattern.FindSubmatch(head[idx:])
	if matches == nil {
		return PDFVersion{}, fmt.Errorf("invalid version format after %%PDF-")
	}
	major, _ := strconv.Atoi(string(matches[1]))
	minor, _ := strconv.Atoi(string(matches[2]))
	return PDFVersion{Major: major, Minor: minor}, nil
}

// Version returns the PDF version
func (r *Reader) Version() PDFVersion {
	return r.version
}

// Trailer returns the trailer dictionary
func (r *Reader) Trailer() core.Dict {
	return r.trailer
}

// XRefTable returns the cross-reference table
func (r *Reader) XRefTable() *core.XRefTable {
	return r.xref
}

// FileSize returns the size of the PDF in bytes
func (r *Reader) FileSize() int64 {
	return int64(len(r.data))
}

// NumObjects returns /Size from the trailer
func (r *Reader) NumObjects() int {
	size, _ := r.trailer.GetInt("Size")
	return int(size)
}

// Generation returns the generation recorded in the cross-reference data
func (r *Reader) Generation(num uint32) (uint16, bool) {
	if r.xref == nil {
		return 0, false
	}
	entry, ok := r.xref.Get(num)
	if !ok || !entry.InUse() {
		return 0, false
	}
	return entry.Generation, true
}

// GetObject loads object num, consulting the cache first. Objects missing
// from the cross-reference data, or marked free, are reported with an error
// matching core.ErrObjectNotFound.
func (r *Reader) GetObject(num uint32) (core.Object, error) {
	return r.getObject(num, nil)
}

// lengthResolver is handed to the parser so that indirect /Length lookups
// can detect an object whose length refers back to itself.
type lengthResolver struct {
	r     *Reader
	chain []uint32
}

func (lr lengthResolver) GetObject(num uint32) (core.Object, error) {
	for _, n := range lr.chain {
		if n == num {
			return nil, fmt.Errorf("object %d refers to itself while loading", num)
		}
	}
	return lr.r.getObject(num, lr.chain)
}

func (r *Reader) getObject(num uint32, chain []uint32) (core.Object, error) {
	r.mu.Lock()
	if obj, ok := r.cache.Get(num); ok {
		r.mu.Unlock()
		return obj, nil
	}
	r.mu.Unlock()

	if r.xref == nil {
		// still loading the cross-reference data
		return nil, core.ErrObjectNotFound.New(num)
	}
	entry, ok := r.xref.Get(num)
	if !ok || !entry.InUse() {
		return nil, core.ErrObjectNotFound.New(num)
	}

	chain = append(chain[:len(chain):len(chain)], num)

	var obj core.Object
	var err error
	switch entry.Type {
	case core.XRefInFile:
		obj, err = r.loadInFile(num, entry, chain)
	case core.XRefCompressed:
		obj, err = r.loadCompressed(num, entry, chain)
	}
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache.Add(num, obj)
	r.mu.Unlock()
	return obj, nil
}

func (r *Reader) loadInFile(num uint32, entry core.XRefEntry, chain []uint32) (core.Object, error) {
	if entry.Offset < 0 || entry.Offset >= int64(len(r.data)) {
		return nil, errors.Errorf("object %d offset %d out of range", num, entry.Offset)
	}
	p := core.NewParserAt(r.data, int(entry.Offset))
	p.SetDocument(lengthResolver{r: r, chain: chain})

	ind, err := p.ParseIndirectObject()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse object %d", num)
	}
	if ind.Ref.Number != num {
		return nil, errors.Errorf("object number mismatch: expected %d, got %d", num, ind.Ref.Number)
	}
	return ind.Object, nil
}

func (r *Reader) loadCompressed(num uint32, entry core.XRefEntry, chain []uint32) (core.Object, error) {
	stm, err := r.objectStream(entry.StreamNum, chain)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load object stream %d for object %d", entry.StreamNum, num)
	}

	if n, ok := stm.ObjectNumber(entry.Index); ok && n == num {
		return stm.GetObjectByIndex(entry.Index)
	}
	// the index disagrees with the header; search by number
	return stm.GetObject(num)
}

func (r *Reader) objectStream(streamNum uint32, chain []uint32) (*core.ObjectStream, error) {
	r.mu.Lock()
	if stm, ok := r.objStreams[streamNum]; ok {
		r.mu.Unlock()
		return stm, nil
	}
	r.mu.Unlock()

	if entry, ok := r.xref.Get(streamNum); !ok || entry.Type != core.XRefInFile {
		return nil, errors.Errorf("object stream %d is not stored directly in the file", streamNum)
	}

	obj, err := lengthResolver{r: r, chain: chain}.GetObject(streamNum)
	if err != nil {
		return nil, err
	}
	stream, ok := obj.(*core.Stream)
	if !ok {
		return nil, errors.Errorf("object %d is a %v, not an object stream", streamNum, core.KindOf(obj))
	}
	stm, err := core.NewObjectStream(stream)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.objStreams[streamNum] = stm
	r.mu.Unlock()
	return stm, nil
}

// ClearCache drops every cached object
func (r *Reader) ClearCache() {
	r.mu.Lock()
	r.cache.Purge()
	r.objStreams = make(map[uint32]*core.ObjectStream)
	r.mu.Unlock()
}

// CacheSize returns the number of cached objects
func (r *Reader) CacheSize() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache.Len()
}

// GetCatalog returns the document catalog (root object)
func (r *Reader) GetCatalog() (core.Dict, error) {
	rootObj := r.trailer.Get("Root")
	if rootObj == nil {
		return nil, fmt.Errorf("trailer missing /Root entry")
	}
	catalog, ok, err := core.ResolveDict(r, rootObj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("catalog is not a dictionary: %v", core.KindOf(rootObj))
	}
	return catalog, nil
}

// GetInfo returns the document info dictionary, or nil when absent
func (r *Reader) GetInfo() (core.Dict, error) {
	infoObj := r.trailer.Get("Info")
	if infoObj == nil {
		return nil, nil
	}
	info, ok, err := core.ResolveDict(r, infoObj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve info: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("info is not a dictionary: %v", core.KindOf(infoObj))
	}
	return info, nil
}

// PageCount returns the number of pages in the PDF
func (r *Reader) PageCount() (int, error) {
	tree, err := r.ensurePageTree()
	if err != nil {
		return 0, err
	}
	return tree.Count()
}

// GetPage returns the page at the given index (0-based)
func (r *Reader) GetPage(index int) (*pages.Page, error) {
	tree, err := r.ensurePageTree()
	if err != nil {
		return nil, err
	}
	return tree.GetPage(index)
}

// Pages returns every page in document order
func (r *Reader) Pages() ([]*pages.Page, error) {
	tree, err := r.ensurePageTree()
	if err != nil {
		return nil, err
	}
	return tree.Pages()
}

func (r *Reader) ensurePageTree() (*pages.PageTree, error) {
	r.mu.Lock()
	tree := r.pageTree
	r.mu.Unlock()
	if tree != nil {
		return tree, nil
	}

	catalog, err := r.GetCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}
	pagesDict, pagesRef, err := pages.NewCatalog(catalog, r).Pages()
	if err != nil {
		return nil, err
	}
	tree = pages.NewPageTree(pagesDict, pagesRef, r)

	r.mu.Lock()
	r.pageTree = tree
	r.mu.Unlock()
	return tree, nil
}
