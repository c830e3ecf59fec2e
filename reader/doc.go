// Package reader provides a core.Document backed by a PDF file.
//
// # Opening PDF Files
//
// [Open] memory-maps the file and parses its header and cross-reference
// data. The mapping is released by Close:
//
//	r, err := reader.Open("document.pdf", reader.WithCacheSize(1024))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
// [NewReader] reads a PDF that is already in memory.
//
// When the recorded cross-reference data is unusable the reader rebuilds it
// by scanning for object headers and logs a warning.
//
// # Object Resolution
//
// GetObject resolves in-file objects and objects packed into object
// streams. Parsed objects are kept in a bounded LRU cache; ClearCache drops
// them. Lookups of unknown or free objects return an error matching
// core.ErrObjectNotFound.
//
// A Reader may be shared between goroutines. Its cache is guarded by a
// mutex that is not held while parsing.
//
// # Document Structure
//
//   - Version() - PDF version (e.g., 1.7)
//   - GetCatalog(), GetInfo(), Trailer()
//   - PageCount(), GetPage(index), Pages()
package reader
