// Package filters provides the PDF stream decompression filters needed to
// read cross-reference streams and object streams.
//
// FlateDecode (zlib/deflate) supports the predictors used by xref streams:
//   - 1: No prediction (default)
//   - 2: TIFF Predictor 2
//   - 10-15: PNG predictors (None, Sub, Up, Average, Paeth)
//
//	decoded, err := filters.FlateDecode(data, filters.Params{Predictor: 12, Columns: 5})
//
// ASCIIHexDecode and ASCII85Decode undo the two text encodings PDF writers
// sometimes wrap around Flate data.
package filters
