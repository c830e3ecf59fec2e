// Package core provides the PDF object model and the low-level parsing
// primitives used to read objects out of a file.
//
// # Object Model
//
// Every PDF value satisfies [Object] and reports a [Kind]:
//
//   - [Null], [Bool], [Int], [Real]
//   - [String] holds decoded string bytes, [Name] a name without its slash
//   - [Array] and [Dict] are containers; a Dict always enumerates its keys
//     in ascending order
//   - [Stream] is a dictionary plus its still-encoded payload
//   - [Reference] points at an indirect object by number and generation
//
// Indirect objects are resolved through a [Document]. The helpers [Resolve]
// and [ResolveDict] follow one level of reference.
//
// # Parsing
//
// The [Lexer] tokenizes an in-memory buffer (usually a memory-mapped file)
// without copying it. The [Parser] builds objects from tokens and parses
// "num gen obj ... endobj" definitions with [Parser.ParseIndirectObject].
//
// # Cross-Reference Data
//
// [LoadXRef] reads the cross-reference section named by startxref and every
// older section reachable through /Prev and /XRefStm, handling both classic
// tables and xref streams. [ReconstructXRef] rebuilds a table by scanning
// for object headers when the recorded data is unusable.
//
// [ObjectStream] exposes the objects packed in a /Type /ObjStm stream, and
// [Stream.Decode] undoes the filters those streams use.
package core
