package core

import (
	"bytes"
	"fmt"
	"strconv"
)

// XRefEntryType distinguishes the three kinds of cross-reference entries
type XRefEntryType int

const (
	XRefFree XRefEntryType = iota
	XRefInFile
	XRefCompressed
)

// XRefEntry locates one object. For in-file objects Offset is the byte
// offset of "num gen obj"; for compressed objects StreamNum and Index locate
// the object inside an object stream.
type XRefEntry struct {
	Type       XRefEntryType
	Offset     int64
	Generation uint16
	StreamNum  uint32
	Index      int
}

// InUse reports whether the entry names a live object
func (e XRefEntry) InUse() bool {
	return e.Type != XRefFree
}

// XRefTable maps object numbers to their locations
type XRefTable struct {
	Entries map[uint32]XRefEntry
	Trailer Dict
}

// NewXRefTable creates a new empty XRef table
func NewXRefTable() *XRefTable {
	return &XRefTable{
		Entries: make(map[uint32]XRefEntry),
		Trailer: make(Dict),
	}
}

// Get retrieves an XRef entry by object number
func (x *XRefTable) Get(num uint32) (XRefEntry, bool) {
	entry, ok := x.Entries[num]
	return entry, ok
}

// Size returns the number of entries in the table
func (x *XRefTable) Size() int {
	return len(x.Entries)
}

// mergeOlder adds entries from an older section without overriding newer ones
func (x *XRefTable) mergeOlder(older *XRefTable) {
	for num, entry := range older.Entries {
		if _, ok := x.Entries[num]; !ok {
			x.Entries[num] = entry
		}
	}
	for key, val := range older.Trailer {
		if !x.Trailer.Has(key) {
			x.Trailer[key] = val
		}
	}
}

var startxrefKeyword = []byte("startxref")

// FindStartXRef returns the offset recorded after the last "startxref"
func FindStartXRef(data []byte) (int64, error) {
	tail := data
	if len(tail) > 4096 {
		tail = tail[len(tail)-4096:]
	}
	idx := bytes.LastIndex(tail, startxrefKeyword)
	if idx < 0 {
		return 0, fmt.Errorf("startxref not found in PDF")
	}
	lex := NewLexerAt(tail, idx+len(startxrefKeyword))
	tok, err := lex.NextToken()
	if err != nil {
		return 0, fmt.Errorf("invalid startxref: %w", err)
	}
	if tok.Type != TokenInteger {
		return 0, fmt.Errorf("invalid startxref offset token %v", tok.Type)
	}
	offset, err := strconv.ParseInt(string(tok.Value), 10, 64)
	if err != nil || offset < 0 || offset >= int64(len(data)) {
		return 0, fmt.Errorf("invalid xref offset %q", tok.Value)
	}
	return offset, nil
}

// LoadXRef parses the cross-reference section at startxref and every older
// section reachable through /Prev and /XRefStm. Newer entries win. doc is
// used to resolve indirect /Length values of xref streams and may be nil.
func LoadXRef(data []byte, doc Document) (*XRefTable, error) {
	offset, err := FindStartXRef(data)
	if err != nil {
		return nil, err
	}

	merged := NewXRefTable()
	seen := make(map[int64]bool)
	pending := []int64{offset}

	for len(pending) > 0 {
		off := pending[0]
		pending = pending[1:]
		if seen[off] {
			continue
		}
		seen[off] = true

		section, err := ParseXRefSection(data, off, doc)
		if err != nil {
			if len(seen) == 1 {
				return nil, fmt.Errorf("failed to parse xref at %d: %w", off, err)
			}
			// a broken older section only loses history
			continue
		}
		merged.mergeOlder(section)

		// hybrid files carry an xref stream with entries the table omits
		if stm, ok := section.Trailer.GetInt("XRefStm"); ok {
			pending = append(pending, int64(stm))
		}
		if prev, ok := section.Trailer.GetInt("Prev"); ok {
			pending = append(pending, int64(prev))
		}
	}

	return merged, nil
}

// ParseXRefSection parses either a classic "xref" table or an xref stream at
// offset.
func ParseXRefSection(data []byte, offset int64, doc Document) (*XRefTable, error) {
	if offset < 0 || offset >= int64(len(data)) {
		return nil, fmt.Errorf("xref offset %d out of range", offset)
	}
	lex := NewLexerAt(data, int(offset))
	tok, err := lex.NextToken()
	if err != nil {
		return nil, err
	}
	if tok.Type == TokenKeyword && string(tok.Value) == "xref" {
		return parseXRefTable(data, lex)
	}
	return parseXRefStream(data, int(offset), doc)
}

// parseXRefTable parses subsections of "first count" headers followed by
// "offset gen n|f" triples, then the trailer dictionary.
func parseXRefTable(data []byte, lex *Lexer) (*XRefTable, error) {
	table := NewXRefTable()

	for {
		tok, err := lex.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == TokenKeyword && string(tok.Value) == "trailer" {
			break
		}
		if tok.Type != TokenInteger {
			return nil, fmt.Errorf("invalid subsection header at position %d", tok.Pos)
		}
		first, err := strconv.ParseUint(string(tok.Value), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid first object number: %w", err)
		}
		countTok, err := lex.NextToken()
		if err != nil {
			return nil, err
		}
		count, err := strconv.Atoi(string(countTok.Value))
		if err != nil || countTok.Type != TokenInteger || count < 0 {
			return nil, fmt.Errorf("invalid subsection count at position %d", countTok.Pos)
		}

		for i := 0; i < count; i++ {
			entry, err := parseXRefEntry(lex)
			if err != nil {
				return nil, fmt.Errorf("failed to parse xref entry %d: %w", int(first)+i, err)
			}
			num := uint32(first) + uint32(i)
			if _, dup := table.Entries[num]; !dup {
				table.Entries[num] = entry
			}
		}
	}

	p := &Parser{lexer: lex}
	obj, err := p.ParseObject()
	if err != nil {
		return nil, fmt.Errorf("failed to parse trailer dictionary: %w", err)
	}
	trailer, ok := obj.(Dict)
	if !ok {
		return nil, fmt.Errorf("trailer is not a dictionary, got %v", KindOf(obj))
	}
	table.Trailer = trailer
	return table, nil
}

func parseXRefEntry(lex *Lexer) (XRefEntry, error) {
	offTok, err := lex.NextToken()
	if err != nil {
		return XRefEntry{}, err
	}
	genTok, err := lex.NextToken()
	if err != nil {
		return XRefEntry{}, err
	}
	flagTok, err := lex.NextToken()
	if err != nil {
		return XRefEntry{}, err
	}
	if offTok.Type != TokenInteger || genTok.Type != TokenInteger || flagTok.Type != TokenKeyword {
		return XRefEntry{}, fmt.Errorf("malformed entry at position %d", offTok.Pos)
	}
	offset, err := strconv.ParseInt(string(offTok.Value), 10, 64)
	if err != nil {
		return XRefEntry{}, fmt.Errorf("invalid offset %q: %w", offTok.Value, err)
	}
	gen, err := strconv.ParseUint(string(genTok.Value), 10, 16)
	if err != nil {
		return XRefEntry{}, fmt.Errorf("invalid generation %q: %w", genTok.Value, err)
	}

	entry := XRefEntry{Offset: offset, Generation: uint16(gen)}
	switch string(flagTok.Value) {
	case "n":
		entry.Type = XRefInFile
	case "f":
		entry.Type = XRefFree
	default:
		return XRefEntry{}, fmt.Errorf("invalid in-use flag %q", flagTok.Value)
	}
	return entry, nil
}

// parseXRefStream parses a /Type /XRef stream (PDF 1.5+)
func parseXRefStream(data []byte, offset int, doc Document) (*XRefTable, error) {
	p := NewParserAt(data, offset)
	p.SetDocument(doc)
	ind, err := p.ParseIndirectObject()
	if err != nil {
		return nil, fmt.Errorf("failed to parse xref stream: %w", err)
	}
	stream, ok := ind.Object.(*Stream)
	if !ok {
		return nil, fmt.Errorf("xref stream object %d is a %v", ind.Ref.Number, KindOf(ind.Object))
	}
	if t, _ := stream.Dict.GetName("Type"); t != "XRef" {
		return nil, fmt.Errorf("object %d is not an xref stream", ind.Ref.Number)
	}

	widths, err := xrefWidths(stream.Dict)
	if err != nil {
		return nil, err
	}
	sections, err := xrefIndex(stream.Dict)
	if err != nil {
		return nil, err
	}
	decoded, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode xref stream: %w", err)
	}

	table := NewXRefTable()
	table.Trailer = stream.Dict

	rowLen := widths[0] + widths[1] + widths[2]
	pos := 0
	for _, sec := range sections {
		for i := 0; i < sec[1]; i++ {
			if pos+rowLen > len(decoded) {
				return table, nil
			}
			row := decoded[pos : pos+rowLen]
			pos += rowLen

			typ := 1
			if widths[0] > 0 {
				typ = int(readField(row[:widths[0]]))
			}
			f2 := readField(row[widths[0] : widths[0]+widths[1]])
			f3 := readField(row[widths[0]+widths[1]:])

			num := uint32(sec[0] + i)
			var entry XRefEntry
			switch typ {
			case 0:
				entry = XRefEntry{Type: XRefFree, Generation: uint16(f3)}
			case 1:
				entry = XRefEntry{Type: XRefInFile, Offset: int64(f2), Generation: uint16(f3)}
			case 2:
				entry = XRefEntry{Type: XRefCompressed, StreamNum: uint32(f2), Index: int(f3)}
			default:
				// reserved types are treated as null references
				continue
			}
			table.Entries[num] = entry
		}
	}
	return table, nil
}

func xrefWidths(dict Dict) ([3]int, error) {
	var widths [3]int
	arr, ok := dict.GetArray("W")
	if !ok || arr.Len() != 3 {
		return widths, fmt.Errorf("xref stream has invalid /W")
	}
	for i := range widths {
		w, ok := arr[i].(Int)
		if !ok || w < 0 || w > 8 {
			return widths, fmt.Errorf("xref stream has invalid /W entry %d", i)
		}
		widths[i] = int(w)
	}
	return widths, nil
}

func xrefIndex(dict Dict) ([][2]int, error) {
	arr, ok := dict.GetArray("Index")
	if !ok {
		size, ok := dict.GetInt("Size")
		if !ok {
			return nil, fmt.Errorf("xref stream missing /Size")
		}
		return [][2]int{{0, int(size)}}, nil
	}
	if arr.Len()%2 != 0 {
		return nil, fmt.Errorf("xref stream /Index has odd length")
	}
	var sections [][2]int
	for i := 0; i < arr.Len(); i += 2 {
		first, ok1 := arr[i].(Int)
		count, ok2 := arr[i+1].(Int)
		if !ok1 || !ok2 || first < 0 || count < 0 {
			return nil, fmt.Errorf("xref stream /Index entry %d is invalid", i/2)
		}
		sections = append(sections, [2]int{int(first), int(count)})
	}
	return sections, nil
}

func readField(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

// ReconstructXRef scans the whole file for "num gen obj" headers and the
// last trailer dictionary. Readers fall back to it when the recorded
// cross-reference data is unusable.
func ReconstructXRef(data []byte) (*XRefTable, error) {
	table := NewXRefTable()
	objKeyword := []byte(" obj")

	for pos := 0; pos < len(data); {
		idx := bytes.Index(data[pos:], objKeyword)
		if idx < 0 {
			break
		}
		at := pos + idx
		pos = at + len(objKeyword)

		start := lineStart(data, at)
		p := NewParserAt(data, start)
		numTok, err1 := p.next()
		genTok, err2 := p.next()
		if err1 != nil || err2 != nil || numTok.Type != TokenInteger || genTok.Type != TokenInteger {
			continue
		}
		num, err := strconv.ParseUint(string(numTok.Value), 10, 32)
		if err != nil {
			continue
		}
		gen, _ := strconv.ParseUint(string(genTok.Value), 10, 16)
		table.Entries[uint32(num)] = XRefEntry{Type: XRefInFile, Offset: int64(numTok.Pos), Generation: uint16(gen)}
	}

	if idx := bytes.LastIndex(data, []byte("trailer")); idx >= 0 {
		p := NewParserAt(data, idx+len("trailer"))
		if obj, err := p.ParseObject(); err == nil {
			if dict, ok := obj.(Dict); ok {
				table.Trailer = dict
			}
		}
	}

	if len(table.Entries) == 0 {
		return nil, fmt.Errorf("no objects found while reconstructing xref")
	}
	return table, nil
}

// lineStart walks back from at to the start of "num gen" on the same line
func lineStart(data []byte, at int) int {
	i := at
	for i > 0 && data[i-1] != '\n' && data[i-1] != '\r' && at-i < 32 {
		i--
	}
	return i
}
