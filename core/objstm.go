package core

import (
	"fmt"
	"strconv"
)

// ObjectStream is a decoded /Type /ObjStm stream. Objects are parsed lazily
// and cached by index.
type ObjectStream struct {
	n       int
	first   int
	extends *Reference
	offsets []objStmOffset
	decoded []byte
	objects map[int]Object
}

type objStmOffset struct {
	num    uint32
	offset int
}

// NewObjectStream decodes stream and parses its offset header
func NewObjectStream(stream *Stream) (*ObjectStream, error) {
	if stream == nil {
		return nil, fmt.Errorf("stream is nil")
	}
	if t, _ := stream.Dict.GetName("Type"); t != "ObjStm" {
		return nil, fmt.Errorf("stream is not an object stream, got type %q", t)
	}
	n, ok := stream.Dict.GetInt("N")
	if !ok || n < 0 {
		return nil, fmt.Errorf("object stream has invalid /N")
	}
	first, ok := stream.Dict.GetInt("First")
	if !ok || first < 0 {
		return nil, fmt.Errorf("object stream has invalid /First")
	}

	os := &ObjectStream{
		n:       int(n),
		first:   int(first),
		objects: make(map[int]Object),
	}
	if ref, ok := stream.Dict.GetReference("Extends"); ok {
		os.extends = &ref
	}

	decoded, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode object stream: %w", err)
	}
	os.decoded = decoded

	if err := os.parseOffsets(); err != nil {
		return nil, err
	}
	return os, nil
}

// parseOffsets reads the N pairs of "objnum offset" preceding /First
func (os *ObjectStream) parseOffsets() error {
	if os.first > len(os.decoded) {
		return fmt.Errorf("/First %d beyond decoded length %d", os.first, len(os.decoded))
	}
	lex := NewLexer(os.decoded[:os.first])
	os.offsets = make([]objStmOffset, 0, os.n)

	for i := 0; i < os.n; i++ {
		numTok, err := lex.NextToken()
		if err != nil {
			return fmt.Errorf("failed to read object number %d: %w", i, err)
		}
		offTok, err := lex.NextToken()
		if err != nil {
			return fmt.Errorf("failed to read offset %d: %w", i, err)
		}
		if numTok.Type != TokenInteger || offTok.Type != TokenInteger {
			if numTok.Type == TokenEOF {
				// fewer pairs than /N claims
				break
			}
			return fmt.Errorf("malformed object stream header at pair %d", i)
		}
		num, err := strconv.ParseUint(string(numTok.Value), 10, 32)
		if err != nil {
			return fmt.Errorf("invalid object number %q", numTok.Value)
		}
		off, err := strconv.Atoi(string(offTok.Value))
		if err != nil || off < 0 {
			return fmt.Errorf("invalid offset %q", offTok.Value)
		}
		os.offsets = append(os.offsets, objStmOffset{num: uint32(num), offset: off})
	}
	return nil
}

// N returns the number of objects the header lists
func (os *ObjectStream) N() int {
	return len(os.offsets)
}

// Extends returns the /Extends reference, if any
func (os *ObjectStream) Extends() (Reference, bool) {
	if os.extends == nil {
		return Reference{}, false
	}
	return *os.extends, true
}

// ObjectNumber returns the object number stored at index
func (os *ObjectStream) ObjectNumber(index int) (uint32, bool) {
	if index < 0 || index >= len(os.offsets) {
		return 0, false
	}
	return os.offsets[index].num, true
}

// GetObjectByIndex parses the object at index
func (os *ObjectStream) GetObjectByIndex(index int) (Object, error) {
	if obj, ok := os.objects[index]; ok {
		return obj, nil
	}
	if index < 0 || index >= len(os.offsets) {
		return nil, fmt.Errorf("object stream index %d out of range [0,%d)", index, len(os.offsets))
	}

	start := os.first + os.offsets[index].offset
	if start > len(os.decoded) {
		return nil, fmt.Errorf("object offset %d beyond stream data", start)
	}
	obj, err := NewParserAt(os.decoded, start).ParseObject()
	if err != nil {
		return nil, fmt.Errorf("failed to parse object %d in object stream: %w", os.offsets[index].num, err)
	}
	os.objects[index] = obj
	return obj, nil
}

// GetObject finds num among the stored objects
func (os *ObjectStream) GetObject(num uint32) (Object, error) {
	for i, off := range os.offsets {
		if off.num == num {
			return os.GetObjectByIndex(i)
		}
	}
	return nil, fmt.Errorf("object %d not found in object stream", num)
}
